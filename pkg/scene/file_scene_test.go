package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/geometry"
	"github.com/df07/go-hybrid-raytracer/pkg/loaders"
	"github.com/df07/go-hybrid-raytracer/pkg/material"
)

func TestFromFile_Defaults(t *testing.T) {
	s, err := FromFile(&loaders.SceneFile{Name: "bare"})
	require.NoError(t, err)

	assert.Equal(t, "bare", s.Name)
	assert.Equal(t, DefaultCamera(), s.Camera)
	assert.Equal(t, material.Sky(), s.Sky)
	assert.Equal(t, DefaultSamplingConfig(), s.SamplingConfig)
	assert.Zero(t, s.GetPrimitiveCount())
}

func TestFromFile_Conversion(t *testing.T) {
	red := loaders.MaterialSpec{Color: loaders.Vec{1, 0, 0}, Roughness: 1}
	sf := &loaders.SceneFile{
		Name:   "mixed",
		Camera: loaders.CameraSpec{Origin: loaders.Vec{0, 1, 2}, VFov: 45},
		Sky:    &loaders.MaterialSpec{Color: loaders.Vec{0.1, 0.2, 0.3}, Emission: 2},
		Render: loaders.RenderSpec{Width: 32, Height: 16, Bounces: intPtr(2), Samples: 3, Passes: 5, SamplesPerPixel: 7, TileSize: 8, Workers: 3},
		Marched: []loaders.ObjectSpec{
			{Shape: "sphere", Center: loaders.Vec{0, 0, -3}, Radius: 1, Material: red},
			{Shape: "box", Center: loaders.Vec{2, 0, -3}, Size: loaders.Vec{0.5, 0.5, 0.5}, Rounding: 0.1, Material: red},
			{Shape: "torus", Center: loaders.Vec{-2, 0, -3}, MajorRadius: 0.5, MinorRadius: 0.1, Material: red},
			{Shape: "plane", Point: loaders.Vec{0, -1, 0}, Normal: loaders.Vec{0, 1, 0}, Material: red},
		},
		Traced: []loaders.ObjectSpec{
			{Shape: "sphere", Center: loaders.Vec{0, 2, -3}, Radius: 0.5, Material: red},
			{Shape: "box", Center: loaders.Vec{0, 0, -6}, Size: loaders.Vec{1, 1, 1}, Material: red},
			{Shape: "plane", Point: loaders.Vec{0, 0, -10}, Normal: loaders.Vec{0, 0, 1}, Material: red},
			{Shape: "disc", Center: loaders.Vec{0, 3, -3}, Normal: loaders.Vec{0, -1, 0}, Radius: 0.5, Material: red},
			{Shape: "quad", Corner: loaders.Vec{-1, 0, -4}, U: loaders.Vec{2, 0, 0}, V: loaders.Vec{0, 2, 0}, Material: red},
		},
	}

	s, err := FromFile(sf)
	require.NoError(t, err)

	assert.Equal(t, Camera{Origin: core.NewVec3(0, 1, 2), VFov: 45}, s.Camera)
	assert.Equal(t, core.NewVec3(0.2, 0.4, 0.6), s.Sky.Emitted())
	assert.Equal(t, 32, s.SamplingConfig.Width)
	assert.Equal(t, 16, s.SamplingConfig.Height)
	assert.Equal(t, 2, s.SamplingConfig.Bounces)
	assert.Equal(t, 3, s.SamplingConfig.Samples)
	assert.Equal(t, 5, s.SamplingConfig.MaxPasses)
	assert.Equal(t, 7, s.SamplingConfig.SamplesPerPixel)
	assert.Equal(t, 8, s.SamplingConfig.TileSize)
	assert.Equal(t, 3, s.SamplingConfig.Workers)

	require.Len(t, s.Marchables, 4)
	assert.IsType(t, &geometry.SDFSphere{}, s.Marchables[0])
	assert.IsType(t, &geometry.SDFBox{}, s.Marchables[1])
	assert.IsType(t, &geometry.SDFTorus{}, s.Marchables[2])
	assert.IsType(t, &geometry.SDFPlane{}, s.Marchables[3])
	assert.InDelta(t, 2.0, s.Marchables[0].SDF(core.NewVec3(0, 0, 0)), 1e-12)

	require.Len(t, s.Traceables, 5)
	assert.IsType(t, &geometry.Sphere{}, s.Traceables[0])
	assert.IsType(t, &geometry.Box{}, s.Traceables[1])
	assert.IsType(t, &geometry.Plane{}, s.Traceables[2])
	assert.IsType(t, &geometry.Disc{}, s.Traceables[3])
	assert.IsType(t, &geometry.Quad{}, s.Traceables[4])
	assert.Equal(t, core.NewVec3(1, 0, 0), s.Traceables[0].Material().Color)
}

func intPtr(v int) *int { return &v }

func TestFromFile_ZeroBounces(t *testing.T) {
	s, err := FromFile(&loaders.SceneFile{Render: loaders.RenderSpec{Bounces: intPtr(0)}})
	require.NoError(t, err)
	assert.Equal(t, 0, s.SamplingConfig.Bounces)

	// An absent bounces key keeps the default
	s, err = FromFile(&loaders.SceneFile{})
	require.NoError(t, err)
	assert.Equal(t, DefaultSamplingConfig().Bounces, s.SamplingConfig.Bounces)
}

func TestFromFile_NegativeBouncesRejected(t *testing.T) {
	_, err := FromFile(&loaders.SceneFile{Render: loaders.RenderSpec{Bounces: intPtr(-1)}})
	assert.ErrorIs(t, err, ErrInvalidScene)
}

func TestFromFile_BoxRounding(t *testing.T) {
	box := func(rounding float64) *loaders.SceneFile {
		return &loaders.SceneFile{Marched: []loaders.ObjectSpec{{
			Shape: "box", Size: loaders.Vec{1, 0.25, 1}, Rounding: rounding,
		}}}
	}

	_, err := FromFile(box(0.25))
	assert.NoError(t, err, "rounding equal to the smallest half-extent is allowed")

	_, err = FromFile(box(0.3))
	assert.ErrorIs(t, err, ErrInvalidScene)
}

func TestFromFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    loaders.SceneFile
		wantErr error
	}{
		{
			name:    "traced torus",
			file:    loaders.SceneFile{Traced: []loaders.ObjectSpec{{Shape: "torus", MajorRadius: 1, MinorRadius: 0.1}}},
			wantErr: ErrUnknownShape,
		},
		{
			name:    "marched quad",
			file:    loaders.SceneFile{Marched: []loaders.ObjectSpec{{Shape: "quad"}}},
			wantErr: ErrUnknownShape,
		},
		{
			name:    "misspelled shape",
			file:    loaders.SceneFile{Marched: []loaders.ObjectSpec{{Shape: "shpere", Radius: 1}}},
			wantErr: ErrUnknownShape,
		},
		{
			name:    "zero radius",
			file:    loaders.SceneFile{Traced: []loaders.ObjectSpec{{Shape: "sphere"}}},
			wantErr: ErrInvalidScene,
		},
		{
			name:    "flat box",
			file:    loaders.SceneFile{Marched: []loaders.ObjectSpec{{Shape: "box", Size: loaders.Vec{1, 0, 1}}}},
			wantErr: ErrInvalidScene,
		},
		{
			name:    "box rounding beyond half-extent",
			file:    loaders.SceneFile{Marched: []loaders.ObjectSpec{{Shape: "box", Size: loaders.Vec{0.5, 2, 2}, Rounding: 1}}},
			wantErr: ErrInvalidScene,
		},
		{
			name:    "zero plane normal",
			file:    loaders.SceneFile{Traced: []loaders.ObjectSpec{{Shape: "plane"}}},
			wantErr: ErrInvalidScene,
		},
		{
			name:    "degenerate quad",
			file:    loaders.SceneFile{Traced: []loaders.ObjectSpec{{Shape: "quad", U: loaders.Vec{1, 0, 0}, V: loaders.Vec{2, 0, 0}}}},
			wantErr: ErrInvalidScene,
		},
		{
			name:    "camera fov out of range",
			file:    loaders.SceneFile{Camera: loaders.CameraSpec{VFov: 180}},
			wantErr: ErrInvalidScene,
		},
		{
			name: "material weight out of range",
			file: loaders.SceneFile{Traced: []loaders.ObjectSpec{{
				Shape: "sphere", Radius: 1, Material: loaders.MaterialSpec{Metallic: 1.5},
			}}},
			wantErr: material.ErrInvalidMaterial,
		},
		{
			name:    "negative sky emission",
			file:    loaders.SceneFile{Sky: &loaders.MaterialSpec{Emission: -1}},
			wantErr: material.ErrInvalidMaterial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromFile(&tt.file)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
