package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/material"
)

func TestSphere_Trace_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, material.Blank())
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, distance, _ := sphere.Trace(ray)
	assert.False(t, hit)
	assert.True(t, math.IsInf(distance, 1))
}

func TestSphere_Trace_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, material.Blank())

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 5),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      4.0,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "from inside",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "leaving the surface skips the near root",
			rayOrigin:      core.NewVec3(0, 0, 1),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      2.0,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, distance, normal := sphere.Trace(core.NewRay(tt.rayOrigin, tt.rayDirection))
			require.True(t, hit)
			assert.InDelta(t, tt.expectedT, distance, 1e-9)
			assert.InDelta(t, 0, normal.Subtract(tt.expectedNormal).Length(), 1e-9)
		})
	}
}

func TestSphere_Trace_BehindOrigin(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -5), 1.0, material.Blank())
	hit, _, _ := sphere.Trace(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)))
	assert.False(t, hit)
}

func TestSphere_Material(t *testing.T) {
	mat := material.NewDiffuse(core.NewVec3(0.2, 0.4, 0.6))
	assert.Equal(t, mat, NewSphere(core.Vec3{}, 1, mat).Material())
}
