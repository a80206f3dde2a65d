package renderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/integrator"
	"github.com/df07/go-hybrid-raytracer/pkg/material"
	"github.com/df07/go-hybrid-raytracer/pkg/scene"
)

func TestVec3ToColor(t *testing.T) {
	tests := []struct {
		name     string
		input    core.Vec3
		expected color.RGBA
	}{
		{"black", core.NewVec3(0, 0, 0), color.RGBA{0, 0, 0, 255}},
		{"white", core.NewVec3(1, 1, 1), color.RGBA{255, 255, 255, 255}},
		{"gamma corrected quarter", core.NewVec3(0.25, 0.25, 0.25), color.RGBA{127, 127, 127, 255}},
		{"overexposed clamps", core.NewVec3(4, 2, 1.5), color.RGBA{255, 255, 255, 255}},
		{"mixed", core.NewVec3(1, 0, 0.25), color.RGBA{255, 0, 127, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, vec3ToColor(tt.input))
		})
	}
}

func TestRaytracer_RenderPassEmptyScene(t *testing.T) {
	sc := scene.New("empty")
	sc.Sky = material.Material{Color: core.NewVec3(1, 0.25, 0), Emission: 1}
	integ := integrator.NewShadingIntegrator(integrator.ShadingConfig{Budget: integrator.DefaultBudget()})

	img, stats := NewRaytracer(sc, integ, 6, 4).RenderPass(3)

	assert.Equal(t, image.Rect(0, 0, 6, 4), img.Bounds())
	assert.Equal(t, 24, stats.TotalPixels)
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			assert.Equal(t, color.RGBA{255, 127, 0, 255}, img.RGBAAt(x, y))
		}
	}
}

func TestRaytracer_RenderPassDeterministic(t *testing.T) {
	sc := scene.NewDefaultScene()
	integ := integrator.NewShadingIntegrator(integrator.ShadingConfig{Budget: integrator.Budget{Bounces: 2, Samples: 2}})

	a, _ := NewRaytracer(sc, integ, 8, 6).RenderPass(1)
	b, _ := NewRaytracer(sc, integ, 8, 6).RenderPass(1)
	assert.Equal(t, a.Pix, b.Pix)
}
