package scene

import (
	"math"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/geometry"
	"github.com/df07/go-hybrid-raytracer/pkg/material"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewVec3(r, g, blue).Clamp(0, 1)
}

// NewMirrorScene lays a grid of traced metal spheres on a marched mirror floor.
// Hue varies across the grid and roughness grows with distance from the camera.
func NewMirrorScene() *Scene {
	s := New("mirror")
	s.Camera = Camera{Origin: core.NewVec3(0, 1.0, 3.0), VFov: 70}
	s.Sky = material.Material{Color: core.NewVec3(0.6, 0.75, 1.0), Emission: 1.2}
	s.SamplingConfig.Bounces = 3
	s.SamplingConfig.Samples = 8

	floor := material.Material{Color: core.NewVec3(0.9, 0.9, 0.95), Metallic: 0.8, Roughness: 0, Specular: 0.1}
	s.AddMarchable(
		geometry.NewSDFPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), floor),
		geometry.NewSDFTorus(core.NewVec3(0, 0.25, -6), 1.2, 0.25, material.NewEmissive(core.NewVec3(1.0, 0.85, 0.6), 2)),
	)

	gridSize := 5
	spacing := 0.9
	radius := 0.3

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := (float64(i) - float64(gridSize-1)/2) * spacing
			z := -1.0 - float64(j)*spacing

			hue := float64(i) / float64(gridSize) * 360.0
			chroma := 0.08 + 0.15*float64(j)/float64(gridSize-1)
			lightness := 0.7 + 0.05*math.Sin(float64(i+j))
			roughness := 0.35 * float64(j) / float64(gridSize-1)

			s.AddTraceable(geometry.NewSphere(
				core.NewVec3(x, radius, z),
				radius,
				material.NewMetal(oklchToRGB(lightness, chroma, hue), roughness),
			))
		}
	}

	return s
}
