package scene

import (
	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/geometry"
	"github.com/df07/go-hybrid-raytracer/pkg/material"
)

// NewDefaultScene mixes marched and traced objects on a marched ground plane
func NewDefaultScene() *Scene {
	s := New("default")
	s.Camera = Camera{Origin: core.NewVec3(0, 0.6, 1.5), VFov: 60}
	s.Sky = material.Material{Color: core.NewVec3(0.7, 0.8, 1.0), Emission: 1}

	// Create materials
	ground := material.NewDiffuse(core.NewVec3(0.8, 0.8, 0.0).Multiply(0.6))
	matteRed := material.NewDiffuse(core.NewVec3(0.65, 0.25, 0.2))
	matteBlue := material.NewDiffuse(core.NewVec3(0.1, 0.2, 0.5))
	silver := material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.0)
	brushedGold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)
	glossyWhite := material.Material{Color: core.NewVec3(0.9, 0.9, 0.9), Roughness: 0.5, Specular: 0.2}
	lamp := material.NewEmissive(core.NewVec3(1.0, 0.9, 0.7), 1.0)

	// Marched: ground, a torus and a rounded box
	s.AddMarchable(
		geometry.NewSDFPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), ground),
		geometry.NewSDFTorus(core.NewVec3(-1.1, 0.15, -1.5), 0.45, 0.15, brushedGold),
		geometry.NewSDFBox(core.NewVec3(1.1, 0.3, -1.6), core.NewVec3(0.3, 0.3, 0.3), 0.05, matteBlue),
	)

	// Traced: spheres and a small lamp disc
	s.AddTraceable(
		geometry.NewSphere(core.NewVec3(0, 0.5, -1.5), 0.5, matteRed),
		geometry.NewSphere(core.NewVec3(-0.45, 0.2, -0.7), 0.2, silver),
		geometry.NewSphere(core.NewVec3(0.5, 0.2, -0.6), 0.2, glossyWhite),
		geometry.NewDisc(core.NewVec3(0, 2.5, -1.5), core.NewVec3(0, -1, 0), 0.5, lamp),
	)

	return s
}

// NewEmptyScene contains nothing but sky
func NewEmptyScene() *Scene {
	s := New("empty")
	s.Sky = material.Material{Color: core.NewVec3(1, 1, 1), Emission: 1}
	return s
}
