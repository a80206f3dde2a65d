package scene

import (
	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/geometry"
	"github.com/df07/go-hybrid-raytracer/pkg/material"
)

// NewCornellScene creates a closed box lit only by an emissive ceiling panel.
// Walls are traced quads; the objects inside are marched.
func NewCornellScene() *Scene {
	s := New("cornell")
	s.Camera = Camera{Origin: core.NewVec3(0, 1, 2.4), VFov: 50}
	s.Sky = material.Material{Color: core.NewVec3(0, 0, 0), Emission: 0}
	s.SamplingConfig.Width = 300
	s.SamplingConfig.Height = 300

	white := material.NewDiffuse(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewDiffuse(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewDiffuse(core.NewVec3(0.12, 0.45, 0.15))
	light := material.NewEmissive(core.NewVec3(1, 1, 1), 1)
	mirror := material.NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0)

	// Box spans x in [-1,1], y in [0,2], z in [-2,0]
	s.AddTraceable(
		geometry.NewQuad(core.NewVec3(-1, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, -2), white),             // floor
		geometry.NewQuad(core.NewVec3(-1, 2, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, -2), white),             // ceiling
		geometry.NewQuad(core.NewVec3(-1, 0, -2), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), white),             // back
		geometry.NewQuad(core.NewVec3(-1, 0, 0), core.NewVec3(0, 0, -2), core.NewVec3(0, 2, 0), red),               // left
		geometry.NewQuad(core.NewVec3(1, 0, 0), core.NewVec3(0, 0, -2), core.NewVec3(0, 2, 0), green),              // right
		geometry.NewQuad(core.NewVec3(-0.3, 1.99, -0.7), core.NewVec3(0.6, 0, 0), core.NewVec3(0, 0, -0.6), light), // lamp
	)

	s.AddMarchable(
		geometry.NewSDFBox(core.NewVec3(-0.35, 0.5, -1.3), core.NewVec3(0.3, 0.5, 0.3), 0.02, white),
		geometry.NewSDFSphere(core.NewVec3(0.4, 0.35, -0.8), 0.35, mirror),
	)

	return s
}
