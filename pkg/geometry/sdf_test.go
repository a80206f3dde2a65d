package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/material"
)

func TestSDFs_KnownDistances(t *testing.T) {
	blank := material.Blank()
	tests := []struct {
		name     string
		object   Marchable
		point    core.Vec3
		expected float64
	}{
		{"sphere outside", NewSDFSphere(core.NewVec3(0, 0, 0), 1, blank), core.NewVec3(0, 0, 3), 2},
		{"sphere inside", NewSDFSphere(core.NewVec3(0, 0, 0), 1, blank), core.NewVec3(0, 0, 0), -1},
		{"box face", NewSDFBox(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), 0, blank), core.NewVec3(3, 0, 0), 2},
		{"box corner", NewSDFBox(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), 0, blank), core.NewVec3(2, 2, 1), math.Sqrt2},
		{"box inside", NewSDFBox(core.NewVec3(0, 0, 0), core.NewVec3(1, 2, 3), 0, blank), core.NewVec3(0, 0, 0), -1},
		{"rounded box keeps face distance", NewSDFBox(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), 0.25, blank), core.NewVec3(3, 0, 0), 2},
		{"torus tube center", NewSDFTorus(core.NewVec3(0, 0, 0), 2, 0.5, blank), core.NewVec3(2, 0, 0), -0.5},
		{"torus above tube", NewSDFTorus(core.NewVec3(0, 0, 0), 2, 0.5, blank), core.NewVec3(0, 1, 2), 0.5},
		{"torus hole", NewSDFTorus(core.NewVec3(0, 0, 0), 2, 0.5, blank), core.NewVec3(0, 0, 0), 1.5},
		{"plane above", NewSDFPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), blank), core.NewVec3(5, 2, -3), 3},
		{"plane below", NewSDFPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), blank), core.NewVec3(0, -2, 0), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.object.SDF(tt.point), 1e-9)
		})
	}
}

// Sphere marching relies on |f(a) - f(b)| <= |a - b|
func TestSDFs_Lipschitz(t *testing.T) {
	blank := material.Blank()
	objects := []Marchable{
		NewSDFSphere(core.NewVec3(0.3, -0.2, 0.1), 0.7, blank),
		NewSDFBox(core.NewVec3(0, 0.5, 0), core.NewVec3(0.5, 1, 0.25), 0.1, blank),
		NewSDFTorus(core.NewVec3(0, 0, 0), 1, 0.3, blank),
		NewSDFPlane(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 0), blank),
	}

	sampler := core.NewSeededSampler(42)
	for _, object := range objects {
		for i := 0; i < 2000; i++ {
			a := sampler.Get3D().Multiply(6).Subtract(core.NewVec3(3, 3, 3))
			b := a.Add(core.SampleUnitBall(sampler).Multiply(0.5))
			diff := math.Abs(object.SDF(a) - object.SDF(b))
			assert.LessOrEqual(t, diff, a.Subtract(b).Length()+1e-9, "%T at %v / %v", object, a, b)
		}
	}
}
