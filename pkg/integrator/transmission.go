package integrator

import (
	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/intersect"
)

// Shade recursively evaluates radiance along a secondary ray
type Shade func(ray core.Ray, budget Budget) core.Vec3

// TransmissionInput is what a transmission term sees at a shading point
type TransmissionInput struct {
	Incoming core.Ray             // Ray that produced the hit
	Hit      intersect.CastResult // Hit being shaded
	Point    core.Vec3            // Hit position on the surface
	Budget   Budget               // Budget of the current level; use Descend for recursion
	Sampler  core.Sampler
}

// TransmissionTerm computes light passing through a surface. It is blended by
// Material.Transmission against the diffuse term, so a fresnel-weighted
// reflect/refract split can be plugged in without touching the blend.
type TransmissionTerm interface {
	Transmission(in TransmissionInput, shade Shade) core.Vec3
}

// NoTransmission contributes nothing
type NoTransmission struct{}

// Transmission returns the zero vector
func (NoTransmission) Transmission(in TransmissionInput, shade Shade) core.Vec3 {
	return core.Vec3{}
}
