package geometry

import (
	"math"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/material"
)

// Disc represents a circular disc in 3D space
type Disc struct {
	Center   core.Vec3 // Center of the disc
	Normal   core.Vec3 // Normal vector (pointing "up" from the disc)
	Radius   float64
	material material.Material
}

// NewDisc creates a new disc
func NewDisc(center, normal core.Vec3, radius float64, mat material.Material) *Disc {
	return &Disc{
		Center:   center,
		Normal:   normal.Normalize(),
		Radius:   radius,
		material: mat,
	}
}

// Material returns the disc's material
func (d *Disc) Material() material.Material {
	return d.material
}

// Trace tests the ray against the disc's plane, then the radius
func (d *Disc) Trace(ray core.Ray) (bool, float64, core.Vec3) {
	denom := d.Normal.Dot(ray.Direction)
	if math.Abs(denom) < 1e-6 {
		return false, math.Inf(1), core.Vec3{}
	}

	t := d.Normal.Dot(d.Center.Subtract(ray.Origin)) / denom
	if t <= core.Epsilon {
		return false, math.Inf(1), core.Vec3{}
	}

	if ray.At(t).Subtract(d.Center).LengthSquared() > d.Radius*d.Radius {
		return false, math.Inf(1), core.Vec3{}
	}

	return true, t, faceNormal(ray, d.Normal)
}
