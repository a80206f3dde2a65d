package geometry

import (
	"math"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		material: mat,
	}
}

// Material returns the sphere's material
func (s *Sphere) Material() material.Material {
	return s.material
}

// Trace tests if a ray intersects with the sphere
func (s *Sphere) Trace(ray core.Ray) (bool, float64, core.Vec3) {
	// Vector from ray origin to sphere center
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return false, math.Inf(1), core.Vec3{}
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root <= core.Epsilon {
		// Origin is inside the sphere or on its surface
		root = (-halfB + sqrtD) / a
		if root <= core.Epsilon {
			return false, math.Inf(1), core.Vec3{}
		}
	}

	// Outward normal (from center to hit point)
	outwardNormal := ray.At(root).Subtract(s.Center).Multiply(1.0 / s.Radius)
	return true, root, faceNormal(ray, outwardNormal)
}
