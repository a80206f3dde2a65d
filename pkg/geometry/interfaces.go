package geometry

import (
	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/material"
)

// Marchable is an implicit surface described by a signed distance function.
// SDF must be 1-Lipschitz: it may underestimate the distance to the surface
// but never overstate how close a point is.
type Marchable interface {
	SDF(point core.Vec3) float64
	Material() material.Material
}

// Traceable is an explicit primitive with a closed-form ray intersection.
// Trace reports the nearest hit farther than core.Epsilon along the ray,
// with a unit normal facing against the ray.
type Traceable interface {
	Trace(ray core.Ray) (hit bool, distance float64, normal core.Vec3)
	Material() material.Material
}

// faceNormal orients an outward normal against the incoming ray
func faceNormal(ray core.Ray, outwardNormal core.Vec3) core.Vec3 {
	if ray.Direction.Dot(outwardNormal) > 0 {
		return outwardNormal.Negate()
	}
	return outwardNormal
}
