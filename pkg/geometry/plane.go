package geometry

import (
	"math"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/material"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point    core.Vec3 // A point on the plane
	Normal   core.Vec3 // Unit normal
	material material.Material
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3, mat material.Material) *Plane {
	return &Plane{
		Point:    point,
		Normal:   normal.Normalize(),
		material: mat,
	}
}

// Material returns the plane's material
func (p *Plane) Material() material.Material {
	return p.material
}

// Trace tests if a ray intersects with the plane
func (p *Plane) Trace(ray core.Ray) (bool, float64, core.Vec3) {
	denominator := ray.Direction.Dot(p.Normal)

	// Ray is parallel to the plane
	if math.Abs(denominator) < 1e-8 {
		return false, math.Inf(1), core.Vec3{}
	}

	// t = (point_on_plane - ray_origin) · normal / (ray_direction · normal)
	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if t <= core.Epsilon {
		return false, math.Inf(1), core.Vec3{}
	}

	return true, t, faceNormal(ray, p.Normal)
}
