package geometry

import (
	"math"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/material"
)

// Quad represents a rectangular surface defined by a corner and two edge vectors
type Quad struct {
	Corner   core.Vec3 // One corner of the quad
	U        core.Vec3 // First edge vector
	V        core.Vec3 // Second edge vector
	Normal   core.Vec3 // Normal vector (computed from U × V)
	D        float64   // Plane equation constant: ax + by + cz = d
	W        core.Vec3 // Cached cross product for barycentric coordinates
	material material.Material
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner, u, v core.Vec3, mat material.Material) *Quad {
	cross := u.Cross(v)
	normal := cross.Normalize()

	return &Quad{
		Corner:   corner,
		U:        u,
		V:        v,
		Normal:   normal,
		D:        normal.Dot(corner),
		W:        normal.Multiply(1.0 / normal.Dot(cross)),
		material: mat,
	}
}

// Material returns the quad's material
func (q *Quad) Material() material.Material {
	return q.material
}

// Trace tests if a ray intersects with the quad
func (q *Quad) Trace(ray core.Ray) (bool, float64, core.Vec3) {
	denominator := ray.Direction.Dot(q.Normal)
	if math.Abs(denominator) < 1e-8 {
		return false, math.Inf(1), core.Vec3{}
	}

	t := (q.D - ray.Origin.Dot(q.Normal)) / denominator
	if t <= core.Epsilon {
		return false, math.Inf(1), core.Vec3{}
	}

	// Barycentric bounds check
	hitVector := ray.At(t).Subtract(q.Corner)
	alpha := q.W.Dot(hitVector.Cross(q.V))
	beta := q.W.Dot(q.U.Cross(hitVector))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return false, math.Inf(1), core.Vec3{}
	}

	return true, t, faceNormal(ray, q.Normal)
}
