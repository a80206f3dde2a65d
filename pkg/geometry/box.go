package geometry

import (
	"math"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/material"
)

// Box is an axis-aligned box traced with the slab method.
// Size holds half-extents, so a size of (1,1,1) creates a 2x2x2 box.
type Box struct {
	Center   core.Vec3
	Size     core.Vec3
	material material.Material
}

// NewBox creates a new axis-aligned box
func NewBox(center, size core.Vec3, mat material.Material) *Box {
	return &Box{
		Center:   center,
		Size:     size,
		material: mat,
	}
}

// Material returns the box's material
func (b *Box) Material() material.Material {
	return b.material
}

// Trace intersects the ray with the three slabs of the box
func (b *Box) Trace(ray core.Ray) (bool, float64, core.Vec3) {
	minCorner := b.Center.Subtract(b.Size)
	maxCorner := b.Center.Add(b.Size)

	origin := [3]float64{ray.Origin.X, ray.Origin.Y, ray.Origin.Z}
	dir := [3]float64{ray.Direction.X, ray.Direction.Y, ray.Direction.Z}
	lo := [3]float64{minCorner.X, minCorner.Y, minCorner.Z}
	hi := [3]float64{maxCorner.X, maxCorner.Y, maxCorner.Z}

	tNear, tFar := math.Inf(-1), math.Inf(1)
	nearAxis, farAxis := -1, -1
	for axis := 0; axis < 3; axis++ {
		if math.Abs(dir[axis]) < 1e-12 {
			// Parallel to this slab: must already be inside it
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return false, math.Inf(1), core.Vec3{}
			}
			continue
		}
		invD := 1.0 / dir[axis]
		t0 := (lo[axis] - origin[axis]) * invD
		t1 := (hi[axis] - origin[axis]) * invD
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tNear {
			tNear, nearAxis = t0, axis
		}
		if t1 < tFar {
			tFar, farAxis = t1, axis
		}
		if tNear > tFar {
			return false, math.Inf(1), core.Vec3{}
		}
	}

	t, axis := tNear, nearAxis
	if t <= core.Epsilon {
		// Inside the box, take the exit face
		t, axis = tFar, farAxis
		if t <= core.Epsilon || axis < 0 {
			return false, math.Inf(1), core.Vec3{}
		}
	}

	// Outward normal points away from the center along the hit axis
	hitPoint := ray.At(t).Subtract(b.Center)
	var outwardNormal core.Vec3
	switch axis {
	case 0:
		outwardNormal = core.NewVec3(math.Copysign(1, hitPoint.X), 0, 0)
	case 1:
		outwardNormal = core.NewVec3(0, math.Copysign(1, hitPoint.Y), 0)
	default:
		outwardNormal = core.NewVec3(0, 0, math.Copysign(1, hitPoint.Z))
	}

	return true, t, faceNormal(ray, outwardNormal)
}
