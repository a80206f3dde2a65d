package intersect

import (
	"math"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/geometry"
)

// CombinedSDF is the union of all marchable fields: the smallest distance and
// the index of the first object achieving it. With no objects it returns
// +Inf and -1.
func CombinedSDF(objects []geometry.Marchable, p core.Vec3) (float64, int) {
	closest := math.Inf(1)
	index := -1
	for i, object := range objects {
		if d := object.SDF(p); d < closest {
			closest = d
			index = i
		}
	}
	return closest, index
}

// March sphere-marches the ray against the combined field. The ray direction
// must be unit length, since each step advances by the field value.
func March(objects []geometry.Marchable, ray core.Ray) CastResult {
	if len(objects) == 0 {
		return Worst(ray)
	}

	depth := 0.0
	for step := 0; step < core.MaxSteps; step++ {
		distance, index := CombinedSDF(objects, ray.At(depth))
		if distance <= core.Epsilon {
			return CastResult{
				Hit:      true,
				Distance: depth,
				Normal:   estimateNormal(objects, ray.At(depth), ray),
				Material: objects[index].Material(),
			}
		}

		// A surface reached exactly by the last stride still counts
		if depth >= core.FarPlane {
			break
		}

		depth += distance
	}

	return Worst(ray)
}

// estimateNormal takes central differences of the combined field
func estimateNormal(objects []geometry.Marchable, p core.Vec3, ray core.Ray) core.Vec3 {
	const h = core.Epsilon
	field := func(x, y, z float64) float64 {
		d, _ := CombinedSDF(objects, core.NewVec3(x, y, z))
		return d
	}

	gradient := core.NewVec3(
		field(p.X+h, p.Y, p.Z)-field(p.X-h, p.Y, p.Z),
		field(p.X, p.Y+h, p.Z)-field(p.X, p.Y-h, p.Z),
		field(p.X, p.Y, p.Z+h)-field(p.X, p.Y, p.Z-h),
	)

	// Flat spots (e.g. exactly between two objects) have no gradient
	if gradient.LengthSquared() == 0 {
		return ray.Direction.Negate()
	}
	return gradient.Normalize()
}
