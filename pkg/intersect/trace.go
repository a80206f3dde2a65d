package intersect

import (
	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/geometry"
)

// Trace returns the nearest analytic hit farther than core.Epsilon.
// Ties keep the earlier object.
func Trace(objects []geometry.Traceable, ray core.Ray) CastResult {
	best := Worst(ray)

	for _, object := range objects {
		hit, distance, normal := object.Trace(ray)
		if !hit || distance <= core.Epsilon || distance >= best.Distance {
			continue
		}
		best = CastResult{
			Hit:      true,
			Distance: distance,
			Normal:   normal,
			Material: object.Material(),
		}
	}

	return best
}
