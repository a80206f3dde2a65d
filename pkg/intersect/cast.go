// Package intersect finds where a ray first meets the scene. Implicit
// surfaces are sphere-marched, analytic primitives are traced, and Cast
// reconciles the two answers into one hit.
package intersect

import (
	"math"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/geometry"
	"github.com/df07/go-hybrid-raytracer/pkg/material"
)

// CastResult is the outcome of one intersection query
type CastResult struct {
	Hit      bool
	Distance float64   // Distance along the ray, +Inf on a miss
	Normal   core.Vec3 // Unit surface normal; the ray direction on a miss
	Material material.Material
}

// Worst is the definite-miss result for a ray
func Worst(ray core.Ray) CastResult {
	return CastResult{
		Hit:      false,
		Distance: math.Inf(1),
		Normal:   ray.Direction,
		Material: material.Blank(),
	}
}

// Point returns the hit position along the ray
func (c CastResult) Point(ray core.Ray) core.Vec3 {
	return ray.At(c.Distance)
}

// Cast runs both solvers over their own object sets and picks one answer.
// When both hit, the traced result wins unless the marched surface is nearer
// by more than the surface tolerance.
func Cast(marchables []geometry.Marchable, traceables []geometry.Traceable, ray core.Ray) CastResult {
	marched := March(marchables, ray)
	traced := Trace(traceables, ray)

	switch {
	case !marched.Hit && !traced.Hit:
		return Worst(ray)
	case !marched.Hit:
		return traced
	case !traced.Hit:
		return marched
	}

	// The marcher stops up to Epsilon short of its surface, so coincident
	// surfaces still resolve to the traced primitive.
	if traced.Distance <= marched.Distance+core.Epsilon {
		return traced
	}
	return marched
}

// SpawnPoint offsets a surface point along its normal so that rays leaving
// the surface do not immediately re-detect it.
func SpawnPoint(point, normal core.Vec3) core.Vec3 {
	return point.Add(normal.Multiply(core.SurfaceBias))
}
