package integrator

import (
	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the linear, unclamped radiance arriving along ray
	RayColor(ray core.Ray, scene *scene.Scene, sampler core.Sampler) core.Vec3
}

// Budget bounds the recursion of the shading integrator
type Budget struct {
	Bounces int // Remaining recursion depth
	Samples int // Rays averaged per stochastic term at this level
}

// DefaultBudget returns the standard top-level budget
func DefaultBudget() Budget {
	return Budget{Bounces: 4, Samples: 16}
}

// Descend returns the budget for a recursive call. Bounces always drop by
// exactly one and the sample count never exceeds the parent's, which bounds
// the total number of rays for any starting budget.
func (b Budget) Descend(samples int) Budget {
	if b.Bounces <= 0 {
		panic("integrator: descend from exhausted bounce budget")
	}
	return Budget{
		Bounces: b.Bounces - 1,
		Samples: min(max(samples, 1), b.Samples),
	}
}

// normalized returns a budget that is safe to start recursion from
func (b Budget) normalized() Budget {
	return Budget{Bounces: max(b.Bounces, 0), Samples: max(b.Samples, 1)}
}
