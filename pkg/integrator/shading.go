package integrator

import (
	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/intersect"
	"github.com/df07/go-hybrid-raytracer/pkg/material"
	"github.com/df07/go-hybrid-raytracer/pkg/scene"
)

// ShadingConfig configures the shading integrator
type ShadingConfig struct {
	Budget       Budget           // Top-level budget for camera rays
	Transmission TransmissionTerm // nil means NoTransmission
}

// ShadingIntegrator recursively blends diffuse, specular, transmission and
// emissive terms at each hit
type ShadingIntegrator struct {
	budget       Budget
	transmission TransmissionTerm

	// onDescend observes every recursive budget; tests use it to check decay
	onDescend func(parent, child Budget)
}

// NewShadingIntegrator creates a new shading integrator
func NewShadingIntegrator(config ShadingConfig) *ShadingIntegrator {
	transmission := config.Transmission
	if transmission == nil {
		transmission = NoTransmission{}
	}
	return &ShadingIntegrator{
		budget:       config.Budget.normalized(),
		transmission: transmission,
	}
}

// Budget returns the top-level budget
func (si *ShadingIntegrator) Budget() Budget {
	return si.budget
}

// RayColor computes radiance for a camera ray with the top-level budget
func (si *ShadingIntegrator) RayColor(ray core.Ray, sc *scene.Scene, sampler core.Sampler) core.Vec3 {
	return si.Radiance(sc, ray, si.budget, sampler)
}

// Radiance returns the light arriving along ray. A miss returns the sky's
// emission; an exhausted budget returns the hit surface's own emission.
func (si *ShadingIntegrator) Radiance(sc *scene.Scene, ray core.Ray, budget Budget, sampler core.Sampler) core.Vec3 {
	budget = budget.normalized()

	hit := intersect.Cast(sc.Marchables, sc.Traceables, ray)
	if !hit.Hit {
		return sc.Sky.Emitted()
	}

	m := hit.Material
	if budget.Bounces == 0 {
		return m.Emitted()
	}

	point := hit.Point(ray)
	origin := intersect.SpawnPoint(point, hit.Normal)
	w := weightsFor(m)

	var diffuse, specular, transmission core.Vec3
	if w.diffuse {
		diffuse = si.diffuse(sc, origin, hit.Normal, m, budget, sampler)
	}
	if w.specular {
		specular = si.specular(sc, ray, origin, hit.Normal, m, budget, sampler)
	}
	if w.transmission {
		shade := func(r core.Ray, b Budget) core.Vec3 {
			return si.Radiance(sc, r, b, sampler)
		}
		transmission = si.transmission.Transmission(TransmissionInput{
			Incoming: ray,
			Hit:      hit,
			Point:    point,
			Budget:   budget,
			Sampler:  sampler,
		}, shade)
	}

	return Blend(m, diffuse, specular, transmission)
}

// Blend combines the shading terms for material m:
//
//	base = transmission*T + diffuse*(1-T)
//	base = base + specular*S
//	dm   = base*(1-M) + (specular*color)*M
//	out  = dm*max(1-E, 0) + color*E
func Blend(m material.Material, diffuse, specular, transmission core.Vec3) core.Vec3 {
	base := transmission.Multiply(m.Transmission).Add(diffuse.Multiply(1 - m.Transmission))
	base = base.Add(specular.Multiply(m.Specular))

	dielectricOrMetal := base.Multiply(1 - m.Metallic).Add(specular.MultiplyVec(m.Color).Multiply(m.Metallic))

	return dielectricOrMetal.Multiply(max(1-m.Emission, 0)).Add(m.Color.Multiply(m.Emission))
}

// termWeights records which terms can reach the output of Blend
type termWeights struct {
	diffuse, specular, transmission bool
}

// weightsFor skips sampling terms whose blend weight is zero
func weightsFor(m material.Material) termWeights {
	if max(1-m.Emission, 0) == 0 {
		return termWeights{}
	}
	dielectric := 1 - m.Metallic
	return termWeights{
		diffuse:      dielectric*(1-m.Transmission) != 0,
		specular:     dielectric*m.Specular != 0 || m.Metallic != 0,
		transmission: dielectric*m.Transmission != 0,
	}
}

func (si *ShadingIntegrator) descend(budget Budget, samples int) Budget {
	child := budget.Descend(samples)
	if si.onDescend != nil {
		si.onDescend(budget, child)
	}
	return child
}

// diffuse averages rays toward n + a point in the unit ball. Each recursive
// ray takes a single sample, trading breadth for depth.
func (si *ShadingIntegrator) diffuse(sc *scene.Scene, origin, normal core.Vec3, m material.Material, budget Budget, sampler core.Sampler) core.Vec3 {
	child := si.descend(budget, 1)

	var sum core.Vec3
	for i := 0; i < budget.Samples; i++ {
		direction := unitOr(normal.Add(core.SampleUnitBall(sampler)), normal)
		incoming := si.Radiance(sc, core.NewRay(origin, direction), child, sampler)
		sum = sum.Add(m.Color.MultiplyVec(incoming))
	}
	return sum.Multiply(1.0 / float64(budget.Samples))
}

// specular follows the mirror direction exactly for smooth surfaces, and
// averages jittered reflections with a halved sample count for rough ones
func (si *ShadingIntegrator) specular(sc *scene.Scene, ray core.Ray, origin, normal core.Vec3, m material.Material, budget Budget, sampler core.Sampler) core.Vec3 {
	mirror := material.Reflect(ray.Direction, normal)

	if m.Roughness == 0 {
		child := si.descend(budget, budget.Samples)
		return si.Radiance(sc, core.NewRay(origin, unitOr(mirror, normal)), child, sampler)
	}

	child := si.descend(budget, max(budget.Samples/2, 1))

	var sum core.Vec3
	for i := 0; i < budget.Samples; i++ {
		jitter := core.SampleUnitBall(sampler).Multiply(m.Roughness)
		direction := unitOr(mirror.Add(jitter), normal)
		sum = sum.Add(si.Radiance(sc, core.NewRay(origin, direction), child, sampler))
	}
	return sum.Multiply(1.0 / float64(budget.Samples))
}

// unitOr normalizes v, falling back when v is too short to have a direction
func unitOr(v, fallback core.Vec3) core.Vec3 {
	if v.LengthSquared() < 1e-12 {
		return fallback
	}
	return v.Normalize()
}
