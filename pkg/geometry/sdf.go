package geometry

import (
	"math"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/material"
)

// SDFSphere is a marched sphere
type SDFSphere struct {
	Center   core.Vec3
	Radius   float64
	material material.Material
}

// NewSDFSphere creates a marched sphere
func NewSDFSphere(center core.Vec3, radius float64, mat material.Material) *SDFSphere {
	return &SDFSphere{Center: center, Radius: radius, material: mat}
}

// SDF is the distance to the center minus the radius
func (s *SDFSphere) SDF(p core.Vec3) float64 {
	return p.Subtract(s.Center).Length() - s.Radius
}

// Material returns the sphere's material
func (s *SDFSphere) Material() material.Material {
	return s.material
}

// SDFBox is a marched axis-aligned box with optionally rounded edges.
// Size holds half-extents; Rounding is subtracted from them and added back as a
// spherical shell, so the outer bounds stay the same.
type SDFBox struct {
	Center   core.Vec3
	Size     core.Vec3
	Rounding float64
	material material.Material
}

// NewSDFBox creates a marched box
func NewSDFBox(center, size core.Vec3, rounding float64, mat material.Material) *SDFBox {
	return &SDFBox{Center: center, Size: size, Rounding: rounding, material: mat}
}

// SDF of a (rounded) box
func (b *SDFBox) SDF(p core.Vec3) float64 {
	inner := b.Size.Subtract(core.NewVec3(b.Rounding, b.Rounding, b.Rounding))
	q := p.Subtract(b.Center).Abs().Subtract(inner)
	outside := core.NewVec3(math.Max(q.X, 0), math.Max(q.Y, 0), math.Max(q.Z, 0)).Length()
	inside := math.Min(q.MaxComponent(), 0)
	return outside + inside - b.Rounding
}

// Material returns the box's material
func (b *SDFBox) Material() material.Material {
	return b.material
}

// SDFTorus is a marched torus lying in the XZ plane around Center
type SDFTorus struct {
	Center      core.Vec3
	MajorRadius float64 // Distance from center to the middle of the tube
	MinorRadius float64 // Tube radius
	material    material.Material
}

// NewSDFTorus creates a marched torus
func NewSDFTorus(center core.Vec3, majorRadius, minorRadius float64, mat material.Material) *SDFTorus {
	return &SDFTorus{Center: center, MajorRadius: majorRadius, MinorRadius: minorRadius, material: mat}
}

// SDF of a torus
func (t *SDFTorus) SDF(p core.Vec3) float64 {
	local := p.Subtract(t.Center)
	ring := math.Hypot(local.X, local.Z) - t.MajorRadius
	return math.Hypot(ring, local.Y) - t.MinorRadius
}

// Material returns the torus's material
func (t *SDFTorus) Material() material.Material {
	return t.material
}

// SDFPlane is a marched half-space bounded by a plane
type SDFPlane struct {
	Point    core.Vec3
	Normal   core.Vec3
	material material.Material
}

// NewSDFPlane creates a marched plane; normal points out of the solid side
func NewSDFPlane(point, normal core.Vec3, mat material.Material) *SDFPlane {
	return &SDFPlane{Point: point, Normal: normal.Normalize(), material: mat}
}

// SDF projects the offset from the plane onto its normal
func (pl *SDFPlane) SDF(p core.Vec3) float64 {
	return p.Subtract(pl.Point).Dot(pl.Normal)
}

// Material returns the plane's material
func (pl *SDFPlane) Material() material.Material {
	return pl.material
}
