package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/geometry"
	"github.com/df07/go-hybrid-raytracer/pkg/loaders"
	"github.com/df07/go-hybrid-raytracer/pkg/material"
)

// ErrUnknownShape is returned for a shape kind the object set does not support
var ErrUnknownShape = errors.New("unknown shape")

// LoadFile loads a TOML or YAML scene file and converts it
func LoadFile(filename string) (*Scene, error) {
	sf, err := loaders.LoadSceneFile(filename)
	if err != nil {
		return nil, err
	}
	s, err := FromFile(sf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// FromFile converts a parsed scene file into a validated scene.
// Zero-valued settings keep the defaults of New.
func FromFile(sf *loaders.SceneFile) (*Scene, error) {
	s := New(sf.Name)

	s.Camera.Origin = vec(sf.Camera.Origin)
	if sf.Camera.VFov != 0 {
		s.Camera.VFov = sf.Camera.VFov
	}
	if sf.Sky != nil {
		s.Sky = convertMaterial(*sf.Sky)
	}
	applyRenderSpec(&s.SamplingConfig, sf.Render)

	for i, spec := range sf.Marched {
		obj, err := convertMarchable(spec)
		if err != nil {
			return nil, fmt.Errorf("marched object %d: %w", i, err)
		}
		s.AddMarchable(obj)
	}
	for i, spec := range sf.Traced {
		obj, err := convertTraceable(spec)
		if err != nil {
			return nil, fmt.Errorf("traced object %d: %w", i, err)
		}
		s.AddTraceable(obj)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func applyRenderSpec(cfg *SamplingConfig, r loaders.RenderSpec) {
	if r.Width > 0 {
		cfg.Width = r.Width
	}
	if r.Height > 0 {
		cfg.Height = r.Height
	}
	if r.Bounces != nil {
		cfg.Bounces = *r.Bounces
	}
	if r.Samples > 0 {
		cfg.Samples = r.Samples
	}
	if r.Passes > 0 {
		cfg.MaxPasses = r.Passes
	}
	if r.SamplesPerPixel > 0 {
		cfg.SamplesPerPixel = r.SamplesPerPixel
	}
	if r.TileSize > 0 {
		cfg.TileSize = r.TileSize
	}
	if r.Workers > 0 {
		cfg.Workers = r.Workers
	}
}

func vec(v loaders.Vec) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

func convertMaterial(m loaders.MaterialSpec) material.Material {
	return material.Material{
		Color:        vec(m.Color),
		Emission:     m.Emission,
		Metallic:     m.Metallic,
		Roughness:    m.Roughness,
		Transmission: m.Transmission,
		Specular:     m.Specular,
	}
}

func convertMarchable(spec loaders.ObjectSpec) (geometry.Marchable, error) {
	mat := convertMaterial(spec.Material)

	switch spec.Shape {
	case "sphere":
		if spec.Radius <= 0 {
			return nil, fmt.Errorf("%w: sphere radius %g", ErrInvalidScene, spec.Radius)
		}
		return geometry.NewSDFSphere(vec(spec.Center), spec.Radius, mat), nil
	case "box":
		if spec.Rounding < 0 {
			return nil, fmt.Errorf("%w: box rounding %g", ErrInvalidScene, spec.Rounding)
		}
		if err := positiveSize(spec.Size); err != nil {
			return nil, err
		}
		if smallest := min(spec.Size[0], spec.Size[1], spec.Size[2]); spec.Rounding > smallest {
			return nil, fmt.Errorf("%w: box rounding %g exceeds half-extent %g", ErrInvalidScene, spec.Rounding, smallest)
		}
		return geometry.NewSDFBox(vec(spec.Center), vec(spec.Size), spec.Rounding, mat), nil
	case "torus":
		if spec.MajorRadius <= 0 || spec.MinorRadius <= 0 {
			return nil, fmt.Errorf("%w: torus radii %g, %g", ErrInvalidScene, spec.MajorRadius, spec.MinorRadius)
		}
		return geometry.NewSDFTorus(vec(spec.Center), spec.MajorRadius, spec.MinorRadius, mat), nil
	case "plane":
		if err := nonZero("plane normal", spec.Normal); err != nil {
			return nil, err
		}
		return geometry.NewSDFPlane(vec(spec.Point), vec(spec.Normal), mat), nil
	default:
		return nil, fmt.Errorf("%w: %q cannot be marched", ErrUnknownShape, spec.Shape)
	}
}

func convertTraceable(spec loaders.ObjectSpec) (geometry.Traceable, error) {
	mat := convertMaterial(spec.Material)

	switch spec.Shape {
	case "sphere":
		if spec.Radius <= 0 {
			return nil, fmt.Errorf("%w: sphere radius %g", ErrInvalidScene, spec.Radius)
		}
		return geometry.NewSphere(vec(spec.Center), spec.Radius, mat), nil
	case "box":
		if err := positiveSize(spec.Size); err != nil {
			return nil, err
		}
		return geometry.NewBox(vec(spec.Center), vec(spec.Size), mat), nil
	case "plane":
		if err := nonZero("plane normal", spec.Normal); err != nil {
			return nil, err
		}
		return geometry.NewPlane(vec(spec.Point), vec(spec.Normal), mat), nil
	case "disc":
		if spec.Radius <= 0 {
			return nil, fmt.Errorf("%w: disc radius %g", ErrInvalidScene, spec.Radius)
		}
		if err := nonZero("disc normal", spec.Normal); err != nil {
			return nil, err
		}
		return geometry.NewDisc(vec(spec.Center), vec(spec.Normal), spec.Radius, mat), nil
	case "quad":
		if vec(spec.U).Cross(vec(spec.V)).LengthSquared() == 0 {
			return nil, fmt.Errorf("%w: quad edges are parallel", ErrInvalidScene)
		}
		return geometry.NewQuad(vec(spec.Corner), vec(spec.U), vec(spec.V), mat), nil
	default:
		return nil, fmt.Errorf("%w: %q cannot be traced", ErrUnknownShape, spec.Shape)
	}
}

func positiveSize(size loaders.Vec) error {
	if size[0] <= 0 || size[1] <= 0 || size[2] <= 0 {
		return fmt.Errorf("%w: box size %v", ErrInvalidScene, size)
	}
	return nil
}

func nonZero(what string, v loaders.Vec) error {
	if vec(v).LengthSquared() == 0 {
		return fmt.Errorf("%w: zero %s", ErrInvalidScene, what)
	}
	return nil
}
