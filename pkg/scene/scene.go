package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/geometry"
	"github.com/df07/go-hybrid-raytracer/pkg/material"
)

// DefaultVFov is the vertical field of view used when a scene does not set one
const DefaultVFov = 120.0

// ErrInvalidScene is returned when a scene fails validation
var ErrInvalidScene = errors.New("invalid scene")

// Camera is a pinhole at Origin looking down -Z.
// Orientation is fixed; scenes are laid out in front of the camera instead.
type Camera struct {
	Origin core.Vec3
	VFov   float64 // Vertical field of view in degrees
}

// DefaultCamera returns a camera at the origin with the default field of view
func DefaultCamera() Camera {
	return Camera{Origin: core.NewVec3(0, 0, 0), VFov: DefaultVFov}
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width              int     // Image width
	Height             int     // Image height
	Bounces            int     // Top-level bounce budget
	Samples            int     // Top-level sample count for the shading integrator
	MaxPasses          int     // Progressive passes
	SamplesPerPixel    int     // Maximum camera rays per pixel across all passes
	AdaptiveMinSamples float64 // Minimum samples as percentage of max samples (0.0-1.0)
	AdaptiveThreshold  float64 // Relative error threshold for adaptive convergence (0.01 = 1%)
	TileSize           int     // Tile edge in pixels (0 = renderer default)
	Workers            int     // Parallel workers (0 = CPU count)
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:              400,
		Height:             225,
		Bounces:            4,
		Samples:            16,
		MaxPasses:          4,
		SamplesPerPixel:    8,
		AdaptiveMinSamples: 0.25,
		AdaptiveThreshold:  0.02,
	}
}

// Scene contains all the elements needed for rendering.
// It must not be modified while a render is in progress.
type Scene struct {
	Name           string
	Marchables     []geometry.Marchable // Implicit surfaces, sphere-marched
	Traceables     []geometry.Traceable // Analytic primitives, ray-traced
	Camera         Camera
	Sky            material.Material // Radiance for rays that hit nothing
	SamplingConfig SamplingConfig
}

// New creates an empty scene with the default camera, sky and sampling config
func New(name string) *Scene {
	return &Scene{
		Name:           name,
		Camera:         DefaultCamera(),
		Sky:            material.Sky(),
		SamplingConfig: DefaultSamplingConfig(),
	}
}

// AddMarchable appends implicit surfaces to the scene
func (s *Scene) AddMarchable(objects ...geometry.Marchable) {
	s.Marchables = append(s.Marchables, objects...)
}

// AddTraceable appends analytic primitives to the scene
func (s *Scene) AddTraceable(objects ...geometry.Traceable) {
	s.Traceables = append(s.Traceables, objects...)
}

// GetPrimitiveCount returns the total number of objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Marchables) + len(s.Traceables)
}

// Validate checks the camera, sampling config and materials
func (s *Scene) Validate() error {
	if s.Camera.VFov <= 0 || s.Camera.VFov >= 180 {
		return fmt.Errorf("%w: vertical fov %g outside (0,180)", ErrInvalidScene, s.Camera.VFov)
	}
	cfg := s.SamplingConfig
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: resolution %dx%d", ErrInvalidScene, cfg.Width, cfg.Height)
	}
	if cfg.Bounces < 0 || cfg.Samples < 1 {
		return fmt.Errorf("%w: bounces %d, samples %d", ErrInvalidScene, cfg.Bounces, cfg.Samples)
	}
	if err := s.Sky.Validate(); err != nil {
		return fmt.Errorf("sky: %w", err)
	}
	for i, m := range s.Marchables {
		if err := m.Material().Validate(); err != nil {
			return fmt.Errorf("marchable %d: %w", i, err)
		}
	}
	for i, t := range s.Traceables {
		if err := t.Material().Validate(); err != nil {
			return fmt.Errorf("traceable %d: %w", i, err)
		}
	}
	return nil
}
