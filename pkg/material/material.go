package material

import (
	"errors"
	"fmt"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
)

// ErrInvalidMaterial is returned by Validate for weights outside their range
var ErrInvalidMaterial = errors.New("invalid material")

// Material describes how a surface scatters and emits light.
// Color is an albedo/radiance vector; the remaining fields are blend weights
// which the shading integrator uses as given, without clamping.
type Material struct {
	Color        core.Vec3 // Albedo, and emitted color when Emission > 0
	Emission     float64   // Weight toward pure emissive output
	Metallic     float64   // Dielectric (0) to metal (1)
	Roughness    float64   // 0 is a perfect mirror
	Transmission float64   // Weight of the transmission term
	Specular     float64   // Additive specular layer weight
}

// NewDiffuse creates an opaque, non-emissive, fully rough material
func NewDiffuse(color core.Vec3) Material {
	return Material{Color: color, Roughness: 1}
}

// NewMetal creates a metallic material with the given roughness
func NewMetal(color core.Vec3, roughness float64) Material {
	return Material{Color: color, Metallic: 1, Roughness: roughness}
}

// NewEmissive creates a light-emitting material
func NewEmissive(color core.Vec3, emission float64) Material {
	return Material{Color: color, Emission: emission}
}

// Sky is the default background material. Rays that hit nothing return
// Color * Emission of the scene's sky.
func Sky() Material {
	return Material{Color: core.NewVec3(0.7, 0.8, 1.0), Emission: 1}
}

// Blank is the zero-filled placeholder used when no object owns a hit
func Blank() Material {
	return Material{}
}

// Emitted returns the light the material emits on its own
func (m Material) Emitted() core.Vec3 {
	return m.Color.Multiply(m.Emission)
}

// Validate checks that weights are in their documented ranges
func (m Material) Validate() error {
	if m.Color.X < 0 || m.Color.Y < 0 || m.Color.Z < 0 {
		return fmt.Errorf("%w: negative color %v", ErrInvalidMaterial, m.Color)
	}
	if m.Emission < 0 {
		return fmt.Errorf("%w: negative emission %g", ErrInvalidMaterial, m.Emission)
	}
	weights := []struct {
		name  string
		value float64
	}{
		{"metallic", m.Metallic},
		{"roughness", m.Roughness},
		{"transmission", m.Transmission},
		{"specular", m.Specular},
	}
	for _, w := range weights {
		if w.value < 0 || w.value > 1 {
			return fmt.Errorf("%w: %s %g outside [0,1]", ErrInvalidMaterial, w.name, w.value)
		}
	}
	return nil
}
