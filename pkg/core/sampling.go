package core

import (
	"errors"
	"fmt"
	"math/rand"
)

// MaxBallAttempts bounds the rejection loop in SampleUnitBall. Each attempt is
// accepted with probability pi/6, so reaching the cap means the sampler is broken.
const MaxBallAttempts = 1000

// ErrSamplerExhausted is carried by the panic raised when rejection sampling
// never accepts a point.
var ErrSamplerExhausted = errors.New("sampler exhausted")

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own deterministic source
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// SampleUnitBall returns a point distributed uniformly inside the unit ball.
// The point is not projected onto the sphere surface.
func SampleUnitBall(sampler Sampler) Vec3 {
	for i := 0; i < MaxBallAttempts; i++ {
		u := sampler.Get3D()
		p := NewVec3(2*u.X-1, 2*u.Y-1, 2*u.Z-1)
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
	panic(fmt.Errorf("unit ball rejection sampling: %w after %d attempts", ErrSamplerExhausted, MaxBallAttempts))
}
