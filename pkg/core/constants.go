package core

// Engine tunables. These are fixed for the life of the process.
const (
	// Epsilon is the surface tolerance: the marcher declares a hit once the
	// scene field drops to Epsilon, and traced hits closer than Epsilon are
	// treated as self-intersections.
	Epsilon = 0.001

	// MaxSteps is the sphere-marching step budget per ray
	MaxSteps = 128

	// FarPlane is the distance past which a marched ray is a miss
	FarPlane = 512.0

	// SurfaceBias is how far secondary rays are pushed off the surface along
	// the normal, which keeps them outside the marcher's hit band.
	SurfaceBias = 2 * Epsilon
)
