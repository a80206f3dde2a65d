package renderer

import (
	"math"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/integrator"
	"github.com/df07/go-hybrid-raytracer/pkg/scene"
)

// MakeRay returns the primary ray through a centred image-plane coordinate.
// Both components of centeredUV lie in [-0.5, 0.5]; the horizontal one is
// stretched by aspect. The camera always looks down -Z with +Y up.
func MakeRay(origin core.Vec3, vfov, aspect float64, centeredUV [2]float64) core.Ray {
	z := 1.0 / math.Tan(vfov*math.Pi/180.0/2.0)
	direction := core.NewVec3(centeredUV[0]*aspect, centeredUV[1], -z).Normalize()
	return core.NewRay(origin, direction)
}

// Render returns one linear, unclamped radiance sample for the pixel-space
// coordinate uv. The vertical axis points up, so uv (0,0) is the bottom-left
// corner of the image.
func Render(sc *scene.Scene, uv [2]float64, resolution [2]int, integ integrator.Integrator, sampler core.Sampler) core.Vec3 {
	width, height := float64(resolution[0]), float64(resolution[1])
	aspect := width / height

	centered := [2]float64{uv[0]/width - 0.5, uv[1]/height - 0.5}
	ray := MakeRay(sc.Camera.Origin, sc.Camera.VFov, aspect, centered)

	return integ.RayColor(ray, sc, sampler)
}
