package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/integrator"
	"github.com/df07/go-hybrid-raytracer/pkg/scene"
)

// Raytracer renders a whole frame on the calling goroutine
type Raytracer struct {
	scene         *scene.Scene
	width, height int
	tiles         *TileRenderer
	seed          int64
}

// NewRaytracer creates a new raytracer with a deterministic seed
func NewRaytracer(sc *scene.Scene, integ integrator.Integrator, width, height int) *Raytracer {
	return &Raytracer{
		scene:  sc,
		width:  width,
		height: height,
		tiles:  NewTileRenderer(sc, integ, width, height),
		seed:   42,
	}
}

// RenderPass renders every pixel with up to samplesPerPixel samples
func (rt *Raytracer) RenderPass(samplesPerPixel int) (*image.RGBA, RenderStats) {
	pixelStats := newPixelStats(rt.width, rt.height)
	sampler := core.NewSeededSampler(rt.seed)

	stats := rt.tiles.RenderTileBounds(image.Rect(0, 0, rt.width, rt.height), pixelStats, sampler, samplesPerPixel)
	return toImage(pixelStats, rt.width, rt.height), stats
}

func newPixelStats(width, height int) [][]PixelStats {
	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}
	return pixelStats
}

// toImage tone maps accumulated radiance into an image
func toImage(pixelStats [][]PixelStats, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, vec3ToColor(pixelStats[y][x].GetColor()))
		}
	}
	return img
}

// vec3ToColor converts linear radiance to RGBA with gamma correction and clamping
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	// Apply gamma correction (gamma = 2.0)
	colorVec = colorVec.GammaCorrect(2.0)

	// Clamp to valid color range
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
