package renderer

import (
	"image"
	"math"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/integrator"
	"github.com/df07/go-hybrid-raytracer/pkg/scene"
)

// TileRenderer handles the actual rendering of individual tiles using an integrator
type TileRenderer struct {
	scene         *scene.Scene
	integrator    integrator.Integrator
	width, height int
}

// NewTileRenderer creates a new tile renderer for an image of the given size
func NewTileRenderer(sc *scene.Scene, integ integrator.Integrator, width, height int) *TileRenderer {
	return &TileRenderer{
		scene:      sc,
		integrator: integ,
		width:      width,
		height:     height,
	}
}

// RenderTileBounds renders pixels within the specified bounds, adding samples
// to pixelStats until each pixel reaches targetSamples or converges
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler, targetSamples int) RenderStats {
	stats := RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		MaxSamples:  targetSamples,
		MinSamples:  targetSamples,
	}

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			stats.merge(tr.adaptiveSamplePixel(i, j, &pixelStats[j][i], sampler, targetSamples))
		}
	}

	stats.finalize()
	return stats
}

// adaptiveSamplePixel takes jittered samples for image pixel (i, j)
func (tr *TileRenderer) adaptiveSamplePixel(i, j int, ps *PixelStats, sampler core.Sampler, maxSamples int) int {
	initialSampleCount := ps.SampleCount
	resolution := [2]int{tr.width, tr.height}

	for ps.SampleCount < maxSamples && !tr.shouldStopSampling(ps, maxSamples) {
		// Image rows grow downward, pixel space grows upward
		uv := [2]float64{
			float64(i) + sampler.Get1D(),
			float64(tr.height-1-j) + sampler.Get1D(),
		}
		ps.AddSample(Render(tr.scene, uv, resolution, tr.integrator, sampler))
	}

	return ps.SampleCount - initialSampleCount
}

// shouldStopSampling determines if adaptive sampling should stop based on perceptual relative error
func (tr *TileRenderer) shouldStopSampling(ps *PixelStats, maxSamples int) bool {
	config := tr.scene.SamplingConfig

	// Calculate minimum samples as percentage of max samples, but ensure at least 1 sample
	minSamples := max(1, int(float64(maxSamples)*config.AdaptiveMinSamples))
	if ps.SampleCount < minSamples {
		return false
	}

	mean := ps.LuminanceAccum / float64(ps.SampleCount)
	meanSq := ps.LuminanceSqAccum / float64(ps.SampleCount)
	variance := math.Max(0, meanSq-mean*mean)

	// Avoid division by zero for black pixels
	if mean <= 1e-8 {
		return variance < 1e-6
	}

	// Stop when the coefficient of variation is below the configured threshold
	return math.Sqrt(variance)/mean < config.AdaptiveThreshold
}
