package renderer

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/integrator"
	"github.com/df07/go-hybrid-raytracer/pkg/scene"
)

func TestProgressiveSampleCalculation(t *testing.T) {
	config := DefaultProgressiveConfig()
	config.InitialSamples = 1
	config.MaxSamplesPerPixel = 50
	config.MaxPasses = 7

	pr := &ProgressiveRaytracer{config: config}

	// Pass 1 previews with one sample, passes 2-6 add (50-1)/6 = 8 each,
	// and the final pass takes whatever remains
	expected := []int{1, 9, 17, 25, 33, 41, 50}
	for pass := 1; pass <= 7; pass++ {
		assert.Equal(t, expected[pass-1], pr.getSamplesForPass(pass), "pass %d", pass)
	}

	pr.config.MaxPasses = 1
	assert.Equal(t, 50, pr.getSamplesForPass(1), "a single pass takes every sample")
}

func TestProgressiveConfig(t *testing.T) {
	config := DefaultProgressiveConfig()
	assert.Equal(t, 32, config.TileSize)
	assert.Equal(t, 1, config.InitialSamples)
	assert.Equal(t, 8, config.MaxSamplesPerPixel)
	assert.Equal(t, 4, config.MaxPasses)
	assert.Equal(t, 0, config.NumWorkers)
}

func TestProgressiveConfigFor(t *testing.T) {
	sampling := scene.DefaultSamplingConfig()
	sampling.MaxPasses = 3
	sampling.SamplesPerPixel = 12
	sampling.TileSize = 16
	sampling.Workers = 2

	config := ProgressiveConfigFor(sampling)
	assert.Equal(t, 3, config.MaxPasses)
	assert.Equal(t, 12, config.MaxSamplesPerPixel)
	assert.Equal(t, 16, config.TileSize)
	assert.Equal(t, 2, config.NumWorkers)

	// Zero values keep the defaults
	assert.Equal(t, DefaultProgressiveConfig(), ProgressiveConfigFor(scene.SamplingConfig{}))
}

func TestNewTileGrid(t *testing.T) {
	tiles := NewTileGrid(70, 40, 32)
	require.Len(t, tiles, 6)

	covered := make(map[image.Point]int)
	for i, tile := range tiles {
		assert.Equal(t, i, tile.ID)
		assert.NotNil(t, tile.Sampler)
		for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
			for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
				covered[image.Pt(x, y)]++
			}
		}
	}

	assert.Len(t, covered, 70*40, "every pixel is covered")
	for p, n := range covered {
		require.Equal(t, 1, n, "pixel %v covered more than once", p)
	}
	assert.Equal(t, image.Rect(64, 32, 70, 40), tiles[5].Bounds)
}

func TestNewTile_DeterministicSampler(t *testing.T) {
	a, b := NewTile(3, image.Rect(0, 0, 1, 1)), NewTile(3, image.Rect(0, 0, 1, 1))
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Sampler.Get1D(), b.Sampler.Get1D())
	}
}

// drain collects every pass, counts tile events and returns the final error
func drain(passChan <-chan PassResult, tileChan <-chan TileCompletionResult, errChan <-chan error) ([]PassResult, int, error) {
	tileCount := make(chan int)
	go func() {
		n := 0
		for range tileChan {
			n++
		}
		tileCount <- n
	}()

	var passes []PassResult
	for pass := range passChan {
		passes = append(passes, pass)
	}
	err := <-errChan
	return passes, <-tileCount, err
}

func TestRenderProgressive_Passes(t *testing.T) {
	sc := createTestScene()
	sc.SamplingConfig.AdaptiveMinSamples = 1
	mock := &MockIntegrator{returnColor: core.NewVec3(0.25, 0.25, 0.25)}

	config := ProgressiveConfig{TileSize: 8, InitialSamples: 1, MaxSamplesPerPixel: 4, MaxPasses: 3, NumWorkers: 2}
	pr := NewProgressiveRaytracer(sc, 20, 12, config, mock, core.NopLogger{})

	passes, tiles, err := drain(pr.RenderProgressive(context.Background(), RenderOptions{TileUpdates: true}))
	require.NoError(t, err)
	require.Len(t, passes, 3)

	for i, pass := range passes {
		assert.Equal(t, i+1, pass.PassNumber)
		assert.Equal(t, image.Rect(0, 0, 20, 12), pass.Image.Bounds())
		assert.Equal(t, i == 2, pass.IsLast)
	}
	assert.Equal(t, 1.0, passes[0].Stats.AverageSamples)
	assert.Equal(t, 4.0, passes[2].Stats.AverageSamples)
	assert.Equal(t, int64(20*12*4), mock.callCount.Load())
	assert.Equal(t, 6*3, tiles, "3x2 tiles per pass")

	// 0.25 linear radiance is 0.5 after gamma 2
	assert.Equal(t, uint8(127), passes[2].Image.RGBAAt(5, 5).R)
}

func TestRenderProgressive_NoTileUpdates(t *testing.T) {
	sc := createTestScene()
	pr := NewProgressiveRaytracer(sc, 8, 8, ProgressiveConfig{TileSize: 4, InitialSamples: 1, MaxSamplesPerPixel: 2, MaxPasses: 2},
		&MockIntegrator{}, nil)

	passes, tiles, err := drain(pr.RenderProgressive(context.Background(), RenderOptions{}))
	require.NoError(t, err)
	assert.Len(t, passes, 2)
	assert.Zero(t, tiles)
}

func TestRenderProgressive_Cancelled(t *testing.T) {
	sc := createTestScene()
	pr := NewProgressiveRaytracer(sc, 8, 8, DefaultProgressiveConfig(), &MockIntegrator{}, core.NopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	passes, _, err := drain(pr.RenderProgressive(ctx, RenderOptions{}))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, passes)
}

// cancelOnLog cancels once a log line matches the trigger format and pass
type cancelOnLog struct {
	format string
	pass   int
	cancel context.CancelFunc
}

func (l cancelOnLog) Printf(format string, args ...interface{}) {
	if format == l.format && len(args) > 0 && args[0] == l.pass {
		l.cancel()
	}
}

func TestRenderProgressive_CancelledWhileDeliveringPass(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Pass 1 fills the unread pass buffer, so pass 2 can only leave via cancellation
	logger := cancelOnLog{format: "Pass %d completed in %v (actual: %d samples/pixel)\n", pass: 2, cancel: cancel}
	config := ProgressiveConfig{TileSize: 4, InitialSamples: 1, MaxSamplesPerPixel: 64, MaxPasses: 4, NumWorkers: 1}
	pr := NewProgressiveRaytracer(createTestScene(), 8, 8, config, &MockIntegrator{}, logger)

	passChan, tileChan, errChan := pr.RenderProgressive(ctx, RenderOptions{})

	err := <-errChan
	assert.ErrorIs(t, err, context.Canceled)

	var passes []PassResult
	for pass := range passChan {
		passes = append(passes, pass)
	}
	for range tileChan {
	}
	require.Len(t, passes, 1)
	assert.Equal(t, 1, passes[0].PassNumber)
	assert.False(t, passes[0].IsLast)
}

func TestRenderProgressive_DeterministicAcrossWorkerCounts(t *testing.T) {
	render := func(workers int) *image.RGBA {
		sc := scene.NewDefaultScene()
		integ := integrator.NewShadingIntegrator(integrator.ShadingConfig{Budget: integrator.Budget{Bounces: 2, Samples: 2}})
		config := ProgressiveConfig{TileSize: 4, InitialSamples: 1, MaxSamplesPerPixel: 2, MaxPasses: 2, NumWorkers: workers}
		pr := NewProgressiveRaytracer(sc, 12, 8, config, integ, core.NopLogger{})

		passes, _, err := drain(pr.RenderProgressive(context.Background(), RenderOptions{}))
		require.NoError(t, err)
		require.NotEmpty(t, passes)
		return passes[len(passes)-1].Image
	}

	assert.Equal(t, render(1).Pix, render(4).Pix)
}
