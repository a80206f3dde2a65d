package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/fsnotify/fsnotify"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/integrator"
	"github.com/df07/go-hybrid-raytracer/pkg/loaders"
	"github.com/df07/go-hybrid-raytracer/pkg/renderer"
	"github.com/df07/go-hybrid-raytracer/pkg/scene"
)

// Options holds the parsed command line
type Options struct {
	Scene     string
	Out       string
	ScenesDir string
	Width     int
	Height    int
	Passes    int
	Samples   int // Camera rays per pixel
	Bounces   int
	Shading   int // Rays per shading term
	Workers   int
	List      bool
	Watch     bool
	Help      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, core.NewDefaultLogger()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, output io.Writer) (Options, *flag.FlagSet, error) {
	var opts Options
	fs := flag.NewFlagSet("hybrid-raytracer", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&opts.Scene, "scene", "default", "Built-in scene ID or path to a .toml/.yaml scene file")
	fs.StringVar(&opts.Out, "out", "", "Output image path (.png or .jpg); default output/<scene>/render_<timestamp>.png")
	fs.StringVar(&opts.ScenesDir, "scenes", "scenes", "Directory searched by -list for scene files")
	fs.IntVar(&opts.Width, "width", 0, "Image width (0 = scene default)")
	fs.IntVar(&opts.Height, "height", 0, "Image height (0 = scene default)")
	fs.IntVar(&opts.Passes, "passes", 0, "Progressive passes (0 = scene default)")
	fs.IntVar(&opts.Samples, "samples", 0, "Maximum camera rays per pixel (0 = scene default)")
	fs.IntVar(&opts.Bounces, "bounces", -1, "Bounce budget (-1 = scene default)")
	fs.IntVar(&opts.Shading, "shading-samples", 0, "Rays per shading term at the first hit (0 = scene default)")
	fs.IntVar(&opts.Workers, "workers", 0, "Parallel workers (0 = CPU count)")
	fs.BoolVar(&opts.List, "list", false, "List built-in scenes and scene files, then exit")
	fs.BoolVar(&opts.Watch, "watch", false, "Re-render whenever the scene file changes")
	fs.BoolVar(&opts.Help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return opts, fs, err
	}
	return opts, fs, nil
}

func run(ctx context.Context, args []string, stdout io.Writer, logger core.Logger) error {
	opts, fs, err := parseFlags(args, stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if opts.Help {
		printHelp(stdout, fs)
		return nil
	}
	if opts.List {
		return listScenes(stdout, opts.ScenesDir, logger)
	}
	if opts.Watch {
		if !loaders.IsSceneFile(opts.Scene) {
			return fmt.Errorf("-watch needs a scene file, got %q", opts.Scene)
		}
		return watchScene(ctx, opts, logger)
	}

	_, err = renderOnce(ctx, opts, logger)
	return err
}

func printHelp(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Hybrid Raytracer")
	fmt.Fprintln(w, "Usage: hybrid-raytracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Built-in scenes:")
	for _, b := range scene.Builtins() {
		fmt.Fprintf(w, "  %-8s - %s\n", b.ID, b.Description)
	}
}

func listScenes(w io.Writer, dir string, logger core.Logger) error {
	groups, err := scene.ListAllScenes(dir, logger)
	if err != nil {
		return err
	}
	for _, group := range groups {
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, s := range group.Scenes {
			fmt.Fprintf(w, "  %-24s %s\n", s.ID, s.Description)
		}
	}
	return nil
}

// createScene loads the scene and applies command line overrides
func createScene(opts Options) (*scene.Scene, error) {
	sc, err := scene.Load(opts.Scene)
	if err != nil {
		return nil, err
	}

	cfg := &sc.SamplingConfig
	if opts.Width > 0 {
		cfg.Width = opts.Width
	}
	if opts.Height > 0 {
		cfg.Height = opts.Height
	}
	if opts.Passes > 0 {
		cfg.MaxPasses = opts.Passes
	}
	if opts.Samples > 0 {
		cfg.SamplesPerPixel = opts.Samples
	}
	if opts.Bounces >= 0 {
		cfg.Bounces = opts.Bounces
	}
	if opts.Shading > 0 {
		cfg.Samples = opts.Shading
	}
	if opts.Workers > 0 {
		cfg.Workers = opts.Workers
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// sceneBaseName names output directories after the built-in ID or scene file
func sceneBaseName(ref string) string {
	base := filepath.Base(ref)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// createOutputDir returns the directory renders of ref are written to
func createOutputDir(ref string) string {
	return filepath.Join("output", sceneBaseName(ref))
}

func outputPath(opts Options, now time.Time) string {
	if opts.Out != "" {
		return opts.Out
	}
	return filepath.Join(createOutputDir(opts.Scene), fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}

// renderScene renders every progressive pass and returns the last image
func renderScene(ctx context.Context, sc *scene.Scene, logger core.Logger) (*image.RGBA, renderer.RenderStats, error) {
	cfg := sc.SamplingConfig
	integ := integrator.NewShadingIntegrator(integrator.ShadingConfig{
		Budget: integrator.Budget{Bounces: cfg.Bounces, Samples: cfg.Samples},
	})

	progressive := renderer.ProgressiveConfigFor(cfg)
	pr := renderer.NewProgressiveRaytracer(sc, cfg.Width, cfg.Height, progressive, integ, logger)

	passChan, _, errChan := pr.RenderProgressive(ctx, renderer.RenderOptions{})

	var last renderer.PassResult
	for pass := range passChan {
		last = pass
	}
	if err := <-errChan; err != nil {
		return nil, renderer.RenderStats{}, err
	}
	if last.Image == nil {
		return nil, renderer.RenderStats{}, fmt.Errorf("render produced no passes")
	}
	return last.Image, last.Stats, nil
}

func renderOnce(ctx context.Context, opts Options, logger core.Logger) (string, error) {
	sc, err := createScene(opts)
	if err != nil {
		return "", err
	}

	cfg := sc.SamplingConfig
	logger.Printf("Rendering %q at %dx%d (%d primitives, budget %d bounces x %d samples)\n",
		sc.Name, cfg.Width, cfg.Height, sc.GetPrimitiveCount(), cfg.Bounces, cfg.Samples)

	startTime := time.Now()
	img, stats, err := renderScene(ctx, sc, logger)
	if err != nil {
		return "", err
	}

	logger.Printf("Render completed in %v\n", time.Since(startTime))
	logger.Printf("Samples per pixel: %.1f (range %d - %d), average luminance %.3f\n",
		stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed, renderer.CalculateAverageLuminance(img))

	filename := outputPath(opts, time.Now())
	if err := saveImage(filename, img); err != nil {
		return "", err
	}

	logger.Printf("Render saved as %s\n", filename)
	return filename, nil
}

// saveImage writes img as PNG or JPEG depending on the extension
func saveImage(filename string, img image.Image) error {
	var encoder imgio.Encoder
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		encoder = imgio.PNGEncoder()
	case ".jpg", ".jpeg":
		encoder = imgio.JPEGEncoder(95)
	default:
		return fmt.Errorf("unsupported output format %q", filepath.Ext(filename))
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := imgio.Save(filename, img, encoder); err != nil {
		return fmt.Errorf("failed to save %s: %w", filename, err)
	}
	return nil
}

// watchScene renders once, then again after every write to the scene file,
// until ctx is cancelled
func watchScene(ctx context.Context, opts Options, logger core.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files, so watch the directory rather than the file
	if err := watcher.Add(filepath.Dir(opts.Scene)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", opts.Scene, err)
	}
	target := filepath.Clean(opts.Scene)

	render := func() {
		if _, err := renderOnce(ctx, opts, logger); err != nil && ctx.Err() == nil {
			logger.Printf("Render failed: %v\n", err)
		}
	}

	render()
	logger.Printf("Watching %s for changes (Ctrl+C to stop)...\n", opts.Scene)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			logger.Printf("%s changed, re-rendering\n", opts.Scene)
			render()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Printf("Watch error: %v\n", err)
		}
	}
}
