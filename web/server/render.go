package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/integrator"
	"github.com/df07/go-hybrid-raytracer/pkg/renderer"
	"github.com/df07/go-hybrid-raytracer/pkg/scene"
)

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX       int    `json:"tileX"`
	TileY       int    `json:"tileY"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG of just this tile
	PassNumber  int    `json:"passNumber"`
	TileNumber  int    `json:"tileNumber"`  // Current tile number in this pass (1-based)
	TotalTiles  int    `json:"totalTiles"`  // Total number of tiles in the image
	TotalPasses int    `json:"totalPasses"` // Total number of passes planned
}

// PassUpdate is sent via SSE when a progressive pass completes
type PassUpdate struct {
	PassNumber     int     `json:"passNumber"`
	TotalPasses    int     `json:"totalPasses"`
	ImageData      string  `json:"imageData"` // Base64 encoded PNG of the whole image
	ElapsedMs      int64   `json:"elapsedMs"`
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	MinSamples     int     `json:"minSamples"`
	MaxSamplesUsed int     `json:"maxSamplesUsed"`
	PrimitiveCount int     `json:"primitiveCount"`
	IsLast         bool    `json:"isLast"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "tile", "passComplete", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// RenderingPipeline contains the configured scene and raytracer
type RenderingPipeline struct {
	Scene     *scene.Scene
	Raytracer *renderer.ProgressiveRaytracer
}

// handleRender handles progressive rendering with real-time tile streaming via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// A single writer goroutine owns w until the handler returns
	sseEventChan := make(chan SSEEvent, 100)
	var writer sync.WaitGroup
	writer.Add(1)
	go func() {
		defer writer.Done()
		s.writeSSEEvents(ctx, w, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		writer.Wait()
	}()

	consoleChan, webLogger := s.setupConsoleLogging()
	var console sync.WaitGroup
	console.Add(1)
	go func() {
		defer console.Done()
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	pipeline, req, err := s.setupRenderingPipeline(r, webLogger)
	if err != nil {
		err = fmt.Errorf("invalid request: %w", err)
	} else {
		startTime := time.Now()
		passChan, tileChan, errChan := pipeline.Raytracer.RenderProgressive(ctx, renderer.RenderOptions{TileUpdates: true})
		if renderErr := s.handleRenderingEvents(ctx, sseEventChan, passChan, tileChan, errChan, pipeline.Scene, req, startTime); renderErr != nil {
			err = fmt.Errorf("rendering failed: %w", renderErr)
		}
	}

	// Forward the remaining console output before the final event
	close(consoleChan)
	console.Wait()

	if err != nil {
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}
	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: "Rendering completed"}:
	case <-ctx.Done():
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan, s.logger)
	return consoleChan, webLogger
}

// writeSSEEvents writes every SSE event from a single goroutine
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	flusher, _ := w.(http.Flusher)
	disconnected := false

	// Keep draining after a disconnect so senders never block
	for event := range sseEventChan {
		if disconnected || ctx.Err() != nil {
			disconnected = true
			continue
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			disconnected = true
			continue
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// streamConsoleMessages forwards console messages as SSE events
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			s.logger.Printf("Error marshaling console message: %v\n", err)
			continue
		}
		if ctx.Err() != nil {
			continue
		}

		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		default:
			// Channel full, skip message to avoid blocking
		}
	}
}

// parseRenderRequest parses request parameters, defaulting to the scene's own settings
func (s *Server) parseRenderRequest(r *http.Request, req *RenderRequest, defaults scene.SamplingConfig) error {
	query := r.URL.Query()

	var err error
	if req.MaxSamples, err = parseIntParam(query, "maxSamples", defaults.SamplesPerPixel, 1, 1000); err != nil {
		return err
	}
	if req.MaxPasses, err = parseIntParam(query, "maxPasses", defaults.MaxPasses, 1, 100); err != nil {
		return err
	}
	if req.Bounces, err = parseIntParam(query, "bounces", defaults.Bounces, 0, 8); err != nil {
		return err
	}
	if req.Samples, err = parseIntParam(query, "samples", defaults.Samples, 1, 64); err != nil {
		return err
	}
	if req.AdaptiveMinSamples, err = parseFloatParam(query, "adaptiveMinSamples", defaults.AdaptiveMinSamples, 0.01, 1.0); err != nil {
		return err
	}
	if req.AdaptiveThreshold, err = parseFloatParam(query, "adaptiveThreshold", defaults.AdaptiveThreshold, 0.001, 0.5); err != nil {
		return err
	}

	// Each camera ray costs roughly samples^bounces casts
	if req.Width*req.Height > 800*600 && req.Bounces > 4 {
		s.logger.Printf("Render warning: large image with deep bounce budget may render slowly\n")
	}
	return nil
}

// setupRenderingPipeline parses the request and builds the scene and raytracer
func (s *Server) setupRenderingPipeline(r *http.Request, logger core.Logger) (*RenderingPipeline, *RenderRequest, error) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		return nil, nil, err
	}

	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		return nil, nil, err
	}
	if err := s.parseRenderRequest(r, req, sceneObj.SamplingConfig); err != nil {
		return nil, nil, err
	}

	cfg := &sceneObj.SamplingConfig
	cfg.Width = req.Width
	cfg.Height = req.Height
	cfg.SamplesPerPixel = req.MaxSamples
	cfg.MaxPasses = req.MaxPasses
	cfg.Bounces = req.Bounces
	cfg.Samples = req.Samples
	cfg.AdaptiveMinSamples = req.AdaptiveMinSamples
	cfg.AdaptiveThreshold = req.AdaptiveThreshold

	integ := integrator.NewShadingIntegrator(integrator.ShadingConfig{
		Budget: integrator.Budget{Bounces: cfg.Bounces, Samples: cfg.Samples},
	})

	if cfg.TileSize == 0 {
		cfg.TileSize = DefaultTileSize
	}
	config := renderer.ProgressiveConfigFor(*cfg)

	logger.Printf("Rendering %s at %dx%d, %d bounces x %d samples\n",
		sceneObj.Name, req.Width, req.Height, req.Bounces, req.Samples)

	raytracer := renderer.NewProgressiveRaytracer(sceneObj, req.Width, req.Height, config, integ, logger)
	return &RenderingPipeline{Scene: sceneObj, Raytracer: raytracer}, req, nil
}

// handleRenderingEvents forwards pass and tile results until the raytracer
// stops, including after a disconnect, so the render logger is idle once it
// returns. It returns the render error, if any.
func (s *Server) handleRenderingEvents(ctx context.Context, sseEventChan chan<- SSEEvent,
	passChan <-chan renderer.PassResult, tileChan <-chan renderer.TileCompletionResult, errChan <-chan error,
	sc *scene.Scene, req *RenderRequest, startTime time.Time) error {

	for passChan != nil || tileChan != nil {
		select {
		case passResult, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			s.handlePassComplete(ctx, sseEventChan, passResult, req, sc, startTime)

		case tileResult, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}
			s.handleTileUpdate(ctx, sseEventChan, tileResult)
		}
	}

	return <-errChan
}

// handlePassComplete processes and sends pass completion events
func (s *Server) handlePassComplete(ctx context.Context, sseEventChan chan<- SSEEvent, passResult renderer.PassResult, req *RenderRequest, sc *scene.Scene, startTime time.Time) {
	imageData, err := s.imageToBase64PNG(passResult.Image)
	if err != nil {
		s.logger.Printf("Error encoding pass %d image: %v\n", passResult.PassNumber, err)
		return
	}

	update := PassUpdate{
		PassNumber:     passResult.PassNumber,
		TotalPasses:    req.MaxPasses,
		ImageData:      imageData,
		ElapsedMs:      time.Since(startTime).Milliseconds(),
		TotalPixels:    passResult.Stats.TotalPixels,
		TotalSamples:   passResult.Stats.TotalSamples,
		AverageSamples: passResult.Stats.AverageSamples,
		MinSamples:     passResult.Stats.MinSamples,
		MaxSamplesUsed: passResult.Stats.MaxSamplesUsed,
		PrimitiveCount: sc.GetPrimitiveCount(),
		IsLast:         passResult.IsLast,
	}

	data, err := json.Marshal(update)
	if err != nil {
		s.logger.Printf("Error marshaling pass update: %v\n", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "passComplete", Data: string(data)}:
	case <-ctx.Done():
	}
}

// handleTileUpdate processes and sends tile update events
func (s *Server) handleTileUpdate(ctx context.Context, sseEventChan chan<- SSEEvent, tileResult renderer.TileCompletionResult) {
	tileData, err := s.imageToBase64PNG(tileResult.TileImage)
	if err != nil {
		s.logger.Printf("Error encoding tile image (%d, %d): %v\n", tileResult.TileX, tileResult.TileY, err)
		return
	}

	update := TileUpdate{
		TileX:       tileResult.TileX,
		TileY:       tileResult.TileY,
		ImageData:   tileData,
		PassNumber:  tileResult.PassNumber,
		TileNumber:  tileResult.TileNumber,
		TotalTiles:  tileResult.TotalTiles,
		TotalPasses: tileResult.TotalPasses,
	}

	data, err := json.Marshal(update)
	if err != nil {
		s.logger.Printf("Error marshaling tile update: %v\n", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "tile", Data: string(data)}:
	case <-ctx.Done():
	}
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan<- SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
	}
}
