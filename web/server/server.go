package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/loaders"
	"github.com/df07/go-hybrid-raytracer/pkg/scene"
)

const (
	// DefaultTileSize is the tile edge used for streamed renders
	DefaultTileSize = 32
	// DefaultScene is rendered when a request names no scene
	DefaultScene = "default"
)

// ErrSceneOutsideDir is returned for scene file paths outside the scenes directory
var ErrSceneOutsideDir = errors.New("scene file outside scenes directory")

// Server handles web requests for the hybrid raytracer
type Server struct {
	port      int
	scenesDir string
	logger    core.Logger
}

// NewServer creates a new web server. Scene files are only served from scenesDir.
func NewServer(port int, scenesDir string, logger core.Logger) *Server {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Server{port: port, scenesDir: scenesDir, logger: logger}
}

// RenderRequest represents a render or inspect request from the client
type RenderRequest struct {
	Scene              string  `json:"scene"`              // Built-in ID or scene file path
	Width              int     `json:"width"`              // Image width
	Height             int     `json:"height"`             // Image height
	MaxSamples         int     `json:"maxSamples"`         // Maximum camera rays per pixel
	MaxPasses          int     `json:"maxPasses"`          // Maximum number of passes
	Bounces            int     `json:"bounces"`            // Bounce budget
	Samples            int     `json:"samples"`            // Rays per shading term at the first hit
	AdaptiveMinSamples float64 `json:"adaptiveMinSamples"` // Adaptive sampling minimum, fraction of max
	AdaptiveThreshold  float64 `json:"adaptiveThreshold"`  // Adaptive sampling relative error threshold
}

// Handler returns the routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/health", s.handleHealth)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Printf("Starting web server on http://localhost%s\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes v as the JSON response body
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// sceneEntry is the JSON form of a discovered scene
type sceneEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
}

type sceneGroupEntry struct {
	Name   string       `json:"name"`
	Scenes []sceneEntry `json:"scenes"`
}

// handleScenes lists built-in scenes and the scene files in the scenes directory
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	groups, err := scene.ListAllScenes(s.scenesDir, s.logger)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response := make([]sceneGroupEntry, 0, len(groups))
	for _, group := range groups {
		entry := sceneGroupEntry{Name: group.Name, Scenes: make([]sceneEntry, 0, len(group.Scenes))}
		for _, info := range group.Scenes {
			entry.Scenes = append(entry.Scenes, sceneEntry{
				ID:          info.ID,
				Name:        info.Name,
				Description: info.Description,
				Type:        info.Type,
			})
		}
		response = append(response, entry)
	}
	writeJSON(w, http.StatusOK, response)
}

// parseCommonSceneParams parses the scene and image size shared by render and inspect
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	query := r.URL.Query()

	req.Scene = query.Get("scene")
	if req.Scene == "" {
		req.Scene = DefaultScene
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, 16, 2000); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(query, "height", 225, 16, 2000); err != nil {
		return err
	}
	return nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene resolves a built-in ID, or a scene file inside the scenes directory
func (s *Server) createScene(ref string) (*scene.Scene, error) {
	if !loaders.IsSceneFile(ref) {
		return scene.Lookup(ref)
	}

	root, err := filepath.Abs(s.scenesDir)
	if err != nil {
		return nil, err
	}
	path, err := filepath.Abs(ref)
	if err != nil {
		return nil, err
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("%w: %s", ErrSceneOutsideDir, ref)
	}
	return scene.LoadFile(path)
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = DefaultScene
	}

	sceneObj, err := s.createScene(sceneName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	config := sceneObj.SamplingConfig
	response := map[string]interface{}{
		"scene": sceneName,
		"name":  sceneObj.Name,
		"defaults": map[string]interface{}{
			"width":              config.Width,
			"height":             config.Height,
			"maxSamples":         config.SamplesPerPixel,
			"maxPasses":          config.MaxPasses,
			"bounces":            config.Bounces,
			"samples":            config.Samples,
			"adaptiveMinSamples": config.AdaptiveMinSamples,
			"adaptiveThreshold":  config.AdaptiveThreshold,
		},
		"limits": map[string]interface{}{
			"width":              map[string]int{"min": 16, "max": 2000},
			"height":             map[string]int{"min": 16, "max": 2000},
			"maxSamples":         map[string]int{"min": 1, "max": 1000},
			"maxPasses":          map[string]int{"min": 1, "max": 100},
			"bounces":            map[string]int{"min": 0, "max": 8},
			"samples":            map[string]int{"min": 1, "max": 64},
			"adaptiveMinSamples": map[string]float64{"min": 0.01, "max": 1.0},
			"adaptiveThreshold":  map[string]float64{"min": 0.001, "max": 0.5},
		},
	}

	writeJSON(w, http.StatusOK, response)
}
