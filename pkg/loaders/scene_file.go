package loaders

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for scene files with an unknown extension
var ErrUnsupportedFormat = errors.New("unsupported scene file format")

// Format identifies a scene file encoding
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Vec is a 3-component vector as written in scene files
type Vec [3]float64

// SceneFile is the on-disk description of a scene
type SceneFile struct {
	Name        string        `toml:"name" yaml:"name"`
	Description string        `toml:"description" yaml:"description"`
	Group       string        `toml:"group" yaml:"group"`
	Camera      CameraSpec    `toml:"camera" yaml:"camera"`
	Sky         *MaterialSpec `toml:"sky" yaml:"sky"` // nil keeps the default sky
	Render      RenderSpec    `toml:"render" yaml:"render"`
	Marched     []ObjectSpec  `toml:"marched" yaml:"marched"`
	Traced      []ObjectSpec  `toml:"traced" yaml:"traced"`
}

// CameraSpec places the pinhole camera
type CameraSpec struct {
	Origin Vec     `toml:"origin" yaml:"origin"`
	VFov   float64 `toml:"vfov" yaml:"vfov"` // 0 keeps the default
}

// RenderSpec holds render settings; zero values keep the defaults.
// Bounces is a pointer because 0 (emission only) is a valid request.
type RenderSpec struct {
	Width           int  `toml:"width" yaml:"width"`
	Height          int  `toml:"height" yaml:"height"`
	Bounces         *int `toml:"bounces" yaml:"bounces"`
	Samples         int  `toml:"samples" yaml:"samples"`
	Passes          int  `toml:"passes" yaml:"passes"`
	SamplesPerPixel int  `toml:"samples_per_pixel" yaml:"samples_per_pixel"`
	TileSize        int  `toml:"tile_size" yaml:"tile_size"`
	Workers         int  `toml:"workers" yaml:"workers"` // 0 = CPU count
}

// MaterialSpec mirrors material.Material
type MaterialSpec struct {
	Color        Vec     `toml:"color" yaml:"color"`
	Emission     float64 `toml:"emission" yaml:"emission"`
	Metallic     float64 `toml:"metallic" yaml:"metallic"`
	Roughness    float64 `toml:"roughness" yaml:"roughness"`
	Transmission float64 `toml:"transmission" yaml:"transmission"`
	Specular     float64 `toml:"specular" yaml:"specular"`
}

// ObjectSpec describes one object. Which fields apply depends on Shape:
//
//	sphere: center, radius
//	box:    center, size (half-extents), rounding (marched only)
//	torus:  center, major_radius, minor_radius (marched only)
//	plane:  point, normal
//	disc:   center, normal, radius (traced only)
//	quad:   corner, u, v (traced only)
type ObjectSpec struct {
	Shape       string       `toml:"shape" yaml:"shape"`
	Center      Vec          `toml:"center" yaml:"center"`
	Radius      float64      `toml:"radius" yaml:"radius"`
	Size        Vec          `toml:"size" yaml:"size"`
	Rounding    float64      `toml:"rounding" yaml:"rounding"`
	MajorRadius float64      `toml:"major_radius" yaml:"major_radius"`
	MinorRadius float64      `toml:"minor_radius" yaml:"minor_radius"`
	Point       Vec          `toml:"point" yaml:"point"`
	Normal      Vec          `toml:"normal" yaml:"normal"`
	Corner      Vec          `toml:"corner" yaml:"corner"`
	U           Vec          `toml:"u" yaml:"u"`
	V           Vec          `toml:"v" yaml:"v"`
	Material    MaterialSpec `toml:"material" yaml:"material"`
}

// FormatOf returns the format implied by a file extension
func FormatOf(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// IsSceneFile reports whether the filename has a scene file extension
func IsSceneFile(filename string) bool {
	_, err := FormatOf(filename)
	return err == nil
}

// ParseSceneFile decodes a scene. Unknown keys are rejected so typos surface
// as errors instead of silently falling back to defaults.
func ParseSceneFile(r io.Reader, format Format) (*SceneFile, error) {
	var sf SceneFile

	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&sf); err != nil {
			return nil, fmt.Errorf("failed to decode toml: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&sf); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	return &sf, nil
}

// LoadSceneFile loads and parses a scene file, choosing the decoder by extension
func LoadSceneFile(filename string) (*SceneFile, error) {
	if err := validateFilePath(filename); err != nil {
		return nil, err
	}

	format, err := FormatOf(filename)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	sf, err := ParseSceneFile(file, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return sf, nil
}

// validateFilePath rejects paths that cannot name a regular scene file
func validateFilePath(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	if strings.Contains(filename, "\x00") {
		return fmt.Errorf("invalid file path: null bytes not allowed")
	}
	if len(filepath.Clean(filename)) > 512 {
		return fmt.Errorf("file path too long: maximum 512 characters allowed")
	}
	return nil
}
