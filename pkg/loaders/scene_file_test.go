package loaders

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tomlScene = `
name = "Torus Garden"
description = "A marched torus beside a traced sphere"
group = "Examples"

[camera]
origin = [0.0, 1.0, 3.0]
vfov = 60.0

[sky]
color = [0.7, 0.8, 1.0]
emission = 1.0

[render]
width = 64
height = 48
bounces = 3
samples = 8
passes = 2
samples_per_pixel = 4
tile_size = 16
workers = 2

[[marched]]
shape = "torus"
center = [0.0, 0.5, -2.0]
major_radius = 0.6
minor_radius = 0.2
[marched.material]
color = [0.8, 0.6, 0.2]
metallic = 1.0
roughness = 0.3

[[traced]]
shape = "sphere"
center = [1.0, 0.5, -2.0]
radius = 0.5
[traced.material]
color = [0.9, 0.1, 0.1]
roughness = 1.0
`

const yamlScene = `
name: Torus Garden
description: A marched torus beside a traced sphere
group: Examples
camera:
  origin: [0, 1, 3]
  vfov: 60
sky:
  color: [0.7, 0.8, 1.0]
  emission: 1
render:
  width: 64
  height: 48
  bounces: 3
  samples: 8
  passes: 2
  samples_per_pixel: 4
  tile_size: 16
  workers: 2
marched:
  - shape: torus
    center: [0, 0.5, -2]
    major_radius: 0.6
    minor_radius: 0.2
    material:
      color: [0.8, 0.6, 0.2]
      metallic: 1
      roughness: 0.3
traced:
  - shape: sphere
    center: [1, 0.5, -2]
    radius: 0.5
    material:
      color: [0.9, 0.1, 0.1]
      roughness: 1
`

func assertTorusGarden(t *testing.T, sf *SceneFile) {
	t.Helper()
	assert.Equal(t, "Torus Garden", sf.Name)
	assert.Equal(t, "Examples", sf.Group)
	assert.Equal(t, Vec{0, 1, 3}, sf.Camera.Origin)
	assert.Equal(t, 60.0, sf.Camera.VFov)
	require.NotNil(t, sf.Sky)
	assert.Equal(t, Vec{0.7, 0.8, 1.0}, sf.Sky.Color)
	require.NotNil(t, sf.Render.Bounces)
	assert.Equal(t, 3, *sf.Render.Bounces)
	render := sf.Render
	render.Bounces = nil
	assert.Equal(t, RenderSpec{Width: 64, Height: 48, Samples: 8, Passes: 2, SamplesPerPixel: 4, TileSize: 16, Workers: 2}, render)

	require.Len(t, sf.Marched, 1)
	torus := sf.Marched[0]
	assert.Equal(t, "torus", torus.Shape)
	assert.Equal(t, 0.6, torus.MajorRadius)
	assert.Equal(t, 0.2, torus.MinorRadius)
	assert.Equal(t, 1.0, torus.Material.Metallic)
	assert.Equal(t, 0.3, torus.Material.Roughness)

	require.Len(t, sf.Traced, 1)
	assert.Equal(t, "sphere", sf.Traced[0].Shape)
	assert.Equal(t, Vec{1, 0.5, -2}, sf.Traced[0].Center)
	assert.Equal(t, 0.5, sf.Traced[0].Radius)
}

func TestParseSceneFile_TOML(t *testing.T) {
	sf, err := ParseSceneFile(strings.NewReader(tomlScene), FormatTOML)
	require.NoError(t, err)
	assertTorusGarden(t, sf)
}

func TestParseSceneFile_YAML(t *testing.T) {
	sf, err := ParseSceneFile(strings.NewReader(yamlScene), FormatYAML)
	require.NoError(t, err)
	assertTorusGarden(t, sf)
}

func TestParseSceneFile_FormatsAgree(t *testing.T) {
	fromTOML, err := ParseSceneFile(strings.NewReader(tomlScene), FormatTOML)
	require.NoError(t, err)
	fromYAML, err := ParseSceneFile(strings.NewReader(yamlScene), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, fromTOML, fromYAML)
}

func TestParseSceneFile_ExplicitZeroBounces(t *testing.T) {
	sf, err := ParseSceneFile(strings.NewReader("[render]\nbounces = 0\n"), FormatTOML)
	require.NoError(t, err)
	require.NotNil(t, sf.Render.Bounces)
	assert.Equal(t, 0, *sf.Render.Bounces)

	sf, err = ParseSceneFile(strings.NewReader("render:\n  bounces: 0\n"), FormatYAML)
	require.NoError(t, err)
	require.NotNil(t, sf.Render.Bounces)
	assert.Equal(t, 0, *sf.Render.Bounces)

	sf, err = ParseSceneFile(strings.NewReader("[render]\nwidth = 10\n"), FormatTOML)
	require.NoError(t, err)
	assert.Nil(t, sf.Render.Bounces)
}

func TestParseSceneFile_RejectsUnknownKeys(t *testing.T) {
	_, err := ParseSceneFile(strings.NewReader("name = \"x\"\nbounce = 3\n"), FormatTOML)
	assert.Error(t, err)

	_, err = ParseSceneFile(strings.NewReader("name: x\ncamera:\n  fov: 40\n"), FormatYAML)
	assert.Error(t, err)
}

func TestParseSceneFile_EmptyDocuments(t *testing.T) {
	sf, err := ParseSceneFile(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, &SceneFile{}, sf)

	sf, err = ParseSceneFile(strings.NewReader(""), FormatTOML)
	require.NoError(t, err)
	assert.Nil(t, sf.Sky)
}

func TestParseSceneFile_WrongVectorLength(t *testing.T) {
	_, err := ParseSceneFile(strings.NewReader("camera:\n  origin: [1, 2]\n"), FormatYAML)
	assert.Error(t, err)
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		filename string
		expected Format
		wantErr  bool
	}{
		{"scene.toml", FormatTOML, false},
		{"dir/Scene.TOML", FormatTOML, false},
		{"scene.yaml", FormatYAML, false},
		{"scene.yml", FormatYAML, false},
		{"scene.pbrt", "", true},
		{"scene", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			format, err := FormatOf(tt.filename)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				assert.False(t, IsSceneFile(tt.filename))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
			assert.True(t, IsSceneFile(tt.filename))
		})
	}
}

func TestLoadSceneFile(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "garden.toml")
	yamlPath := filepath.Join(dir, "garden.yml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(tomlScene), 0o644))
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlScene), 0o644))

	for _, path := range []string{tomlPath, yamlPath} {
		sf, err := LoadSceneFile(path)
		require.NoError(t, err, path)
		assertTorusGarden(t, sf)
	}
}

func TestLoadSceneFile_Errors(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(broken, []byte("name = \n"), 0o644))

	_, err := LoadSceneFile(broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), broken, "errors name the file")

	_, err = LoadSceneFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadSceneFile(filepath.Join(dir, "scene.obj"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadSceneFile("")
	assert.Error(t, err)

	_, err = LoadSceneFile("bad\x00name.toml")
	assert.Error(t, err)
}
