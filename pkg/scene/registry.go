package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-hybrid-raytracer/pkg/loaders"
)

// ErrUnknownScene is returned when no built-in scene has the requested name
var ErrUnknownScene = errors.New("unknown scene")

// Builtin is a scene compiled into the binary
type Builtin struct {
	ID          string
	Name        string
	Description string
	New         func() *Scene
}

// Builtins returns the built-in scenes in display order
func Builtins() []Builtin {
	return []Builtin{
		{ID: "default", Name: "Default Scene", Description: "Marched torus, box and ground with traced spheres", New: NewDefaultScene},
		{ID: "cornell", Name: "Cornell Box", Description: "Traced walls and ceiling lamp around marched objects", New: NewCornellScene},
		{ID: "mirror", Name: "Mirror Grid", Description: "Metal sphere grid on a marched mirror floor", New: NewMirrorScene},
		{ID: "empty", Name: "Empty", Description: "Nothing but sky", New: NewEmptyScene},
	}
}

// Lookup builds the built-in scene with the given ID
func Lookup(id string) (*Scene, error) {
	for _, b := range Builtins() {
		if b.ID == id {
			return b.New(), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
}

// Load resolves ref as a scene file path when it has a scene file extension,
// and as a built-in scene ID otherwise
func Load(ref string) (*Scene, error) {
	if loaders.IsSceneFile(ref) {
		return LoadFile(ref)
	}
	return Lookup(ref)
}
