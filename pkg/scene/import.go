package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/floatpos/pkg/errors"
)

// Format is a scene file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from a file extension. Anything other
// than .json is read as TOML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatTOML
}

// Read decodes a scene from r and validates it.
//
// Read returns an INVALID_SCENE error if the input is malformed or fails
// [Scene.Validate]. Read does not close r.
func Read(r io.Reader, format Format) (*Scene, error) {
	var s Scene
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode json")
		}
	case FormatTOML, "":
		if _, err := toml.NewDecoder(r).Decode(&s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode toml")
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown scene format %q", format)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Parse is Read over a byte slice.
func Parse(data []byte, format Format) (*Scene, error) {
	return Read(strings.NewReader(string(data)), format)
}

// Load reads the scene file at path, picking the format from its extension.
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	s, err := Read(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
