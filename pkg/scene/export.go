package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/floatpos/pkg/errors"
)

// Write encodes s to w. The output can be read back with [Read].
func Write(s *Scene, w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatTOML, "":
		if err := toml.NewEncoder(w).Encode(s); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	default:
		return errors.New(errors.ErrCodeUnsupported, "unknown scene format %q", format)
	}
	return nil
}

// Save writes s to path, picking the format from its extension.
func Save(s *Scene, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(s, f, FormatFromPath(path))
}
