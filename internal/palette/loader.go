package palette

import (
	"encoding/json"
	"fmt"
	"os"
)

// File is the on-disk palette description consumed by the CLI: a list of
// source groups. Tone variants are not stored; they are derived at build
// time from the structure mode.
type File struct {
	Groups []Group `json:"groups"`
}

// LoadFile reads a palette description from a JSON file and builds it under
// the given structure mode.
func LoadFile(path string, mode StructureMode) (*Palette, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read palette file: %w", err)
	}
	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse palette file: %w", err)
	}
	p, err := Build(f.Groups, mode)
	if err != nil {
		return nil, fmt.Errorf("palette file %s: %w", path, err)
	}
	return p, nil
}
