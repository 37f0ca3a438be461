package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Format selects the encoding of a metadata file
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// File is the on-disk shape of a metadata index
type File struct {
	Assembly    string        `yaml:"assembly,omitempty" json:"assembly,omitempty"`
	Descriptors []*Descriptor `yaml:"descriptors" json:"descriptors"`
}

var validate = validator.New()

// Load reads a metadata file, picking the format from the extension
func Load(path string) (*MemoryIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata: %w", err)
	}
	defer func() { _ = f.Close() }()

	format := FormatYAML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = FormatJSON
	}

	idx, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return idx, nil
}

// Decode reads and validates a metadata index
func Decode(r io.Reader, format Format) (*MemoryIndex, error) {
	var file File

	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&file); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to decode yaml: %w", err)
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&file); err != nil {
			return nil, fmt.Errorf("failed to decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	for i, d := range file.Descriptors {
		if d == nil {
			return nil, fmt.Errorf("%w: descriptor %d is empty", ErrInvalidDescriptor, i)
		}
		if err := validate.Struct(d); err != nil {
			return nil, fmt.Errorf("%w: descriptor %d (%s): %v", ErrInvalidDescriptor, i, d.Path, err)
		}
	}

	return NewMemoryIndex(file.Descriptors...), nil
}
