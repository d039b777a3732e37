// Package config loads observation files for the thermal-etc command.
//
// A file may set the instrument to use, any subset of the observation
// fields, and extra instrument profiles to register in the catalog. The
// extension picks the codec: .yaml/.yml for YAML, .json for JSON.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/signalsfoundry/thermal-etc/kb"
	"github.com/signalsfoundry/thermal-etc/model"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for files whose extension has no codec.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// File is the on-disk representation of an observation file.
type File struct {
	Instrument  string             `json:"instrument,omitempty" yaml:"instrument,omitempty"`
	Observation model.Observation  `json:"observation" yaml:"observation"`
	Instruments []model.Instrument `json:"instruments,omitempty" yaml:"instruments,omitempty"`
}

// Load reads and decodes the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var f File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing config YAML %q: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing config JSON %q: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return &f, nil
}

// Register adds the file's instrument profiles to the catalog.
func (f *File) Register(catalog *kb.Catalog) error {
	for i := range f.Instruments {
		if err := catalog.AddInstrument(&f.Instruments[i]); err != nil {
			return fmt.Errorf("registering instrument %d: %w", i, err)
		}
	}
	return nil
}
