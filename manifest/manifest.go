// Package manifest records what a generation run produced.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/soypat/pcbbox"
	"gopkg.in/yaml.v3"
)

// Version of the manifest format written by this package.
const Version = 1

// Manifest is the YAML record of one generation run.
type Manifest struct {
	Version int       `yaml:"version"`
	RunID   string    `yaml:"run_id"`
	Created time.Time `yaml:"created"`
	// Config is the path of the configuration file the run was read from.
	Config       string               `yaml:"config,omitempty"`
	Params       pcbbox.Params        `yaml:"params"`
	Layout       pcbbox.Layout        `yaml:"layout"`
	Perforations []pcbbox.Perforation `yaml:"perforations,omitempty"`
	Cutouts      []pcbbox.Cutout      `yaml:"cutouts,omitempty"`
	Outputs      []pcbbox.Output      `yaml:"outputs"`
}

// New returns the manifest of a run with a fresh run ID.
func New(config string, l pcbbox.Layout, res pcbbox.Result) Manifest {
	return Manifest{
		Version:      Version,
		RunID:        uuid.NewString(),
		Created:      time.Now().UTC().Truncate(time.Second),
		Config:       config,
		Params:       l.Params,
		Layout:       l,
		Perforations: l.Perforations(),
		Cutouts:      l.Cutouts(),
		Outputs:      res.Outputs,
	}
}

// Triangles returns the total triangle count of all outputs.
func (m Manifest) Triangles() (n int) {
	for _, o := range m.Outputs {
		n += o.Triangles
	}
	return n
}

// Write encodes m as YAML.
func Write(w io.Writer, m Manifest) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return enc.Close()
}

// WriteFile writes m to path.
func WriteFile(path string, m Manifest) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	if err := Write(fp, m); err != nil {
		return err
	}
	return fp.Close()
}

// Read decodes a manifest and checks its version and run ID.
func Read(r io.Reader) (Manifest, error) {
	var m Manifest
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return Manifest{}, errors.New("empty manifest")
		}
		return Manifest{}, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if m.Version != Version {
		return Manifest{}, fmt.Errorf("unsupported manifest version %d", m.Version)
	}
	if _, err := uuid.Parse(m.RunID); err != nil {
		return Manifest{}, fmt.Errorf("bad run_id: %w", err)
	}
	m.Layout.Params = m.Params
	return m, nil
}

// ReadFile reads the manifest at path.
func ReadFile(path string) (Manifest, error) {
	fp, err := os.Open(path)
	if err != nil {
		return Manifest{}, err
	}
	defer fp.Close()
	return Read(fp)
}
