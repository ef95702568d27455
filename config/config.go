// Package config reads enclosure definitions from TOML files.
//
// A file holds the enclosure sections understood by pcbbox.Params
// ([box], [perforation], [circular_connector], [rectangular_connector],
// [sensor_hole_at_top], [lid_bolt], [mounting], [material]) plus an
// optional [render] section controlling output. Keys absent from the file
// keep the values of pcbbox.DefaultParams and DefaultRender.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"github.com/soypat/pcbbox"
)

// Render is the [render] section.
type Render struct {
	// Resolution is the number of mesh cells along a part's longest side.
	Resolution int `toml:"resolution"`
	// OutputDir receives STL files and the manifest.
	OutputDir string `toml:"output_dir"`
	// Parts lists the parts to render: box, lid and/or assembly.
	Parts []string `toml:"parts"`
	ASCII bool     `toml:"ascii"`
	// Preview is the PNG file written by the preview command.
	Preview string `toml:"preview"`
}

// Config is a decoded configuration file.
type Config struct {
	pcbbox.Params
	Render Render `toml:"render"`
}

// DefaultRender returns the [render] values used when a file omits them.
func DefaultRender() Render {
	return Render{
		Resolution: pcbbox.DefaultResolution,
		OutputDir:  ".",
		Parts:      []string{string(pcbbox.PartBox), string(pcbbox.PartLid)},
		Preview:    "preview.png",
	}
}

// Default returns the configuration of an empty file.
func Default() Config {
	return Config{
		Params: pcbbox.DefaultParams(),
		Render: DefaultRender(),
	}
}

// Load reads the configuration file at path. Unknown keys do not fail
// decoding, they are returned as warnings.
func Load(path string) (Config, []string, error) {
	fp, err := os.Open(path)
	if err != nil {
		return Config{}, nil, fmt.Errorf("failed to read config: %w", err)
	}
	defer fp.Close()
	cfg, warnings, err := Decode(fp)
	if err != nil {
		return Config{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, warnings, nil
}

// Decode reads a configuration from r on top of Default.
func Decode(r io.Reader) (Config, []string, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, nil, fmt.Errorf("failed to parse config: %w", err)
	}
	var warnings []string
	for _, key := range md.Undecoded() {
		warnings = append(warnings, fmt.Sprintf("unknown key %q", key.String()))
	}
	if _, err := cfg.Render.parts(); err != nil {
		return Config{}, nil, fmt.Errorf("render.parts: %w", err)
	}
	return cfg, warnings, nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// Layout validates the enclosure parameters and derives the layout.
func (c Config) Layout() (pcbbox.Layout, error) {
	return pcbbox.Derive(c.Params)
}

// GenerateConfig converts the [render] section to generation options.
func (c Config) GenerateConfig(log *zerolog.Logger) (pcbbox.GenerateConfig, error) {
	parts, err := c.Render.parts()
	if err != nil {
		return pcbbox.GenerateConfig{}, err
	}
	return pcbbox.GenerateConfig{
		Dir:        c.Render.OutputDir,
		Parts:      parts,
		Resolution: c.Render.Resolution,
		ASCII:      c.Render.ASCII,
		Logger:     log,
	}, nil
}

func (r Render) parts() ([]pcbbox.Part, error) {
	parts := make([]pcbbox.Part, 0, len(r.Parts))
	seen := make(map[pcbbox.Part]bool)
	for _, s := range r.Parts {
		p, err := pcbbox.ParsePart(strings.ToLower(strings.TrimSpace(s)))
		if err != nil {
			return nil, err
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		parts = append(parts, p)
	}
	return parts, nil
}
