package config

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soypat/pcbbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, warnings, err := Load(filepath.Join("testdata", "esp12f.toml"))
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, 48.0, cfg.Box.PCBLength)
	assert.False(t, cfg.Box.RoundTopEdges)
	assert.Equal(t, 4, cfg.Box.PostWebs)
	assert.True(t, cfg.Perforation.YSidePerforation)
	assert.True(t, cfg.Circular.Enabled)
	assert.Equal(t, pcbbox.FaceXNeg, cfg.Circular.Face)
	assert.Equal(t, pcbbox.FaceYPos, cfg.Rectangular.Face)
	assert.Equal(t, 2, cfg.LidBolt.Count)
	assert.True(t, cfg.LidBolt.Mirror)
	assert.False(t, cfg.Mounting.Mounts)
	assert.Equal(t, "PETG", cfg.Material.Name)
	assert.True(t, cfg.Material.CompensateHoles)

	assert.Equal(t, 120, cfg.Render.Resolution)
	assert.Equal(t, "out", cfg.Render.OutputDir)
	assert.Equal(t, []string{"box", "lid", "assembly"}, cfg.Render.Parts)
	// Not present in the file.
	assert.Equal(t, "preview.png", cfg.Render.Preview)

	l, err := cfg.Layout()
	require.NoError(t, err)
	assert.Len(t, l.Posts, 2)
}

func TestDecodeDefaults(t *testing.T) {
	cfg, warnings, err := Decode(strings.NewReader("[box]\nwall = 3.0\n"))
	require.NoError(t, err)
	assert.Empty(t, warnings)

	want := pcbbox.DefaultParams()
	want.Box.Wall = 3
	assert.Equal(t, want, cfg.Params)
	assert.Equal(t, DefaultRender(), cfg.Render)
}

func TestDecodeUnknownKeys(t *testing.T) {
	const file = `
[box]
wall = 2.5
colour = "red"

[extras]
knob = true
`
	cfg, warnings, err := Decode(strings.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.Box.Wall)
	all := strings.Join(warnings, "\n")
	assert.Contains(t, all, `"box.colour"`)
	assert.Contains(t, all, `"extras.knob"`)
	assert.NotContains(t, all, "box.wall")
}

func TestDecodeErrors(t *testing.T) {
	for name, file := range map[string]string{
		"syntax":     "[box\nwall = 2",
		"type":       "[box]\nwall = \"thick\"",
		"bad part":   "[render]\nparts = [\"box\", \"hinge\"]",
		"bool field": "[mounting]\nmounts = 1",
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := Decode(strings.NewReader(file))
			assert.Error(t, err)
		})
	}
	_, _, err := Load(filepath.Join("testdata", "missing.toml"))
	assert.Error(t, err)
}

func TestLayoutInvalid(t *testing.T) {
	cfg, _, err := Decode(strings.NewReader("[lid_bolt]\nnr = 3\n"))
	require.NoError(t, err)
	_, err = cfg.Layout()
	require.Error(t, err)
	assert.True(t, errors.Is(err, pcbbox.ErrInvalidParams))
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg, _, err := Load(filepath.Join("testdata", "esp12f.toml"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, cfg))
	assert.Contains(t, buf.String(), "[sensor_hole_at_top]")

	got, warnings, err := Decode(&buf)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, cfg, got)
}

func TestGenerateConfig(t *testing.T) {
	cfg := Default()
	cfg.Render.Parts = []string{"Lid", " box ", "lid"}
	cfg.Render.ASCII = true
	g, err := cfg.GenerateConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, []pcbbox.Part{pcbbox.PartLid, pcbbox.PartBox}, g.Parts)
	assert.True(t, g.ASCII)
	assert.Equal(t, pcbbox.DefaultResolution, g.Resolution)

	cfg.Render.Parts = []string{"hinge"}
	_, err = cfg.GenerateConfig(nil)
	assert.Error(t, err)
}
