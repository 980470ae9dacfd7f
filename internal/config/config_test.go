package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "studiointake.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
[pad]
ink = "#ff0000"
export_color = "#00000080"
artifact_delay = "120ms"

[pad.style]
size = 5.0
cap_end = false

[desk]
port = 9000
mdns = false
data_dir = "/tmp/studio"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, cfg.Pad.Ink.NRGBA)
	assert.Equal(t, color.NRGBA{A: 0x80}, cfg.Pad.ExportColor.NRGBA)
	assert.Equal(t, 120*time.Millisecond, cfg.Pad.ArtifactDelay)
	assert.Equal(t, 5.0, cfg.Pad.Style.Size)
	assert.False(t, cfg.Pad.Style.CapEnd)
	// Unset keys keep their defaults.
	assert.Equal(t, Default().Pad.Style.Thinning, cfg.Pad.Style.Thinning)
	assert.True(t, cfg.Pad.Style.CapStart)

	assert.Equal(t, 9000, cfg.Desk.Port)
	assert.False(t, cfg.Desk.MDNS)
	assert.Equal(t, "/tmp/studio", cfg.Desk.DataDir)

	sig := cfg.Pad.Signature()
	assert.Equal(t, cfg.Pad.Style, sig.Style)
	assert.Equal(t, 120*time.Millisecond, sig.ArtifactDelay)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", `[pad`},
		{"bad color", "[pad]\nink = \"gold\""},
		{"bad port", "[desk]\nport = 70000"},
		{"zero size", "[pad.style]\nsize = 0.0"},
		{"negative delay", "[pad]\nartifact_delay = \"-1s\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#d4af37", color.NRGBA{R: 0xd4, G: 0xaf, B: 0x37, A: 0xff}, false},
		{"d4af37", color.NRGBA{R: 0xd4, G: 0xaf, B: 0x37, A: 0xff}, false},
		{"#fff", color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, false},
		{"#11223344", color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44}, false},
		{"#12345", color.NRGBA{}, true},
		{"#zzzzzz", color.NRGBA{}, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestColorRoundTrip(t *testing.T) {
	c := Color{color.NRGBA{R: 0xd4, G: 0xaf, B: 0x37, A: 0xff}}
	text, err := c.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "#d4af37", string(text))

	var back Color
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, c, back)
}
