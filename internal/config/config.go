// Package config loads the studio's settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"StudioIntake/internal/signature"

	"github.com/BurntSushi/toml"
)

// DefaultPort is the desk's websocket port.
const DefaultPort = 8080

// Config holds every tunable setting. Zero-valued sections in the file keep
// their defaults.
type Config struct {
	Pad  Pad  `toml:"pad"`
	Desk Desk `toml:"desk"`
}

// Pad configures the signature pad.
type Pad struct {
	Style         signature.Style `toml:"style"`
	Ink           Color           `toml:"ink"`
	ExportColor   Color           `toml:"export_color"`
	ArtifactDelay time.Duration   `toml:"artifact_delay"`
}

// Desk configures the receiving host.
type Desk struct {
	Port    int    `toml:"port"`
	MDNS    bool   `toml:"mdns"`
	DataDir string `toml:"data_dir"`
}

// Color is a hex RGB(A) color such as "#d4af37".
type Color struct {
	color.NRGBA
}

// Default returns the built-in settings.
func Default() Config {
	sig := signature.DefaultConfig()
	return Config{
		Pad: Pad{
			Style:         sig.Style,
			Ink:           Color{color.NRGBAModel.Convert(sig.Ink).(color.NRGBA)},
			ExportColor:   Color{color.NRGBAModel.Convert(sig.ExportColor).(color.NRGBA)},
			ArtifactDelay: sig.ArtifactDelay,
		},
		Desk: Desk{
			Port:    DefaultPort,
			MDNS:    true,
			DataDir: defaultDataDir(),
		},
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "StudioIntake")
	}
	return "studiointake-data"
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the app cannot run with.
func (c Config) Validate() error {
	if c.Pad.Style.Size <= 0 {
		return fmt.Errorf("config: pad.style.size must be positive, got %v", c.Pad.Style.Size)
	}
	if c.Pad.ArtifactDelay < 0 {
		return fmt.Errorf("config: pad.artifact_delay must not be negative")
	}
	if c.Desk.Port <= 0 || c.Desk.Port > 65535 {
		return fmt.Errorf("config: desk.port %d out of range", c.Desk.Port)
	}
	if c.Desk.DataDir == "" {
		return fmt.Errorf("config: desk.data_dir is empty")
	}
	return nil
}

// Signature converts the pad section for the signature package.
func (p Pad) Signature() signature.Config {
	return signature.Config{
		Style:         p.Style,
		Ink:           p.Ink.NRGBA,
		ExportColor:   p.ExportColor.NRGBA,
		ArtifactDelay: p.ArtifactDelay,
	}
}

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func (c *Color) UnmarshalText(text []byte) error {
	v, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	c.NRGBA = v
	return nil
}

func (c Color) MarshalText() ([]byte, error) {
	if c.A == 0xff {
		return []byte(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)), nil
	}
	return []byte(fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)), nil
}
