package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ktzy0305/SlideWeaver/autowrap"
)

// Config holds the file-level settings of a conversion run. Flags
// override anything read from the file.
type Config struct {
	// Layout names the target slide canvas (e.g. "LAYOUT_16x9").
	Layout string `toml:"layout"`

	// MaxHeadingWidth is the slide-width fraction a heading line may
	// span before auto-wrapping rewrites it.
	MaxHeadingWidth float64 `toml:"max_heading_width"`

	// AutoWrap toggles the heading wrap pass.
	AutoWrap bool `toml:"auto_wrap"`

	// Output is the destination for the JSON call stream; empty means
	// stdout.
	Output string `toml:"output"`
}

// defaultConfig returns the settings used when no config file is given.
func defaultConfig() Config {
	return Config{
		Layout:          "LAYOUT_WIDE",
		MaxHeadingWidth: autowrap.DefaultMaxWidthFraction,
		AutoWrap:        true,
	}
}

// loadConfig reads a TOML config file over the defaults. A missing
// path returns the defaults unchanged.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return cfg, fmt.Errorf("config file: %w", err)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}
