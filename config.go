package contrail

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig is wrapped by every Config validation failure.
var ErrInvalidConfig = errors.New("contrail: invalid config")

// Config holds every tunable constant of the animation. DefaultConfig
// reproduces the stock look; a TOML file may override any subset.
type Config struct {
	// Window
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`

	// Pool and cadence
	PoolCapacity  int `toml:"pool_capacity"`
	SpawnInterval int `toml:"spawn_interval"` // frames between spawns

	// Cloud growth
	GrowthFactor  float64 `toml:"growth_factor"`
	DecayFactor   float64 `toml:"decay_factor"`
	RetireRadius  float64 `toml:"retire_radius"`
	InitialRadius Range   `toml:"initial_radius"`
	MaxRadius     Range   `toml:"max_radius"`
	MinRadiusGap  float64 `toml:"min_radius_gap"` // MaxRadius >= InitialRadius + gap

	// Cloud placement and drift
	SpawnScale  float64 `toml:"spawn_scale"`  // base scale applied before the radius
	SpawnLag    float64 `toml:"spawn_lag"`    // frames of travel the cloud trails behind
	DriftFactor Range   `toml:"drift_factor"` // drift = factor * speed / DriftDivisor
	DriftDiv    float64 `toml:"drift_divisor"`

	// Flight
	Speed           Range   `toml:"speed"`
	Heading         Range   `toml:"heading"` // degrees
	EdgeFraction    Range   `toml:"edge_fraction"`
	OffscreenMargin float64 `toml:"offscreen_margin"`
	InitialSpeed    float64 `toml:"initial_speed"`
	InitialHeading  float64 `toml:"initial_heading"`
	FadeFrames      float64 `toml:"fade_frames"` // airplane fade-in after a reset; 0 disables

	// Look
	Background string        `toml:"background"`
	Palettes   []PaletteSpec `toml:"palettes"`

	// Seed makes random draws reproducible when non-zero.
	Seed uint64 `toml:"seed"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	specs := make([]PaletteSpec, len(defaultPaletteSpecs))
	for i, s := range defaultPaletteSpecs {
		specs[i] = PaletteSpec{Name: s.Name, Colors: append([]string(nil), s.Colors...)}
	}
	return Config{
		Title:  "contrail",
		Width:  640,
		Height: 480,

		PoolCapacity:  100,
		SpawnInterval: 4,

		GrowthFactor:  1.1,
		DecayFactor:   0.9,
		RetireRadius:  1,
		InitialRadius: Range{5, 8},
		MaxRadius:     Range{8, 13},
		MinRadiusGap:  3,

		SpawnScale:  0.05,
		SpawnLag:    10,
		DriftFactor: Range{1, 3},
		DriftDiv:    45,

		Speed:           Range{3, 5},
		Heading:         Range{30, 150},
		EdgeFraction:    Range{0.2, 0.8},
		OffscreenMargin: 30,
		InitialSpeed:    4,
		InitialHeading:  50,
		FadeFrames:      20,

		Background: "#F2F0F0",
		Palettes:   specs,
	}
}

// ParseConfig overlays a TOML document on DefaultConfig and validates the
// result. A document with a palettes array replaces the built-in palettes.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	defaults := cfg.Palettes
	cfg.Palettes = nil
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Palettes == nil {
		cfg.Palettes = defaults
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a TOML file and passes it to ParseConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the config for values the animation cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.PoolCapacity <= 0:
		return fmt.Errorf("%w: pool_capacity %d", ErrInvalidConfig, c.PoolCapacity)
	case c.SpawnInterval <= 0:
		return fmt.Errorf("%w: spawn_interval %d", ErrInvalidConfig, c.SpawnInterval)
	case c.GrowthFactor <= 1:
		return fmt.Errorf("%w: growth_factor %v must exceed 1", ErrInvalidConfig, c.GrowthFactor)
	case c.DecayFactor <= 0 || c.DecayFactor >= 1:
		return fmt.Errorf("%w: decay_factor %v must lie in (0, 1)", ErrInvalidConfig, c.DecayFactor)
	case c.RetireRadius <= 0:
		return fmt.Errorf("%w: retire_radius %v", ErrInvalidConfig, c.RetireRadius)
	case !c.InitialRadius.valid() || c.InitialRadius.Min <= c.RetireRadius:
		return fmt.Errorf("%w: initial_radius %v", ErrInvalidConfig, c.InitialRadius)
	case !c.MaxRadius.valid() || c.MinRadiusGap <= 0:
		return fmt.Errorf("%w: max_radius %v gap %v", ErrInvalidConfig, c.MaxRadius, c.MinRadiusGap)
	case !c.DriftFactor.valid() || c.DriftDiv <= 0:
		return fmt.Errorf("%w: drift %v / %v", ErrInvalidConfig, c.DriftFactor, c.DriftDiv)
	case !c.Speed.valid() || c.Speed.Min <= 0:
		return fmt.Errorf("%w: speed %v", ErrInvalidConfig, c.Speed)
	case !c.Heading.valid() || c.Heading.Min <= 0 || c.Heading.Max >= 180:
		return fmt.Errorf("%w: heading %v must lie inside (0, 180)", ErrInvalidConfig, c.Heading)
	case !c.EdgeFraction.valid() || c.EdgeFraction.Min < 0 || c.EdgeFraction.Max > 1:
		return fmt.Errorf("%w: edge_fraction %v", ErrInvalidConfig, c.EdgeFraction)
	case c.OffscreenMargin < 0:
		return fmt.Errorf("%w: offscreen_margin %v", ErrInvalidConfig, c.OffscreenMargin)
	case c.FadeFrames < 0:
		return fmt.Errorf("%w: fade_frames %v", ErrInvalidConfig, c.FadeFrames)
	case len(c.Palettes) == 0:
		return fmt.Errorf("%w: no palettes", ErrInvalidConfig)
	}
	if _, err := ParseHexColor(c.Background); err != nil {
		return fmt.Errorf("%w: background: %w", ErrInvalidConfig, err)
	}
	if _, err := c.palettes(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// palettes compiles the palette specs.
func (c Config) palettes() ([]Palette, error) {
	out := make([]Palette, 0, len(c.Palettes))
	for _, spec := range c.Palettes {
		p, err := spec.build()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// background returns the parsed clear color, falling back to white.
func (c Config) background() Color {
	col, err := ParseHexColor(c.Background)
	if err != nil {
		return ColorWhite
	}
	return col
}
