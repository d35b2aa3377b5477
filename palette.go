package contrail

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// PaletteSize is the number of cloud variants in every palette.
const PaletteSize = 4

// ErrBadColor is returned for malformed hex color strings.
var ErrBadColor = errors.New("contrail: bad hex color")

// Palette is a named set of cloud colors. Each spawned cloud picks one of
// the variants uniformly.
type Palette struct {
	Name   string
	Colors [PaletteSize]Color
}

// ParseHexColor parses "#RRGGBB" or "#RRGGBBAA" (the leading '#' is optional).
// A missing alpha channel means fully opaque.
func ParseHexColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}

// PaletteSpec is the textual form of a palette: a name and four hex colors.
// Shared by the built-in defaults and the TOML config.
type PaletteSpec struct {
	Name   string   `toml:"name"`
	Colors []string `toml:"colors"`
}

func (p PaletteSpec) build() (Palette, error) {
	if len(p.Colors) != PaletteSize {
		return Palette{}, fmt.Errorf("palette %q: %d colors, want %d", p.Name, len(p.Colors), PaletteSize)
	}
	out := Palette{Name: p.Name}
	for i, s := range p.Colors {
		c, err := ParseHexColor(s)
		if err != nil {
			return Palette{}, fmt.Errorf("palette %q: %w", p.Name, err)
		}
		out.Colors[i] = c
	}
	return out, nil
}

var defaultPaletteSpecs = []PaletteSpec{
	{Name: "rednpink", Colors: []string{"#EE4540", "#C72741", "#801336", "#510A32"}},
	{Name: "greennpink", Colors: []string{"#8FB9A8", "#FEFAD4E6", "#FCD0BA", "#F1828D"}},
	{Name: "pastelpink", Colors: []string{"#FBD1D3", "#F198AF", "#EBB2D6", "#9F81CD"}},
	{Name: "blue", Colors: []string{"#9DC6D8", "#00B3CA", "#7DD0B6", "#1D4E89"}},
	{Name: "olive", Colors: []string{"#83B799", "#E2CD6D", "#C2B28F", "#E4D8B4"}},
}

// DefaultPalettes returns the five built-in palettes.
func DefaultPalettes() []Palette {
	out := make([]Palette, 0, len(defaultPaletteSpecs))
	for _, spec := range defaultPaletteSpecs {
		p, err := spec.build()
		if err != nil {
			panic(err) // built-in table is static
		}
		out = append(out, p)
	}
	return out
}
