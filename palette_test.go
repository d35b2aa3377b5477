package contrail

import (
	"errors"
	"testing"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#FF0000", Color{1, 0, 0, 1}},
		{"00FF00", Color{0, 1, 0, 1}},
		{"#0000ff80", Color{0, 0, 1, 128.0 / 255}},
		{" #FFFFFF ", Color{1, 1, 1, 1}},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if err != nil {
			t.Errorf("ParseHexColor(%q): %v", tt.in, err)
			continue
		}
		assertNear(t, tt.in+".R", got.R, tt.want.R)
		assertNear(t, tt.in+".G", got.G, tt.want.G)
		assertNear(t, tt.in+".B", got.B, tt.want.B)
		assertNear(t, tt.in+".A", got.A, tt.want.A)
	}
}

func TestParseHexColorErrors(t *testing.T) {
	for _, in := range []string{"", "#FFF", "#GGGGGG", "#FF00FF0", "red"} {
		if _, err := ParseHexColor(in); !errors.Is(err, ErrBadColor) {
			t.Errorf("ParseHexColor(%q) err = %v, want ErrBadColor", in, err)
		}
	}
}

func TestDefaultPalettes(t *testing.T) {
	ps := DefaultPalettes()
	if len(ps) != 5 {
		t.Fatalf("len = %d, want 5", len(ps))
	}
	names := []string{"rednpink", "greennpink", "pastelpink", "blue", "olive"}
	for i, p := range ps {
		if p.Name != names[i] {
			t.Errorf("palette %d = %q, want %q", i, p.Name, names[i])
		}
	}
	// The one translucent built-in color.
	assertNear(t, "greennpink[1].A", ps[1].Colors[1].A, 230.0/255)
}

func TestPaletteSpecWrongCount(t *testing.T) {
	_, err := PaletteSpec{Name: "short", Colors: []string{"#000000"}}.build()
	if err == nil {
		t.Error("expected error for a palette with one color")
	}
}

func TestColorConversions(t *testing.T) {
	c := Color{1, 0.5, 0, 0.5}
	p := c.Premultiplied()
	assertNear(t, "R", p.R, 0.5)
	assertNear(t, "G", p.G, 0.25)
	assertNear(t, "A", p.A, 0.5)

	n := Color{1, 0, 2, -1}.NRGBA()
	if n.R != 255 || n.G != 0 || n.B != 255 || n.A != 0 {
		t.Errorf("NRGBA = %v, want clamped channels", n)
	}
}
