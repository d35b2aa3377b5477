package contrail

import (
	"errors"
	"fmt"
	"math"
)

// Attribute names understood by every backend.
const (
	AttribPosition = "position"
	AttribColor    = "color"
	AttribTexcoord = "texcoord"
)

// Component counts per attribute.
const (
	positionComponents = 2
	colorComponents    = 4
	texcoordComponents = 2
)

// ErrBufferMismatch is returned when a buffer's attributes disagree on the
// number of vertices they describe.
var ErrBufferMismatch = errors.New("contrail: buffer attribute length mismatch")

// Attribute is one flat per-vertex array with a declared component count.
type Attribute struct {
	Name          string
	NumComponents int
	Data          []float32
}

// Buffer is a backend-neutral vertex buffer descriptor. Vertices are drawn as
// a triangle list.
type Buffer struct {
	Attributes  []Attribute
	NumElements int
}

// NewBuffer validates the attributes and returns a buffer descriptor. The
// position attribute is required; every attribute must describe the same
// number of vertices.
func NewBuffer(attrs ...Attribute) (*Buffer, error) {
	n := -1
	hasPosition := false
	for _, a := range attrs {
		if a.NumComponents <= 0 {
			return nil, fmt.Errorf("attribute %q: %w: component count %d", a.Name, ErrBufferMismatch, a.NumComponents)
		}
		if len(a.Data)%a.NumComponents != 0 {
			return nil, fmt.Errorf("attribute %q: %w: %d values not a multiple of %d",
				a.Name, ErrBufferMismatch, len(a.Data), a.NumComponents)
		}
		count := len(a.Data) / a.NumComponents
		if n >= 0 && count != n {
			return nil, fmt.Errorf("attribute %q: %w: %d vertices, want %d", a.Name, ErrBufferMismatch, count, n)
		}
		n = count
		if a.Name == AttribPosition {
			hasPosition = true
		}
	}
	if !hasPosition {
		return nil, fmt.Errorf("%w: missing %q attribute", ErrBufferMismatch, AttribPosition)
	}
	return &Buffer{Attributes: attrs, NumElements: n}, nil
}

// Attribute returns the named attribute, or nil when absent.
func (b *Buffer) Attribute(name string) *Attribute {
	for i := range b.Attributes {
		if b.Attributes[i].Name == name {
			return &b.Attributes[i]
		}
	}
	return nil
}

// Vertex returns the components of attribute name at vertex i, or nil when
// the attribute is absent.
func (b *Buffer) Vertex(name string, i int) []float32 {
	a := b.Attribute(name)
	if a == nil {
		return nil
	}
	return a.Data[i*a.NumComponents : (i+1)*a.NumComponents]
}

// --- Shape builders ---

// cloudRadius is the radius of the unit cloud polygon before any scaling.
const cloudRadius = 20

// cloudSlices is the number of fan triangles in a cloud polygon.
const cloudSlices = 20

// CloudBuffer builds a filled circle of radius 20 as a triangle fan of the
// given number of slices, every vertex carrying the same color.
func CloudBuffer(slices int, c Color) (*Buffer, error) {
	if slices < 3 {
		slices = cloudSlices
	}
	pos := make([]float32, 0, slices*3*positionComponents)
	for i := 0; i < slices; i++ {
		a0 := 2 * math.Pi * float64(i) / float64(slices)
		a1 := 2 * math.Pi * float64(i+1) / float64(slices)
		pos = append(pos,
			0, 0,
			float32(cloudRadius*math.Cos(a0)), float32(cloudRadius*math.Sin(a0)),
			float32(cloudRadius*math.Cos(a1)), float32(cloudRadius*math.Sin(a1)),
		)
	}
	return NewBuffer(
		Attribute{Name: AttribPosition, NumComponents: positionComponents, Data: pos},
		Attribute{Name: AttribColor, NumComponents: colorComponents, Data: solidColors(slices*3, c)},
	)
}

// AirplaneBuffer builds the airplane triangle with its nose at (0, -20).
func AirplaneBuffer() (*Buffer, error) {
	return NewBuffer(
		Attribute{Name: AttribPosition, NumComponents: positionComponents, Data: []float32{
			0, -20,
			-20, 20,
			20, 20,
		}},
		Attribute{Name: AttribColor, NumComponents: colorComponents, Data: solidColors(3, ColorWhite)},
	)
}

// QuadBuffer builds a w x h rectangle at the origin as two triangles with
// texture coordinates spanning uv.
func QuadBuffer(w, h float64, uv Rect) (*Buffer, error) {
	x0, y0 := float32(0), float32(0)
	x1, y1 := float32(w), float32(h)
	u0, v0 := float32(uv.X), float32(uv.Y)
	u1, v1 := float32(uv.X+uv.Width), float32(uv.Y+uv.Height)
	return NewBuffer(
		Attribute{Name: AttribPosition, NumComponents: positionComponents, Data: []float32{
			x0, y0,
			x0, y1,
			x1, y0,
			x0, y1,
			x1, y1,
			x1, y0,
		}},
		Attribute{Name: AttribTexcoord, NumComponents: texcoordComponents, Data: []float32{
			u0, v0,
			u0, v1,
			u1, v0,
			u0, v1,
			u1, v1,
			u1, v0,
		}},
	)
}

func solidColors(n int, c Color) []float32 {
	out := make([]float32, 0, n*colorComponents)
	for i := 0; i < n; i++ {
		out = append(out, float32(c.R), float32(c.G), float32(c.B), float32(c.A))
	}
	return out
}
