package contrail

import (
	"image/color"
	"math"
	"math/rand/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Backends premultiply at submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the neutral vertex color.
var ColorWhite = Color{1, 1, 1, 1}

// Premultiplied returns the color with R, G and B scaled by A.
func (c Color) Premultiplied() Color {
	return Color{c.R * c.A, c.G * c.A, c.B * c.A, c.A}
}

// Vec4 returns the color as a float32 vector for uniform upload.
func (c Color) Vec4() []float32 {
	v := make([]float32, 4)
	c.putVec4(v)
	return v
}

func (c Color) putVec4(dst []float32) {
	dst[0], dst[1], dst[2], dst[3] = float32(c.R), float32(c.G), float32(c.B), float32(c.A)
}

// NRGBA converts the color to 8-bit straight alpha, clamping each channel.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// Vec2 is a 2D vector used for positions, velocities and sizes.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Inset returns r grown by m on every side (shrunk when m is negative).
func (r Rect) Inset(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, Width: r.Width + 2*m, Height: r.Height + 2*m}
}

// Range is a half-open interval [Min, Max) used for every randomized
// animation parameter.
type Range struct {
	Min float64 `toml:"min"`
	Max float64 `toml:"max"`
}

// Sample returns a uniform draw from [Min, Max) using rng, or the package
// source when rng is nil.
func (r Range) Sample(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	var u float64
	if rng != nil {
		u = rng.Float64()
	} else {
		u = rand.Float64()
	}
	return r.Min + u*(r.Max-r.Min)
}

// Contains reports whether v lies in [Min, Max).
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v < r.Max
}

// valid reports whether the range is well-formed.
func (r Range) valid() bool {
	return r.Min <= r.Max
}

// intn returns a uniform draw from [0, n) using rng or the package source.
func intn(rng *rand.Rand, n int) int {
	if rng != nil {
		return rng.IntN(n)
	}
	return rand.IntN(n)
}
