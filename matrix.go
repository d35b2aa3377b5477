package contrail

import "math"

// Mat3 is a 2D affine transform in 3x3 homogeneous form, stored column-major:
//
//	| m[0]  m[3]  m[6] |
//	| m[1]  m[4]  m[7] |
//	| m[2]  m[5]  m[8] |
//
// The translation lives at m[6], m[7]. This is the layout shader uniforms expect.
type Mat3 [9]float64

// Identity returns the identity matrix.
func Identity() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Translation returns a matrix that moves points by (dx, dy).
func Translation(dx, dy float64) Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		dx, dy, 1,
	}
}

// Rotation returns a matrix that rotates points by theta radians. In the
// y-down pixel space used by Projection, positive angles turn
// counter-clockwise on screen.
func Rotation(theta float64) Mat3 {
	s, c := math.Sincos(theta)
	return Mat3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// Scaling returns a matrix that scales points by (sx, sy) about the origin.
func Scaling(sx, sy float64) Mat3 {
	return Mat3{
		sx, 0, 0,
		0, sy, 0,
		0, 0, 1,
	}
}

// Projection maps pixel space (origin top-left, y down, w x h) to clip space
// ([-1, 1] on both axes, y up).
func Projection(w, h float64) Mat3 {
	return Mat3{
		2 / w, 0, 0,
		0, -2 / h, 0,
		-1, 1, 1,
	}
}

// Multiply returns a * b. Applied to a point, b acts first and a second, so
// a node's world transform is Multiply(parentWorld, local).
func Multiply(a, b Mat3) Mat3 {
	var r Mat3
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			r[col*3+row] = a[row]*b[col*3] +
				a[3+row]*b[col*3+1] +
				a[6+row]*b[col*3+2]
		}
	}
	return r
}

// Apply transforms the point (x, y).
func (m Mat3) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[3]*y + m[6], m[1]*x + m[4]*y + m[7]
}

// Translation returns the translation component (where the origin lands).
func (m Mat3) Translation() (x, y float64) {
	return m[6], m[7]
}

// Invert returns the inverse of an affine m.
// Returns the identity matrix if m is singular.
func (m Mat3) Invert() Mat3 {
	det := m[0]*m[4] - m[3]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return Identity()
	}
	inv := 1.0 / det
	a := m[4] * inv
	b := -m[1] * inv
	c := -m[3] * inv
	d := m[0] * inv
	return Mat3{
		a, b, 0,
		c, d, 0,
		-(a*m[6] + c*m[7]), -(b*m[6] + d*m[7]), 1,
	}
}

// Float32 converts m for uniform upload.
func (m Mat3) Float32() []float32 {
	out := make([]float32, 9)
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}
