package termrender

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/contrail"
)

// rgba is a premultiplied float color.
type rgba struct {
	R, G, B, A float32
}

func (c rgba) scale(k float32) rgba {
	return rgba{c.R * k, c.G * k, c.B * k, c.A * k}
}

// over composites c over d.
func (c rgba) over(d rgba) rgba {
	k := 1 - c.A
	return rgba{c.R + d.R*k, c.G + d.G*k, c.B + d.B*k, c.A + d.A*k}
}

func unit8(v float32) uint8 {
	return uint8(math.Round(float64(clamp01(v)) * 255))
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

func (c rgba) nrgba() color.NRGBA {
	if c.A <= 0 {
		return color.NRGBA{}
	}
	return color.NRGBA{R: unit8(c.R / c.A), G: unit8(c.G / c.A), B: unit8(c.B / c.A), A: unit8(c.A)}
}

// tcell drops alpha; the framebuffer is opaque after Clear.
func (c rgba) tcell() tcell.Color {
	return tcell.NewRGBColor(int32(unit8(c.R)), int32(unit8(c.G)), int32(unit8(c.B)))
}

// vertex is a transformed vertex in dot space.
type vertex struct {
	x, y float32
	c    rgba
	uv   [2]float32
}

// vertexAt transforms vertex i of buf through m (clip space) into dots.
func (b *Backend) vertexAt(buf *contrail.Buffer, m []float32, i int) vertex {
	p := buf.Vertex(contrail.AttribPosition, i)
	x, y := p[0], p[1]
	if len(m) == 9 {
		x, y = m[0]*p[0]+m[3]*p[1]+m[6], m[1]*p[0]+m[4]*p[1]+m[7]
	}
	v := vertex{
		x: (x + 1) / 2 * float32(b.dw),
		y: (1 - y) / 2 * float32(b.dh),
		c: rgba{1, 1, 1, 1},
	}
	if c := buf.Vertex(contrail.AttribColor, i); len(c) >= 4 {
		v.c = rgba{c[0], c[1], c[2], c[3]}
	}
	if t := buf.Vertex(contrail.AttribTexcoord, i); len(t) >= 2 {
		v.uv = [2]float32{t[0], t[1]}
	}
	return v
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// ownsEdge reports whether a dot exactly on the directed edge a->b is
// covered. Two triangles of the same winding traverse a shared edge in
// opposite directions, so exactly one of them covers it.
func ownsEdge(ax, ay, bx, by float32) bool {
	dx, dy := bx-ax, by-ay
	return dy > 0 || (dy == 0 && dx < 0)
}

func covers(e float32, owned bool) bool {
	return e > 0 || (e == 0 && owned)
}

// rasterize fills every dot whose center lies inside the triangle, for
// either winding, and blends the shaded fragment over the framebuffer.
// Dots on an edge shared with a neighbor are filled once.
func (b *Backend) rasterize(t *[3]vertex, u contrail.Uniforms, frag fragmentFunc) {
	v0, v1, v2 := &t[0], &t[1], &t[2]
	area := edge(v0.x, v0.y, v1.x, v1.y, v2.x, v2.y)
	if area == 0 {
		return
	}
	if area < 0 {
		v1, v2 = v2, v1
		area = -area
	}
	own0 := ownsEdge(v1.x, v1.y, v2.x, v2.y)
	own1 := ownsEdge(v2.x, v2.y, v0.x, v0.y)
	own2 := ownsEdge(v0.x, v0.y, v1.x, v1.y)

	minX := max(int(math.Floor(float64(min(v0.x, v1.x, v2.x)))), 0)
	maxX := min(int(math.Ceil(float64(max(v0.x, v1.x, v2.x)))), b.dw-1)
	minY := max(int(math.Floor(float64(min(v0.y, v1.y, v2.y)))), 0)
	maxY := min(int(math.Ceil(float64(max(v0.y, v1.y, v2.y)))), b.dh-1)

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			e0 := edge(v1.x, v1.y, v2.x, v2.y, px, py)
			e1 := edge(v2.x, v2.y, v0.x, v0.y, px, py)
			e2 := edge(v0.x, v0.y, v1.x, v1.y, px, py)
			if !covers(e0, own0) || !covers(e1, own1) || !covers(e2, own2) {
				continue
			}
			w0, w1, w2 := e0/area, e1/area, e2/area
			c := rgba{
				w0*v0.c.R + w1*v1.c.R + w2*v2.c.R,
				w0*v0.c.G + w1*v1.c.G + w2*v2.c.G,
				w0*v0.c.B + w1*v1.c.B + w2*v2.c.B,
				w0*v0.c.A + w1*v1.c.A + w2*v2.c.A,
			}
			uv := [2]float32{
				w0*v0.uv[0] + w1*v1.uv[0] + w2*v2.uv[0],
				w0*v0.uv[1] + w1*v1.uv[1] + w2*v2.uv[1],
			}
			i := y*b.dw + x
			b.fb[i] = frag(b, u, c, uv).over(b.fb[i])
		}
	}
}

func uniformVec4(u contrail.Uniforms, name string, def rgba) rgba {
	v, ok := u[name].([]float32)
	if !ok || len(v) < 4 {
		return def
	}
	return rgba{v[0], v[1], v[2], v[3]}
}

func uniformFloat(u contrail.Uniforms, name string, def float32) float32 {
	if v, ok := u[name].(float32); ok {
		return v
	}
	return def
}

// colorFragment mirrors the Kage color program:
// clamp(color*ColorMult + ColorOffset, 0, 1) * Alpha.
func colorFragment(_ *Backend, u contrail.Uniforms, c rgba, _ [2]float32) rgba {
	mult := uniformVec4(u, contrail.UniformColorMult, rgba{1, 1, 1, 1})
	off := uniformVec4(u, contrail.UniformColorOffset, rgba{})
	out := rgba{
		clamp01(c.R*mult.R + off.R),
		clamp01(c.G*mult.G + off.G),
		clamp01(c.B*mult.B + off.B),
		clamp01(c.A*mult.A + off.A),
	}
	return out.scale(uniformFloat(u, contrail.UniformAlpha, 1))
}

// textureFragment samples the bound texture with nearest filtering.
func textureFragment(b *Backend, u contrail.Uniforms, _ rgba, uv [2]float32) rgba {
	h, _ := u[contrail.UniformTexture].(contrail.TextureHandle)
	if h == 0 || int(h) > len(b.textures) {
		return rgba{}
	}
	t := &b.textures[h-1]
	if t.w == 0 || t.h == 0 {
		return rgba{}
	}
	x := min(max(int(uv[0]*float32(t.w)), 0), t.w-1)
	y := min(max(int(uv[1]*float32(t.h)), 0), t.h-1)
	return t.texels[y*t.w+x].scale(uniformFloat(u, contrail.UniformAlpha, 1))
}
