// Package termrender draws contrail scenes in a terminal with tcell.
//
// Each character cell shows two vertically stacked dots using the upper
// half block: the foreground paints the top dot and the background the
// bottom one. Triangles are rasterized on the CPU into a dot framebuffer;
// the programs' fragment stages are reimplemented in Go and selected by
// [contrail.ProgramSource.Name].
package termrender

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/contrail"
)

// DefaultPixelScale is the number of canvas pixels per dot.
const DefaultPixelScale = 8

// ErrUnsupportedProgram is returned for programs without a CPU fragment.
var ErrUnsupportedProgram = errors.New("termrender: no CPU fragment for program")

const upperHalfBlock = '▀'

// fragmentFunc shades one fragment. c is the interpolated premultiplied
// vertex color and uv the interpolated texture coordinate.
type fragmentFunc func(b *Backend, u contrail.Uniforms, c rgba, uv [2]float32) rgba

var fragments = map[string]fragmentFunc{
	contrail.ColorProgram.Name:   colorFragment,
	contrail.TextureProgram.Name: textureFragment,
}

// texture is an uploaded image as premultiplied float texels.
type texture struct {
	w, h   int
	texels []rgba
}

// Backend implements [contrail.Backend] over a tcell screen.
type Backend struct {
	screen tcell.Screen

	// PixelScale maps dots to canvas pixels for Viewport.
	PixelScale int

	dw, dh int // dots
	fb     []rgba

	programs []fragmentFunc
	buffers  []*contrail.Buffer
	textures []texture

	program contrail.ProgramHandle
	buffer  contrail.BufferHandle
}

// NewBackend returns a backend that draws to screen, sized from its
// current cell grid.
func NewBackend(screen tcell.Screen) *Backend {
	b := &Backend{screen: screen, PixelScale: DefaultPixelScale}
	b.Resize(screen.Size())
	return b
}

// Resize reallocates the framebuffer for a cols x rows cell grid.
func (b *Backend) Resize(cols, rows int) {
	cols, rows = max(cols, 1), max(rows, 1)
	b.dw, b.dh = cols, rows*2
	if n := b.dw * b.dh; cap(b.fb) >= n {
		b.fb = b.fb[:n]
	} else {
		b.fb = make([]rgba, n)
	}
}

// Dots returns the framebuffer size in dots.
func (b *Backend) Dots() (w, h int) {
	return b.dw, b.dh
}

// Viewport reports the canvas size: dots times PixelScale.
func (b *Backend) Viewport() (int, int) {
	s := max(b.PixelScale, 1)
	return b.dw * s, b.dh * s
}

// CreateProgram binds src to its CPU fragment.
func (b *Backend) CreateProgram(src contrail.ProgramSource) (contrail.ProgramHandle, error) {
	fn, ok := fragments[src.Name]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnsupportedProgram, src.Name)
	}
	b.programs = append(b.programs, fn)
	return contrail.ProgramHandle(len(b.programs)), nil
}

// CreateBuffer retains buf.
func (b *Backend) CreateBuffer(buf *contrail.Buffer) (contrail.BufferHandle, error) {
	if buf == nil || buf.Attribute(contrail.AttribPosition) == nil {
		return 0, fmt.Errorf("termrender: %w", contrail.ErrBufferMismatch)
	}
	b.buffers = append(b.buffers, buf)
	return contrail.BufferHandle(len(b.buffers)), nil
}

// CreateTexture converts img to premultiplied texels.
func (b *Backend) CreateTexture(img image.Image) (contrail.TextureHandle, error) {
	if img == nil {
		return 0, fmt.Errorf("termrender: nil texture image")
	}
	b.textures = append(b.textures, newTexture(img))
	return contrail.TextureHandle(len(b.textures)), nil
}

// UpdateTexture replaces the texels behind h.
func (b *Backend) UpdateTexture(h contrail.TextureHandle, img image.Image) error {
	if h == 0 || int(h) > len(b.textures) {
		return fmt.Errorf("termrender: texture %d: %w", h, contrail.ErrUnknownHandle)
	}
	if img == nil {
		return fmt.Errorf("termrender: nil texture image")
	}
	b.textures[h-1] = newTexture(img)
	return nil
}

func newTexture(img image.Image) texture {
	r := img.Bounds()
	t := texture{w: r.Dx(), h: r.Dy(), texels: make([]rgba, r.Dx()*r.Dy())}
	i := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			// RGBA() is already premultiplied.
			cr, cg, cb, ca := img.At(x, y).RGBA()
			t.texels[i] = rgba{float32(cr) / 0xffff, float32(cg) / 0xffff, float32(cb) / 0xffff, float32(ca) / 0xffff}
			i++
		}
	}
	return t
}

// Clear fills the framebuffer with c.
func (b *Backend) Clear(c contrail.Color) {
	p := c.Premultiplied()
	fill := rgba{float32(p.R), float32(p.G), float32(p.B), float32(p.A)}
	for i := range b.fb {
		b.fb[i] = fill
	}
}

// UseProgram implements [contrail.Backend].
func (b *Backend) UseProgram(p contrail.ProgramHandle) {
	b.program = p
}

// BindBuffer implements [contrail.Backend].
func (b *Backend) BindBuffer(h contrail.BufferHandle) {
	b.buffer = h
}

// Draw rasterizes vertexCount vertices of the bound buffer as a triangle
// list. Draws with unknown handles are dropped.
func (b *Backend) Draw(u contrail.Uniforms, vertexCount int) {
	if b.program == 0 || int(b.program) > len(b.programs) ||
		b.buffer == 0 || int(b.buffer) > len(b.buffers) {
		return
	}
	frag := b.programs[b.program-1]
	buf := b.buffers[b.buffer-1]
	m, _ := u[contrail.UniformMatrix].([]float32)

	n := min(vertexCount, buf.NumElements)
	for i := 0; i+2 < n; i += 3 {
		var tri [3]vertex
		for k := range tri {
			tri[k] = b.vertexAt(buf, m, i+k)
		}
		b.rasterize(&tri, u, frag)
	}
}

// Present copies the framebuffer to the screen as half blocks and shows it.
func (b *Backend) Present() {
	cols, rows := b.dw, b.dh/2
	for y := range rows {
		for x := range cols {
			top := b.fb[(2*y)*b.dw+x]
			bot := b.fb[(2*y+1)*b.dw+x]
			style := tcell.StyleDefault.Foreground(top.tcell()).Background(bot.tcell())
			b.screen.SetContent(x, y, upperHalfBlock, nil, style)
		}
	}
	b.screen.Show()
}

// At returns the straight-alpha color of dot (x, y).
func (b *Backend) At(x, y int) color.NRGBA {
	if x < 0 || y < 0 || x >= b.dw || y >= b.dh {
		return color.NRGBA{}
	}
	return b.fb[y*b.dw+x].nrgba()
}
