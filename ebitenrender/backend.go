// Package ebitenrender draws contrail scenes with Ebitengine.
//
// Kage shaders only have a fragment stage, so the backend applies each draw's
// Matrix uniform on the CPU when it expands the bound buffer into
// [ebiten.Vertex] values, then hands the remaining uniforms to the shader.
package ebitenrender

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/contrail"
)

// Backend implements [contrail.Backend] on top of an *ebiten.Image target.
// Handles index the resource slices, offset by one so zero stays invalid.
type Backend struct {
	target        *ebiten.Image
	width, height int

	shaders  []*ebiten.Shader
	buffers  []*contrail.Buffer
	textures []*ebiten.Image

	program contrail.ProgramHandle
	buffer  contrail.BufferHandle

	// Per-draw scratch, reused across frames.
	vertices []ebiten.Vertex
	indices  []uint16
	uniforms map[string]any
	shaderOp ebiten.DrawTrianglesShaderOptions
}

// NewBackend returns a backend with an initial viewport of w x h. The
// target is set by the game loop before every Render.
func NewBackend(w, h int) *Backend {
	return &Backend{
		width:    w,
		height:   h,
		uniforms: make(map[string]any, 4),
	}
}

// SetTarget sets the image subsequent draws render into and takes the
// viewport from its bounds.
func (b *Backend) SetTarget(img *ebiten.Image) {
	b.target = img
	if img != nil {
		sz := img.Bounds().Size()
		b.width, b.height = sz.X, sz.Y
	}
}

// Resize sets the viewport without a target, as Layout does.
func (b *Backend) Resize(w, h int) {
	if w > 0 && h > 0 {
		b.width, b.height = w, h
	}
}

// Viewport implements [contrail.Backend].
func (b *Backend) Viewport() (int, int) {
	return b.width, b.height
}

// CreateProgram compiles the Kage fragment of src. The vertex stage is
// fixed-function: positions are transformed on the CPU in Draw.
func (b *Backend) CreateProgram(src contrail.ProgramSource) (contrail.ProgramHandle, error) {
	s, err := ebiten.NewShader([]byte(src.Fragment))
	if err != nil {
		return 0, fmt.Errorf("ebitenrender: compile %s: %w", src.Name, err)
	}
	b.shaders = append(b.shaders, s)
	contrail.Logger().Debug("program compiled", "backend", "ebiten", "name", src.Name)
	return contrail.ProgramHandle(len(b.shaders)), nil
}

// CreateBuffer retains buf; vertices are expanded per draw.
func (b *Backend) CreateBuffer(buf *contrail.Buffer) (contrail.BufferHandle, error) {
	if buf == nil || buf.Attribute(contrail.AttribPosition) == nil {
		return 0, fmt.Errorf("ebitenrender: %w", contrail.ErrBufferMismatch)
	}
	if buf.NumElements > 0xffff {
		return 0, fmt.Errorf("ebitenrender: buffer of %d vertices exceeds 16-bit indices", buf.NumElements)
	}
	b.buffers = append(b.buffers, buf)
	return contrail.BufferHandle(len(b.buffers)), nil
}

// CreateTexture uploads img.
func (b *Backend) CreateTexture(img image.Image) (contrail.TextureHandle, error) {
	if img == nil {
		return 0, fmt.Errorf("ebitenrender: nil texture image")
	}
	b.textures = append(b.textures, ebiten.NewImageFromImage(img))
	return contrail.TextureHandle(len(b.textures)), nil
}

// UpdateTexture replaces the image behind h. The old image is deallocated.
func (b *Backend) UpdateTexture(h contrail.TextureHandle, img image.Image) error {
	if h == 0 || int(h) > len(b.textures) {
		return fmt.Errorf("ebitenrender: texture %d: %w", h, contrail.ErrUnknownHandle)
	}
	if img == nil {
		return fmt.Errorf("ebitenrender: nil texture image")
	}
	old := b.textures[h-1]
	b.textures[h-1] = ebiten.NewImageFromImage(img)
	old.Deallocate()
	return nil
}

// Clear fills the target with c.
func (b *Backend) Clear(c contrail.Color) {
	if b.target == nil {
		return
	}
	b.target.Fill(c.NRGBA())
}

// UseProgram implements [contrail.Backend].
func (b *Backend) UseProgram(p contrail.ProgramHandle) {
	b.program = p
}

// BindBuffer implements [contrail.Backend].
func (b *Backend) BindBuffer(h contrail.BufferHandle) {
	b.buffer = h
}

// Draw expands the bound buffer through the Matrix uniform and draws it
// with the bound shader. Draws with unknown handles are dropped.
func (b *Backend) Draw(u contrail.Uniforms, vertexCount int) {
	if b.target == nil {
		return
	}
	if b.program == 0 || int(b.program) > len(b.shaders) ||
		b.buffer == 0 || int(b.buffer) > len(b.buffers) {
		return
	}
	shader := b.shaders[b.program-1]
	buf := b.buffers[b.buffer-1]
	if vertexCount > buf.NumElements {
		vertexCount = buf.NumElements
	}
	vertexCount -= vertexCount % 3
	if vertexCount == 0 {
		return
	}

	m, _ := u[contrail.UniformMatrix].([]float32)
	var tex *ebiten.Image
	if th, ok := u[contrail.UniformTexture].(contrail.TextureHandle); ok && th != 0 && int(th) <= len(b.textures) {
		tex = b.textures[th-1]
	}

	b.fillVertices(buf, m, tex, vertexCount)

	clear(b.uniforms)
	for name, v := range u {
		switch name {
		case contrail.UniformMatrix, contrail.UniformTexture:
			continue
		}
		switch v.(type) {
		case float32, []float32:
			b.uniforms[name] = v
		}
	}
	b.shaderOp.Uniforms = b.uniforms
	b.shaderOp.Images[0] = tex
	b.target.DrawTrianglesShader(b.vertices, b.indices, shader, &b.shaderOp)
	b.shaderOp.Images[0] = nil
}

// fillVertices writes n vertices of buf into the scratch slices. Positions
// go through m into clip space and then to target pixels; texcoords are
// scaled to source pixels because the shaders use pixel units.
func (b *Backend) fillVertices(buf *contrail.Buffer, m []float32, tex *ebiten.Image, n int) {
	b.vertices = b.vertices[:0]
	b.indices = b.indices[:0]

	w, h := float32(b.width), float32(b.height)
	var tw, th float32
	if tex != nil {
		sz := tex.Bounds().Size()
		tw, th = float32(sz.X), float32(sz.Y)
	}

	pos := buf.Attribute(contrail.AttribPosition)
	col := buf.Attribute(contrail.AttribColor)
	uv := buf.Attribute(contrail.AttribTexcoord)

	for i := range n {
		x := pos.Data[i*pos.NumComponents]
		y := pos.Data[i*pos.NumComponents+1]
		cx, cy := x, y
		if len(m) == 9 {
			cx = m[0]*x + m[3]*y + m[6]
			cy = m[1]*x + m[4]*y + m[7]
		}
		v := ebiten.Vertex{
			DstX:   (cx + 1) / 2 * w,
			DstY:   (1 - cy) / 2 * h,
			ColorR: 1,
			ColorG: 1,
			ColorB: 1,
			ColorA: 1,
		}
		if col != nil && col.NumComponents >= 4 {
			c := col.Data[i*col.NumComponents:]
			v.ColorR, v.ColorG, v.ColorB, v.ColorA = c[0], c[1], c[2], c[3]
		}
		if uv != nil && uv.NumComponents >= 2 {
			v.SrcX = uv.Data[i*uv.NumComponents] * tw
			v.SrcY = uv.Data[i*uv.NumComponents+1] * th
		}
		b.vertices = append(b.vertices, v)
		b.indices = append(b.indices, uint16(i))
	}
}
