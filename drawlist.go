package contrail

import (
	"errors"
	"fmt"
	"image"
)

// ProgramHandle, BufferHandle and TextureHandle identify backend resources.
// Zero is never a valid handle.
type (
	ProgramHandle uint16
	BufferHandle  uint16
	TextureHandle uint16
)

// ErrUnknownHandle is returned by backends for handles they never issued.
var ErrUnknownHandle = errors.New("contrail: unknown resource handle")

// Uniform names used by the built-in programs.
const (
	UniformMatrix      = "Matrix"      // Mat3 clip-space transform, consumed by the vertex stage
	UniformColorOffset = "ColorOffset" // vec4 added after the multiplier
	UniformColorMult   = "ColorMult"   // vec4 multiplied with the vertex color
	UniformAlpha       = "Alpha"       // float scaling the premultiplied output
	UniformTexture     = "Texture"     // TextureHandle sampled by textured programs
)

// Uniforms maps uniform names to values: []float32 for vectors and
// matrices, float32 for scalars and TextureHandle for textures.
type Uniforms map[string]any

// ProgramSource is a vertex/fragment source pair. Backends key compiled
// programs by the pair; Name selects a CPU fallback in software backends.
type ProgramSource struct {
	Name     string
	Vertex   string
	Fragment string
}

type programKey struct {
	vertex, fragment string
}

// ResourceFactory creates backend resources.
type ResourceFactory interface {
	CreateProgram(src ProgramSource) (ProgramHandle, error)
	CreateBuffer(buf *Buffer) (BufferHandle, error)
	CreateTexture(img image.Image) (TextureHandle, error)
	UpdateTexture(h TextureHandle, img image.Image) error
}

// Backend consumes draw lists. Implementations live in ebitenrender and
// termrender; all calls happen on the frame thread.
type Backend interface {
	ResourceFactory

	// Viewport returns the current drawable size in pixels.
	Viewport() (w, h int)
	Clear(c Color)
	UseProgram(p ProgramHandle)
	BindBuffer(b BufferHandle)
	// Draw draws vertexCount vertices of the bound buffer with the bound
	// program.
	Draw(u Uniforms, vertexCount int)
}

// ProgramCache compiles each distinct vertex/fragment pair once.
type ProgramCache struct {
	programs map[programKey]ProgramHandle
}

// Get returns the handle for src, compiling it on first use.
func (c *ProgramCache) Get(f ResourceFactory, src ProgramSource) (ProgramHandle, error) {
	key := programKey{src.Vertex, src.Fragment}
	if h, ok := c.programs[key]; ok {
		return h, nil
	}
	h, err := f.CreateProgram(src)
	if err != nil {
		return 0, fmt.Errorf("compile program %q: %w", src.Name, err)
	}
	if c.programs == nil {
		c.programs = make(map[programKey]ProgramHandle)
	}
	c.programs[key] = h
	return h, nil
}

// Len returns the number of compiled programs.
func (c *ProgramCache) Len() int {
	return len(c.programs)
}

// Visual is the drawable state of a node: which program and buffer to draw
// and the per-draw color uniforms.
type Visual struct {
	Program     ProgramHandle
	Buffer      BufferHandle
	VertexCount int
	ColorOffset Color
	ColorMult   Color
	Alpha       float64
	Texture     TextureHandle

	uniforms  Uniforms
	matrixBuf []float32
	offsetBuf []float32
	multBuf   []float32
}

// uniformsFor refreshes the visual's uniform map in place for this frame
// and returns it. The map is reused across frames.
func (v *Visual) uniformsFor(m Mat3) Uniforms {
	if v.uniforms == nil {
		v.uniforms = make(Uniforms, 5)
		v.matrixBuf = make([]float32, 9)
		v.offsetBuf = make([]float32, 4)
		v.multBuf = make([]float32, 4)
	}
	for i, f := range m {
		v.matrixBuf[i] = float32(f)
	}
	v.uniforms[UniformMatrix] = v.matrixBuf
	v.ColorOffset.putVec4(v.offsetBuf)
	v.ColorMult.putVec4(v.multBuf)
	v.uniforms[UniformColorOffset] = v.offsetBuf
	v.uniforms[UniformColorMult] = v.multBuf
	v.uniforms[UniformAlpha] = float32(v.Alpha)
	if v.Texture != 0 {
		v.uniforms[UniformTexture] = v.Texture
	} else {
		delete(v.uniforms, UniformTexture)
	}
	return v.uniforms
}

// DrawEntry is one draw instruction of the per-frame draw list.
type DrawEntry struct {
	Program     ProgramHandle
	Buffer      BufferHandle
	Uniforms    Uniforms
	VertexCount int
}

// entryFor builds the draw entry for a visual with the final clip-space
// matrix.
func entryFor(v *Visual, final Mat3) DrawEntry {
	return DrawEntry{
		Program:     v.Program,
		Buffer:      v.Buffer,
		Uniforms:    v.uniformsFor(final),
		VertexCount: v.VertexCount,
	}
}

// SubmitStats counts the state changes a submission issued.
type SubmitStats struct {
	Entries      int
	ProgramBinds int
	BufferBinds  int
	DrawCalls    int
}

// SubmitDrawList hands the entries to b in order. Program binds are skipped
// while consecutive entries share a program; buffer binds are skipped while
// they share a buffer and no program switch happened in between.
func SubmitDrawList(b Backend, entries []DrawEntry) SubmitStats {
	var stats SubmitStats
	stats.Entries = len(entries)

	var lastProgram ProgramHandle
	var lastBuffer BufferHandle
	for i := range entries {
		e := &entries[i]
		bindBuffer := false
		if e.Program != lastProgram {
			lastProgram = e.Program
			b.UseProgram(e.Program)
			stats.ProgramBinds++
			bindBuffer = true
		}
		if bindBuffer || e.Buffer != lastBuffer {
			lastBuffer = e.Buffer
			b.BindBuffer(e.Buffer)
			stats.BufferBinds++
		}
		b.Draw(e.Uniforms, e.VertexCount)
		stats.DrawCalls++
	}
	return stats
}
