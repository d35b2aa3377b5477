package contrail

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register decoders for LoadImageAsync
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// PlaceholderImage returns the 1x1 opaque blue image textured draws use
// until the real image arrives.
func PlaceholderImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{0, 0, 255, 255})
	return img
}

// DecodeImageFile opens and decodes a PNG, JPEG, BMP or WebP file.
func DecodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	logger.Debug("image decoded", "path", path, "format", format, "size", img.Bounds().Size())
	return img, nil
}

// LoadImageAsync decodes path on a new goroutine and calls done with the
// result from that goroutine. It returns immediately. There is no
// cancellation; done runs exactly once.
func LoadImageAsync(path string, done func(image.Image, error)) {
	go func() {
		done(DecodeImageFile(path))
	}()
}

// textureBackground is the clear color of the texture scene.
var textureBackground = Color{0.9, 0.6, 0.6, 1}

// TextureScene is the secondary demo: one textured quad drawn with a
// placeholder texture until an asynchronously loaded image replaces it.
type TextureScene struct {
	factory ResourceFactory

	quad     *Node
	visual   Visual
	drawList []DrawEntry
	width    float64
	height   float64

	// pending hands decoded images from the loader goroutine to the frame
	// thread. Capacity 1: only the newest load matters.
	pending chan image.Image
	loaded  bool
}

// NewTextureScene uploads the quad and the placeholder texture through f.
func NewTextureScene(f ResourceFactory) (*TextureScene, error) {
	var cache ProgramCache
	prog, err := cache.Get(f, TextureProgram)
	if err != nil {
		return nil, err
	}
	buf, err := QuadBuffer(60, 150, Rect{X: 0.3, Y: 0, Width: 0.2, Height: 0.5})
	if err != nil {
		return nil, err
	}
	bh, err := f.CreateBuffer(buf)
	if err != nil {
		return nil, fmt.Errorf("upload quad buffer: %w", err)
	}
	th, err := f.CreateTexture(PlaceholderImage())
	if err != nil {
		return nil, fmt.Errorf("create placeholder texture: %w", err)
	}

	s := &TextureScene{
		factory: f,
		quad:    NewNode("quad"),
		pending: make(chan image.Image, 1),
	}
	s.visual = Visual{
		Program:     prog,
		Buffer:      bh,
		VertexCount: buf.NumElements,
		ColorMult:   ColorWhite,
		Alpha:       1,
		Texture:     th,
	}
	s.quad.Visual = &s.visual
	return s, nil
}

// Load starts decoding path in the background. Frames keep drawing the
// current texture until the image is swapped in by a later Step. Decode
// failures are logged and leave the placeholder in place.
func (s *TextureScene) Load(path string) {
	LoadImageAsync(path, func(img image.Image, err error) {
		if err != nil {
			logger.Warn("texture load failed", "path", path, "err", err)
			return
		}
		s.deliver(img)
	})
}

// deliver queues img for the frame thread, replacing any undelivered image.
func (s *TextureScene) deliver(img image.Image) {
	for {
		select {
		case s.pending <- img:
			return
		default:
		}
		select {
		case <-s.pending:
		default:
		}
	}
}

// Loaded reports whether a loaded image has replaced the placeholder.
func (s *TextureScene) Loaded() bool {
	return s.loaded
}

// Quad returns the textured node.
func (s *TextureScene) Quad() *Node {
	return s.quad
}

// DrawList returns the draw list built by the last Step.
func (s *TextureScene) DrawList() []DrawEntry {
	return s.drawList
}

// Step swaps in a freshly loaded texture if one arrived, then builds the
// one-entry draw list for a w x h viewport.
func (s *TextureScene) Step(w, h int) {
	if w > 0 && h > 0 {
		s.width, s.height = float64(w), float64(h)
	}
	select {
	case img := <-s.pending:
		if err := s.factory.UpdateTexture(s.visual.Texture, img); err != nil {
			logger.Warn("texture upload failed", "err", err)
		} else {
			s.loaded = true
			logger.Info("texture loaded", "size", img.Bounds().Size())
		}
	default:
	}

	s.quad.UpdateWorldTransform()
	s.drawList = s.drawList[:0]
	if s.width > 0 && s.height > 0 {
		final := Multiply(Projection(s.width, s.height), s.quad.World())
		s.drawList = append(s.drawList, entryFor(&s.visual, final))
	}
}

// Render clears b and submits the draw list.
func (s *TextureScene) Render(b Backend) SubmitStats {
	b.Clear(textureBackground)
	return SubmitDrawList(b, s.drawList)
}

// Frame queries the viewport, steps and renders.
func (s *TextureScene) Frame(b Backend) SubmitStats {
	w, h := b.Viewport()
	s.Step(w, h)
	return s.Render(b)
}
