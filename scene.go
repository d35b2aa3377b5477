package contrail

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/tanema/gween/ease"
)

const defaultDrawListCap = 128

// Airplane tint: white vertices come out yellow.
var (
	airplaneColorOffset = Color{0.6, 0.6, 0, 1}
	airplaneColorMult   = Color{0.4, 0.4, 0, 1}
)

// Animation is what a host loop drives once per display refresh. Both
// [Scene] and [TextureScene] implement it.
type Animation interface {
	Step(w, h int)
	Render(b Backend) SubmitStats
}

// Scene is the owning context of the animation: the flight, the cloud pool,
// the compiled resources and the draw list. It is created once at startup
// and driven by exactly one host loop; it is not safe for concurrent use.
type Scene struct {
	cfg        Config
	rng        *rand.Rand
	palettes   []Palette
	background Color

	flight *Flight
	clouds *CloudPool

	programs       ProgramCache
	airplaneVisual Visual
	paletteVisuals [][PaletteSize]Visual

	fade *TweenGroup

	drawList      []DrawEntry
	width, height float64
	frame         uint64

	sink  EventSink
	debug bool
	stats FrameStats

	spawned          int
	retired          int
	resets           int
	spawnedThisFrame bool
}

// NewScene compiles the programs, uploads the airplane and cloud buffers
// through f and starts the initial flight. A failure here means the
// rendering backend is unusable, which callers treat as fatal.
func NewScene(f ResourceFactory, cfg Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	palettes, err := cfg.palettes()
	if err != nil {
		return nil, err
	}

	s := &Scene{
		cfg:        cfg,
		palettes:   palettes,
		background: cfg.background(),
		drawList:   make([]DrawEntry, 0, defaultDrawListCap),
		width:      float64(cfg.Width),
		height:     float64(cfg.Height),
	}
	if cfg.Seed != 0 {
		s.rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	} else {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	prog, err := s.programs.Get(f, ColorProgram)
	if err != nil {
		return nil, err
	}

	planeBuf, err := AirplaneBuffer()
	if err != nil {
		return nil, err
	}
	planeHandle, err := f.CreateBuffer(planeBuf)
	if err != nil {
		return nil, fmt.Errorf("upload airplane buffer: %w", err)
	}
	s.airplaneVisual = Visual{
		Program:     prog,
		Buffer:      planeHandle,
		VertexCount: planeBuf.NumElements,
		ColorOffset: airplaneColorOffset,
		ColorMult:   airplaneColorMult,
		Alpha:       1,
	}

	s.paletteVisuals = make([][PaletteSize]Visual, len(palettes))
	for i, p := range palettes {
		for j, c := range p.Colors {
			buf, err := CloudBuffer(cloudSlices, c.Premultiplied())
			if err != nil {
				return nil, err
			}
			h, err := f.CreateBuffer(buf)
			if err != nil {
				return nil, fmt.Errorf("upload cloud buffer %s/%d: %w", p.Name, j, err)
			}
			s.paletteVisuals[i][j] = Visual{
				Program:     prog,
				Buffer:      h,
				VertexCount: buf.NumElements,
				ColorMult:   ColorWhite,
				Alpha:       1,
			}
		}
	}

	s.flight = NewFlight(&s.cfg, s.rng)
	s.flight.Airplane.Visual = &s.airplaneVisual
	s.clouds = NewCloudPool(&s.cfg, s.rng)
	return s, nil
}

// SetRand replaces the random source shared by the flight and the pool.
func (s *Scene) SetRand(rng *rand.Rand) {
	s.rng = rng
	s.flight.rng = rng
	s.clouds.rng = rng
}

// SetEventSink sets the optional lifecycle event sink.
func (s *Scene) SetEventSink(sink EventSink) {
	s.sink = sink
}

// SetDebugMode enables or disables debug mode. When enabled, per-frame stats
// are logged at debug level and reparenting checks tree depth.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// Flight returns the flight controller.
func (s *Scene) Flight() *Flight {
	return s.flight
}

// Clouds returns the cloud pool.
func (s *Scene) Clouds() *CloudPool {
	return s.clouds
}

// Config returns the scene's configuration.
func (s *Scene) Config() Config {
	return s.cfg
}

// Background returns the clear color.
func (s *Scene) Background() Color {
	return s.background
}

// DrawList returns the draw list built by the last Step. The returned slice
// MUST NOT be mutated and is reused by the next Step.
func (s *Scene) DrawList() []DrawEntry {
	return s.drawList
}

// FrameCount returns the number of completed Steps.
func (s *Scene) FrameCount() uint64 {
	return s.frame
}

// Stats returns the metrics of the last frame.
func (s *Scene) Stats() FrameStats {
	return s.stats
}

// Totals returns the lifetime spawn, retire and reset counts.
func (s *Scene) Totals() (spawned, retired, resets int) {
	return s.spawned, s.retired, s.resets
}

// Step advances the animation by one frame for a w x h viewport and builds
// the draw list: integrate the flight, update the clouds, maybe spawn one,
// retire the expired, propagate transforms, emit the draw entries, and
// reset the flight once it is off-screen with every cloud drained.
func (s *Scene) Step(w, h int) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	if w > 0 && h > 0 {
		s.width, s.height = float64(w), float64(h)
	}
	s.frame++
	s.spawnedThisFrame = false

	f := s.flight
	f.Integrate()
	if s.fade != nil {
		s.fade.Update(1)
		if s.fade.Done {
			s.fade = nil
		}
	}

	s.clouds.Update(f.Velocity)
	if !f.OffScreen(s.width, s.height) && f.SpawnDue(s.cfg.SpawnInterval) {
		s.spawnCloud()
	}
	retired := s.clouds.Retire(s.onRetire)
	s.retired += retired

	f.Root.UpdateWorldTransform()
	s.buildDrawList()

	if f.OffScreen(s.width, s.height) && s.clouds.Len() == 0 {
		s.resetFlight()
	}

	s.stats = FrameStats{
		Frame:   s.frame,
		Clouds:  s.clouds.Len(),
		Spawned: s.spawnedThisFrame,
		Retired: retired,
	}
	if s.debug {
		s.stats.StepTime = time.Since(t0)
	}
}

// Render clears b to the background color and submits the draw list.
func (s *Scene) Render(b Backend) SubmitStats {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	b.Clear(s.background)
	sub := SubmitDrawList(b, s.drawList)
	s.stats.Submit = sub
	if s.debug {
		s.stats.SubmitTime = time.Since(t0)
		s.debugLog(s.stats)
	}
	return sub
}

// Frame queries the viewport, steps and renders. Hosts that tick once per
// display refresh call this and nothing else.
func (s *Scene) Frame(b Backend) SubmitStats {
	w, h := b.Viewport()
	s.Step(w, h)
	return s.Render(b)
}

// spawnCloud takes a node from the pool for the active palette. The timer
// only resets on success, so an exhausted pool retries next frame.
func (s *Scene) spawnCloud() {
	f := s.flight
	n, ok := s.clouds.Spawn(SpawnParams{
		Parent:   f.Root,
		Velocity: f.Velocity,
		Speed:    f.Speed,
		Variants: &s.paletteVisuals[f.Palette],
	})
	if !ok {
		logger.Debug("cloud pool exhausted, spawn deferred", "frame", s.frame, "capacity", s.clouds.Capacity())
		return
	}
	f.SpawnTimer = 0
	s.spawned++
	s.spawnedThisFrame = true
	if s.sink != nil {
		x, y := Multiply(f.Root.Local, n.Local).Translation()
		s.emit(Event{
			Type:       EventCloudSpawned,
			NodeID:     n.ID,
			X:          x,
			Y:          y,
			Radius:     n.Cloud.Radius,
			MaxRadius:  n.Cloud.MaxRadius,
			DriftsLeft: n.Cloud.DriftsLeft,
		})
	}
}

func (s *Scene) onRetire(n *Node) {
	if s.sink == nil {
		return
	}
	x, y := Multiply(s.flight.Root.Local, n.Local).Translation()
	s.emit(Event{
		Type:       EventCloudRetired,
		NodeID:     n.ID,
		X:          x,
		Y:          y,
		Radius:     n.Cloud.Radius,
		MaxRadius:  n.Cloud.MaxRadius,
		DriftsLeft: n.Cloud.DriftsLeft,
	})
}

// buildDrawList emits the airplane followed by every active cloud with
// projection * world as the final matrix.
func (s *Scene) buildDrawList() {
	s.drawList = s.drawList[:0]
	proj := Projection(s.width, s.height)

	if a := s.flight.Airplane; a.Visible && a.Visual != nil {
		s.drawList = append(s.drawList, entryFor(a.Visual, Multiply(proj, a.World())))
	}
	for _, n := range s.clouds.Active() {
		if !n.Visible {
			continue
		}
		s.drawList = append(s.drawList, entryFor(n.Visual, Multiply(proj, n.World())))
	}
}

// resetFlight rolls a new path and fades the airplane back in.
func (s *Scene) resetFlight() {
	f := s.flight
	f.Reset(s.width, s.height, len(s.palettes))
	s.resets++
	if s.cfg.FadeFrames > 0 {
		s.fade = TweenAlpha(&s.airplaneVisual, 0, 1, float32(s.cfg.FadeFrames), ease.OutQuad)
	}

	x, y := f.Position()
	logger.Info("flight reset",
		"frame", s.frame,
		"edge", f.Edge.String(),
		"x", x, "y", y,
		"speed", f.Speed,
		"heading", f.Heading,
		"palette", s.palettes[f.Palette].Name,
	)
	s.emit(Event{
		Type:    EventFlightReset,
		X:       x,
		Y:       y,
		Edge:    f.Edge,
		Speed:   f.Speed,
		Heading: f.Heading,
		Palette: f.Palette,
	})
}
