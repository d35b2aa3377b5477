package contrail

import (
	"math"
	"math/rand/v2"
)

// FlightState is the flight controller's state machine position.
type FlightState uint8

const (
	FlightFlying FlightState = iota // integrating along the current path
	FlightReset                     // a new path was rolled this frame
)

func (s FlightState) String() string {
	switch s {
	case FlightFlying:
		return "flying"
	case FlightReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Edge is the canvas side a flight enters from.
type Edge uint8

const (
	EdgeLeft Edge = iota
	EdgeTop
	EdgeRight
	EdgeBottom
)

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeTop:
		return "top"
	case EdgeRight:
		return "right"
	case EdgeBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// Flight owns the airplane: a root node carrying the position, with the
// drawable airplane as its first child carrying the rotation. Clouds are
// parented under Root alongside it.
type Flight struct {
	Root     *Node
	Airplane *Node

	Velocity Vec2
	Speed    float64
	Heading  float64 // degrees
	Edge     Edge
	Palette  int

	// SpawnTimer counts frames since the last cloud spawn.
	SpawnTimer int
	State      FlightState

	cfg *Config
	rng *rand.Rand
}

// NewFlight creates the airplane nodes and starts the initial path: the
// configured speed and heading, entering from the left edge at (0, 0).
func NewFlight(cfg *Config, rng *rand.Rand) *Flight {
	f := &Flight{
		Root:     NewNode("airplane_pos"),
		Airplane: NewNode("airplane"),
		cfg:      cfg,
		rng:      rng,
	}
	f.Airplane.SetParent(f.Root)
	f.Speed = cfg.InitialSpeed
	f.Heading = cfg.InitialHeading
	f.Edge = EdgeLeft
	f.Velocity = HeadingVelocity(EdgeLeft, f.Speed, f.Heading)
	f.Root.Local = Identity()
	f.orient()
	return f
}

// HeadingVelocity converts a speed and a heading in degrees into a velocity
// pointing into the canvas from the given edge. Headings in (0, 180) always
// point inward.
func HeadingVelocity(edge Edge, speed, heading float64) Vec2 {
	a1 := heading * math.Pi / 180
	a2 := (heading - 90) * math.Pi / 180
	switch edge {
	case EdgeTop:
		return Vec2{speed * math.Cos(a1), speed * math.Sin(a1)}
	case EdgeRight:
		return Vec2{-speed * math.Cos(a2), -speed * math.Sin(a2)}
	case EdgeBottom:
		return Vec2{speed * math.Cos(a1), -speed * math.Sin(a1)}
	default:
		return Vec2{speed * math.Cos(a2), -speed * math.Sin(a2)}
	}
}

// Position returns the airplane's position. Root has no parent, so its local
// translation is its world position.
func (f *Flight) Position() (x, y float64) {
	return f.Root.Local.Translation()
}

// Integrate advances the flight by one frame: moves the root by the
// velocity, turns the airplane to face it and ticks the spawn timer.
func (f *Flight) Integrate() {
	f.State = FlightFlying
	f.Root.Local = Multiply(Translation(f.Velocity.X, f.Velocity.Y), f.Root.Local)
	f.orient()
	f.SpawnTimer++
}

// orient points the airplane's nose, drawn at -Y, along the velocity.
func (f *Flight) orient() {
	f.Airplane.Local = Rotation(-math.Atan2(f.Velocity.X, -f.Velocity.Y))
}

// OffScreen reports whether the airplane is outside the w x h canvas grown
// by the configured margin.
func (f *Flight) OffScreen(w, h float64) bool {
	x, y := f.Position()
	bounds := Rect{Width: w, Height: h}.Inset(f.cfg.OffscreenMargin)
	return !bounds.Contains(x, y)
}

// SpawnDue reports whether the spawn timer has passed interval-1 frames.
func (f *Flight) SpawnDue(interval int) bool {
	return f.SpawnTimer > interval-1
}

// Reset rolls a new path: speed, heading, palette, entry edge and the entry
// point along that edge. palettes is the number of available palettes.
func (f *Flight) Reset(w, h float64, palettes int) {
	if palettes > 0 {
		f.Palette = intn(f.rng, palettes)
	}
	speed := f.cfg.Speed.Sample(f.rng)
	heading := f.cfg.Heading.Sample(f.rng)
	edge := Edge(intn(f.rng, 4))
	frac := f.cfg.EdgeFraction.Sample(f.rng)
	f.ResetTo(edge, frac, speed, heading, w, h)
}

// ResetTo places the airplane on edge at fraction frac of its length and
// sets the velocity for speed and heading.
func (f *Flight) ResetTo(edge Edge, frac, speed, heading, w, h float64) {
	var x, y float64
	switch edge {
	case EdgeTop:
		x, y = frac*w, 0
	case EdgeRight:
		x, y = w, frac*h
	case EdgeBottom:
		x, y = frac*w, h
	default:
		x, y = 0, frac*h
	}
	f.Root.Local = Translation(x, y)
	f.Edge = edge
	f.Speed = speed
	f.Heading = heading
	f.Velocity = HeadingVelocity(edge, speed, heading)
	f.orient()
	f.State = FlightReset
}
