package contrail

import (
	"math"
	"math/rand/v2"
	"testing"
)

func newTestFlight(seed uint64) *Flight {
	cfg := DefaultConfig()
	return NewFlight(&cfg, rand.New(rand.NewPCG(seed, seed+1)))
}

func TestInitialFlight(t *testing.T) {
	f := newTestFlight(1)
	x, y := f.Position()
	assertNear(t, "x", x, 0)
	assertNear(t, "y", y, 0)
	assertNear(t, "Speed", f.Speed, 4)
	assertNear(t, "Heading", f.Heading, 50)

	a := -40 * math.Pi / 180
	assertNear(t, "vx", f.Velocity.X, 4*math.Cos(a))
	assertNear(t, "vy", f.Velocity.Y, -4*math.Sin(a))
	if f.Airplane.Parent != f.Root {
		t.Error("airplane should be a child of the root")
	}
}

func TestHeadingVelocityPointsInward(t *testing.T) {
	for _, edge := range []Edge{EdgeLeft, EdgeTop, EdgeRight, EdgeBottom} {
		for heading := 1.0; heading < 180; heading += 7 {
			v := HeadingVelocity(edge, 3, heading)
			var inward bool
			switch edge {
			case EdgeLeft:
				inward = v.X > 0
			case EdgeTop:
				inward = v.Y > 0
			case EdgeRight:
				inward = v.X < 0
			case EdgeBottom:
				inward = v.Y < 0
			}
			if !inward {
				t.Errorf("%s heading %v: velocity %v points outward", edge, heading, v)
			}
			assertNear(t, "speed", math.Hypot(v.X, v.Y), 3)
		}
	}
}

func TestIntegrateMovesAndTicks(t *testing.T) {
	f := newTestFlight(1)
	v := f.Velocity
	for range 3 {
		f.Integrate()
	}
	x, y := f.Position()
	assertNear(t, "x", x, 3*v.X)
	assertNear(t, "y", y, 3*v.Y)
	if f.SpawnTimer != 3 {
		t.Errorf("SpawnTimer = %d, want 3", f.SpawnTimer)
	}
	if f.State != FlightFlying {
		t.Errorf("State = %s, want flying", f.State)
	}
}

func TestAirplaneFacesVelocity(t *testing.T) {
	f := newTestFlight(1)
	for _, edge := range []Edge{EdgeLeft, EdgeTop, EdgeRight, EdgeBottom} {
		f.ResetTo(edge, 0.5, 4, 70, 640, 480)
		f.Integrate()
		nx, ny := f.Airplane.Local.Apply(0, -20)
		// Nose is parallel to and in the direction of the velocity.
		cross := nx*f.Velocity.Y - ny*f.Velocity.X
		dot := nx*f.Velocity.X + ny*f.Velocity.Y
		if math.Abs(cross) > 1e-9 || dot <= 0 {
			t.Errorf("%s: nose (%v, %v) not along velocity %v", edge, nx, ny, f.Velocity)
		}
	}
}

func TestResetToTopEdge(t *testing.T) {
	f := newTestFlight(1)
	f.ResetTo(EdgeTop, 0.5, 4, 90, 640, 480)
	x, y := f.Position()
	assertNear(t, "x", x, 320)
	assertNear(t, "y", y, 0)
	assertNear(t, "vx", f.Velocity.X, 0)
	assertNear(t, "vy", f.Velocity.Y, 4)
	if f.State != FlightReset || f.Edge != EdgeTop {
		t.Errorf("State = %s, Edge = %s", f.State, f.Edge)
	}
}

func TestResetEntryPoints(t *testing.T) {
	f := newTestFlight(1)
	tests := []struct {
		edge Edge
		x, y float64
	}{
		{EdgeLeft, 0, 120},
		{EdgeTop, 160, 0},
		{EdgeRight, 640, 120},
		{EdgeBottom, 160, 480},
	}
	for _, tt := range tests {
		f.ResetTo(tt.edge, 0.25, 4, 60, 640, 480)
		x, y := f.Position()
		assertNear(t, tt.edge.String()+".x", x, tt.x)
		assertNear(t, tt.edge.String()+".y", y, tt.y)
	}
}

func TestResetRollsWithinRanges(t *testing.T) {
	f := newTestFlight(9)
	cfg := f.cfg
	edges := make(map[Edge]bool)
	for range 400 {
		f.Reset(640, 480, 5)
		if !cfg.Speed.Contains(f.Speed) {
			t.Fatalf("Speed %v outside %v", f.Speed, cfg.Speed)
		}
		if !cfg.Heading.Contains(f.Heading) {
			t.Fatalf("Heading %v outside %v", f.Heading, cfg.Heading)
		}
		if f.Palette < 0 || f.Palette >= 5 {
			t.Fatalf("Palette %d out of range", f.Palette)
		}
		if f.OffScreen(640, 480) {
			t.Fatalf("reset placed the airplane off-screen at %v", f.Root.Local)
		}
		edges[f.Edge] = true
	}
	if len(edges) != 4 {
		t.Errorf("saw edges %v, want all four", edges)
	}
}

func TestOffScreenMargin(t *testing.T) {
	f := newTestFlight(1)
	tests := []struct {
		x, y float64
		off  bool
	}{
		{0, 0, false},
		{-30, 0, false},
		{-30.5, 0, true},
		{670, 480, false},
		{671, 480, true},
		{320, 511, true},
	}
	for _, tt := range tests {
		f.Root.Local = Translation(tt.x, tt.y)
		if got := f.OffScreen(640, 480); got != tt.off {
			t.Errorf("OffScreen at (%v, %v) = %v, want %v", tt.x, tt.y, got, tt.off)
		}
	}
}

func TestSpawnDue(t *testing.T) {
	f := newTestFlight(1)
	for frame := 1; frame <= 4; frame++ {
		f.Integrate()
		if got := f.SpawnDue(4); got != (frame == 4) {
			t.Errorf("frame %d: SpawnDue = %v", frame, got)
		}
	}
}
