package contrail

import (
	"math/rand/v2"
	"testing"
)

// fixedCloudConfig pins every cloud range so growth is deterministic.
func fixedCloudConfig() *Config {
	cfg := DefaultConfig()
	cfg.InitialRadius = Range{5, 5}
	cfg.MaxRadius = Range{10, 10}
	cfg.DriftFactor = Range{1, 1}
	return &cfg
}

func newTestPool(cfg *Config) (*CloudPool, *Node) {
	return NewCloudPool(cfg, rand.New(rand.NewPCG(1, 2))), NewNode("root")
}

func TestCloudPoolPreallocates(t *testing.T) {
	cfg := DefaultConfig()
	p := NewCloudPool(&cfg, nil)
	if p.Capacity() != 100 {
		t.Errorf("Capacity = %d, want 100", p.Capacity())
	}
	if p.Len() != 0 {
		t.Errorf("Len = %d, want 0", p.Len())
	}
	for _, n := range p.free {
		if n.Cloud == nil || n.Visual == nil {
			t.Fatal("pooled node missing cloud state or visual")
		}
	}
}

func TestCloudSpawnParamsAndPlacement(t *testing.T) {
	cfg := fixedCloudConfig()
	p, root := newTestPool(cfg)

	n, ok := p.Spawn(SpawnParams{Parent: root, Velocity: Vec2{2, 0}, Speed: 45})
	if !ok {
		t.Fatal("Spawn failed on an empty pool")
	}
	st := n.Cloud
	assertNear(t, "InitialRadius", st.InitialRadius, 5)
	assertNear(t, "Radius", st.Radius, 5)
	assertNear(t, "MaxRadius", st.MaxRadius, 10)
	assertNear(t, "DriftSpeed", st.DriftSpeed, 1)
	if !st.Growing {
		t.Error("new cloud should be growing")
	}
	if n.Parent != root {
		t.Error("cloud should be parented under the flight root")
	}

	// Trails 10 frames of travel behind, scaled to 0.05 * radius.
	want := Multiply(Translation(-20, 0), Scaling(0.25, 0.25))
	assertMatrix(t, "Local", n.Local, want)
}

func TestCloudMaxRadiusGap(t *testing.T) {
	cfg := fixedCloudConfig()
	cfg.InitialRadius = Range{7, 7}
	cfg.MaxRadius = Range{8, 8}
	p, root := newTestPool(cfg)
	n, _ := p.Spawn(SpawnParams{Parent: root})
	assertNear(t, "MaxRadius", n.Cloud.MaxRadius, 10)
}

func TestCloudRandomRanges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PoolCapacity = 500
	p, root := NewCloudPool(&cfg, rand.New(rand.NewPCG(3, 4))), NewNode("root")
	for range 500 {
		n, ok := p.Spawn(SpawnParams{Parent: root, Speed: 4})
		if !ok {
			t.Fatal("unexpected exhaustion")
		}
		st := n.Cloud
		if !cfg.InitialRadius.Contains(st.InitialRadius) {
			t.Fatalf("InitialRadius %v outside %v", st.InitialRadius, cfg.InitialRadius)
		}
		if st.MaxRadius < st.InitialRadius+3 {
			t.Fatalf("MaxRadius %v less than InitialRadius %v + 3", st.MaxRadius, st.InitialRadius)
		}
		if st.DriftSpeed < 4.0/45 || st.DriftSpeed >= 12.0/45 {
			t.Fatalf("DriftSpeed %v outside [4/45, 12/45)", st.DriftSpeed)
		}
		if st.Variant < 0 || st.Variant >= PaletteSize {
			t.Fatalf("Variant %d out of range", st.Variant)
		}
	}
}

func TestCloudDriftAlternates(t *testing.T) {
	p, root := newTestPool(fixedCloudConfig())
	want := []bool{false, true, false, true}
	for i, w := range want {
		n, _ := p.Spawn(SpawnParams{Parent: root})
		if n.Cloud.DriftsLeft != w {
			t.Errorf("spawn %d DriftsLeft = %v, want %v", i, n.Cloud.DriftsLeft, w)
		}
	}
}

func TestCloudLifecycle(t *testing.T) {
	p, root := newTestPool(fixedCloudConfig())
	n, _ := p.Spawn(SpawnParams{Parent: root})

	growing := 0
	for update := 1; update <= 40; update++ {
		p.Update(Vec2{})
		if n.Cloud.Growing {
			growing++
		}
		retired := p.Retire(nil)
		if update < 31 && retired != 0 {
			t.Fatalf("retired at update %d, radius %v", update, n.Cloud.Radius)
		}
		if update == 31 {
			if retired != 1 {
				t.Fatalf("not retired at update 31, radius %v", n.Cloud.Radius)
			}
			break
		}
	}
	if growing != 8 {
		t.Errorf("growth updates = %d, want 8", growing)
	}
	if p.Len() != 0 {
		t.Errorf("Len = %d after retirement, want 0", p.Len())
	}
	if n.Parent != nil {
		t.Error("retired cloud should be detached")
	}
	if n.Cloud.Radius > 1 || n.Cloud.Radius < 0.94 {
		t.Errorf("retired radius = %v, want just under 1", n.Cloud.Radius)
	}
}

func TestCloudRadiusMonotonicWithOneFlip(t *testing.T) {
	cfg := DefaultConfig()
	p, root := NewCloudPool(&cfg, rand.New(rand.NewPCG(5, 6))), NewNode("root")
	for range 20 {
		p.Spawn(SpawnParams{Parent: root, Speed: 4})
	}
	type track struct {
		last  float64
		flips int
		grow  bool
	}
	tracks := make(map[*Node]*track)
	for _, n := range p.Active() {
		tracks[n] = &track{last: n.Cloud.Radius, grow: true}
	}
	for range 200 {
		p.Update(Vec2{1, 1})
		for _, n := range p.Active() {
			tr := tracks[n]
			r := n.Cloud.Radius
			if n.Cloud.Growing != tr.grow {
				tr.flips++
				tr.grow = n.Cloud.Growing
			}
			if n.Cloud.Growing && r <= tr.last {
				t.Fatalf("radius fell while growing: %v -> %v", tr.last, r)
			}
			if !n.Cloud.Growing && r >= tr.last {
				t.Fatalf("radius rose while decaying: %v -> %v", tr.last, r)
			}
			if tr.flips > 1 {
				t.Fatal("cloud flipped growth more than once")
			}
			tr.last = r
		}
		p.Retire(func(n *Node) {
			if n.Cloud.Radius > cfg.RetireRadius {
				t.Fatalf("retired cloud with radius %v", n.Cloud.Radius)
			}
			if tracks[n].flips != 1 {
				t.Fatalf("retired cloud flipped %d times, want 1", tracks[n].flips)
			}
		})
		for _, n := range p.Active() {
			if n.Cloud.Radius <= cfg.RetireRadius {
				t.Fatalf("active cloud with radius %v survived Retire", n.Cloud.Radius)
			}
		}
	}
	if p.Len() != 0 {
		t.Errorf("Len = %d after 200 updates, want 0", p.Len())
	}
}

func TestCloudStaysPutWhileParentMoves(t *testing.T) {
	cfg := fixedCloudConfig()
	p, root := newTestPool(cfg)
	v := Vec2{3, 0}
	n, _ := p.Spawn(SpawnParams{Parent: root, Velocity: v, Speed: 45})
	root.UpdateWorldTransform()
	x0, y0 := n.WorldPosition()

	root.Local = Multiply(Translation(v.X, v.Y), root.Local)
	p.Update(v)
	root.UpdateWorldTransform()
	x1, y1 := n.WorldPosition()

	// First spawn drifts right of the heading: (-d*vy, d*vx) with d = 1.
	assertNear(t, "dx", x1-x0, 0)
	assertNear(t, "dy", y1-y0, 3)
}

func TestCloudPoolExhaustion(t *testing.T) {
	cfg := fixedCloudConfig()
	cfg.PoolCapacity = 3
	p, root := newTestPool(cfg)
	for i := range 3 {
		if _, ok := p.Spawn(SpawnParams{Parent: root}); !ok {
			t.Fatalf("spawn %d failed", i)
		}
	}
	if _, ok := p.Spawn(SpawnParams{Parent: root}); ok {
		t.Fatal("spawn beyond capacity should fail")
	}
	if p.Len() != 3 || p.Exhausted() != 1 {
		t.Errorf("Len = %d, Exhausted = %d; want 3, 1", p.Len(), p.Exhausted())
	}
	if root.NumChildren() != 3 {
		t.Errorf("root children = %d, want 3", root.NumChildren())
	}

	p.Clear()
	if p.Len() != 0 || root.NumChildren() != 0 {
		t.Errorf("after Clear: Len = %d, children = %d", p.Len(), root.NumChildren())
	}
	if _, ok := p.Spawn(SpawnParams{Parent: root}); !ok {
		t.Error("spawn after Clear should succeed")
	}
}

func TestCloudSpawnCopiesVariantLook(t *testing.T) {
	p, root := newTestPool(fixedCloudConfig())
	var variants [PaletteSize]Visual
	for i := range variants {
		variants[i] = Visual{Program: 1, Buffer: BufferHandle(10 + i), VertexCount: 60, ColorMult: ColorWhite, Alpha: 1}
	}
	n, _ := p.Spawn(SpawnParams{Parent: root, Variants: &variants})
	want := BufferHandle(10 + n.Cloud.Variant)
	if n.Visual.Buffer != want || n.Visual.VertexCount != 60 {
		t.Errorf("visual = %+v, want buffer %d", *n.Visual, want)
	}
	if n.Visual == &variants[n.Cloud.Variant] {
		t.Error("cloud should own its visual, not share the variant")
	}
}
