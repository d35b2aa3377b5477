package contrail

import (
	"math"
	"math/rand/v2"
)

// CloudState is the per-cloud animation state carried by pooled nodes.
type CloudState struct {
	Radius        float64 // current radius; grows, then decays
	InitialRadius float64
	MaxRadius     float64
	// Growing flips to false once, when Radius first reaches MaxRadius.
	Growing    bool
	DriftSpeed float64
	// DriftsLeft is fixed at spawn and alternates between spawns.
	DriftsLeft bool
	Variant    int
}

// CloudPool owns a fixed number of preallocated cloud nodes. Spawning takes a
// node from the free list and parents it under the flight root; retiring
// detaches it and puts it back. No node is allocated after construction.
type CloudPool struct {
	cfg *Config
	rng *rand.Rand

	nodes   []Node
	states  []CloudState
	visuals []Visual

	free   []*Node
	active []*Node

	lastLeft  bool
	exhausted int // spawns skipped because the pool was empty
}

// NewCloudPool preallocates capacity cloud nodes. cfg supplies the growth,
// decay and spawn ranges; rng may be nil to use the package source.
func NewCloudPool(cfg *Config, rng *rand.Rand) *CloudPool {
	capacity := cfg.PoolCapacity
	if capacity <= 0 {
		capacity = 100
	}
	p := &CloudPool{
		cfg:      cfg,
		rng:      rng,
		nodes:    make([]Node, capacity),
		states:   make([]CloudState, capacity),
		visuals:  make([]Visual, capacity),
		free:     make([]*Node, 0, capacity),
		active:   make([]*Node, 0, capacity),
		lastLeft: true,
	}
	// Push in reverse so the first Acquire hands out slot 0.
	for i := capacity - 1; i >= 0; i-- {
		n := &p.nodes[i]
		nodeDefaults(n, "cloud")
		n.Cloud = &p.states[i]
		n.Visual = &p.visuals[i]
		p.free = append(p.free, n)
	}
	return p
}

// Capacity returns the number of preallocated nodes.
func (p *CloudPool) Capacity() int {
	return len(p.nodes)
}

// Len returns the number of active clouds.
func (p *CloudPool) Len() int {
	return len(p.active)
}

// Active returns the active clouds. The returned slice MUST NOT be mutated
// and is invalidated by the next Spawn or Retire.
func (p *CloudPool) Active() []*Node {
	return p.active
}

// Exhausted returns how many spawns were skipped for lack of a free node.
func (p *CloudPool) Exhausted() int {
	return p.exhausted
}

// acquire moves a free node to the active list.
func (p *CloudPool) acquire() (*Node, bool) {
	if len(p.free) == 0 {
		p.exhausted++
		return nil, false
	}
	n := p.free[len(p.free)-1]
	p.free[len(p.free)-1] = nil
	p.free = p.free[:len(p.free)-1]
	p.active = append(p.active, n)
	return n, true
}

// SpawnParams describes the flight a new cloud trails behind.
type SpawnParams struct {
	Parent   *Node
	Velocity Vec2
	Speed    float64
	// Variants are the visuals of the active palette.
	Variants *[PaletteSize]Visual
}

// Spawn activates one pooled node as a fresh cloud: randomized radii and
// drift, the opposite drift side of the previous spawn, a random palette
// variant, and a small starting transform trailing the parent. Returns false
// without side effects on the flight when the pool is exhausted.
func (p *CloudPool) Spawn(sp SpawnParams) (*Node, bool) {
	n, ok := p.acquire()
	if !ok {
		return nil, false
	}
	cfg := p.cfg

	st := n.Cloud
	st.InitialRadius = cfg.InitialRadius.Sample(p.rng)
	st.MaxRadius = math.Max(cfg.MaxRadius.Sample(p.rng), st.InitialRadius+cfg.MinRadiusGap)
	st.Radius = st.InitialRadius
	st.Growing = true
	st.DriftSpeed = cfg.DriftFactor.Sample(p.rng) * sp.Speed / cfg.DriftDiv
	p.lastLeft = !p.lastLeft
	st.DriftsLeft = p.lastLeft
	st.Variant = 0

	if sp.Variants != nil {
		st.Variant = intn(p.rng, PaletteSize)
		n.Visual.setLook(&sp.Variants[st.Variant])
	}

	lag := cfg.SpawnLag
	n.Local = Multiply(
		Translation(-lag*sp.Velocity.X, -lag*sp.Velocity.Y),
		Scaling(cfg.SpawnScale*st.InitialRadius, cfg.SpawnScale*st.InitialRadius),
	)
	n.Visible = true
	n.SetParent(sp.Parent)
	return n, true
}

// Update advances every active cloud by one frame. Clouds cancel the
// parent's displacement v so they stay put in world space, drift sideways
// relative to the heading, then grow or decay.
func (p *CloudPool) Update(v Vec2) {
	back := Translation(-v.X, -v.Y)
	for _, n := range p.active {
		st := n.Cloud
		n.Local = Multiply(back, n.Local)

		d := st.DriftSpeed
		if st.DriftsLeft {
			n.Local = Multiply(Translation(d*v.Y, -d*v.X), n.Local)
		} else {
			n.Local = Multiply(Translation(-d*v.Y, d*v.X), n.Local)
		}

		if st.Growing && st.Radius >= st.MaxRadius {
			st.Growing = false
		}
		k := p.cfg.DecayFactor
		if st.Growing {
			k = p.cfg.GrowthFactor
		}
		n.Local = Multiply(n.Local, Scaling(k, k))
		st.Radius *= k
	}
}

// Retire returns every cloud with Radius <= RetireRadius to the pool in a
// single compaction pass. onRetire, when non-nil, sees each node before it
// is detached. Returns the number of retired clouds.
func (p *CloudPool) Retire(onRetire func(*Node)) int {
	kept := 0
	retired := 0
	for _, n := range p.active {
		if n.Cloud.Radius > p.cfg.RetireRadius {
			p.active[kept] = n
			kept++
			continue
		}
		if onRetire != nil {
			onRetire(n)
		}
		n.RemoveFromParent()
		p.free = append(p.free, n)
		retired++
	}
	for i := kept; i < len(p.active); i++ {
		p.active[i] = nil
	}
	p.active = p.active[:kept]
	return retired
}

// Clear retires every active cloud regardless of radius.
func (p *CloudPool) Clear() {
	for _, n := range p.active {
		n.RemoveFromParent()
		p.free = append(p.free, n)
	}
	clear(p.active)
	p.active = p.active[:0]
}

// setLook copies the drawable fields of t, leaving the per-node uniform
// buffers alone.
func (v *Visual) setLook(t *Visual) {
	v.Program = t.Program
	v.Buffer = t.Buffer
	v.VertexCount = t.VertexCount
	v.ColorOffset = t.ColorOffset
	v.ColorMult = t.ColorMult
	v.Alpha = t.Alpha
	v.Texture = t.Texture
}
