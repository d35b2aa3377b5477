package contrail

import (
	"testing"
)

// setupBenchScene creates a seeded Scene warmed up with a steady-state
// cloud trail.
func setupBenchScene(b *testing.B) (*Scene, *recordBackend) {
	b.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 1
	rb := newRecordBackend(cfg.Width, cfg.Height)
	s, err := NewScene(rb, cfg)
	if err != nil {
		b.Fatal(err)
	}
	for range 60 {
		s.Step(cfg.Width, cfg.Height)
	}
	return s, rb
}

func BenchmarkSceneStep(b *testing.B) {
	s, _ := setupBenchScene(b)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.Step(640, 480)
	}
}

func BenchmarkSceneRender(b *testing.B) {
	s, rb := setupBenchScene(b)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		rb.reset()
		s.Render(rb)
	}
}

func BenchmarkCloudPool_FullCapacity(b *testing.B) {
	cfg := DefaultConfig()
	p := NewCloudPool(&cfg, nil)
	root := NewNode("root")
	for p.Len() < p.Capacity() {
		p.Spawn(SpawnParams{Parent: root, Speed: 4})
	}
	v := Vec2{3, 2}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p.Update(v)
		p.Retire(nil)
		for p.Len() < p.Capacity() {
			p.Spawn(SpawnParams{Parent: root, Speed: 4})
		}
	}
}

func BenchmarkWorldTransform_100Clouds(b *testing.B) {
	cfg := DefaultConfig()
	p := NewCloudPool(&cfg, nil)
	root := NewNode("root")
	for p.Len() < p.Capacity() {
		p.Spawn(SpawnParams{Parent: root, Speed: 4})
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		root.Local = Translation(float64(i%640), 0)
		root.UpdateWorldTransform()
	}
}
