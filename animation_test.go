package contrail

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenAlphaWritesStart(t *testing.T) {
	v := Visual{Alpha: 1}
	TweenAlpha(&v, 0, 1, 10, ease.Linear)
	if v.Alpha != 0 {
		t.Errorf("Alpha = %v, want start value 0", v.Alpha)
	}
}

func TestTweenAlphaLinear(t *testing.T) {
	v := Visual{}
	g := TweenAlpha(&v, 0, 1, 10, ease.Linear)
	for range 5 {
		g.Update(1)
	}
	if v.Alpha < 0.49 || v.Alpha > 0.51 {
		t.Errorf("Alpha = %v halfway, want 0.5", v.Alpha)
	}
	if g.Done {
		t.Error("tween finished early")
	}
	for range 5 {
		g.Update(1)
	}
	if v.Alpha != 1 || !g.Done {
		t.Errorf("Alpha = %v Done = %v, want 1 true", v.Alpha, g.Done)
	}

	// Finished groups stop writing.
	v.Alpha = 0.3
	g.Update(1)
	if v.Alpha != 0.3 {
		t.Errorf("Alpha = %v, finished tween should not write", v.Alpha)
	}
}

func TestTweenGroupNilSafe(t *testing.T) {
	var g *TweenGroup
	g.Update(1)
}
