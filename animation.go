package contrail

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields simultaneously. Create one via
// the convenience constructors and call Update each frame; the group writes
// the eased values straight into the target fields.
//
// There is no global animation manager; owners call Update themselves. The
// Scene drives its tweens in frames, so durations are frame counts and dt
// is 1 per Step.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	Done   bool
}

// Update advances all tweens by dt and writes values to the target fields.
func (g *TweenGroup) Update(dt float32) {
	if g == nil || g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenAlpha creates a TweenGroup that animates v.Alpha from `from` to `to`
// over the given duration using the easing function. The start value is
// written immediately.
func TweenAlpha(v *Visual, from, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	v.Alpha = from
	g := &TweenGroup{count: 1}
	g.tweens[0] = gween.New(float32(from), float32(to), duration, fn)
	g.fields[0] = &v.Alpha
	return g
}
