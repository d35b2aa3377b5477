package ebitenrender

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/contrail"
)

// hudRefresh is how many frames the overlay text is kept before it is
// rebuilt.
const hudRefresh = 30

// hud draws frame rates and, for a Scene, cloud counts in the top-left
// corner. Toggled with H.
type hud struct {
	visible bool
	text    string
	age     int
}

func (h *hud) draw(screen *ebiten.Image, anim contrail.Animation) {
	if !h.visible {
		return
	}
	if h.age%hudRefresh == 0 || h.text == "" {
		h.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
		if s, ok := anim.(*contrail.Scene); ok {
			spawned, retired, resets := s.Totals()
			h.text += fmt.Sprintf("\nclouds: %d/%d\nspawned: %d retired: %d\nresets: %d",
				s.Clouds().Len(), s.Clouds().Capacity(), spawned, retired, resets)
		}
	}
	h.age++
	ebitenutil.DebugPrintAt(screen, h.text, 4, 4)
}
