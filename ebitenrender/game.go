package ebitenrender

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/contrail"
)

// BuildFunc creates the animation once the backend exists. It runs on the
// first Update, after Ebitengine has initialized its graphics driver.
type BuildFunc func(f contrail.ResourceFactory) (contrail.Animation, error)

// Game adapts a [contrail.Animation] to [ebiten.Game]. Update steps the
// animation and Draw renders it, one step per displayed frame.
//
// Keys: P queues a screenshot, H toggles the stats overlay, Escape quits.
type Game struct {
	backend *Backend
	build   BuildFunc
	anim    contrail.Animation

	// ScreenshotDir is where P writes PNG captures. Defaults to "screenshots".
	ScreenshotDir   string
	screenshotQueue []string
	shots           int

	hud hud
}

// NewGame returns a game of initial size w x h that builds its animation
// with build on the first Update.
func NewGame(w, h int, build BuildFunc) *Game {
	return &Game{
		backend:       NewBackend(w, h),
		build:         build,
		ScreenshotDir: "screenshots",
	}
}

// Backend returns the game's backend.
func (g *Game) Backend() *Backend {
	return g.backend
}

// Animation returns the animation, or nil before the first Update.
func (g *Game) Animation() contrail.Animation {
	return g.anim
}

// Update implements [ebiten.Game]. An error from the build function stops
// the run loop and is returned by [ebiten.RunGame].
func (g *Game) Update() error {
	if g.anim == nil {
		a, err := g.build(g.backend)
		if err != nil {
			return fmt.Errorf("ebitenrender: build animation: %w", err)
		}
		g.anim = a
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.hud.visible = !g.hud.visible
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.shots++
		g.Screenshot(fmt.Sprintf("frame-%03d", g.shots))
	}
	w, h := g.backend.Viewport()
	g.anim.Step(w, h)
	return nil
}

// Draw implements [ebiten.Game].
func (g *Game) Draw(screen *ebiten.Image) {
	if g.anim == nil {
		return
	}
	g.backend.SetTarget(screen)
	g.anim.Render(g.backend)
	g.flushScreenshots(screen)
	g.hud.draw(screen, g.anim)
	g.backend.SetTarget(nil)
}

// Layout implements [ebiten.Game]. The canvas tracks the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.backend.Resize(outsideWidth, outsideHeight)
	return g.backend.Viewport()
}

// Run opens a window sized from cfg and animates a [contrail.Scene] until
// the window closes. Each setup function runs once on the new scene.
func Run(cfg contrail.Config, setup ...func(*contrail.Scene)) error {
	g := NewGame(cfg.Width, cfg.Height, func(f contrail.ResourceFactory) (contrail.Animation, error) {
		s, err := contrail.NewScene(f, cfg)
		if err != nil {
			return nil, err
		}
		for _, fn := range setup {
			fn(s)
		}
		return s, nil
	})
	return runGame(g, cfg.Title, cfg.Width, cfg.Height)
}

// RunTexture opens a w x h window showing a [contrail.TextureScene] and
// starts loading the image at path.
func RunTexture(title string, w, h int, path string) error {
	g := NewGame(w, h, func(f contrail.ResourceFactory) (contrail.Animation, error) {
		s, err := contrail.NewTextureScene(f)
		if err != nil {
			return nil, err
		}
		if path != "" {
			s.Load(path)
		}
		return s, nil
	})
	return runGame(g, title, w, h)
}

func runGame(g *Game, title string, w, h int) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(ebiten.SyncWithFPS)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
