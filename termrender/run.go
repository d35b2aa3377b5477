package termrender

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/contrail"
)

// DefaultFrameInterval paces the terminal loop at about 60 frames per second.
const DefaultFrameInterval = 16 * time.Millisecond

// BuildFunc creates the animation against the terminal backend.
type BuildFunc func(f contrail.ResourceFactory) (contrail.Animation, error)

// Loop builds the animation and drives it on screen until ctx is done or
// the user presses Escape, q or Ctrl-C. The caller owns screen: it must be
// initialized and is not finalized here.
func Loop(ctx context.Context, screen tcell.Screen, build BuildFunc, interval time.Duration) error {
	b := NewBackend(screen)
	anim, err := build(b)
	if err != nil {
		return fmt.Errorf("termrender: build animation: %w", err)
	}
	if interval <= 0 {
		interval = DefaultFrameInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log := contrail.Logger()
	cols, rows := screen.Size()
	log.Info("terminal loop started", "cols", cols, "rows", rows, "interval", interval)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if quitKey(ev) {
					log.Info("terminal loop stopped")
					return nil
				}
			case *tcell.EventResize:
				b.Resize(screen.Size())
				screen.Sync()
			}
		case <-ticker.C:
			w, h := b.Viewport()
			anim.Step(w, h)
			anim.Render(b)
			b.Present()
		}
	}
}

func quitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

// Run takes over the terminal and animates a [contrail.Scene] built from
// cfg. Each setup function runs once on the new scene.
func Run(cfg contrail.Config, setup ...func(*contrail.Scene)) error {
	return withScreen(func(screen tcell.Screen) error {
		return Loop(context.Background(), screen, func(f contrail.ResourceFactory) (contrail.Animation, error) {
			s, err := contrail.NewScene(f, cfg)
			if err != nil {
				return nil, err
			}
			for _, fn := range setup {
				fn(s)
			}
			return s, nil
		}, DefaultFrameInterval)
	})
}

// RunTexture shows a [contrail.TextureScene] loading the image at path.
func RunTexture(path string) error {
	return withScreen(func(screen tcell.Screen) error {
		return Loop(context.Background(), screen, func(f contrail.ResourceFactory) (contrail.Animation, error) {
			s, err := contrail.NewTextureScene(f)
			if err != nil {
				return nil, err
			}
			if path != "" {
				s.Load(path)
			}
			return s, nil
		}, DefaultFrameInterval)
	})
}

func withScreen(fn func(tcell.Screen) error) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("termrender: new screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("termrender: init screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()
	return fn(screen)
}
