// Package game runs the first-person viewer: window, frame loop, pointer
// lock and the player session.
package game

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/groundwalk/internal/config"
	"github.com/Faultbox/groundwalk/internal/engine/input"
	"github.com/Faultbox/groundwalk/internal/engine/renderer"
	"github.com/Faultbox/groundwalk/internal/engine/window"
	"github.com/Faultbox/groundwalk/internal/logger"
	"github.com/Faultbox/groundwalk/internal/world"
)

// Title is the window title prefix.
const Title = "groundwalk"

// Action is a one-shot command decoded from the frame's events.
type Action int

const (
	ActionNone Action = iota
	ActionLock
	ActionUnlock
	ActionQuit
	ActionWireframe
	ActionRespawn
	ActionInteract
)

// Game is the viewer instance.
type Game struct {
	config   *config.Config
	log      *zap.Logger
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	session  *Session
}

// New loads the scene and opens the window.
func New(cfg *config.Config) (*Game, error) {
	g := &Game{
		config: cfg,
		log:    logger.Named("game"),
	}
	g.log.Info("initializing viewer",
		zap.String("scene", cfg.Scene.Path),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height))

	scene, err := world.LoadCached(cfg.Scene.Path, cfg.Scene.CacheDir, world.Options{GRFPaths: cfg.Scene.GRFPaths})
	if err != nil {
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}
	g.session, err = NewSession(cfg, scene)
	if err != nil {
		return nil, err
	}

	// Window first: it owns the OpenGL context the renderer needs.
	g.window, err = window.New(window.Config{
		Title:      Title + " - " + scene.Name,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := g.window.GetSize()
	g.renderer, err = renderer.New(renderer.Config{Width: width, Height: height})
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	g.renderer.SetWorld(scene.Triangles, scene.Owners)

	g.input = input.New()

	g.log.Info("viewer initialized, click to capture the mouse")
	return g, nil
}

// Run starts the frame loop and returns when the viewer quits.
func (g *Game) Run() error {
	g.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	var frameBudget time.Duration
	if g.config.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(g.config.Graphics.FPSLimit)
	}

	g.log.Info("starting frame loop")

	for g.running {
		frameStart := time.Now()
		dt := float32(frameStart.Sub(lastTime).Seconds())
		lastTime = frameStart

		if g.input.Update() {
			g.running = false
			break
		}
		for _, event := range g.input.Events() {
			if event.Type == input.EventWindowResize {
				g.renderer.Resize(g.window.GetSize())
			}
			g.apply(Decide(event, g.session.Locked()))
		}
		if !g.running {
			break
		}

		dx, dy := g.input.MouseDelta()
		g.session.Step(dt, g.input.Movement(), dx, dy)

		cam := g.session.Camera()
		g.renderer.Begin()
		g.renderer.DrawWorld(cam.ViewMatrix(), cam.ProjectionMatrix(g.renderer.Aspect()))
		g.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			g.window.SetTitle(fmt.Sprintf("%s - %s (%d fps)", Title, g.session.Scene().Name, frameCount))
			g.log.Debug("fps", zap.Int("count", frameCount), zap.Float32("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if rest := frameBudget - time.Since(frameStart); rest > 0 {
				time.Sleep(rest)
			}
		}
	}

	return nil
}

// Decide maps an input event to an action given the lock state. Escape
// releases a captured pointer and quits when it is already free.
func Decide(e input.Event, locked bool) Action {
	switch e.Type {
	case input.EventMouseDown:
		if !locked && e.Button == sdl.BUTTON_LEFT {
			return ActionLock
		}
	case input.EventFocusLost:
		if locked {
			return ActionUnlock
		}
	case input.EventKeyDown:
		switch e.Key {
		case sdl.SCANCODE_ESCAPE:
			if locked {
				return ActionUnlock
			}
			return ActionQuit
		case sdl.SCANCODE_F1:
			return ActionWireframe
		case sdl.SCANCODE_R:
			return ActionRespawn
		case sdl.SCANCODE_E:
			if locked {
				return ActionInteract
			}
		}
	}
	return ActionNone
}

func (g *Game) apply(a Action) {
	switch a {
	case ActionLock:
		g.window.SetPointerLock(true)
		g.session.SetLocked(g.window.PointerLocked())
	case ActionUnlock:
		g.window.SetPointerLock(false)
		g.session.SetLocked(false)
	case ActionQuit:
		g.running = false
	case ActionWireframe:
		g.log.Info("wireframe toggled", zap.Bool("on", g.renderer.ToggleWireframe()))
	case ActionRespawn:
		g.session.Respawn()
	case ActionInteract:
		g.session.Interact()
	}
}

// Close cleans up viewer resources.
func (g *Game) Close() {
	g.log.Info("closing viewer")

	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
