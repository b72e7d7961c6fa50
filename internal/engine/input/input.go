// Package input polls SDL2 events and keyboard state once per frame.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/groundwalk/internal/engine/player"
)

// Event types for game use
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventFocusLost
	EventKeyDown
	EventMouseDown
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	Button uint8
}

// Movement keys. Arrows mirror WASD.
var (
	keysForward = []sdl.Scancode{sdl.SCANCODE_W, sdl.SCANCODE_UP}
	keysBack    = []sdl.Scancode{sdl.SCANCODE_S, sdl.SCANCODE_DOWN}
	keysLeft    = []sdl.Scancode{sdl.SCANCODE_A, sdl.SCANCODE_LEFT}
	keysRight   = []sdl.Scancode{sdl.SCANCODE_D, sdl.SCANCODE_RIGHT}
)

// Input collects one frame of events, relative mouse motion and the held
// movement keys.
type Input struct {
	events         []Event
	mouseDX        float32
	mouseDY        float32
	movement       player.Input
	keyboardSource func() []uint8
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:         make([]Event, 0, 16),
		keyboardSource: sdl.GetKeyboardState,
	}
}

// Update polls SDL events and samples the keyboard.
// Returns true if the window was closed.
func (i *Input) Update() bool {
	i.reset()
	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if i.handle(event) {
			quit = true
		}
	}
	i.movement = Movement(i.keyboardSource())
	return quit
}

func (i *Input) reset() {
	i.events = i.events[:0]
	i.mouseDX, i.mouseDY = 0, 0
}

// handle folds one SDL event into the frame state. Returns true on quit.
func (i *Input) handle(event sdl.Event) bool {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.events = append(i.events, Event{Type: EventQuit})
		return true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_RESIZED:
			i.events = append(i.events, Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			})
		case sdl.WINDOWEVENT_FOCUS_LOST:
			i.events = append(i.events, Event{Type: EventFocusLost})
		}

	case *sdl.KeyboardEvent:
		// Held keys are read from the keyboard state; only fresh presses
		// become events.
		if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
			i.events = append(i.events, Event{Type: EventKeyDown, Key: e.Keysym.Scancode})
		}

	case *sdl.MouseMotionEvent:
		i.mouseDX += float32(e.XRel)
		i.mouseDY += float32(e.YRel)

	case *sdl.MouseButtonEvent:
		if e.Type == sdl.MOUSEBUTTONDOWN {
			i.events = append(i.events, Event{Type: EventMouseDown, Button: e.Button})
		}
	}
	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// MouseDelta returns the relative mouse motion accumulated this frame.
func (i *Input) MouseDelta() (dx, dy float32) {
	return i.mouseDX, i.mouseDY
}

// Movement returns the movement keys held at the last Update.
func (i *Input) Movement() player.Input {
	return i.movement
}

// Movement maps an SDL keyboard state array to movement input.
func Movement(state []uint8) player.Input {
	held := func(keys []sdl.Scancode) bool {
		for _, k := range keys {
			if int(k) < len(state) && state[k] != 0 {
				return true
			}
		}
		return false
	}
	return player.Input{
		Forward: held(keysForward),
		Back:    held(keysBack),
		Left:    held(keysLeft),
		Right:   held(keysRight),
	}
}
