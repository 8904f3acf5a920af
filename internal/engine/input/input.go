// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Event types for viewer use
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
}

// Controls is the held-key state that drives the fly camera.
type Controls struct {
	Forward     bool
	Backward    bool
	TurnLeft    bool
	TurnRight   bool
	StrafeLeft  bool
	StrafeRight bool
	Run         bool
}

// Moving reports whether any movement key is held.
func (c Controls) Moving() bool {
	return c.Forward || c.Backward || c.TurnLeft || c.TurnRight || c.StrafeLeft || c.StrafeRight
}

// Key bindings for one-shot actions.
const (
	KeyQuit       = sdl.SCANCODE_ESCAPE
	KeyScreenshot = sdl.SCANCODE_F12
	KeyMap        = sdl.SCANCODE_TAB
	KeyStats      = sdl.SCANCODE_F1
)

// Input handles all input processing.
type Input struct {
	events []Event
	keys   []uint8
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them to viewer events.
// Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0] // Clear previous events

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			if e.Type == sdl.KEYDOWN {
				i.events = append(i.events, Event{
					Type: EventKeyDown,
					Key:  e.Keysym.Scancode,
				})
			} else if e.Type == sdl.KEYUP {
				i.events = append(i.events, Event{
					Type: EventKeyUp,
					Key:  e.Keysym.Scancode,
				})
			}
		}
	}

	i.keys = sdl.GetKeyboardState()
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

// IsKeyHeld checks if a key is currently down.
func (i *Input) IsKeyHeld(scancode sdl.Scancode) bool {
	return int(scancode) < len(i.keys) && i.keys[scancode] != 0
}

// Controls returns the fly camera state: arrows or WASD to move and turn,
// Q/E to strafe, shift to run.
func (i *Input) Controls() Controls {
	return Controls{
		Forward:     i.IsKeyHeld(sdl.SCANCODE_UP) || i.IsKeyHeld(sdl.SCANCODE_W),
		Backward:    i.IsKeyHeld(sdl.SCANCODE_DOWN) || i.IsKeyHeld(sdl.SCANCODE_S),
		TurnLeft:    i.IsKeyHeld(sdl.SCANCODE_LEFT) || i.IsKeyHeld(sdl.SCANCODE_A),
		TurnRight:   i.IsKeyHeld(sdl.SCANCODE_RIGHT) || i.IsKeyHeld(sdl.SCANCODE_D),
		StrafeLeft:  i.IsKeyHeld(sdl.SCANCODE_Q),
		StrafeRight: i.IsKeyHeld(sdl.SCANCODE_E),
		Run:         i.IsKeyHeld(sdl.SCANCODE_LSHIFT) || i.IsKeyHeld(sdl.SCANCODE_RSHIFT),
	}
}
