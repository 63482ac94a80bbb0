// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies editor events.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Repeat bool
	Width  int
	Height int
	MouseX int
	MouseY int
	DeltaX int
	DeltaY int
	Button uint8
	Wheel  int
}

// Input polls SDL and keeps the per-frame state the editor asks about.
type Input struct {
	events []Event

	buttons   map[uint8]bool
	mouseX    int
	mouseY    int
	dragX     int
	dragY     int
	wheel     int
	keyboard  []uint8
	modifiers sdl.Keymod
	quitAsked bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:  make([]Event, 0, 16),
		buttons: make(map[uint8]bool),
	}
}

// Update polls SDL events. It returns true once the user asked to quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	i.dragX, i.dragY, i.wheel = 0, 0, 0

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			i.quitAsked = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			ev := Event{Key: e.Keysym.Scancode, Repeat: e.Repeat != 0}
			if e.Type == sdl.KEYDOWN {
				ev.Type = EventKeyDown
			} else {
				ev.Type = EventKeyUp
			}
			i.events = append(i.events, ev)

		case *sdl.MouseMotionEvent:
			i.mouseX, i.mouseY = int(e.X), int(e.Y)
			i.dragX += int(e.XRel)
			i.dragY += int(e.YRel)
			i.events = append(i.events, Event{
				Type:   EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				DeltaX: int(e.XRel),
				DeltaY: int(e.YRel),
			})

		case *sdl.MouseButtonEvent:
			ev := Event{MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}
			if e.Type == sdl.MOUSEBUTTONDOWN {
				ev.Type = EventMouseDown
				i.buttons[e.Button] = true
			} else {
				ev.Type = EventMouseUp
				i.buttons[e.Button] = false
			}
			i.mouseX, i.mouseY = int(e.X), int(e.Y)
			i.events = append(i.events, ev)

		case *sdl.MouseWheelEvent:
			dy := int(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				dy = -dy
			}
			i.wheel += dy
			i.events = append(i.events, Event{Type: EventWheel, Wheel: dy})
		}
	}

	i.keyboard = sdl.GetKeyboardState()
	i.modifiers = sdl.GetModState()
	return i.quitAsked
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed reports whether a key went down this frame, ignoring auto-repeat.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode && !e.Repeat {
			return true
		}
	}
	return false
}

// IsKeyHeld reports whether a key is currently down.
func (i *Input) IsKeyHeld(scancode sdl.Scancode) bool {
	return int(scancode) < len(i.keyboard) && i.keyboard[scancode] != 0
}

// Axis returns -1, 0 or 1 from a pair of held keys.
func (i *Input) Axis(negative, positive sdl.Scancode) float32 {
	var v float32
	if i.IsKeyHeld(positive) {
		v++
	}
	if i.IsKeyHeld(negative) {
		v--
	}
	return v
}

// Shift reports whether either shift key is held.
func (i *Input) Shift() bool { return i.modifiers&sdl.KMOD_SHIFT != 0 }

// Ctrl reports whether either control key is held.
func (i *Input) Ctrl() bool { return i.modifiers&sdl.KMOD_CTRL != 0 }

// IsButtonHeld reports whether a mouse button is down.
func (i *Input) IsButtonHeld(button uint8) bool { return i.buttons[button] }

// Mouse returns the last known cursor position.
func (i *Input) Mouse() (x, y int) { return i.mouseX, i.mouseY }

// Drag returns the summed mouse motion of the last Update.
func (i *Input) Drag() (dx, dy int) { return i.dragX, i.dragY }

// Wheel returns the summed wheel steps of the last Update.
func (i *Input) Wheel() int { return i.wheel }
