package guitex

import (
	"slices"
	"sync"
)

// InputBroadcaster implements InputSource for engines. Embed it and call
// Dispatch for every host event.
type InputBroadcaster struct {
	mu        sync.Mutex
	listeners []RawInputListener
}

// AddRawInputListener implements InputSource.
func (b *InputBroadcaster) AddRawInputListener(l RawInputListener) {
	b.mu.Lock()
	b.listeners = append(b.listeners, l)
	b.mu.Unlock()
}

// RemoveRawInputListener implements InputSource.
func (b *InputBroadcaster) RemoveRawInputListener(l RawInputListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := slices.Index(b.listeners, l); i >= 0 {
		b.listeners = slices.Delete(b.listeners, i, i+1)
	}
}

// Dispatch delivers ev to the listeners in registration order and reports
// whether one of them consumed it. Listeners may add or remove listeners
// while it runs.
func (b *InputBroadcaster) Dispatch(ev InputEvent) bool {
	b.mu.Lock()
	listeners := slices.Clone(b.listeners)
	b.mu.Unlock()
	for _, l := range listeners {
		l.OnInput(ev)
	}
	return ev.Consumed()
}

// InputSnapshot is the input state a polling engine reads once per tick.
type InputSnapshot struct {
	X, Y           int
	Buttons        [MouseButtonCount]bool
	WheelX, WheelY float64
	JustPressed    []Key
	JustReleased   []Key
	Repeated       []Key
	Chars          []rune
	Modifiers      Modifiers
}

// InputPoller turns successive snapshots into events for engines whose
// toolkit reports state instead of callbacks. The zero value is ready.
type InputPoller struct {
	started bool
	x, y    int
	buttons [MouseButtonCount]bool
}

// Poll returns the events that lead from the previous snapshot to s.
// Motion comes first, then buttons and wheel, then key presses, repeats,
// characters and key releases.
func (p *InputPoller) Poll(s InputSnapshot) []InputEvent {
	var events []InputEvent
	if !p.started {
		p.started = true
		p.x, p.y = s.X, s.Y
	}

	if s.X != p.x || s.Y != p.y {
		events = append(events, &MouseEvent{
			X: s.X, Y: s.Y, DX: s.X - p.x, DY: s.Y - p.y, Modifiers: s.Modifiers,
		})
		p.x, p.y = s.X, s.Y
	}
	for b, down := range s.Buttons {
		if down == p.buttons[b] {
			continue
		}
		p.buttons[b] = down
		events = append(events, &MouseButtonEvent{
			X: s.X, Y: s.Y, Button: MouseButton(b), Pressed: down, Modifiers: s.Modifiers,
		})
	}
	if s.WheelX != 0 || s.WheelY != 0 {
		events = append(events, &WheelEvent{
			X: s.X, Y: s.Y, DX: s.WheelX, DY: s.WheelY, Modifiers: s.Modifiers,
		})
	}

	for _, k := range s.JustPressed {
		events = append(events, &KeyEvent{Key: k, Pressed: true, Modifiers: s.Modifiers})
	}
	for _, k := range s.Repeated {
		events = append(events, &KeyEvent{Key: k, Pressed: true, Repeat: true, Modifiers: s.Modifiers})
	}
	for _, r := range s.Chars {
		events = append(events, &CharEvent{Char: r, Modifiers: s.Modifiers})
	}
	for _, k := range s.JustReleased {
		events = append(events, &KeyEvent{Key: k, Modifiers: s.Modifiers})
	}
	return events
}
