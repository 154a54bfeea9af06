package main

import (
	"fmt"
	"math"
	"time"

	"github.com/go-theft-auto/guitex"
	"github.com/go-theft-auto/guitex/toolkit/ggkit"
)

// demo is the GUI scene plus the little bit of game state it talks to.
type demo struct {
	scene  *ggkit.Scene
	status *ggkit.Label
	start  time.Time

	// Engine thread only.
	hue float64
}

func newDemo() *demo {
	d := &demo{start: time.Now()}

	clicks := 0
	d.status = &ggkit.Label{Rect: guitex.Rect{X: 24, Y: 52, W: 260, H: 20}, Text: "Click the backdrop to recolor it"}
	button := &ggkit.Button{Rect: guitex.Rect{X: 24, Y: 84, W: 120, H: 28}, Text: "Click me"}
	button.OnClick = func() {
		clicks++
		button.Text = fmt.Sprintf("Clicked %d", clicks)
	}
	name := &ggkit.TextField{
		Rect:   guitex.Rect{X: 24, Y: 124, W: 260, H: 28},
		MaxLen: 24,
		OnSubmit: func(text string) {
			d.status.Text = "Hello, " + text
		},
	}
	quality := &ggkit.Menu{
		Rect:     guitex.Rect{X: 24, Y: 164, W: 160, H: 28},
		Text:     "Quality",
		Items:    []string{"Low", "Medium", "High", "Ultra"},
		Selected: 1,
		OnSelect: func(_ int, item string) {
			d.status.Text = "Quality: " + item
		},
	}

	d.scene = ggkit.NewScene(
		&ggkit.Panel{Rect: guitex.Rect{X: 12, Y: 12, W: 284, H: 196}},
		&ggkit.Label{Rect: guitex.Rect{X: 24, Y: 22, W: 260, H: 24}, Text: "guitex example", Highlight: true},
		d.status,
		button,
		name,
		quality,
	)
	d.scene.Style = ggkit.GTAStyle()
	return d
}

// gameInput receives the events the GUI did not consume.
func (d *demo) gameInput(ev guitex.InputEvent) {
	if e, ok := ev.(*guitex.MouseButtonEvent); ok && e.Pressed {
		d.hue = math.Mod(d.hue+0.17, 1)
	}
}

// backdrop returns the game's clear color for this frame.
func (d *demo) backdrop() (r, g, b float64) {
	t := time.Since(d.start).Seconds()
	h := math.Mod(d.hue+0.05*math.Sin(t/2), 1)
	if h < 0 {
		h++
	}
	return hsv(h, 0.45, 0.35)
}

func hsv(h, s, v float64) (r, g, b float64) {
	i := math.Floor(h * 6)
	f := h*6 - i
	p, q, t := v*(1-s), v*(1-f*s), v*(1-(1-f)*s)
	switch int(i) % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}
