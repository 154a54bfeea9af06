package guitex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/guitex"
)

func TestInputPollerMotionAndButtons(t *testing.T) {
	var p guitex.InputPoller
	assert.Empty(t, p.Poll(guitex.InputSnapshot{X: 10, Y: 20}), "first snapshot only sets the origin")

	s := guitex.InputSnapshot{X: 15, Y: 18, Modifiers: guitex.ModShift}
	s.Buttons[guitex.MouseButtonLeft] = true
	events := p.Poll(s)
	require.Len(t, events, 2)

	move := events[0].(*guitex.MouseEvent)
	assert.Equal(t, 15, move.X)
	assert.Equal(t, 5, move.DX)
	assert.Equal(t, -2, move.DY)
	assert.Equal(t, guitex.ModShift, move.Modifiers)

	press := events[1].(*guitex.MouseButtonEvent)
	assert.True(t, press.Pressed)
	assert.Equal(t, guitex.MouseButtonLeft, press.Button)

	// Held button, no motion: nothing new.
	assert.Empty(t, p.Poll(s))

	s.Buttons[guitex.MouseButtonLeft] = false
	events = p.Poll(s)
	require.Len(t, events, 1)
	assert.False(t, events[0].(*guitex.MouseButtonEvent).Pressed)
}

func TestInputPollerKeysAndChars(t *testing.T) {
	var p guitex.InputPoller
	events := p.Poll(guitex.InputSnapshot{
		WheelY:       -1,
		JustPressed:  []guitex.Key{guitex.KeyA},
		Repeated:     []guitex.Key{guitex.KeyBackspace},
		Chars:        []rune("a"),
		JustReleased: []guitex.Key{guitex.KeyEnter},
	})
	require.Len(t, events, 5)

	wheel := events[0].(*guitex.WheelEvent)
	assert.Equal(t, -1.0, wheel.DY)
	down := events[1].(*guitex.KeyEvent)
	assert.True(t, down.Pressed)
	assert.False(t, down.Repeat)
	repeat := events[2].(*guitex.KeyEvent)
	assert.True(t, repeat.Repeat)
	assert.Equal(t, guitex.KeyBackspace, repeat.Key)
	assert.Equal(t, 'a', events[3].(*guitex.CharEvent).Char)
	up := events[4].(*guitex.KeyEvent)
	assert.False(t, up.Pressed)
	assert.Equal(t, guitex.KeyEnter, up.Key)
}

type namedListener struct {
	name    string
	order   *[]string
	consume bool
}

func (l *namedListener) OnInput(ev guitex.InputEvent) {
	*l.order = append(*l.order, l.name)
	if l.consume {
		ev.Consume()
	}
}

func TestInputBroadcaster(t *testing.T) {
	var b guitex.InputBroadcaster
	var order []string
	first := &namedListener{name: "first", order: &order}
	second := &namedListener{name: "second", order: &order, consume: true}
	b.AddRawInputListener(first)
	b.AddRawInputListener(second)

	assert.True(t, b.Dispatch(&guitex.MouseEvent{}))
	assert.Equal(t, []string{"first", "second"}, order)

	b.RemoveRawInputListener(second)
	order = nil
	assert.False(t, b.Dispatch(&guitex.MouseEvent{}))
	assert.Equal(t, []string{"first"}, order)
}
