// Package ggkit is a small retained-mode GUI toolkit rendered off screen
// with gogpu/gg. It implements guitex.Toolkit so a Scene of panels, labels,
// buttons, menus and text fields can be embedded in any guitex engine.
//
// All scene state belongs to the toolkit's GUI goroutine. Mutate scenes
// from tasks passed to RunLater.
package ggkit

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/go-theft-auto/guitex"
)

// ErrExited is returned by Start after Exit.
var ErrExited = errors.New("ggkit: toolkit exited")

// Toolkit runs the GUI goroutine.
type Toolkit struct {
	tasks *guitex.TaskQueue
	wake  chan struct{}
	quit  chan struct{}
	done  chan struct{}

	startOnce sync.Once
	exitOnce  sync.Once
	started   atomic.Bool
	exited    atomic.Bool

	origin   guitex.Point
	fontPath string
	fontSize float64
	log      *slog.Logger

	hooks guitex.PopupHooks // GUI goroutine only
}

// Option configures a Toolkit.
type Option func(*Toolkit)

// WithLogger sets the toolkit's logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Toolkit) { t.log = l }
}

// WithFont loads a TrueType font for labels and buttons. Without a font,
// text is not drawn.
func WithFont(path string, points float64) Option {
	return func(t *Toolkit) { t.fontPath, t.fontSize = path, points }
}

// WithWindowOrigin sets the screen position of the embedded window's
// client area. Popup screen positions are reported relative to it.
func WithWindowOrigin(p guitex.Point) Option {
	return func(t *Toolkit) { t.origin = p }
}

// New creates a toolkit. Call Start before using it.
func New(opts ...Option) *Toolkit {
	t := &Toolkit{
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
		done: make(chan struct{}),
		log:  guitex.Logger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.tasks = guitex.NewTaskQueue(t.log)
	return t
}

// Start launches the GUI goroutine. Later calls do nothing. Every call
// returns once the goroutine is running.
func (t *Toolkit) Start() error {
	if t.exited.Load() {
		return ErrExited
	}
	t.startOnce.Do(func() {
		ready := make(chan struct{})
		go t.loop(ready)
		<-ready
		t.started.Store(true)
		t.log.Debug("ggkit started")
	})
	return nil
}

func (t *Toolkit) loop(ready chan<- struct{}) {
	defer close(t.done)
	close(ready)
	for {
		select {
		case <-t.wake:
			t.tasks.Run()
		case <-t.quit:
			t.tasks.Run()
			return
		}
	}
}

// RunLater implements guitex.GUIExecutor. Tasks submitted after Exit are
// dropped.
func (t *Toolkit) RunLater(task func()) {
	if t.exited.Load() {
		return
	}
	t.tasks.Enqueue(task)
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

// Sync blocks until every task submitted before it has run.
func (t *Toolkit) Sync() {
	if !t.started.Load() || t.exited.Load() {
		return
	}
	ch := make(chan struct{})
	t.RunLater(func() { close(ch) })
	select {
	case <-ch:
	case <-t.done:
	}
}

// NativeFormat implements guitex.NativeFormatSource. gg renders RGBA.
func (t *Toolkit) NativeFormat() (guitex.PixelFormat, error) {
	if !t.started.Load() {
		return guitex.FormatUnknown, fmt.Errorf("ggkit: not started")
	}
	return guitex.FormatRGBA8, nil
}

// NewWindow implements guitex.Toolkit.
func (t *Toolkit) NewWindow(host guitex.Host) guitex.Window {
	return newWindow(t, host)
}

// InstallPopupHooks implements guitex.PopupExtension.
func (t *Toolkit) InstallPopupHooks(hooks guitex.PopupHooks) bool {
	t.RunLater(func() { t.hooks = hooks })
	return true
}

// Exit stops the GUI goroutine after the tasks already queued. It must not
// be called from the GUI goroutine.
func (t *Toolkit) Exit() {
	t.exitOnce.Do(func() {
		t.exited.Store(true)
		neverStarted := false
		t.startOnce.Do(func() {
			neverStarted = true
			close(t.done)
		})
		if neverStarted {
			return
		}
		close(t.quit)
		<-t.done
		t.log.Debug("ggkit exited")
	})
}

// Done is closed when the GUI goroutine has stopped.
func (t *Toolkit) Done() <-chan struct{} { return t.done }
