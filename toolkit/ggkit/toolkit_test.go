package ggkit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/guitex"
)

func TestToolkitRunsTasksInOrder(t *testing.T) {
	kit := New()
	require.NoError(t, kit.Start())
	defer kit.Exit()

	var mu sync.Mutex
	var got []int
	for i := range 5 {
		kit.RunLater(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	kit.Sync()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestToolkitStartTwice(t *testing.T) {
	kit := New()
	require.NoError(t, kit.Start())
	require.NoError(t, kit.Start())
	kit.Exit()
	assert.ErrorIs(t, kit.Start(), ErrExited)
}

func TestToolkitNativeFormat(t *testing.T) {
	kit := New()
	_, err := kit.NativeFormat()
	assert.Error(t, err)

	require.NoError(t, kit.Start())
	defer kit.Exit()
	format, err := kit.NativeFormat()
	require.NoError(t, err)
	assert.Equal(t, guitex.FormatRGBA8, format)
}

func TestToolkitExitDrainsQueue(t *testing.T) {
	kit := New()
	require.NoError(t, kit.Start())

	ran := make(chan struct{})
	kit.RunLater(func() { close(ran) })
	kit.Exit()

	select {
	case <-ran:
	default:
		t.Fatal("task queued before Exit did not run")
	}
	<-kit.Done()

	// Dropped silently.
	kit.RunLater(func() { t.Error("task ran after Exit") })
	kit.Exit()
}

func TestToolkitExitWithoutStart(t *testing.T) {
	kit := New()
	kit.Exit()
	<-kit.Done()
	assert.ErrorIs(t, kit.Start(), ErrExited)
}

func TestToolkitInstallPopupHooks(t *testing.T) {
	kit := New()
	require.NoError(t, kit.Start())
	defer kit.Exit()

	comp := guitex.NewPopupCompositor(func() bool { return true }, guitex.Point{}, nil)
	assert.True(t, kit.InstallPopupHooks(comp))
	kit.Sync()

	var hooks guitex.PopupHooks
	kit.RunLater(func() { hooks = kit.hooks })
	kit.Sync()
	assert.Same(t, comp, hooks)
}
