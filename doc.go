/*
Package guitex embeds an off-screen, retained-mode GUI toolkit into a
real-time engine. The toolkit renders into memory; guitex copies each
frame into a texture drawn as a full-screen picture, routes engine input
back into the toolkit and composites popup windows while the engine runs
full screen.

# Quick Start

	// Setup, on the engine thread
	engine, err := opengl.NewEngine(window)
	if err != nil {
	    return err
	}
	kit := ggkit.New()
	c, err := guitex.Install(ctx, engine, kit, guitex.WithLogger(logger))
	if err != nil {
	    return err
	}
	defer c.Close()

	c.SetScene(ggkit.NewScene(&ggkit.Panel{...}))

	// Game loop
	for !window.ShouldClose() {
	    glfw.PollEvents()
	    engine.Tick()
	    c.Update()
	    engine.Render()
	    window.SwapBuffers()
	}

Engines for Ebitengine (backend/ebitengine) and raylib (backend/raylib)
follow the same shape: the engine's Update runs queued tasks, then the
container's Update, then the engine draws its pictures.

# Threads

Two loops run independently:

	GUI thread     the toolkit's event loop. Paint runs here.
	engine thread  the frame loop. Update, the picture and the texture
	               upload run here.

Engine scene changes requested from the GUI thread go through the
engine's Enqueue. Toolkit work requested from the engine thread goes
through the toolkit's RunLater. The only state touched by both loops is
the CopyBridge.

# Frame Pipeline

A frame passes through three buffers of identical size:

	GetPixels -> staging -> (popups, reorder) -> surface -> texture -> GPU
	             GUI, shared section   GUI, exclusive    engine, exclusive

Paint fills staging under a read lock, then commits it into surface under
the write lock and increments the pending counter. Update, when frames are
pending, copies surface into texture under the write lock, consumes every
pending frame and marks the engine Image for upload. The engine therefore
sees whole frames only. The GUI never waits on the engine: a slow engine
only makes the counter grow.

Resizes take the write lock too. A paint whose staging was filled before
a resize is dropped at commit time.

# Pixel Formats

The toolkit reports its native byte order once, at Install. If the engine
can upload that format directly no conversion happens. Otherwise frames
are reordered into the engine's fallback format on commit:

	ARGB8 -> ABGR8   swap bytes 1 and 3
	BGRA8 -> ABGR8   rotate right by one byte
	RGBA8 -> ABGR8   reverse
	other pairs      generic permutation from NewReorder

Install fails with ErrNegotiationFailed when the toolkit cannot report
its format; no default is assumed.

# Input

The InputRouter is registered with engines implementing InputSource.
Pointer positions are made relative to the picture. A press over a pixel
the GUI covers focuses the GUI and is consumed; a press anywhere else
takes focus away and reaches the game. Keys and characters are forwarded
only while the GUI is focused. Unconsumed events go to the listener set
with SetPassthrough.

# Logging

Nothing is logged by default. Use SetLogger for the whole package or
WithLogger for one container:

	guitex.SetLogger(slog.New(tint.NewHandler(os.Stderr, nil)))
*/
package guitex
