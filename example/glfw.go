package main

import (
	"context"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/guitex/backend/opengl"
)

func runGLFW(ctx context.Context, a *app, fullScreen bool) error {
	// Initialize GLFW.
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	var monitor *glfw.Monitor
	width, height := windowWidth, windowHeight
	if fullScreen {
		monitor = glfw.GetPrimaryMonitor()
		mode := monitor.GetVideoMode()
		width, height = mode.Width, mode.Height
	}
	window, err := glfw.CreateWindow(width, height, windowTitle, monitor, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1) // vsync

	// Initialize OpenGL.
	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	engine, err := opengl.NewEngine(window, opengl.WithLogger(a.log))
	if err != nil {
		return err
	}
	defer engine.Delete()

	c, err := a.install(ctx, engine)
	if err != nil {
		return err
	}
	defer c.Close()

	// Main loop.
	for !window.ShouldClose() {
		glfw.PollEvents()
		engine.Tick()
		c.Update()

		r, g, b := a.demo.backdrop()
		gl.ClearColor(float32(r), float32(g), float32(b), 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT)
		if err := engine.Render(); err != nil {
			return fmt.Errorf("gui render: %w", err)
		}

		window.SwapBuffers()
	}

	return nil
}
