package main

import (
	"context"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	raylibengine "github.com/go-theft-auto/guitex/backend/raylib"
	"github.com/go-theft-auto/guitex/internal/x11"
)

func runRaylib(ctx context.Context, a *app, fullScreen bool) error {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagVsyncHint)
	rl.InitWindow(windowWidth, windowHeight, windowTitle)
	defer rl.CloseWindow()
	rl.SetExitKey(0)
	if fullScreen {
		rl.ToggleFullscreen()
	}

	opts := []raylibengine.Option{raylibengine.WithLogger(a.log)}
	if conn, err := x11.Dial(); err != nil {
		a.log.Debug("no X11 connection, assuming no window decoration", "err", err)
	} else {
		defer conn.Close()
		window := uint32(uintptr(rl.GetWindowHandle()))
		opts = append(opts, raylibengine.WithDecoration(x11.NewDecoration(conn, window, a.log)))
	}
	engine := raylibengine.New(opts...)
	defer engine.Close()

	c, err := a.install(ctx, engine)
	if err != nil {
		return err
	}
	defer c.Close()

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		engine.Update()
		c.Update()

		r, g, b := a.demo.backdrop()
		rl.BeginDrawing()
		rl.ClearBackground(color.RGBA{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255), A: 255})
		engine.Draw()
		rl.EndDrawing()
	}
	return nil
}
