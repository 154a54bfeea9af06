package main

import (
	"context"
	"errors"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/go-theft-auto/guitex"
	"github.com/go-theft-auto/guitex/backend/ebitengine"
)

// game is the Ebitengine side of the example. The GUI is installed on the
// first Update, once the game loop runs.
type game struct {
	ctx    context.Context
	app    *app
	engine *ebitengine.Engine
	gui    *guitex.Container
}

func (g *game) Update() error {
	if g.gui == nil {
		c, err := g.app.install(g.ctx, g.engine)
		if err != nil {
			return err
		}
		g.gui = c
	}
	if err := g.ctx.Err(); err != nil {
		return ebiten.Termination
	}
	g.engine.Update()
	g.gui.Update()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	r, gr, b := g.app.demo.backdrop()
	screen.Fill(color.RGBA{R: uint8(r * 255), G: uint8(gr * 255), B: uint8(b * 255), A: 255})
	g.engine.Draw(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.engine.Layout(outsideWidth, outsideHeight)
}

func runEbiten(ctx context.Context, a *app, fullScreen bool) error {
	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(fullScreen)

	g := &game{ctx: ctx, app: a, engine: ebitengine.New(ebitengine.WithLogger(a.log))}
	err := ebiten.RunGame(g)
	if g.gui != nil {
		g.gui.Close()
	}
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
