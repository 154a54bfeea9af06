// Command gen renders sample scenes through the headless engine and saves
// JPEG screenshots to doc/imgs/. With --dump it instead exports every frame
// of a frame dump as PNG.
//
// Usage:
//
//	go run ./doc/gen/
//	go run ./doc/gen/ --dump frames.gtxd --out /tmp/frames
package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-theft-auto/guitex"
	"github.com/go-theft-auto/guitex/backend/headless"
	"github.com/go-theft-auto/guitex/internal/framedump"
	"github.com/go-theft-auto/guitex/toolkit/ggkit"
)

func main() {
	var (
		outDir string
		dump   string
		font   string
	)
	cmd := &cobra.Command{
		Use:          "gen",
		Short:        "Render documentation screenshots",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("mkdir: %w", err)
			}
			if dump != "" {
				return exportDump(dump, outDir)
			}
			return run(cmd.Context(), outDir, font)
		},
	}
	cmd.Flags().StringVar(&outDir, "out", filepath.Join("doc", "imgs"), "output directory")
	cmd.Flags().StringVar(&dump, "dump", "", "export the frames of this frame dump as PNG")
	cmd.Flags().StringVar(&font, "font", "", "TrueType font for GUI text")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// screenshot defines a single scene screenshot to capture.
type screenshot struct {
	name       string              // filename without extension
	width      int                 // display width
	height     int                 // display height
	fullScreen bool                // engine reports full screen, popups are composited
	scene      func() *ggkit.Scene // scene to show
	clicks     []guitex.Point      // clicks sent before the capture
}

var backdrop = color.RGBA{R: 31, G: 31, B: 36, A: 255}

func run(ctx context.Context, outDir, font string) error {
	shots := buildScreenshots()
	for _, s := range shots {
		if err := capture(ctx, s, outDir, font); err != nil {
			return fmt.Errorf("capture %s: %w", s.name, err)
		}
		fmt.Printf("  %s.jpg (%dx%d)\n", s.name, s.width, s.height)
	}
	fmt.Printf("\nGenerated %d screenshots in %s/\n", len(shots), outDir)
	return nil
}

func capture(ctx context.Context, s screenshot, outDir, font string) error {
	// Fresh engine and toolkit per screenshot to avoid state leaking between captures.
	eng := headless.New(headless.WithSize(s.width, s.height), headless.WithFullScreen(s.fullScreen))
	var kitOpts []ggkit.Option
	if font != "" {
		kitOpts = append(kitOpts, ggkit.WithFont(font, 14))
	}
	kit := ggkit.New(kitOpts...)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	c, err := guitex.Install(ctx, eng, kit)
	if err != nil {
		return err
	}
	defer c.Close()
	eng.RunTasks()

	c.SetScene(s.scene())
	frame := func() *image.RGBA {
		// Paint is requested from inside GUI tasks, so two rounds settle it.
		kit.Sync()
		kit.Sync()
		c.Update()
		eng.RunTasks()
		return eng.Render()
	}
	frame()
	for _, p := range s.clicks {
		eng.Send(&guitex.MouseEvent{X: p.X, Y: p.Y})
		eng.Send(&guitex.MouseButtonEvent{X: p.X, Y: p.Y, Pressed: true})
		eng.Send(&guitex.MouseButtonEvent{X: p.X, Y: p.Y})
		frame()
	}
	gui := frame()

	img := image.NewRGBA(gui.Bounds())
	draw.Draw(img, img.Bounds(), image.NewUniform(backdrop), image.Point{}, draw.Src)
	draw.Draw(img, img.Bounds(), gui, image.Point{}, draw.Over)

	path := filepath.Join(outDir, s.name+".jpg")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
}

// exportDump writes every frame of a dump as frame_NNNNN.png.
func exportDump(path, outDir string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := framedump.NewReader(f)
	if err != nil {
		return err
	}
	n := 0
	for {
		frame, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("frame %d: %w", n, err)
		}
		img, err := frame.Image()
		if err != nil {
			return fmt.Errorf("frame %d: %w", n, err)
		}
		if err := writePNG(filepath.Join(outDir, fmt.Sprintf("frame_%05d.png", n)), img); err != nil {
			return err
		}
		n++
	}
	fmt.Printf("Exported %d frames to %s/\n", n, outDir)
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// buildScreenshots returns the list of all screenshots to generate.
func buildScreenshots() []screenshot {
	form := func(style ggkit.Style) func() *ggkit.Scene {
		return func() *ggkit.Scene {
			sc := ggkit.NewScene(
				&ggkit.Panel{Rect: guitex.Rect{X: 12, Y: 12, W: 296, H: 196}},
				&ggkit.Label{Rect: guitex.Rect{X: 24, Y: 22, W: 260, H: 24}, Text: "Settings", Highlight: true},
				&ggkit.Label{Rect: guitex.Rect{X: 24, Y: 52, W: 260, H: 20}, Text: "Player name"},
				&ggkit.TextField{Rect: guitex.Rect{X: 24, Y: 76, W: 260, H: 28}, Text: "Niko"},
				&ggkit.Menu{
					Rect:  guitex.Rect{X: 24, Y: 116, W: 160, H: 28},
					Text:  "Quality",
					Items: []string{"Low", "Medium", "High", "Ultra"}, Selected: 2,
				},
				&ggkit.Button{Rect: guitex.Rect{X: 24, Y: 164, W: 100, H: 28}, Text: "Apply"},
			)
			sc.Style = style
			return sc
		}
	}

	return []screenshot{
		{name: "scene_default", width: 320, height: 220, scene: form(ggkit.DefaultStyle())},
		{name: "scene_gta", width: 320, height: 220, scene: form(ggkit.GTAStyle())},
		{name: "scene_light", width: 320, height: 220, scene: form(ggkit.LightStyle())},
		{
			name: "text_field_focused", width: 320, height: 220,
			scene:  form(ggkit.GTAStyle()),
			clicks: []guitex.Point{{X: 100, Y: 90}},
		},
		{
			name: "menu_windowed", width: 320, height: 280,
			scene:  form(ggkit.GTAStyle()),
			clicks: []guitex.Point{{X: 60, Y: 130}},
		},
		{
			name: "menu_fullscreen", width: 320, height: 280, fullScreen: true,
			scene:  form(ggkit.GTAStyle()),
			clicks: []guitex.Point{{X: 60, Y: 130}},
		},
	}
}
