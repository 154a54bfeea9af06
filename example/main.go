// Example embeds a small ggkit scene into a game window.
//
// Prerequisites:
//
//	Install devbox: https://www.jetify.com/devbox
//	devbox shell                  # enter the dev environment (provides Go + OpenGL/X11 headers)
//	go run ./example/             # GLFW + OpenGL
//	go run ./example/ ebiten      # Ebitengine
//	go run ./example/ raylib      # raylib
//
// Every backend draws a moving backdrop for the game, then the GUI picture
// on top. Clicks on transparent GUI pixels reach the game and recolor it.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/go-theft-auto/guitex"
	"github.com/go-theft-auto/guitex/internal/framedump"
	"github.com/go-theft-auto/guitex/toolkit/ggkit"
)

const (
	windowWidth  = 800
	windowHeight = 600
	windowTitle  = "guitex example"
)

func init() {
	// GLFW and raylib must run on the main thread.
	runtime.LockOSThread()
}

// options holds the command line flags shared by every backend.
type options struct {
	ConfigFile string
	LogLevel   string
	Dump       string
	Font       string
	FullScreen bool
}

func main() {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "example [glfw|ebiten|raylib]",
		Short: "Embed a ggkit GUI into a game window",
		Example: `  # GLFW + OpenGL with debug logging
  example --log-level debug

  # Ebitengine, recording every frame
  example ebiten --dump frames.gtxd

  # raylib with settings from a file
  example raylib --config guitex.toml`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWith(cmd, opts, runGLFW)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigFile, "config", "c", "", "TOML settings file")
	flags.StringVar(&opts.LogLevel, "log-level", "info", "log level: debug, info, warn or error")
	flags.StringVar(&opts.Dump, "dump", "", "record every GUI frame to this file")
	flags.StringVar(&opts.Font, "font", "", "TrueType font for GUI text")
	flags.BoolVar(&opts.FullScreen, "fullscreen", false, "start full screen")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "glfw",
			Short: "Run on GLFW and OpenGL 4.1",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runWith(cmd, opts, runGLFW)
			},
		},
		&cobra.Command{
			Use:   "ebiten",
			Short: "Run inside an Ebitengine game",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runWith(cmd, opts, runEbiten)
			},
		},
		&cobra.Command{
			Use:   "raylib",
			Short: "Run inside a raylib window",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runWith(cmd, opts, runRaylib)
			},
		},
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// app is what every backend needs to embed the GUI.
type app struct {
	log     *slog.Logger
	kit     *ggkit.Toolkit
	options []guitex.Option
	demo    *demo
}

// install negotiates with the engine and shows the demo scene.
func (a *app) install(ctx context.Context, engine guitex.Engine) (*guitex.Container, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	c, err := guitex.Install(ctx, engine, a.kit, a.options...)
	if err != nil {
		return nil, fmt.Errorf("install gui: %w", err)
	}
	c.SetScene(a.demo.scene)
	c.SetPassthrough(guitex.InputListenerFunc(a.demo.gameInput))
	a.log.Info("gui installed", "format", c.Format().Engine, "fullscreen", engine.FullScreen())
	return c, nil
}

type backend func(ctx context.Context, a *app, fullScreen bool) error

func runWith(cmd *cobra.Command, opts options, run backend) error {
	level, err := guitex.ParseLevel(opts.LogLevel)
	if err != nil {
		return err
	}

	var containerOpts []guitex.Option
	if opts.ConfigFile != "" {
		fc, err := guitex.LoadConfig(opts.ConfigFile)
		if err != nil {
			return err
		}
		if fc.LogLevel != "" && !cmd.Flags().Changed("log-level") {
			level, _ = guitex.ParseLevel(fc.LogLevel)
		}
		if opts.Dump == "" {
			opts.Dump = fc.FrameDump
		}
		containerOpts = fc.Options()
	}

	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	}))
	guitex.SetLogger(log)

	if opts.Dump != "" {
		rec, err := framedump.Create(opts.Dump)
		if err != nil {
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				log.Error("closing frame dump", "err", err)
			}
			log.Info("frame dump written", "path", opts.Dump, "frames", rec.Frames())
		}()
		containerOpts = append(containerOpts, guitex.WithFrameDump(rec))
	}

	kitOpts := []ggkit.Option{ggkit.WithLogger(log)}
	if opts.Font != "" {
		kitOpts = append(kitOpts, ggkit.WithFont(opts.Font, 14))
	}

	a := &app{
		log:     log,
		kit:     ggkit.New(kitOpts...),
		options: containerOpts,
		demo:    newDemo(),
	}
	return run(cmd.Context(), a, opts.FullScreen)
}
