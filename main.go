package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"mandelbrot/mandel"
	"mandelbrot/swatch"

	"github.com/alecthomas/kong"
	"github.com/google/gops/agent"
)

type cli struct {
	Verbose bool `short:"v" help:"Log debug messages"`
	Gops    bool `help:"Start the gops diagnostics agent while running"`

	Render  mandel.CLICmd `cmd:"" help:"Render the Mandelbrot set to an image file"`
	Palette swatch.CLICmd `cmd:"" help:"Inspect and export colour palettes"`
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func main() {
	var conf cli
	kctx := kong.Parse(&conf,
		kong.Name("mandelbrot"),
		kong.Description("Parallel Mandelbrot set renderer"),
		kong.UsageOnError(),
	)

	setupLogging(conf.Verbose)

	if conf.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			slog.Error("could not start gops agent", "error", err)
		} else {
			defer agent.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	kctx.BindTo(ctx, (*context.Context)(nil))

	if err := kctx.Run(); err != nil {
		slog.Error("failed", "command", kctx.Command(), "error", err)
		stop()
		agent.Close()
		os.Exit(1)
	}
}
