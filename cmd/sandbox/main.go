package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/zeuscene/internal/app"
	"github.com/zeusync/zeuscene/internal/core/observability/log"
	"github.com/zeusync/zeuscene/internal/injector"
	"github.com/zeusync/zeuscene/internal/present/terminal"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		headless   = flag.Bool("headless", false, "run without a terminal and exit after -frames")
		frames     = flag.Int("frames", 600, "frames to simulate in headless mode")
		blocks     = flag.Int("blocks", 8, "blocks dropped at start")
		zoom       = flag.Float64("zoom", 2, "terminal cells per world unit")
	)
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rt, err := injector.InitializeRuntime(injector.ConfigPath(*configPath))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing runtime:", err)
		os.Exit(1)
	}

	if *headless {
		err = runHeadless(ctx, rt, *frames, *blocks)
	} else {
		err = runTerminal(ctx, rt, *blocks, *zoom)
	}
	if err != nil {
		rt.Logger.Error("sandbox stopped", log.Error(err))
		os.Exit(1)
	}
}

// runHeadless steps the playground at the configured interval as fast as
// possible and logs where every block came to rest.
func runHeadless(ctx context.Context, rt *injector.Runtime, frames, blocks int) error {
	pg, err := BuildPlayground(rt.Engine, blocks, nil, rt.Logger)
	if err != nil {
		return err
	}
	host := app.NewManualHost()
	a := app.New(host, rt.Engine, app.WithLogger(rt.Logger), app.WithObserver(rt.Inspector.Observer(rt.Engine.Scene())))
	if err = a.Run(); err != nil {
		return err
	}
	for i := 0; i < frames && ctx.Err() == nil; i++ {
		host.Advance(rt.Config.Frame.Interval)
	}
	if err = a.Stop(); err != nil {
		return err
	}

	for _, b := range pg.Blocks {
		rt.Logger.Info("block at rest",
			log.String("entity", b.Name()),
			log.Any("position", b.WorldPosition()))
	}
	rt.Logger.Info("headless run finished",
		log.Uint64("frames", a.Frames()),
		log.Int("impacts", pg.Impacts()),
		log.Int("lost", pg.Lost()))
	return nil
}

func runTerminal(ctx context.Context, rt *injector.Runtime, blocks int, zoom float64) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err = screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	// Log lines would scribble over the canvas.
	if rt.Logger.GetLevel() < log.LevelWarn {
		rt.Logger.SetLevel(log.LevelWarn)
	}

	keys := terminal.NewKeyboard()
	if _, err = BuildPlayground(rt.Engine, blocks, keys, rt.Logger); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	host := app.NewTickerHost(rt.Config.Frame.Interval)
	a := app.New(host, rt.Engine,
		app.WithLogger(rt.Logger),
		app.WithRenderer(terminal.NewRenderer(screen, zoom)),
		app.WithInput(keys),
		app.WithObserver(rt.Inspector.Observer(rt.Engine.Scene())),
	)
	if err = a.Run(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		terminal.Pump(gctx, screen, keys, cancel)
		return nil
	})
	g.Go(func() error {
		return ignoreCanceled(host.Run(gctx))
	})
	if rt.Config.Inspector.Enabled {
		g.Go(func() error {
			return rt.Inspector.Run(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		_ = a.Stop()
		return nil
	})

	started := time.Now()
	err = g.Wait()
	rt.Logger.Info("sandbox closed", log.Duration("uptime", time.Since(started)), log.Uint64("frames", a.Frames()))
	return err
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
