// Command framedemo renders the validation triangle on a headless host.
//
// It opens a HAL device, drives a view from a software display link and
// exits after the configured number of frames:
//
//	framedemo -config framedemo.yaml -frames 300 -backend vulkan
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/gogpu/framelink"
	"github.com/gogpu/framelink/displaylink"
	"github.com/gogpu/framelink/geom"
	"github.com/gogpu/framelink/gpu"
	"github.com/gogpu/framelink/gpu/halgpu"
	"github.com/gogpu/framelink/internal/config"
	"github.com/gogpu/framelink/surface"
)

// headlessHost is a fixed-size backing with no window behind it.
type headlessHost struct {
	size  geom.Size
	scale float64
}

func (h headlessHost) BackingSize() geom.Size      { return h.size.Scale(h.scale) }
func (h headlessHost) BackingScaleFactor() float64 { return h.scale }

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file")
		frames     = flag.Int("frames", -1, "frames to render (overrides config)")
		backend    = flag.String("backend", "", "noop or vulkan (overrides config)")
		refreshHz  = flag.Float64("hz", 0, "display refresh rate (overrides config)")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *frames >= 0 {
		cfg.Frames = *frames
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *refreshHz > 0 {
		cfg.RefreshHz = *refreshHz
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid flags: %v", err)
	}

	framelink.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.Logging.Level),
	})))

	if err := run(cfg); err != nil {
		log.Fatalf("framedemo: %v", err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func logLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func run(cfg *config.Config) error {
	dev, err := halgpu.Open(halgpu.Backend(cfg.Backend))
	if err != nil {
		return err
	}
	defer dev.Close()

	// The demo display backend outranks the default ticker so the
	// configured refresh rate is used.
	registry := displaylink.NewRegistry()
	registry.Register("demo", 100, func(displaylink.DisplayID) (displaylink.Link, error) {
		return displaylink.NewTickerLink(cfg.RefreshHz), nil
	}, nil)

	var presented atomic.Uint64
	layer := halgpu.NewLayer(halgpu.WithPresenter(func(*halgpu.Texture) {
		presented.Add(1)
	}))
	defer layer.Close()

	host := headlessHost{
		size:  geom.Size{Width: cfg.Window.Width, Height: cfg.Window.Height},
		scale: cfg.Window.Scale,
	}
	c := cfg.Clear
	app, err := framelink.NewApp(host, dev,
		surface.WithDisplayRegistry(registry),
		surface.WithLayerFactory(func() gpu.Layer { return layer }),
		surface.WithClearColor(geom.RGBA(c[0], c[1], c[2], c[3])),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	waitForFrames(ctx, app, uint64(cfg.Frames)) //nolint:gosec // validated non-negative
	app.Close()
	elapsed := time.Since(start)

	if !dev.WaitIdle(halgpu.DefaultWaitTimeout) {
		framelink.Logger().Warn("framedemo: GPU did not go idle")
	}

	st := app.Stats()
	fps := float64(st.Draws) / elapsed.Seconds()
	framelink.Logger().Info("framedemo: done",
		"frames", st.Frames,
		"draws", st.Draws,
		"missing_drawables", st.MissingDrawables,
		"presented", presented.Load(),
		"submits", dev.Stats().Submits,
		"elapsed", elapsed.Round(time.Millisecond),
		"fps", fps,
	)
	return nil
}

// waitForFrames blocks until the app drew n frames or ctx is done. Zero
// runs until interrupted.
func waitForFrames(ctx context.Context, app *framelink.App, n uint64) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n > 0 && app.Stats().Draws >= n {
				return
			}
		}
	}
}
