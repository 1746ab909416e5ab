// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package renderer_test

import (
	"testing"

	"github.com/gogpu/framelink/dispatch"
	"github.com/gogpu/framelink/displaylink"
	"github.com/gogpu/framelink/geom"
	"github.com/gogpu/framelink/gpu"
	"github.com/gogpu/framelink/internal/gputest"
	"github.com/gogpu/framelink/renderer"
	"github.com/gogpu/framelink/surface"
)

type staticHost struct{ size geom.Size }

func (h *staticHost) BackingSize() geom.Size      { return h.size }
func (h *staticHost) BackingScaleFactor() float64 { return 1 }

// idleLink never fires; frames are driven through the view directly.
type idleLink struct{}

func (idleLink) SetOutputCallback(displaylink.OutputCallback) error { return nil }
func (idleLink) Start() error                                       { return nil }
func (idleLink) Stop() error                                        { return nil }

func TestRendererDrawsIntoView(t *testing.T) {
	q := dispatch.NewQueue("test.integration")
	defer q.Close()

	reg := displaylink.NewRegistry()
	reg.Register("idle", 1, func(displaylink.DisplayID) (displaylink.Link, error) {
		return idleLink{}, nil
	}, nil)

	dev := gputest.NewDevice()
	layer := gputest.NewLayer()
	host := &staticHost{size: geom.Size{Width: 300, Height: 200}}

	view, err := surface.New(host, q,
		surface.WithDisplayRegistry(reg),
		surface.WithLayerFactory(func() gpu.Layer { return layer }),
		surface.WithDevice(dev),
	)
	if err != nil {
		t.Fatalf("surface.New: %v", err)
	}

	r, err := renderer.New(view)
	if err != nil {
		t.Fatalf("renderer.New: %v", err)
	}
	defer r.Release()

	q.Sync(func() { view.SetDelegate(r) })
	if got := r.ViewportSize(); got != (geom.Uint2{X: 300, Y: 200}) {
		t.Fatalf("initial viewport = %v", got)
	}

	host.size = geom.Size{Width: 1280, Height: 720}
	dev.Reset()
	for range 3 {
		q.Sync(func() { view.DisplayLinkDidFire(displaylink.FrameEvent{Ticks: 1}) })
	}

	if got := r.ViewportSize(); got != (geom.Uint2{X: 1280, Y: 720}) {
		t.Errorf("viewport after resize = %v, want (1280,720)", got)
	}
	commits, presents := 0, 0
	for _, m := range dev.Methods() {
		switch m {
		case "Commit":
			commits++
		case "PresentDrawable":
			presents++
		}
	}
	if commits != 3 || presents != 3 {
		t.Errorf("commits=%d presents=%d, want 3 each", commits, presents)
	}
	if got := layer.LiveDrawables(); got != 1 {
		t.Errorf("live drawables = %d, want 1", got)
	}

	q.Sync(view.Close)
	if got := layer.LiveDrawables(); got != 0 {
		t.Errorf("live drawables after Close = %d, want 0", got)
	}
}
