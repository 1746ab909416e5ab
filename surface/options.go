// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"github.com/gogpu/framelink/displaylink"
	"github.com/gogpu/framelink/geom"
	"github.com/gogpu/framelink/gpu"
	"github.com/gogpu/framelink/gpu/halgpu"
)

// LayerFactory creates the backing layer of a View.
type LayerFactory func() gpu.Layer

// Option configures a View during creation.
type Option func(*options)

type options struct {
	layerFactory LayerFactory
	display      displaylink.DisplayID
	registry     *displaylink.Registry
	device       gpu.Device
	clearColor   geom.ClearColor
}

func defaultOptions() options {
	return options{
		layerFactory: func() gpu.Layer { return halgpu.NewLayer() },
		display:      displaylink.MainDisplay,
		clearColor:   geom.OpaqueBlack,
	}
}

// WithLayerFactory replaces the default HAL layer.
func WithLayerFactory(f LayerFactory) Option {
	return func(o *options) {
		if f != nil {
			o.layerFactory = f
		}
	}
}

// WithDisplay binds the view's display link to display.
func WithDisplay(display displaylink.DisplayID) Option {
	return func(o *options) {
		o.display = display
	}
}

// WithDisplayRegistry selects the registry the display link is bound
// through.
func WithDisplayRegistry(r *displaylink.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithDevice sets the initial device.
func WithDevice(d gpu.Device) Option {
	return func(o *options) {
		o.device = d
	}
}

// WithClearColor sets the initial clear color. The default is opaque black.
func WithClearColor(c geom.ClearColor) Option {
	return func(o *options) {
		o.clearColor = c
	}
}
