// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package displaylink

// Option configures a DisplayLink.
type Option func(*options)

type options struct {
	display  DisplayID
	registry *Registry
}

func defaultOptions() options {
	return options{
		display:  MainDisplay,
		registry: globalRegistry,
	}
}

// WithDisplay binds the link to display instead of MainDisplay.
func WithDisplay(display DisplayID) Option {
	return func(o *options) {
		o.display = display
	}
}

// WithRegistry selects the registry used to bind the display.
// Nil keeps the global registry.
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}
