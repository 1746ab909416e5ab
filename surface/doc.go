// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package surface provides View, a presentable GPU surface driven by a
// display link.
//
// A View owns the GPU device handle, the layer that vends drawables, the
// drawable and render-pass descriptor of the current frame, and the
// drawable size. On every frame event it:
//
//  1. recomputes the drawable size from its Host and applies it,
//     notifying the Delegate if it changed
//  2. builds a fresh render-pass descriptor
//  3. acquires the next drawable from the layer
//  4. points color attachment 0 at the drawable, clearing to the view's
//     clear color
//  5. asks the Delegate to draw
//
// The previous frame's drawable and descriptor are released when the new
// ones are stored, so a View never holds more than one of each.
//
// # Threading
//
// View is confined to the dispatch queue passed to New. Frame events are
// delivered on that queue; host calls must be made on it too, for
// example through Queue().Sync. Stats may be read from any goroutine.
//
// # Usage
//
//	q := dispatch.NewQueue("main")
//	view, err := surface.New(host, q, surface.WithDevice(device))
//	if err != nil {
//	    return err
//	}
//	defer view.Close()
//
//	r, err := renderer.New(view)
//	if err != nil {
//	    return err
//	}
//	q.Sync(func() { view.SetDelegate(r) }) // starts the display link
package surface
