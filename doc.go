// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package framelink drives GPU rendering from display refresh.
//
// # Overview
//
// A display link fires once per display refresh. Its ticks are merged
// onto a single dispatch queue, so a slow frame coalesces the ticks that
// arrive while it runs. Each frame the view acquires a fresh drawable
// and render-pass descriptor and asks its delegate to draw. The
// renderer encodes one render pass, presents the drawable and commits.
//
//	display link -> dispatch source -> surface.View -> renderer.Renderer -> GPU
//
// # Quick Start
//
//	dev, err := halgpu.Open(halgpu.BackendNoop)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
//
//	app, err := framelink.NewApp(host, dev)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer app.Close()
//
// # Packages
//
//   - displaylink: refresh timer with a Stopped/Running/Paused state machine
//   - dispatch: serial queue and coalescing data source
//   - surface: presentable view owning the drawable and descriptor
//   - renderer: pipeline, command queue and per-frame encoding
//   - gpu: GPU interfaces; gpu/halgpu implements them on gogpu/wgpu
//   - geom: sizes, colors and vertex layout
//
// # Threading
//
// Everything a View and its Renderer do happens on the view's dispatch
// queue. Display link callbacks only merge counts into the source.
package framelink

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
