// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpu defines the GPU API boundary used by the surface and
// renderer packages.
//
// The interfaces mirror an explicit, command-buffer based API: a Device
// creates libraries, pipeline states and command queues; a CommandQueue
// hands out one-shot CommandBuffers; a CommandBuffer opens
// RenderCommandEncoders over a RenderPassDescriptor and finally presents
// a Drawable and commits. A Layer owns the presentable drawables.
//
// The halgpu subpackage implements these interfaces on top of the
// gogpu/wgpu hardware abstraction layer.
//
// # Ownership
//
// Drawables and render-pass descriptors are owned by exactly one holder.
// Slot enforces release-before-replace:
//
//	var current gpu.Slot[gpu.Drawable]
//	current.Replace(layer.NextDrawable()) // releases the previous drawable
//	defer current.Release()
package gpu
