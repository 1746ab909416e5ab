// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package halgpu implements the gpu interfaces on the gogpu/wgpu hardware
// abstraction layer.
//
// # Device
//
// A Device wraps a hal.Device and its hal.Queue. It can open its own
// backend with Open, wrap an existing pair with NewDevice, or share the
// device of a host application through NewDeviceFromProvider:
//
//	dev, err := halgpu.Open(halgpu.BackendVulkan)
//	if err != nil {
//	    return err
//	}
//	defer dev.Close()
//
// # Shaders
//
// The default library is the embedded triangle.wgsl, compiled to SPIR-V
// with naga. It exports vertexShader and fragmentShader.
//
// # Vertex bytes
//
// WebGPU has no inline vertex constants. SetVertexBytes data is staged
// into per-submission buffers bound at group 0: index 0 as a read-only
// storage buffer and index 1 as a uniform buffer. The buffers are
// destroyed once the queue reports the submission completed.
//
// # Drawables
//
// Layer keeps a ring of MaximumDrawableCount render textures. A texture
// is reused only after its owner released the drawable and the GPU
// finished the last submission that presented it. When every texture is
// busy NextDrawable returns nil.
package halgpu
