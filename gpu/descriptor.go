// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"sync/atomic"

	"github.com/gogpu/framelink/geom"
)

// MaxColorAttachments is the number of color attachment slots in pass
// and pipeline descriptors.
const MaxColorAttachments = 8

// LoadAction selects how an attachment is initialized at pass start.
type LoadAction int

// Load actions.
const (
	LoadActionDontCare LoadAction = iota
	LoadActionLoad
	LoadActionClear
)

// StoreAction selects what happens to an attachment at pass end.
type StoreAction int

// Store actions.
const (
	StoreActionDontCare StoreAction = iota
	StoreActionStore
)

// RenderPassColorAttachment describes one color target of a pass.
type RenderPassColorAttachment struct {
	Texture     Texture
	LoadAction  LoadAction
	StoreAction StoreAction
	ClearColor  geom.ClearColor
}

// RenderPassDescriptor describes the render targets of one pass.
//
// Descriptors are created per frame with NewRenderPassDescriptor and
// must be released exactly once.
type RenderPassDescriptor struct {
	ColorAttachments [MaxColorAttachments]RenderPassColorAttachment

	released atomic.Bool
}

var liveDescriptors atomic.Int64

// NewRenderPassDescriptor returns an empty descriptor.
func NewRenderPassDescriptor() *RenderPassDescriptor {
	liveDescriptors.Add(1)
	return &RenderPassDescriptor{}
}

// Release drops the attachment references. Extra calls are no-ops.
func (d *RenderPassDescriptor) Release() {
	if d == nil || !d.released.CompareAndSwap(false, true) {
		return
	}
	d.ColorAttachments = [MaxColorAttachments]RenderPassColorAttachment{}
	liveDescriptors.Add(-1)
}

// Released reports whether Release has been called.
func (d *RenderPassDescriptor) Released() bool {
	return d.released.Load()
}

// LiveRenderPassDescriptors returns the number of descriptors created
// and not yet released, process wide.
func LiveRenderPassDescriptors() int64 {
	return liveDescriptors.Load()
}

// RenderPipelineColorAttachment describes a pipeline color output.
type RenderPipelineColorAttachment struct {
	PixelFormat PixelFormat
}

// RenderPipelineDescriptor configures NewRenderPipelineState.
type RenderPipelineDescriptor struct {
	Label            string
	VertexFunction   Function
	FragmentFunction Function
	ColorAttachments [MaxColorAttachments]RenderPipelineColorAttachment
}
