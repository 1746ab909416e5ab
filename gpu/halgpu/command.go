// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halgpu

import (
	"github.com/gogpu/framelink/geom"
	"github.com/gogpu/framelink/gpu"
	"github.com/gogpu/framelink/internal/logx"
)

// CommandQueue implements gpu.CommandQueue.
type CommandQueue struct {
	device *Device
}

// CommandBuffer implements gpu.CommandQueue. It returns nil once the
// device is closed.
func (q *CommandQueue) CommandBuffer() gpu.CommandBuffer {
	if q.device.isClosed() {
		return nil
	}
	return &CommandBuffer{device: q.device}
}

// Release implements gpu.CommandQueue. It retires finished submissions.
func (q *CommandQueue) Release() {
	q.device.Poll()
}

// CommandBuffer implements gpu.CommandBuffer. Passes are recorded in
// memory and encoded into a HAL command buffer on Commit.
type CommandBuffer struct {
	device    *Device
	label     string
	passes    []*renderPass
	presents  []*Drawable
	committed bool
}

type renderPass struct {
	label  string
	target *Texture
	load   gpu.LoadAction
	store  gpu.StoreAction
	clear  geom.ClearColor
	draws  []drawCall
}

type drawCall struct {
	viewport     gpu.Viewport
	pipeline     *PipelineState
	vertices     []byte
	viewportSize []byte
	start, count uint32
}

// SetLabel implements gpu.CommandBuffer.
func (b *CommandBuffer) SetLabel(label string) { b.label = label }

// Label returns the debug label.
func (b *CommandBuffer) Label() string { return b.label }

// RenderCommandEncoder implements gpu.CommandBuffer. Color attachment 0
// of desc must be a texture from a halgpu Layer; passes without one are
// recorded but not encoded.
func (b *CommandBuffer) RenderCommandEncoder(desc *gpu.RenderPassDescriptor) gpu.RenderCommandEncoder {
	if b.committed || desc == nil {
		return nil
	}
	a := desc.ColorAttachments[0]
	p := &renderPass{
		load:  a.LoadAction,
		store: a.StoreAction,
		clear: a.ClearColor,
	}
	if a.Texture != nil {
		tex, ok := a.Texture.(*Texture)
		if !ok {
			logx.Logger().Warn("halgpu: foreign texture in render pass", "type", a.Texture)
		}
		p.target = tex
	}
	b.passes = append(b.passes, p)
	return &RenderEncoder{pass: p, bytes: make(map[int][]byte, 2)}
}

// PresentDrawable implements gpu.CommandBuffer.
func (b *CommandBuffer) PresentDrawable(d gpu.Drawable) {
	if b.committed {
		return
	}
	hd, ok := d.(*Drawable)
	if !ok || hd == nil {
		logx.Logger().Warn("halgpu: cannot present foreign drawable")
		return
	}
	b.presents = append(b.presents, hd)
}

// Commit implements gpu.CommandBuffer. Submission errors are logged;
// the frame is dropped.
func (b *CommandBuffer) Commit() {
	if b.committed {
		logx.Logger().Warn("halgpu: command buffer committed twice", "label", b.label)
		return
	}
	b.committed = true

	b.device.Poll()
	if err := b.device.submit(b); err != nil {
		logx.Logger().Warn("halgpu: submit failed", "label", b.label, "err", err)
	}
}

// RenderEncoder implements gpu.RenderCommandEncoder.
type RenderEncoder struct {
	pass     *renderPass
	viewport gpu.Viewport
	pipeline *PipelineState
	bytes    map[int][]byte
	ended    bool
}

// SetLabel implements gpu.RenderCommandEncoder.
func (e *RenderEncoder) SetLabel(label string) { e.pass.label = label }

// SetViewport implements gpu.RenderCommandEncoder.
func (e *RenderEncoder) SetViewport(v gpu.Viewport) { e.viewport = v }

// SetRenderPipelineState implements gpu.RenderCommandEncoder.
func (e *RenderEncoder) SetRenderPipelineState(p gpu.RenderPipelineState) {
	ps, ok := p.(*PipelineState)
	if !ok {
		logx.Logger().Warn("halgpu: foreign pipeline state ignored")
		return
	}
	e.pipeline = ps
}

// SetVertexBytes implements gpu.RenderCommandEncoder. Only the vertex
// and viewport-size indices are bound.
func (e *RenderEncoder) SetVertexBytes(data []byte, index int) {
	if index != verticesBinding && index != viewportSizeBinding {
		logx.Logger().Warn("halgpu: vertex bytes index not bound by pipeline", "index", index)
		return
	}
	e.bytes[index] = append([]byte(nil), data...)
}

// DrawPrimitives implements gpu.RenderCommandEncoder. Pipelines are built
// for triangle lists; other primitive types are dropped.
func (e *RenderEncoder) DrawPrimitives(p gpu.PrimitiveType, vertexStart, vertexCount int) {
	switch {
	case e.ended:
		logx.Logger().Warn("halgpu: draw after EndEncoding")
		return
	case p != gpu.PrimitiveTypeTriangle:
		logx.Logger().Warn("halgpu: unsupported primitive type", "type", p)
		return
	case e.pipeline == nil:
		logx.Logger().Warn("halgpu: draw without pipeline state")
		return
	case vertexStart < 0 || vertexCount <= 0:
		return
	}
	e.pass.draws = append(e.pass.draws, drawCall{
		viewport:     e.viewport,
		pipeline:     e.pipeline,
		vertices:     e.bytes[verticesBinding],
		viewportSize: e.bytes[viewportSizeBinding],
		start:        uint32(vertexStart), //nolint:gosec // checked non-negative
		count:        uint32(vertexCount), //nolint:gosec // checked positive
	})
}

// EndEncoding implements gpu.RenderCommandEncoder.
func (e *RenderEncoder) EndEncoding() { e.ended = true }
