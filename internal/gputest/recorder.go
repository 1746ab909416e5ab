// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gputest provides in-memory implementations of the gpu
// interfaces that record every call, for use in tests.
package gputest

import (
	"errors"
	"slices"
	"sync"

	"github.com/gogpu/framelink/gpu"
)

// Call is one recorded GPU call.
type Call struct {
	Method string
	Args   []any
}

// Recorder is an append-only call log shared by all objects created
// from one Device.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

func (r *Recorder) record(method string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Method: method, Args: args})
}

// Calls returns a copy of the call log.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// Methods returns the method names of the call log in order.
func (r *Recorder) Methods() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.calls))
	for i, c := range r.calls {
		names[i] = c.Method
	}
	return names
}

// Find returns the first call named method.
func (r *Recorder) Find(method string) (Call, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.calls {
		if c.Method == method {
			return c, true
		}
	}
	return Call{}, false
}

// Len returns the number of recorded calls.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// Reset clears the call log.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// ErrInjected is the default error returned by failure switches.
var ErrInjected = errors.New("gputest: injected failure")

// Device is a recording gpu.Device. Its exported fields inject failures.
type Device struct {
	*Recorder

	// FailLibrary makes NewDefaultLibrary fail.
	FailLibrary bool

	// Functions lists the entry points the default library provides.
	Functions []string

	// FailPipeline makes NewRenderPipelineState fail.
	FailPipeline bool

	// FailQueue makes NewCommandQueue fail.
	FailQueue bool

	// NoCommandBuffer makes CommandQueue.CommandBuffer return nil.
	NoCommandBuffer bool

	// NoEncoder makes CommandBuffer.RenderCommandEncoder return nil.
	NoEncoder bool

	mu           sync.Mutex
	pipelineDesc *gpu.RenderPipelineDescriptor
}

// NewDevice returns a device whose library provides vertexShader and
// fragmentShader.
func NewDevice() *Device {
	return &Device{
		Recorder:  &Recorder{},
		Functions: []string{"vertexShader", "fragmentShader"},
	}
}

// Name implements gpu.Device.
func (d *Device) Name() string { return "gputest" }

// NewDefaultLibrary implements gpu.Device.
func (d *Device) NewDefaultLibrary() (gpu.Library, error) {
	d.record("NewDefaultLibrary")
	if d.FailLibrary {
		return nil, ErrInjected
	}
	return &Library{device: d}, nil
}

// NewRenderPipelineState implements gpu.Device.
func (d *Device) NewRenderPipelineState(desc *gpu.RenderPipelineDescriptor) (gpu.RenderPipelineState, error) {
	d.record("NewRenderPipelineState", desc.Label)
	if d.FailPipeline {
		return nil, ErrInjected
	}
	d.mu.Lock()
	d.pipelineDesc = desc
	d.mu.Unlock()
	return &PipelineState{device: d, label: desc.Label}, nil
}

// PipelineDescriptor returns the descriptor of the last created pipeline.
func (d *Device) PipelineDescriptor() *gpu.RenderPipelineDescriptor {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pipelineDesc
}

// NewCommandQueue implements gpu.Device.
func (d *Device) NewCommandQueue() (gpu.CommandQueue, error) {
	d.record("NewCommandQueue")
	if d.FailQueue {
		return nil, ErrInjected
	}
	return &CommandQueue{device: d}, nil
}

// Library is a recording gpu.Library.
type Library struct {
	device *Device
}

// NewFunction implements gpu.Library.
func (l *Library) NewFunction(name string) gpu.Function {
	l.device.record("NewFunction", name)
	if !slices.Contains(l.device.Functions, name) {
		return nil
	}
	return Function(name)
}

// Release implements gpu.Library.
func (l *Library) Release() { l.device.record("Library.Release") }

// Function is a named shader entry point.
type Function string

// Name implements gpu.Function.
func (f Function) Name() string { return string(f) }

// PipelineState is a recording gpu.RenderPipelineState.
type PipelineState struct {
	device *Device
	label  string
}

// Label implements gpu.RenderPipelineState.
func (p *PipelineState) Label() string { return p.label }

// Release implements gpu.RenderPipelineState.
func (p *PipelineState) Release() { p.device.record("PipelineState.Release") }

// CommandQueue is a recording gpu.CommandQueue.
type CommandQueue struct {
	device *Device
}

// CommandBuffer implements gpu.CommandQueue.
func (q *CommandQueue) CommandBuffer() gpu.CommandBuffer {
	q.device.record("CommandBuffer")
	if q.device.NoCommandBuffer {
		return nil
	}
	return &CommandBuffer{device: q.device}
}

// Release implements gpu.CommandQueue.
func (q *CommandQueue) Release() { q.device.record("CommandQueue.Release") }

// CommandBuffer is a recording gpu.CommandBuffer.
type CommandBuffer struct {
	device *Device
}

// SetLabel implements gpu.CommandBuffer.
func (b *CommandBuffer) SetLabel(label string) { b.device.record("CommandBuffer.SetLabel", label) }

// RenderCommandEncoder implements gpu.CommandBuffer.
func (b *CommandBuffer) RenderCommandEncoder(desc *gpu.RenderPassDescriptor) gpu.RenderCommandEncoder {
	b.device.record("RenderCommandEncoder", desc)
	if b.device.NoEncoder {
		return nil
	}
	return &Encoder{device: b.device}
}

// PresentDrawable implements gpu.CommandBuffer.
func (b *CommandBuffer) PresentDrawable(d gpu.Drawable) { b.device.record("PresentDrawable", d) }

// Commit implements gpu.CommandBuffer.
func (b *CommandBuffer) Commit() { b.device.record("Commit") }

// Encoder is a recording gpu.RenderCommandEncoder.
type Encoder struct {
	device *Device
}

// SetLabel implements gpu.RenderCommandEncoder.
func (e *Encoder) SetLabel(label string) { e.device.record("Encoder.SetLabel", label) }

// SetViewport implements gpu.RenderCommandEncoder.
func (e *Encoder) SetViewport(v gpu.Viewport) { e.device.record("SetViewport", v) }

// SetRenderPipelineState implements gpu.RenderCommandEncoder.
func (e *Encoder) SetRenderPipelineState(p gpu.RenderPipelineState) {
	e.device.record("SetRenderPipelineState", p)
}

// SetVertexBytes implements gpu.RenderCommandEncoder. The recorded
// arguments are a copy of data and the index.
func (e *Encoder) SetVertexBytes(data []byte, index int) {
	e.device.record("SetVertexBytes", slices.Clone(data), index)
}

// DrawPrimitives implements gpu.RenderCommandEncoder.
func (e *Encoder) DrawPrimitives(p gpu.PrimitiveType, vertexStart, vertexCount int) {
	e.device.record("DrawPrimitives", p, vertexStart, vertexCount)
}

// EndEncoding implements gpu.RenderCommandEncoder.
func (e *Encoder) EndEncoding() { e.device.record("EndEncoding") }
