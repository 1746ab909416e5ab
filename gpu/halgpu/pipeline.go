// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/framelink/gpu"
	"github.com/gogpu/framelink/internal/logx"
)

// ErrInvalidPipeline is returned for descriptors the backend cannot build.
var ErrInvalidPipeline = errors.New("halgpu: invalid render pipeline descriptor")

// Argument bindings for SetVertexBytes, by index.
const (
	verticesBinding     = gpu.VertexInputIndexVertices
	viewportSizeBinding = gpu.VertexInputIndexViewportSize
)

// PipelineState implements gpu.RenderPipelineState. It owns the bind
// group layout used for vertex bytes.
type PipelineState struct {
	device     *Device
	label      string
	format     gpu.PixelFormat
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
}

func newPipelineState(d *Device, desc *gpu.RenderPipelineDescriptor) (*PipelineState, error) {
	if desc == nil {
		return nil, fmt.Errorf("%w: nil descriptor", ErrInvalidPipeline)
	}
	vs, ok := desc.VertexFunction.(*Function)
	if !ok || vs == nil || vs.stage != StageVertex || vs.library.module == nil {
		return nil, fmt.Errorf("%w: vertex function is not a live vertex entry point", ErrInvalidPipeline)
	}
	fs, ok := desc.FragmentFunction.(*Function)
	if !ok || fs == nil || fs.stage != StageFragment || fs.library.module == nil {
		return nil, fmt.Errorf("%w: fragment function is not a live fragment entry point", ErrInvalidPipeline)
	}
	format := desc.ColorAttachments[0].PixelFormat
	if format == gpu.PixelFormatInvalid {
		return nil, fmt.Errorf("%w: color attachment 0 has no pixel format", ErrInvalidPipeline)
	}

	p := &PipelineState{device: d, label: desc.Label, format: format}

	bindLayout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: desc.Label + " vertex bytes",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    verticesBinding,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
			},
			{
				Binding:    viewportSizeBinding,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            desc.Label + " layout",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("halgpu: create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	pipeline, err := d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: pipeLayout,
		Vertex: hal.VertexState{
			Module:     vs.library.module,
			EntryPoint: vs.name,
		},
		Fragment: &hal.FragmentState{
			Module:     fs.library.module,
			EntryPoint: fs.name,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("halgpu: create render pipeline %q: %w", desc.Label, err)
	}
	p.pipeline = pipeline

	logx.Logger().Debug("halgpu: pipeline created", "label", desc.Label)
	return p, nil
}

// Label implements gpu.RenderPipelineState.
func (p *PipelineState) Label() string { return p.label }

// PixelFormat returns the color attachment format the pipeline targets.
func (p *PipelineState) PixelFormat() gpu.PixelFormat { return p.format }

// Release implements gpu.RenderPipelineState. Resources are destroyed in
// reverse creation order.
func (p *PipelineState) Release() {
	dev := p.device.device
	if p.pipeline != nil {
		dev.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		dev.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		dev.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
}
