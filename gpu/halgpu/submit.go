// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/framelink/geom"
	"github.com/gogpu/framelink/gpu"
	"github.com/gogpu/framelink/internal/logx"
)

// uniformAlignment is the minimum size of a uniform binding.
const uniformAlignment = 16

// submission tracks the transient resources of one committed command
// buffer until the queue reports its index as completed.
type submission struct {
	device     *Device
	label      string
	encoder    hal.CommandEncoder
	cmd        hal.CommandBuffer
	index      uint64
	buffers    []hal.Buffer
	bindGroups []hal.BindGroup
	presents   []*Drawable
}

// submit encodes b and hands it to the queue.
func (d *Device) submit(b *CommandBuffer) error {
	s := &submission{device: d, label: b.label}

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: b.label})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	s.encoder = encoder
	if err := encoder.BeginEncoding(b.label); err != nil {
		encoder.DiscardEncoding()
		s.release()
		return fmt.Errorf("begin encoding: %w", err)
	}

	for _, p := range b.passes {
		if err := s.encodePass(encoder, p); err != nil {
			encoder.DiscardEncoding()
			s.release()
			return err
		}
	}

	cmd, err := encoder.EndEncoding()
	if err != nil {
		s.release()
		return fmt.Errorf("end encoding: %w", err)
	}
	s.cmd = cmd

	index, err := d.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		s.release()
		return fmt.Errorf("submit: %w", err)
	}
	s.index = index

	for _, dr := range b.presents {
		if dr.markPresented() {
			s.presents = append(s.presents, dr)
		}
	}
	d.track(s)
	return nil
}

func (s *submission) encodePass(encoder hal.CommandEncoder, p *renderPass) error {
	if p.target == nil || p.target.view == nil {
		logx.Logger().Debug("halgpu: render pass has no target, skipped", "label", p.label)
		return nil
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: p.label,
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       p.target.view,
			LoadOp:     loadOp(p.load),
			StoreOp:    storeOp(p.store),
			ClearValue: clearValue(p.clear),
		}},
	})

	for _, dc := range p.draws {
		if dc.pipeline.pipeline == nil {
			logx.Logger().Warn("halgpu: draw with released pipeline", "label", dc.pipeline.label)
			continue
		}
		if dc.pipeline.format != p.target.format {
			logx.Logger().Warn("halgpu: pipeline format does not match target",
				"pipeline", dc.pipeline.label)
			continue
		}
		v := dc.viewport
		if v.Width <= 0 || v.Height <= 0 {
			logx.Logger().Debug("halgpu: empty viewport, draw skipped")
			continue
		}

		bg, err := s.bindVertexBytes(dc)
		if err != nil {
			rp.End()
			return err
		}

		rp.SetViewport(float32(v.OriginX), float32(v.OriginY),
			float32(v.Width), float32(v.Height), float32(v.ZNear), float32(v.ZFar))
		rp.SetPipeline(dc.pipeline.pipeline)
		rp.SetBindGroup(0, bg, nil)
		rp.Draw(dc.count, 1, dc.start, 0)
	}

	rp.End()
	return nil
}

// bindVertexBytes stages the draw's vertex bytes into buffers and binds
// them at group 0.
func (s *submission) bindVertexBytes(dc drawCall) (hal.BindGroup, error) {
	if len(dc.vertices) == 0 || len(dc.viewportSize) == 0 {
		return nil, fmt.Errorf("draw is missing vertex bytes at index %d or %d",
			verticesBinding, viewportSizeBinding)
	}

	vertices := pad(dc.vertices, 4)
	uniform := pad(dc.viewportSize, uniformAlignment)

	vertBuf, err := s.upload("vertex bytes", vertices, gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	sizeBuf, err := s.upload("viewport size", uniform, gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}

	bg, err := s.device.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  s.label + " vertex bytes",
		Layout: dc.pipeline.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: verticesBinding, Resource: gputypes.BufferBinding{
				Buffer: vertBuf.NativeHandle(), Offset: 0, Size: uint64(len(vertices)),
			}},
			{Binding: viewportSizeBinding, Resource: gputypes.BufferBinding{
				Buffer: sizeBuf.NativeHandle(), Offset: 0, Size: uint64(len(uniform)),
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	s.bindGroups = append(s.bindGroups, bg)
	return bg, nil
}

func (s *submission) upload(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := s.device.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s buffer: %w", label, err)
	}
	s.buffers = append(s.buffers, buf)
	if err := s.device.queue.WriteBuffer(buf, 0, data); err != nil {
		return nil, fmt.Errorf("write %s buffer: %w", label, err)
	}
	return buf, nil
}

// release destroys transient resources and hands presented drawables
// back to their layer.
func (s *submission) release() {
	dev := s.device.device
	for _, bg := range s.bindGroups {
		dev.DestroyBindGroup(bg)
	}
	for _, buf := range s.buffers {
		dev.DestroyBuffer(buf)
	}
	if s.cmd != nil {
		dev.FreeCommandBuffer(s.cmd)
	}
	if s.encoder != nil {
		s.encoder.Destroy()
	}
	for _, dr := range s.presents {
		dr.completed()
	}
	*s = submission{device: s.device, label: s.label}
}

// pad returns data zero-extended to a multiple of align.
func pad(data []byte, align int) []byte {
	n := (len(data) + align - 1) / align * align
	if n == len(data) {
		return data
	}
	out := make([]byte, n)
	copy(out, data)
	return out
}

func loadOp(a gpu.LoadAction) gputypes.LoadOp {
	if a == gpu.LoadActionLoad {
		return gputypes.LoadOpLoad
	}
	return gputypes.LoadOpClear
}

func storeOp(a gpu.StoreAction) gputypes.StoreOp {
	if a == gpu.StoreActionStore {
		return gputypes.StoreOpStore
	}
	return gputypes.StoreOpDiscard
}

func clearValue(c geom.ClearColor) gputypes.Color {
	return gputypes.Color{R: c.Red, G: c.Green, B: c.Blue, A: c.Alpha}
}
