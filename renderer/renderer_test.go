// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package renderer

import (
	"bytes"
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/framelink/geom"
	"github.com/gogpu/framelink/gpu"
	"github.com/gogpu/framelink/internal/gputest"
)

type fakeView struct {
	device   gpu.Device
	format   gpu.PixelFormat
	size     geom.Size
	desc     *gpu.RenderPassDescriptor
	drawable gpu.Drawable
}

func (v *fakeView) Device() gpu.Device                                     { return v.device }
func (v *fakeView) ColorPixelFormat() gpu.PixelFormat                      { return v.format }
func (v *fakeView) DrawableSize() geom.Size                                { return v.size }
func (v *fakeView) CurrentRenderPassDescriptor() *gpu.RenderPassDescriptor { return v.desc }
func (v *fakeView) CurrentDrawable() gpu.Drawable                          { return v.drawable }

func newFakeView(dev *gputest.Device) *fakeView {
	return &fakeView{device: dev, format: gpu.PixelFormatBGRA8Unorm}
}

func TestNewBuildsPipeline(t *testing.T) {
	dev := gputest.NewDevice()
	v := newFakeView(dev)
	v.size = geom.Size{Width: 640.9, Height: 480}

	r, err := New(v)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Release()

	want := []string{
		"NewDefaultLibrary",
		"NewFunction",
		"NewFunction",
		"NewRenderPipelineState",
		"NewCommandQueue",
		"Library.Release",
	}
	if got := dev.Methods(); !slices.Equal(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}

	desc := dev.PipelineDescriptor()
	if desc.Label != PipelineLabel {
		t.Errorf("pipeline label = %q, want %q", desc.Label, PipelineLabel)
	}
	if desc.VertexFunction.Name() != VertexFunctionName || desc.FragmentFunction.Name() != FragmentFunctionName {
		t.Errorf("functions = %q/%q", desc.VertexFunction.Name(), desc.FragmentFunction.Name())
	}
	if desc.ColorAttachments[0].PixelFormat != gpu.PixelFormatBGRA8Unorm {
		t.Errorf("color attachment format = %v, want BGRA8Unorm", desc.ColorAttachments[0].PixelFormat)
	}
	if got := r.ViewportSize(); got != (geom.Uint2{X: 640, Y: 480}) {
		t.Errorf("ViewportSize() = %v, want (640,480)", got)
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(d *gputest.Device, v *fakeView)
		wantErr error
	}{
		{"no device", func(_ *gputest.Device, v *fakeView) { v.device = nil }, ErrFailedToInit},
		{"no library", func(d *gputest.Device, _ *fakeView) { d.FailLibrary = true }, ErrFailedToInit},
		{"no vertex function", func(d *gputest.Device, _ *fakeView) { d.Functions = []string{FragmentFunctionName} }, ErrFailedToInit},
		{"no fragment function", func(d *gputest.Device, _ *fakeView) { d.Functions = []string{VertexFunctionName} }, ErrFailedToInit},
		{"pipeline rejected", func(d *gputest.Device, _ *fakeView) { d.FailPipeline = true }, ErrUnableToSetPipelineState},
		{"no command queue", func(d *gputest.Device, _ *fakeView) { d.FailQueue = true }, ErrFailedToInit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := gputest.NewDevice()
			v := newFakeView(dev)
			tt.setup(dev, v)

			r, err := New(v)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if r != nil {
				t.Error("renderer returned on error")
			}
		})
	}
}

func TestNewPipelineErrorWrapsCause(t *testing.T) {
	dev := gputest.NewDevice()
	dev.FailPipeline = true
	_, err := New(newFakeView(dev))
	if !errors.Is(err, gputest.ErrInjected) {
		t.Errorf("err = %v, want wrapped device error", err)
	}
}

func TestNewQueueErrorReleasesPipeline(t *testing.T) {
	dev := gputest.NewDevice()
	dev.FailQueue = true
	if _, err := New(newFakeView(dev)); err == nil {
		t.Fatal("New succeeded")
	}
	if _, ok := dev.Find("PipelineState.Release"); !ok {
		t.Error("pipeline not released after queue failure")
	}
}

func TestDrawWithoutDescriptorIssuesNoCalls(t *testing.T) {
	dev := gputest.NewDevice()
	v := newFakeView(dev)
	r, err := New(v)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dev.Reset()

	r.Draw()

	if n := dev.Len(); n != 0 {
		t.Errorf("Draw issued %d GPU calls, want 0: %v", n, dev.Methods())
	}
}

func TestDrawableSizeWillChangeIssuesNoCalls(t *testing.T) {
	dev := gputest.NewDevice()
	r, err := New(newFakeView(dev))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dev.Reset()

	r.DrawableSizeWillChange(geom.Size{Width: 1023.99, Height: 767.5})

	if n := dev.Len(); n != 0 {
		t.Errorf("DrawableSizeWillChange issued %d GPU calls", n)
	}
	if got := r.ViewportSize(); got != (geom.Uint2{X: 1023, Y: 767}) {
		t.Errorf("ViewportSize() = %v, want (1023,767)", got)
	}
}

func TestDrawEndToEnd(t *testing.T) {
	dev := gputest.NewDevice()
	layer := gputest.NewLayer()
	layer.SetDrawableSize(geom.Size{Width: 300, Height: 200})

	v := newFakeView(dev)
	v.desc = gpu.NewRenderPassDescriptor()
	defer v.desc.Release()
	v.drawable = layer.NextDrawable()
	defer v.drawable.Release()

	r, err := New(v)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.DrawableSizeWillChange(geom.Size{Width: 300, Height: 200})
	dev.Reset()

	r.Draw()

	want := []string{
		"CommandBuffer",
		"CommandBuffer.SetLabel",
		"RenderCommandEncoder",
		"Encoder.SetLabel",
		"SetViewport",
		"SetRenderPipelineState",
		"SetVertexBytes",
		"SetVertexBytes",
		"DrawPrimitives",
		"EndEncoding",
		"PresentDrawable",
		"Commit",
	}
	calls := dev.Calls()
	if got := dev.Methods(); !slices.Equal(got, want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}

	if got := calls[1].Args[0]; got != CommandBufferLabel {
		t.Errorf("command buffer label = %v", got)
	}
	if got := calls[2].Args[0]; got != v.desc {
		t.Error("encoder not opened on the view's descriptor")
	}
	if got := calls[4].Args[0].(gpu.Viewport); got != (gpu.Viewport{Width: 300, Height: 200, ZFar: 1}) {
		t.Errorf("viewport = %+v", got)
	}

	tri := geom.TriangleVertices()
	if got := calls[6].Args; !bytes.Equal(got[0].([]byte), geom.VerticesBytes(tri[:])) || got[1] != gpu.VertexInputIndexVertices {
		t.Errorf("vertex bytes call = %v", got)
	}
	wantVP := []byte{44, 1, 0, 0, 200, 0, 0, 0}
	if got := calls[7].Args; !bytes.Equal(got[0].([]byte), wantVP) || got[1] != gpu.VertexInputIndexViewportSize {
		t.Errorf("viewport bytes call = %v, want %v at index 1", got, wantVP)
	}
	if got := calls[8].Args; got[0] != gpu.PrimitiveTypeTriangle || got[1] != 0 || got[2] != 3 {
		t.Errorf("draw call = %v, want Triangle 0 3", got)
	}
	if got := calls[10].Args[0]; got != v.drawable {
		t.Error("presented drawable is not the view's drawable")
	}
}

func TestDrawWithoutDrawableCommits(t *testing.T) {
	dev := gputest.NewDevice()
	v := newFakeView(dev)
	v.desc = gpu.NewRenderPassDescriptor()
	defer v.desc.Release()

	r, err := New(v)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dev.Reset()
	r.Draw()

	if _, ok := dev.Find("PresentDrawable"); ok {
		t.Error("presented without a drawable")
	}
	methods := dev.Methods()
	if len(methods) == 0 || methods[len(methods)-1] != "Commit" {
		t.Errorf("calls = %v, want trailing Commit", methods)
	}
}

func TestDrawWithoutCommandBuffer(t *testing.T) {
	dev := gputest.NewDevice()
	v := newFakeView(dev)
	v.desc = gpu.NewRenderPassDescriptor()
	defer v.desc.Release()

	r, err := New(v)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dev.NoCommandBuffer = true
	dev.Reset()
	r.Draw()

	if got := dev.Methods(); !slices.Equal(got, []string{"CommandBuffer"}) {
		t.Errorf("calls = %v, want [CommandBuffer]", got)
	}
}

func TestDrawWithoutEncoderStillCommits(t *testing.T) {
	dev := gputest.NewDevice()
	v := newFakeView(dev)
	v.desc = gpu.NewRenderPassDescriptor()
	defer v.desc.Release()

	r, err := New(v)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Release()
	dev.NoEncoder = true
	dev.Reset()
	r.Draw()

	want := []string{"CommandBuffer", "CommandBuffer.SetLabel", "RenderCommandEncoder", "Commit"}
	if got := dev.Methods(); !slices.Equal(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestReleaseStopsDrawing(t *testing.T) {
	dev := gputest.NewDevice()
	v := newFakeView(dev)
	v.desc = gpu.NewRenderPassDescriptor()
	defer v.desc.Release()

	r, err := New(v)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.Release()
	r.Release()

	if got := dev.Methods(); !slices.Contains(got, "CommandQueue.Release") || !slices.Contains(got, "PipelineState.Release") {
		t.Errorf("calls = %v, want queue and pipeline released", got)
	}
	dev.Reset()
	r.Draw()
	if n := dev.Len(); n != 0 {
		t.Errorf("Draw after Release issued %d calls", n)
	}
}
