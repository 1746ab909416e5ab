// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halgpu

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/framelink/gpu"
	"github.com/gogpu/framelink/internal/logx"
)

var (
	// ErrNoHAL is returned when a provider does not expose HAL types.
	ErrNoHAL = errors.New("halgpu: provider does not expose HAL device and queue")

	// ErrClosed is returned by operations on a closed device.
	ErrClosed = errors.New("halgpu: device closed")
)

// DefaultWaitTimeout bounds how long Close and WaitIdle wait for the GPU.
const DefaultWaitTimeout = 5 * time.Second

// Device implements gpu.Device on a HAL device and queue.
type Device struct {
	device hal.Device
	queue  hal.Queue
	name   string
	format gpu.PixelFormat

	// Set when the device was opened by Open and must be destroyed.
	instance hal.Instance
	owned    bool

	mu       sync.Mutex
	inflight []*submission
	closed   bool
	submits  uint64
	retired  uint64
}

// DeviceOption configures a Device.
type DeviceOption func(*Device)

// WithName sets the name reported by Name.
func WithName(name string) DeviceOption {
	return func(d *Device) {
		d.name = name
	}
}

// WithSurfaceFormat sets the preferred drawable format.
func WithSurfaceFormat(f gpu.PixelFormat) DeviceOption {
	return func(d *Device) {
		if f != gpu.PixelFormatInvalid {
			d.format = f
		}
	}
}

// NewDevice wraps an existing device and queue. The caller keeps
// ownership of both.
func NewDevice(device hal.Device, queue hal.Queue, opts ...DeviceOption) (*Device, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("halgpu: nil device or queue")
	}
	d := &Device{
		device: device,
		queue:  queue,
		name:   "hal",
		format: gpu.PixelFormatBGRA8Unorm,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// NewDeviceFromProvider shares the GPU device of a host application.
// The provider must also implement HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue. Its surface format becomes the
// preferred drawable format.
func NewDeviceFromProvider(provider gpucontext.DeviceProvider, opts ...DeviceOption) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}

	all := append([]DeviceOption{
		WithName("shared"),
		WithSurfaceFormat(provider.SurfaceFormat()),
	}, opts...)
	return NewDevice(device, queue, all...)
}

// Name implements gpu.Device.
func (d *Device) Name() string { return d.name }

// SurfaceFormat returns the preferred drawable format.
func (d *Device) SurfaceFormat() gpu.PixelFormat { return d.format }

// HalDevice returns the underlying HAL device.
func (d *Device) HalDevice() hal.Device { return d.device }

// HalQueue returns the underlying HAL queue.
func (d *Device) HalQueue() hal.Queue { return d.queue }

// NewDefaultLibrary implements gpu.Device. It compiles the embedded
// triangle shader.
func (d *Device) NewDefaultLibrary() (gpu.Library, error) {
	return d.NewLibrary("default_library", triangleShaderWGSL)
}

// NewLibrary compiles WGSL source into a library.
func (d *Device) NewLibrary(label, source string) (*Library, error) {
	if d.isClosed() {
		return nil, ErrClosed
	}
	return newLibrary(d, label, source)
}

// NewRenderPipelineState implements gpu.Device.
func (d *Device) NewRenderPipelineState(desc *gpu.RenderPipelineDescriptor) (gpu.RenderPipelineState, error) {
	if d.isClosed() {
		return nil, ErrClosed
	}
	return newPipelineState(d, desc)
}

// NewCommandQueue implements gpu.Device.
func (d *Device) NewCommandQueue() (gpu.CommandQueue, error) {
	if d.isClosed() {
		return nil, ErrClosed
	}
	return &CommandQueue{device: d}, nil
}

// Stats reports submission counters.
type Stats struct {
	Submits  uint64
	Retired  uint64
	InFlight int
}

// Stats returns submission counters.
func (d *Device) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Stats{Submits: d.submits, Retired: d.retired, InFlight: len(d.inflight)}
}

// Poll retires every submission the queue reports as completed.
func (d *Device) Poll() {
	d.retire(0)
}

// WaitIdle waits up to timeout for all in-flight submissions and
// retires them. It reports whether the GPU went idle.
func (d *Device) WaitIdle(timeout time.Duration) bool {
	d.retire(timeout)
	return d.Stats().InFlight == 0
}

// Close waits for in-flight work and, for devices created by Open,
// destroys the device and instance.
func (d *Device) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	if !d.WaitIdle(DefaultWaitTimeout) {
		logx.Logger().Warn("halgpu: closing with work in flight", "device", d.name)
	}
	if d.owned {
		d.device.Destroy()
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
}

func (d *Device) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *Device) track(s *submission) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inflight = append(d.inflight, s)
	d.submits++
}

// retirePollInterval is the sleep between completion polls in WaitIdle.
const retirePollInterval = time.Millisecond

// retire releases submissions the queue reports as completed. A zero
// timeout only polls once.
func (d *Device) retire(timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for {
		completed := d.queue.PollCompleted()

		d.mu.Lock()
		var done, keep []*submission
		for _, s := range d.inflight {
			if s.index <= completed {
				done = append(done, s)
			} else {
				keep = append(keep, s)
			}
		}
		d.inflight = keep
		d.retired += uint64(len(done))
		d.mu.Unlock()

		for _, s := range done {
			s.release()
		}
		if len(keep) == 0 || !time.Now().Before(deadline) {
			return
		}
		time.Sleep(retirePollInterval)
	}
}
