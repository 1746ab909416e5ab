// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/framelink/internal/logx"
)

// Backend selects the HAL backend opened by Open.
type Backend string

// Supported backends.
const (
	// BackendNoop never touches a GPU. It backs tests and headless runs.
	BackendNoop Backend = "noop"

	// BackendVulkan opens the first discrete or integrated Vulkan adapter.
	BackendVulkan Backend = "vulkan"
)

type instanceCreator interface {
	CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error)
}

// Open creates an instance of backend, selects an adapter and opens a
// device on it. The returned Device owns the instance and device.
func Open(backend Backend, opts ...DeviceOption) (*Device, error) {
	var creator instanceCreator
	switch backend {
	case BackendNoop, "":
		creator = &noop.API{}
	case BackendVulkan:
		b, ok := hal.GetBackend(gputypes.BackendVulkan)
		if !ok {
			return nil, fmt.Errorf("halgpu: vulkan backend not available")
		}
		creator = b
	default:
		return nil, fmt.Errorf("halgpu: unknown backend %q", backend)
	}

	instance, err := creator.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("halgpu: no GPU adapters found")
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("halgpu: open device: %w", err)
	}

	name := selected.Info.Name
	if name == "" {
		name = string(backend)
	}
	all := append([]DeviceOption{WithName(name)}, opts...)
	d, err := NewDevice(openDev.Device, openDev.Queue, all...)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	d.instance = instance
	d.owned = true

	logx.Logger().Info("halgpu: device opened", "backend", backend, "adapter", name)
	return d, nil
}
