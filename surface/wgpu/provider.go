// Copyright 2026 The flutter-pdf-render Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package wgpu

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	pdfrender "github.com/Anglefish/flutter-pdf-render"
	"github.com/Anglefish/flutter-pdf-render/surface"
)

// Provider creates GPU textures on a wgpu HAL device.
//
// All textures created by the provider share its device and queue.
// Safe for concurrent use.
type Provider struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	// externalDevice is true when using a shared device (don't destroy on Close).
	externalDevice bool

	adapterName string
	nextID      atomic.Int64
}

var _ surface.Provider = (*Provider)(nil)

// NewProvider opens a standalone Vulkan device for texture upload.
// Prefer NewProviderWithHost when the host application already owns a
// device, so uploads land on the device the host composites with.
func NewProvider() (*Provider, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, ErrNoBackend
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
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
		return nil, fmt.Errorf("wgpu: open device: %w", err)
	}

	p := &Provider{
		instance:    instance,
		device:      openDev.Device,
		queue:       openDev.Queue,
		adapterName: selected.Info.Name,
	}
	p.nextID.Store(1)
	pdfrender.Logger().Info("wgpu: GPU device opened", "adapter", p.adapterName)
	return p, nil
}

// NewProviderWithHost adopts a shared GPU device from the host application.
// The handle must expose HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue. The shared device is not destroyed on Close.
func NewProviderWithHost(handle DeviceHandle) (*Provider, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := handle.(halProvider)
	if !ok {
		return nil, ErrNoHALAccess
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALAccess)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALAccess)
	}

	p := &Provider{
		device:         device,
		queue:          queue,
		externalDevice: true,
	}
	p.nextID.Store(1)
	pdfrender.Logger().Debug("wgpu: adopted shared GPU device")
	return p, nil
}

// CreateTexture allocates a new texture with no backing store.
func (p *Provider) CreateTexture() (surface.Texture, error) {
	return &texture{provider: p, id: p.nextID.Add(1) - 1}, nil
}

// AdapterName returns the selected GPU adapter name, or "" when running
// on a shared device.
func (p *Provider) AdapterName() string { return p.adapterName }

// Close destroys the device and instance when the provider owns them.
func (p *Provider) Close() error {
	if !p.externalDevice {
		if p.device != nil {
			p.device.Destroy()
			p.device = nil
		}
		if p.instance != nil {
			p.instance.Destroy()
			p.instance = nil
		}
	} else {
		// Don't destroy shared resources -- we don't own them.
		p.device = nil
		p.instance = nil
	}
	p.queue = nil
	return nil
}
