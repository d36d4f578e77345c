// Copyright 2026 The flutter-pdf-render Authors
// SPDX-License-Identifier: MIT

// Package wgpu provides a GPU-backed surface provider on top of gogpu/wgpu.
//
// Each texture pairs a HAL texture with a CPU staging image. Draw writes
// into the staging image; Present uploads it with a single queue
// WriteTexture call.
//
// A Provider either owns a standalone Vulkan device (NewProvider) or
// adopts a shared device from a host application (NewProviderWithHost).
// Shared devices are never destroyed on Close.
//
// Built with the nogpu tag, the constructors return ErrGPUDisabled.
package wgpu

import (
	"errors"

	"github.com/gogpu/gpucontext"
)

// DeviceHandle provides GPU device access from the host application.
//
// The host (e.g. a gogpu.App) implements DeviceHandle and passes it to
// NewProviderWithHost, so textures are created on the device the host
// already composites with. DeviceHandle is an alias for
// gpucontext.DeviceProvider to stay compatible with the gpucontext
// ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// Package errors.
var (
	// ErrGPUDisabled is returned by the constructors when built with the
	// nogpu tag.
	ErrGPUDisabled = errors.New("wgpu: built with nogpu tag")

	// ErrNoBackend is returned when the Vulkan backend is not available.
	ErrNoBackend = errors.New("wgpu: vulkan backend not available")

	// ErrNoAdapter is returned when no GPU adapter is found.
	ErrNoAdapter = errors.New("wgpu: no GPU adapters found")

	// ErrNoHALAccess is returned when a device handle does not expose the
	// underlying HAL device and queue.
	ErrNoHALAccess = errors.New("wgpu: device handle does not expose HAL types")
)
