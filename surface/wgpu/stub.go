// Copyright 2026 The flutter-pdf-render Authors
// SPDX-License-Identifier: MIT

//go:build nogpu

package wgpu

import "github.com/Anglefish/flutter-pdf-render/surface"

// Provider is a placeholder when built with the nogpu tag. This allows
// code to compile without GPU support while callers fall back to the
// CPU-backed surface.ImageProvider.
type Provider struct{}

var _ surface.Provider = (*Provider)(nil)

// NewProvider returns ErrGPUDisabled under the nogpu tag.
func NewProvider() (*Provider, error) { return nil, ErrGPUDisabled }

// NewProviderWithHost returns ErrGPUDisabled under the nogpu tag.
func NewProviderWithHost(DeviceHandle) (*Provider, error) { return nil, ErrGPUDisabled }

// CreateTexture returns ErrGPUDisabled under the nogpu tag.
func (*Provider) CreateTexture() (surface.Texture, error) { return nil, ErrGPUDisabled }

// AdapterName returns "" under the nogpu tag.
func (*Provider) AdapterName() string { return "" }

// Close is a no-op under the nogpu tag.
func (*Provider) Close() error { return nil }
