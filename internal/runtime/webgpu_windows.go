//go:build windows

// Package runtime: WebGPU-backed Handle. Gated the same way the teacher
// gates its own GPU backend (internal/backend/webgpu is windows-only in
// this revision of go-webgpu/goffi) — this is not a core-semantics
// decision, it mirrors the dependency's own portability story.
package runtime

import (
	"fmt"

	"github.com/go-webgpu/webgpu/wgpu"
)

// WebGPURuntime allocates the graph's single buffer as one GPU storage
// buffer instead of a heap slice. Blob.Base holds the *wgpu.Buffer; a
// kernel collaborator resolves it with ResolveWebGPU.
type WebGPURuntime struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	buffer   *wgpu.Buffer
}

// NewWebGPU requests a high-performance GPU adapter and device, following
// the instance/adapter/device part of the sequence in
// internal/backend/webgpu.New in the teacher framework; no queue is
// requested.
func NewWebGPU() (rt *WebGPURuntime, err error) {
	defer func() {
		if r := recover(); r != nil {
			rt = nil
			err = fmt.Errorf("runtime: webgpu native library not available: %v", r)
		}
	}()

	instance := wgpu.CreateInstance(nil)
	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return nil, fmt.Errorf("runtime: failed to request adapter: %w", adapterErr)
	}

	device, deviceErr := adapter.RequestDevice(nil)
	if deviceErr != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("runtime: failed to request device: %w", deviceErr)
	}

	return &WebGPURuntime{instance: instance, adapter: adapter, device: device}, nil
}

// Alloc creates one GPU storage buffer of nBytes, usable as both a compute
// shader storage target and a copy source/destination.
func (w *WebGPURuntime) Alloc(nBytes int64) (RawPtr, error) {
	buf, err := w.device.CreateBuffer(&wgpu.BufferDescriptor{
		Size:  uint64(nBytes),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("runtime: webgpu buffer alloc: %w", err)
	}
	w.buffer = buf
	return buf, nil
}

// Dealloc releases the GPU buffer.
func (w *WebGPURuntime) Dealloc(ptr RawPtr) {
	if buf, ok := ptr.(*wgpu.Buffer); ok && buf != nil {
		buf.Release()
	}
	w.buffer = nil
}

// Release tears down the device/adapter/instance chain.
func (w *WebGPURuntime) Release() {
	if w.device != nil {
		w.device.Release()
	}
	if w.adapter != nil {
		w.adapter.Release()
	}
	if w.instance != nil {
		w.instance.Release()
	}
}

// ResolveWebGPU recovers the *wgpu.Buffer a Blob describes.
func ResolveWebGPU(b Blob) *wgpu.Buffer {
	return b.Base.(*wgpu.Buffer)
}
