//go:build windows

package runtime

import (
	"github.com/go-webgpu/webgpu/wgpu"

	internalruntime "github.com/born-ml/borncore/internal/runtime"
)

// WebGPURuntime allocates the graph's single buffer as one GPU storage
// buffer instead of a heap slice.
type WebGPURuntime = internalruntime.WebGPURuntime

// NewWebGPU requests a high-performance GPU adapter and device.
func NewWebGPU() (*WebGPURuntime, error) { return internalruntime.NewWebGPU() }

// ResolveWebGPU recovers the *wgpu.Buffer a Blob describes.
func ResolveWebGPU(b Blob) *wgpu.Buffer { return internalruntime.ResolveWebGPU(b) }
