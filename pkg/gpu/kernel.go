// Package gpu runs the path tracing kernel as a WGSL compute shader through
// the pure-Go WebGPU HAL.
package gpu

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/gogpu/naga"
)

//go:embed shaders/pathtrace.wgsl
var pathTraceShaderWGSL string

// Binding slots used by the kernel
const (
	BindingFrame    = 0 // uniform: seed, sphere count
	BindingSettings = 1 // read-only storage: raytrace settings
	BindingSpheres  = 2 // read-only storage: sphere array
	BindingOutput   = 3 // read-write storage: accumulated f32 triples

	WorkgroupSize = 8
	EntryPoint    = "main"
)

// spirvMagic is the first word of every SPIR-V module
const spirvMagic = 0x07230203

// ErrInvalidSPIRV is returned when compilation produces something that is not SPIR-V
var ErrInvalidSPIRV = errors.New("compiled kernel is not SPIR-V")

// KernelSource returns the WGSL source of the path tracing kernel
func KernelSource() string {
	return pathTraceShaderWGSL
}

// CompileKernel translates the kernel to SPIR-V, validating it in the process
func CompileKernel() ([]byte, error) {
	spirv, err := naga.Compile(pathTraceShaderWGSL)
	if err != nil {
		return nil, fmt.Errorf("compile path tracing kernel: %w", err)
	}
	if len(spirv) < 4 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidSPIRV, len(spirv))
	}
	magic := uint32(spirv[0]) | uint32(spirv[1])<<8 | uint32(spirv[2])<<16 | uint32(spirv[3])<<24
	if magic != spirvMagic {
		return nil, fmt.Errorf("%w: magic 0x%08X", ErrInvalidSPIRV, magic)
	}
	return spirv, nil
}

// DispatchSize returns the workgroup counts covering a width x height grid
func DispatchSize(width, height uint32) (x, y, z uint32) {
	return (width + WorkgroupSize - 1) / WorkgroupSize, (height + WorkgroupSize - 1) / WorkgroupSize, 1
}
