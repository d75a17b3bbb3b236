package gpu

import (
	"errors"
	"strings"
	"testing"
)

func TestKernelSource_Bindings(t *testing.T) {
	src := KernelSource()
	if src == "" {
		t.Fatal("kernel source is empty")
	}

	want := []string{
		"@group(0) @binding(0) var<uniform> frame",
		"@group(0) @binding(1) var<storage, read> settings",
		"@group(0) @binding(2) var<storage, read> spheres",
		"@group(0) @binding(3) var<storage, read_write> output",
		"@workgroup_size(8, 8, 1)",
		"fn main(",
	}
	for _, w := range want {
		if !strings.Contains(src, w) {
			t.Errorf("kernel source missing %q", w)
		}
	}
}

func TestCompileKernel(t *testing.T) {
	spirv, err := CompileKernel()
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "not yet implemented") || strings.Contains(errStr, "not supported") {
			t.Skipf("Skipping: naga feature not yet implemented: %v", err)
		}
		if strings.Contains(errStr, "lowering error") || strings.Contains(errStr, "atomic") {
			t.Skipf("Skipping: naga lowering limitation: %v", err)
		}
		if errors.Is(err, ErrInvalidSPIRV) {
			t.Fatalf("invalid SPIR-V: %v", err)
		}
		t.Fatalf("failed to compile kernel: %v", err)
	}
	if len(spirv)%4 != 0 {
		t.Errorf("SPIR-V length %d is not word aligned", len(spirv))
	}
	t.Logf("Path tracing kernel compiled to %d bytes of SPIR-V", len(spirv))
}

func TestDispatchSize(t *testing.T) {
	tests := []struct {
		w, h   uint32
		wx, wy uint32
	}{
		{1, 1, 1, 1},
		{8, 8, 1, 1},
		{9, 8, 2, 1},
		{800, 400, 100, 50},
		{801, 401, 101, 51},
	}
	for _, tt := range tests {
		x, y, z := DispatchSize(tt.w, tt.h)
		if x != tt.wx || y != tt.wy || z != 1 {
			t.Errorf("DispatchSize(%d, %d) = (%d, %d, %d), want (%d, %d, 1)", tt.w, tt.h, x, y, z, tt.wx, tt.wy)
		}
	}
}
