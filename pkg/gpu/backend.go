//go:build !nogpu

package gpu

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/df07/go-gpu-raytracer/pkg/core"
	"github.com/df07/go-gpu-raytracer/pkg/geometry"
	"github.com/df07/go-gpu-raytracer/pkg/layout"
	"github.com/df07/go-gpu-raytracer/pkg/renderer"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// DefaultWaitTimeout bounds a single fence wait
const DefaultWaitTimeout = 30 * time.Second

// Backend runs the path tracing kernel on a WebGPU HAL device. It satisfies
// renderer.Backend; dispatches are serialized so no two grids accumulate into
// the output buffer at once.
type Backend struct {
	mu sync.Mutex

	instance       hal.Instance
	device         hal.Device
	queue          hal.Queue
	externalDevice bool
	adapterName    string

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	frameBuf    hal.Buffer
	settingsBuf hal.Buffer
	spheresBuf  hal.Buffer
	outputBuf   hal.Buffer
	stagingBuf  hal.Buffer
	bindGroup   hal.BindGroup

	settings    renderer.RaytraceSettings
	sphereCount uint32
	uploaded    bool

	// WaitTimeout bounds each fence wait (0 = DefaultWaitTimeout)
	WaitTimeout time.Duration
}

// New opens the first usable Vulkan adapter and builds the compute pipeline
func New() (*Backend, error) {
	b := &Backend{}
	if err := b.initGPU(); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

// NewWithDevice builds the compute pipeline on a device owned by the caller.
// Close releases the backend's resources but leaves the device alone.
func NewWithDevice(device hal.Device, queue hal.Queue) (*Backend, error) {
	b := &Backend{device: device, queue: queue, externalDevice: true, adapterName: "external"}
	if err := b.createPipelines(); err != nil {
		b.Close()
		return nil, fmt.Errorf("create pipelines: %w", err)
	}
	return b, nil
}

func (b *Backend) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("%w: vulkan backend not registered", ErrUnavailable)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	b.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return ErrNoAdapter
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
		return fmt.Errorf("open device: %w", err)
	}
	b.device = openDev.Device
	b.queue = openDev.Queue
	b.adapterName = selected.Info.Name

	if err := b.createPipelines(); err != nil {
		return fmt.Errorf("create pipelines: %w", err)
	}
	Logger().Info("gpu: path tracer initialized", "adapter", b.adapterName)
	return nil
}

func (b *Backend) createPipelines() error {
	shader, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "pathtrace_shader",
		Source: hal.ShaderSource{WGSL: pathTraceShaderWGSL},
	})
	if err != nil {
		return fmt.Errorf("compile shader: %w", err)
	}
	b.shader = shader

	bindLayout, err := b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "pathtrace_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: BindingFrame, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: BindingSettings, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: BindingSpheres, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: BindingOutput, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	b.bindLayout = bindLayout

	pipeLayout, err := b.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "pathtrace_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{b.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	b.pipeLayout = pipeLayout

	pipeline, err := b.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   "pathtrace_pipeline",
		Layout:  b.pipeLayout,
		Compute: hal.ComputeState{Module: b.shader, EntryPoint: EntryPoint},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	b.pipeline = pipeline
	return nil
}

// Name implements renderer.Backend
func (b *Backend) Name() string {
	return "gpu/" + b.adapterName
}

// Upload implements renderer.Backend. It replaces every scene buffer and
// zeroes the output.
func (b *Backend) Upload(settings renderer.RaytraceSettings, spheres []geometry.Sphere) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.device == nil {
		return ErrUnavailable
	}
	b.destroySceneBuffers()

	settingsBytes := layout.EncodeSettings(settings)
	sphereBytes := layout.EncodeSpheres(spheres)
	outputSize := uint64(layout.OutputSize(settings.PixelCount()))

	var err error
	if b.frameBuf, err = b.createBuffer("pathtrace_frame", layout.FrameSize,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst); err != nil {
		return err
	}
	if b.settingsBuf, err = b.createBuffer("pathtrace_settings", uint64(len(settingsBytes)),
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst); err != nil {
		return err
	}
	if b.spheresBuf, err = b.createBuffer("pathtrace_spheres", uint64(len(sphereBytes)),
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst); err != nil {
		return err
	}
	if b.outputBuf, err = b.createBuffer("pathtrace_output", outputSize,
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopySrc|gputypes.BufferUsageCopyDst); err != nil {
		return err
	}
	if b.stagingBuf, err = b.createBuffer("pathtrace_staging", outputSize,
		gputypes.BufferUsageMapRead|gputypes.BufferUsageCopyDst); err != nil {
		return err
	}

	b.queue.WriteBuffer(b.frameBuf, 0, layout.EncodeFrame(0, uint32(len(spheres))))
	b.queue.WriteBuffer(b.settingsBuf, 0, settingsBytes)
	b.queue.WriteBuffer(b.spheresBuf, 0, sphereBytes)
	b.queue.WriteBuffer(b.outputBuf, 0, make([]byte, outputSize))

	bg, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "pathtrace_bind_group",
		Layout: b.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: BindingFrame, Resource: gputypes.BufferBinding{Buffer: b.frameBuf.NativeHandle(), Offset: 0, Size: layout.FrameSize}},
			{Binding: BindingSettings, Resource: gputypes.BufferBinding{Buffer: b.settingsBuf.NativeHandle(), Offset: 0, Size: uint64(len(settingsBytes))}},
			{Binding: BindingSpheres, Resource: gputypes.BufferBinding{Buffer: b.spheresBuf.NativeHandle(), Offset: 0, Size: uint64(len(sphereBytes))}},
			{Binding: BindingOutput, Resource: gputypes.BufferBinding{Buffer: b.outputBuf.NativeHandle(), Offset: 0, Size: outputSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	b.bindGroup = bg

	b.settings = settings
	b.sphereCount = uint32(len(spheres))
	b.uploaded = true
	Logger().Debug("gpu: scene uploaded",
		"spheres", len(spheres), "width", settings.Width(), "height", settings.Height(), "output_bytes", outputSize)
	return nil
}

func (b *Backend) createBuffer(label string, size uint64, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{Label: label, Size: size, Usage: usage})
	if err != nil {
		return nil, fmt.Errorf("create %s buffer: %w", label, err)
	}
	return buf, nil
}

// Dispatch implements renderer.Backend
func (b *Backend) Dispatch(ctx context.Context, seed uint32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.uploaded {
		return renderer.ErrNotUploaded
	}

	start := time.Now()
	b.queue.WriteBuffer(b.frameBuf, 0, layout.EncodeFrame(seed, b.sphereCount))

	wx, wy, wz := DispatchSize(b.settings.ScreenSize[0], b.settings.ScreenSize[1])
	err := b.submit("pathtrace_dispatch", func(encoder hal.CommandEncoder) {
		pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "pathtrace_pass"})
		pass.SetPipeline(b.pipeline)
		pass.SetBindGroup(0, b.bindGroup, nil)
		pass.Dispatch(wx, wy, wz)
		pass.End()
	})
	if err != nil {
		return err
	}
	Logger().Debug("gpu: dispatch complete", "seed", seed, "elapsed", time.Since(start))
	return nil
}

// ReadBack implements renderer.Backend
func (b *Backend) ReadBack() ([]core.Vec3, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.uploaded {
		return nil, renderer.ErrNotUploaded
	}

	pixels := b.settings.PixelCount()
	size := uint64(layout.OutputSize(pixels))
	err := b.submit("pathtrace_readback", func(encoder hal.CommandEncoder) {
		encoder.CopyBufferToBuffer(b.outputBuf, b.stagingBuf, []hal.BufferCopy{
			{SrcOffset: 0, DstOffset: 0, Size: size},
		})
	})
	if err != nil {
		return nil, err
	}

	raw := make([]byte, size)
	if err := b.queue.ReadBuffer(b.stagingBuf, 0, raw); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}
	return layout.DecodeOutput(raw, pixels)
}

// submit records one command buffer, submits it and blocks on its fence
func (b *Backend) submit(label string, record func(hal.CommandEncoder)) error {
	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label + "_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	record(encoder)
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	fence, err := b.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer b.device.DestroyFence(fence)
	if err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}

	timeout := b.WaitTimeout
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	ok, err := b.device.Wait(fence, 1, timeout)
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w after %v", ErrTimeout, timeout)
	}
	return nil
}

// Close implements renderer.Backend
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.destroySceneBuffers()
	b.destroyPipelines()
	if !b.externalDevice {
		if b.device != nil {
			b.device.Destroy()
		}
		if b.instance != nil {
			b.instance.Destroy()
		}
	}
	b.device = nil
	b.queue = nil
	b.instance = nil
	return nil
}

func (b *Backend) destroySceneBuffers() {
	b.uploaded = false
	if b.device == nil {
		return
	}
	if b.bindGroup != nil {
		b.device.DestroyBindGroup(b.bindGroup)
		b.bindGroup = nil
	}
	for _, buf := range []*hal.Buffer{&b.frameBuf, &b.settingsBuf, &b.spheresBuf, &b.outputBuf, &b.stagingBuf} {
		if *buf != nil {
			b.device.DestroyBuffer(*buf)
			*buf = nil
		}
	}
}

func (b *Backend) destroyPipelines() {
	if b.device == nil {
		return
	}
	if b.pipeline != nil {
		b.device.DestroyComputePipeline(b.pipeline)
		b.pipeline = nil
	}
	if b.pipeLayout != nil {
		b.device.DestroyPipelineLayout(b.pipeLayout)
		b.pipeLayout = nil
	}
	if b.bindLayout != nil {
		b.device.DestroyBindGroupLayout(b.bindLayout)
		b.bindLayout = nil
	}
	if b.shader != nil {
		b.device.DestroyShaderModule(b.shader)
		b.shader = nil
	}
}
