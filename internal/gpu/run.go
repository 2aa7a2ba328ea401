//go:build !nogpu

package gpu

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/pixquant/internal/pipeline"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// submitTimeout bounds the wait for one submitted run.
const submitTimeout = 10 * time.Second

// pollInterval is the sleep between completion polls.
const pollInterval = 200 * time.Microsecond

// releaser records destroy calls for GPU objects and runs them in reverse
// creation order, so dependents go before what they were created from.
type releaser struct {
	fns []func()
}

func (r *releaser) add(fn func()) {
	r.fns = append(r.fns, fn)
}

func (r *releaser) release() {
	for i := len(r.fns) - 1; i >= 0; i-- {
		r.fns[i]()
	}
	r.fns = nil
}

// openInstance creates a Vulkan instance owned by rel.
func openInstance(rel *releaser) (hal.Instance, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, errors.New("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	rel.add(instance.Destroy)
	return instance, nil
}

// preferredAdapter returns the index of the first discrete or integrated
// GPU, or 0 when there is none.
func preferredAdapter(types []gputypes.DeviceType) int {
	for i, t := range types {
		if t == gputypes.DeviceTypeDiscreteGPU || t == gputypes.DeviceTypeIntegratedGPU {
			return i
		}
	}
	return 0
}

// openDevice creates an instance and a device on the preferred adapter,
// both owned by rel.
func openDevice(rel *releaser) (hal.Device, hal.Queue, error) {
	instance, err := openInstance(rel)
	if err != nil {
		return nil, nil, err
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return nil, nil, errors.New("no GPU adapters found")
	}
	types := make([]gputypes.DeviceType, len(adapters))
	for i := range adapters {
		types[i] = adapters[i].Info.DeviceType
	}
	selected := &adapters[preferredAdapter(types)]

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return nil, nil, fmt.Errorf("open device: %w", err)
	}
	rel.add(openDev.Device.Destroy)
	slogger().Debug("gpu: device opened", "adapter", selected.Info.Name)
	return openDev.Device, openDev.Queue, nil
}

// plan lists the passes a run dispatches. Adjust and sharpen are skipped
// when they would not change the image.
func plan(cfg *pipeline.Config) []pass {
	passes := make([]pass, 0, passCount)
	if !cfg.Adjuster().IsIdentity() {
		passes = append(passes, passAdjust)
	}
	if cfg.SharpenStrength() > 0 {
		passes = append(passes, passSharpen)
	}
	return append(passes, passQuantize)
}

// run is one pipeline execution on a device. Every object it creates is
// registered with rel.
type run struct {
	device hal.Device
	queue  hal.Queue
	rel    *releaser
}

func (r *run) buffer(desc *hal.BufferDescriptor) (hal.Buffer, error) {
	buf, err := r.device.CreateBuffer(desc)
	if err != nil {
		return nil, fmt.Errorf("create %s buffer: %w", desc.Label, err)
	}
	r.rel.add(func() { r.device.DestroyBuffer(buf) })
	return buf, nil
}

// layouts creates the bind group layout shared by all passes
// (params, source pixels, destination pixels) and its pipeline layout.
func (r *run) layouts() (hal.BindGroupLayout, hal.PipelineLayout, error) {
	bindLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "pq_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create bind group layout: %w", err)
	}
	r.rel.add(func() { r.device.DestroyBindGroupLayout(bindLayout) })

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "pq_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create pipeline layout: %w", err)
	}
	r.rel.add(func() { r.device.DestroyPipelineLayout(pipeLayout) })
	return bindLayout, pipeLayout, nil
}

func (r *run) computePipeline(p pass, layout hal.PipelineLayout) (hal.ComputePipeline, error) {
	code, err := spirv[p]()
	if err != nil {
		return nil, err
	}
	module, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "pq_" + p.String(),
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s shader module: %w", p, err)
	}
	r.rel.add(func() { r.device.DestroyShaderModule(module) })

	pipe, err := r.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "pq_" + p.String() + "_pipeline", Layout: layout,
		Compute: hal.ComputeState{Module: module, EntryPoint: "main"},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s pipeline: %w", p, err)
	}
	r.rel.add(func() { r.device.DestroyComputePipeline(pipe) })
	return pipe, nil
}

func (r *run) bindGroup(layout hal.BindGroupLayout, uniform, src, dst hal.Buffer, size uint64) (hal.BindGroup, error) {
	bg, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "pq_bind", Layout: layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniform.NativeHandle(), Offset: 0, Size: paramsSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: src.NativeHandle(), Offset: 0, Size: size}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: dst.NativeHandle(), Offset: 0, Size: size}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	r.rel.add(func() { r.device.DestroyBindGroup(bg) })
	return bg, nil
}

// execute runs the planned passes over pix (w*h RGBA8) and returns the
// quantized pixels.
func (r *run) execute(ctx context.Context, cfg *pipeline.Config, pix []uint8, w, h int) ([]uint8, error) {
	passes := plan(cfg)
	size := uint64(len(pix))

	bindLayout, pipeLayout, err := r.layouts()
	if err != nil {
		return nil, err
	}
	pipelines := make([]hal.ComputePipeline, len(passes))
	for i, p := range passes {
		if pipelines[i], err = r.computePipeline(p, pipeLayout); err != nil {
			return nil, err
		}
	}

	uniform, err := r.buffer(&hal.BufferDescriptor{
		Label: "pq_params", Size: paramsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	var pixels [2]hal.Buffer
	for i := range pixels {
		pixels[i], err = r.buffer(&hal.BufferDescriptor{
			Label: fmt.Sprintf("pq_pixels_%d", i), Size: size,
			Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, err
		}
	}
	staging, err := r.buffer(&hal.BufferDescriptor{
		Label: "pq_staging", Size: size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}

	if err := r.queue.WriteBuffer(uniform, 0, newParams(cfg, w, h).bytes()); err != nil {
		return nil, fmt.Errorf("upload params: %w", err)
	}
	if err := r.queue.WriteBuffer(pixels[0], 0, packPixels(pix)); err != nil {
		return nil, fmt.Errorf("upload pixels: %w", err)
	}

	// Pass i reads pixels[i%2] and writes pixels[(i+1)%2].
	bindGroups := make([]hal.BindGroup, len(passes))
	for i := range passes {
		bindGroups[i], err = r.bindGroup(bindLayout, uniform, pixels[i%2], pixels[(i+1)%2], size)
		if err != nil {
			return nil, err
		}
	}
	result := pixels[len(passes)%2]

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	slogger().Debug("gpu: dispatching", "passes", len(passes), "width", w, "height", h,
		"metric", cfg.Metric.String(), "dither", cfg.Dither.Enabled)

	if err := r.submit(pipelines, bindGroups, result, staging, w, h, size); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]uint8, len(pix))
	if err := r.readback(staging, size, out); err != nil {
		return nil, err
	}
	return out, nil
}

// readback maps staging and unpacks its pixels into dst.
func (r *run) readback(staging hal.Buffer, size uint64, dst []uint8) error {
	mapping, err := r.device.MapBuffer(staging, 0, size)
	if err != nil {
		return fmt.Errorf("map staging buffer: %w", err)
	}
	if mapping.Ptr == nil {
		_ = r.device.UnmapBuffer(staging)
		return errors.New("map staging buffer: nil pointer")
	}
	unpackPixels(unsafe.Slice((*byte)(mapping.Ptr), size), dst)
	if err := r.device.UnmapBuffer(staging); err != nil {
		return fmt.Errorf("unmap staging buffer: %w", err)
	}
	return nil
}

// submit encodes one compute pass per pipeline plus the copy into staging,
// then waits for the GPU. Storage writes of one pass are visible to the next.
func (r *run) submit(pipelines []hal.ComputePipeline, bindGroups []hal.BindGroup,
	result, staging hal.Buffer, w, h int, size uint64,
) error {
	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "pq_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("pq_run"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	groupsX := uint32((w + 7) / 8) //nolint:gosec // bounded by the buffer limit
	groupsY := uint32((h + 7) / 8) //nolint:gosec // bounded by the buffer limit
	for i, pipe := range pipelines {
		computePass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "pq_pass"})
		computePass.SetPipeline(pipe)
		computePass.SetBindGroup(0, bindGroups[i], nil)
		computePass.Dispatch(groupsX, groupsY, 1)
		computePass.End()
	}
	encoder.CopyBufferToBuffer(result, staging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: size},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	r.rel.add(func() { r.device.FreeCommandBuffer(cmdBuf) })

	index, err := r.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	return r.wait(index)
}

// wait polls the queue until submission index has completed. On timeout
// the device is drained before returning, so the deferred release never
// destroys objects the GPU still uses.
func (r *run) wait(index uint64) error {
	deadline := time.Now().Add(submitTimeout)
	for r.queue.PollCompleted() < index {
		if time.Now().After(deadline) {
			_ = r.device.WaitIdle()
			return fmt.Errorf("wait for GPU: submission %d not complete after %v", index, submitTimeout)
		}
		time.Sleep(pollInterval)
	}
	return nil
}
