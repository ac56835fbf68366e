package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-re/common"
	"github.com/Carmen-Shannon/oxy-re/engine/gpu"
	"github.com/Carmen-Shannon/oxy-re/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// ReplaceBlend writes source color and alpha over the destination unchanged.
var ReplaceBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorZero,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorZero,
		Operation: wgpu.BlendOperationAdd,
	},
}

// pipeline is the implementation of the Pipeline interface.
// It holds the render state chosen through builder options and, once built, the GPU objects.
type pipeline struct {
	// label prefixes the debug labels of every GPU object the pipeline creates
	label string

	// shader supplies the WGSL source, entry points and bind group layouts
	shader shader.Shader

	// The following properties configure the pipeline during Build and can be set with the builder options.

	cullMode    wgpu.CullMode
	topology    wgpu.PrimitiveTopology
	frontFace   wgpu.FrontFace
	writeMask   wgpu.ColorWriteMask
	blendState  *wgpu.BlendState
	sampleCount uint32

	// GPU objects created by Build, released by Release.

	module           gpu.ShaderModule
	bindGroupLayouts []gpu.BindGroupLayout
	layout           gpu.PipelineLayout
	renderPipeline   gpu.RenderPipeline
	format           wgpu.TextureFormat
}

// Pipeline is a render pipeline built from one vertex/fragment shader with no vertex buffers
// and no depth/stencil attachment.
type Pipeline interface {
	// Label returns the label used for the pipeline's GPU objects.
	Label() string

	// Shader returns the shader program the pipeline is built from.
	Shader() shader.Shader

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline (e.g., wgpu.CullModeNone, wgpu.CullModeBack)
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state configured for this pipeline, or nil if blending is disabled.
	BlendState() *wgpu.BlendState

	// SampleCount returns the multisample count.
	SampleCount() uint32

	// Build compiles the shader and creates the bind group layouts, pipeline layout and render pipeline.
	// The color target uses format, which must match the surface the pipeline draws to.
	//
	// Parameters:
	//   - device: the device to create GPU objects on
	//   - format: the color target texture format
	//
	// Returns:
	//   - error: error if any GPU object could not be created, or if the pipeline is already built
	Build(device gpu.Device, format wgpu.TextureFormat) error

	// Built reports whether Build succeeded and Release has not been called since.
	Built() bool

	// Format returns the color target format the pipeline was built for.
	Format() wgpu.TextureFormat

	// RenderPipeline returns the GPU pipeline, or nil before Build.
	RenderPipeline() gpu.RenderPipeline

	// BindGroupLayout returns the layout created for a @group index, or nil if none.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - gpu.BindGroupLayout: the layout, or nil before Build or for an undeclared group
	BindGroupLayout(group int) gpu.BindGroupLayout

	// Release releases every GPU object created by Build. The pipeline may be built again.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render pipeline description. No GPU objects are created until Build.
// Defaults: triangle list, counter-clockwise front face, back-face culling, replace blending,
// all color channels written, single sample.
//
// Parameters:
//   - label: the debug label for this pipeline
//   - s: the shader program providing the vertex and fragment entry points
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline with the specified configuration
func NewPipeline(label string, s shader.Shader, opts ...PipelineBuilderOption) Pipeline {
	blend := ReplaceBlend
	p := &pipeline{
		label:       label,
		shader:      s,
		cullMode:    wgpu.CullModeBack,
		topology:    wgpu.PrimitiveTopologyTriangleList,
		frontFace:   wgpu.FrontFaceCCW,
		writeMask:   wgpu.ColorWriteMaskAll,
		blendState:  &blend,
		sampleCount: 1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) Label() string {
	return p.label
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) SampleCount() uint32 {
	return p.sampleCount
}

func (p *pipeline) Built() bool {
	return p.renderPipeline != nil
}

func (p *pipeline) Format() wgpu.TextureFormat {
	return p.format
}

func (p *pipeline) RenderPipeline() gpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) BindGroupLayout(group int) gpu.BindGroupLayout {
	if group < 0 || group >= len(p.bindGroupLayouts) {
		return nil
	}
	return p.bindGroupLayouts[group]
}

func (p *pipeline) Build(device gpu.Device, format wgpu.TextureFormat) (err error) {
	if p.shader == nil {
		return fmt.Errorf("pipeline %s: no shader", p.label)
	}
	if p.Built() {
		return fmt.Errorf("pipeline %s: already built", p.label)
	}
	defer func() {
		if err != nil {
			p.Release()
		}
	}()

	p.module, err = device.CreateShaderModule(gpu.ShaderModuleDescriptor{
		Label: p.shader.Label(),
		Code:  p.shader.Source(),
	})
	if err != nil {
		return fmt.Errorf("pipeline %s: create shader module: %w", p.label, err)
	}

	for g := range p.shader.BindGroupCount() {
		desc := p.shader.BindGroupLayoutDescriptor(g)
		desc.Label = fmt.Sprintf("%s Bind Group Layout %d", p.label, g)
		layout, err := device.CreateBindGroupLayout(&desc)
		if err != nil {
			return fmt.Errorf("pipeline %s: create bind group layout %d: %w", p.label, g, err)
		}
		p.bindGroupLayouts = append(p.bindGroupLayouts, layout)
	}

	p.layout, err = device.CreatePipelineLayout(gpu.PipelineLayoutDescriptor{
		Label:            p.label + " Pipeline Layout",
		BindGroupLayouts: p.bindGroupLayouts,
	})
	if err != nil {
		return fmt.Errorf("pipeline %s: create pipeline layout: %w", p.label, err)
	}

	p.renderPipeline, err = device.CreateRenderPipeline(gpu.RenderPipelineDescriptor{
		Label:  p.label,
		Layout: p.layout,
		Vertex: gpu.ProgrammableStage{
			Module:     p.module,
			EntryPoint: p.shader.VertexEntryPoint(),
		},
		Fragment: gpu.ProgrammableStage{
			Module:     p.module,
			EntryPoint: p.shader.FragmentEntryPoint(),
		},
		Targets: []gpu.ColorTarget{{
			Format:    format,
			Blend:     p.blendState,
			WriteMask: p.writeMask,
		}},
		Topology:    p.topology,
		FrontFace:   p.frontFace,
		CullMode:    p.cullMode,
		SampleCount: p.sampleCount,
	})
	if err != nil {
		return fmt.Errorf("pipeline %s: create render pipeline: %w", p.label, err)
	}
	p.format = format

	common.Logger().Debug("pipeline built", "label", p.label, "format", format, "bindGroups", len(p.bindGroupLayouts))
	return nil
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
	for _, l := range p.bindGroupLayouts {
		l.Release()
	}
	p.bindGroupLayouts = nil
	if p.module != nil {
		p.module.Release()
		p.module = nil
	}
}
