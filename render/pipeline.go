package render

import (
	"encoding/binary"
	"io/fs"
	"os"
	"path"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"

	"github.com/vkngwrapper/vkscaffold/mesh"
)

const spirvMagic = 0x07230203

// DecodeSPIRV converts a little endian SPIR-V binary into words.
func DecodeSPIRV(b []byte) ([]uint32, error) {
	if len(b) < 4 || len(b)%4 != 0 {
		return nil, errors.Wrapf(ErrInvalidSPIRV, "length %d is not a positive multiple of 4", len(b))
	}

	code := make([]uint32, len(b)/4)
	for i := range code {
		code[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	if code[0] != spirvMagic {
		return nil, errors.Wrapf(ErrInvalidSPIRV, "bad magic %#08x", code[0])
	}
	return code, nil
}

// ReadShader reads name from dir when dir is set, else from fsys. This lets
// freshly compiled shaders replace the embedded ones without a rebuild.
func ReadShader(fsys fs.FS, dir, name string) ([]byte, error) {
	if dir != "" {
		fsys = os.DirFS(dir)
		name = path.Base(name)
	}
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.Wrapf(err, "reading shader %s", name)
	}
	return b, nil
}

func (d *Device) CreateShaderModule(spirv []byte) (core1_0.ShaderModule, error) {
	code, err := DecodeSPIRV(spirv)
	if err != nil {
		return core1_0.ShaderModule{}, err
	}

	module, _, err := d.Driver.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{
		Code: code,
	})
	if err != nil {
		return core1_0.ShaderModule{}, errors.Wrap(err, "creating shader module")
	}
	return module, nil
}

// VertexBindings describes the single interleaved mesh.Vertex stream.
func VertexBindings() []core1_0.VertexInputBindingDescription {
	return []core1_0.VertexInputBindingDescription{
		{
			Binding:   0,
			Stride:    mesh.Stride(),
			InputRate: core1_0.VertexInputRateVertex,
		},
	}
}

func VertexAttributes() []core1_0.VertexInputAttributeDescription {
	var descriptions []core1_0.VertexInputAttributeDescription
	for _, attr := range mesh.Attributes() {
		format := core1_0.FormatR32G32B32SignedFloat
		if attr.Components == 2 {
			format = core1_0.FormatR32G32SignedFloat
		}
		descriptions = append(descriptions, core1_0.VertexInputAttributeDescription{
			Binding:  0,
			Location: attr.Location,
			Format:   format,
			Offset:   attr.Offset,
		})
	}
	return descriptions
}

type PipelineOptions struct {
	VertexShader   []byte
	FragmentShader []byte

	RenderPass core1_0.RenderPass
	Extent     core1_0.Extent2D
	Samples    core1_0.SampleCountFlags
	SetLayouts []core1_0.DescriptorSetLayout

	DepthTest bool
	CullBack  bool
}

// Pipeline is a graphics pipeline and its layout.
type Pipeline struct {
	Handle core1_0.Pipeline
	Layout core1_0.PipelineLayout
}

func viewportState(extent core1_0.Extent2D) *core1_0.PipelineViewportStateCreateInfo {
	return &core1_0.PipelineViewportStateCreateInfo{
		Viewports: []core1_0.Viewport{
			{
				X:        0,
				Y:        0,
				Width:    float32(extent.Width),
				Height:   float32(extent.Height),
				MinDepth: 0,
				MaxDepth: 1,
			},
		},
		Scissors: []core1_0.Rect2D{
			{
				Offset: core1_0.Offset2D{X: 0, Y: 0},
				Extent: extent,
			},
		},
	}
}

// CreateGraphicsPipeline builds a triangle list pipeline reading
// mesh.Vertex. The viewport is baked in, so the pipeline is rebuilt when the
// swapchain is.
func (d *Device) CreateGraphicsPipeline(opts PipelineOptions) (*Pipeline, error) {
	vertShader, err := d.CreateShaderModule(opts.VertexShader)
	if err != nil {
		return nil, errors.Wrap(err, "vertex shader")
	}
	defer d.Driver.DestroyShaderModule(vertShader, nil)

	fragShader, err := d.CreateShaderModule(opts.FragmentShader)
	if err != nil {
		return nil, errors.Wrap(err, "fragment shader")
	}
	defer d.Driver.DestroyShaderModule(fragShader, nil)

	samples := opts.Samples
	if samples == 0 {
		samples = core1_0.Samples1
	}

	rasterization := &core1_0.PipelineRasterizationStateCreateInfo{
		DepthClampEnable:        false,
		RasterizerDiscardEnable: false,

		PolygonMode: core1_0.PolygonModeFill,
		FrontFace:   core1_0.FrontFaceCounterClockwise,

		DepthBiasEnable: false,

		LineWidth: 1.0,
	}
	if opts.CullBack {
		rasterization.CullMode = core1_0.CullModeBack
	}

	var depthStencil *core1_0.PipelineDepthStencilStateCreateInfo
	if opts.DepthTest {
		depthStencil = &core1_0.PipelineDepthStencilStateCreateInfo{
			DepthTestEnable:  true,
			DepthWriteEnable: true,
			DepthCompareOp:   core1_0.CompareOpLess,
		}
	}

	p := &Pipeline{}
	p.Layout, _, err = d.Driver.CreatePipelineLayout(nil, core1_0.PipelineLayoutCreateInfo{
		SetLayouts: opts.SetLayouts,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating pipeline layout")
	}

	pipelines, _, err := d.Driver.CreateGraphicsPipelines(nil, nil,
		core1_0.GraphicsPipelineCreateInfo{
			Stages: []core1_0.PipelineShaderStageCreateInfo{
				{
					Stage:  core1_0.StageVertex,
					Module: vertShader,
					Name:   "main",
				},
				{
					Stage:  core1_0.StageFragment,
					Module: fragShader,
					Name:   "main",
				},
			},
			VertexInputState: &core1_0.PipelineVertexInputStateCreateInfo{
				VertexBindingDescriptions:   VertexBindings(),
				VertexAttributeDescriptions: VertexAttributes(),
			},
			InputAssemblyState: &core1_0.PipelineInputAssemblyStateCreateInfo{
				Topology:               core1_0.PrimitiveTopologyTriangleList,
				PrimitiveRestartEnable: false,
			},
			ViewportState:      viewportState(opts.Extent),
			RasterizationState: rasterization,
			MultisampleState: &core1_0.PipelineMultisampleStateCreateInfo{
				SampleShadingEnable:  false,
				RasterizationSamples: samples,
				MinSampleShading:     1.0,
			},
			DepthStencilState: depthStencil,
			ColorBlendState: &core1_0.PipelineColorBlendStateCreateInfo{
				LogicOpEnabled: false,
				LogicOp:        core1_0.LogicOpCopy,

				BlendConstants: [4]float32{0, 0, 0, 0},
				Attachments: []core1_0.PipelineColorBlendAttachmentState{
					{
						BlendEnabled:   false,
						ColorWriteMask: core1_0.ColorComponentRed | core1_0.ColorComponentGreen | core1_0.ColorComponentBlue | core1_0.ColorComponentAlpha,
					},
				},
			},
			Layout:            p.Layout,
			RenderPass:        opts.RenderPass,
			Subpass:           0,
			BasePipelineIndex: -1,
		},
	)
	if err != nil {
		d.DestroyPipeline(p)
		return nil, errors.Wrap(err, "creating graphics pipeline")
	}
	p.Handle = pipelines[0]
	return p, nil
}

func (d *Device) DestroyPipeline(p *Pipeline) {
	if p == nil {
		return
	}
	if p.Handle.Initialized() {
		d.Driver.DestroyPipeline(p.Handle, nil)
		p.Handle = core1_0.Pipeline{}
	}
	if p.Layout.Initialized() {
		d.Driver.DestroyPipelineLayout(p.Layout, nil)
		p.Layout = core1_0.PipelineLayout{}
	}
}
