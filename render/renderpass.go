package render

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

type RenderPassOptions struct {
	ColorFormat core1_0.Format
	Samples     core1_0.SampleCountFlags
	Depth       bool
	DepthFormat core1_0.Format
}

func (o RenderPassOptions) multisampled() bool {
	return o.Samples != 0 && o.Samples != core1_0.Samples1
}

// RenderPassInfo builds a single subpass render pass. Attachments are
// ordered color, then depth when enabled, then the resolve target when
// multisampled. The attachment that ends up in the swapchain image is left
// in present layout.
func RenderPassInfo(opts RenderPassOptions) core1_0.RenderPassCreateInfo {
	samples := opts.Samples
	if samples == 0 {
		samples = core1_0.Samples1
	}

	color := core1_0.AttachmentDescription{
		Format:         opts.ColorFormat,
		Samples:        samples,
		LoadOp:         core1_0.AttachmentLoadOpClear,
		StoreOp:        core1_0.AttachmentStoreOpStore,
		StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
		StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
		InitialLayout:  core1_0.ImageLayoutUndefined,
		FinalLayout:    khr_swapchain.ImageLayoutPresentSrc,
	}
	if opts.multisampled() {
		color.FinalLayout = core1_0.ImageLayoutColorAttachmentOptimal
	}

	subpass := core1_0.SubpassDescription{
		PipelineBindPoint: core1_0.PipelineBindPointGraphics,
		ColorAttachments: []core1_0.AttachmentReference{
			{
				Attachment: 0,
				Layout:     core1_0.ImageLayoutColorAttachmentOptimal,
			},
		},
	}
	dependency := core1_0.SubpassDependency{
		SrcSubpass: core1_0.SubpassExternal,
		DstSubpass: 0,

		SrcStageMask:  core1_0.PipelineStageColorAttachmentOutput,
		SrcAccessMask: 0,

		DstStageMask:  core1_0.PipelineStageColorAttachmentOutput,
		DstAccessMask: core1_0.AccessColorAttachmentWrite,
	}

	attachments := []core1_0.AttachmentDescription{color}

	if opts.Depth {
		subpass.DepthStencilAttachment = &core1_0.AttachmentReference{
			Attachment: len(attachments),
			Layout:     core1_0.ImageLayoutDepthStencilAttachmentOptimal,
		}
		attachments = append(attachments, core1_0.AttachmentDescription{
			Format:         opts.DepthFormat,
			Samples:        samples,
			LoadOp:         core1_0.AttachmentLoadOpClear,
			StoreOp:        core1_0.AttachmentStoreOpDontCare,
			StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
			StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
			InitialLayout:  core1_0.ImageLayoutUndefined,
			FinalLayout:    core1_0.ImageLayoutDepthStencilAttachmentOptimal,
		})
		dependency.SrcStageMask |= core1_0.PipelineStageEarlyFragmentTests
		dependency.DstStageMask |= core1_0.PipelineStageEarlyFragmentTests
		dependency.DstAccessMask |= core1_0.AccessDepthStencilAttachmentWrite
	}

	if opts.multisampled() {
		subpass.ResolveAttachments = []core1_0.AttachmentReference{
			{
				Attachment: len(attachments),
				Layout:     core1_0.ImageLayoutColorAttachmentOptimal,
			},
		}
		attachments = append(attachments, core1_0.AttachmentDescription{
			Format:         opts.ColorFormat,
			Samples:        core1_0.Samples1,
			LoadOp:         core1_0.AttachmentLoadOpDontCare,
			StoreOp:        core1_0.AttachmentStoreOpStore,
			StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
			StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
			InitialLayout:  core1_0.ImageLayoutUndefined,
			FinalLayout:    khr_swapchain.ImageLayoutPresentSrc,
		})
	}

	return core1_0.RenderPassCreateInfo{
		Attachments:         attachments,
		Subpasses:           []core1_0.SubpassDescription{subpass},
		SubpassDependencies: []core1_0.SubpassDependency{dependency},
	}
}

func (d *Device) CreateRenderPass(opts RenderPassOptions) (core1_0.RenderPass, error) {
	renderPass, _, err := d.Driver.CreateRenderPass(nil, RenderPassInfo(opts))
	if err != nil {
		return core1_0.RenderPass{}, errors.Wrap(err, "creating render pass")
	}
	return renderPass, nil
}

// ClearValues returns one clear value per cleared attachment, in
// RenderPassInfo's attachment order.
func ClearValues(depth bool) []core1_0.ClearValue {
	values := []core1_0.ClearValue{core1_0.ClearValueFloat{0, 0, 0, 1}}
	if depth {
		values = append(values, core1_0.ClearValueDepthStencil{Depth: 1.0, Stencil: 0})
	}
	return values
}
