package render

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
)

// FramebufferAttachments orders views to match RenderPassInfo: the
// swapchain view is the color attachment, or the resolve target when a
// multisampled color target is present.
func FramebufferAttachments(targets *RenderTargets, swapchainView core1_0.ImageView) []core1_0.ImageView {
	var views []core1_0.ImageView
	if targets != nil && targets.Color != nil {
		views = append(views, targets.Color.View)
	} else {
		views = append(views, swapchainView)
	}

	if targets != nil && targets.Depth != nil {
		views = append(views, targets.Depth.View)
	}

	if targets != nil && targets.Color != nil {
		views = append(views, swapchainView)
	}
	return views
}

// CreateFramebuffers creates one framebuffer per swapchain image.
func (d *Device) CreateFramebuffers(renderPass core1_0.RenderPass, swapchain *Swapchain, targets *RenderTargets) ([]core1_0.Framebuffer, error) {
	framebuffers := make([]core1_0.Framebuffer, 0, len(swapchain.Views))
	for _, view := range swapchain.Views {
		framebuffer, _, err := d.Driver.CreateFramebuffer(nil, core1_0.FramebufferCreateInfo{
			RenderPass:  renderPass,
			Layers:      1,
			Attachments: FramebufferAttachments(targets, view),
			Width:       swapchain.Extent.Width,
			Height:      swapchain.Extent.Height,
		})
		if err != nil {
			d.DestroyFramebuffers(framebuffers)
			return nil, errors.Wrap(err, "creating framebuffer")
		}
		framebuffers = append(framebuffers, framebuffer)
	}
	return framebuffers, nil
}

func (d *Device) DestroyFramebuffers(framebuffers []core1_0.Framebuffer) {
	for _, framebuffer := range framebuffers {
		d.Driver.DestroyFramebuffer(framebuffer, nil)
	}
}
