package render

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
)

var depthFormats = []core1_0.Format{
	core1_0.FormatD32SignedFloat,
	core1_0.FormatD32SignedFloatS8UnsignedInt,
	core1_0.FormatD24UnsignedNormalizedS8UnsignedInt,
}

// FormatFeatures reports the linear and optimal tiling features of a
// format.
type FormatFeatures func(format core1_0.Format) (linear, optimal core1_0.FormatFeatureFlags)

// FindSupportedFormat returns the first candidate whose features for the
// given tiling include want.
func FindSupportedFormat(candidates []core1_0.Format, tiling core1_0.ImageTiling, want core1_0.FormatFeatureFlags, features FormatFeatures) (core1_0.Format, error) {
	for _, format := range candidates {
		linear, optimal := features(format)
		if tiling == core1_0.ImageTilingLinear && linear&want == want {
			return format, nil
		}
		if tiling == core1_0.ImageTilingOptimal && optimal&want == want {
			return format, nil
		}
	}
	return 0, errors.Wrapf(ErrUnsupportedFormat, "no format for tiling %s with features %s", tiling, want)
}

func (d *Device) formatFeatures(format core1_0.Format) (core1_0.FormatFeatureFlags, core1_0.FormatFeatureFlags) {
	props := d.instance.Driver.GetPhysicalDeviceFormatProperties(d.Physical, format)
	return props.LinearTilingFeatures, props.OptimalTilingFeatures
}

func (d *Device) FindDepthFormat() (core1_0.Format, error) {
	return FindSupportedFormat(depthFormats, core1_0.ImageTilingOptimal, core1_0.FormatFeatureDepthStencilAttachment, d.formatFeatures)
}

// RenderTargets are the attachments rendered into before the swapchain
// image: a multisampled color target when MSAA is on and a depth buffer
// when depth testing is on. Either may be nil.
type RenderTargets struct {
	Color *Image
	Depth *Image
}

func (d *Device) CreateRenderTargets(extent core1_0.Extent2D, colorFormat core1_0.Format, depthFormat core1_0.Format, depth bool) (*RenderTargets, error) {
	targets := &RenderTargets{}

	if d.Samples != core1_0.Samples1 {
		var err error
		targets.Color, err = d.CreateImage(ImageOptions{
			Width:      extent.Width,
			Height:     extent.Height,
			Samples:    d.Samples,
			Format:     colorFormat,
			Usage:      core1_0.ImageUsageTransientAttachment | core1_0.ImageUsageColorAttachment,
			Properties: core1_0.MemoryPropertyDeviceLocal,
			Aspect:     core1_0.ImageAspectColor,
		})
		if err != nil {
			return nil, err
		}
	}

	if depth {
		var err error
		targets.Depth, err = d.CreateImage(ImageOptions{
			Width:      extent.Width,
			Height:     extent.Height,
			Samples:    d.Samples,
			Format:     depthFormat,
			Usage:      core1_0.ImageUsageDepthStencilAttachment,
			Properties: core1_0.MemoryPropertyDeviceLocal,
			Aspect:     core1_0.ImageAspectDepth,
		})
		if err == nil {
			err = d.TransitionImageLayout(targets.Depth.Handle, depthFormat, core1_0.ImageLayoutUndefined, core1_0.ImageLayoutDepthStencilAttachmentOptimal, 1)
		}
		if err != nil {
			d.DestroyRenderTargets(targets)
			return nil, err
		}
	}
	return targets, nil
}

func (d *Device) DestroyRenderTargets(targets *RenderTargets) {
	if targets == nil {
		return
	}
	d.DestroyImage(targets.Color)
	d.DestroyImage(targets.Depth)
	targets.Color, targets.Depth = nil, nil
}
