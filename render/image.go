package render

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
)

// Image is an image bound to its own allocation, with a view covering
// every mip level.
type Image struct {
	Handle core1_0.Image
	Memory core1_0.DeviceMemory
	View   core1_0.ImageView

	Format    core1_0.Format
	Width     int
	Height    int
	MipLevels int
}

type ImageOptions struct {
	Width      int
	Height     int
	MipLevels  int
	Samples    core1_0.SampleCountFlags
	Format     core1_0.Format
	Usage      core1_0.ImageUsageFlags
	Properties core1_0.MemoryPropertyFlags
	Aspect     core1_0.ImageAspectFlags
}

// CreateImage creates an optimally tiled 2D image, its memory and a view.
func (d *Device) CreateImage(opts ImageOptions) (*Image, error) {
	if opts.MipLevels < 1 {
		opts.MipLevels = 1
	}
	if opts.Samples == 0 {
		opts.Samples = core1_0.Samples1
	}

	handle, _, err := d.Driver.CreateImage(nil, core1_0.ImageCreateInfo{
		ImageType: core1_0.ImageType2D,
		Extent: core1_0.Extent3D{
			Width:  opts.Width,
			Height: opts.Height,
			Depth:  1,
		},
		MipLevels:     opts.MipLevels,
		ArrayLayers:   1,
		Format:        opts.Format,
		Tiling:        core1_0.ImageTilingOptimal,
		InitialLayout: core1_0.ImageLayoutUndefined,
		Usage:         opts.Usage,
		SharingMode:   core1_0.SharingModeExclusive,
		Samples:       opts.Samples,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "creating %dx%d image", opts.Width, opts.Height)
	}

	img := &Image{
		Handle:    handle,
		Format:    opts.Format,
		Width:     opts.Width,
		Height:    opts.Height,
		MipLevels: opts.MipLevels,
	}

	reqs := d.Driver.GetImageMemoryRequirements(handle)
	img.Memory, err = d.allocate(reqs.Size, reqs.MemoryTypeBits, opts.Properties)
	if err != nil {
		d.DestroyImage(img)
		return nil, err
	}

	if _, err := d.Driver.BindImageMemory(handle, img.Memory, 0); err != nil {
		d.DestroyImage(img)
		return nil, errors.Wrap(err, "binding image memory")
	}

	img.View, err = CreateImageView(d, handle, opts.Format, opts.Aspect, opts.MipLevels)
	if err != nil {
		d.DestroyImage(img)
		return nil, err
	}
	return img, nil
}

func CreateImageView(d *Device, image core1_0.Image, format core1_0.Format, aspect core1_0.ImageAspectFlags, mipLevels int) (core1_0.ImageView, error) {
	view, _, err := d.Driver.CreateImageView(nil, core1_0.ImageViewCreateInfo{
		Image:    image,
		ViewType: core1_0.ImageViewType2D,
		Format:   format,
		SubresourceRange: core1_0.ImageSubresourceRange{
			AspectMask:     aspect,
			BaseMipLevel:   0,
			LevelCount:     mipLevels,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	})
	if err != nil {
		return core1_0.ImageView{}, errors.Wrap(err, "creating image view")
	}
	return view, nil
}

func (d *Device) DestroyImage(img *Image) {
	if img == nil {
		return
	}
	if img.View.Initialized() {
		d.Driver.DestroyImageView(img.View, nil)
		img.View = core1_0.ImageView{}
	}
	if img.Handle.Initialized() {
		d.Driver.DestroyImage(img.Handle, nil)
		img.Handle = core1_0.Image{}
	}
	if img.Memory.Initialized() {
		d.Driver.FreeMemory(img.Memory, nil)
		img.Memory = core1_0.DeviceMemory{}
	}
}

// TransitionMasks are the access and stage masks of a layout transition
// barrier.
type TransitionMasks struct {
	SrcAccess core1_0.AccessFlags
	DstAccess core1_0.AccessFlags
	SrcStage  core1_0.PipelineStageFlags
	DstStage  core1_0.PipelineStageFlags
}

// LayoutTransitionMasks returns the barrier masks for the transitions an
// upload or depth setup needs.
func LayoutTransitionMasks(oldLayout, newLayout core1_0.ImageLayout) (TransitionMasks, error) {
	switch {
	case oldLayout == core1_0.ImageLayoutUndefined && newLayout == core1_0.ImageLayoutTransferDstOptimal:
		return TransitionMasks{
			DstAccess: core1_0.AccessTransferWrite,
			SrcStage:  core1_0.PipelineStageTopOfPipe,
			DstStage:  core1_0.PipelineStageTransfer,
		}, nil
	case oldLayout == core1_0.ImageLayoutTransferDstOptimal && newLayout == core1_0.ImageLayoutShaderReadOnlyOptimal:
		return TransitionMasks{
			SrcAccess: core1_0.AccessTransferWrite,
			DstAccess: core1_0.AccessShaderRead,
			SrcStage:  core1_0.PipelineStageTransfer,
			DstStage:  core1_0.PipelineStageFragmentShader,
		}, nil
	case oldLayout == core1_0.ImageLayoutUndefined && newLayout == core1_0.ImageLayoutDepthStencilAttachmentOptimal:
		return TransitionMasks{
			DstAccess: core1_0.AccessDepthStencilAttachmentRead | core1_0.AccessDepthStencilAttachmentWrite,
			SrcStage:  core1_0.PipelineStageTopOfPipe,
			DstStage:  core1_0.PipelineStageEarlyFragmentTests,
		}, nil
	}
	return TransitionMasks{}, errors.Wrapf(ErrUnsupportedLayoutTransition, "%s -> %s", oldLayout, newLayout)
}

func HasStencilComponent(format core1_0.Format) bool {
	return format == core1_0.FormatD32SignedFloatS8UnsignedInt || format == core1_0.FormatD24UnsignedNormalizedS8UnsignedInt
}

// transitionAspect picks the aspects a barrier into newLayout must cover.
func transitionAspect(newLayout core1_0.ImageLayout, format core1_0.Format) core1_0.ImageAspectFlags {
	if newLayout != core1_0.ImageLayoutDepthStencilAttachmentOptimal {
		return core1_0.ImageAspectColor
	}
	aspect := core1_0.ImageAspectDepth
	if HasStencilComponent(format) {
		aspect |= core1_0.ImageAspectStencil
	}
	return aspect
}

func (d *Device) TransitionImageLayout(image core1_0.Image, format core1_0.Format, oldLayout, newLayout core1_0.ImageLayout, mipLevels int) error {
	masks, err := LayoutTransitionMasks(oldLayout, newLayout)
	if err != nil {
		return err
	}

	return d.SingleTimeCommands(func(cmd core1_0.CommandBuffer) error {
		return d.Driver.CmdPipelineBarrier(cmd, masks.SrcStage, masks.DstStage, 0, nil, nil, []core1_0.ImageMemoryBarrier{
			{
				OldLayout:           oldLayout,
				NewLayout:           newLayout,
				SrcQueueFamilyIndex: -1,
				DstQueueFamilyIndex: -1,
				Image:               image,
				SubresourceRange: core1_0.ImageSubresourceRange{
					AspectMask:     transitionAspect(newLayout, format),
					BaseMipLevel:   0,
					LevelCount:     mipLevels,
					BaseArrayLayer: 0,
					LayerCount:     1,
				},
				SrcAccessMask: masks.SrcAccess,
				DstAccessMask: masks.DstAccess,
			},
		})
	})
}

// CopyBufferToImage copies tightly packed pixels into mip level 0. The
// image must be in transfer destination layout.
func (d *Device) CopyBufferToImage(buffer core1_0.Buffer, image core1_0.Image, width, height int) error {
	return d.SingleTimeCommands(func(cmd core1_0.CommandBuffer) error {
		return d.Driver.CmdCopyBufferToImage(cmd, buffer, image, core1_0.ImageLayoutTransferDstOptimal,
			core1_0.BufferImageCopy{
				BufferOffset:      0,
				BufferRowLength:   0,
				BufferImageHeight: 0,

				ImageSubresource: core1_0.ImageSubresourceLayers{
					AspectMask:     core1_0.ImageAspectColor,
					MipLevel:       0,
					BaseArrayLayer: 0,
					LayerCount:     1,
				},
				ImageOffset: core1_0.Offset3D{X: 0, Y: 0, Z: 0},
				ImageExtent: core1_0.Extent3D{Width: width, Height: height, Depth: 1},
			},
		)
	})
}
