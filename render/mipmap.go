package render

import (
	"math/bits"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
)

// MipLevels is the length of the full mip chain down to 1x1.
func MipLevels(width, height int) int {
	longest := width
	if height > longest {
		longest = height
	}
	if longest < 1 {
		return 1
	}
	return bits.Len(uint(longest))
}

// mipExtent halves a dimension, stopping at 1.
func mipExtent(size int) int {
	if size > 1 {
		return size / 2
	}
	return 1
}

// GenerateMipmaps fills levels 1..mipLevels-1 by blitting each level from
// the one above and leaves every level in shader read layout. Level 0 must
// be in transfer destination layout.
func (d *Device) GenerateMipmaps(image core1_0.Image, format core1_0.Format, width, height, mipLevels int) error {
	props := d.instance.Driver.GetPhysicalDeviceFormatProperties(d.Physical, format)
	if props.OptimalTilingFeatures&core1_0.FormatFeatureSampledImageFilterLinear == 0 {
		return errors.Wrapf(ErrUnsupportedFormat, "%s does not support linear blitting", format)
	}

	return d.SingleTimeCommands(func(cmd core1_0.CommandBuffer) error {
		barrier := core1_0.ImageMemoryBarrier{
			Image:               image,
			SrcQueueFamilyIndex: -1,
			DstQueueFamilyIndex: -1,
			SubresourceRange: core1_0.ImageSubresourceRange{
				AspectMask:     core1_0.ImageAspectColor,
				BaseArrayLayer: 0,
				LayerCount:     1,
				LevelCount:     1,
			},
		}

		mipWidth, mipHeight := width, height
		for level := 1; level < mipLevels; level++ {
			barrier.SubresourceRange.BaseMipLevel = level - 1
			barrier.OldLayout = core1_0.ImageLayoutTransferDstOptimal
			barrier.NewLayout = core1_0.ImageLayoutTransferSrcOptimal
			barrier.SrcAccessMask = core1_0.AccessTransferWrite
			barrier.DstAccessMask = core1_0.AccessTransferRead

			err := d.Driver.CmdPipelineBarrier(cmd, core1_0.PipelineStageTransfer, core1_0.PipelineStageTransfer, 0, nil, nil, []core1_0.ImageMemoryBarrier{barrier})
			if err != nil {
				return err
			}

			nextWidth, nextHeight := mipExtent(mipWidth), mipExtent(mipHeight)
			err = d.Driver.CmdBlitImage(cmd, image, core1_0.ImageLayoutTransferSrcOptimal, image, core1_0.ImageLayoutTransferDstOptimal, []core1_0.ImageBlit{
				{
					SrcSubresource: core1_0.ImageSubresourceLayers{
						AspectMask:     core1_0.ImageAspectColor,
						MipLevel:       level - 1,
						BaseArrayLayer: 0,
						LayerCount:     1,
					},
					SrcOffsets: [2]core1_0.Offset3D{
						{X: 0, Y: 0, Z: 0},
						{X: mipWidth, Y: mipHeight, Z: 1},
					},
					DstSubresource: core1_0.ImageSubresourceLayers{
						AspectMask:     core1_0.ImageAspectColor,
						MipLevel:       level,
						BaseArrayLayer: 0,
						LayerCount:     1,
					},
					DstOffsets: [2]core1_0.Offset3D{
						{X: 0, Y: 0, Z: 0},
						{X: nextWidth, Y: nextHeight, Z: 1},
					},
				},
			}, core1_0.FilterLinear)
			if err != nil {
				return err
			}

			barrier.OldLayout = core1_0.ImageLayoutTransferSrcOptimal
			barrier.NewLayout = core1_0.ImageLayoutShaderReadOnlyOptimal
			barrier.SrcAccessMask = core1_0.AccessTransferRead
			barrier.DstAccessMask = core1_0.AccessShaderRead
			err = d.Driver.CmdPipelineBarrier(cmd, core1_0.PipelineStageTransfer, core1_0.PipelineStageFragmentShader, 0, nil, nil, []core1_0.ImageMemoryBarrier{barrier})
			if err != nil {
				return err
			}

			mipWidth, mipHeight = nextWidth, nextHeight
		}

		// The last level was only ever written to.
		barrier.SubresourceRange.BaseMipLevel = mipLevels - 1
		barrier.OldLayout = core1_0.ImageLayoutTransferDstOptimal
		barrier.NewLayout = core1_0.ImageLayoutShaderReadOnlyOptimal
		barrier.SrcAccessMask = core1_0.AccessTransferWrite
		barrier.DstAccessMask = core1_0.AccessShaderRead
		return d.Driver.CmdPipelineBarrier(cmd, core1_0.PipelineStageTransfer, core1_0.PipelineStageFragmentShader, 0, nil, nil, []core1_0.ImageMemoryBarrier{barrier})
	})
}
