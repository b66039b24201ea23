package render

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v3/core1_0"
)

func TestLayoutTransitionMasks(t *testing.T) {
	masks, err := LayoutTransitionMasks(core1_0.ImageLayoutUndefined, core1_0.ImageLayoutTransferDstOptimal)
	require.NoError(t, err)
	assert.Equal(t, TransitionMasks{
		DstAccess: core1_0.AccessTransferWrite,
		SrcStage:  core1_0.PipelineStageTopOfPipe,
		DstStage:  core1_0.PipelineStageTransfer,
	}, masks)

	masks, err = LayoutTransitionMasks(core1_0.ImageLayoutTransferDstOptimal, core1_0.ImageLayoutShaderReadOnlyOptimal)
	require.NoError(t, err)
	assert.Equal(t, core1_0.AccessTransferWrite, masks.SrcAccess)
	assert.Equal(t, core1_0.AccessShaderRead, masks.DstAccess)
	assert.Equal(t, core1_0.PipelineStageFragmentShader, masks.DstStage)

	masks, err = LayoutTransitionMasks(core1_0.ImageLayoutUndefined, core1_0.ImageLayoutDepthStencilAttachmentOptimal)
	require.NoError(t, err)
	assert.Equal(t, core1_0.PipelineStageEarlyFragmentTests, masks.DstStage)
	assert.NotZero(t, masks.DstAccess&core1_0.AccessDepthStencilAttachmentWrite)
}

func TestLayoutTransitionMasksUnsupported(t *testing.T) {
	_, err := LayoutTransitionMasks(core1_0.ImageLayoutShaderReadOnlyOptimal, core1_0.ImageLayoutTransferDstOptimal)
	assert.True(t, errors.Is(err, ErrUnsupportedLayoutTransition))
}

func TestTransitionAspect(t *testing.T) {
	assert.Equal(t, core1_0.ImageAspectColor,
		transitionAspect(core1_0.ImageLayoutTransferDstOptimal, core1_0.FormatR8G8B8A8SRGB))
	assert.Equal(t, core1_0.ImageAspectDepth,
		transitionAspect(core1_0.ImageLayoutDepthStencilAttachmentOptimal, core1_0.FormatD32SignedFloat))
	assert.Equal(t, core1_0.ImageAspectDepth|core1_0.ImageAspectStencil,
		transitionAspect(core1_0.ImageLayoutDepthStencilAttachmentOptimal, core1_0.FormatD24UnsignedNormalizedS8UnsignedInt))
}

func TestMipLevels(t *testing.T) {
	for _, tc := range []struct {
		width, height, levels int
	}{
		{1, 1, 1},
		{2, 1, 2},
		{3, 3, 2},
		{256, 256, 9},
		{512, 300, 10},
		{300, 1024, 11},
		{0, 0, 1},
	} {
		assert.Equal(t, tc.levels, MipLevels(tc.width, tc.height), "%dx%d", tc.width, tc.height)
	}
}

func TestMipExtent(t *testing.T) {
	assert.Equal(t, 256, mipExtent(512))
	assert.Equal(t, 1, mipExtent(3))
	assert.Equal(t, 1, mipExtent(1))
}

func TestFindSupportedFormat(t *testing.T) {
	features := func(format core1_0.Format) (core1_0.FormatFeatureFlags, core1_0.FormatFeatureFlags) {
		switch format {
		case core1_0.FormatD32SignedFloatS8UnsignedInt:
			return 0, core1_0.FormatFeatureDepthStencilAttachment
		case core1_0.FormatD24UnsignedNormalizedS8UnsignedInt:
			return core1_0.FormatFeatureDepthStencilAttachment, core1_0.FormatFeatureDepthStencilAttachment
		}
		return 0, 0
	}

	format, err := FindSupportedFormat(depthFormats, core1_0.ImageTilingOptimal, core1_0.FormatFeatureDepthStencilAttachment, features)
	require.NoError(t, err)
	assert.Equal(t, core1_0.FormatD32SignedFloatS8UnsignedInt, format)

	format, err = FindSupportedFormat(depthFormats, core1_0.ImageTilingLinear, core1_0.FormatFeatureDepthStencilAttachment, features)
	require.NoError(t, err)
	assert.Equal(t, core1_0.FormatD24UnsignedNormalizedS8UnsignedInt, format)

	_, err = FindSupportedFormat(depthFormats[:1], core1_0.ImageTilingOptimal, core1_0.FormatFeatureDepthStencilAttachment, features)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestHasStencilComponent(t *testing.T) {
	assert.False(t, HasStencilComponent(core1_0.FormatD32SignedFloat))
	assert.True(t, HasStencilComponent(core1_0.FormatD32SignedFloatS8UnsignedInt))
}
