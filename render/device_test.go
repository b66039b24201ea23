package render

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v3/core1_0"
)

func intPtr(i int) *int {
	return &i
}

func TestFindQueueFamiliesPrefersSharedFamily(t *testing.T) {
	indices := FindQueueFamilies(
		[]bool{true, false, true},
		[]bool{false, true, true},
	)
	require.True(t, indices.IsComplete())
	assert.Equal(t, 2, *indices.Graphics)
	assert.Equal(t, 2, *indices.Present)
	assert.Equal(t, []int{2}, indices.Unique())
}

func TestFindQueueFamiliesSplit(t *testing.T) {
	indices := FindQueueFamilies(
		[]bool{false, true, true},
		[]bool{true, false, false},
	)
	require.True(t, indices.IsComplete())
	assert.Equal(t, 1, *indices.Graphics)
	assert.Equal(t, 0, *indices.Present)
	assert.Equal(t, []int{1, 0}, indices.Unique())
}

func TestFindQueueFamiliesIncomplete(t *testing.T) {
	indices := FindQueueFamilies([]bool{true, true}, []bool{false, false})
	assert.False(t, indices.IsComplete())
	assert.NotNil(t, indices.Graphics)
	assert.Nil(t, indices.Present)

	assert.False(t, FindQueueFamilies(nil, nil).IsComplete())
}

func suitable(kind DeviceKind, maxDim int) DeviceCandidate {
	return DeviceCandidate{
		Kind:                kind,
		MaxImageDimension2D: maxDim,
		Queues:              QueueFamilyIndices{Graphics: intPtr(0), Present: intPtr(0)},
		HasSwapchain:        true,
		HasFormats:          true,
		HasPresentModes:     true,
		Anisotropy:          true,
	}
}

func TestScoreDeviceUnsuitable(t *testing.T) {
	for name, mutate := range map[string]func(*DeviceCandidate){
		"no queues":        func(c *DeviceCandidate) { c.Queues = QueueFamilyIndices{} },
		"no swapchain":     func(c *DeviceCandidate) { c.HasSwapchain = false },
		"no formats":       func(c *DeviceCandidate) { c.HasFormats = false },
		"no present modes": func(c *DeviceCandidate) { c.HasPresentModes = false },
	} {
		t.Run(name, func(t *testing.T) {
			c := suitable(KindDiscrete, 16384)
			mutate(&c)
			_, ok := ScoreDevice(c, false)
			assert.False(t, ok)
		})
	}
}

func TestScoreDeviceAnisotropy(t *testing.T) {
	c := suitable(KindIntegrated, 8192)
	c.Anisotropy = false

	_, ok := ScoreDevice(c, true)
	assert.False(t, ok)

	_, ok = ScoreDevice(c, false)
	assert.True(t, ok)
}

func TestScoreDeviceKindDominates(t *testing.T) {
	discrete, _ := ScoreDevice(suitable(KindDiscrete, 4096), false)
	integrated, _ := ScoreDevice(suitable(KindIntegrated, 32768), false)
	virtual, _ := ScoreDevice(suitable(KindVirtual, 32768), false)
	cpu, _ := ScoreDevice(suitable(KindCPU, 32768), false)

	assert.Greater(t, discrete, integrated)
	assert.Greater(t, integrated, virtual)
	assert.Greater(t, virtual, cpu)

	big, _ := ScoreDevice(suitable(KindDiscrete, 16384), false)
	assert.Greater(t, big, discrete)
}

func TestPickBest(t *testing.T) {
	broken := suitable(KindDiscrete, 32768)
	broken.HasSwapchain = false

	best, err := PickBest([]DeviceCandidate{
		suitable(KindIntegrated, 16384),
		broken,
		suitable(KindDiscrete, 8192),
		suitable(KindDiscrete, 8192),
	}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, best)
}

func TestPickBestNoneSuitable(t *testing.T) {
	c := suitable(KindDiscrete, 1)
	c.Queues = QueueFamilyIndices{}

	_, err := PickBest([]DeviceCandidate{c}, false)
	assert.True(t, errors.Is(err, ErrNoSuitableDevice))

	_, err = PickBest(nil, false)
	assert.True(t, errors.Is(err, ErrNoSuitableDevice))
}

func TestSortedByScore(t *testing.T) {
	broken := suitable(KindDiscrete, 1)
	broken.HasFormats = false

	order := SortedByScore([]DeviceCandidate{
		broken,
		suitable(KindIntegrated, 1),
		suitable(KindDiscrete, 1),
	}, false)
	assert.Equal(t, []int{2, 1, 0}, order)
}

func TestMaxUsableSampleCount(t *testing.T) {
	assert.Equal(t, core1_0.Samples8, MaxUsableSampleCount(core1_0.Samples1|core1_0.Samples2|core1_0.Samples4|core1_0.Samples8))
	assert.Equal(t, core1_0.Samples4, MaxUsableSampleCount(core1_0.Samples1|core1_0.Samples4))
	assert.Equal(t, core1_0.Samples1, MaxUsableSampleCount(core1_0.Samples1))
	assert.Equal(t, core1_0.Samples1, MaxUsableSampleCount(0))
}

func TestDeviceKindString(t *testing.T) {
	assert.Equal(t, "discrete", KindDiscrete.String())
	assert.Equal(t, "other", KindOther.String())
}
