package render

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v3/core1_0"
)

func TestFindMemoryType(t *testing.T) {
	types := []core1_0.MemoryPropertyFlags{
		core1_0.MemoryPropertyDeviceLocal,
		core1_0.MemoryPropertyHostVisible,
		core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent,
		core1_0.MemoryPropertyDeviceLocal | core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent,
	}
	hostCoherent := core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent

	idx, err := FindMemoryType(types, 0b1111, hostCoherent)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	// Type 2 is excluded by the requirement bits.
	idx, err = FindMemoryType(types, 0b1011, hostCoherent)
	require.NoError(t, err)
	assert.Equal(t, 3, idx)

	idx, err = FindMemoryType(types, 0b1111, core1_0.MemoryPropertyDeviceLocal)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	_, err = FindMemoryType(types, 0b0011, hostCoherent)
	assert.True(t, errors.Is(err, ErrNoMemoryType))
}

func TestEncode(t *testing.T) {
	raw := []byte{1, 2, 3}
	b, err := encode(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, b)

	b, err = encode([]uint32{1, 0x01020304})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 0, 0, 4, 3, 2, 1}, b)

	_, err = encode(map[string]int{})
	assert.Error(t, err)
}
