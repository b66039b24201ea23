package render

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v3/core1_0"

	"github.com/vkngwrapper/vkscaffold/mesh"
)

func spirvWords(words ...uint32) []byte {
	b := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(b[i*4:], w)
	}
	return b
}

func TestDecodeSPIRV(t *testing.T) {
	code, err := DecodeSPIRV(spirvWords(spirvMagic, 0x00010000, 7))
	require.NoError(t, err)
	assert.Equal(t, []uint32{spirvMagic, 0x00010000, 7}, code)
}

func TestDecodeSPIRVRejects(t *testing.T) {
	for name, b := range map[string][]byte{
		"empty":     nil,
		"ragged":    append(spirvWords(spirvMagic), 0),
		"bad magic": spirvWords(0xdeadbeef, 0),
		"swapped":   spirvWords(0x03022307),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeSPIRV(b)
			assert.True(t, errors.Is(err, ErrInvalidSPIRV))
		})
	}
}

func TestReadShader(t *testing.T) {
	embedded := fstest.MapFS{"shaders/vert.spv": {Data: []byte("embedded")}}

	b, err := ReadShader(embedded, "", "shaders/vert.spv")
	require.NoError(t, err)
	assert.Equal(t, "embedded", string(b))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vert.spv"), []byte("override"), 0o644))
	b, err = ReadShader(embedded, dir, "shaders/vert.spv")
	require.NoError(t, err)
	assert.Equal(t, "override", string(b))

	_, err = ReadShader(embedded, "", "shaders/frag.spv")
	assert.Error(t, err)
}

func TestVertexInput(t *testing.T) {
	bindings := VertexBindings()
	require.Len(t, bindings, 1)
	assert.Equal(t, mesh.Stride(), bindings[0].Stride)
	assert.Equal(t, core1_0.VertexInputRateVertex, bindings[0].InputRate)

	attrs := VertexAttributes()
	require.Len(t, attrs, 3)
	assert.Equal(t, core1_0.FormatR32G32B32SignedFloat, attrs[0].Format)
	assert.Equal(t, core1_0.FormatR32G32B32SignedFloat, attrs[1].Format)
	assert.Equal(t, core1_0.FormatR32G32SignedFloat, attrs[2].Format)
	for i, attr := range attrs {
		assert.Equal(t, i, attr.Location)
		assert.Equal(t, mesh.Attributes()[i].Offset, attr.Offset)
	}
}

func TestViewportState(t *testing.T) {
	state := viewportState(core1_0.Extent2D{Width: 800, Height: 600})
	require.Len(t, state.Viewports, 1)
	assert.Equal(t, float32(800), state.Viewports[0].Width)
	assert.Equal(t, float32(1), state.Viewports[0].MaxDepth)
	assert.Equal(t, core1_0.Extent2D{Width: 800, Height: 600}, state.Scissors[0].Extent)
}
