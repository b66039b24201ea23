package objload

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadOBJ = `o quad
v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
f 1/1 2/2 3/3 4/4
`

func TestLoadQuad(t *testing.T) {
	m, err := Load(strings.NewReader(quadOBJ), strings.NewReader(""))
	require.NoError(t, err)

	assert.Len(t, m.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.Indices)

	// V is flipped for a top-left origin.
	assert.InDelta(t, 1.0, m.Vertices[0].UV.Y(), 1e-6)
	assert.InDelta(t, 0.0, m.Vertices[2].UV.Y(), 1e-6)
	assert.InDelta(t, 1.0, m.Vertices[1].Pos.X(), 1e-6)
	for _, v := range m.Vertices {
		assert.Equal(t, float32(1), v.Color.X())
	}
}

func TestLoadFSWithoutMaterials(t *testing.T) {
	fsys := fstest.MapFS{"models/quad.obj": {Data: []byte(quadOBJ)}}

	m, err := LoadFS(fsys, "models/quad.obj")
	require.NoError(t, err)
	assert.Equal(t, 6, m.Count())
}

func TestLoadFSMissingFile(t *testing.T) {
	_, err := LoadFS(fstest.MapFS{}, "missing.obj")
	require.Error(t, err)
}

func TestLoadRejectsOutOfRangeVertex(t *testing.T) {
	const obj = `v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 99
`
	var err error
	require.NotPanics(t, func() {
		_, err = Load(strings.NewReader(obj), strings.NewReader(""))
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vertex 99 of 3")
}
