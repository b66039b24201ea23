package render

import (
	"github.com/vkngwrapper/core/v3/core1_0"

	"github.com/vkngwrapper/vkscaffold/mesh"
)

// MeshBuffers holds a mesh uploaded to device local memory. Index is nil for
// unindexed meshes.
type MeshBuffers struct {
	Vertex *Buffer
	Index  *Buffer
	Count  int
}

func (d *Device) UploadMesh(m *mesh.Mesh) (*MeshBuffers, error) {
	mb := &MeshBuffers{Count: m.Count()}

	var err error
	mb.Vertex, err = d.UploadBuffer(core1_0.BufferUsageVertexBuffer, m.Vertices)
	if err != nil {
		return nil, err
	}

	if m.Indexed() {
		mb.Index, err = d.UploadBuffer(core1_0.BufferUsageIndexBuffer, m.Indices)
		if err != nil {
			d.DestroyMesh(mb)
			return nil, err
		}
	}
	return mb, nil
}

// Draw binds the buffers and issues one draw of the whole mesh.
func (mb *MeshBuffers) Draw(driver core1_0.DeviceDriver, cmd core1_0.CommandBuffer) {
	driver.CmdBindVertexBuffers(cmd, 0, []core1_0.Buffer{mb.Vertex.Handle}, []int{0})
	if mb.Index == nil {
		driver.CmdDraw(cmd, mb.Count, 1, 0, 0)
		return
	}
	driver.CmdBindIndexBuffer(cmd, mb.Index.Handle, 0, core1_0.IndexTypeUInt32)
	driver.CmdDrawIndexed(cmd, mb.Count, 1, 0, 0, 0)
}

func (d *Device) DestroyMesh(mb *MeshBuffers) {
	if mb == nil {
		return
	}
	d.DestroyBuffer(mb.Vertex)
	d.DestroyBuffer(mb.Index)
	mb.Vertex, mb.Index = nil, nil
}
