// Package objload reads Wavefront OBJ meshes into mesh.Mesh using the g3n
// decoder.
package objload

import (
	"io"
	"io/fs"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/g3n/engine/loader/obj"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/vkngwrapper/vkscaffold/mesh"
)

// Load decodes an OBJ stream and its material library. Faces are
// triangulated, corners sharing position and texture coordinate are merged,
// and V is flipped to Vulkan's top-left texture origin. Every vertex is
// white; color comes from the texture.
func Load(objReader, mtlReader io.Reader) (*mesh.Mesh, error) {
	decoder, err := obj.DecodeReader(objReader, mtlReader)
	if err != nil {
		return nil, errors.Wrap(err, "decoding obj")
	}

	b := mesh.NewBuilder()
	lookup := func(key mesh.VertexKey) mesh.Vertex {
		v := mesh.Vertex{
			Pos: mgl32.Vec3{
				decoder.Vertices[key.Pos*3],
				decoder.Vertices[key.Pos*3+1],
				decoder.Vertices[key.Pos*3+2],
			},
			Color: mgl32.Vec3{1, 1, 1},
		}
		if key.UV >= 0 {
			v.UV = mgl32.Vec2{
				decoder.Uvs[key.UV*2],
				1.0 - decoder.Uvs[key.UV*2+1],
			}
		}
		return v
	}

	posCount := len(decoder.Vertices) / 3
	uvCount := len(decoder.Uvs) / 2
	for _, object := range decoder.Objects {
		for _, face := range object.Faces {
			keys := make([]mesh.VertexKey, len(face.Vertices))
			for i, vert := range face.Vertices {
				if vert < 0 || vert >= posCount {
					return nil, errors.Newf("face references vertex %d of %d", vert+1, posCount)
				}
				keys[i] = mesh.VertexKey{Pos: vert, UV: -1}
				if i < len(face.Uvs) && face.Uvs[i] >= 0 && face.Uvs[i] < uvCount {
					keys[i].UV = face.Uvs[i]
				}
			}
			b.Polygon(keys, lookup)
		}
	}

	m := b.Mesh()
	if len(m.Indices) == 0 {
		return nil, errors.New("obj contains no faces")
	}
	return m, nil
}

// LoadFS opens name and its sibling .mtl file from fsys. A missing material
// library is not an error.
func LoadFS(fsys fs.FS, name string) (*mesh.Mesh, error) {
	objFile, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer objFile.Close()

	var mtl io.Reader = strings.NewReader("")
	mtlFile, err := fsys.Open(strings.TrimSuffix(name, ".obj") + ".mtl")
	if err == nil {
		defer mtlFile.Close()
		mtl = mtlFile
	}

	return Load(objFile, mtl)
}
