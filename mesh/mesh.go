// Package mesh holds vertex data for the examples and the layout the
// pipeline needs to read it.
package mesh

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

type Vertex struct {
	Pos   mgl32.Vec3
	Color mgl32.Vec3
	UV    mgl32.Vec2
}

// Attribute describes one shader input read from Vertex.
type Attribute struct {
	Location   int
	Offset     int
	Components int
}

// Stride is the byte distance between consecutive vertices.
func Stride() int {
	return int(unsafe.Sizeof(Vertex{}))
}

// Attributes lists position, color and texture coordinate at locations
// 0, 1 and 2.
func Attributes() []Attribute {
	v := Vertex{}
	return []Attribute{
		{Location: 0, Offset: int(unsafe.Offsetof(v.Pos)), Components: 3},
		{Location: 1, Offset: int(unsafe.Offsetof(v.Color)), Components: 3},
		{Location: 2, Offset: int(unsafe.Offsetof(v.UV)), Components: 2},
	}
}

type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

func (m *Mesh) Indexed() bool {
	return len(m.Indices) > 0
}

// Count is the number of vertices a draw call consumes.
func (m *Mesh) Count() int {
	if m.Indexed() {
		return len(m.Indices)
	}
	return len(m.Vertices)
}

// Triangle is the unindexed red/green/blue triangle.
func Triangle() *Mesh {
	return &Mesh{
		Vertices: []Vertex{
			{Pos: mgl32.Vec3{0, -0.5, 0}, Color: mgl32.Vec3{1, 0, 0}, UV: mgl32.Vec2{0.5, 0}},
			{Pos: mgl32.Vec3{0.5, 0.5, 0}, Color: mgl32.Vec3{0, 1, 0}, UV: mgl32.Vec2{1, 1}},
			{Pos: mgl32.Vec3{-0.5, 0.5, 0}, Color: mgl32.Vec3{0, 0, 1}, UV: mgl32.Vec2{0, 1}},
		},
	}
}

// Quad is a unit square on the Z=z plane, wound counter-clockwise when
// viewed from +Z.
func Quad(z float32) *Mesh {
	return &Mesh{
		Vertices: []Vertex{
			{Pos: mgl32.Vec3{-0.5, -0.5, z}, Color: mgl32.Vec3{1, 0, 0}, UV: mgl32.Vec2{1, 0}},
			{Pos: mgl32.Vec3{0.5, -0.5, z}, Color: mgl32.Vec3{0, 1, 0}, UV: mgl32.Vec2{0, 0}},
			{Pos: mgl32.Vec3{0.5, 0.5, z}, Color: mgl32.Vec3{0, 0, 1}, UV: mgl32.Vec2{0, 1}},
			{Pos: mgl32.Vec3{-0.5, 0.5, z}, Color: mgl32.Vec3{1, 1, 1}, UV: mgl32.Vec2{1, 1}},
		},
		Indices: []uint32{0, 1, 2, 2, 3, 0},
	}
}

// Cube is a unit cube centered on the origin with one color per face.
func Cube() *Mesh {
	type face struct {
		normal, u, v mgl32.Vec3
		color        mgl32.Vec3
	}
	faces := []face{
		{normal: mgl32.Vec3{0, 0, 1}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 1, 0}, color: mgl32.Vec3{1, 0, 0}},
		{normal: mgl32.Vec3{0, 0, -1}, u: mgl32.Vec3{-1, 0, 0}, v: mgl32.Vec3{0, 1, 0}, color: mgl32.Vec3{0, 1, 0}},
		{normal: mgl32.Vec3{1, 0, 0}, u: mgl32.Vec3{0, 0, -1}, v: mgl32.Vec3{0, 1, 0}, color: mgl32.Vec3{0, 0, 1}},
		{normal: mgl32.Vec3{-1, 0, 0}, u: mgl32.Vec3{0, 0, 1}, v: mgl32.Vec3{0, 1, 0}, color: mgl32.Vec3{1, 1, 0}},
		{normal: mgl32.Vec3{0, 1, 0}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 0, -1}, color: mgl32.Vec3{0, 1, 1}},
		{normal: mgl32.Vec3{0, -1, 0}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 0, 1}, color: mgl32.Vec3{1, 0, 1}},
	}

	m := &Mesh{}
	for _, f := range faces {
		center := f.normal.Mul(0.5)
		corners := [4][2]float32{{-0.5, -0.5}, {0.5, -0.5}, {0.5, 0.5}, {-0.5, 0.5}}
		base := uint32(len(m.Vertices))
		for _, c := range corners {
			pos := center.Add(f.u.Mul(c[0])).Add(f.v.Mul(c[1]))
			m.Vertices = append(m.Vertices, Vertex{
				Pos:   pos,
				Color: f.color,
				UV:    mgl32.Vec2{c[0] + 0.5, 0.5 - c[1]},
			})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base+2, base+3, base)
	}
	return m
}
