package mesh

// VertexKey identifies a unique combination of position and texture
// coordinate indices in a source file. UV is -1 when the corner has none.
type VertexKey struct {
	Pos int
	UV  int
}

// Builder assembles an indexed mesh from polygons, sharing vertices whose
// keys repeat.
type Builder struct {
	mesh   Mesh
	unique map[VertexKey]uint32
}

func NewBuilder() *Builder {
	return &Builder{unique: make(map[VertexKey]uint32)}
}

// Polygon triangulates a convex polygon as a fan around its first corner.
// lookup is called once for each key not seen before. Polygons with fewer
// than three corners are ignored.
func (b *Builder) Polygon(keys []VertexKey, lookup func(VertexKey) Vertex) {
	for i := 2; i < len(keys); i++ {
		b.corner(keys[0], lookup)
		b.corner(keys[i-1], lookup)
		b.corner(keys[i], lookup)
	}
}

func (b *Builder) corner(key VertexKey, lookup func(VertexKey) Vertex) {
	index, ok := b.unique[key]
	if !ok {
		index = uint32(len(b.mesh.Vertices))
		b.mesh.Vertices = append(b.mesh.Vertices, lookup(key))
		b.unique[key] = index
	}
	b.mesh.Indices = append(b.mesh.Indices, index)
}

func (b *Builder) Mesh() *Mesh {
	m := b.mesh
	return &m
}
