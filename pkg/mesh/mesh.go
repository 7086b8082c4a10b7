// Package mesh converts between surface meshes produced by a meshing kernel
// and deck keywords.
package mesh

import (
	"errors"
	"fmt"

	"github.com/ssargent/keydeck/pkg/index"
	"github.com/ssargent/keydeck/pkg/keyword"
	"github.com/ssargent/keydeck/pkg/model"
)

var (
	ErrBadVertices = errors.New("vertex array length is not a multiple of 3")
	ErrBadQuad     = errors.New("quad references a missing vertex")
)

// Mesh is a quad-dominant surface mesh. Vertices holds x, y, z triples and
// quads index into it from zero. Triangles repeat their last vertex.
type Mesh struct {
	Vertices []float64
	Quads    [][4]int
	PartName string
}

// VertexCount returns the number of vertices.
func (msh *Mesh) VertexCount() int {
	return len(msh.Vertices) / 3
}

// Vertex returns the coordinates of vertex i.
func (msh *Mesh) Vertex(i int) [3]float64 {
	return [3]float64{msh.Vertices[3*i], msh.Vertices[3*i+1], msh.Vertices[3*i+2]}
}

// Validate checks the vertex array and every quad reference.
func (msh *Mesh) Validate() error {
	if len(msh.Vertices)%3 != 0 {
		return ErrBadVertices
	}
	n := msh.VertexCount()
	for i, q := range msh.Quads {
		for _, v := range q {
			if v < 0 || v >= n {
				return fmt.Errorf("quad %d: %w: %d", i, ErrBadQuad, v)
			}
		}
	}
	return nil
}

// Options place converted keywords in a deck. Vertex i becomes node
// NodeOffset+i+1 and quad j becomes shell ElementOffset+j+1.
type Options struct {
	NodeOffset    int
	ElementOffset int
	PartID        int
}

// ToKeywords converts msh into a node block and a shell block.
func ToKeywords(msh *Mesh, opts Options) (*keyword.Nodes, *keyword.Shells, error) {
	if err := msh.Validate(); err != nil {
		return nil, nil, err
	}
	nodes := &keyword.Nodes{Nodes: make([]keyword.Node, 0, msh.VertexCount())}
	for i := 0; i < msh.VertexCount(); i++ {
		p := msh.Vertex(i)
		nodes.Nodes = append(nodes.Nodes, keyword.Node{ID: opts.NodeOffset + i + 1, X: p[0], Y: p[1], Z: p[2]})
	}
	shells := &keyword.Shells{Elements: make([]keyword.Shell, 0, len(msh.Quads))}
	for j, q := range msh.Quads {
		s := keyword.Shell{ID: opts.ElementOffset + j + 1, PartID: opts.PartID}
		for k, v := range q {
			s.N[k] = opts.NodeOffset + v + 1
		}
		shells.Elements = append(shells.Elements, s)
	}
	return nodes, shells, nil
}

// AppendTo adds msh to m. A *PART titled with the mesh's part name is added
// when opts.PartID is not defined yet.
func AppendTo(m *model.Model, msh *Mesh, opts Options) error {
	nodes, shells, err := ToKeywords(msh, opts)
	if err != nil {
		return err
	}
	if err := m.Add(nodes); err != nil {
		return err
	}
	if err := m.Add(shells); err != nil {
		return err
	}
	if _, ok := m.FindPart(opts.PartID); ok {
		return nil
	}
	return m.Add(&keyword.Parts{Parts: []keyword.Part{{ID: opts.PartID, Title: msh.PartName}}})
}

// FromPart extracts the outer surface of a part: its shells and the solid
// faces no other element of the part shares. Vertices are numbered in the
// order the faces use them. The managers must be built over the same model.
func FromPart(pm *index.PartManager, em *index.ElementManager, nm *index.NodeManager, pid int) (*Mesh, error) {
	elems, err := pm.Elements(pid)
	if err != nil {
		return nil, err
	}
	segs, err := em.BoundarySegments(elems)
	if err != nil {
		return nil, err
	}

	msh := &Mesh{}
	if p, err := pm.Part(pid); err == nil {
		msh.PartName = p.Title
	}
	vertex := make(map[int]int)
	for _, s := range segs {
		var q [4]int
		for k := range q {
			nid := s[min(k, len(s)-1)]
			v, ok := vertex[nid]
			if !ok {
				p, err := nm.Position(nid)
				if err != nil {
					return nil, err
				}
				v = len(vertex)
				vertex[nid] = v
				msh.Vertices = append(msh.Vertices, p[0], p[1], p[2])
			}
			q[k] = v
		}
		msh.Quads = append(msh.Quads, q)
	}
	return msh, nil
}
