package keyword

import (
	"fmt"

	"github.com/ssargent/keydeck/pkg/codec"
)

// Node is one point of the mesh. TC and RC are the translational and
// rotational constraint codes.
type Node struct {
	ID      int
	X, Y, Z float64
	TC, RC  int
}

// Position returns the node coordinates.
func (n Node) Position() [3]float64 {
	return [3]float64{n.X, n.Y, n.Z}
}

// SetPosition replaces the node coordinates.
func (n *Node) SetPosition(p [3]float64) {
	n.X, n.Y, n.Z = p[0], p[1], p[2]
}

// Nodes is a *NODE block.
type Nodes struct {
	Nodes []Node

	index   map[int]int
	indexed int
}

func (n *Nodes) Name() string { return "NODE" }

// Decode reads one node per card: NID X Y Z TC RC.
func (n *Nodes) Decode(lines []string, f codec.Format) error {
	n.Nodes = n.Nodes[:0]
	n.index = nil
	for i, line := range lines {
		if isBlank(line) {
			continue
		}
		var nd Node
		err := codec.ReadCard(line, f, func(r *codec.LineReader) {
			nd.ID = r.Int(0)
			nd.X = r.Real(0)
			nd.Y = r.Real(0)
			nd.Z = r.Real(0)
			nd.TC = r.Int(0)
			nd.RC = r.Int(0)
		})
		if err != nil {
			return decodeErr(n.Name(), i, err)
		}
		if nd.ID == 0 {
			return decodeErr(n.Name(), i, ErrMissingID)
		}
		n.Nodes = append(n.Nodes, nd)
	}
	return nil
}

func (n *Nodes) Encode(f codec.Format) ([]string, error) {
	lines := make([]string, 0, len(n.Nodes))
	for _, nd := range n.Nodes {
		w := codec.NewLineWriter(f)
		w.Int(nd.ID).Real(nd.X).Real(nd.Y).Real(nd.Z).OptInt(nd.TC).OptInt(nd.RC)
		var err error
		if lines, err = finish(w, lines); err != nil {
			return nil, fmt.Errorf("node %d: %w", nd.ID, err)
		}
	}
	return lines, nil
}

func (n *Nodes) Clone() Keyword {
	return &Nodes{Nodes: append([]Node(nil), n.Nodes...)}
}

// Len returns the number of nodes in the block.
func (n *Nodes) Len() int {
	return len(n.Nodes)
}

// Find returns the node with the given id. The returned pointer aliases the
// block and stays valid until the block is modified.
func (n *Nodes) Find(id int) (*Node, bool) {
	if n.index == nil || n.indexed != len(n.Nodes) {
		n.Reindex()
	}
	i, ok := n.index[id]
	if !ok || i >= len(n.Nodes) || n.Nodes[i].ID != id {
		return nil, false
	}
	return &n.Nodes[i], true
}

// Add appends a node to the block.
func (n *Nodes) Add(nd Node) {
	n.Nodes = append(n.Nodes, nd)
	if n.index != nil && n.indexed == len(n.Nodes)-1 {
		if _, exists := n.index[nd.ID]; !exists {
			n.index[nd.ID] = len(n.Nodes) - 1
		}
		n.indexed++
	}
}

// Remove deletes the node with the given id.
func (n *Nodes) Remove(id int) bool {
	for i := range n.Nodes {
		if n.Nodes[i].ID == id {
			n.Nodes = append(n.Nodes[:i], n.Nodes[i+1:]...)
			n.index = nil
			return true
		}
	}
	return false
}

// Reindex rebuilds the id lookup table. Call it after editing node ids in
// place.
func (n *Nodes) Reindex() {
	n.index = make(map[int]int, len(n.Nodes))
	for i, nd := range n.Nodes {
		if _, exists := n.index[nd.ID]; !exists {
			n.index[nd.ID] = i
		}
	}
	n.indexed = len(n.Nodes)
}
