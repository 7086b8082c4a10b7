package index

import (
	"fmt"
	"sort"

	"github.com/ssargent/keydeck/pkg/bptree"
	"github.com/ssargent/keydeck/pkg/keyword"
	"github.com/ssargent/keydeck/pkg/model"
)

type nodeRef struct {
	block *keyword.Nodes
	index int
}

func (r nodeRef) node() *keyword.Node {
	return &r.block.Nodes[r.index]
}

// NodeManager indexes nodes by id and maps each node to the elements that
// reference it. Spatial queries are linear scans.
type NodeManager struct {
	model *model.Model
	built bool

	ids       *bptree.BPlusTree[int, nodeRef]
	connected map[int][]int
}

// NewNodeManager creates an unbuilt manager over m.
func NewNodeManager(m *model.Model) *NodeManager {
	return &NodeManager{model: m}
}

// Build scans the model. When a node id appears more than once the first
// occurrence is indexed.
func (nm *NodeManager) Build() error {
	ids := bptree.NewBPlusTree[int, nodeRef](treeOrder)
	for _, block := range nm.model.NodeBlocks() {
		for i, nd := range block.Nodes {
			if _, exists := ids.Search(nd.ID); !exists {
				ids.Insert(nd.ID, nodeRef{block: block, index: i})
			}
		}
	}

	connected := make(map[int][]int)
	scanElements(nm.model, func(e keyword.Element, dup bool) {
		if dup {
			return
		}
		for _, nid := range uniqueNodes(e.Nodes) {
			connected[nid] = append(connected[nid], e.ID)
		}
	})
	for nid := range connected {
		sort.Ints(connected[nid])
	}

	nm.ids = ids
	nm.connected = connected
	nm.built = true
	return nil
}

// Built reports whether Build has run.
func (nm *NodeManager) Built() bool {
	return nm.built
}

// Count returns the number of indexed nodes.
func (nm *NodeManager) Count() int {
	if !nm.built {
		return 0
	}
	return nm.ids.Len()
}

func (nm *NodeManager) lookup(id int) (nodeRef, error) {
	if !nm.built {
		return nodeRef{}, ErrNotBuilt
	}
	ref, ok := nm.ids.Search(id)
	if !ok {
		return nodeRef{}, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	return ref, nil
}

// Node returns a copy of the node with the given id.
func (nm *NodeManager) Node(id int) (keyword.Node, error) {
	ref, err := nm.lookup(id)
	if err != nil {
		return keyword.Node{}, err
	}
	return *ref.node(), nil
}

// Position returns the coordinates of a node.
func (nm *NodeManager) Position(id int) ([3]float64, error) {
	ref, err := nm.lookup(id)
	if err != nil {
		return [3]float64{}, err
	}
	return ref.node().Position(), nil
}

// Has reports whether id is indexed.
func (nm *NodeManager) Has(id int) bool {
	_, err := nm.lookup(id)
	return err == nil
}

// IDs returns every node id in ascending order.
func (nm *NodeManager) IDs() ([]int, error) {
	if !nm.built {
		return nil, ErrNotBuilt
	}
	return nm.ids.Keys(), nil
}

// IDsInRange returns the node ids in [lo, hi] in ascending order.
func (nm *NodeManager) IDsInRange(lo, hi int) ([]int, error) {
	if !nm.built {
		return nil, ErrNotBuilt
	}
	var out []int
	nm.ids.Range(lo, hi, func(id int, _ nodeRef) bool {
		out = append(out, id)
		return true
	})
	return out, nil
}

// ConnectedElements returns the ids of the elements that reference a node,
// in ascending order.
func (nm *NodeManager) ConnectedElements(id int) ([]int, error) {
	if _, err := nm.lookup(id); err != nil {
		return nil, err
	}
	return append([]int(nil), nm.connected[id]...), nil
}

// BoundingBox returns the box around every indexed node.
func (nm *NodeManager) BoundingBox() (BoundingBox, error) {
	if !nm.built {
		return BoundingBox{}, ErrNotBuilt
	}
	if nm.ids.Len() == 0 {
		return BoundingBox{}, ErrEmpty
	}
	box := emptyBox()
	nm.ids.Ascend(func(_ int, ref nodeRef) bool {
		box.extend(ref.node().Position())
		return true
	})
	return box, nil
}

// Nearest returns the node closest to p and its distance. Ties go to the
// lower id.
func (nm *NodeManager) Nearest(p [3]float64) (int, float64, error) {
	if !nm.built {
		return 0, 0, ErrNotBuilt
	}
	best, bestDist := 0, 0.0
	found := false
	nm.ids.Ascend(func(id int, ref nodeRef) bool {
		d := distance(p, ref.node().Position())
		if !found || d < bestDist {
			best, bestDist, found = id, d, true
		}
		return true
	})
	if !found {
		return 0, 0, ErrEmpty
	}
	return best, bestDist, nil
}

// WithinRadius returns the ids of the nodes no farther than r from p, in
// ascending order.
func (nm *NodeManager) WithinRadius(p [3]float64, r float64) ([]int, error) {
	if !nm.built {
		return nil, ErrNotBuilt
	}
	var out []int
	nm.ids.Ascend(func(id int, ref nodeRef) bool {
		if distance(p, ref.node().Position()) <= r {
			out = append(out, id)
		}
		return true
	})
	return out, nil
}

// SetPosition moves a node. The change is written to the owning *NODE
// keyword.
func (nm *NodeManager) SetPosition(id int, p [3]float64) error {
	ref, err := nm.lookup(id)
	if err != nil {
		return err
	}
	ref.node().SetPosition(p)
	return nil
}

// Translate moves the given nodes by d. A nil ids moves every node. No node
// is moved when any id is unknown.
func (nm *NodeManager) Translate(ids []int, d [3]float64) error {
	return nm.apply(ids, func(p [3]float64) [3]float64 {
		return [3]float64{p[0] + d[0], p[1] + d[1], p[2] + d[2]}
	})
}

// Scale scales the given nodes about origin. A nil ids scales every node.
func (nm *NodeManager) Scale(ids []int, origin [3]float64, factor float64) error {
	return nm.apply(ids, func(p [3]float64) [3]float64 {
		var out [3]float64
		for i := range p {
			out[i] = origin[i] + (p[i]-origin[i])*factor
		}
		return out
	})
}

func (nm *NodeManager) apply(ids []int, fn func([3]float64) [3]float64) error {
	if !nm.built {
		return ErrNotBuilt
	}
	var refs []nodeRef
	if ids == nil {
		nm.ids.Ascend(func(_ int, ref nodeRef) bool {
			refs = append(refs, ref)
			return true
		})
	} else {
		refs = make([]nodeRef, 0, len(ids))
		for _, id := range ids {
			ref, err := nm.lookup(id)
			if err != nil {
				return err
			}
			refs = append(refs, ref)
		}
	}
	seen := make(map[*keyword.Node]struct{}, len(refs))
	for _, ref := range refs {
		nd := ref.node()
		if _, done := seen[nd]; done {
			continue
		}
		seen[nd] = struct{}{}
		nd.SetPosition(fn(nd.Position()))
	}
	return nil
}
