package index

import (
	"fmt"
	"sort"

	"github.com/ssargent/keydeck/pkg/bptree"
	"github.com/ssargent/keydeck/pkg/keyword"
	"github.com/ssargent/keydeck/pkg/model"
)

// PartStats summarizes one part.
type PartStats struct {
	ID         int
	Title      string
	SectionID  int
	MaterialID int
	Elements   map[keyword.ElementType]int
	Nodes      int
	Box        BoundingBox
	Centroid   [3]float64
}

// ElementCount returns the number of elements over every family.
func (s PartStats) ElementCount() int {
	n := 0
	for _, c := range s.Elements {
		n += c
	}
	return n
}

// PartManager groups elements and nodes by the part they belong to.
type PartManager struct {
	model *model.Model
	built bool

	ids      *bptree.BPlusTree[int, *keyword.Part]
	elements map[int][]int
	nodes    map[int][]int
	types    map[int]map[keyword.ElementType]int
	partOf   map[int]int
}

// NewPartManager creates an unbuilt manager over m.
func NewPartManager(m *model.Model) *PartManager {
	return &PartManager{model: m}
}

// Build scans the model. Elements are grouped under the part id they
// reference even when no *PART defines it.
func (pm *PartManager) Build() error {
	ids := bptree.NewBPlusTree[int, *keyword.Part](treeOrder)
	for _, block := range pm.model.PartBlocks() {
		for i := range block.Parts {
			p := &block.Parts[i]
			if _, exists := ids.Search(p.ID); !exists {
				ids.Insert(p.ID, p)
			}
		}
	}

	elements := make(map[int][]int)
	types := make(map[int]map[keyword.ElementType]int)
	nodeSets := make(map[int]map[int]struct{})
	partOf := make(map[int]int)
	scanElements(pm.model, func(e keyword.Element, dup bool) {
		if dup {
			return
		}
		partOf[e.ID] = e.PartID
		elements[e.PartID] = append(elements[e.PartID], e.ID)
		if types[e.PartID] == nil {
			types[e.PartID] = make(map[keyword.ElementType]int)
			nodeSets[e.PartID] = make(map[int]struct{})
		}
		types[e.PartID][e.Type]++
		for _, nid := range e.Nodes {
			if nid != 0 {
				nodeSets[e.PartID][nid] = struct{}{}
			}
		}
	})

	nodes := make(map[int][]int, len(nodeSets))
	for pid, set := range nodeSets {
		list := make([]int, 0, len(set))
		for nid := range set {
			list = append(list, nid)
		}
		sort.Ints(list)
		nodes[pid] = list
		sort.Ints(elements[pid])
	}

	pm.ids = ids
	pm.elements = elements
	pm.nodes = nodes
	pm.types = types
	pm.partOf = partOf
	pm.built = true
	return nil
}

// Built reports whether Build has run.
func (pm *PartManager) Built() bool {
	return pm.built
}

// Count returns the number of defined parts.
func (pm *PartManager) Count() int {
	if !pm.built {
		return 0
	}
	return pm.ids.Len()
}

// IDs returns the ids of the defined parts in ascending order.
func (pm *PartManager) IDs() ([]int, error) {
	if !pm.built {
		return nil, ErrNotBuilt
	}
	return pm.ids.Keys(), nil
}

func (pm *PartManager) lookup(id int) (*keyword.Part, error) {
	if !pm.built {
		return nil, ErrNotBuilt
	}
	p, ok := pm.ids.Search(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPart, id)
	}
	return p, nil
}

// known reports whether pid is defined or referenced by an element.
func (pm *PartManager) known(pid int) error {
	if !pm.built {
		return ErrNotBuilt
	}
	if _, ok := pm.ids.Search(pid); ok {
		return nil
	}
	if _, ok := pm.elements[pid]; ok {
		return nil
	}
	return fmt.Errorf("%w: %d", ErrUnknownPart, pid)
}

// Part returns a copy of a part definition.
func (pm *PartManager) Part(id int) (keyword.Part, error) {
	p, err := pm.lookup(id)
	if err != nil {
		return keyword.Part{}, err
	}
	return *p, nil
}

// Elements returns the ids of the elements in a part in ascending order.
func (pm *PartManager) Elements(pid int) ([]int, error) {
	if err := pm.known(pid); err != nil {
		return nil, err
	}
	return append([]int(nil), pm.elements[pid]...), nil
}

// Nodes returns the distinct ids of the nodes used by a part's elements in
// ascending order.
func (pm *PartManager) Nodes(pid int) ([]int, error) {
	if err := pm.known(pid); err != nil {
		return nil, err
	}
	return append([]int(nil), pm.nodes[pid]...), nil
}

// PartOf returns the part an element belongs to.
func (pm *PartManager) PartOf(eid int) (int, error) {
	if !pm.built {
		return 0, ErrNotBuilt
	}
	pid, ok := pm.partOf[eid]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownElement, eid)
	}
	return pid, nil
}

// BoundingBox returns the box around a part's nodes. Node ids without a
// definition are skipped.
func (pm *PartManager) BoundingBox(pid int) (BoundingBox, error) {
	box, _, err := pm.extent(pid)
	return box, err
}

func (pm *PartManager) extent(pid int) (BoundingBox, [3]float64, error) {
	if err := pm.known(pid); err != nil {
		return BoundingBox{}, [3]float64{}, err
	}
	box := emptyBox()
	var sum [3]float64
	n := 0
	for _, nid := range pm.nodes[pid] {
		nd, ok := pm.model.FindNode(nid)
		if !ok {
			continue
		}
		p := nd.Position()
		box.extend(p)
		for i := range p {
			sum[i] += p[i]
		}
		n++
	}
	if n == 0 {
		return BoundingBox{}, [3]float64{}, fmt.Errorf("part %d: %w", pid, ErrEmpty)
	}
	return box, [3]float64{sum[0] / float64(n), sum[1] / float64(n), sum[2] / float64(n)}, nil
}

// Stats summarizes a part. The box and centroid are zero when none of its
// nodes is defined.
func (pm *PartManager) Stats(pid int) (PartStats, error) {
	if err := pm.known(pid); err != nil {
		return PartStats{}, err
	}
	stats := PartStats{
		ID:       pid,
		Elements: make(map[keyword.ElementType]int),
		Nodes:    len(pm.nodes[pid]),
	}
	if p, ok := pm.ids.Search(pid); ok {
		stats.Title = p.Title
		stats.SectionID = p.SectionID
		stats.MaterialID = p.MaterialID
	}
	for t, c := range pm.types[pid] {
		stats.Elements[t] = c
	}
	if box, centroid, err := pm.extent(pid); err == nil {
		stats.Box = box
		stats.Centroid = centroid
	}
	return stats, nil
}

// SetMaterial changes the material a part references. The *PART keyword is
// updated in place.
func (pm *PartManager) SetMaterial(pid, mid int) error {
	p, err := pm.lookup(pid)
	if err != nil {
		return err
	}
	p.MaterialID = mid
	return nil
}

// SetSection changes the section a part references.
func (pm *PartManager) SetSection(pid, sid int) error {
	p, err := pm.lookup(pid)
	if err != nil {
		return err
	}
	p.SectionID = sid
	return nil
}
