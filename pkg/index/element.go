package index

import (
	"fmt"
	"sort"

	"github.com/ssargent/keydeck/pkg/bptree"
	"github.com/ssargent/keydeck/pkg/keyword"
	"github.com/ssargent/keydeck/pkg/model"
)

// Segment is a three- or four-node face.
type Segment []int

// key identifies a face regardless of orientation or starting node.
func (s Segment) key() [4]int {
	var k [4]int
	copy(k[:], s)
	sorted := k[:len(s)]
	sort.Ints(sorted)
	return k
}

// Hexahedron faces, outward for the usual node ordering.
var hexFaces = [6][4]int{
	{0, 3, 2, 1},
	{4, 5, 6, 7},
	{0, 1, 5, 4},
	{1, 2, 6, 5},
	{2, 3, 7, 6},
	{3, 0, 4, 7},
}

var tetFaces = [4][3]int{
	{0, 2, 1},
	{0, 1, 3},
	{1, 2, 3},
	{0, 3, 2},
}

type lifetime struct {
	birth, death       float64
	hasBirth, hasDeath bool
}

// ElementManager indexes elements of every family by id and type, derives
// solid shapes and faces, and tracks birth and death times.
type ElementManager struct {
	model *model.Model
	built bool

	ids        *bptree.BPlusTree[int, keyword.Element]
	byType     map[keyword.ElementType][]int
	lifetimes  map[int]lifetime
	duplicates []int
}

// NewElementManager creates an unbuilt manager over m.
func NewElementManager(m *model.Model) *ElementManager {
	return &ElementManager{model: m}
}

// Build scans the model. Duplicate element ids keep their first occurrence and
// are reported by Duplicates. Birth and death times are read from the
// DEFINE_ELEMENT_BIRTH and DEFINE_ELEMENT_DEATH blocks; entries naming an
// element of another family are ignored.
func (em *ElementManager) Build() error {
	ids := bptree.NewBPlusTree[int, keyword.Element](treeOrder)
	var duplicates []int
	scanElements(em.model, func(e keyword.Element, dup bool) {
		if dup {
			duplicates = append(duplicates, e.ID)
			return
		}
		ids.Insert(e.ID, e)
	})

	byType := make(map[keyword.ElementType][]int)
	ids.Ascend(func(id int, e keyword.Element) bool {
		byType[e.Type] = append(byType[e.Type], id)
		return true
	})

	lifetimes := make(map[int]lifetime)
	for _, block := range em.model.Lifetimes() {
		for _, entry := range block.Entries {
			e, ok := ids.Search(entry.ElementID)
			if !ok || e.Type != block.Type {
				continue
			}
			lt := lifetimes[entry.ElementID]
			if block.Event == keyword.Birth {
				lt.birth, lt.hasBirth = entry.Time, true
			} else {
				lt.death, lt.hasDeath = entry.Time, true
			}
			lifetimes[entry.ElementID] = lt
		}
	}

	em.ids = ids
	em.byType = byType
	em.lifetimes = lifetimes
	em.duplicates = duplicates
	em.built = true
	return nil
}

// Built reports whether Build has run.
func (em *ElementManager) Built() bool {
	return em.built
}

// Count returns the number of indexed elements.
func (em *ElementManager) Count() int {
	if !em.built {
		return 0
	}
	return em.ids.Len()
}

// Duplicates returns the ids that appeared more than once, in file order.
func (em *ElementManager) Duplicates() []int {
	return append([]int(nil), em.duplicates...)
}

func (em *ElementManager) lookup(id int) (keyword.Element, error) {
	if !em.built {
		return keyword.Element{}, ErrNotBuilt
	}
	e, ok := em.ids.Search(id)
	if !ok {
		return keyword.Element{}, fmt.Errorf("%w: %d", ErrUnknownElement, id)
	}
	return e, nil
}

// Element returns the family-independent view of an element.
func (em *ElementManager) Element(id int) (keyword.Element, error) {
	e, err := em.lookup(id)
	if err != nil {
		return keyword.Element{}, err
	}
	e.Nodes = append([]int(nil), e.Nodes...)
	return e, nil
}

// Type returns the family of an element.
func (em *ElementManager) Type(id int) (keyword.ElementType, error) {
	e, err := em.lookup(id)
	return e.Type, err
}

// PartID returns the part an element references.
func (em *ElementManager) PartID(id int) (int, error) {
	e, err := em.lookup(id)
	return e.PartID, err
}

// Nodes returns the connectivity of an element.
func (em *ElementManager) Nodes(id int) ([]int, error) {
	e, err := em.lookup(id)
	if err != nil {
		return nil, err
	}
	return append([]int(nil), e.Nodes...), nil
}

// IDs returns every element id in ascending order.
func (em *ElementManager) IDs() ([]int, error) {
	if !em.built {
		return nil, ErrNotBuilt
	}
	return em.ids.Keys(), nil
}

// IDsOfType returns the ids of one family in ascending order.
func (em *ElementManager) IDsOfType(t keyword.ElementType) ([]int, error) {
	if !em.built {
		return nil, ErrNotBuilt
	}
	return append([]int(nil), em.byType[t]...), nil
}

// IDsInRange returns the element ids in [lo, hi] in ascending order.
func (em *ElementManager) IDsInRange(lo, hi int) ([]int, error) {
	if !em.built {
		return nil, ErrNotBuilt
	}
	var out []int
	em.ids.Range(lo, hi, func(id int, _ keyword.Element) bool {
		out = append(out, id)
		return true
	})
	return out, nil
}

// SolidShape classifies a solid element.
func (em *ElementManager) SolidShape(id int) (keyword.SolidShape, error) {
	e, err := em.lookup(id)
	if err != nil {
		return keyword.ShapeUnknown, err
	}
	if e.Type != keyword.ElementSolid {
		return keyword.ShapeUnknown, fmt.Errorf("%w: element %d is a %s", ErrWrongType, id, e.Type)
	}
	return keyword.ClassifySolid(solidSlots(e.Nodes)), nil
}

func solidSlots(nodes []int) [8]int {
	var n [8]int
	copy(n[:], nodes)
	return n
}

// Segments returns the faces of an element: one for a shell, one per face for
// a solid and none for the other families.
func (em *ElementManager) Segments(id int) ([]Segment, error) {
	e, err := em.lookup(id)
	if err != nil {
		return nil, err
	}
	return segments(e), nil
}

func segments(e keyword.Element) []Segment {
	switch e.Type {
	case keyword.ElementShell:
		if len(e.Nodes) < 4 {
			return nil
		}
		if s := collapse(e.Nodes[:4]); len(s) >= 3 {
			return []Segment{s}
		}
	case keyword.ElementSolid:
		n := solidSlots(e.Nodes)
		switch keyword.ClassifySolid(n) {
		case keyword.ShapeTetrahedron:
			out := make([]Segment, 0, len(tetFaces))
			for _, f := range tetFaces {
				out = append(out, Segment{n[f[0]], n[f[1]], n[f[2]]})
			}
			return out
		case keyword.ShapeHexahedron, keyword.ShapeWedge, keyword.ShapePyramid:
			out := make([]Segment, 0, len(hexFaces))
			for _, f := range hexFaces {
				if s := collapse([]int{n[f[0]], n[f[1]], n[f[2]], n[f[3]]}); len(s) >= 3 {
					out = append(out, s)
				}
			}
			return out
		}
	}
	return nil
}

// collapse drops repeated consecutive nodes, treating the face as a ring.
func collapse(ring []int) Segment {
	out := make(Segment, 0, len(ring))
	for i, id := range ring {
		if id == 0 {
			continue
		}
		if i > 0 && id == ring[i-1] {
			continue
		}
		out = append(out, id)
	}
	for len(out) > 1 && out[len(out)-1] == out[0] {
		out = out[:len(out)-1]
	}
	return out
}

// BoundarySegments returns the faces used by exactly one of the given
// elements, in element order. A nil ids considers every element; an id given
// more than once counts once.
func (em *ElementManager) BoundarySegments(ids []int) ([]Segment, error) {
	if !em.built {
		return nil, ErrNotBuilt
	}
	var elems []keyword.Element
	if ids == nil {
		em.ids.Ascend(func(_ int, e keyword.Element) bool {
			elems = append(elems, e)
			return true
		})
	} else {
		seen := make(map[int]bool, len(ids))
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			e, err := em.lookup(id)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
	}

	count := make(map[[4]int]int)
	var order []Segment
	for _, e := range elems {
		for _, s := range segments(e) {
			k := s.key()
			if count[k] == 0 {
				order = append(order, s)
			}
			count[k]++
		}
	}
	var out []Segment
	for _, s := range order {
		if count[s.key()] == 1 {
			out = append(out, s)
		}
	}
	return out, nil
}

// BirthTime returns the birth time of an element, if one is set.
func (em *ElementManager) BirthTime(id int) (float64, bool) {
	if !em.built {
		return 0, false
	}
	lt, ok := em.lifetimes[id]
	return lt.birth, ok && lt.hasBirth
}

// DeathTime returns the death time of an element, if one is set.
func (em *ElementManager) DeathTime(id int) (float64, bool) {
	if !em.built {
		return 0, false
	}
	lt, ok := em.lifetimes[id]
	return lt.death, ok && lt.hasDeath
}

// SetBirthTime overrides the birth time of an element in the index. The model
// is not changed.
func (em *ElementManager) SetBirthTime(id int, t float64) error {
	if _, err := em.lookup(id); err != nil {
		return err
	}
	lt := em.lifetimes[id]
	lt.birth, lt.hasBirth = t, true
	em.lifetimes[id] = lt
	return nil
}

// SetDeathTime overrides the death time of an element in the index.
func (em *ElementManager) SetDeathTime(id int, t float64) error {
	if _, err := em.lookup(id); err != nil {
		return err
	}
	lt := em.lifetimes[id]
	lt.death, lt.hasDeath = t, true
	em.lifetimes[id] = lt
	return nil
}

// IsAliveAt reports whether an element exists at time t: born at or before t
// and not yet dead. Unknown elements are never alive.
func (em *ElementManager) IsAliveAt(id int, t float64) bool {
	if _, err := em.lookup(id); err != nil {
		return false
	}
	lt := em.lifetimes[id]
	if lt.hasBirth && t < lt.birth {
		return false
	}
	if lt.hasDeath && t >= lt.death {
		return false
	}
	return true
}

// AliveAt returns the ids of the elements alive at t in ascending order.
func (em *ElementManager) AliveAt(t float64) ([]int, error) {
	if !em.built {
		return nil, ErrNotBuilt
	}
	var out []int
	em.ids.Ascend(func(id int, _ keyword.Element) bool {
		if em.IsAliveAt(id, t) {
			out = append(out, id)
		}
		return true
	})
	return out, nil
}
