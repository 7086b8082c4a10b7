package keyword

import (
	"fmt"
	"strings"
)

// ElementType identifies an element family.
type ElementType int

const (
	ElementShell ElementType = iota + 1
	ElementSolid
	ElementBeam
	ElementDiscrete
	ElementSeatbelt
)

func (t ElementType) String() string {
	switch t {
	case ElementShell:
		return "shell"
	case ElementSolid:
		return "solid"
	case ElementBeam:
		return "beam"
	case ElementDiscrete:
		return "discrete"
	case ElementSeatbelt:
		return "seatbelt"
	}
	return fmt.Sprintf("ElementType(%d)", int(t))
}

// ParseElementType accepts the names returned by ElementType.String.
func ParseElementType(s string) (ElementType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shell":
		return ElementShell, nil
	case "solid":
		return ElementSolid, nil
	case "beam":
		return ElementBeam, nil
	case "discrete":
		return ElementDiscrete, nil
	case "seatbelt":
		return ElementSeatbelt, nil
	}
	return 0, fmt.Errorf("unknown element type %q", s)
}

// Element is the family-independent view of one element: its identity, owning
// part and connectivity. Node ids refer into the deck's node blocks.
type Element struct {
	Type   ElementType
	ID     int
	PartID int
	Nodes  []int
}

// ElementBlock is implemented by every element keyword.
type ElementBlock interface {
	Keyword
	ElementType() ElementType
	Len() int
	// Element returns the i-th element of the block.
	Element(i int) Element
}

// SolidShape classifies a solid by its repeated-node pattern.
type SolidShape int

const (
	ShapeUnknown SolidShape = iota
	ShapeHexahedron
	ShapeWedge
	ShapePyramid
	ShapeTetrahedron
)

func (s SolidShape) String() string {
	switch s {
	case ShapeHexahedron:
		return "hexahedron"
	case ShapeWedge:
		return "wedge"
	case ShapePyramid:
		return "pyramid"
	case ShapeTetrahedron:
		return "tetrahedron"
	}
	return "unknown"
}

// ClassifySolid derives the shape of an eight-node solid connectivity using the
// degenerate-node conventions of the format:
//
//	tetrahedron  N1 N2 N3 N4 N4 N4 N4 N4
//	pyramid      N1 N2 N3 N4 N5 N5 N5 N5
//	wedge        N1 N2 N3 N4 N5 N5 N6 N6
//	hexahedron   eight distinct nodes
func ClassifySolid(n [8]int) SolidShape {
	for _, id := range n[:4] {
		if id == 0 {
			return ShapeUnknown
		}
	}
	switch {
	case n[4] == n[3] && n[5] == n[3] && n[6] == n[3] && n[7] == n[3]:
		return ShapeTetrahedron
	case n[4] == 0 && n[5] == 0 && n[6] == 0 && n[7] == 0:
		return ShapeTetrahedron
	case n[4] != 0 && n[5] == n[4] && n[6] == n[4] && n[7] == n[4]:
		return ShapePyramid
	case n[4] != 0 && n[6] != 0 && n[5] == n[4] && n[7] == n[6]:
		return ShapeWedge
	}
	seen := make(map[int]struct{}, 8)
	for _, id := range n {
		if id == 0 {
			return ShapeUnknown
		}
		seen[id] = struct{}{}
	}
	if len(seen) == 8 {
		return ShapeHexahedron
	}
	return ShapeUnknown
}

func nonZero(ids ...int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id != 0 {
			out = append(out, id)
		}
	}
	return out
}
