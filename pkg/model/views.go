package model

import (
	"github.com/ssargent/keydeck/pkg/keyword"
)

type views struct {
	nodes     []*keyword.Nodes
	shells    []*keyword.Shells
	solids    []*keyword.Solids
	beams     []*keyword.Beams
	discretes []*keyword.Discretes
	seatbelts []*keyword.Seatbelts
	parts     []*keyword.Parts
	elements  []keyword.ElementBlock
	materials []keyword.Material
	sections  []keyword.Section
	lifetimes []*keyword.ElementLifetime
}

func (m *Model) view() *views {
	if m.views != nil {
		return m.views
	}
	v := &views{}
	for _, k := range m.keywords {
		switch kw := k.(type) {
		case *keyword.Nodes:
			v.nodes = append(v.nodes, kw)
		case *keyword.Shells:
			v.shells = append(v.shells, kw)
		case *keyword.Solids:
			v.solids = append(v.solids, kw)
		case *keyword.Beams:
			v.beams = append(v.beams, kw)
		case *keyword.Discretes:
			v.discretes = append(v.discretes, kw)
		case *keyword.Seatbelts:
			v.seatbelts = append(v.seatbelts, kw)
		case *keyword.Parts:
			v.parts = append(v.parts, kw)
		case *keyword.ElementLifetime:
			v.lifetimes = append(v.lifetimes, kw)
		}
		if eb, ok := k.(keyword.ElementBlock); ok {
			v.elements = append(v.elements, eb)
		}
		if mat, ok := k.(keyword.Material); ok {
			v.materials = append(v.materials, mat)
		}
		if sec, ok := k.(keyword.Section); ok {
			v.sections = append(v.sections, sec)
		}
	}
	m.views = v
	return v
}

// NodeBlocks returns every *NODE block in order.
func (m *Model) NodeBlocks() []*keyword.Nodes { return m.view().nodes }

func (m *Model) ShellBlocks() []*keyword.Shells { return m.view().shells }

func (m *Model) SolidBlocks() []*keyword.Solids { return m.view().solids }

func (m *Model) BeamBlocks() []*keyword.Beams { return m.view().beams }

func (m *Model) DiscreteBlocks() []*keyword.Discretes { return m.view().discretes }

func (m *Model) SeatbeltBlocks() []*keyword.Seatbelts { return m.view().seatbelts }

func (m *Model) PartBlocks() []*keyword.Parts { return m.view().parts }

// ElementBlocks returns every element block of any family, in order.
func (m *Model) ElementBlocks() []keyword.ElementBlock { return m.view().elements }

func (m *Model) Materials() []keyword.Material { return m.view().materials }

func (m *Model) Sections() []keyword.Section { return m.view().sections }

// Lifetimes returns the element birth and death blocks.
func (m *Model) Lifetimes() []*keyword.ElementLifetime { return m.view().lifetimes }

// FirstNodes returns the first *NODE block, or nil.
func (m *Model) FirstNodes() *keyword.Nodes {
	if v := m.view().nodes; len(v) > 0 {
		return v[0]
	}
	return nil
}

// FirstShells returns the first *ELEMENT_SHELL block, or nil.
func (m *Model) FirstShells() *keyword.Shells {
	if v := m.view().shells; len(v) > 0 {
		return v[0]
	}
	return nil
}

// FirstSolids returns the first *ELEMENT_SOLID block, or nil.
func (m *Model) FirstSolids() *keyword.Solids {
	if v := m.view().solids; len(v) > 0 {
		return v[0]
	}
	return nil
}

// FirstParts returns the first *PART block, or nil.
func (m *Model) FirstParts() *keyword.Parts {
	if v := m.view().parts; len(v) > 0 {
		return v[0]
	}
	return nil
}

// NodeCount returns the number of nodes across all node blocks.
func (m *Model) NodeCount() int {
	n := 0
	for _, b := range m.view().nodes {
		n += b.Len()
	}
	return n
}

// ElementCount returns the number of elements across all element blocks.
func (m *Model) ElementCount() int {
	n := 0
	for _, b := range m.view().elements {
		n += b.Len()
	}
	return n
}

// PartCount returns the number of parts across all part blocks.
func (m *Model) PartCount() int {
	n := 0
	for _, b := range m.view().parts {
		n += len(b.Parts)
	}
	return n
}

// FindNode returns the first node with the given id. The pointer aliases the
// owning block.
func (m *Model) FindNode(id int) (*keyword.Node, bool) {
	for _, b := range m.view().nodes {
		if nd, ok := b.Find(id); ok {
			return nd, true
		}
	}
	return nil, false
}

// FindPart returns the first part with the given id. The pointer aliases the
// owning block.
func (m *Model) FindPart(id int) (*keyword.Part, bool) {
	for _, b := range m.view().parts {
		if p, ok := b.Find(id); ok {
			return p, true
		}
	}
	return nil, false
}

// FindMaterial returns the material with the given id.
func (m *Model) FindMaterial(id int) (keyword.Material, bool) {
	for _, mat := range m.view().materials {
		if mat.MaterialID() == id {
			return mat, true
		}
	}
	return nil, false
}

// FindSection returns the section with the given id.
func (m *Model) FindSection(id int) (keyword.Section, bool) {
	for _, sec := range m.view().sections {
		if sec.SectionID() == id {
			return sec, true
		}
	}
	return nil, false
}
