package keyword

import (
	"fmt"

	"github.com/ssargent/keydeck/pkg/codec"
)

// Solid is one solid element with up to eight nodes. Tetrahedra, pyramids and
// wedges repeat nodes as described by ClassifySolid.
type Solid struct {
	ID     int
	PartID int
	N      [8]int
}

// Shape classifies the element from its connectivity.
func (s Solid) Shape() SolidShape {
	return ClassifySolid(s.N)
}

// Nodes returns the eight-slot connectivity exactly as stored, dropping only
// unset trailing slots.
func (s Solid) Nodes() []int {
	end := len(s.N)
	for end > 0 && s.N[end-1] == 0 {
		end--
	}
	return append([]int(nil), s.N[:end]...)
}

// Solids is an *ELEMENT_SOLID block.
type Solids struct {
	Elements []Solid
}

func (s *Solids) Name() string { return "ELEMENT_SOLID" }

// Decode accepts both the single-card layout (EID PID N1..N8) and the two-card
// layout where the first card carries only EID PID and the second N1..N8.
func (s *Solids) Decode(lines []string, f codec.Format) error {
	s.Elements = s.Elements[:0]
	cards := trimBlankTail(lines)
	for i := 0; i < len(cards); i++ {
		if isBlank(cards[i]) {
			continue
		}
		var e Solid
		err := codec.ReadCard(cards[i], f, func(r *codec.LineReader) {
			e.ID = r.Int(0)
			e.PartID = r.Int(0)
			for k := range e.N {
				e.N[k] = r.Int(0)
			}
		})
		if err != nil {
			return decodeErr(s.Name(), i, err)
		}
		if e.ID == 0 {
			return decodeErr(s.Name(), i, ErrMissingID)
		}
		if e.N == [8]int{} {
			i++
			if i >= len(cards) {
				return decodeErr(s.Name(), i, ErrMissingCard)
			}
			err := codec.ReadCard(cards[i], f, func(r *codec.LineReader) {
				for k := range e.N {
					e.N[k] = r.Int(0)
				}
			})
			if err != nil {
				return decodeErr(s.Name(), i, err)
			}
		}
		s.Elements = append(s.Elements, e)
	}
	return nil
}

func (s *Solids) Encode(f codec.Format) ([]string, error) {
	lines := make([]string, 0, len(s.Elements))
	for _, e := range s.Elements {
		w := codec.NewLineWriter(f)
		w.Int(e.ID).Int(e.PartID)
		for _, id := range e.N {
			w.Int(id)
		}
		var err error
		if lines, err = finish(w, lines); err != nil {
			return nil, fmt.Errorf("solid %d: %w", e.ID, err)
		}
	}
	return lines, nil
}

func (s *Solids) Clone() Keyword {
	return &Solids{Elements: append([]Solid(nil), s.Elements...)}
}

func (s *Solids) ElementType() ElementType { return ElementSolid }

func (s *Solids) Len() int { return len(s.Elements) }

func (s *Solids) Element(i int) Element {
	e := s.Elements[i]
	return Element{Type: ElementSolid, ID: e.ID, PartID: e.PartID, Nodes: e.Nodes()}
}
