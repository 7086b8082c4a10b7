package keyword

import (
	"fmt"

	"github.com/ssargent/keydeck/pkg/codec"
)

// Shell is one shell element. Quadrilaterals use N[0:4]; eight-node shells also
// fill N[4:8]. Triangles repeat the third node in N[3].
type Shell struct {
	ID     int
	PartID int
	N      [8]int

	// Thickness card, only used by ELEMENT_SHELL_THICKNESS.
	Thick [4]float64
	Beta  float64
}

// Nodes returns the connectivity: the four corner nodes, followed by the
// mid-side nodes when any is set.
func (s Shell) Nodes() []int {
	ids := append([]int(nil), s.N[:4]...)
	for _, id := range s.N[4:] {
		if id != 0 {
			return append(ids, nonZero(s.N[4:]...)...)
		}
	}
	return ids
}

// Shells is an *ELEMENT_SHELL block.
type Shells struct {
	Thickness bool
	Elements  []Shell
}

func (s *Shells) Name() string {
	if s.Thickness {
		return "ELEMENT_SHELL_THICKNESS"
	}
	return "ELEMENT_SHELL"
}

// Decode reads EID PID N1..N8 per element, followed by a THIC1..THIC4 BETA
// card for the THICKNESS option.
func (s *Shells) Decode(lines []string, f codec.Format) error {
	s.Elements = s.Elements[:0]
	cards := trimBlankTail(lines)
	for i := 0; i < len(cards); i++ {
		if isBlank(cards[i]) {
			continue
		}
		var e Shell
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
		if s.Thickness {
			i++
			err := codec.ReadCard(cardAt(cards, i), f, func(r *codec.LineReader) {
				for k := range e.Thick {
					e.Thick[k] = r.Real(0)
				}
				e.Beta = r.Real(0)
			})
			if err != nil {
				return decodeErr(s.Name(), i, err)
			}
		}
		s.Elements = append(s.Elements, e)
	}
	return nil
}

func (s *Shells) Encode(f codec.Format) ([]string, error) {
	lines := make([]string, 0, len(s.Elements))
	for _, e := range s.Elements {
		w := codec.NewLineWriter(f)
		w.Int(e.ID).Int(e.PartID)
		n := 4
		for k := 4; k < 8; k++ {
			if e.N[k] != 0 {
				n = 8
			}
		}
		for k := 0; k < n; k++ {
			w.Int(e.N[k])
		}
		var err error
		if lines, err = finish(w, lines); err != nil {
			return nil, fmt.Errorf("shell %d: %w", e.ID, err)
		}
		if s.Thickness {
			w := codec.NewLineWriter(f)
			for _, t := range e.Thick {
				w.Real(t)
			}
			w.Real(e.Beta)
			lines = append(lines, w.Line())
		}
	}
	return lines, nil
}

func (s *Shells) Clone() Keyword {
	return &Shells{Thickness: s.Thickness, Elements: append([]Shell(nil), s.Elements...)}
}

func (s *Shells) ElementType() ElementType { return ElementShell }

func (s *Shells) Len() int { return len(s.Elements) }

func (s *Shells) Element(i int) Element {
	e := s.Elements[i]
	return Element{Type: ElementShell, ID: e.ID, PartID: e.PartID, Nodes: e.Nodes()}
}
