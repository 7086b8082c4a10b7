package keyword

import (
	"fmt"

	"github.com/ssargent/keydeck/pkg/codec"
)

// Beam is one beam element. N3 is the orientation node and is not part of the
// connectivity.
type Beam struct {
	ID       int
	PartID   int
	N1, N2   int
	N3       int
	RT1, RR1 int
	RT2, RR2 int
	Local    int
}

// Beams is an *ELEMENT_BEAM block.
type Beams struct {
	Elements []Beam
}

func (b *Beams) Name() string { return "ELEMENT_BEAM" }

// Decode reads EID PID N1 N2 N3 RT1 RR1 RT2 RR2 LOCAL per element.
func (b *Beams) Decode(lines []string, f codec.Format) error {
	b.Elements = b.Elements[:0]
	for i, line := range lines {
		if isBlank(line) {
			continue
		}
		var e Beam
		err := codec.ReadCard(line, f, func(r *codec.LineReader) {
			e.ID = r.Int(0)
			e.PartID = r.Int(0)
			e.N1 = r.Int(0)
			e.N2 = r.Int(0)
			e.N3 = r.Int(0)
			e.RT1 = r.Int(0)
			e.RR1 = r.Int(0)
			e.RT2 = r.Int(0)
			e.RR2 = r.Int(0)
			e.Local = r.Int(0)
		})
		if err != nil {
			return decodeErr(b.Name(), i, err)
		}
		if e.ID == 0 {
			return decodeErr(b.Name(), i, ErrMissingID)
		}
		b.Elements = append(b.Elements, e)
	}
	return nil
}

func (b *Beams) Encode(f codec.Format) ([]string, error) {
	lines := make([]string, 0, len(b.Elements))
	for _, e := range b.Elements {
		w := codec.NewLineWriter(f)
		w.Int(e.ID).Int(e.PartID).Int(e.N1).Int(e.N2).OptInt(e.N3).
			OptInt(e.RT1).OptInt(e.RR1).OptInt(e.RT2).OptInt(e.RR2).OptInt(e.Local)
		var err error
		if lines, err = finish(w, lines); err != nil {
			return nil, fmt.Errorf("beam %d: %w", e.ID, err)
		}
	}
	return lines, nil
}

func (b *Beams) Clone() Keyword {
	return &Beams{Elements: append([]Beam(nil), b.Elements...)}
}

func (b *Beams) ElementType() ElementType { return ElementBeam }

func (b *Beams) Len() int { return len(b.Elements) }

func (b *Beams) Element(i int) Element {
	e := b.Elements[i]
	return Element{Type: ElementBeam, ID: e.ID, PartID: e.PartID, Nodes: nonZero(e.N1, e.N2)}
}
