package keyword

import (
	"fmt"

	"github.com/ssargent/keydeck/pkg/codec"
)

// Discrete is a spring or damper between two nodes. N2 may be zero for an
// element grounded at N1.
type Discrete struct {
	ID     int
	PartID int
	N1, N2 int
	VID    int
	S      float64
	PF     int
	Offset float64
}

// Discretes is an *ELEMENT_DISCRETE block.
type Discretes struct {
	Elements []Discrete
}

func (d *Discretes) Name() string { return "ELEMENT_DISCRETE" }

// Decode reads EID PID N1 N2 VID S PF OFFSET per element. S defaults to 1.
func (d *Discretes) Decode(lines []string, f codec.Format) error {
	d.Elements = d.Elements[:0]
	for i, line := range lines {
		if isBlank(line) {
			continue
		}
		var e Discrete
		err := codec.ReadCard(line, f, func(r *codec.LineReader) {
			e.ID = r.Int(0)
			e.PartID = r.Int(0)
			e.N1 = r.Int(0)
			e.N2 = r.Int(0)
			e.VID = r.Int(0)
			e.S = r.Real(1)
			e.PF = r.Int(0)
			e.Offset = r.Real(0)
		})
		if err != nil {
			return decodeErr(d.Name(), i, err)
		}
		if e.ID == 0 {
			return decodeErr(d.Name(), i, ErrMissingID)
		}
		d.Elements = append(d.Elements, e)
	}
	return nil
}

func (d *Discretes) Encode(f codec.Format) ([]string, error) {
	lines := make([]string, 0, len(d.Elements))
	for _, e := range d.Elements {
		w := codec.NewLineWriter(f)
		w.Int(e.ID).Int(e.PartID).Int(e.N1).Int(e.N2).Int(e.VID).Real(e.S).Int(e.PF).Real(e.Offset)
		var err error
		if lines, err = finish(w, lines); err != nil {
			return nil, fmt.Errorf("discrete %d: %w", e.ID, err)
		}
	}
	return lines, nil
}

func (d *Discretes) Clone() Keyword {
	return &Discretes{Elements: append([]Discrete(nil), d.Elements...)}
}

func (d *Discretes) ElementType() ElementType { return ElementDiscrete }

func (d *Discretes) Len() int { return len(d.Elements) }

func (d *Discretes) Element(i int) Element {
	e := d.Elements[i]
	return Element{Type: ElementDiscrete, ID: e.ID, PartID: e.PartID, Nodes: nonZero(e.N1, e.N2)}
}

// Seatbelt is a one-dimensional belt element. N3 and N4 are optional
// shell-belt attachment nodes.
type Seatbelt struct {
	ID     int
	PartID int
	N1, N2 int
	SBRID  int
	SLen   float64
	N3, N4 int
}

// Seatbelts is an *ELEMENT_SEATBELT block.
type Seatbelts struct {
	Elements []Seatbelt
}

func (s *Seatbelts) Name() string { return "ELEMENT_SEATBELT" }

// Decode reads EID PID N1 N2 SBRID SLEN N3 N4 per element.
func (s *Seatbelts) Decode(lines []string, f codec.Format) error {
	s.Elements = s.Elements[:0]
	for i, line := range lines {
		if isBlank(line) {
			continue
		}
		var e Seatbelt
		err := codec.ReadCard(line, f, func(r *codec.LineReader) {
			e.ID = r.Int(0)
			e.PartID = r.Int(0)
			e.N1 = r.Int(0)
			e.N2 = r.Int(0)
			e.SBRID = r.Int(0)
			e.SLen = r.Real(0)
			e.N3 = r.Int(0)
			e.N4 = r.Int(0)
		})
		if err != nil {
			return decodeErr(s.Name(), i, err)
		}
		if e.ID == 0 {
			return decodeErr(s.Name(), i, ErrMissingID)
		}
		s.Elements = append(s.Elements, e)
	}
	return nil
}

func (s *Seatbelts) Encode(f codec.Format) ([]string, error) {
	lines := make([]string, 0, len(s.Elements))
	for _, e := range s.Elements {
		w := codec.NewLineWriter(f)
		w.Int(e.ID).Int(e.PartID).Int(e.N1).Int(e.N2).OptInt(e.SBRID).Real(e.SLen).OptInt(e.N3).OptInt(e.N4)
		var err error
		if lines, err = finish(w, lines); err != nil {
			return nil, fmt.Errorf("seatbelt %d: %w", e.ID, err)
		}
	}
	return lines, nil
}

func (s *Seatbelts) Clone() Keyword {
	return &Seatbelts{Elements: append([]Seatbelt(nil), s.Elements...)}
}

func (s *Seatbelts) ElementType() ElementType { return ElementSeatbelt }

func (s *Seatbelts) Len() int { return len(s.Elements) }

func (s *Seatbelts) Element(i int) Element {
	e := s.Elements[i]
	return Element{Type: ElementSeatbelt, ID: e.ID, PartID: e.PartID, Nodes: nonZero(e.N1, e.N2, e.N3, e.N4)}
}
