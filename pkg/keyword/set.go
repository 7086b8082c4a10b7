package keyword

import (
	"fmt"

	"github.com/ssargent/keydeck/pkg/codec"
)

// SetKind is the entity type an IDSet refers to.
type SetKind int

const (
	SetNode SetKind = iota
	SetPart
	SetShell
	SetSolid
)

func (k SetKind) String() string {
	switch k {
	case SetNode:
		return "node"
	case SetPart:
		return "part"
	case SetShell:
		return "shell"
	case SetSolid:
		return "solid"
	}
	return fmt.Sprintf("SetKind(%d)", int(k))
}

const idsPerCard = 8

// IDSet is a SET_*_LIST block: a header card SID DA1..DA4 followed by ids,
// eight per card. Zero ids are padding and are dropped.
type IDSet struct {
	Kind SetKind
	ID   int
	DA   [4]float64
	IDs  []int
}

func (s *IDSet) Name() string {
	switch s.Kind {
	case SetNode:
		return "SET_NODE_LIST"
	case SetPart:
		return "SET_PART_LIST"
	case SetShell:
		return "SET_SHELL_LIST"
	case SetSolid:
		return "SET_SOLID_LIST"
	}
	return "SET_LIST"
}

func (s *IDSet) Decode(lines []string, f codec.Format) error {
	cards := trimBlankTail(lines)
	if len(cards) == 0 {
		return decodeErr(s.Name(), 0, ErrMissingCard)
	}
	s.ID, s.DA, s.IDs = 0, [4]float64{}, s.IDs[:0]
	err := codec.ReadCard(cards[0], f, func(r *codec.LineReader) {
		s.ID = r.Int(0)
		for k := range s.DA {
			s.DA[k] = r.Real(0)
		}
	})
	if err != nil {
		return decodeErr(s.Name(), 0, err)
	}
	if s.ID == 0 {
		return decodeErr(s.Name(), 0, ErrMissingID)
	}
	for i := 1; i < len(cards); i++ {
		var ids [idsPerCard]int
		err := codec.ReadCard(cards[i], f, func(r *codec.LineReader) {
			for k := range ids {
				ids[k] = r.Int(0)
			}
		})
		if err != nil {
			return decodeErr(s.Name(), i, err)
		}
		s.IDs = append(s.IDs, nonZero(ids[:]...)...)
	}
	return nil
}

func (s *IDSet) Encode(f codec.Format) ([]string, error) {
	w := codec.NewLineWriter(f)
	w.Int(s.ID)
	for _, da := range s.DA {
		w.Real(da)
	}
	lines, err := finish(w, nil)
	if err != nil {
		return nil, err
	}
	for start := 0; start < len(s.IDs); start += idsPerCard {
		end := min(start+idsPerCard, len(s.IDs))
		w := codec.NewLineWriter(f)
		for _, id := range s.IDs[start:end] {
			w.Int(id)
		}
		if lines, err = finish(w, lines); err != nil {
			return nil, err
		}
	}
	return lines, nil
}

func (s *IDSet) Clone() Keyword {
	c := *s
	c.IDs = append([]int(nil), s.IDs...)
	return &c
}

// Contains reports whether id is a member of the set.
func (s *IDSet) Contains(id int) bool {
	for _, v := range s.IDs {
		if v == id {
			return true
		}
	}
	return false
}
