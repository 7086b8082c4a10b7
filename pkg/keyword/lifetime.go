package keyword

import (
	"fmt"
	"strings"

	"github.com/ssargent/keydeck/pkg/codec"
)

// Event distinguishes element birth from element death.
type Event int

const (
	Death Event = iota
	Birth
)

func (e Event) String() string {
	if e == Birth {
		return "birth"
	}
	return "death"
}

// LifetimeEntry sets the birth or death time of one element.
type LifetimeEntry struct {
	ElementID int
	Time      float64
}

// ElementLifetime is a DEFINE_ELEMENT_DEATH_* or DEFINE_ELEMENT_BIRTH_* block.
type ElementLifetime struct {
	Event   Event
	Type    ElementType
	Entries []LifetimeEntry
}

func (l *ElementLifetime) Name() string {
	return fmt.Sprintf("DEFINE_ELEMENT_%s_%s", strings.ToUpper(l.Event.String()), strings.ToUpper(l.Type.String()))
}

// Decode reads EID TIME per card.
func (l *ElementLifetime) Decode(lines []string, f codec.Format) error {
	l.Entries = l.Entries[:0]
	for i, line := range lines {
		if isBlank(line) {
			continue
		}
		var e LifetimeEntry
		err := codec.ReadCard(line, f, func(r *codec.LineReader) {
			e.ElementID = r.Int(0)
			e.Time = r.Real(0)
		})
		if err != nil {
			return decodeErr(l.Name(), i, err)
		}
		if e.ElementID == 0 {
			return decodeErr(l.Name(), i, ErrMissingID)
		}
		l.Entries = append(l.Entries, e)
	}
	return nil
}

func (l *ElementLifetime) Encode(f codec.Format) ([]string, error) {
	lines := make([]string, 0, len(l.Entries))
	for _, e := range l.Entries {
		w := codec.NewLineWriter(f)
		w.Int(e.ElementID).Real(e.Time)
		var err error
		if lines, err = finish(w, lines); err != nil {
			return nil, fmt.Errorf("element %d: %w", e.ElementID, err)
		}
	}
	return lines, nil
}

func (l *ElementLifetime) Clone() Keyword {
	c := *l
	c.Entries = append([]LifetimeEntry(nil), l.Entries...)
	return &c
}
