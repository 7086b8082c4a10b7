package keyword

import (
	"fmt"
	"strings"

	"github.com/ssargent/keydeck/pkg/codec"
)

// HeadingWidth is the number of columns of a part heading card.
const HeadingWidth = 70

// Part ties elements to a section and a material. SectionID and MaterialID are
// references, not ownership.
type Part struct {
	ID          int
	Title       string
	SectionID   int
	MaterialID  int
	EOSID       int
	HourglassID int
	Gravity     int
	AdaptiveOpt int
	ThermalMat  int
}

// Parts is a *PART block holding one or more heading/data card pairs.
type Parts struct {
	Parts []Part
}

func (p *Parts) Name() string { return "PART" }

// Decode reads pairs of cards: a heading, then PID SECID MID EOSID HGID GRAV
// ADPOPT TMID. A blank heading card is a valid empty title.
func (p *Parts) Decode(lines []string, f codec.Format) error {
	p.Parts = p.Parts[:0]
	cards := trimBlankTail(lines)
	for i := 0; i < len(cards); i += 2 {
		if i+1 >= len(cards) {
			return decodeErr(p.Name(), i+1, ErrMissingCard)
		}
		part := Part{Title: strings.TrimSpace(cards[i])}
		err := codec.ReadCard(cards[i+1], f, func(r *codec.LineReader) {
			part.ID = r.Int(0)
			part.SectionID = r.Int(0)
			part.MaterialID = r.Int(0)
			part.EOSID = r.Int(0)
			part.HourglassID = r.Int(0)
			part.Gravity = r.Int(0)
			part.AdaptiveOpt = r.Int(0)
			part.ThermalMat = r.Int(0)
		})
		if err != nil {
			return decodeErr(p.Name(), i+1, err)
		}
		if part.ID == 0 {
			return decodeErr(p.Name(), i+1, ErrMissingID)
		}
		p.Parts = append(p.Parts, part)
	}
	return nil
}

func (p *Parts) Encode(f codec.Format) ([]string, error) {
	lines := make([]string, 0, 2*len(p.Parts))
	for _, part := range p.Parts {
		lines = append(lines, strings.TrimRight(codec.FormatLeft(part.Title, HeadingWidth), " "))
		w := codec.NewLineWriter(f)
		w.Int(part.ID).Int(part.SectionID).Int(part.MaterialID).OptInt(part.EOSID).
			OptInt(part.HourglassID).OptInt(part.Gravity).OptInt(part.AdaptiveOpt).OptInt(part.ThermalMat)
		var err error
		if lines, err = finish(w, lines); err != nil {
			return nil, fmt.Errorf("part %d: %w", part.ID, err)
		}
	}
	return lines, nil
}

func (p *Parts) Clone() Keyword {
	return &Parts{Parts: append([]Part(nil), p.Parts...)}
}

// Find returns the part with the given id. The pointer aliases the block.
func (p *Parts) Find(id int) (*Part, bool) {
	for i := range p.Parts {
		if p.Parts[i].ID == id {
			return &p.Parts[i], true
		}
	}
	return nil, false
}
