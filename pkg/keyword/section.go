package keyword

import (
	"github.com/ssargent/keydeck/pkg/codec"
)

// Section is implemented by section keywords.
type Section interface {
	Keyword
	SectionID() int
}

// SectionShell defines shell formulation and thickness (*SECTION_SHELL).
// Cards beyond the second (integration-point angles and user integration
// cards) are kept verbatim in Extra.
type SectionShell struct {
	titled
	ID     int
	ElForm int
	SHRF   float64
	NIP    int
	PROPT  float64
	QR     float64
	ICOMP  int
	SETYP  int

	T      [4]float64
	NLOC   float64
	MAREA  float64
	IDOF   float64
	EdgSet int

	Extra []string
}

func (s *SectionShell) Name() string { return "SECTION_SHELL" + s.suffix() }

func (s *SectionShell) SectionID() int { return s.ID }

func (s *SectionShell) Decode(lines []string, f codec.Format) error {
	cards := s.takeTitle(trimBlankTail(lines))
	if len(cards) == 0 {
		return decodeErr(s.Name(), 0, ErrMissingCard)
	}
	*s = SectionShell{titled: s.titled}
	err := codec.ReadCard(cards[0], f, func(r *codec.LineReader) {
		s.ID = r.Int(0)
		s.ElForm = r.Int(2)
		s.SHRF = r.Real(1)
		s.NIP = r.Int(2)
		s.PROPT = r.Real(1)
		s.QR = r.Real(0)
		s.ICOMP = r.Int(0)
		s.SETYP = r.Int(1)
	})
	if err != nil {
		return decodeErr(s.Name(), 0, err)
	}
	if s.ID == 0 {
		return decodeErr(s.Name(), 0, ErrMissingID)
	}
	err = codec.ReadCard(cardAt(cards, 1), f, func(r *codec.LineReader) {
		for k := range s.T {
			s.T[k] = r.Real(0)
		}
		s.NLOC = r.Real(0)
		s.MAREA = r.Real(0)
		s.IDOF = r.Real(0)
		s.EdgSet = r.Int(0)
	})
	if err != nil {
		return decodeErr(s.Name(), 1, err)
	}
	if len(cards) > 2 {
		s.Extra = append([]string(nil), cards[2:]...)
	}
	return nil
}

func (s *SectionShell) Encode(f codec.Format) ([]string, error) {
	w := codec.NewLineWriter(f)
	w.Int(s.ID).Int(s.ElForm).Real(s.SHRF).Int(s.NIP).Real(s.PROPT).Real(s.QR).Int(s.ICOMP).Int(s.SETYP)
	lines, err := finish(w, s.titleLines())
	if err != nil {
		return nil, err
	}
	w = codec.NewLineWriter(f)
	for _, t := range s.T {
		w.Real(t)
	}
	w.Real(s.NLOC).Real(s.MAREA).Real(s.IDOF).OptInt(s.EdgSet)
	if lines, err = finish(w, lines); err != nil {
		return nil, err
	}
	return append(lines, s.Extra...), nil
}

func (s *SectionShell) Clone() Keyword {
	c := *s
	c.Extra = append([]string(nil), s.Extra...)
	return &c
}

// SectionSolid defines the solid formulation (*SECTION_SOLID).
type SectionSolid struct {
	titled
	ID     int
	ElForm int
	AET    int

	Extra []string
}

func (s *SectionSolid) Name() string { return "SECTION_SOLID" + s.suffix() }

func (s *SectionSolid) SectionID() int { return s.ID }

func (s *SectionSolid) Decode(lines []string, f codec.Format) error {
	cards := s.takeTitle(trimBlankTail(lines))
	if len(cards) == 0 {
		return decodeErr(s.Name(), 0, ErrMissingCard)
	}
	*s = SectionSolid{titled: s.titled}
	err := codec.ReadCard(cards[0], f, func(r *codec.LineReader) {
		s.ID = r.Int(0)
		s.ElForm = r.Int(1)
		s.AET = r.Int(0)
	})
	if err != nil {
		return decodeErr(s.Name(), 0, err)
	}
	if s.ID == 0 {
		return decodeErr(s.Name(), 0, ErrMissingID)
	}
	s.Extra = append([]string(nil), cards[1:]...)
	return nil
}

func (s *SectionSolid) Encode(f codec.Format) ([]string, error) {
	w := codec.NewLineWriter(f)
	w.Int(s.ID).Int(s.ElForm).OptInt(s.AET)
	lines, err := finish(w, s.titleLines())
	if err != nil {
		return nil, err
	}
	return append(lines, s.Extra...), nil
}

func (s *SectionSolid) Clone() Keyword {
	c := *s
	c.Extra = append([]string(nil), s.Extra...)
	return &c
}

// SectionBeam defines beam formulation and cross section (*SECTION_BEAM).
type SectionBeam struct {
	titled
	ID     int
	ElForm int
	SHRF   float64
	QR     float64
	CST    float64
	SCOOR  float64
	NSM    float64

	TS1, TS2     float64
	TT1, TT2     float64
	NSLOC, NTLOC float64

	Extra []string
}

func (s *SectionBeam) Name() string { return "SECTION_BEAM" + s.suffix() }

func (s *SectionBeam) SectionID() int { return s.ID }

func (s *SectionBeam) Decode(lines []string, f codec.Format) error {
	cards := s.takeTitle(trimBlankTail(lines))
	if len(cards) == 0 {
		return decodeErr(s.Name(), 0, ErrMissingCard)
	}
	*s = SectionBeam{titled: s.titled}
	err := codec.ReadCard(cards[0], f, func(r *codec.LineReader) {
		s.ID = r.Int(0)
		s.ElForm = r.Int(1)
		s.SHRF = r.Real(1)
		s.QR = r.Real(2)
		s.CST = r.Real(0)
		s.SCOOR = r.Real(0)
		s.NSM = r.Real(0)
	})
	if err != nil {
		return decodeErr(s.Name(), 0, err)
	}
	if s.ID == 0 {
		return decodeErr(s.Name(), 0, ErrMissingID)
	}
	if len(cards) > 1 {
		err := codec.ReadCard(cards[1], f, func(r *codec.LineReader) {
			s.TS1 = r.Real(0)
			s.TS2 = r.Real(0)
			s.TT1 = r.Real(0)
			s.TT2 = r.Real(0)
			s.NSLOC = r.Real(0)
			s.NTLOC = r.Real(0)
		})
		if err != nil {
			return decodeErr(s.Name(), 1, err)
		}
		s.Extra = append([]string(nil), cards[2:]...)
	}
	return nil
}

func (s *SectionBeam) Encode(f codec.Format) ([]string, error) {
	w := codec.NewLineWriter(f)
	w.Int(s.ID).Int(s.ElForm).Real(s.SHRF).Real(s.QR).Real(s.CST).Real(s.SCOOR).Real(s.NSM)
	lines, err := finish(w, s.titleLines())
	if err != nil {
		return nil, err
	}
	w = codec.NewLineWriter(f)
	w.Real(s.TS1).Real(s.TS2).Real(s.TT1).Real(s.TT2).Real(s.NSLOC).Real(s.NTLOC)
	if lines, err = finish(w, lines); err != nil {
		return nil, err
	}
	return append(lines, s.Extra...), nil
}

func (s *SectionBeam) Clone() Keyword {
	c := *s
	c.Extra = append([]string(nil), s.Extra...)
	return &c
}
