package keyword

import (
	"github.com/ssargent/keydeck/pkg/codec"
)

// Material is implemented by material keywords.
type Material interface {
	Keyword
	MaterialID() int
	Density() float64
}

// MatElastic is an isotropic elastic material (*MAT_ELASTIC, *MAT_001).
type MatElastic struct {
	titled
	ID     int
	Rho    float64
	E      float64
	PR     float64
	DA, DB float64
	K      float64
}

func (m *MatElastic) Name() string { return "MAT_ELASTIC" + m.suffix() }

func (m *MatElastic) MaterialID() int { return m.ID }

func (m *MatElastic) Density() float64 { return m.Rho }

// Decode reads MID RO E PR DA DB K.
func (m *MatElastic) Decode(lines []string, f codec.Format) error {
	cards := m.takeTitle(trimBlankTail(lines))
	if len(cards) == 0 {
		return decodeErr(m.Name(), 0, ErrMissingCard)
	}
	if len(cards) > 1 {
		return decodeErr(m.Name(), 1, ErrUnexpectedCard)
	}
	err := codec.ReadCard(cards[0], f, func(r *codec.LineReader) {
		m.ID = r.Int(0)
		m.Rho = r.Real(0)
		m.E = r.Real(0)
		m.PR = r.Real(0)
		m.DA = r.Real(0)
		m.DB = r.Real(0)
		m.K = r.Real(0)
	})
	if err != nil {
		return decodeErr(m.Name(), 0, err)
	}
	if m.ID == 0 {
		return decodeErr(m.Name(), 0, ErrMissingID)
	}
	return nil
}

func (m *MatElastic) Encode(f codec.Format) ([]string, error) {
	w := codec.NewLineWriter(f)
	w.Int(m.ID).Real(m.Rho).Real(m.E).Real(m.PR).Real(m.DA).Real(m.DB).Real(m.K)
	return finish(w, m.titleLines())
}

func (m *MatElastic) Clone() Keyword {
	c := *m
	return &c
}

// MatRigid is a rigid material (*MAT_RIGID, *MAT_020) with its constraint and
// local-axis cards.
type MatRigid struct {
	titled
	ID     int
	Rho    float64
	E      float64
	PR     float64
	N      float64
	Couple float64
	M      float64
	Alias  string

	CMO        float64
	Con1, Con2 float64

	LCOOrA1 float64
	A2, A3  float64
	V1      float64
	V2, V3  float64
}

func (m *MatRigid) Name() string { return "MAT_RIGID" + m.suffix() }

func (m *MatRigid) MaterialID() int { return m.ID }

func (m *MatRigid) Density() float64 { return m.Rho }

// Decode reads MID RO E PR N COUPLE M ALIAS, then CMO CON1 CON2, then
// LCO|A1 A2 A3 V1 V2 V3. The second and third cards default when absent.
func (m *MatRigid) Decode(lines []string, f codec.Format) error {
	cards := m.takeTitle(trimBlankTail(lines))
	if len(cards) == 0 {
		return decodeErr(m.Name(), 0, ErrMissingCard)
	}
	if len(cards) > 3 {
		return decodeErr(m.Name(), 3, ErrUnexpectedCard)
	}
	*m = MatRigid{titled: m.titled}
	err := codec.ReadCard(cards[0], f, func(r *codec.LineReader) {
		m.ID = r.Int(0)
		m.Rho = r.Real(0)
		m.E = r.Real(0)
		m.PR = r.Real(0)
		m.N = r.Real(0)
		m.Couple = r.Real(0)
		m.M = r.Real(0)
		m.Alias = r.String(codec.IntWidth)
	})
	if err != nil {
		return decodeErr(m.Name(), 0, err)
	}
	if m.ID == 0 {
		return decodeErr(m.Name(), 0, ErrMissingID)
	}
	if len(cards) > 1 {
		err := codec.ReadCard(cards[1], f, func(r *codec.LineReader) {
			m.CMO = r.Real(0)
			m.Con1 = r.Real(0)
			m.Con2 = r.Real(0)
		})
		if err != nil {
			return decodeErr(m.Name(), 1, err)
		}
	}
	if len(cards) > 2 {
		err := codec.ReadCard(cards[2], f, func(r *codec.LineReader) {
			m.LCOOrA1 = r.Real(0)
			m.A2 = r.Real(0)
			m.A3 = r.Real(0)
			m.V1 = r.Real(0)
			m.V2 = r.Real(0)
			m.V3 = r.Real(0)
		})
		if err != nil {
			return decodeErr(m.Name(), 2, err)
		}
	}
	return nil
}

func (m *MatRigid) Encode(f codec.Format) ([]string, error) {
	lines := m.titleLines()
	w := codec.NewLineWriter(f)
	w.Int(m.ID).Real(m.Rho).Real(m.E).Real(m.PR).Real(m.N).Real(m.Couple).Real(m.M)
	if m.Alias != "" {
		w.String(m.Alias, codec.IntWidth)
	}
	lines, err := finish(w, lines)
	if err != nil {
		return nil, err
	}
	w = codec.NewLineWriter(f)
	w.Real(m.CMO).Real(m.Con1).Real(m.Con2)
	lines = append(lines, w.Line())
	w = codec.NewLineWriter(f)
	w.Real(m.LCOOrA1).Real(m.A2).Real(m.A3).Real(m.V1).Real(m.V2).Real(m.V3)
	return append(lines, w.Line()), nil
}

func (m *MatRigid) Clone() Keyword {
	c := *m
	return &c
}
