package keyword

import (
	"github.com/ssargent/keydeck/pkg/codec"
)

// ControlTermination holds the run termination criteria.
type ControlTermination struct {
	EndTime   float64
	EndCycle  int
	DTMin     float64
	EndEnergy float64
	EndMass   float64
	NoSol     int
}

func (c *ControlTermination) Name() string { return "CONTROL_TERMINATION" }

// Decode reads ENDTIM ENDCYC DTMIN ENDENG ENDMAS NOSOL.
func (c *ControlTermination) Decode(lines []string, f codec.Format) error {
	cards := trimBlankTail(lines)
	if len(cards) == 0 {
		return decodeErr(c.Name(), 0, ErrMissingCard)
	}
	if len(cards) > 1 {
		return decodeErr(c.Name(), 1, ErrUnexpectedCard)
	}
	err := codec.ReadCard(cards[0], f, func(r *codec.LineReader) {
		c.EndTime = r.Real(0)
		c.EndCycle = r.Int(0)
		c.DTMin = r.Real(0)
		c.EndEnergy = r.Real(0)
		c.EndMass = r.Real(1e8)
		c.NoSol = r.Int(0)
	})
	if err != nil {
		return decodeErr(c.Name(), 0, err)
	}
	return nil
}

func (c *ControlTermination) Encode(f codec.Format) ([]string, error) {
	w := codec.NewLineWriter(f)
	w.Real(c.EndTime).Int(c.EndCycle).Real(c.DTMin).Real(c.EndEnergy).Real(c.EndMass).OptInt(c.NoSol)
	return finish(w, nil)
}

func (c *ControlTermination) Clone() Keyword {
	cp := *c
	return &cp
}
