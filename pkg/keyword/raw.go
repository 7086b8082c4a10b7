package keyword

import (
	"strings"

	"github.com/ssargent/keydeck/pkg/codec"
)

// Raw holds a block whose name is not registered. Its cards are kept verbatim
// and written back unchanged, in the format they were read in.
type Raw struct {
	header string
	Format codec.Format
	Lines  []string
}

// NewRaw creates a Raw keyword. header is the header text after '*' and
// without any format marker, e.g. "BOUNDARY_SPC_NODE" or "KEYWORD 100m".
func NewRaw(header string) *Raw {
	return &Raw{header: strings.TrimSpace(strings.TrimPrefix(header, "*"))}
}

// Name returns the upper-case first token of the header.
func (r *Raw) Name() string {
	name, _, _ := strings.Cut(r.header, " ")
	return strings.ToUpper(name)
}

// Header returns the header text exactly as it was read.
func (r *Raw) Header() string {
	return r.header
}

// SetHeader replaces the header text.
func (r *Raw) SetHeader(header string) {
	r.header = strings.TrimSpace(strings.TrimPrefix(header, "*"))
}

func (r *Raw) Decode(lines []string, f codec.Format) error {
	r.Format = f
	r.Lines = append([]string(nil), lines...)
	return nil
}

// Encode returns the stored cards. The requested format is ignored: the cards
// keep the layout they were read with.
func (r *Raw) Encode(codec.Format) ([]string, error) {
	return append([]string(nil), r.Lines...), nil
}

func (r *Raw) Clone() Keyword {
	c := *r
	c.Lines = append([]string(nil), r.Lines...)
	return &c
}
