package keyword

import (
	"strings"

	"github.com/ssargent/keydeck/pkg/codec"
)

// IncludeVariant distinguishes the include directives.
type IncludeVariant int

const (
	IncludePlain IncludeVariant = iota
	IncludePath
	IncludeTransform
)

// Include is an inclusion directive. The deck reader normally resolves it and
// merges the named files into the model; it is only kept as a keyword when
// includes are not followed.
type Include struct {
	Variant IncludeVariant
	Files   []string

	// Extra holds the transform cards of INCLUDE_TRANSFORM, kept verbatim.
	Extra []string
}

func (i *Include) Name() string {
	switch i.Variant {
	case IncludePath:
		return "INCLUDE_PATH"
	case IncludeTransform:
		return "INCLUDE_TRANSFORM"
	}
	return "INCLUDE"
}

// Decode treats each non-blank card as a filename. INCLUDE_TRANSFORM names a
// single file on its first card; the remaining cards are kept in Extra.
func (i *Include) Decode(lines []string, _ codec.Format) error {
	i.Files = nil
	i.Extra = nil
	for _, line := range lines {
		if i.Variant == IncludeTransform && len(i.Files) == 1 {
			i.Extra = append(i.Extra, line)
			continue
		}
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		i.Files = append(i.Files, name)
	}
	i.Extra = trimBlankTail(i.Extra)
	if len(i.Files) == 0 {
		return decodeErr(i.Name(), 0, ErrMissingCard)
	}
	return nil
}

func (i *Include) Encode(codec.Format) ([]string, error) {
	lines := append([]string(nil), i.Files...)
	return append(lines, i.Extra...), nil
}

func (i *Include) Clone() Keyword {
	return &Include{
		Variant: i.Variant,
		Files:   append([]string(nil), i.Files...),
		Extra:   append([]string(nil), i.Extra...),
	}
}
