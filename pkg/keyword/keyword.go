package keyword

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ssargent/keydeck/pkg/codec"
)

// Keyword is one decoded block of a deck.
type Keyword interface {
	// Name returns the canonical upper-case header name without the leading '*'.
	Name() string
	// Decode replaces the receiver's contents with the cards in lines.
	Decode(lines []string, f codec.Format) error
	// Encode renders the receiver as cards in format f.
	Encode(f codec.Format) ([]string, error)
	// Clone returns an independent deep copy.
	Clone() Keyword
}

var (
	ErrMissingID      = errors.New("missing id")
	ErrMissingCard    = errors.New("missing card")
	ErrUnexpectedCard = errors.New("unexpected card")
)

// DecodeError reports the card that failed to decode. Index is the position of
// the card in the lines passed to Decode.
type DecodeError struct {
	Keyword string
	Index   int
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("*%s card %d: %v", e.Keyword, e.Index+1, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeErr(name string, index int, err error) error {
	return &DecodeError{Keyword: name, Index: index, Err: err}
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// trimBlankTail drops trailing blank cards, which carry no data for
// card-structured keywords.
func trimBlankTail(lines []string) []string {
	end := len(lines)
	for end > 0 && isBlank(lines[end-1]) {
		end--
	}
	return lines[:end]
}

// cardAt returns card i, or a blank card past the end. A trailing blank
// optional card is trimmed before decoding and reads back as defaults.
func cardAt(cards []string, i int) string {
	if i < len(cards) {
		return cards[i]
	}
	return ""
}

func finish(w *codec.LineWriter, lines []string) ([]string, error) {
	if err := w.Err(); err != nil {
		return nil, err
	}
	return append(lines, w.Line()), nil
}

// titled is embedded by keywords that accept a _TITLE option, whose first card
// is a free-text heading.
type titled struct {
	HasTitle bool
	Title    string
}

func (t *titled) takeTitle(lines []string) []string {
	if !t.HasTitle || len(lines) == 0 {
		return lines
	}
	t.Title = strings.TrimSpace(lines[0])
	return lines[1:]
}

func (t titled) titleLines() []string {
	if !t.HasTitle {
		return nil
	}
	return []string{t.Title}
}

func (t titled) suffix() string {
	if t.HasTitle {
		return "_TITLE"
	}
	return ""
}
