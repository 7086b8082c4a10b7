package codec

import (
	"errors"
	"strings"
)

// LineReader walks the fields of one card, tracking the running byte offset
// so that integer and real fields of different widths can be mixed.
type LineReader struct {
	line   string
	format Format
	pos    int

	free   bool
	tokens []string
	next   int

	err error
}

// NewLineReader returns a reader over line. Lines containing a comma are read
// as comma-separated free format; all others by fixed columns.
func NewLineReader(line string, f Format) *LineReader {
	line = strings.TrimRight(line, "\r\n")
	r := &LineReader{line: line, format: f}
	if strings.Contains(line, ",") {
		r.free = true
		r.tokens = strings.Split(line, ",")
	}
	return r
}

// NewFreeReader returns a reader that consumes whitespace or comma separated
// tokens, one per field.
func NewFreeReader(line string, f Format) *LineReader {
	line = strings.TrimRight(line, "\r\n")
	tokens := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	return &LineReader{line: line, format: f, free: true, tokens: tokens}
}

// Format returns the format mode the reader was created with.
func (r *LineReader) Format() Format {
	return r.format
}

// Free reports whether the reader consumes tokens rather than columns.
func (r *LineReader) Free() bool {
	return r.free
}

// Pos returns the byte offset of the next fixed-column field.
func (r *LineReader) Pos() int {
	return r.pos
}

// Err returns the first malformed field encountered, if any.
func (r *LineReader) Err() error {
	return r.err
}

func (r *LineReader) take(width int) string {
	if r.free {
		if r.next >= len(r.tokens) {
			return ""
		}
		tok := strings.TrimSpace(r.tokens[r.next])
		r.next++
		return tok
	}
	s := slice(r.line, r.pos, width)
	r.pos += width
	return s
}

func (r *LineReader) fail(col, width int, text string, err error) {
	if r.err == nil {
		r.err = &FieldError{Column: col, Width: width, Text: text, Err: err}
	}
}

// Int reads the next 10-column integer field.
func (r *LineReader) Int(def int) int {
	col := r.pos
	text := r.take(IntWidth)
	v, err := parseIntText(text)
	if err != nil {
		if !errors.Is(err, ErrBlankField) {
			r.fail(col, IntWidth, text, err)
		}
		return def
	}
	return v
}

// Real reads the next real field using the reader's format width.
func (r *LineReader) Real(def float64) float64 {
	col := r.pos
	width := r.format.RealWidth()
	text := r.take(width)
	v, err := parseRealText(text)
	if err != nil {
		if !errors.Is(err, ErrBlankField) {
			r.fail(col, width, text, err)
		}
		return def
	}
	return v
}

// String reads the next string field of the given width.
func (r *LineReader) String(width int) string {
	return r.take(width)
}

// Skip advances past a field without decoding it.
func (r *LineReader) Skip(width int) {
	r.take(width)
}

// SkipReal advances past a real field.
func (r *LineReader) SkipReal() {
	r.take(r.format.RealWidth())
}

// ReadCard decodes line with fn. When the fixed-column decode reports a
// malformed field and the line was not already free format, fn is run again
// against whitespace-separated tokens. fn must only assign values, since it
// may run twice.
func ReadCard(line string, f Format, fn func(r *LineReader)) error {
	r := NewLineReader(line, f)
	fn(r)
	if r.err == nil || r.free {
		return r.err
	}
	fr := NewFreeReader(line, f)
	fn(fr)
	if fr.err != nil {
		return r.err
	}
	return nil
}

// LineWriter builds one card field by field.
type LineWriter struct {
	b      strings.Builder
	format Format
	err    error
}

// NewLineWriter returns a writer for format f.
func NewLineWriter(f Format) *LineWriter {
	return &LineWriter{format: f}
}

// Int appends a 10-column integer field.
func (w *LineWriter) Int(v int) *LineWriter {
	s, ok := FormatInt(v, IntWidth)
	if !ok && w.err == nil {
		w.err = &FieldError{Column: w.b.Len(), Width: IntWidth, Text: s, Err: ErrFieldOverflow}
	}
	w.b.WriteString(s)
	return w
}

// OptInt appends an integer field, leaving it blank when v is zero.
func (w *LineWriter) OptInt(v int) *LineWriter {
	if v == 0 {
		return w.Blank(IntWidth)
	}
	return w.Int(v)
}

// Real appends a real field of the format's width.
func (w *LineWriter) Real(v float64) *LineWriter {
	w.b.WriteString(FormatReal(v, w.format.RealWidth()))
	return w
}

// String appends s right-justified in width columns.
func (w *LineWriter) String(s string, width int) *LineWriter {
	w.b.WriteString(FormatString(s, width))
	return w
}

// LeftString appends s left-justified in width columns.
func (w *LineWriter) LeftString(s string, width int) *LineWriter {
	w.b.WriteString(FormatLeft(s, width))
	return w
}

// Blank appends width spaces.
func (w *LineWriter) Blank(width int) *LineWriter {
	w.b.WriteString(strings.Repeat(" ", width))
	return w
}

// Line returns the card with trailing blanks removed.
func (w *LineWriter) Line() string {
	return strings.TrimRight(w.b.String(), " ")
}

// Err returns the first field that overflowed its columns.
func (w *LineWriter) Err() error {
	return w.err
}
