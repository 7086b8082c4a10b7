// Package codec provides fixed-column field encoding and decoding for keyword decks.
//
// A keyword deck is a line-oriented text format. Each data line (a "card") is a
// sequence of fixed-width fields holding an integer, a real, or a string. The
// width of a real field depends on the active format mode.
//
// # Field Layout
//
// Fields are right-justified inside their columns:
//
//	Standard:  [INT(10)][REAL(10)][REAL(10)][INT(10)] ...
//	Large:     [INT(10)][REAL(20)][REAL(20)][INT(10)] ...
//
// Integer fields are always 10 columns wide. Real fields are 10 columns under
// Standard and 20 columns under Large. Once a real field has been read under
// Large, every later field on the line starts at a different byte offset than it
// would under Standard, so decoders walk a line with a LineReader cursor instead
// of computing offsets from a field index.
//
// # Real Notation
//
// Besides the usual 1.5e-3 notation, real fields accept:
//   - Fortran exponent markers: 1.0d-5 and 1.0D+05
//   - Bare-sign exponents: 7.85-9 means 7.85e-9
//
// # Free Format
//
// A card containing a comma is split on commas instead of columns. Decoders
// that use ReadCard also retry a card as whitespace-separated tokens when its
// fixed-column decode fails, so hand-written decks such as
//
//	*NODE
//	 1 0.0 0.0 0.0
//
// decode as expected.
//
// # Usage
//
//	err := codec.ReadCard(line, codec.Large, func(r *codec.LineReader) {
//	    id = r.Int(0)
//	    x = r.Real(0)
//	})
//
//	w := codec.NewLineWriter(codec.Large)
//	w.Int(id)
//	w.Real(x)
//	line := w.Line()
//
// # Error Handling
//
// A blank field, or a field that lies past the end of the line, decodes to the
// caller-supplied default. Malformed text (for example "abc" in an integer
// field) is reported through LineReader.Err as a *FieldError wrapping
// ErrInvalidField. Writers report fields that cannot fit their columns through
// LineWriter.Err.
//
// # Thread Safety
//
// The package-level functions are stateless and safe for concurrent use.
// LineReader and LineWriter values must not be shared between goroutines.
package codec
