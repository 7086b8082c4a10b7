package codec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Format selects the column width of real fields.
type Format int

const (
	// Standard uses 10 columns for every field.
	Standard Format = iota
	// Large keeps integers at 10 columns and widens reals to 20.
	Large
)

const (
	IntWidth          = 10
	StandardRealWidth = 10
	LargeRealWidth    = 20
)

// RealWidth returns the column width of a real field under f.
func (f Format) RealWidth() int {
	if f == Large {
		return LargeRealWidth
	}
	return StandardRealWidth
}

func (f Format) String() string {
	switch f {
	case Standard:
		return "standard"
	case Large:
		return "large"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat accepts "standard", "large" or "long" in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "std", "short":
		return Standard, nil
	case "large", "long":
		return Large, nil
	}
	return Standard, fmt.Errorf("unknown format %q", s)
}

var (
	ErrBlankField    = errors.New("blank field")
	ErrInvalidField  = errors.New("invalid field")
	ErrFieldOverflow = errors.New("value does not fit field")
)

// FieldError describes a field that could not be decoded or encoded.
type FieldError struct {
	Column int
	Width  int
	Text   string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("column %d (width %d) %q: %v", e.Column+1, e.Width, e.Text, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// slice returns the trimmed text of the field at offset, or "" if the field
// lies beyond the end of the line.
func slice(line string, offset, width int) string {
	if offset < 0 || width <= 0 || offset >= len(line) {
		return ""
	}
	end := offset + width
	if end > len(line) {
		end = len(line)
	}
	return strings.TrimSpace(line[offset:end])
}

// ParseInt decodes the integer field at offset. A blank or out-of-range field
// returns ErrBlankField.
func ParseInt(line string, offset, width int) (int, error) {
	return parseIntText(slice(line, offset, width))
}

// ParseReal decodes the real field at offset. A blank or out-of-range field
// returns ErrBlankField.
func ParseReal(line string, offset, width int) (float64, error) {
	return parseRealText(slice(line, offset, width))
}

// ParseString returns the trimmed text of the field at offset.
func ParseString(line string, offset, width int) string {
	return slice(line, offset, width)
}

// IntOr decodes an integer field, returning def when the field is blank,
// out of range or malformed.
func IntOr(line string, offset, width, def int) int {
	v, err := ParseInt(line, offset, width)
	if err != nil {
		return def
	}
	return v
}

// RealOr decodes a real field, returning def when the field is blank,
// out of range or malformed.
func RealOr(line string, offset, width int, def float64) float64 {
	v, err := ParseReal(line, offset, width)
	if err != nil {
		return def
	}
	return v
}

func parseIntText(s string) (int, error) {
	if s == "" {
		return 0, ErrBlankField
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	// Integral reals such as "5." are accepted in integer columns.
	f, err := parseRealText(s)
	if err != nil {
		return 0, ErrInvalidField
	}
	if f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, ErrInvalidField
	}
	return int(f), nil
}

func parseRealText(s string) (float64, error) {
	if s == "" {
		return 0, ErrBlankField
	}
	v, err := strconv.ParseFloat(NormalizeReal(s), 64)
	if err != nil {
		return 0, ErrInvalidField
	}
	return v, nil
}

// NormalizeReal rewrites Fortran d/D exponent markers and bare-sign exponents
// into the e notation understood by strconv.
func NormalizeReal(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	b := []byte(s)
	hasExp := false
	for i, c := range b {
		switch c {
		case 'd', 'D':
			b[i] = 'e'
			hasExp = true
		case 'e', 'E':
			hasExp = true
		}
	}
	if hasExp {
		return string(b)
	}
	for i := len(b) - 1; i > 0; i-- {
		if b[i] != '+' && b[i] != '-' {
			continue
		}
		if prev := b[i-1]; prev == '.' || (prev >= '0' && prev <= '9') {
			return string(b[:i]) + "e" + string(b[i:])
		}
		break
	}
	return string(b)
}

// FormatInt right-justifies v in width columns. The second return is false
// when the digits do not fit.
func FormatInt(v, width int) (string, bool) {
	s := strconv.Itoa(v)
	if len(s) > width {
		return s, false
	}
	return pad(s, width), true
}

// FormatReal renders v right-justified in width columns. It prefers the
// shortest fixed-point text, then fixed-point with reduced precision, then
// compact scientific notation, and truncates as a last resort.
func FormatReal(v float64, width int) string {
	if width <= 0 {
		return ""
	}
	return pad(realText(v, width), width)
}

// FormatString right-justifies s in width columns, truncating when too long.
func FormatString(s string, width int) string {
	if len(s) > width {
		return s[:width]
	}
	return pad(s, width)
}

// FormatLeft left-justifies s in width columns, truncating when too long.
func FormatLeft(s string, width int) string {
	if len(s) > width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func realText(v float64, width int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return truncate(strconv.FormatFloat(v, 'g', -1, 64), width)
	}
	if v == 0 {
		return truncate("0.0", width)
	}

	if s := fixed(v, -1, width); len(s) <= width {
		return s
	}

	abs := math.Abs(v)
	if abs >= 1e-3 {
		sign := 0
		if v < 0 {
			sign = 1
		}
		intDigits := len(strconv.FormatFloat(math.Trunc(abs), 'f', 0, 64))
		for prec := width - sign - intDigits - 1; prec >= 1; prec-- {
			if s := fixed(v, prec, width); len(s) <= width {
				return s
			}
		}
	}

	if s := scientific(v, -1); len(s) <= width {
		return s
	}
	for prec := width; prec >= 0; prec-- {
		if s := scientific(v, prec); len(s) <= width {
			return s
		}
	}
	return truncate(scientific(v, 0), width)
}

func fixed(v float64, prec, width int) string {
	s := strconv.FormatFloat(v, 'f', prec, 64)
	if !strings.Contains(s, ".") {
		if len(s)+2 <= width {
			return s + ".0"
		}
		return s + "."
	}
	if prec >= 0 {
		s = strings.TrimRight(s, "0")
		if strings.HasSuffix(s, ".") {
			s += "0"
		}
	}
	return s
}

// scientific renders v as mantissa e exponent with the exponent sign and
// leading zeros dropped where possible: 7.85e-9, 1.5e12.
func scientific(v float64, prec int) string {
	s := strconv.FormatFloat(v, 'e', prec, 64)
	mant, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	neg := strings.HasPrefix(exp, "-")
	exp = strings.TrimLeft(exp, "+-")
	exp = strings.TrimLeft(exp, "0")
	if exp == "" {
		exp = "0"
	}
	if neg {
		exp = "-" + exp
	}
	return mant + "e" + exp
}

func truncate(s string, width int) string {
	if len(s) > width {
		return s[:width]
	}
	return s
}
