package deck

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStopped is returned by the reader when StopOnError halted a read.
	ErrStopped        = errors.New("read stopped on error")
	ErrIncludeCycle   = errors.New("include cycle")
	ErrMissingInclude = errors.New("include file not found")
	ErrUnknownKeyword = errors.New("unknown keyword")
	ErrUnexpectedData = errors.New("unexpected data line")
	ErrNilModel       = errors.New("nil model")
)

// Severity ranks an issue. Only errors can stop a read.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Kind classifies what went wrong.
type Kind int

const (
	// KindIO is an unopenable or unreadable file.
	KindIO Kind = iota + 1
	// KindDecode is a malformed block of a known keyword; the block is dropped.
	KindDecode
	// KindUnknownKeyword is a block whose name is not registered; it is kept
	// verbatim.
	KindUnknownKeyword
	// KindMissingInclude is an include target that does not exist.
	KindMissingInclude
	// KindIncludeCycle is a file that includes itself, directly or not.
	KindIncludeCycle
	// KindSyntax is a line the reader could not place, such as data after a
	// directive that takes none.
	KindSyntax
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindDecode:
		return "decode"
	case KindUnknownKeyword:
		return "unknown_keyword"
	case KindMissingInclude:
		return "missing_include"
	case KindIncludeCycle:
		return "include_cycle"
	case KindSyntax:
		return "syntax"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Issue is one problem found while reading a deck. Line is 1-based and zero
// when the issue concerns a whole file.
type Issue struct {
	Severity Severity
	Kind     Kind
	Path     string
	Line     int
	Keyword  string
	Err      error
}

func (i Issue) Error() string {
	var b strings.Builder
	if i.Path != "" {
		b.WriteString(i.Path)
	} else {
		b.WriteString("<input>")
	}
	if i.Line > 0 {
		fmt.Fprintf(&b, ":%d", i.Line)
	}
	b.WriteString(": ")
	if i.Keyword != "" {
		fmt.Fprintf(&b, "*%s: ", i.Keyword)
	}
	if i.Err != nil {
		b.WriteString(i.Err.Error())
	} else {
		b.WriteString(i.Kind.String())
	}
	return b.String()
}

func (i Issue) Unwrap() error {
	return i.Err
}

// IsError reports whether the issue has error severity.
func (i Issue) IsError() bool {
	return i.Severity == SeverityError
}
