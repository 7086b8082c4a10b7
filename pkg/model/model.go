// Package model holds a decoded deck: an ordered list of keywords plus the
// deck title, its source path and its declared format.
//
// The keyword list is the single source of truth. Typed views such as
// NodeBlocks or ShellBlocks are derived from it by one scan on first access
// and dropped whenever the list changes. A Model is not safe for concurrent
// mutation.
package model

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/ssargent/keydeck/pkg/codec"
	"github.com/ssargent/keydeck/pkg/keyword"
)

var (
	ErrNilKeyword      = errors.New("nil keyword")
	ErrIndexOutOfRange = errors.New("keyword index out of range")
)

// Model owns the keywords of one deck in file order.
type Model struct {
	// Title is the text of the *TITLE card.
	Title string
	// Path is the file the deck was read from, empty for in-memory decks.
	Path string
	// Format is the global format declared by *KEYWORD.
	Format codec.Format

	keywords []keyword.Keyword
	views    *views
}

// New returns an empty model.
func New() *Model {
	return &Model{}
}

// Len returns the number of keywords.
func (m *Model) Len() int {
	return len(m.keywords)
}

// At returns the i-th keyword.
func (m *Model) At(i int) (keyword.Keyword, error) {
	if i < 0 || i >= len(m.keywords) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(m.keywords))
	}
	return m.keywords[i], nil
}

// Keywords returns the keywords in order. The slice is a copy; the keywords
// are shared with the model.
func (m *Model) Keywords() []keyword.Keyword {
	return append([]keyword.Keyword(nil), m.keywords...)
}

// isNil reports an untyped nil or a nil pointer held in the interface.
func isNil(k keyword.Keyword) bool {
	if k == nil {
		return true
	}
	v := reflect.ValueOf(k)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Add appends k.
func (m *Model) Add(k keyword.Keyword) error {
	if isNil(k) {
		return ErrNilKeyword
	}
	m.keywords = append(m.keywords, k)
	m.invalidate()
	return nil
}

// Insert places k at position i, shifting later keywords. i may equal Len.
func (m *Model) Insert(i int, k keyword.Keyword) error {
	if isNil(k) {
		return ErrNilKeyword
	}
	if i < 0 || i > len(m.keywords) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(m.keywords))
	}
	m.keywords = append(m.keywords, nil)
	copy(m.keywords[i+1:], m.keywords[i:])
	m.keywords[i] = k
	m.invalidate()
	return nil
}

// Remove deletes and returns the i-th keyword.
func (m *Model) Remove(i int) (keyword.Keyword, error) {
	if i < 0 || i >= len(m.keywords) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(m.keywords))
	}
	k := m.keywords[i]
	m.keywords = append(m.keywords[:i], m.keywords[i+1:]...)
	m.invalidate()
	return k, nil
}

// RemoveKeyword deletes k, compared by identity.
func (m *Model) RemoveKeyword(k keyword.Keyword) bool {
	for i, cur := range m.keywords {
		if cur == k {
			_, _ = m.Remove(i)
			return true
		}
	}
	return false
}

// Replace swaps the i-th keyword for k and returns the old one.
func (m *Model) Replace(i int, k keyword.Keyword) (keyword.Keyword, error) {
	if isNil(k) {
		return nil, ErrNilKeyword
	}
	if i < 0 || i >= len(m.keywords) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(m.keywords))
	}
	old := m.keywords[i]
	m.keywords[i] = k
	m.invalidate()
	return old, nil
}

// Clear removes every keyword. Title, path and format are kept.
func (m *Model) Clear() {
	m.keywords = nil
	m.invalidate()
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	c := &Model{
		Title:    m.Title,
		Path:     m.Path,
		Format:   m.Format,
		keywords: make([]keyword.Keyword, len(m.keywords)),
	}
	for i, k := range m.keywords {
		c.keywords[i] = k.Clone()
	}
	return c
}

// Summary returns the number of keywords per name.
func (m *Model) Summary() map[string]int {
	counts := make(map[string]int)
	for _, k := range m.keywords {
		counts[k.Name()]++
	}
	return counts
}

// Names returns the distinct keyword names in sorted order.
func (m *Model) Names() []string {
	counts := m.Summary()
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Model) invalidate() {
	m.views = nil
}

// First returns the first keyword of type T.
func First[T keyword.Keyword](m *Model) (T, bool) {
	for _, k := range m.keywords {
		if v, ok := k.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// All returns every keyword of type T in order.
func All[T keyword.Keyword](m *Model) []T {
	var out []T
	for _, k := range m.keywords {
		if v, ok := k.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
