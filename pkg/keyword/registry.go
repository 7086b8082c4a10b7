package keyword

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	ErrAliasRegistered = errors.New("keyword alias already registered")
	ErrNilFactory      = errors.New("nil keyword factory")
	ErrEmptyAlias      = errors.New("empty keyword alias")
)

// Factory constructs an empty keyword ready for Decode.
type Factory func() Keyword

// Registry maps case-insensitive keyword names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register binds every alias to f. Aliases are matched case-insensitively.
// An alias that is already bound is rejected with ErrAliasRegistered and none
// of the aliases are registered.
func (r *Registry) Register(f Factory, aliases ...string) error {
	if f == nil {
		return ErrNilFactory
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(aliases))
	for _, alias := range aliases {
		key := normalizeName(alias)
		if key == "" {
			return ErrEmptyAlias
		}
		if _, exists := r.factories[key]; exists {
			return fmt.Errorf("%w: %s", ErrAliasRegistered, key)
		}
		keys = append(keys, key)
	}
	for _, key := range keys {
		r.factories[key] = f
	}
	return nil
}

// MustRegister registers f and panics on error. Intended for building
// registries at startup.
func (r *Registry) MustRegister(f Factory, aliases ...string) {
	if err := r.Register(f, aliases...); err != nil {
		panic(err)
	}
}

// Lookup returns the factory bound to name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[normalizeName(name)]
	return f, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// New constructs the keyword registered under name. Unknown names construct a
// Raw keyword carrying name as its header, and known is false.
func (r *Registry) New(name string) (kw Keyword, known bool) {
	if f, ok := r.Lookup(name); ok {
		return f(), true
	}
	return NewRaw(name), false
}

// Names returns every registered alias in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered aliases.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.factories)
}

func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "*")
	return strings.ToUpper(name)
}

// DefaultRegistry returns a registry populated with every keyword type in this
// package.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister(func() Keyword { return &Nodes{} }, "NODE")

	r.MustRegister(func() Keyword { return &Shells{} }, "ELEMENT_SHELL")
	r.MustRegister(func() Keyword { return &Shells{Thickness: true} }, "ELEMENT_SHELL_THICKNESS")
	r.MustRegister(func() Keyword { return &Solids{} }, "ELEMENT_SOLID")
	r.MustRegister(func() Keyword { return &Beams{} }, "ELEMENT_BEAM")
	r.MustRegister(func() Keyword { return &Discretes{} }, "ELEMENT_DISCRETE")
	r.MustRegister(func() Keyword { return &Seatbelts{} }, "ELEMENT_SEATBELT")

	r.MustRegister(func() Keyword { return &Parts{} }, "PART")

	r.MustRegister(func() Keyword { return &MatElastic{} }, "MAT_ELASTIC", "MAT_001")
	r.MustRegister(func() Keyword { return &MatElastic{titled: titled{HasTitle: true}} }, "MAT_ELASTIC_TITLE", "MAT_001_TITLE")
	r.MustRegister(func() Keyword { return &MatRigid{} }, "MAT_RIGID", "MAT_020")
	r.MustRegister(func() Keyword { return &MatRigid{titled: titled{HasTitle: true}} }, "MAT_RIGID_TITLE", "MAT_020_TITLE")

	r.MustRegister(func() Keyword { return &SectionShell{} }, "SECTION_SHELL")
	r.MustRegister(func() Keyword { return &SectionShell{titled: titled{HasTitle: true}} }, "SECTION_SHELL_TITLE")
	r.MustRegister(func() Keyword { return &SectionSolid{} }, "SECTION_SOLID")
	r.MustRegister(func() Keyword { return &SectionSolid{titled: titled{HasTitle: true}} }, "SECTION_SOLID_TITLE")
	r.MustRegister(func() Keyword { return &SectionBeam{} }, "SECTION_BEAM")
	r.MustRegister(func() Keyword { return &SectionBeam{titled: titled{HasTitle: true}} }, "SECTION_BEAM_TITLE")

	r.MustRegister(func() Keyword { return &ControlTermination{} }, "CONTROL_TERMINATION")

	for _, t := range []ElementType{ElementShell, ElementSolid, ElementBeam, ElementDiscrete, ElementSeatbelt} {
		elementType := t
		suffix := strings.ToUpper(elementType.String())
		r.MustRegister(func() Keyword { return &ElementLifetime{Event: Death, Type: elementType} }, "DEFINE_ELEMENT_DEATH_"+suffix)
		r.MustRegister(func() Keyword { return &ElementLifetime{Event: Birth, Type: elementType} }, "DEFINE_ELEMENT_BIRTH_"+suffix)
	}

	for _, kind := range []SetKind{SetNode, SetPart, SetShell, SetSolid} {
		setKind := kind
		r.MustRegister(func() Keyword { return &IDSet{Kind: setKind} }, "SET_"+strings.ToUpper(setKind.String())+"_LIST")
	}

	r.MustRegister(func() Keyword { return &Include{Variant: IncludePlain} }, "INCLUDE")
	r.MustRegister(func() Keyword { return &Include{Variant: IncludePath} }, "INCLUDE_PATH")
	r.MustRegister(func() Keyword { return &Include{Variant: IncludeTransform} }, "INCLUDE_TRANSFORM")

	return r
}
