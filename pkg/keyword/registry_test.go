package keyword

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry_Lookup(t *testing.T) {
	r := DefaultRegistry()

	testCases := []struct {
		name string
		want string
	}{
		{"NODE", "NODE"},
		{"*node", "NODE"},
		{" Element_Shell ", "ELEMENT_SHELL"},
		{"ELEMENT_SHELL_THICKNESS", "ELEMENT_SHELL_THICKNESS"},
		{"MAT_001", "MAT_ELASTIC"},
		{"mat_020_title", "MAT_RIGID_TITLE"},
		{"SECTION_SHELL_TITLE", "SECTION_SHELL_TITLE"},
		{"DEFINE_ELEMENT_DEATH_SOLID", "DEFINE_ELEMENT_DEATH_SOLID"},
		{"DEFINE_ELEMENT_BIRTH_BEAM", "DEFINE_ELEMENT_BIRTH_BEAM"},
		{"SET_PART_LIST", "SET_PART_LIST"},
		{"INCLUDE_TRANSFORM", "INCLUDE_TRANSFORM"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			kw, known := r.New(tc.name)
			require.True(t, known)
			assert.Equal(t, tc.want, kw.Name())
		})
	}
}

func TestRegistry_UnknownFallsBackToRaw(t *testing.T) {
	r := DefaultRegistry()

	kw, known := r.New("BOUNDARY_SPC_NODE")
	assert.False(t, known)
	raw, ok := kw.(*Raw)
	require.True(t, ok)
	assert.Equal(t, "BOUNDARY_SPC_NODE", raw.Name())
	assert.False(t, r.Has("BOUNDARY_SPC_NODE"))
}

func TestRegistry_AliasCollision(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(func() Keyword { return &Nodes{} }, "NODE"))

	err := r.Register(func() Keyword { return &Parts{} }, "PART", "node")
	assert.True(t, errors.Is(err, ErrAliasRegistered))
	assert.False(t, r.Has("PART"), "failed registration must not bind any alias")
	assert.Equal(t, 1, r.Len())

	kw, _ := r.New("NODE")
	assert.IsType(t, &Nodes{}, kw)

	assert.Panics(t, func() {
		r.MustRegister(func() Keyword { return &Parts{} }, "Node")
	})
}

func TestRegistry_InvalidRegistration(t *testing.T) {
	r := NewRegistry()
	assert.ErrorIs(t, r.Register(nil, "NODE"), ErrNilFactory)
	assert.ErrorIs(t, r.Register(func() Keyword { return &Nodes{} }, "  "), ErrEmptyAlias)
	assert.Zero(t, r.Len())
}

func TestRegistry_FactoriesReturnFreshValues(t *testing.T) {
	r := DefaultRegistry()
	a, _ := r.New("NODE")
	b, _ := r.New("NODE")
	a.(*Nodes).Add(Node{ID: 1})
	assert.Equal(t, 0, b.(*Nodes).Len())
}

func TestRegistry_Names(t *testing.T) {
	r := DefaultRegistry()
	names := r.Names()
	assert.Equal(t, r.Len(), len(names))
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "MAT_001")
}

func TestRegistry_ConcurrentLookup(t *testing.T) {
	r := DefaultRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, known := r.New("ELEMENT_SOLID")
				assert.True(t, known)
			}
		}()
	}
	wg.Wait()
}
