package storage

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/keydeck/pkg/deck"
	"github.com/ssargent/keydeck/pkg/keyword"
	"github.com/ssargent/keydeck/pkg/model"
)

func openArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "archive"), Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestArchive_PutGet(t *testing.T) {
	a := openArchive(t)

	text := []byte("*KEYWORD\n*NODE\n         1       0.0       0.0       0.0\n*END\n")
	id, err := a.Put("plate.k", text)
	require.NoError(t, err)
	assert.NotEqual(t, ksuid.Nil, id)

	entry, err := a.Get(id)
	require.NoError(t, err)
	assert.Equal(t, id, entry.ID)
	assert.Equal(t, "plate.k", entry.Name)
	assert.Equal(t, text, entry.Deck)
	assert.True(t, id.Time().Equal(entry.Created))

	_, err = a.Get(ksuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArchive_ListNewestFirst(t *testing.T) {
	a := openArchive(t)

	var ids []ksuid.KSUID
	for _, name := range []string{"a.k", "b.k", "c.k"} {
		id, err := a.Put(name, []byte("*END\n"))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ksuid.Compare(ids[i], ids[j]) > 0 })

	entries, err := a.List()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, ids[i], e.ID)
	}
}

func TestArchive_Delete(t *testing.T) {
	a := openArchive(t)

	id, err := a.Put("gone.k", []byte("*END\n"))
	require.NoError(t, err)
	require.NoError(t, a.Delete(id))

	_, err = a.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, a.Delete(id), ErrNotFound)

	entries, err := a.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestArchive_ModelRoundTrip(t *testing.T) {
	a := openArchive(t)

	m := model.New()
	m.Title = "archived"
	require.NoError(t, m.Add(&keyword.Nodes{Nodes: []keyword.Node{{ID: 1, X: 1.5}, {ID: 2, Z: -3}}}))
	require.NoError(t, m.Add(&keyword.Parts{Parts: []keyword.Part{{ID: 1, Title: "plate", SectionID: 1, MaterialID: 1}}}))

	id, err := a.PutModel("model.k", m, deck.NewWriter(deck.DefaultWriterConfig()))
	require.NoError(t, err)

	r := deck.NewReader(deck.DefaultReaderConfig())
	loaded, err := a.LoadModel(id, r)
	require.NoError(t, err)
	assert.Empty(t, r.Issues())
	assert.Equal(t, "archived", loaded.Title)
	assert.Equal(t, 2, loaded.NodeCount())
	p, ok := loaded.FindPart(1)
	require.True(t, ok)
	assert.Equal(t, "plate", p.Title)

	_, err = a.LoadModel(ksuid.New(), r)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArchive_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive")
	a, err := Open(path, Options{Sync: true})
	require.NoError(t, err)
	id, err := a.Put("kept.k", []byte("*END\n"))
	require.NoError(t, err)
	require.NoError(t, a.Close())

	a, err = Open(path, Options{})
	require.NoError(t, err)
	defer a.Close()
	entry, err := a.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "kept.k", entry.Name)
}
