// Package storage archives deck text in a pebble database keyed by KSUID, so
// entries list in creation order.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/keydeck/pkg/deck"
	"github.com/ssargent/keydeck/pkg/model"
)

var ErrNotFound = errors.New("deck not found")

var (
	deckPrefix = []byte("deck/")
	// deckLimit is the first key past every deck key.
	deckLimit = []byte("deck0")
)

// Entry is one archived deck.
type Entry struct {
	ID      ksuid.KSUID `json:"id"`
	Name    string      `json:"name"`
	Created time.Time   `json:"created"`
	Deck    []byte      `json:"deck"`
}

// Archive stores decks in a pebble database.
type Archive struct {
	db   *pebble.DB
	sync bool
}

// Options tune an Archive.
type Options struct {
	// Sync flushes every write to disk before returning.
	Sync bool
}

// Open opens or creates the archive at path.
func Open(path string, opts Options) (*Archive, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	return &Archive{db: db, sync: opts.Sync}, nil
}

func (a *Archive) writeOptions() *pebble.WriteOptions {
	if a.sync {
		return pebble.Sync
	}
	return pebble.NoSync
}

func key(id ksuid.KSUID) []byte {
	return append(append([]byte(nil), deckPrefix...), id.Bytes()...)
}

// Put stores deck text under a new id.
func (a *Archive) Put(name string, text []byte) (ksuid.KSUID, error) {
	id, err := ksuid.NewRandom()
	if err != nil {
		return ksuid.Nil, err
	}
	entry := Entry{ID: id, Name: name, Created: id.Time().UTC(), Deck: text}
	data, err := json.Marshal(entry)
	if err != nil {
		return ksuid.Nil, err
	}
	if err := a.db.Set(key(id), data, a.writeOptions()); err != nil {
		return ksuid.Nil, err
	}
	return id, nil
}

// Get returns an archived entry.
func (a *Archive) Get(id ksuid.KSUID) (*Entry, error) {
	data, closer, err := a.db.Get(key(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	return decode(data)
}

func decode(data []byte) (*Entry, error) {
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("corrupt archive entry: %w", err)
	}
	return &entry, nil
}

// List returns every entry, newest first.
func (a *Archive) List() ([]*Entry, error) {
	iter, err := a.db.NewIter(&pebble.IterOptions{LowerBound: deckPrefix, UpperBound: deckLimit})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var entries []*Entry
	for valid := iter.Last(); valid; valid = iter.Prev() {
		entry, err := decode(iter.Value())
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Delete removes an entry.
func (a *Archive) Delete(id ksuid.KSUID) error {
	_, closer, err := a.db.Get(key(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return err
	}
	_ = closer.Close()
	return a.db.Delete(key(id), a.writeOptions())
}

// PutModel serializes m with w and stores the text.
func (a *Archive) PutModel(name string, m *model.Model, w *deck.Writer) (ksuid.KSUID, error) {
	text, err := w.WriteString(m)
	if err != nil {
		return ksuid.Nil, err
	}
	return a.Put(name, []byte(text))
}

// LoadModel parses an archived deck with r. Include directives in archived
// decks resolve against r's base directory.
func (a *Archive) LoadModel(id ksuid.KSUID, r *deck.Reader) (*model.Model, error) {
	entry, err := a.Get(id)
	if err != nil {
		return nil, err
	}
	return r.Read(bytes.NewReader(entry.Deck), entry.Name)
}

// Close closes the database.
func (a *Archive) Close() error {
	return a.db.Close()
}
