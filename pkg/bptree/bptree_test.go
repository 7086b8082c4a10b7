package bptree_test

import (
	"math/rand"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/keydeck/pkg/bptree"
)

func TestBPlusTree_InsertAndSearch(t *testing.T) {
	tests := map[string]struct {
		inserts  map[int]string
		order    []int
		searches []struct {
			key      int
			expected string
			found    bool
		}
	}{
		"Insert and search integers": {
			inserts: map[int]string{1: "one", 2: "two", 3: "three", 4: "four", 5: "five"},
			order:   []int{1, 2, 3, 4, 5},
			searches: []struct {
				key      int
				expected string
				found    bool
			}{
				{1, "one", true},
				{3, "three", true},
				{5, "five", true},
				{6, "", false},
				{0, "", false},
			},
		},
		"Search empty tree": {
			searches: []struct {
				key      int
				expected string
				found    bool
			}{
				{1, "", false},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tree := bptree.NewBPlusTree[int, string](3)
			for _, k := range tt.order {
				assert.True(t, tree.Insert(k, tt.inserts[k]))
			}
			for _, search := range tt.searches {
				value, found := tree.Search(search.key)
				assert.Equal(t, search.found, found, "Search(%d)", search.key)
				assert.Equal(t, search.expected, value, "Search(%d)", search.key)
			}
		})
	}
}

func TestBPlusTree_DuplicateKeyReplaces(t *testing.T) {
	tree := bptree.NewBPlusTree[int, string](4)
	assert.True(t, tree.Insert(1, "one"))
	assert.False(t, tree.Insert(1, "uno"))

	v, ok := tree.Search(1)
	require.True(t, ok)
	assert.Equal(t, "uno", v)
	assert.Equal(t, 1, tree.Len())
}

func TestBPlusTree_OrderedScan(t *testing.T) {
	tree := bptree.NewBPlusTree[int, int](4)
	rng := rand.New(rand.NewSource(7))
	keys := rng.Perm(1000)
	for _, k := range keys {
		tree.Insert(k*3, k)
	}

	require.Equal(t, 1000, tree.Len())
	assert.Greater(t, tree.Height(), 2)

	got := tree.Keys()
	assert.True(t, sort.IntsAreSorted(got))
	assert.Len(t, got, 1000)

	lo, ok := tree.Min()
	require.True(t, ok)
	assert.Equal(t, 0, lo)
	hi, ok := tree.Max()
	require.True(t, ok)
	assert.Equal(t, 2997, hi)

	for _, k := range keys {
		v, found := tree.Search(k * 3)
		require.True(t, found)
		assert.Equal(t, k, v)
		_, found = tree.Search(k*3 + 1)
		assert.False(t, found)
	}
}

func TestBPlusTree_Range(t *testing.T) {
	tree := bptree.NewBPlusTree[int, struct{}](3)
	for k := 100; k > 0; k -= 2 {
		tree.Insert(k, struct{}{})
	}

	var got []int
	tree.Range(11, 21, func(k int, _ struct{}) bool {
		got = append(got, k)
		return true
	})
	assert.Equal(t, []int{12, 14, 16, 18, 20}, got)

	got = nil
	tree.Range(-5, 6, func(k int, _ struct{}) bool {
		got = append(got, k)
		return len(got) < 2
	})
	assert.Equal(t, []int{2, 4}, got)

	got = nil
	tree.Range(200, 300, func(k int, _ struct{}) bool {
		got = append(got, k)
		return true
	})
	assert.Empty(t, got)

	tree.Range(10, 5, func(int, struct{}) bool {
		t.Fatal("inverted range must not call fn")
		return false
	})
}

func TestBPlusTree_EmptyBounds(t *testing.T) {
	tree := bptree.NewBPlusTree[string, int](0)
	_, ok := tree.Min()
	assert.False(t, ok)
	_, ok = tree.Max()
	assert.False(t, ok)
	assert.Empty(t, tree.Keys())

	tree.Insert("b", 2)
	tree.Insert("a", 1)
	assert.Equal(t, []string{"a", "b"}, tree.Keys())
}

func TestBPlusTree_Concurrency(t *testing.T) {
	tree := bptree.NewBPlusTree[int, string](4)

	// Insert keys concurrently
	var wg sync.WaitGroup
	for i := 1; i <= 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tree.Insert(i, string(rune('a'+i-1)))
		}(i)
	}
	wg.Wait()

	// Search for keys concurrently
	for i := 1; i <= 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, found := tree.Search(i); !found {
				t.Errorf("Expected to find key %d", i)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 100, tree.Len())
	assert.True(t, sort.IntsAreSorted(tree.Keys()))
}
