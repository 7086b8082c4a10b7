// Package bptree provides an in-memory B+tree keyed by an ordered type. Leaves
// are linked so that ordered scans and key ranges walk the leaf level only.
package bptree

import (
	"cmp"
	"sort"
	"sync"
)

// DefaultOrder is the fallback branching factor if a user-supplied order is too small.
const DefaultOrder = 32

// BPlusTree maps ordered keys to values. Writers take the tree lock
// exclusively; any number of readers may search and scan concurrently.
type BPlusTree[K cmp.Ordered, V any] struct {
	root   *node[K, V]
	first  *node[K, V]
	order  int
	height int
	size   int
	mu     sync.RWMutex
}

// node represents both internal and leaf nodes in the B+Tree.
type node[K cmp.Ordered, V any] struct {
	isLeaf   bool
	keys     []K
	children []*node[K, V] // used if !isLeaf
	values   []V           // used if isLeaf
	parent   *node[K, V]
	next     *node[K, V] // leaf-link pointer, for range scans
}

// NewBPlusTree creates and returns a B+Tree with the given order.
// If the specified order < 3, we fall back to DefaultOrder.
func NewBPlusTree[K cmp.Ordered, V any](order int) *BPlusTree[K, V] {
	if order < 3 {
		order = DefaultOrder
	}
	leaf := &node[K, V]{
		isLeaf: true,
		keys:   make([]K, 0, order+1),
		values: make([]V, 0, order+1),
	}
	return &BPlusTree[K, V]{
		root:   leaf,
		first:  leaf,
		order:  order,
		height: 1,
	}
}

// Height returns the number of levels.
func (tree *BPlusTree[K, V]) Height() int {
	tree.mu.RLock()
	defer tree.mu.RUnlock()
	return tree.height
}

// Len returns the number of keys.
func (tree *BPlusTree[K, V]) Len() int {
	tree.mu.RLock()
	defer tree.mu.RUnlock()
	return tree.size
}

// childIndex returns which child of an internal node covers key.
func childIndex[K cmp.Ordered](keys []K, key K) int {
	return sort.Search(len(keys), func(i int) bool { return key < keys[i] })
}

// leafIndex returns the position of the first key >= key.
func leafIndex[K cmp.Ordered](keys []K, key K) int {
	return sort.Search(len(keys), func(i int) bool { return keys[i] >= key })
}

func (tree *BPlusTree[K, V]) findLeaf(key K) *node[K, V] {
	current := tree.root
	for !current.isLeaf {
		current = current.children[childIndex(current.keys, key)]
	}
	return current
}

// Search locates the value associated with key.
func (tree *BPlusTree[K, V]) Search(key K) (V, bool) {
	tree.mu.RLock()
	defer tree.mu.RUnlock()

	leaf := tree.findLeaf(key)
	if i := leafIndex(leaf.keys, key); i < len(leaf.keys) && leaf.keys[i] == key {
		return leaf.values[i], true
	}
	var zero V
	return zero, false
}

// Insert adds or replaces the value for key. It reports whether the key was
// new.
func (tree *BPlusTree[K, V]) Insert(key K, value V) bool {
	tree.mu.Lock()
	defer tree.mu.Unlock()

	leaf := tree.findLeaf(key)
	idx := leafIndex(leaf.keys, key)
	if idx < len(leaf.keys) && leaf.keys[idx] == key {
		leaf.values[idx] = value
		return false
	}

	leaf.keys = append(leaf.keys, key)
	copy(leaf.keys[idx+1:], leaf.keys[idx:])
	leaf.keys[idx] = key

	leaf.values = append(leaf.values, value)
	copy(leaf.values[idx+1:], leaf.values[idx:])
	leaf.values[idx] = value

	tree.size++
	if len(leaf.keys) > tree.order {
		tree.splitLeaf(leaf)
	}
	return true
}

// splitLeaf handles splitting a leaf node that has overflowed.
func (tree *BPlusTree[K, V]) splitLeaf(leaf *node[K, V]) {
	mid := len(leaf.keys) / 2

	newLeaf := &node[K, V]{
		isLeaf: true,
		keys:   append(make([]K, 0, tree.order+1), leaf.keys[mid:]...),
		values: append(make([]V, 0, tree.order+1), leaf.values[mid:]...),
		next:   leaf.next,
		parent: leaf.parent,
	}

	leaf.keys = leaf.keys[:mid]
	leaf.values = leaf.values[:mid]
	leaf.next = newLeaf

	tree.insertInParent(leaf, newLeaf.keys[0], newLeaf)
}

// insertInParent links right as the sibling after left, separated by key,
// growing a new root when left has none.
func (tree *BPlusTree[K, V]) insertInParent(left *node[K, V], key K, right *node[K, V]) {
	parent := left.parent
	if parent == nil {
		root := &node[K, V]{
			keys:     []K{key},
			children: []*node[K, V]{left, right},
		}
		left.parent = root
		right.parent = root
		tree.root = root
		tree.height++
		return
	}

	idx := childIndex(parent.keys, key)
	parent.keys = append(parent.keys, key)
	copy(parent.keys[idx+1:], parent.keys[idx:])
	parent.keys[idx] = key

	parent.children = append(parent.children, right)
	copy(parent.children[idx+2:], parent.children[idx+1:])
	parent.children[idx+1] = right
	right.parent = parent

	if len(parent.keys) > tree.order {
		tree.splitInternal(parent)
	}
}

// splitInternal handles splitting an internal node that has overflowed. The
// middle key moves up.
func (tree *BPlusTree[K, V]) splitInternal(internal *node[K, V]) {
	mid := len(internal.keys) / 2
	splitKey := internal.keys[mid]

	sibling := &node[K, V]{
		keys:     append([]K{}, internal.keys[mid+1:]...),
		children: append([]*node[K, V]{}, internal.children[mid+1:]...),
		parent:   internal.parent,
	}
	for _, child := range sibling.children {
		child.parent = sibling
	}

	internal.keys = internal.keys[:mid]
	internal.children = internal.children[:mid+1]

	tree.insertInParent(internal, splitKey, sibling)
}

// Ascend calls fn for every key in ascending order until fn returns false.
func (tree *BPlusTree[K, V]) Ascend(fn func(key K, value V) bool) {
	tree.mu.RLock()
	defer tree.mu.RUnlock()

	for leaf := tree.first; leaf != nil; leaf = leaf.next {
		for i, k := range leaf.keys {
			if !fn(k, leaf.values[i]) {
				return
			}
		}
	}
}

// Range calls fn for every key in [lo, hi] in ascending order until fn
// returns false.
func (tree *BPlusTree[K, V]) Range(lo, hi K, fn func(key K, value V) bool) {
	if hi < lo {
		return
	}
	tree.mu.RLock()
	defer tree.mu.RUnlock()

	leaf := tree.findLeaf(lo)
	i := leafIndex(leaf.keys, lo)
	for leaf != nil {
		for ; i < len(leaf.keys); i++ {
			if leaf.keys[i] > hi {
				return
			}
			if !fn(leaf.keys[i], leaf.values[i]) {
				return
			}
		}
		leaf, i = leaf.next, 0
	}
}

// Keys returns every key in ascending order.
func (tree *BPlusTree[K, V]) Keys() []K {
	keys := make([]K, 0, tree.Len())
	tree.Ascend(func(k K, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Min returns the smallest key.
func (tree *BPlusTree[K, V]) Min() (K, bool) {
	tree.mu.RLock()
	defer tree.mu.RUnlock()

	for leaf := tree.first; leaf != nil; leaf = leaf.next {
		if len(leaf.keys) > 0 {
			return leaf.keys[0], true
		}
	}
	var zero K
	return zero, false
}

// Max returns the largest key.
func (tree *BPlusTree[K, V]) Max() (K, bool) {
	tree.mu.RLock()
	defer tree.mu.RUnlock()

	current := tree.root
	for !current.isLeaf {
		current = current.children[len(current.children)-1]
	}
	if n := len(current.keys); n > 0 {
		return current.keys[n-1], true
	}
	var zero K
	return zero, false
}
