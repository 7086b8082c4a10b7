// Package index builds secondary indexes over a model: node positions and
// connectivity, element types, faces and lifetimes, and part membership.
//
// Each manager scans the model once when Build is called and is a snapshot
// from then on. Rebuild after adding, removing or reconnecting nodes,
// elements or parts. Managers are not safe for concurrent mutation.
package index

import (
	"errors"
	"math"

	"github.com/ssargent/keydeck/pkg/keyword"
	"github.com/ssargent/keydeck/pkg/model"
)

var (
	ErrNotBuilt       = errors.New("index not built")
	ErrUnknownNode    = errors.New("unknown node")
	ErrUnknownElement = errors.New("unknown element")
	ErrUnknownPart    = errors.New("unknown part")
	ErrEmpty          = errors.New("no nodes")
	ErrWrongType      = errors.New("wrong element type")
)

// treeOrder is the branching factor of the id trees.
const treeOrder = 32

// BoundingBox is an axis-aligned box.
type BoundingBox struct {
	Min [3]float64
	Max [3]float64
}

func emptyBox() BoundingBox {
	inf := math.Inf(1)
	return BoundingBox{
		Min: [3]float64{inf, inf, inf},
		Max: [3]float64{-inf, -inf, -inf},
	}
}

func (b *BoundingBox) extend(p [3]float64) {
	for i := range p {
		b.Min[i] = math.Min(b.Min[i], p[i])
		b.Max[i] = math.Max(b.Max[i], p[i])
	}
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() [3]float64 {
	return [3]float64{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Size returns the edge lengths of the box.
func (b BoundingBox) Size() [3]float64 {
	return [3]float64{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}

// Contains reports whether p lies inside or on the box.
func (b BoundingBox) Contains(p [3]float64) bool {
	for i := range p {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

func distance(a, b [3]float64) float64 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// scanElements visits every element of m in file order. An id seen before is
// passed with dup set; the first occurrence wins everywhere.
func scanElements(m *model.Model, fn func(e keyword.Element, dup bool)) {
	seen := make(map[int]struct{})
	for _, block := range m.ElementBlocks() {
		for i := 0; i < block.Len(); i++ {
			e := block.Element(i)
			_, dup := seen[e.ID]
			seen[e.ID] = struct{}{}
			fn(e, dup)
		}
	}
}

// uniqueNodes returns the distinct ids of ids in first-seen order.
func uniqueNodes(ids []int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		dup := false
		for _, o := range out {
			if o == id {
				dup = true
				break
			}
		}
		if !dup && id != 0 {
			out = append(out, id)
		}
	}
	return out
}
