package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/keydeck/pkg/keyword"
	"github.com/ssargent/keydeck/pkg/model"
)

// blockModel is two unit hexahedra side by side with a shell strip on the
// front face, a beam across the diagonal and a tetrahedron in the corner.
func blockModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.New()

	var nodes []keyword.Node
	id := 1
	for z := 0; z <= 1; z++ {
		for y := 0; y <= 1; y++ {
			for x := 0; x <= 2; x++ {
				nodes = append(nodes, keyword.Node{ID: id, X: float64(x), Y: float64(y), Z: float64(z)})
				id++
			}
		}
	}
	require.NoError(t, m.Add(&keyword.Nodes{Nodes: nodes}))
	require.NoError(t, m.Add(&keyword.Shells{Elements: []keyword.Shell{
		{ID: 1, PartID: 1, N: [8]int{1, 2, 8, 7}},
		{ID: 2, PartID: 1, N: [8]int{2, 3, 9, 9}},
	}}))
	require.NoError(t, m.Add(&keyword.Solids{Elements: []keyword.Solid{
		{ID: 100, PartID: 2, N: [8]int{1, 2, 5, 4, 7, 8, 11, 10}},
		{ID: 101, PartID: 2, N: [8]int{2, 3, 6, 5, 8, 9, 12, 11}},
		{ID: 300, PartID: 4, N: [8]int{1, 2, 4, 7, 7, 7, 7, 7}},
	}}))
	require.NoError(t, m.Add(&keyword.Beams{Elements: []keyword.Beam{
		{ID: 200, PartID: 3, N1: 1, N2: 12},
	}}))
	require.NoError(t, m.Add(&keyword.Shells{Elements: []keyword.Shell{
		{ID: 1, PartID: 9, N: [8]int{4, 5, 6, 6}},
	}}))
	require.NoError(t, m.Add(&keyword.Parts{Parts: []keyword.Part{
		{ID: 1, Title: "skin", SectionID: 1, MaterialID: 1},
		{ID: 2, Title: "core", SectionID: 2, MaterialID: 2},
		{ID: 3, Title: "tie", SectionID: 3, MaterialID: 1},
	}}))
	require.NoError(t, m.Add(&keyword.ElementLifetime{Event: keyword.Birth, Type: keyword.ElementShell,
		Entries: []keyword.LifetimeEntry{{ElementID: 1, Time: 2.0}}}))
	require.NoError(t, m.Add(&keyword.ElementLifetime{Event: keyword.Death, Type: keyword.ElementShell,
		Entries: []keyword.LifetimeEntry{{ElementID: 1, Time: 5.0}}}))
	require.NoError(t, m.Add(&keyword.ElementLifetime{Event: keyword.Death, Type: keyword.ElementSolid,
		Entries: []keyword.LifetimeEntry{{ElementID: 1, Time: 0.5}, {ElementID: 100, Time: 3.0}}}))
	return m
}

func TestManagers_NotBuilt(t *testing.T) {
	m := blockModel(t)

	nm := NewNodeManager(m)
	assert.False(t, nm.Built())
	assert.Equal(t, 0, nm.Count())
	_, err := nm.IDs()
	assert.ErrorIs(t, err, ErrNotBuilt)
	_, err = nm.Position(1)
	assert.ErrorIs(t, err, ErrNotBuilt)
	assert.ErrorIs(t, nm.SetPosition(1, [3]float64{}), ErrNotBuilt)

	em := NewElementManager(m)
	_, err = em.Type(1)
	assert.ErrorIs(t, err, ErrNotBuilt)
	assert.False(t, em.IsAliveAt(2, 0))
	_, ok := em.BirthTime(1)
	assert.False(t, ok)

	pm := NewPartManager(m)
	_, err = pm.Elements(1)
	assert.ErrorIs(t, err, ErrNotBuilt)
	_, err = pm.PartOf(1)
	assert.ErrorIs(t, err, ErrNotBuilt)
}

func TestNodeManager_Lookups(t *testing.T) {
	nm := NewNodeManager(blockModel(t))
	require.NoError(t, nm.Build())
	assert.True(t, nm.Built())
	assert.Equal(t, 12, nm.Count())

	p, err := nm.Position(6)
	require.NoError(t, err)
	assert.Equal(t, [3]float64{2, 1, 0}, p)

	_, err = nm.Node(99)
	assert.ErrorIs(t, err, ErrUnknownNode)
	assert.True(t, nm.Has(12))
	assert.False(t, nm.Has(13))

	ids, err := nm.IDsInRange(2, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, ids)

	all, err := nm.IDs()
	require.NoError(t, err)
	assert.Len(t, all, 12)
	assert.IsIncreasing(t, all)
}

func TestNodeManager_ConnectedElements(t *testing.T) {
	nm := NewNodeManager(blockModel(t))
	require.NoError(t, nm.Build())

	got, err := nm.ConnectedElements(1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 100, 200, 300}, got)

	got, err = nm.ConnectedElements(12)
	require.NoError(t, err)
	assert.Equal(t, []int{101, 200}, got)

	// the duplicate shell 1 is not indexed
	got, err = nm.ConnectedElements(6)
	require.NoError(t, err)
	assert.Equal(t, []int{101}, got)

	_, err = nm.ConnectedElements(42)
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestNodeManager_Spatial(t *testing.T) {
	nm := NewNodeManager(blockModel(t))
	require.NoError(t, nm.Build())

	box, err := nm.BoundingBox()
	require.NoError(t, err)
	assert.Equal(t, [3]float64{0, 0, 0}, box.Min)
	assert.Equal(t, [3]float64{2, 1, 1}, box.Max)
	assert.Equal(t, [3]float64{1, 0.5, 0.5}, box.Center())
	assert.Equal(t, [3]float64{2, 1, 1}, box.Size())
	assert.True(t, box.Contains([3]float64{2, 1, 1}))
	assert.False(t, box.Contains([3]float64{2.1, 0, 0}))

	id, d, err := nm.Nearest([3]float64{0.9, 0.1, 0})
	require.NoError(t, err)
	assert.Equal(t, 2, id)
	assert.InDelta(t, 0.1414, d, 1e-4)

	within, err := nm.WithinRadius([3]float64{0, 0, 0}, 1.0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 4, 7}, within)

	empty := NewNodeManager(model.New())
	require.NoError(t, empty.Build())
	_, _, err = empty.Nearest([3]float64{})
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = empty.BoundingBox()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestNodeManager_MutationsWriteThrough(t *testing.T) {
	m := blockModel(t)
	nm := NewNodeManager(m)
	require.NoError(t, nm.Build())

	require.NoError(t, nm.SetPosition(1, [3]float64{5, 5, 5}))
	nd, ok := m.FindNode(1)
	require.True(t, ok)
	assert.Equal(t, [3]float64{5, 5, 5}, nd.Position())

	err := nm.Translate([]int{2, 99}, [3]float64{1, 0, 0})
	assert.ErrorIs(t, err, ErrUnknownNode)
	p, _ := nm.Position(2)
	assert.Equal(t, [3]float64{1, 0, 0}, p, "no node moves when one id is unknown")

	require.NoError(t, nm.Translate([]int{2, 2}, [3]float64{0, 0, 1}))
	p, _ = nm.Position(2)
	assert.Equal(t, [3]float64{1, 0, 1}, p, "repeated ids move once")

	require.NoError(t, nm.Scale(nil, [3]float64{}, 2))
	p, _ = nm.Position(3)
	assert.Equal(t, [3]float64{4, 0, 0}, p)
	nd, _ = m.FindNode(12)
	assert.Equal(t, [3]float64{4, 2, 2}, nd.Position())
}

func TestNodeManager_Rebuild(t *testing.T) {
	m := blockModel(t)
	nm := NewNodeManager(m)
	require.NoError(t, nm.Build())

	require.NoError(t, m.Add(&keyword.Nodes{Nodes: []keyword.Node{{ID: 13}, {ID: 1, X: 99}}}))
	assert.Equal(t, 12, nm.Count())

	require.NoError(t, nm.Build())
	assert.Equal(t, 13, nm.Count())
	p, err := nm.Position(1)
	require.NoError(t, err)
	assert.Equal(t, [3]float64{0, 0, 0}, p, "first definition wins")
}

func TestElementManager_Lookups(t *testing.T) {
	em := NewElementManager(blockModel(t))
	require.NoError(t, em.Build())

	assert.Equal(t, 6, em.Count())
	assert.Equal(t, []int{1}, em.Duplicates())

	typ, err := em.Type(200)
	require.NoError(t, err)
	assert.Equal(t, keyword.ElementBeam, typ)

	pid, err := em.PartID(1)
	require.NoError(t, err)
	assert.Equal(t, 1, pid, "first definition wins")

	nodes, err := em.Nodes(200)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 12}, nodes)

	solids, err := em.IDsOfType(keyword.ElementSolid)
	require.NoError(t, err)
	assert.Equal(t, []int{100, 101, 300}, solids)

	ids, err := em.IDsInRange(2, 200)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 100, 101, 200}, ids)

	_, err = em.PartID(7)
	assert.ErrorIs(t, err, ErrUnknownElement)
}

func TestElementManager_SolidShape(t *testing.T) {
	m := model.New()
	require.NoError(t, m.Add(&keyword.Solids{Elements: []keyword.Solid{
		{ID: 1, N: [8]int{1, 2, 3, 4, 5, 6, 7, 8}},
		{ID: 2, N: [8]int{1, 2, 3, 4, 5, 5, 6, 6}},
		{ID: 3, N: [8]int{1, 2, 3, 4, 5, 5, 5, 5}},
		{ID: 4, N: [8]int{1, 2, 3, 4, 4, 4, 4, 4}},
		{ID: 5, N: [8]int{1, 2, 3, 4}},
	}}))
	require.NoError(t, m.Add(&keyword.Shells{Elements: []keyword.Shell{{ID: 6, N: [8]int{1, 2, 3, 3}}}}))
	em := NewElementManager(m)
	require.NoError(t, em.Build())

	tests := []struct {
		id       int
		shape    keyword.SolidShape
		faces    int
		triangle int
	}{
		{1, keyword.ShapeHexahedron, 6, 0},
		{2, keyword.ShapeWedge, 5, 2},
		{3, keyword.ShapePyramid, 5, 4},
		{4, keyword.ShapeTetrahedron, 4, 4},
		{5, keyword.ShapeTetrahedron, 4, 4},
	}
	for _, tt := range tests {
		shape, err := em.SolidShape(tt.id)
		require.NoError(t, err)
		assert.Equal(t, tt.shape, shape, "element %d", tt.id)

		segs, err := em.Segments(tt.id)
		require.NoError(t, err)
		assert.Len(t, segs, tt.faces, "element %d", tt.id)
		triangles := 0
		for _, s := range segs {
			if len(s) == 3 {
				triangles++
			}
		}
		assert.Equal(t, tt.triangle, triangles, "element %d", tt.id)
	}

	_, err := em.SolidShape(6)
	assert.ErrorIs(t, err, ErrWrongType)
	segs, err := em.Segments(6)
	require.NoError(t, err)
	assert.Equal(t, []Segment{{1, 2, 3}}, segs)
}

func TestElementManager_BoundarySegments(t *testing.T) {
	em := NewElementManager(blockModel(t))
	require.NoError(t, em.Build())

	segs, err := em.BoundarySegments([]int{100, 101})
	require.NoError(t, err)
	assert.Len(t, segs, 10)
	for _, s := range segs {
		assert.NotEqual(t, Segment{2, 5, 11, 8}.key(), s.key(), "shared face is interior")
	}

	segs, err = em.BoundarySegments(nil)
	require.NoError(t, err)
	assert.Len(t, segs, 14)

	_, err = em.BoundarySegments([]int{100, 5})
	assert.ErrorIs(t, err, ErrUnknownElement)

	segs, err = em.BoundarySegments([]int{200})
	require.NoError(t, err)
	assert.Empty(t, segs)
}

func TestElementManager_BoundarySegmentsRepeatedIDs(t *testing.T) {
	em := NewElementManager(blockModel(t))
	require.NoError(t, em.Build())

	single, err := em.BoundarySegments([]int{100})
	require.NoError(t, err)
	require.Len(t, single, 6)

	repeated, err := em.BoundarySegments([]int{100, 100})
	require.NoError(t, err)
	assert.Equal(t, single, repeated)

	pair, err := em.BoundarySegments([]int{100, 101, 100, 101})
	require.NoError(t, err)
	assert.Len(t, pair, 10)
}

func TestElementManager_BirthDeath(t *testing.T) {
	em := NewElementManager(blockModel(t))
	require.NoError(t, em.Build())

	birth, ok := em.BirthTime(1)
	require.True(t, ok)
	assert.Equal(t, 2.0, birth)
	death, ok := em.DeathTime(1)
	require.True(t, ok)
	assert.Equal(t, 5.0, death, "the solid entry for id 1 names another family")

	assert.False(t, em.IsAliveAt(1, 1.9))
	assert.True(t, em.IsAliveAt(1, 2.0))
	assert.True(t, em.IsAliveAt(1, 4.999))
	assert.False(t, em.IsAliveAt(1, 5.0))
	assert.True(t, em.IsAliveAt(2, -1), "no window means always alive")
	assert.False(t, em.IsAliveAt(404, 0))

	alive, err := em.AliveAt(0)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 100, 101, 200, 300}, alive)

	alive, err = em.AliveAt(4)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 101, 200, 300}, alive)

	require.NoError(t, em.SetBirthTime(200, 1))
	require.NoError(t, em.SetDeathTime(200, 1))
	assert.False(t, em.IsAliveAt(200, 1), "empty window")
	assert.ErrorIs(t, em.SetDeathTime(404, 1), ErrUnknownElement)
}

func TestPartManager_Membership(t *testing.T) {
	pm := NewPartManager(blockModel(t))
	require.NoError(t, pm.Build())

	ids, err := pm.IDs()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids)
	assert.Equal(t, 3, pm.Count())

	elems, err := pm.Elements(1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, elems)

	nodes, err := pm.Nodes(1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 7, 8, 9}, nodes)

	// referenced but never defined
	elems, err = pm.Elements(4)
	require.NoError(t, err)
	assert.Equal(t, []int{300}, elems)
	_, err = pm.Part(4)
	assert.ErrorIs(t, err, ErrUnknownPart)

	_, err = pm.Elements(9)
	assert.ErrorIs(t, err, ErrUnknownPart, "the duplicate shell is not indexed")

	pid, err := pm.PartOf(101)
	require.NoError(t, err)
	assert.Equal(t, 2, pid)
	_, err = pm.PartOf(404)
	assert.ErrorIs(t, err, ErrUnknownElement)
}

func TestPartManager_Stats(t *testing.T) {
	pm := NewPartManager(blockModel(t))
	require.NoError(t, pm.Build())

	stats, err := pm.Stats(1)
	require.NoError(t, err)
	assert.Equal(t, "skin", stats.Title)
	assert.Equal(t, map[keyword.ElementType]int{keyword.ElementShell: 2}, stats.Elements)
	assert.Equal(t, 2, stats.ElementCount())
	assert.Equal(t, 6, stats.Nodes)
	assert.Equal(t, [3]float64{0, 0, 0}, stats.Box.Min)
	assert.Equal(t, [3]float64{2, 0, 1}, stats.Box.Max)
	assert.Equal(t, [3]float64{1, 0, 0.5}, stats.Centroid)

	box, err := pm.BoundingBox(3)
	require.NoError(t, err)
	assert.Equal(t, [3]float64{2, 1, 1}, box.Max)
}

func TestPartManager_SetReferences(t *testing.T) {
	m := blockModel(t)
	pm := NewPartManager(m)
	require.NoError(t, pm.Build())

	require.NoError(t, pm.SetMaterial(1, 7))
	require.NoError(t, pm.SetSection(1, 8))
	p, ok := m.FindPart(1)
	require.True(t, ok)
	assert.Equal(t, 7, p.MaterialID)
	assert.Equal(t, 8, p.SectionID)

	assert.ErrorIs(t, pm.SetMaterial(4, 1), ErrUnknownPart)
}

func TestManagers_Consistency(t *testing.T) {
	m := blockModel(t)
	em := NewElementManager(m)
	pm := NewPartManager(m)
	require.NoError(t, em.Build())
	require.NoError(t, pm.Build())

	ids, err := em.IDs()
	require.NoError(t, err)
	for _, eid := range ids {
		pid, err := em.PartID(eid)
		require.NoError(t, err)
		members, err := pm.Elements(pid)
		require.NoError(t, err)
		assert.Contains(t, members, eid)

		owner, err := pm.PartOf(eid)
		require.NoError(t, err)
		assert.Equal(t, pid, owner)

		for _, other := range []int{1, 2, 3, 4} {
			if other == pid {
				continue
			}
			members, err := pm.Elements(other)
			require.NoError(t, err)
			assert.NotContains(t, members, eid)
		}
	}
}
