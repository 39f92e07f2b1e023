package network

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ignetwork/pkg/models"
)

func TestConsolidate(t *testing.T) {
	raw := []models.Edge{
		{Source: "A", Target: "B", Weight: 10},
		{Source: "A", Target: "B", Weight: 5},
		{Source: "B", Target: "A", Weight: 2},
	}
	want := []models.Edge{
		{Source: "A", Target: "B", Weight: 15},
		{Source: "B", Target: "A", Weight: 2},
	}

	if diff := cmp.Diff(want, Consolidate(raw)); diff != "" {
		t.Errorf("Consolidate() mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, Consolidate(nil))
}

func TestConsolidateOrderIndependent(t *testing.T) {
	var raw []models.Edge
	handles := []string{"ana", "bob", "carol", "dave"}
	for i := 0; i < 200; i++ {
		raw = append(raw, models.Edge{
			Source: handles[i%4],
			Target: handles[(i/4)%4],
			Weight: float64(i%7 + 1),
		})
	}
	want := Consolidate(raw)

	r := rand.New(rand.NewPCG(1, 2))
	for round := 0; round < 5; round++ {
		shuffled := append([]models.Edge(nil), raw...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.Equal(t, want, Consolidate(shuffled))
	}

	// one edge per pair and sums preserved
	var total, sum float64
	seen := make(map[[2]string]bool)
	for _, e := range raw {
		total += e.Weight
	}
	for _, e := range want {
		assert.False(t, seen[e.Pair()], "duplicate pair %v", e.Pair())
		seen[e.Pair()] = true
		sum += e.Weight
	}
	assert.Equal(t, total, sum)
}

func TestNewGraph(t *testing.T) {
	g := NewGraph([]models.Edge{
		{Source: "A", Target: "B", Weight: 2},
		{Source: "A", Target: "A", Weight: 9},
		{Source: "B", Target: "C", Weight: 1},
		{Source: "A", Target: "B", Weight: 3},
	})

	assert.Equal(t, []string{"A", "B", "C"}, g.Handles())
	assert.Equal(t, 3, g.Order())
	assert.Equal(t, 2, g.Size())
	assert.Equal(t, 1, g.DroppedLoops())
	assert.Equal(t, 5.0, g.Weight("A", "B"))
	assert.Equal(t, 0.0, g.Weight("B", "A"))
	assert.Equal(t, 0.0, g.Weight("A", "Z"))
	assert.True(t, g.Has("C"))

	id := g.AddVertex("D")
	assert.Equal(t, int64(3), id)
	assert.Equal(t, id, g.AddVertex("D"))
	assert.Equal(t, "D", g.Handle(id))
}

// twoCliques is two dense directed triangles joined by one light edge
func twoCliques() []models.Edge {
	var edges []models.Edge
	for _, group := range [][]string{{"a1", "a2", "a3"}, {"b1", "b2", "b3"}} {
		for _, s := range group {
			for _, t := range group {
				if s != t {
					edges = append(edges, models.Edge{Source: s, Target: t, Weight: 10})
				}
			}
		}
	}
	return append(edges, models.Edge{Source: "a1", Target: "b1", Weight: 1})
}

func TestLouvain(t *testing.T) {
	g := NewGraph(twoCliques())

	a, err := Louvain{Resolution: 1}.Partition(g, 42)
	require.NoError(t, err)

	assert.Equal(t, 2, a.Count())
	assert.Equal(t, []string{"a1", "a2", "a3"}, a.Members(0))
	assert.Equal(t, []string{"b1", "b2", "b3"}, a.Members(1))
	assert.Greater(t, Modularity(g, a, 1), 0.3)

	again, err := Louvain{Resolution: 1}.Partition(g, 42)
	require.NoError(t, err)
	assert.Equal(t, a, again)
}

func TestLouvainEmptyGraph(t *testing.T) {
	a, err := Louvain{}.Partition(NewGraph(nil), 1)
	require.NoError(t, err)
	assert.Empty(t, a)
	assert.Equal(t, 0, a.Of("anyone"))
}

func TestComponents(t *testing.T) {
	g := NewGraph([]models.Edge{
		{Source: "x", Target: "y", Weight: 1},
		{Source: "z", Target: "y", Weight: 1},
		{Source: "p", Target: "q", Weight: 1},
	})

	a, err := Components{}.Partition(g, 0)
	require.NoError(t, err)
	assert.Equal(t, Assignment{"p": 0, "q": 0, "x": 1, "y": 1, "z": 1}, a)
}

func TestSingleton(t *testing.T) {
	g := NewGraph([]models.Edge{{Source: "b", Target: "a", Weight: 1}})

	a, err := Singleton{}.Partition(g, 0)
	require.NoError(t, err)
	assert.Equal(t, Assignment{"a": 0, "b": 1}, a)
}

func TestDetectorByName(t *testing.T) {
	tests := []struct {
		name string
		want Detector
	}{
		{"louvain", Louvain{Resolution: 0.5}},
		{"LOUVAIN", Louvain{Resolution: 0.5}},
		{"components", Components{}},
		{"singleton", Singleton{}},
	}
	for _, tt := range tests {
		d, err := DetectorByName(tt.name, 0.5)
		require.NoError(t, err)
		assert.Equal(t, tt.want, d)
	}

	_, err := DetectorByName("leiden", 1)
	assert.Error(t, err)
}

func TestAssignmentOfDefaultsToZero(t *testing.T) {
	a := Assignment{"ana": 3}
	assert.Equal(t, 3, a.Of("ana"))
	assert.Equal(t, 0, a.Of("isolated"))
}

func TestPageRank(t *testing.T) {
	// everyone points at hub
	g := NewGraph([]models.Edge{
		{Source: "a", Target: "hub", Weight: 1},
		{Source: "b", Target: "hub", Weight: 1},
		{Source: "c", Target: "hub", Weight: 1},
		{Source: "hub", Target: "a", Weight: 1},
	})

	scores := PageRank(g, 0.85, 1e-8)
	require.Len(t, scores, 4)

	for h, s := range scores {
		assert.Greater(t, s, 0.0)
		if h != "hub" {
			assert.Greater(t, scores["hub"], s)
		}
	}
	// a is the only vertex hub links to
	assert.Greater(t, scores["a"], scores["b"])

	assert.Empty(t, PageRank(NewGraph(nil), 0.85, 1e-6))
}

func TestPageRankIsReproducible(t *testing.T) {
	edges := []models.Edge{
		{Source: "ana", Target: "bob", Weight: 1.9},
		{Source: "bob", Target: "ana", Weight: 2},
		{Source: "carol", Target: "ana", Weight: 11},
		{Source: "carol", Target: "bob", Weight: 11},
		{Source: "fan", Target: "bob", Weight: 1},
		{Source: "fan", Target: "carol", Weight: 1},
	}

	first := PageRank(NewGraph(edges), 0.85, 1e-6)
	var sum float64
	for _, s := range first {
		sum += s
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	for i := 0; i < 20; i++ {
		assert.Equal(t, first, PageRank(NewGraph(edges), 0.85, 1e-6))
	}
}
