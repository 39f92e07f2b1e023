package network

import (
	"sort"

	"ignetwork/pkg/models"
)

// Consolidate sums raw edges per ordered (source, target) pair. The result
// has exactly one edge per pair that occurred and is sorted by source, then
// target, so it does not depend on input order.
func Consolidate(raw []models.Edge) []models.Edge {
	sums := make(map[[2]string]float64, len(raw))
	for _, e := range raw {
		sums[e.Pair()] += e.Weight
	}

	edges := make([]models.Edge, 0, len(sums))
	for pair, w := range sums {
		edges = append(edges, models.Edge{Source: pair[0], Target: pair[1], Weight: w})
	}
	SortEdges(edges)
	return edges
}

// SortEdges orders edges by source, then target
func SortEdges(edges []models.Edge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
}
