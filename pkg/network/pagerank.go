package network

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/mat"
)

// maxPageRankIterations bounds the power iteration when tolerance is never met
const maxPageRankIterations = 1000

// PageRank scores vertices by weighted link structure. Out-links are
// normalized by their total weight; dangling vertices spread evenly.
// The iteration starts from the uniform vector and visits nodes in id
// order, so equal graphs give bit-identical scores.
func PageRank(g *Graph, damping, tolerance float64) map[string]float64 {
	n := g.Order()
	scores := make(map[string]float64, n)
	if n == 0 {
		return scores
	}
	if damping <= 0 || damping >= 1 {
		damping = 0.85
	}
	if tolerance <= 0 {
		tolerance = 1e-6
	}

	m := transitions(g, damping)

	last := make([]float64, n)
	cur := make([]float64, n)
	for i := range cur {
		cur[i] = 1 / float64(n)
	}
	lastV := mat.NewVecDense(n, last)
	curV := mat.NewVecDense(n, cur)

	for i := 0; i < maxPageRankIterations; i++ {
		lastV, curV = curV, lastV
		curV.MulVec(m, lastV)
		if floats.Distance(curV.RawVector().Data, lastV.RawVector().Data, 2) < tolerance {
			break
		}
	}

	for i, score := range curV.RawVector().Data {
		scores[g.Handle(int64(i))] = score
	}
	return scores
}

// transitions builds the damped column-stochastic Google matrix of g.
// Node ids are dense, so the id is the row and column index.
func transitions(g *Graph, damping float64) *mat.Dense {
	n := g.Order()
	wg := g.Directed()
	m := mat.NewDense(n, n, nil)
	dangling := damping / float64(n)

	for j := 0; j < n; j++ {
		u := int64(j)
		to := graph.NodesOf(wg.From(u))
		sort.Slice(to, func(a, b int) bool { return to[a].ID() < to[b].ID() })

		var total float64
		for _, v := range to {
			if w, ok := wg.Weight(u, v.ID()); ok {
				total += w
			}
		}
		if total == 0 {
			for i := 0; i < n; i++ {
				m.Set(i, j, dangling)
			}
			continue
		}
		for _, v := range to {
			if w, ok := wg.Weight(u, v.ID()); ok {
				m.Set(int(v.ID()), j, w*damping/total)
			}
		}
	}

	teleport := (1 - damping) / float64(n)
	data := m.RawMatrix().Data
	for i := range data {
		data[i] += teleport
	}
	return m
}
