package network

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/topo"
)

// Assignment maps each vertex handle to its community id
type Assignment map[string]int

// Of returns the community of handle. Vertices without an assignment
// belong to community 0.
func (a Assignment) Of(handle string) int {
	return a[handle]
}

// Count returns the number of distinct community ids
func (a Assignment) Count() int {
	seen := make(map[int]bool)
	for _, c := range a {
		seen[c] = true
	}
	return len(seen)
}

// Members returns the sorted handles of community c
func (a Assignment) Members(c int) []string {
	var out []string
	for handle, id := range a {
		if id == c {
			out = append(out, handle)
		}
	}
	sort.Strings(out)
	return out
}

// Detector partitions a graph into communities
type Detector interface {
	Partition(g *Graph, seed uint64) (Assignment, error)
}

// Louvain maximises directed modularity, treating edge weight as strength.
// A fixed seed gives a reproducible partition.
type Louvain struct {
	Resolution float64
}

// Partition implements Detector
func (l Louvain) Partition(g *Graph, seed uint64) (Assignment, error) {
	if g.Order() == 0 {
		return Assignment{}, nil
	}
	resolution := l.Resolution
	if resolution <= 0 {
		resolution = 1
	}

	reduced := community.Modularize(g.Directed(), resolution, rand.NewPCG(seed, seed))
	return g.assign(reduced.Communities()), nil
}

// Components puts each weakly connected component in its own community
type Components struct{}

// Partition implements Detector
func (Components) Partition(g *Graph, _ uint64) (Assignment, error) {
	if g.Order() == 0 {
		return Assignment{}, nil
	}
	return g.assign(topo.ConnectedComponents(graph.Undirect{G: g.Directed()})), nil
}

// Singleton puts every vertex in its own community
type Singleton struct{}

// Partition implements Detector
func (Singleton) Partition(g *Graph, _ uint64) (Assignment, error) {
	groups := make([][]string, 0, g.Order())
	for _, h := range g.handles {
		groups = append(groups, []string{h})
	}
	return numberGroups(groups), nil
}

// DetectorByName returns the detector registered under name
func DetectorByName(name string, resolution float64) (Detector, error) {
	switch strings.ToLower(name) {
	case "louvain", "":
		return Louvain{Resolution: resolution}, nil
	case "components":
		return Components{}, nil
	case "singleton":
		return Singleton{}, nil
	default:
		return nil, fmt.Errorf("unknown community algorithm %q", name)
	}
}

// Modularity scores an assignment against the graph
func Modularity(g *Graph, a Assignment, resolution float64) float64 {
	if g.Order() == 0 || g.Size() == 0 {
		return 0
	}
	byID := make(map[int][]graph.Node)
	for handle, id := range g.ids {
		c := a.Of(handle)
		byID[c] = append(byID[c], g.g.Node(id))
	}
	communities := make([][]graph.Node, 0, len(byID))
	for _, nodes := range byID {
		communities = append(communities, nodes)
	}
	return community.Q(g.Directed(), communities, resolution)
}

func (g *Graph) assign(communities [][]graph.Node) Assignment {
	groups := make([][]string, 0, len(communities))
	for _, nodes := range communities {
		if len(nodes) == 0 {
			continue
		}
		members := make([]string, 0, len(nodes))
		for _, n := range nodes {
			members = append(members, g.Handle(n.ID()))
		}
		groups = append(groups, members)
	}
	return numberGroups(groups)
}

// numberGroups assigns ids 0..k-1 ordered by each group's smallest handle,
// so equal partitions always get equal ids
func numberGroups(groups [][]string) Assignment {
	for _, members := range groups {
		sort.Strings(members)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i][0] < groups[j][0]
	})

	a := make(Assignment)
	for id, members := range groups {
		for _, h := range members {
			a[h] = id
		}
	}
	return a
}
