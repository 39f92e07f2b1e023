package network

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"ignetwork/pkg/models"
)

// Graph is a directed weighted mention graph keyed by handle
type Graph struct {
	g       *simple.WeightedDirectedGraph
	ids     map[string]int64
	handles []string
	loops   int
}

// NewGraph builds the graph whose vertices are the endpoints of edges.
// Self loops are dropped; repeated pairs have their weights summed.
func NewGraph(edges []models.Edge) *Graph {
	g := &Graph{
		g:   simple.NewWeightedDirectedGraph(0, 0),
		ids: make(map[string]int64),
	}

	for _, e := range edges {
		from := g.AddVertex(e.Source)
		to := g.AddVertex(e.Target)
		if from == to {
			g.loops++
			continue
		}

		w := e.Weight
		if existing := g.g.WeightedEdge(from, to); existing != nil {
			w += existing.Weight()
		}
		g.g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(from), T: simple.Node(to), W: w})
	}
	return g
}

// AddVertex adds handle if it is not present and returns its id
func (g *Graph) AddVertex(handle string) int64 {
	if id, ok := g.ids[handle]; ok {
		return id
	}
	id := int64(len(g.handles))
	g.ids[handle] = id
	g.handles = append(g.handles, handle)
	g.g.AddNode(simple.Node(id))
	return id
}

// Handles returns the vertices in insertion order
func (g *Graph) Handles() []string {
	out := make([]string, len(g.handles))
	copy(out, g.handles)
	return out
}

// Has reports whether handle is a vertex
func (g *Graph) Has(handle string) bool {
	_, ok := g.ids[handle]
	return ok
}

// Handle returns the handle of a node id
func (g *Graph) Handle(id int64) string {
	return g.handles[id]
}

// Order returns the number of vertices
func (g *Graph) Order() int { return len(g.handles) }

// Size returns the number of edges
func (g *Graph) Size() int { return g.g.Edges().Len() }

// DroppedLoops returns how many self loops NewGraph discarded
func (g *Graph) DroppedLoops() int { return g.loops }

// Weight returns the weight of source->target, or 0 when there is no edge
func (g *Graph) Weight(source, target string) float64 {
	from, ok := g.ids[source]
	if !ok {
		return 0
	}
	to, ok := g.ids[target]
	if !ok {
		return 0
	}
	if e := g.g.WeightedEdge(from, to); e != nil {
		return e.Weight()
	}
	return 0
}

// Directed exposes the underlying gonum graph
func (g *Graph) Directed() graph.WeightedDirected {
	return g.g
}
