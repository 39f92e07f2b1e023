package visual

import (
	"fmt"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"

	"ignetwork/pkg/errors"
	"ignetwork/pkg/models"
	"ignetwork/pkg/network"
)

// VertexPolicy selects which vertices are drawn
type VertexPolicy string

const (
	// PolicySurviving draws only endpoints of edges that pass the threshold
	PolicySurviving VertexPolicy = "surviving"
	// PolicyAll also draws every tracked handle and every endpoint of the
	// unfiltered edge list, isolated or not
	PolicyAll VertexPolicy = "all"
)

// ParsePolicy validates a policy name
func ParsePolicy(s string) (VertexPolicy, error) {
	switch p := VertexPolicy(s); p {
	case PolicySurviving, PolicyAll:
		return p, nil
	case "":
		return PolicySurviving, nil
	default:
		return "", fmt.Errorf("unknown vertex policy %q", s)
	}
}

// Bounds is an inclusive output range
type Bounds struct {
	Min float64
	Max float64
}

// Clamp limits v to the range
func (b Bounds) Clamp(v float64) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// Options holds the visual encoding parameters
type Options struct {
	MinWeight         float64
	NodeSize          Bounds
	EdgeWidth         Bounds
	Policy            VertexPolicy
	CandidateFontSize int
	FontSize          int
	Saturation        int
	Lightness         int
}

// DefaultOptions returns the stock encoding
func DefaultOptions() Options {
	return Options{
		MinWeight:         50,
		NodeSize:          Bounds{Min: 10, Max: 50},
		EdgeWidth:         Bounds{Min: 1, Max: 10},
		Policy:            PolicySurviving,
		CandidateFontSize: 35,
		FontSize:          15,
		Saturation:        70,
		Lightness:         50,
	}
}

// Labeler localizes labels and marks tracked handles
type Labeler interface {
	DisplayName(handle string) string
	IsTracked(handle string) bool
}

// Node is a drawn vertex
type Node struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Title       string  `json:"title"`
	Size        float64 `json:"size"`
	Mass        float64 `json:"mass"`
	Color       string  `json:"color"`
	FontSize    int     `json:"fontSize"`
	StrokeWidth int     `json:"strokeWidth"`
	StrokeColor string  `json:"strokeColor"`
	Community   int     `json:"community"`
	Relevance   float64 `json:"relevance"`
	PageRank    float64 `json:"pagerank"`
	Candidate   bool    `json:"candidate"`
}

// Edge is a drawn edge
type Edge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
	Width  float64 `json:"width"`
	Title  string  `json:"title"`
}

// Network is the fully encoded graph
type Network struct {
	Nodes       []Node `json:"nodes"`
	Edges       []Edge `json:"edges"`
	Communities int    `json:"communities"`
}

// Filter keeps edges with weight >= min. When none survive it returns
// errors.ErrNoEdgesAfterFilter.
func Filter(edges []models.Edge, min float64) ([]models.Edge, error) {
	var kept []models.Edge
	for _, e := range edges {
		if e.Weight >= min {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		return nil, errors.ErrNoEdgesAfterFilter
	}
	return kept, nil
}

// Relevance sums incoming weight per target. Pure sources are absent.
func Relevance(edges []models.Edge) map[string]float64 {
	r := make(map[string]float64)
	for _, e := range edges {
		r[e.Target] += e.Weight
	}
	return r
}

// Rescale maps v from [lo, hi] onto out and clamps the result. A degenerate
// input range counts as width 1.
func Rescale(v, lo, hi float64, out Bounds) float64 {
	width := hi - lo
	if width <= 0 {
		width = 1
	}
	return out.Clamp(out.Min + (v-lo)/width*(out.Max-out.Min))
}

// Vertices returns the handles to draw, sorted, under policy
func Vertices(policy VertexPolicy, filtered, all []models.Edge, tracked []string) []string {
	set := make(map[string]bool)
	add := func(edges []models.Edge) {
		for _, e := range edges {
			set[e.Source] = true
			set[e.Target] = true
		}
	}

	add(filtered)
	if policy == PolicyAll {
		add(all)
		for _, h := range tracked {
			set[h] = true
		}
	}

	out := make([]string, 0, len(set))
	for h := range set {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// Color returns the hue of community among count communities
func Color(community, count, saturation, lightness int) string {
	if count < 1 {
		count = 1
	}
	hue := float64(community) * 360 / float64(count)
	return fmt.Sprintf("hsl(%s, %d%%, %d%%)", strconv.FormatFloat(hue, 'f', -1, 64), saturation, lightness)
}

// Map encodes vertices and filtered edges. Node size follows relevance,
// rescaled over the vertices that receive any weight; edge width follows
// weight, rescaled over the filtered edges.
func Map(filtered []models.Edge, vertices []string, communities network.Assignment, pagerank map[string]float64, labels Labeler, opts Options) Network {
	relevance := Relevance(filtered)

	minR, maxR := valueRange(relevance)
	minW, maxW := weightRange(filtered)

	count := distinctCommunities(vertices, communities)

	net := Network{
		Nodes:       make([]Node, 0, len(vertices)),
		Edges:       make([]Edge, 0, len(filtered)),
		Communities: count,
	}

	for _, h := range vertices {
		r := relevance[h]
		size := opts.NodeSize.Min
		if r > 0 {
			size = Rescale(r, minR, maxR, opts.NodeSize)
		}
		c := communities.Of(h)
		candidate := labels.IsTracked(h)

		node := Node{
			ID:          h,
			Label:       labels.DisplayName(h),
			Size:        size,
			Mass:        size / 10,
			Color:       Color(c, count, opts.Saturation, opts.Lightness),
			FontSize:    opts.FontSize,
			StrokeWidth: 3,
			StrokeColor: "none",
			Community:   c,
			Relevance:   r,
			PageRank:    pagerank[h],
			Candidate:   candidate,
		}
		if candidate {
			node.FontSize = opts.CandidateFontSize
			node.StrokeColor = "#000000"
		}
		node.Title = fmt.Sprintf("Profile: %s\nCommunity: %d\nRelevance: %.2f\nPageRank: %.4f", h, c, r, node.PageRank)
		net.Nodes = append(net.Nodes, node)
	}

	for _, e := range filtered {
		net.Edges = append(net.Edges, Edge{
			From:   e.Source,
			To:     e.Target,
			Weight: e.Weight,
			Width:  Rescale(e.Weight, minW, maxW, opts.EdgeWidth),
			Title:  fmt.Sprintf("Impact: %.2f", e.Weight),
		})
	}
	return net
}

func valueRange(values map[string]float64) (lo, hi float64) {
	first := true
	for _, v := range values {
		if v <= 0 {
			continue
		}
		if first || v < lo {
			lo = v
		}
		if first || v > hi {
			hi = v
		}
		first = false
	}
	return lo, hi
}

func weightRange(edges []models.Edge) (lo, hi float64) {
	if len(edges) == 0 {
		return 0, 0
	}
	weights := make([]float64, len(edges))
	for i, e := range edges {
		weights[i] = e.Weight
	}
	return floats.Min(weights), floats.Max(weights)
}

func distinctCommunities(vertices []string, a network.Assignment) int {
	seen := make(map[int]bool)
	for _, h := range vertices {
		seen[a.Of(h)] = true
	}
	if len(seen) == 0 {
		return 1
	}
	return len(seen)
}
