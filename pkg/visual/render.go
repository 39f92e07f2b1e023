package visual

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"ignetwork/pkg/storage"
)

//go:embed templates/graph.html.tmpl
var graphTemplate string

var pageTemplate = template.Must(template.New("graph").Parse(graphTemplate))

// Physics holds the barnes-hut layout parameters
type Physics struct {
	Gravity        float64
	CentralGravity float64
	SpringLength   float64
	SpringConstant float64
	Damping        float64
	AvoidOverlap   float64
}

// Page holds the page-level settings of the rendered graph
type Page struct {
	Title      string
	Height     string
	Background string
	FontColor  string
	EdgeColor  string
	Physics    Physics
}

// DefaultPage returns the stock page settings
func DefaultPage() Page {
	return Page{
		Title:      "Mention network",
		Height:     "900px",
		Background: "#222222",
		FontColor:  "white",
		EdgeColor:  "#848484",
		Physics: Physics{
			Gravity:        -120000,
			CentralGravity: 0.1,
			SpringLength:   500,
			SpringConstant: 0.01,
			Damping:        0.09,
			AvoidOverlap:   0.2,
		},
	}
}

// options builds the vis-network options object
func (p Page) options() map[string]interface{} {
	return map[string]interface{}{
		"physics": map[string]interface{}{
			"enabled": true,
			"solver":  "barnesHut",
			"barnesHut": map[string]interface{}{
				"gravitationalConstant": p.Physics.Gravity,
				"centralGravity":        p.Physics.CentralGravity,
				"springLength":          p.Physics.SpringLength,
				"springConstant":        p.Physics.SpringConstant,
				"damping":               p.Physics.Damping,
				"avoidOverlap":          p.Physics.AvoidOverlap,
			},
		},
		"configure": map[string]interface{}{
			"enabled": true,
			"filter":  "physics",
		},
		"interaction": map[string]interface{}{
			"hover": true,
			"highlightNearest": map[string]interface{}{
				"enabled": true,
				"degree":  1,
				"hover":   false,
			},
			"keyboard": map[string]interface{}{
				"enabled": true,
			},
		},
		"edges": map[string]interface{}{
			"smooth": map[string]interface{}{"type": "continuous"},
		},
	}
}

// Render writes net as a standalone interactive HTML page
func Render(w io.Writer, net Network, page Page) error {
	if net.Nodes == nil {
		net.Nodes = []Node{}
	}
	if net.Edges == nil {
		net.Edges = []Edge{}
	}

	nodes, err := json.Marshal(net.Nodes)
	if err != nil {
		return fmt.Errorf("failed to encode nodes: %w", err)
	}
	edges, err := json.Marshal(net.Edges)
	if err != nil {
		return fmt.Errorf("failed to encode edges: %w", err)
	}
	options, err := json.Marshal(page.options())
	if err != nil {
		return fmt.Errorf("failed to encode options: %w", err)
	}

	return pageTemplate.Execute(w, map[string]interface{}{
		"Title":      page.Title,
		"Height":     page.Height,
		"Background": page.Background,
		"FontColor":  page.FontColor,
		"EdgeColor":  page.EdgeColor,
		"Nodes":      template.JS(nodes),
		"Edges":      template.JS(edges),
		"Options":    template.JS(options),
	})
}

// WriteHTML renders net into path atomically
func WriteHTML(path string, net Network, page Page) error {
	return storage.WriteAtomic(path, func(w io.Writer) error {
		return Render(w, net, page)
	})
}
