package kgraph

import (
	"fmt"
	"strings"
)

// EmptyGraphSummary is returned when there is nothing to linearize.
const EmptyGraphSummary = "The knowledge graph is empty."

// Linearize renders the graph as a compact, deterministic text block
// for LLM consumption: nodes ordered by descending degree centrality,
// each followed by its outgoing and incoming edges.
func (g *Graph) Linearize() string {
	if g.NumNodes() == 0 {
		return EmptyGraphSummary
	}

	var b strings.Builder
	b.WriteString("### Knowledge Graph Summary (Ordered by Importance)\n")

	for _, node := range g.TopByDegree(g.NumNodes()) {
		fmt.Fprintf(&b, "\n- **Entity:** %s (Type: %s)", node.Name, node.Type)

		if len(node.Out) > 0 {
			b.WriteString("\n  - **Connects To:**")
			for _, e := range node.Out {
				fmt.Fprintf(&b, "\n    - %s -> %s (Strength: %.2f)", e.Label, e.Target, e.Weight)
			}
		}

		if len(node.In) > 0 {
			b.WriteString("\n  - **Is Connected From:**")
			for _, e := range node.In {
				fmt.Fprintf(&b, "\n    - %s -> %s (Strength: %.2f)", e.Source, e.Label, e.Weight)
			}
		}
	}

	return b.String()
}

// ExportNode and ExportLink mirror the node-link JSON layout commonly
// used to serialize directed graphs.
type ExportNode struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Centrality Centrality `json:"centrality"`
}

type ExportLink struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}

type Export struct {
	Directed bool         `json:"directed"`
	Nodes    []ExportNode `json:"nodes"`
	Links    []ExportLink `json:"links"`
}

// Export serializes the graph for the response payload.
func (g *Graph) Export() Export {
	export := Export{
		Directed: true,
		Nodes:    []ExportNode{},
		Links:    []ExportLink{},
	}
	for _, node := range g.Nodes() {
		export.Nodes = append(export.Nodes, ExportNode{
			ID:         node.Name,
			Type:       node.Type,
			Centrality: node.Centrality,
		})
	}
	for _, e := range g.Edges() {
		export.Links = append(export.Links, ExportLink{
			Source: e.Source,
			Target: e.Target,
			Label:  e.Label,
			Weight: e.Weight,
		})
	}
	return export
}
