// Package kgraph builds a directed knowledge graph from resolved
// relationships and scores node importance with degree, betweenness
// and closeness centrality.
package kgraph

import (
	"sort"

	"github.com/qiangli/deepsearch/internal/extract"
)

type Centrality struct {
	Degree      float64 `json:"degree"`
	Betweenness float64 `json:"betweenness"`
	Closeness   float64 `json:"closeness"`
}

type Node struct {
	Name       string
	Type       string
	Centrality Centrality

	// outgoing and incoming edges in insertion order
	Out []*Edge
	In  []*Edge
}

type Edge struct {
	Source string
	Target string
	Label  string
	Weight float64
}

type edgeKey struct {
	source, target string
}

type Graph struct {
	nodes map[string]*Node
	order []string

	edges     map[edgeKey]*Edge
	edgeOrder []*Edge
}

func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[edgeKey]*Edge),
	}
}

// AddNode inserts a node or upgrades its type. The type is set on
// first insertion; a later non-Unknown type replaces Unknown, but a
// known type is never downgraded.
func (g *Graph) AddNode(name, typ string) *Node {
	if n, ok := g.nodes[name]; ok {
		if n.Type == extract.UnknownType && typ != extract.UnknownType {
			n.Type = typ
		}
		return n
	}
	if typ == "" {
		typ = extract.UnknownType
	}
	n := &Node{Name: name, Type: typ}
	g.nodes[name] = n
	g.order = append(g.order, name)
	return n
}

// AddEdge inserts a directed edge. A later edge between the same
// ordered pair overwrites the existing label and weight instead of
// accumulating a multi-edge.
func (g *Graph) AddEdge(source, target, label string, weight float64) {
	src := g.AddNode(source, extract.UnknownType)
	dst := g.AddNode(target, extract.UnknownType)

	key := edgeKey{source, target}
	if e, ok := g.edges[key]; ok {
		e.Label = label
		e.Weight = weight
		return
	}

	e := &Edge{Source: source, Target: target, Label: label, Weight: weight}
	g.edges[key] = e
	g.edgeOrder = append(g.edgeOrder, e)
	src.Out = append(src.Out, e)
	dst.In = append(dst.In, e)
}

func (g *Graph) Node(name string) *Node {
	return g.nodes[name]
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, len(g.order))
	for i, name := range g.order {
		nodes[i] = g.nodes[name]
	}
	return nodes
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge {
	return g.edgeOrder
}

func (g *Graph) NumNodes() int {
	return len(g.order)
}

func (g *Graph) NumEdges() int {
	return len(g.edgeOrder)
}

// Build constructs the graph from relationships after substituting
// canonical entity names.
func Build(relationships []extract.Relationship, canonical map[string]string) *Graph {
	g := New()

	name := func(raw string) string {
		if c, ok := canonical[raw]; ok {
			return c
		}
		return raw
	}

	for _, rel := range relationships {
		source := name(rel.Source)
		target := name(rel.Target)

		g.AddNode(source, rel.SourceType)
		g.AddNode(target, rel.TargetType)
		g.AddEdge(source, target, rel.Relationship, rel.Strength)
	}
	return g
}

// TopByDegree returns up to n nodes ordered by descending degree
// centrality. Ordering is stable over insertion order.
func (g *Graph) TopByDegree(n int) []*Node {
	nodes := g.Nodes()
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Centrality.Degree > nodes[j].Centrality.Degree
	})
	if n < len(nodes) {
		nodes = nodes[:n]
	}
	return nodes
}
