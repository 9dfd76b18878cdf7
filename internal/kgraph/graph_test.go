package kgraph

import (
	"math"
	"testing"

	"github.com/qiangli/deepsearch/internal/extract"
)

func TestAddNodeTypeUpgrade(t *testing.T) {
	g := New()

	g.AddNode("ARPANET", extract.UnknownType)
	if g.Node("ARPANET").Type != extract.UnknownType {
		t.Fatalf("expected Unknown, got %q", g.Node("ARPANET").Type)
	}

	// a specific type upgrades Unknown
	g.AddNode("ARPANET", "Technology")
	if g.Node("ARPANET").Type != "Technology" {
		t.Fatalf("expected upgrade to Technology, got %q", g.Node("ARPANET").Type)
	}

	// a later Unknown mention must not downgrade
	g.AddNode("ARPANET", extract.UnknownType)
	if g.Node("ARPANET").Type != "Technology" {
		t.Errorf("type regressed to %q", g.Node("ARPANET").Type)
	}

	// a different specific type does not replace an existing one
	g.AddNode("ARPANET", "Organization")
	if g.Node("ARPANET").Type != "Technology" {
		t.Errorf("type replaced by later mention: %q", g.Node("ARPANET").Type)
	}
}

func TestAddEdgeLastWriteWins(t *testing.T) {
	g := New()
	g.AddEdge("A", "B", "develops", 0.8)
	g.AddEdge("A", "B", "maintains", 0.5)

	if g.NumEdges() != 1 {
		t.Fatalf("expected a single edge, got %d", g.NumEdges())
	}
	e := g.Edges()[0]
	if e.Label != "maintains" || e.Weight != 0.5 {
		t.Errorf("edge not overwritten: %+v", e)
	}

	// opposite direction is a distinct edge
	g.AddEdge("B", "A", "funds", 0.8)
	if g.NumEdges() != 2 {
		t.Errorf("reverse edge should be separate, got %d edges", g.NumEdges())
	}
}

func TestBuildSubstitutesCanonicalNames(t *testing.T) {
	rels := []extract.Relationship{
		{Source: "ARPANET", Target: "Computers", TargetType: "Technology", Relationship: "uses", Strength: 0.8, SourceType: extract.UnknownType},
		{Source: "Arpanet", Target: "Networking", TargetType: "Concept", Relationship: "pioneered", Strength: 0.8, SourceType: extract.UnknownType},
	}
	canonical := map[string]string{
		"ARPANET":    "ARPANET",
		"Arpanet":    "ARPANET",
		"Computers":  "Computers",
		"Networking": "Networking",
	}

	g := Build(rels, canonical)
	if g.NumNodes() != 3 {
		t.Fatalf("expected 3 nodes after resolution, got %d", g.NumNodes())
	}
	if g.Node("Arpanet") != nil {
		t.Error("raw variant should not appear as a node")
	}
	if got := len(g.Node("ARPANET").Out); got != 2 {
		t.Errorf("expected 2 outgoing edges from canonical node, got %d", got)
	}
}

func almost(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}

func TestCentralityPathGraph(t *testing.T) {
	// A -> B -> C with unit weights
	g := New()
	g.AddEdge("A", "B", "r", 1)
	g.AddEdge("B", "C", "r", 1)
	g.ComputeCentrality()

	// degree: (in+out)/(n-1)
	if got := g.Node("A").Centrality.Degree; !almost(got, 0.5) {
		t.Errorf("degree(A) = %v, want 0.5", got)
	}
	if got := g.Node("B").Centrality.Degree; !almost(got, 1.0) {
		t.Errorf("degree(B) = %v, want 1.0", got)
	}

	// only B lies between other node pairs; directed normalization
	// divides by (n-1)(n-2)
	if got := g.Node("B").Centrality.Betweenness; !almost(got, 0.5) {
		t.Errorf("betweenness(B) = %v, want 0.5", got)
	}
	if got := g.Node("A").Centrality.Betweenness; !almost(got, 0) {
		t.Errorf("betweenness(A) = %v, want 0", got)
	}

	// closeness uses incoming distances, scaled by reachable fraction
	if got := g.Node("A").Centrality.Closeness; !almost(got, 0) {
		t.Errorf("closeness(A) = %v, want 0", got)
	}
	if got := g.Node("B").Centrality.Closeness; !almost(got, 0.5) {
		t.Errorf("closeness(B) = %v, want 0.5", got)
	}
	if got := g.Node("C").Centrality.Closeness; !almost(got, 2.0/3.0) {
		t.Errorf("closeness(C) = %v, want 2/3", got)
	}
}

func TestCentralitySingleNode(t *testing.T) {
	g := New()
	g.AddNode("only", "Concept")
	g.ComputeCentrality()

	c := g.Node("only").Centrality
	if !almost(c.Degree, 1.0) {
		t.Errorf("degree of singleton = %v, want 1.0", c.Degree)
	}
	if !almost(c.Betweenness, 0) || !almost(c.Closeness, 0) {
		t.Errorf("singleton path centralities should be 0, got %+v", c)
	}
}

func TestCentralityEmptyGraph(t *testing.T) {
	g := New()
	g.ComputeCentrality() // must not panic
	if g.NumNodes() != 0 {
		t.Error("graph should stay empty")
	}
}

func TestTopByDegree(t *testing.T) {
	// star: hub connected to three leaves
	g := New()
	g.AddEdge("hub", "a", "r", 1)
	g.AddEdge("hub", "b", "r", 1)
	g.AddEdge("c", "hub", "r", 1)
	g.ComputeCentrality()

	top := g.TopByDegree(2)
	if len(top) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(top))
	}
	if top[0].Name != "hub" {
		t.Errorf("expected hub first, got %q", top[0].Name)
	}
}
