package resolve

import (
	"strings"
	"testing"

	"github.com/qiangli/deepsearch/internal/extract"
)

func rel(source, target string) extract.Relationship {
	return extract.Relationship{
		Source:       source,
		SourceType:   extract.UnknownType,
		Target:       target,
		TargetType:   extract.UnknownType,
		Relationship: "related to",
		Strength:     0.8,
	}
}

func TestCanonicalEmpty(t *testing.T) {
	m := Canonical(nil, DefaultConfig())
	if len(m) != 0 {
		t.Errorf("expected empty map, got %v", m)
	}
}

func TestCanonicalIdempotent(t *testing.T) {
	rels := []extract.Relationship{
		rel("ARPANET", "Computers"),
		rel("Arpanet", "Networking"),
		rel("The ARPANET", "US Military"),
		rel("Apple Inc.", "iPhone"),
		rel("Apple", "macOS"),
	}

	m := Canonical(rels, DefaultConfig())
	for k, v := range m {
		if m[v] != v {
			t.Errorf("map is not idempotent: map[%q]=%q but map[%q]=%q", k, v, v, m[v])
		}
	}
}

func TestCanonicalCaseVariants(t *testing.T) {
	rels := []extract.Relationship{
		rel("ARPANET", "Computers"),
		rel("Arpanet", "Networking"),
		rel("The ARPANET", "US Military"),
	}

	m := Canonical(rels, DefaultConfig())

	c1 := m["ARPANET"]
	c2 := m["Arpanet"]
	c3 := m["The ARPANET"]
	if c1 != c2 || c2 != c3 {
		t.Fatalf("variants not merged: %q %q %q", c1, c2, c3)
	}
	if !strings.Contains(strings.ToLower(c1), "arpanet") {
		t.Errorf("canonical name should contain arpanet, got %q", c1)
	}
}

func TestCanonicalKeepsDistinctEntities(t *testing.T) {
	rels := []extract.Relationship{
		rel("Apple Inc.", "Google"),
	}

	m := Canonical(rels, DefaultConfig())
	if m["Apple Inc."] == m["Google"] {
		t.Errorf("unrelated entities were merged: %v", m)
	}
}

func TestCanonicalLongerNameWins(t *testing.T) {
	rels := []extract.Relationship{
		rel("Tim Berners-Lee", "World Wide Web"),
		rel("Sir Tim Berners-Lee", "HTML"),
	}

	m := Canonical(rels, DefaultConfig())
	if m["Tim Berners-Lee"] != "Sir Tim Berners-Lee" {
		t.Errorf("expected the longer spelling as canonical, got %q", m["Tim Berners-Lee"])
	}
}

func TestCanonicalSelfMapping(t *testing.T) {
	rels := []extract.Relationship{
		rel("Alpha", "Bravo Systems"),
	}

	m := Canonical(rels, DefaultConfig())
	if m["Alpha"] != "Alpha" {
		t.Errorf("dissimilar entity should map to itself, got %q", m["Alpha"])
	}
	if m["Bravo Systems"] != "Bravo Systems" {
		t.Errorf("dissimilar entity should map to itself, got %q", m["Bravo Systems"])
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		min  float64
		max  float64
	}{
		{"arpanet", "arpanet", 1.0, 1.0},
		{"", "", 1.0, 1.0},
		{"abc", "xyz", 0.0, 0.0},
		{"apple inc.", "apple", 0.6, 0.9},
		{"microsoft", "microsfot", 0.8, 1.0},
	}

	for _, tt := range tests {
		got := ratio(tt.a, tt.b)
		if got < tt.min || got > tt.max {
			t.Errorf("ratio(%q, %q) = %v, want within [%v, %v]", tt.a, tt.b, got, tt.min, tt.max)
		}
	}
}
