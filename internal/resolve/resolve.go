// Package resolve clusters near-duplicate entity mentions into
// canonical representatives using union-find over pairwise string
// similarity.
//
// Pairwise comparison is O(n²) over distinct entities. Entity counts
// per request are small, bounded by the extraction fan-out; this does
// not scale to larger corpora.
package resolve

import (
	"strings"

	"github.com/qiangli/deepsearch/internal/extract"
)

// Config holds the hand-tuned similarity thresholds.
type Config struct {
	// minimum character-sequence similarity for a direct merge
	SequenceThreshold float64
	// substring containment merges require the shorter string to have
	// at least this many characters...
	SubstringMinLen int
	// ...and to cover at least this fraction of the longer one
	SubstringRatio float64
	// minimum similarity after stripping honorific/corporate affixes
	StrippedThreshold float64
}

func DefaultConfig() Config {
	return Config{
		SequenceThreshold: 0.85,
		SubstringMinLen:   3,
		SubstringRatio:    0.6,
		StrippedThreshold: 0.9,
	}
}

var prefixes = []string{"the ", "sir ", "dr ", "prof ", "mr ", "ms ", "mrs "}
var suffixes = []string{" inc", " corp", " company", " ltd", " llc"}

func stripAffixes(s string) string {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			s = s[len(p):]
		}
	}
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			s = s[:len(s)-len(suf)]
		}
	}
	return s
}

func similar(e1, e2 string, cfg Config) bool {
	norm1 := strings.ToLower(strings.TrimSpace(e1))
	norm2 := strings.ToLower(strings.TrimSpace(e2))

	if ratio(norm1, norm2) >= cfg.SequenceThreshold {
		return true
	}

	if strings.Contains(norm2, norm1) || strings.Contains(norm1, norm2) {
		shorter := len(norm1)
		longer := len(norm2)
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		if shorter >= cfg.SubstringMinLen && float64(shorter)/float64(longer) >= cfg.SubstringRatio {
			return true
		}
		return false
	}

	return ratio(stripAffixes(norm1), stripAffixes(norm2)) >= cfg.StrippedThreshold
}

type unionFind struct {
	parent map[string]string
}

func (u *unionFind) find(e string) string {
	if u.parent[e] != e {
		u.parent[e] = u.find(u.parent[e])
	}
	return u.parent[e]
}

func (u *unionFind) union(e1, e2 string) {
	c1 := u.find(e1)
	c2 := u.find(e2)
	if c1 == c2 {
		return
	}
	// the longer name wins as the cluster representative
	if len(c1) >= len(c2) {
		u.parent[c2] = c1
	} else {
		u.parent[c1] = c2
	}
}

// Canonical maps every entity string appearing in the relationships to
// the canonical representative of its similarity cluster. The result
// is idempotent: canonical values map to themselves.
func Canonical(relationships []extract.Relationship, cfg Config) map[string]string {
	var entities []string
	seen := make(map[string]bool)
	add := func(e string) {
		if !seen[e] {
			seen[e] = true
			entities = append(entities, e)
		}
	}
	for _, rel := range relationships {
		add(rel.Source)
		add(rel.Target)
	}

	if len(entities) == 0 {
		return map[string]string{}
	}

	uf := &unionFind{parent: make(map[string]string, len(entities))}
	for _, e := range entities {
		uf.parent[e] = e
	}

	for i := 0; i < len(entities); i++ {
		for j := i + 1; j < len(entities); j++ {
			if similar(entities[i], entities[j], cfg) {
				uf.union(entities[i], entities[j])
			}
		}
	}

	mapping := make(map[string]string, len(entities))
	for _, e := range entities {
		mapping[e] = uf.find(e)
	}
	return mapping
}
