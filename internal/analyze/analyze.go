// Package analyze orchestrates the full topic analysis: recursive
// search expansion, parallel scraping, relationship extraction, entity
// resolution, graph construction and scoring, and entity summarization.
package analyze

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/qiangli/deepsearch/internal/collect"
	"github.com/qiangli/deepsearch/internal/extract"
	"github.com/qiangli/deepsearch/internal/kgraph"
	"github.com/qiangli/deepsearch/internal/llm"
	"github.com/qiangli/deepsearch/internal/progress"
	"github.com/qiangli/deepsearch/internal/resolve"
	"github.com/qiangli/deepsearch/internal/search"
	"github.com/qiangli/deepsearch/internal/serper"
	"github.com/qiangli/deepsearch/internal/summarize"
)

// ErrMissingLLMKey is returned when the pipeline reaches the
// extraction phase without a configured LLM client.
var ErrMissingLLMKey = errors.New("analyze: OPENAI_API_KEY not set")

// LLM combines the two model operations the pipeline needs.
type LLM interface {
	CallTool(ctx context.Context, system, user string, tool llm.ToolSpec, out any) error
	Complete(ctx context.Context, system, user string) (string, error)
}

// Options tunes one analysis run. Zero values fall back to defaults.
type Options struct {
	// SearchDepth is the recursion depth of the initial super search.
	SearchDepth int
	// MaxURLs caps how many distinct result URLs are scraped.
	MaxURLs int
	// Categories lists the search verticals to expand.
	Categories []serper.Category
	// MaxRelatedSearches caps related-search follow-up per result.
	MaxRelatedSearches int
	// TopEntities is how many central entities are summarized.
	TopEntities int
	// EntityTypes restricts the types assigned during extraction.
	EntityTypes []string

	// Chunking parameters are accepted for interface compatibility;
	// extraction currently operates on whole documents.
	ChunkSize           int
	ChunkOverlap        int
	MaxEntitiesPerChunk int
}

func (o Options) withDefaults() Options {
	if o.SearchDepth <= 0 {
		o.SearchDepth = 2
	}
	if o.MaxURLs <= 0 {
		o.MaxURLs = 3
	}
	if len(o.Categories) == 0 {
		o.Categories = []serper.Category{serper.CategorySearch, serper.CategoryNews}
	}
	if o.MaxRelatedSearches <= 0 {
		o.MaxRelatedSearches = 2
	}
	if o.TopEntities <= 0 {
		o.TopEntities = 5
	}
	if len(o.EntityTypes) == 0 {
		o.EntityTypes = extract.DefaultEntityTypes
	}
	return o
}

// Pipeline wires the collaborators of one analysis run. LLM may be nil
// when no credential is configured; the run then fails after the
// scraping phase with ErrMissingLLMKey.
type Pipeline struct {
	Search search.Searcher
	Scrape collect.Scraper
	LLM    LLM
	Notify progress.Notifier
}

type Stats struct {
	URLsScraped         int `json:"urls_scraped"`
	DocumentsProcessed  int `json:"documents_processed"`
	EntitiesExtracted   int `json:"entities_extracted"`
	RelationshipsFound  int `json:"relationships_found"`
	CommunitiesDetected int `json:"communities_detected"`
}

type CentralEntity struct {
	Entity     string            `json:"entity"`
	Type       string            `json:"type"`
	Centrality kgraph.Centrality `json:"centrality"`
	Summary    string            `json:"summary"`
}

type KeyRelationship struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}

type Insights struct {
	PrimaryThemes    []string          `json:"primary_themes"`
	CentralEntities  []CentralEntity   `json:"central_entities"`
	KeyRelationships []KeyRelationship `json:"key_relationships"`
	EmergingPatterns []string          `json:"emerging_patterns"`
}

type Sources struct {
	SearchQueries   []string `json:"search_queries"`
	ScrapedURLs     []string `json:"scraped_urls"`
	SearchTypesUsed []string `json:"search_types_used"`
}

// Result is the structured payload of a completed analysis.
type Result struct {
	RunID          string        `json:"run_id"`
	Query          string        `json:"query"`
	Stats          Stats         `json:"processing_stats"`
	Insights       Insights      `json:"key_insights"`
	KnowledgeGraph kgraph.Export `json:"knowledge_graph"`
	Sources        Sources       `json:"sources"`
}

// Run executes all phases for one query.
func (p *Pipeline) Run(ctx context.Context, query string, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	notify := p.Notify
	if notify == nil {
		notify = progress.Discard()
	}

	notify.Info("Starting topic analysis for query: %q", query)

	// Phase 1: search expansion
	notify.Info("Phase 1: Kicking off document collection with super search.")
	agg := search.Super(ctx, p.Search, notify, []string{query}, opts.Categories, search.Options{
		MaxRelatedSearches: opts.MaxRelatedSearches,
		MaxDepth:           opts.SearchDepth,
	})

	// Phase 2: content scraping
	notify.Info("Phase 2: Starting content scraping.")
	urls := collect.URLs(agg, opts.MaxURLs)
	notify.Info("Found %d unique URLs to scrape.", len(urls))
	docs := collect.Scrape(ctx, p.Scrape, notify, urls)

	// Phase 3: knowledge extraction
	notify.Info("Phase 3: Starting document-level knowledge extraction.")
	if p.LLM == nil {
		notify.Error("OPENAI_API_KEY environment variable not set.")
		return nil, ErrMissingLLMKey
	}

	extractor := extract.New(p.LLM, notify, opts.EntityTypes)
	var relationships []extract.Relationship
	for i, doc := range docs {
		notify.Info("Running extraction on document %d/%d", i+1, len(docs))
		rels := extractor.Document(ctx, doc.Content)
		relationships = append(relationships, rels...)
		notify.Info("Extracted %d relationships from document %d", len(rels), i+1)
	}
	notify.Info("Completed extraction across all documents: %d total relationships.", len(relationships))

	// Phase 4: entity resolution
	notify.Info("Phase 4: Starting entity resolution.")
	canonical := resolve.Canonical(relationships, resolve.DefaultConfig())
	notify.Info("Resolved %d relationships into %d canonical entities.", len(relationships), countDistinct(canonical))

	// Phase 5: graph construction
	notify.Info("Phase 5: Starting graph construction with resolved entities.")
	g := kgraph.Build(relationships, canonical)

	// Phase 6: centrality
	notify.Info("Phase 6: Starting graph analysis.")
	g.ComputeCentrality()

	// Phase 7: summarization
	notify.Info("Phase 7: Starting summarization.")
	top := g.TopByDegree(opts.TopEntities)
	notify.Info("Starting parallel summarization of top %d entities", len(top))
	summaries := summarize.Entities(ctx, p.LLM, notify, top, g.Linearize())

	// Phase 8: structured output
	notify.Info("Phase 8: Generating structured output.")
	return p.assemble(query, agg, docs, g, summaries), nil
}

func (p *Pipeline) assemble(query string, agg *search.Aggregate, docs []*collect.Document, g *kgraph.Graph, summaries []summarize.Summary) *Result {
	central := make([]CentralEntity, 0, len(summaries))
	for _, s := range summaries {
		entity := CentralEntity{Entity: s.Entity, Type: extract.UnknownType, Summary: s.Summary}
		if node := g.Node(s.Entity); node != nil {
			entity.Type = node.Type
			entity.Centrality = node.Centrality
		}
		central = append(central, entity)
	}

	edges := append([]*kgraph.Edge(nil), g.Edges()...)
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Weight > edges[j].Weight
	})
	if len(edges) > 5 {
		edges = edges[:5]
	}
	key := make([]KeyRelationship, 0, len(edges))
	for _, e := range edges {
		key = append(key, KeyRelationship{Source: e.Source, Target: e.Target, Label: e.Label, Weight: e.Weight})
	}

	scraped := make([]string, 0, len(docs))
	for _, d := range docs {
		scraped = append(scraped, d.URL)
	}

	return &Result{
		RunID: uuid.NewString(),
		Query: query,
		Stats: Stats{
			URLsScraped:        len(docs),
			DocumentsProcessed: len(docs),
			EntitiesExtracted:  g.NumNodes(),
			RelationshipsFound: g.NumEdges(),
			// TODO: run community detection so communities_detected and
			// primary_themes stop being placeholders.
			CommunitiesDetected: 0,
		},
		Insights: Insights{
			PrimaryThemes:    []string{},
			CentralEntities:  central,
			KeyRelationships: key,
			EmergingPatterns: []string{},
		},
		KnowledgeGraph: g.Export(),
		Sources: Sources{
			SearchQueries:   searchQueries(agg),
			ScrapedURLs:     scraped,
			SearchTypesUsed: searchTypes(agg),
		},
	}
}

// searchQueries lists every processed query across categories in a
// deterministic order.
func searchQueries(agg *search.Aggregate) []string {
	queries := []string{}
	for _, cat := range sortedCategories(agg) {
		cr := agg.Categories[serper.Category(cat)]
		if cr == nil {
			continue
		}
		var qs []string
		for q := range cr.Results {
			qs = append(qs, q)
		}
		sort.Strings(qs)
		queries = append(queries, qs...)
	}
	return queries
}

func searchTypes(agg *search.Aggregate) []string {
	return sortedCategories(agg)
}

func sortedCategories(agg *search.Aggregate) []string {
	cats := []string{}
	for cat := range agg.Categories {
		cats = append(cats, string(cat))
	}
	sort.Strings(cats)
	return cats
}

func countDistinct(canonical map[string]string) int {
	seen := make(map[string]bool, len(canonical))
	for _, v := range canonical {
		seen[v] = true
	}
	return len(seen)
}
