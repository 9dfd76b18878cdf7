// Package search implements the recursive "super search" expansion:
// breadth-first follow-up of related-search suggestions across one or
// more categories, bounded by depth and deduplicated by query.
package search

import (
	"context"
	"sync"

	"github.com/qiangli/deepsearch/internal/progress"
	"github.com/qiangli/deepsearch/internal/serper"
)

// Searcher is the gateway the expander issues batched queries through.
type Searcher interface {
	Search(ctx context.Context, queries []string, cat serper.Category, opts *serper.SearchOptions) ([]*serper.SearchResult, error)
}

// Options bounds one super search run.
type Options struct {
	// MaxRelatedSearches caps how many related-search suggestions are
	// followed per result. Zero disables recursion.
	MaxRelatedSearches int
	// MaxDepth is the last depth level issued; levels run 0..MaxDepth
	// inclusive and the last level performs no further expansion.
	MaxDepth int

	Search serper.SearchOptions
}

// CategoryResult aggregates one category's expansion: every processed
// query mapped to its result, plus the count of distinct queries seen.
type CategoryResult struct {
	Results          map[string]*serper.SearchResult `json:"results"`
	QueriesProcessed int                             `json:"queries_processed"`
}

// Aggregate merges the per-category runs of one super search call.
type Aggregate struct {
	Categories            map[serper.Category]*CategoryResult
	TotalQueriesProcessed int
}

// Super expands the initial queries across every category
// concurrently and merges the runs by category key. A gateway error
// truncates that category's expansion without affecting siblings.
func Super(ctx context.Context, s Searcher, notify progress.Notifier, queries []string, cats []serper.Category, opts Options) *Aggregate {
	results := make([]*CategoryResult, len(cats))

	var wg sync.WaitGroup
	for i, cat := range cats {
		wg.Add(1)
		go func(i int, cat serper.Category) {
			defer wg.Done()
			results[i] = expandCategory(ctx, s, notify, queries, cat, opts)
		}(i, cat)
	}
	wg.Wait()

	agg := &Aggregate{Categories: make(map[serper.Category]*CategoryResult, len(cats))}
	for i, cat := range cats {
		agg.Categories[cat] = results[i]
		agg.TotalQueriesProcessed += results[i].QueriesProcessed
	}
	return agg
}

func expandCategory(ctx context.Context, s Searcher, notify progress.Notifier, queries []string, cat serper.Category, opts Options) *CategoryResult {
	results := make(map[string]*serper.SearchResult)
	pending := append([]string(nil), queries...)
	seen := make(map[string]bool)

	for depth := 0; depth <= opts.MaxDepth; depth++ {
		var current []string
		for _, q := range pending {
			if !seen[q] {
				current = append(current, q)
			}
		}
		if len(current) == 0 {
			break
		}

		notify.Info("super search (type: %s, depth %d): processing %d queries: %v", cat, depth, len(current), current)

		// a query is never re-issued once seen, even if it reappears
		// as a related-search suggestion later
		for _, q := range current {
			seen[q] = true
		}
		pending = nil

		batch, err := s.Search(ctx, current, cat, &opts.Search)
		if err != nil {
			notify.Error("super search (type: %s, depth %d): %v", cat, depth, err)
			break
		}

		for _, result := range batch {
			if result == nil {
				continue
			}
			result.TruncateImageData()

			if q := result.SearchParameters.Query; q != "" {
				results[q] = result
			}

			if opts.MaxRelatedSearches > 0 && depth < opts.MaxDepth {
				for i, related := range result.RelatedSearches {
					if i >= opts.MaxRelatedSearches {
						break
					}
					if related.Query != "" && !seen[related.Query] {
						pending = append(pending, related.Query)
					}
				}
			}
		}
	}

	return &CategoryResult{Results: results, QueriesProcessed: len(seen)}
}
