// Package collect harvests result URLs from a super search aggregate
// and scrapes them in parallel, tolerating partial failures.
package collect

import (
	"context"
	"sort"
	"sync"

	"github.com/qiangli/deepsearch/internal/progress"
	"github.com/qiangli/deepsearch/internal/search"
	"github.com/qiangli/deepsearch/internal/serper"
)

// Scraper fetches the cleaned markdown content of one URL.
type Scraper interface {
	ScrapeMarkdown(ctx context.Context, url string) (string, error)
}

// Document is one successfully scraped page.
type Document struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

const maxParallelScrapes = 8

// URLs scans every category's result lists and returns up to max
// distinct URLs. The cap applies globally across all categories and
// queries, not per query. Scan order is deterministic: categories and
// queries in sorted order, items in list order.
func URLs(agg *search.Aggregate, max int) []string {
	if agg == nil || max <= 0 {
		return nil
	}

	var cats []string
	for cat := range agg.Categories {
		cats = append(cats, string(cat))
	}
	sort.Strings(cats)

	seen := make(map[string]bool)
	var urls []string

	for _, cat := range cats {
		cr := agg.Categories[serper.Category(cat)]
		if cr == nil {
			continue
		}

		var queries []string
		for q := range cr.Results {
			queries = append(queries, q)
		}
		sort.Strings(queries)

		for _, q := range queries {
			for _, item := range cr.Results[q].Items() {
				if len(urls) >= max {
					return urls
				}
				if item.Link == "" || seen[item.Link] {
					continue
				}
				seen[item.Link] = true
				urls = append(urls, item.Link)
			}
		}
	}
	return urls
}

// Scrape fetches all URLs concurrently. A scrape that fails or returns
// empty content contributes nothing; it is neither retried nor fatal.
func Scrape(ctx context.Context, sc Scraper, notify progress.Notifier, urls []string) []*Document {
	if len(urls) == 0 {
		return nil
	}

	notify.Info("starting parallel scraping of %d URLs", len(urls))

	results := make([]*Document, len(urls))
	semaphore := make(chan struct{}, maxParallelScrapes)

	var wg sync.WaitGroup
	for i, url := range urls {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			content, err := sc.ScrapeMarkdown(ctx, url)
			if err != nil {
				notify.Warn("failed to scrape URL %d/%d: %s: %v", i+1, len(urls), url, err)
				return
			}
			if content == "" {
				notify.Warn("URL %d/%d returned empty content: %s", i+1, len(urls), url)
				return
			}
			notify.Info("scraped URL %d/%d: %s (%d characters)", i+1, len(urls), url, len(content))
			results[i] = &Document{URL: url, Content: content}
		}(i, url)
	}
	wg.Wait()

	var docs []*Document
	for _, d := range results {
		if d != nil {
			docs = append(docs, d)
		}
	}
	notify.Info("completed parallel scraping: %d successful scrapes", len(docs))
	return docs
}
