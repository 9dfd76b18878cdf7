package collect

import (
	"context"
	"errors"
	"testing"

	"github.com/qiangli/deepsearch/internal/progress"
	"github.com/qiangli/deepsearch/internal/search"
	"github.com/qiangli/deepsearch/internal/serper"
)

func aggregateWith(cat serper.Category, query string, links ...string) *search.Aggregate {
	r := &serper.SearchResult{
		SearchParameters: serper.SearchParameters{Query: query},
	}
	for _, link := range links {
		r.Organic = append(r.Organic, serper.ResultItem{Link: link})
	}
	return &search.Aggregate{
		Categories: map[serper.Category]*search.CategoryResult{
			cat: {
				Results:          map[string]*serper.SearchResult{query: r},
				QueriesProcessed: 1,
			},
		},
	}
}

func TestURLsGlobalCap(t *testing.T) {
	agg := aggregateWith(serper.CategorySearch, "q",
		"https://a.example", "https://b.example", "https://c.example")

	urls := URLs(agg, 2)
	if len(urls) != 2 {
		t.Fatalf("expected cap of 2, got %d: %v", len(urls), urls)
	}
}

func TestURLsDeduplicates(t *testing.T) {
	agg := aggregateWith(serper.CategorySearch, "q",
		"https://a.example", "https://a.example", "https://b.example")

	urls := URLs(agg, 10)
	if len(urls) != 2 {
		t.Fatalf("expected 2 distinct urls, got %v", urls)
	}
}

func TestURLsScansAllCategories(t *testing.T) {
	agg := aggregateWith(serper.CategorySearch, "q", "https://a.example")
	news := &serper.SearchResult{
		SearchParameters: serper.SearchParameters{Query: "q"},
		News:             []serper.ResultItem{{Link: "https://n.example"}},
	}
	agg.Categories[serper.CategoryNews] = &search.CategoryResult{
		Results:          map[string]*serper.SearchResult{"q": news},
		QueriesProcessed: 1,
	}

	urls := URLs(agg, 10)
	if len(urls) != 2 {
		t.Fatalf("expected urls from both categories, got %v", urls)
	}
}

func TestURLsEmptyAggregate(t *testing.T) {
	if got := URLs(nil, 5); got != nil {
		t.Errorf("expected nil for nil aggregate, got %v", got)
	}
	if got := URLs(&search.Aggregate{}, 5); len(got) != 0 {
		t.Errorf("expected no urls, got %v", got)
	}
}

type fakeScraper struct {
	content map[string]string
	err     map[string]error
}

func (f *fakeScraper) ScrapeMarkdown(ctx context.Context, url string) (string, error) {
	if err, ok := f.err[url]; ok {
		return "", err
	}
	return f.content[url], nil
}

func TestScrapeDropsFailures(t *testing.T) {
	sc := &fakeScraper{
		content: map[string]string{
			"https://ok.example":    "# content",
			"https://empty.example": "",
		},
		err: map[string]error{
			"https://bad.example": errors.New("blocked"),
		},
	}

	docs := Scrape(context.Background(), sc, progress.Discard(),
		[]string{"https://ok.example", "https://bad.example", "https://empty.example"})

	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].URL != "https://ok.example" || docs[0].Content != "# content" {
		t.Errorf("unexpected document: %+v", docs[0])
	}
}

func TestScrapeNoURLs(t *testing.T) {
	docs := Scrape(context.Background(), &fakeScraper{}, progress.Discard(), nil)
	if docs != nil {
		t.Errorf("expected nil, got %v", docs)
	}
}
