package serper

import (
	"encoding/json"
	"strings"
)

// Category selects the Serper endpoint a search query is sent to.
type Category string

const (
	CategorySearch  Category = "search"
	CategoryNews    Category = "news"
	CategoryScholar Category = "scholar"
)

func (c Category) Valid() bool {
	switch c {
	case CategorySearch, CategoryNews, CategoryScholar:
		return true
	}
	return false
}

// SearchOptions carries the optional query parameters shared by all
// search categories. Zero values are omitted from the request payload.
type SearchOptions struct {
	Location         string
	NumResults       int
	Autocorrect      *bool
	TimePeriodFilter string
	Page             int
}

// SearchParameters is the request echo included in every result. Batch
// responses are correlated back to their queries through the Q field,
// never by position.
type SearchParameters struct {
	Query    string `json:"q"`
	Type     string `json:"type,omitempty"`
	Engine   string `json:"engine,omitempty"`
	Location string `json:"location,omitempty"`
}

// ResultItem is one organic, news or scholar entry.
type ResultItem struct {
	Title    string `json:"title,omitempty"`
	Link     string `json:"link,omitempty"`
	Snippet  string `json:"snippet,omitempty"`
	Date     string `json:"date,omitempty"`
	Source   string `json:"source,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	Position int    `json:"position,omitempty"`

	// scholar only
	PublicationInfo string `json:"publicationInfo,omitempty"`
	Year            int    `json:"year,omitempty"`
	CitedBy         int    `json:"citedBy,omitempty"`
}

type RelatedSearch struct {
	Query string `json:"query"`
}

// SearchResult is one provider response for one query. The declared
// fields are parsed views for the pipeline; the full payload is kept
// as decoded so sections the model does not name (answerBox,
// knowledgeGraph, peopleAlsoAsk, images, per-item attributes) pass
// through to clients unchanged.
type SearchResult struct {
	SearchParameters SearchParameters `json:"searchParameters"`

	Organic    []ResultItem `json:"organic,omitempty"`
	News       []ResultItem `json:"news,omitempty"`
	Scholar    []ResultItem `json:"scholar,omitempty"`
	TopStories []ResultItem `json:"topStories,omitempty"`

	RelatedSearches []RelatedSearch `json:"relatedSearches,omitempty"`

	Credits int `json:"credits,omitempty"`

	// the complete decoded payload, nil for hand-built values
	raw map[string]any
}

func (r *SearchResult) UnmarshalJSON(data []byte) error {
	type plain SearchResult
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &p.raw); err != nil {
		return err
	}
	*r = SearchResult(p)
	return nil
}

func (r SearchResult) MarshalJSON() ([]byte, error) {
	if r.raw != nil {
		return json.Marshal(r.raw)
	}
	type plain SearchResult
	return json.Marshal(plain(r))
}

// TruncatedImagePlaceholder replaces inline base64 image data so large
// binary blobs never leak into downstream text processing.
const TruncatedImagePlaceholder = "[Truncated base64 image data]"

// TruncateImageData replaces any imageUrl carrying inline data:image
// content with a short placeholder, wherever it appears in the
// payload.
func (r *SearchResult) TruncateImageData() {
	for _, items := range [][]ResultItem{r.Organic, r.News, r.Scholar, r.TopStories} {
		for i := range items {
			if strings.HasPrefix(items[i].ImageURL, "data:image") {
				items[i].ImageURL = TruncatedImagePlaceholder
			}
		}
	}
	truncateImageValues(r.raw)
}

// truncateImageValues walks decoded JSON and truncates every imageUrl
// value holding base64 data, at any nesting depth.
func truncateImageValues(v any) {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if k == "imageUrl" {
				if s, ok := val.(string); ok && strings.HasPrefix(s, "data:image") {
					t[k] = TruncatedImagePlaceholder
					continue
				}
			}
			truncateImageValues(val)
		}
	case []any:
		for _, item := range t {
			truncateImageValues(item)
		}
	}
}

// Items returns the result entries of every category list in the order
// organic, news, scholar.
func (r *SearchResult) Items() []ResultItem {
	var items []ResultItem
	items = append(items, r.Organic...)
	items = append(items, r.News...)
	items = append(items, r.Scholar...)
	return items
}

// ScrapeResult is the scrape endpoint response for a single URL.
type ScrapeResult struct {
	Text     string         `json:"text,omitempty"`
	Markdown string         `json:"markdown,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Credits  int            `json:"credits,omitempty"`
}
