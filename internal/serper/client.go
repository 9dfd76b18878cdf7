package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"
)

const (
	searchHost = "google.serper.dev"
	scrapeHost = "scrape.serper.dev"
)

// defaultTimeout bounds every API round-trip even when the inbound
// context carries no deadline; scrapes of slow pages need headroom.
const defaultTimeout = 60 * time.Second

// error body previews are capped to keep provider errors readable
const maxBodyPreview = 500

// APIError reports a failed exchange with the Serper API: a transport
// error, a non-2xx status, or an undecodable response body.
type APIError struct {
	Host    string
	Path    string
	Status  int
	Message string
	Body    string
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("serper: request to %s%s failed with status %d: %s. Response: %s", e.Host, e.Path, e.Status, e.Message, e.Body)
	}
	return fmt.Sprintf("serper: request to %s%s failed: %s", e.Host, e.Path, e.Message)
}

// Client talks to the Serper.dev search and scrape endpoints.
type Client struct {
	apiKey string
	http   *http.Client

	searchHost string
	scrapeHost string
}

// Option mutates a Client during construction.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithHosts overrides the API hosts. Used by tests to point the client
// at a local server.
func WithHosts(search, scrape string) Option {
	return func(c *Client) {
		c.searchHost = search
		c.scrapeHost = scrape
	}
}

func New(apiKey string, options ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		http:       &http.Client{Timeout: defaultTimeout},
		searchHost: "https://" + searchHost,
		scrapeHost: "https://" + scrapeHost,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *Client) post(ctx context.Context, base, path string, payload any) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("serper: API key is missing. Set the SERPER_API_KEY environment variable")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating serper request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Host: base, Path: path, Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Host: base, Path: path, Message: err.Error()}
	}
	if !utf8.Valid(data) {
		return nil, &APIError{Host: base, Path: path, Status: resp.StatusCode, Message: "response is not valid UTF-8"}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			Host:    base,
			Path:    path,
			Status:  resp.StatusCode,
			Message: resp.Status,
			Body:    preview(data),
		}
	}
	return data, nil
}

func preview(data []byte) string {
	if len(data) > maxBodyPreview {
		return string(data[:maxBodyPreview])
	}
	return string(data)
}

func (c *Client) queryPayload(query string, opts *SearchOptions) map[string]any {
	payload := map[string]any{"q": query}
	if opts == nil {
		payload["autocorrect"] = false
		return payload
	}
	if opts.Location != "" {
		payload["location"] = opts.Location
	}
	if opts.NumResults > 0 {
		payload["num"] = opts.NumResults
	}
	// autocorrect defaults to off unless the caller asks for it
	if opts.Autocorrect != nil {
		payload["autocorrect"] = *opts.Autocorrect
	} else {
		payload["autocorrect"] = false
	}
	if opts.TimePeriodFilter != "" {
		payload["tbs"] = opts.TimePeriodFilter
	}
	if opts.Page > 0 {
		payload["page"] = opts.Page
	}
	return payload
}

// Search issues one or more queries against the given category
// endpoint and returns one result per query. A single query is sent as
// a plain object, multiple queries as one batched request.
func (c *Client) Search(ctx context.Context, queries []string, cat Category, opts *SearchOptions) ([]*SearchResult, error) {
	if !cat.Valid() {
		return nil, fmt.Errorf("serper: invalid search category: %q. Must be 'search', 'news', or 'scholar'", cat)
	}
	if len(queries) == 0 {
		return nil, nil
	}

	path := "/" + string(cat)

	var payload any
	if len(queries) == 1 {
		payload = c.queryPayload(queries[0], opts)
	} else {
		batch := make([]map[string]any, 0, len(queries))
		for _, q := range queries {
			batch = append(batch, c.queryPayload(q, opts))
		}
		payload = batch
	}

	data, err := c.post(ctx, c.searchHost, path, payload)
	if err != nil {
		return nil, err
	}

	if len(queries) == 1 {
		var result SearchResult
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, &APIError{Host: c.searchHost, Path: path, Message: "decoding response: " + err.Error(), Body: preview(data)}
		}
		return []*SearchResult{&result}, nil
	}

	var results []*SearchResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, &APIError{Host: c.searchHost, Path: path, Message: "decoding response: " + err.Error(), Body: preview(data)}
	}
	return results, nil
}

// Scrape fetches the extracted content of a single URL. The scrape
// endpoint does not support batching.
func (c *Client) Scrape(ctx context.Context, url string, includeMarkdown bool) (*ScrapeResult, error) {
	payload := map[string]any{
		"url":             url,
		"includeMarkdown": includeMarkdown,
	}

	data, err := c.post(ctx, c.scrapeHost, "/", payload)
	if err != nil {
		return nil, err
	}

	var result ScrapeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &APIError{Host: c.scrapeHost, Path: "/", Message: "decoding response: " + err.Error(), Body: preview(data)}
	}
	return &result, nil
}

// ScrapeMarkdown rewrites GitHub blob URLs to their raw form, scrapes
// the page and returns its cleaned markdown content.
func (c *Client) ScrapeMarkdown(ctx context.Context, url string) (string, error) {
	result, err := c.Scrape(ctx, RawGitHubURL(url), true)
	if err != nil {
		return "", err
	}
	return CleanMarkdown(result.Markdown), nil
}
