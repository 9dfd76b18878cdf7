package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/viper"

	"github.com/qiangli/deepsearch/internal/analyze"
	"github.com/qiangli/deepsearch/internal/extract"
	"github.com/qiangli/deepsearch/internal/llm"
	"github.com/qiangli/deepsearch/internal/log"
	"github.com/qiangli/deepsearch/internal/search"
	"github.com/qiangli/deepsearch/internal/serper"
)

func addTools(s *server.MCPServer, client *serper.Client) {
	addSearchTool(s, client, serper.CategorySearch, "google_search",
		"Performs a web search using Google (via Serper.dev). This tool can be used for a single query or a batch of queries.")
	addSearchTool(s, client, serper.CategoryNews, "news_search",
		"Fetches news articles using Google News. This tool can be used for a single query or a batch of queries.")
	addSearchTool(s, client, serper.CategoryScholar, "scholar_search",
		"Fetches academic/scholar articles using Google Scholar (via Serper.dev). This tool can be used for a single query or a batch of queries.")
	addSuperSearchTool(s, client)
	addScrapeTool(s, client)
	addAnalyzeTool(s, client)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return textResult(string(data)), nil
}

// argument decoding helpers; MCP arguments arrive as generic JSON

func argString(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func argInt(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

func argBool(args map[string]any, key string) *bool {
	if v, ok := args[key].(bool); ok {
		return &v
	}
	return nil
}

// argStringList accepts both a plain string and an array of strings.
func argStringList(args map[string]any, key string) []string {
	switch v := args[key].(type) {
	case string:
		return []string{v}
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	}
	return nil
}

func searchOptions(args map[string]any) *serper.SearchOptions {
	return &serper.SearchOptions{
		Location:         argString(args, "location"),
		NumResults:       argInt(args, "num_results", 0),
		Autocorrect:      argBool(args, "autocorrect"),
		TimePeriodFilter: argString(args, "time_period_filter"),
		Page:             argInt(args, "page_number", 0),
	}
}

var queryProperty = map[string]any{
	"description": "A single search term or a list of search terms.",
	"anyOf": []any{
		map[string]any{"type": "string"},
		map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
	},
}

func addSearchTool(s *server.MCPServer, client *serper.Client, cat serper.Category, name, description string) {
	tool := mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"query": queryProperty,
				"location": map[string]any{
					"type":        "string",
					"description": `The location for the search (e.g., "United States", "London, United Kingdom").`,
				},
				"num_results": map[string]any{
					"type":        "integer",
					"description": "Number of results to return (e.g., 10, 20).",
				},
				"autocorrect": map[string]any{
					"type":        "boolean",
					"description": "Whether to enable query autocorrection. Off unless specified.",
				},
				"time_period_filter": map[string]any{
					"type":        "string",
					"description": `Time-based search filter (e.g., "qdr:h" for past hour, "qdr:d" for past day). Corresponds to the 'tbs' parameter.`,
				},
				"page_number": map[string]any{
					"type":        "integer",
					"description": "The page number of results to fetch (e.g., 1, 2).",
				},
			},
			Required: []string{"query"},
		},
	}

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		log.Debugf("Calling tool [%s] with params: %+v\n", req.Params.Name, args)

		queries := argStringList(args, "query")
		if len(queries) == 0 {
			return nil, fmt.Errorf("%s: query is required", name)
		}

		results, err := client.Search(ctx, queries, cat, searchOptions(args))
		if err != nil {
			return nil, err
		}
		for _, r := range results {
			r.TruncateImageData()
		}

		// a single query yields a single object, a batch yields an array
		if _, single := args["query"].(string); single && len(results) == 1 {
			return jsonResult(results[0])
		}
		return jsonResult(results)
	}

	s.AddTool(tool, handler)
}

// superSearchResponse mirrors the aggregate layout clients consume.
type superSearchResponse struct {
	AggregatedResults     map[string]map[string]*serper.SearchResult `json:"aggregated_results"`
	TotalQueriesProcessed int                                        `json:"total_queries_processed"`
}

func addSuperSearchTool(s *server.MCPServer, client *serper.Client) {
	tool := mcp.Tool{
		Name: "super_search",
		Description: "Performs a recursive, multi-query search using Google, News, or Scholar. " +
			"Takes an initial list of queries, executes them for each specified search type, " +
			"then recursively fetches results for the top related searches found, up to a specified depth. " +
			"All results are aggregated by search type.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"queries": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "A list of initial search terms or questions.",
				},
				"search_types": map[string]any{
					"description": "A search type or a list of search types to perform: search, news, scholar.",
					"anyOf": []any{
						map[string]any{"type": "string", "enum": []string{"search", "news", "scholar"}},
						map[string]any{"type": "array", "items": map[string]any{"type": "string", "enum": []string{"search", "news", "scholar"}}},
					},
				},
				"max_related_searches": map[string]any{
					"type":        "integer",
					"description": "The maximum number of related searches to follow from each result set. Set to 0 to disable recursive searching.",
				},
				"max_depth": map[string]any{
					"type":        "integer",
					"description": "The maximum recursion depth for following related searches.",
				},
				"location": map[string]any{
					"type":        "string",
					"description": "The location for the search.",
				},
				"num_results": map[string]any{
					"type":        "integer",
					"description": "Number of results to return for each query.",
				},
				"autocorrect": map[string]any{
					"type":        "boolean",
					"description": "Whether to enable query autocorrection.",
				},
				"time_period_filter": map[string]any{
					"type":        "string",
					"description": `Time-based search filter (e.g., "qdr:d" for past day).`,
				},
			},
			Required: []string{"queries"},
		},
	}

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		log.Debugf("Calling tool [%s] with params: %+v\n", req.Params.Name, args)

		queries := argStringList(args, "queries")
		if len(queries) == 0 {
			return nil, fmt.Errorf("super_search: queries is required")
		}

		cats, err := searchCategories(args, []serper.Category{serper.CategorySearch})
		if err != nil {
			return nil, err
		}

		opts := search.Options{
			MaxRelatedSearches: argInt(args, "max_related_searches", 3),
			MaxDepth:           argInt(args, "max_depth", 1),
			Search:             *searchOptions(args),
		}

		agg := search.Super(ctx, client, newNotifier(ctx), queries, cats, opts)

		resp := superSearchResponse{
			AggregatedResults:     make(map[string]map[string]*serper.SearchResult, len(agg.Categories)),
			TotalQueriesProcessed: agg.TotalQueriesProcessed,
		}
		for cat, cr := range agg.Categories {
			resp.AggregatedResults[string(cat)] = cr.Results
		}
		return jsonResult(resp)
	}

	s.AddTool(tool, handler)
}

func searchCategories(args map[string]any, def []serper.Category) ([]serper.Category, error) {
	names := argStringList(args, "search_types")
	if len(names) == 0 {
		return def, nil
	}
	var cats []serper.Category
	for _, name := range names {
		cat := serper.Category(name)
		if !cat.Valid() {
			return nil, fmt.Errorf("invalid search type: %q. Must be 'search', 'news', or 'scholar'", name)
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

func addScrapeTool(s *server.MCPServer, client *serper.Client) {
	tool := mcp.Tool{
		Name: "scrape_url",
		Description: "Fetches and extracts the Markdown content from a given URL. " +
			"If a GitHub file URL is provided, it will be automatically converted to its raw version for scraping.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"url": map[string]any{
					"type":        "string",
					"description": "The URL of the webpage to scrape and extract Markdown from.",
				},
			},
			Required: []string{"url"},
		},
	}

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		log.Debugf("Calling tool [%s] with params: %+v\n", req.Params.Name, args)

		url := argString(args, "url")
		if url == "" {
			return nil, fmt.Errorf("scrape_url: url is required")
		}

		markdown, err := client.ScrapeMarkdown(ctx, url)
		if err != nil {
			return nil, err
		}
		return textResult(markdown), nil
	}

	s.AddTool(tool, handler)
}

func addAnalyzeTool(s *server.MCPServer, client *serper.Client) {
	tool := mcp.Tool{
		Name: "analyze_topic",
		Description: "Provides a comprehensive, multi-layered analysis of a given topic " +
			"by dynamically building and querying a knowledge graph from web search results.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The user's topic of interest (e.g., 'The impact of AI on healthcare').",
				},
				"search_depth": map[string]any{
					"type":        "integer",
					"description": "The recursion depth for the initial super search (default: 2).",
				},
				"max_urls_per_query": map[string]any{
					"type":        "integer",
					"description": "The number of top search results to scrape for each query (default: 3).",
				},
				"search_types": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string", "enum": []string{"search", "news", "scholar"}},
					"description": "A list of search types to perform.",
				},
				"chunk_size": map[string]any{
					"type":        "integer",
					"description": "The size of text chunks for processing.",
				},
				"chunk_overlap": map[string]any{
					"type":        "integer",
					"description": "The overlap size between text chunks.",
				},
				"max_entities_per_chunk": map[string]any{
					"type":        "integer",
					"description": "The maximum number of entities to extract per chunk.",
				},
				"allowed_entity_types": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "A list of entity types to focus on during extraction.",
				},
			},
			Required: []string{"query"},
		},
	}

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		log.Debugf("Calling tool [%s] with params: %+v\n", req.Params.Name, args)

		query := argString(args, "query")
		if query == "" {
			return nil, fmt.Errorf("analyze_topic: query is required")
		}

		cats, err := searchCategories(args, []serper.Category{serper.CategorySearch, serper.CategoryNews})
		if err != nil {
			return nil, err
		}

		opts := analyze.Options{
			SearchDepth:         argInt(args, "search_depth", 0),
			MaxURLs:             argInt(args, "max_urls_per_query", 0),
			Categories:          cats,
			EntityTypes:         entityTypes(args),
			ChunkSize:           argInt(args, "chunk_size", 0),
			ChunkOverlap:        argInt(args, "chunk_overlap", 0),
			MaxEntitiesPerChunk: argInt(args, "max_entities_per_chunk", 0),
		}

		pipeline := &analyze.Pipeline{
			Search: client,
			Scrape: client,
			LLM:    newLLMClient(),
			Notify: newNotifier(ctx),
		}

		result, err := pipeline.Run(ctx, query, opts)
		if err == analyze.ErrMissingLLMKey {
			return jsonResult(map[string]string{
				"status":  "Error",
				"message": "OPENAI_API_KEY not set.",
			})
		}
		if err != nil {
			return nil, err
		}
		return jsonResult(result)
	}

	s.AddTool(tool, handler)
}

func entityTypes(args map[string]any) []string {
	if types := argStringList(args, "allowed_entity_types"); len(types) > 0 {
		return types
	}
	return extract.DefaultEntityTypes
}

// newLLMClient returns nil when no API key is configured; the pipeline
// reports the missing credential after the scraping phase.
func newLLMClient() analyze.LLM {
	apiKey := viper.GetString("openai_api_key")
	if apiKey == "" {
		return nil
	}
	return llm.New(apiKey,
		llm.WithModel(viper.GetString("model")),
		llm.WithBaseURL(viper.GetString("openai_base_url")),
	)
}
