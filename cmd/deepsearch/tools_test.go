package main

import (
	"testing"

	"github.com/qiangli/deepsearch/internal/serper"
)

func TestArgStringList(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want int
	}{
		{"single string", map[string]any{"query": "golang"}, 1},
		{"array", map[string]any{"query": []any{"a", "b"}}, 2},
		{"missing", map[string]any{}, 0},
		{"mixed array keeps strings", map[string]any{"query": []any{"a", 1.0, "b"}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := argStringList(tt.args, "query"); len(got) != tt.want {
				t.Errorf("argStringList() = %v, want %d items", got, tt.want)
			}
		})
	}
}

func TestArgIntFromJSONNumber(t *testing.T) {
	args := map[string]any{"num_results": 10.0}
	if got := argInt(args, "num_results", 0); got != 10 {
		t.Errorf("argInt() = %d", got)
	}
	if got := argInt(args, "missing", 7); got != 7 {
		t.Errorf("argInt() default = %d", got)
	}
}

func TestSearchOptionsFromArgs(t *testing.T) {
	args := map[string]any{
		"location":           "United States",
		"num_results":        20.0,
		"autocorrect":        true,
		"time_period_filter": "qdr:d",
		"page_number":        2.0,
	}
	opts := searchOptions(args)
	if opts.Location != "United States" || opts.NumResults != 20 || opts.TimePeriodFilter != "qdr:d" || opts.Page != 2 {
		t.Errorf("unexpected options: %+v", opts)
	}
	if opts.Autocorrect == nil || !*opts.Autocorrect {
		t.Error("autocorrect should be set true")
	}

	opts = searchOptions(map[string]any{})
	if opts.Autocorrect != nil {
		t.Error("autocorrect should stay unset when absent")
	}
}

func TestSearchCategories(t *testing.T) {
	def := []serper.Category{serper.CategorySearch}

	cats, err := searchCategories(map[string]any{}, def)
	if err != nil || len(cats) != 1 || cats[0] != serper.CategorySearch {
		t.Errorf("default categories: %v, %v", cats, err)
	}

	cats, err = searchCategories(map[string]any{"search_types": "news"}, def)
	if err != nil || len(cats) != 1 || cats[0] != serper.CategoryNews {
		t.Errorf("single type: %v, %v", cats, err)
	}

	cats, err = searchCategories(map[string]any{"search_types": []any{"search", "scholar"}}, def)
	if err != nil || len(cats) != 2 {
		t.Errorf("list of types: %v, %v", cats, err)
	}

	if _, err = searchCategories(map[string]any{"search_types": "images"}, def); err == nil {
		t.Error("expected error for invalid type")
	}
}
