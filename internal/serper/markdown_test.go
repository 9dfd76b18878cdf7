package serper

import "testing"

func TestRawGitHubURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "blob url",
			url:  "https://github.com/o/r/blob/main/README.md",
			want: "https://raw.githubusercontent.com/o/r/main/README.md",
		},
		{
			name: "nested path",
			url:  "https://github.com/owner/repo/blob/dev/docs/guide/intro.md",
			want: "https://raw.githubusercontent.com/owner/repo/dev/docs/guide/intro.md",
		},
		{
			name: "repo root is not rewritten",
			url:  "https://github.com/owner/repo",
			want: "https://github.com/owner/repo",
		},
		{
			name: "tree url is not rewritten",
			url:  "https://github.com/owner/repo/tree/main/docs",
			want: "https://github.com/owner/repo/tree/main/docs",
		},
		{
			name: "non-github url",
			url:  "https://example.com/blob/main/README.md",
			want: "https://example.com/blob/main/README.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RawGitHubURL(tt.url); got != tt.want {
				t.Errorf("RawGitHubURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestCleanMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "entities and escapes",
			in:   `A \*b\* &amp; c`,
			want: "A *b* & c",
		},
		{
			name: "escaped brackets",
			in:   `\[link\]\(url\)`,
			want: "[link](url)",
		},
		{
			name: "escaped underscore and backtick",
			in:   "some\\_name \\`code\\`",
			want: "some_name `code`",
		},
		{
			name: "plain text untouched",
			in:   "nothing to do here",
			want: "nothing to do here",
		},
		{
			name: "lt gt entities",
			in:   "&lt;div&gt;",
			want: "<div>",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanMarkdown(tt.in); got != tt.want {
				t.Errorf("CleanMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncateImageData(t *testing.T) {
	r := &SearchResult{
		Organic: []ResultItem{
			{Title: "a", ImageURL: "data:image/png;base64,AAAA"},
			{Title: "b", ImageURL: "https://example.com/thumb.png"},
		},
		News: []ResultItem{
			{Title: "c", ImageURL: "data:image/jpeg;base64,BBBB"},
		},
	}

	r.TruncateImageData()

	if r.Organic[0].ImageURL != TruncatedImagePlaceholder {
		t.Errorf("expected organic[0] image to be truncated, got %q", r.Organic[0].ImageURL)
	}
	if r.Organic[1].ImageURL != "https://example.com/thumb.png" {
		t.Errorf("regular image url should pass through, got %q", r.Organic[1].ImageURL)
	}
	if r.News[0].ImageURL != TruncatedImagePlaceholder {
		t.Errorf("expected news[0] image to be truncated, got %q", r.News[0].ImageURL)
	}
}
