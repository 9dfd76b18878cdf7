package serper

import (
	"html"
	"regexp"
)

var githubBlobRe = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+)/blob/([^/]+)/(.+)$`)

// RawGitHubURL rewrites a GitHub file URL to its raw.githubusercontent.com
// equivalent so the scraper fetches file content instead of the GitHub UI.
// Any URL not matching the blob shape passes through unchanged.
//
//	https://github.com/owner/repo/blob/main/README.md
//
// becomes
//
//	https://raw.githubusercontent.com/owner/repo/main/README.md
func RawGitHubURL(url string) string {
	m := githubBlobRe.FindStringSubmatch(url)
	if m == nil {
		return url
	}
	return "https://raw.githubusercontent.com/" + m[1] + "/" + m[2] + "/" + m[3] + "/" + m[4]
}

var escapedPunctRe = regexp.MustCompile("\\\\([!\"#$%&'()*+,\\-./:;<=>?@\\[\\\\\\]^_`{|}~])")

// CleanMarkdown makes scraped markdown LLM-friendly: HTML entities are
// unescaped and backslash escapes before punctuation are removed.
func CleanMarkdown(markdown string) string {
	cleaned := html.UnescapeString(markdown)
	return escapedPunctRe.ReplaceAllString(cleaned, "$1")
}
