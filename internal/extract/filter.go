package extract

import (
	"regexp"
	"strings"
)

// noise shapes rejected outright: list markers, percentages, bare
// numbers and single letters
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+\.`),
	regexp.MustCompile(`^\d+%$`),
	regexp.MustCompile(`^\d+$`),
	regexp.MustCompile(`^[a-zA-Z]$`),
}

var stopwords = map[string]bool{
	"the": true, "and": true, "or": true, "but": true, "in": true,
	"on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "up": true, "about": true,
	"into": true, "through": true, "during": true, "before": true,
	"after": true, "above": true, "below": true, "between": true,
	"among": true, "this": true, "that": true, "these": true,
	"those": true, "it": true, "they": true, "them": true,
	"their": true, "there": true, "here": true, "where": true,
	"when": true, "increase": true, "improve": true, "develop": true,
	"support": true, "related": true, "concept": true, "thing": true,
}

// IsValidEntity rejects low-quality entity strings: too short, pure
// numbers, list markers, percentages, single letters and stopwords.
// Case and surrounding whitespace are ignored.
func IsValidEntity(name string) bool {
	if name == "" || len(name) < 3 {
		return false
	}

	trimmed := strings.TrimSpace(name)
	for _, p := range noisePatterns {
		if p.MatchString(trimmed) {
			return false
		}
	}

	return !stopwords[strings.ToLower(trimmed)]
}
