package ingest

import (
	"regexp"
	"strings"
)

// stopWords are common English function words excluded from derived keywords.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "is": {},
	"are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "with": {}, "by": {},
	"about": {}, "against": {}, "between": {}, "into": {}, "through": {},
	"during": {}, "before": {}, "after": {}, "above": {}, "below": {},
	"from": {}, "up": {}, "down": {}, "of": {}, "off": {}, "over": {},
	"under": {},
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s]`)

// ExtractKeywords derives a deduplicated keyword set from text: lower-cased
// alphanumeric tokens longer than 3 characters that are not stop words.
// Order follows first occurrence in the text.
func ExtractKeywords(text string) []string {
	if text == "" {
		return nil
	}

	cleaned := nonAlphanumeric.ReplaceAllString(strings.ToLower(text), " ")

	seen := make(map[string]struct{})
	var keywords []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 3 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
	}

	return keywords
}
