package qa

import "strings"

const fallbackSnippetLength = 200

// ExtractSnippet returns the first sentence of text containing any question
// token longer than 3 characters, or the first 200 characters followed by
// "..." when no sentence qualifies. Empty text yields an empty string.
func ExtractSnippet(text, question string) string {
	if text == "" {
		return ""
	}

	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	questionWords := strings.Fields(strings.ToLower(question))

	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)
		for _, word := range questionWords {
			if len(word) > 3 && strings.Contains(lower, word) {
				return strings.TrimSpace(sentence) + "."
			}
		}
	}

	runes := []rune(text)
	if len(runes) > fallbackSnippetLength {
		runes = runes[:fallbackSnippetLength]
	}
	return string(runes) + "..."
}

// Score is the engine's own lexical-overlap heuristic in [0,1]: the share of
// question tokens longer than 3 characters that substring-match some content
// token in either direction. Short tokens still count in the denominator.
func Score(text, question string) float64 {
	if text == "" || question == "" {
		return 0.0
	}

	contentWords := strings.Fields(strings.ToLower(text))
	questionWords := strings.Fields(strings.ToLower(question))
	if len(questionWords) == 0 {
		return 0.0
	}

	matches := 0
	for _, qWord := range questionWords {
		if len(qWord) <= 3 {
			continue
		}

		for _, cWord := range contentWords {
			if strings.Contains(cWord, qWord) || strings.Contains(qWord, cWord) {
				matches++
				break
			}
		}
	}

	return float64(matches) / float64(len(questionWords))
}
