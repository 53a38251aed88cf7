package ingest_test

import (
	"testing"

	"docman/src/core/ingest"
)

func TestExtractKeywords(t *testing.T) {
	text := "Java is a powerful programming language. Java and Spring Boot are widely used."
	keywords := ingest.ExtractKeywords(text)

	got := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		got[kw] = true
	}

	for _, want := range []string{"java", "powerful", "programming", "language", "spring", "boot", "widely", "used"} {
		if !got[want] {
			t.Errorf("keywords missing %q, got %v", want, keywords)
		}
	}

	for _, excluded := range []string{"is", "a", "and", "are"} {
		if got[excluded] {
			t.Errorf("keywords must not contain %q", excluded)
		}
	}
}

func TestExtractKeywordsFiltering(t *testing.T) {
	keywords := ingest.ExtractKeywords("The cat ran up and down, over and under the big fence! FENCE posts... a1b2")

	for _, kw := range keywords {
		if len(kw) <= 3 {
			t.Errorf("keyword %q has length <= 3", kw)
		}
	}

	seen := make(map[string]int)
	for _, kw := range keywords {
		seen[kw]++
	}
	for kw, count := range seen {
		if count > 1 {
			t.Errorf("keyword %q appears %d times, want deduplication", kw, count)
		}
	}
	if seen["fence"] != 1 {
		t.Errorf("expected lower-cased deduplicated keyword \"fence\", got %v", keywords)
	}
	if seen["under"] != 0 {
		t.Error("stop word \"under\" must be filtered")
	}
}

func TestExtractKeywordsEmpty(t *testing.T) {
	if kws := ingest.ExtractKeywords(""); len(kws) != 0 {
		t.Errorf("ExtractKeywords(\"\") = %v, want empty", kws)
	}
	if kws := ingest.ExtractKeywords("a an to of"); len(kws) != 0 {
		t.Errorf("ExtractKeywords of only stop words = %v, want empty", kws)
	}
}
