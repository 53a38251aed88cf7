package qa_test

import (
	"strings"
	"testing"

	"docman/src/core/qa"
)

func TestExtractSnippet(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		question string
		want     string
	}{
		{
			name:     "matching sentence",
			text:     "Dogs bark loudly. The capital of France is Paris. Cats purr.",
			question: "What is the capital of France?",
			want:     "The capital of France is Paris.",
		},
		{
			name:     "match is case-insensitive",
			text:     "PARIS is lovely in spring.",
			question: "tell me about paris",
			want:     "PARIS is lovely in spring.",
		},
		{
			name:     "short question tokens never match",
			text:     "It is up to you.",
			question: "is it up",
			want:     "It is up to you....",
		},
		{
			name:     "empty text",
			text:     "",
			question: "anything",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := qa.ExtractSnippet(tt.text, tt.question)
			if got != tt.want {
				t.Errorf("ExtractSnippet(%q, %q) = %q, want %q", tt.text, tt.question, got, tt.want)
			}
		})
	}
}

func TestExtractSnippetFallbackTruncates(t *testing.T) {
	text := strings.Repeat("z", 300)
	got := qa.ExtractSnippet(text, "unrelated question")

	want := strings.Repeat("z", 200) + "..."
	if got != want {
		t.Errorf("fallback snippet length = %d, want 203", len(got))
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		question string
		want     float64
	}{
		{
			name:     "full overlap",
			text:     "the capital of france is paris",
			question: "capital france",
			want:     1.0,
		},
		{
			name:     "short tokens count in denominator only",
			text:     "the capital of france is paris",
			question: "what is the capital of france", // 6 tokens, 2 can match
			want:     2.0 / 6.0,
		},
		{
			name:     "no overlap",
			text:     "bananas are yellow",
			question: "quantum mechanics",
			want:     0.0,
		},
		{
			name:     "empty question",
			text:     "some content",
			question: "",
			want:     0.0,
		},
		{
			name:     "empty text",
			text:     "",
			question: "some question",
			want:     0.0,
		},
		{
			name:     "substring match in either direction",
			text:     "the paragliding championship",
			question: "gliding",
			want:     1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := qa.Score(tt.text, tt.question)
			if got != tt.want {
				t.Errorf("Score(%q, %q) = %v, want %v", tt.text, tt.question, got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("Score out of [0,1]: %v", got)
			}
		})
	}
}
