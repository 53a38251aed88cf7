package ingest_test

import (
	"strings"
	"testing"

	"docman/src/core/ingest"
)

func TestSplitTextSingleChunk(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "short", text: "hello world"},
		{name: "exactly at limit", text: strings.Repeat("x", 1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := ingest.SplitText(tt.text, 1000)
			if len(chunks) != 1 {
				t.Fatalf("SplitText returned %d chunks, want 1", len(chunks))
			}
			if chunks[0] != tt.text {
				t.Errorf("chunk 0 = %q, want %q", chunks[0], tt.text)
			}
		})
	}
}

func TestSplitTextMultipleChunks(t *testing.T) {
	text := strings.Repeat("a", 2500)
	chunks := ingest.SplitText(text, 1000)

	if len(chunks) != 3 {
		t.Fatalf("SplitText returned %d chunks, want 3", len(chunks))
	}

	wantLengths := []int{1000, 1000, 500}
	for i, want := range wantLengths {
		if len(chunks[i]) != want {
			t.Errorf("chunk %d length = %d, want %d", i, len(chunks[i]), want)
		}
	}

	if strings.Join(chunks, "") != text {
		t.Error("concatenated chunks do not reconstruct the original text")
	}
}

func TestSplitTextRuneBoundaries(t *testing.T) {
	// Multi-byte characters must never be split in half.
	text := strings.Repeat("ä", 10)
	chunks := ingest.SplitText(text, 4)

	if len(chunks) != 3 {
		t.Fatalf("SplitText returned %d chunks, want 3", len(chunks))
	}
	if strings.Join(chunks, "") != text {
		t.Error("concatenated chunks do not reconstruct the original text")
	}
	for i, chunk := range chunks {
		if strings.ContainsRune(chunk, '�') {
			t.Errorf("chunk %d contains a broken rune: %q", i, chunk)
		}
	}
}

func TestSplitTextDefaultSize(t *testing.T) {
	text := strings.Repeat("b", 1500)
	chunks := ingest.SplitText(text, 0)

	if len(chunks) != 2 {
		t.Fatalf("SplitText returned %d chunks, want 2", len(chunks))
	}
	if len(chunks[0]) != 1000 || len(chunks[1]) != 500 {
		t.Errorf("chunk lengths = %d, %d, want 1000, 500", len(chunks[0]), len(chunks[1]))
	}
}
