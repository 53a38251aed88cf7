package ingest

// DefaultChunkSize is the target chunk length in characters.
const DefaultChunkSize = 1000

// SplitText slices text into consecutive chunks of at most size characters.
// Slicing is purely positional; chunks may split mid-word, which keeps the
// output reproducible for any input. Concatenating the result restores the
// original text exactly.
func SplitText(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}

	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	chunkCount := (len(runes) + size - 1) / size
	chunks := make([]string, 0, chunkCount)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}
