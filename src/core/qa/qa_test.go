package qa_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"docman/src/core/qa"
)

type fakeChunkSearcher struct {
	fullTextHits []qa.ChunkHit
	fullTextErr  error
	subHits      []qa.ChunkHit
	subErr       error

	fullTextCalls int
	subCalls      int
}

func (f *fakeChunkSearcher) SearchFullText(_ context.Context, _ string, _ int) ([]qa.ChunkHit, error) {
	f.fullTextCalls++
	return f.fullTextHits, f.fullTextErr
}

func (f *fakeChunkSearcher) SearchSubstring(_ context.Context, _ string, _ int) ([]qa.ChunkHit, error) {
	f.subCalls++
	return f.subHits, f.subErr
}

type fakeDocumentSearcher struct {
	fullTextHits []qa.DocumentHit
	fullTextErr  error
	subHits      []qa.DocumentHit
	subErr       error
}

func (f *fakeDocumentSearcher) SearchFullText(_ context.Context, _ string, _ int) ([]qa.DocumentHit, error) {
	return f.fullTextHits, f.fullTextErr
}

func (f *fakeDocumentSearcher) SearchSubstring(_ context.Context, _ string, _ int) ([]qa.DocumentHit, error) {
	return f.subHits, f.subErr
}

type fakeTitles map[int64]string

func (f fakeTitles) DocumentTitle(_ context.Context, id int64) (string, bool, error) {
	title, ok := f[id]
	return title, ok, nil
}

func TestAnswerFromRankedChunks(t *testing.T) {
	chunks := &fakeChunkSearcher{
		fullTextHits: []qa.ChunkHit{
			{DocumentID: 7, Content: "The capital of France is Paris. More text follows."},
		},
	}
	svc := qa.NewService(chunks, &fakeDocumentSearcher{}, fakeTitles{7: "Geography"})

	answer, err := svc.Answer(context.Background(), "What is the capital of France?")
	if err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}

	if answer.Question != "What is the capital of France?" {
		t.Errorf("question = %q", answer.Question)
	}
	if len(answer.RelevantDocuments) != 1 {
		t.Fatalf("got %d results, want 1", len(answer.RelevantDocuments))
	}

	result := answer.RelevantDocuments[0]
	if result.DocumentID != 7 {
		t.Errorf("document id = %d, want 7", result.DocumentID)
	}
	if result.DocumentTitle != "Geography" {
		t.Errorf("document title = %q, want Geography", result.DocumentTitle)
	}
	if !strings.Contains(result.Snippet, "Paris") {
		t.Errorf("snippet %q does not contain Paris", result.Snippet)
	}
	if result.RelevanceScore <= 0 || result.RelevanceScore > 1 {
		t.Errorf("relevance score out of range: %v", result.RelevanceScore)
	}
}

func TestAnswerFallsBackToSubstringOnRankedError(t *testing.T) {
	chunks := &fakeChunkSearcher{
		fullTextErr: errors.New("index unavailable"),
		subHits: []qa.ChunkHit{
			{DocumentID: 3, Content: "Substring search still works fine."},
		},
	}
	svc := qa.NewService(chunks, &fakeDocumentSearcher{}, fakeTitles{3: "Fallback"})

	answer, err := svc.Answer(context.Background(), "does substring search work")
	if err != nil {
		t.Fatalf("ranked search error must not surface, got: %v", err)
	}

	if chunks.fullTextCalls != 1 || chunks.subCalls != 1 {
		t.Errorf("calls = %d full-text, %d substring, want 1 and 1", chunks.fullTextCalls, chunks.subCalls)
	}
	if len(answer.RelevantDocuments) != 1 {
		t.Fatalf("got %d results, want 1", len(answer.RelevantDocuments))
	}
	if answer.RelevantDocuments[0].DocumentID != 3 {
		t.Errorf("document id = %d, want 3", answer.RelevantDocuments[0].DocumentID)
	}
}

func TestAnswerFallsBackToDocuments(t *testing.T) {
	docs := &fakeDocumentSearcher{
		fullTextHits: []qa.DocumentHit{
			{ID: 11, Title: "Handbook", Content: "Printers jam when the tray is overfull."},
		},
	}
	svc := qa.NewService(&fakeChunkSearcher{}, docs, fakeTitles{})

	answer, err := svc.Answer(context.Background(), "why do printers jam")
	if err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}

	if len(answer.RelevantDocuments) != 1 {
		t.Fatalf("got %d results, want 1", len(answer.RelevantDocuments))
	}

	result := answer.RelevantDocuments[0]
	if result.DocumentID != 11 || result.DocumentTitle != "Handbook" {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.RelevanceScore != 1.0 {
		t.Errorf("whole-document score = %v, want 1.0", result.RelevanceScore)
	}
}

func TestAnswerEmptyCorpus(t *testing.T) {
	svc := qa.NewService(&fakeChunkSearcher{}, &fakeDocumentSearcher{}, fakeTitles{})

	answer, err := svc.Answer(context.Background(), "anything at all")
	if err != nil {
		t.Fatalf("empty corpus must not error, got: %v", err)
	}
	if answer.Question != "anything at all" {
		t.Errorf("question = %q", answer.Question)
	}
	if len(answer.RelevantDocuments) != 0 {
		t.Errorf("got %d results, want 0", len(answer.RelevantDocuments))
	}
}

func TestAnswerAllStrategiesFail(t *testing.T) {
	chunks := &fakeChunkSearcher{
		fullTextErr: errors.New("down"),
		subErr:      errors.New("down"),
	}
	docs := &fakeDocumentSearcher{
		fullTextErr: errors.New("down"),
		subErr:      errors.New("down"),
	}
	svc := qa.NewService(chunks, docs, fakeTitles{})

	_, err := svc.Answer(context.Background(), "is anything alive")
	if !errors.Is(err, qa.ErrSearchUnavailable) {
		t.Errorf("err = %v, want ErrSearchUnavailable", err)
	}
}

func TestAnswerSkipsChunksOfDeletedDocuments(t *testing.T) {
	chunks := &fakeChunkSearcher{
		fullTextHits: []qa.ChunkHit{
			{DocumentID: 1, Content: "matching content about gardens"},
			{DocumentID: 2, Content: "more content about gardens"},
		},
	}
	svc := qa.NewService(chunks, &fakeDocumentSearcher{}, fakeTitles{2: "Gardening"})

	answer, err := svc.Answer(context.Background(), "tell me about gardens")
	if err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}
	if len(answer.RelevantDocuments) != 1 {
		t.Fatalf("got %d results, want 1", len(answer.RelevantDocuments))
	}
	if answer.RelevantDocuments[0].DocumentID != 2 {
		t.Errorf("document id = %d, want 2", answer.RelevantDocuments[0].DocumentID)
	}
}
