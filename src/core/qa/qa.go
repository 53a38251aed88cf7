package qa

import (
	"context"
	"errors"

	"docman/src/log"
)

// MaxResults caps every search strategy.
const MaxResults = 5

// ErrSearchUnavailable is returned only when every strategy fails outright,
// as opposed to returning no results.
var ErrSearchUnavailable = errors.New("search unavailable")

// ChunkHit is one chunk-level search result.
type ChunkHit struct {
	DocumentID int64
	Content    string
}

// DocumentHit is one whole-document search result.
type DocumentHit struct {
	ID      int64
	Title   string
	Content string
}

// ChunkSearcher provides the two chunk-level strategies: ranked full-text
// (ordering is the backend's business) and the case-insensitive substring
// fallback.
type ChunkSearcher interface {
	SearchFullText(ctx context.Context, query string, limit int) ([]ChunkHit, error)
	SearchSubstring(ctx context.Context, query string, limit int) ([]ChunkHit, error)
}

// DocumentSearcher provides the same pair over whole document text.
type DocumentSearcher interface {
	SearchFullText(ctx context.Context, query string, limit int) ([]DocumentHit, error)
	SearchSubstring(ctx context.Context, query string, limit int) ([]DocumentHit, error)
}

// TitleResolver looks up the owning document's title for a chunk hit. The
// boolean is false when the document no longer exists.
type TitleResolver interface {
	DocumentTitle(ctx context.Context, id int64) (string, bool, error)
}

// Snippet is one ranked answer fragment.
type Snippet struct {
	DocumentID     int64   `json:"document_id"`
	DocumentTitle  string  `json:"document_title"`
	Snippet        string  `json:"snippet"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Answer is the transient per-request result; it is never persisted.
type Answer struct {
	Question          string    `json:"question"`
	RelevantDocuments []Snippet `json:"relevant_documents"`
}

// Service answers natural-language questions over previously ingested text.
type Service struct {
	chunks ChunkSearcher
	docs   DocumentSearcher
	titles TitleResolver
}

func NewService(chunks ChunkSearcher, docs DocumentSearcher, titles TitleResolver) *Service {
	return &Service{
		chunks: chunks,
		docs:   docs,
		titles: titles,
	}
}

// Answer searches chunks first, falling back from the ranked strategy to the
// substring strategy on error. When both chunk strategies come back empty,
// the same pair runs over whole documents. An empty result list is a normal
// outcome. Scores are always the engine's own heuristic, not the backend's;
// whole-document hits score a flat 1.0 since no chunk-level signal exists.
func (s *Service) Answer(ctx context.Context, question string) (*Answer, error) {
	answer := &Answer{
		Question:          question,
		RelevantDocuments: []Snippet{},
	}

	chunkHits, chunkErr := s.searchChunks(ctx, question)
	if chunkErr != nil {
		log.Error(chunkErr, "chunk search strategies failed, trying documents")
	}

	if len(chunkHits) > 0 {
		for _, hit := range chunkHits {
			title, found, err := s.titles.DocumentTitle(ctx, hit.DocumentID)
			if err != nil || !found {
				log.Info("skipping chunk of unknown document", "document_id", hit.DocumentID)
				continue
			}

			answer.RelevantDocuments = append(answer.RelevantDocuments, Snippet{
				DocumentID:     hit.DocumentID,
				DocumentTitle:  title,
				Snippet:        ExtractSnippet(hit.Content, question),
				RelevanceScore: Score(hit.Content, question),
			})
		}
		return answer, nil
	}

	docHits, docErr := s.searchDocuments(ctx, question)
	if docErr != nil {
		if chunkErr != nil {
			return nil, ErrSearchUnavailable
		}
		log.Error(docErr, "document search strategies failed")
		return answer, nil
	}

	for _, hit := range docHits {
		answer.RelevantDocuments = append(answer.RelevantDocuments, Snippet{
			DocumentID:     hit.ID,
			DocumentTitle:  hit.Title,
			Snippet:        ExtractSnippet(hit.Content, question),
			RelevanceScore: 1.0,
		})
	}

	return answer, nil
}

func (s *Service) searchChunks(ctx context.Context, question string) ([]ChunkHit, error) {
	hits, err := s.chunks.SearchFullText(ctx, question, MaxResults)
	if err != nil {
		log.Info("ranked chunk search failed, falling back to substring", "error", err.Error())
		hits, err = s.chunks.SearchSubstring(ctx, question, MaxResults)
		if err != nil {
			return nil, err
		}
	}
	return hits, nil
}

func (s *Service) searchDocuments(ctx context.Context, question string) ([]DocumentHit, error) {
	hits, err := s.docs.SearchFullText(ctx, question, MaxResults)
	if err != nil {
		log.Info("ranked document search failed, falling back to substring", "error", err.Error())
		hits, err = s.docs.SearchSubstring(ctx, question, MaxResults)
		if err != nil {
			return nil, err
		}
	}
	return hits, nil
}
