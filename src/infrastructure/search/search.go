// Package search adapts the storage backends to the retrieval engine's
// strategy interfaces. The default wiring is Postgres for both strategies;
// when Elasticsearch is configured it takes over the ranked chunk strategy
// while the substring fallback stays on the record store.
package search

import (
	"context"

	"docman/src/core/qa"
	"docman/src/storage/elastic"
	"docman/src/storage/postgres/chunkctrl"
	"docman/src/storage/postgres/documentctrl"
)

type PostgresChunkSearcher struct {
	chunks *chunkctrl.ChunkService
}

func NewPostgresChunkSearcher(chunks *chunkctrl.ChunkService) *PostgresChunkSearcher {
	return &PostgresChunkSearcher{chunks: chunks}
}

func (s *PostgresChunkSearcher) SearchFullText(ctx context.Context, query string, limit int) ([]qa.ChunkHit, error) {
	chunks, err := s.chunks.SearchContentFullText(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return toChunkHits(chunks), nil
}

func (s *PostgresChunkSearcher) SearchSubstring(ctx context.Context, query string, limit int) ([]qa.ChunkHit, error) {
	chunks, err := s.chunks.SearchContentSubstring(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return toChunkHits(chunks), nil
}

func toChunkHits(chunks []chunkctrl.Chunk) []qa.ChunkHit {
	hits := make([]qa.ChunkHit, 0, len(chunks))
	for _, chunk := range chunks {
		hits = append(hits, qa.ChunkHit{
			DocumentID: chunk.DocumentID,
			Content:    chunk.Content,
		})
	}
	return hits
}

type PostgresDocumentSearcher struct {
	docs *documentctrl.DocumentService
}

func NewPostgresDocumentSearcher(docs *documentctrl.DocumentService) *PostgresDocumentSearcher {
	return &PostgresDocumentSearcher{docs: docs}
}

func (s *PostgresDocumentSearcher) SearchFullText(ctx context.Context, query string, limit int) ([]qa.DocumentHit, error) {
	docs, err := s.docs.SearchContentFullText(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return toDocumentHits(docs), nil
}

func (s *PostgresDocumentSearcher) SearchSubstring(ctx context.Context, query string, limit int) ([]qa.DocumentHit, error) {
	docs, err := s.docs.SearchContentSubstring(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return toDocumentHits(docs), nil
}

func toDocumentHits(docs []documentctrl.Document) []qa.DocumentHit {
	hits := make([]qa.DocumentHit, 0, len(docs))
	for _, doc := range docs {
		content := ""
		if doc.Content != nil {
			content = *doc.Content
		}
		hits = append(hits, qa.DocumentHit{
			ID:      doc.ID,
			Title:   doc.Title,
			Content: content,
		})
	}
	return hits
}

type TitleResolver struct {
	docs *documentctrl.DocumentService
}

func NewTitleResolver(docs *documentctrl.DocumentService) *TitleResolver {
	return &TitleResolver{docs: docs}
}

func (r *TitleResolver) DocumentTitle(ctx context.Context, id int64) (string, bool, error) {
	doc, err := r.docs.GetByID(ctx, id)
	if err != nil {
		return "", false, err
	}
	if doc == nil {
		return "", false, nil
	}
	return doc.Title, true, nil
}

// ElasticChunkSearcher serves the ranked strategy from the search index and
// delegates the substring fallback to the record store.
type ElasticChunkSearcher struct {
	sdk      *elastic.SDK
	fallback qa.ChunkSearcher
}

func NewElasticChunkSearcher(sdk *elastic.SDK, fallback qa.ChunkSearcher) *ElasticChunkSearcher {
	return &ElasticChunkSearcher{sdk: sdk, fallback: fallback}
}

func (s *ElasticChunkSearcher) SearchFullText(ctx context.Context, query string, limit int) ([]qa.ChunkHit, error) {
	chunks, err := s.sdk.SearchChunks(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	hits := make([]qa.ChunkHit, 0, len(chunks))
	for _, chunk := range chunks {
		hits = append(hits, qa.ChunkHit{
			DocumentID: chunk.DocumentID,
			Content:    chunk.Content,
		})
	}
	return hits, nil
}

func (s *ElasticChunkSearcher) SearchSubstring(ctx context.Context, query string, limit int) ([]qa.ChunkHit, error) {
	return s.fallback.SearchSubstring(ctx, query, limit)
}

// ElasticIndexer maintains the chunk index during ingestion.
type ElasticIndexer struct {
	sdk *elastic.SDK
}

func NewElasticIndexer(sdk *elastic.SDK) *ElasticIndexer {
	return &ElasticIndexer{sdk: sdk}
}

func (i *ElasticIndexer) IndexChunks(ctx context.Context, documentID int64, chunks []chunkctrl.Chunk) error {
	docs := make([]elastic.ChunkDocument, 0, len(chunks))
	for _, chunk := range chunks {
		docs = append(docs, elastic.ChunkDocument{
			DocumentID: chunk.DocumentID,
			ChunkOrder: chunk.ChunkOrder,
			Content:    chunk.Content,
		})
	}
	return i.sdk.IndexChunks(ctx, documentID, docs)
}

func (i *ElasticIndexer) DeleteDocument(ctx context.Context, documentID int64) error {
	return i.sdk.DeleteByDocumentID(ctx, documentID)
}
