package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
)

// ChunkDocument is the indexed shape of one chunk.
type ChunkDocument struct {
	DocumentID int64  `json:"document_id"`
	ChunkOrder int    `json:"chunk_order"`
	Content    string `json:"content"`
}

// SDK wraps the Elasticsearch client for chunk indexing and ranked
// full-text retrieval. Result ordering is the index's relevance ranking.
type SDK struct {
	client *elasticsearch.Client
	index  string
}

func NewSDK(addresses []string, index string) (*SDK, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addresses,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %v", err)
	}

	return &SDK{
		client: client,
		index:  index,
	}, nil
}

// IndexChunks writes one index entry per chunk. Entry ids are
// <document_id>-<order> so re-indexing a document overwrites in place.
func (s *SDK) IndexChunks(ctx context.Context, documentID int64, chunks []ChunkDocument) error {
	for _, chunk := range chunks {
		body, err := json.Marshal(chunk)
		if err != nil {
			return fmt.Errorf("failed to marshal chunk document: %v", err)
		}

		docID := strconv.FormatInt(documentID, 10) + "-" + strconv.Itoa(chunk.ChunkOrder)
		res, err := s.client.Index(
			s.index,
			bytes.NewReader(body),
			s.client.Index.WithDocumentID(docID),
			s.client.Index.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("failed to index chunk: %v", err)
		}
		res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("failed to index chunk: %s", res.Status())
		}
	}

	return nil
}

// DeleteByDocumentID removes every index entry belonging to the document.
func (s *SDK) DeleteByDocumentID(ctx context.Context, documentID int64) error {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{
				"document_id": documentID,
			},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return fmt.Errorf("failed to marshal delete query: %v", err)
	}

	res, err := s.client.DeleteByQuery(
		[]string{s.index},
		bytes.NewReader(body),
		s.client.DeleteByQuery.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to delete chunks from index: %v", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("failed to delete chunks from index: %s", res.Status())
	}

	return nil
}

// SearchChunks runs a relevance-ranked match query over chunk content and
// returns hits best first.
func (s *SDK) SearchChunks(ctx context.Context, query string, limit int) ([]ChunkDocument, error) {
	searchBody := map[string]interface{}{
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"content": query,
			},
		},
		"size": limit,
	}
	body, err := json.Marshal(searchBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %v", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %v", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("failed to search chunks: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source ChunkDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %v", err)
	}

	hits := make([]ChunkDocument, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		hits = append(hits, hit.Source)
	}

	return hits, nil
}
