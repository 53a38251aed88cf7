package documentctrl

import (
	"context"
	"fmt"
)

// SearchContentFullText ranks documents against the query with Postgres
// full-text search, best match first.
func (s *DocumentService) SearchContentFullText(ctx context.Context, query string, limit int) ([]Document, error) {
	var docs []Document
	result := s.db.WithContext(ctx).Raw(
		`SELECT * FROM documents
		 WHERE content_vector @@ plainto_tsquery('english', ?)
		 ORDER BY ts_rank(content_vector, plainto_tsquery('english', ?)) DESC
		 LIMIT ?`,
		query, query, limit,
	).Scan(&docs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed full-text document search: %v", result.Error)
	}
	return docs, nil
}

// SearchContentSubstring is the unranked case-insensitive fallback.
func (s *DocumentService) SearchContentSubstring(ctx context.Context, query string, limit int) ([]Document, error) {
	var docs []Document
	result := s.db.WithContext(ctx).
		Where("content ILIKE ?", "%"+query+"%").
		Order("created_at DESC").
		Limit(limit).
		Find(&docs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed substring document search: %v", result.Error)
	}
	return docs, nil
}
