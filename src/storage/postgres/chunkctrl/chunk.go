package chunkctrl

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Chunk is one fixed-size slice of a document's extracted text. Chunks are
// immutable; reprocessing a document replaces its whole chunk set.
type Chunk struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	DocumentID int64     `gorm:"not null;index" json:"document_id"`
	ChunkOrder int       `gorm:"not null;column:chunk_order" json:"order"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Chunk) TableName() string {
	return "document_chunks"
}

type ChunkService struct {
	db        *gorm.DB
	snowflake *snowflake.Node
}

func NewChunkService(db *gorm.DB) (*ChunkService, error) {
	node, err := snowflake.NewNode(2) // Node number 2 for chunks
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %v", err)
	}

	if err := db.AutoMigrate(&Chunk{}); err != nil {
		return nil, fmt.Errorf("failed to migrate chunk table: %v", err)
	}

	return &ChunkService{
		db:        db,
		snowflake: node,
	}, nil
}

// ReplaceForDocument discards any previous chunks of the document and writes
// the given texts as a fresh 0..N-1 ordered set, all in one transaction.
func (s *ChunkService) ReplaceForDocument(ctx context.Context, documentID int64, texts []string) ([]Chunk, error) {
	chunks := make([]Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, Chunk{
			ID:         s.snowflake.Generate().Int64(),
			DocumentID: documentID,
			ChunkOrder: i,
			Content:    text,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", documentID).Delete(&Chunk{}).Error; err != nil {
			return err
		}
		if len(chunks) == 0 {
			return nil
		}
		return tx.Create(&chunks).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to replace chunks: %v", err)
	}

	return chunks, nil
}

func (s *ChunkService) GetByDocumentID(ctx context.Context, documentID int64) ([]Chunk, error) {
	var chunks []Chunk
	result := s.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("chunk_order").
		Find(&chunks)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get chunks: %v", result.Error)
	}
	return chunks, nil
}

func (s *ChunkService) DeleteByDocumentID(ctx context.Context, documentID int64) error {
	result := s.db.WithContext(ctx).Where("document_id = ?", documentID).Delete(&Chunk{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete chunks: %v", result.Error)
	}
	return nil
}

// SearchContentFullText ranks chunks against the query with Postgres
// full-text search, best match first.
func (s *ChunkService) SearchContentFullText(ctx context.Context, query string, limit int) ([]Chunk, error) {
	var chunks []Chunk
	result := s.db.WithContext(ctx).Raw(
		`SELECT * FROM document_chunks
		 WHERE to_tsvector('english', content) @@ plainto_tsquery('english', ?)
		 ORDER BY ts_rank(to_tsvector('english', content), plainto_tsquery('english', ?)) DESC
		 LIMIT ?`,
		query, query, limit,
	).Scan(&chunks)
	if result.Error != nil {
		return nil, fmt.Errorf("failed full-text chunk search: %v", result.Error)
	}
	return chunks, nil
}

// SearchContentSubstring is the unranked case-insensitive fallback, in
// natural id order.
func (s *ChunkService) SearchContentSubstring(ctx context.Context, query string, limit int) ([]Chunk, error) {
	var chunks []Chunk
	result := s.db.WithContext(ctx).
		Where("content ILIKE ?", "%"+query+"%").
		Order("id").
		Limit(limit).
		Find(&chunks)
	if result.Error != nil {
		return nil, fmt.Errorf("failed substring chunk search: %v", result.Error)
	}
	return chunks, nil
}
