package documentctrl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// DocumentStatus tracks a document through the ingestion lifecycle.
type DocumentStatus string

const (
	StatusPending    DocumentStatus = "PENDING"
	StatusProcessing DocumentStatus = "PROCESSING"
	StatusCompleted  DocumentStatus = "COMPLETED"
	StatusFailed     DocumentStatus = "FAILED"
)

type Document struct {
	ID          int64          `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	FileName    string         `gorm:"not null" json:"file_name"`
	FileType    string         `gorm:"not null" json:"file_type"`
	FileSize    int64          `gorm:"not null" json:"file_size"`
	FilePath    string         `gorm:"not null" json:"file_path"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	UploadedBy  int64          `gorm:"not null;index" json:"uploaded_by"`
	Content     *string        `gorm:"type:text" json:"-"`
	Status      DocumentStatus `gorm:"not null;index" json:"status"`
	Keywords    []string       `gorm:"-" json:"keywords"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type DocumentKeyword struct {
	DocumentID int64  `gorm:"primaryKey;autoIncrement:false"`
	Keyword    string `gorm:"primaryKey"`
}

type DocumentService struct {
	db        *gorm.DB
	snowflake *snowflake.Node
}

func NewDocumentService(db *gorm.DB) (*DocumentService, error) {
	node, err := snowflake.NewNode(1) // Node number 1 for documents
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %v", err)
	}

	if err := db.AutoMigrate(&Document{}, &DocumentKeyword{}); err != nil {
		return nil, fmt.Errorf("failed to migrate document tables: %v", err)
	}

	// AutoMigrate has no tsvector support, so the search column is added by hand.
	if err := db.Exec("ALTER TABLE documents ADD COLUMN IF NOT EXISTS content_vector tsvector").Error; err != nil {
		return nil, fmt.Errorf("failed to add content_vector column: %v", err)
	}

	return &DocumentService{
		db:        db,
		snowflake: node,
	}, nil
}

func (s *DocumentService) Create(ctx context.Context, doc *Document) (*Document, error) {
	doc.ID = s.snowflake.Generate().Int64()
	if doc.Status == "" {
		doc.Status = StatusPending
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(doc).Error; err != nil {
			return err
		}
		return replaceKeywords(tx, doc.ID, doc.Keywords)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %v", err)
	}

	return doc, nil
}

func (s *DocumentService) GetByID(ctx context.Context, id int64) (*Document, error) {
	var doc Document
	result := s.db.WithContext(ctx).First(&doc, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %v", result.Error)
	}

	keywords, err := s.Keywords(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Keywords = keywords

	return &doc, nil
}

func (s *DocumentService) Keywords(ctx context.Context, id int64) ([]string, error) {
	var keywords []string
	result := s.db.WithContext(ctx).
		Model(&DocumentKeyword{}).
		Where("document_id = ?", id).
		Order("keyword").
		Pluck("keyword", &keywords)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get keywords: %v", result.Error)
	}
	return keywords, nil
}

func (s *DocumentService) SetKeywords(ctx context.Context, id int64, keywords []string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&DocumentKeyword{}).Error; err != nil {
			return err
		}
		return replaceKeywords(tx, id, keywords)
	})
	if err != nil {
		return fmt.Errorf("failed to set keywords: %v", err)
	}
	return nil
}

// loadKeywords fills Keywords on every document in one query.
func (s *DocumentService) loadKeywords(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(docs))
	for i := range docs {
		ids = append(ids, docs[i].ID)
	}

	var rows []DocumentKeyword
	result := s.db.WithContext(ctx).
		Where("document_id IN ?", ids).
		Order("keyword").
		Find(&rows)
	if result.Error != nil {
		return fmt.Errorf("failed to load keywords: %v", result.Error)
	}

	attachKeywords(docs, rows)
	return nil
}

func attachKeywords(docs []Document, rows []DocumentKeyword) {
	byDoc := make(map[int64][]string, len(docs))
	for _, row := range rows {
		byDoc[row.DocumentID] = append(byDoc[row.DocumentID], row.Keyword)
	}
	for i := range docs {
		docs[i].Keywords = byDoc[docs[i].ID]
	}
}

func replaceKeywords(tx *gorm.DB, id int64, keywords []string) error {
	if len(keywords) == 0 {
		return nil
	}

	rows := make([]DocumentKeyword, 0, len(keywords))
	for _, kw := range keywords {
		rows = append(rows, DocumentKeyword{DocumentID: id, Keyword: kw})
	}
	return tx.Create(&rows).Error
}

// TransitionStatus moves a document between lifecycle states only when it is
// currently in the expected state. The boolean reports whether the swap took
// effect; a false result means another worker got there first or the document
// is gone.
func (s *DocumentService) TransitionStatus(ctx context.Context, id int64, from, to DocumentStatus) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&Document{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, fmt.Errorf("failed to transition document status: %v", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *DocumentService) UpdateStatus(ctx context.Context, id int64, status DocumentStatus) error {
	result := s.db.WithContext(ctx).
		Model(&Document{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update document status: %v", result.Error)
	}
	return nil
}

// SetContent stores extracted text and refreshes the full-text search vector.
func (s *DocumentService) SetContent(ctx context.Context, id int64, content string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Document{}).Where("id = ?", id).Update("content", content)
		if result.Error != nil {
			return result.Error
		}
		return tx.Exec(
			"UPDATE documents SET content_vector = to_tsvector('english', ?) WHERE id = ?",
			content, id,
		).Error
	})
	if err != nil {
		return fmt.Errorf("failed to set document content: %v", err)
	}
	return nil
}

func (s *DocumentService) FindByStatus(ctx context.Context, status DocumentStatus, limit, offset int) ([]Document, error) {
	var docs []Document
	result := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at").
		Limit(limit).
		Offset(offset).
		Find(&docs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find documents by status: %v", result.Error)
	}
	return docs, nil
}

func (s *DocumentService) CountByStatus(ctx context.Context, status DocumentStatus) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).
		Model(&Document{}).
		Where("status = ?", status).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count documents by status: %v", result.Error)
	}
	return count, nil
}

func (s *DocumentService) Delete(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&DocumentKeyword{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Document{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete document: %v", err)
	}
	return nil
}
