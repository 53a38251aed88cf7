package documentctrl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Filter enumerates the optional document list predicates. Set fields are
// combined with AND.
type Filter struct {
	Title         string
	FileType      string
	UploadedBy    *int64
	Status        *DocumentStatus
	Keyword       string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time

	SortBy   string
	SortDesc bool
	Page     int
	Size     int
}

// sortColumns whitelists the fields a caller may sort by.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
	"file_size":  "file_size",
	"status":     "status",
}

func (f Filter) apply(db *gorm.DB) *gorm.DB {
	query := db.Model(&Document{})

	if f.Keyword != "" {
		query = query.
			Joins("JOIN document_keywords dk ON dk.document_id = documents.id").
			Where("LOWER(dk.keyword) = LOWER(?)", f.Keyword)
	}
	if f.Title != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(f.Title)+"%")
	}
	if f.FileType != "" {
		query = query.Where("file_type = ?", f.FileType)
	}
	if f.UploadedBy != nil {
		query = query.Where("uploaded_by = ?", *f.UploadedBy)
	}
	if f.Status != nil {
		query = query.Where("status = ?", *f.Status)
	}
	if f.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *f.CreatedBefore)
	}

	return query
}

// FindByFilters returns one page of matching documents plus the total match
// count across all pages.
func (s *DocumentService) FindByFilters(ctx context.Context, f Filter) ([]Document, int64, error) {
	base := f.apply(s.db.WithContext(ctx))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count documents: %v", err)
	}

	column, ok := sortColumns[f.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if f.SortDesc {
		direction = "DESC"
	}

	size := f.Size
	if size <= 0 {
		size = 10
	}
	page := f.Page
	if page < 0 {
		page = 0
	}

	var docs []Document
	result := base.
		Order(column + " " + direction).
		Limit(size).
		Offset(page * size).
		Find(&docs)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to list documents: %v", result.Error)
	}

	if err := s.loadKeywords(ctx, docs); err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}
