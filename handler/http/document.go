package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"docman/src/core/ingest"
	"docman/src/log"
	"docman/src/storage/blob"
	"docman/src/storage/postgres/documentctrl"
)

type DocumentHandler struct {
	ingestService *ingest.Service
	docService    *documentctrl.DocumentService
}

func NewDocumentHandler(ingestService *ingest.Service, docService *documentctrl.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		ingestService: ingestService,
		docService:    docService,
	}
}

// Upload handles POST /api/v1/documents
func (h *DocumentHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	var keywords []string
	if raw := c.PostForm("keywords"); raw != "" {
		for _, kw := range strings.Split(raw, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
	}

	uploadedBy, _ := strconv.ParseInt(c.PostForm("uploaded_by"), 10, 64)

	doc, err := h.ingestService.Submit(c.Request.Context(), ingest.SubmitRequest{
		Data:        data,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		UploadedBy:  uploadedBy,
		Keywords:    keywords,
	})
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, blob.ErrStorage):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record document"})
		}
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// List handles GET /api/v1/documents
func (h *DocumentHandler) List(c *gin.Context) {
	filter := documentctrl.Filter{
		Title:    c.Query("title"),
		FileType: c.Query("file_type"),
		Keyword:  c.Query("keyword"),
		SortBy:   c.DefaultQuery("sort_by", "created_at"),
		SortDesc: strings.EqualFold(c.DefaultQuery("sort_dir", "desc"), "desc"),
	}

	if raw := c.Query("uploaded_by"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid uploaded_by parameter"})
			return
		}
		filter.UploadedBy = &id
	}

	if raw := c.Query("status"); raw != "" {
		status := documentctrl.DocumentStatus(strings.ToUpper(raw))
		filter.Status = &status
	}

	for param, dest := range map[string]**time.Time{
		"created_after":  &filter.CreatedAfter,
		"created_before": &filter.CreatedBefore,
	} {
		if raw := c.Query(param); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + param + " parameter"})
				return
			}
			*dest = &t
		}
	}

	if raw := c.Query("page"); raw != "" {
		if _, err := strconv.Atoi(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page parameter"})
			return
		}
		filter.Page, _ = strconv.Atoi(raw)
	}
	filter.Size = 10
	if raw := c.Query("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid size parameter"})
			return
		}
		filter.Size = size
	}

	docs, total, err := h.docService.FindByFilters(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list documents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": docs,
		"pagination": gin.H{
			"page":  filter.Page,
			"size":  filter.Size,
			"total": total,
		},
	})
}

// Get handles GET /api/v1/documents/:id
func (h *DocumentHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	doc, err := h.docService.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get document"})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	c.JSON(http.StatusOK, doc)
}

// Delete handles DELETE /api/v1/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	if err := h.ingestService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ingest.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete document"})
		return
	}

	c.Status(http.StatusNoContent)
}

// ProcessBatch handles POST /api/v1/documents/process. The sweep runs in the
// background; the request only triggers it.
func (h *DocumentHandler) ProcessBatch(c *gin.Context) {
	go func() {
		processed, err := h.ingestService.SweepPending(context.Background(), nil)
		if err != nil {
			log.Error(err, "batch sweep aborted", "processed", processed)
			return
		}
		log.Info("batch sweep finished", "processed", processed)
	}()

	c.JSON(http.StatusAccepted, gin.H{"message": "Batch processing started"})
}

// Reprocess handles POST /api/v1/documents/:id/reprocess
func (h *DocumentHandler) Reprocess(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	if err := h.ingestService.Reprocess(c.Request.Context(), id); err != nil {
		if errors.Is(err, ingest.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reprocess document"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "Document queued for reprocessing"})
}
