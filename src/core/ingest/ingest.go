package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"docman/src/core/extract"
	"docman/src/log"
	"docman/src/storage/blob"
	"docman/src/storage/postgres/chunkctrl"
	"docman/src/storage/postgres/documentctrl"
)

const sweepPageSize = 100

var (
	// ErrValidation indicates a submit request with missing required fields.
	ErrValidation = errors.New("invalid document submission")

	// ErrNotFound indicates the referenced document does not exist.
	ErrNotFound = errors.New("document not found")
)

// DocumentStore is the document record persistence the coordinator needs.
// *documentctrl.DocumentService satisfies it.
type DocumentStore interface {
	Create(ctx context.Context, doc *documentctrl.Document) (*documentctrl.Document, error)
	GetByID(ctx context.Context, id int64) (*documentctrl.Document, error)
	TransitionStatus(ctx context.Context, id int64, from, to documentctrl.DocumentStatus) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status documentctrl.DocumentStatus) error
	SetContent(ctx context.Context, id int64, content string) error
	SetKeywords(ctx context.Context, id int64, keywords []string) error
	FindByStatus(ctx context.Context, status documentctrl.DocumentStatus, limit, offset int) ([]documentctrl.Document, error)
	Delete(ctx context.Context, id int64) error
}

// ChunkStore is the chunk record persistence the coordinator needs.
// *chunkctrl.ChunkService satisfies it.
type ChunkStore interface {
	ReplaceForDocument(ctx context.Context, documentID int64, texts []string) ([]chunkctrl.Chunk, error)
	DeleteByDocumentID(ctx context.Context, documentID int64) error
}

// Publisher hands a document id to the work queue.
type Publisher interface {
	PublishDocumentID(ctx context.Context, id int64) error
}

// Indexer mirrors chunk content into an external search index. Optional;
// index maintenance failures are logged, never fatal, because retrieval
// falls back to the record store.
type Indexer interface {
	IndexChunks(ctx context.Context, documentID int64, chunks []chunkctrl.Chunk) error
	DeleteDocument(ctx context.Context, documentID int64) error
}

// Service coordinates the ingestion pipeline: blob storage and record
// creation at upload time, extraction and chunking on the consuming side.
type Service struct {
	docs      DocumentStore
	chunks    ChunkStore
	blobs     blob.Store
	extractor extract.TextExtractor
	publisher Publisher
	indexer   Indexer
	chunkSize int
}

func NewService(
	docs DocumentStore,
	chunks ChunkStore,
	blobs blob.Store,
	extractor extract.TextExtractor,
	publisher Publisher,
	indexer Indexer,
	chunkSize int,
) *Service {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	return &Service{
		docs:      docs,
		chunks:    chunks,
		blobs:     blobs,
		extractor: extractor,
		publisher: publisher,
		indexer:   indexer,
		chunkSize: chunkSize,
	}
}

// SubmitRequest carries one uploaded file and its metadata.
type SubmitRequest struct {
	Data        []byte
	FileName    string
	ContentType string
	Title       string
	Description string
	UploadedBy  int64
	Keywords    []string
}

// Submit stores the blob under a generated name, creates a PENDING document
// record and publishes its id to the work queue. Exactly one queue message
// is sent per successful upload; when publishing fails, the document is
// left PENDING for the batch sweep and the upload still succeeds.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*documentctrl.Document, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(req.FileName) == "" {
		return nil, fmt.Errorf("%w: file name is required", ErrValidation)
	}
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrValidation)
	}

	objectName := uuid.New().String() + filepath.Ext(req.FileName)
	path, err := s.blobs.Save(ctx, objectName, req.Data)
	if err != nil {
		return nil, err
	}

	doc := &documentctrl.Document{
		Title:       req.Title,
		FileName:    req.FileName,
		FileType:    req.ContentType,
		FileSize:    int64(len(req.Data)),
		FilePath:    path,
		Description: req.Description,
		UploadedBy:  req.UploadedBy,
		Keywords:    req.Keywords,
		Status:      documentctrl.StatusPending,
	}

	doc, err = s.docs.Create(ctx, doc)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.PublishDocumentID(ctx, doc.ID); err != nil {
		log.Error(err, "failed to publish document message, left for batch sweep",
			"document_id", doc.ID)
	}

	return doc, nil
}

// Process runs the consuming side of the pipeline for one document id:
// PENDING -> PROCESSING -> extract -> chunk -> keywords -> COMPLETED, or
// FAILED when the file cannot be parsed. A stale id or a duplicate delivery
// is a logged no-op. A non-nil return means transient infrastructure
// trouble; the document is then still PENDING or PROCESSING and a later
// sweep picks it up.
func (s *Service) Process(ctx context.Context, id int64) error {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if doc == nil {
		log.Info("document not found, skipping", "document_id", id)
		return nil
	}

	ok, err := s.docs.TransitionStatus(ctx, id, documentctrl.StatusPending, documentctrl.StatusProcessing)
	if err != nil {
		return err
	}
	if !ok {
		log.Info("document no longer pending, skipping", "document_id", id, "status", doc.Status)
		return nil
	}

	data, err := s.blobs.Fetch(ctx, doc.FilePath)
	if err != nil {
		log.Error(err, "failed to read stored file", "document_id", id, "path", doc.FilePath)
		return s.markFailed(ctx, id)
	}

	text, err := s.extractor.Extract(ctx, data, doc.FileType)
	if err != nil {
		log.Error(err, "text extraction failed", "document_id", id, "title", doc.Title)
		return s.markFailed(ctx, id)
	}

	if err := s.docs.SetContent(ctx, id, text); err != nil {
		return err
	}

	chunks, err := s.chunks.ReplaceForDocument(ctx, id, SplitText(text, s.chunkSize))
	if err != nil {
		// Left PROCESSING on purpose; a resweep retries the whole attempt.
		return err
	}

	if s.indexer != nil {
		if err := s.indexer.IndexChunks(ctx, id, chunks); err != nil {
			log.Error(err, "failed to index chunks", "document_id", id)
		}
	}

	if len(doc.Keywords) == 0 {
		if err := s.docs.SetKeywords(ctx, id, ExtractKeywords(text)); err != nil {
			return err
		}
	}

	if err := s.docs.UpdateStatus(ctx, id, documentctrl.StatusCompleted); err != nil {
		return err
	}

	log.Info("document processed", "document_id", id, "title", doc.Title, "chunks", len(chunks))
	return nil
}

func (s *Service) markFailed(ctx context.Context, id int64) error {
	if err := s.docs.UpdateStatus(ctx, id, documentctrl.StatusFailed); err != nil {
		return err
	}
	return nil
}

// SweepPending processes every PENDING document in pages, committing status
// per item. It is the remediation path for documents whose queue message was
// lost. onItem, when non-nil, is called after each attempt. The sweep stops
// between items when ctx is cancelled.
func (s *Service) SweepPending(ctx context.Context, onItem func(documentctrl.Document)) (int, error) {
	processed := 0
	skip := 0 // documents that failed to leave PENDING this sweep

	for {
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		page, err := s.docs.FindByStatus(ctx, documentctrl.StatusPending, sweepPageSize, skip)
		if err != nil {
			return processed, err
		}
		if len(page) == 0 {
			return processed, nil
		}

		for _, doc := range page {
			if err := ctx.Err(); err != nil {
				return processed, err
			}

			if err := s.Process(ctx, doc.ID); err != nil {
				log.Error(err, "sweep failed to process document", "document_id", doc.ID)
				// Step past the document only when it stayed PENDING; one
				// that moved to PROCESSING already left the result set and
				// bumping the offset would hide a still-pending document.
				current, getErr := s.docs.GetByID(ctx, doc.ID)
				if getErr != nil || (current != nil && current.Status == documentctrl.StatusPending) {
					skip++
				}
			}
			processed++

			if onItem != nil {
				onItem(doc)
			}
		}
	}
}

// Reprocess is the explicit backward transition: it resets the document to
// PENDING, discards nothing yet (chunks are replaced during processing), and
// re-enqueues the id.
func (s *Service) Reprocess(ctx context.Context, id int64) error {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrNotFound
	}

	if err := s.docs.UpdateStatus(ctx, id, documentctrl.StatusPending); err != nil {
		return err
	}

	if err := s.publisher.PublishDocumentID(ctx, id); err != nil {
		log.Error(err, "failed to publish reprocess message, left for batch sweep",
			"document_id", id)
	}

	return nil
}

// Delete removes the document record, its chunks, its index entries and the
// backing blob. Blob and index removal failures are logged and tolerated.
func (s *Service) Delete(ctx context.Context, id int64) error {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrNotFound
	}

	if err := s.blobs.Delete(ctx, doc.FilePath); err != nil {
		log.Error(err, "failed to delete stored file", "document_id", id, "path", doc.FilePath)
	}

	if s.indexer != nil {
		if err := s.indexer.DeleteDocument(ctx, id); err != nil {
			log.Error(err, "failed to remove document from search index", "document_id", id)
		}
	}

	if err := s.chunks.DeleteByDocumentID(ctx, id); err != nil {
		return err
	}

	return s.docs.Delete(ctx, id)
}
