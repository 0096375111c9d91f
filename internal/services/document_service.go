package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taxpractice/internal/models"
	"taxpractice/internal/repositories"
)

// maxUploadSize caps document uploads at 25 MB.
const maxUploadSize = 25 << 20

// DocumentUpload carries the metadata and content of one uploaded file.
type DocumentUpload struct {
	OriginalName string
	Type         models.DocumentType
	TaxYear      *int
	ClientID     *string
	EngagementID *string
	MimeType     string
	Size         int64
	Content      io.Reader
}

type DocumentService interface {
	Upload(ctx context.Context, actor models.Actor, up DocumentUpload) (*models.Document, error)
	GetByID(ctx context.Context, id string) (*models.Document, error)
	List(ctx context.Context, filter models.DocumentFilter, page, limit int) (*models.DocumentPage, error)
	Verify(ctx context.Context, actor models.Actor, id string) (*models.Document, error)
}

type documentService struct {
	store     repositories.Store
	filesRoot string
	log       *zap.Logger
}

func NewDocumentService(store repositories.Store, filesRoot string, log *zap.Logger) DocumentService {
	return &documentService{store: store, filesRoot: filesRoot, log: log}
}

// Upload stores the file on disk under a generated name and records its
// metadata. The category is derived from the document type.
func (s *documentService) Upload(ctx context.Context, actor models.Actor, up DocumentUpload) (*models.Document, error) {
	if up.OriginalName == "" {
		return nil, models.Validationf("file name is required")
	}
	if up.Size <= 0 || up.Size > maxUploadSize {
		return nil, models.Validationf("file size must be between 1 byte and %d bytes", maxUploadSize)
	}
	if up.ClientID == nil && up.EngagementID == nil {
		return nil, models.Validationf("client_id or engagement_id is required")
	}
	if up.ClientID != nil {
		client, err := s.store.Clients().FindByID(ctx, *up.ClientID)
		if err != nil {
			return nil, &models.StorageError{Op: "get client", Err: err}
		}
		if client == nil {
			return nil, &models.NotFoundError{Resource: "client", ID: *up.ClientID}
		}
	}
	if up.Type == "" {
		up.Type = models.DocOther
	}

	now := time.Now()
	id := uuid.NewString()
	name := fmt.Sprintf("%d-%s%s", now.UnixMilli(), id[:8], strings.ToLower(filepath.Ext(up.OriginalName)))
	dest := filepath.Join(s.filesRoot, name)

	if err := os.MkdirAll(s.filesRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create files dir: %w", err)
	}
	f, err := os.Create(dest)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	written, err := io.Copy(f, io.LimitReader(up.Content, maxUploadSize))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dest)
		return nil, fmt.Errorf("write file: %w", err)
	}

	doc := &models.Document{
		ID:           id,
		Name:         name,
		OriginalName: up.OriginalName,
		Type:         up.Type,
		Category:     models.ClassifyDocument(up.Type),
		TaxYear:      up.TaxYear,
		UploadedByID: actor.UserID,
		ClientID:     up.ClientID,
		EngagementID: up.EngagementID,
		FileURL:      dest,
		FileSize:     written,
		MimeType:     up.MimeType,
		Version:      1,
		CreatedAt:    now,
	}

	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Documents().Create(ctx, doc); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.ActionCreate, "document", doc.ID,
			map[string]any{"name": doc.OriginalName, "type": doc.Type, "category": doc.Category})
	})
	if err != nil {
		os.Remove(dest)
		return nil, &models.StorageError{Op: "create document", Err: err}
	}

	s.log.Info("document uploaded",
		zap.String("document_id", doc.ID),
		zap.String("type", string(doc.Type)),
		zap.String("category", string(doc.Category)),
		zap.Int64("size", written))
	return doc, nil
}

func (s *documentService) GetByID(ctx context.Context, id string) (*models.Document, error) {
	d, err := s.store.Documents().FindByID(ctx, id)
	if err != nil {
		return nil, &models.StorageError{Op: "get document", Err: err}
	}
	if d == nil {
		return nil, &models.NotFoundError{Resource: "document", ID: id}
	}
	return d, nil
}

func (s *documentService) List(ctx context.Context, filter models.DocumentFilter, page, limit int) (*models.DocumentPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	docs, err := s.store.Documents().List(ctx, filter, limit, offset)
	if err != nil {
		return nil, &models.StorageError{Op: "list documents", Err: err}
	}
	total, err := s.store.Documents().Count(ctx, filter)
	if err != nil {
		return nil, &models.StorageError{Op: "count documents", Err: err}
	}
	pages := (total + limit - 1) / limit

	return &models.DocumentPage{
		Documents:  docs,
		Pagination: models.Pagination{Page: page, Limit: limit, Total: total, Pages: pages},
	}, nil
}

func (s *documentService) Verify(ctx context.Context, actor models.Actor, id string) (*models.Document, error) {
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.IsVerified {
		return d, nil
	}
	d.IsVerified = true

	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Documents().SetVerified(ctx, id, true); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.ActionUpdate, "document", id,
			map[string]string{"verified": "true"})
	})
	if err != nil {
		return nil, &models.StorageError{Op: "verify document", Err: err}
	}
	return d, nil
}
