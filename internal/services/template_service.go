package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taxpractice/internal/models"
	"taxpractice/internal/repositories"
)

type TemplateService interface {
	Create(ctx context.Context, actor models.Actor, t *models.EmailTemplate) (*models.EmailTemplate, error)
	Update(ctx context.Context, actor models.Actor, id string, t *models.EmailTemplate) (*models.EmailTemplate, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
	GetByID(ctx context.Context, id string) (*models.EmailTemplate, error)
	List(ctx context.Context) ([]models.EmailTemplate, error)
}

type templateService struct {
	store repositories.Store
	log   *zap.Logger
}

func NewTemplateService(store repositories.Store, log *zap.Logger) TemplateService {
	return &templateService{store: store, log: log}
}

func validateTemplate(t *models.EmailTemplate) error {
	if strings.TrimSpace(t.Name) == "" {
		return models.Validationf("name is required")
	}
	if strings.TrimSpace(t.Subject) == "" {
		return models.Validationf("subject is required")
	}
	if strings.TrimSpace(t.Content) == "" {
		return models.Validationf("content is required")
	}
	return nil
}

func (s *templateService) Create(ctx context.Context, actor models.Actor, t *models.EmailTemplate) (*models.EmailTemplate, error) {
	if err := validateTemplate(t); err != nil {
		return nil, err
	}
	now := time.Now()
	t.ID = uuid.NewString()
	t.IsActive = true
	t.CreatedByID = actor.UserID
	t.CreatedAt = now
	t.UpdatedAt = now

	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Templates().Create(ctx, t); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.ActionCreate, "email_template", t.ID,
			map[string]string{"name": t.Name})
	})
	if err != nil {
		return nil, &models.StorageError{Op: "create template", Err: err}
	}
	return t, nil
}

func (s *templateService) Update(ctx context.Context, actor models.Actor, id string, t *models.EmailTemplate) (*models.EmailTemplate, error) {
	existing, err := s.store.Templates().FindByID(ctx, id)
	if err != nil {
		return nil, &models.StorageError{Op: "get template", Err: err}
	}
	if existing == nil {
		return nil, &models.NotFoundError{Resource: "email_template", ID: id}
	}

	t.ID = existing.ID
	t.CreatedByID = existing.CreatedByID
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = time.Now()
	if err := validateTemplate(t); err != nil {
		return nil, err
	}

	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Templates().Update(ctx, t); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.ActionUpdate, "email_template", id, nil)
	})
	if err != nil {
		return nil, &models.StorageError{Op: "update template", Err: err}
	}
	return t, nil
}

func (s *templateService) Delete(ctx context.Context, actor models.Actor, id string) error {
	existing, err := s.store.Templates().FindByID(ctx, id)
	if err != nil {
		return &models.StorageError{Op: "get template", Err: err}
	}
	if existing == nil {
		return &models.NotFoundError{Resource: "email_template", ID: id}
	}
	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Templates().Delete(ctx, id); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.ActionDelete, "email_template", id,
			map[string]string{"name": existing.Name})
	})
	if err != nil {
		return &models.StorageError{Op: "delete template", Err: err}
	}
	return nil
}

func (s *templateService) GetByID(ctx context.Context, id string) (*models.EmailTemplate, error) {
	t, err := s.store.Templates().FindByID(ctx, id)
	if err != nil {
		return nil, &models.StorageError{Op: "get template", Err: err}
	}
	if t == nil {
		return nil, &models.NotFoundError{Resource: "email_template", ID: id}
	}
	return t, nil
}

func (s *templateService) List(ctx context.Context) ([]models.EmailTemplate, error) {
	res, err := s.store.Templates().List(ctx)
	if err != nil {
		return nil, &models.StorageError{Op: "list templates", Err: err}
	}
	return res, nil
}
