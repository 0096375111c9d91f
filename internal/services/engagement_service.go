package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taxpractice/internal/models"
	"taxpractice/internal/repositories"
)

type EngagementService interface {
	Create(ctx context.Context, actor models.Actor, e *models.Engagement) (*models.Engagement, error)
	Update(ctx context.Context, actor models.Actor, id string, e *models.Engagement) (*models.Engagement, error)
	UpdateStatus(ctx context.Context, actor models.Actor, id string, to models.EngagementStatus) (*models.Engagement, error)
	GetByID(ctx context.Context, id string) (*models.Engagement, error)
	List(ctx context.Context, filter models.EngagementFilter) ([]models.Engagement, error)
}

type engagementService struct {
	store repositories.Store
	log   *zap.Logger
}

func NewEngagementService(store repositories.Store, log *zap.Logger) EngagementService {
	return &engagementService{store: store, log: log}
}

func validateEngagement(e *models.Engagement) error {
	if e.ClientID == "" {
		return models.Validationf("client_id is required")
	}
	if e.TaxYear < 1990 || e.TaxYear > time.Now().Year()+1 {
		return models.Validationf("tax_year %d is out of range", e.TaxYear)
	}
	if e.Type == "" {
		return models.Validationf("type is required")
	}
	if e.FeeAmount < 0 {
		return models.Validationf("fee_amount cannot be negative")
	}
	return nil
}

func (s *engagementService) Create(ctx context.Context, actor models.Actor, e *models.Engagement) (*models.Engagement, error) {
	if err := validateEngagement(e); err != nil {
		return nil, err
	}
	client, err := s.store.Clients().FindByID(ctx, e.ClientID)
	if err != nil {
		return nil, &models.StorageError{Op: "get client", Err: err}
	}
	if client == nil {
		return nil, &models.NotFoundError{Resource: "client", ID: e.ClientID}
	}

	now := time.Now()
	e.ID = uuid.NewString()
	e.Status = models.EngagementNew
	e.CreatedAt = now
	e.UpdatedAt = now

	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Engagements().Create(ctx, e); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.ActionCreate, "engagement", e.ID,
			map[string]any{"client_id": e.ClientID, "tax_year": e.TaxYear, "type": e.Type})
	})
	if err != nil {
		return nil, &models.StorageError{Op: "create engagement", Err: err}
	}
	return e, nil
}

func (s *engagementService) Update(ctx context.Context, actor models.Actor, id string, e *models.Engagement) (*models.Engagement, error) {
	existing, err := s.store.Engagements().FindByID(ctx, id)
	if err != nil {
		return nil, &models.StorageError{Op: "get engagement", Err: err}
	}
	if existing == nil {
		return nil, &models.NotFoundError{Resource: "engagement", ID: id}
	}

	// Status changes go through UpdateStatus, never a plain update.
	e.ID = existing.ID
	e.ClientID = existing.ClientID
	e.Status = existing.Status
	e.CreatedAt = existing.CreatedAt
	e.UpdatedAt = time.Now()
	if err := validateEngagement(e); err != nil {
		return nil, err
	}

	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Engagements().Update(ctx, e); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.ActionUpdate, "engagement", e.ID, nil)
	})
	if err != nil {
		return nil, &models.StorageError{Op: "update engagement", Err: err}
	}
	return e, nil
}

func (s *engagementService) UpdateStatus(ctx context.Context, actor models.Actor, id string, to models.EngagementStatus) (*models.Engagement, error) {
	existing, err := s.store.Engagements().FindByID(ctx, id)
	if err != nil {
		return nil, &models.StorageError{Op: "get engagement", Err: err}
	}
	if existing == nil {
		return nil, &models.NotFoundError{Resource: "engagement", ID: id}
	}
	if err := CheckEngagementTransition(existing.Status, to); err != nil {
		return nil, err
	}

	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Engagements().UpdateStatus(ctx, id, to); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.ActionStatusChange, "engagement", id,
			map[string]string{"from": string(existing.Status), "to": string(to)})
	})
	if err != nil {
		return nil, &models.StorageError{Op: "update engagement status", Err: err}
	}

	s.log.Info("engagement status changed",
		zap.String("engagement_id", id),
		zap.String("from", string(existing.Status)),
		zap.String("to", string(to)))

	existing.Status = to
	existing.UpdatedAt = time.Now()
	return existing, nil
}

func (s *engagementService) GetByID(ctx context.Context, id string) (*models.Engagement, error) {
	e, err := s.store.Engagements().FindByID(ctx, id)
	if err != nil {
		return nil, &models.StorageError{Op: "get engagement", Err: err}
	}
	if e == nil {
		return nil, &models.NotFoundError{Resource: "engagement", ID: id}
	}
	return e, nil
}

func (s *engagementService) List(ctx context.Context, filter models.EngagementFilter) ([]models.Engagement, error) {
	res, err := s.store.Engagements().List(ctx, filter)
	if err != nil {
		return nil, &models.StorageError{Op: "list engagements", Err: err}
	}
	return res, nil
}
