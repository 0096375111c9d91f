package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taxpractice/internal/models"
	"taxpractice/internal/observability"
	"taxpractice/internal/repositories"
)

// seedTaskDueDays is how far out the automatic document-request task is due.
const seedTaskDueDays = 7

type ReturnService interface {
	Create(ctx context.Context, actor models.Actor, t *models.TaxReturn) (*models.TaxReturn, error)
	Update(ctx context.Context, actor models.Actor, id string, t *models.TaxReturn) (*models.TaxReturn, error)
	UpdateStatus(ctx context.Context, actor models.Actor, id string, to models.ReturnStatus) (*models.TaxReturn, error)
	GetByID(ctx context.Context, id string) (*models.TaxReturn, error)
	List(ctx context.Context, filter models.ReturnFilter) ([]models.TaxReturn, error)
}

type returnService struct {
	store   repositories.Store
	log     *zap.Logger
	metrics *observability.Metrics
}

func NewReturnService(store repositories.Store, log *zap.Logger, metrics *observability.Metrics) ReturnService {
	return &returnService{store: store, log: log, metrics: metrics}
}

func validateReturn(t *models.TaxReturn) error {
	if t.ClientID == "" {
		return models.Validationf("client_id is required")
	}
	if t.TaxYear < 1990 || t.TaxYear > time.Now().Year()+1 {
		return models.Validationf("tax_year %d is out of range", t.TaxYear)
	}
	if t.Type == "" {
		return models.Validationf("type is required")
	}
	return nil
}

// Create stores the return and, when it starts in NEW, seeds a
// document-request task in the same transaction. The seeded task inherits the
// return's priority and is due seven days out.
func (s *returnService) Create(ctx context.Context, actor models.Actor, t *models.TaxReturn) (*models.TaxReturn, error) {
	if err := validateReturn(t); err != nil {
		return nil, err
	}
	client, err := s.store.Clients().FindByID(ctx, t.ClientID)
	if err != nil {
		return nil, &models.StorageError{Op: "get client", Err: err}
	}
	if client == nil {
		return nil, &models.NotFoundError{Resource: "client", ID: t.ClientID}
	}

	now := time.Now()
	t.ID = uuid.NewString()
	if t.Status == "" {
		t.Status = models.ReturnNew
	}
	if !ValidReturnStatus(t.Status) {
		return nil, models.Validationf("invalid return status %q", t.Status)
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	t.CreatedAt = now
	t.UpdatedAt = now

	var seeded *models.Task
	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Returns().Create(ctx, t); err != nil {
			return err
		}
		details := map[string]any{"client_id": t.ClientID, "tax_year": t.TaxYear, "type": t.Type}
		if t.Status == models.ReturnNew {
			due := now.AddDate(0, 0, seedTaskDueDays)
			seeded = &models.Task{
				ID:          uuid.NewString(),
				ClientID:    t.ClientID,
				TaxReturnID: &t.ID,
				Title:       "Request client documents for tax return",
				Description: fmt.Sprintf("Gather all necessary documents for %d %s return", t.TaxYear, t.Type),
				Type:        models.TaskDocumentRequest,
				Status:      models.TaskPending,
				Priority:    t.Priority,
				CreatedByID: actor.UserID,
				DueDate:     &due,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := tx.Tasks().Store(ctx, seeded); err != nil {
				return err
			}
			details["seeded_task_id"] = seeded.ID
		}
		return recordAudit(ctx, tx, actor, models.ActionCreate, "tax_return", t.ID, details)
	})
	if err != nil {
		return nil, &models.StorageError{Op: "create tax return", Err: err}
	}

	if seeded != nil {
		s.metrics.AddCascadeTasks(1)
		s.log.Info("seeded document request task",
			zap.String("tax_return_id", t.ID), zap.String("task_id", seeded.ID))
	}
	return t, nil
}

func (s *returnService) Update(ctx context.Context, actor models.Actor, id string, t *models.TaxReturn) (*models.TaxReturn, error) {
	existing, err := s.store.Returns().FindByID(ctx, id)
	if err != nil {
		return nil, &models.StorageError{Op: "get tax return", Err: err}
	}
	if existing == nil {
		return nil, &models.NotFoundError{Resource: "tax_return", ID: id}
	}

	t.ID = existing.ID
	t.ClientID = existing.ClientID
	t.Status = existing.Status
	t.CompletionDate = existing.CompletionDate
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = time.Now()
	if err := validateReturn(t); err != nil {
		return nil, err
	}

	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Returns().Update(ctx, t); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.ActionUpdate, "tax_return", t.ID, nil)
	})
	if err != nil {
		return nil, &models.StorageError{Op: "update tax return", Err: err}
	}
	return t, nil
}

// UpdateStatus enforces the return workflow. Moving to COMPLETED requires
// every task on the return to be completed; the normal route there is the
// task-completion cascade rather than a direct write.
func (s *returnService) UpdateStatus(ctx context.Context, actor models.Actor, id string, to models.ReturnStatus) (*models.TaxReturn, error) {
	existing, err := s.store.Returns().FindByID(ctx, id)
	if err != nil {
		return nil, &models.StorageError{Op: "get tax return", Err: err}
	}
	if existing == nil {
		return nil, &models.NotFoundError{Resource: "tax_return", ID: id}
	}
	if err := CheckReturnTransition(existing.Status, to); err != nil {
		return nil, err
	}

	if to == models.ReturnCompleted {
		open, err := s.store.Tasks().CountOpenByReturn(ctx, id)
		if err != nil {
			return nil, &models.StorageError{Op: "count open tasks", Err: err}
		}
		if open > 0 {
			return nil, &models.TransitionError{
				Kind: models.MissingPrecondition, Entity: "tax_return",
				From: string(existing.Status), To: string(to),
				Reason: fmt.Sprintf("%d open tasks remain", open),
			}
		}
	}

	now := time.Now()
	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if to == models.ReturnCompleted {
			if err := tx.Returns().Complete(ctx, id, now); err != nil {
				return err
			}
		} else if err := tx.Returns().UpdateStatus(ctx, id, to); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.ActionStatusChange, "tax_return", id,
			map[string]string{"from": string(existing.Status), "to": string(to)})
	})
	if err != nil {
		return nil, &models.StorageError{Op: "update tax return status", Err: err}
	}

	s.log.Info("tax return status changed",
		zap.String("tax_return_id", id),
		zap.String("from", string(existing.Status)),
		zap.String("to", string(to)))

	existing.Status = to
	existing.UpdatedAt = now
	if to == models.ReturnCompleted {
		existing.CompletionDate = &now
	}
	return existing, nil
}

func (s *returnService) GetByID(ctx context.Context, id string) (*models.TaxReturn, error) {
	t, err := s.store.Returns().FindByID(ctx, id)
	if err != nil {
		return nil, &models.StorageError{Op: "get tax return", Err: err}
	}
	if t == nil {
		return nil, &models.NotFoundError{Resource: "tax_return", ID: id}
	}
	return t, nil
}

func (s *returnService) List(ctx context.Context, filter models.ReturnFilter) ([]models.TaxReturn, error) {
	res, err := s.store.Returns().List(ctx, filter)
	if err != nil {
		return nil, &models.StorageError{Op: "list tax returns", Err: err}
	}
	return res, nil
}
