package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taxpractice/internal/models"
	"taxpractice/internal/repositories"
)

type TaskService interface {
	Create(ctx context.Context, actor models.Actor, t *models.Task) (*models.Task, error)
	Update(ctx context.Context, actor models.Actor, id string, t *models.Task) (*models.Task, error)
	UpdateStatus(ctx context.Context, actor models.Actor, id string, to models.TaskStatus) (*models.Task, error)
	// Reopen moves a COMPLETED task back to PENDING and clears its
	// completion stamp. This is the only way out of COMPLETED.
	Reopen(ctx context.Context, actor models.Actor, id string) (*models.Task, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
	GetByID(ctx context.Context, id string) (*models.Task, error)
	List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
}

type taskService struct {
	store  repositories.Store
	log    *zap.Logger
	alerts *AlertService
}

func NewTaskService(store repositories.Store, log *zap.Logger, alerts *AlertService) TaskService {
	return &taskService{store: store, log: log, alerts: alerts}
}

func validateTask(t *models.Task) error {
	if t.ClientID == "" {
		return models.Validationf("client_id is required")
	}
	if t.Title == "" {
		return models.Validationf("title is required")
	}
	switch t.Type {
	case models.TaskDocumentRequest, models.TaskNoticeResponse, models.TaskPreparation,
		models.TaskReviewWork, models.TaskFiling, models.TaskOther:
	default:
		return models.Validationf("invalid task type %q", t.Type)
	}
	return nil
}

func (s *taskService) Create(ctx context.Context, actor models.Actor, t *models.Task) (*models.Task, error) {
	if t.Type == "" {
		t.Type = models.TaskOther
	}
	if err := validateTask(t); err != nil {
		return nil, err
	}
	if t.TaxReturnID != nil {
		ret, err := s.store.Returns().FindByID(ctx, *t.TaxReturnID)
		if err != nil {
			return nil, &models.StorageError{Op: "get tax return", Err: err}
		}
		if ret == nil {
			return nil, &models.NotFoundError{Resource: "tax_return", ID: *t.TaxReturnID}
		}
	}

	now := time.Now()
	t.ID = uuid.NewString()
	t.Status = models.TaskPending
	t.CompletedAt = nil
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	t.CreatedByID = actor.UserID
	t.CreatedAt = now
	t.UpdatedAt = now

	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Tasks().Store(ctx, t); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.ActionCreate, "task", t.ID,
			map[string]any{"title": t.Title, "type": t.Type})
	})
	if err != nil {
		return nil, &models.StorageError{Op: "create task", Err: err}
	}

	s.alerts.UrgentTask(t)
	return t, nil
}

func (s *taskService) Update(ctx context.Context, actor models.Actor, id string, t *models.Task) (*models.Task, error) {
	existing, err := s.store.Tasks().FindByID(ctx, id)
	if err != nil {
		return nil, &models.StorageError{Op: "get task", Err: err}
	}
	if existing == nil {
		return nil, &models.NotFoundError{Resource: "task", ID: id}
	}

	t.ID = existing.ID
	t.ClientID = existing.ClientID
	t.TaxReturnID = existing.TaxReturnID
	t.EngagementID = existing.EngagementID
	t.NoticeID = existing.NoticeID
	t.Status = existing.Status
	t.CompletedAt = existing.CompletedAt
	t.CreatedByID = existing.CreatedByID
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = time.Now()
	if err := validateTask(t); err != nil {
		return nil, err
	}

	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Tasks().Update(ctx, t); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.ActionUpdate, "task", t.ID, nil)
	})
	if err != nil {
		return nil, &models.StorageError{Op: "update task", Err: err}
	}

	if existing.Priority != models.PriorityUrgent {
		s.alerts.UrgentTask(t)
	}
	return t, nil
}

// UpdateStatus enforces the task workflow and runs the completion cascade:
// when the last open task on a tax return completes, the return itself moves
// to COMPLETED with a completion date, in the same transaction.
func (s *taskService) UpdateStatus(ctx context.Context, actor models.Actor, id string, to models.TaskStatus) (*models.Task, error) {
	existing, err := s.store.Tasks().FindByID(ctx, id)
	if err != nil {
		return nil, &models.StorageError{Op: "get task", Err: err}
	}
	if existing == nil {
		return nil, &models.NotFoundError{Resource: "task", ID: id}
	}
	if err := CheckTaskTransition(existing.Status, to); err != nil {
		return nil, err
	}

	now := time.Now()
	var completedAt *time.Time
	if to == models.TaskCompleted {
		completedAt = &now
	}

	var completedReturn *models.TaxReturn
	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Tasks().UpdateStatus(ctx, id, to, completedAt); err != nil {
			return err
		}
		details := map[string]any{"from": string(existing.Status), "to": string(to)}

		if to == models.TaskCompleted && existing.TaxReturnID != nil {
			open, err := tx.Tasks().CountOpenByReturn(ctx, *existing.TaxReturnID)
			if err != nil {
				return err
			}
			if open == 0 {
				ret, err := tx.Returns().FindByID(ctx, *existing.TaxReturnID)
				if err != nil {
					return err
				}
				if ret != nil && ret.Status != models.ReturnCompleted {
					if err := tx.Returns().Complete(ctx, ret.ID, now); err != nil {
						return err
					}
					completedReturn = ret
					details["completed_tax_return_id"] = ret.ID
				}
			}
		}
		return recordAudit(ctx, tx, actor, models.ActionStatusChange, "task", id, details)
	})
	if err != nil {
		return nil, &models.StorageError{Op: "update task status", Err: err}
	}

	if completedReturn != nil {
		s.log.Info("last task completed, return marked completed",
			zap.String("task_id", id), zap.String("tax_return_id", completedReturn.ID))
		s.alerts.ReturnCompleted(completedReturn)
	}

	existing.Status = to
	existing.CompletedAt = completedAt
	existing.UpdatedAt = now
	return existing, nil
}

func (s *taskService) Reopen(ctx context.Context, actor models.Actor, id string) (*models.Task, error) {
	existing, err := s.store.Tasks().FindByID(ctx, id)
	if err != nil {
		return nil, &models.StorageError{Op: "get task", Err: err}
	}
	if existing == nil {
		return nil, &models.NotFoundError{Resource: "task", ID: id}
	}
	if existing.Status != models.TaskCompleted {
		return nil, &models.TransitionError{
			Kind: models.IllegalTransition, Entity: "task",
			From: string(existing.Status), To: string(models.TaskPending),
			Reason: "only completed tasks can be reopened",
		}
	}

	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Tasks().UpdateStatus(ctx, id, models.TaskPending, nil); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.ActionStatusChange, "task", id,
			map[string]string{"from": string(models.TaskCompleted), "to": string(models.TaskPending), "reopened": "true"})
	})
	if err != nil {
		return nil, &models.StorageError{Op: "reopen task", Err: err}
	}

	existing.Status = models.TaskPending
	existing.CompletedAt = nil
	existing.UpdatedAt = time.Now()
	return existing, nil
}

func (s *taskService) Delete(ctx context.Context, actor models.Actor, id string) error {
	existing, err := s.store.Tasks().FindByID(ctx, id)
	if err != nil {
		return &models.StorageError{Op: "get task", Err: err}
	}
	if existing == nil {
		return &models.NotFoundError{Resource: "task", ID: id}
	}
	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Tasks().Delete(ctx, id); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.ActionDelete, "task", id,
			map[string]string{"title": existing.Title})
	})
	if err != nil {
		return &models.StorageError{Op: "delete task", Err: err}
	}
	return nil
}

func (s *taskService) GetByID(ctx context.Context, id string) (*models.Task, error) {
	t, err := s.store.Tasks().FindByID(ctx, id)
	if err != nil {
		return nil, &models.StorageError{Op: "get task", Err: err}
	}
	if t == nil {
		return nil, &models.NotFoundError{Resource: "task", ID: id}
	}
	return t, nil
}

func (s *taskService) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	res, err := s.store.Tasks().FindAll(ctx, filter)
	if err != nil {
		return nil, &models.StorageError{Op: "list tasks", Err: err}
	}
	return res, nil
}
