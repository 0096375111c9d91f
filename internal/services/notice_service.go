package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taxpractice/internal/models"
	"taxpractice/internal/observability"
	"taxpractice/internal/repositories"
)

// NoticeAnalysisResult is returned by Analyze alongside the updated notice.
type NoticeAnalysisResult struct {
	Notice             *models.IRSNotice     `json:"notice"`
	RiskLevel          models.RiskLevel      `json:"risk_level"`
	SuggestedDocuments []models.DocumentType `json:"suggested_documents,omitempty"`
	Tasks              []models.Task         `json:"tasks"`
}

type NoticeService interface {
	Create(ctx context.Context, actor models.Actor, n *models.IRSNotice) (*models.IRSNotice, error)
	UpdateStatus(ctx context.Context, actor models.Actor, id string, to models.NoticeStatus) (*models.IRSNotice, error)
	// Analyze fills the notice's analysis fields from the type catalog and
	// spawns one response task per action item, all in one transaction.
	Analyze(ctx context.Context, actor models.Actor, id string) (*NoticeAnalysisResult, error)
	GetByID(ctx context.Context, id string) (*models.IRSNotice, error)
	List(ctx context.Context, filter models.NoticeFilter) ([]models.IRSNotice, error)
}

type noticeService struct {
	store   repositories.Store
	log     *zap.Logger
	metrics *observability.Metrics
	alerts  *AlertService
}

func NewNoticeService(store repositories.Store, log *zap.Logger, metrics *observability.Metrics, alerts *AlertService) NoticeService {
	return &noticeService{store: store, log: log, metrics: metrics, alerts: alerts}
}

func (s *noticeService) Create(ctx context.Context, actor models.Actor, n *models.IRSNotice) (*models.IRSNotice, error) {
	if n.ClientID == "" {
		return nil, models.Validationf("client_id is required")
	}
	if strings.TrimSpace(n.NoticeType) == "" {
		return nil, models.Validationf("notice_type is required")
	}
	if n.ResponseDue.IsZero() {
		return nil, models.Validationf("response_due is required")
	}
	client, err := s.store.Clients().FindByID(ctx, n.ClientID)
	if err != nil {
		return nil, &models.StorageError{Op: "get client", Err: err}
	}
	if client == nil {
		return nil, &models.NotFoundError{Resource: "client", ID: n.ClientID}
	}

	now := time.Now()
	n.ID = uuid.NewString()
	n.Status = models.NoticeReceived
	n.CreatedByID = actor.UserID
	if n.ReceivedDate.IsZero() {
		n.ReceivedDate = now
	}
	n.CreatedAt = now
	n.UpdatedAt = now

	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Notices().Create(ctx, n); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.ActionCreate, "irs_notice", n.ID,
			map[string]any{"client_id": n.ClientID, "notice_type": n.NoticeType})
	})
	if err != nil {
		return nil, &models.StorageError{Op: "create notice", Err: err}
	}
	return n, nil
}

func (s *noticeService) UpdateStatus(ctx context.Context, actor models.Actor, id string, to models.NoticeStatus) (*models.IRSNotice, error) {
	existing, err := s.store.Notices().FindByID(ctx, id)
	if err != nil {
		return nil, &models.StorageError{Op: "get notice", Err: err}
	}
	if existing == nil {
		return nil, &models.NotFoundError{Resource: "irs_notice", ID: id}
	}
	if err := CheckNoticeTransition(existing.Status, to); err != nil {
		return nil, err
	}

	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Notices().UpdateStatus(ctx, id, to); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.ActionStatusChange, "irs_notice", id,
			map[string]string{"from": string(existing.Status), "to": string(to)})
	})
	if err != nil {
		return nil, &models.StorageError{Op: "update notice status", Err: err}
	}

	existing.Status = to
	existing.UpdatedAt = time.Now()
	return existing, nil
}

func (s *noticeService) Analyze(ctx context.Context, actor models.Actor, id string) (*NoticeAnalysisResult, error) {
	notice, err := s.store.Notices().FindByID(ctx, id)
	if err != nil {
		return nil, &models.StorageError{Op: "get notice", Err: err}
	}
	if notice == nil {
		return nil, &models.NotFoundError{Resource: "irs_notice", ID: id}
	}

	analysis := analyzeNoticeType(notice.NoticeType)
	taskPriority := models.PriorityMedium
	if analysis.RiskLevel == models.RiskHigh {
		taskPriority = models.PriorityHigh
	}

	now := time.Now()
	due := now.Add(time.Duration(analysis.EstimatedMinutes) * time.Minute)
	actionItems := strings.Join(analysis.ActionItems, "\n")

	tasks := make([]models.Task, 0, len(analysis.ActionItems))
	for _, item := range analysis.ActionItems {
		d := due
		tasks = append(tasks, models.Task{
			ID:           uuid.NewString(),
			ClientID:     notice.ClientID,
			NoticeID:     &notice.ID,
			Title:        item,
			Description:  "Response work for " + notice.NoticeType + " notice",
			Type:         models.TaskNoticeResponse,
			Status:       models.TaskPending,
			Priority:     taskPriority,
			AssignedToID: notice.AssignedToID,
			CreatedByID:  actor.UserID,
			DueDate:      &d,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Notices().SaveAnalysis(ctx, id, analysis.Summary, analysis.Explanation, actionItems); err != nil {
			return err
		}
		for i := range tasks {
			if err := tx.Tasks().Store(ctx, &tasks[i]); err != nil {
				return err
			}
		}
		return recordAudit(ctx, tx, actor, models.ActionAnalyze, "irs_notice", id,
			map[string]any{
				"notice_type": notice.NoticeType,
				"risk_level":  analysis.RiskLevel,
				"tasks":       len(tasks),
			})
	})
	if err != nil {
		return nil, &models.StorageError{Op: "analyze notice", Err: err}
	}

	s.metrics.IncNoticesAnalyzed()
	s.metrics.AddCascadeTasks(len(tasks))
	s.alerts.NoticeReceived(notice, analysis.RiskLevel)
	s.log.Info("notice analyzed",
		zap.String("notice_id", id),
		zap.String("notice_type", notice.NoticeType),
		zap.String("risk_level", string(analysis.RiskLevel)),
		zap.Int("tasks_created", len(tasks)))

	notice.Summary = analysis.Summary
	notice.Explanation = analysis.Explanation
	notice.ActionItems = actionItems
	notice.UpdatedAt = now
	return &NoticeAnalysisResult{
		Notice:             notice,
		RiskLevel:          analysis.RiskLevel,
		SuggestedDocuments: analysis.SuggestedDocuments,
		Tasks:              tasks,
	}, nil
}

func (s *noticeService) GetByID(ctx context.Context, id string) (*models.IRSNotice, error) {
	n, err := s.store.Notices().FindByID(ctx, id)
	if err != nil {
		return nil, &models.StorageError{Op: "get notice", Err: err}
	}
	if n == nil {
		return nil, &models.NotFoundError{Resource: "irs_notice", ID: id}
	}
	return n, nil
}

func (s *noticeService) List(ctx context.Context, filter models.NoticeFilter) ([]models.IRSNotice, error) {
	res, err := s.store.Notices().List(ctx, filter)
	if err != nil {
		return nil, &models.StorageError{Op: "list notices", Err: err}
	}
	return res, nil
}
