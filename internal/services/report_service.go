package services

import (
	"context"

	"go.uber.org/zap"

	"taxpractice/internal/models"
	"taxpractice/internal/repositories"
)

// DashboardStats is the practice-wide summary for the dashboard view.
type DashboardStats struct {
	TotalClients    int                         `json:"total_clients"`
	ReturnsByStatus map[models.ReturnStatus]int `json:"returns_by_status"`
	OpenTasks       int                         `json:"open_tasks"`
	NoticesDueSoon  int                         `json:"notices_due_soon"`
}

type ReportService interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
}

type reportService struct {
	store repositories.Store
	log   *zap.Logger
}

func NewReportService(store repositories.Store, log *zap.Logger) ReportService {
	return &reportService{store: store, log: log}
}

func (s *reportService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	var err error

	if stats.TotalClients, err = s.store.Clients().Count(ctx); err != nil {
		return nil, &models.StorageError{Op: "count clients", Err: err}
	}
	if stats.ReturnsByStatus, err = s.store.Returns().CountByStatus(ctx); err != nil {
		return nil, &models.StorageError{Op: "count returns", Err: err}
	}
	if stats.OpenTasks, err = s.store.Tasks().CountOpen(ctx); err != nil {
		return nil, &models.StorageError{Op: "count tasks", Err: err}
	}
	if stats.NoticesDueSoon, err = s.store.Notices().CountDueWithinDays(ctx, 14); err != nil {
		return nil, &models.StorageError{Op: "count notices", Err: err}
	}
	return stats, nil
}
