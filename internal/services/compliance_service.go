package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"taxpractice/internal/models"
	"taxpractice/internal/repositories"
)

// defaultLogLimit caps interactive activity-log reads when the caller gives
// no limit. Exports carry their own much larger cap so a filter's full result
// set lands in the file.
const (
	defaultLogLimit = 500
	exportLogLimit  = 10000
)

// csvHeader is the fixed export column set. Consumers parse by position.
var csvHeader = []string{
	"Date", "Time", "User Name", "User Email", "User Role",
	"Action", "Resource Type", "Resource ID", "Details",
	"IP Address", "User Agent",
}

type ComplianceService interface {
	List(ctx context.Context, filter models.ActivityLogFilter, limit int) ([]models.ActivityLog, error)
	// ExportCSV renders matching entries as CSV, newest first, one row per
	// entry. The export itself is audited.
	ExportCSV(ctx context.Context, actor models.Actor, filter models.ActivityLogFilter) (string, error)
}

type complianceService struct {
	store repositories.Store
	log   *zap.Logger
}

func NewComplianceService(store repositories.Store, log *zap.Logger) ComplianceService {
	return &complianceService{store: store, log: log}
}

func (s *complianceService) List(ctx context.Context, filter models.ActivityLogFilter, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 || limit > 1000 {
		limit = defaultLogLimit
	}
	res, err := s.store.ActivityLogs().List(ctx, filter, limit)
	if err != nil {
		return nil, &models.StorageError{Op: "list activity logs", Err: err}
	}
	return res, nil
}

// csvField quotes a value when it contains a comma, quote or newline.
func csvField(v string) string {
	if strings.ContainsAny(v, ",\"\n") {
		return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	return v
}

func renderCSV(entries []models.ActivityLog) string {
	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))
	b.WriteString("\n")
	for _, e := range entries {
		row := []string{
			e.CreatedAt.Format("2006-01-02"),
			e.CreatedAt.Format("15:04:05"),
			csvField(e.UserName),
			csvField(e.UserEmail),
			csvField(e.UserRole),
			string(e.Action),
			e.ResourceType,
			e.ResourceID,
			csvField(e.Details),
			e.IPAddress,
			csvField(e.UserAgent),
		}
		b.WriteString(strings.Join(row, ","))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *complianceService) ExportCSV(ctx context.Context, actor models.Actor, filter models.ActivityLogFilter) (string, error) {
	entries, err := s.store.ActivityLogs().List(ctx, filter, exportLogLimit)
	if err != nil {
		return "", &models.StorageError{Op: "list activity logs", Err: err}
	}

	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		return recordAudit(ctx, tx, actor, models.ActionExport, "activity_log", "",
			map[string]int{"entries": len(entries)})
	})
	if err != nil {
		return "", &models.StorageError{Op: "audit export", Err: err}
	}

	s.log.Info("activity log exported",
		zap.String("user_id", actor.UserID), zap.Int("entries", len(entries)))
	return renderCSV(entries), nil
}
