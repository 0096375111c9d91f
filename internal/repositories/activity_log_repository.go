package repositories

import (
	"context"
	"fmt"
	"strings"

	"taxpractice/internal/models"
)

type ActivityLogRepository interface {
	// Insert appends one entry. The log is append-only: there is no update
	// or delete method on purpose.
	Insert(ctx context.Context, e *models.ActivityLog) error
	// List returns entries matching the filter, newest first, joined with
	// the acting user's name, email and role. limit caps the result.
	List(ctx context.Context, filter models.ActivityLogFilter, limit int) ([]models.ActivityLog, error)
}

type activityLogRepository struct {
	db DBTX
}

func NewActivityLogRepository(db DBTX) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Insert(ctx context.Context, e *models.ActivityLog) error {
	const q = `
                INSERT INTO activity_logs
                        (id, user_id, action, resource_type, resource_id, details,
                         ip_address, user_agent, created_at)
                VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        `
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.UserID, e.Action, e.ResourceType, e.ResourceID, e.Details,
		e.IPAddress, e.UserAgent, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

func (r *activityLogRepository) List(ctx context.Context, filter models.ActivityLogFilter, limit int) ([]models.ActivityLog, error) {
	q := `
SELECT l.id, l.user_id, l.action, l.resource_type, l.resource_id, l.details,
       l.ip_address, l.user_agent, l.created_at,
       COALESCE(u.name, ''), COALESCE(u.email, ''), COALESCE(u.role, '')
FROM activity_logs l
LEFT JOIN users u ON u.id = l.user_id`

	conditions := []string{}
	args := []any{}
	argID := 1

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("l.user_id = $%d", argID))
		args = append(args, *filter.UserID)
		argID++
	}
	if filter.ResourceType != nil {
		conditions = append(conditions, fmt.Sprintf("l.resource_type = $%d", argID))
		args = append(args, *filter.ResourceType)
		argID++
	}
	if filter.ResourceID != nil {
		conditions = append(conditions, fmt.Sprintf("l.resource_id = $%d", argID))
		args = append(args, *filter.ResourceID)
		argID++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("l.created_at >= $%d", argID))
		args = append(args, *filter.StartDate)
		argID++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("l.created_at <= $%d", argID))
		args = append(args, *filter.EndDate)
		argID++
	}
	if len(conditions) > 0 {
		q += " WHERE " + strings.Join(conditions, " AND ")
	}
	q += fmt.Sprintf(" ORDER BY l.created_at DESC LIMIT $%d", argID)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()

	var res []models.ActivityLog
	for rows.Next() {
		var e models.ActivityLog
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Action, &e.ResourceType, &e.ResourceID, &e.Details,
			&e.IPAddress, &e.UserAgent, &e.CreatedAt,
			&e.UserName, &e.UserEmail, &e.UserRole,
		); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
