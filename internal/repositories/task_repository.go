package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"taxpractice/internal/models"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id string) (*models.Task, error)
	FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
	// UpdateStatus writes the status and the completed_at stamp together so
	// the "completed_at iff COMPLETED" invariant holds in one statement.
	UpdateStatus(ctx context.Context, id string, to models.TaskStatus, completedAt *time.Time) error
	// CountOpenByReturn counts tasks on a return with status != COMPLETED.
	CountOpenByReturn(ctx context.Context, taxReturnID string) (int, error)
	CountOpen(ctx context.Context) (int, error)
}

type taskRepository struct {
	db DBTX
}

func NewTaskRepository(db DBTX) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, client_id, tax_return_id, engagement_id, notice_id, title, description,
       type, status, priority, assigned_to_id, created_by_id, due_date, completed_at,
       created_at, updated_at`

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	const q = `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`
	_, err := r.db.ExecContext(ctx, q,
		task.ID, task.ClientID, task.TaxReturnID, task.EngagementID, task.NoticeID,
		task.Title, task.Description, task.Type, task.Status, task.Priority,
		task.AssignedToID, task.CreatedByID, task.DueDate, task.CompletedAt,
		task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("store task: %w", err)
	}
	return nil
}

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.ID, &t.ClientID, &t.TaxReturnID, &t.EngagementID, &t.NoticeID,
		&t.Title, &t.Description, &t.Type, &t.Status, &t.Priority,
		&t.AssignedToID, &t.CreatedByID, &t.DueDate, &t.CompletedAt,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	t, err := scanTask(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (r *taskRepository) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks`
	conditions := []string{}
	args := []any{}
	argID := 1

	if filter.AssignedToID != nil {
		conditions = append(conditions, fmt.Sprintf("assigned_to_id = $%d", argID))
		args = append(args, *filter.AssignedToID)
		argID++
	}
	if filter.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("client_id = $%d", argID))
		args = append(args, *filter.ClientID)
		argID++
	}
	if filter.TaxReturnID != nil {
		conditions = append(conditions, fmt.Sprintf("tax_return_id = $%d", argID))
		args = append(args, *filter.TaxReturnID)
		argID++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.Priority != nil {
		conditions = append(conditions, fmt.Sprintf("priority = $%d", argID))
		args = append(args, *filter.Priority)
		argID++
	}
	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argID))
		args = append(args, *filter.Type)
		argID++
	}
	if len(conditions) > 0 {
		q += " WHERE " + strings.Join(conditions, " AND ")
	}
	q += ` ORDER BY
        CASE priority WHEN 'URGENT' THEN 0 WHEN 'HIGH' THEN 1 WHEN 'MEDIUM' THEN 2 ELSE 3 END,
        due_date ASC NULLS LAST, created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	const q = `
		UPDATE tasks SET
			title=$1, description=$2, type=$3, status=$4, priority=$5,
			assigned_to_id=$6, due_date=$7, completed_at=$8, updated_at=$9
		WHERE id=$10`
	_, err := r.db.ExecContext(ctx, q,
		task.Title, task.Description, task.Type, task.Status, task.Priority,
		task.AssignedToID, task.DueDate, task.CompletedAt, task.UpdatedAt, task.ID,
	)
	return err
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id string, to models.TaskStatus, completedAt *time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status=$1, completed_at=$2, updated_at=NOW() WHERE id=$3`,
		to, completedAt, id)
	return err
}

func (r *taskRepository) CountOpenByReturn(ctx context.Context, taxReturnID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE tax_return_id=$1 AND status <> $2`,
		taxReturnID, models.TaskCompleted).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count open tasks: %w", err)
	}
	return n, nil
}

func (r *taskRepository) CountOpen(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE status NOT IN ($1, $2)`,
		models.TaskCompleted, models.TaskCancelled).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}
