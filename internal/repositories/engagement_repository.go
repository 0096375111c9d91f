package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"taxpractice/internal/models"
)

type EngagementRepository interface {
	Create(ctx context.Context, e *models.Engagement) error
	Update(ctx context.Context, e *models.Engagement) error
	UpdateStatus(ctx context.Context, id string, to models.EngagementStatus) error
	FindByID(ctx context.Context, id string) (*models.Engagement, error)
	List(ctx context.Context, filter models.EngagementFilter) ([]models.Engagement, error)
}

type engagementRepository struct {
	db DBTX
}

func NewEngagementRepository(db DBTX) EngagementRepository {
	return &engagementRepository{db: db}
}

const engagementColumns = `id, client_id, tax_year, type, status, due_date, fee_amount,
       assigned_to_id, created_at, updated_at`

func (r *engagementRepository) Create(ctx context.Context, e *models.Engagement) error {
	const q = `
                INSERT INTO engagements (` + engagementColumns + `)
                VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        `
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.ClientID, e.TaxYear, e.Type, e.Status, e.DueDate, e.FeeAmount,
		e.AssignedToID, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create engagement: %w", err)
	}
	return nil
}

func (r *engagementRepository) Update(ctx context.Context, e *models.Engagement) error {
	const q = `
                UPDATE engagements
                SET tax_year=$1, type=$2, status=$3, due_date=$4, fee_amount=$5,
                    assigned_to_id=$6, updated_at=$7
                WHERE id=$8
        `
	_, err := r.db.ExecContext(ctx, q,
		e.TaxYear, e.Type, e.Status, e.DueDate, e.FeeAmount,
		e.AssignedToID, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update engagement: %w", err)
	}
	return nil
}

func (r *engagementRepository) UpdateStatus(ctx context.Context, id string, to models.EngagementStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE engagements SET status=$1, updated_at=NOW() WHERE id=$2`, to, id)
	return err
}

func (r *engagementRepository) FindByID(ctx context.Context, id string) (*models.Engagement, error) {
	const q = `SELECT ` + engagementColumns + ` FROM engagements WHERE id=$1`
	var e models.Engagement
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&e.ID, &e.ClientID, &e.TaxYear, &e.Type, &e.Status, &e.DueDate, &e.FeeAmount,
		&e.AssignedToID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get engagement: %w", err)
	}
	return &e, nil
}

func (r *engagementRepository) List(ctx context.Context, filter models.EngagementFilter) ([]models.Engagement, error) {
	q := `SELECT ` + engagementColumns + ` FROM engagements`
	conditions := []string{}
	args := []any{}
	argID := 1

	if filter.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("client_id = $%d", argID))
		args = append(args, *filter.ClientID)
		argID++
	}
	if filter.TaxYear != nil {
		conditions = append(conditions, fmt.Sprintf("tax_year = $%d", argID))
		args = append(args, *filter.TaxYear)
		argID++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if len(conditions) > 0 {
		q += " WHERE " + strings.Join(conditions, " AND ")
	}
	q += " ORDER BY tax_year DESC, created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list engagements: %w", err)
	}
	defer rows.Close()

	var res []models.Engagement
	for rows.Next() {
		var e models.Engagement
		if err := rows.Scan(
			&e.ID, &e.ClientID, &e.TaxYear, &e.Type, &e.Status, &e.DueDate, &e.FeeAmount,
			&e.AssignedToID, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
