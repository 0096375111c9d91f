package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"taxpractice/internal/models"
)

type TaxReturnRepository interface {
	Create(ctx context.Context, t *models.TaxReturn) error
	Update(ctx context.Context, t *models.TaxReturn) error
	UpdateStatus(ctx context.Context, id string, to models.ReturnStatus) error
	// Complete sets status COMPLETED and stamps the completion date.
	Complete(ctx context.Context, id string, at time.Time) error
	FindByID(ctx context.Context, id string) (*models.TaxReturn, error)
	List(ctx context.Context, filter models.ReturnFilter) ([]models.TaxReturn, error)
	CountByStatus(ctx context.Context) (map[models.ReturnStatus]int, error)
}

type taxReturnRepository struct {
	db DBTX
}

func NewTaxReturnRepository(db DBTX) TaxReturnRepository {
	return &taxReturnRepository{db: db}
}

const returnColumns = `id, client_id, engagement_id, tax_year, type, status, priority,
       assigned_to_id, reviewer_id, federal_result, state_result, notes,
       filed_date, completion_date, created_at, updated_at`

func (r *taxReturnRepository) Create(ctx context.Context, t *models.TaxReturn) error {
	const q = `
                INSERT INTO tax_returns (` + returnColumns + `)
                VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
        `
	_, err := r.db.ExecContext(ctx, q,
		t.ID, t.ClientID, t.EngagementID, t.TaxYear, t.Type, t.Status, t.Priority,
		t.AssignedToID, t.ReviewerID, t.FederalResult, t.StateResult, t.Notes,
		t.FiledDate, t.CompletionDate, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create tax return: %w", err)
	}
	return nil
}

func (r *taxReturnRepository) Update(ctx context.Context, t *models.TaxReturn) error {
	const q = `
                UPDATE tax_returns
                SET tax_year=$1, type=$2, status=$3, priority=$4, assigned_to_id=$5,
                    reviewer_id=$6, federal_result=$7, state_result=$8, notes=$9,
                    filed_date=$10, completion_date=$11, updated_at=$12
                WHERE id=$13
        `
	_, err := r.db.ExecContext(ctx, q,
		t.TaxYear, t.Type, t.Status, t.Priority, t.AssignedToID,
		t.ReviewerID, t.FederalResult, t.StateResult, t.Notes,
		t.FiledDate, t.CompletionDate, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update tax return: %w", err)
	}
	return nil
}

func (r *taxReturnRepository) UpdateStatus(ctx context.Context, id string, to models.ReturnStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tax_returns SET status=$1, updated_at=NOW() WHERE id=$2`, to, id)
	return err
}

func (r *taxReturnRepository) Complete(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tax_returns SET status=$1, completion_date=$2, updated_at=NOW() WHERE id=$3`,
		models.ReturnCompleted, at, id)
	return err
}

func scanReturn(row interface{ Scan(...any) error }) (*models.TaxReturn, error) {
	var t models.TaxReturn
	err := row.Scan(
		&t.ID, &t.ClientID, &t.EngagementID, &t.TaxYear, &t.Type, &t.Status, &t.Priority,
		&t.AssignedToID, &t.ReviewerID, &t.FederalResult, &t.StateResult, &t.Notes,
		&t.FiledDate, &t.CompletionDate, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taxReturnRepository) FindByID(ctx context.Context, id string) (*models.TaxReturn, error) {
	const q = `SELECT ` + returnColumns + ` FROM tax_returns WHERE id=$1`
	t, err := scanReturn(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tax return: %w", err)
	}
	return t, nil
}

func (r *taxReturnRepository) List(ctx context.Context, filter models.ReturnFilter) ([]models.TaxReturn, error) {
	q := `SELECT ` + returnColumns + ` FROM tax_returns`
	conditions := []string{}
	args := []any{}
	argID := 1

	if filter.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("client_id = $%d", argID))
		args = append(args, *filter.ClientID)
		argID++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.AssignedToID != nil {
		conditions = append(conditions, fmt.Sprintf("assigned_to_id = $%d", argID))
		args = append(args, *filter.AssignedToID)
		argID++
	}
	if filter.TaxYear != nil {
		conditions = append(conditions, fmt.Sprintf("tax_year = $%d", argID))
		args = append(args, *filter.TaxYear)
		argID++
	}
	if len(conditions) > 0 {
		q += " WHERE " + strings.Join(conditions, " AND ")
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list tax returns: %w", err)
	}
	defer rows.Close()

	var res []models.TaxReturn
	for rows.Next() {
		t, err := scanReturn(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *t)
	}
	return res, rows.Err()
}

func (r *taxReturnRepository) CountByStatus(ctx context.Context) (map[models.ReturnStatus]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM tax_returns GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count returns by status: %w", err)
	}
	defer rows.Close()

	res := map[models.ReturnStatus]int{}
	for rows.Next() {
		var s models.ReturnStatus
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		res[s] = n
	}
	return res, rows.Err()
}
