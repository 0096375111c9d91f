package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"taxpractice/internal/models"
)

type NoticeRepository interface {
	Create(ctx context.Context, n *models.IRSNotice) error
	FindByID(ctx context.Context, id string) (*models.IRSNotice, error)
	List(ctx context.Context, filter models.NoticeFilter) ([]models.IRSNotice, error)
	UpdateStatus(ctx context.Context, id string, to models.NoticeStatus) error
	// SaveAnalysis writes the analysis fields produced by the analyze cascade.
	SaveAnalysis(ctx context.Context, id, summary, explanation, actionItems string) error
	CountDueWithinDays(ctx context.Context, days int) (int, error)
}

type noticeRepository struct {
	db DBTX
}

func NewNoticeRepository(db DBTX) NoticeRepository {
	return &noticeRepository{db: db}
}

const noticeColumns = `id, client_id, notice_type, notice_number, status, received_date, response_due,
       assigned_to_id, created_by_id, document_url, summary, explanation, action_items,
       created_at, updated_at`

func (r *noticeRepository) Create(ctx context.Context, n *models.IRSNotice) error {
	const q = `
                INSERT INTO irs_notices (` + noticeColumns + `)
                VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        `
	_, err := r.db.ExecContext(ctx, q,
		n.ID, n.ClientID, n.NoticeType, n.NoticeNumber, n.Status, n.ReceivedDate, n.ResponseDue,
		n.AssignedToID, n.CreatedByID, n.DocumentURL, n.Summary, n.Explanation, n.ActionItems,
		n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create notice: %w", err)
	}
	return nil
}

func scanNotice(row interface{ Scan(...any) error }) (*models.IRSNotice, error) {
	var n models.IRSNotice
	err := row.Scan(
		&n.ID, &n.ClientID, &n.NoticeType, &n.NoticeNumber, &n.Status, &n.ReceivedDate, &n.ResponseDue,
		&n.AssignedToID, &n.CreatedByID, &n.DocumentURL, &n.Summary, &n.Explanation, &n.ActionItems,
		&n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *noticeRepository) FindByID(ctx context.Context, id string) (*models.IRSNotice, error) {
	const q = `SELECT ` + noticeColumns + ` FROM irs_notices WHERE id=$1`
	n, err := scanNotice(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get notice: %w", err)
	}
	return n, nil
}

func (r *noticeRepository) List(ctx context.Context, filter models.NoticeFilter) ([]models.IRSNotice, error) {
	q := `SELECT ` + noticeColumns + ` FROM irs_notices`
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
	if len(conditions) > 0 {
		q += " WHERE " + strings.Join(conditions, " AND ")
	}
	q += " ORDER BY received_date DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list notices: %w", err)
	}
	defer rows.Close()

	var res []models.IRSNotice
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *n)
	}
	return res, rows.Err()
}

func (r *noticeRepository) UpdateStatus(ctx context.Context, id string, to models.NoticeStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE irs_notices SET status=$1, updated_at=NOW() WHERE id=$2`, to, id)
	return err
}

func (r *noticeRepository) SaveAnalysis(ctx context.Context, id, summary, explanation, actionItems string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE irs_notices SET summary=$1, explanation=$2, action_items=$3, updated_at=NOW() WHERE id=$4`,
		summary, explanation, actionItems, id)
	return err
}

func (r *noticeRepository) CountDueWithinDays(ctx context.Context, days int) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM irs_notices
         WHERE status NOT IN ($1, $2)
           AND response_due <= NOW() + ($3 || ' days')::interval`,
		models.NoticeClosed, models.NoticeSent, fmt.Sprint(days)).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}
