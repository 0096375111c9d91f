package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"taxpractice/internal/models"
)

type DocumentRepository interface {
	Create(ctx context.Context, d *models.Document) error
	FindByID(ctx context.Context, id string) (*models.Document, error)
	List(ctx context.Context, filter models.DocumentFilter, limit, offset int) ([]models.Document, error)
	Count(ctx context.Context, filter models.DocumentFilter) (int, error)
	SetVerified(ctx context.Context, id string, verified bool) error
}

type documentRepository struct {
	db DBTX
}

func NewDocumentRepository(db DBTX) DocumentRepository {
	return &documentRepository{db: db}
}

const documentColumns = `id, name, original_name, type, category, tax_year, uploaded_by_id,
       client_id, engagement_id, file_url, file_size, mime_type, is_verified, version, created_at`

func (r *documentRepository) Create(ctx context.Context, d *models.Document) error {
	const q = `
                INSERT INTO documents (` + documentColumns + `)
                VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        `
	_, err := r.db.ExecContext(ctx, q,
		d.ID, d.Name, d.OriginalName, d.Type, d.Category, d.TaxYear, d.UploadedByID,
		d.ClientID, d.EngagementID, d.FileURL, d.FileSize, d.MimeType, d.IsVerified, d.Version, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (r *documentRepository) FindByID(ctx context.Context, id string) (*models.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id=$1`
	var d models.Document
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.Name, &d.OriginalName, &d.Type, &d.Category, &d.TaxYear, &d.UploadedByID,
		&d.ClientID, &d.EngagementID, &d.FileURL, &d.FileSize, &d.MimeType, &d.IsVerified, &d.Version, &d.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &d, nil
}

func documentConditions(filter models.DocumentFilter) ([]string, []any) {
	conditions := []string{}
	args := []any{}
	argID := 1

	add := func(cond string, v any) {
		conditions = append(conditions, fmt.Sprintf(cond, argID))
		args = append(args, v)
		argID++
	}

	if filter.ClientID != nil {
		add("client_id = $%d", *filter.ClientID)
	}
	if filter.EngagementID != nil {
		add("engagement_id = $%d", *filter.EngagementID)
	}
	if filter.Type != nil {
		add("type = $%d", *filter.Type)
	}
	if filter.Category != nil {
		add("category = $%d", *filter.Category)
	}
	if filter.TaxYear != nil {
		add("tax_year = $%d", *filter.TaxYear)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(LOWER(name) LIKE $%d OR LOWER(original_name) LIKE $%d)", argID, argID))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		argID++
	}
	return conditions, args
}

func (r *documentRepository) List(ctx context.Context, filter models.DocumentFilter, limit, offset int) ([]models.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents`
	conditions, args := documentConditions(filter)
	if len(conditions) > 0 {
		q += " WHERE " + strings.Join(conditions, " AND ")
	}
	q += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var res []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(
			&d.ID, &d.Name, &d.OriginalName, &d.Type, &d.Category, &d.TaxYear, &d.UploadedByID,
			&d.ClientID, &d.EngagementID, &d.FileURL, &d.FileSize, &d.MimeType, &d.IsVerified, &d.Version, &d.CreatedAt,
		); err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, rows.Err()
}

func (r *documentRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE documents SET is_verified=$1 WHERE id=$2`, verified, id)
	return err
}

func (r *documentRepository) Count(ctx context.Context, filter models.DocumentFilter) (int, error) {
	q := `SELECT COUNT(*) FROM documents`
	conditions, args := documentConditions(filter)
	if len(conditions) > 0 {
		q += " WHERE " + strings.Join(conditions, " AND ")
	}
	var n int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}
