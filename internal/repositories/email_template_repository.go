package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"taxpractice/internal/models"
)

type EmailTemplateRepository interface {
	Create(ctx context.Context, t *models.EmailTemplate) error
	Update(ctx context.Context, t *models.EmailTemplate) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*models.EmailTemplate, error)
	List(ctx context.Context) ([]models.EmailTemplate, error)
}

type emailTemplateRepository struct {
	db DBTX
}

func NewEmailTemplateRepository(db DBTX) EmailTemplateRepository {
	return &emailTemplateRepository{db: db}
}

const templateColumns = `id, name, subject, content, type, variables, is_active,
       created_by_id, created_at, updated_at`

func (r *emailTemplateRepository) Create(ctx context.Context, t *models.EmailTemplate) error {
	const q = `
                INSERT INTO email_templates (` + templateColumns + `)
                VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        `
	_, err := r.db.ExecContext(ctx, q,
		t.ID, t.Name, t.Subject, t.Content, t.Type, t.Variables, t.IsActive,
		t.CreatedByID, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create email template: %w", err)
	}
	return nil
}

func (r *emailTemplateRepository) Update(ctx context.Context, t *models.EmailTemplate) error {
	const q = `
                UPDATE email_templates
                SET name=$1, subject=$2, content=$3, type=$4, variables=$5, is_active=$6, updated_at=$7
                WHERE id=$8
        `
	_, err := r.db.ExecContext(ctx, q,
		t.Name, t.Subject, t.Content, t.Type, t.Variables, t.IsActive, t.UpdatedAt, t.ID)
	if err != nil {
		return fmt.Errorf("update email template: %w", err)
	}
	return nil
}

func (r *emailTemplateRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM email_templates WHERE id=$1`, id)
	return err
}

func (r *emailTemplateRepository) FindByID(ctx context.Context, id string) (*models.EmailTemplate, error) {
	const q = `SELECT ` + templateColumns + ` FROM email_templates WHERE id=$1`
	var t models.EmailTemplate
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.Name, &t.Subject, &t.Content, &t.Type, &t.Variables, &t.IsActive,
		&t.CreatedByID, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get email template: %w", err)
	}
	return &t, nil
}

func (r *emailTemplateRepository) List(ctx context.Context) ([]models.EmailTemplate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM email_templates ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list email templates: %w", err)
	}
	defer rows.Close()

	var res []models.EmailTemplate
	for rows.Next() {
		var t models.EmailTemplate
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Subject, &t.Content, &t.Type, &t.Variables, &t.IsActive,
			&t.CreatedByID, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}
