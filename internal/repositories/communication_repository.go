package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"taxpractice/internal/models"
)

type CommunicationRepository interface {
	Create(ctx context.Context, c *models.Communication) error
	Update(ctx context.Context, c *models.Communication) error
	UpdateStatus(ctx context.Context, id string, to models.CommStatus, sentAt *time.Time) error
	FindByID(ctx context.Context, id string) (*models.Communication, error)
	List(ctx context.Context, filter models.CommunicationFilter) ([]models.Communication, error)
}

type communicationRepository struct {
	db DBTX
}

func NewCommunicationRepository(db DBTX) CommunicationRepository {
	return &communicationRepository{db: db}
}

const commColumns = `id, client_id, type, direction, subject, content, template_id,
       sent_by_id, sent_to_email, sent_at, status, is_secure, attachments,
       created_at, updated_at`

func (r *communicationRepository) Create(ctx context.Context, c *models.Communication) error {
	const q = `
                INSERT INTO communications (` + commColumns + `)
                VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        `
	_, err := r.db.ExecContext(ctx, q,
		c.ID, c.ClientID, c.Type, c.Direction, c.Subject, c.Content, c.TemplateID,
		c.SentByID, c.SentToEmail, c.SentAt, c.Status, c.IsSecure, c.Attachments,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create communication: %w", err)
	}
	return nil
}

func (r *communicationRepository) Update(ctx context.Context, c *models.Communication) error {
	const q = `
                UPDATE communications
                SET subject=$1, content=$2, status=$3, sent_at=$4, updated_at=$5
                WHERE id=$6
        `
	_, err := r.db.ExecContext(ctx, q,
		c.Subject, c.Content, c.Status, c.SentAt, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update communication: %w", err)
	}
	return nil
}

func (r *communicationRepository) UpdateStatus(ctx context.Context, id string, to models.CommStatus, sentAt *time.Time) error {
	if sentAt != nil {
		_, err := r.db.ExecContext(ctx,
			`UPDATE communications SET status=$1, sent_at=$2, updated_at=NOW() WHERE id=$3`,
			to, sentAt, id)
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE communications SET status=$1, updated_at=NOW() WHERE id=$2`, to, id)
	return err
}

func scanCommunication(row interface{ Scan(...any) error }) (*models.Communication, error) {
	var c models.Communication
	err := row.Scan(
		&c.ID, &c.ClientID, &c.Type, &c.Direction, &c.Subject, &c.Content, &c.TemplateID,
		&c.SentByID, &c.SentToEmail, &c.SentAt, &c.Status, &c.IsSecure, &c.Attachments,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *communicationRepository) FindByID(ctx context.Context, id string) (*models.Communication, error) {
	const q = `SELECT ` + commColumns + ` FROM communications WHERE id=$1`
	c, err := scanCommunication(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get communication: %w", err)
	}
	return c, nil
}

func (r *communicationRepository) List(ctx context.Context, filter models.CommunicationFilter) ([]models.Communication, error) {
	q := `SELECT ` + commColumns + ` FROM communications`
	conditions := []string{}
	args := []any{}
	argID := 1

	if filter.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("client_id = $%d", argID))
		args = append(args, *filter.ClientID)
		argID++
	}
	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argID))
		args = append(args, *filter.Type)
		argID++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.SentByID != nil {
		conditions = append(conditions, fmt.Sprintf("sent_by_id = $%d", argID))
		args = append(args, *filter.SentByID)
		argID++
	}
	if filter.Direction != nil {
		conditions = append(conditions, fmt.Sprintf("direction = $%d", argID))
		args = append(args, *filter.Direction)
		argID++
	}
	if len(conditions) > 0 {
		q += " WHERE " + strings.Join(conditions, " AND ")
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list communications: %w", err)
	}
	defer rows.Close()

	var res []models.Communication
	for rows.Next() {
		c, err := scanCommunication(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *c)
	}
	return res, rows.Err()
}
