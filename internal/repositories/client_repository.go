package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"taxpractice/internal/models"
)

type ClientRepository interface {
	Create(ctx context.Context, c *models.Client) error
	Update(ctx context.Context, c *models.Client) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*models.Client, error)
	FindByEmail(ctx context.Context, email string) (*models.Client, error)
	List(ctx context.Context, filter models.ClientFilter) ([]models.Client, error)
	// CountByIDPrefix reports how many client_id values start with prefix.
	// The sequence generator uses it with "CL-<year>-".
	CountByIDPrefix(ctx context.Context, prefix string) (int, error)
	Count(ctx context.Context) (int, error)
}

type clientRepository struct {
	db DBTX
}

func NewClientRepository(db DBTX) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, client_id, type, first_name, last_name, business_name, email, phone,
       filing_status, entity_type, address, city, state, zip, country,
       notes, internal_comments, is_active, created_by_id, created_at, updated_at`

func (r *clientRepository) Create(ctx context.Context, c *models.Client) error {
	const q = `
                INSERT INTO clients (` + clientColumns + `)
                VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
        `
	_, err := r.db.ExecContext(ctx, q,
		c.ID, c.ClientID, c.Type, c.FirstName, c.LastName, c.BusinessName, c.Email, c.Phone,
		c.FilingStatus, c.EntityType, c.Address, c.City, c.State, c.Zip, c.Country,
		c.Notes, c.InternalComments, c.IsActive, c.CreatedByID, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *clientRepository) Update(ctx context.Context, c *models.Client) error {
	const q = `
                UPDATE clients
                SET type=$1, first_name=$2, last_name=$3, business_name=$4, email=$5, phone=$6,
                    filing_status=$7, entity_type=$8, address=$9, city=$10, state=$11, zip=$12,
                    country=$13, notes=$14, internal_comments=$15, is_active=$16, updated_at=$17
                WHERE id=$18
        `
	_, err := r.db.ExecContext(ctx, q,
		c.Type, c.FirstName, c.LastName, c.BusinessName, c.Email, c.Phone,
		c.FilingStatus, c.EntityType, c.Address, c.City, c.State, c.Zip,
		c.Country, c.Notes, c.InternalComments, c.IsActive, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id=$1`, id)
	return err
}

func scanClient(row interface{ Scan(...any) error }) (*models.Client, error) {
	var c models.Client
	err := row.Scan(
		&c.ID, &c.ClientID, &c.Type, &c.FirstName, &c.LastName, &c.BusinessName, &c.Email, &c.Phone,
		&c.FilingStatus, &c.EntityType, &c.Address, &c.City, &c.State, &c.Zip, &c.Country,
		&c.Notes, &c.InternalComments, &c.IsActive, &c.CreatedByID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clientRepository) FindByID(ctx context.Context, id string) (*models.Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM clients WHERE id=$1`
	c, err := scanClient(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func (r *clientRepository) FindByEmail(ctx context.Context, email string) (*models.Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM clients WHERE email=$1`
	c, err := scanClient(r.db.QueryRowContext(ctx, q, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get client by email: %w", err)
	}
	return c, nil
}

func (r *clientRepository) List(ctx context.Context, filter models.ClientFilter) ([]models.Client, error) {
	q := `SELECT ` + clientColumns + ` FROM clients`
	conditions := []string{}
	args := []any{}
	argID := 1

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(LOWER(first_name) LIKE $%d OR LOWER(last_name) LIKE $%d OR LOWER(business_name) LIKE $%d OR LOWER(email) LIKE $%d)",
			argID, argID, argID, argID))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		argID++
	}
	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argID))
		args = append(args, *filter.Type)
		argID++
	}
	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argID))
		args = append(args, *filter.IsActive)
		argID++
	}
	if len(conditions) > 0 {
		q += " WHERE " + strings.Join(conditions, " AND ")
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var res []models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *c)
	}
	return res, rows.Err()
}

func (r *clientRepository) CountByIDPrefix(ctx context.Context, prefix string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM clients WHERE client_id LIKE $1`, prefix+"%").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count clients by prefix: %w", err)
	}
	return n, nil
}

func (r *clientRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
