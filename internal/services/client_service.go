package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"taxpractice/internal/models"
	"taxpractice/internal/repositories"
)

// createClientAttempts bounds the count-then-insert retry loop. Each attempt
// recomputes the sequence, so a retry only loses to another concurrent
// creation that claimed the same number first.
const createClientAttempts = 5

// ClientDetail is the aggregate view returned by GET /clients/:id.
type ClientDetail struct {
	Client         models.Client          `json:"client"`
	Engagements    []models.Engagement    `json:"engagements"`
	TaxReturns     []models.TaxReturn     `json:"tax_returns"`
	Documents      []models.Document      `json:"documents"`
	Communications []models.Communication `json:"communications"`
	Notices        []models.IRSNotice     `json:"notices"`
}

type ClientService interface {
	Create(ctx context.Context, actor models.Actor, client *models.Client) (*models.Client, error)
	Update(ctx context.Context, actor models.Actor, id string, client *models.Client) (*models.Client, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
	GetByID(ctx context.Context, id string) (*models.Client, error)
	Detail(ctx context.Context, id string) (*ClientDetail, error)
	List(ctx context.Context, filter models.ClientFilter) ([]models.Client, error)
}

type clientService struct {
	store repositories.Store
	log   *zap.Logger
}

func NewClientService(store repositories.Store, log *zap.Logger) ClientService {
	return &clientService{store: store, log: log}
}

// nextClientID formats the human-readable client identifier:
// CL-<year>-<4 digit sequence>, sequence = count of ids already issued for
// that year plus one.
func nextClientID(year, countThisYear int) string {
	return fmt.Sprintf("CL-%d-%04d", year, countThisYear+1)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func validateClientIdentity(c *models.Client) error {
	switch c.Type {
	case models.ClientIndividual:
		if strings.TrimSpace(c.FirstName) == "" || strings.TrimSpace(c.LastName) == "" {
			return models.Validationf("first_name and last_name are required for individual clients")
		}
	case models.ClientBusiness:
		if strings.TrimSpace(c.BusinessName) == "" {
			return models.Validationf("business_name is required for business clients")
		}
	default:
		return models.Validationf("invalid client type %q", c.Type)
	}
	if strings.TrimSpace(c.Email) == "" {
		return models.Validationf("email is required")
	}
	return nil
}

func (s *clientService) Create(ctx context.Context, actor models.Actor, client *models.Client) (*models.Client, error) {
	if err := validateClientIdentity(client); err != nil {
		return nil, err
	}

	now := time.Now()
	client.ID = uuid.NewString()
	client.IsActive = true
	client.CreatedByID = actor.UserID
	client.CreatedAt = now
	client.UpdatedAt = now
	if client.Country == "" {
		client.Country = "US"
	}

	// Count-then-insert races under concurrent creation, so the unique index
	// on client_id is the arbiter: recompute and retry on 23505.
	year := now.Year()
	prefix := fmt.Sprintf("CL-%d-", year)
	for attempt := 0; attempt < createClientAttempts; attempt++ {
		n, err := s.store.Clients().CountByIDPrefix(ctx, prefix)
		if err != nil {
			return nil, &models.StorageError{Op: "count clients", Err: err}
		}
		client.ClientID = nextClientID(year, n)

		err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
			if err := tx.Clients().Create(ctx, client); err != nil {
				return err
			}
			return recordAudit(ctx, tx, actor, models.ActionCreate, "client", client.ID,
				map[string]string{"client_id": client.ClientID})
		})
		if err == nil {
			return client, nil
		}
		if !isUniqueViolation(err) {
			return nil, &models.StorageError{Op: "create client", Err: err}
		}
		s.log.Warn("client id collision, retrying",
			zap.String("client_id", client.ClientID), zap.Int("attempt", attempt+1))
	}
	return nil, &models.ConflictError{Msg: "could not allocate a unique client id"}
}

func (s *clientService) Update(ctx context.Context, actor models.Actor, id string, client *models.Client) (*models.Client, error) {
	existing, err := s.store.Clients().FindByID(ctx, id)
	if err != nil {
		return nil, &models.StorageError{Op: "get client", Err: err}
	}
	if existing == nil {
		return nil, &models.NotFoundError{Resource: "client", ID: id}
	}

	client.ID = existing.ID
	client.ClientID = existing.ClientID
	client.CreatedByID = existing.CreatedByID
	client.CreatedAt = existing.CreatedAt
	client.UpdatedAt = time.Now()
	if err := validateClientIdentity(client); err != nil {
		return nil, err
	}

	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Clients().Update(ctx, client); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.ActionUpdate, "client", client.ID, nil)
	})
	if err != nil {
		return nil, &models.StorageError{Op: "update client", Err: err}
	}
	return client, nil
}

// Delete removes the client row. Audit entries reference the id by value and
// survive the deletion.
func (s *clientService) Delete(ctx context.Context, actor models.Actor, id string) error {
	existing, err := s.store.Clients().FindByID(ctx, id)
	if err != nil {
		return &models.StorageError{Op: "get client", Err: err}
	}
	if existing == nil {
		return &models.NotFoundError{Resource: "client", ID: id}
	}
	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Clients().Delete(ctx, id); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.ActionDelete, "client", id,
			map[string]string{"client_id": existing.ClientID})
	})
	if err != nil {
		return &models.StorageError{Op: "delete client", Err: err}
	}
	return nil
}

func (s *clientService) GetByID(ctx context.Context, id string) (*models.Client, error) {
	c, err := s.store.Clients().FindByID(ctx, id)
	if err != nil {
		return nil, &models.StorageError{Op: "get client", Err: err}
	}
	if c == nil {
		return nil, &models.NotFoundError{Resource: "client", ID: id}
	}
	return c, nil
}

func (s *clientService) Detail(ctx context.Context, id string) (*ClientDetail, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &ClientDetail{Client: *c}
	if detail.Engagements, err = s.store.Engagements().List(ctx, models.EngagementFilter{ClientID: &id}); err != nil {
		return nil, &models.StorageError{Op: "list engagements", Err: err}
	}
	if detail.TaxReturns, err = s.store.Returns().List(ctx, models.ReturnFilter{ClientID: &id}); err != nil {
		return nil, &models.StorageError{Op: "list returns", Err: err}
	}
	if detail.Documents, err = s.store.Documents().List(ctx, models.DocumentFilter{ClientID: &id}, 10, 0); err != nil {
		return nil, &models.StorageError{Op: "list documents", Err: err}
	}
	if detail.Communications, err = s.store.Communications().List(ctx, models.CommunicationFilter{ClientID: &id}); err != nil {
		return nil, &models.StorageError{Op: "list communications", Err: err}
	}
	if len(detail.Communications) > 10 {
		detail.Communications = detail.Communications[:10]
	}
	if detail.Notices, err = s.store.Notices().List(ctx, models.NoticeFilter{ClientID: &id}); err != nil {
		return nil, &models.StorageError{Op: "list notices", Err: err}
	}
	return detail, nil
}

func (s *clientService) List(ctx context.Context, filter models.ClientFilter) ([]models.Client, error) {
	res, err := s.store.Clients().List(ctx, filter)
	if err != nil {
		return nil, &models.StorageError{Op: "list clients", Err: err}
	}
	return res, nil
}
