package services

import (
	"context"

	"go.uber.org/zap"

	"taxpractice/internal/models"
	"taxpractice/internal/repositories"
)

// PortalReturn is the client-facing projection of a tax return. Internal
// fields (assignments, reviewer notes, results) are withheld.
type PortalReturn struct {
	ID      string              `json:"id"`
	TaxYear int                 `json:"tax_year"`
	Type    string              `json:"type"`
	Status  models.ReturnStatus `json:"status"`
}

// PortalDocument is the client-facing projection of a document.
type PortalDocument struct {
	ID           string                  `json:"id"`
	OriginalName string                  `json:"original_name"`
	Type         models.DocumentType     `json:"type"`
	Category     models.DocumentCategory `json:"category"`
	TaxYear      *int                    `json:"tax_year,omitempty"`
	IsVerified   bool                    `json:"is_verified"`
}

// PortalView is everything a client sees about their own account.
type PortalView struct {
	ClientID   string           `json:"client_id"`
	Name       string           `json:"name"`
	TaxReturns []PortalReturn   `json:"tax_returns"`
	Documents  []PortalDocument `json:"documents"`
	OpenTasks  []PortalTask     `json:"open_tasks"`
}

// PortalTask surfaces document-request tasks the client must act on.
type PortalTask struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	DueDate     *string           `json:"due_date,omitempty"`
	Priority    models.Priority   `json:"priority"`
	Status      models.TaskStatus `json:"status"`
}

type PortalService interface {
	View(ctx context.Context, clientID string) (*PortalView, error)
}

type portalService struct {
	store repositories.Store
	log   *zap.Logger
}

func NewPortalService(store repositories.Store, log *zap.Logger) PortalService {
	return &portalService{store: store, log: log}
}

func (s *portalService) View(ctx context.Context, clientID string) (*PortalView, error) {
	client, err := s.store.Clients().FindByID(ctx, clientID)
	if err != nil {
		return nil, &models.StorageError{Op: "get client", Err: err}
	}
	if client == nil {
		return nil, &models.NotFoundError{Resource: "client", ID: clientID}
	}

	view := &PortalView{
		ClientID: client.ClientID,
		Name:     client.DisplayName(),
	}

	returns, err := s.store.Returns().List(ctx, models.ReturnFilter{ClientID: &clientID})
	if err != nil {
		return nil, &models.StorageError{Op: "list returns", Err: err}
	}
	for _, r := range returns {
		view.TaxReturns = append(view.TaxReturns, PortalReturn{
			ID: r.ID, TaxYear: r.TaxYear, Type: r.Type, Status: r.Status,
		})
	}

	docs, err := s.store.Documents().List(ctx, models.DocumentFilter{ClientID: &clientID}, 100, 0)
	if err != nil {
		return nil, &models.StorageError{Op: "list documents", Err: err}
	}
	for _, d := range docs {
		view.Documents = append(view.Documents, PortalDocument{
			ID: d.ID, OriginalName: d.OriginalName, Type: d.Type,
			Category: d.Category, TaxYear: d.TaxYear, IsVerified: d.IsVerified,
		})
	}

	// Only document requests are the client's to act on.
	docRequest := models.TaskDocumentRequest
	pending := models.TaskPending
	tasks, err := s.store.Tasks().FindAll(ctx, models.TaskFilter{
		ClientID: &clientID, Type: &docRequest, Status: &pending,
	})
	if err != nil {
		return nil, &models.StorageError{Op: "list tasks", Err: err}
	}
	for _, t := range tasks {
		pt := PortalTask{
			ID: t.ID, Title: t.Title, Description: t.Description,
			Priority: t.Priority, Status: t.Status,
		}
		if t.DueDate != nil {
			d := t.DueDate.Format("2006-01-02")
			pt.DueDate = &d
		}
		view.OpenTasks = append(view.OpenTasks, pt)
	}
	return view, nil
}
