package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taxpractice/internal/models"
	"taxpractice/internal/repositories"
)

// SendRequest describes an outbound message. Either Subject+Content or a
// TemplateID with Variables must be supplied.
type SendRequest struct {
	ClientID   string            `json:"client_id"`
	Subject    string            `json:"subject"`
	Content    string            `json:"content"`
	TemplateID string            `json:"template_id"`
	Variables  map[string]string `json:"variables"`
	IsSecure   bool              `json:"is_secure"`
}

type CommunicationService interface {
	// Send logs the message, delivers it to the client's email and records
	// the delivery outcome. A failed delivery leaves the record in FAILED.
	Send(ctx context.Context, actor models.Actor, req SendRequest) (*models.Communication, error)
	LogInbound(ctx context.Context, actor models.Actor, c *models.Communication) (*models.Communication, error)
	UpdateStatus(ctx context.Context, actor models.Actor, id string, to models.CommStatus) (*models.Communication, error)
	GetByID(ctx context.Context, id string) (*models.Communication, error)
	List(ctx context.Context, filter models.CommunicationFilter) ([]models.Communication, error)
}

type communicationService struct {
	store  repositories.Store
	mailer Mailer
	log    *zap.Logger
}

func NewCommunicationService(store repositories.Store, mailer Mailer, log *zap.Logger) CommunicationService {
	return &communicationService{store: store, mailer: mailer, log: log}
}

// renderTemplate substitutes {{name}} placeholders.
func renderTemplate(text string, vars map[string]string) string {
	for k, v := range vars {
		text = strings.ReplaceAll(text, "{{"+k+"}}", v)
	}
	return text
}

func (s *communicationService) Send(ctx context.Context, actor models.Actor, req SendRequest) (*models.Communication, error) {
	if req.ClientID == "" {
		return nil, models.Validationf("client_id is required")
	}
	client, err := s.store.Clients().FindByID(ctx, req.ClientID)
	if err != nil {
		return nil, &models.StorageError{Op: "get client", Err: err}
	}
	if client == nil {
		return nil, &models.NotFoundError{Resource: "client", ID: req.ClientID}
	}
	if client.Email == "" {
		return nil, models.Validationf("client has no email address")
	}

	subject, content := req.Subject, req.Content
	var templateID *string
	if req.TemplateID != "" {
		tpl, err := s.store.Templates().FindByID(ctx, req.TemplateID)
		if err != nil {
			return nil, &models.StorageError{Op: "get template", Err: err}
		}
		if tpl == nil {
			return nil, &models.NotFoundError{Resource: "email_template", ID: req.TemplateID}
		}
		if !tpl.IsActive {
			return nil, models.Validationf("template %s is inactive", tpl.Name)
		}
		vars := req.Variables
		if vars == nil {
			vars = map[string]string{}
		}
		if _, ok := vars["clientName"]; !ok {
			vars["clientName"] = client.DisplayName()
		}
		subject = renderTemplate(tpl.Subject, vars)
		content = renderTemplate(tpl.Content, vars)
		templateID = &req.TemplateID
	}
	if strings.TrimSpace(subject) == "" {
		return nil, models.Validationf("subject is required")
	}

	now := time.Now()
	comm := &models.Communication{
		ID:          uuid.NewString(),
		ClientID:    req.ClientID,
		Type:        "EMAIL",
		Direction:   models.DirectionOutbound,
		Subject:     subject,
		Content:     content,
		TemplateID:  templateID,
		SentByID:    actor.UserID,
		SentToEmail: client.Email,
		Status:      models.CommDraft,
		IsSecure:    req.IsSecure,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Communications().Create(ctx, comm); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.ActionSend, "communication", comm.ID,
			map[string]string{"client_id": comm.ClientID, "subject": comm.Subject})
	})
	if err != nil {
		return nil, &models.StorageError{Op: "create communication", Err: err}
	}

	// Delivery happens outside the transaction; the record reflects the
	// outcome either way.
	if sendErr := s.mailer.Send(client.Email, subject, content); sendErr != nil {
		if err := s.store.Communications().UpdateStatus(ctx, comm.ID, models.CommFailed, nil); err != nil {
			s.log.Error("mark communication failed", zap.String("id", comm.ID), zap.Error(err))
		}
		comm.Status = models.CommFailed
		return comm, nil
	}

	sentAt := time.Now()
	if err := s.store.Communications().UpdateStatus(ctx, comm.ID, models.CommSent, &sentAt); err != nil {
		return nil, &models.StorageError{Op: "update communication status", Err: err}
	}
	comm.Status = models.CommSent
	comm.SentAt = &sentAt
	return comm, nil
}

func (s *communicationService) LogInbound(ctx context.Context, actor models.Actor, c *models.Communication) (*models.Communication, error) {
	if c.ClientID == "" {
		return nil, models.Validationf("client_id is required")
	}
	if strings.TrimSpace(c.Subject) == "" {
		return nil, models.Validationf("subject is required")
	}
	client, err := s.store.Clients().FindByID(ctx, c.ClientID)
	if err != nil {
		return nil, &models.StorageError{Op: "get client", Err: err}
	}
	if client == nil {
		return nil, &models.NotFoundError{Resource: "client", ID: c.ClientID}
	}

	now := time.Now()
	c.ID = uuid.NewString()
	if c.Type == "" {
		c.Type = "EMAIL"
	}
	if c.Direction == "" {
		c.Direction = models.DirectionInbound
	}
	c.Status = models.CommDelivered
	c.SentAt = &now
	c.CreatedAt = now
	c.UpdatedAt = now

	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Communications().Create(ctx, c); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.ActionCreate, "communication", c.ID,
			map[string]string{"client_id": c.ClientID, "direction": string(c.Direction)})
	})
	if err != nil {
		return nil, &models.StorageError{Op: "log communication", Err: err}
	}
	return c, nil
}

func (s *communicationService) UpdateStatus(ctx context.Context, actor models.Actor, id string, to models.CommStatus) (*models.Communication, error) {
	existing, err := s.store.Communications().FindByID(ctx, id)
	if err != nil {
		return nil, &models.StorageError{Op: "get communication", Err: err}
	}
	if existing == nil {
		return nil, &models.NotFoundError{Resource: "communication", ID: id}
	}
	if err := CheckCommunicationTransition(existing.Status, to); err != nil {
		return nil, err
	}

	var sentAt *time.Time
	if to == models.CommSent && existing.SentAt == nil {
		now := time.Now()
		sentAt = &now
	} else {
		sentAt = existing.SentAt
	}

	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Communications().UpdateStatus(ctx, id, to, sentAt); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.ActionStatusChange, "communication", id,
			map[string]string{"from": string(existing.Status), "to": string(to)})
	})
	if err != nil {
		return nil, &models.StorageError{Op: "update communication status", Err: err}
	}

	existing.Status = to
	existing.SentAt = sentAt
	existing.UpdatedAt = time.Now()
	return existing, nil
}

func (s *communicationService) GetByID(ctx context.Context, id string) (*models.Communication, error) {
	c, err := s.store.Communications().FindByID(ctx, id)
	if err != nil {
		return nil, &models.StorageError{Op: "get communication", Err: err}
	}
	if c == nil {
		return nil, &models.NotFoundError{Resource: "communication", ID: id}
	}
	return c, nil
}

func (s *communicationService) List(ctx context.Context, filter models.CommunicationFilter) ([]models.Communication, error) {
	res, err := s.store.Communications().List(ctx, filter)
	if err != nil {
		return nil, &models.StorageError{Op: "list communications", Err: err}
	}
	return res, nil
}
