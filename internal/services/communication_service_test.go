package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taxpractice/internal/models"
)

// fakeMailer records deliveries and can be told to fail.
type fakeMailer struct {
	sent []struct{ to, subject, body string }
	err  error
}

func (f *fakeMailer) Send(to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, struct{ to, subject, body string }{to, subject, body})
	return nil
}

func TestRenderTemplate(t *testing.T) {
	out := renderTemplate("Hello {{clientName}}, your {{form}} is ready", map[string]string{
		"clientName": "Jane Doe",
		"form":       "FORM_1040",
	})
	assert.Equal(t, "Hello Jane Doe, your FORM_1040 is ready", out)

	assert.Equal(t, "No placeholders", renderTemplate("No placeholders", nil))
	assert.Equal(t, "{{unknown}} stays", renderTemplate("{{unknown}} stays", map[string]string{"x": "y"}))
}

func TestSendDeliversAndMarksSent(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store)
	mailer := &fakeMailer{}
	svc := NewCommunicationService(store, mailer, zap.NewNop())
	ctx := context.Background()

	comm, err := svc.Send(ctx, testActor, SendRequest{
		ClientID: client.ID,
		Subject:  "Your 2025 return",
		Content:  "Documents are ready for review.",
	})
	require.NoError(t, err)

	assert.Equal(t, models.CommSent, comm.Status)
	require.NotNil(t, comm.SentAt)
	assert.Equal(t, models.DirectionOutbound, comm.Direction)
	assert.Equal(t, client.Email, comm.SentToEmail)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, client.Email, mailer.sent[0].to)
	assert.Equal(t, "Your 2025 return", mailer.sent[0].subject)

	stored, err := store.Communications().FindByID(ctx, comm.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CommSent, stored.Status)
	assert.NotNil(t, stored.SentAt)
}

func TestSendFailureKeepsFailedRecord(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store)
	mailer := &fakeMailer{err: errors.New("smtp connection refused")}
	svc := NewCommunicationService(store, mailer, zap.NewNop())
	ctx := context.Background()

	comm, err := svc.Send(ctx, testActor, SendRequest{
		ClientID: client.ID,
		Subject:  "Deadline reminder",
		Content:  "Your filing deadline is approaching.",
	})
	require.NoError(t, err, "delivery failure is not a service error")
	assert.Equal(t, models.CommFailed, comm.Status)
	assert.Nil(t, comm.SentAt)

	stored, err := store.Communications().FindByID(ctx, comm.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CommFailed, stored.Status)

	// A FAILED message can be retried through the workflow.
	retried, err := svc.UpdateStatus(ctx, testActor, comm.ID, models.CommSent)
	require.NoError(t, err)
	assert.Equal(t, models.CommSent, retried.Status)
	assert.NotNil(t, retried.SentAt)
}

func TestSendRendersTemplateWithClientName(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store)
	require.NoError(t, store.Templates().Create(context.Background(), &models.EmailTemplate{
		ID:       "tpl-1",
		Name:     "welcome",
		Subject:  "Welcome {{clientName}}",
		Content:  "Dear {{clientName}}, your engagement for {{taxYear}} has started.",
		IsActive: true,
	}))

	mailer := &fakeMailer{}
	svc := NewCommunicationService(store, mailer, zap.NewNop())

	comm, err := svc.Send(context.Background(), testActor, SendRequest{
		ClientID:   client.ID,
		TemplateID: "tpl-1",
		Variables:  map[string]string{"taxYear": "2025"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Welcome Jane Doe", comm.Subject)
	assert.Contains(t, comm.Content, "Dear Jane Doe")
	assert.Contains(t, comm.Content, "2025")
	require.NotNil(t, comm.TemplateID)
	assert.Equal(t, "tpl-1", *comm.TemplateID)
}

func TestSendRejectsInactiveTemplate(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store)
	require.NoError(t, store.Templates().Create(context.Background(), &models.EmailTemplate{
		ID: "tpl-old", Name: "retired", Subject: "x", Content: "y", IsActive: false,
	}))

	svc := NewCommunicationService(store, &fakeMailer{}, zap.NewNop())
	_, err := svc.Send(context.Background(), testActor, SendRequest{
		ClientID: client.ID, TemplateID: "tpl-old",
	})
	var validation *models.ValidationError
	require.True(t, errors.As(err, &validation))
}

func TestLogInboundIsDelivered(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store)
	svc := NewCommunicationService(store, &fakeMailer{}, zap.NewNop())

	comm, err := svc.LogInbound(context.Background(), testActor, &models.Communication{
		ClientID: client.ID,
		Subject:  "Re: Your 2025 return",
		Content:  "Attached are the missing 1099s.",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CommDelivered, comm.Status)
	assert.Equal(t, models.DirectionInbound, comm.Direction)
	assert.NotNil(t, comm.SentAt)
}
