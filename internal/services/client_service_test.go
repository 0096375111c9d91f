package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taxpractice/internal/models"
)

var testActor = models.Actor{UserID: "user-1", IPAddress: "10.0.0.1", UserAgent: "go-test"}

func newClient(email string) *models.Client {
	return &models.Client{
		Type:      models.ClientIndividual,
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     email,
	}
}

func TestNextClientIDFormat(t *testing.T) {
	assert.Equal(t, "CL-2026-0001", nextClientID(2026, 0))
	assert.Equal(t, "CL-2026-0042", nextClientID(2026, 41))
	assert.Equal(t, "CL-2027-10000", nextClientID(2027, 9999))
}

func TestCreateClientAssignsSequentialIDs(t *testing.T) {
	store := newMemStore()
	svc := NewClientService(store, zap.NewNop())
	year := time.Now().Year()

	for i := 1; i <= 3; i++ {
		c, err := svc.Create(context.Background(), testActor, newClient(fmt.Sprintf("c%d@test.io", i)))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("CL-%d-%04d", year, i), c.ClientID)
		assert.NotEmpty(t, c.ID)
		assert.True(t, c.IsActive)
	}
}

func TestCreateClientRetriesOnUniqueViolation(t *testing.T) {
	store := newMemStore()
	store.failClientCreate = 2
	store.errOnCreate = &pq.Error{Code: "23505"}
	svc := NewClientService(store, zap.NewNop())

	c, err := svc.Create(context.Background(), testActor, newClient("retry@test.io"))
	require.NoError(t, err)
	assert.NotEmpty(t, c.ClientID)
}

func TestCreateClientGivesUpAfterRepeatedCollisions(t *testing.T) {
	store := newMemStore()
	store.failClientCreate = createClientAttempts
	store.errOnCreate = &pq.Error{Code: "23505"}
	svc := NewClientService(store, zap.NewNop())

	_, err := svc.Create(context.Background(), testActor, newClient("nope@test.io"))
	var conflict *models.ConflictError
	require.True(t, errors.As(err, &conflict))
}

func TestCreateClientValidation(t *testing.T) {
	svc := NewClientService(newMemStore(), zap.NewNop())
	ctx := context.Background()

	_, err := svc.Create(ctx, testActor, &models.Client{Type: models.ClientIndividual, Email: "x@y.z"})
	assert.Error(t, err, "individual without names")

	_, err = svc.Create(ctx, testActor, &models.Client{Type: models.ClientBusiness, Email: "x@y.z"})
	assert.Error(t, err, "business without business name")

	_, err = svc.Create(ctx, testActor, &models.Client{Type: "PARTNERSHIP", Email: "x@y.z"})
	assert.Error(t, err, "unknown type")

	c, err := svc.Create(ctx, testActor, &models.Client{
		Type: models.ClientBusiness, BusinessName: "Acme LLC", Email: "acme@test.io",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme LLC", c.DisplayName())
}

func TestClientMutationsAreAudited(t *testing.T) {
	store := newMemStore()
	svc := NewClientService(store, zap.NewNop())
	ctx := context.Background()

	c, err := svc.Create(ctx, testActor, newClient("audit@test.io"))
	require.NoError(t, err)

	c.Phone = "555-0100"
	_, err = svc.Update(ctx, testActor, c.ID, c)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, testActor, c.ID))

	rt := "client"
	logs, err := store.ActivityLogs().List(ctx, models.ActivityLogFilter{ResourceType: &rt}, 10)
	require.NoError(t, err)
	require.Len(t, logs, 3, "one audit entry per mutation")

	// Audit survives the deletion and still references the id by value.
	got, err := store.Clients().FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	for _, e := range logs {
		assert.Equal(t, c.ID, e.ResourceID)
		assert.Equal(t, testActor.UserID, e.UserID)
		assert.Equal(t, "10.0.0.1", e.IPAddress)
	}
}

func TestClientIDPreservedOnUpdate(t *testing.T) {
	store := newMemStore()
	svc := NewClientService(store, zap.NewNop())
	ctx := context.Background()

	c, err := svc.Create(ctx, testActor, newClient("keep@test.io"))
	require.NoError(t, err)
	originalID := c.ClientID

	updated, err := svc.Update(ctx, testActor, c.ID, &models.Client{
		Type: models.ClientIndividual, FirstName: "Janet", LastName: "Doe",
		Email: "keep@test.io", ClientID: "CL-1999-9999",
	})
	require.NoError(t, err)
	assert.Equal(t, originalID, updated.ClientID, "client_id is immutable")
}
