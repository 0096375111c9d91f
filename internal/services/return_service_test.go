package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taxpractice/internal/models"
	"taxpractice/internal/observability"
)

func seedClient(t *testing.T, store *memStore) *models.Client {
	t.Helper()
	svc := NewClientService(store, zap.NewNop())
	c, err := svc.Create(context.Background(), testActor, newClient("taxpayer@test.io"))
	require.NoError(t, err)
	return c
}

func newReturnService(store *memStore) ReturnService {
	return NewReturnService(store, zap.NewNop(), observability.NewMetrics())
}

func TestCreateReturnSeedsDocumentRequestTask(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store)
	svc := newReturnService(store)
	ctx := context.Background()

	ret, err := svc.Create(ctx, testActor, &models.TaxReturn{
		ClientID: client.ID,
		TaxYear:  2025,
		Type:     "FORM_1040",
		Priority: models.PriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReturnNew, ret.Status)

	tasks, err := store.Tasks().FindAll(ctx, models.TaskFilter{TaxReturnID: &ret.ID})
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	task := tasks[0]
	assert.Equal(t, models.TaskDocumentRequest, task.Type)
	assert.Equal(t, models.TaskPending, task.Status)
	assert.Equal(t, models.PriorityHigh, task.Priority, "priority copied from the return")
	assert.Equal(t, "Request client documents for tax return", task.Title)
	assert.Contains(t, task.Description, "2025")
	assert.Contains(t, task.Description, "FORM_1040")

	require.NotNil(t, task.DueDate)
	wantDue := time.Now().AddDate(0, 0, seedTaskDueDays)
	assert.WithinDuration(t, wantDue, *task.DueDate, time.Minute)
}

func TestCreateReturnOutsideNewSkipsSeedTask(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store)
	svc := newReturnService(store)
	ctx := context.Background()

	ret, err := svc.Create(ctx, testActor, &models.TaxReturn{
		ClientID: client.ID,
		TaxYear:  2025,
		Type:     "FORM_1120S",
		Status:   models.ReturnPreparation,
	})
	require.NoError(t, err)

	tasks, err := store.Tasks().FindAll(ctx, models.TaskFilter{TaxReturnID: &ret.ID})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestCreateReturnRejectsUnknownClientAndStatus(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store)
	svc := newReturnService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, testActor, &models.TaxReturn{
		ClientID: "missing", TaxYear: 2025, Type: "FORM_1040",
	})
	var notFound *models.NotFoundError
	require.True(t, errors.As(err, &notFound))

	_, err = svc.Create(ctx, testActor, &models.TaxReturn{
		ClientID: client.ID, TaxYear: 2025, Type: "FORM_1040",
		Status: models.ReturnStatus("AUDITED"),
	})
	var validation *models.ValidationError
	require.True(t, errors.As(err, &validation))
}

func TestCompletingReturnRequiresNoOpenTasks(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store)
	svc := newReturnService(store)
	ctx := context.Background()

	ret, err := svc.Create(ctx, testActor, &models.TaxReturn{
		ClientID: client.ID, TaxYear: 2025, Type: "FORM_1040",
	})
	require.NoError(t, err)

	// Walk to ACCEPTED; the seeded task is still open.
	for _, s := range []models.ReturnStatus{
		models.ReturnPreparation, models.ReturnReview, models.ReturnReadyToFile,
		models.ReturnFiled, models.ReturnAccepted,
	} {
		ret, err = svc.UpdateStatus(ctx, testActor, ret.ID, s)
		require.NoError(t, err)
	}

	_, err = svc.UpdateStatus(ctx, testActor, ret.ID, models.ReturnCompleted)
	var te *models.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, models.MissingPrecondition, te.Kind)

	// Close the seeded task directly, then completion succeeds.
	tasks, err := store.Tasks().FindAll(ctx, models.TaskFilter{TaxReturnID: &ret.ID})
	require.NoError(t, err)
	now := time.Now()
	require.NoError(t, store.Tasks().UpdateStatus(ctx, tasks[0].ID, models.TaskCompleted, &now))

	updated, err := svc.UpdateStatus(ctx, testActor, ret.ID, models.ReturnCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.ReturnCompleted, updated.Status)
	require.NotNil(t, updated.CompletionDate)
}

func TestReturnStatusChangeIsAudited(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store)
	svc := newReturnService(store)
	ctx := context.Background()

	ret, err := svc.Create(ctx, testActor, &models.TaxReturn{
		ClientID: client.ID, TaxYear: 2025, Type: "FORM_1040",
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, testActor, ret.ID, models.ReturnPreparation)
	require.NoError(t, err)

	rt := "tax_return"
	logs, err := store.ActivityLogs().List(ctx, models.ActivityLogFilter{ResourceType: &rt, ResourceID: &ret.ID}, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2, "create + status change")
	assert.Equal(t, models.ActionStatusChange, logs[0].Action)
	assert.Contains(t, logs[0].Details, string(models.ReturnPreparation))
}
