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
)

func newTaskService(store *memStore) TaskService {
	return NewTaskService(store, zap.NewNop(), nil)
}

// seedReturnWithTask creates a client, a NEW return and returns the seeded
// document-request task alongside the return.
func seedReturnWithTask(t *testing.T, store *memStore) (*models.TaxReturn, models.Task) {
	t.Helper()
	client := seedClient(t, store)
	ret, err := newReturnService(store).Create(context.Background(), testActor, &models.TaxReturn{
		ClientID: client.ID, TaxYear: 2025, Type: "FORM_1040",
	})
	require.NoError(t, err)

	tasks, err := store.Tasks().FindAll(context.Background(), models.TaskFilter{TaxReturnID: &ret.ID})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	return ret, tasks[0]
}

func TestCompletingLastTaskCompletesReturn(t *testing.T) {
	store := newMemStore()
	ret, seeded := seedReturnWithTask(t, store)
	svc := newTaskService(store)
	ctx := context.Background()

	started, err := svc.UpdateStatus(ctx, testActor, seeded.ID, models.TaskInProgress)
	require.NoError(t, err)
	assert.Nil(t, started.CompletedAt, "completion stamp only on COMPLETED")

	done, err := svc.UpdateStatus(ctx, testActor, seeded.ID, models.TaskCompleted)
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)

	got, err := store.Returns().FindByID(ctx, ret.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReturnCompleted, got.Status)
	require.NotNil(t, got.CompletionDate)
	assert.WithinDuration(t, time.Now(), *got.CompletionDate, time.Minute)
}

func TestCompletionCascadeWaitsForAllTasks(t *testing.T) {
	store := newMemStore()
	ret, seeded := seedReturnWithTask(t, store)
	svc := newTaskService(store)
	ctx := context.Background()

	second, err := svc.Create(ctx, testActor, &models.Task{
		ClientID:    ret.ClientID,
		TaxReturnID: &ret.ID,
		Title:       "Prepare schedules",
		Type:        models.TaskPreparation,
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, testActor, seeded.ID, models.TaskCompleted)
	require.NoError(t, err)

	got, err := store.Returns().FindByID(ctx, ret.ID)
	require.NoError(t, err)
	assert.NotEqual(t, models.ReturnCompleted, got.Status, "one task still open")

	_, err = svc.UpdateStatus(ctx, testActor, second.ID, models.TaskCompleted)
	require.NoError(t, err)

	got, err = store.Returns().FindByID(ctx, ret.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReturnCompleted, got.Status)
}

func TestCancelledTaskDoesNotCompleteReturn(t *testing.T) {
	store := newMemStore()
	ret, seeded := seedReturnWithTask(t, store)
	svc := newTaskService(store)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, testActor, seeded.ID, models.TaskCancelled)
	require.NoError(t, err)

	got, err := store.Returns().FindByID(ctx, ret.ID)
	require.NoError(t, err)
	assert.NotEqual(t, models.ReturnCompleted, got.Status)
}

func TestReopenClearsCompletionStamp(t *testing.T) {
	store := newMemStore()
	_, seeded := seedReturnWithTask(t, store)
	svc := newTaskService(store)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, testActor, seeded.ID, models.TaskCompleted)
	require.NoError(t, err)

	reopened, err := svc.Reopen(ctx, testActor, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskPending, reopened.Status)
	assert.Nil(t, reopened.CompletedAt)

	stored, err := store.Tasks().FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskPending, stored.Status)
	assert.Nil(t, stored.CompletedAt)
}

func TestReopenOnlyFromCompleted(t *testing.T) {
	store := newMemStore()
	_, seeded := seedReturnWithTask(t, store)
	svc := newTaskService(store)

	_, err := svc.Reopen(context.Background(), testActor, seeded.ID)
	var te *models.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, models.IllegalTransition, te.Kind)
}

func TestTaskCreateValidation(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store)
	svc := newTaskService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, testActor, &models.Task{ClientID: client.ID})
	assert.Error(t, err, "missing title")

	_, err = svc.Create(ctx, testActor, &models.Task{
		ClientID: client.ID, Title: "x", Type: models.TaskType("PAPERWORK"),
	})
	assert.Error(t, err, "unknown type")

	missing := "no-such-return"
	_, err = svc.Create(ctx, testActor, &models.Task{
		ClientID: client.ID, Title: "x", TaxReturnID: &missing,
	})
	var notFound *models.NotFoundError
	require.True(t, errors.As(err, &notFound))

	created, err := svc.Create(ctx, testActor, &models.Task{
		ClientID: client.ID, Title: "Call the client", Status: models.TaskCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TaskPending, created.Status, "new tasks always start pending")
	assert.Equal(t, models.TaskOther, created.Type)
	assert.Equal(t, testActor.UserID, created.CreatedByID)
}

func TestTaskAuditSurvivesDeletion(t *testing.T) {
	store := newMemStore()
	_, seeded := seedReturnWithTask(t, store)
	svc := newTaskService(store)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, testActor, seeded.ID))

	rt := "task"
	logs, err := store.ActivityLogs().List(ctx, models.ActivityLogFilter{ResourceType: &rt, ResourceID: &seeded.ID}, 10)
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	assert.Equal(t, models.ActionDelete, logs[0].Action)
	assert.Contains(t, logs[0].Details, seeded.Title)
}
