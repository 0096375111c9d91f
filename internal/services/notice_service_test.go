package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taxpractice/internal/models"
	"taxpractice/internal/observability"
)

func newNoticeService(store *memStore) NoticeService {
	return NewNoticeService(store, zap.NewNop(), observability.NewMetrics(), nil)
}

func seedNotice(t *testing.T, store *memStore, noticeType string) *models.IRSNotice {
	t.Helper()
	client := seedClient(t, store)
	n, err := newNoticeService(store).Create(context.Background(), testActor, &models.IRSNotice{
		ClientID:    client.ID,
		NoticeType:  noticeType,
		ResponseDue: time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	require.Equal(t, models.NoticeReceived, n.Status)
	return n
}

func TestAnalyzeCP2000SpawnsResponseTasks(t *testing.T) {
	store := newMemStore()
	notice := seedNotice(t, store, "CP2000")
	svc := newNoticeService(store)
	ctx := context.Background()

	res, err := svc.Analyze(ctx, testActor, notice.ID)
	require.NoError(t, err)

	assert.Equal(t, models.RiskMedium, res.RiskLevel)
	require.Len(t, res.Tasks, 5, "one task per action item")
	assert.Contains(t, res.SuggestedDocuments, models.DocW2)
	assert.Contains(t, res.SuggestedDocuments, models.DocBankStatement)

	wantDue := time.Now().Add(120 * time.Minute)
	for _, task := range res.Tasks {
		assert.Equal(t, models.TaskNoticeResponse, task.Type)
		assert.Equal(t, models.TaskPending, task.Status)
		assert.Equal(t, models.PriorityMedium, task.Priority)
		require.NotNil(t, task.NoticeID)
		assert.Equal(t, notice.ID, *task.NoticeID)
		assert.Equal(t, "Response work for CP2000 notice", task.Description)
		require.NotNil(t, task.DueDate)
		assert.WithinDuration(t, wantDue, *task.DueDate, time.Minute)
	}

	// The action items land on the notice, newline-joined, one per task.
	stored, err := store.Notices().FindByID(ctx, notice.ID)
	require.NoError(t, err)
	items := strings.Split(stored.ActionItems, "\n")
	require.Len(t, items, 5)
	assert.Equal(t, items[0], res.Tasks[0].Title)
	assert.NotEmpty(t, stored.Summary)
	assert.NotEmpty(t, stored.Explanation)
}

func TestAnalyzeHighRiskNoticeUsesHighPriority(t *testing.T) {
	store := newMemStore()
	notice := seedNotice(t, store, "CP14")
	svc := newNoticeService(store)

	res, err := svc.Analyze(context.Background(), testActor, notice.ID)
	require.NoError(t, err)

	assert.Equal(t, models.RiskHigh, res.RiskLevel)
	require.Len(t, res.Tasks, 4)
	assert.Equal(t, []models.DocumentType{
		models.DocPaymentConfirmation, models.DocBankStatement, models.DocTaxReturnCopy,
	}, res.SuggestedDocuments)
	wantDue := time.Now().Add(60 * time.Minute)
	for _, task := range res.Tasks {
		assert.Equal(t, models.PriorityHigh, task.Priority)
		assert.WithinDuration(t, wantDue, *task.DueDate, time.Minute)
	}
}

func TestAnalyzeUnknownNoticeTypeFallsBack(t *testing.T) {
	store := newMemStore()
	notice := seedNotice(t, store, "LT11")
	svc := newNoticeService(store)
	ctx := context.Background()

	res, err := svc.Analyze(ctx, testActor, notice.ID)
	require.NoError(t, err)

	assert.Equal(t, models.RiskMedium, res.RiskLevel)
	require.Len(t, res.Tasks, 4)
	assert.Equal(t, []models.DocumentType{
		models.DocTaxReturnCopy, models.DocIncomeDocuments, models.DocDeductionReceipts,
	}, res.SuggestedDocuments)

	stored, err := store.Notices().FindByID(ctx, notice.ID)
	require.NoError(t, err)
	assert.Equal(t, "IRS notice received - Review required", stored.Summary)
}

func TestAnalyzeIsAudited(t *testing.T) {
	store := newMemStore()
	notice := seedNotice(t, store, "CP504")
	svc := newNoticeService(store)
	ctx := context.Background()

	_, err := svc.Analyze(ctx, testActor, notice.ID)
	require.NoError(t, err)

	rt := "irs_notice"
	logs, err := store.ActivityLogs().List(ctx, models.ActivityLogFilter{ResourceType: &rt, ResourceID: &notice.ID}, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2, "create + analyze")
	assert.Equal(t, models.ActionAnalyze, logs[0].Action)
	assert.Contains(t, logs[0].Details, "CP504")
}

func TestNoticeCreateValidation(t *testing.T) {
	store := newMemStore()
	client := seedClient(t, store)
	svc := newNoticeService(store)
	ctx := context.Background()
	due := time.Now().AddDate(0, 0, 30)

	_, err := svc.Create(ctx, testActor, &models.IRSNotice{NoticeType: "CP14", ResponseDue: due})
	assert.Error(t, err, "missing client")

	_, err = svc.Create(ctx, testActor, &models.IRSNotice{ClientID: client.ID, ResponseDue: due})
	assert.Error(t, err, "missing notice type")

	_, err = svc.Create(ctx, testActor, &models.IRSNotice{ClientID: client.ID, NoticeType: "CP14"})
	assert.Error(t, err, "missing response due date")

	_, err = svc.Create(ctx, testActor, &models.IRSNotice{ClientID: "ghost", NoticeType: "CP14", ResponseDue: due})
	assert.Error(t, err, "unknown client")
}

func TestNoticeStatusWorkflow(t *testing.T) {
	store := newMemStore()
	notice := seedNotice(t, store, "CP2000")
	svc := newNoticeService(store)
	ctx := context.Background()

	n, err := svc.UpdateStatus(ctx, testActor, notice.ID, models.NoticeInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.NoticeInProgress, n.Status)

	_, err = svc.UpdateStatus(ctx, testActor, notice.ID, models.NoticeReceived)
	assert.Error(t, err, "no path back to RECEIVED")
}
