package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxpractice/internal/models"
)

func TestReturnTransitions(t *testing.T) {
	cases := []struct {
		from, to models.ReturnStatus
		ok       bool
	}{
		{models.ReturnNew, models.ReturnDocumentsPending, true},
		{models.ReturnNew, models.ReturnPreparation, true},
		{models.ReturnPreparation, models.ReturnReview, true},
		{models.ReturnReview, models.ReturnPreparation, true},
		{models.ReturnReadyToFile, models.ReturnFiled, true},
		{models.ReturnFiled, models.ReturnAccepted, true},
		{models.ReturnAccepted, models.ReturnCompleted, true},
		{models.ReturnOnHold, models.ReturnPreparation, true},

		{models.ReturnNew, models.ReturnFiled, false},
		{models.ReturnCompleted, models.ReturnNew, false},
		{models.ReturnFiled, models.ReturnPreparation, false},
	}
	for _, tc := range cases {
		err := CheckReturnTransition(tc.from, tc.to)
		if tc.ok {
			assert.NoError(t, err, "%s -> %s", tc.from, tc.to)
		} else {
			assert.Error(t, err, "%s -> %s", tc.from, tc.to)
		}
	}
}

func TestEveryWorkingStatusResumesFromHold(t *testing.T) {
	for s := range returnTransitions {
		if s == models.ReturnOnHold || s == models.ReturnCompleted {
			continue
		}
		assert.NoError(t, CheckReturnTransition(models.ReturnOnHold, s), "ON_HOLD -> %s", s)
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, from := range []models.ReturnStatus{models.ReturnCompleted} {
		for to := range returnTransitions {
			if to == from {
				continue
			}
			assert.Error(t, CheckReturnTransition(from, to), "%s -> %s", from, to)
		}
	}
	for _, from := range []models.TaskStatus{models.TaskCompleted, models.TaskCancelled} {
		for to := range taskTransitions {
			if to == from {
				continue
			}
			assert.Error(t, CheckTaskTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestUnknownTargetIsInvalid(t *testing.T) {
	err := CheckReturnTransition(models.ReturnNew, models.ReturnStatus("SHREDDED"))
	require.Error(t, err)

	var te *models.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, models.InvalidTarget, te.Kind)
}

func TestIllegalTransitionCarriesEndpoints(t *testing.T) {
	err := CheckNoticeTransition(models.NoticeReceived, models.NoticeClosed)
	require.Error(t, err)

	var te *models.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, models.IllegalTransition, te.Kind)
	assert.Equal(t, string(models.NoticeReceived), te.From)
	assert.Equal(t, string(models.NoticeClosed), te.To)
}

func TestCommunicationFailedCanRetry(t *testing.T) {
	assert.NoError(t, CheckCommunicationTransition(models.CommFailed, models.CommSent))
	assert.Error(t, CheckCommunicationTransition(models.CommRead, models.CommSent))
}
