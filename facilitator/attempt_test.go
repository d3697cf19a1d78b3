package facilitator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttemptAdvancesInOrder(t *testing.T) {
	att := newAttempt()
	assert.NotEmpty(t, att.id)
	assert.Equal(t, StateReceived, att.state)

	for _, next := range []AttemptState{
		StateDecoded, StateReplayChecked, StateVerified,
		StateSubmitted, StateConfirmed, StateCompleted,
	} {
		require.NoError(t, att.advance(next))
		assert.Equal(t, next, att.state)
	}

	// Completed is terminal.
	err := att.advance(StateDecoded)
	require.Error(t, err)
	assert.Equal(t, ErrCodeUnexpectedStatus, AsPaymentError(err).Code)
}

func TestAttemptRejectsSkippedStages(t *testing.T) {
	att := newAttempt()
	err := att.advance(StateVerified)
	require.Error(t, err)
	assert.Equal(t, ErrCodeUnexpectedStatus, AsPaymentError(err).Code)
}

func TestAttemptFailureStates(t *testing.T) {
	tests := []struct {
		code string
		want AttemptState
	}{
		{ErrCodeInvalidRequest, StateRejected},
		{ErrCodeMalformedTransaction, StateRejected},
		{ErrCodeReplayDetected, StateRejected},
		{ErrCodeNoTransfer, StateRejected},
		{ErrCodeMemoMismatch, StateRejected},
		{ErrCodeSubmissionFailed, StateFailed},
		{ErrCodeConfirmationFailed, StateFailed},
		{ErrCodeUnexpectedStatus, StateFailed},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			att := newAttempt()
			att.fail(NewPaymentError(tt.code, "boom", nil))
			assert.Equal(t, tt.want, att.state)
		})
	}
}
