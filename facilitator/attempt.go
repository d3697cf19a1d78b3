package facilitator

import (
	"github.com/google/uuid"
)

// AttemptState is a stage of a single settlement attempt.
type AttemptState string

const (
	StateReceived      AttemptState = "received"
	StateDecoded       AttemptState = "decoded"
	StateReplayChecked AttemptState = "replay_checked"
	StateVerified      AttemptState = "verified"
	StateSubmitted     AttemptState = "submitted"
	StateConfirmed     AttemptState = "confirmed"
	StateCompleted     AttemptState = "completed"
	StateRejected      AttemptState = "rejected"
	StateFailed        AttemptState = "failed"
)

// forward progression through the pipeline. Rejected/Failed are reached only
// via fail(); Completed, Rejected and Failed are absorbing.
var nextState = map[AttemptState]AttemptState{
	StateReceived:      StateDecoded,
	StateDecoded:       StateReplayChecked,
	StateReplayChecked: StateVerified,
	StateVerified:      StateSubmitted,
	StateSubmitted:     StateConfirmed,
	StateConfirmed:     StateCompleted,
}

// attempt tracks one in-flight settlement. Attempts are owned by a single
// request and never shared, so no locking is needed.
type attempt struct {
	id    string
	state AttemptState
}

func newAttempt() *attempt {
	return &attempt{
		id:    uuid.NewString(),
		state: StateReceived,
	}
}

// advance moves the attempt to the next pipeline stage and asserts it is the
// expected one. A mismatch means the pipeline itself is broken, which is an
// unexpected_status failure, not a client error.
func (a *attempt) advance(to AttemptState) error {
	want, ok := nextState[a.state]
	if !ok || want != to {
		return NewPaymentError(ErrCodeUnexpectedStatus,
			"invalid state transition "+string(a.state)+" -> "+string(to), nil)
	}
	a.state = to
	return nil
}

// fail moves the attempt to its terminal failure state: Rejected for checks
// before submission, Failed at or after it. There is no transition back and
// no retry from either.
func (a *attempt) fail(err *PaymentError) {
	switch err.Code {
	case ErrCodeSubmissionFailed, ErrCodeConfirmationFailed:
		a.state = StateFailed
	case ErrCodeUnexpectedStatus:
		a.state = StateFailed
	default:
		a.state = StateRejected
	}
}
