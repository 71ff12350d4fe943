package attempt

import "errors"

var (
	// ErrEmailRequired rejects intake before any network call is made.
	ErrEmailRequired = errors.New("candidate email is required")

	// ErrAlreadyStarted guards against a second intake on a live session.
	ErrAlreadyStarted = errors.New("attempt already started")

	// ErrNotInProgress rejects navigation and answer mutations outside the
	// in-progress state.
	ErrNotInProgress = errors.New("attempt is not in progress")

	// ErrUnknownQuestion rejects answers for questions outside the attempt.
	ErrUnknownQuestion = errors.New("question is not part of this assessment")

	// ErrNotCompleted rejects a result fetch before the attempt completed.
	ErrNotCompleted = errors.New("attempt is not completed")
)
