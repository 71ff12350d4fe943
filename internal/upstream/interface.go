package upstream

import (
	"context"

	"github.com/hireproof/assess-gateway/internal/model"
)

// ClientInterface defines the operations the gateway requires of the
// assessment API. An interface so session and handler tests can substitute
// a mock implementation.
type ClientInterface interface {
	// FetchSharedAssessment resolves a share token to the full assessment
	// with its ordered question list.
	FetchSharedAssessment(ctx context.Context, shareToken string) (*model.Assessment, error)

	// CreateAttempt registers a new attempt for a candidate. Email is
	// required; name is optional.
	CreateAttempt(ctx context.Context, assessmentID int, email, name string) (*model.Attempt, error)

	// UpsertAnswer stores the current answer text for one question of an
	// attempt. Repeating the call with the same payload is safe.
	UpsertAnswer(ctx context.Context, attemptID, questionID int, answerText string) error

	// CompleteAttempt marks the attempt finished. Grading reads answers at
	// completion time, so all flushes must land before this call.
	CompleteAttempt(ctx context.Context, attemptID int) error

	// FetchAttemptResult returns the post-completion result view.
	FetchAttemptResult(ctx context.Context, attemptID int) (*model.AttemptResult, error)
}

// Ensure Client implements the interface.
var _ ClientInterface = (*Client)(nil)
