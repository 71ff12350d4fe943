package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Intake ────────────────────────────────────────────────────────
	ErrEmailRequired      ErrCode = "EMAIL_REQUIRED"
	ErrAssessmentNotFound ErrCode = "ASSESSMENT_NOT_FOUND"

	// ─── Attempt lifecycle ─────────────────────────────────────────────
	ErrSessionNotFound     ErrCode = "SESSION_NOT_FOUND"
	ErrAttemptNotActive    ErrCode = "ATTEMPT_NOT_ACTIVE"
	ErrAttemptNotCompleted ErrCode = "ATTEMPT_NOT_COMPLETED"
	ErrQuestionNotFound    ErrCode = "QUESTION_NOT_FOUND"
	ErrSubmitFailed        ErrCode = "SUBMIT_FAILED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrUpstreamUnavailable ErrCode = "UPSTREAM_UNAVAILABLE"
	ErrInternal            ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid identifier format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrEmailRequired:
		return "An email address is required to start the assessment."
	case ErrAssessmentNotFound:
		return "Assessment not found or no longer active."
	case ErrSessionNotFound:
		return "Attempt session not found. It may have expired."
	case ErrAttemptNotActive:
		return "This attempt is no longer in progress."
	case ErrAttemptNotCompleted:
		return "Results are available only after the attempt is completed."
	case ErrQuestionNotFound:
		return "Question is not part of this assessment."
	case ErrSubmitFailed:
		return "Submission failed. Your answers are safe — please retry."
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."
	case ErrUpstreamUnavailable:
		return "The assessment service is temporarily unavailable."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
