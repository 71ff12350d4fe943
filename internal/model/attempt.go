package model

import "time"

// AttemptStatus enumerates attempt lifecycle states.
type AttemptStatus string

const (
	StatusNotStarted AttemptStatus = "not_started"
	StatusInProgress AttemptStatus = "in_progress"
	StatusSubmitting AttemptStatus = "submitting"
	StatusCompleted  AttemptStatus = "completed"
	StatusExpired    AttemptStatus = "expired"
)

// Attempt is one candidate's run through one assessment, created by the
// upstream API at intake.
type Attempt struct {
	ID             int           `json:"id"`
	AssessmentID   int           `json:"assessment_id"`
	CandidateEmail string        `json:"candidate_email"`
	CandidateName  string        `json:"candidate_name,omitempty"`
	StartedAt      time.Time     `json:"started_at"`
	MaxScore       int           `json:"max_score"`
	Status         AttemptStatus `json:"status"`
}

// AttemptResult is the post-completion result view served by the upstream
// API for the results page.
type AttemptResult struct {
	ID             int        `json:"id"`
	AssessmentID   int        `json:"assessment_id"`
	CandidateEmail string     `json:"candidate_email"`
	Score          *float64   `json:"score,omitempty"`
	MaxScore       int        `json:"max_score"`
	Status         string     `json:"status"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// StartAttemptRequest is the intake payload. Email format is validated here
// at the presentation boundary; the session machine only requires it to be
// non-empty.
type StartAttemptRequest struct {
	ShareToken     string `json:"share_token" binding:"required"`
	CandidateEmail string `json:"candidate_email" binding:"required,email"`
	CandidateName  string `json:"candidate_name" binding:"omitempty,max=255"`
}

// NavigateRequest moves the cursor either to an absolute index or one step.
type NavigateRequest struct {
	Index     *int   `json:"index" binding:"omitempty,min=0"`
	Direction string `json:"direction" binding:"omitempty,oneof=next previous"`
}

// SaveAnswerRequest replaces the draft for one question.
type SaveAnswerRequest struct {
	AnswerText      string  `json:"answer_text"`
	ExplanationText *string `json:"explanation_text"`
}
