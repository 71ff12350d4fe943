package attempt

import "github.com/hireproof/assess-gateway/internal/model"

// QuestionState is the per-question slice of the read model: enough for the
// navigation sidebar without re-sending prompt bodies on every poll.
type QuestionState struct {
	QuestionID int  `json:"question_id"`
	Order      int  `json:"order"`
	Points     int  `json:"points"`
	Answered   bool `json:"answered"`
}

// ReadModel is the snapshot the presentation layer renders.
type ReadModel struct {
	SessionID            string              `json:"session_id"`
	AttemptID            int                 `json:"attempt_id,omitempty"`
	AssessmentID         int                 `json:"assessment_id"`
	Title                string              `json:"title"`
	Description          string              `json:"description,omitempty"`
	DifficultyLevel      string              `json:"difficulty_level,omitempty"`
	Status               model.AttemptStatus `json:"status"`
	RemainingSeconds     int                 `json:"remaining_seconds"`
	TotalDurationMinutes int                 `json:"total_duration_minutes"`
	MaxScore             int                 `json:"max_score"`
	Cursor               int                 `json:"cursor"`
	QuestionCount        int                 `json:"question_count"`
	Questions            []QuestionState     `json:"questions"`
	LastError            string              `json:"last_error,omitempty"`
}

// Snapshot returns a consistent view of the session for rendering.
func (s *Session) Snapshot() ReadModel {
	s.mu.Lock()
	defer s.mu.Unlock()

	rm := ReadModel{
		SessionID:            s.id.String(),
		AssessmentID:         s.assessment.ID,
		Title:                s.assessment.Title,
		Description:          s.assessment.Description,
		DifficultyLevel:      s.assessment.DifficultyLevel,
		Status:               s.status,
		RemainingSeconds:     s.remaining,
		TotalDurationMinutes: s.assessment.TotalDuration,
		MaxScore:             s.assessment.MaxScore,
		Cursor:               s.nav.Cursor(),
		QuestionCount:        s.nav.Count(),
		LastError:            s.lastErr,
	}
	if s.attempt != nil {
		rm.AttemptID = s.attempt.ID
	}

	rm.Questions = make([]QuestionState, 0, s.nav.Count())
	for _, q := range s.nav.Questions() {
		rm.Questions = append(rm.Questions, QuestionState{
			QuestionID: q.QuestionID,
			Order:      q.Order,
			Points:     q.Points,
			Answered:   s.answers.IsAnswered(q.QuestionID),
		})
	}
	return rm
}
