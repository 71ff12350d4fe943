package attempt

import (
	"sort"

	"github.com/hireproof/assess-gateway/internal/model"
)

// Navigator sequences the questions of one attempt and owns the cursor.
// Out-of-range moves are silently clamped, never an error: the UI disables
// the boundary buttons, but the contract stays defensive. The navigator
// knows nothing about answers.
type Navigator struct {
	questions []model.AssessmentQuestion
	cursor    int
}

// NewNavigator copies qs ordered by their assigned order value.
func NewNavigator(qs []model.AssessmentQuestion) *Navigator {
	ordered := make([]model.AssessmentQuestion, len(qs))
	copy(ordered, qs)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })
	return &Navigator{questions: ordered}
}

// GoTo sets the cursor to index if it is in range; otherwise no-op.
func (n *Navigator) GoTo(index int) {
	if index >= 0 && index < len(n.questions) {
		n.cursor = index
	}
}

// Next advances the cursor one question, clamped at the end.
func (n *Navigator) Next() { n.GoTo(n.cursor + 1) }

// Previous moves the cursor back one question, clamped at the start.
func (n *Navigator) Previous() { n.GoTo(n.cursor - 1) }

// Current returns the focused question. ok is false for an empty attempt.
func (n *Navigator) Current() (model.AssessmentQuestion, bool) {
	if len(n.questions) == 0 {
		return model.AssessmentQuestion{}, false
	}
	return n.questions[n.cursor], true
}

// Cursor returns the current index.
func (n *Navigator) Cursor() int { return n.cursor }

// Count returns the number of questions.
func (n *Navigator) Count() int { return len(n.questions) }

// Questions returns the ordered question list.
func (n *Navigator) Questions() []model.AssessmentQuestion { return n.questions }

// Contains reports whether questionID belongs to this attempt.
func (n *Navigator) Contains(questionID int) bool {
	for _, q := range n.questions {
		if q.QuestionID == questionID {
			return true
		}
	}
	return false
}
