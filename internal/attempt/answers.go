package attempt

import (
	"strings"
	"sync"

	"github.com/hireproof/assess-gateway/internal/model"
)

// AnswerStore holds the draft answers for one attempt, keyed by question id.
// At most one draft exists per question. The store performs no I/O; every
// mutation invokes the notify hook so the autosave coordinator can observe
// changes. The store carries its own lock: flushes read drafts outside the
// session mutex, concurrently with answer writes from other requests on the
// same session.
type AnswerStore struct {
	mu     sync.RWMutex
	drafts map[int]*model.AnswerDraft
	notify func(questionID int)
}

// NewAnswerStore creates an empty store. notify may be nil.
func NewAnswerStore(notify func(questionID int)) *AnswerStore {
	return &AnswerStore{
		drafts: make(map[int]*model.AnswerDraft),
		notify: notify,
	}
}

// SetAnswer replaces (creating if absent) the answer text for questionID.
// No content validation: empty string is a valid stored value.
func (s *AnswerStore) SetAnswer(questionID int, text string) {
	s.mu.Lock()
	s.draftLocked(questionID).AnswerText = text
	s.mu.Unlock()
	s.changed(questionID)
}

// SetExplanation sets the auxiliary explanation field. Independent of the
// answer text; setting one never touches the other.
func (s *AnswerStore) SetExplanation(questionID int, text string) {
	s.mu.Lock()
	s.draftLocked(questionID).ExplanationText = text
	s.mu.Unlock()
	s.changed(questionID)
}

// Answer returns the stored answer text and whether a draft exists.
func (s *AnswerStore) Answer(questionID int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[questionID]
	if !ok {
		return "", false
	}
	return d.AnswerText, true
}

// Draft returns a copy of the draft for questionID.
func (s *AnswerStore) Draft(questionID int) (model.AnswerDraft, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[questionID]
	if !ok {
		return model.AnswerDraft{}, false
	}
	return *d, true
}

// IsAnswered reports whether a draft exists with non-blank answer text.
// "Saved but blank" counts as unanswered; this is the contract the progress
// indicator relies on.
func (s *AnswerStore) IsAnswered(questionID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[questionID]
	return ok && strings.TrimSpace(d.AnswerText) != ""
}

// Len returns the number of drafts, answered or not.
func (s *AnswerStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drafts)
}

func (s *AnswerStore) draftLocked(questionID int) *model.AnswerDraft {
	d, ok := s.drafts[questionID]
	if !ok {
		d = &model.AnswerDraft{QuestionID: questionID}
		s.drafts[questionID] = d
	}
	return d
}

// changed runs outside the lock so the hook may call back into the store.
func (s *AnswerStore) changed(questionID int) {
	if s.notify != nil {
		s.notify(questionID)
	}
}
