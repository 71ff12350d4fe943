package attempt_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hireproof/assess-gateway/internal/model"
)

// fakeUpstream records calls so tests can assert flush ordering and
// completion counts.
type fakeUpstream struct {
	mu sync.Mutex

	assessment *model.Assessment

	creates   int
	completes int
	upserts   []upsertCall

	createErr      error
	createDelay    time.Duration
	upsertFailures map[int]int // question id → remaining failures
	completeFails  int         // remaining failures
}

type upsertCall struct {
	AttemptID  int
	QuestionID int
	AnswerText string
}

func newFakeUpstream(a *model.Assessment) *fakeUpstream {
	return &fakeUpstream{
		assessment:     a,
		upsertFailures: make(map[int]int),
	}
}

func (f *fakeUpstream) FetchSharedAssessment(_ context.Context, _ string) (*model.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.assessment == nil {
		return nil, errors.New("assessment not found")
	}
	return f.assessment, nil
}

func (f *fakeUpstream) CreateAttempt(_ context.Context, assessmentID int, email, name string) (*model.Attempt, error) {
	f.mu.Lock()
	delay := f.createDelay
	f.mu.Unlock()
	time.Sleep(delay)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &model.Attempt{
		ID:             4201,
		AssessmentID:   assessmentID,
		CandidateEmail: email,
		CandidateName:  name,
		StartedAt:      time.Now(),
		MaxScore:       f.assessment.MaxScore,
		Status:         model.StatusInProgress,
	}, nil
}

func (f *fakeUpstream) UpsertAnswer(_ context.Context, attemptID, questionID int, answerText string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n := f.upsertFailures[questionID]; n > 0 {
		f.upsertFailures[questionID] = n - 1
		return errors.New("upstream unavailable")
	}
	f.upserts = append(f.upserts, upsertCall{AttemptID: attemptID, QuestionID: questionID, AnswerText: answerText})
	return nil
}

func (f *fakeUpstream) CompleteAttempt(_ context.Context, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completeFails > 0 {
		f.completeFails--
		return errors.New("upstream unavailable")
	}
	f.completes++
	return nil
}

func (f *fakeUpstream) FetchAttemptResult(_ context.Context, attemptID int) (*model.AttemptResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	score := 12.5
	now := time.Now()
	return &model.AttemptResult{
		ID:             attemptID,
		AssessmentID:   f.assessment.ID,
		CandidateEmail: "jordan@example.com",
		Score:          &score,
		MaxScore:       f.assessment.MaxScore,
		Status:         string(model.StatusCompleted),
		StartedAt:      now.Add(-time.Minute),
		CompletedAt:    &now,
	}, nil
}

func (f *fakeUpstream) upsertedQuestionIDs() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int, 0, len(f.upserts))
	for _, u := range f.upserts {
		ids = append(ids, u.QuestionID)
	}
	return ids
}

func (f *fakeUpstream) completeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completes
}

func (f *fakeUpstream) createCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates
}

// threeQuestionAssessment builds the fixture used across session tests:
// one minute, three questions ordered 1..3.
func threeQuestionAssessment() *model.Assessment {
	return &model.Assessment{
		ID:              7,
		Title:           "Backend Debugging Screen",
		DifficultyLevel: "Medium",
		TotalDuration:   1,
		MaxScore:        30,
		Questions: []model.AssessmentQuestion{
			{ID: 11, QuestionID: 101, Order: 1, Points: 10, Question: model.Question{ID: 101, Title: "Nil map write"}},
			{ID: 12, QuestionID: 102, Order: 2, Points: 10, Question: model.Question{ID: 102, Title: "Off-by-one"}},
			{ID: 13, QuestionID: 103, Order: 3, Points: 10, Question: model.Question{
				ID: 103, Title: "Race in counter", ProgrammingLanguage: "go",
			}},
		},
	}
}

// waitFor polls cond until it is true or the deadline passes.
func waitFor(cond func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}
