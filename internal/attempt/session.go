package attempt

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hireproof/assess-gateway/internal/model"
	"github.com/hireproof/assess-gateway/internal/upstream"
)

// EventType identifies a session event pushed to subscribers.
type EventType string

const (
	EventTick    EventType = "tick"
	EventExpired EventType = "expired"
	EventStatus  EventType = "status"
)

// Event is the wire shape streamed to the candidate UI.
type Event struct {
	Type             EventType           `json:"event"`
	RemainingSeconds int                 `json:"remaining_seconds"`
	Status           model.AttemptStatus `json:"status"`
	Error            string              `json:"error,omitempty"`
}

// Session is the state machine for one candidate's attempt: intake →
// in_progress → submitting → completed, with timer expiry forcing the
// in_progress → submitting edge. One mutex serializes status transitions so
// the manual-submit/expiry race resolves to exactly one submission, as the
// two triggers are expected to race in normal operation.
type Session struct {
	mu sync.Mutex

	id         uuid.UUID
	assessment *model.Assessment
	attempt    *model.Attempt
	status     model.AttemptStatus
	starting   bool
	remaining  int
	lastErr    string
	inFlight   bool
	lastActive time.Time

	answers  *AnswerStore
	nav      *Navigator
	clock    *Clock
	autosave *AutosaveCoordinator
	client   upstream.ClientInterface
	log      zerolog.Logger

	subs map[chan Event]struct{}
}

// NewSession creates a session in the intake state for the given assessment.
func NewSession(assessment *model.Assessment, client upstream.ClientInterface, log zerolog.Logger) *Session {
	s := &Session{
		id:         uuid.New(),
		assessment: assessment,
		status:     model.StatusNotStarted,
		remaining:  assessment.TotalDuration * 60,
		nav:        NewNavigator(assessment.Questions),
		client:     client,
		lastActive: time.Now(),
		subs:       make(map[chan Event]struct{}),
	}
	s.log = log.With().
		Str("component", "session").
		Str("session_id", s.id.String()).
		Int("assessment_id", assessment.ID).
		Logger()
	s.answers = NewAnswerStore(nil)
	s.clock = NewClock(s.onTick, s.onExpired)
	return s
}

// SetClockInterval shortens the tick interval. Only for tests; call before
// Start.
func (s *Session) SetClockInterval(d time.Duration) {
	s.clock.SetInterval(d)
}

// ID returns the gateway-assigned session id.
func (s *Session) ID() uuid.UUID { return s.id }

// Start performs intake: it creates the attempt upstream and starts the
// countdown. Email must be non-empty; the check runs before any network
// call and a rejection leaves the session in the intake state.
func (s *Session) Start(ctx context.Context, email, name string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmailRequired
	}

	// The starting flag covers the upstream call, so a concurrent intake on
	// the same session cannot create a second attempt.
	s.mu.Lock()
	if s.status != model.StatusNotStarted || s.starting {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.starting = true
	s.mu.Unlock()

	att, err := s.client.CreateAttempt(ctx, s.assessment.ID, email, name)
	if err != nil {
		s.mu.Lock()
		s.starting = false
		s.mu.Unlock()
		return fmt.Errorf("start attempt: %w", err)
	}

	s.mu.Lock()
	s.starting = false
	s.attempt = att
	s.attempt.Status = model.StatusInProgress
	s.status = model.StatusInProgress
	s.remaining = s.assessment.TotalDuration * 60
	s.autosave = NewAutosaveCoordinator(s.client, s.answers, s.nav.Questions(), att.ID, s.log)
	s.touchLocked()
	s.mu.Unlock()

	s.clock.Start(s.assessment.TotalDuration * 60)
	s.log.Info().Int("attempt_id", att.ID).Str("candidate_email", email).Msg("Attempt started")
	s.publish(Event{Type: EventStatus, Status: model.StatusInProgress, RemainingSeconds: s.Remaining()})
	return nil
}

// SetAnswer replaces the draft answer for questionID. Permitted only while
// in progress.
func (s *Session) SetAnswer(questionID int, text string) error {
	return s.mutate(questionID, func() { s.answers.SetAnswer(questionID, text) })
}

// SetExplanation sets the auxiliary explanation for a coding question.
func (s *Session) SetExplanation(questionID int, text string) error {
	return s.mutate(questionID, func() { s.answers.SetExplanation(questionID, text) })
}

func (s *Session) mutate(questionID int, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != model.StatusInProgress {
		return ErrNotInProgress
	}
	if !s.nav.Contains(questionID) {
		return ErrUnknownQuestion
	}
	fn()
	s.touchLocked()
	return nil
}

// Navigate moves the cursor to index (clamped) and opportunistically flushes
// the question being left. The flush is best-effort; its failure never blocks
// navigation.
func (s *Session) Navigate(ctx context.Context, index int) (int, error) {
	return s.move(ctx, func() { s.nav.GoTo(index) })
}

// Next moves one question forward.
func (s *Session) Next(ctx context.Context) (int, error) {
	return s.move(ctx, s.nav.Next)
}

// Previous moves one question back.
func (s *Session) Previous(ctx context.Context) (int, error) {
	return s.move(ctx, s.nav.Previous)
}

func (s *Session) move(ctx context.Context, fn func()) (int, error) {
	s.mu.Lock()
	if s.status != model.StatusInProgress {
		cursor := s.nav.Cursor()
		s.mu.Unlock()
		return cursor, ErrNotInProgress
	}
	left, hadCurrent := s.nav.Current()
	before := s.nav.Cursor()
	fn()
	after := s.nav.Cursor()
	s.touchLocked()
	autosave := s.autosave
	s.mu.Unlock()

	if after != before && hadCurrent && autosave != nil {
		_ = autosave.FlushOne(ctx, left.QuestionID)
	}
	return after, nil
}

// SaveAnswer explicitly flushes one question's draft upstream. Best-effort:
// the error is surfaced as a non-fatal notice and the draft is retained
// either way.
func (s *Session) SaveAnswer(ctx context.Context, questionID int) error {
	s.mu.Lock()
	if s.status != model.StatusInProgress {
		s.mu.Unlock()
		return ErrNotInProgress
	}
	if !s.nav.Contains(questionID) {
		s.mu.Unlock()
		return ErrUnknownQuestion
	}
	s.touchLocked()
	autosave := s.autosave
	s.mu.Unlock()

	return autosave.FlushOne(ctx, questionID)
}

// RequestSubmit drives the candidate-initiated submission. A second call, or
// a clock expiry racing it, is a no-op; whichever trigger arrives first wins.
// While a failed submission is pending, the same call retries the whole
// flush-then-complete sequence.
func (s *Session) RequestSubmit(ctx context.Context) error {
	return s.submit(ctx, false)
}

func (s *Session) onTick(remaining int) {
	s.mu.Lock()
	s.remaining = remaining
	status := s.status
	s.mu.Unlock()
	s.publish(Event{Type: EventTick, RemainingSeconds: remaining, Status: status})
}

func (s *Session) onExpired() {
	s.publish(Event{Type: EventExpired, RemainingSeconds: 0, Status: model.StatusExpired})
	if err := s.submit(context.Background(), true); err != nil {
		s.log.Error().Err(err).Msg("Forced submission failed, awaiting retry")
	}
}

// submit is the single guarded submission path. The status check, not
// timing, guarantees the in_progress → submitting edge fires at most once.
func (s *Session) submit(ctx context.Context, timedOut bool) error {
	s.mu.Lock()
	switch {
	case s.status == model.StatusInProgress:
		// First trigger wins.
	case (s.status == model.StatusSubmitting || s.status == model.StatusExpired) &&
		!s.inFlight && s.lastErr != "":
		// Retry of a failed submission, from the top.
	default:
		s.mu.Unlock()
		return nil
	}

	if timedOut {
		s.status = model.StatusExpired
	} else if s.status == model.StatusInProgress {
		s.status = model.StatusSubmitting
	}
	s.inFlight = true
	s.lastErr = ""
	s.touchLocked()
	status := s.status
	attemptID := s.attempt.ID
	autosave := s.autosave
	s.mu.Unlock()

	// The candidate has committed (or time is up); no further ticks.
	s.clock.Stop()
	s.publish(Event{Type: EventStatus, Status: status, RemainingSeconds: s.Remaining()})
	s.log.Info().Bool("timed_out", timedOut).Msg("Submission started")

	// Strict order: grading reads answers at completion time, so every
	// draft must land before the completion call.
	err := autosave.FlushAll(ctx)
	if err == nil {
		err = s.client.CompleteAttempt(ctx, attemptID)
	}

	if err != nil {
		s.mu.Lock()
		s.lastErr = err.Error()
		s.inFlight = false
		status = s.status
		s.mu.Unlock()
		s.publish(Event{Type: EventStatus, Status: status, Error: err.Error()})
		return fmt.Errorf("submit attempt: %w", err)
	}

	s.mu.Lock()
	s.status = model.StatusCompleted
	s.attempt.Status = model.StatusCompleted
	s.inFlight = false
	s.mu.Unlock()
	s.publish(Event{Type: EventStatus, Status: model.StatusCompleted})
	s.log.Info().Int("attempt_id", attemptID).Msg("Attempt completed")
	return nil
}

// Result fetches the post-completion result from the upstream API.
func (s *Session) Result(ctx context.Context) (*model.AttemptResult, error) {
	s.mu.Lock()
	if s.status != model.StatusCompleted {
		s.mu.Unlock()
		return nil, ErrNotCompleted
	}
	attemptID := s.attempt.ID
	s.mu.Unlock()

	res, err := s.client.FetchAttemptResult(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("fetch result: %w", err)
	}
	return res, nil
}

// Status returns the current lifecycle state.
func (s *Session) Status() model.AttemptStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Remaining returns the last observed remaining-seconds value.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// LastActive returns the time of the last candidate interaction.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// CurrentQuestion returns the focused question.
func (s *Session) CurrentQuestion() (model.AssessmentQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.nav.Current()
	if !ok {
		return model.AssessmentQuestion{}, ErrUnknownQuestion
	}
	return q, nil
}

func (s *Session) touchLocked() {
	s.lastActive = time.Now()
}

// Subscribe registers an event channel for the live stream. The returned
// function unsubscribes and closes the channel. Slow subscribers drop events
// rather than stalling the session.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
}

func (s *Session) publish(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
