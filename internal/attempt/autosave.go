package attempt

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hireproof/assess-gateway/internal/model"
	"github.com/hireproof/assess-gateway/internal/upstream"
)

// AutosaveCoordinator decouples "the candidate typed something" from "the
// server has it". FlushOne is best-effort: a failed flush is logged and the
// draft stays eligible for a later flush. FlushAll is the one flush the
// submission path awaits; it walks questions in assessment order so retried
// submissions replay identically, and upstream upsert semantics make the
// replay safe.
type AutosaveCoordinator struct {
	client    upstream.ClientInterface
	store     *AnswerStore
	questions []model.AssessmentQuestion // assessment order
	attemptID int
	log       zerolog.Logger
}

// NewAutosaveCoordinator creates a coordinator for one attempt.
func NewAutosaveCoordinator(
	client upstream.ClientInterface,
	store *AnswerStore,
	questions []model.AssessmentQuestion,
	attemptID int,
	log zerolog.Logger,
) *AutosaveCoordinator {
	return &AutosaveCoordinator{
		client:    client,
		store:     store,
		questions: questions,
		attemptID: attemptID,
		log:       log.With().Str("component", "autosave").Int("attempt_id", attemptID).Logger(),
	}
}

// FlushOne sends the current draft for questionID upstream. No draft is a
// no-op. The returned error is informational; the draft is never discarded.
func (a *AutosaveCoordinator) FlushOne(ctx context.Context, questionID int) error {
	draft, ok := a.store.Draft(questionID)
	if !ok {
		return nil
	}

	if err := a.client.UpsertAnswer(ctx, a.attemptID, questionID, wireText(draft)); err != nil {
		a.log.Warn().Err(err).Int("question_id", questionID).Msg("Autosave failed, draft retained")
		return fmt.Errorf("flush question %d: %w", questionID, err)
	}

	a.log.Debug().Int("question_id", questionID).Msg("Answer flushed")
	return nil
}

// FlushAll flushes every answered question in assessment order, skipping
// drafts whose trimmed text is empty. It stops at the first failure so the
// caller can surface a retryable error.
func (a *AutosaveCoordinator) FlushAll(ctx context.Context) error {
	for _, q := range a.questions {
		if !a.store.IsAnswered(q.QuestionID) {
			continue
		}
		if err := a.FlushOne(ctx, q.QuestionID); err != nil {
			return err
		}
	}
	return nil
}

// wireText folds the explanation into the single text field the upstream
// answer endpoint accepts.
func wireText(d model.AnswerDraft) string {
	if strings.TrimSpace(d.ExplanationText) == "" {
		return d.AnswerText
	}
	return d.AnswerText + "\n\nExplanation:\n" + d.ExplanationText
}
