package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hireproof/assess-gateway/internal/attempt"
	"github.com/hireproof/assess-gateway/internal/model"
	"github.com/hireproof/assess-gateway/internal/response"
	"github.com/hireproof/assess-gateway/internal/upstream"
	"github.com/hireproof/assess-gateway/internal/validator"
)

// AttemptHandler exposes the attempt session commands and read model over
// HTTP. It holds no state of its own; everything lives in the session
// manager.
type AttemptHandler struct {
	manager *attempt.Manager
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(manager *attempt.Manager) *AttemptHandler {
	return &AttemptHandler{manager: manager}
}

// StartAttempt godoc
// POST /api/v1/attempts
// Intake: resolves the share token, creates the attempt upstream and starts
// the countdown.
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	var req model.StartAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sess, err := h.manager.StartAttempt(c.Request.Context(), req.ShareToken, req.CandidateEmail, req.CandidateName)
	if err != nil {
		switch {
		case errors.Is(err, attempt.ErrEmailRequired):
			response.Fail(c, http.StatusBadRequest, response.ErrEmailRequired)
		case upstream.IsNotFound(err):
			response.Fail(c, http.StatusNotFound, response.ErrAssessmentNotFound)
		default:
			response.Fail(c, http.StatusBadGateway, response.ErrUpstreamUnavailable)
		}
		return
	}

	response.Success(c, http.StatusCreated, sess.Snapshot())
}

// GetAttempt godoc
// GET /api/v1/attempts/:session_id
// Returns the read model snapshot the UI renders.
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, sess.Snapshot())
}

// GetCurrentQuestion godoc
// GET /api/v1/attempts/:session_id/questions/current
// Returns the focused question with its full prompt.
func (h *AttemptHandler) GetCurrentQuestion(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	q, err := sess.CurrentQuestion()
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrQuestionNotFound)
		return
	}
	response.Success(c, http.StatusOK, q)
}

// Navigate godoc
// POST /api/v1/attempts/:session_id/navigate
// Moves the cursor (clamped) and opportunistically flushes the question
// being left.
func (h *AttemptHandler) Navigate(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req model.NavigateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	var (
		cursor int
		err    error
	)
	ctx := c.Request.Context()
	switch {
	case req.Index != nil:
		cursor, err = sess.Navigate(ctx, *req.Index)
	case req.Direction == "next":
		cursor, err = sess.Next(ctx)
	case req.Direction == "previous":
		cursor, err = sess.Previous(ctx)
	default:
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	if err != nil {
		response.Fail(c, http.StatusConflict, response.ErrAttemptNotActive)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cursor": cursor})
}

// PutAnswer godoc
// PUT /api/v1/attempts/:session_id/answers/:question_id
// Replaces the local draft. No upstream I/O happens here.
func (h *AttemptHandler) PutAnswer(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	questionID, ok := h.questionID(c)
	if !ok {
		return
	}

	var req model.SaveAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := sess.SetAnswer(questionID, req.AnswerText); err != nil {
		h.failMutation(c, err)
		return
	}
	if req.ExplanationText != nil {
		if err := sess.SetExplanation(questionID, *req.ExplanationText); err != nil {
			h.failMutation(c, err)
			return
		}
	}
	response.Success(c, http.StatusOK, gin.H{"question_id": questionID})
}

// SaveAnswer godoc
// POST /api/v1/attempts/:session_id/answers/:question_id/save
// Flushes one draft upstream. A flush failure is a non-fatal notice: the
// draft stays local and eligible for a later flush.
func (h *AttemptHandler) SaveAnswer(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	questionID, ok := h.questionID(c)
	if !ok {
		return
	}

	err := sess.SaveAnswer(c.Request.Context(), questionID)
	if err != nil {
		if errors.Is(err, attempt.ErrNotInProgress) || errors.Is(err, attempt.ErrUnknownQuestion) {
			h.failMutation(c, err)
			return
		}
		// Transient upstream failure: candidate is not blocked.
		response.Success(c, http.StatusOK, gin.H{"question_id": questionID, "saved": false})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"question_id": questionID, "saved": true})
}

// Submit godoc
// POST /api/v1/attempts/:session_id/submit
// Drives (or retries) the submission path. Idempotent with respect to timer
// expiry: a duplicate trigger is a no-op.
func (h *AttemptHandler) Submit(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	if err := sess.RequestSubmit(c.Request.Context()); err != nil {
		// The machine stays in submitting; the same endpoint retries.
		response.FailWithDetail(c, http.StatusBadGateway, response.ErrSubmitFailed, err.Error())
		return
	}
	response.Success(c, http.StatusOK, sess.Snapshot())
}

// GetResult godoc
// GET /api/v1/attempts/:session_id/result
// Fetches the post-completion result from the upstream API.
func (h *AttemptHandler) GetResult(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	res, err := sess.Result(c.Request.Context())
	if err != nil {
		if errors.Is(err, attempt.ErrNotCompleted) {
			response.Fail(c, http.StatusConflict, response.ErrAttemptNotCompleted)
			return
		}
		response.Fail(c, http.StatusBadGateway, response.ErrUpstreamUnavailable)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *AttemptHandler) session(c *gin.Context) (*attempt.Session, bool) {
	id, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return nil, false
	}
	sess, ok := h.manager.Get(id)
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		return nil, false
	}
	return sess, true
}

func (h *AttemptHandler) questionID(c *gin.Context) (int, bool) {
	var uri struct {
		QuestionID int `uri:"question_id" binding:"required,min=1"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return uri.QuestionID, true
}

func (h *AttemptHandler) failMutation(c *gin.Context, err error) {
	switch {
	case errors.Is(err, attempt.ErrUnknownQuestion):
		response.Fail(c, http.StatusNotFound, response.ErrQuestionNotFound)
	case errors.Is(err, attempt.ErrNotInProgress):
		response.Fail(c, http.StatusConflict, response.ErrAttemptNotActive)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
