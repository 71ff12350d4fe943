package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/hireproof/assess-gateway/internal/attempt"
	ws "github.com/hireproof/assess-gateway/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams session events (ticks, expiry, status changes) to the
// candidate UI and accepts answer/navigate/submit actions on the same
// connection, so the browser countdown never drifts from the gateway clock.
type WSHandler struct {
	manager  *attempt.Manager
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(manager *attempt.Manager, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		manager:  manager,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// AttemptStream godoc
// WS /ws/v1/attempts/:session_id/stream
func (h *WSHandler) AttemptStream(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}

	sess, ok := h.manager.Get(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("session_id", sessionID.String()).Logger()
	wsLog.Info().Msg("Candidate connected")

	events, unsubscribe := sess.Subscribe()

	// One goroutine owns all writes; session events and action replies
	// funnel through out. Sends are non-blocking: a dead connection drops
	// messages instead of stalling the session.
	out := make(chan interface{}, 32)
	send := func(v interface{}) {
		select {
		case out <- v:
		default:
		}
	}

	forwarderDone := make(chan struct{})
	go func() {
		defer close(forwarderDone)
		for ev := range events {
			send(ev)
		}
	}()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for v := range out {
			if err := ws.WriteTyped(conn, v); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed")
				return
			}
		}
	}()

	for {
		var msg ws.RequestPayload
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		switch msg.Action {
		case ws.ActionAnswer:
			h.handleAnswer(send, sess, &msg)
		case ws.ActionSave:
			h.handleSave(c, send, sess, &msg)
		case ws.ActionNavigate:
			h.handleNavigate(c, send, sess, &msg)
		case ws.ActionSubmit:
			// The candidate has committed; a disconnect right after the
			// click must not cancel the flush. Failures surface on the
			// event stream; duplicates are no-ops.
			go func() { _ = sess.RequestSubmit(context.Background()) }()
		case ws.ActionPing:
			send(ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			send(ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(msg.Action)})
		}
	}

	unsubscribe()
	<-forwarderDone
	close(out)
	<-writerDone
}

func (h *WSHandler) handleAnswer(send func(interface{}), sess *attempt.Session, msg *ws.RequestPayload) {
	if msg.QuestionID == 0 {
		send(ws.ErrorResponse{Event: ws.EventError, Error: "question_id is required"})
		return
	}
	if err := sess.SetAnswer(msg.QuestionID, msg.AnswerText); err != nil {
		send(ws.ErrorResponse{Event: ws.EventError, Error: err.Error()})
		return
	}
	if msg.ExplanationText != nil {
		if err := sess.SetExplanation(msg.QuestionID, *msg.ExplanationText); err != nil {
			send(ws.ErrorResponse{Event: ws.EventError, Error: err.Error()})
			return
		}
	}
	send(ws.SavedResponse{Event: ws.EventSaved, QuestionID: msg.QuestionID, Saved: false})
}

func (h *WSHandler) handleSave(c *gin.Context, send func(interface{}), sess *attempt.Session, msg *ws.RequestPayload) {
	if msg.QuestionID == 0 {
		send(ws.ErrorResponse{Event: ws.EventError, Error: "question_id is required"})
		return
	}
	err := sess.SaveAnswer(c.Request.Context(), msg.QuestionID)
	send(ws.SavedResponse{Event: ws.EventSaved, QuestionID: msg.QuestionID, Saved: err == nil})
}

func (h *WSHandler) handleNavigate(c *gin.Context, send func(interface{}), sess *attempt.Session, msg *ws.RequestPayload) {
	if msg.Index == nil {
		send(ws.ErrorResponse{Event: ws.EventError, Error: "index is required"})
		return
	}
	cursor, err := sess.Navigate(c.Request.Context(), *msg.Index)
	if err != nil {
		send(ws.ErrorResponse{Event: ws.EventError, Error: err.Error()})
		return
	}
	send(ws.MovedResponse{Event: ws.EventMoved, Cursor: cursor})
}
