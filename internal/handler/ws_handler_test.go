package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hireproof/assess-gateway/internal/model"
	"github.com/hireproof/assess-gateway/internal/testutil/mocks"
	ws "github.com/hireproof/assess-gateway/internal/websocket"
)

func dialStream(t *testing.T, srv *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/v1/attempts/" + sessionID + "/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntilEvent discards stream messages (ticks, status changes) until one
// with the wanted event tag arrives.
func readUntilEvent(t *testing.T, conn *websocket.Conn, want string) map[string]interface{} {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(deadline)
		var msg map[string]interface{}
		require.NoError(t, conn.ReadJSON(&msg))
		if msg["event"] == want {
			return msg
		}
	}
	t.Fatalf("no %q event before deadline", want)
	return nil
}

func TestAttemptStreamRejectsUnknownSession(t *testing.T) {
	client := new(mocks.MockUpstreamClient)
	r, _ := newTestRouter(t, client)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/v1/attempts/" + uuid.NewString() + "/stream"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAttemptStreamActions(t *testing.T) {
	client := new(mocks.MockUpstreamClient)
	expectIntake(client)
	client.On("UpsertAnswer", mock.Anything, 4201, 101, "make the map first").Return(nil)
	r, manager := newTestRouter(t, client)
	srv := httptest.NewServer(r)
	defer srv.Close()

	rm := startSession(t, r)
	conn := dialStream(t, srv, rm.SessionID)

	require.NoError(t, conn.WriteJSON(ws.RequestPayload{Action: ws.ActionPing}))
	readUntilEvent(t, conn, "pong")

	// Draft capture over the socket, local only.
	require.NoError(t, conn.WriteJSON(ws.RequestPayload{
		Action:     ws.ActionAnswer,
		QuestionID: 101,
		AnswerText: "make the map first",
	}))
	msg := readUntilEvent(t, conn, "saved")
	assert.Equal(t, float64(101), msg["question_id"])
	assert.Equal(t, false, msg["saved"])

	// Explicit save flushes upstream.
	require.NoError(t, conn.WriteJSON(ws.RequestPayload{Action: ws.ActionSave, QuestionID: 101}))
	msg = readUntilEvent(t, conn, "saved")
	assert.Equal(t, true, msg["saved"])

	idx := 1
	require.NoError(t, conn.WriteJSON(ws.RequestPayload{Action: ws.ActionNavigate, Index: &idx}))
	msg = readUntilEvent(t, conn, "moved")
	assert.Equal(t, float64(1), msg["cursor"])

	sessID, err := uuid.Parse(rm.SessionID)
	require.NoError(t, err)
	sess, ok := manager.Get(sessID)
	require.True(t, ok)
	assert.Equal(t, 1, sess.Snapshot().Cursor)

	client.AssertExpectations(t)
}

func TestAttemptStreamSubmitSurvivesDisconnect(t *testing.T) {
	client := new(mocks.MockUpstreamClient)
	expectIntake(client)
	client.On("UpsertAnswer", mock.Anything, 4201, 101, "make the map first").Return(nil)
	// Slow completion: the socket is gone before the upstream call returns.
	client.On("CompleteAttempt", mock.Anything, 4201).Return(nil).After(50 * time.Millisecond)
	r, manager := newTestRouter(t, client)
	srv := httptest.NewServer(r)
	defer srv.Close()

	rm := startSession(t, r)
	sessID, err := uuid.Parse(rm.SessionID)
	require.NoError(t, err)
	sess, ok := manager.Get(sessID)
	require.True(t, ok)
	require.NoError(t, sess.SetAnswer(101, "make the map first"))

	conn := dialStream(t, srv, rm.SessionID)
	require.NoError(t, conn.WriteJSON(ws.RequestPayload{Action: ws.ActionSubmit}))
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for sess.Status() != model.StatusCompleted && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, model.StatusCompleted, sess.Status(), "disconnect must not cancel the submission")
	client.AssertNumberOfCalls(t, "CompleteAttempt", 1)
}
