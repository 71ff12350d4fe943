package upstream_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireproof/assess-gateway/internal/upstream"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *upstream.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return upstream.New(srv.URL, 5*time.Second, zerolog.Nop())
}

func TestFetchSharedAssessment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/assessments/share/tok-abc", r.URL.Path)
		fmt.Fprint(w, `{
			"id": 7,
			"title": "Backend Debugging Screen",
			"total_duration": 45,
			"max_score": 30,
			"questions": [
				{"id": 11, "question_id": 101, "order": 1, "points": 10,
				 "question": {"id": 101, "title": "Nil map write", "category": "coding"}}
			]
		}`)
	})

	a, err := client.FetchSharedAssessment(context.Background(), "tok-abc")
	require.NoError(t, err)
	assert.Equal(t, 7, a.ID)
	assert.Equal(t, 45, a.TotalDuration)
	require.Len(t, a.Questions, 1)
	assert.Equal(t, 101, a.Questions[0].QuestionID)
	assert.Equal(t, "Nil map write", a.Questions[0].Question.Title)
}

func TestFetchSharedAssessmentNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"detail":"Assessment not found"}`, http.StatusNotFound)
	})

	_, err := client.FetchSharedAssessment(context.Background(), "tok-gone")
	require.Error(t, err)
	assert.True(t, upstream.IsNotFound(err), "wrapped 404 must stay recognizable")

	var se *upstream.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Status)
	assert.Contains(t, se.Body, "Assessment not found")
}

func TestCreateAttemptSendsCandidatePayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/assessments/7/attempts", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "jordan@example.com", payload["candidate_email"])
		assert.Equal(t, "Jordan", payload["candidate_name"])

		fmt.Fprint(w, `{"id": 4201, "assessment_id": 7, "candidate_email": "jordan@example.com", "status": "in_progress"}`)
	})

	att, err := client.CreateAttempt(context.Background(), 7, "jordan@example.com", "Jordan")
	require.NoError(t, err)
	assert.Equal(t, 4201, att.ID)
	assert.Equal(t, 7, att.AssessmentID)
}

func TestCreateAttemptOmitsEmptyName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_, hasName := payload["candidate_name"]
		assert.False(t, hasName)
		fmt.Fprint(w, `{"id": 4201}`)
	})

	_, err := client.CreateAttempt(context.Background(), 7, "jordan@example.com", "")
	require.NoError(t, err)
}

func TestUpsertAnswer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/assessments/attempts/4201/answers", r.URL.Path)

		var payload struct {
			QuestionID int    `json:"question_id"`
			AnswerText string `json:"answer_text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, 101, payload.QuestionID)
		assert.Equal(t, "make the map first", payload.AnswerText)

		fmt.Fprint(w, `{"id": 1}`)
	})

	require.NoError(t, client.UpsertAnswer(context.Background(), 4201, 101, "make the map first"))
}

func TestCompleteAttempt(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/assessments/attempts/4201/complete", r.URL.Path)
		fmt.Fprint(w, `{"id": 4201, "status": "completed"}`)
	})

	require.NoError(t, client.CompleteAttempt(context.Background(), 4201))
	assert.Equal(t, 1, calls)
}

func TestCompleteAttemptServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	err := client.CompleteAttempt(context.Background(), 4201)
	require.Error(t, err)
	assert.False(t, upstream.IsNotFound(err))

	var se *upstream.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Status)
}

func TestFetchAttemptResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/assessments/attempts/4201", r.URL.Path)
		fmt.Fprint(w, `{"id": 4201, "assessment_id": 7, "score": 22.5, "max_score": 30, "status": "completed"}`)
	})

	res, err := client.FetchAttemptResult(context.Background(), 4201)
	require.NoError(t, err)
	require.NotNil(t, res.Score)
	assert.Equal(t, 22.5, *res.Score)
	assert.Equal(t, 30, res.MaxScore)
}

func TestRequestHonorsContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, `{}`)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.FetchSharedAssessment(ctx, "tok-slow")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
