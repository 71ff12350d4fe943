package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hireproof/assess-gateway/internal/model"
)

// Client talks to the external assessment API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// New creates a Client for the given base URL (no trailing slash required).
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "upstream_client").Logger(),
	}
}

func (c *Client) FetchSharedAssessment(ctx context.Context, shareToken string) (*model.Assessment, error) {
	var out model.Assessment
	path := fmt.Sprintf("/api/assessments/share/%s", shareToken)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("fetch shared assessment: %w", err)
	}
	return &out, nil
}

type createAttemptRequest struct {
	CandidateEmail string `json:"candidate_email"`
	CandidateName  string `json:"candidate_name,omitempty"`
}

func (c *Client) CreateAttempt(ctx context.Context, assessmentID int, email, name string) (*model.Attempt, error) {
	var out model.Attempt
	path := fmt.Sprintf("/api/assessments/%d/attempts", assessmentID)
	body := createAttemptRequest{CandidateEmail: email, CandidateName: name}
	if err := c.doJSON(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, fmt.Errorf("create attempt: %w", err)
	}
	return &out, nil
}

type upsertAnswerRequest struct {
	QuestionID int    `json:"question_id"`
	AnswerText string `json:"answer_text"`
}

func (c *Client) UpsertAnswer(ctx context.Context, attemptID, questionID int, answerText string) error {
	path := fmt.Sprintf("/api/assessments/attempts/%d/answers", attemptID)
	body := upsertAnswerRequest{QuestionID: questionID, AnswerText: answerText}
	if err := c.doJSON(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("upsert answer: %w", err)
	}
	return nil
}

func (c *Client) CompleteAttempt(ctx context.Context, attemptID int) error {
	path := fmt.Sprintf("/api/assessments/attempts/%d/complete", attemptID)
	if err := c.doJSON(ctx, http.MethodPost, path, nil, nil); err != nil {
		return fmt.Errorf("complete attempt: %w", err)
	}
	return nil
}

func (c *Client) FetchAttemptResult(ctx context.Context, attemptID int) (*model.AttemptResult, error) {
	var out model.AttemptResult
	path := fmt.Sprintf("/api/assessments/attempts/%d", attemptID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("fetch attempt result: %w", err)
	}
	return &out, nil
}

// doJSON performs one request against the API. A nil body sends no payload;
// a nil out discards the response body after the status check.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	url := c.baseURL + path

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("path", path).Msg("Request failed")
		return err
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Upstream response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.log.Error().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("body", string(snippet)).
			Msg("Upstream request rejected")
		return &StatusError{Status: resp.StatusCode, Body: string(snippet)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// StatusError is returned for non-2xx upstream responses so callers can
// distinguish "not found" from transport failures.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Body)
}

// IsNotFound reports whether err wraps an upstream 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}
