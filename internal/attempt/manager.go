package attempt

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hireproof/assess-gateway/internal/upstream"
)

// Manager owns the in-memory registry of live sessions, one per attempt.
// Sessions idle past the TTL are evicted by the reaper. Eviction only frees
// gateway memory; the attempt itself is never torn down from here, expiry
// past the intended duration is the upstream API's responsibility.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	client   upstream.ClientInterface
	log      zerolog.Logger
	ttl      time.Duration
}

// NewManager creates a Manager evicting sessions idle longer than ttl.
func NewManager(client upstream.ClientInterface, ttl time.Duration, log zerolog.Logger) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		client:   client,
		ttl:      ttl,
		log:      log.With().Str("component", "session_manager").Logger(),
	}
}

// StartAttempt runs the full intake path: resolve the share token, create
// the session, create the attempt upstream and start the clock. The empty
// email check runs before any network call.
func (m *Manager) StartAttempt(ctx context.Context, shareToken, email, name string) (*Session, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ErrEmailRequired
	}

	assessment, err := m.client.FetchSharedAssessment(ctx, shareToken)
	if err != nil {
		return nil, fmt.Errorf("resolve share token: %w", err)
	}

	sess := NewSession(assessment, m.client, m.log)
	if err := sess.Start(ctx, email, name); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[sess.ID()] = sess
	m.mu.Unlock()

	m.log.Info().
		Str("session_id", sess.ID().String()).
		Int("assessment_id", assessment.ID).
		Msg("Session registered")
	return sess, nil
}

// Get looks up a live session by id.
func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StartReaper begins the eviction loop. Call in a goroutine; it returns when
// ctx is cancelled.
func (m *Manager) StartReaper(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	m.log.Info().Dur("ttl", m.ttl).Msg("Reaper started")
	for {
		select {
		case <-ctx.Done():
			m.log.Info().Msg("Reaper stopped")
			return
		case <-ticker.C:
			m.reap()
		}
	}
}

func (m *Manager) reap() {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, sess := range m.sessions {
		if time.Since(sess.LastActive()) < m.ttl {
			continue
		}
		// A stale in-progress session keeps its clock; stop it so the
		// goroutine does not outlive the registry entry.
		sess.clock.Stop()
		delete(m.sessions, id)
		evicted++
		m.log.Info().
			Str("session_id", id.String()).
			Str("status", string(sess.Status())).
			Msg("Session evicted")
	}
	if evicted > 0 {
		m.log.Info().Int("count", evicted).Msg("Reap pass done")
	}
}
