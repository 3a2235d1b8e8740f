package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	orchestratorx "github.com/yolearn/tutor-dialogue/agent/agents/orchestrator"
	profilex "github.com/yolearn/tutor-dialogue/agent/profile"
)

// NewSessionFunc builds the orchestrator backing one session.
type NewSessionFunc func(ctx context.Context, sessionID string, prof profilex.StudentProfile) (*orchestratorx.Orchestrator, error)

// session serializes turns: a session is a single-writer context, so at
// most one turn may be in flight at a time.
type session struct {
	mu  sync.Mutex
	orc *orchestratorx.Orchestrator
}

type sessionManager struct {
	mu         sync.Mutex
	sessions   map[string]*session
	newSession NewSessionFunc
}

func newSessionManager(fn NewSessionFunc) *sessionManager {
	return &sessionManager{
		sessions:   make(map[string]*session),
		newSession: fn,
	}
}

// getOrCreate returns the session for id, creating it with the given
// profile on first use. The profile is fixed at creation; later
// requests for the same session ignore it.
func (m *sessionManager) getOrCreate(ctx context.Context, id string, prof profilex.StudentProfile) (*session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = randomSessionID()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[id]; ok {
		return sess, nil
	}

	orc, err := m.newSession(ctx, id, prof)
	if err != nil {
		return nil, fmt.Errorf("create session %s: %w", id, err)
	}

	sess := &session{orc: orc}
	m.sessions[id] = sess
	return sess, nil
}

func randomSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
