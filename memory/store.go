package memory

import (
	"errors"
	"sync"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidTurn    = errors.New("turn must carry a role and content")
	ErrInvalidContext = errors.New("context must be a key/value map")
)

// Turn is one message of a conversation, attributed to a role.
// Immutable once appended.
type Turn struct {
	Role      string    `json:"role"` // "user", "assistant", "system", "tool"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

func UserTurn(content string) Turn {
	return Turn{Role: "user", Content: content, Timestamp: time.Now().UTC()}
}

func AssistantTurn(content string) Turn {
	return Turn{Role: "assistant", Content: content, Timestamp: time.Now().UTC()}
}

// Store keeps per-session conversation history and quiz answers in
// process memory. One instance is shared by all in-flight requests;
// every operation is individually atomic. Sessions live for the
// process lifetime, there is no eviction.
type Store struct {
	mu       sync.RWMutex
	turns    map[string][]Turn
	contexts map[string]map[string]any
}

func NewStore() *Store {
	return &Store{
		turns:    make(map[string][]Turn),
		contexts: make(map[string]map[string]any),
	}
}

// CreateSession generates a fresh session id with an empty history.
func (s *Store) CreateSession(clientID string) string {
	sessionID := uuid.New().String()

	s.mu.Lock()
	s.turns[sessionID] = []Turn{}
	s.mu.Unlock()

	logger.Info("Created new session",
		zap.String("sessionId", sessionID), zap.String("clientId", clientID))
	return sessionID
}

// AppendTurn appends a turn to the session history. A missing session
// is created on the fly rather than rejected; callers routinely hold
// ids from before a process restart and losing their message over it
// would be worse than the silent create.
func (s *Store) AppendTurn(sessionID string, turn Turn) error {
	if turn.Role == "" || turn.Content == "" {
		return ErrInvalidTurn
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.turns[sessionID]; !ok {
		logger.Info("Session not found, creating new session",
			zap.String("sessionId", sessionID))
		s.turns[sessionID] = []Turn{}
	}

	s.turns[sessionID] = append(s.turns[sessionID], turn)
	return nil
}

// Turns returns the session history in append order. Unknown sessions
// yield an empty history, never an error.
func (s *Store) Turns(sessionID string) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns, ok := s.turns[sessionID]
	if !ok {
		logger.Info("Session not found, returning empty history",
			zap.String("sessionId", sessionID))
		return []Turn{}
	}

	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// Clear resets the session history to empty while keeping the session
// id and any stored context. Clearing an unknown session is a no-op.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.turns[sessionID]; !ok {
		logger.Info("Attempted to clear non-existent session",
			zap.String("sessionId", sessionID))
		return
	}

	s.turns[sessionID] = []Turn{}
}

// StoreContext records the latest quiz answers for a session,
// replacing any previous answers.
func (s *Store) StoreContext(sessionID string, context map[string]any) error {
	if context == nil {
		return ErrInvalidContext
	}

	s.mu.Lock()
	s.contexts[sessionID] = context
	s.mu.Unlock()
	return nil
}

// Context returns the stored quiz answers for a session, or nil when
// none were stored.
func (s *Store) Context(sessionID string) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contexts[sessionID]
}

// Sessions lists all known session ids.
func (s *Store) Sessions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.turns))
	for id := range s.turns {
		sessions = append(sessions, id)
	}
	return sessions
}
