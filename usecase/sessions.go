package usecase

import (
	"sync"

	"github.com/Yuji-2251/expert-assistant/domain"
)

// Sessions owns one ExchangeLog per interactive session. Logs are created
// lazily and never shared across sessions; they vanish with the process.
type Sessions struct {
	mu   sync.RWMutex
	logs map[string]*domain.ExchangeLog
}

func NewSessions() *Sessions {
	return &Sessions{
		logs: make(map[string]*domain.ExchangeLog),
	}
}

// Log returns the session's exchange log, creating it on first use.
func (s *Sessions) Log(sessionID string) *domain.ExchangeLog {
	s.mu.RLock()
	l, ok := s.logs[sessionID]
	s.mu.RUnlock()
	if ok {
		return l
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.logs[sessionID]; ok {
		return l
	}
	l = domain.NewExchangeLog()
	s.logs[sessionID] = l
	return l
}

// Clear empties the session's log. A session that never asked anything has
// nothing to clear.
func (s *Sessions) Clear(sessionID string) {
	s.mu.RLock()
	l, ok := s.logs[sessionID]
	s.mu.RUnlock()
	if ok {
		l.Clear()
	}
}

// Count returns the number of sessions with a log (useful for monitoring).
func (s *Sessions) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs)
}
