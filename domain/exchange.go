package domain

import (
	"sync"
	"time"
)

// Exchange is one persona/question/answer triple.
type Exchange struct {
	Persona  Persona   `json:"persona"`
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	At       time.Time `json:"at"`
}

// ExchangeLog is the append-only history of one interactive session. It lives
// only as long as the session; nothing is persisted. A session can be driven
// by the HTTP API and a WebSocket at the same time, hence the lock.
type ExchangeLog struct {
	mu      sync.RWMutex
	entries []Exchange
}

func NewExchangeLog() *ExchangeLog {
	return &ExchangeLog{}
}

// Append records an exchange at the end of the log.
func (l *ExchangeLog) Append(e Exchange) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
}

func (l *ExchangeLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear empties the log entirely.
func (l *ExchangeLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Recent returns up to n exchanges, newest first. The display layer only ever
// asks for the last three.
func (l *ExchangeLog) Recent(n int) []Exchange {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n > len(l.entries) {
		n = len(l.entries)
	}
	recent := make([]Exchange, 0, n)
	for i := len(l.entries) - 1; i >= len(l.entries)-n; i-- {
		recent = append(recent, l.entries[i])
	}
	return recent
}
