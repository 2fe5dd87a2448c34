// Package state keeps the per-chat conversation state the bot is waiting
// on. The state is ephemeral by design: it lives in process memory and is
// lost on restart.
package state

import "sync"

// PendingGoal means the bot asked for a daily-goal number after the user
// picked a goal type and is waiting for the next plain-text message.
type PendingGoal struct {
	GoalType string // gain / lose / maintain
}

// Store is a keyed pending-goal store. A chat has at most one pending
// state; commands never consult it, only plain text does.
type Store struct {
	mu      sync.RWMutex
	pending map[int64]PendingGoal
}

func NewStore() *Store {
	return &Store{pending: make(map[int64]PendingGoal)}
}

// Set replaces whatever was pending for the chat.
func (s *Store) Set(chatID int64, p PendingGoal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[chatID] = p
}

// Get returns the pending state for the chat, if any.
func (s *Store) Get(chatID int64) (PendingGoal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pending[chatID]
	return p, ok
}

// Clear removes the pending state for the chat.
func (s *Store) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, chatID)
}
