// Package history keeps the most recent conversation entries per user.
package history

import (
	"context"
	"errors"
	"sync"

	"apptravel/internal/model"
)

// Roles used in history entries
const (
	RoleUser      = "Utilisateur"
	RoleAssistant = "Assistant"
)

// ErrUnavailable is returned when the backing store cannot be reached
var ErrUnavailable = errors.New("history store unavailable")

// Entry is one message of a conversation
type Entry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Store is a per-user, size-bounded conversation history
type Store interface {
	// Recent returns up to n most recent entries, oldest first
	Recent(ctx context.Context, userID model.UserID, n int) ([]Entry, error)
	// Append adds entries and drops the oldest ones beyond the store limit
	Append(ctx context.Context, userID model.UserID, entries ...Entry) error
	// Reset forgets a user's conversation
	Reset(ctx context.Context, userID model.UserID) error
	// Count returns the number of users with a conversation
	Count(ctx context.Context) (int, error)
}

// MemoryStore keeps histories in process memory until reset or restart
type MemoryStore struct {
	mu      sync.Mutex
	limit   int
	entries map[model.UserID][]Entry
}

// NewMemoryStore creates a store keeping at most limit entries per user
func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = 10
	}
	return &MemoryStore{
		limit:   limit,
		entries: make(map[model.UserID][]Entry),
	}
}

// Recent implements Store
func (s *MemoryStore) Recent(_ context.Context, userID model.UserID, n int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.entries[userID]
	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out, nil
}

// Append implements Store
func (s *MemoryStore) Append(_ context.Context, userID model.UserID, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := append(s.entries[userID], entries...)
	if len(merged) > s.limit {
		// copy so the dropped prefix can be collected
		trimmed := make([]Entry, s.limit)
		copy(trimmed, merged[len(merged)-s.limit:])
		merged = trimmed
	}
	s.entries[userID] = merged
	return nil
}

// Reset implements Store
func (s *MemoryStore) Reset(_ context.Context, userID model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
	return nil
}

// Count implements Store
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries), nil
}

var _ Store = (*MemoryStore)(nil)
