package memory

import (
	"context"
	"sync"
	"time"

	"github.com/openhymnal/hymnal-cli/internal/core/ports/driven"
)

// Ensure TriggerStateStore implements the interface.
var _ driven.TriggerStateStore = (*TriggerStateStore)(nil)

// TriggerStateStore is an in-memory implementation of
// driven.TriggerStateStore.
type TriggerStateStore struct {
	mu       sync.RWMutex
	attempts map[string]time.Time
}

// NewTriggerStateStore creates a new in-memory trigger state store.
func NewTriggerStateStore() *TriggerStateStore {
	return &TriggerStateStore{
		attempts: make(map[string]time.Time),
	}
}

// LastAttempt returns when the named trigger last fired.
func (s *TriggerStateStore) LastAttempt(_ context.Context, triggerID string) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.attempts[triggerID], nil
}

// SetLastAttempt records when the named trigger fired.
func (s *TriggerStateStore) SetLastAttempt(_ context.Context, triggerID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[triggerID] = at
	return nil
}
