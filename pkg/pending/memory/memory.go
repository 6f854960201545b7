// Package memory provides the volatile, in-process implementation of the
// pending store. Entries do not survive a restart; deployments that need
// durability use the DynamoDB-backed store instead.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dropi/openpay/pkg/models"
	"github.com/dropi/openpay/pkg/pending"
)

// Store is an in-memory pending store guarded by a mutex. Expiry is enforced
// lazily on Take and actively by SweepExpired.
type Store struct {
	mu      sync.Mutex
	entries map[string]models.PendingEntry
	ttl     time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// New creates an in-memory store whose entries expire after ttl.
func New(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]models.PendingEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Make sure we conform to the interface
var _ pending.Store = (*Store)(nil)

// Put stores the context under a fresh correlation identifier.
func (s *Store) Put(_ context.Context, nc *models.NegotiationContext) (string, error) {
	id, err := pending.NewCorrelationID()
	if err != nil {
		return "", err
	}

	now := s.now()
	entry := models.PendingEntry{
		CorrelationID: id,
		Context:       *nc,
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.ttl),
	}

	s.mu.Lock()
	s.entries[id] = entry
	s.mu.Unlock()

	return id, nil
}

// Take removes and returns the context for the identifier. An expired entry
// is deleted and reported as not found.
func (s *Store) Take(_ context.Context, correlationID string) (*models.NegotiationContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[correlationID]
	if !ok {
		return nil, pending.ErrNotFound
	}
	delete(s.entries, correlationID)

	if entry.Expired(s.now()) {
		return nil, pending.ErrNotFound
	}

	nc := entry.Context
	return &nc, nil
}

// SweepExpired removes all entries past their expiry time.
func (s *Store) SweepExpired(_ context.Context) (int, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.entries {
		if entry.Expired(now) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed, nil
}
