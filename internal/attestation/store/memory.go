package store

import (
	"context"
	"sync"

	"wagebridge/internal/attestation/models"
	id "wagebridge/pkg/domain"
)

// InMemory stores attestations and spent nullifiers in memory for tests and
// the demo environment.
type InMemory struct {
	mu         sync.RWMutex
	byID       map[string]models.WageAttestation
	nonceIdx   map[id.PeriodNonce]string
	nullifiers map[id.Nullifier]struct{}
}

// NewInMemory creates an in-memory attestation store.
func NewInMemory() *InMemory {
	return &InMemory{
		byID:       make(map[string]models.WageAttestation),
		nonceIdx:   make(map[id.PeriodNonce]string),
		nullifiers: make(map[id.Nullifier]struct{}),
	}
}

// InsertIfAbsent atomically records the attestation unless the period nonce
// is already taken.
func (s *InMemory) InsertIfAbsent(_ context.Context, att models.WageAttestation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.nonceIdx[att.PeriodNonce]; exists {
		return ErrDuplicateNonce
	}
	key := att.ID.String()
	s.byID[key] = att
	s.nonceIdx[att.PeriodNonce] = key
	return nil
}

// Get retrieves an attestation by its ID.
func (s *InMemory) Get(_ context.Context, attID id.AttestationID) (models.WageAttestation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if att, ok := s.byID[attID.String()]; ok {
		return att, nil
	}
	return models.WageAttestation{}, ErrNotFound
}

// GetByNonce retrieves an attestation by its period nonce.
func (s *InMemory) GetByNonce(_ context.Context, nonce id.PeriodNonce) (models.WageAttestation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if key, ok := s.nonceIdx[nonce]; ok {
		return s.byID[key], nil
	}
	return models.WageAttestation{}, ErrNotFound
}

// MarkUsed records the nullifier as spent, first writer wins.
func (s *InMemory) MarkUsed(_ context.Context, n id.Nullifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, used := s.nullifiers[n]; used {
		return ErrNullifierUsed
	}
	s.nullifiers[n] = struct{}{}
	return nil
}

// IsUsed reports whether the nullifier has been spent.
func (s *InMemory) IsUsed(_ context.Context, n id.Nullifier) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, used := s.nullifiers[n]
	return used, nil
}

// Verify interfaces are satisfied.
var (
	_ Store           = (*InMemory)(nil)
	_ NullifierLedger = (*InMemory)(nil)
)
