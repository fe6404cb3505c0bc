package signer

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"sync"

	id "wagebridge/pkg/domain"
)

// Local signs attestations with in-process ECDSA P-256 keys, one per
// employer. Keys are generated on first use and live only for the process
// lifetime, which is sufficient for tests and the demo environment.
type Local struct {
	mu   sync.RWMutex
	keys map[id.EmployerID]*ecdsa.PrivateKey
}

// NewLocal creates a local ECDSA signer.
func NewLocal() *Local {
	return &Local{keys: make(map[id.EmployerID]*ecdsa.PrivateKey)}
}

// Sign produces an ASN.1 DER encoded ECDSA signature over the digest.
func (s *Local) Sign(_ context.Context, employerID id.EmployerID, digest [32]byte) ([]byte, error) {
	key, err := s.keyFor(employerID)
	if err != nil {
		return nil, err
	}
	sig, err := ecdsa.SignASN1(rand.Reader, key, digest[:])
	if err != nil {
		return nil, fmt.Errorf("sign attestation digest: %w", err)
	}
	return sig, nil
}

// Verify checks the signature against the employer's public key.
func (s *Local) Verify(_ context.Context, employerID id.EmployerID, digest [32]byte, sig []byte) (bool, error) {
	s.mu.RLock()
	key, ok := s.keys[employerID]
	s.mu.RUnlock()
	if !ok {
		return false, ErrUnknownEmployer
	}
	return ecdsa.VerifyASN1(&key.PublicKey, digest[:], sig), nil
}

func (s *Local) keyFor(employerID id.EmployerID) (*ecdsa.PrivateKey, error) {
	s.mu.RLock()
	key, ok := s.keys[employerID]
	s.mu.RUnlock()
	if ok {
		return key, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if key, ok := s.keys[employerID]; ok {
		return key, nil
	}
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate employer key: %w", err)
	}
	s.keys[employerID] = key
	return key, nil
}

// Verify interface is satisfied.
var _ Signer = (*Local)(nil)
