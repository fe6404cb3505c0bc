package service

//go:generate mockgen -source=contracts.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"wagebridge/internal/attestation/models"
	id "wagebridge/pkg/domain"
)

// Store defines the persistence interface for attestations.
// Error Contract:
// - Get and GetByNonce return store.ErrNotFound when no record exists
// - InsertIfAbsent returns store.ErrDuplicateNonce when the period nonce is taken
type Store interface {
	InsertIfAbsent(ctx context.Context, att models.WageAttestation) error
	Get(ctx context.Context, attID id.AttestationID) (models.WageAttestation, error)
	GetByNonce(ctx context.Context, n id.PeriodNonce) (models.WageAttestation, error)
}

// NullifierLedger tracks spent nullifiers.
// Error Contract:
// - MarkUsed returns store.ErrNullifierUsed when the nullifier was already spent
type NullifierLedger interface {
	MarkUsed(ctx context.Context, n id.Nullifier) error
	IsUsed(ctx context.Context, n id.Nullifier) (bool, error)
}

// Signer signs and verifies attestation digests on behalf of employers.
type Signer interface {
	Sign(ctx context.Context, employerID id.EmployerID, digest [32]byte) ([]byte, error)
	Verify(ctx context.Context, employerID id.EmployerID, digest [32]byte, sig []byte) (bool, error)
}
