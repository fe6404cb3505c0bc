// Package store persists wage attestations and the spent-nullifier ledger.
//
// Two backends are provided: an in-memory store for tests and the demo
// environment, and PostgreSQL for production. A Redis-backed nullifier
// ledger is available for deployments that keep spend state out of the
// relational database.
package store

import (
	"context"
	"errors"

	"wagebridge/internal/attestation/models"
	id "wagebridge/pkg/domain"
)

// Sentinel errors shared by all backends.
var (
	// ErrNotFound is returned when an attestation does not exist.
	ErrNotFound = errors.New("attestation not found")

	// ErrDuplicateNonce is returned when an attestation for the same
	// employer, wallet, and period has already been recorded.
	ErrDuplicateNonce = errors.New("period nonce already attested")

	// ErrNullifierUsed is returned when a nullifier has already been spent.
	ErrNullifierUsed = errors.New("nullifier already spent")
)

// Store persists wage attestations.
type Store interface {
	// InsertIfAbsent atomically records the attestation unless one with the
	// same period nonce already exists, in which case it returns
	// ErrDuplicateNonce and leaves the existing record untouched.
	InsertIfAbsent(ctx context.Context, att models.WageAttestation) error

	// Get retrieves an attestation by its ID. Returns ErrNotFound when absent.
	Get(ctx context.Context, attID id.AttestationID) (models.WageAttestation, error)

	// GetByNonce retrieves an attestation by its period nonce.
	GetByNonce(ctx context.Context, nonce id.PeriodNonce) (models.WageAttestation, error)
}

// NullifierLedger tracks spent nullifiers. Marking is first-writer-wins:
// exactly one MarkUsed call for a given nullifier ever succeeds.
type NullifierLedger interface {
	// MarkUsed records the nullifier as spent. Returns ErrNullifierUsed if
	// it was already spent.
	MarkUsed(ctx context.Context, n id.Nullifier) error

	// IsUsed reports whether the nullifier has been spent.
	IsUsed(ctx context.Context, n id.Nullifier) (bool, error)
}
