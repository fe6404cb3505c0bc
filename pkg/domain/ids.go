// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	dErrors "wagebridge/pkg/domain-errors"
)

// AttestationID identifies a single wage attestation. Generated at creation, immutable.
type AttestationID uuid.UUID

// EmployerID is the opaque employer identifier assigned during onboarding.
type EmployerID string

// PeriodNonce is the 16-hex-character token deterministically derived from the
// employer/employee/period tuple. Unique per distinct period.
type PeriodNonce string

// Nullifier is the one-time-use token that prevents a wage claim from being
// redeemed more than once.
type Nullifier string

var (
	walletPattern      = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	periodNoncePattern = regexp.MustCompile(`^[0-9a-f]{16}$`)
	nullifierPattern   = regexp.MustCompile(`^[0-9a-f]{64}$`)
)

// WalletAddress is a 20-byte EVM address in textual hex form. Comparisons are
// case-insensitive; Canonical returns the lower-cased form used for hashing.
type WalletAddress string

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseAttestationID(s string) (AttestationID, error) {
	if s == "" {
		return AttestationID{}, dErrors.New(dErrors.CodeInvalidInput, "attestation ID cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return AttestationID{}, dErrors.New(dErrors.CodeInvalidInput, "attestation ID must be a valid UUID")
	}
	return AttestationID(parsed), nil
}

func ParseEmployerID(s string) (EmployerID, error) {
	if strings.TrimSpace(s) == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "employer ID cannot be empty")
	}
	return EmployerID(s), nil
}

func ParseWalletAddress(s string) (WalletAddress, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "wallet address cannot be empty")
	}
	if !walletPattern.MatchString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "wallet address must be 0x followed by 40 hex digits")
	}
	return WalletAddress(s), nil
}

func ParsePeriodNonce(s string) (PeriodNonce, error) {
	if !periodNoncePattern.MatchString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "period nonce must be 16 lowercase hex characters")
	}
	return PeriodNonce(s), nil
}

func ParseNullifier(s string) (Nullifier, error) {
	if !nullifierPattern.MatchString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "nullifier must be 64 lowercase hex characters")
	}
	return Nullifier(s), nil
}

// NewAttestationID generates a fresh attestation identifier.
func NewAttestationID() AttestationID {
	return AttestationID(uuid.New())
}

// String methods - for logging and debugging.

func (id AttestationID) String() string { return uuid.UUID(id).String() }
func (id EmployerID) String() string    { return string(id) }
func (n PeriodNonce) String() string    { return string(n) }
func (n Nullifier) String() string      { return string(n) }
func (w WalletAddress) String() string  { return string(w) }

// Canonical returns the lower-cased wallet form used for hashing and
// case-insensitive comparison.
func (w WalletAddress) Canonical() string { return strings.ToLower(string(w)) }

// Valid reports whether the address matches the 40-hex-digit wallet pattern.
// Used by the validation engine on records built from unchecked input.
func (w WalletAddress) Valid() bool { return walletPattern.MatchString(string(w)) }

// Equal compares two wallet addresses case-insensitively.
func (w WalletAddress) Equal(other WalletAddress) bool {
	return w.Canonical() == other.Canonical()
}

// IsNil checks - used for service-layer validation.

func (id AttestationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id EmployerID) IsNil() bool    { return id == "" }
func (n PeriodNonce) IsNil() bool    { return n == "" }
func (n Nullifier) IsNil() bool      { return n == "" }
func (w WalletAddress) IsNil() bool  { return w == "" }
