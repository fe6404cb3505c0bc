// Package signer abstracts attestation signing.
//
// The gateway never embeds employer key material in the attestation flow
// directly; signing happens behind this port so production can delegate to
// an HSM or external signing service while tests and the demo environment
// use in-process ECDSA keys.
package signer

import (
	"context"
	"errors"

	id "wagebridge/pkg/domain"
)

// ErrUnknownEmployer is returned when no key material exists for an employer.
var ErrUnknownEmployer = errors.New("no signing key for employer")

// Signer signs and verifies attestation digests on behalf of employers.
type Signer interface {
	// Sign produces a signature over the 32-byte signing hash using the
	// employer's key.
	Sign(ctx context.Context, employerID id.EmployerID, digest [32]byte) ([]byte, error)

	// Verify reports whether the signature matches the digest under the
	// employer's key. A malformed or mismatched signature yields
	// (false, nil); errors are reserved for infrastructure failures.
	Verify(ctx context.Context, employerID id.EmployerID, digest [32]byte, sig []byte) (bool, error)
}
