// Package nonce derives the period-scoped replay-prevention tokens.
//
// Derivation is intentionally deterministic: the same employer, employee, and
// period always yield the same token, so a second attestation for the same
// period is detectable before any nullifier logic runs downstream.
package nonce

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	id "wagebridge/pkg/domain"
)

// periodNonceLen is the number of hex characters kept from the digest.
// Truncating to 64 bits trades nonce size against birthday-bound collision
// risk at very large scale; revisit before the protocol exceeds ~10^9
// distinct periods.
const periodNonceLen = 16

// DerivePeriod computes the period nonce for an employer/employee/period
// tuple: the first 16 hex characters of SHA-256 over
// employerId + "_" + wallet + "_" + startMillis + "_" + endMillis.
// The wallet enters in canonical lower-cased form so address casing cannot
// split one period into two nonces.
func DerivePeriod(employerID id.EmployerID, wallet id.WalletAddress, periodStart, periodEnd time.Time) id.PeriodNonce {
	key := fmt.Sprintf("%s_%s_%d_%d",
		employerID.String(),
		wallet.Canonical(),
		periodStart.UnixMilli(),
		periodEnd.UnixMilli(),
	)
	digest := sha256.Sum256([]byte(key))
	return id.PeriodNonce(hex.EncodeToString(digest[:])[:periodNonceLen])
}

// DeriveNullifier computes the one-time-use token a downstream claim redeems.
// It binds the period nonce to the employee wallet with a fixed domain prefix
// so a nullifier from one context can never collide with a period nonce or a
// nullifier derived for another wallet.
func DeriveNullifier(periodNonce id.PeriodNonce, wallet id.WalletAddress) id.Nullifier {
	key := fmt.Sprintf("nullifier_%s_%s", periodNonce.String(), wallet.Canonical())
	digest := sha256.Sum256([]byte(key))
	return id.Nullifier(hex.EncodeToString(digest[:]))
}
