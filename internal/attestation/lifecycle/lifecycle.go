// Package lifecycle computes attestation expiry against an injected clock.
package lifecycle

import (
	"time"

	"wagebridge/internal/attestation/models"
)

// ExpiresAt returns the instant the attestation stops being consumable for
// proof generation: seven days after its creation timestamp.
func ExpiresAt(att models.WageAttestation) time.Time {
	return att.Timestamp.Add(models.ExpiryWindow)
}

// IsExpired reports whether the attestation is past its expiry at the given
// time. Pure function of the stored timestamp and the injected clock; the
// stored record itself is never deleted on expiry.
func IsExpired(att models.WageAttestation, now time.Time) bool {
	return now.After(ExpiresAt(att))
}
