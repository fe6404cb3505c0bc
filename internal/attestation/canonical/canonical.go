// Package canonical produces the byte-stable encoding of a wage attestation
// and the SHA-256 signing hash over it.
//
// The encoding is a pure function of the attestation content: same fields,
// byte-identical output, across machines, locales, and call time. The signer
// signs the hash of this encoding, and every later verification recomputes it
// from the stored record. Any divergence between the two is a defect, never a
// feature.
package canonical

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"wagebridge/internal/attestation/models"
)

// timestampLayout renders ISO-8601 UTC with millisecond precision and a
// literal Z suffix, the bit-exact form fixed by the signing contract.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// payload locks the canonical key order via struct field order. Keys are the
// exhaustive attestation field set sorted lexicographically. Numeric fields
// are emitted as exact decimals: integers directly, hoursWorked through its
// milli-hour decimal form, never a binary float round-trip.
type payload struct {
	EmployeeWallet string          `json:"employeeWallet"`
	EmployerID     string          `json:"employerId"`
	HourlyRate     int64           `json:"hourlyRate"`
	HoursWorked    json.RawMessage `json:"hoursWorked"`
	PeriodEnd      string          `json:"periodEnd"`
	PeriodNonce    string          `json:"periodNonce"`
	PeriodStart    string          `json:"periodStart"`
	Timestamp      string          `json:"timestamp"`
	WageAmount     int64           `json:"wageAmount"`
}

// Encode returns the canonical byte representation of the attestation.
// The wallet address is lower-cased and timestamps are normalized to UTC, so
// representational differences in the input cannot change the output.
func Encode(att models.WageAttestation) ([]byte, error) {
	p := payload{
		EmployeeWallet: att.EmployeeWallet.Canonical(),
		EmployerID:     att.EmployerID.String(),
		HourlyRate:     att.HourlyRate,
		HoursWorked:    json.RawMessage(att.HoursWorked.String()),
		PeriodEnd:      FormatTimestamp(att.PeriodEnd),
		PeriodNonce:    att.PeriodNonce.String(),
		PeriodStart:    FormatTimestamp(att.PeriodStart),
		Timestamp:      FormatTimestamp(att.Timestamp),
		WageAmount:     att.WageAmount,
	}
	encoded, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("canonical encode: %w", err)
	}
	return encoded, nil
}

// SigningHash computes the 32-byte digest the external signer signs and a
// verifier later recomputes: SHA-256 over the canonical encoding.
func SigningHash(att models.WageAttestation) ([32]byte, error) {
	encoded, err := Encode(att)
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(encoded), nil
}

// FormatTimestamp renders a time in the canonical ISO-8601 form.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
