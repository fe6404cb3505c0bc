// Package models defines the wage attestation record and the bounds every
// attestation must satisfy.
//
// WageAttestation is an immutable value: creation, signing, and verification
// all operate on copies, and helper methods never mutate in place. This keeps
// the signing hash stable between creation and any later re-verification.
//
// Domain Purity: no I/O, no context.Context, no time.Now() calls. Time is
// always received as a parameter from the application layer.
package models

import (
	"time"

	id "wagebridge/pkg/domain"
)

// Bounds enforced by the validation engine.
const (
	// MaxWageAmount caps a single attestation at 1,000,000 minor units.
	MaxWageAmount int64 = 1_000_000

	// MinHourlyRate / MaxHourlyRate bound the attested rate in minor units per hour.
	MinHourlyRate int64 = 100
	MaxHourlyRate int64 = 50_000

	// MaxPeriodSpan is the longest attestable work period.
	MaxPeriodSpan = 28 * 24 * time.Hour

	// MaxHoursMilli caps attested hours at 168h regardless of period length.
	MaxHoursMilli int64 = 168_000

	// ExpiryWindow is how long an attestation stays consumable for proof
	// generation, measured from its creation timestamp. Independent of the
	// work period itself.
	ExpiryWindow = 7 * 24 * time.Hour
)

// WageAttestation is an employer's claim that an employee worked a given
// period at a given rate. The sole core entity of the gateway.
type WageAttestation struct {
	ID             id.AttestationID
	EmployerID     id.EmployerID
	EmployeeWallet id.WalletAddress
	WageAmount     int64 // minor currency units
	PeriodStart    time.Time
	PeriodEnd      time.Time
	HoursWorked    Hours
	HourlyRate     int64 // minor units per hour
	PeriodNonce    id.PeriodNonce
	Timestamp      time.Time // creation time, drives the 7-day expiry
	Signature      []byte    // nil until the external signer acts
}

// Signed reports whether the attestation carries a signature.
func (a WageAttestation) Signed() bool {
	return len(a.Signature) > 0
}

// WithSignature returns a copy of the attestation carrying the given
// signature. The original value is left untouched.
func (a WageAttestation) WithSignature(sig []byte) WageAttestation {
	a.Signature = make([]byte, len(sig))
	copy(a.Signature, sig)
	return a
}

// ExpectedWage is the wage implied by the attested hours and rate.
func (a WageAttestation) ExpectedWage() int64 {
	return a.HoursWorked.Wage(a.HourlyRate)
}

// WageTolerance is the permitted absolute deviation between the attested
// wage and the expected wage: max(1, 1% of expected).
func (a WageAttestation) WageTolerance() int64 {
	tolerance := a.ExpectedWage() / 100
	if tolerance < 1 {
		tolerance = 1
	}
	return tolerance
}

// PeriodDays returns the period span in whole days, rounded up. A period of
// 8 business hours counts as one day for the hours bound.
func (a WageAttestation) PeriodDays() int64 {
	span := a.PeriodEnd.Sub(a.PeriodStart)
	if span <= 0 {
		return 0
	}
	day := 24 * time.Hour
	return int64((span + day - 1) / day)
}

// CreateRequest carries the validated inputs for attestation creation.
type CreateRequest struct {
	EmployerID     id.EmployerID
	EmployeeWallet id.WalletAddress
	WageAmount     int64
	PeriodStart    time.Time
	PeriodEnd      time.Time
	HoursWorked    Hours
	HourlyRate     int64
}

// VerifyResult is the structured outcome of verifying a stored attestation.
// A record that fails verification yields Valid=false with a reason; only
// infrastructure failures surface as errors.
type VerifyResult struct {
	Valid       bool
	Reason      string
	Attestation *WageAttestation
}

// Verification failure reasons.
const (
	ReasonSignatureMissing = "signature_missing"
	ReasonSignatureInvalid = "signature_invalid"
	ReasonExpired          = "attestation_expired"
	ReasonNullifierUsed    = "nullifier_used"
)

// ProofInput is the zero-knowledge export shape. Every numeric field is
// emitted as a string to avoid precision loss across language boundaries.
type ProofInput struct {
	EmployerID      string `json:"employerId"`
	EmployeeWallet  string `json:"employeeWallet"`
	WageAmount      string `json:"wageAmount"`
	PeriodNonce     string `json:"periodNonce"`
	AttestationHash string `json:"attestationHash"`
	Signature       string `json:"signature"`
}
