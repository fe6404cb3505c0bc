package handler

import (
	"encoding/hex"

	"wagebridge/internal/attestation/canonical"
	"wagebridge/internal/attestation/lifecycle"
	"wagebridge/internal/attestation/models"
	id "wagebridge/pkg/domain"
)

// AttestationResponse is the wire shape of a stored attestation. Hours are
// rendered as their exact decimal string and the signature as hex.
type AttestationResponse struct {
	ID             string `json:"id"`
	EmployerID     string `json:"employerId"`
	EmployeeWallet string `json:"employeeWallet"`
	WageAmount     int64  `json:"wageAmount"`
	PeriodStart    string `json:"periodStart"`
	PeriodEnd      string `json:"periodEnd"`
	HoursWorked    string `json:"hoursWorked"`
	HourlyRate     int64  `json:"hourlyRate"`
	PeriodNonce    string `json:"periodNonce"`
	Nullifier      string `json:"nullifier"`
	Timestamp      string `json:"timestamp"`
	ExpiresAt      string `json:"expiresAt"`
	Signature      string `json:"signature,omitempty"`
}

func toAttestationResponse(att models.WageAttestation, nullifier id.Nullifier) AttestationResponse {
	return AttestationResponse{
		ID:             att.ID.String(),
		EmployerID:     att.EmployerID.String(),
		EmployeeWallet: att.EmployeeWallet.Canonical(),
		WageAmount:     att.WageAmount,
		PeriodStart:    canonical.FormatTimestamp(att.PeriodStart),
		PeriodEnd:      canonical.FormatTimestamp(att.PeriodEnd),
		HoursWorked:    att.HoursWorked.String(),
		HourlyRate:     att.HourlyRate,
		PeriodNonce:    att.PeriodNonce.String(),
		Nullifier:      nullifier.String(),
		Timestamp:      canonical.FormatTimestamp(att.Timestamp),
		ExpiresAt:      canonical.FormatTimestamp(lifecycle.ExpiresAt(att)),
		Signature:      hex.EncodeToString(att.Signature),
	}
}

// VerifyResponse reports the outcome of re-verifying an attestation.
type VerifyResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// NullifyResponse confirms a nullifier spend.
type NullifyResponse struct {
	Nullifier string `json:"nullifier"`
	Status    string `json:"status"`
}
