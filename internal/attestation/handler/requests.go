package handler

import (
	"encoding/json"
	"strings"
	"time"

	"wagebridge/internal/attestation/models"
	id "wagebridge/pkg/domain"
	dErrors "wagebridge/pkg/domain-errors"
	"wagebridge/pkg/validation"
)

// CreateAttestationRequest is the wire shape for attestation creation. The
// employer comes from the authenticated context, never from the body.
type CreateAttestationRequest struct {
	EmployeeWallet string      `json:"employeeWallet" validate:"required,notblank"`
	WageAmount     int64       `json:"wageAmount" validate:"required"`
	PeriodStart    time.Time   `json:"periodStart" validate:"required"`
	PeriodEnd      time.Time   `json:"periodEnd" validate:"required"`
	HoursWorked    json.Number `json:"hoursWorked" validate:"required"`
	HourlyRate     int64       `json:"hourlyRate" validate:"required"`
}

// Normalize applies input sanitization.
func (r *CreateAttestationRequest) Normalize() {
	if r == nil {
		return
	}
	r.EmployeeWallet = strings.TrimSpace(r.EmployeeWallet)
}

// Validate checks that the request is structurally well-formed. Business
// bounds are the rule engine's job.
func (r *CreateAttestationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

// ToModel converts the request into the domain create request for the
// authenticated employer.
func (r *CreateAttestationRequest) ToModel(employerID id.EmployerID) (models.CreateRequest, error) {
	wallet, err := id.ParseWalletAddress(r.EmployeeWallet)
	if err != nil {
		return models.CreateRequest{}, err
	}
	hours, err := models.ParseHours(r.HoursWorked.String())
	if err != nil {
		return models.CreateRequest{}, err
	}
	return models.CreateRequest{
		EmployerID:     employerID,
		EmployeeWallet: wallet,
		WageAmount:     r.WageAmount,
		PeriodStart:    r.PeriodStart,
		PeriodEnd:      r.PeriodEnd,
		HoursWorked:    hours,
		HourlyRate:     r.HourlyRate,
	}, nil
}
