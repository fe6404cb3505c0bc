// Package service orchestrates the wage attestation lifecycle: creation and
// signing, verification, proof input export, and nullifier spending.
package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"wagebridge/internal/attestation/canonical"
	"wagebridge/internal/attestation/lifecycle"
	"wagebridge/internal/attestation/metrics"
	"wagebridge/internal/attestation/models"
	"wagebridge/internal/attestation/nonce"
	"wagebridge/internal/attestation/store"
	"wagebridge/internal/attestation/tracer"
	"wagebridge/internal/attestation/validation"
	"wagebridge/internal/audit"
	"wagebridge/internal/signer"
	id "wagebridge/pkg/domain"
	dErrors "wagebridge/pkg/domain-errors"
	"wagebridge/pkg/requestcontext"
)

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger instance for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithAuditor sets the audit publisher.
func WithAuditor(auditor audit.Publisher) Option {
	return func(s *Service) {
		s.auditor = auditor
	}
}

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the tracer for the service.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// Service implements the attestation lifecycle. All time comes from the
// request context so behavior is reproducible in tests.
type Service struct {
	store   Store
	ledger  NullifierLedger
	signer  Signer
	auditor audit.Publisher
	metrics *metrics.Metrics
	tracer  tracer.Tracer
	logger  *slog.Logger
}

// NewService constructs the attestation service.
func NewService(st Store, ledger NullifierLedger, sig Signer, opts ...Option) *Service {
	svc := &Service{
		store:   st,
		ledger:  ledger,
		signer:  sig,
		auditor: audit.NewNoop(),
		tracer:  tracer.NewNoop(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Create validates the request, derives the period nonce, signs the
// canonical form, and persists the attestation. The period nonce makes
// creation idempotent per employer, wallet, and period: a second submission
// for the same period fails with CodeDuplicateNonce regardless of its other
// fields.
func (s *Service) Create(ctx context.Context, req models.CreateRequest) (models.WageAttestation, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanCreate,
		tracer.String(tracer.AttrEmployerID, req.EmployerID.String()),
		tracer.String(tracer.AttrWalletHash, tracer.HashWallet(req.EmployeeWallet.Canonical())),
	)
	var opErr error
	defer func() { span.End(opErr) }()

	now := requestcontext.Now(ctx).UTC().Truncate(time.Millisecond)

	att := models.WageAttestation{
		ID:             id.NewAttestationID(),
		EmployerID:     req.EmployerID,
		EmployeeWallet: id.WalletAddress(req.EmployeeWallet.Canonical()),
		WageAmount:     req.WageAmount,
		PeriodStart:    req.PeriodStart.UTC(),
		PeriodEnd:      req.PeriodEnd.UTC(),
		HoursWorked:    req.HoursWorked,
		HourlyRate:     req.HourlyRate,
		Timestamp:      now,
	}
	att.PeriodNonce = nonce.DerivePeriod(att.EmployerID, att.EmployeeWallet, att.PeriodStart, att.PeriodEnd)
	span.SetAttributes(tracer.String(tracer.AttrPeriodNonce, att.PeriodNonce.String()))

	if result := validation.Validate(att, now); !result.IsValid {
		if s.metrics != nil {
			// Counter labels must stay bounded, so the stable rule
			// identifier is recorded, never the formatted message.
			for _, v := range result.Violations {
				s.metrics.IncrementValidationFailure(v.Rule)
			}
		}
		opErr = dErrors.New(dErrors.CodeValidation, strings.Join(result.Messages(), "; "))
		return models.WageAttestation{}, opErr
	}

	digest, err := canonical.SigningHash(att)
	if err != nil {
		opErr = dErrors.Wrap(err, dErrors.CodeInternal, "canonical encoding failed")
		return models.WageAttestation{}, opErr
	}
	sig, err := s.signer.Sign(ctx, att.EmployerID, digest)
	if err != nil {
		opErr = dErrors.Wrap(err, dErrors.CodeInternal, "signing failed")
		return models.WageAttestation{}, opErr
	}
	att = att.WithSignature(sig)

	insertStart := time.Now()
	err = s.store.InsertIfAbsent(ctx, att)
	s.observeStore("insert_if_absent", insertStart)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateNonce) {
			if s.metrics != nil {
				s.metrics.IncrementDuplicateNonce()
			}
			msg := fmt.Sprintf("an attestation for period nonce %s already exists", att.PeriodNonce)
			if existing, lookupErr := s.store.GetByNonce(ctx, att.PeriodNonce); lookupErr == nil {
				msg = fmt.Sprintf("%s (attestation %s)", msg, existing.ID)
			}
			opErr = dErrors.New(dErrors.CodeDuplicateNonce, msg)
			return models.WageAttestation{}, opErr
		}
		opErr = dErrors.Wrap(err, dErrors.CodeInternal, "could not persist attestation")
		return models.WageAttestation{}, opErr
	}

	if s.metrics != nil {
		s.metrics.IncrementCreated()
		s.metrics.ObserveCreateLatency(time.Since(start).Seconds())
	}
	s.emit(ctx, audit.Event{
		Action:        audit.ActionAttestationCreated,
		AttestationID: att.ID.String(),
		EmployerID:    att.EmployerID.String(),
		WalletHash:    tracer.HashWallet(att.EmployeeWallet.Canonical()),
		PeriodNonce:   att.PeriodNonce.String(),
	})
	span.AddEvent(tracer.EventNonceClaimed)

	s.logger.Info("attestation created",
		"attestation_id", att.ID.String(),
		"employer_id", att.EmployerID.String(),
		"period_nonce", att.PeriodNonce.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return att, nil
}

// Get retrieves a stored attestation by ID.
func (s *Service) Get(ctx context.Context, attID id.AttestationID) (models.WageAttestation, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanGet,
		tracer.String(tracer.AttrAttestationID, attID.String()))
	var opErr error
	defer func() { span.End(opErr) }()

	getStart := time.Now()
	att, err := s.store.Get(ctx, attID)
	s.observeStore("get", getStart)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			opErr = dErrors.New(dErrors.CodeNotFound, "attestation not found")
			return models.WageAttestation{}, opErr
		}
		opErr = dErrors.Wrap(err, dErrors.CodeInternal, "could not load attestation")
		return models.WageAttestation{}, opErr
	}
	return att, nil
}

// Verify re-checks a stored attestation: signature over the recomputed
// canonical hash, the expiry window, and the nullifier ledger. Integrity
// failures are reported in the result, not as errors; errors are reserved
// for infrastructure faults.
func (s *Service) Verify(ctx context.Context, attID id.AttestationID) (models.VerifyResult, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanVerify,
		tracer.String(tracer.AttrAttestationID, attID.String()))
	var opErr error
	defer func() { span.End(opErr) }()

	att, err := s.Get(ctx, attID)
	if err != nil {
		opErr = err
		return models.VerifyResult{}, opErr
	}

	result, err := s.check(ctx, att)
	if err != nil {
		opErr = err
		return models.VerifyResult{}, opErr
	}

	outcome := "valid"
	if !result.Valid {
		outcome = result.Reason
	}
	span.SetAttributes(
		tracer.Bool(tracer.AttrValid, result.Valid),
		tracer.String(tracer.AttrReason, result.Reason),
	)
	if s.metrics != nil {
		s.metrics.IncrementVerification(outcome)
	}
	s.emit(ctx, audit.Event{
		Action:        audit.ActionAttestationVerified,
		AttestationID: att.ID.String(),
		EmployerID:    att.EmployerID.String(),
		PeriodNonce:   att.PeriodNonce.String(),
		Outcome:       outcome,
	})
	return result, nil
}

// check runs the verification sequence. Order matters: signature presence,
// signature validity, expiry, then nullifier state. The first failure wins.
func (s *Service) check(ctx context.Context, att models.WageAttestation) (models.VerifyResult, error) {
	if !att.Signed() {
		return models.VerifyResult{Reason: models.ReasonSignatureMissing, Attestation: &att}, nil
	}

	digest, err := canonical.SigningHash(att)
	if err != nil {
		return models.VerifyResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "canonical encoding failed")
	}
	ok, err := s.signer.Verify(ctx, att.EmployerID, digest, att.Signature)
	if err != nil {
		if errors.Is(err, signer.ErrUnknownEmployer) {
			return models.VerifyResult{Reason: models.ReasonSignatureInvalid, Attestation: &att}, nil
		}
		return models.VerifyResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "signature verification failed")
	}
	if !ok {
		return models.VerifyResult{Reason: models.ReasonSignatureInvalid, Attestation: &att}, nil
	}

	now := requestcontext.Now(ctx)
	if lifecycle.IsExpired(att, now) {
		return models.VerifyResult{Reason: models.ReasonExpired, Attestation: &att}, nil
	}

	ledgerStart := time.Now()
	used, err := s.ledger.IsUsed(ctx, nonce.DeriveNullifier(att.PeriodNonce, att.EmployeeWallet))
	s.observeStore("nullifier_lookup", ledgerStart)
	if err != nil {
		return models.VerifyResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "nullifier lookup failed")
	}
	if used {
		return models.VerifyResult{Reason: models.ReasonNullifierUsed, Attestation: &att}, nil
	}

	return models.VerifyResult{Valid: true, Attestation: &att}, nil
}

// ExportProofInput produces the zero-knowledge proof input bundle for a
// valid attestation. Unlike Verify, any integrity failure here is an error:
// an invalid attestation must never leave the gateway as proof material.
func (s *Service) ExportProofInput(ctx context.Context, attID id.AttestationID) (models.ProofInput, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanProofInput,
		tracer.String(tracer.AttrAttestationID, attID.String()))
	var opErr error
	defer func() { span.End(opErr) }()

	att, err := s.Get(ctx, attID)
	if err != nil {
		opErr = err
		return models.ProofInput{}, opErr
	}

	result, err := s.check(ctx, att)
	if err != nil {
		opErr = err
		return models.ProofInput{}, opErr
	}
	if !result.Valid {
		switch result.Reason {
		case models.ReasonExpired:
			if s.metrics != nil {
				s.metrics.IncrementExpiredExport()
			}
			opErr = dErrors.New(dErrors.CodeExpired, "attestation is past its proof window")
		case models.ReasonNullifierUsed:
			opErr = dErrors.New(dErrors.CodeNullifierUsed, "wage claim already redeemed")
		default:
			opErr = dErrors.New(dErrors.CodeSignature, "attestation signature is "+result.Reason)
		}
		return models.ProofInput{}, opErr
	}

	digest, err := canonical.SigningHash(att)
	if err != nil {
		opErr = dErrors.Wrap(err, dErrors.CodeInternal, "canonical encoding failed")
		return models.ProofInput{}, opErr
	}

	if s.metrics != nil {
		s.metrics.IncrementProofInputExported()
	}
	s.emit(ctx, audit.Event{
		Action:        audit.ActionProofInputExported,
		AttestationID: att.ID.String(),
		EmployerID:    att.EmployerID.String(),
		PeriodNonce:   att.PeriodNonce.String(),
	})

	return models.ProofInput{
		EmployerID:      att.EmployerID.String(),
		EmployeeWallet:  att.EmployeeWallet.Canonical(),
		WageAmount:      strconv.FormatInt(att.WageAmount, 10),
		PeriodNonce:     att.PeriodNonce.String(),
		AttestationHash: hex.EncodeToString(digest[:]),
		Signature:       hex.EncodeToString(att.Signature),
	}, nil
}

// Nullify marks the attestation's wage claim as redeemed. First caller
// wins; every later attempt fails with CodeNullifierUsed.
func (s *Service) Nullify(ctx context.Context, n id.Nullifier) error {
	ctx, span := s.tracer.Start(ctx, tracer.SpanNullify)
	var opErr error
	defer func() { span.End(opErr) }()

	markStart := time.Now()
	err := s.ledger.MarkUsed(ctx, n)
	s.observeStore("nullifier_mark", markStart)
	if err != nil {
		if errors.Is(err, store.ErrNullifierUsed) {
			if s.metrics != nil {
				s.metrics.IncrementNullifierConflict()
			}
			opErr = dErrors.New(dErrors.CodeNullifierUsed, "nullifier has already been spent")
			return opErr
		}
		opErr = dErrors.Wrap(err, dErrors.CodeInternal, "could not record nullifier")
		return opErr
	}

	s.emit(ctx, audit.Event{
		Action:    audit.ActionNullifierSpent,
		Nullifier: n.String(),
		Outcome:   "spent",
	})
	s.logger.Info("nullifier spent",
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// NullifierFor derives the spend nullifier bound to an attestation.
func (s *Service) NullifierFor(att models.WageAttestation) id.Nullifier {
	return nonce.DeriveNullifier(att.PeriodNonce, att.EmployeeWallet)
}

func (s *Service) observeStore(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveStoreOperationLatency(operation, time.Since(start).Seconds())
	}
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	event.RequestID = requestcontext.RequestID(ctx)
	event.Timestamp = requestcontext.Now(ctx)
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.Warn("audit emit failed",
			"action", string(event.Action),
			"error", err,
		)
	}
}
