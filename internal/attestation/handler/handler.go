// Package handler exposes the attestation lifecycle over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wagebridge/internal/attestation/models"
	"wagebridge/internal/platform/middleware"
	id "wagebridge/pkg/domain"
	dErrors "wagebridge/pkg/domain-errors"
	"wagebridge/pkg/platform/httputil"
	"wagebridge/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the attestation operations the handler depends on.
type Service interface {
	Create(ctx context.Context, req models.CreateRequest) (models.WageAttestation, error)
	Get(ctx context.Context, attID id.AttestationID) (models.WageAttestation, error)
	Verify(ctx context.Context, attID id.AttestationID) (models.VerifyResult, error)
	ExportProofInput(ctx context.Context, attID id.AttestationID) (models.ProofInput, error)
	Nullify(ctx context.Context, n id.Nullifier) error
	NullifierFor(att models.WageAttestation) id.Nullifier
}

// Handler handles attestation endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New creates an attestation Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers all attestation routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	h.RegisterProtected(r)
	h.RegisterPublic(r)
}

// RegisterProtected registers the routes that require employer auth.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/v1/attestations", h.handleCreate)
}

// RegisterPublic registers the read and downstream protocol routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/v1/attestations/{attestationID}", h.handleGet)
	r.Post("/v1/attestations/{attestationID}/verify", h.handleVerify)
	r.Post("/v1/attestations/{attestationID}/proof-input", h.handleProofInput)
	r.Post("/v1/nullifiers/{nullifier}", h.handleNullify)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	employerID := middleware.GetEmployerID(ctx)
	if employerID.IsNil() {
		h.logger.ErrorContext(ctx, "employerID missing from context despite auth middleware",
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[CreateAttestationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	createReq, err := req.ToModel(employerID)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid create attestation request",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	att, err := h.service.Create(ctx, createReq)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to create attestation",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toAttestationResponse(att, h.service.NullifierFor(att)))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	attID, ok := h.pathAttestationID(w, r)
	if !ok {
		return
	}

	att, err := h.service.Get(ctx, attID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toAttestationResponse(att, h.service.NullifierFor(att)))
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	attID, ok := h.pathAttestationID(w, r)
	if !ok {
		return
	}

	result, err := h.service.Verify(ctx, attID)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to verify attestation",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, VerifyResponse{Valid: result.Valid, Reason: result.Reason})
}

func (h *Handler) handleProofInput(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	attID, ok := h.pathAttestationID(w, r)
	if !ok {
		return
	}

	input, err := h.service.ExportProofInput(ctx, attID)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to export proof input",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, input)
}

func (h *Handler) handleNullify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	n, err := id.ParseNullifier(chi.URLParam(r, "nullifier"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Nullify(ctx, n); err != nil {
		h.logger.WarnContext(ctx, "failed to spend nullifier",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, NullifyResponse{Nullifier: n.String(), Status: "spent"})
}

func (h *Handler) pathAttestationID(w http.ResponseWriter, r *http.Request) (id.AttestationID, bool) {
	attID, err := id.ParseAttestationID(chi.URLParam(r, "attestationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.AttestationID{}, false
	}
	return attID, true
}
