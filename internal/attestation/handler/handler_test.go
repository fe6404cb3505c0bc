package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"wagebridge/internal/attestation/handler"
	"wagebridge/internal/attestation/handler/mocks"
	"wagebridge/internal/attestation/models"
	"wagebridge/internal/platform/middleware"
	id "wagebridge/pkg/domain"
	dErrors "wagebridge/pkg/domain-errors"
)

const (
	testEmployerID = "a1b2c3d4e5f60718"
	testWallet     = "0x742d35Cc6634C0532925a3b8D000B45f5c964C10"
	testNullifier  = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
)

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	h := handler.New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) do(method, path, body string, authed bool) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if authed {
		ctx := middleware.WithEmployerID(context.Background(), id.EmployerID(testEmployerID))
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) sampleAttestation() models.WageAttestation {
	return models.WageAttestation{
		ID:             id.NewAttestationID(),
		EmployerID:     id.EmployerID(testEmployerID),
		EmployeeWallet: id.WalletAddress("0x742d35cc6634c0532925a3b8d000b45f5c964c10"),
		WageAmount:     50000,
		PeriodStart:    time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		PeriodEnd:      time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC),
		HoursWorked:    models.HoursFromMilli(8000),
		HourlyRate:     6250,
		PeriodNonce:    id.PeriodNonce("0123456789abcdef"),
		Timestamp:      time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC),
		Signature:      []byte{0xde, 0xad},
	}
}

const createBody = `{
	"employeeWallet": "0x742d35Cc6634C0532925a3b8D000B45f5c964C10",
	"wageAmount": 50000,
	"periodStart": "2024-01-01T09:00:00Z",
	"periodEnd": "2024-01-01T17:00:00Z",
	"hoursWorked": 8,
	"hourlyRate": 6250
}`

func (s *HandlerSuite) TestCreate_Success() {
	att := s.sampleAttestation()

	s.service.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req models.CreateRequest) (models.WageAttestation, error) {
			s.Equal(id.EmployerID(testEmployerID), req.EmployerID)
			s.Equal(int64(8000), req.HoursWorked.Milli())
			return att, nil
		})
	s.service.EXPECT().NullifierFor(gomock.Any()).Return(id.Nullifier(testNullifier))

	rec := s.do(http.MethodPost, "/v1/attestations", createBody, true)
	s.Equal(http.StatusCreated, rec.Code)

	var resp handler.AttestationResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(att.ID.String(), resp.ID)
	s.Equal("0x742d35cc6634c0532925a3b8d000b45f5c964c10", resp.EmployeeWallet)
	s.Equal("8", resp.HoursWorked)
	s.Equal("2024-01-01T18:00:00.000Z", resp.Timestamp)
	s.Equal("2024-01-08T18:00:00.000Z", resp.ExpiresAt)
	s.Equal(testNullifier, resp.Nullifier)
	s.Equal("dead", resp.Signature)
}

func (s *HandlerSuite) TestCreate_FractionalHours() {
	att := s.sampleAttestation()
	body := strings.Replace(createBody, `"hoursWorked": 8`, `"hoursWorked": 7.125`, 1)

	s.service.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req models.CreateRequest) (models.WageAttestation, error) {
			s.Equal(int64(7125), req.HoursWorked.Milli())
			return att, nil
		})
	s.service.EXPECT().NullifierFor(gomock.Any()).Return(id.Nullifier(testNullifier))

	rec := s.do(http.MethodPost, "/v1/attestations", body, true)
	s.Equal(http.StatusCreated, rec.Code)
}

func (s *HandlerSuite) TestCreate_MissingAuthContext() {
	rec := s.do(http.MethodPost, "/v1/attestations", createBody, false)
	s.Equal(http.StatusInternalServerError, rec.Code)
}

func (s *HandlerSuite) TestCreate_MalformedBody() {
	rec := s.do(http.MethodPost, "/v1/attestations", "{not json", true)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestCreate_MissingWallet() {
	body := strings.Replace(createBody, testWallet, "", 1)
	rec := s.do(http.MethodPost, "/v1/attestations", body, true)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestCreate_InvalidWallet() {
	body := strings.Replace(createBody, testWallet, "0xnothex", 1)
	rec := s.do(http.MethodPost, "/v1/attestations", body, true)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestCreate_DuplicateNonceConflict() {
	s.service.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(models.WageAttestation{}, dErrors.New(dErrors.CodeDuplicateNonce, "period already attested"))

	rec := s.do(http.MethodPost, "/v1/attestations", createBody, true)
	s.Equal(http.StatusConflict, rec.Code)
	s.Contains(rec.Body.String(), "duplicate_nonce")
}

func (s *HandlerSuite) TestGet_Success() {
	att := s.sampleAttestation()
	s.service.EXPECT().Get(gomock.Any(), att.ID).Return(att, nil)
	s.service.EXPECT().NullifierFor(gomock.Any()).Return(id.Nullifier(testNullifier))

	rec := s.do(http.MethodGet, "/v1/attestations/"+att.ID.String(), "", false)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *HandlerSuite) TestGet_MalformedID() {
	rec := s.do(http.MethodGet, "/v1/attestations/not-a-uuid", "", false)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestGet_NotFound() {
	attID := id.NewAttestationID()
	s.service.EXPECT().Get(gomock.Any(), attID).
		Return(models.WageAttestation{}, dErrors.New(dErrors.CodeNotFound, "attestation not found"))

	rec := s.do(http.MethodGet, "/v1/attestations/"+attID.String(), "", false)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestVerify_Valid() {
	attID := id.NewAttestationID()
	s.service.EXPECT().Verify(gomock.Any(), attID).Return(models.VerifyResult{Valid: true}, nil)

	rec := s.do(http.MethodPost, "/v1/attestations/"+attID.String()+"/verify", "", false)
	s.Equal(http.StatusOK, rec.Code)

	var resp handler.VerifyResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.True(resp.Valid)
	s.Empty(resp.Reason)
}

func (s *HandlerSuite) TestVerify_InvalidWithReason() {
	attID := id.NewAttestationID()
	s.service.EXPECT().Verify(gomock.Any(), attID).
		Return(models.VerifyResult{Valid: false, Reason: models.ReasonExpired}, nil)

	rec := s.do(http.MethodPost, "/v1/attestations/"+attID.String()+"/verify", "", false)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), models.ReasonExpired)
}

func (s *HandlerSuite) TestProofInput_Success() {
	attID := id.NewAttestationID()
	s.service.EXPECT().ExportProofInput(gomock.Any(), attID).Return(models.ProofInput{
		EmployerID:      testEmployerID,
		EmployeeWallet:  "0x742d35cc6634c0532925a3b8d000b45f5c964c10",
		WageAmount:      "50000",
		PeriodNonce:     "0123456789abcdef",
		AttestationHash: strings.Repeat("ab", 32),
		Signature:       "dead",
	}, nil)

	rec := s.do(http.MethodPost, "/v1/attestations/"+attID.String()+"/proof-input", "", false)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"wageAmount":"50000"`)
	s.Contains(rec.Body.String(), `"attestationHash"`)
}

func (s *HandlerSuite) TestProofInput_ExpiredGone() {
	attID := id.NewAttestationID()
	s.service.EXPECT().ExportProofInput(gomock.Any(), attID).
		Return(models.ProofInput{}, dErrors.New(dErrors.CodeExpired, "attestation is past its proof window"))

	rec := s.do(http.MethodPost, "/v1/attestations/"+attID.String()+"/proof-input", "", false)
	s.Equal(http.StatusGone, rec.Code)
}

func (s *HandlerSuite) TestNullify_Success() {
	s.service.EXPECT().Nullify(gomock.Any(), id.Nullifier(testNullifier)).Return(nil)

	rec := s.do(http.MethodPost, "/v1/nullifiers/"+testNullifier, "", false)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"status":"spent"`)
}

func (s *HandlerSuite) TestNullify_DoubleSpendConflict() {
	s.service.EXPECT().Nullify(gomock.Any(), id.Nullifier(testNullifier)).
		Return(dErrors.New(dErrors.CodeNullifierUsed, "nullifier has already been spent"))

	rec := s.do(http.MethodPost, "/v1/nullifiers/"+testNullifier, "", false)
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *HandlerSuite) TestNullify_MalformedNullifier() {
	rec := s.do(http.MethodPost, "/v1/nullifiers/tooshort", "", false)
	s.Equal(http.StatusBadRequest, rec.Code)
}
