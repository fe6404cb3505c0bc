package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"wagebridge/internal/attestation/handler"
	"wagebridge/internal/attestation/service"
	"wagebridge/internal/attestation/store"
	"wagebridge/internal/platform/health"
	"wagebridge/internal/platform/middleware"
	"wagebridge/internal/replay"
	"wagebridge/internal/signer"
	httptransport "wagebridge/internal/transport/http"
)

const testSigningKey = "dev-secret-key-change-in-production"

// TestContext holds state between test steps. When BASE_URL is not set it
// starts an in-process gateway backed by the in-memory store and local
// signer, so the suite runs without external infrastructure.
type TestContext struct {
	BaseURL          string
	HTTPClient       *http.Client
	LastResponse     *http.Response
	LastResponseBody []byte
	EmployerID       string
	EmployerToken    string
	AttestationID    string
	Nullifier        string

	lastSubmitted attestationBody
	server        *httptest.Server
}

// NewTestContext creates a new test context
func NewTestContext() *TestContext {
	tc := &TestContext{
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}

	tc.BaseURL = os.Getenv("BASE_URL")
	if tc.BaseURL == "" {
		tc.server = httptest.NewServer(newGateway())
		tc.BaseURL = tc.server.URL
	}

	return tc
}

// Close shuts down the in-process gateway, if one was started.
func (tc *TestContext) Close() {
	if tc.server != nil {
		tc.server.Close()
	}
}

func newGateway() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	memory := store.NewInMemory()
	svc := service.NewService(memory, memory, signer.NewLocal(),
		service.WithLogger(logger),
	)

	return httptransport.NewRouter(httptransport.Config{
		Attestations: handler.New(svc, logger),
		Health:       health.New("test"),
		ReplayGuard:  replay.NewGuard(replay.DefaultWindow),
		NonceCache:   replay.NewMemoryNonceCache(),
		JWTKey:       testSigningKey,
		Logger:       logger,
	})
}

// MintEmployerToken signs an HS256 token the gateway accepts for the given
// employer.
func (tc *TestContext) MintEmployerToken(employerID string) (string, error) {
	now := time.Now()
	claims := middleware.EmployerClaims{
		EmployerID: employerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   employerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSigningKey))
}

// POST makes a POST request and stores the response
func (tc *TestContext) POST(path string, body interface{}) error {
	return tc.POSTWithHeaders(path, body, nil)
}

// POSTWithHeaders makes a POST request with optional headers
func (tc *TestContext) POSTWithHeaders(path string, body interface{}, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(context.Background(), "POST", tc.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}

	tc.LastResponse = resp
	tc.LastResponseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	return nil
}

// GET makes a GET request and stores the response
func (tc *TestContext) GET(path string, headers map[string]string) error {
	req, err := http.NewRequestWithContext(context.Background(), "GET", tc.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}

	tc.LastResponse = resp
	tc.LastResponseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	return nil
}

// GetResponseField extracts a field from the JSON response
func (tc *TestContext) GetResponseField(field string) (interface{}, error) {
	var data map[string]interface{}
	if err := json.Unmarshal(tc.LastResponseBody, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	value, ok := data[field]
	if !ok {
		return nil, fmt.Errorf("field %s not found in response", field)
	}

	return value, nil
}

// ResponseContains checks if the response body contains a field or text
func (tc *TestContext) ResponseContains(text string) bool {
	if strings.Contains(string(tc.LastResponseBody), text) {
		return true
	}

	var data map[string]interface{}
	if err := json.Unmarshal(tc.LastResponseBody, &data); err == nil {
		if _, ok := data[text]; ok {
			return true
		}
	}

	return false
}

func (tc *TestContext) GetLastResponseStatus() int {
	if tc.LastResponse == nil {
		return 0
	}
	return tc.LastResponse.StatusCode
}

func (tc *TestContext) GetLastResponseBody() []byte {
	return tc.LastResponseBody
}
