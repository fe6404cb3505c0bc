package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"wagebridge/internal/replay"
)

// RegisterSteps registers all step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Background steps
	ctx.Step(`^the attestation gateway is running$`, tc.gatewayIsRunning)
	ctx.Step(`^employer "([^"]*)" holds a valid API token$`, tc.employerHoldsToken)

	// Submission steps
	ctx.Step(`^the employer submits a wage attestation for wallet "([^"]*)"$`, tc.submitAttestation)
	ctx.Step(`^the employer submits the same attestation again$`, tc.resubmitAttestation)
	ctx.Step(`^the employer submits an attestation with wage (\d+) and hourly rate (\d+)$`, tc.submitWithWageAndRate)
	ctx.Step(`^the employer submits a wage attestation without credentials$`, tc.submitWithoutCredentials)
	ctx.Step(`^the employer submits a wage attestation with a timestamp (\d+) minutes old$`, tc.submitWithStaleTimestamp)

	// Lifecycle steps
	ctx.Step(`^I save the attestation ID and nullifier$`, tc.saveAttestationIDAndNullifier)
	ctx.Step(`^I fetch the attestation$`, tc.fetchAttestation)
	ctx.Step(`^I verify the attestation$`, tc.verifyAttestation)
	ctx.Step(`^I request the proof input$`, tc.requestProofInput)
	ctx.Step(`^the nullifier is spent$`, tc.spendNullifier)
	ctx.Step(`^the nullifier is spent again$`, tc.spendNullifier)

	// Assertion steps
	ctx.Step(`^the response status should be (\d+)$`, tc.responseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, tc.responseShouldContain)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, tc.responseFieldShouldEqual)
}

// Default pay period fixture. An eight hour shift that ended well inside the
// 28 day span limit but before the request time, at a rate consistent with
// the attested wage.
type attestationBody struct {
	EmployeeWallet string `json:"employeeWallet"`
	WageAmount     int64  `json:"wageAmount"`
	PeriodStart    string `json:"periodStart"`
	PeriodEnd      string `json:"periodEnd"`
	HoursWorked    string `json:"hoursWorked"`
	HourlyRate     int64  `json:"hourlyRate"`
}

func defaultAttestationBody(wallet string) attestationBody {
	end := time.Now().UTC().Add(-18 * time.Hour).Truncate(time.Second)
	return attestationBody{
		EmployeeWallet: wallet,
		WageAmount:     50000,
		PeriodStart:    end.Add(-8 * time.Hour).Format(time.RFC3339),
		PeriodEnd:      end.Format(time.RFC3339),
		HoursWorked:    "8",
		HourlyRate:     6250,
	}
}

func (tc *TestContext) gatewayIsRunning(ctx context.Context) error {
	return tc.GET("/health", nil)
}

func (tc *TestContext) employerHoldsToken(ctx context.Context, employerID string) error {
	token, err := tc.MintEmployerToken(employerID)
	if err != nil {
		return err
	}
	tc.EmployerID = employerID
	tc.EmployerToken = token
	return nil
}

func (tc *TestContext) submitAttestation(ctx context.Context, wallet string) error {
	tc.lastSubmitted = defaultAttestationBody(wallet)
	return tc.POSTWithHeaders("/v1/attestations", tc.lastSubmitted, tc.authHeaders())
}

func (tc *TestContext) resubmitAttestation(ctx context.Context) error {
	return tc.POSTWithHeaders("/v1/attestations", tc.lastSubmitted, tc.authHeaders())
}

func (tc *TestContext) submitWithWageAndRate(ctx context.Context, wage, rate int) error {
	body := defaultAttestationBody("0x742d35Cc6634C0532925a3b8D000B45f5c964C10")
	body.WageAmount = int64(wage)
	body.HourlyRate = int64(rate)
	return tc.POSTWithHeaders("/v1/attestations", body, tc.authHeaders())
}

func (tc *TestContext) submitWithoutCredentials(ctx context.Context) error {
	body := defaultAttestationBody("0x742d35Cc6634C0532925a3b8D000B45f5c964C10")
	return tc.POSTWithHeaders("/v1/attestations", body, map[string]string{
		replay.HeaderTimestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (tc *TestContext) submitWithStaleTimestamp(ctx context.Context, minutes int) error {
	body := defaultAttestationBody("0x742d35Cc6634C0532925a3b8D000B45f5c964C10")
	stale := time.Now().UTC().Add(-time.Duration(minutes) * time.Minute)
	return tc.POSTWithHeaders("/v1/attestations", body, map[string]string{
		"Authorization":        "Bearer " + tc.EmployerToken,
		replay.HeaderTimestamp: stale.Format(time.RFC3339),
	})
}

func (tc *TestContext) authHeaders() map[string]string {
	return map[string]string{
		"Authorization":        "Bearer " + tc.EmployerToken,
		replay.HeaderTimestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func (tc *TestContext) saveAttestationIDAndNullifier(ctx context.Context) error {
	attID, err := tc.GetResponseField("id")
	if err != nil {
		return err
	}
	nullifier, err := tc.GetResponseField("nullifier")
	if err != nil {
		return err
	}
	tc.AttestationID = attID.(string)
	tc.Nullifier = nullifier.(string)
	return nil
}

func (tc *TestContext) fetchAttestation(ctx context.Context) error {
	return tc.GET("/v1/attestations/"+tc.AttestationID, nil)
}

func (tc *TestContext) verifyAttestation(ctx context.Context) error {
	return tc.POST("/v1/attestations/"+tc.AttestationID+"/verify", nil)
}

func (tc *TestContext) requestProofInput(ctx context.Context) error {
	return tc.POST("/v1/attestations/"+tc.AttestationID+"/proof-input", nil)
}

func (tc *TestContext) spendNullifier(ctx context.Context) error {
	return tc.POST("/v1/nullifiers/"+tc.Nullifier, nil)
}

func (tc *TestContext) responseStatusShouldBe(ctx context.Context, expectedStatus int) error {
	if tc.LastResponse.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d but got %d\nResponse: %s",
			expectedStatus, tc.LastResponse.StatusCode, string(tc.LastResponseBody))
	}
	return nil
}

func (tc *TestContext) responseShouldContain(ctx context.Context, text string) error {
	if !tc.ResponseContains(text) {
		return fmt.Errorf("response does not contain: %s\nResponse: %s", text, string(tc.LastResponseBody))
	}
	return nil
}

func (tc *TestContext) responseFieldShouldEqual(ctx context.Context, field, expectedValue string) error {
	var data map[string]interface{}
	if err := json.Unmarshal(tc.LastResponseBody, &data); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	actualValue, ok := data[field]
	if !ok {
		return fmt.Errorf("field %s not found in response", field)
	}

	if fmt.Sprint(actualValue) != expectedValue {
		return fmt.Errorf("field %s: expected %s but got %v", field, expectedValue, actualValue)
	}
	return nil
}
