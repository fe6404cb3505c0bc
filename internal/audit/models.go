// Package audit emits structured events for every attestation lifecycle
// transition. Events flow to Kafka in production; tests use the recording
// publisher.
package audit

import "time"

// Action identifies the lifecycle transition an event records.
type Action string

const (
	ActionAttestationCreated  Action = "attestation.created"
	ActionAttestationVerified Action = "attestation.verified"
	ActionProofInputExported  Action = "proof_input.exported"
	ActionNullifierSpent      Action = "nullifier.spent"
)

// Event is a single audit record. Wallet addresses never appear in events;
// only their hashes do.
type Event struct {
	Action        Action    `json:"action"`
	AttestationID string    `json:"attestation_id,omitempty"`
	EmployerID    string    `json:"employer_id,omitempty"`
	WalletHash    string    `json:"wallet_hash,omitempty"`
	PeriodNonce   string    `json:"period_nonce,omitempty"`
	Nullifier     string    `json:"nullifier,omitempty"`
	Outcome       string    `json:"outcome,omitempty"`
	RequestID     string    `json:"request_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}
