package signer

import (
	"context"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "wagebridge/pkg/domain"
)

func TestLocal_SignAndVerify(t *testing.T) {
	s := NewLocal()
	ctx := context.Background()
	employer := id.EmployerID("a1b2c3d4e5f60718")
	digest := sha256.Sum256([]byte("canonical attestation bytes"))

	sig, err := s.Sign(ctx, employer, digest)
	require.NoError(t, err)
	require.NotEmpty(t, sig)

	ok, err := s.Verify(ctx, employer, digest, sig)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocal_VerifyRejectsTamperedDigest(t *testing.T) {
	s := NewLocal()
	ctx := context.Background()
	employer := id.EmployerID("a1b2c3d4e5f60718")
	digest := sha256.Sum256([]byte("original"))

	sig, err := s.Sign(ctx, employer, digest)
	require.NoError(t, err)

	tampered := sha256.Sum256([]byte("tampered"))
	ok, err := s.Verify(ctx, employer, tampered, sig)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocal_VerifyRejectsWrongEmployerKey(t *testing.T) {
	s := NewLocal()
	ctx := context.Background()
	digest := sha256.Sum256([]byte("payload"))

	sig, err := s.Sign(ctx, id.EmployerID("a1b2c3d4e5f60718"), digest)
	require.NoError(t, err)

	// Second employer signs once so its key exists, then is handed the
	// first employer's signature.
	_, err = s.Sign(ctx, id.EmployerID("00112233445566ff"), digest)
	require.NoError(t, err)

	ok, err := s.Verify(ctx, id.EmployerID("00112233445566ff"), digest, sig)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocal_VerifyUnknownEmployer(t *testing.T) {
	s := NewLocal()
	digest := sha256.Sum256([]byte("payload"))

	_, err := s.Verify(context.Background(), id.EmployerID("deadbeefdeadbeef"), digest, []byte("sig"))
	assert.ErrorIs(t, err, ErrUnknownEmployer)
}

func TestLocal_GarbageSignatureIsInvalidNotError(t *testing.T) {
	s := NewLocal()
	ctx := context.Background()
	employer := id.EmployerID("a1b2c3d4e5f60718")
	digest := sha256.Sum256([]byte("payload"))

	_, err := s.Sign(ctx, employer, digest)
	require.NoError(t, err)

	ok, err := s.Verify(ctx, employer, digest, []byte("not a der signature"))
	require.NoError(t, err)
	assert.False(t, ok)
}
