package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wagebridge/internal/attestation/models"
	id "wagebridge/pkg/domain"
)

func sampleAttestation() models.WageAttestation {
	return models.WageAttestation{
		ID:             id.NewAttestationID(),
		EmployerID:     id.EmployerID("a1b2c3d4e5f60718"),
		EmployeeWallet: id.WalletAddress("0x742d35cc6634c0532925a3b8d000b45f5c964c10"),
		WageAmount:     50000,
		PeriodStart:    time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		PeriodEnd:      time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC),
		HoursWorked:    models.HoursFromMilli(8000),
		HourlyRate:     6250,
		PeriodNonce:    id.PeriodNonce("0123456789abcdef"),
		Timestamp:      time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC),
		Signature:      []byte("sig"),
	}
}

func TestInsertIfAbsent_Success(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	att := sampleAttestation()

	require.NoError(t, s.InsertIfAbsent(ctx, att))

	found, err := s.Get(ctx, att.ID)
	require.NoError(t, err)
	assert.Equal(t, att.PeriodNonce, found.PeriodNonce)

	byNonce, err := s.GetByNonce(ctx, att.PeriodNonce)
	require.NoError(t, err)
	assert.Equal(t, att.ID, byNonce.ID)
}

func TestInsertIfAbsent_DuplicateNonce(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	first := sampleAttestation()
	require.NoError(t, s.InsertIfAbsent(ctx, first))

	second := sampleAttestation()
	second.ID = id.NewAttestationID()
	second.WageAmount = 99999

	err := s.InsertIfAbsent(ctx, second)
	require.ErrorIs(t, err, ErrDuplicateNonce)

	// The original record is untouched.
	kept, err := s.GetByNonce(ctx, first.PeriodNonce)
	require.NoError(t, err)
	assert.Equal(t, first.ID, kept.ID)
	assert.Equal(t, int64(50000), kept.WageAmount)
}

func TestGet_NotFound(t *testing.T) {
	s := NewInMemory()

	_, err := s.Get(context.Background(), id.NewAttestationID())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetByNonce(context.Background(), id.PeriodNonce("ffffffffffffffff"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkUsed_FirstWriterWins(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	n := id.Nullifier("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	used, err := s.IsUsed(ctx, n)
	require.NoError(t, err)
	assert.False(t, used)

	require.NoError(t, s.MarkUsed(ctx, n))
	require.ErrorIs(t, s.MarkUsed(ctx, n), ErrNullifierUsed)

	used, err = s.IsUsed(ctx, n)
	require.NoError(t, err)
	assert.True(t, used)
}

func TestInsertIfAbsent_ConcurrentSameNonce(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	const goroutines = 50

	var wg sync.WaitGroup
	errs := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			att := sampleAttestation()
			att.ID = id.NewAttestationID()
			errs <- s.InsertIfAbsent(ctx, att)
		}()
	}
	wg.Wait()
	close(errs)

	var successes, duplicates int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrDuplicateNonce):
			duplicates++
		}
	}
	assert.Equal(t, 1, successes, "exactly one insert should win")
	assert.Equal(t, goroutines-1, duplicates)
}
