//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"wagebridge/internal/attestation/models"
	"wagebridge/internal/attestation/store"
	id "wagebridge/pkg/domain"
	"wagebridge/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateModuleTables(context.Background()))
}

func (s *PostgresStoreSuite) newAttestation(nonce string) models.WageAttestation {
	return models.WageAttestation{
		ID:             id.NewAttestationID(),
		EmployerID:     id.EmployerID("a1b2c3d4e5f60718"),
		EmployeeWallet: id.WalletAddress("0x742d35cc6634c0532925a3b8d000b45f5c964c10"),
		WageAmount:     50000,
		PeriodStart:    time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		PeriodEnd:      time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC),
		HoursWorked:    models.HoursFromMilli(8000),
		HourlyRate:     6250,
		PeriodNonce:    id.PeriodNonce(nonce),
		Timestamp:      time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC),
		Signature:      []byte("sig"),
	}
}

func (s *PostgresStoreSuite) TestInsertAndGetRoundTrip() {
	ctx := context.Background()
	att := s.newAttestation("0123456789abcdef")

	s.Require().NoError(s.store.InsertIfAbsent(ctx, att))

	found, err := s.store.Get(ctx, att.ID)
	s.Require().NoError(err)
	s.Equal(att.ID, found.ID)
	s.Equal(att.EmployerID, found.EmployerID)
	s.Equal(att.EmployeeWallet.Canonical(), found.EmployeeWallet.String())
	s.Equal(att.WageAmount, found.WageAmount)
	s.Equal(att.HoursWorked.Milli(), found.HoursWorked.Milli())
	s.Equal(att.PeriodNonce, found.PeriodNonce)
	s.True(att.Timestamp.Equal(found.Timestamp))
	s.Equal(att.Signature, found.Signature)

	byNonce, err := s.store.GetByNonce(ctx, att.PeriodNonce)
	s.Require().NoError(err)
	s.Equal(att.ID, byNonce.ID)
}

func (s *PostgresStoreSuite) TestInsertDuplicateNonce() {
	ctx := context.Background()

	s.Require().NoError(s.store.InsertIfAbsent(ctx, s.newAttestation("0123456789abcdef")))

	err := s.store.InsertIfAbsent(ctx, s.newAttestation("0123456789abcdef"))
	s.Require().ErrorIs(err, store.ErrDuplicateNonce)
}

func (s *PostgresStoreSuite) TestGetNotFound() {
	_, err := s.store.Get(context.Background(), id.NewAttestationID())
	s.Require().ErrorIs(err, store.ErrNotFound)
}

func (s *PostgresStoreSuite) TestConcurrentInsertSameNonce() {
	ctx := context.Background()
	const goroutines = 20

	var wg sync.WaitGroup
	var successes, duplicates atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.InsertIfAbsent(ctx, s.newAttestation("feedfacecafebeef"))
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, store.ErrDuplicateNonce):
				duplicates.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successes.Load(), "exactly one insert should win")
	s.Equal(int32(goroutines-1), duplicates.Load())
}

func (s *PostgresStoreSuite) TestNullifierLedger() {
	ctx := context.Background()
	n := id.Nullifier("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	used, err := s.store.IsUsed(ctx, n)
	s.Require().NoError(err)
	s.False(used)

	s.Require().NoError(s.store.MarkUsed(ctx, n))
	s.Require().ErrorIs(s.store.MarkUsed(ctx, n), store.ErrNullifierUsed)

	used, err = s.store.IsUsed(ctx, n)
	s.Require().NoError(err)
	s.True(used)
}
