package nonce_test

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wagebridge/internal/attestation/nonce"
	id "wagebridge/pkg/domain"
)

var (
	employer = id.EmployerID("a1b2c3d4e5f60718")
	wallet   = id.WalletAddress("0x742d35Cc6634C0532925a3b8D000B45f5c964C10")
	start    = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	end      = time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC)
)

func TestDerivePeriodIsDeterministic(t *testing.T) {
	first := nonce.DerivePeriod(employer, wallet, start, end)
	second := nonce.DerivePeriod(employer, wallet, start, end)
	assert.Equal(t, first, second)
	assert.Len(t, first.String(), 16)

	// Derived nonces are valid PeriodNonce values.
	_, err := id.ParsePeriodNonce(first.String())
	require.NoError(t, err)
}

func TestDerivePeriodMatchesDigestConstruction(t *testing.T) {
	key := fmt.Sprintf("%s_%s_%d_%d",
		"a1b2c3d4e5f60718",
		"0x742d35cc6634c0532925a3b8d000b45f5c964c10",
		start.UnixMilli(),
		end.UnixMilli(),
	)
	digest := sha256.Sum256([]byte(key))
	want := hex.EncodeToString(digest[:])[:16]

	assert.Equal(t, id.PeriodNonce(want), nonce.DerivePeriod(employer, wallet, start, end))
}

func TestDerivePeriodIgnoresWalletCase(t *testing.T) {
	lower := id.WalletAddress("0x742d35cc6634c0532925a3b8d000b45f5c964c10")
	assert.Equal(t,
		nonce.DerivePeriod(employer, wallet, start, end),
		nonce.DerivePeriod(employer, lower, start, end),
	)
}

func TestDerivePeriodDistinguishesPeriods(t *testing.T) {
	base := nonce.DerivePeriod(employer, wallet, start, end)

	shiftedStart := nonce.DerivePeriod(employer, wallet, start.Add(time.Millisecond), end)
	assert.NotEqual(t, base, shiftedStart)

	shiftedEnd := nonce.DerivePeriod(employer, wallet, start, end.Add(time.Millisecond))
	assert.NotEqual(t, base, shiftedEnd)

	otherEmployer := nonce.DerivePeriod("other-employer", wallet, start, end)
	assert.NotEqual(t, base, otherEmployer)

	otherWallet := nonce.DerivePeriod(employer, "0x0000000000000000000000000000000000000001", start, end)
	assert.NotEqual(t, base, otherWallet)
}

func TestDeriveNullifier(t *testing.T) {
	periodNonce := nonce.DerivePeriod(employer, wallet, start, end)

	first := nonce.DeriveNullifier(periodNonce, wallet)
	second := nonce.DeriveNullifier(periodNonce, wallet)
	assert.Equal(t, first, second)
	assert.Len(t, first.String(), 64)

	_, err := id.ParseNullifier(first.String())
	require.NoError(t, err)

	other := nonce.DeriveNullifier(periodNonce, "0x0000000000000000000000000000000000000001")
	assert.NotEqual(t, first, other)
}
