package canonical_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"wagebridge/internal/attestation/canonical"
	"wagebridge/internal/attestation/models"
)

type CanonicalSuite struct {
	suite.Suite

	att models.WageAttestation
}

func TestCanonicalSuite(t *testing.T) {
	suite.Run(t, new(CanonicalSuite))
}

func (s *CanonicalSuite) SetupTest() {
	s.att = models.WageAttestation{
		EmployerID:     "a1b2c3d4e5f60718",
		EmployeeWallet: "0x742d35Cc6634C0532925a3b8D000B45f5c964C10",
		WageAmount:     50000,
		PeriodStart:    time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		PeriodEnd:      time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC),
		HoursWorked:    models.HoursFromMilli(8000),
		HourlyRate:     6250,
		PeriodNonce:    "a1b2c3d4e5f60718",
		Timestamp:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func (s *CanonicalSuite) TestEncodeIsDeterministic() {
	first, err := canonical.Encode(s.att)
	s.Require().NoError(err)
	second, err := canonical.Encode(s.att)
	s.Require().NoError(err)
	s.Equal(first, second)
}

func (s *CanonicalSuite) TestKeyOrderIsLexicographic() {
	encoded, err := canonical.Encode(s.att)
	s.Require().NoError(err)

	keys := []string{
		"employeeWallet", "employerId", "hourlyRate", "hoursWorked",
		"periodEnd", "periodNonce", "periodStart", "timestamp", "wageAmount",
	}
	last := -1
	for _, key := range keys {
		idx := strings.Index(string(encoded), `"`+key+`"`)
		s.Require().Greater(idx, last, "key %s out of order", key)
		last = idx
	}
}

func (s *CanonicalSuite) TestWalletIsLowerCased() {
	encoded, err := canonical.Encode(s.att)
	s.Require().NoError(err)

	var decoded map[string]any
	s.Require().NoError(json.Unmarshal(encoded, &decoded))
	s.Equal("0x742d35cc6634c0532925a3b8d000b45f5c964c10", decoded["employeeWallet"])
}

func (s *CanonicalSuite) TestWalletCaseDoesNotAffectHash() {
	mixed, err := canonical.SigningHash(s.att)
	s.Require().NoError(err)

	lowered := s.att
	lowered.EmployeeWallet = "0x742d35cc6634c0532925a3b8d000b45f5c964c10"
	lower, err := canonical.SigningHash(lowered)
	s.Require().NoError(err)

	s.Equal(mixed, lower)
}

func (s *CanonicalSuite) TestTimestampFormat() {
	encoded, err := canonical.Encode(s.att)
	s.Require().NoError(err)

	var decoded map[string]any
	s.Require().NoError(json.Unmarshal(encoded, &decoded))
	s.Equal("2024-01-01T09:00:00.000Z", decoded["periodStart"])
	s.Equal("2024-01-01T17:00:00.000Z", decoded["periodEnd"])
	s.Equal("2024-01-02T00:00:00.000Z", decoded["timestamp"])
}

func (s *CanonicalSuite) TestTimezoneNormalization() {
	// The same instant expressed in a non-UTC zone must encode identically.
	est := time.FixedZone("EST", -5*3600)
	shifted := s.att
	shifted.PeriodStart = s.att.PeriodStart.In(est)
	shifted.PeriodEnd = s.att.PeriodEnd.In(est)
	shifted.Timestamp = s.att.Timestamp.In(est)

	want, err := canonical.Encode(s.att)
	s.Require().NoError(err)
	got, err := canonical.Encode(shifted)
	s.Require().NoError(err)
	s.Equal(want, got)
}

func (s *CanonicalSuite) TestHoursAsExactDecimal() {
	fractional := s.att
	fractional.HoursWorked = models.HoursFromMilli(7125)

	encoded, err := canonical.Encode(fractional)
	s.Require().NoError(err)
	s.Contains(string(encoded), `"hoursWorked":7.125`)
}

func (s *CanonicalSuite) TestSigningHashIsStable() {
	first, err := canonical.SigningHash(s.att)
	s.Require().NoError(err)
	second, err := canonical.SigningHash(s.att)
	s.Require().NoError(err)

	s.Equal(first, second)
	s.Len(first, 32)
}

func (s *CanonicalSuite) TestHashChangesWithContent() {
	base, err := canonical.SigningHash(s.att)
	s.Require().NoError(err)

	changed := s.att
	changed.WageAmount = 49999
	other, err := canonical.SigningHash(changed)
	s.Require().NoError(err)

	s.NotEqual(base, other)
}

func (s *CanonicalSuite) TestSignatureIsNotPartOfEncoding() {
	unsigned, err := canonical.SigningHash(s.att)
	s.Require().NoError(err)

	signed, err := canonical.SigningHash(s.att.WithSignature([]byte{0xde, 0xad}))
	s.Require().NoError(err)

	s.Equal(unsigned, signed)
}
