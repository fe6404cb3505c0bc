package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHours(t *testing.T) {
	cases := []struct {
		name      string
		input     string
		wantMilli int64
		wantErr   bool
	}{
		{"whole hours", "8", 8000, false},
		{"half hour", "8.5", 8500, false},
		{"quarter hour", "0.25", 250, false},
		{"finest precision", "0.125", 125, false},
		{"leading dot", ".5", 500, false},
		{"zero", "0", 0, false},
		{"too precise", "1.0001", 0, true},
		{"negative", "-1", 0, true},
		{"empty", "", 0, true},
		{"not a number", "eight", 0, true},
		{"scientific notation", "1e3", 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, err := ParseHours(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantMilli, h.Milli())
		})
	}
}

func TestHoursString(t *testing.T) {
	cases := []struct {
		milli int64
		want  string
	}{
		{8000, "8"},
		{8500, "8.5"},
		{250, "0.25"},
		{125, "0.125"},
		{168000, "168"},
		{0, "0"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, HoursFromMilli(tc.milli).String())
	}
}

func TestHoursStringRoundTrip(t *testing.T) {
	// The canonical encoding depends on parse/format being inverse.
	for _, s := range []string{"8", "8.5", "0.125", "37.333", "168"} {
		h, err := ParseHours(s)
		require.NoError(t, err)
		assert.Equal(t, s, h.String())
	}
}

func TestHoursWage(t *testing.T) {
	// 8h at 6250 minor units/hour = 50000.
	assert.Equal(t, int64(50000), HoursFromMilli(8000).Wage(6250))
	// 7.5h at 2000 = 15000.
	assert.Equal(t, int64(15000), HoursFromMilli(7500).Wage(2000))
	// 0.333h at 3000 = 999.
	assert.Equal(t, int64(999), HoursFromMilli(333).Wage(3000))
	// Rounds half up: 0.125h at 100 = 12.5 -> 13.
	assert.Equal(t, int64(13), HoursFromMilli(125).Wage(100))
}

func TestWageTolerance(t *testing.T) {
	att := WageAttestation{HoursWorked: HoursFromMilli(8000), HourlyRate: 6250}
	assert.Equal(t, int64(50000), att.ExpectedWage())
	assert.Equal(t, int64(500), att.WageTolerance())

	// Floor of one minor unit for tiny wages.
	small := WageAttestation{HoursWorked: HoursFromMilli(100), HourlyRate: 100}
	assert.Equal(t, int64(10), small.ExpectedWage())
	assert.Equal(t, int64(1), small.WageTolerance())
}

func TestPeriodDays(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	att := WageAttestation{PeriodStart: start, PeriodEnd: start.Add(8 * time.Hour)}
	assert.Equal(t, int64(1), att.PeriodDays())

	att.PeriodEnd = start.Add(24 * time.Hour)
	assert.Equal(t, int64(1), att.PeriodDays())

	att.PeriodEnd = start.Add(24*time.Hour + time.Second)
	assert.Equal(t, int64(2), att.PeriodDays())

	att.PeriodEnd = start.Add(28 * 24 * time.Hour)
	assert.Equal(t, int64(28), att.PeriodDays())
}

func TestWithSignatureDoesNotMutate(t *testing.T) {
	original := WageAttestation{EmployerID: "emp-001"}
	signed := original.WithSignature([]byte{0x01, 0x02})

	assert.Nil(t, original.Signature)
	assert.True(t, signed.Signed())
	assert.False(t, original.Signed())

	// The signature is copied, not aliased.
	sig := []byte{0xAA}
	signed = original.WithSignature(sig)
	sig[0] = 0xBB
	assert.Equal(t, byte(0xAA), signed.Signature[0])
}
