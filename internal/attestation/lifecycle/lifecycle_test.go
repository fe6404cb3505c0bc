package lifecycle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"wagebridge/internal/attestation/lifecycle"
	"wagebridge/internal/attestation/models"
)

func TestIsExpired(t *testing.T) {
	created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	att := models.WageAttestation{Timestamp: created}

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"just created", created, false},
		{"one day in", created.Add(24 * time.Hour), false},
		{"exactly seven days", created.Add(7 * 24 * time.Hour), false},
		{"one millisecond past", created.Add(7*24*time.Hour + time.Millisecond), true},
		{"long past", created.Add(30 * 24 * time.Hour), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, lifecycle.IsExpired(att, tc.now))
		})
	}
}

func TestExpiryIndependentOfWorkPeriod(t *testing.T) {
	// Expiry is driven by the creation timestamp, not the attested period.
	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	att := models.WageAttestation{
		PeriodStart: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC),
		Timestamp:   created,
	}

	assert.Equal(t, created.Add(7*24*time.Hour), lifecycle.ExpiresAt(att))
	assert.False(t, lifecycle.IsExpired(att, created.Add(6*24*time.Hour)))
}
