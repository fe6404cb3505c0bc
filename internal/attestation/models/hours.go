package models

import (
	"fmt"
	"strings"

	dErrors "wagebridge/pkg/domain-errors"
)

// Hours represents worked hours with milli-hour precision.
//
// Hours are carried as an integer count of thousandths so canonical encoding
// and the wage consistency rule are exact. Binary floats never enter the
// pipeline: a value round-tripped through float64 could change its decimal
// form between creation and later re-verification and silently break the
// signing hash.
type Hours struct {
	milli int64
}

// HoursFromMilli constructs Hours from a milli-hour count.
func HoursFromMilli(m int64) Hours {
	return Hours{milli: m}
}

// ParseHours parses a decimal string such as "8", "7.5" or "0.125" into
// Hours. At most three fractional digits are accepted; anything finer than a
// milli-hour cannot be represented exactly.
func ParseHours(s string) (Hours, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Hours{}, dErrors.New(dErrors.CodeInvalidInput, "hours cannot be empty")
	}
	if strings.HasPrefix(s, "-") {
		return Hours{}, dErrors.New(dErrors.CodeInvalidInput, "hours cannot be negative")
	}

	whole, frac := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		whole, frac = s[:dot], s[dot+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 3 {
		return Hours{}, dErrors.New(dErrors.CodeInvalidInput, "hours precision is limited to thousandths")
	}

	var milli int64
	for _, r := range whole {
		if r < '0' || r > '9' {
			return Hours{}, dErrors.New(dErrors.CodeInvalidInput, "hours must be a decimal number")
		}
		milli = milli*10 + int64(r-'0')
		if milli > 1<<40 {
			return Hours{}, dErrors.New(dErrors.CodeInvalidInput, "hours value is too large")
		}
	}
	milli *= 1000

	scale := int64(100)
	for _, r := range frac {
		if r < '0' || r > '9' {
			return Hours{}, dErrors.New(dErrors.CodeInvalidInput, "hours must be a decimal number")
		}
		milli += int64(r-'0') * scale
		scale /= 10
	}

	return Hours{milli: milli}, nil
}

// Milli returns the milli-hour count.
func (h Hours) Milli() int64 {
	return h.milli
}

// IsPositive reports whether the hours value is strictly greater than zero.
func (h Hours) IsPositive() bool {
	return h.milli > 0
}

// Wage returns the expected wage in minor currency units for the given hourly
// rate: round(hours × rate), rounded half up.
func (h Hours) Wage(hourlyRate int64) int64 {
	product := h.milli * hourlyRate
	return (product + 500) / 1000
}

// String renders the exact decimal form with no trailing zeros, e.g. "8",
// "7.5", "0.125". This is the form used in canonical encoding.
func (h Hours) String() string {
	whole := h.milli / 1000
	frac := h.milli % 1000
	if frac == 0 {
		return fmt.Sprintf("%d", whole)
	}
	return fmt.Sprintf("%d.%s", whole, strings.TrimRight(fmt.Sprintf("%03d", frac), "0"))
}
