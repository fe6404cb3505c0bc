// Package validation enforces the structural, economic, and temporal rules a
// wage attestation must satisfy before it may be signed.
//
// Validate never fails on malformed input: every rule is checked
// independently and all violations are reported together, so a caller fixing
// a rejected attestation sees the complete picture in one round trip.
package validation

import (
	"fmt"
	"time"

	"wagebridge/internal/attestation/models"
)

// Rule identifiers are stable across requests and safe to use as metric
// label values. Request-specific detail lives only in the message.
const (
	RuleEmployerRequired    = "employer_required"
	RuleWalletRequired      = "wallet_required"
	RuleWagePositive        = "wage_positive"
	RulePeriodStartRequired = "period_start_required"
	RulePeriodEndRequired   = "period_end_required"
	RuleHoursPositive       = "hours_positive"
	RuleRatePositive        = "rate_positive"
	RuleWalletFormat        = "wallet_format"
	RulePeriodOrder         = "period_order"
	RuleWageConsistency     = "wage_consistency"
	RulePeriodFuture        = "period_future"
	RulePeriodSpan          = "period_span"
	RuleRateBounds          = "rate_bounds"
	RuleHoursBound          = "hours_bound"
	RuleWageCeiling         = "wage_ceiling"
)

// Violation pairs a stable rule identifier with the field-named message
// shown to the caller.
type Violation struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Result is the structured outcome consumed by callers (HTTP layer, batch
// tooling). Violations preserve rule order.
type Result struct {
	IsValid    bool        `json:"isValid"`
	Violations []Violation `json:"violations"`
}

// Messages returns the violation messages in rule order.
func (r Result) Messages() []string {
	if len(r.Violations) == 0 {
		return nil
	}
	msgs := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		msgs[i] = v.Message
	}
	return msgs
}

// Validate runs the full rule set against the attestation. The clock is
// always injected; the engine itself never consults wall time.
func Validate(att models.WageAttestation, now time.Time) Result {
	var violations []Violation
	add := func(rule, message string) {
		violations = append(violations, Violation{Rule: rule, Message: message})
	}

	// Rule 1: presence.
	if att.EmployerID.IsNil() {
		add(RuleEmployerRequired, "employerId is required")
	}
	if att.EmployeeWallet.IsNil() {
		add(RuleWalletRequired, "employeeWallet is required")
	}
	if att.WageAmount <= 0 {
		add(RuleWagePositive, "wageAmount must be positive")
	}
	if att.PeriodStart.IsZero() {
		add(RulePeriodStartRequired, "periodStart is required")
	}
	if att.PeriodEnd.IsZero() {
		add(RulePeriodEndRequired, "periodEnd is required")
	}
	if !att.HoursWorked.IsPositive() {
		add(RuleHoursPositive, "hoursWorked must be positive")
	}
	if att.HourlyRate <= 0 {
		add(RuleRatePositive, "hourlyRate must be positive")
	}

	// Rule 2: wallet format.
	if !att.EmployeeWallet.IsNil() && !att.EmployeeWallet.Valid() {
		add(RuleWalletFormat, "employeeWallet must match 0x followed by 40 hex digits")
	}

	// Rule 3: period ordering.
	hasPeriod := !att.PeriodStart.IsZero() && !att.PeriodEnd.IsZero()
	if hasPeriod && !att.PeriodStart.Before(att.PeriodEnd) {
		add(RulePeriodOrder, "periodStart must be before periodEnd")
	}

	// Rule 4: economic consistency. Wage must match hours x rate within
	// max(1, 1% of expected). The economic-integrity backbone of the object.
	if att.HoursWorked.IsPositive() && att.HourlyRate > 0 && att.WageAmount > 0 {
		expected := att.ExpectedWage()
		tolerance := att.WageTolerance()
		deviation := att.WageAmount - expected
		if deviation < 0 {
			deviation = -deviation
		}
		if deviation > tolerance {
			add(RuleWageConsistency, fmt.Sprintf(
				"wageAmount %d deviates from expected %d (hoursWorked x hourlyRate) by more than tolerance %d",
				att.WageAmount, expected, tolerance))
		}
	}

	// Rule 5: temporal sanity.
	if !att.PeriodEnd.IsZero() && att.PeriodEnd.After(now) {
		add(RulePeriodFuture, "periodEnd must not be in the future")
	}
	if hasPeriod && att.PeriodEnd.Sub(att.PeriodStart) > models.MaxPeriodSpan {
		add(RulePeriodSpan, "period span must not exceed 28 days")
	}

	// Rule 6: rate bounds.
	if att.HourlyRate > 0 && (att.HourlyRate < models.MinHourlyRate || att.HourlyRate > models.MaxHourlyRate) {
		add(RuleRateBounds, fmt.Sprintf("hourlyRate must be between %d and %d",
			models.MinHourlyRate, models.MaxHourlyRate))
	}

	// Rule 7: hours bound. One canonical rule: hours may not exceed 24 per
	// period day, capped at 168 overall, so a one-day period cannot carry a
	// week's worth of hours.
	if att.HoursWorked.IsPositive() && hasPeriod && att.PeriodStart.Before(att.PeriodEnd) {
		limitMilli := att.PeriodDays() * 24_000
		if limitMilli > models.MaxHoursMilli {
			limitMilli = models.MaxHoursMilli
		}
		if att.HoursWorked.Milli() > limitMilli {
			add(RuleHoursBound, fmt.Sprintf("hoursWorked %s exceeds the limit of %s for the period",
				att.HoursWorked, models.HoursFromMilli(limitMilli)))
		}
	}

	// Rule 8: wage ceiling.
	if att.WageAmount > models.MaxWageAmount {
		add(RuleWageCeiling, fmt.Sprintf("wageAmount must not exceed %d", models.MaxWageAmount))
	}

	return Result{IsValid: len(violations) == 0, Violations: violations}
}
