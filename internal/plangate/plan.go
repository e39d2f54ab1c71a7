// Package plangate decides which subscription plans an admin account may pick,
// what each one costs after its offer, and whether the account is held behind
// payment. Every function is pure over the values passed in.
package plangate

import (
	"strings"
	"time"

	"pgms/internal/money"
)

type DurationUnit string

const (
	UnitMonth DurationUnit = "MONTH"
	UnitDay   DurationUnit = "DAY"
)

// ParseDurationUnit normalises stored unit names. Unrecognised units are kept
// as given and fall back to one month in EndFrom.
func ParseDurationUnit(s string) DurationUnit {
	u := strings.ToUpper(strings.TrimSpace(s))
	switch u {
	case "DAY", "DAYS":
		return UnitDay
	case "MONTH", "MONTHS", "":
		return UnitMonth
	default:
		return DurationUnit(u)
	}
}

type Duration struct {
	Count int          `json:"count"`
	Unit  DurationUnit `json:"unit"`
}

// EndFrom returns start advanced by the duration. A non-positive count is one
// unit; an unknown unit is one month.
func (d Duration) EndFrom(start time.Time) time.Time {
	n := d.Count
	if n <= 0 {
		n = 1
	}
	switch d.Unit {
	case UnitDay:
		return start.AddDate(0, 0, n)
	case UnitMonth:
		return start.AddDate(0, n, 0)
	default:
		return start.AddDate(0, 1, 0)
	}
}

type Plan struct {
	Name      string      `json:"name"`
	BasePrice money.Money `json:"base_price"`
	Duration  Duration    `json:"duration"`
	Offer     string      `json:"offer,omitempty"`
	Features  []string    `json:"features"`
}

// AccountSubscriptionState is the subscription slice of an admin account.
// CurrentPlan is empty when no plan was ever assigned.
type AccountSubscriptionState struct {
	CurrentPlan string     `json:"current_plan,omitempty"`
	StartDate   *time.Time `json:"subscription_start_date,omitempty"`
	EndDate     *time.Time `json:"subscription_end_date,omitempty"`
}

// IsRenewing reports whether the account has ever held a subscription.
func (s AccountSubscriptionState) IsRenewing() bool {
	return s.EndDate != nil
}

// ActivationWindow is the subscription window a plan grants when activated at now.
func ActivationWindow(plan Plan, now time.Time) (start, end time.Time) {
	return now, plan.Duration.EndFrom(now)
}
