package plangate

import "time"

type Status string

const (
	StatusUnregistered Status = "UNREGISTERED"
	StatusPlanPending  Status = "PLAN_PENDING"
	StatusActive       Status = "ACTIVE"
	StatusExpired      Status = "EXPIRED"
)

// IsPlanSelectable: a first-time account with a pre-assigned plan may only pick
// that plan. Accounts that held any subscription, or never had a plan assigned,
// may pick anything.
func IsPlanSelectable(plan Plan, currentPlanName string, isRenewing bool) bool {
	if currentPlanName == "" || isRenewing {
		return true
	}
	return plan.Name == currentPlanName
}

// MustPay is true while a pre-assigned plan has never been paid for.
// Expiry is not considered here; see IsExpired.
func MustPay(currentPlanName string, subscriptionEndDate *time.Time) bool {
	return currentPlanName != "" && subscriptionEndDate == nil
}

func IsExpired(subscriptionEndDate *time.Time, now time.Time) bool {
	return subscriptionEndDate != nil && now.After(*subscriptionEndDate)
}

func (s AccountSubscriptionState) MustPay() bool {
	return MustPay(s.CurrentPlan, s.EndDate)
}

func (s AccountSubscriptionState) IsExpired(now time.Time) bool {
	return IsExpired(s.EndDate, now)
}

// Blocked reports whether the account should only reach profile and plan pages.
func (s AccountSubscriptionState) Blocked(now time.Time) bool {
	return s.MustPay() || s.IsExpired(now)
}

func (s AccountSubscriptionState) Status(now time.Time) Status {
	switch {
	case s.MustPay():
		return StatusPlanPending
	case s.EndDate == nil:
		return StatusUnregistered
	case s.IsExpired(now):
		return StatusExpired
	default:
		return StatusActive
	}
}

// PlanView is a catalog entry as shown on the plan picker.
type PlanView struct {
	Plan
	Pricing
	Selectable bool `json:"selectable"`
	Current    bool `json:"current"`
}

func SelectablePlans(catalog []Plan, state AccountSubscriptionState) []PlanView {
	renewing := state.IsRenewing()
	views := make([]PlanView, 0, len(catalog))
	for _, p := range catalog {
		views = append(views, PlanView{
			Plan:       p,
			Pricing:    ComputeEffectivePrice(p),
			Selectable: IsPlanSelectable(p, state.CurrentPlan, renewing),
			Current:    state.CurrentPlan != "" && p.Name == state.CurrentPlan,
		})
	}
	return views
}
