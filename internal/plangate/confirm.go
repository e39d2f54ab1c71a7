package plangate

import (
	"pgms/internal/api"
	"pgms/internal/money"
)

type DecisionKind string

const (
	DecisionActivateFree DecisionKind = "ACTIVATE_FREE"
	DecisionCreateOrder  DecisionKind = "CREATE_ORDER"
)

type Decision struct {
	Kind     DecisionKind `json:"kind"`
	PlanName string       `json:"plan_name"`
	Amount   money.Money  `json:"amount"`
}

// ConfirmPlan decides how a chosen plan gets activated.
func ConfirmPlan(plan *Plan, effectivePrice money.Money) (Decision, error) {
	if plan == nil || plan.Name == "" {
		return Decision{}, api.NewValidationError("", "no plan selected")
	}
	if effectivePrice <= 0 {
		return Decision{Kind: DecisionActivateFree, PlanName: plan.Name}, nil
	}
	return Decision{Kind: DecisionCreateOrder, PlanName: plan.Name, Amount: effectivePrice}, nil
}

type CallbackOutcome string

const (
	CallbackRejected         CallbackOutcome = "REJECTED"
	CallbackUnknownOrder     CallbackOutcome = "UNKNOWN_ORDER"
	CallbackActivate         CallbackOutcome = "ACTIVATE"
	CallbackAlreadyActivated CallbackOutcome = "ALREADY_ACTIVATED"
)

// PendingOrder is the stored side of a gateway order.
type PendingOrder struct {
	OrderID  string
	PlanName string
	Paid     bool
}

// ResolveCallback decides what a gateway payment callback should do.
// A repeated callback for a paid order is a no-op success.
func ResolveCallback(verified bool, callbackOrderID string, order *PendingOrder) CallbackOutcome {
	if !verified {
		return CallbackRejected
	}
	if order == nil || order.OrderID != callbackOrderID {
		return CallbackUnknownOrder
	}
	if order.Paid {
		return CallbackAlreadyActivated
	}
	return CallbackActivate
}
