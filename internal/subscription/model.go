package subscription

import (
	"database/sql"
	"time"

	"pgms/internal/gateway"
	"pgms/internal/money"
	"pgms/internal/plangate"

	"github.com/lib/pq"
)

type OrderStatus string

const (
	OrderCreated OrderStatus = "CREATED"
	OrderPaid    OrderStatus = "PAID"
)

// PlanRecord is a subscription_plans row.
type PlanRecord struct {
	ID           int64          `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Price        money.Money    `db:"price" json:"price"`
	Duration     int            `db:"duration" json:"duration"`
	DurationType string         `db:"duration_type" json:"duration_type"`
	Offer        sql.NullString `db:"offer" json:"-"`
	Features     pq.StringArray `db:"features" json:"features"`
}

func (r PlanRecord) Plan() plangate.Plan {
	features := []string(r.Features)
	if features == nil {
		features = []string{}
	}
	return plangate.Plan{
		Name:      r.Name,
		BasePrice: r.Price,
		Duration: plangate.Duration{
			Count: r.Duration,
			Unit:  plangate.ParseDurationUnit(r.DurationType),
		},
		Offer:    r.Offer.String,
		Features: features,
	}
}

// Account is the subscription slice of an admins row.
type Account struct {
	ID               int64      `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	Email            string     `db:"email" json:"email"`
	SubscriptionPlan *string    `db:"subscription_plan" json:"subscription_plan,omitempty"`
	StartDate        *time.Time `db:"subscription_start_date" json:"subscription_start_date,omitempty"`
	EndDate          *time.Time `db:"subscription_end_date" json:"subscription_end_date,omitempty"`
}

func (a Account) State() plangate.AccountSubscriptionState {
	state := plangate.AccountSubscriptionState{
		StartDate: a.StartDate,
		EndDate:   a.EndDate,
	}
	if a.SubscriptionPlan != nil {
		state.CurrentPlan = *a.SubscriptionPlan
	}
	return state
}

type PaymentOrder struct {
	ID               int64       `db:"id" json:"id"`
	AdminID          int64       `db:"admin_id" json:"admin_id"`
	PlanName         string      `db:"plan_name" json:"plan_name"`
	GatewayOrderID   string      `db:"gateway_order_id" json:"gateway_order_id"`
	GatewayPaymentID *string     `db:"gateway_payment_id" json:"gateway_payment_id,omitempty"`
	Amount           money.Money `db:"amount" json:"amount"`
	Currency         string      `db:"currency" json:"currency"`
	Status           OrderStatus `db:"status" json:"status"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
	PaidAt           *time.Time  `db:"paid_at" json:"paid_at,omitempty"`
}

func (o PaymentOrder) Pending() *plangate.PendingOrder {
	return &plangate.PendingOrder{
		OrderID:  o.GatewayOrderID,
		PlanName: o.PlanName,
		Paid:     o.Status == OrderPaid,
	}
}

// Completion carries what a verified callback writes in one transaction.
type Completion struct {
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
	AdminID          int64
	PlanName         string
	Start            time.Time
	End              time.Time
}

type ConfirmRequest struct {
	PlanName string `json:"plan_name"`
}

type VerifyRequest struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

// StatusView is the gate state shown to the dashboard.
type StatusView struct {
	plangate.AccountSubscriptionState
	Status  plangate.Status `json:"status"`
	MustPay bool            `json:"must_pay"`
	Expired bool            `json:"expired"`
	Blocked bool            `json:"blocked"`
}

func NewStatusView(state plangate.AccountSubscriptionState, now time.Time) StatusView {
	return StatusView{
		AccountSubscriptionState: state,
		Status:                   state.Status(now),
		MustPay:                  state.MustPay(),
		Expired:                  state.IsExpired(now),
		Blocked:                  state.Blocked(now),
	}
}

type ConfirmResult struct {
	Decision     plangate.Decision `json:"decision"`
	Order        *gateway.Order    `json:"order,omitempty"`
	Subscription *StatusView       `json:"subscription,omitempty"`
}

type VerifyResult struct {
	Outcome      plangate.CallbackOutcome `json:"outcome"`
	PlanName     string                   `json:"plan_name"`
	Subscription *StatusView              `json:"subscription,omitempty"`
}
