package subscription

import (
	"context"
	"time"
)

type PlanRepository interface {
	ListActive(ctx context.Context) ([]PlanRecord, error)
	FindByName(ctx context.Context, name string) (*PlanRecord, error)
}

type AccountRepository interface {
	GetAccount(ctx context.Context, adminID int64) (*Account, error)
	ActivatePlan(ctx context.Context, adminID int64, planName string, start, end time.Time) error
	ListEndingBetween(ctx context.Context, from, to time.Time) ([]Account, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, o *PaymentOrder) (*PaymentOrder, error)
	FindByGatewayID(ctx context.Context, gatewayOrderID string) (*PaymentOrder, error)
	// CompleteOrder marks a CREATED order paid and activates the plan in one
	// transaction. It reports false when the order was already paid.
	CompleteOrder(ctx context.Context, c Completion) (bool, error)
	ListByAdmin(ctx context.Context, adminID int64) ([]PaymentOrder, error)
}
