package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pgms/internal/gateway"
	"pgms/internal/logger"
	"pgms/internal/metrics"
	"pgms/internal/plangate"
)

var (
	ErrPlanLocked       = errors.New("plan is locked until the assigned plan is activated")
	ErrInvalidSignature = errors.New("invalid payment signature")
)

// Notifier sends activation receipts. email.Service implements it.
type Notifier interface {
	SendSubscriptionActivated(ctx context.Context, email, name, plan, amount string, endsAt time.Time) error
}

type Service interface {
	ListPlans(ctx context.Context, adminID int64) ([]plangate.PlanView, error)
	Status(ctx context.Context, adminID int64) (*StatusView, error)
	SubscriptionState(ctx context.Context, adminID int64) (plangate.AccountSubscriptionState, error)
	Confirm(ctx context.Context, adminID int64, planName string) (*ConfirmResult, error)
	Verify(ctx context.Context, adminID int64, req VerifyRequest) (*VerifyResult, error)
	Orders(ctx context.Context, adminID int64) ([]PaymentOrder, error)
}

type service struct {
	plans    PlanRepository
	accounts AccountRepository
	orders   OrderRepository
	gateway  gateway.Gateway
	notifier Notifier
	now      func() time.Time
}

func NewService(
	plans PlanRepository,
	accounts AccountRepository,
	orders OrderRepository,
	gw gateway.Gateway,
	notifier Notifier,
) Service {
	return &service{
		plans:    plans,
		accounts: accounts,
		orders:   orders,
		gateway:  gw,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *service) catalog(ctx context.Context) ([]plangate.Plan, error) {
	records, err := s.plans.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load plan catalog: %w", err)
	}
	catalog := make([]plangate.Plan, 0, len(records))
	for _, r := range records {
		catalog = append(catalog, r.Plan())
	}
	return catalog, nil
}

func (s *service) ListPlans(ctx context.Context, adminID int64) ([]plangate.PlanView, error) {
	account, err := s.accounts.GetAccount(ctx, adminID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	return plangate.SelectablePlans(catalog, account.State()), nil
}

func (s *service) SubscriptionState(ctx context.Context, adminID int64) (plangate.AccountSubscriptionState, error) {
	account, err := s.accounts.GetAccount(ctx, adminID)
	if err != nil {
		return plangate.AccountSubscriptionState{}, err
	}
	return account.State(), nil
}

func (s *service) Status(ctx context.Context, adminID int64) (*StatusView, error) {
	state, err := s.SubscriptionState(ctx, adminID)
	if err != nil {
		return nil, err
	}
	view := NewStatusView(state, s.now())
	return &view, nil
}

// Confirm activates a free plan directly or opens a gateway order for a paid one.
func (s *service) Confirm(ctx context.Context, adminID int64, planName string) (*ConfirmResult, error) {
	account, err := s.accounts.GetAccount(ctx, adminID)
	if err != nil {
		return nil, err
	}
	state := account.State()

	var plan *plangate.Plan
	if planName != "" {
		record, err := s.plans.FindByName(ctx, planName)
		if err != nil {
			return nil, err
		}
		p := record.Plan()
		plan = &p

		if !plangate.IsPlanSelectable(p, state.CurrentPlan, state.IsRenewing()) {
			logger.Info("Locked plan rejected", "admin_id", adminID, "plan", p.Name, "assigned", state.CurrentPlan)
			return nil, ErrPlanLocked
		}
	}

	var price plangate.Pricing
	if plan != nil {
		price = plangate.ComputeEffectivePrice(*plan)
	}
	decision, err := plangate.ConfirmPlan(plan, price.EffectivePrice)
	if err != nil {
		return nil, err
	}

	if decision.Kind == plangate.DecisionActivateFree {
		start, end := plangate.ActivationWindow(*plan, s.now())
		if err := s.accounts.ActivatePlan(ctx, adminID, plan.Name, start, end); err != nil {
			return nil, fmt.Errorf("activate free plan: %w", err)
		}

		metrics.RecordActivation(plan.Name, "free")
		logger.Info("Free plan activated", "admin_id", adminID, "plan", plan.Name, "ends", end)
		s.notify(ctx, account, plan.Name, "0.00", end)

		view := NewStatusView(plangate.AccountSubscriptionState{
			CurrentPlan: plan.Name,
			StartDate:   &start,
			EndDate:     &end,
		}, s.now())
		return &ConfirmResult{Decision: decision, Subscription: &view}, nil
	}

	order, err := s.gateway.CreateOrder(ctx, decision.PlanName, decision.Amount)
	if err != nil {
		metrics.RecordPaymentOrder("gateway_error")
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	_, err = s.orders.CreateOrder(ctx, &PaymentOrder{
		AdminID:        adminID,
		PlanName:       decision.PlanName,
		GatewayOrderID: order.ID,
		Amount:         decision.Amount,
		Currency:       order.Currency,
	})
	if err != nil {
		return nil, fmt.Errorf("store payment order: %w", err)
	}

	metrics.RecordPaymentOrder("created")
	logger.Info("Payment order created",
		"admin_id", adminID,
		"plan", decision.PlanName,
		"order_id", order.ID,
		"amount", decision.Amount.String(),
	)
	return &ConfirmResult{Decision: decision, Order: order}, nil
}

// Verify handles the checkout callback. A callback for an order that is already
// paid succeeds without activating again.
func (s *service) Verify(ctx context.Context, adminID int64, req VerifyRequest) (*VerifyResult, error) {
	verified := s.gateway.Verify(req.OrderID, req.PaymentID, req.Signature)

	var pending *plangate.PendingOrder
	var order *PaymentOrder
	if verified {
		o, err := s.orders.FindByGatewayID(ctx, req.OrderID)
		switch {
		case errors.Is(err, ErrOrderNotFound):
		case err != nil:
			return nil, err
		case o.AdminID == adminID:
			order = o
			pending = o.Pending()
		}
	}

	outcome := plangate.ResolveCallback(verified, req.OrderID, pending)
	switch outcome {
	case plangate.CallbackRejected:
		metrics.RecordVerification("rejected")
		logger.Warn("Payment signature rejected", "admin_id", adminID, "order_id", req.OrderID)
		return nil, ErrInvalidSignature
	case plangate.CallbackUnknownOrder:
		metrics.RecordVerification("unknown_order")
		return nil, ErrOrderNotFound
	case plangate.CallbackAlreadyActivated:
		return s.duplicate(ctx, adminID, order)
	}

	duration := plangate.Duration{}
	record, err := s.plans.FindByName(ctx, order.PlanName)
	switch {
	case err == nil:
		duration = record.Plan().Duration
	case errors.Is(err, ErrPlanNotFound):
		logger.Warn("Paid plan missing from catalog, granting one month", "plan", order.PlanName)
	default:
		return nil, err
	}

	start := s.now()
	end := duration.EndFrom(start)
	transitioned, err := s.orders.CompleteOrder(ctx, Completion{
		GatewayOrderID:   req.OrderID,
		GatewayPaymentID: req.PaymentID,
		Signature:        req.Signature,
		AdminID:          adminID,
		PlanName:         order.PlanName,
		Start:            start,
		End:              end,
	})
	if err != nil {
		return nil, fmt.Errorf("complete order %s: %w", req.OrderID, err)
	}
	if !transitioned {
		return s.duplicate(ctx, adminID, order)
	}

	metrics.RecordVerification("verified")
	metrics.RecordPaymentOrder("paid")
	metrics.RecordActivation(order.PlanName, "paid")
	logger.Info("Payment verified, subscription activated",
		"admin_id", adminID,
		"plan", order.PlanName,
		"order_id", req.OrderID,
		"payment_id", req.PaymentID,
	)

	if account, err := s.accounts.GetAccount(ctx, adminID); err == nil {
		s.notify(ctx, account, order.PlanName, order.Amount.String(), end)
	}

	view := NewStatusView(plangate.AccountSubscriptionState{
		CurrentPlan: order.PlanName,
		StartDate:   &start,
		EndDate:     &end,
	}, s.now())
	return &VerifyResult{Outcome: plangate.CallbackActivate, PlanName: order.PlanName, Subscription: &view}, nil
}

func (s *service) duplicate(ctx context.Context, adminID int64, order *PaymentOrder) (*VerifyResult, error) {
	metrics.RecordVerification("duplicate")
	logger.Info("Duplicate payment callback ignored", "admin_id", adminID, "order_id", order.GatewayOrderID)

	view, err := s.Status(ctx, adminID)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{Outcome: plangate.CallbackAlreadyActivated, PlanName: order.PlanName, Subscription: view}, nil
}

func (s *service) Orders(ctx context.Context, adminID int64) ([]PaymentOrder, error) {
	return s.orders.ListByAdmin(ctx, adminID)
}

func (s *service) notify(ctx context.Context, account *Account, plan, amount string, end time.Time) {
	if s.notifier == nil || account.Email == "" {
		return
	}
	if err := s.notifier.SendSubscriptionActivated(ctx, account.Email, account.Name, plan, amount, end); err != nil {
		logger.WithError(err).Warn("failed to queue activation email", "admin_id", account.ID)
	}
}
