package subscription

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrPlanNotFound    = errors.New("subscription plan not found")
	ErrAccountNotFound = errors.New("admin account not found")
	ErrOrderNotFound   = errors.New("payment order not found")
)

const (
	planColumns    = `id, name, price, duration, duration_type, offer, features`
	accountColumns = `id, name, email, subscription_plan, subscription_start_date, subscription_end_date`
	orderColumns   = `id, admin_id, plan_name, gateway_order_id, gateway_payment_id, amount, currency, status, created_at, paid_at`
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListActive returns the catalog cheapest first.
func (r *PostgresRepository) ListActive(ctx context.Context) ([]PlanRecord, error) {
	var plans []PlanRecord
	err := r.db.SelectContext(ctx, &plans, `
		SELECT `+planColumns+`
		FROM subscription_plans
		WHERE active = TRUE
		ORDER BY price, name
	`)
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *PostgresRepository) FindByName(ctx context.Context, name string) (*PlanRecord, error) {
	var p PlanRecord
	err := r.db.GetContext(ctx, &p, `SELECT `+planColumns+` FROM subscription_plans WHERE name = $1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) GetAccount(ctx context.Context, adminID int64) (*Account, error) {
	var a Account
	err := r.db.GetContext(ctx, &a, `SELECT `+accountColumns+` FROM admins WHERE id = $1`, adminID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *PostgresRepository) ActivatePlan(ctx context.Context, adminID int64, planName string, start, end time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE admins
		SET subscription_plan = $1, subscription_start_date = $2, subscription_end_date = $3, updated_at = NOW()
		WHERE id = $4
	`, planName, start, end, adminID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// ListEndingBetween returns accounts whose subscription ends in [from, to).
func (r *PostgresRepository) ListEndingBetween(ctx context.Context, from, to time.Time) ([]Account, error) {
	var accounts []Account
	err := r.db.SelectContext(ctx, &accounts, `
		SELECT `+accountColumns+`
		FROM admins
		WHERE subscription_end_date >= $1 AND subscription_end_date < $2
		ORDER BY subscription_end_date
	`, from, to)
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *PostgresRepository) CreateOrder(ctx context.Context, o *PaymentOrder) (*PaymentOrder, error) {
	out := &PaymentOrder{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO payment_orders (admin_id, plan_name, gateway_order_id, amount, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+orderColumns,
		o.AdminID, o.PlanName, o.GatewayOrderID, o.Amount, o.Currency, OrderCreated,
	).StructScan(out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepository) FindByGatewayID(ctx context.Context, gatewayOrderID string) (*PaymentOrder, error) {
	var o PaymentOrder
	err := r.db.GetContext(ctx, &o, `SELECT `+orderColumns+` FROM payment_orders WHERE gateway_order_id = $1`, gatewayOrderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *PostgresRepository) CompleteOrder(ctx context.Context, c Completion) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE payment_orders
		SET status = $1, gateway_payment_id = $2, gateway_signature = $3, paid_at = NOW()
		WHERE gateway_order_id = $4 AND status = $5
	`, OrderPaid, c.GatewayPaymentID, c.Signature, c.GatewayOrderID, OrderCreated)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE admins
		SET subscription_plan = $1, subscription_start_date = $2, subscription_end_date = $3, updated_at = NOW()
		WHERE id = $4
	`, c.PlanName, c.Start, c.End, c.AdminID)
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (r *PostgresRepository) ListByAdmin(ctx context.Context, adminID int64) ([]PaymentOrder, error) {
	var orders []PaymentOrder
	err := r.db.SelectContext(ctx, &orders, `
		SELECT `+orderColumns+`
		FROM payment_orders
		WHERE admin_id = $1
		ORDER BY created_at DESC
	`, adminID)
	if err != nil {
		return nil, err
	}
	return orders, nil
}
