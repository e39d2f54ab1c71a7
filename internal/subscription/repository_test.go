package subscription

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"pgms/internal/money"
	"pgms/internal/plangate"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSubscriptionMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

var (
	planCols    = []string{"id", "name", "price", "duration", "duration_type", "offer", "features"}
	accountCols = []string{"id", "name", "email", "subscription_plan", "subscription_start_date", "subscription_end_date"}
	orderCols   = []string{"id", "admin_id", "plan_name", "gateway_order_id", "gateway_payment_id", "amount", "currency", "status", "created_at", "paid_at"}
)

func TestListActive(t *testing.T) {
	repo, mock, close := setupSubscriptionMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM subscription_plans WHERE active = TRUE ORDER BY price, name")).
		WillReturnRows(sqlmock.NewRows(planCols).
			AddRow(1, "BASIC", "499.00", 1, "MONTH", nil, "{Rooms,Tenants}").
			AddRow(2, "PREMIUM", "1000.00", 3, "month", "Save 15%", "{Rooms,Tenants,Reports}"))

	plans, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 2)

	premium := plans[1].Plan()
	assert.Equal(t, money.FromRupees(1000), premium.BasePrice)
	assert.Equal(t, plangate.Duration{Count: 3, Unit: plangate.UnitMonth}, premium.Duration)
	assert.Equal(t, "Save 15%", premium.Offer)
	assert.Equal(t, []string{"Rooms", "Tenants", "Reports"}, premium.Features)
	assert.Equal(t, "", plans[0].Plan().Offer)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByName_NotFound(t *testing.T) {
	repo, mock, close := setupSubscriptionMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM subscription_plans WHERE name = $1")).
		WithArgs("GOLD").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByName(context.Background(), "GOLD")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestGetAccount_PendingPlan(t *testing.T) {
	repo, mock, close := setupSubscriptionMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM admins WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(accountCols).AddRow(7, "Owner", "owner@example.com", "BASIC", nil, nil))

	account, err := repo.GetAccount(context.Background(), 7)
	require.NoError(t, err)

	state := account.State()
	assert.Equal(t, "BASIC", state.CurrentPlan)
	assert.True(t, state.MustPay())
}

func TestActivatePlan(t *testing.T) {
	repo, mock, close := setupSubscriptionMock(t)
	defer close()

	start := time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE admins SET subscription_plan = $1, subscription_start_date = $2, subscription_end_date = $3, updated_at = NOW() WHERE id = $4")).
		WithArgs("FREE", start, end, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ActivatePlan(context.Background(), 7, "FREE", start, end))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE admins SET subscription_plan")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.ActivatePlan(context.Background(), 8, "FREE", start, end), ErrAccountNotFound)
}

func TestCreateOrder(t *testing.T) {
	repo, mock, close := setupSubscriptionMock(t)
	defer close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO payment_orders (admin_id, plan_name, gateway_order_id, amount, currency, status) VALUES ($1, $2, $3, $4, $5, $6) RETURNING")).
		WithArgs(int64(7), "PREMIUM", "order_1", "850.00", "INR", "CREATED").
		WillReturnRows(sqlmock.NewRows(orderCols).AddRow(1, 7, "PREMIUM", "order_1", nil, "850.00", "INR", "CREATED", now, nil))

	o, err := repo.CreateOrder(context.Background(), &PaymentOrder{
		AdminID:        7,
		PlanName:       "PREMIUM",
		GatewayOrderID: "order_1",
		Amount:         money.FromRupees(850),
		Currency:       "INR",
	})
	require.NoError(t, err)
	assert.Equal(t, OrderCreated, o.Status)
	assert.False(t, o.Pending().Paid)
}

func TestCompleteOrder_FirstCallbackActivates(t *testing.T) {
	repo, mock, close := setupSubscriptionMock(t)
	defer close()

	start := time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, 0)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE payment_orders SET status = $1, gateway_payment_id = $2, gateway_signature = $3, paid_at = NOW() WHERE gateway_order_id = $4 AND status = $5")).
		WithArgs("PAID", "pay_1", "sig", "order_1", "CREATED").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE admins SET subscription_plan = $1")).
		WithArgs("PREMIUM", start, end, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ok, err := repo.CompleteOrder(context.Background(), Completion{
		GatewayOrderID:   "order_1",
		GatewayPaymentID: "pay_1",
		Signature:        "sig",
		AdminID:          7,
		PlanName:         "PREMIUM",
		Start:            start,
		End:              end,
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteOrder_RepeatCallbackIsNoop(t *testing.T) {
	repo, mock, close := setupSubscriptionMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE payment_orders SET status = $1")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	ok, err := repo.CompleteOrder(context.Background(), Completion{GatewayOrderID: "order_1", AdminID: 7})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByAdmin(t *testing.T) {
	repo, mock, close := setupSubscriptionMock(t)
	defer close()

	paid := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM payment_orders WHERE admin_id = $1 ORDER BY created_at DESC")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow(2, 7, "PREMIUM", "order_2", "pay_2", "850.00", "INR", "PAID", paid, paid))

	orders, err := repo.ListByAdmin(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].Pending().Paid)
}
