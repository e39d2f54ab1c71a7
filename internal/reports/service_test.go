package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"pgms/internal/api"
	"pgms/internal/dues"
	"pgms/internal/metrics"
	"pgms/internal/money"
	"pgms/internal/period"
	"pgms/internal/property"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSource struct{ mock.Mock }

func (m *MockSource) Snapshot(ctx context.Context) (*property.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Snapshot), args.Error(1)
}

func strPtr(s string) *string { return &s }

var october = period.Month(2026, time.October)

func snapshotFixture() *property.Snapshot {
	return &property.Snapshot{
		Tenants: []dues.Tenant{
			{ID: 1, Name: "Asha", RoomNumber: strPtr("R1")},
			{ID: 2, Name: "Ravi", RoomNumber: strPtr("R2")},
			{ID: 3, Name: "Meena"},
			{ID: 4, Name: "Kiran", RoomNumber: strPtr("R3")},
		},
		Rooms: []dues.Room{
			{Number: "R1", Capacity: 2, OccupiedBeds: 1, Rent: money.FromRupees(5000)},
			{Number: "R2", Capacity: 3, OccupiedBeds: 1, Rent: money.FromRupees(4000)},
			{Number: "R3", Capacity: 1, OccupiedBeds: 1, Rent: 0},
		},
		Payments: []dues.Payment{
			{TenantName: "Asha", Amount: money.FromRupees(2000), Date: period.Date(2026, time.October, 2), Method: dues.MethodUPI},
			{TenantName: "Asha", Amount: money.FromRupees(1500), Date: period.Date(2026, time.October, 20), Method: dues.MethodCash},
			{TenantName: "Asha", Amount: money.FromRupees(9000), Date: period.Date(2026, time.September, 30), Method: dues.MethodCash},
			{TenantName: "Ravi", Amount: money.FromRupees(4500), Date: period.Date(2026, time.October, 31), Method: dues.MethodNetBanking},
			{TenantName: "asha", Amount: money.FromRupees(100), Date: period.Date(2026, time.October, 5), Method: dues.MethodOther},
		},
	}
}

func newTestService(src Source) *service {
	svc := NewService(src).(*service)
	svc.now = func() time.Time { return time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestService_Dues(t *testing.T) {
	tests := []struct {
		name    string
		query   DuesQuery
		tenants []string
	}{
		{"all tenants sorted by due", DuesQuery{Period: october, Filter: dues.FilterAll}, []string{"Asha", "Ravi"}},
		{"only tenants with dues", DuesQuery{Period: october, Filter: dues.FilterHasDues}, []string{"Asha"}},
		{"only fully paid", DuesQuery{Period: october, Filter: dues.FilterFullyPaid}, []string{"Ravi"}},
		{"zero period means current month", DuesQuery{}, []string{"Asha", "Ravi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := new(MockSource)
			src.On("Snapshot", mock.Anything).Return(snapshotFixture(), nil)

			rep, err := newTestService(src).Dues(context.Background(), tt.query)
			require.NoError(t, err)

			names := make([]string, 0, len(rep.Rows))
			for _, r := range rep.Rows {
				names = append(names, r.TenantName)
			}
			assert.Equal(t, tt.tenants, names)
			assert.Equal(t, october, rep.Period)
			assert.Equal(t, money.FromRupees(1500), rep.Summary.TotalDue)
			assert.Equal(t, 1, rep.Summary.TenantsWithDues)
			assert.Equal(t, 1, rep.Summary.FullyPaid)
		})
	}
}

func TestService_Dues_SetsOutstandingGauge(t *testing.T) {
	src := new(MockSource)
	src.On("Snapshot", mock.Anything).Return(snapshotFixture(), nil)

	_, err := newTestService(src).Dues(context.Background(), DuesQuery{Period: october})
	require.NoError(t, err)

	assert.Equal(t, float64(150000), testutil.ToFloat64(metrics.OutstandingDues))
}

func TestService_Dues_Errors(t *testing.T) {
	t.Run("snapshot failure", func(t *testing.T) {
		src := new(MockSource)
		src.On("Snapshot", mock.Anything).Return(nil, errors.New("db down"))

		_, err := newTestService(src).Dues(context.Background(), DuesQuery{Period: october})
		assert.Error(t, err)
	})

	t.Run("malformed period", func(t *testing.T) {
		src := new(MockSource)
		src.On("Snapshot", mock.Anything).Return(snapshotFixture(), nil)

		backwards := period.Period{Start: october.End, End: october.Start}
		_, err := newTestService(src).Dues(context.Background(), DuesQuery{Period: backwards})
		assert.True(t, api.IsValidationError(err))
	})
}

func TestService_Revenue(t *testing.T) {
	src := new(MockSource)
	src.On("Snapshot", mock.Anything).Return(snapshotFixture(), nil)
	svc := newTestService(src)

	rev, err := svc.Revenue(context.Background(), october)
	require.NoError(t, err)
	assert.Equal(t, money.FromRupees(8100), rev.Total)
	assert.Equal(t, 4, rev.Payments)
	assert.Equal(t, money.FromRupees(4500), rev.ByMethod[dues.MethodNetBanking])

	year, err := svc.Revenue(context.Background(), period.Year(2026))
	require.NoError(t, err)
	assert.Equal(t, money.FromRupees(17100), year.Total)

	_, err = svc.Revenue(context.Background(), period.Period{})
	assert.True(t, api.IsValidationError(err))
}

func TestService_RoomRevenue(t *testing.T) {
	src := new(MockSource)
	src.On("Snapshot", mock.Anything).Return(snapshotFixture(), nil)
	svc := newTestService(src)

	rev, err := svc.RoomRevenue(context.Background(), "R1")
	require.NoError(t, err)
	assert.Equal(t, money.FromRupees(12500), rev.Revenue)
	assert.Equal(t, 1, rev.Tenants)
	assert.Equal(t, money.FromRupees(5000), rev.Rent)

	_, err = svc.RoomRevenue(context.Background(), "R9")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestService_Occupancy(t *testing.T) {
	src := new(MockSource)
	src.On("Snapshot", mock.Anything).Return(snapshotFixture(), nil)

	rep, err := newTestService(src).Occupancy(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, rep.TotalCapacity)
	assert.Equal(t, 3, rep.TotalOccupied)
	assert.Equal(t, "50", rep.OverallRate.String())
	assert.Equal(t, "R3", rep.Rooms[0].RoomNumber)
	assert.Equal(t, 1, rep.Full)
	assert.Equal(t, 2, rep.Partial)
}
