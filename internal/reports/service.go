// Package reports turns a property snapshot into the dues, revenue and
// occupancy views shown on the dashboard.
package reports

import (
	"context"
	"errors"
	"time"

	"pgms/internal/dues"
	"pgms/internal/metrics"
	"pgms/internal/money"
	"pgms/internal/period"
	"pgms/internal/property"
)

var ErrRoomNotFound = errors.New("room not found")

// Source supplies one consistent read of rooms, tenants and payments.
type Source interface {
	Snapshot(ctx context.Context) (*property.Snapshot, error)
}

type DuesQuery struct {
	Period period.Period
	Filter dues.DueFilter
}

type DuesReport struct {
	Period  period.Period  `json:"period"`
	Filter  dues.DueFilter `json:"filter"`
	Rows    []dues.Row     `json:"rows"`
	Summary dues.Summary   `json:"summary"`
}

type RoomRevenue struct {
	RoomNumber string      `json:"room_number"`
	Rent       money.Money `json:"rent"`
	Tenants    int         `json:"tenants"`
	Revenue    money.Money `json:"revenue"`
}

type Service interface {
	Dues(ctx context.Context, q DuesQuery) (*DuesReport, error)
	Revenue(ctx context.Context, p period.Period) (*dues.Revenue, error)
	RoomRevenue(ctx context.Context, roomNumber string) (*RoomRevenue, error)
	Occupancy(ctx context.Context) (*dues.OccupancyReport, error)
}

type service struct {
	source Source
	now    func() time.Time
}

func NewService(source Source) Service {
	return &service{
		source: source,
		now:    time.Now,
	}
}

// Dues aggregates the period's dues. The summary always covers every tenant;
// the filter only narrows the rows returned.
func (s *service) Dues(ctx context.Context, q DuesQuery) (*DuesReport, error) {
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	p := q.Period
	if p == (period.Period{}) {
		p = period.CurrentMonth(s.now())
	}

	rows, err := dues.AggregateDuesAcrossTenants(snap.Tenants, snap.Rooms, snap.Payments, p)
	if err != nil {
		return nil, err
	}

	summary := dues.SummarizeDues(rows)
	if p == period.CurrentMonth(s.now()) {
		metrics.SetOutstandingDues(int64(summary.TotalDue))
	}

	filter := dues.ParseDueFilter(string(q.Filter))
	filtered := dues.FilterRows(rows, filter)
	dues.SortByDueDesc(filtered)

	return &DuesReport{
		Period:  p,
		Filter:  filter,
		Rows:    filtered,
		Summary: summary,
	}, nil
}

func (s *service) Revenue(ctx context.Context, p period.Period) (*dues.Revenue, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	rev, err := dues.RevenueInPeriod(snap.Payments, p)
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

// RoomRevenue is everything ever paid by the room's current tenants.
func (s *service) RoomRevenue(ctx context.Context, roomNumber string) (*RoomRevenue, error) {
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	for _, room := range snap.Rooms {
		if room.Number != roomNumber {
			continue
		}
		tenants := 0
		for _, t := range snap.Tenants {
			if t.Assigned() && *t.RoomNumber == roomNumber {
				tenants++
			}
		}
		return &RoomRevenue{
			RoomNumber: room.Number,
			Rent:       room.Rent,
			Tenants:    tenants,
			Revenue:    dues.RevenueForRoom(room, snap.Tenants, snap.Payments),
		}, nil
	}
	return nil, ErrRoomNotFound
}

func (s *service) Occupancy(ctx context.Context) (*dues.OccupancyReport, error) {
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	rep := dues.Occupancy(snap.Rooms)
	return &rep, nil
}
