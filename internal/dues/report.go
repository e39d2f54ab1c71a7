package dues

import (
	"slices"

	"pgms/internal/money"
	"pgms/internal/period"

	"github.com/shopspring/decimal"
)

type Summary struct {
	TotalDue        money.Money `json:"total_due"`
	TenantsWithDues int         `json:"tenants_with_dues"`
	FullyPaid       int         `json:"fully_paid"`
	Tenants         int         `json:"tenants"`
}

func SummarizeDues(rows []Row) Summary {
	s := Summary{Tenants: len(rows)}
	owed := make([]money.Money, 0, len(rows))
	for _, r := range rows {
		if r.Due > 0 {
			owed = append(owed, r.Due)
			s.TenantsWithDues++
		} else {
			s.FullyPaid++
		}
	}
	s.TotalDue = money.Sum(owed...)
	return s
}

type DueFilter string

const (
	FilterAll       DueFilter = "all"
	FilterHasDues   DueFilter = "has_dues"
	FilterFullyPaid DueFilter = "fully_paid"
)

// ParseDueFilter maps unknown values to FilterAll.
func ParseDueFilter(s string) DueFilter {
	switch DueFilter(s) {
	case FilterHasDues, FilterFullyPaid:
		return DueFilter(s)
	default:
		return FilterAll
	}
}

func FilterRows(rows []Row, f DueFilter) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		switch f {
		case FilterHasDues:
			if r.Due <= 0 {
				continue
			}
		case FilterFullyPaid:
			if r.Due > 0 {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// SortByDueDesc sorts in place; equal dues keep their relative order.
func SortByDueDesc(rows []Row) {
	slices.SortStableFunc(rows, func(a, b Row) int {
		switch {
		case a.Due > b.Due:
			return -1
		case a.Due < b.Due:
			return 1
		default:
			return 0
		}
	})
}

type Revenue struct {
	Period   period.Period          `json:"period"`
	Total    money.Money            `json:"total"`
	Payments int                    `json:"payments"`
	ByMethod map[Method]money.Money `json:"by_method"`
}

// RevenueInPeriod totals every payment dated within p.
func RevenueInPeriod(payments []Payment, p period.Period) (Revenue, error) {
	if err := p.Validate(); err != nil {
		return Revenue{}, err
	}

	rev := Revenue{Period: p, ByMethod: make(map[Method]money.Money)}
	for _, pay := range payments {
		if !p.Contains(pay.Date) {
			continue
		}
		amt := money.Max0(pay.Amount)
		rev.Total += amt
		rev.Payments++
		rev.ByMethod[pay.Method] += amt
	}
	return rev, nil
}

type OccupancyState string

const (
	OccupancyFull    OccupancyState = "FULL"
	OccupancyPartial OccupancyState = "PARTIAL"
	OccupancyEmpty   OccupancyState = "EMPTY"
)

type RoomOccupancy struct {
	RoomNumber    string         `json:"room_number"`
	Capacity      int            `json:"capacity"`
	OccupiedBeds  int            `json:"occupied_beds"`
	AvailableBeds int            `json:"available_beds"`
	Rate          int64          `json:"rate"`
	State         OccupancyState `json:"state"`
}

type OccupancyReport struct {
	Rooms         []RoomOccupancy `json:"rooms"`
	TotalCapacity int             `json:"total_capacity"`
	TotalOccupied int             `json:"total_occupied"`
	OverallRate   decimal.Decimal `json:"overall_rate"`
	Full          int             `json:"full"`
	Partial       int             `json:"partial"`
	Empty         int             `json:"empty"`
}

// Occupancy reports per-room and overall bed usage, rooms ordered by rate descending.
// Rates are percentages; per-room rates round to whole numbers, the overall rate to one place.
func Occupancy(rooms []Room) OccupancyReport {
	rep := OccupancyReport{Rooms: make([]RoomOccupancy, 0, len(rooms)), OverallRate: decimal.Zero}

	for _, r := range rooms {
		ro := RoomOccupancy{
			RoomNumber:    r.Number,
			Capacity:      r.Capacity,
			OccupiedBeds:  r.OccupiedBeds,
			AvailableBeds: max(r.Capacity-r.OccupiedBeds, 0),
			State:         occupancyState(r),
		}
		if r.Capacity > 0 {
			ro.Rate = percent(r.OccupiedBeds, r.Capacity).Round(0).IntPart()
		}

		switch ro.State {
		case OccupancyFull:
			rep.Full++
		case OccupancyPartial:
			rep.Partial++
		default:
			rep.Empty++
		}
		rep.TotalCapacity += r.Capacity
		rep.TotalOccupied += r.OccupiedBeds
		rep.Rooms = append(rep.Rooms, ro)
	}

	if rep.TotalCapacity > 0 {
		rep.OverallRate = percent(rep.TotalOccupied, rep.TotalCapacity).Round(1)
	}
	slices.SortStableFunc(rep.Rooms, func(a, b RoomOccupancy) int {
		return int(b.Rate - a.Rate)
	})
	return rep
}

func occupancyState(r Room) OccupancyState {
	switch {
	case r.OccupiedBeds <= 0:
		return OccupancyEmpty
	case r.OccupiedBeds >= r.Capacity:
		return OccupancyFull
	default:
		return OccupancyPartial
	}
}

func percent(part, whole int) decimal.Decimal {
	return decimal.NewFromInt(int64(part)).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(int64(whole)))
}
