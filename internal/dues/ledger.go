package dues

import (
	"time"

	"pgms/internal/money"
	"pgms/internal/period"
)

var now = time.Now

// DefaultPeriod returns p, or the calendar month of now when p is the zero period.
func DefaultPeriod(p period.Period) period.Period {
	if p == (period.Period{}) {
		return period.CurrentMonth(now())
	}
	return p
}

// AmountPaid sums payments made by tenantName within p, bounds inclusive.
// Tenant names match exactly. A period whose start is after its end matches nothing.
func AmountPaid(tenantName string, payments []Payment, p period.Period) money.Money {
	p = DefaultPeriod(p)

	var total money.Money
	for _, pay := range payments {
		if pay.TenantName != tenantName || !p.Contains(pay.Date) {
			continue
		}
		total += money.Max0(pay.Amount)
	}
	return total
}

// Due is a tenant's rent position for one period. When Applicable is false the
// tenant has no priced room and the money fields are zero.
type Due struct {
	Applicable bool        `json:"applicable"`
	Rent       money.Money `json:"rent"`
	Paid       money.Money `json:"paid"`
	Due        money.Money `json:"due"`
}

// OutstandingDue is max(0, rent - paid) for the tenant's current room.
func OutstandingDue(tenant Tenant, room *Room, payments []Payment, p period.Period) (Due, error) {
	p = DefaultPeriod(p)
	if err := p.Validate(); err != nil {
		return Due{}, err
	}
	if room == nil || !tenant.Assigned() || room.Rent <= 0 {
		return Due{}, nil
	}

	paid := AmountPaid(tenant.Name, payments, p)
	return Due{
		Applicable: true,
		Rent:       room.Rent,
		Paid:       paid,
		Due:        money.Max0(room.Rent - paid),
	}, nil
}

// RoomFor looks up the tenant's room by number.
func RoomFor(tenant Tenant, rooms []Room) *Room {
	if !tenant.Assigned() {
		return nil
	}
	for i := range rooms {
		if rooms[i].Number == *tenant.RoomNumber {
			return &rooms[i]
		}
	}
	return nil
}

// RevenueForRoom sums every payment made by a tenant currently assigned to room.
// Payments from former occupants are not attributed.
func RevenueForRoom(room Room, tenants []Tenant, payments []Payment) money.Money {
	names := make(map[string]struct{})
	for _, t := range tenants {
		if t.Assigned() && *t.RoomNumber == room.Number {
			names[t.Name] = struct{}{}
		}
	}
	if len(names) == 0 {
		return 0
	}

	var total money.Money
	for _, pay := range payments {
		if _, ok := names[pay.TenantName]; ok {
			total += money.Max0(pay.Amount)
		}
	}
	return total
}

type Row struct {
	TenantID   int64       `json:"tenant_id"`
	TenantName string      `json:"tenant_name"`
	RoomNumber string      `json:"room_number"`
	Rent       money.Money `json:"rent"`
	Paid       money.Money `json:"paid"`
	Due        money.Money `json:"due"`
}

// AggregateDuesAcrossTenants builds one row per tenant with a priced room,
// in tenant input order.
func AggregateDuesAcrossTenants(tenants []Tenant, rooms []Room, payments []Payment, p period.Period) ([]Row, error) {
	p = DefaultPeriod(p)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(tenants))
	for _, t := range tenants {
		room := RoomFor(t, rooms)
		d, err := OutstandingDue(t, room, payments, p)
		if err != nil {
			return nil, err
		}
		if !d.Applicable {
			continue
		}
		rows = append(rows, Row{
			TenantID:   t.ID,
			TenantName: t.Name,
			RoomNumber: room.Number,
			Rent:       d.Rent,
			Paid:       d.Paid,
			Due:        d.Due,
		})
	}
	return rows, nil
}
