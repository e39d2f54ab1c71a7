package property

import (
	"pgms/internal/dues"
	"pgms/internal/period"
)

// PaymentRequest is the body accepted when recording or replacing a tenant payment.
type PaymentRequest struct {
	TenantID      *int64   `json:"tenant_id"`
	TenantName    string   `json:"tenant_name" validate:"required,max=120"`
	Amount        *float64 `json:"amount" validate:"required,gte=0"`
	PaymentDate   string   `json:"payment_date" validate:"required"`
	Method        string   `json:"method" validate:"required,oneof=Cash UPI 'Net Banking' Account Other"`
	TransactionID *string  `json:"transaction_id" validate:"omitempty,max=100"`
	Details       *string  `json:"details" validate:"omitempty,max=500"`
}

// RoomRequest creates a room or replaces one. On update the room number comes
// from the path and may be omitted from the body.
type RoomRequest struct {
	RoomNumber   string   `json:"room_number" validate:"required,max=20"`
	Capacity     *int     `json:"capacity" validate:"required,gte=0"`
	OccupiedBeds *int     `json:"occupied_beds" validate:"omitempty,gte=0"`
	Rent         *float64 `json:"rent" validate:"required,gte=0"`
}

// TenantRequest creates a tenant or replaces one. A blank room number leaves
// the tenant unassigned.
type TenantRequest struct {
	Name       string  `json:"name" validate:"required,max=120"`
	Email      *string `json:"email" validate:"omitempty,email,max=255"`
	Phone      *string `json:"phone" validate:"omitempty,max=20"`
	RoomNumber *string `json:"room_number" validate:"omitempty,max=20"`
	JoinDate   string  `json:"join_date"`
}

// PaymentFilter narrows a payment listing. Zero fields match everything.
type PaymentFilter struct {
	TenantName string
	TenantID   *int64
	Period     period.Period
}

func (f PaymentFilter) Matches(p dues.Payment) bool {
	if f.TenantName != "" && p.TenantName != f.TenantName {
		return false
	}
	if f.TenantID != nil && (p.TenantID == nil || *p.TenantID != *f.TenantID) {
		return false
	}
	if f.Period != (period.Period{}) && !f.Period.Contains(p.Date) {
		return false
	}
	return true
}

// Snapshot is one consistent read of everything the dues ledger needs.
type Snapshot struct {
	Rooms    []dues.Room    `json:"rooms"`
	Tenants  []dues.Tenant  `json:"tenants"`
	Payments []dues.Payment `json:"payments"`
}
