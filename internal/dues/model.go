// Package dues reconciles room rent against recorded tenant payments.
// All functions are pure over the snapshots passed in.
package dues

import (
	"strings"

	"pgms/internal/money"
	"pgms/internal/period"
)

type Method string

const (
	MethodCash       Method = "Cash"
	MethodUPI        Method = "UPI"
	MethodNetBanking Method = "Net Banking"
	MethodAccount    Method = "Account"
	MethodOther      Method = "Other"
)

var methods = []Method{MethodCash, MethodUPI, MethodNetBanking, MethodAccount, MethodOther}

// ParseMethod matches case-insensitively and maps anything unknown to Other.
func ParseMethod(s string) Method {
	s = strings.TrimSpace(s)
	for _, m := range methods {
		if strings.EqualFold(s, string(m)) {
			return m
		}
	}
	return MethodOther
}

type Payment struct {
	ID            int64               `json:"id" db:"id"`
	TenantID      *int64              `json:"tenant_id,omitempty" db:"tenant_id"`
	TenantName    string              `json:"tenant_name" db:"tenant_name"`
	Amount        money.Money         `json:"amount" db:"amount"`
	Date          period.CalendarDate `json:"payment_date" db:"payment_date"`
	Method        Method              `json:"method" db:"method"`
	TransactionID *string             `json:"transaction_id,omitempty" db:"transaction_id"`
	Details       *string             `json:"details,omitempty" db:"details"`
}

type RoomStatus string

const (
	RoomAvailable RoomStatus = "AVAILABLE"
	RoomFull      RoomStatus = "FULL"
)

type Room struct {
	ID           int64       `json:"id" db:"id"`
	Number       string      `json:"room_number" db:"room_number"`
	Capacity     int         `json:"capacity" db:"capacity"`
	OccupiedBeds int         `json:"occupied_beds" db:"occupied_beds"`
	Rent         money.Money `json:"rent" db:"rent"`
	Status       RoomStatus  `json:"status" db:"status"`
}

// Validate enforces 0 <= occupied beds <= capacity.
func (r Room) Validate() error {
	if r.Capacity < 0 {
		return &InvalidRoomError{Number: r.Number, Reason: "negative capacity"}
	}
	if r.OccupiedBeds < 0 || r.OccupiedBeds > r.Capacity {
		return &InvalidRoomError{Number: r.Number, Reason: "occupied beds outside capacity"}
	}
	return nil
}

func (r Room) DeriveStatus() RoomStatus {
	if r.Capacity > 0 && r.OccupiedBeds >= r.Capacity {
		return RoomFull
	}
	return RoomAvailable
}

type InvalidRoomError struct {
	Number string
	Reason string
}

func (e *InvalidRoomError) Error() string {
	return "room " + e.Number + ": " + e.Reason
}

type Tenant struct {
	ID         int64               `json:"id" db:"id"`
	Name       string              `json:"name" db:"name"`
	Email      *string             `json:"email,omitempty" db:"email"`
	Phone      *string             `json:"phone,omitempty" db:"phone"`
	RoomNumber *string             `json:"room_number,omitempty" db:"room_number"`
	JoinDate   period.CalendarDate `json:"join_date" db:"join_date"`
}

// Assigned reports whether the tenant has a room number.
func (t Tenant) Assigned() bool {
	return t.RoomNumber != nil && strings.TrimSpace(*t.RoomNumber) != ""
}
