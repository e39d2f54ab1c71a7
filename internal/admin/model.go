package admin

import (
	"time"

	"pgms/internal/plangate"
)

// Admin is a hostel owner account.
type Admin struct {
	ID                    int64      `db:"id" json:"id"`
	Name                  string     `db:"name" json:"name"`
	Email                 string     `db:"email" json:"email"`
	PasswordHash          string     `db:"password_hash" json:"-"`
	Phone                 *string    `db:"phone" json:"phone,omitempty"`
	HostelName            *string    `db:"hostel_name" json:"hostel_name,omitempty"`
	SubscriptionPlan      *string    `db:"subscription_plan" json:"subscription_plan,omitempty"`
	SubscriptionStartDate *time.Time `db:"subscription_start_date" json:"subscription_start_date,omitempty"`
	SubscriptionEndDate   *time.Time `db:"subscription_end_date" json:"subscription_end_date,omitempty"`
	CreatedAt             time.Time  `db:"created_at" json:"created_at"`
}

func (a Admin) SubscriptionState() plangate.AccountSubscriptionState {
	state := plangate.AccountSubscriptionState{
		StartDate: a.SubscriptionStartDate,
		EndDate:   a.SubscriptionEndDate,
	}
	if a.SubscriptionPlan != nil {
		state.CurrentPlan = *a.SubscriptionPlan
	}
	return state
}

// NewAdmin is what registration writes.
type NewAdmin struct {
	Name             string
	Email            string
	PasswordHash     string
	Phone            *string
	HostelName       *string
	SubscriptionPlan *string
}

type RegisterRequest struct {
	Name             string `json:"name" binding:"required,max=120"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=6"`
	Phone            string `json:"phone" binding:"omitempty,max=20"`
	HostelName       string `json:"hostel_name" binding:"omitempty,max=120"`
	SubscriptionPlan string `json:"subscription_plan" binding:"omitempty,max=60"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Admin        Admin  `json:"admin"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	Admin       Admin  `json:"admin"`
}

// Profile is the account page, reachable even while the subscription gate is closed.
type Profile struct {
	Admin
	Status  plangate.Status `json:"status"`
	MustPay bool            `json:"must_pay"`
	Expired bool            `json:"expired"`
}
