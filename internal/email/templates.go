package email

import (
	"context"
	"fmt"
	"time"
)

const dateFormat = "Jan 2, 2006"

func (s *Service) SendSubscriptionActivated(ctx context.Context, email, name, plan, amount string, endsAt time.Time) error {
	subject := "Subscription Activated - " + plan
	body := fmt.Sprintf(`Hi %s,

Your %s plan is now active.

Amount paid: Rs.%s
Valid until: %s

Thank you for managing your property with us.

- PGMS Team`, name, plan, amount, endsAt.Format(dateFormat))

	return s.Send(ctx, KindActivation, email, name, subject, body)
}

func (s *Service) SendDueReminder(ctx context.Context, email, name, room, rent, paid, due, month string) error {
	subject := "Rent Due Reminder - " + month
	body := fmt.Sprintf(`Hi %s,

This is a reminder about your rent for %s.

Room: %s
Rent: Rs.%s
Paid: Rs.%s
Outstanding: Rs.%s

Please clear the balance at the earliest.

- PGMS Team`, name, month, room, rent, paid, due)

	return s.Send(ctx, KindDueReminder, email, name, subject, body)
}

func (s *Service) SendExpiryNotice(ctx context.Context, email, name, plan string, endsAt time.Time) error {
	subject := "Your " + plan + " subscription is expiring"
	body := fmt.Sprintf(`Hi %s,

Your %s subscription ends on %s.

Renew from the Plans page to keep access to rooms, tenants and reports.

- PGMS Team`, name, plan, endsAt.Format(dateFormat))

	return s.Send(ctx, KindExpiry, email, name, subject, body)
}
