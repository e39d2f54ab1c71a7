package scheduler

import (
	"context"
	"fmt"
	"time"

	"pgms/internal/dues"
	"pgms/internal/logger"
	"pgms/internal/period"
	"pgms/internal/property"
	"pgms/internal/subscription"
)

// ExpiryWindow is how far ahead subscription expiry notices look.
const ExpiryWindow = 3 * 24 * time.Hour

type SnapshotSource interface {
	Snapshot(ctx context.Context) (*property.Snapshot, error)
}

type ExpiringAccounts interface {
	ListEndingBetween(ctx context.Context, from, to time.Time) ([]subscription.Account, error)
}

type Mailer interface {
	SendDueReminder(ctx context.Context, email, name, room, rent, paid, due, month string) error
	SendExpiryNotice(ctx context.Context, email, name, plan string, endsAt time.Time) error
}

// Job is one scheduled unit of work. Run returns how many emails it queued.
type Job interface {
	Name() string
	Run(ctx context.Context) (int, error)
}

// DueReminderJob queues a reminder for every tenant with an email address
// who still owes rent for the current month.
type DueReminderJob struct {
	source SnapshotSource
	mailer Mailer
	now    func() time.Time
}

func NewDueReminderJob(source SnapshotSource, mailer Mailer) *DueReminderJob {
	return &DueReminderJob{source: source, mailer: mailer, now: time.Now}
}

func (j *DueReminderJob) Name() string { return "due_reminders" }

func (j *DueReminderJob) Run(ctx context.Context) (int, error) {
	snap, err := j.source.Snapshot(ctx)
	if err != nil {
		return 0, err
	}

	now := j.now()
	rows, err := dues.AggregateDuesAcrossTenants(snap.Tenants, snap.Rooms, snap.Payments, period.CurrentMonth(now))
	if err != nil {
		return 0, err
	}

	emails := make(map[int64]string, len(snap.Tenants))
	for _, t := range snap.Tenants {
		if t.Email != nil && *t.Email != "" {
			emails[t.ID] = *t.Email
		}
	}

	month := now.Format("January 2006")
	sent := 0
	for _, r := range rows {
		if r.Due <= 0 {
			continue
		}
		to, ok := emails[r.TenantID]
		if !ok {
			continue
		}
		err := j.mailer.SendDueReminder(ctx, to, r.TenantName, r.RoomNumber, r.Rent.String(), r.Paid.String(), r.Due.String(), month)
		if err != nil {
			logger.WithError(err).Error("failed to queue due reminder", "tenant_id", r.TenantID)
			continue
		}
		sent++
	}
	return sent, nil
}

// ExpiryNoticeJob warns admins whose subscription ends within ExpiryWindow.
type ExpiryNoticeJob struct {
	accounts ExpiringAccounts
	mailer   Mailer
	now      func() time.Time
}

func NewExpiryNoticeJob(accounts ExpiringAccounts, mailer Mailer) *ExpiryNoticeJob {
	return &ExpiryNoticeJob{accounts: accounts, mailer: mailer, now: time.Now}
}

func (j *ExpiryNoticeJob) Name() string { return "expiry_notices" }

func (j *ExpiryNoticeJob) Run(ctx context.Context) (int, error) {
	now := j.now()
	accounts, err := j.accounts.ListEndingBetween(ctx, now, now.Add(ExpiryWindow))
	if err != nil {
		return 0, fmt.Errorf("list expiring accounts: %w", err)
	}

	sent := 0
	for _, a := range accounts {
		if a.EndDate == nil {
			continue
		}
		plan := ""
		if a.SubscriptionPlan != nil {
			plan = *a.SubscriptionPlan
		}
		if err := j.mailer.SendExpiryNotice(ctx, a.Email, a.Name, plan, *a.EndDate); err != nil {
			logger.WithError(err).Error("failed to queue expiry notice", "admin_id", a.ID)
			continue
		}
		sent++
	}
	return sent, nil
}
