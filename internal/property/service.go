package property

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pgms/internal/api"
	"pgms/internal/dues"
	"pgms/internal/logger"
	"pgms/internal/metrics"
	"pgms/internal/money"
	"pgms/internal/period"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
)

var ErrRoomExists = errors.New("room number already exists")

type Service interface {
	Snapshot(ctx context.Context) (*Snapshot, error)

	ListRooms(ctx context.Context) ([]dues.Room, error)
	GetRoom(ctx context.Context, number string) (*dues.Room, error)
	CreateRoom(ctx context.Context, req RoomRequest) (*dues.Room, error)
	UpdateRoom(ctx context.Context, number string, req RoomRequest) (*dues.Room, error)

	ListTenants(ctx context.Context) ([]dues.Tenant, error)
	GetTenant(ctx context.Context, id int64) (*dues.Tenant, error)
	CreateTenant(ctx context.Context, req TenantRequest) (*dues.Tenant, error)
	UpdateTenant(ctx context.Context, id int64, req TenantRequest) (*dues.Tenant, error)

	ListPayments(ctx context.Context, f PaymentFilter) ([]dues.Payment, error)
	GetPayment(ctx context.Context, id int64) (*dues.Payment, error)
	RecordPayment(ctx context.Context, req PaymentRequest) (*dues.Payment, error)
	ReplacePayment(ctx context.Context, id int64, req PaymentRequest) (*dues.Payment, error)
}

type service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) Service {
	return &service{
		repo:     repo,
		validate: api.NewValidator(),
	}
}

// Snapshot loads rooms, tenants and payments in parallel.
func (s *service) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rooms, err := s.repo.ListRooms(gctx)
		if err != nil {
			return fmt.Errorf("load rooms: %w", err)
		}
		snap.Rooms = normalizeRooms(rooms)
		return nil
	})
	g.Go(func() error {
		tenants, err := s.repo.ListTenants(gctx)
		if err != nil {
			return fmt.Errorf("load tenants: %w", err)
		}
		snap.Tenants = tenants
		return nil
	})
	g.Go(func() error {
		payments, err := s.repo.ListPayments(gctx)
		if err != nil {
			return fmt.Errorf("load payments: %w", err)
		}
		snap.Payments = payments
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *service) ListRooms(ctx context.Context) ([]dues.Room, error) {
	rooms, err := s.repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	return normalizeRooms(rooms), nil
}

// normalizeRooms recomputes each room's status from its beds. Stored rows that
// break the bed invariant are logged and still returned.
func normalizeRooms(rooms []dues.Room) []dues.Room {
	for i := range rooms {
		if err := rooms[i].Validate(); err != nil {
			logger.Warn("room violates bed capacity", "room", rooms[i].Number, "error", err)
		}
		rooms[i].Status = rooms[i].DeriveStatus()
	}
	return rooms
}

func (s *service) GetRoom(ctx context.Context, number string) (*dues.Room, error) {
	room, err := s.repo.GetRoomByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	rooms := normalizeRooms([]dues.Room{*room})
	return &rooms[0], nil
}

func (s *service) CreateRoom(ctx context.Context, req RoomRequest) (*dues.Room, error) {
	room, err := s.toRoom(req)
	if err != nil {
		return nil, err
	}

	_, err = s.repo.GetRoomByNumber(ctx, room.Number)
	switch {
	case err == nil:
		return nil, ErrRoomExists
	case !errors.Is(err, ErrRoomNotFound):
		return nil, err
	}

	created, err := s.repo.CreateRoom(ctx, room)
	if err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	logger.Info("Room created", "room", created.Number, "capacity", created.Capacity, "rent", created.Rent.String())
	return created, nil
}

// UpdateRoom replaces the room's capacity, beds and rent. Room numbers are
// fixed once created since tenants and payments refer to them.
func (s *service) UpdateRoom(ctx context.Context, number string, req RoomRequest) (*dues.Room, error) {
	req.RoomNumber = strings.TrimSpace(req.RoomNumber)
	if req.RoomNumber == "" {
		req.RoomNumber = number
	}
	if req.RoomNumber != number {
		return nil, api.NewValidationError("room_number", "room number cannot be changed")
	}

	room, err := s.toRoom(req)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateRoom(ctx, number, room)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update room %s: %w", number, err)
	}
	logger.Info("Room updated", "room", number, "occupied_beds", updated.OccupiedBeds, "capacity", updated.Capacity)
	return updated, nil
}

func (s *service) toRoom(req RoomRequest) (*dues.Room, error) {
	req.RoomNumber = strings.TrimSpace(req.RoomNumber)
	if err := s.validate.Struct(req); err != nil {
		return nil, api.FromValidator(err)
	}

	room := &dues.Room{
		Number:   req.RoomNumber,
		Capacity: *req.Capacity,
		Rent:     money.ParseAmount(*req.Rent),
	}
	if req.OccupiedBeds != nil {
		room.OccupiedBeds = *req.OccupiedBeds
	}

	if err := room.Validate(); err != nil {
		var rerr *dues.InvalidRoomError
		if errors.As(err, &rerr) {
			return nil, api.NewValidationError("occupied_beds", rerr.Reason)
		}
		return nil, err
	}
	room.Status = room.DeriveStatus()
	return room, nil
}

func (s *service) ListTenants(ctx context.Context) ([]dues.Tenant, error) {
	return s.repo.ListTenants(ctx)
}

func (s *service) GetTenant(ctx context.Context, id int64) (*dues.Tenant, error) {
	return s.repo.GetTenant(ctx, id)
}

func (s *service) CreateTenant(ctx context.Context, req TenantRequest) (*dues.Tenant, error) {
	t, err := s.toTenant(ctx, req)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateTenant(ctx, t)
	if err != nil {
		if errors.Is(err, ErrRoomFull) {
			return nil, err
		}
		return nil, fmt.Errorf("create tenant: %w", err)
	}
	logger.Info("Tenant created", "tenant_id", created.ID, "tenant", created.Name, "room", roomLabel(created))
	return created, nil
}

func (s *service) UpdateTenant(ctx context.Context, id int64, req TenantRequest) (*dues.Tenant, error) {
	t, err := s.toTenant(ctx, req)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateTenant(ctx, id, t)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) || errors.Is(err, ErrRoomFull) {
			return nil, err
		}
		return nil, fmt.Errorf("update tenant %d: %w", id, err)
	}
	logger.Info("Tenant updated", "tenant_id", id, "tenant", updated.Name, "room", roomLabel(updated))
	return updated, nil
}

// toTenant validates the request and checks the assigned room exists. Names
// are trimmed here and on payments so the two always match.
func (s *service) toTenant(ctx context.Context, req TenantRequest) (*dues.Tenant, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(req); err != nil {
		return nil, api.FromValidator(err)
	}

	t := &dues.Tenant{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}

	if req.JoinDate != "" {
		date, ok := period.ParseDate(req.JoinDate)
		if !ok {
			return nil, api.NewValidationError("join_date", "unrecognised date")
		}
		t.JoinDate = date
	}

	if req.RoomNumber != nil {
		number := strings.TrimSpace(*req.RoomNumber)
		if number != "" {
			if _, err := s.repo.GetRoomByNumber(ctx, number); err != nil {
				if errors.Is(err, ErrRoomNotFound) {
					return nil, api.NewValidationError("room_number", "unknown room")
				}
				return nil, err
			}
			t.RoomNumber = &number
		}
	}
	return t, nil
}

func roomLabel(t *dues.Tenant) string {
	if !t.Assigned() {
		return ""
	}
	return *t.RoomNumber
}

// ListPayments returns stored payments, newest first, narrowed by f.
func (s *service) ListPayments(ctx context.Context, f PaymentFilter) ([]dues.Payment, error) {
	payments, err := s.repo.ListPayments(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dues.Payment, 0, len(payments))
	for _, p := range payments {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *service) GetPayment(ctx context.Context, id int64) (*dues.Payment, error) {
	return s.repo.GetPayment(ctx, id)
}

func (s *service) RecordPayment(ctx context.Context, req PaymentRequest) (*dues.Payment, error) {
	p, err := s.toPayment(req)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreatePayment(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	metrics.RecordTenantPayment(string(created.Method))
	logger.Info("Tenant payment recorded",
		"payment_id", created.ID,
		"tenant", created.TenantName,
		"amount", created.Amount.String(),
		"method", created.Method,
	)
	return created, nil
}

// ReplacePayment swaps the stored record for the submitted one.
func (s *service) ReplacePayment(ctx context.Context, id int64, req PaymentRequest) (*dues.Payment, error) {
	p, err := s.toPayment(req)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.ReplacePayment(ctx, id, p)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("replace payment %d: %w", id, err)
	}

	logger.Info("Tenant payment replaced", "payment_id", id, "tenant", updated.TenantName)
	return updated, nil
}

func (s *service) toPayment(req PaymentRequest) (*dues.Payment, error) {
	req.TenantName = strings.TrimSpace(req.TenantName)
	if err := s.validate.Struct(req); err != nil {
		return nil, api.FromValidator(err)
	}

	date, ok := period.ParseDate(req.PaymentDate)
	if !ok {
		return nil, api.NewValidationError("payment_date", "unrecognised date")
	}

	return &dues.Payment{
		TenantID:      req.TenantID,
		TenantName:    req.TenantName,
		Amount:        money.ParseAmount(*req.Amount),
		Date:          date,
		Method:        dues.ParseMethod(req.Method),
		TransactionID: req.TransactionID,
		Details:       req.Details,
	}, nil
}
