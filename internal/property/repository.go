package property

import (
	"context"
	"database/sql"
	"errors"

	"pgms/internal/dues"

	"github.com/jmoiron/sqlx"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room is full")
	ErrTenantNotFound  = errors.New("tenant not found")
	ErrPaymentNotFound = errors.New("payment not found")
)

const (
	roomColumns    = `id, room_number, capacity, occupied_beds, rent, status`
	tenantColumns  = `id, name, email, phone, room_number, join_date`
	paymentColumns = `id, tenant_id, tenant_name, amount, payment_date, method, transaction_id, details`
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListRooms(ctx context.Context) ([]dues.Room, error) {
	var rooms []dues.Room
	err := r.db.SelectContext(ctx, &rooms, `
		SELECT `+roomColumns+`
		FROM rooms
		ORDER BY room_number
	`)
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *PostgresRepository) GetRoomByNumber(ctx context.Context, number string) (*dues.Room, error) {
	var room dues.Room
	err := r.db.GetContext(ctx, &room, `
		SELECT `+roomColumns+`
		FROM rooms
		WHERE room_number = $1
	`, number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *PostgresRepository) CreateRoom(ctx context.Context, room *dues.Room) (*dues.Room, error) {
	out := &dues.Room{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO rooms (room_number, capacity, occupied_beds, rent, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+roomColumns,
		room.Number, room.Capacity, room.OccupiedBeds, room.Rent, room.Status,
	).StructScan(out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateRoom overwrites capacity, beds, rent and status of the numbered room.
func (r *PostgresRepository) UpdateRoom(ctx context.Context, number string, room *dues.Room) (*dues.Room, error) {
	out := &dues.Room{}
	err := r.db.QueryRowxContext(ctx, `
		UPDATE rooms
		SET capacity = $1, occupied_beds = $2, rent = $3, status = $4
		WHERE room_number = $5
		RETURNING `+roomColumns,
		room.Capacity, room.OccupiedBeds, room.Rent, room.Status, number,
	).StructScan(out)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepository) ListTenants(ctx context.Context) ([]dues.Tenant, error) {
	var tenants []dues.Tenant
	err := r.db.SelectContext(ctx, &tenants, `
		SELECT `+tenantColumns+`
		FROM tenants
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	return tenants, nil
}

func (r *PostgresRepository) GetTenant(ctx context.Context, id int64) (*dues.Tenant, error) {
	var t dues.Tenant
	err := r.db.GetContext(ctx, &t, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PostgresRepository) CreateTenant(ctx context.Context, t *dues.Tenant) (*dues.Tenant, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if t.Assigned() {
		if err := claimBed(ctx, tx, *t.RoomNumber); err != nil {
			return nil, err
		}
	}

	out := &dues.Tenant{}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO tenants (name, email, phone, room_number, join_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+tenantColumns,
		t.Name, t.Email, t.Phone, t.RoomNumber, t.JoinDate,
	).StructScan(out)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepository) UpdateTenant(ctx context.Context, id int64, t *dues.Tenant) (*dues.Tenant, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var current sql.NullString
	err = tx.GetContext(ctx, &current, `SELECT room_number FROM tenants WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}

	next := ""
	if t.Assigned() {
		next = *t.RoomNumber
	}
	if current.String != next {
		if current.String != "" {
			if err := releaseBed(ctx, tx, current.String); err != nil {
				return nil, err
			}
		}
		if next != "" {
			if err := claimBed(ctx, tx, next); err != nil {
				return nil, err
			}
		}
	}

	out := &dues.Tenant{}
	err = tx.QueryRowxContext(ctx, `
		UPDATE tenants
		SET name = $1, email = $2, phone = $3, room_number = $4, join_date = $5
		WHERE id = $6
		RETURNING `+tenantColumns,
		t.Name, t.Email, t.Phone, t.RoomNumber, t.JoinDate, id,
	).StructScan(out)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// claimBed takes one free bed in the room, or fails with ErrRoomFull.
func claimBed(ctx context.Context, tx *sqlx.Tx, number string) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE rooms
		SET occupied_beds = occupied_beds + 1,
		    status = CASE WHEN occupied_beds + 1 >= capacity THEN 'FULL' ELSE 'AVAILABLE' END
		WHERE room_number = $1 AND occupied_beds < capacity
	`, number)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRoomFull
	}
	return nil
}

func releaseBed(ctx context.Context, tx *sqlx.Tx, number string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE rooms
		SET occupied_beds = GREATEST(occupied_beds - 1, 0), status = 'AVAILABLE'
		WHERE room_number = $1
	`, number)
	return err
}

func (r *PostgresRepository) ListPayments(ctx context.Context) ([]dues.Payment, error) {
	var payments []dues.Payment
	err := r.db.SelectContext(ctx, &payments, `
		SELECT `+paymentColumns+`
		FROM payments
		ORDER BY payment_date DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *PostgresRepository) GetPayment(ctx context.Context, id int64) (*dues.Payment, error) {
	var p dues.Payment
	err := r.db.GetContext(ctx, &p, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) CreatePayment(ctx context.Context, p *dues.Payment) (*dues.Payment, error) {
	out := &dues.Payment{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO payments (tenant_id, tenant_name, amount, payment_date, method, transaction_id, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+paymentColumns,
		p.TenantID, p.TenantName, p.Amount, p.Date, p.Method, p.TransactionID, p.Details,
	).StructScan(out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReplacePayment overwrites every field of an existing payment.
func (r *PostgresRepository) ReplacePayment(ctx context.Context, id int64, p *dues.Payment) (*dues.Payment, error) {
	out := &dues.Payment{}
	err := r.db.QueryRowxContext(ctx, `
		UPDATE payments
		SET tenant_id = $1, tenant_name = $2, amount = $3, payment_date = $4,
		    method = $5, transaction_id = $6, details = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING `+paymentColumns,
		p.TenantID, p.TenantName, p.Amount, p.Date, p.Method, p.TransactionID, p.Details, id,
	).StructScan(out)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return out, nil
}
