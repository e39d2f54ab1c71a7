package admin

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrAdminNotFound = errors.New("admin not found")

const adminColumns = `id, name, email, password_hash, phone, hostel_name, subscription_plan,
	subscription_start_date, subscription_end_date, created_at`

type PostgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a NewAdmin) (*Admin, error) {
	query := `
		INSERT INTO admins (name, email, password_hash, phone, hostel_name, subscription_plan)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + adminColumns

	var admin Admin
	err := r.db.GetContext(ctx, &admin, query, a.Name, a.Email, a.PasswordHash, a.Phone, a.HostelName, a.SubscriptionPlan)
	if err != nil {
		return nil, err
	}

	return &admin, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	return r.findOne(ctx, `SELECT `+adminColumns+` FROM admins WHERE email = $1`, email)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*Admin, error) {
	return r.findOne(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = $1`, id)
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg any) (*Admin, error) {
	var admin Admin
	err := r.db.GetContext(ctx, &admin, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}

	return &admin, nil
}

func (r *PostgresRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM admins WHERE email = $1)`, email)
	if err != nil {
		return false, err
	}

	return exists, nil
}
