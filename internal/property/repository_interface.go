package property

import (
	"context"

	"pgms/internal/dues"
)

type Repository interface {
	ListRooms(ctx context.Context) ([]dues.Room, error)
	GetRoomByNumber(ctx context.Context, number string) (*dues.Room, error)
	CreateRoom(ctx context.Context, room *dues.Room) (*dues.Room, error)
	UpdateRoom(ctx context.Context, number string, room *dues.Room) (*dues.Room, error)

	ListTenants(ctx context.Context) ([]dues.Tenant, error)
	GetTenant(ctx context.Context, id int64) (*dues.Tenant, error)
	// CreateTenant and UpdateTenant move the occupied-bed count of the rooms
	// the tenant leaves and joins in the same transaction as the tenant write.
	CreateTenant(ctx context.Context, t *dues.Tenant) (*dues.Tenant, error)
	UpdateTenant(ctx context.Context, id int64, t *dues.Tenant) (*dues.Tenant, error)

	ListPayments(ctx context.Context) ([]dues.Payment, error)
	GetPayment(ctx context.Context, id int64) (*dues.Payment, error)
	CreatePayment(ctx context.Context, p *dues.Payment) (*dues.Payment, error)
	ReplacePayment(ctx context.Context, id int64, p *dues.Payment) (*dues.Payment, error)
}
