// Package repository is the storage boundary of the front desk. Services
// only see these interfaces; GormStore is the shipped implementation.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"

	"hotel-frontdesk/models"
)

var ErrNotFound = errors.New("record_not_found")

type Store interface {
	Rooms() RoomRepository
	Stays() StayRepository
	Orders() OrderRepository
	Bills() BillRepository

	// Transaction runs fn against a store bound to one transaction. Nested
	// calls reuse the outer transaction.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type RoomRepository interface {
	Create(ctx context.Context, rooms []models.Room) error
	List(ctx context.Context) ([]models.Room, error)
	FindByNumber(ctx context.Context, number string) (*models.Room, error)
	Count(ctx context.Context) (int64, error)
}

type StayRepository interface {
	Create(ctx context.Context, stay *models.Stay) error
	FindActive(ctx context.Context, roomNumber string) (*models.Stay, error)
	List(ctx context.Context, status models.StayStatus) ([]models.Stay, error)
	// Close flips an Occupied stay to Closed and reports whether a row changed.
	Close(ctx context.Context, id snowflake.ID, closedAt time.Time) (bool, error)
}

type OrderFilter struct {
	Kind       models.OrderKind
	Status     models.PaymentStatus
	RoomNumber string
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id snowflake.ID) (*models.Order, error)
	// ListUnpaidInHouse returns a room's unpaid in-house orders oldest first.
	ListUnpaidInHouse(ctx context.Context, roomNumber string) ([]models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	// MarkPaid flips the Unpaid orders among ids to Paid and returns how
	// many changed. billID may be nil.
	MarkPaid(ctx context.Context, ids []snowflake.ID, billID *snowflake.ID) (int64, error)
}

type BillRepository interface {
	Create(ctx context.Context, bill *models.Bill) error
	FindByID(ctx context.Context, id snowflake.ID) (*models.Bill, error)
	List(ctx context.Context, status models.PaymentStatus) ([]models.Bill, error)
	// MarkPaid flips an Unpaid bill to Paid and reports whether a row changed.
	MarkPaid(ctx context.Context, id snowflake.ID, mode models.PaymentMode, paidAt time.Time) (bool, error)
}
