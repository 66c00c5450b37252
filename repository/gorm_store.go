package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-frontdesk/models"
)

// GormStore implements Store on top of gorm. It works with any dialector
// the service is configured for (mysql, sqlite).
type GormStore struct {
	db   *gorm.DB
	inTx bool
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates or updates the front desk tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Room{},
		&models.Stay{},
		&models.Order{},
		&models.Bill{},
	)
}

func (s *GormStore) Rooms() RoomRepository   { return roomRepo{db: s.db} }
func (s *GormStore) Stays() StayRepository   { return stayRepo{db: s.db, lock: s.inTx} }
func (s *GormStore) Orders() OrderRepository { return orderRepo{db: s.db, lock: s.inTx} }
func (s *GormStore) Bills() BillRepository   { return billRepo{db: s.db, lock: s.inTx} }

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, inTx: true})
	})
}

// forUpdate adds a row lock inside transactions. SQLite locks the whole
// database on write and has no FOR UPDATE syntax.
func forUpdate(db *gorm.DB, inTx bool) *gorm.DB {
	if !inTx || db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// ---------------- rooms ----------------

type roomRepo struct {
	db *gorm.DB
}

func (r roomRepo) Create(ctx context.Context, rooms []models.Room) error {
	if len(rooms) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rooms).Error
}

func (r roomRepo) List(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := r.db.WithContext(ctx).Order("floor ASC, room_number ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (r roomRepo) FindByNumber(ctx context.Context, number string) (*models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).Where("room_number = ?", number).First(&room).Error; err != nil {
		return nil, notFound(err)
	}
	return &room, nil
}

func (r roomRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Room{}).Count(&n).Error
	return n, err
}

// ---------------- stays ----------------

type stayRepo struct {
	db   *gorm.DB
	lock bool
}

func (r stayRepo) Create(ctx context.Context, stay *models.Stay) error {
	return r.db.WithContext(ctx).Create(stay).Error
}

func (r stayRepo) FindActive(ctx context.Context, roomNumber string) (*models.Stay, error) {
	var stay models.Stay
	err := forUpdate(r.db.WithContext(ctx), r.lock).
		Where("room_number = ? AND status = ?", roomNumber, models.StayStatusOccupied).
		Order("created_at DESC, id DESC").
		First(&stay).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &stay, nil
}

func (r stayRepo) List(ctx context.Context, status models.StayStatus) ([]models.Stay, error) {
	q := r.db.WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var stays []models.Stay
	if err := q.Order("created_at DESC, id DESC").Find(&stays).Error; err != nil {
		return nil, fmt.Errorf("failed to list stays: %w", err)
	}
	return stays, nil
}

func (r stayRepo) Close(ctx context.Context, id snowflake.ID, closedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Stay{}).
		Where("id = ? AND status = ?", id, models.StayStatusOccupied).
		Updates(map[string]interface{}{
			"status":    models.StayStatusClosed,
			"closed_at": closedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ---------------- orders ----------------

type orderRepo struct {
	db   *gorm.DB
	lock bool
}

func (r orderRepo) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r orderRepo) FindByID(ctx context.Context, id snowflake.ID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

func (r orderRepo) ListUnpaidInHouse(ctx context.Context, roomNumber string) ([]models.Order, error) {
	var orders []models.Order
	err := forUpdate(r.db.WithContext(ctx), r.lock).
		Where("kind = ? AND room_number = ? AND status = ?", models.OrderKindInHouse, roomNumber, models.PaymentStatusUnpaid).
		Order("created_at ASC, id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list unpaid orders for room %s: %w", roomNumber, err)
	}
	return orders, nil
}

func (r orderRepo) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	q := r.db.WithContext(ctx)
	if filter.Kind != "" {
		q = q.Where("kind = ?", filter.Kind)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.RoomNumber != "" {
		q = q.Where("room_number = ?", filter.RoomNumber)
	}
	var orders []models.Order
	if err := q.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (r orderRepo) MarkPaid(ctx context.Context, ids []snowflake.ID, billID *snowflake.ID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	updates := map[string]interface{}{"status": models.PaymentStatusPaid}
	if billID != nil {
		updates["bill_id"] = *billID
	}
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id IN ? AND status = ?", ids, models.PaymentStatusUnpaid).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// ---------------- bills ----------------

type billRepo struct {
	db   *gorm.DB
	lock bool
}

func (r billRepo) Create(ctx context.Context, bill *models.Bill) error {
	return r.db.WithContext(ctx).Create(bill).Error
}

func (r billRepo) FindByID(ctx context.Context, id snowflake.ID) (*models.Bill, error) {
	var bill models.Bill
	if err := forUpdate(r.db.WithContext(ctx), r.lock).First(&bill, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &bill, nil
}

func (r billRepo) List(ctx context.Context, status models.PaymentStatus) ([]models.Bill, error) {
	q := r.db.WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var bills []models.Bill
	if err := q.Order("created_at DESC, id DESC").Find(&bills).Error; err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, nil
}

func (r billRepo) MarkPaid(ctx context.Context, id snowflake.ID, mode models.PaymentMode, paidAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Bill{}).
		Where("id = ? AND status = ?", id, models.PaymentStatusUnpaid).
		Updates(map[string]interface{}{
			"status":  models.PaymentStatusPaid,
			"mode":    mode,
			"paid_at": paidAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
