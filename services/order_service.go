package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"hotel-frontdesk/lock"
	"hotel-frontdesk/models"
	"hotel-frontdesk/repository"
)

// OrderService is the restaurant order ledger.
type OrderService struct {
	Deps
	occupancy *OccupancyService
}

func NewOrderService(d Deps, occupancy *OccupancyService) *OrderService {
	return &OrderService{Deps: d, occupancy: occupancy}
}

type OrderRequest struct {
	Kind       models.OrderKind     `json:"type" validate:"required,oneof=inhouse outside"`
	RoomNumber string               `json:"room"`
	Customer   string               `json:"name"`
	Phone      string               `json:"phone"`
	Items      []models.LineItem    `json:"items" validate:"required,min=1,dive"`
	Status     models.PaymentStatus `json:"status" validate:"omitempty,oneof=Paid Unpaid"`
	Mode       models.PaymentMode   `json:"mode" validate:"omitempty,oneof=Cash Card UPI"`
}

func (r *OrderRequest) normalize() {
	r.Kind = models.OrderKind(strings.ToLower(strings.TrimSpace(string(r.Kind))))
	r.RoomNumber = strings.TrimSpace(r.RoomNumber)
	r.Customer = strings.TrimSpace(r.Customer)
	r.Phone = strings.TrimSpace(r.Phone)
	for i := range r.Items {
		r.Items[i].Name = strings.TrimSpace(r.Items[i].Name)
	}
	if r.Status == "" {
		// in-house orders go on the room bill; walk-ins settle at the table
		if r.Kind == models.OrderKindInHouse {
			r.Status = models.PaymentStatusUnpaid
		} else {
			r.Status = models.PaymentStatusPaid
		}
	}
}

func (r OrderRequest) validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	for i, it := range r.Items {
		if err := checkAmount("items["+strconv.Itoa(i)+"].price", it.Price); err != nil {
			return err
		}
	}
	if err := checkAmount("total", OrderTotal(r.Items)); err != nil {
		return err
	}
	switch r.Kind {
	case models.OrderKindInHouse:
		if r.RoomNumber == "" {
			return invalid("room", "is required for in-house orders")
		}
	case models.OrderKindOutside:
		if r.Customer == "" {
			return invalid("name", "is required for outside orders")
		}
		if r.RoomNumber != "" {
			return invalid("room", "must be empty for outside orders")
		}
	}
	return nil
}

// OrderTotal sums quantity × price exactly.
func OrderTotal(items []models.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount())
	}
	return total
}

// RecordOrder validates and stores an order. In-house orders hold the
// room's order lock so a concurrent checkout either sees the order or the
// order sees the room as no longer occupied.
func (s *OrderService) RecordOrder(ctx context.Context, req OrderRequest) (*models.Order, error) {
	req.normalize()
	if err := req.validate(); err != nil {
		return nil, err
	}

	order := &models.Order{
		Kind:     req.Kind,
		Customer: req.Customer,
		Phone:    req.Phone,
		Items:    datatypes.JSONSlice[models.LineItem](req.Items),
		Total:    OrderTotal(req.Items),
		Status:   req.Status,
		Mode:     req.Mode,
	}

	var keys []string
	if req.Kind == models.OrderKindInHouse {
		room := req.RoomNumber
		order.RoomNumber = &room
		keys = append(keys, lock.RoomOrdersKey(room))
	}

	err := withLocks(ctx, s.Locker, keys, func() error {
		return s.Store.Transaction(ctx, func(tx repository.Store) error {
			if req.Kind == models.OrderKindInHouse {
				occupied, err := s.occupancy.isOccupied(ctx, tx, req.RoomNumber)
				if err != nil {
					return err
				}
				if !occupied {
					return fmt.Errorf("room %s: %w", req.RoomNumber, ErrRoomNotOccupied)
				}
			}
			order.ID = s.IDs.Generate()
			order.CreatedAt = s.Clock.Now(ctx)
			if err := tx.Orders().Create(ctx, order); err != nil {
				return fmt.Errorf("failed to create order: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.Orders.WithLabelValues(string(order.Kind)).Inc()
	s.Log.Info("order recorded",
		zap.String("order_id", order.ID.String()),
		zap.String("kind", string(order.Kind)),
		zap.String("total", order.Total.String()),
		zap.String("status", string(order.Status)),
	)
	return order, nil
}

// UnpaidOrdersForRoom is a live query over the ledger.
func (s *OrderService) UnpaidOrdersForRoom(ctx context.Context, roomNumber string) ([]models.Order, error) {
	roomNumber = strings.TrimSpace(roomNumber)
	if roomNumber == "" {
		return nil, invalid("room", "is required")
	}
	return s.Store.Orders().ListUnpaidInHouse(ctx, roomNumber)
}

// MarkOrdersPaid flips Unpaid orders to Paid. Already-paid ids are
// skipped, so repeating a call changes nothing.
func (s *OrderService) MarkOrdersPaid(ctx context.Context, ids []snowflake.ID) (int64, error) {
	var n int64
	err := s.Store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		n, err = s.markOrdersPaid(ctx, tx, ids, nil)
		return err
	})
	return n, err
}

func (s *OrderService) markOrdersPaid(ctx context.Context, tx repository.Store, ids []snowflake.ID, billID *snowflake.ID) (int64, error) {
	n, err := tx.Orders().MarkPaid(ctx, ids, billID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark orders paid: %w", err)
	}
	return n, nil
}

func (s *OrderService) List(ctx context.Context, filter repository.OrderFilter) ([]models.Order, error) {
	switch filter.Kind {
	case "", models.OrderKindInHouse, models.OrderKindOutside:
	default:
		return nil, invalid("type", "must be inhouse or outside")
	}
	switch filter.Status {
	case "", models.PaymentStatusPaid, models.PaymentStatusUnpaid:
	default:
		return nil, invalid("status", "must be Paid or Unpaid")
	}
	return s.Store.Orders().List(ctx, filter)
}
