package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"hotel-frontdesk/lock"
	"hotel-frontdesk/models"
	"hotel-frontdesk/repository"
)

// CheckoutService turns an active stay plus its unpaid in-house orders
// into a bill.
type CheckoutService struct {
	Deps
	policy    BillingPolicy
	occupancy *OccupancyService
	orders    *OrderService
}

func NewCheckoutService(d Deps, policy BillingPolicy, occupancy *OccupancyService, orders *OrderService) *CheckoutService {
	return &CheckoutService{Deps: d, policy: policy, occupancy: occupancy, orders: orders}
}

type CheckoutRequest struct {
	RoomNumber string `json:"room" validate:"required"`
	// Phone, when given, must match the guest on the stay.
	Phone string `json:"phone"`
}

// Checkout is all-or-nothing: the orders are settled, the stay is closed
// and the bill is stored in one transaction, while the room and its order
// ledger are locked.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*models.Bill, error) {
	req.RoomNumber = strings.TrimSpace(req.RoomNumber)
	req.Phone = strings.TrimSpace(req.Phone)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	room := req.RoomNumber

	var bill *models.Bill
	keys := []string{lock.RoomKey(room), lock.RoomOrdersKey(room)}
	err := withLocks(ctx, s.Locker, keys, func() error {
		return s.Store.Transaction(ctx, func(tx repository.Store) error {
			stay, err := tx.Stays().FindActive(ctx, room)
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("room %s: %w", room, ErrNoActiveStay)
			}
			if err != nil {
				return err
			}
			if req.Phone != "" && req.Phone != stay.Phone {
				return invalid("phone", "does not match the guest on this stay")
			}

			unpaid, err := tx.Orders().ListUnpaidInHouse(ctx, room)
			if err != nil {
				return err
			}
			orderIDs := make([]snowflake.ID, 0, len(unpaid))
			for _, o := range unpaid {
				orderIDs = append(orderIDs, o.ID)
			}

			now := s.Clock.Now(ctx)
			charges := ComputeCharges(s.policy, stay.Rate, Nights(stay.CreatedAt, now), sumOrders(unpaid), stay.Advance)

			b := &models.Bill{
				ID:          s.IDs.Generate(),
				StayID:      stay.ID,
				GuestName:   stay.GuestName,
				Phone:       stay.Phone,
				RoomNumber:  stay.RoomNumber,
				Nights:      charges.Nights,
				RoomCharges: charges.RoomCharges,
				FoodCharges: charges.FoodCharges,
				Advance:     charges.Advance,
				TaxableBase: charges.TaxableBase,
				TaxRate:     charges.TaxRate,
				Tax:         charges.Tax,
				Total:       charges.Total,
				OrderIDs:    datatypes.JSONSlice[snowflake.ID](orderIDs),
				Status:      models.PaymentStatusUnpaid,
				CreatedAt:   now,
			}

			if _, err := s.orders.markOrdersPaid(ctx, tx, orderIDs, &b.ID); err != nil {
				return err
			}
			if _, err := s.occupancy.closeStay(ctx, tx, room, now); err != nil {
				return err
			}
			if err := tx.Bills().Create(ctx, b); err != nil {
				return fmt.Errorf("failed to create bill: %w", err)
			}
			bill = b
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.Checkouts.Inc()
	s.Metrics.OccupiedRooms.Dec()
	s.Log.Info("guest checked out",
		zap.String("room", bill.RoomNumber),
		zap.String("bill_id", bill.ID.String()),
		zap.Int("nights", bill.Nights),
		zap.Int("orders", len(bill.OrderIDs)),
		zap.String("total", bill.Total.String()),
	)
	return bill, nil
}

func sumOrders(orders []models.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Total)
	}
	return total
}
