package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"hotel-frontdesk/lock"
	"hotel-frontdesk/models"
	"hotel-frontdesk/repository"
)

// BillService tracks payment of issued bills. Amounts on a bill are never
// recomputed.
type BillService struct {
	Deps
}

func NewBillService(d Deps) *BillService {
	return &BillService{Deps: d}
}

type MarkPaidRequest struct {
	Mode models.PaymentMode `json:"mode" validate:"required,oneof=Cash Card UPI"`
}

// MarkPaid moves a bill from Unpaid to Paid. A bill that is already paid
// keeps the mode it was paid with and the call fails with ErrAlreadyPaid.
func (s *BillService) MarkPaid(ctx context.Context, id snowflake.ID, req MarkPaidRequest) (*models.Bill, error) {
	req.Mode = models.PaymentMode(strings.TrimSpace(string(req.Mode)))
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var bill *models.Bill
	err := withLocks(ctx, s.Locker, []string{lock.BillKey(id.String())}, func() error {
		return s.Store.Transaction(ctx, func(tx repository.Store) error {
			b, err := findBill(ctx, tx, id)
			if err != nil {
				return err
			}
			if b.Status == models.PaymentStatusPaid {
				return fmt.Errorf("bill %s: %w", id, ErrAlreadyPaid)
			}

			now := s.Clock.Now(ctx)
			changed, err := tx.Bills().MarkPaid(ctx, id, req.Mode, now)
			if err != nil {
				return fmt.Errorf("failed to mark bill paid: %w", err)
			}
			if !changed {
				return fmt.Errorf("bill %s: %w", id, ErrAlreadyPaid)
			}
			b.Status = models.PaymentStatusPaid
			b.Mode = req.Mode
			b.PaidAt = &now
			bill = b
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.BillsPaid.WithLabelValues(string(bill.Mode)).Inc()
	s.Log.Info("bill paid",
		zap.String("bill_id", bill.ID.String()),
		zap.String("mode", string(bill.Mode)),
		zap.String("total", bill.Total.String()),
	)
	return bill, nil
}

func (s *BillService) Get(ctx context.Context, id snowflake.ID) (*models.Bill, error) {
	return findBill(ctx, s.Store, id)
}

// List returns bills newest first; an empty status returns all.
func (s *BillService) List(ctx context.Context, status models.PaymentStatus) ([]models.Bill, error) {
	switch status {
	case "", models.PaymentStatusPaid, models.PaymentStatusUnpaid:
	default:
		return nil, invalid("status", "must be Paid or Unpaid")
	}
	return s.Store.Bills().List(ctx, status)
}

func findBill(ctx context.Context, store repository.Store, id snowflake.ID) (*models.Bill, error) {
	b, err := store.Bills().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("bill %s: %w", id, ErrNotFound)
	}
	return b, err
}
