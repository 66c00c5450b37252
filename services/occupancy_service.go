package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"hotel-frontdesk/lock"
	"hotel-frontdesk/models"
	"hotel-frontdesk/repository"
)

// OccupancyService owns the room state machine:
// Available -> (CheckIn) -> Occupied -> (checkout) -> Available.
// A room is Occupied exactly when it has a Stay with status Occupied.
type OccupancyService struct {
	Deps
}

func NewOccupancyService(d Deps) *OccupancyService {
	return &OccupancyService{Deps: d}
}

type CheckInRequest struct {
	RoomNumber string             `json:"room" validate:"required"`
	GuestName  string             `json:"name" validate:"required"`
	Phone      string             `json:"phone" validate:"required"`
	IDType     string             `json:"idtype"`
	IDNumber   string             `json:"id"`
	Address    string             `json:"address"`
	Remarks    string             `json:"remarks"`
	Adults     int                `json:"adults" validate:"gte=0"`
	Children   int                `json:"children" validate:"gte=0"`
	Rate       decimal.Decimal    `json:"rate"`
	Advance    decimal.Decimal    `json:"advance"`
	Mode       models.PaymentMode `json:"mode" validate:"omitempty,oneof=Cash Card UPI"`
}

func (r *CheckInRequest) normalize() {
	r.RoomNumber = strings.TrimSpace(r.RoomNumber)
	r.GuestName = strings.TrimSpace(r.GuestName)
	r.Phone = strings.TrimSpace(r.Phone)
	r.IDType = strings.TrimSpace(r.IDType)
	r.IDNumber = strings.TrimSpace(r.IDNumber)
	r.Address = strings.TrimSpace(r.Address)
	r.Remarks = strings.TrimSpace(r.Remarks)
	if r.Adults == 0 {
		r.Adults = 1
	}
}

func (r CheckInRequest) validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if err := checkAmount("rate", r.Rate); err != nil {
		return err
	}
	return checkAmount("advance", r.Advance)
}

// CheckIn opens a stay. A zero rate takes the catalog rate; whichever rate
// is used is frozen on the stay.
func (s *OccupancyService) CheckIn(ctx context.Context, req CheckInRequest) (*models.Stay, error) {
	req.normalize()
	if err := req.validate(); err != nil {
		return nil, err
	}

	var stay *models.Stay
	err := withLocks(ctx, s.Locker, []string{lock.RoomKey(req.RoomNumber)}, func() error {
		return s.Store.Transaction(ctx, func(tx repository.Store) error {
			room, err := findRoom(ctx, tx, req.RoomNumber)
			if err != nil {
				return err
			}

			occupied, err := s.isOccupied(ctx, tx, req.RoomNumber)
			if err != nil {
				return err
			}
			if occupied {
				return fmt.Errorf("room %s: %w", req.RoomNumber, ErrRoomAlreadyOccupied)
			}

			rate := req.Rate
			if rate.IsZero() {
				rate = room.Rate
			}

			st := &models.Stay{
				ID:         s.IDs.Generate(),
				RoomNumber: req.RoomNumber,
				GuestName:  req.GuestName,
				Phone:      req.Phone,
				RoomType:   room.Type,
				IDType:     req.IDType,
				IDNumber:   req.IDNumber,
				Address:    req.Address,
				Remarks:    req.Remarks,
				Adults:     req.Adults,
				Children:   req.Children,
				Rate:       rate,
				Advance:    req.Advance,
				Mode:       req.Mode,
				Status:     models.StayStatusOccupied,
				CreatedAt:  s.Clock.Now(ctx),
			}
			if err := tx.Stays().Create(ctx, st); err != nil {
				return fmt.Errorf("failed to create stay: %w", err)
			}
			stay = st
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.CheckIns.Inc()
	s.Metrics.OccupiedRooms.Inc()
	s.Log.Info("guest checked in",
		zap.String("room", stay.RoomNumber),
		zap.String("stay_id", stay.ID.String()),
		zap.String("rate", stay.Rate.String()),
		zap.String("advance", stay.Advance.String()),
	)
	return stay, nil
}

func (s *OccupancyService) IsOccupied(ctx context.Context, roomNumber string) (bool, error) {
	return s.isOccupied(ctx, s.Store, strings.TrimSpace(roomNumber))
}

func (s *OccupancyService) ActiveStay(ctx context.Context, roomNumber string) (*models.Stay, error) {
	roomNumber = strings.TrimSpace(roomNumber)
	stay, err := s.Store.Stays().FindActive(ctx, roomNumber)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("active stay for room %s: %w", roomNumber, ErrNotFound)
	}
	return stay, err
}

// ListStays returns stays newest first; an empty status returns all.
func (s *OccupancyService) ListStays(ctx context.Context, status models.StayStatus) ([]models.Stay, error) {
	switch status {
	case "", models.StayStatusOccupied, models.StayStatusClosed:
	default:
		return nil, invalid("status", "must be Occupied or Closed")
	}
	return s.Store.Stays().List(ctx, status)
}

func (s *OccupancyService) isOccupied(ctx context.Context, store repository.Store, roomNumber string) (bool, error) {
	_, err := store.Stays().FindActive(ctx, roomNumber)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	}
	return false, err
}

// closeStay ends the room's active stay. Only checkout calls it, inside
// the transaction that also issues the bill.
func (s *OccupancyService) closeStay(ctx context.Context, tx repository.Store, roomNumber string, at time.Time) (*models.Stay, error) {
	stay, err := tx.Stays().FindActive(ctx, roomNumber)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("room %s: %w", roomNumber, ErrNoActiveStay)
	}
	if err != nil {
		return nil, err
	}
	changed, err := tx.Stays().Close(ctx, stay.ID, at)
	if err != nil {
		return nil, fmt.Errorf("failed to close stay: %w", err)
	}
	if !changed {
		return nil, fmt.Errorf("room %s: %w", roomNumber, ErrNoActiveStay)
	}
	stay.Status = models.StayStatusClosed
	stay.ClosedAt = &at
	return stay, nil
}
