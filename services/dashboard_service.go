package services

import (
	"context"

	"github.com/shopspring/decimal"

	"hotel-frontdesk/models"
	"hotel-frontdesk/repository"
)

// DashboardService aggregates the front desk for the overview screen.
type DashboardService struct {
	store repository.Store
	rooms *RoomService
}

func NewDashboardService(d Deps, rooms *RoomService) *DashboardService {
	return &DashboardService{store: d.Store, rooms: rooms}
}

type Summary struct {
	Rooms            RoomCounts      `json:"rooms"`
	OccupancyPercent int             `json:"occupancyPercent"`
	PaidBills        int             `json:"paidBills"`
	UnpaidBills      int             `json:"unpaidBills"`
	StayRevenue      decimal.Decimal `json:"stayRevenue"`
	FoodRevenue      decimal.Decimal `json:"foodRevenue"`
	Collected        decimal.Decimal `json:"collected"`
	Outstanding      decimal.Decimal `json:"outstanding"`
}

// Summary covers billed stays and walk-in orders. Food revenue is the food
// on issued bills plus paid outside orders; in-house orders still on an
// open stay are not revenue yet.
func (s *DashboardService) Summary(ctx context.Context) (Summary, error) {
	counts, err := s.rooms.Counts(ctx)
	if err != nil {
		return Summary{}, err
	}
	bills, err := s.store.Bills().List(ctx, "")
	if err != nil {
		return Summary{}, err
	}
	outside, err := s.store.Orders().List(ctx, repository.OrderFilter{
		Kind:   models.OrderKindOutside,
		Status: models.PaymentStatusPaid,
	})
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{
		Rooms:       counts,
		StayRevenue: decimal.Zero,
		FoodRevenue: decimal.Zero,
		Collected:   decimal.Zero,
		Outstanding: decimal.Zero,
	}
	if counts.Total > 0 {
		sum.OccupancyPercent = int(decimal.NewFromInt(int64(counts.Occupied * 100)).
			Div(decimal.NewFromInt(int64(counts.Total))).Round(0).IntPart())
	}

	for _, b := range bills {
		sum.StayRevenue = sum.StayRevenue.Add(b.RoomCharges)
		sum.FoodRevenue = sum.FoodRevenue.Add(b.FoodCharges)
		if b.Status == models.PaymentStatusPaid {
			sum.PaidBills++
			sum.Collected = sum.Collected.Add(b.Total)
		} else {
			sum.UnpaidBills++
			sum.Outstanding = sum.Outstanding.Add(b.Total)
		}
	}
	for _, o := range outside {
		sum.FoodRevenue = sum.FoodRevenue.Add(o.Total)
		sum.Collected = sum.Collected.Add(o.Total)
	}
	return sum, nil
}
