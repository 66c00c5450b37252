package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hotel-frontdesk/clock"
	"hotel-frontdesk/lock"
	"hotel-frontdesk/metrics"
	"hotel-frontdesk/models"
	"hotel-frontdesk/repository"
)

var checkInTime = time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)

type testEnv struct {
	deps  Deps
	store *repository.GormStore
	clock *clock.Manual

	rooms     *RoomService
	occupancy *OccupancyService
	orders    *OrderService
	checkout  *CheckoutService
	bills     *BillService
	dashboard *DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.OpenSQLite("file:"+name+"?mode=memory&cache=shared", nil)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	store := repository.NewGormStore(db)
	require.NoError(t, store.Rooms().Create(context.Background(), []models.Room{
		{RoomNumber: "101", Type: models.RoomTypeSingle, Floor: 1, Rate: decimal.NewFromInt(2500)},
		{RoomNumber: "102", Type: models.RoomTypeDouble, Floor: 1, Rate: decimal.NewFromInt(3200)},
		{RoomNumber: "103", Type: models.RoomTypeDeluxe, Floor: 1, Rate: decimal.NewFromInt(4200)},
		{RoomNumber: "104", Type: models.RoomTypeSuite, Floor: 1, Rate: decimal.NewFromInt(6500)},
	}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewManual(checkInTime)
	deps := Deps{
		Store:   store,
		Locker:  lock.NewLocal(2 * time.Second),
		Clock:   clk,
		IDs:     node,
		Metrics: metrics.New(prometheus.NewRegistry()),
		Log:     zap.NewNop(),
	}

	env := &testEnv{deps: deps, store: store, clock: clk}
	env.rooms = NewRoomService(deps)
	env.occupancy = NewOccupancyService(deps)
	env.orders = NewOrderService(deps, env.occupancy)
	env.checkout = NewCheckoutService(deps, DefaultBillingPolicy(), env.occupancy, env.orders)
	env.bills = NewBillService(deps)
	env.dashboard = NewDashboardService(deps, env.rooms)
	return env
}

func (e *testEnv) checkIn(t *testing.T, room string, rate, advance int64) *models.Stay {
	t.Helper()
	stay, err := e.occupancy.CheckIn(context.Background(), CheckInRequest{
		RoomNumber: room,
		GuestName:  "Guest " + room,
		Phone:      "98765" + room,
		Rate:       decimal.NewFromInt(rate),
		Advance:    decimal.NewFromInt(advance),
		Mode:       models.PaymentModeCash,
	})
	require.NoError(t, err)
	return stay
}

func (e *testEnv) roomOrder(t *testing.T, room string, items ...models.LineItem) *models.Order {
	t.Helper()
	order, err := e.orders.RecordOrder(context.Background(), OrderRequest{
		Kind:       models.OrderKindInHouse,
		RoomNumber: room,
		Items:      items,
	})
	require.NoError(t, err)
	return order
}

func item(name string, qty int, price string) models.LineItem {
	return models.LineItem{Name: name, Quantity: qty, Price: decimal.RequireFromString(price)}
}

func requireAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}
