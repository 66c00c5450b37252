package services

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"hotel-frontdesk/models"
	"hotel-frontdesk/repository"
)

func TestRecordInHouseOrderComputesTotal(t *testing.T) {
	env := newTestEnv(t)
	env.checkIn(t, "101", 2500, 0)

	order := env.roomOrder(t, "101",
		item("Masala Dosa", 2, "120.50"),
		item("Filter Coffee", 3, "45"),
		item("Water", 1, "0"),
	)
	require.Equal(t, models.OrderKindInHouse, order.Kind)
	require.NotNil(t, order.RoomNumber)
	require.Equal(t, "101", *order.RoomNumber)
	require.Equal(t, models.PaymentStatusUnpaid, order.Status)
	requireAmount(t, "376", order.Total)
	require.Len(t, order.Items, 3)
	require.Equal(t, 1.0, testutil.ToFloat64(env.deps.Metrics.Orders.WithLabelValues("inhouse")))
}

func TestRecordInHouseOrderRequiresActiveStay(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.orders.RecordOrder(context.Background(), OrderRequest{
		Kind:       models.OrderKindInHouse,
		RoomNumber: "102",
		Items:      []models.LineItem{item("Tea", 1, "20")},
	})
	require.ErrorIs(t, err, ErrRoomNotOccupied)
	require.Equal(t, KindRoomNotOccupied, KindOf(err))

	orders, err := env.orders.List(context.Background(), repository.OrderFilter{})
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestRecordOutsideOrderNeedsNoStay(t *testing.T) {
	env := newTestEnv(t)

	order, err := env.orders.RecordOrder(context.Background(), OrderRequest{
		Kind:     "Outside",
		Customer: "Walk-in Table 4",
		Phone:    "9222222222",
		Items:    []models.LineItem{item("Thali", 2, "250")},
		Mode:     models.PaymentModeUPI,
	})
	require.NoError(t, err)
	require.Equal(t, models.OrderKindOutside, order.Kind)
	require.Nil(t, order.RoomNumber)
	require.Equal(t, models.PaymentStatusPaid, order.Status)
	requireAmount(t, "500", order.Total)
}

func TestRecordOrderValidation(t *testing.T) {
	env := newTestEnv(t)
	env.checkIn(t, "101", 2500, 0)
	ctx := context.Background()

	cases := map[string]OrderRequest{
		"no items": {Kind: models.OrderKindInHouse, RoomNumber: "101"},
		"empty item name": {Kind: models.OrderKindInHouse, RoomNumber: "101",
			Items: []models.LineItem{item(" ", 1, "10")}},
		"zero quantity": {Kind: models.OrderKindInHouse, RoomNumber: "101",
			Items: []models.LineItem{item("Tea", 0, "10")}},
		"negative price": {Kind: models.OrderKindInHouse, RoomNumber: "101",
			Items: []models.LineItem{item("Tea", 1, "-1")}},
		"missing kind": {RoomNumber: "101",
			Items: []models.LineItem{item("Tea", 1, "10")}},
		"in-house without room": {Kind: models.OrderKindInHouse,
			Items: []models.LineItem{item("Tea", 1, "10")}},
		"outside without customer": {Kind: models.OrderKindOutside,
			Items: []models.LineItem{item("Tea", 1, "10")}},
		"outside with room": {Kind: models.OrderKindOutside, Customer: "Walk-in", RoomNumber: "101",
			Items: []models.LineItem{item("Tea", 1, "10")}},
		"price below a paisa": {Kind: models.OrderKindInHouse, RoomNumber: "101",
			Items: []models.LineItem{item("Tea", 3, "0.3333333333333333333")}},
		"price too large": {Kind: models.OrderKindInHouse, RoomNumber: "101",
			Items: []models.LineItem{item("Banquet", 1, "1000000000000")}},
		"total too large": {Kind: models.OrderKindInHouse, RoomNumber: "101",
			Items: []models.LineItem{item("Banquet", 2, "600000000000")}},
		"bad status": {Kind: models.OrderKindInHouse, RoomNumber: "101", Status: "Pending",
			Items: []models.LineItem{item("Tea", 1, "10")}},
	}
	for name, req := range cases {
		_, err := env.orders.RecordOrder(ctx, req)
		require.Equal(t, KindValidation, KindOf(err), name)
	}
}

func TestUnpaidOrdersForRoomIsLiveAndOrdered(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.checkIn(t, "101", 2500, 0)
	env.checkIn(t, "102", 3200, 0)

	first := env.roomOrder(t, "101", item("Breakfast", 1, "300"))
	env.roomOrder(t, "102", item("Lunch", 1, "450"))

	unpaid, err := env.orders.UnpaidOrdersForRoom(ctx, "101")
	require.NoError(t, err)
	require.Len(t, unpaid, 1)

	second := env.roomOrder(t, "101", item("Dinner", 1, "600"))
	_, err = env.orders.RecordOrder(ctx, OrderRequest{
		Kind: models.OrderKindInHouse, RoomNumber: "101", Status: models.PaymentStatusPaid,
		Mode: models.PaymentModeCard, Items: []models.LineItem{item("Juice", 1, "90")},
	})
	require.NoError(t, err)

	unpaid, err = env.orders.UnpaidOrdersForRoom(ctx, "101")
	require.NoError(t, err)
	require.Len(t, unpaid, 2)
	require.Equal(t, first.ID, unpaid[0].ID)
	require.Equal(t, second.ID, unpaid[1].ID)
}

func TestMarkOrdersPaidIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.checkIn(t, "103", 4200, 0)

	a := env.roomOrder(t, "103", item("Soup", 1, "150"))
	b := env.roomOrder(t, "103", item("Salad", 1, "180"))
	ids := []snowflake.ID{a.ID, b.ID}

	n, err := env.orders.MarkOrdersPaid(ctx, ids)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
	afterOnce, err := env.orders.List(ctx, repository.OrderFilter{RoomNumber: "103"})
	require.NoError(t, err)

	n, err = env.orders.MarkOrdersPaid(ctx, ids)
	require.NoError(t, err)
	require.EqualValues(t, 0, n)
	afterTwice, err := env.orders.List(ctx, repository.OrderFilter{RoomNumber: "103"})
	require.NoError(t, err)

	require.Equal(t, len(afterOnce), len(afterTwice))
	for i := range afterOnce {
		require.Equal(t, afterOnce[i].ID, afterTwice[i].ID)
		require.Equal(t, models.PaymentStatusPaid, afterTwice[i].Status)
		require.Equal(t, afterOnce[i].Status, afterTwice[i].Status)
	}

	unpaid, err := env.orders.UnpaidOrdersForRoom(ctx, "103")
	require.NoError(t, err)
	require.Empty(t, unpaid)
}

func TestOrderTotalIsExact(t *testing.T) {
	total := OrderTotal([]models.LineItem{item("A", 3, "0.10"), item("B", 7, "0.20")})
	require.True(t, decimal.RequireFromString("1.70").Equal(total), total.String())
}

func TestRecordedOrderReadsBackExactly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.checkIn(t, "102", 3200, 0)

	order := env.roomOrder(t, "102", item("Paneer Tikka", 3, "19.99"), item("Papad", 7, "0.10"))
	requireAmount(t, "60.67", order.Total)

	stored, err := env.store.Orders().FindByID(ctx, order.ID)
	require.NoError(t, err)
	requireAmount(t, order.Total.String(), stored.Total)
	require.Len(t, stored.Items, 2)
	requireAmount(t, "19.99", stored.Items[0].Price)

	bill, err := env.checkout.Checkout(ctx, CheckoutRequest{RoomNumber: "102"})
	require.NoError(t, err)
	requireAmount(t, order.Total.String(), bill.FoodCharges)
}
