package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hotel-frontdesk/clock"
	"hotel-frontdesk/config"
	"hotel-frontdesk/controllers"
	"hotel-frontdesk/lock"
	"hotel-frontdesk/metrics"
	"hotel-frontdesk/repository"
	"hotel-frontdesk/services"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

type apiTest struct {
	t      *testing.T
	router *gin.Engine
	clock  *clock.Manual
}

func newAPITest(t *testing.T) *apiTest {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.OpenSQLite("file:"+name+"?mode=memory&cache=shared", nil)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	log := zap.NewNop()
	store := repository.NewGormStore(db)
	require.NoError(t, config.SeedRooms(context.Background(), store, log))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	clk := clock.NewManual(time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC))
	registry := prometheus.NewRegistry()
	deps := services.Deps{
		Store:   store,
		Locker:  lock.NewLocal(2 * time.Second),
		Clock:   clk,
		IDs:     node,
		Metrics: metrics.New(registry),
		Log:     log,
	}

	roomSvc := services.NewRoomService(deps)
	occupancy := services.NewOccupancyService(deps)
	orders := services.NewOrderService(deps, occupancy)
	checkout := services.NewCheckoutService(deps, services.DefaultBillingPolicy(), occupancy, orders)

	router := SetupRouter(Controllers{
		CheckIns:  controllers.NewCheckInController(occupancy),
		Orders:    controllers.NewOrderController(orders),
		Checkout:  controllers.NewCheckoutController(checkout),
		Bills:     controllers.NewBillController(services.NewBillService(deps)),
		Rooms:     controllers.NewRoomController(roomSvc),
		Dashboard: controllers.NewDashboardController(services.NewDashboardService(deps, roomSvc)),
	}, Options{Log: log, Gatherer: registry})

	return &apiTest{t: t, router: router, clock: clk}
}

func (a *apiTest) do(method, path, body string) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(path, "/api") {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func TestFrontDeskFlow(t *testing.T) {
	api := newAPITest(t)

	w, env := api.do(http.MethodPost, "/api/checkins",
		`{"name":"Meera Iyer","phone":"9876500000","idtype":"Aadhaar","id":"1234-5678-9012","address":"Chennai, India",`+
			`"room":"305","roomType":"Single","rate":3000,"adults":2,"children":0,"createdAt":"2026-05-10T12:00:00.000Z",`+
			`"advance":500,"mode":"UPI","remarks":"Sea view","status":"Occupied"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	stay := decode[struct {
		ID     string `json:"id"`
		Room   string `json:"room"`
		Rate   string `json:"rate"`
		Status string `json:"status"`
	}](t, env.Data)
	assert.Equal(t, "305", stay.Room)
	assert.Equal(t, "3000", stay.Rate)
	assert.Equal(t, "Occupied", stay.Status)
	assert.NotEmpty(t, stay.ID)

	w, env = api.do(http.MethodGet, "/api/checkins/305", "")
	require.Equal(t, http.StatusOK, w.Code)
	active := decode[struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		RoomType string `json:"roomType"`
		IDType   string `json:"idType"`
		IDNumber string `json:"idNumber"`
		Address  string `json:"address"`
		Remarks  string `json:"remarks"`
	}](t, env.Data)
	assert.Equal(t, stay.ID, active.ID)
	assert.Equal(t, "Meera Iyer", active.Name)
	assert.Equal(t, "Single", active.RoomType)
	assert.Equal(t, "Aadhaar", active.IDType)
	assert.Equal(t, "1234-5678-9012", active.IDNumber)
	assert.Equal(t, "Chennai, India", active.Address)
	assert.Equal(t, "Sea view", active.Remarks)

	w, env = api.do(http.MethodPost, "/api/checkins", `{"room":"305","name":"Other","phone":"1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "RoomAlreadyOccupied", env.Error.Kind)

	w, _ = api.do(http.MethodPost, "/api/orders",
		`{"type":"inhouse","room":"305","items":[{"name":"Dinner","qty":1,"price":"800"}]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = api.do(http.MethodGet, "/api/rooms/305/unpaid-orders", "")
	require.Equal(t, http.StatusOK, w.Code)
	unpaid := decode[struct {
		Items []json.RawMessage `json:"items"`
		Total string            `json:"total"`
	}](t, env.Data)
	assert.Len(t, unpaid.Items, 1)
	assert.Equal(t, "800", unpaid.Total)

	api.clock.Advance(18 * time.Hour)
	w, env = api.do(http.MethodPost, "/api/checkout", `{"room":"305","phone":"9876500000"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bill := decode[struct {
		ID          string   `json:"id"`
		Guest       string   `json:"guest"`
		FoodTotal   string   `json:"foodTotal"`
		Nights      int      `json:"nights"`
		TaxableBase string   `json:"taxableBase"`
		Tax         string   `json:"tax"`
		Total       string   `json:"total"`
		Status      string   `json:"status"`
		OrderIDs    []string `json:"orderIds"`
	}](t, env.Data)
	assert.Equal(t, "Meera Iyer", bill.Guest)
	assert.Equal(t, "800", bill.FoodTotal)
	assert.Equal(t, 1, bill.Nights)
	assert.Equal(t, "3300", bill.TaxableBase)
	assert.Equal(t, "396", bill.Tax)
	assert.Equal(t, "3696", bill.Total)
	assert.Equal(t, "Unpaid", bill.Status)
	assert.Len(t, bill.OrderIDs, 1)

	w, env = api.do(http.MethodPost, "/api/checkout", `{"room":"305"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "NoActiveStay", env.Error.Kind)

	w, env = api.do(http.MethodPost, "/api/bills/"+bill.ID+"/pay", `{"mode":"Card"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	paid := decode[struct {
		Status string `json:"status"`
		Mode   string `json:"mode"`
	}](t, env.Data)
	assert.Equal(t, "Paid", paid.Status)
	assert.Equal(t, "Card", paid.Mode)

	w, env = api.do(http.MethodPost, "/api/bills/"+bill.ID+"/pay", `{"mode":"Cash"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "AlreadyPaid", env.Error.Kind)

	w, env = api.do(http.MethodGet, "/api/bills?status=Paid", "")
	require.Equal(t, http.StatusOK, w.Code)
	bills := decode[struct {
		Items []json.RawMessage `json:"items"`
	}](t, env.Data)
	assert.Len(t, bills.Items, 1)

	w, env = api.do(http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)
	sum := decode[struct {
		Collected string `json:"collected"`
		PaidBills int    `json:"paidBills"`
	}](t, env.Data)
	assert.Equal(t, "3696", sum.Collected)
	assert.Equal(t, 1, sum.PaidBills)
}

func TestRoomsEndpoint(t *testing.T) {
	api := newAPITest(t)

	w, _ := api.do(http.MethodPost, "/api/checkins", `{"room":"101","name":"A","phone":"1"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env := api.do(http.MethodGet, "/api/rooms?status=Occupied", "")
	require.Equal(t, http.StatusOK, w.Code)
	rooms := decode[struct {
		Items []struct {
			Room   string `json:"room"`
			Type   string `json:"type"`
			Status string `json:"status"`
		} `json:"items"`
		Counts services.RoomCounts `json:"counts"`
	}](t, env.Data)
	require.Len(t, rooms.Items, 1)
	assert.Equal(t, "101", rooms.Items[0].Room)
	assert.Equal(t, "Single", rooms.Items[0].Type)
	assert.Equal(t, services.RoomCounts{Total: 32, Occupied: 1, Available: 31}, rooms.Counts)

	w, env = api.do(http.MethodGet, "/api/rooms?status=All", "")
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[struct {
		Items []json.RawMessage `json:"items"`
	}](t, env.Data)
	assert.Len(t, all.Items, 32)

	w, env = api.do(http.MethodGet, "/api/rooms/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NotFound", env.Error.Kind)

	w, env = api.do(http.MethodGet, "/api/room-types", "")
	require.Equal(t, http.StatusOK, w.Code)
	types := decode[struct {
		Items []struct {
			Type string `json:"type"`
			Rate string `json:"rate"`
		} `json:"items"`
	}](t, env.Data)
	require.Len(t, types.Items, 4)
	assert.Equal(t, "Suite", types.Items[3].Type)
	assert.Equal(t, "6500", types.Items[3].Rate)
}

func TestValidationErrorsAreBadRequests(t *testing.T) {
	api := newAPITest(t)

	cases := []struct {
		method, path, body string
	}{
		{http.MethodPost, "/api/checkins", `{"room":"101","phone":"1"}`},
		{http.MethodPost, "/api/checkins", `{"room":`},
		{http.MethodPost, "/api/orders", `{"type":"inhouse","room":"101","items":[]}`},
		{http.MethodPost, "/api/orders", `{"type":"outside","items":[{"name":"Tea","qty":1,"price":"10"}]}`},
		{http.MethodPost, "/api/checkout", `{}`},
		{http.MethodGet, "/api/bills/not-a-number", ""},
		{http.MethodGet, "/api/orders?kind=delivery", ""},
	}
	for _, tc := range cases {
		w, env := api.do(tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, tc.path+" "+tc.body)
		assert.Equal(t, "ValidationError", env.Error.Kind, tc.path+" "+tc.body)
	}

	w, env := api.do(http.MethodPost, "/api/orders",
		`{"type":"inhouse","room":"102","items":[{"name":"Tea","qty":1,"price":"10"}]}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "RoomNotOccupied", env.Error.Kind)
}

func TestHealthAndMetrics(t *testing.T) {
	api := newAPITest(t)

	w, _ := api.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = api.do(http.MethodPost, "/api/checkins", `{"room":"202","name":"B","phone":"2"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = api.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "frontdesk_checkins_total 1")
	assert.Contains(t, w.Body.String(), "frontdesk_rooms_occupied 1")
}

func TestOutsideOrderFromDeskForm(t *testing.T) {
	api := newAPITest(t)

	w, env := api.do(http.MethodPost, "/api/orders",
		`{"name":"Walk-in","phone":"9000011111","items":[{"name":"Masala Dosa","qty":2,"price":120}],`+
			`"status":"Paid","mode":"Cash","type":"outside","total":240,"createdAt":"2026-05-10T12:00:00.000Z"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		Name  string `json:"name"`
		Total string `json:"total"`
	}](t, env.Data)
	assert.Equal(t, "Walk-in", created.Name)
	assert.Equal(t, "240", created.Total)

	w, env = api.do(http.MethodGet, "/api/orders?kind=outside", "")
	require.Equal(t, http.StatusOK, w.Code)
	listed := decode[struct {
		Items []struct {
			Type   string `json:"type"`
			Name   string `json:"name"`
			Status string `json:"status"`
			Total  string `json:"total"`
		} `json:"items"`
	}](t, env.Data)
	require.Len(t, listed.Items, 1)
	assert.Equal(t, "outside", listed.Items[0].Type)
	assert.Equal(t, "Walk-in", listed.Items[0].Name)
	assert.Equal(t, "Paid", listed.Items[0].Status)
	assert.Equal(t, "240", listed.Items[0].Total)
}

func TestOrderAmountsMatchWhatIsBilled(t *testing.T) {
	api := newAPITest(t)

	w, _ := api.do(http.MethodPost, "/api/checkins", `{"room":"101","name":"A","phone":"1"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env := api.do(http.MethodPost, "/api/orders",
		`{"type":"inhouse","room":"101","items":[{"name":"Tea","qty":3,"price":"0.3333333333333333333"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ValidationError", env.Error.Kind)
	assert.Contains(t, env.Error.Message, "items[0].price")

	w, env = api.do(http.MethodPost, "/api/orders",
		`{"type":"inhouse","room":"101","items":[{"name":"Tea","qty":3,"price":"19.99"},{"name":"Papad","qty":7,"price":0.1}]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		Total string `json:"total"`
	}](t, env.Data)
	assert.Equal(t, "60.67", created.Total)

	w, env = api.do(http.MethodGet, "/api/orders?room=101", "")
	require.Equal(t, http.StatusOK, w.Code)
	listed := decode[struct {
		Items []struct {
			Total string `json:"total"`
		} `json:"items"`
	}](t, env.Data)
	require.Len(t, listed.Items, 1)
	assert.Equal(t, created.Total, listed.Items[0].Total)

	w, env = api.do(http.MethodPost, "/api/checkout", `{"room":"101"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bill := decode[struct {
		FoodTotal string `json:"foodTotal"`
	}](t, env.Data)
	assert.Equal(t, created.Total, bill.FoodTotal)
}
