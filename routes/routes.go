package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"hotel-frontdesk/controllers"
	"hotel-frontdesk/middleware"
)

// Controllers are the handlers mounted under /api.
type Controllers struct {
	CheckIns  *controllers.CheckInController
	Orders    *controllers.OrderController
	Checkout  *controllers.CheckoutController
	Bills     *controllers.BillController
	Rooms     *controllers.RoomController
	Dashboard *controllers.DashboardController
}

type Options struct {
	Log         *zap.Logger
	CORSOrigins []string
	// Gatherer backs /metrics; nil leaves the endpoint out.
	Gatherer prometheus.Gatherer
}

func SetupRouter(ctl Controllers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(opts.Log))

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	{
		checkins := api.Group("/checkins")
		{
			checkins.POST("", ctl.CheckIns.CheckIn)
			checkins.GET("", ctl.CheckIns.ListStays)
			checkins.GET("/:room", ctl.CheckIns.GetActiveStay)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", ctl.Orders.CreateOrder)
			orders.GET("", ctl.Orders.ListOrders)
		}

		api.POST("/checkout", ctl.Checkout.CheckoutRoom)

		bills := api.Group("/bills")
		{
			bills.GET("", ctl.Bills.ListBills)
			bills.GET("/:id", ctl.Bills.GetBill)
			bills.POST("/:id/pay", ctl.Bills.PayBill)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", ctl.Rooms.GetRooms)
			rooms.GET("/:number", ctl.Rooms.GetRoom)
			rooms.GET("/:number/unpaid-orders", ctl.Orders.UnpaidOrders)
		}
		api.GET("/room-types", ctl.Rooms.GetRoomTypes)

		api.GET("/dashboard", ctl.Dashboard.GetSummary)
	}

	return r
}
