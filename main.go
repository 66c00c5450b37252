package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"hotel-frontdesk/clock"
	"hotel-frontdesk/config"
	"hotel-frontdesk/controllers"
	"hotel-frontdesk/lock"
	"hotel-frontdesk/metrics"
	"hotel-frontdesk/repository"
	"hotel-frontdesk/routes"
	"hotel-frontdesk/services"
)

func main() {
	// .env is optional
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := config.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	if envErr != nil {
		log.Debug(".env not loaded; using process environment", zap.Error(envErr))
	}
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.ConnectDatabase(cfg, log)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	store := repository.NewGormStore(db)

	ctx := context.Background()
	if cfg.SeedRooms {
		if err := config.SeedRooms(ctx, store, log); err != nil {
			log.Fatal("seeding rooms failed", zap.Error(err))
		}
	}

	node, err := snowflake.NewNode(cfg.NodeID)
	if err != nil {
		log.Fatal("invalid NODE_ID", zap.Int64("node_id", cfg.NodeID), zap.Error(err))
	}

	var locker lock.Locker
	switch cfg.LockBackend {
	case config.LockBackendRedis:
		rdb, err := config.ConnectRedis(ctx, cfg)
		if err != nil {
			log.Fatal("redis connect failed", zap.Error(err))
		}
		defer rdb.Close()
		locker = lock.NewRedis(rdb, log, cfg.LockTTL, cfg.LockTimeout)
	default:
		locker = lock.NewLocal(cfg.LockTimeout)
	}
	log.Info("lock backend ready", zap.String("backend", cfg.LockBackend))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps := services.Deps{
		Store:   store,
		Locker:  locker,
		Clock:   clock.SystemClock{},
		IDs:     node,
		Metrics: metrics.New(registry),
		Log:     log,
	}
	policy := services.BillingPolicy{TaxRate: cfg.TaxRate, RoundPlaces: cfg.BillRoundPlaces}

	roomSvc := services.NewRoomService(deps)
	occupancySvc := services.NewOccupancyService(deps)
	orderSvc := services.NewOrderService(deps, occupancySvc)
	checkoutSvc := services.NewCheckoutService(deps, policy, occupancySvc, orderSvc)
	billSvc := services.NewBillService(deps)
	dashboardSvc := services.NewDashboardService(deps, roomSvc)

	counts, err := roomSvc.Counts(ctx)
	if err != nil {
		log.Fatal("reading room occupancy failed", zap.Error(err))
	}
	deps.Metrics.OccupiedRooms.Set(float64(counts.Occupied))

	router := routes.SetupRouter(routes.Controllers{
		CheckIns:  controllers.NewCheckInController(occupancySvc),
		Orders:    controllers.NewOrderController(orderSvc),
		Checkout:  controllers.NewCheckoutController(checkoutSvc),
		Bills:     controllers.NewBillController(billSvc),
		Rooms:     controllers.NewRoomController(roomSvc),
		Dashboard: controllers.NewDashboardController(dashboardSvc),
	}, routes.Options{
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
		Gatherer:    registry,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting",
			zap.String("addr", addr),
			zap.String("env", cfg.Env),
			zap.String("db_driver", cfg.DBDriver),
			zap.Int("rooms", counts.Total),
			zap.Int("occupied", counts.Occupied),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("ListenAndServe failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("server stopped")
}
