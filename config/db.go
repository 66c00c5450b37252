package config

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-frontdesk/models"
	"hotel-frontdesk/repository"
)

// ConnectDatabase opens the configured database and migrates the schema.
func ConnectDatabase(cfg Config, log *zap.Logger) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.IsDev() {
		level = logger.Info
	}
	gormCfg := &gorm.Config{
		Logger: logger.New(
			zap.NewStdLog(log.Named("gorm")),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  level,
				IgnoreRecordNotFoundError: true,
			},
		),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DBDriver {
	case DriverMySQL:
		dsn, dbName, derr := resolveMySQLDSN()
		if derr != nil {
			return nil, derr
		}
		db, err = gorm.Open(mysql.Open(dsn), gormCfg)
		if err == nil {
			log.Info("connected to mysql", zap.String("database", dbName))
		}
	default:
		db, err = repository.OpenSQLite(cfg.SQLitePath, gormCfg)
		if err == nil {
			log.Info("opened sqlite", zap.String("path", cfg.SQLitePath))
		}
	}
	if err != nil {
		return nil, err
	}

	if err := repository.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// RoomCatalog is the default front desk inventory: four floors of eight
// rooms, types cycling Single, Double, Deluxe, Suite along each corridor.
func RoomCatalog() []models.Room {
	rooms := make([]models.Room, 0, 32)
	for floor := 1; floor <= 4; floor++ {
		for i := 1; i <= 8; i++ {
			t := models.RoomTypes[(i-1)%len(models.RoomTypes)]
			rooms = append(rooms, models.Room{
				RoomNumber: fmt.Sprintf("%d0%d", floor, i),
				Type:       t,
				Floor:      floor,
				Rate:       t.DefaultRate(),
			})
		}
	}
	return rooms
}

// SeedRooms inserts the catalog into an empty rooms table.
func SeedRooms(ctx context.Context, store repository.Store, log *zap.Logger) error {
	n, err := store.Rooms().Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Debug("rooms already seeded", zap.Int64("rooms", n))
		return nil
	}
	rooms := RoomCatalog()
	if err := store.Rooms().Create(ctx, rooms); err != nil {
		return fmt.Errorf("seed rooms: %w", err)
	}
	log.Info("rooms seeded", zap.Int("rooms", len(rooms)))
	return nil
}

func mysqlDSNFromURL(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", "", fmt.Errorf("mysql url missing database name")
	}
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	mc := mysqldriver.NewConfig()
	mc.User = u.User.Username()
	mc.Passwd, _ = u.User.Password()
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(u.Hostname(), port)
	mc.DBName = dbName
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4"}

	for key, values := range u.Query() {
		if len(values) == 0 {
			continue
		}
		switch key {
		case "parseTime":
		case "loc":
			loc, err := time.LoadLocation(values[0])
			if err != nil {
				return "", "", fmt.Errorf("mysql url loc: %w", err)
			}
			mc.Loc = loc
		default:
			mc.Params[key] = values[0]
		}
	}
	return mc.FormatDSN(), dbName, nil
}

func resolveMySQLDSN() (string, string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, strings.TrimSpace(os.Getenv("DB_NAME")), nil
	}

	mc := mysqldriver.NewConfig()
	mc.User = envOrDefault("DB_USER", "root")
	mc.Passwd = os.Getenv("DB_PASS")
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(envOrDefault("DB_HOST", "127.0.0.1"), envOrDefault("DB_PORT", "3306"))
	mc.DBName = envOrDefault("DB_NAME", "frontdesk")
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN(), mc.DBName, nil
}
