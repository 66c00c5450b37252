package repository

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// OpenSQLite opens a pure-Go SQLite database. SQLite allows one writer at a
// time, so the pool is pinned to a single connection; every statement in a
// transaction then runs on the connection that owns it.
func OpenSQLite(dsn string, cfg *gorm.Config) (*gorm.DB, error) {
	if cfg == nil {
		cfg = &gorm.Config{}
	}
	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}
