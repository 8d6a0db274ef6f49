package database

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-inventory-service/config"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Open connects with the configured driver and applies the pool settings.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	driver := cfg.Driver
	if driver != "postgres" {
		driver = "mysql"
	}

	db, err := sqlx.Open(driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

// InsertReturningID runs an INSERT written with '?' placeholders and returns the
// generated key. Postgres needs RETURNING, MySQL reports it through LastInsertId.
func InsertReturningID(ctx context.Context, ext sqlx.ExtContext, idColumn, query string, args ...interface{}) (int64, error) {
	if ext.DriverName() == "postgres" {
		var id int64
		q := ext.Rebind(query + " RETURNING " + idColumn)
		if err := ext.QueryRowxContext(ctx, q, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	res, err := ext.ExecContext(ctx, ext.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
