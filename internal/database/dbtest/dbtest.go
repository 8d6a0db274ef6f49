// Package dbtest opens the MySQL database used by repository integration tests.
package dbtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/database"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// Open connects to MYSQL_DSN, creates the schema and empties every table.
// The test is skipped when MySQL is not reachable.
func Open(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/inventory_test?parseTime=true"
	}

	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		t.Skipf("MySQL not available: %v", err)
	}

	if err := database.EnsureSchema(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("create schema: %v", err)
	}
	for _, table := range []string{"stock_movements", "order_items", "orders", "inventory_items", "products", "suppliers"} {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			db.Close()
			t.Fatalf("clean %s: %v", table, err)
		}
	}

	t.Cleanup(func() { db.Close() })
	return db
}
