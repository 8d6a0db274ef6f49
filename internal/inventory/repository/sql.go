package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/database"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) FindByProductID(ctx context.Context, productID int64) (*model.InventoryItem, error) {
	ext := database.Executor(ctx, r.DB)
	query := database.ForUpdate(ctx, `SELECT inventory_id, product_id, quantity, location FROM inventory_items WHERE product_id = ?`)

	var item model.InventoryItem
	if err := sqlx.GetContext(ctx, ext, &item, ext.Rebind(query), productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // caller decides whether to create one
		}
		return nil, database.Classify(fmt.Errorf("find inventory item: %w", err))
	}
	return &item, nil
}

func (r *SQLRepository) FindAll(ctx context.Context) ([]model.InventoryItem, error) {
	ext := database.Executor(ctx, r.DB)
	query := `
        SELECT i.inventory_id, i.product_id, i.quantity, i.location,
               p.name AS product_name, p.sku AS product_sku
        FROM inventory_items i
        JOIN products p ON p.id = i.product_id
        ORDER BY i.inventory_id
    `

	items := []model.InventoryItem{}
	if err := sqlx.SelectContext(ctx, ext, &items, query); err != nil {
		return nil, database.Classify(fmt.Errorf("list inventory items: %w", err))
	}
	return items, nil
}

func (r *SQLRepository) Save(ctx context.Context, item *model.InventoryItem) error {
	existing, err := r.FindByProductID(ctx, item.ProductID)
	if err != nil {
		return err
	}

	ext := database.Executor(ctx, r.DB)
	if existing != nil {
		query := ext.Rebind(`UPDATE inventory_items SET quantity = ?, location = ? WHERE inventory_id = ?`)
		if _, err := ext.ExecContext(ctx, query, item.Quantity, item.Location, existing.ID); err != nil {
			return database.Classify(fmt.Errorf("update inventory item: %w", err))
		}
		item.ID = existing.ID
		return nil
	}

	id, err := database.InsertReturningID(ctx, ext, "inventory_id",
		`INSERT INTO inventory_items (product_id, quantity, location) VALUES (?, ?, ?)`,
		item.ProductID, item.Quantity, item.Location,
	)
	if err != nil {
		return database.Classify(fmt.Errorf("insert inventory item: %w", err))
	}
	item.ID = id
	return nil
}

func (r *SQLRepository) DeleteByProductID(ctx context.Context, productID int64) error {
	ext := database.Executor(ctx, r.DB)
	if _, err := ext.ExecContext(ctx, ext.Rebind(`DELETE FROM inventory_items WHERE product_id = ?`), productID); err != nil {
		return database.Classify(fmt.Errorf("delete inventory item: %w", err))
	}
	return nil
}

func (r *SQLRepository) LogMovement(ctx context.Context, m *model.StockMovement) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	ext := database.Executor(ctx, r.DB)
	id, err := database.InsertReturningID(ctx, ext, "id", `
        INSERT INTO stock_movements (
            product_id, quantity_change, quantity_before, quantity_after,
            reason, reference, created_at
        )
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ProductID, m.QuantityChange, m.QuantityBefore, m.QuantityAfter,
		m.Reason, m.Reference, m.CreatedAt,
	)
	if err != nil {
		return database.Classify(fmt.Errorf("log stock movement: %w", err))
	}
	m.ID = id
	return nil
}

func (r *SQLRepository) ListMovements(ctx context.Context, productID int64, limit int) ([]model.StockMovement, error) {
	query := `
        SELECT id, product_id, quantity_change, quantity_before, quantity_after,
               reason, reference, created_at
        FROM stock_movements`
	args := []interface{}{}
	if productID != 0 {
		query += ` WHERE product_id = ?`
		args = append(args, productID)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	ext := database.Executor(ctx, r.DB)
	movements := []model.StockMovement{}
	if err := sqlx.SelectContext(ctx, ext, &movements, ext.Rebind(query), args...); err != nil {
		return nil, database.Classify(fmt.Errorf("list stock movements: %w", err))
	}
	return movements, nil
}
