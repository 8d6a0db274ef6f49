package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-inventory-service/internal/database"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/jmoiron/sqlx"
)

const (
	orderColumns = `order_id, supplier_id, order_date, status`
	itemColumns  = `id, order_id, product_id, product_sku, product_name, unit_price, quantity`
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) FindByID(ctx context.Context, id int64) (*model.Order, error) {
	ext := database.Executor(ctx, r.DB)
	query := database.ForUpdate(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_id = ?`)

	var o model.Order
	if err := sqlx.GetContext(ctx, ext, &o, ext.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, database.Classify(fmt.Errorf("find order: %w", err))
	}

	orders := []model.Order{o}
	if err := r.loadItems(ctx, ext, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *SQLRepository) FindAll(ctx context.Context) ([]model.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY order_id`)
}

func (r *SQLRepository) FindBySupplier(ctx context.Context, supplierID int64) ([]model.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE supplier_id = ? ORDER BY order_id`, supplierID)
}

func (r *SQLRepository) list(ctx context.Context, query string, args ...interface{}) ([]model.Order, error) {
	ext := database.Executor(ctx, r.DB)

	orders := []model.Order{}
	if err := sqlx.SelectContext(ctx, ext, &orders, ext.Rebind(query), args...); err != nil {
		return nil, database.Classify(fmt.Errorf("list orders: %w", err))
	}
	if err := r.loadItems(ctx, ext, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// loadItems fills Items of every order with a single query.
func (r *SQLRepository) loadItems(ctx context.Context, ext sqlx.ExtContext, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	byID := make(map[int64]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = i
		orders[i].Items = []model.OrderItem{}
	}

	query, args, err := sqlx.In(`SELECT `+itemColumns+` FROM order_items WHERE order_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("build order items query: %w", err)
	}

	var items []model.OrderItem
	if err := sqlx.SelectContext(ctx, ext, &items, ext.Rebind(query), args...); err != nil {
		return database.Classify(fmt.Errorf("list order items: %w", err))
	}
	for _, item := range items {
		i := byID[item.OrderID]
		orders[i].Items = append(orders[i].Items, item)
	}
	return nil
}

func (r *SQLRepository) CountBySupplier(ctx context.Context, supplierID int64) (int, error) {
	ext := database.Executor(ctx, r.DB)

	var count int
	if err := sqlx.GetContext(ctx, ext, &count, ext.Rebind(`SELECT COUNT(*) FROM orders WHERE supplier_id = ?`), supplierID); err != nil {
		return 0, database.Classify(fmt.Errorf("count orders: %w", err))
	}
	return count, nil
}

func (r *SQLRepository) Save(ctx context.Context, o *model.Order) error {
	return database.NewTransactor(r.DB).WithinTx(ctx, func(ctx context.Context) error {
		ext := database.Executor(ctx, r.DB)

		if o.ID != 0 {
			existing, err := r.FindByID(ctx, o.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				query := ext.Rebind(`UPDATE orders SET supplier_id = ?, status = ? WHERE order_id = ?`)
				if _, err := ext.ExecContext(ctx, query, o.SupplierID, o.Status, o.ID); err != nil {
					return database.Classify(fmt.Errorf("update order: %w", err))
				}
				return nil
			}
		}

		id, err := database.InsertReturningID(ctx, ext, "order_id",
			`INSERT INTO orders (supplier_id, order_date, status) VALUES (?, ?, ?)`,
			o.SupplierID, o.OrderDate, o.Status,
		)
		if err != nil {
			return database.Classify(fmt.Errorf("insert order: %w", err))
		}
		o.ID = id

		for i := range o.Items {
			item := &o.Items[i]
			item.OrderID = id
			itemID, err := database.InsertReturningID(ctx, ext, "id", `
                INSERT INTO order_items (order_id, product_id, product_sku, product_name, unit_price, quantity)
                VALUES (?, ?, ?, ?, ?, ?)`,
				item.OrderID, item.ProductID, item.ProductSKU, item.ProductName, item.UnitPrice, item.Quantity,
			)
			if err != nil {
				return database.Classify(fmt.Errorf("insert order item: %w", err))
			}
			item.ID = itemID
		}
		return nil
	})
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	ext := database.Executor(ctx, r.DB)
	if _, err := ext.ExecContext(ctx, ext.Rebind(`DELETE FROM orders WHERE order_id = ?`), id); err != nil {
		return database.Classify(fmt.Errorf("delete order: %w", err))
	}
	return nil
}
