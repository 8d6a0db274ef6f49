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

const productColumns = `id, name, sku, category, price, description`

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE sku = ?`, sku)
}

func (r *SQLRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
}

func (r *SQLRepository) findOne(ctx context.Context, query string, args ...interface{}) (*model.Product, error) {
	ext := database.Executor(ctx, r.DB)

	var p model.Product
	err := sqlx.GetContext(ctx, ext, &p, ext.Rebind(database.ForUpdate(ctx, query)), args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, database.Classify(fmt.Errorf("find product: %w", err))
	}
	return &p, nil
}

func (r *SQLRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	ext := database.Executor(ctx, r.DB)

	products := []model.Product{}
	if err := sqlx.SelectContext(ctx, ext, &products, `SELECT `+productColumns+` FROM products ORDER BY id`); err != nil {
		return nil, database.Classify(fmt.Errorf("list products: %w", err))
	}
	return products, nil
}

func (r *SQLRepository) Save(ctx context.Context, p *model.Product) error {
	existing, err := r.FindBySKU(ctx, p.SKU)
	if err != nil {
		return err
	}

	ext := database.Executor(ctx, r.DB)
	if existing != nil {
		query := ext.Rebind(`UPDATE products SET name = ?, category = ?, price = ?, description = ? WHERE id = ?`)
		if _, err := ext.ExecContext(ctx, query, p.Name, p.Category, p.Price, p.Description, existing.ID); err != nil {
			return database.Classify(fmt.Errorf("update product: %w", err))
		}
		p.ID = existing.ID
		return nil
	}

	id, err := database.InsertReturningID(ctx, ext, "id",
		`INSERT INTO products (name, sku, category, price, description) VALUES (?, ?, ?, ?, ?)`,
		p.Name, p.SKU, p.Category, p.Price, p.Description,
	)
	if err != nil {
		return database.Classify(fmt.Errorf("insert product: %w", err))
	}
	p.ID = id
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, sku string) error {
	ext := database.Executor(ctx, r.DB)
	if _, err := ext.ExecContext(ctx, ext.Rebind(`DELETE FROM products WHERE sku = ?`), sku); err != nil {
		return database.Classify(fmt.Errorf("delete product: %w", err))
	}
	return nil
}
