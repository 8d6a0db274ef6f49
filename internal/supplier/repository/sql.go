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

const supplierColumns = `supplier_id, name, contact_email, phone`

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) FindByID(ctx context.Context, id int64) (*model.Supplier, error) {
	ext := database.Executor(ctx, r.DB)
	query := database.ForUpdate(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE supplier_id = ?`)

	var s model.Supplier
	if err := sqlx.GetContext(ctx, ext, &s, ext.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, database.Classify(fmt.Errorf("find supplier: %w", err))
	}
	return &s, nil
}

func (r *SQLRepository) FindAll(ctx context.Context) ([]model.Supplier, error) {
	ext := database.Executor(ctx, r.DB)

	suppliers := []model.Supplier{}
	if err := sqlx.SelectContext(ctx, ext, &suppliers, `SELECT `+supplierColumns+` FROM suppliers ORDER BY supplier_id`); err != nil {
		return nil, database.Classify(fmt.Errorf("list suppliers: %w", err))
	}
	return suppliers, nil
}

func (r *SQLRepository) Save(ctx context.Context, s *model.Supplier) error {
	ext := database.Executor(ctx, r.DB)

	if s.ID != 0 {
		existing, err := r.FindByID(ctx, s.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			query := ext.Rebind(`UPDATE suppliers SET name = ?, contact_email = ?, phone = ? WHERE supplier_id = ?`)
			if _, err := ext.ExecContext(ctx, query, s.Name, s.ContactEmail, s.Phone, s.ID); err != nil {
				return database.Classify(fmt.Errorf("update supplier: %w", err))
			}
			return nil
		}
	}

	id, err := database.InsertReturningID(ctx, ext, "supplier_id",
		`INSERT INTO suppliers (name, contact_email, phone) VALUES (?, ?, ?)`,
		s.Name, s.ContactEmail, s.Phone,
	)
	if err != nil {
		return database.Classify(fmt.Errorf("insert supplier: %w", err))
	}
	s.ID = id
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	ext := database.Executor(ctx, r.DB)
	if _, err := ext.ExecContext(ctx, ext.Rebind(`DELETE FROM suppliers WHERE supplier_id = ?`), id); err != nil {
		return database.Classify(fmt.Errorf("delete supplier: %w", err))
	}
	return nil
}
