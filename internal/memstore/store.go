// Package memstore is an in-process backend for the repositories. It keeps the
// same constraints the SQL schema enforces so usecases behave identically on both.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type tables struct {
	products  map[int64]model.Product
	suppliers map[int64]model.Supplier
	inventory map[int64]model.InventoryItem // keyed by product id
	orders    map[int64]model.Order
	movements []model.StockMovement

	productSeq   int64
	supplierSeq  int64
	inventorySeq int64
	orderSeq     int64
	lineSeq      int64
	movementSeq  int64
}

func newTables() tables {
	return tables{
		products:  make(map[int64]model.Product),
		suppliers: make(map[int64]model.Supplier),
		inventory: make(map[int64]model.InventoryItem),
		orders:    make(map[int64]model.Order),
	}
}

func (t *tables) clone() tables {
	c := *t
	c.products = make(map[int64]model.Product, len(t.products))
	for k, v := range t.products {
		c.products[k] = v
	}
	c.suppliers = make(map[int64]model.Supplier, len(t.suppliers))
	for k, v := range t.suppliers {
		c.suppliers[k] = v
	}
	c.inventory = make(map[int64]model.InventoryItem, len(t.inventory))
	for k, v := range t.inventory {
		c.inventory[k] = v
	}
	c.orders = make(map[int64]model.Order, len(t.orders))
	for k, v := range t.orders {
		c.orders[k] = copyOrder(v)
	}
	c.movements = append([]model.StockMovement(nil), t.movements...)
	return c
}

// Store serializes all access behind one mutex. A transaction holds the mutex
// until it commits or rolls back, so it sees no interleaved writes.
type Store struct {
	mu sync.Mutex
	t  tables
}

func New() *Store {
	return &Store{t: newTables()}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// WithinTx runs fn against the store and restores the previous state if fn fails
// or ctx ends before commit.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return apperror.Unavailable(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.t.clone()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.t = snapshot
		return err
	}
	if err := ctx.Err(); err != nil {
		s.t = snapshot
		return apperror.Unavailable(err)
	}
	return nil
}

func (s *Store) do(ctx context.Context, fn func(t *tables) error) error {
	if err := ctx.Err(); err != nil {
		return apperror.Unavailable(err)
	}
	if s.inTx(ctx) {
		return fn(&s.t)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.t)
}

func (s *Store) Products() *ProductRepository {
	return &ProductRepository{s: s}
}

func (s *Store) Suppliers() *SupplierRepository {
	return &SupplierRepository{s: s}
}

func (s *Store) Inventory() *InventoryRepository {
	return &InventoryRepository{s: s}
}

func (s *Store) Orders() *OrderRepository {
	return &OrderRepository{s: s}
}

func copyOrder(o model.Order) model.Order {
	o.Items = append([]model.OrderItem(nil), o.Items...)
	return o
}

// Products

type ProductRepository struct {
	s *Store
}

func (r *ProductRepository) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var found *model.Product
	err := r.s.do(ctx, func(t *tables) error {
		for _, p := range t.products {
			if p.SKU == sku {
				p := p
				found = &p
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	var found *model.Product
	err := r.s.do(ctx, func(t *tables) error {
		if p, ok := t.products[id]; ok {
			found = &p
		}
		return nil
	})
	return found, err
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	err := r.s.do(ctx, func(t *tables) error {
		out = make([]model.Product, 0, len(t.products))
		for _, p := range t.products {
			out = append(out, p)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (r *ProductRepository) Save(ctx context.Context, p *model.Product) error {
	return r.s.do(ctx, func(t *tables) error {
		for id, existing := range t.products {
			if existing.SKU == p.SKU {
				p.ID = id
				t.products[id] = *p
				return nil
			}
		}
		t.productSeq++
		p.ID = t.productSeq
		t.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepository) Delete(ctx context.Context, sku string) error {
	return r.s.do(ctx, func(t *tables) error {
		for id, p := range t.products {
			if p.SKU != sku {
				continue
			}
			if _, ok := t.inventory[id]; ok {
				return apperror.Conflict("record is still referenced")
			}
			delete(t.products, id)
			return nil
		}
		return nil
	})
}

// Suppliers

type SupplierRepository struct {
	s *Store
}

func (r *SupplierRepository) FindByID(ctx context.Context, id int64) (*model.Supplier, error) {
	var found *model.Supplier
	err := r.s.do(ctx, func(t *tables) error {
		if s, ok := t.suppliers[id]; ok {
			found = &s
		}
		return nil
	})
	return found, err
}

func (r *SupplierRepository) FindAll(ctx context.Context) ([]model.Supplier, error) {
	var out []model.Supplier
	err := r.s.do(ctx, func(t *tables) error {
		out = make([]model.Supplier, 0, len(t.suppliers))
		for _, s := range t.suppliers {
			out = append(out, s)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (r *SupplierRepository) Save(ctx context.Context, s *model.Supplier) error {
	return r.s.do(ctx, func(t *tables) error {
		row := *s
		row.Products = nil
		if _, ok := t.suppliers[s.ID]; ok && s.ID != 0 {
			t.suppliers[s.ID] = row
			return nil
		}
		t.supplierSeq++
		s.ID = t.supplierSeq
		row.ID = s.ID
		t.suppliers[s.ID] = row
		return nil
	})
}

func (r *SupplierRepository) Delete(ctx context.Context, id int64) error {
	return r.s.do(ctx, func(t *tables) error {
		for _, o := range t.orders {
			if o.SupplierID == id {
				return apperror.Conflict("record is still referenced")
			}
		}
		delete(t.suppliers, id)
		return nil
	})
}

// Inventory

type InventoryRepository struct {
	s *Store
}

func (r *InventoryRepository) FindByProductID(ctx context.Context, productID int64) (*model.InventoryItem, error) {
	var found *model.InventoryItem
	err := r.s.do(ctx, func(t *tables) error {
		if item, ok := t.inventory[productID]; ok {
			found = &item
		}
		return nil
	})
	return found, err
}

func (r *InventoryRepository) FindAll(ctx context.Context) ([]model.InventoryItem, error) {
	var out []model.InventoryItem
	err := r.s.do(ctx, func(t *tables) error {
		out = make([]model.InventoryItem, 0, len(t.inventory))
		for productID, item := range t.inventory {
			p := t.products[productID]
			item.ProductName = p.Name
			item.ProductSKU = p.SKU
			out = append(out, item)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (r *InventoryRepository) Save(ctx context.Context, item *model.InventoryItem) error {
	return r.s.do(ctx, func(t *tables) error {
		if _, ok := t.products[item.ProductID]; !ok {
			return apperror.NotFound("referenced record does not exist")
		}
		row := *item
		row.ProductName, row.ProductSKU = "", ""
		if existing, ok := t.inventory[item.ProductID]; ok {
			row.ID = existing.ID
		} else {
			t.inventorySeq++
			row.ID = t.inventorySeq
		}
		item.ID = row.ID
		t.inventory[item.ProductID] = row
		return nil
	})
}

func (r *InventoryRepository) DeleteByProductID(ctx context.Context, productID int64) error {
	return r.s.do(ctx, func(t *tables) error {
		delete(t.inventory, productID)
		return nil
	})
}

func (r *InventoryRepository) LogMovement(ctx context.Context, m *model.StockMovement) error {
	return r.s.do(ctx, func(t *tables) error {
		t.movementSeq++
		m.ID = t.movementSeq
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}
		t.movements = append(t.movements, *m)
		return nil
	})
}

// ListMovements returns newest first. productID zero matches every product.
func (r *InventoryRepository) ListMovements(ctx context.Context, productID int64, limit int) ([]model.StockMovement, error) {
	var out []model.StockMovement
	err := r.s.do(ctx, func(t *tables) error {
		out = []model.StockMovement{}
		for i := len(t.movements) - 1; i >= 0; i-- {
			m := t.movements[i]
			if productID != 0 && m.ProductID != productID {
				continue
			}
			out = append(out, m)
			if limit > 0 && len(out) == limit {
				break
			}
		}
		return nil
	})
	return out, err
}

// Orders

type OrderRepository struct {
	s *Store
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*model.Order, error) {
	var found *model.Order
	err := r.s.do(ctx, func(t *tables) error {
		if o, ok := t.orders[id]; ok {
			o = copyOrder(o)
			found = &o
		}
		return nil
	})
	return found, err
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]model.Order, error) {
	return r.filter(ctx, func(model.Order) bool { return true })
}

func (r *OrderRepository) FindBySupplier(ctx context.Context, supplierID int64) ([]model.Order, error) {
	return r.filter(ctx, func(o model.Order) bool { return o.SupplierID == supplierID })
}

func (r *OrderRepository) filter(ctx context.Context, keep func(model.Order) bool) ([]model.Order, error) {
	var out []model.Order
	err := r.s.do(ctx, func(t *tables) error {
		out = []model.Order{}
		for _, o := range t.orders {
			if keep(o) {
				out = append(out, copyOrder(o))
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (r *OrderRepository) CountBySupplier(ctx context.Context, supplierID int64) (int, error) {
	orders, err := r.FindBySupplier(ctx, supplierID)
	return len(orders), err
}

func (r *OrderRepository) Save(ctx context.Context, o *model.Order) error {
	return r.s.do(ctx, func(t *tables) error {
		if _, ok := t.suppliers[o.SupplierID]; !ok {
			return apperror.NotFound("referenced record does not exist")
		}
		if existing, ok := t.orders[o.ID]; ok && o.ID != 0 {
			existing.SupplierID = o.SupplierID
			existing.Status = o.Status
			t.orders[o.ID] = existing
			return nil
		}

		t.orderSeq++
		o.ID = t.orderSeq
		for i := range o.Items {
			t.lineSeq++
			o.Items[i].ID = t.lineSeq
			o.Items[i].OrderID = o.ID
		}
		t.orders[o.ID] = copyOrder(*o)
		return nil
	})
}

func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	return r.s.do(ctx, func(t *tables) error {
		delete(t.orders, id)
		return nil
	})
}
