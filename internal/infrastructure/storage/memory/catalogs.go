package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"bookkeeper/internal/core/types"
	"bookkeeper/internal/domain"
	"bookkeeper/internal/domain/catalogs/category"
	"bookkeeper/internal/domain/catalogs/product"
	"bookkeeper/internal/domain/catalogs/supplier"
	"bookkeeper/internal/domain/documents/purchase"
	"bookkeeper/internal/domain/documents/purchase_return"
	"bookkeeper/internal/domain/documents/sale"
	"bookkeeper/internal/domain/documents/sales_return"
	"bookkeeper/internal/domain/documents/supplier_payment"
	"bookkeeper/internal/domain/inventory"
)

// crud implements the shared create/read/update/delete/list of one table.
type crud[T any, P row[T]] struct {
	s      *Store
	entity string
	table  func(st *state) *table[T, P]
	match  func(p P, f domain.ListFilter) bool
	// beforeUpdate copies columns an update must not overwrite
	beforeUpdate func(stored, next P)
	// date makes List filter by the filter's date range and order newest first
	date func(p P) time.Time
}

func (c crud[T, P]) Create(ctx context.Context, p P) error {
	return c.s.do(ctx, func(st *state) error {
		c.table(st).insert(p)
		return nil
	})
}

func (c crud[T, P]) GetByID(ctx context.Context, id int64) (P, error) {
	var out P
	err := c.s.do(ctx, func(st *state) error {
		p, ok := c.table(st).get(id)
		if !ok {
			return notFound(c.entity, id)
		}
		out = p
		return nil
	})
	return out, err
}

// GetForUpdate is GetByID; the transaction already holds the store lock.
func (c crud[T, P]) GetForUpdate(ctx context.Context, id int64) (P, error) {
	return c.GetByID(ctx, id)
}

func (c crud[T, P]) Update(ctx context.Context, p P) error {
	return c.s.do(ctx, func(st *state) error {
		tbl := c.table(st)
		stored, ok := tbl.get(p.GetID())
		if !ok {
			return notFound(c.entity, p.GetID())
		}
		if c.beforeUpdate != nil {
			c.beforeUpdate(stored, p)
		}
		tbl.update(p)
		return nil
	})
}

func (c crud[T, P]) Delete(ctx context.Context, id int64) error {
	return c.s.do(ctx, func(st *state) error {
		if !c.table(st).remove(id) {
			return notFound(c.entity, id)
		}
		return nil
	})
}

func (c crud[T, P]) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[P], error) {
	var res domain.ListResult[P]
	err := c.s.do(ctx, func(st *state) error {
		items := c.table(st).all(func(p P) bool {
			if c.date != nil && !f.InRange(c.date(p)) {
				return false
			}
			return c.match == nil || c.match(p, f)
		})
		if c.date != nil {
			sort.SliceStable(items, func(i, j int) bool {
				di, dj := c.date(items[i]), c.date(items[j])
				if !di.Equal(dj) {
					return di.After(dj)
				}
				return items[i].GetID() > items[j].GetID()
			})
		}
		res = domain.Page(items, f)
		return nil
	})
	return res, err
}

func containsFold(s, substr string) bool {
	return substr == "" || strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(substr)))
}

func sameID(ptr *int64, want *int64) bool {
	return want == nil || (ptr != nil && *ptr == *want)
}

// --- categories ---

// CategoryRepo implements category.Repository.
type CategoryRepo struct {
	crud[category.Category, *category.Category]
}

var _ category.Repository = (*CategoryRepo)(nil)

// Categories returns the category repository.
func (s *Store) Categories() *CategoryRepo {
	return &CategoryRepo{crud[category.Category, *category.Category]{
		s:      s,
		entity: "category",
		table:  func(st *state) *table[category.Category, *category.Category] { return st.categories },
		match: func(c *category.Category, f domain.ListFilter) bool {
			return containsFold(c.Name, f.Search) && sameID(c.ParentID, f.ParentID)
		},
	}}
}

func (r *CategoryRepo) HasChildren(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := r.s.do(ctx, func(st *state) error {
		found = st.categories.exists(func(c *category.Category) bool {
			return c.ParentID != nil && *c.ParentID == id
		})
		return nil
	})
	return found, err
}

func (r *CategoryRepo) HasProducts(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := r.s.do(ctx, func(st *state) error {
		found = st.products.exists(func(p *product.Product) bool {
			return (p.CategoryID != nil && *p.CategoryID == id) ||
				(p.SubcategoryID != nil && *p.SubcategoryID == id)
		})
		return nil
	})
	return found, err
}

// --- products ---

// ProductRepo implements product.Repository and inventory.Store.
type ProductRepo struct {
	crud[product.Product, *product.Product]
}

var (
	_ product.Repository = (*ProductRepo)(nil)
	_ inventory.Store    = (*ProductRepo)(nil)
)

// Products returns the product repository.
func (s *Store) Products() *ProductRepo {
	return &ProductRepo{crud[product.Product, *product.Product]{
		s:      s,
		entity: "product",
		table:  func(st *state) *table[product.Product, *product.Product] { return st.products },
		match: func(p *product.Product, f domain.ListFilter) bool {
			return containsFold(p.Name, f.Search) && sameID(p.CategoryID, f.ParentID)
		},
	}}
}

func (r *ProductRepo) HasMovements(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := r.s.do(ctx, func(st *state) error {
		found = st.purchaseItems.exists(func(it purchase.Item) bool { return it.ProductID == id }) ||
			st.purchaseReturnItems.exists(func(it purchase_return.Item) bool { return it.ProductID == id }) ||
			st.saleItems.exists(func(it sale.Item) bool { return it.ProductID == id }) ||
			st.salesReturnItems.exists(func(it sales_return.Item) bool { return it.ProductID == id })
		return nil
	})
	return found, err
}

// LockPosition implements inventory.Store.
func (r *ProductRepo) LockPosition(ctx context.Context, productID int64) (inventory.Position, error) {
	var pos inventory.Position
	err := r.s.do(ctx, func(st *state) error {
		p, ok := st.products.get(productID)
		if !ok {
			return notFound("product", productID)
		}
		pos = inventory.Position{Stock: p.Stock, Price: p.Price}
		return nil
	})
	return pos, err
}

// SavePosition implements inventory.Store.
func (r *ProductRepo) SavePosition(ctx context.Context, productID int64, pos inventory.Position) error {
	return r.s.do(ctx, func(st *state) error {
		p, ok := st.products.get(productID)
		if !ok {
			return notFound("product", productID)
		}
		p.Stock = pos.Stock
		p.Price = pos.Price
		st.products.update(p)
		return nil
	})
}

// --- suppliers ---

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	crud[supplier.Supplier, *supplier.Supplier]
}

var _ supplier.Repository = (*SupplierRepo)(nil)

// Suppliers returns the supplier repository.
func (s *Store) Suppliers() *SupplierRepo {
	return &SupplierRepo{crud[supplier.Supplier, *supplier.Supplier]{
		s:      s,
		entity: "supplier",
		table:  func(st *state) *table[supplier.Supplier, *supplier.Supplier] { return st.suppliers },
		match: func(sup *supplier.Supplier, f domain.ListFilter) bool {
			return containsFold(sup.Name, f.Search)
		},
		beforeUpdate: func(stored, next *supplier.Supplier) {
			next.PayableAmount = stored.PayableAmount
		},
	}}
}

func (r *SupplierRepo) AdjustPayable(ctx context.Context, id int64, delta types.Money) (types.Money, error) {
	var balance types.Money
	err := r.s.do(ctx, func(st *state) error {
		sup, ok := st.suppliers.get(id)
		if !ok {
			return notFound("supplier", id)
		}
		sup.PayableAmount = sup.PayableAmount.Add(delta)
		st.suppliers.update(sup)
		balance = sup.PayableAmount
		return nil
	})
	return balance, err
}

func (r *SupplierRepo) HasDocuments(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := r.s.do(ctx, func(st *state) error {
		found = st.purchases.exists(func(p *purchase.Purchase) bool { return p.SupplierID == id }) ||
			st.purchaseReturns.exists(func(p *purchase_return.PurchaseReturn) bool { return p.SupplierID == id }) ||
			st.supplierPayments.exists(func(p *supplier_payment.Payment) bool { return p.SupplierID == id })
		return nil
	})
	return found, err
}
