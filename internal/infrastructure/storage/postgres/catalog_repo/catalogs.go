package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"bookkeeper/internal/core/types"
	"bookkeeper/internal/domain/catalogs/category"
	"bookkeeper/internal/domain/catalogs/product"
	"bookkeeper/internal/domain/catalogs/supplier"
	"bookkeeper/internal/domain/inventory"
	"bookkeeper/internal/infrastructure/storage/postgres"
)

const (
	categoryTable = "categories"
	productTable  = "products"
	supplierTable = "suppliers"
)

// CategoryRepo implements category.Repository.
type CategoryRepo struct {
	*BaseCatalogRepo[*category.Category]
}

var _ category.Repository = (*CategoryRepo)(nil)

// NewCategoryRepo creates a new category repository.
func NewCategoryRepo(txm *postgres.TxManager) *CategoryRepo {
	base := NewBaseCatalogRepo(txm, categoryTable, "category",
		postgres.ExtractDBColumns[category.Category](),
		func() *category.Category { return &category.Category{} },
	)
	base.parentCol = "parent_id"
	return &CategoryRepo{BaseCatalogRepo: base}
}

func (r *CategoryRepo) HasChildren(ctx context.Context, id int64) (bool, error) {
	return r.Exists(ctx, r.Builder().Select("1").From(categoryTable).Where(squirrel.Eq{"parent_id": id}))
}

func (r *CategoryRepo) HasProducts(ctx context.Context, id int64) (bool, error) {
	return r.Exists(ctx, r.Builder().Select("1").From(productTable).Where(squirrel.Or{
		squirrel.Eq{"category_id": id},
		squirrel.Eq{"subcategory_id": id},
	}))
}

// ProductRepo implements product.Repository and inventory.Store.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

var (
	_ product.Repository = (*ProductRepo)(nil)
	_ inventory.Store    = (*ProductRepo)(nil)
)

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	base := NewBaseCatalogRepo(txm, productTable, "product",
		postgres.ExtractDBColumns[product.Product](),
		func() *product.Product { return &product.Product{} },
	)
	base.parentCol = "category_id"
	return &ProductRepo{BaseCatalogRepo: base}
}

// itemTables hold document lines that reference products.
var itemTables = []string{"purchase_items", "purchase_return_items", "sale_items", "sales_return_items"}

func (r *ProductRepo) HasMovements(ctx context.Context, id int64) (bool, error) {
	for _, table := range itemTables {
		found, err := r.Exists(ctx, r.Builder().Select("1").From(table).Where(squirrel.Eq{"product_id": id}))
		if err != nil || found {
			return found, err
		}
	}
	return false, nil
}

// LockPosition implements inventory.Store with SELECT ... FOR UPDATE.
func (r *ProductRepo) LockPosition(ctx context.Context, productID int64) (inventory.Position, error) {
	var pos inventory.Position
	err := r.querier(ctx).QueryRow(ctx,
		`SELECT stock, price FROM products WHERE id = $1 FOR UPDATE`, productID,
	).Scan(&pos.Stock, &pos.Price)
	if err != nil {
		return pos, postgres.MapError(err, "lock", "product", productID)
	}
	return pos, nil
}

// SavePosition implements inventory.Store.
func (r *ProductRepo) SavePosition(ctx context.Context, productID int64, pos inventory.Position) error {
	result, err := r.querier(ctx).Exec(ctx,
		`UPDATE products SET stock = $1, price = $2, updated_at = NOW() WHERE id = $3`,
		pos.Stock, pos.Price, productID)
	if err != nil {
		return postgres.MapError(err, "save position", "product", productID)
	}
	if result.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, "save position", "product", productID)
	}
	return nil
}

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	*BaseCatalogRepo[*supplier.Supplier]
}

var _ supplier.Repository = (*SupplierRepo)(nil)

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo(txm *postgres.TxManager) *SupplierRepo {
	base := NewBaseCatalogRepo(txm, supplierTable, "supplier",
		postgres.ExtractDBColumns[supplier.Supplier](),
		func() *supplier.Supplier { return &supplier.Supplier{} },
	)
	// Only AdjustPayable writes the balance.
	base.immutable = []string{"payable_amount"}
	return &SupplierRepo{BaseCatalogRepo: base}
}

// AdjustPayable implements supplier.Repository; the UPDATE takes the row lock.
func (r *SupplierRepo) AdjustPayable(ctx context.Context, id int64, delta types.Money) (types.Money, error) {
	var balance types.Money
	err := r.querier(ctx).QueryRow(ctx, `
		UPDATE suppliers SET payable_amount = payable_amount + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING payable_amount
	`, delta, id).Scan(&balance)
	if err != nil {
		return balance, postgres.MapError(err, "adjust payable", "supplier", id)
	}
	return balance, nil
}

func (r *SupplierRepo) HasDocuments(ctx context.Context, id int64) (bool, error) {
	for _, table := range []string{"purchases", "purchase_returns", "supplier_payments"} {
		found, err := r.Exists(ctx, r.Builder().Select("1").From(table).Where(squirrel.Eq{"supplier_id": id}))
		if err != nil {
			return false, fmt.Errorf("supplier documents: %w", err)
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}
