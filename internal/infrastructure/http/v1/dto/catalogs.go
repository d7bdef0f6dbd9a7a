package dto

import (
	"bookkeeper/internal/core/types"
	"bookkeeper/internal/domain/accounts"
	"bookkeeper/internal/domain/catalogs/category"
	"bookkeeper/internal/domain/catalogs/product"
	"bookkeeper/internal/domain/catalogs/supplier"
)

// CategoryRequest creates or replaces a category.
type CategoryRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	ParentID *int64 `json:"parentId" binding:"omitempty,min=1"`
}

// Apply copies the request onto c.
func (r CategoryRequest) Apply(c *category.Category) *category.Category {
	if c == nil {
		c = &category.Category{}
	}
	c.Name = r.Name
	c.ParentID = r.ParentID
	return c
}

// ProductRequest creates or replaces a product. Stock and price set the
// opening position on create and correct it on update.
type ProductRequest struct {
	Name          string      `json:"name" binding:"required,max=255"`
	CategoryID    *int64      `json:"categoryId" binding:"omitempty,min=1"`
	SubcategoryID *int64      `json:"subcategoryId" binding:"omitempty,min=1"`
	Stock         int64       `json:"stock" binding:"min=0"`
	Price         types.Money `json:"price"`
}

// Apply copies the request onto p.
func (r ProductRequest) Apply(p *product.Product) *product.Product {
	if p == nil {
		p = &product.Product{}
	}
	p.Name = r.Name
	p.CategoryID = r.CategoryID
	p.SubcategoryID = r.SubcategoryID
	p.Stock = r.Stock
	p.Price = r.Price
	return p
}

// SupplierRequest creates or replaces a supplier. The payable balance is not
// accepted here.
type SupplierRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address" binding:"max=500"`
}

// Apply copies the request onto s.
func (r SupplierRequest) Apply(s *supplier.Supplier) *supplier.Supplier {
	if s == nil {
		s = &supplier.Supplier{PayableAmount: types.Zero()}
	}
	s.Name = r.Name
	s.Phone = r.Phone
	s.Address = r.Address
	return s
}

// GroupRequest creates or replaces an account group.
type GroupRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	AccountType string `json:"accountType" binding:"required,account_type"`
}

// Apply copies the request onto g. AccountType has been checked by binding.
func (r GroupRequest) Apply(g *accounts.Group) *accounts.Group {
	if g == nil {
		g = &accounts.Group{}
	}
	t, _ := accounts.ParseAccountType(r.AccountType)
	g.Name = r.Name
	g.AccountType = t
	return g
}

// AccountRequest creates or replaces a ledger account. The code is generated
// from the group's class and never changes.
type AccountRequest struct {
	GroupID int64   `json:"groupId" binding:"required,min=1"`
	Name    string  `json:"name" binding:"required,max=255"`
	Role    *string `json:"role" binding:"omitempty,account_role"`
}

// Apply copies the request onto a.
func (r AccountRequest) Apply(a *accounts.Account) *accounts.Account {
	if a == nil {
		a = &accounts.Account{}
	}
	a.GroupID = r.GroupID
	a.Name = r.Name
	a.Role = nil
	if r.Role != nil && *r.Role != "" {
		role := accounts.Role(*r.Role)
		a.Role = &role
	}
	return a
}
