package dto

import (
	"bookkeeper/internal/core/entity"
	"bookkeeper/internal/core/types"
	"bookkeeper/internal/domain/documents/expense"
	"bookkeeper/internal/domain/documents/manual_entry"
	"bookkeeper/internal/domain/documents/purchase"
	"bookkeeper/internal/domain/documents/purchase_return"
	"bookkeeper/internal/domain/documents/sale"
	"bookkeeper/internal/domain/documents/sales_return"
	"bookkeeper/internal/domain/documents/supplier_payment"
	"bookkeeper/internal/domain/ledger"
	"bookkeeper/internal/domain/posting"
)

// DocumentFields are the header fields every document request carries.
// A missing date means today.
type DocumentFields struct {
	Date        types.Date `json:"date"`
	Description string     `json:"description" binding:"max=1000"`
}

func (f DocumentFields) header(id int64) entity.Document {
	return entity.Document{
		BaseEntity:  entity.BaseEntity{ID: id},
		Date:        f.Date.OrToday(),
		Description: f.Description,
	}
}

// paymentMethod has been checked by the payment_method binding rule.
func paymentMethod(s string) posting.PaymentMethod {
	m, _ := posting.ParsePaymentMethod(s)
	return m
}

// --- Purchases ---

// PurchaseItemRequest is one purchase line.
type PurchaseItemRequest struct {
	ProductID     int64       `json:"productId" binding:"required,min=1"`
	Quantity      int64       `json:"quantity" binding:"required,min=1"`
	PurchasePrice types.Money `json:"purchasePrice"`
}

// PurchaseRequest creates or replaces a purchase.
type PurchaseRequest struct {
	DocumentFields
	SupplierID    int64                 `json:"supplierId" binding:"required,min=1"`
	PaymentMethod string                `json:"paymentMethod" binding:"required,payment_method"`
	Items         []PurchaseItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ToDomain builds the document; id is zero on create.
func (r PurchaseRequest) ToDomain(id int64) *purchase.Purchase {
	p := &purchase.Purchase{
		Document:      r.header(id),
		SupplierID:    r.SupplierID,
		PaymentMethod: paymentMethod(r.PaymentMethod),
		Items:         make([]purchase.Item, len(r.Items)),
	}
	for i, it := range r.Items {
		p.Items[i] = purchase.Item{ProductID: it.ProductID, Quantity: it.Quantity, PurchasePrice: it.PurchasePrice}
	}
	return p
}

// PurchaseReturnItemRequest is one purchase return line.
type PurchaseReturnItemRequest struct {
	ProductID           int64       `json:"productId" binding:"required,min=1"`
	Quantity            int64       `json:"quantity" binding:"required,min=1"`
	PurchaseReturnPrice types.Money `json:"purchaseReturnPrice"`
}

// PurchaseReturnRequest creates or replaces a purchase return.
type PurchaseReturnRequest struct {
	DocumentFields
	SupplierID    int64                       `json:"supplierId" binding:"required,min=1"`
	PaymentMethod string                      `json:"paymentMethod" binding:"required,payment_method"`
	PurchaseID    *int64                      `json:"purchaseId" binding:"omitempty,min=1"`
	Items         []PurchaseReturnItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ToDomain builds the document; id is zero on create.
func (r PurchaseReturnRequest) ToDomain(id int64) *purchase_return.PurchaseReturn {
	pr := &purchase_return.PurchaseReturn{
		Document:      r.header(id),
		SupplierID:    r.SupplierID,
		PaymentMethod: paymentMethod(r.PaymentMethod),
		PurchaseID:    r.PurchaseID,
		Items:         make([]purchase_return.Item, len(r.Items)),
	}
	for i, it := range r.Items {
		pr.Items[i] = purchase_return.Item{
			ProductID:           it.ProductID,
			Quantity:            it.Quantity,
			PurchaseReturnPrice: it.PurchaseReturnPrice,
		}
	}
	return pr
}

// --- Sales ---

// SaleItemRequest is one sale line.
type SaleItemRequest struct {
	ProductID int64       `json:"productId" binding:"required,min=1"`
	Quantity  int64       `json:"quantity" binding:"required,min=1"`
	Price     types.Money `json:"price"`
}

// SaleRequest creates or replaces a sale.
type SaleRequest struct {
	DocumentFields
	CustomerName  string            `json:"customerName" binding:"max=255"`
	PaymentMethod string            `json:"paymentMethod" binding:"required,payment_method"`
	Discount      types.Money       `json:"discount"`
	Items         []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ToDomain builds the document; id is zero on create.
func (r SaleRequest) ToDomain(id int64) *sale.Sale {
	s := &sale.Sale{
		Document:      r.header(id),
		CustomerName:  r.CustomerName,
		PaymentMethod: paymentMethod(r.PaymentMethod),
		Discount:      r.Discount,
		Items:         make([]sale.Item, len(r.Items)),
	}
	for i, it := range r.Items {
		s.Items[i] = sale.Item{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price}
	}
	return s
}

// CollectionRequest records cash received against a credit sale.
type CollectionRequest struct {
	DocumentFields
	SaleID int64       `json:"saleId" binding:"required,min=1"`
	Amount types.Money `json:"amount"`
}

// ToDomain builds the collection.
func (r CollectionRequest) ToDomain() *sale.Collection {
	return &sale.Collection{Document: r.header(0), SaleID: r.SaleID, Amount: r.Amount}
}

// SalesReturnItemRequest is one sales return line.
type SalesReturnItemRequest struct {
	ProductID   int64       `json:"productId" binding:"required,min=1"`
	Quantity    int64       `json:"quantity" binding:"required,min=1"`
	ReturnPrice types.Money `json:"returnPrice"`
}

// SalesReturnRequest creates or replaces a sales return.
type SalesReturnRequest struct {
	DocumentFields
	CustomerName  string                   `json:"customerName" binding:"max=255"`
	PaymentMethod string                   `json:"paymentMethod" binding:"required,payment_method"`
	SaleID        *int64                   `json:"saleId" binding:"omitempty,min=1"`
	Items         []SalesReturnItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ToDomain builds the document; id is zero on create.
func (r SalesReturnRequest) ToDomain(id int64) *sales_return.SalesReturn {
	sr := &sales_return.SalesReturn{
		Document:      r.header(id),
		CustomerName:  r.CustomerName,
		PaymentMethod: paymentMethod(r.PaymentMethod),
		SaleID:        r.SaleID,
		Items:         make([]sales_return.Item, len(r.Items)),
	}
	for i, it := range r.Items {
		sr.Items[i] = sales_return.Item{ProductID: it.ProductID, Quantity: it.Quantity, ReturnPrice: it.ReturnPrice}
	}
	return sr
}

// --- Cash documents ---

// ExpenseRequest creates or replaces an expense.
type ExpenseRequest struct {
	DocumentFields
	LedgerAccountID int64       `json:"ledgerAccountId" binding:"required,min=1"`
	Amount          types.Money `json:"amount"`
}

// ToDomain builds the document; id is zero on create.
func (r ExpenseRequest) ToDomain(id int64) *expense.Expense {
	return &expense.Expense{Document: r.header(id), LedgerAccountID: r.LedgerAccountID, Amount: r.Amount}
}

// SupplierPaymentRequest creates or replaces a supplier payment.
type SupplierPaymentRequest struct {
	DocumentFields
	SupplierID int64       `json:"supplierId" binding:"required,min=1"`
	Amount     types.Money `json:"amount"`
}

// ToDomain builds the document; id is zero on create.
func (r SupplierPaymentRequest) ToDomain(id int64) *supplier_payment.Payment {
	return &supplier_payment.Payment{Document: r.header(id), SupplierID: r.SupplierID, Amount: r.Amount}
}

// --- Manual entries ---

// EntryLineRequest is one leg of a manual entry.
type EntryLineRequest struct {
	LedgerAccountID int64       `json:"ledgerAccountId" binding:"required,min=1"`
	Type            string      `json:"type" binding:"required,oneof=Debit Credit"`
	Amount          types.Money `json:"amount"`
	Description     string      `json:"description" binding:"max=500"`
}

// ManualEntryRequest creates or replaces a manual journal entry.
type ManualEntryRequest struct {
	DocumentFields
	Lines []EntryLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ToDomain builds the document; id is zero on create.
func (r ManualEntryRequest) ToDomain(id int64) *manual_entry.ManualEntry {
	m := &manual_entry.ManualEntry{Document: r.header(id), Lines: make([]ledger.Line, len(r.Lines))}
	for i, l := range r.Lines {
		m.Lines[i] = ledger.Line{
			AccountID:   l.LedgerAccountID,
			Type:        ledger.EntryType(l.Type),
			Amount:      l.Amount,
			Description: l.Description,
		}
	}
	return m
}
