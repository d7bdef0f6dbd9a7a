// Package memory is an in-process storage backend implementing every
// repository interface. A single mutex serialises transactions; a failed
// transaction restores the snapshot taken when it began. It backs the test
// suites and STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"sync"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/core/entity"
	"bookkeeper/internal/core/idempotency"
	"bookkeeper/internal/core/tx"
	"bookkeeper/internal/domain/accounts"
	"bookkeeper/internal/domain/catalogs/category"
	"bookkeeper/internal/domain/catalogs/product"
	"bookkeeper/internal/domain/catalogs/supplier"
	"bookkeeper/internal/domain/documents/expense"
	"bookkeeper/internal/domain/documents/manual_entry"
	"bookkeeper/internal/domain/documents/purchase"
	"bookkeeper/internal/domain/documents/purchase_return"
	"bookkeeper/internal/domain/documents/sale"
	"bookkeeper/internal/domain/documents/sales_return"
	"bookkeeper/internal/domain/documents/supplier_payment"
	"bookkeeper/internal/domain/ledger"
)

// Store holds all data of one in-memory database.
type Store struct {
	mu sync.Mutex
	st *state
}

// New creates an empty store.
func New() *Store {
	return &Store{st: newState()}
}

type state struct {
	categories *table[category.Category, *category.Category]
	products   *table[product.Product, *product.Product]
	suppliers  *table[supplier.Supplier, *supplier.Supplier]
	groups     *table[accounts.Group, *accounts.Group]
	accounts   *table[accounts.Account, *accounts.Account]

	transactions *table[ledger.Transaction, *ledger.Transaction]
	entries      *lines[ledger.JournalEntry]

	purchases           *table[purchase.Purchase, *purchase.Purchase]
	purchaseItems       *lines[purchase.Item]
	purchaseReturns     *table[purchase_return.PurchaseReturn, *purchase_return.PurchaseReturn]
	purchaseReturnItems *lines[purchase_return.Item]
	sales               *table[sale.Sale, *sale.Sale]
	saleItems           *lines[sale.Item]
	collections         *table[sale.Collection, *sale.Collection]
	salesReturns        *table[sales_return.SalesReturn, *sales_return.SalesReturn]
	salesReturnItems    *lines[sales_return.Item]
	expenses            *table[expense.Expense, *expense.Expense]
	manualEntries       *table[manual_entry.ManualEntry, *manual_entry.ManualEntry]
	supplierPayments    *table[supplier_payment.Payment, *supplier_payment.Payment]

	sequences   map[string]int64
	idempotency map[string]idempotency.Record
}

func newState() *state {
	return &state{
		categories: newTable[category.Category](),
		products:   newTable[product.Product](),
		suppliers:  newTable[supplier.Supplier](),
		groups:     newTable[accounts.Group](),
		accounts:   newTable[accounts.Account](),

		transactions: newTable[ledger.Transaction](),
		entries: newLines(
			func(e *ledger.JournalEntry, id int64) { e.ID = id },
			func(e *ledger.JournalEntry, owner int64) { e.TransactionID = owner },
		),

		purchases: newTable[purchase.Purchase](),
		purchaseItems: newLines(
			func(it *purchase.Item, id int64) { it.ID = id },
			func(it *purchase.Item, owner int64) { it.PurchaseID = owner },
		),
		purchaseReturns: newTable[purchase_return.PurchaseReturn](),
		purchaseReturnItems: newLines(
			func(it *purchase_return.Item, id int64) { it.ID = id },
			func(it *purchase_return.Item, owner int64) { it.PurchaseReturnID = owner },
		),
		sales: newTable[sale.Sale](),
		saleItems: newLines(
			func(it *sale.Item, id int64) { it.ID = id },
			func(it *sale.Item, owner int64) { it.SaleID = owner },
		),
		collections:  newTable[sale.Collection](),
		salesReturns: newTable[sales_return.SalesReturn](),
		salesReturnItems: newLines(
			func(it *sales_return.Item, id int64) { it.ID = id },
			func(it *sales_return.Item, owner int64) { it.SalesReturnID = owner },
		),
		expenses:         newTable[expense.Expense](),
		manualEntries:    newTable[manual_entry.ManualEntry](),
		supplierPayments: newTable[supplier_payment.Payment](),

		sequences:   make(map[string]int64),
		idempotency: make(map[string]idempotency.Record),
	}
}

func (s *state) clone() *state {
	c := *s
	c.categories = s.categories.clone()
	c.products = s.products.clone()
	c.suppliers = s.suppliers.clone()
	c.groups = s.groups.clone()
	c.accounts = s.accounts.clone()
	c.transactions = s.transactions.clone()
	c.entries = s.entries.clone()
	c.purchases = s.purchases.clone()
	c.purchaseItems = s.purchaseItems.clone()
	c.purchaseReturns = s.purchaseReturns.clone()
	c.purchaseReturnItems = s.purchaseReturnItems.clone()
	c.sales = s.sales.clone()
	c.saleItems = s.saleItems.clone()
	c.collections = s.collections.clone()
	c.salesReturns = s.salesReturns.clone()
	c.salesReturnItems = s.salesReturnItems.clone()
	c.expenses = s.expenses.clone()
	c.manualEntries = s.manualEntries.clone()
	c.supplierPayments = s.supplierPayments.clone()

	c.sequences = make(map[string]int64, len(s.sequences))
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	c.idempotency = make(map[string]idempotency.Record, len(s.idempotency))
	for k, v := range s.idempotency {
		c.idempotency[k] = v
	}
	return &c
}

// RunInTransaction implements tx.Manager. Nested calls join the outer transaction.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx.InTransaction(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(tx.MarkActive(ctx)); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// do runs fn against the current state, taking the lock unless ctx is inside
// a transaction that already holds it.
func (s *Store) do(ctx context.Context, fn func(st *state) error) error {
	if tx.InTransaction(ctx) {
		return fn(s.st)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// --- tables ---

type row[T any] interface {
	*T
	entity.Identifiable
}

// table keeps rows by ID. Values are copied on the way in and out so callers
// never alias stored data.
type table[T any, P row[T]] struct {
	rows   map[int64]T
	nextID int64
}

func newTable[T any, P row[T]]() *table[T, P] {
	return &table[T, P]{rows: make(map[int64]T)}
}

func (t *table[T, P]) clone() *table[T, P] {
	c := &table[T, P]{rows: make(map[int64]T, len(t.rows)), nextID: t.nextID}
	for k, v := range t.rows {
		c.rows[k] = v
	}
	return c
}

func (t *table[T, P]) insert(p P) {
	t.nextID++
	p.SetID(t.nextID)
	t.rows[t.nextID] = *p
}

func (t *table[T, P]) get(id int64) (P, bool) {
	v, ok := t.rows[id]
	if !ok {
		return nil, false
	}
	return P(&v), true
}

func (t *table[T, P]) update(p P) bool {
	if _, ok := t.rows[p.GetID()]; !ok {
		return false
	}
	t.rows[p.GetID()] = *p
	return true
}

func (t *table[T, P]) remove(id int64) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// all returns copies of the rows matching keep, ordered by ID.
func (t *table[T, P]) all(keep func(P) bool) []P {
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]P, 0, len(ids))
	for _, id := range ids {
		v := t.rows[id]
		p := P(&v)
		if keep == nil || keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (t *table[T, P]) exists(match func(P) bool) bool {
	for _, v := range t.rows {
		if match(P(&v)) {
			return true
		}
	}
	return false
}

// lines keeps child rows grouped by owner ID.
type lines[I any] struct {
	byOwner  map[int64][]I
	nextID   int64
	setID    func(*I, int64)
	setOwner func(*I, int64)
}

func newLines[I any](setID, setOwner func(*I, int64)) *lines[I] {
	return &lines[I]{byOwner: make(map[int64][]I), setID: setID, setOwner: setOwner}
}

func (l *lines[I]) clone() *lines[I] {
	c := *l
	c.byOwner = make(map[int64][]I, len(l.byOwner))
	for k, v := range l.byOwner {
		c.byOwner[k] = append([]I(nil), v...)
	}
	return &c
}

// replace stores items for owner, assigning IDs and owner in place.
func (l *lines[I]) replace(owner int64, items []I) {
	for i := range items {
		l.nextID++
		l.setID(&items[i], l.nextID)
		l.setOwner(&items[i], owner)
	}
	if len(items) == 0 {
		delete(l.byOwner, owner)
		return
	}
	l.byOwner[owner] = append([]I(nil), items...)
}

// add appends one item for owner, assigning its ID and owner in place.
func (l *lines[I]) add(owner int64, item *I) {
	l.nextID++
	l.setID(item, l.nextID)
	l.setOwner(item, owner)
	l.byOwner[owner] = append(l.byOwner[owner], *item)
}

func (l *lines[I]) list(owners []int64) []I {
	var out []I
	for _, owner := range owners {
		out = append(out, l.byOwner[owner]...)
	}
	return out
}

func (l *lines[I]) remove(owner int64) {
	delete(l.byOwner, owner)
}

func (l *lines[I]) exists(match func(I) bool) bool {
	for _, items := range l.byOwner {
		for _, it := range items {
			if match(it) {
				return true
			}
		}
	}
	return false
}

func notFound(entity string, id any) error {
	return apperror.NewNotFound(entity, id)
}
