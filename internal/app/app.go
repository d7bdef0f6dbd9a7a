// Package app assembles repositories, services and the posting engine for
// the configured storage driver.
package app

import (
	"context"
	"fmt"

	"bookkeeper/internal/config"
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
	"bookkeeper/internal/domain/inventory"
	"bookkeeper/internal/domain/ledger"
	"bookkeeper/internal/domain/posting"
	"bookkeeper/internal/domain/reports"
	"bookkeeper/internal/infrastructure/storage/memory"
	"bookkeeper/internal/infrastructure/storage/postgres"
	"bookkeeper/internal/infrastructure/storage/postgres/catalog_repo"
	"bookkeeper/internal/infrastructure/storage/postgres/document_repo"
	"bookkeeper/internal/infrastructure/storage/postgres/ledger_repo"
	"bookkeeper/internal/infrastructure/storage/postgres/report_repo"
	"bookkeeper/pkg/logger"
	"bookkeeper/pkg/numerator"
)

// ProductStore is the product repository together with the inventory
// position it carries.
type ProductStore interface {
	product.Repository
	inventory.Store
}

// Pinger reports storage health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Repositories is one storage backend.
type Repositories struct {
	TxManager tx.Manager
	Health    Pinger

	Categories category.Repository
	Products   ProductStore
	Suppliers  supplier.Repository
	Groups     accounts.GroupRepository
	Accounts   accounts.AccountRepository

	Ledger ledger.Repository

	Purchases        purchase.Repository
	PurchaseReturns  purchase_return.Repository
	Sales            sale.Repository
	Collections      sale.CollectionRepository
	SalesReturns     sales_return.Repository
	Expenses         expense.Repository
	ManualEntries    manual_entry.Repository
	SupplierPayments supplier_payment.Repository

	Reports     reports.Repository
	Sequences   numerator.Sequencer
	Idempotency idempotency.Store

	close func()
}

// MemoryRepositories builds a fresh in-memory backend.
func MemoryRepositories(cfg *config.Config) *Repositories {
	s := memory.New()
	return &Repositories{
		TxManager:        s,
		Health:           s,
		Categories:       s.Categories(),
		Products:         s.Products(),
		Suppliers:        s.Suppliers(),
		Groups:           s.Groups(),
		Accounts:         s.Accounts(),
		Ledger:           s.Ledger(),
		Purchases:        s.Purchases(),
		PurchaseReturns:  s.PurchaseReturns(),
		Sales:            s.Sales(),
		Collections:      s.Collections(),
		SalesReturns:     s.SalesReturns(),
		Expenses:         s.Expenses(),
		ManualEntries:    s.ManualEntries(),
		SupplierPayments: s.SupplierPayments(),
		Reports:          s.Reports(),
		Sequences:        s.Sequences(),
		Idempotency:      s.Idempotency(cfg.IdempotencyTTL),
		close:            func() {},
	}
}

// PostgresRepositories connects to DATABASE_URL, applies migrations when
// AUTO_MIGRATE is set and builds the PostgreSQL backend.
func PostgresRepositories(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = cfg.DBMaxConns
	poolCfg.MinConns = cfg.DBMinConns

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}

	txm := postgres.NewTxManager(pool)
	return &Repositories{
		TxManager:        txm,
		Health:           txm,
		Categories:       catalog_repo.NewCategoryRepo(txm),
		Products:         catalog_repo.NewProductRepo(txm),
		Suppliers:        catalog_repo.NewSupplierRepo(txm),
		Groups:           catalog_repo.NewGroupRepo(txm),
		Accounts:         catalog_repo.NewAccountRepo(txm),
		Ledger:           ledger_repo.NewLedgerRepo(txm),
		Purchases:        document_repo.NewPurchaseRepo(txm),
		PurchaseReturns:  document_repo.NewPurchaseReturnRepo(txm),
		Sales:            document_repo.NewSaleRepo(txm),
		Collections:      document_repo.NewCollectionRepo(txm),
		SalesReturns:     document_repo.NewSalesReturnRepo(txm),
		Expenses:         document_repo.NewExpenseRepo(txm),
		ManualEntries:    document_repo.NewManualEntryRepo(txm),
		SupplierPayments: document_repo.NewSupplierPaymentRepo(txm),
		Reports:          report_repo.NewReportRepo(txm),
		Sequences:        postgres.NewSequenceRepo(txm),
		Idempotency:      postgres.NewIdempotencyStore(txm, cfg.IdempotencyTTL),
		close:            pool.Close,
	}, nil
}

// OpenRepositories builds the backend named by cfg.StorageDriver.
func OpenRepositories(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return MemoryRepositories(cfg), nil
	case config.DriverPostgres:
		return PostgresRepositories(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// Close releases the backend's connections.
func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// App holds every service the transports expose.
type App struct {
	Repos *Repositories
	Roles accounts.Roles

	Categories    *category.Service
	Products      *product.Service
	Suppliers     *supplier.Service
	AccountGroups *accounts.GroupService
	Accounts      *accounts.AccountService

	Engine           *posting.Engine
	Purchases        *purchase.Service
	PurchaseReturns  *purchase_return.Service
	Sales            *sale.Service
	SalesReturns     *sales_return.Service
	Expenses         *expense.Service
	ManualEntries    *manual_entry.Service
	SupplierPayments *supplier_payment.Service

	Reports *reports.Service
}

// New opens storage and assembles the application.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	repos, err := OpenRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a, err := Build(ctx, cfg, repos)
	if err != nil {
		repos.Close()
		return nil, err
	}
	return a, nil
}

// Build assembles the application over an open backend. The default chart is
// installed into an empty chart when BOOTSTRAP_CHART is set or storage is in
// memory; posting roles are then resolved and must be complete.
func Build(ctx context.Context, cfg *config.Config, repos *Repositories) (*App, error) {
	a := &App{Repos: repos}
	txm := repos.TxManager

	a.Categories = category.NewService(repos.Categories, txm)
	a.Products = product.NewService(repos.Products, repos.Categories, txm)
	a.Suppliers = supplier.NewService(repos.Suppliers, txm)
	a.AccountGroups = accounts.NewGroupService(repos.Groups, txm)
	a.Accounts = accounts.NewAccountService(repos.Accounts, repos.Groups, txm)

	if cfg.BootstrapChart || cfg.StorageDriver == config.DriverMemory {
		installed, err := accounts.InstallDefaultChart(ctx, a.AccountGroups, a.Accounts)
		if err != nil {
			return nil, fmt.Errorf("install default chart: %w", err)
		}
		if installed {
			logger.Info(ctx, "default chart of accounts installed")
		}
	}

	overrides, err := cfg.RoleOverrides()
	if err != nil {
		return nil, err
	}
	roles, err := accounts.ResolveRoles(ctx, repos.Accounts, overrides)
	if err != nil {
		return nil, fmt.Errorf("resolve account roles: %w", err)
	}
	a.Roles = roles

	a.Engine = posting.NewEngine(posting.Config{
		TxManager:   txm,
		Inventory:   inventory.NewLedger(repos.Products),
		Recorder:    ledger.NewRecorder(repos.Ledger),
		Roles:       roles,
		Payables:    repos.Suppliers,
		Receivables: repos.Sales,
		Numbers:     numerator.New(repos.Sequences),
	})

	a.Purchases = purchase.NewService(repos.Purchases, repos.Suppliers, a.Engine)
	a.PurchaseReturns = purchase_return.NewService(repos.PurchaseReturns, repos.Suppliers, repos.Purchases, a.Engine)
	a.Sales = sale.NewService(repos.Sales, repos.Collections, a.Engine)
	a.SalesReturns = sales_return.NewService(repos.SalesReturns, repos.Sales, a.Engine)
	a.Expenses = expense.NewService(repos.Expenses, a.Accounts, a.Engine)
	a.ManualEntries = manual_entry.NewService(repos.ManualEntries, repos.Accounts, a.Engine)
	a.SupplierPayments = supplier_payment.NewService(repos.SupplierPayments, repos.Suppliers, a.Engine)

	a.Reports = reports.NewService(repos.Reports, roles)

	logger.Info(ctx, "application assembled",
		"storage", cfg.StorageDriver,
		"roles", len(roles),
	)
	return a, nil
}

// Close releases storage.
func (a *App) Close() {
	a.Repos.Close()
}
