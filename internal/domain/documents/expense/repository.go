package expense

import (
	"bookkeeper/internal/domain"
)

// Repository stores expenses.
// List honours ListFilter.CounterpartyID as the ledger account filter.
type Repository interface {
	domain.HeaderRepository[*Expense]
}
