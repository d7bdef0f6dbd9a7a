package sales_return

import (
	"bookkeeper/internal/domain"
)

// Repository stores sales returns and their items.
// List honours ListFilter.CounterpartyID as the sale filter.
type Repository interface {
	domain.HeaderRepository[*SalesReturn]
	domain.ItemRepository[Item]
}
