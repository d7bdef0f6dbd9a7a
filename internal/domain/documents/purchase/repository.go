package purchase

import (
	"bookkeeper/internal/domain"
)

// Repository stores purchases and their items.
// List honours ListFilter.CounterpartyID as the supplier filter.
type Repository interface {
	domain.HeaderRepository[*Purchase]
	domain.ItemRepository[Item]
}
