package purchase_return

import (
	"bookkeeper/internal/domain"
)

// Repository stores purchase returns and their items.
// List honours ListFilter.CounterpartyID as the supplier filter.
type Repository interface {
	domain.HeaderRepository[*PurchaseReturn]
	domain.ItemRepository[Item]
}
