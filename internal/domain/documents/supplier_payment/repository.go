package supplier_payment

import (
	"bookkeeper/internal/domain"
)

// Repository stores supplier payments.
// List honours ListFilter.CounterpartyID as the supplier filter.
type Repository interface {
	domain.HeaderRepository[*Payment]
}
