package manual_entry

import (
	"bookkeeper/internal/domain"
)

// Repository stores manual entry headers.
type Repository interface {
	domain.HeaderRepository[*ManualEntry]
}
