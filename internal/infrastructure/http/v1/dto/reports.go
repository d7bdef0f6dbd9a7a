package dto

import (
	"time"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/domain/ledger"
	"bookkeeper/internal/domain/reports"
)

// PeriodQuery bounds period reports. Both ends are optional and inclusive.
type PeriodQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// ToPeriod parses the bounds.
func (q PeriodQuery) ToPeriod() (reports.Period, error) {
	from, err := ParseOptionalDate("from", q.From)
	if err != nil {
		return reports.Period{}, err
	}
	to, err := ParseOptionalDate("to", q.To)
	if err != nil {
		return reports.Period{}, err
	}
	return reports.Period{From: from, To: to}, nil
}

// AsOfQuery selects the date of point-in-time reports; empty means today.
type AsOfQuery struct {
	AsOf string `form:"asOf"`
}

// ToTime parses the date.
func (q AsOfQuery) ToTime() (*time.Time, error) {
	return ParseOptionalDate("asOf", q.AsOf)
}

// TransactionQuery filters the journal.
type TransactionQuery struct {
	From        string `form:"from"`
	To          string `form:"to"`
	Type        string `form:"type"`
	AccountID   *int64 `form:"accountId" binding:"omitempty,min=1"`
	ReferenceID string `form:"referenceId"`
	Limit       int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset      int    `form:"offset" binding:"omitempty,min=0"`
}

// ToFilter converts the query into a journal filter.
func (q TransactionQuery) ToFilter() (ledger.Filter, error) {
	from, err := ParseOptionalDate("from", q.From)
	if err != nil {
		return ledger.Filter{}, err
	}
	to, err := ParseOptionalDate("to", q.To)
	if err != nil {
		return ledger.Filter{}, err
	}
	f := ledger.Filter{
		DateFrom:    from,
		DateTo:      to,
		AccountID:   q.AccountID,
		ReferenceID: q.ReferenceID,
		Limit:       q.Limit,
		Offset:      q.Offset,
	}
	if q.Type != "" {
		t := ledger.TransactionType(q.Type)
		if !t.Valid() {
			return ledger.Filter{}, apperror.NewValidation("unknown transaction type").
				WithDetail("field", "type").
				WithDetail("value", q.Type)
		}
		f.Type = &t
	}
	return f, nil
}
