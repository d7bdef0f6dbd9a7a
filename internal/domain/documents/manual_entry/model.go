// Package manual_entry provides free-form journal entries: any number of
// balanced debit and credit lines against ledger accounts.
package manual_entry

import (
	"context"

	"bookkeeper/internal/core/entity"
	"bookkeeper/internal/core/types"
	"bookkeeper/internal/domain/accounts"
	"bookkeeper/internal/domain/ledger"
	"bookkeeper/internal/domain/posting"
)

// ManualEntry is a journal entry keyed in by hand. Its lines are stored only
// as the journal entries of its transaction.
type ManualEntry struct {
	entity.Document

	Lines []ledger.Line `db:"-" json:"lines"`

	TotalAmount types.Money `db:"-" json:"totalAmount"`
}

// Header implements posting.Postable.
func (m *ManualEntry) Header() *entity.Document { return &m.Document }

// Derive implements posting.Postable.
func (m *ManualEntry) Derive() {
	m.TotalAmount, _ = ledger.Totals(m.Lines)
}

// Validate implements entity.Validatable.
func (m *ManualEntry) Validate(ctx context.Context) error {
	if err := m.Document.Validate(ctx); err != nil {
		return err
	}
	p := m.posting()
	// reference is assigned after insert
	p.ReferenceID = ledger.RefManualEntry
	return p.Validate()
}

// Reference implements posting.Document.
func (m *ManualEntry) Reference() string {
	return ledger.Reference(ledger.RefManualEntry, m.ID)
}

// Movements implements posting.Document.
func (m *ManualEntry) Movements() []posting.Movement { return nil }

// Balances implements posting.Document.
func (m *ManualEntry) Balances() []posting.BalanceChange { return nil }

// Entry implements posting.Document.
func (m *ManualEntry) Entry(accounts.Roles) (ledger.Posting, error) {
	return m.posting(), nil
}

func (m *ManualEntry) posting() ledger.Posting {
	description := m.Description
	if description == "" {
		description = "Manual entry"
	}
	lines := make([]ledger.Line, len(m.Lines))
	for i, l := range m.Lines {
		if l.Description == "" {
			l.Description = description
		}
		lines[i] = l
	}
	return ledger.Posting{
		Date:        m.Date,
		Type:        ledger.TypeManualEntry,
		ReferenceID: m.Reference(),
		Description: description,
		Lines:       lines,
	}
}
