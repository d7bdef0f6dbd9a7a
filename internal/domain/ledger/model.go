// Package ledger records business events as transactions with balanced
// double-entry journal entries.
package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"bookkeeper/internal/core/types"
)

// TransactionType classifies the business event behind a transaction.
type TransactionType string

const (
	TypeSale           TransactionType = "Sale"
	TypePurchase       TransactionType = "Purchase"
	TypeSalesReturn    TransactionType = "Sales Return"
	TypePurchaseReturn TransactionType = "Purchase Return"
	TypeExpense        TransactionType = "Expense"
	TypeManualEntry    TransactionType = "Manual Entry"
)

// TransactionTypes lists every known type.
var TransactionTypes = []TransactionType{
	TypeSale, TypePurchase, TypeSalesReturn, TypePurchaseReturn, TypeExpense, TypeManualEntry,
}

// Valid reports whether t is a known type.
func (t TransactionType) Valid() bool {
	for _, known := range TransactionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// EntryType is the side of a journal entry.
type EntryType string

const (
	Debit  EntryType = "Debit"
	Credit EntryType = "Credit"
)

// Reference prefixes link a transaction to the record that produced it.
const (
	RefPurchase        = "P#"
	RefPurchaseReturn  = "PR#"
	RefSale            = "S#"
	RefSalesReturn     = "SR#"
	RefExpense         = "Exp#"
	RefManualEntry     = "ME#"
	RefSupplierPayment = "SP#"
	RefCollection      = "RC#"
)

// Reference builds a reference ID such as "S#42".
func Reference(prefix string, id int64) string {
	return fmt.Sprintf("%s%d", prefix, id)
}

// ParseReference splits a reference ID built by Reference. ok is false when
// ref does not carry prefix followed by a positive ID.
func ParseReference(ref, prefix string) (id int64, ok bool) {
	rest, found := strings.CutPrefix(ref, prefix)
	if !found {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Transaction is the header of one business event.
type Transaction struct {
	ID          int64           `db:"id" json:"id"`
	Date        time.Time       `db:"date" json:"date"`
	Type        TransactionType `db:"type" json:"type"`
	ReferenceID string          `db:"reference_id" json:"referenceId"`
	TotalAmount types.Money     `db:"total_amount" json:"totalAmount"`
	Description string          `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`

	Entries []JournalEntry `db:"-" json:"entries,omitempty"`
}

// GetID implements entity.Identifiable.
func (t *Transaction) GetID() int64 { return t.ID }

// SetID implements entity.Identifiable.
func (t *Transaction) SetID(id int64) { t.ID = id }

// JournalEntry is one debit or credit line of a transaction.
type JournalEntry struct {
	ID              int64       `db:"id" json:"id"`
	TransactionID   int64       `db:"transaction_id" json:"transactionId"`
	LedgerAccountID int64       `db:"ledger_account_id" json:"ledgerAccountId"`
	Type            EntryType   `db:"type" json:"type"`
	Amount          types.Money `db:"amount" json:"amount"`
	Description     string      `db:"description" json:"description,omitempty"`
}

// Line is a journal line before it is recorded.
type Line struct {
	AccountID   int64       `json:"ledgerAccountId"`
	Type        EntryType   `json:"type"`
	Amount      types.Money `json:"amount"`
	Description string      `json:"description,omitempty"`
}

// Posting is everything needed to record one transaction.
type Posting struct {
	Date        time.Time
	Type        TransactionType
	ReferenceID string
	Description string
	Lines       []Line
}

// TwoLeg builds the standard debit/credit pair of equal amounts.
func TwoLeg(debitAccount, creditAccount int64, amount types.Money, description string) []Line {
	return []Line{
		{AccountID: debitAccount, Type: Debit, Amount: amount, Description: description},
		{AccountID: creditAccount, Type: Credit, Amount: amount, Description: description},
	}
}

// Totals sums debit and credit amounts of lines.
func Totals(lines []Line) (debit, credit types.Money) {
	debit, credit = types.Zero(), types.Zero()
	for _, l := range lines {
		switch l.Type {
		case Debit:
			debit = debit.Add(l.Amount)
		case Credit:
			credit = credit.Add(l.Amount)
		}
	}
	return debit, credit
}
