package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/core/types"
)

func validPosting(lines ...Line) Posting {
	return Posting{
		Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Type:        TypeManualEntry,
		ReferenceID: Reference(RefManualEntry, 1),
		Lines:       lines,
	}
}

func TestPosting_Validate(t *testing.T) {
	hundred := types.MustMoney("100")

	assert.NoError(t, validPosting(TwoLeg(1, 2, hundred, "sale")...).Validate())

	split := validPosting(
		Line{AccountID: 1, Type: Debit, Amount: hundred},
		Line{AccountID: 2, Type: Credit, Amount: types.MustMoney("60")},
		Line{AccountID: 3, Type: Credit, Amount: types.MustMoney("40")},
	)
	assert.NoError(t, split.Validate())

	tests := []struct {
		name string
		p    Posting
		code string
	}{
		{"single line", validPosting(Line{AccountID: 1, Type: Debit, Amount: hundred}), apperror.CodeValidation},
		{"debits only", validPosting(
			Line{AccountID: 1, Type: Debit, Amount: hundred},
			Line{AccountID: 2, Type: Debit, Amount: hundred},
		), apperror.CodeValidation},
		{"negative amount", validPosting(TwoLeg(1, 2, types.MustMoney("-5"), "")...), apperror.CodeValidation},
		{"missing account", validPosting(TwoLeg(0, 2, hundred, "")...), apperror.CodeValidation},
		{"unbalanced", validPosting(
			Line{AccountID: 1, Type: Debit, Amount: hundred},
			Line{AccountID: 2, Type: Credit, Amount: types.MustMoney("99.99")},
		), apperror.CodeUnbalancedEntry},
		{"unknown type", Posting{
			Date: time.Now(), Type: "Gift", ReferenceID: "X#1", Lines: TwoLeg(1, 2, hundred, ""),
		}, apperror.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			assert.True(t, apperror.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestReference(t *testing.T) {
	assert.Equal(t, "P#12", Reference(RefPurchase, 12))
	assert.Equal(t, "Exp#3", Reference(RefExpense, 3))
}
