package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseReference(t *testing.T) {
	tests := []struct {
		ref    string
		prefix string
		id     int64
		ok     bool
	}{
		{Reference(RefManualEntry, 42), RefManualEntry, 42, true},
		{"S#7", RefSale, 7, true},
		{"SR#7", RefSale, 0, false},
		{"S#7", RefSalesReturn, 0, false},
		{"ME#", RefManualEntry, 0, false},
		{"ME#0", RefManualEntry, 0, false},
		{"ME#x1", RefManualEntry, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.ref+"/"+tt.prefix, func(t *testing.T) {
			id, ok := ParseReference(tt.ref, tt.prefix)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestTransactionType_Valid(t *testing.T) {
	for _, tt := range TransactionTypes {
		assert.True(t, tt.Valid(), tt)
	}
	assert.False(t, TransactionType("Barter").Valid())
}
