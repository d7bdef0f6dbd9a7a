package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bookkeeper/internal/core/types"
)

func pos(stock int64, price string) Position {
	return Position{Stock: stock, Price: types.MustMoney(price)}
}

func assertPosition(t *testing.T, want, got Position) {
	t.Helper()
	assert.Equal(t, want.Stock, got.Stock, "stock")
	assert.True(t, want.Price.Equal(got.Price), "price: want %s, got %s", want.Price, got.Price)
}

func TestReceive(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
		qty  int64
		cost string
		want Position
	}{
		{"weighted average", pos(10, "100"), 5, "130", pos(15, "110")},
		{"empty stock takes cost", pos(0, "0"), 4, "25", pos(4, "25")},
		{"rounds half up", pos(1, "10"), 1, "11", pos(2, "11")},
		{"rounds down", pos(2, "10"), 1, "11", pos(3, "10")},
		{"negative stock result uses rounded cost", pos(-5, "0"), 2, "12.6", pos(-3, "13")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertPosition(t, tt.want, Receive(tt.pos, tt.qty, types.MustMoney(tt.cost)))
		})
	}
}

func TestUnreceive(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
		qty  int64
		cost string
		want Position
	}{
		{"inverse of receive", pos(15, "110"), 5, "130", pos(10, "100")},
		{"nothing left resets price", pos(5, "40"), 5, "40", pos(0, "0")},
		{"oversold goes negative with zero price", pos(3, "40"), 5, "40", pos(-2, "0")},
		{"rounds remaining cost", pos(3, "10"), 1, "11", pos(2, "10")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertPosition(t, tt.want, Unreceive(tt.pos, tt.qty, types.MustMoney(tt.cost)))
		})
	}
}

func TestIssueAndRestock(t *testing.T) {
	next, ok := Issue(pos(10, "50"), 3)
	assert.True(t, ok)
	assertPosition(t, pos(7, "50"), next)

	same, ok := Issue(pos(2, "50"), 3)
	assert.False(t, ok)
	assertPosition(t, pos(2, "50"), same)

	assertPosition(t, pos(10, "50"), Restock(next, 3))
}
