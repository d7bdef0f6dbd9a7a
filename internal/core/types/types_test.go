package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundUnit(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"110", "110"},
		{"109.5", "110"},
		{"109.49", "109"},
		{"-2.5", "-2"},
		{"-2.51", "-3"},
		{"0.5", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundUnit(MustMoney(tt.in)).String())
		})
	}
}

func TestLineTotal(t *testing.T) {
	assert.True(t, LineTotal(3, MustMoney("12.5")).Equal(MustMoney("37.5")))
	assert.True(t, Sum(MustMoney("1"), MustMoney("2.5")).Equal(MustMoney("3.5")))
}

func TestMoneyMarshalsAsNumber(t *testing.T) {
	b, err := json.Marshal(map[string]Money{"amount": MustMoney("100")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":100}`, string(b))
}

func TestDate_UnmarshalJSON(t *testing.T) {
	var v struct {
		Date Date `json:"date"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-01-01"}`), &v))
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), v.Date.Time)

	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-03-05T14:30:00Z"}`), &v))
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), v.Date.Time)

	assert.Error(t, json.Unmarshal([]byte(`{"date":"05/03/2024"}`), &v))

	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-03-05"}`, string(b))
}
