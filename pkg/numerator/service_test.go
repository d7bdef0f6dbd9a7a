package numerator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSequencer struct {
	mu     sync.Mutex
	values map[string]int64
	err    error
}

func (m *mockSequencer) NextValue(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	if m.values == nil {
		m.values = make(map[string]int64)
	}
	m.values[key]++
	return m.values[key], nil
}

func TestGetNextNumber_Sequential(t *testing.T) {
	seq := &mockSequencer{}
	svc := New(seq)
	ctx := context.Background()
	period := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	num, err := svc.Next(ctx, "SAL", period)
	require.NoError(t, err)
	assert.Equal(t, "SAL-2024-00001", num)

	num, err = svc.Next(ctx, "SAL", period)
	require.NoError(t, err)
	assert.Equal(t, "SAL-2024-00002", num)

	// Other prefixes and years keep their own counters.
	num, err = svc.Next(ctx, "PUR", period)
	require.NoError(t, err)
	assert.Equal(t, "PUR-2024-00001", num)

	num, err = svc.Next(ctx, "SAL", period.AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, "SAL-2025-00001", num)

	assert.Equal(t, int64(2), seq.values["SAL_2024"])
}

func TestGetNextNumber_Formats(t *testing.T) {
	period := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	svc := New(&mockSequencer{})

	num, err := svc.GetNextNumber(context.Background(), Config{Prefix: "EXP", PadWidth: 3, ResetPeriod: "never"}, period)
	require.NoError(t, err)
	assert.Equal(t, "EXP-001", num)

	assert.Equal(t, "SRT_2024_02", buildKey(Config{Prefix: "SRT", ResetPeriod: "month"}, period))
}

func TestGetNextNumber_Errors(t *testing.T) {
	var nilSvc *Service
	_, err := nilSvc.Next(context.Background(), "SAL", time.Now())
	assert.Error(t, err)

	svc := New(&mockSequencer{err: errors.New("db down")})
	_, err = svc.Next(context.Background(), "SAL", time.Now())
	assert.ErrorContains(t, err, "db down")
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, int64(42), ParseNumber("SAL-2024-00042"))
	assert.Equal(t, int64(7), ParseNumber("EXP-007"))
	assert.Equal(t, int64(-1), ParseNumber("garbage"))
}
