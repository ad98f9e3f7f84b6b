package quota

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"space-traveling/config"
)

func TestDailyLimit(t *testing.T) {
	l := NewSummaryQuotaLimiter(config.SummaryQuotaConfig{RequestsPerDay: 2})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.WaitAndReserve(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.WaitAndReserve(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, l.Remaining())
}

func TestDailyLimitResetsInProviderZone(t *testing.T) {
	// 07:59 UTC is 23:59 the previous day in Los Angeles
	now := time.Date(2026, 1, 10, 7, 59, 0, 0, time.UTC)
	l := NewSummaryQuotaLimiter(config.SummaryQuotaConfig{RequestsPerDay: 1})
	l.now = func() time.Time { return now }

	ok, _ := l.WaitAndReserve(context.Background())
	assert.True(t, ok)
	ok, _ = l.WaitAndReserve(context.Background())
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, l.Remaining())
	ok, _ = l.WaitAndReserve(context.Background())
	assert.True(t, ok)
}

func TestDailyLimitUsesConfiguredZone(t *testing.T) {
	now := time.Date(2026, 1, 10, 7, 59, 0, 0, time.UTC)
	l := NewSummaryQuotaLimiter(config.SummaryQuotaConfig{RequestsPerDay: 1, ResetTimezone: "UTC"})
	l.now = func() time.Time { return now }

	ok, _ := l.WaitAndReserve(context.Background())
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	ok, _ = l.WaitAndReserve(context.Background())
	assert.False(t, ok, "same UTC day")
}

func TestPerMinuteWaitRefundsOnCancel(t *testing.T) {
	l := NewSummaryQuotaLimiter(config.SummaryQuotaConfig{RequestsPerMinute: 1, RequestsPerDay: 5})
	ok, err := l.WaitAndReserve(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	ok, err = l.WaitAndReserve(ctx)
	assert.False(t, ok)
	assert.Error(t, err)
	assert.Equal(t, 4, l.Remaining(), "the cancelled call gives its slot back")
}

func TestUnlimited(t *testing.T) {
	l := NewSummaryQuotaLimiter(config.SummaryQuotaConfig{})
	for i := 0; i < 100; i++ {
		ok, err := l.WaitAndReserve(context.Background())
		require.NoError(t, err)
		require.True(t, ok)
	}
	assert.Equal(t, -1, l.Remaining())
}
