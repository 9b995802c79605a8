package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSplitSumsToTotal(t *testing.T) {
	totals := []string{"100.00", "1000.00", "0.01", "999.99", "1200", "33.33", "0"}
	for _, raw := range totals {
		total := decimal.RequireFromString(raw)
		for n := 1; n <= 12; n++ {
			parts := Split(total, date(2026, 1, 10), n)
			require.Len(t, parts, n)

			sum := decimal.Zero
			for i, p := range parts {
				assert.Equal(t, i+1, p.Number)
				assert.Equal(t, n, p.Total)
				sum = sum.Add(p.Amount)
			}
			assert.True(t, sum.Equal(total.Round(2)), "total %s n %d sum %s", raw, n, sum)
		}
	}
}

func TestSplitRemainderGoesToLast(t *testing.T) {
	parts := Split(decimal.RequireFromString("100"), date(2026, 3, 5), 3)
	assert.Equal(t, "33.33", parts[0].Amount.StringFixed(2))
	assert.Equal(t, "33.33", parts[1].Amount.StringFixed(2))
	assert.Equal(t, "33.34", parts[2].Amount.StringFixed(2))
}

func TestSplitSingleInstallment(t *testing.T) {
	first := date(2026, 6, 15)
	parts := Split(decimal.RequireFromString("250.50"), first, 1)
	require.Len(t, parts, 1)
	assert.Equal(t, "250.50", parts[0].Amount.StringFixed(2))
	assert.True(t, parts[0].DueDate.Equal(first))
}

func TestSplitCoercesNonPositiveCount(t *testing.T) {
	assert.Len(t, Split(decimal.NewFromInt(10), date(2026, 1, 1), 0), 1)
	assert.Len(t, Split(decimal.NewFromInt(10), date(2026, 1, 1), -4), 1)
}

func TestSplitClampsToMaxInstallments(t *testing.T) {
	parts := Split(decimal.NewFromInt(1000), date(2026, 1, 1), MaxInstallments+1000)
	require.Len(t, parts, MaxInstallments)
	assert.Equal(t, MaxInstallments, parts[len(parts)-1].Total)
}

func TestSplitMonthlyDueDates(t *testing.T) {
	parts := Split(decimal.NewFromInt(300), date(2026, 11, 20), 3)
	assert.Equal(t, date(2026, 11, 20), parts[0].DueDate)
	assert.Equal(t, date(2026, 12, 20), parts[1].DueDate)
	assert.Equal(t, date(2027, 1, 20), parts[2].DueDate)
}

func TestAddMonthsClampedEndOfMonth(t *testing.T) {
	jan31 := date(2026, 1, 31)
	assert.Equal(t, date(2026, 2, 28), AddMonthsClamped(jan31, 1))
	assert.Equal(t, date(2026, 3, 31), AddMonthsClamped(jan31, 2))
	assert.Equal(t, date(2026, 4, 30), AddMonthsClamped(jan31, 3))
	assert.Equal(t, date(2028, 2, 29), AddMonthsClamped(date(2028, 1, 31), 1))
}
