package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxInstallments bounds how many rows a single amount can be split into.
const MaxInstallments = 360

type Installment struct {
	Number  int
	Total   int
	Amount  decimal.Decimal
	DueDate time.Time
}

// Split divides total into n monthly installments due on firstDue's day of month.
// Each installment is total/n truncated to cents and the last one absorbs the
// remainder, so the amounts always add up to the rounded total. n is clamped to
// [1, MaxInstallments].
func Split(total decimal.Decimal, firstDue time.Time, n int) []Installment {
	if n < 1 {
		n = 1
	}
	if n > MaxInstallments {
		n = MaxInstallments
	}
	total = total.Round(2)
	count := decimal.NewFromInt(int64(n))
	base := total.Div(count).Truncate(2)
	last := total.Sub(base.Mul(decimal.NewFromInt(int64(n - 1))))

	result := make([]Installment, 0, n)
	for i := 0; i < n; i++ {
		amount := base
		if i == n-1 {
			amount = last
		}
		result = append(result, Installment{
			Number:  i + 1,
			Total:   n,
			Amount:  amount,
			DueDate: AddMonthsClamped(firstDue, i),
		})
	}
	return result
}

// AddMonthsClamped moves t by months keeping the day of month, clamped to the
// last day of the target month (Jan 31 + 1 month = Feb 28/29).
func AddMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()
	first := time.Date(year, month+time.Month(months), 1, hour, minute, sec, t.Nanosecond(), t.Location())
	if last := DaysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, hour, minute, sec, t.Nanosecond(), t.Location())
}

func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
