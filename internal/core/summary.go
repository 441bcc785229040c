package core

import "sort"

// Series categories, in the order rows are emitted within a month.
const (
	CategoryIncome  = "Income"
	CategoryExpense = "Expense"
)

// Summary holds the totals over whatever record sets were handed in,
// already filtered or not.
type Summary struct {
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
	Balance      float64 `json:"balance"`
}

// SeriesPoint is one row of the long-form monthly comparison table.
type SeriesPoint struct {
	MonthKey string  `json:"monthKey"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Totals sums both sides and computes the balance.
func Totals(ingresos []Income, egresos []Expense) Summary {
	var s Summary
	for _, in := range ingresos {
		s.TotalIncome += in.Importe
	}
	for _, e := range egresos {
		s.TotalExpense += e.Importe
	}
	s.Balance = s.TotalIncome - s.TotalExpense
	return s
}

// MonthlySeries groups both record kinds by the "YYYY-MM" key of their
// dates and emits two rows per month present on either side, Income row
// first, months ascending. A month missing one side gets a zero amount.
// Both kinds key on Fecha here; the expense Mes label is not consulted.
// Empty inputs produce an empty series.
func MonthlySeries(ingresos []Income, egresos []Expense) []SeriesPoint {
	incomeByMonth := map[string]float64{}
	expenseByMonth := map[string]float64{}
	for _, in := range ingresos {
		incomeByMonth[in.Fecha.MonthKey()] += in.Importe
	}
	for _, e := range egresos {
		expenseByMonth[e.Fecha.MonthKey()] += e.Importe
	}

	keys := make([]string, 0, len(incomeByMonth)+len(expenseByMonth))
	seen := map[string]struct{}{}
	for k := range incomeByMonth {
		keys = append(keys, k)
		seen[k] = struct{}{}
	}
	for k := range expenseByMonth {
		if _, ok := seen[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var series []SeriesPoint
	for _, k := range keys {
		series = append(series,
			SeriesPoint{MonthKey: k, Category: CategoryIncome, Amount: incomeByMonth[k]},
			SeriesPoint{MonthKey: k, Category: CategoryExpense, Amount: expenseByMonth[k]},
		)
	}
	return series
}
