package core

import "sort"

// FilterAll is the sentinel selector meaning "no filter" on any dimension.
const FilterAll = "Todos"

// FilterIncomesByMonth keeps incomes whose date falls in the given calendar
// month, identified by its zero-padded number ("01".."12"). Pure: the input
// slice is never modified and a fresh slice is returned, order preserved.
func FilterIncomesByMonth(items []Income, monthToken string) []Income {
	if monthToken == FilterAll {
		return append([]Income(nil), items...)
	}
	var out []Income
	for _, in := range items {
		if in.Fecha.MonthToken() == monthToken {
			out = append(out, in)
		}
	}
	return out
}

// FilterIncomesByName keeps incomes with an exact actor name match.
func FilterIncomesByName(items []Income, name string) []Income {
	if name == FilterAll {
		return append([]Income(nil), items...)
	}
	var out []Income
	for _, in := range items {
		if in.Nombre == name {
			out = append(out, in)
		}
	}
	return out
}

// FilterExpensesByMonth keeps expenses whose stored Mes label equals the
// given Spanish month name. The label is compared as stored; the expense
// date plays no part here.
func FilterExpensesByMonth(items []Expense, monthName MonthName) []Expense {
	if string(monthName) == FilterAll {
		return append([]Expense(nil), items...)
	}
	var out []Expense
	for _, e := range items {
		if e.Mes == monthName {
			out = append(out, e)
		}
	}
	return out
}

// FilterExpensesByMonthToken keeps expenses whose stored Mes label
// canonicalizes to the given month number. This is the combined-view
// filter: it lets a caller apply one month selector across both record
// kinds without maintaining two vocabularies. Labels that fail to
// canonicalize never match.
func FilterExpensesByMonthToken(items []Expense, monthToken string) []Expense {
	if monthToken == FilterAll {
		return append([]Expense(nil), items...)
	}
	var out []Expense
	for _, e := range items {
		token, err := MonthNameToNumber(e.Mes)
		if err != nil {
			continue
		}
		if token == monthToken {
			out = append(out, e)
		}
	}
	return out
}

// MonthTokens returns the sorted distinct month numbers present in the
// ledger: income months derived from dates, expense months canonicalized
// from their stored labels.
func MonthTokens(l *Ledger) []string {
	seen := map[string]struct{}{}
	for _, in := range l.Ingresos {
		seen[in.Fecha.MonthToken()] = struct{}{}
	}
	for _, e := range l.Egresos {
		if token, err := MonthNameToNumber(e.Mes); err == nil {
			seen[token] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// IncomeNames returns the sorted distinct actor names among the incomes.
func IncomeNames(items []Income) []string {
	seen := map[string]struct{}{}
	for _, in := range items {
		seen[in.Nombre] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// ExpenseMonthNames returns the sorted distinct Mes labels among the
// expenses, as stored.
func ExpenseMonthNames(items []Expense) []string {
	seen := map[string]struct{}{}
	for _, e := range items {
		seen[string(e.Mes)] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
