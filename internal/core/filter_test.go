package core

import (
	"reflect"
	"testing"
)

func sampleIncomes() []Income {
	return []Income{
		{Nombre: "Ana", Fecha: NewDate(2024, 1, 10), Metodo: MetodoYape, Importe: 100},
		{Nombre: "Carlos", Fecha: NewDate(2024, 1, 20), Metodo: MetodoPlin, Importe: 50},
		{Nombre: "Ana", Fecha: NewDate(2024, 2, 5), Metodo: MetodoEfectivo, Importe: 75},
	}
}

func sampleExpenses() []Expense {
	return []Expense{
		{Fecha: NewDate(2024, 1, 11), Descripcion: "Mercado", Metodo: PagoEfectivo, Mes: "Enero", Importe: 40},
		// The stored label disagrees with the date on purpose; the label wins.
		{Fecha: NewDate(2024, 1, 25), Descripcion: "Luz", Metodo: PagoTarjeta, Mes: "Febrero", Importe: 30},
		{Fecha: NewDate(2024, 3, 2), Descripcion: "Bus", Metodo: PagoEfectivo, Mes: "Marzo", Importe: 2.5},
	}
}

func TestFilterIncomesByMonth(t *testing.T) {
	items := sampleIncomes()

	got := FilterIncomesByMonth(items, "01")
	if len(got) != 2 {
		t.Fatalf("month 01: got %d incomes, want 2", len(got))
	}
	for _, in := range got {
		if in.Fecha.MonthToken() != "01" {
			t.Fatalf("filter leaked record with month %s", in.Fecha.MonthToken())
		}
	}

	// Filtering twice gives the same result.
	again := FilterIncomesByMonth(got, "01")
	if !reflect.DeepEqual(got, again) {
		t.Fatalf("filter is not idempotent: %v vs %v", got, again)
	}

	if got := FilterIncomesByMonth(items, "12"); len(got) != 0 {
		t.Fatalf("month 12: got %d incomes, want 0", len(got))
	}
}

func TestFilterIncomesByMonthTodos(t *testing.T) {
	items := sampleIncomes()
	got := FilterIncomesByMonth(items, FilterAll)
	if !reflect.DeepEqual(got, items) {
		t.Fatalf("Todos should return everything in order: %v", got)
	}

	// The returned slice is a copy; mutating it must not touch the input.
	got[0].Nombre = "changed"
	if items[0].Nombre != "Ana" {
		t.Fatal("filter returned a view over the input slice")
	}
}

func TestFilterIncomesByName(t *testing.T) {
	items := sampleIncomes()

	got := FilterIncomesByName(items, "Ana")
	if len(got) != 2 {
		t.Fatalf("got %d incomes for Ana, want 2", len(got))
	}

	if got := FilterIncomesByName(items, "Nadie"); len(got) != 0 {
		t.Fatalf("unknown name matched %d records", len(got))
	}

	all := FilterIncomesByName(items, FilterAll)
	if len(all) != len(items) {
		t.Fatalf("Todos returned %d records, want %d", len(all), len(items))
	}
}

func TestFilterExpensesByMonthUsesStoredLabel(t *testing.T) {
	items := sampleExpenses()

	// "Febrero" matches by label even though its fecha is in January.
	got := FilterExpensesByMonth(items, "Febrero")
	if len(got) != 1 || got[0].Descripcion != "Luz" {
		t.Fatalf("Febrero filter = %v, want the Luz record", got)
	}

	// "Enero" must not pick up the January-dated record labeled Febrero.
	got = FilterExpensesByMonth(items, "Enero")
	if len(got) != 1 || got[0].Descripcion != "Mercado" {
		t.Fatalf("Enero filter = %v, want only the Mercado record", got)
	}

	all := FilterExpensesByMonth(items, FilterAll)
	if !reflect.DeepEqual(all, items) {
		t.Fatalf("Todos should return everything: %v", all)
	}
}

func TestFilterExpensesByMonthToken(t *testing.T) {
	items := sampleExpenses()
	items = append(items, Expense{
		Fecha: NewDate(2024, 2, 1), Descripcion: "Raro", Metodo: PagoOtro, Mes: "NoEsMes", Importe: 1,
	})

	got := FilterExpensesByMonthToken(items, "02")
	if len(got) != 1 || got[0].Descripcion != "Luz" {
		t.Fatalf("token 02 = %v, want the Luz record", got)
	}

	// Records whose label cannot canonicalize never match any token.
	for _, token := range []string{"01", "02", "03"} {
		for _, e := range FilterExpensesByMonthToken(items, token) {
			if e.Descripcion == "Raro" {
				t.Fatalf("uncanonicalizable label matched token %s", token)
			}
		}
	}
}

func TestMonthTokens(t *testing.T) {
	l := NewLedger()
	l.Ingresos = sampleIncomes()
	l.Egresos = sampleExpenses()

	got := MonthTokens(l)
	want := []string{"01", "02", "03"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MonthTokens() = %v, want %v", got, want)
	}
}

func TestIncomeNames(t *testing.T) {
	got := IncomeNames(sampleIncomes())
	want := []string{"Ana", "Carlos"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("IncomeNames() = %v, want %v", got, want)
	}
}

func TestExpenseMonthNames(t *testing.T) {
	got := ExpenseMonthNames(sampleExpenses())
	want := []string{"Enero", "Febrero", "Marzo"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExpenseMonthNames() = %v, want %v", got, want)
	}
}
