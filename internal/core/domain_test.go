package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		want    string
	}{
		{name: "valid date", input: "2024-01-15", want: "2024-01-15"},
		{name: "trims whitespace", input: " 2024-06-30 ", want: "2024-06-30"},
		{name: "rejects slash format", input: "2024/01/15", wantErr: true},
		{name: "rejects nonsense", input: "not-a-date", wantErr: true},
		{name: "rejects empty", input: "", wantErr: true},
		{name: "rejects day overflow", input: "2024-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDate(%q) expected error, got %v", tt.input, d)
				}
				if !errors.Is(err, ErrInvalidDate) {
					t.Fatalf("ParseDate(%q) error = %v, want ErrInvalidDate", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if got := d.String(); got != tt.want {
				t.Fatalf("ParseDate(%q).String() = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDateMonthTokenAndKey(t *testing.T) {
	d := NewDate(2024, 3, 5)
	if got := d.MonthToken(); got != "03" {
		t.Fatalf("MonthToken() = %q, want %q", got, "03")
	}
	if got := d.MonthKey(); got != "2024-03" {
		t.Fatalf("MonthKey() = %q, want %q", got, "2024-03")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, 12, 1)
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `"2024-12-01"` {
		t.Fatalf("marshal = %s, want %q", raw, `"2024-12-01"`)
	}

	var back Date
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip changed the date: %v != %v", back, d)
	}
}

func TestMonthNameToNumber(t *testing.T) {
	tests := []struct {
		name    MonthName
		want    string
		wantErr bool
	}{
		{name: "Enero", want: "01"},
		{name: "Junio", want: "06"},
		{name: "Diciembre", want: "12"},
		{name: "enero", wantErr: true},
		{name: "January", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			got, err := MonthNameToNumber(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("MonthNameToNumber(%q) expected error, got %q", tt.name, got)
				}
				if !errors.Is(err, ErrInvalidMonth) {
					t.Fatalf("error = %v, want ErrInvalidMonth", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("MonthNameToNumber(%q) unexpected error: %v", tt.name, err)
			}
			if got != tt.want {
				t.Fatalf("MonthNameToNumber(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestMonthNames(t *testing.T) {
	names := MonthNames()
	if len(names) != 12 {
		t.Fatalf("MonthNames() returned %d names, want 12", len(names))
	}
	if names[0] != "Enero" || names[11] != "Diciembre" {
		t.Fatalf("unexpected order: first=%q last=%q", names[0], names[11])
	}
}

func TestIncomeValidate(t *testing.T) {
	valid := Income{
		Nombre:  "Carlos",
		Fecha:   NewDate(2024, 1, 10),
		Metodo:  MetodoYape,
		Importe: 1500,
	}

	tests := []struct {
		name    string
		mutate  func(in *Income)
		wantErr error
	}{
		{name: "valid", mutate: func(in *Income) {}},
		{name: "zero amount allowed", mutate: func(in *Income) { in.Importe = 0 }},
		{name: "empty name", mutate: func(in *Income) { in.Nombre = "  " }, wantErr: ErrEmptyName},
		{name: "zero date", mutate: func(in *Income) { in.Fecha = Date{} }, wantErr: ErrInvalidDate},
		{name: "unknown method", mutate: func(in *Income) { in.Metodo = "Cheque" }, wantErr: ErrInvalidMethod},
		{name: "negative amount", mutate: func(in *Income) { in.Importe = -1 }, wantErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := in.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpenseValidate(t *testing.T) {
	valid := Expense{
		Fecha:       NewDate(2024, 2, 14),
		Descripcion: "Mercado",
		Metodo:      PagoEfectivo,
		Mes:         "Febrero",
		Importe:     89.5,
	}

	tests := []struct {
		name    string
		mutate  func(e *Expense)
		wantErr error
	}{
		{name: "valid", mutate: func(e *Expense) {}},
		{name: "mes may disagree with fecha", mutate: func(e *Expense) { e.Mes = "Julio" }},
		{name: "empty description", mutate: func(e *Expense) { e.Descripcion = "" }, wantErr: ErrEmptyDescription},
		{name: "unknown method", mutate: func(e *Expense) { e.Metodo = "Bitcoin" }, wantErr: ErrInvalidMethod},
		{name: "bad month label", mutate: func(e *Expense) { e.Mes = "Smarch" }, wantErr: ErrInvalidMonth},
		{name: "negative amount", mutate: func(e *Expense) { e.Importe = -0.01 }, wantErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			err := e.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIncomeMatchesIgnoresID(t *testing.T) {
	a := Income{ID: "aaa", Nombre: "Ana", Fecha: NewDate(2024, 1, 1), Metodo: MetodoPlin, Importe: 10}
	b := Income{ID: "bbb", Nombre: "Ana", Fecha: NewDate(2024, 1, 1), Metodo: MetodoPlin, Importe: 10}
	if !a.Matches(b) {
		t.Fatal("records differing only in ID should match")
	}

	b.Importe = 10.01
	if a.Matches(b) {
		t.Fatal("records differing in amount must not match")
	}
}

func TestExpenseMatchesAllFields(t *testing.T) {
	base := Expense{Fecha: NewDate(2024, 3, 3), Descripcion: "Luz", Metodo: PagoTarjeta, Mes: "Marzo", Importe: 120}
	same := base
	same.ID = "other"
	if !base.Matches(same) {
		t.Fatal("identical values should match regardless of ID")
	}

	diff := base
	diff.Mes = "Abril"
	if base.Matches(diff) {
		t.Fatal("differing Mes label must not match")
	}
}

func TestLedgerJSONRoundTrip(t *testing.T) {
	l := NewLedger()
	l.Ingresos = append(l.Ingresos, Income{
		ID: "hidden", Nombre: "Ana", Fecha: NewDate(2024, 1, 5), Metodo: MetodoYape, Importe: 200,
	})
	l.Egresos = append(l.Egresos, Expense{
		Fecha: NewDate(2024, 1, 6), Descripcion: "Bus", Metodo: PagoEfectivo, Mes: "Enero", Importe: 2.5,
	})
	l.Usuarios = append(l.Usuarios, json.RawMessage(`{"usuario":"ana","clave":"x"}`))

	raw, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) == "" || string(raw[0]) != "{" {
		t.Fatalf("unexpected serialization: %s", raw)
	}
	// Surrogate IDs must never reach the wire.
	if strings.Contains(string(raw), "hidden") {
		t.Fatalf("serialized ledger leaked record ID: %s", raw)
	}

	var back Ledger
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back.Ingresos) != 1 || len(back.Egresos) != 1 || len(back.Usuarios) != 1 {
		t.Fatalf("round trip lost records: %+v", back)
	}
	if back.Egresos[0].Mes != "Enero" {
		t.Fatalf("Mes = %q, want Enero", back.Egresos[0].Mes)
	}
	if string(back.Usuarios[0]) != `{"usuario":"ana","clave":"x"}` {
		t.Fatalf("usuarios entry changed: %s", back.Usuarios[0])
	}
}
