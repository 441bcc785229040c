package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	MetodoYape          IncomeMethod = "Yape"
	MetodoPlin          IncomeMethod = "Plin"
	MetodoEfectivo      IncomeMethod = "Efectivo"
	MetodoTransferencia IncomeMethod = "Transferencia"
	MetodoOtro          IncomeMethod = "Otro"
)

const (
	PagoEfectivo      ExpenseMethod = "Efectivo"
	PagoTarjeta       ExpenseMethod = "Tarjeta"
	PagoTransferencia ExpenseMethod = "Transferencia"
	PagoOtro          ExpenseMethod = "Otro"
)

const (
	KindIngresos RecordKind = "ingresos"
	KindEgresos  RecordKind = "egresos"
)

type (
	IncomeMethod  string
	ExpenseMethod string
	MonthName     string
	RecordKind    string

	// Date is a calendar day persisted as an ISO "YYYY-MM-DD" string.
	Date struct {
		time.Time
	}

	// Income is a single inbound transaction. ID is a session-scoped
	// surrogate key; it is never written to the ledger file.
	Income struct {
		ID      string       `json:"-"`
		Nombre  string       `json:"nombre"`
		Fecha   Date         `json:"fecha"`
		Metodo  IncomeMethod `json:"metodo"`
		Importe float64      `json:"importe"`
	}

	// Expense is a single outbound transaction. Mes is an independently
	// stored month label; it is allowed to disagree with Fecha and is
	// never corrected against it.
	Expense struct {
		ID          string        `json:"-"`
		Fecha       Date          `json:"fecha"`
		Descripcion string        `json:"descripcion"`
		Metodo      ExpenseMethod `json:"metodo"`
		Mes         MonthName     `json:"mes"`
		Importe     float64       `json:"importe"`
	}

	// Ledger is the root aggregate, one per session. Usuarios is kept
	// opaque for on-disk compatibility; the engine never reads it.
	Ledger struct {
		Ingresos []Income          `json:"ingresos"`
		Egresos  []Expense         `json:"egresos"`
		Usuarios []json.RawMessage `json:"usuarios"`
	}
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrConflict         = errors.New("ledger changed on disk since load")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidMethod    = errors.New("invalid payment method")
	ErrInvalidMonth     = errors.New("invalid month name")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyDescription = errors.New("empty description")
)

const dateLayout = "2006-01-02"

// monthNames holds the closed set of Spanish month labels, January first.
var monthNames = [12]MonthName{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// NewLedger returns an empty ledger with all three sequences present.
func NewLedger() *Ledger {
	return &Ledger{
		Ingresos: []Income{},
		Egresos:  []Expense{},
		Usuarios: []json.RawMessage{},
	}
}

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// MonthToken returns the zero-padded calendar month number, "01".."12".
func (d Date) MonthToken() string {
	return fmt.Sprintf("%02d", int(d.Month()))
}

// MonthKey returns the canonical "YYYY-MM" grouping key.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (m IncomeMethod) Validate() error {
	switch m {
	case MetodoYape, MetodoPlin, MetodoEfectivo, MetodoTransferencia, MetodoOtro:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidMethod, string(m))
}

func (m ExpenseMethod) Validate() error {
	switch m {
	case PagoEfectivo, PagoTarjeta, PagoTransferencia, PagoOtro:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidMethod, string(m))
}

// MonthNames returns the 12 Spanish month labels in calendar order.
func MonthNames() []MonthName {
	out := make([]MonthName, len(monthNames))
	copy(out, monthNames[:])
	return out
}

func (m MonthName) Validate() error {
	for _, name := range monthNames {
		if m == name {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidMonth, string(m))
}

// MonthNameToNumber canonicalizes a Spanish month name to its zero-padded
// number, e.g. "Enero" -> "01". The expense Mes label and the income month
// token live in different vocabularies; any cross-kind comparison goes
// through this function.
func MonthNameToNumber(name MonthName) (string, error) {
	for i, n := range monthNames {
		if name == n {
			return fmt.Sprintf("%02d", i+1), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMonth, string(name))
}

func (in Income) Validate() error {
	if strings.TrimSpace(in.Nombre) == "" {
		return ErrEmptyName
	}
	if err := in.Fecha.Validate(); err != nil {
		return err
	}
	if err := in.Metodo.Validate(); err != nil {
		return err
	}
	if in.Importe < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Fecha.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Descripcion) == "" {
		return ErrEmptyDescription
	}
	if err := e.Metodo.Validate(); err != nil {
		return err
	}
	if err := e.Mes.Validate(); err != nil {
		return err
	}
	if e.Importe < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Matches reports full-field equality against another income record,
// ignoring surrogate IDs. The fields currently shown to the user are the
// lookup key, exactly as stored.
func (in Income) Matches(other Income) bool {
	return in.Nombre == other.Nombre &&
		in.Fecha.Equal(other.Fecha.Time) &&
		in.Metodo == other.Metodo &&
		in.Importe == other.Importe
}

// Matches reports full-field equality against another expense record,
// ignoring surrogate IDs.
func (e Expense) Matches(other Expense) bool {
	return e.Fecha.Equal(other.Fecha.Time) &&
		e.Descripcion == other.Descripcion &&
		e.Metodo == other.Metodo &&
		e.Mes == other.Mes &&
		e.Importe == other.Importe
}

func (k RecordKind) Validate() error {
	switch k {
	case KindIngresos, KindEgresos:
		return nil
	}
	return fmt.Errorf("invalid record kind: %q", string(k))
}
