package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"finanzas/internal/core"
)

// expensePayload is the wire form of an expense record. The mes label is
// stored independently of fecha and travels as-is.
type expensePayload struct {
	Fecha       string  `json:"fecha"`
	Descripcion string  `json:"descripcion"`
	Metodo      string  `json:"metodo"`
	Mes         string  `json:"mes"`
	Importe     float64 `json:"importe"`
}

func (p expensePayload) toRecord() (core.Expense, error) {
	fecha, err := core.ParseDate(strings.TrimSpace(p.Fecha))
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		Fecha:       fecha,
		Descripcion: strings.TrimSpace(p.Descripcion),
		Metodo:      core.ExpenseMethod(strings.TrimSpace(p.Metodo)),
		Mes:         core.MonthName(strings.TrimSpace(p.Mes)),
		Importe:     p.Importe,
	}, nil
}

type expenseView struct {
	ID          string  `json:"id"`
	Fecha       string  `json:"fecha"`
	Descripcion string  `json:"descripcion"`
	Metodo      string  `json:"metodo"`
	Mes         string  `json:"mes"`
	Importe     float64 `json:"importe"`
}

func newExpenseView(e core.Expense) expenseView {
	return expenseView{
		ID:          e.ID,
		Fecha:       e.Fecha.String(),
		Descripcion: e.Descripcion,
		Metodo:      string(e.Metodo),
		Mes:         string(e.Mes),
		Importe:     e.Importe,
	}
}

type updateExpenseRequest struct {
	ID     string          `json:"id,omitempty"`
	Match  *expensePayload `json:"match,omitempty"`
	Values expensePayload  `json:"values"`
}

type deleteExpenseRequest struct {
	ID    string          `json:"id,omitempty"`
	Match *expensePayload `json:"match,omitempty"`
}

// handleExpenses serves GET (filtered list) and POST (create) on /api/egresos.
func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListExpenses(w, r)
	case http.MethodPost:
		s.handleCreateExpense(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	mes := strings.TrimSpace(r.URL.Query().Get("mes"))
	if mes == "" {
		mes = core.FilterAll
	}

	items := s.svc.Expenses(core.MonthName(mes))
	views := make([]expenseView, 0, len(items))
	for _, e := range items {
		views = append(views, newExpenseView(e))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var payload expensePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := payload.toRecord()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	id, err := s.svc.CreateExpense(r.Context(), record)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create expense failed", "error", err)
		writeDomainError(w, err)
		return
	}

	record.ID = id
	writeJSON(w, http.StatusCreated, newExpenseView(record))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req updateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	values, err := req.Values.toRecord()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	switch {
	case req.ID != "":
		err = s.svc.UpdateExpenseByID(r.Context(), req.ID, values)
	case req.Match != nil:
		var match core.Expense
		match, err = req.Match.toRecord()
		if err == nil {
			err = s.svc.UpdateExpense(r.Context(), match, values)
		}
	default:
		writeError(w, http.StatusBadRequest, "either id or match is required")
		return
	}
	if err != nil {
		slog.WarnContext(r.Context(), "Update expense failed", "error", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req deleteExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var err error
	switch {
	case req.ID != "":
		err = s.svc.DeleteExpenseByID(r.Context(), req.ID)
	case req.Match != nil:
		var match core.Expense
		match, err = req.Match.toRecord()
		if err == nil {
			err = s.svc.DeleteExpense(r.Context(), match)
		}
	default:
		writeError(w, http.StatusBadRequest, "either id or match is required")
		return
	}
	if err != nil {
		slog.WarnContext(r.Context(), "Delete expense failed", "error", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
