package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"finanzas/internal/core"
)

// incomePayload is the wire form of an income record. Dates travel as
// "YYYY-MM-DD" strings.
type incomePayload struct {
	Nombre  string  `json:"nombre"`
	Fecha   string  `json:"fecha"`
	Metodo  string  `json:"metodo"`
	Importe float64 `json:"importe"`
}

func (p incomePayload) toRecord() (core.Income, error) {
	fecha, err := core.ParseDate(strings.TrimSpace(p.Fecha))
	if err != nil {
		return core.Income{}, err
	}
	return core.Income{
		Nombre:  strings.TrimSpace(p.Nombre),
		Fecha:   fecha,
		Metodo:  core.IncomeMethod(strings.TrimSpace(p.Metodo)),
		Importe: p.Importe,
	}, nil
}

// incomeView is the outbound form, including the record's session ID.
type incomeView struct {
	ID      string  `json:"id"`
	Nombre  string  `json:"nombre"`
	Fecha   string  `json:"fecha"`
	Metodo  string  `json:"metodo"`
	Importe float64 `json:"importe"`
}

func newIncomeView(in core.Income) incomeView {
	return incomeView{
		ID:      in.ID,
		Nombre:  in.Nombre,
		Fecha:   in.Fecha.String(),
		Metodo:  string(in.Metodo),
		Importe: in.Importe,
	}
}

type updateIncomeRequest struct {
	ID     string         `json:"id,omitempty"`
	Match  *incomePayload `json:"match,omitempty"`
	Values incomePayload  `json:"values"`
}

type deleteIncomeRequest struct {
	ID    string         `json:"id,omitempty"`
	Match *incomePayload `json:"match,omitempty"`
}

// handleIncomes serves GET (filtered list) and POST (create) on /api/ingresos.
func (s *Server) handleIncomes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListIncomes(w, r)
	case http.MethodPost:
		s.handleCreateIncome(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	mes := strings.TrimSpace(r.URL.Query().Get("mes"))
	if mes == "" {
		mes = core.FilterAll
	}
	nombre := strings.TrimSpace(r.URL.Query().Get("nombre"))
	if nombre == "" {
		nombre = core.FilterAll
	}

	items := s.svc.Incomes(mes, nombre)
	views := make([]incomeView, 0, len(items))
	for _, in := range items {
		views = append(views, newIncomeView(in))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var payload incomePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := payload.toRecord()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	id, err := s.svc.CreateIncome(r.Context(), record)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create income failed", "error", err)
		writeDomainError(w, err)
		return
	}

	record.ID = id
	writeJSON(w, http.StatusCreated, newIncomeView(record))
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req updateIncomeRequest
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
		err = s.svc.UpdateIncomeByID(r.Context(), req.ID, values)
	case req.Match != nil:
		var match core.Income
		match, err = req.Match.toRecord()
		if err == nil {
			err = s.svc.UpdateIncome(r.Context(), match, values)
		}
	default:
		writeError(w, http.StatusBadRequest, "either id or match is required")
		return
	}
	if err != nil {
		slog.WarnContext(r.Context(), "Update income failed", "error", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req deleteIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var err error
	switch {
	case req.ID != "":
		err = s.svc.DeleteIncomeByID(r.Context(), req.ID)
	case req.Match != nil:
		var match core.Income
		match, err = req.Match.toRecord()
		if err == nil {
			err = s.svc.DeleteIncome(r.Context(), match)
		}
	default:
		writeError(w, http.StatusBadRequest, "either id or match is required")
		return
	}
	if err != nil {
		slog.WarnContext(r.Context(), "Delete income failed", "error", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
