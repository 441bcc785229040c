package http

import (
	"net/http"
	"strings"

	"finanzas/internal/core"
)

// handleDashboard serves the combined overview: totals, the monthly long-form
// series, and the selectable month tokens.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	mes := strings.TrimSpace(r.URL.Query().Get("mes"))
	if mes == "" {
		mes = core.FilterAll
	}

	writeJSON(w, http.StatusOK, s.svc.Dashboard(mes))
}
