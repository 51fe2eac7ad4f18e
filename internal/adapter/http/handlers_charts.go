package adapthttp

import (
	"errors"
	"net/http"

	"weightress/internal/app"
	"weightress/internal/domain"
)

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	unit := r.URL.Query().Get("unit")
	if unit == "" {
		unit = domain.UnitKg
	}

	points, err := s.charts.Series(r.Context(), unit)
	if errors.Is(err, app.ErrInvalidUnit) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"unit":  unit,
		"items": points,
	})
}
