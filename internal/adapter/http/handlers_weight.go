package adapthttp

import (
	"encoding/json"
	"errors"
	"net/http"

	"weightress/internal/domain"
)

func (s *Server) handleWeights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		res := <-s.tracker.History(ctx)
		if res.Err != nil {
			writeError(w, http.StatusInternalServerError, res.Err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": res.History})

	case http.MethodPost:
		var body struct {
			Weight json.RawMessage `json:"weight"`
			Notes  string          `json:"notes"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		res := <-s.tracker.Record(ctx, weightInput(body.Weight), body.Notes)
		if errors.Is(res.Err, domain.ErrInvalidWeight) {
			writeMessage(w, http.StatusBadRequest, res.Message)
			return
		}
		if res.Err != nil {
			writeError(w, http.StatusInternalServerError, res.Err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"entry": res.Entry, "items": res.History})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// weightInput accepts the weight as a JSON string or number. Any other value
// becomes input that fails validation.
func weightInput(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
