package web

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/analytics"
)

// handleTokens serves GET /analytics/tokens[/{token}]. The historical flag
// defaults to true; only the literal value "false" disables it.
func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	historical := r.URL.Query().Get("historical") != "false"

	metrics, err := s.engine.TokenMetrics(r.Context(), token, historical)
	if err != nil {
		if errors.Is(err, analytics.ErrUnknownToken) {
			s.writeJSON(w, http.StatusOK, errorPayload{Error: "Token does not exist."})
			return
		}
		s.log.Error().Err(err).Str("token", token).Msg("token metrics")
		s.writeJSON(w, http.StatusInternalServerError, errorPayload{Error: internalErrorMessage})
		return
	}

	s.writeJSON(w, http.StatusOK, metrics)
}
