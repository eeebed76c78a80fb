package web

import (
	"net/http"

	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/domain"
)

// transactionLimit caps every ledger lookup.
const transactionLimit = 100

// handleTransactions serves GET /analytics/transactions. Exactly one filter
// applies, checked in order: pool, token, account+type; with no filter the
// earliest recorded transactions are returned.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx := r.Context()

	var (
		txs []domain.Transaction
		err error
	)

	switch {
	case q.Get("pool") != "":
		pool := q.Get("pool")
		if !s.contracts.HasPool(pool) {
			s.writeJSON(w, http.StatusOK, errorPayload{Error: "Pool does not exist."})
			return
		}
		txs, err = s.txs.ByPool(ctx, pool, transactionLimit)

	case q.Get("token") != "":
		token := q.Get("token")
		if !s.contracts.HasToken(token) {
			s.writeJSON(w, http.StatusOK, errorPayload{Error: "Token does not exist."})
			return
		}
		txs, err = s.txs.ByToken(ctx, token, transactionLimit)

	case q.Get("account") != "" && q.Get("type") != "":
		swaps := q.Get("type") == "swap"
		txs, err = s.txs.ByAccount(ctx, q.Get("account"), swaps, transactionLimit)

	default:
		txs, err = s.txs.Latest(ctx, transactionLimit)
	}

	if err != nil {
		s.log.Error().Err(err).Msg("transactions lookup")
		s.writeJSON(w, http.StatusInternalServerError, errorPayload{Error: internalErrorMessage})
		return
	}

	if txs == nil {
		txs = []domain.Transaction{}
	}
	s.writeJSON(w, http.StatusOK, txs)
}
