// Package web is the thin HTTP transport around the analytics engine:
// routing, request parsing, and error formatting. All computation lives in
// internal/analytics.
package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/analytics"
	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/config"
	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/observability"
	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/storage"
)

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	engine    *analytics.Engine
	txs       storage.TransactionStore
	contracts *config.Contracts
	log       zerolog.Logger
}

// NewServer creates a Server.
func NewServer(engine *analytics.Engine, txs storage.TransactionStore, contracts *config.Contracts, log zerolog.Logger) *Server {
	return &Server{
		engine:    engine,
		txs:       txs,
		contracts: contracts,
		log:       log,
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.instrument)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", observability.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/analytics").Subrouter()
	api.HandleFunc("/tokens", s.handleTokens).Methods(http.MethodGet)
	api.HandleFunc("/tokens/{token}", s.handleTokens).Methods(http.MethodGet)
	api.HandleFunc("/transactions", s.handleTransactions).Methods(http.MethodGet)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// errorPayload is the error descriptor body. Validation failures ship it
// with a 200; internal failures with a 500 and a generic message.
type errorPayload struct {
	Error string `json:"error"`
}

const internalErrorMessage = "INTERNAL_SERVER_ERROR"

// writeJSON writes v as a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument records request latency and a structured access log entry.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		elapsed := time.Since(start)

		observability.RecordRequest(route, strconv.Itoa(rec.status), elapsed.Seconds())
		s.log.Info().
			Str("method", r.Method).
			Str("route", route).
			Int("status", rec.status).
			Dur("elapsed", elapsed).
			Msg("request")
	})
}
