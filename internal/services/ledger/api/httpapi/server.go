// Package httpapi exposes the ledger over a JSON HTTP API. Handlers parse
// and authenticate, then delegate to the engine; no business rules live
// here.
package httpapi

import (
	"log"
	"net/http"
	"strings"

	"github.com/sproutbank/sproutbank/internal/services/interest/accrual"
	"github.com/sproutbank/sproutbank/internal/services/ledger/engine"
	"github.com/sproutbank/sproutbank/internal/services/shared/authctx"
	"github.com/sproutbank/sproutbank/internal/services/verification/question"
	"github.com/sproutbank/sproutbank/internal/services/verification/session"
)

// Server wires the ledger engine and verification machinery to HTTP.
type Server struct {
	engine     *engine.Engine
	sessions   *session.Store
	questions  question.Source
	accrual    *accrual.Job
	verifier   authctx.VerifierConfig
	cronSecret string
	logf       func(format string, args ...any)
}

// NewServer creates the API server. questions may be nil, in which case
// the static fallback pool serves every quiz.
func NewServer(eng *engine.Engine, sessions *session.Store, questions question.Source, job *accrual.Job, verifier authctx.VerifierConfig, cronSecret string) *Server {
	if questions == nil {
		questions = question.FallbackSource{}
	}
	return &Server{
		engine:     eng,
		sessions:   sessions,
		questions:  questions,
		accrual:    job,
		verifier:   verifier,
		cronSecret: cronSecret,
		logf:       log.Printf,
	}
}

// WithLogf overrides the server logger.
func (s *Server) WithLogf(logf func(format string, args ...any)) *Server {
	s.logf = logf
	return s
}

// Routes builds the API route table.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("POST /api/cron/interest", s.handleCronInterest)

	mux.Handle("POST /api/transactions", s.requireIdentity(s.handleCreateTransaction))
	mux.Handle("GET /api/transactions", s.requireIdentity(s.handleListTransactions))
	mux.Handle("GET /api/wallet", s.requireIdentity(s.handleWallet))
	mux.Handle("POST /api/accounts", s.requireIdentity(s.handleCreateAccount))
	mux.Handle("GET /api/accounts", s.requireIdentity(s.handleListChildAccounts))
	mux.Handle("GET /api/accounts/{id}/balance", s.requireIdentity(s.handleBalance))
	mux.Handle("GET /api/accounts/{id}/savings-bonuses", s.requireIdentity(s.handleSavingsBonuses))
	mux.Handle("GET /api/family/config", s.requireIdentity(s.handleGetFamilyConfig))
	mux.Handle("PUT /api/family/config", s.requireIdentity(s.handlePutFamilyConfig))

	mux.Handle("GET /api/verify-parent/questions", s.requireIdentity(s.handleVerifyStart))
	mux.Handle("GET /api/verify-parent/next", s.requireIdentity(s.handleVerifyNext))
	mux.Handle("POST /api/verify-parent/check", s.requireIdentity(s.handleVerifyCheck))

	return mux
}

// requireIdentity authenticates the Bearer token and stores the verified
// identity on the request context.
func (s *Server) requireIdentity(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing bearer token"})
			return
		}
		identity, err := authctx.VerifyToken(s.verifier, token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid identity token"})
			return
		}
		next.ServeHTTP(w, r.WithContext(authctx.WithIdentity(r.Context(), identity)))
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
