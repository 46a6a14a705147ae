package httpapi

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sproutbank/sproutbank/internal/services/ledger/domain"
	"github.com/sproutbank/sproutbank/internal/services/shared/authctx"
)

type transactionPayload struct {
	ID        string `json:"id"`
	AccountID string `json:"accountId"`
	Type      string `json:"type"`
	Amount    int64  `json:"amount"`
	Activity  string `json:"activity"`
	Category  string `json:"category"`
	CreatedAt string `json:"createdAt"`
}

func toTransactionPayload(tx domain.Transaction) transactionPayload {
	return transactionPayload{
		ID:        tx.ID,
		AccountID: tx.AccountID,
		Type:      string(tx.Type),
		Amount:    tx.Amount,
		Activity:  tx.Activity,
		Category:  string(tx.Category),
		CreatedAt: tx.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type accountPayload struct {
	ID             string   `json:"id"`
	FamilyID       string   `json:"familyId"`
	Name           string   `json:"name"`
	Roles          []string `json:"roles"`
	CurrentBalance int64    `json:"currentBalance"`
	CreatedAt      string   `json:"createdAt"`
}

func toAccountPayload(account domain.Account) accountPayload {
	roles := make([]string, 0, len(account.Roles))
	for _, role := range account.Roles {
		roles = append(roles, string(role))
	}
	return accountPayload{
		ID:             account.ID,
		FamilyID:       account.FamilyID,
		Name:           account.Name,
		Roles:          roles,
		CurrentBalance: account.CurrentBalance,
		CreatedAt:      account.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	actor, _ := authctx.FromContext(r.Context())
	var req struct {
		AccountID string `json:"accountId"`
		Type      string `json:"type"`
		Amount    int64  `json:"amount"`
		Activity  string `json:"activity"`
		Category  string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if req.AccountID == "" {
		req.AccountID = actor.AccountID
	}

	entry, err := s.engine.CreateTransaction(r.Context(), actor, req.AccountID, req.Type, req.Amount, req.Activity, req.Category)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionPayload(entry))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	actor, _ := authctx.FromContext(r.Context())
	entries, err := s.engine.ListTransactions(r.Context(), actor, r.URL.Query().Get("account_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	payload := make([]transactionPayload, 0, len(entries))
	for _, entry := range entries {
		payload = append(payload, toTransactionPayload(entry))
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": payload})
}

func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	actor, _ := authctx.FromContext(r.Context())
	balance, err := s.engine.Balance(r.Context(), actor, actor.AccountID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"accountId": actor.AccountID,
		"balance":   balance,
	})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	actor, _ := authctx.FromContext(r.Context())
	balance, err := s.engine.Balance(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"accountId": r.PathValue("id"),
		"balance":   balance,
	})
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	actor, _ := authctx.FromContext(r.Context())
	var req struct {
		Name  string   `json:"name"`
		Roles []string `json:"roles"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	account, err := s.engine.CreateAccount(r.Context(), actor, req.Name, req.Roles)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountPayload(account))
}

func (s *Server) handleListChildAccounts(w http.ResponseWriter, r *http.Request) {
	actor, _ := authctx.FromContext(r.Context())
	accounts, err := s.engine.ListChildAccounts(r.Context(), actor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	payload := make([]accountPayload, 0, len(accounts))
	for _, account := range accounts {
		payload = append(payload, toAccountPayload(account))
	}
	writeJSON(w, http.StatusOK, map[string]any{"accounts": payload})
}

func (s *Server) handleSavingsBonuses(w http.ResponseWriter, r *http.Request) {
	actor, _ := authctx.FromContext(r.Context())
	bonuses, err := s.engine.SavingsBonuses(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	type bonusPayload struct {
		ID            string `json:"id"`
		AccountID     string `json:"accountId"`
		Amount        int64  `json:"amount"`
		BalanceAtTime int64  `json:"balanceAtTime"`
		BonusDate     string `json:"bonusDate"`
	}
	payload := make([]bonusPayload, 0, len(bonuses))
	for _, bonus := range bonuses {
		payload = append(payload, bonusPayload{
			ID:            bonus.ID,
			AccountID:     bonus.AccountID,
			Amount:        bonus.Amount,
			BalanceAtTime: bonus.BalanceAtTime,
			BonusDate:     bonus.BonusDate.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"bonuses": payload})
}

type familyConfigPayload struct {
	InterestRate     int64 `json:"interestRate"`
	InterestDuration int64 `json:"interestDuration"`
	StartingCapital  int64 `json:"startingCapital"`
}

func (s *Server) handleGetFamilyConfig(w http.ResponseWriter, r *http.Request) {
	actor, _ := authctx.FromContext(r.Context())
	cfg, err := s.engine.FamilyConfig(r.Context(), actor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, familyConfigPayload{
		InterestRate:     cfg.InterestRate,
		InterestDuration: cfg.InterestDuration,
		StartingCapital:  cfg.StartingCapital,
	})
}

func (s *Server) handlePutFamilyConfig(w http.ResponseWriter, r *http.Request) {
	actor, _ := authctx.FromContext(r.Context())
	var req familyConfigPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	cfg, err := s.engine.PutFamilyConfig(r.Context(), actor, domain.FamilyConfig{
		InterestRate:     req.InterestRate,
		InterestDuration: req.InterestDuration,
		StartingCapital:  req.StartingCapital,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, familyConfigPayload{
		InterestRate:     cfg.InterestRate,
		InterestDuration: cfg.InterestDuration,
		StartingCapital:  cfg.StartingCapital,
	})
}

// handleCronInterest triggers one accrual sweep. It is guarded by a shared
// secret instead of an identity token because schedulers call it.
func (s *Server) handleCronInterest(w http.ResponseWriter, r *http.Request) {
	if s.cronSecret == "" || s.accrual == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "cron trigger is not enabled"})
		return
	}
	header := r.Header.Get("Authorization")
	secret, _ := strings.CutPrefix(header, "Bearer ")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.cronSecret)) != 1 {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid cron secret"})
		return
	}

	report, err := s.accrual.Run(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"familiesScanned":     report.FamiliesScanned,
		"accountsScanned":     report.AccountsScanned,
		"accountsPosted":      report.AccountsPosted,
		"totalInterestPosted": report.TotalInterestPosted,
		"failed":              report.Failed,
	})
}
