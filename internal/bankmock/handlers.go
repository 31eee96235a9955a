package bankmock

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"backoffice/internal/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	s.mu.Lock()
	var found *storedUser
	for _, user := range s.users {
		if user.Email == req.Email {
			found = user
			break
		}
	}
	if found == nil || bcrypt.CompareHashAndPassword([]byte(found.passwordHash), []byte(req.Password)) != nil {
		s.mu.Unlock()
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	refresh := uuid.NewString()
	s.refreshTokens[refresh] = found.ID
	now := s.now()
	found.LastLogin = &now
	s.logActivity(found.ID, "login", "staff login")
	user := found.User
	s.mu.Unlock()

	token, err := s.issueToken(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"token":         token,
		"refresh_token": refresh,
		"user":          user,
	})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"msg": "logged out"})
}

func (s *Server) checkToken(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "valid"})
}

func (s *Server) refreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	s.mu.Lock()
	userID, ok := s.refreshTokens[req.RefreshToken]
	s.mu.Unlock()
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	token, err := s.issueToken(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)
	s.mu.Lock()
	accounts := make([]models.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		accounts = append(accounts, *account)
	}
	s.mu.Unlock()
	accounts = sortedByCreation(accounts, func(a models.Account) time.Time { return a.CreatedAt })
	respondJSON(w, http.StatusOK, map[string]any{
		"accounts": paginate(accounts, page, limit),
		"total":    len(accounts),
	})
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	accountNumber := chi.URLParam(r, "accountNumber")
	s.mu.Lock()
	account, ok := s.accounts[accountNumber]
	s.mu.Unlock()
	if !ok {
		respondError(w, http.StatusNotFound, "account not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"account": account})
}

type createAccountRequest struct {
	UserID      string `json:"user_id"`
	AccountType string `json:"account_type"`
	Currency    string `json:"currency"`
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	s.mu.Lock()
	if _, ok := s.users[req.UserID]; !ok {
		s.mu.Unlock()
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	if !models.ValidAccountType(req.AccountType) {
		s.mu.Unlock()
		respondError(w, http.StatusBadRequest, "invalid account type")
		return
	}
	account := models.Account{
		ID:            uuid.NewString(),
		AccountNumber: newAccountNumber(),
		UserID:        req.UserID,
		AccountType:   req.AccountType,
		Balance:       decimal.Zero,
		Currency:      req.Currency,
		Status:        models.AccountActive,
		CreatedAt:     s.now(),
	}
	s.accounts[account.AccountNumber] = &account
	s.logActivity(req.UserID, "account_created", account.AccountNumber)
	s.mu.Unlock()
	s.hub.broadcast(Event{Entity: "account", ID: account.AccountNumber})
	respondJSON(w, http.StatusCreated, map[string]any{"account": account})
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	accountNumber := chi.URLParam(r, "accountNumber")
	s.mu.Lock()
	if _, ok := s.accounts[accountNumber]; !ok {
		s.mu.Unlock()
		respondError(w, http.StatusNotFound, "account not found")
		return
	}
	delete(s.accounts, accountNumber)
	s.mu.Unlock()
	s.hub.broadcast(Event{Entity: "account", ID: accountNumber})
	respondJSON(w, http.StatusOK, map[string]string{"msg": "account deleted"})
}

type moveFundsRequest struct {
	AccountNumber string          `json:"account_number"`
	Amount        decimal.Decimal `json:"amount"`
}

func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	var req moveFundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		respondError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	s.mu.Lock()
	account, ok := s.accounts[req.AccountNumber]
	if !ok {
		s.mu.Unlock()
		respondError(w, http.StatusNotFound, "account not found")
		return
	}
	account.Balance = account.Balance.Add(req.Amount)
	updated := *account
	s.recordTransaction(models.TxDeposit, req.Amount, nil, &req.AccountNumber)
	s.mu.Unlock()
	s.hub.broadcast(Event{Entity: "account", ID: req.AccountNumber})
	respondJSON(w, http.StatusOK, map[string]any{"account": updated})
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	var req moveFundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		respondError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	s.mu.Lock()
	account, ok := s.accounts[req.AccountNumber]
	if !ok {
		s.mu.Unlock()
		respondError(w, http.StatusNotFound, "account not found")
		return
	}
	if account.Balance.LessThan(req.Amount) {
		s.mu.Unlock()
		respondError(w, http.StatusBadRequest, "insufficient funds")
		return
	}
	account.Balance = account.Balance.Sub(req.Amount)
	updated := *account
	s.recordTransaction(models.TxWithdrawal, req.Amount, &req.AccountNumber, nil)
	s.mu.Unlock()
	s.hub.broadcast(Event{Entity: "account", ID: req.AccountNumber})
	respondJSON(w, http.StatusOK, map[string]any{"account": updated})
}

type airdropRequest struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

func (s *Server) airdrop(w http.ResponseWriter, r *http.Request) {
	var req airdropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		respondError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	s.mu.Lock()
	var target *models.Account
	for _, account := range s.accounts {
		if account.UserID == req.UserID {
			target = account
			break
		}
	}
	if target == nil {
		s.mu.Unlock()
		respondError(w, http.StatusNotFound, "user has no account")
		return
	}
	target.Balance = target.Balance.Add(req.Amount)
	number := target.AccountNumber
	s.recordTransaction(models.TxAirdrop, req.Amount, nil, &number)
	s.mu.Unlock()
	s.hub.broadcast(Event{Entity: "account", ID: number})
	respondJSON(w, http.StatusOK, map[string]string{"msg": "airdrop completed"})
}

// recordTransaction must be called with s.mu held.
func (s *Server) recordTransaction(txType string, amount decimal.Decimal, from, to *string) models.Transaction {
	tx := models.Transaction{
		ID:                uuid.NewString(),
		TransactionID:     "TX-" + uuid.NewString()[:8],
		Type:              txType,
		Status:            models.TxCompleted,
		Amount:            amount,
		FromAccountNumber: from,
		ToAccountNumber:   to,
		CreatedAt:         s.now(),
	}
	s.transactions[tx.TransactionID] = &tx
	return tx
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)
	s.mu.Lock()
	users := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		if user.Role == models.RoleCustomer {
			users = append(users, user.User)
		}
	}
	s.mu.Unlock()
	users = sortedByCreation(users, func(u models.User) time.Time { return u.CreatedAt })
	respondJSON(w, http.StatusOK, map[string]any{
		"users": paginate(users, page, limit),
		"total": len(users),
	})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	s.mu.Lock()
	user, ok := s.users[userID]
	s.mu.Unlock()
	if !ok {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": user.User})
}

func (s *Server) updateUserStatus(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !models.ValidUserStatus(req.Status) {
		respondError(w, http.StatusBadRequest, "invalid status")
		return
	}
	s.mu.Lock()
	user, ok := s.users[userID]
	if !ok {
		s.mu.Unlock()
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	user.Status = req.Status
	updated := user.User
	s.logActivity(userID, "status_updated", req.Status)
	s.mu.Unlock()
	s.hub.broadcast(Event{Entity: "user", ID: userID})
	respondJSON(w, http.StatusOK, map[string]any{"user": updated})
}

func (s *Server) updateUserRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !models.ValidRole(req.Role) {
		respondError(w, http.StatusBadRequest, "invalid role")
		return
	}
	s.mu.Lock()
	user, ok := s.users[userID]
	if !ok {
		s.mu.Unlock()
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	user.Role = req.Role
	updated := user.User
	s.logActivity(userID, "role_updated", req.Role)
	s.mu.Unlock()
	s.hub.broadcast(Event{Entity: "user", ID: userID})
	respondJSON(w, http.StatusOK, map[string]any{"user": updated})
}

func (s *Server) userActivity(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	page, limit := pagination(r)
	s.mu.Lock()
	logs := make([]models.ActivityLog, 0)
	for _, entry := range s.logs {
		if entry.UserID == userID {
			logs = append(logs, entry)
		}
	}
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, map[string]any{
		"logs":  paginate(logs, page, limit),
		"total": len(logs),
	})
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)
	s.mu.Lock()
	transactions := make([]models.Transaction, 0, len(s.transactions))
	for _, tx := range s.transactions {
		transactions = append(transactions, *tx)
	}
	s.mu.Unlock()
	transactions = sortedByCreation(transactions, func(t models.Transaction) time.Time { return t.CreatedAt })
	respondJSON(w, http.StatusOK, map[string]any{
		"transactions": paginate(transactions, page, limit),
		"total":        len(transactions),
	})
}

func (s *Server) accountTransactions(w http.ResponseWriter, r *http.Request) {
	accountNumber := chi.URLParam(r, "accountNumber")
	page, limit := pagination(r)
	s.mu.Lock()
	transactions := make([]models.Transaction, 0)
	for _, tx := range s.transactions {
		if (tx.FromAccountNumber != nil && *tx.FromAccountNumber == accountNumber) ||
			(tx.ToAccountNumber != nil && *tx.ToAccountNumber == accountNumber) {
			transactions = append(transactions, *tx)
		}
	}
	s.mu.Unlock()
	transactions = sortedByCreation(transactions, func(t models.Transaction) time.Time { return t.CreatedAt })
	respondJSON(w, http.StatusOK, map[string]any{
		"transactions": paginate(transactions, page, limit),
		"total":        len(transactions),
	})
}

func (s *Server) userTransactions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	page, limit := pagination(r)
	s.mu.Lock()
	numbers := make(map[string]struct{})
	for _, account := range s.accounts {
		if account.UserID == userID {
			numbers[account.AccountNumber] = struct{}{}
		}
	}
	transactions := make([]models.Transaction, 0)
	for _, tx := range s.transactions {
		if tx.FromAccountNumber != nil {
			if _, ok := numbers[*tx.FromAccountNumber]; ok {
				transactions = append(transactions, *tx)
				continue
			}
		}
		if tx.ToAccountNumber != nil {
			if _, ok := numbers[*tx.ToAccountNumber]; ok {
				transactions = append(transactions, *tx)
			}
		}
	}
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, map[string]any{
		"transactions": paginate(transactions, page, limit),
		"total":        len(transactions),
	})
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "id")
	s.mu.Lock()
	tx, ok := s.transactions[transactionID]
	s.mu.Unlock()
	if !ok {
		respondError(w, http.StatusNotFound, "transaction not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transaction": tx})
}

func (s *Server) updateTransactionStatus(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "id")
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !models.ValidTransactionStatus(req.Status) {
		respondError(w, http.StatusBadRequest, "invalid status")
		return
	}
	s.mu.Lock()
	tx, ok := s.transactions[transactionID]
	if !ok {
		s.mu.Unlock()
		respondError(w, http.StatusNotFound, "transaction not found")
		return
	}
	tx.Status = req.Status
	updated := *tx
	s.mu.Unlock()
	s.hub.broadcast(Event{Entity: "transaction", ID: transactionID})
	respondJSON(w, http.StatusOK, map[string]any{"transaction": updated})
}

func (s *Server) activityLogs(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)
	s.mu.Lock()
	logs := make([]models.ActivityLog, len(s.logs))
	copy(logs, s.logs)
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, map[string]any{
		"logs":  paginate(logs, page, limit),
		"total": len(logs),
	})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stats := models.SystemStats{
		UserCount:        len(s.users),
		AccountCount:     len(s.accounts),
		TransactionCount: len(s.transactions),
	}
	for _, user := range s.users {
		if user.Status == models.UserActive {
			stats.ActiveUsers++
		}
	}
	for _, tx := range s.transactions {
		switch tx.Type {
		case models.TxDeposit, models.TxAirdrop:
			stats.TotalDeposits = stats.TotalDeposits.Add(tx.Amount)
		case models.TxWithdrawal:
			stats.TotalWithdrawals = stats.TotalWithdrawals.Add(tx.Amount)
		}
	}
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) recentActivities(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := parsePositive(raw); err == nil {
			limit = parsed
		}
	}
	s.mu.Lock()
	logs := make([]models.ActivityLog, len(s.logs))
	copy(logs, s.logs)
	s.mu.Unlock()
	logs = sortedByCreation(logs, func(l models.ActivityLog) time.Time { return l.CreatedAt })
	if len(logs) > limit {
		logs = logs[:limit]
	}
	respondJSON(w, http.StatusOK, map[string]any{"activities": logs})
}

func (s *Server) pendingApplications(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)
	s.mu.Lock()
	applications := make([]models.PendingApplication, 0, len(s.applications))
	for _, app := range s.applications {
		if app.Status == models.ApplicationPending {
			applications = append(applications, *app)
		}
	}
	s.mu.Unlock()
	applications = sortedByCreation(applications, func(a models.PendingApplication) time.Time { return a.SubmittedAt })
	respondJSON(w, http.StatusOK, map[string]any{
		"applications": paginate(applications, page, limit),
		"total":        len(applications),
	})
}

func (s *Server) processApplication(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	var req struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !models.ValidApplicationDecision(req.Status) {
		respondError(w, http.StatusBadRequest, "invalid status")
		return
	}
	s.mu.Lock()
	app, ok := s.applications[userID]
	if !ok {
		s.mu.Unlock()
		respondError(w, http.StatusNotFound, "application not found")
		return
	}
	if app.Status != models.ApplicationPending {
		s.mu.Unlock()
		respondError(w, http.StatusConflict, "application already processed")
		return
	}
	app.Status = req.Status
	if user, ok := s.users[userID]; ok {
		if req.Status == models.ApplicationApproved {
			user.Status = models.UserActive
		} else {
			user.Status = models.UserSuspended
		}
	}
	updated := *app
	s.logActivity(userID, "application_"+req.Status, req.Reason)
	s.mu.Unlock()
	s.hub.broadcast(Event{Entity: "application", ID: userID})
	s.hub.broadcast(Event{Entity: "user", ID: userID})
	respondJSON(w, http.StatusOK, map[string]any{"application": updated})
}

func (s *Server) verifyCustomer(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	s.mu.Lock()
	user, ok := s.users[userID]
	if !ok {
		s.mu.Unlock()
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	user.Status = models.UserActive
	updated := user.User
	s.logActivity(userID, "verified", "customer verified")
	s.mu.Unlock()
	s.hub.broadcast(Event{Entity: "user", ID: userID})
	respondJSON(w, http.StatusOK, map[string]any{"user": updated})
}

type createStaffRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *Server) createStaff(w http.ResponseWriter, r *http.Request) {
	var req createStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Role != models.RoleAdmin && req.Role != models.RoleBanker {
		respondError(w, http.StatusBadRequest, "invalid role")
		return
	}
	s.mu.Lock()
	for _, user := range s.users {
		if user.Email == req.Email {
			s.mu.Unlock()
			respondError(w, http.StatusConflict, "email already exists")
			return
		}
	}
	s.mu.Unlock()
	user := s.SeedUser(req.Name, req.Email, req.Password, req.Role, models.UserActive)
	s.hub.broadcast(Event{Entity: "staff", ID: user.ID})
	respondJSON(w, http.StatusCreated, map[string]any{"user": user})
}

func (s *Server) listStaff(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)
	s.mu.Lock()
	staff := make([]models.User, 0)
	for _, user := range s.users {
		if user.Role == models.RoleAdmin || user.Role == models.RoleBanker {
			staff = append(staff, user.User)
		}
	}
	s.mu.Unlock()
	staff = sortedByCreation(staff, func(u models.User) time.Time { return u.CreatedAt })
	respondJSON(w, http.StatusOK, map[string]any{
		"users": paginate(staff, page, limit),
		"total": len(staff),
	})
}

func parsePositive(raw string) (int, error) {
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return 0, errors.New("invalid number")
	}
	return parsed, nil
}
