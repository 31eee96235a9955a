// Package bankmock is an in-process stand-in for the banking backend. It
// implements the REST surface the client consumes over in-memory state, so
// package tests and the CLI's demo mode run without a real server.
package bankmock

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"backoffice/internal/models"
)

type storedUser struct {
	models.User
	passwordHash string
}

type Server struct {
	mu            sync.Mutex
	secret        string
	tokenTTL      time.Duration
	users         map[string]*storedUser
	accounts      map[string]*models.Account
	transactions  map[string]*models.Transaction
	applications  map[string]*models.PendingApplication
	logs          []models.ActivityLog
	refreshTokens map[string]string
	hub           *hub
	now           func() time.Time
}

func New() *Server {
	return &Server{
		secret:        "bankmock-secret",
		tokenTTL:      time.Hour,
		users:         make(map[string]*storedUser),
		accounts:      make(map[string]*models.Account),
		transactions:  make(map[string]*models.Transaction),
		applications:  make(map[string]*models.PendingApplication),
		refreshTokens: make(map[string]string),
		hub:           newHub(),
		now:           time.Now,
	}
}

func (s *Server) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.login)
		r.Post("/logout", s.logout)
		r.Post("/refresh-token", s.refreshToken)
		r.With(s.requireAuth).Get("/check-token", s.checkToken)
	})
	router.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/accounts/all", s.listAccounts)
		r.Post("/accounts/create", s.createAccount)
		r.Delete("/accounts/{accountNumber}", s.deleteAccount)
		r.Post("/accounts/deposit", s.deposit)
		r.Post("/accounts/withdraw", s.withdraw)
		r.Post("/accounts/airdrop", s.airdrop)
		r.Get("/transactions/account/{accountNumber}", s.accountTransactions)
		r.Route("/admin", func(r chi.Router) {
			r.Get("/accounts/{accountNumber}", s.getAccount)
			r.Get("/users", s.listUsers)
			r.Get("/users/{id}", s.getUser)
			r.Put("/users/{id}/status", s.updateUserStatus)
			r.Put("/users/{id}/role", s.updateUserRole)
			r.Get("/users/{id}/activity", s.userActivity)
			r.Get("/transactions", s.listTransactions)
			r.Get("/transactions/user/{id}", s.userTransactions)
			r.Get("/transactions/{id}", s.getTransaction)
			r.Put("/transactions/{id}/status", s.updateTransactionStatus)
			r.Get("/activity-logs", s.activityLogs)
			r.Get("/stats", s.stats)
			r.Get("/recent-activities", s.recentActivities)
			r.Get("/pending-applications", s.pendingApplications)
			r.Put("/process-application/{userId}", s.processApplication)
			r.Put("/verify-customer/{id}", s.verifyCustomer)
			r.Post("/staff", s.createStaff)
			r.Get("/staff", s.listStaff)
		})
	})
	router.Get("/ws/events", s.hub.serveWS)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respondError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			respondError(w, http.StatusUnauthorized, "invalid authorization header")
			return
		}
		if _, err := s.parseToken(parts[1]); err != nil {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) issueToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"jti": uuid.NewString(),
		"exp": s.now().Add(s.tokenTTL).Unix(),
		"iat": s.now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
}

func (s *Server) parseToken(raw string) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(s.secret), nil
	})
	if err != nil {
		return "", err
	}
	sub, _ := claims.GetSubject()
	return sub, nil
}

func pagination(r *http.Request) (page, limit int) {
	page, limit = 1, 10
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	return page, limit
}

func paginate[T any](items []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Seed helpers, used by tests and demo mode. They broadcast no events.

func (s *Server) SeedUser(name, email, password, role, status string) models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	user := models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      role,
		Status:    status,
		CreatedAt: s.now(),
	}
	s.mu.Lock()
	s.users[user.ID] = &storedUser{User: user, passwordHash: string(hash)}
	s.mu.Unlock()
	return user
}

func (s *Server) SeedAccount(userID, accountType, currency string, balance decimal.Decimal) models.Account {
	account := models.Account{
		ID:            uuid.NewString(),
		AccountNumber: newAccountNumber(),
		UserID:        userID,
		AccountType:   accountType,
		Balance:       balance,
		Currency:      currency,
		Status:        models.AccountActive,
		CreatedAt:     s.now(),
	}
	s.mu.Lock()
	s.accounts[account.AccountNumber] = &account
	s.mu.Unlock()
	return account
}

func (s *Server) SeedTransaction(txType, status string, amount decimal.Decimal, from, to *string) models.Transaction {
	tx := models.Transaction{
		ID:                uuid.NewString(),
		TransactionID:     "TX-" + uuid.NewString()[:8],
		Type:              txType,
		Status:            status,
		Amount:            amount,
		FromAccountNumber: from,
		ToAccountNumber:   to,
		CreatedAt:         s.now(),
	}
	s.mu.Lock()
	s.transactions[tx.TransactionID] = &tx
	s.mu.Unlock()
	return tx
}

func (s *Server) SeedApplication(name, email string) models.PendingApplication {
	user := s.SeedUser(name, email, uuid.NewString(), models.RoleCustomer, models.UserPending)
	app := models.PendingApplication{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Name:        name,
		Email:       email,
		Status:      models.ApplicationPending,
		SubmittedAt: s.now(),
	}
	s.mu.Lock()
	s.applications[user.ID] = &app
	s.mu.Unlock()
	return app
}

func (s *Server) logActivity(userID, action, description string) {
	s.logs = append(s.logs, models.ActivityLog{
		ID:          uuid.NewString(),
		UserID:      userID,
		Action:      action,
		Description: description,
		CreatedAt:   s.now(),
	})
}

func newAccountNumber() string {
	return "ACC-" + strings.ToUpper(uuid.NewString()[:8])
}

func sortedByCreation[T any](items []T, createdAt func(T) time.Time) []T {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
	return items
}
