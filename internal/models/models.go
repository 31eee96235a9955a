package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleAdmin    = "admin"
	RoleBanker   = "banker"
	RoleCustomer = "customer"
)

const (
	UserActive    = "active"
	UserPending   = "pending"
	UserSuspended = "suspended"
)

const (
	AccountSavings    = "savings"
	AccountChecking   = "checking"
	AccountInvestment = "investment"
)

const (
	AccountActive    = "active"
	AccountInactive  = "inactive"
	AccountSuspended = "suspended"
)

const (
	TxTransfer   = "transfer"
	TxDeposit    = "deposit"
	TxWithdrawal = "withdrawal"
	TxAirdrop    = "airdrop"
)

const (
	TxCompleted = "completed"
	TxPending   = "pending"
	TxFailed    = "failed"
)

const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

type Account struct {
	ID            string          `json:"id"`
	AccountNumber string          `json:"account_number"`
	UserID        string          `json:"user_id"`
	AccountType   string          `json:"account_type"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

type Transaction struct {
	ID                string          `json:"id"`
	TransactionID     string          `json:"transaction_id"`
	Type              string          `json:"type"`
	FromAccountNumber *string         `json:"from_account_number,omitempty"`
	ToAccountNumber   *string         `json:"to_account_number,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	Status            string          `json:"status"`
	Description       string          `json:"description,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

type PendingApplication struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type ActivityLog struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	IPAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent"`
	CreatedAt   time.Time `json:"created_at"`
}

type SystemStats struct {
	UserCount        int             `json:"user_count"`
	AccountCount     int             `json:"account_count"`
	TransactionCount int             `json:"transaction_count"`
	ActiveUsers      int             `json:"active_users"`
	TotalDeposits    decimal.Decimal `json:"total_deposits"`
	TotalWithdrawals decimal.Decimal `json:"total_withdrawals"`
}

type UserPage struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
}

type AccountPage struct {
	Accounts []Account `json:"accounts"`
	Total    int       `json:"total"`
}

type TransactionPage struct {
	Transactions []Transaction `json:"transactions"`
	Total        int           `json:"total"`
}

type ApplicationPage struct {
	Applications []PendingApplication `json:"applications"`
	Total        int                  `json:"total"`
}

type ActivityLogPage struct {
	Logs  []ActivityLog `json:"logs"`
	Total int           `json:"total"`
}

func ValidUserStatus(status string) bool {
	switch status {
	case UserActive, UserPending, UserSuspended:
		return true
	}
	return false
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleBanker, RoleCustomer:
		return true
	}
	return false
}

func ValidAccountType(accountType string) bool {
	switch accountType {
	case AccountSavings, AccountChecking, AccountInvestment:
		return true
	}
	return false
}

func ValidTransactionStatus(status string) bool {
	switch status {
	case TxCompleted, TxPending, TxFailed:
		return true
	}
	return false
}

func ValidApplicationDecision(status string) bool {
	return status == ApplicationApproved || status == ApplicationRejected
}
