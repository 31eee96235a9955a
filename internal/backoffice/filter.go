package backoffice

import (
	"strings"

	"backoffice/internal/models"
)

// List filtering for the table views. Matching is done client-side on the
// already-fetched page; "all" or an empty filter value matches everything.

func FilterAccounts(accounts []models.Account, status, search string) []models.Account {
	search = strings.ToLower(strings.TrimSpace(search))
	filtered := make([]models.Account, 0, len(accounts))
	for _, account := range accounts {
		if !matchFilter(account.Status, status) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(account.AccountNumber), search) &&
			!strings.Contains(strings.ToLower(account.UserID), search) {
			continue
		}
		filtered = append(filtered, account)
	}
	return filtered
}

func FilterUsers(users []models.User, role, status, search string) []models.User {
	search = strings.ToLower(strings.TrimSpace(search))
	filtered := make([]models.User, 0, len(users))
	for _, user := range users {
		if !matchFilter(user.Role, role) || !matchFilter(user.Status, status) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(user.Name), search) &&
			!strings.Contains(strings.ToLower(user.Email), search) {
			continue
		}
		filtered = append(filtered, user)
	}
	return filtered
}

func FilterTransactions(transactions []models.Transaction, txType, status string) []models.Transaction {
	filtered := make([]models.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if !matchFilter(tx.Type, txType) || !matchFilter(tx.Status, status) {
			continue
		}
		filtered = append(filtered, tx)
	}
	return filtered
}

func matchFilter(value, filter string) bool {
	return filter == "" || filter == "all" || value == filter
}
