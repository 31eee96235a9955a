package backoffice

import (
	"context"
	"time"

	"backoffice/internal/cache"
	"backoffice/internal/models"
)

func (b *Backoffice) AllAccounts() *cache.Query[models.AccountPage] {
	return cache.NewQuery(b.Store, cache.K("accounts", "all"), func(ctx context.Context) (models.AccountPage, error) {
		return b.Accounts.ListAll(ctx, defaultPage, defaultLimit)
	})
}

func (b *Backoffice) Customers() *cache.Query[models.UserPage] {
	return cache.NewQuery(b.Store, cache.K("customers"), func(ctx context.Context) (models.UserPage, error) {
		return b.Users.ListAll(ctx, defaultPage, defaultLimit)
	})
}

func (b *Backoffice) AllTransactions() *cache.Query[models.TransactionPage] {
	return cache.NewQuery(b.Store, cache.K("transactions", "all"), func(ctx context.Context) (models.TransactionPage, error) {
		return b.Transactions.ListAll(ctx, defaultPage, defaultLimit)
	})
}

func (b *Backoffice) AccountTransactions(accountNumber string) *cache.Query[models.TransactionPage] {
	q := cache.NewQuery(b.Store, cache.K("transactions", "account", accountNumber), func(ctx context.Context) (models.TransactionPage, error) {
		return b.Transactions.ForAccount(ctx, accountNumber, defaultPage, defaultLimit)
	})
	q.Enabled = func() bool { return accountNumber != "" }
	return q
}

func (b *Backoffice) TransactionDetails(transactionID string) *cache.Query[models.Transaction] {
	q := cache.NewQuery(b.Store, cache.K("transaction", transactionID), func(ctx context.Context) (models.Transaction, error) {
		return b.Transactions.GetByID(ctx, transactionID)
	})
	q.Enabled = func() bool { return transactionID != "" }
	return q
}

func (b *Backoffice) PendingApplications() *cache.Query[models.ApplicationPage] {
	return cache.NewQuery(b.Store, cache.K("admin", "pendingApplications"), func(ctx context.Context) (models.ApplicationPage, error) {
		return b.Admin.PendingApplications(ctx, defaultPage, defaultLimit)
	})
}

func (b *Backoffice) UserActivity(userID string) *cache.Query[models.ActivityLogPage] {
	q := cache.NewQuery(b.Store, cache.K("userActivity", userID), func(ctx context.Context) (models.ActivityLogPage, error) {
		return b.Users.ActivityLogs(ctx, userID, defaultPage, defaultLimit)
	})
	q.Enabled = func() bool { return userID != "" }
	return q
}

func (b *Backoffice) ActivityLogs() *cache.Query[models.ActivityLogPage] {
	return cache.NewQuery(b.Store, cache.K("admin", "activityLogs"), func(ctx context.Context) (models.ActivityLogPage, error) {
		return b.Admin.ActivityLogs(ctx, defaultPage, defaultLimit)
	})
}

func (b *Backoffice) Stats() *cache.Query[models.SystemStats] {
	return cache.NewQuery(b.Store, cache.K("admin", "stats"), func(ctx context.Context) (models.SystemStats, error) {
		return b.Admin.Stats(ctx)
	})
}

func (b *Backoffice) RecentActivities() *cache.Query[[]models.ActivityLog] {
	return cache.NewQuery(b.Store, cache.K("admin", "recent"), func(ctx context.Context) ([]models.ActivityLog, error) {
		return b.Admin.RecentActivities(ctx, 5)
	})
}

func (b *Backoffice) Staff() *cache.Query[models.UserPage] {
	return cache.NewQuery(b.Store, cache.K("staff"), func(ctx context.Context) (models.UserPage, error) {
		return b.Admin.ListStaff(ctx, defaultPage, defaultLimit)
	})
}

// AuthCheck reports session validity as a plain boolean; failures never
// surface past the service layer. The 5-minute stale time keeps repeated
// page loads from hammering the validation endpoint.
func (b *Backoffice) AuthCheck() *cache.Query[bool] {
	q := cache.NewQuery(b.Store, cache.K("authCheck"), func(ctx context.Context) (bool, error) {
		return b.Auth.CheckToken(ctx), nil
	})
	q.StaleTime = 5 * time.Minute
	return q
}
