package backoffice

import (
	"context"

	"github.com/shopspring/decimal"

	"backoffice/internal/cache"
	"backoffice/internal/models"
	"backoffice/internal/services"
)

type AirdropInput struct {
	UserID string
	Amount decimal.Decimal
}

type MoveFundsInput struct {
	AccountNumber string
	Amount        decimal.Decimal
}

type UpdateUserStatusInput struct {
	UserID string
	Status string
}

type UpdateUserRoleInput struct {
	UserID string
	Role   string
}

type UpdateTransactionStatusInput struct {
	TransactionID string
	Status        string
}

type ProcessApplicationInput struct {
	UserID string
	Status string
	Reason string
}

func (b *Backoffice) CreateAccount() *cache.Mutation[services.CreateAccountInput, models.Account] {
	return cache.NewMutation(b.Store, func(ctx context.Context, input services.CreateAccountInput) (models.Account, error) {
		return b.Accounts.Create(ctx, input)
	}, cache.K("accounts", "all"))
}

func (b *Backoffice) DeleteAccount() *cache.Mutation[string, string] {
	return cache.NewMutation(b.Store, func(ctx context.Context, accountNumber string) (string, error) {
		return b.Accounts.Delete(ctx, accountNumber)
	}, cache.K("accounts", "all"))
}

func (b *Backoffice) Airdrop() *cache.Mutation[AirdropInput, string] {
	return cache.NewMutation(b.Store, func(ctx context.Context, input AirdropInput) (string, error) {
		return b.Accounts.Airdrop(ctx, input.UserID, input.Amount)
	}, cache.K("accounts", "all"))
}

func (b *Backoffice) Deposit() *cache.Mutation[MoveFundsInput, models.Account] {
	return cache.NewMutation(b.Store, func(ctx context.Context, input MoveFundsInput) (models.Account, error) {
		return b.Accounts.Deposit(ctx, input.AccountNumber, input.Amount)
	}, cache.K("accounts", "all"))
}

func (b *Backoffice) Withdraw() *cache.Mutation[MoveFundsInput, models.Account] {
	return cache.NewMutation(b.Store, func(ctx context.Context, input MoveFundsInput) (models.Account, error) {
		return b.Accounts.Withdraw(ctx, input.AccountNumber, input.Amount)
	}, cache.K("accounts", "all"))
}

func (b *Backoffice) UpdateUserStatus() *cache.Mutation[UpdateUserStatusInput, models.User] {
	return cache.NewMutation(b.Store, func(ctx context.Context, input UpdateUserStatusInput) (models.User, error) {
		return b.Users.UpdateStatus(ctx, input.UserID, input.Status)
	}, cache.K("customers"))
}

func (b *Backoffice) UpdateUserRole() *cache.Mutation[UpdateUserRoleInput, models.User] {
	return cache.NewMutation(b.Store, func(ctx context.Context, input UpdateUserRoleInput) (models.User, error) {
		return b.Users.UpdateRole(ctx, input.UserID, input.Role)
	}, cache.K("customers"))
}

func (b *Backoffice) ApproveApplication() *cache.Mutation[string, models.PendingApplication] {
	return cache.NewMutation(b.Store, func(ctx context.Context, userID string) (models.PendingApplication, error) {
		return b.Admin.ApproveApplication(ctx, userID)
	}, cache.K("admin", "pendingApplications"), cache.K("customers"))
}

func (b *Backoffice) ProcessApplication() *cache.Mutation[ProcessApplicationInput, models.PendingApplication] {
	return cache.NewMutation(b.Store, func(ctx context.Context, input ProcessApplicationInput) (models.PendingApplication, error) {
		return b.Admin.ProcessApplication(ctx, input.UserID, services.ProcessApplicationInput{
			Status: input.Status,
			Reason: input.Reason,
		})
	}, cache.K("admin", "pendingApplications"), cache.K("customers"))
}

func (b *Backoffice) VerifyCustomer() *cache.Mutation[string, models.User] {
	return cache.NewMutation(b.Store, func(ctx context.Context, userID string) (models.User, error) {
		return b.Admin.VerifyCustomer(ctx, userID)
	}, cache.K("customers"))
}

func (b *Backoffice) UpdateTransactionStatus() *cache.Mutation[UpdateTransactionStatusInput, models.Transaction] {
	m := cache.NewMutation(b.Store, func(ctx context.Context, input UpdateTransactionStatusInput) (models.Transaction, error) {
		return b.Transactions.UpdateStatus(ctx, input.TransactionID, input.Status)
	}, cache.K("transactions", "all"))
	m.KeyFunc = func(input UpdateTransactionStatusInput) []cache.Key {
		return []cache.Key{cache.K("transaction", input.TransactionID)}
	}
	return m
}

func (b *Backoffice) CreateStaff() *cache.Mutation[services.CreateStaffInput, models.User] {
	return cache.NewMutation(b.Store, func(ctx context.Context, input services.CreateStaffInput) (models.User, error) {
		return b.Admin.CreateStaff(ctx, input)
	}, cache.K("staff"))
}
