package backoffice

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"backoffice/internal/api"
	"backoffice/internal/bankmock"
	"backoffice/internal/cache"
	"backoffice/internal/models"
	"backoffice/internal/services"
)

type staticToken struct {
	mu    sync.Mutex
	value string
}

func (s *staticToken) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

func newTestApp(t *testing.T) (*Backoffice, *bankmock.Server) {
	t.Helper()
	mock := bankmock.New()
	mock.SeedUser("Admin", "admin@bank.test", "admin-pass", models.RoleAdmin, models.UserActive)
	server := httptest.NewServer(mock.Routes())
	t.Cleanup(server.Close)

	token := &staticToken{}
	app := New(server.URL, server.Client(), token)
	result, err := app.Auth.Login(context.Background(), services.Credentials{
		Email: "admin@bank.test", Password: "admin-pass",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	token.mu.Lock()
	token.value = result.Token
	token.mu.Unlock()
	return app, mock
}

func entryStale(t *testing.T, store *cache.Store, key cache.Key) bool {
	t.Helper()
	entry, ok := store.Entry(key)
	if !ok {
		t.Fatalf("no cache entry for %v", key)
	}
	return entry.Stale
}

func TestUpdateUserStatusInvalidatesCustomersOnly(t *testing.T) {
	app, mock := newTestApp(t)
	customer := mock.SeedUser("Carla", "carla@example.com", "pw-carla-1", models.RoleCustomer, models.UserPending)

	if _, err := app.Customers().Get(context.Background()); err != nil {
		t.Fatalf("customers: %v", err)
	}
	if _, err := app.AllAccounts().Get(context.Background()); err != nil {
		t.Fatalf("accounts: %v", err)
	}

	_, err := app.UpdateUserStatus().Do(context.Background(), UpdateUserStatusInput{
		UserID: customer.ID, Status: models.UserActive,
	})
	if err != nil {
		t.Fatalf("mutation: %v", err)
	}

	if !entryStale(t, app.Store, cache.K("customers")) {
		t.Fatal("customers entry should be stale")
	}
	if entryStale(t, app.Store, cache.K("accounts", "all")) {
		t.Fatal("accounts entry should be untouched")
	}

	// The next read refetches and observes the new status.
	page, err := app.Customers().Get(context.Background())
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if len(page.Users) != 1 || page.Users[0].Status != models.UserActive {
		t.Fatalf("refetched page = %+v", page)
	}
}

func TestAccountMutationsInvalidateAccountList(t *testing.T) {
	app, mock := newTestApp(t)
	customer := mock.SeedUser("Carla", "carla@example.com", "pw-carla-1", models.RoleCustomer, models.UserActive)

	if _, err := app.AllAccounts().Get(context.Background()); err != nil {
		t.Fatalf("accounts: %v", err)
	}
	created, err := app.CreateAccount().Do(context.Background(), services.CreateAccountInput{
		UserID: customer.ID, AccountType: models.AccountChecking, Currency: "USD",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !entryStale(t, app.Store, cache.K("accounts", "all")) {
		t.Fatal("create did not invalidate the account list")
	}

	page, err := app.AllAccounts().Get(context.Background())
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if page.Total != 1 || page.Accounts[0].AccountNumber != created.AccountNumber {
		t.Fatalf("page = %+v", page)
	}

	if _, err := app.DeleteAccount().Do(context.Background(), created.AccountNumber); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !entryStale(t, app.Store, cache.K("accounts", "all")) {
		t.Fatal("delete did not invalidate the account list")
	}
}

func TestApproveApplicationInvalidatesApplicationsAndCustomers(t *testing.T) {
	app, mock := newTestApp(t)
	application := mock.SeedApplication("Pending Pete", "pete@example.com")

	if _, err := app.PendingApplications().Get(context.Background()); err != nil {
		t.Fatalf("applications: %v", err)
	}
	if _, err := app.Customers().Get(context.Background()); err != nil {
		t.Fatalf("customers: %v", err)
	}

	if _, err := app.ApproveApplication().Do(context.Background(), application.UserID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !entryStale(t, app.Store, cache.K("admin", "pendingApplications")) {
		t.Fatal("applications entry should be stale")
	}
	if !entryStale(t, app.Store, cache.K("customers")) {
		t.Fatal("customers entry should be stale")
	}

	page, err := app.PendingApplications().Get(context.Background())
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if len(page.Applications) != 0 {
		t.Fatalf("approved application still pending: %+v", page)
	}
}

func TestUpdateTransactionStatusInvalidatesDetailAndList(t *testing.T) {
	app, mock := newTestApp(t)
	from := "ACC-1"
	tx := mock.SeedTransaction(models.TxWithdrawal, models.TxPending, decimal.NewFromInt(10), &from, nil)
	other := mock.SeedTransaction(models.TxDeposit, models.TxCompleted, decimal.NewFromInt(20), nil, &from)

	if _, err := app.TransactionDetails(tx.TransactionID).Get(context.Background()); err != nil {
		t.Fatalf("details: %v", err)
	}
	if _, err := app.TransactionDetails(other.TransactionID).Get(context.Background()); err != nil {
		t.Fatalf("details: %v", err)
	}
	if _, err := app.AllTransactions().Get(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}

	_, err := app.UpdateTransactionStatus().Do(context.Background(), UpdateTransactionStatusInput{
		TransactionID: tx.TransactionID, Status: models.TxCompleted,
	})
	if err != nil {
		t.Fatalf("mutation: %v", err)
	}

	if !entryStale(t, app.Store, cache.K("transaction", tx.TransactionID)) {
		t.Fatal("detail entry should be stale")
	}
	if !entryStale(t, app.Store, cache.K("transactions", "all")) {
		t.Fatal("list entry should be stale")
	}
	if entryStale(t, app.Store, cache.K("transaction", other.TransactionID)) {
		t.Fatal("unrelated detail entry was invalidated")
	}
}

func TestCreateStaffInvalidatesStaffList(t *testing.T) {
	app, _ := newTestApp(t)

	before, err := app.Staff().Get(context.Background())
	if err != nil {
		t.Fatalf("staff: %v", err)
	}

	created, err := app.CreateStaff().Do(context.Background(), services.CreateStaffInput{
		Name: "New Banker", Email: "banker@bank.test", Password: "longenough", Role: models.RoleBanker,
	})
	if err != nil {
		t.Fatalf("create staff: %v", err)
	}
	if !entryStale(t, app.Store, cache.K("staff")) {
		t.Fatal("staff entry should be stale")
	}

	after, err := app.Staff().Get(context.Background())
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if after.Total != before.Total+1 {
		t.Fatalf("staff total = %d, want %d", after.Total, before.Total+1)
	}
	found := false
	for _, user := range after.Users {
		if user.ID == created.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("new staff member missing after refetch")
	}
}

func TestParameterizedQueriesAreDisabledWhenEmpty(t *testing.T) {
	app, _ := newTestApp(t)

	if _, err := app.TransactionDetails("").Get(context.Background()); err != cache.ErrDisabled {
		t.Fatalf("err = %v, want ErrDisabled", err)
	}
	if _, err := app.AccountTransactions("").Get(context.Background()); err != cache.ErrDisabled {
		t.Fatalf("err = %v, want ErrDisabled", err)
	}
	if _, err := app.UserActivity("").Get(context.Background()); err != cache.ErrDisabled {
		t.Fatalf("err = %v, want ErrDisabled", err)
	}
}

func TestAuthCheckUsesFiveMinuteStaleTime(t *testing.T) {
	app, _ := newTestApp(t)
	check := app.AuthCheck()
	if check.StaleTime != 5*time.Minute {
		t.Fatalf("stale time = %v", check.StaleTime)
	}
	valid, err := check.Get(context.Background())
	if err != nil || !valid {
		t.Fatalf("auth check = %v, %v", valid, err)
	}
}

func TestMutationExposesInFlightFlag(t *testing.T) {
	app, mock := newTestApp(t)
	customer := mock.SeedUser("Carla", "carla@example.com", "pw-carla-1", models.RoleCustomer, models.UserActive)
	account := mock.SeedAccount(customer.ID, models.AccountChecking, "USD", decimal.NewFromInt(100))

	deposit := app.Deposit()
	if deposit.InFlight() {
		t.Fatal("in-flight before invocation")
	}
	if _, err := deposit.Do(context.Background(), MoveFundsInput{
		AccountNumber: account.AccountNumber, Amount: decimal.NewFromInt(5),
	}); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if deposit.InFlight() {
		t.Fatal("in-flight after completion")
	}
}

func keyIn(keys []cache.Key, key cache.Key) bool {
	for _, k := range keys {
		if k.Equal(key) {
			return true
		}
	}
	return false
}

func TestEveryMutationInvalidatesExactlyItsDeclaredKeys(t *testing.T) {
	app, mock := newTestApp(t)
	customer := mock.SeedUser("Carla", "carla@example.com", "pw-carla-1", models.RoleCustomer, models.UserPending)
	account := mock.SeedAccount(customer.ID, models.AccountChecking, "USD", decimal.NewFromInt(100))
	from := account.AccountNumber
	tx := mock.SeedTransaction(models.TxWithdrawal, models.TxPending, decimal.NewFromInt(10), &from, nil)
	application := mock.SeedApplication("Pending Pete", "pete@example.com")

	tracked := []cache.Key{
		cache.K("accounts", "all"),
		cache.K("customers"),
		cache.K("transactions", "all"),
		cache.K("transaction", tx.TransactionID),
		cache.K("admin", "pendingApplications"),
		cache.K("staff"),
	}

	ctx := context.Background()
	cases := []struct {
		name  string
		run   func() error
		stale []cache.Key
	}{
		{
			name: "create account",
			run: func() error {
				_, err := app.CreateAccount().Do(ctx, services.CreateAccountInput{
					UserID: customer.ID, AccountType: models.AccountSavings, Currency: "USD",
				})
				return err
			},
			stale: []cache.Key{cache.K("accounts", "all")},
		},
		{
			name: "delete account",
			run: func() error {
				doomed := mock.SeedAccount(customer.ID, models.AccountChecking, "USD", decimal.Zero)
				_, err := app.DeleteAccount().Do(ctx, doomed.AccountNumber)
				return err
			},
			stale: []cache.Key{cache.K("accounts", "all")},
		},
		{
			name: "airdrop",
			run: func() error {
				_, err := app.Airdrop().Do(ctx, AirdropInput{UserID: customer.ID, Amount: decimal.NewFromInt(5)})
				return err
			},
			stale: []cache.Key{cache.K("accounts", "all")},
		},
		{
			name: "deposit",
			run: func() error {
				_, err := app.Deposit().Do(ctx, MoveFundsInput{AccountNumber: account.AccountNumber, Amount: decimal.NewFromInt(20)})
				return err
			},
			stale: []cache.Key{cache.K("accounts", "all")},
		},
		{
			name: "withdraw",
			run: func() error {
				_, err := app.Withdraw().Do(ctx, MoveFundsInput{AccountNumber: account.AccountNumber, Amount: decimal.NewFromInt(10)})
				return err
			},
			stale: []cache.Key{cache.K("accounts", "all")},
		},
		{
			name: "update user status",
			run: func() error {
				_, err := app.UpdateUserStatus().Do(ctx, UpdateUserStatusInput{UserID: customer.ID, Status: models.UserActive})
				return err
			},
			stale: []cache.Key{cache.K("customers")},
		},
		{
			name: "update user role",
			run: func() error {
				_, err := app.UpdateUserRole().Do(ctx, UpdateUserRoleInput{UserID: customer.ID, Role: models.RoleCustomer})
				return err
			},
			stale: []cache.Key{cache.K("customers")},
		},
		{
			name: "verify customer",
			run: func() error {
				_, err := app.VerifyCustomer().Do(ctx, customer.ID)
				return err
			},
			stale: []cache.Key{cache.K("customers")},
		},
		{
			name: "process application",
			run: func() error {
				_, err := app.ProcessApplication().Do(ctx, ProcessApplicationInput{
					UserID: application.UserID, Status: models.ApplicationRejected, Reason: "incomplete documents",
				})
				return err
			},
			stale: []cache.Key{cache.K("admin", "pendingApplications"), cache.K("customers")},
		},
		{
			name: "update transaction status",
			run: func() error {
				_, err := app.UpdateTransactionStatus().Do(ctx, UpdateTransactionStatusInput{
					TransactionID: tx.TransactionID, Status: models.TxCompleted,
				})
				return err
			},
			stale: []cache.Key{cache.K("transaction", tx.TransactionID), cache.K("transactions", "all")},
		},
		{
			name: "create staff",
			run: func() error {
				_, err := app.CreateStaff().Do(ctx, services.CreateStaffInput{
					Name: "New Banker", Email: "banker@bank.test", Password: "longenough", Role: models.RoleBanker,
				})
				return err
			},
			stale: []cache.Key{cache.K("staff")},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, key := range tracked {
				app.Store.Set(key, "seed")
			}
			if err := tc.run(); err != nil {
				t.Fatalf("mutation: %v", err)
			}
			for _, key := range tracked {
				entry, ok := app.Store.Entry(key)
				if !ok {
					t.Fatalf("no cache entry for %v", key)
				}
				if want := keyIn(tc.stale, key); entry.Stale != want {
					t.Errorf("%v stale = %v, want %v", key, entry.Stale, want)
				}
			}
		})
	}
}

func TestValidationFailureDoesNotTouchCache(t *testing.T) {
	app, _ := newTestApp(t)
	if _, err := app.AllAccounts().Get(context.Background()); err != nil {
		t.Fatalf("accounts: %v", err)
	}

	_, err := app.Airdrop().Do(context.Background(), AirdropInput{UserID: "user-1", Amount: decimal.Zero})
	if !api.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if entryStale(t, app.Store, cache.K("accounts", "all")) {
		t.Fatal("failed mutation invalidated the cache")
	}
}
