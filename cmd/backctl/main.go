package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"backoffice/internal/backoffice"
	"backoffice/internal/bankmock"
	"backoffice/internal/config"
	"backoffice/internal/live"
	"backoffice/internal/models"
	"backoffice/internal/money"
	"backoffice/internal/services"
	"backoffice/internal/session"
)

func main() {
	demo := flag.Bool("demo", false, "run against an in-process demo backend")
	flag.Parse()

	if err := realMain(*demo, flag.Args()); err != nil {
		log.Fatalf("%v", err)
	}
}

// realMain owns every deferred cleanup; main exits only after they have run.
func realMain(demo bool, args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("no command given")
	}

	cfg := config.Load()
	if demo {
		baseURL, stop, err := startDemoBackend()
		if err != nil {
			return fmt.Errorf("demo backend: %w", err)
		}
		defer stop()
		cfg.APIBaseURL = baseURL
		cfg.TokenFile = "" // demo sessions are not persisted
	}

	tokens := newTokenStore(cfg)
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	app := backoffice.New(cfg.APIBaseURL, httpClient, tokens)
	sess := session.New(app.Auth, tokens, session.NavigatorFunc(func(path string) {
		log.Printf("navigate: %s", path)
	}), cfg.DashboardPath, cfg.LoginPath)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	if demo {
		if _, err := sess.Login(ctx, services.Credentials{Email: demoAdminEmail, Password: demoAdminPassword}); err != nil {
			return fmt.Errorf("demo login: %w", err)
		}
	}
	return run(ctx, cfg, app, sess, args)
}

func newTokenStore(cfg config.Config) session.TokenStore {
	if cfg.TokenFile == "" {
		return session.NewMemoryStore()
	}
	return session.NewFileStore(cfg.TokenFile)
}

func run(ctx context.Context, cfg config.Config, app *backoffice.Backoffice, sess *session.Session, args []string) error {
	switch args[0] {
	case "login":
		if len(args) != 3 {
			return fmt.Errorf("usage: login <email> <password>")
		}
		result, err := sess.Login(ctx, services.Credentials{Email: args[1], Password: args[2]})
		if err != nil {
			return err
		}
		if result.User != nil {
			fmt.Printf("logged in as %s (%s)\n", result.User.Name, result.User.Role)
		} else {
			fmt.Println("logged in")
		}
		return nil
	case "logout":
		return sess.Logout(ctx)
	case "status":
		fmt.Printf("session valid: %v\n", sess.Valid(ctx))
		return nil
	case "accounts":
		page, err := app.AllAccounts().Get(ctx)
		if err != nil {
			return err
		}
		for _, account := range page.Accounts {
			fmt.Printf("%s  %-10s  %-8s  %s %s\n", account.AccountNumber, account.AccountType,
				account.Status, money.Format(account.Balance), account.Currency)
		}
		fmt.Printf("total: %d\n", page.Total)
		return nil
	case "deposit", "withdraw":
		if len(args) != 3 {
			return fmt.Errorf("usage: %s <accountNumber> <amount>", args[0])
		}
		amount, err := money.ParsePositive(args[2])
		if err != nil {
			return err
		}
		account, err := moveFunds(ctx, app, args[0], args[1], amount)
		if err != nil {
			return err
		}
		fmt.Printf("%s balance: %s %s\n", account.AccountNumber, money.Format(account.Balance), account.Currency)
		return nil
	case "airdrop":
		if len(args) != 3 {
			return fmt.Errorf("usage: airdrop <userID> <amount>")
		}
		amount, err := money.ParsePositive(args[2])
		if err != nil {
			return err
		}
		msg, err := app.Airdrop().Do(ctx, backoffice.AirdropInput{UserID: args[1], Amount: amount})
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	case "users":
		page, err := app.Customers().Get(ctx)
		if err != nil {
			return err
		}
		for _, user := range page.Users {
			fmt.Printf("%s  %-20s  %-10s  %s\n", user.ID, user.Name, user.Role, user.Status)
		}
		fmt.Printf("total: %d\n", page.Total)
		return nil
	case "transactions":
		page, err := app.AllTransactions().Get(ctx)
		if err != nil {
			return err
		}
		for _, tx := range page.Transactions {
			fmt.Printf("%s  %-10s  %-9s  %s\n", tx.TransactionID, tx.Type, tx.Status, money.Format(tx.Amount))
		}
		fmt.Printf("total: %d\n", page.Total)
		return nil
	case "applications":
		page, err := app.PendingApplications().Get(ctx)
		if err != nil {
			return err
		}
		for _, application := range page.Applications {
			fmt.Printf("%s  %-20s  %s\n", application.UserID, application.Name, application.Email)
		}
		return nil
	case "approve", "reject":
		if len(args) < 2 {
			return fmt.Errorf("usage: %s <userID> [reason]", args[0])
		}
		status := models.ApplicationApproved
		if args[0] == "reject" {
			status = models.ApplicationRejected
		}
		application, err := app.ProcessApplication().Do(ctx, backoffice.ProcessApplicationInput{
			UserID: args[1],
			Status: status,
			Reason: strings.Join(args[2:], " "),
		})
		if err != nil {
			return err
		}
		fmt.Printf("application %s: %s\n", application.UserID, application.Status)
		return nil
	case "staff":
		page, err := app.Staff().Get(ctx)
		if err != nil {
			return err
		}
		for _, user := range page.Users {
			fmt.Printf("%s  %-20s  %-10s  %s\n", user.ID, user.Name, user.Role, user.Status)
		}
		fmt.Printf("total: %d\n", page.Total)
		return nil
	case "add-staff":
		if len(args) != 6 {
			return fmt.Errorf("usage: add-staff <name> <email> <password> <confirm> <role>")
		}
		user, err := app.CreateStaff().Do(ctx, services.CreateStaffInput{
			Name:                 args[1],
			Email:                args[2],
			Password:             args[3],
			PasswordConfirmation: args[4],
			Role:                 args[5],
		})
		if err != nil {
			return err
		}
		fmt.Printf("created %s (%s)\n", user.Name, user.Role)
		return nil
	case "stats":
		stats, err := app.Stats().Get(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("users: %d  accounts: %d  transactions: %d  active users: %d\n",
			stats.UserCount, stats.AccountCount, stats.TransactionCount, stats.ActiveUsers)
		return nil
	case "watch":
		return watch(cfg, app, sess)
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func moveFunds(ctx context.Context, app *backoffice.Backoffice, verb, accountNumber string, amount decimal.Decimal) (models.Account, error) {
	input := backoffice.MoveFundsInput{AccountNumber: accountNumber, Amount: amount}
	if verb == "deposit" {
		return app.Deposit().Do(ctx, input)
	}
	return app.Withdraw().Do(ctx, input)
}

// watch runs the live invalidation feed until interrupted, logging each
// refetch of the mounted account list.
func watch(cfg config.Config, app *backoffice.Backoffice, sess *session.Session) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	accounts := app.AllAccounts()
	if _, err := accounts.Get(ctx); err != nil {
		return err
	}
	unmount := accounts.Mount(ctx)
	defer unmount()

	wsURL := strings.Replace(cfg.APIBaseURL, "http", "ws", 1) + "/ws/events"
	feed := live.NewFeed(wsURL, sess.Token, app.Store)
	go func() {
		for {
			if err := feed.Run(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("live feed disconnected: %v", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(2 * time.Second):
			}
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	log.Printf("watching %s for changes", wsURL)
	<-shutdown
	return nil
}

const (
	demoAdminEmail    = "admin@backoffice.test"
	demoAdminPassword = "admin-demo-pass"
)

func startDemoBackend() (string, func(), error) {
	mock := bankmock.New()
	mock.SeedUser("Demo Admin", demoAdminEmail, demoAdminPassword, models.RoleAdmin, models.UserActive)
	customer := mock.SeedUser("Carla Customer", "carla@example.com", "carla-pass", models.RoleCustomer, models.UserActive)
	mock.SeedAccount(customer.ID, models.AccountChecking, "USD", decimal.NewFromInt(250))
	mock.SeedApplication("Pending Pete", "pete@example.com")

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, err
	}
	server := &http.Server{Handler: mock.Routes()}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("demo backend: %v", err)
		}
	}()
	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
	return "http://" + listener.Addr().String(), stop, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: backctl [--demo] <command>

commands:
  login <email> <password>
  logout
  status
  accounts
  deposit <accountNumber> <amount>
  withdraw <accountNumber> <amount>
  airdrop <userID> <amount>
  users
  transactions
  applications
  approve <userID>
  reject <userID> [reason]
  staff
  add-staff <name> <email> <password> <confirm> <role>
  stats
  watch`)
}
