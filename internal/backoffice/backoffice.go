// Package backoffice wires the resource services into the cache layer: one
// query or mutation per dashboard use case, each with its cache key and
// invalidation set.
package backoffice

import (
	"net/http"

	"backoffice/internal/api"
	"backoffice/internal/cache"
	"backoffice/internal/services"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

type Backoffice struct {
	Store        *cache.Store
	Accounts     *services.AccountService
	Users        *services.UserService
	Transactions *services.TransactionService
	Admin        *services.AdminService
	Auth         *services.AuthService
}

func New(baseURL string, httpClient *http.Client, tokens api.TokenSource) *Backoffice {
	client := api.NewClient(baseURL, httpClient, tokens)
	return FromClient(client)
}

func FromClient(client *api.Client) *Backoffice {
	return &Backoffice{
		Store:        cache.NewStore(),
		Accounts:     services.NewAccountService(client),
		Users:        services.NewUserService(client),
		Transactions: services.NewTransactionService(client),
		Admin:        services.NewAdminService(client),
		Auth:         services.NewAuthService(client),
	}
}
