package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"backoffice/internal/api"
	"backoffice/internal/models"
	"backoffice/internal/money"
)

type AccountService struct {
	client *api.Client
}

func NewAccountService(client *api.Client) *AccountService {
	return &AccountService{client: client}
}

type CreateAccountInput struct {
	UserID      string `json:"user_id"`
	AccountType string `json:"account_type"`
	Currency    string `json:"currency"`
}

func (s *AccountService) ListAll(ctx context.Context, page, limit int) (models.AccountPage, error) {
	var out models.AccountPage
	path := fmt.Sprintf("/accounts/all?page=%d&limit=%d", page, limit)
	if err := s.client.Get(ctx, path, &out); err != nil {
		return models.AccountPage{}, err
	}
	return out, nil
}

func (s *AccountService) GetByNumber(ctx context.Context, accountNumber string) (models.Account, error) {
	var out struct {
		Account models.Account `json:"account"`
	}
	if err := s.client.Get(ctx, "/admin/accounts/"+accountNumber, &out); err != nil {
		return models.Account{}, err
	}
	return out.Account, nil
}

func (s *AccountService) Create(ctx context.Context, input CreateAccountInput) (models.Account, error) {
	if input.UserID == "" {
		return models.Account{}, &api.ValidationError{Field: "user_id", Err: errMissing}
	}
	if !models.ValidAccountType(input.AccountType) {
		return models.Account{}, &api.ValidationError{Field: "account_type", Err: errInvalidEnum}
	}
	var out struct {
		Account models.Account `json:"account"`
	}
	if err := s.client.Post(ctx, "/accounts/create", input, &out); err != nil {
		return models.Account{}, err
	}
	return out.Account, nil
}

func (s *AccountService) Delete(ctx context.Context, accountNumber string) (string, error) {
	var out struct {
		Msg string `json:"msg"`
	}
	if err := s.client.Delete(ctx, "/accounts/"+accountNumber, &out); err != nil {
		return "", err
	}
	return out.Msg, nil
}

func (s *AccountService) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (models.Account, error) {
	if err := money.ValidatePositive(amount); err != nil {
		return models.Account{}, &api.ValidationError{Field: "amount", Err: err}
	}
	body := map[string]any{"account_number": accountNumber, "amount": amount}
	var out struct {
		Account models.Account `json:"account"`
	}
	if err := s.client.Post(ctx, "/accounts/deposit", body, &out); err != nil {
		return models.Account{}, err
	}
	return out.Account, nil
}

func (s *AccountService) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) (models.Account, error) {
	if err := money.ValidatePositive(amount); err != nil {
		return models.Account{}, &api.ValidationError{Field: "amount", Err: err}
	}
	body := map[string]any{"account_number": accountNumber, "amount": amount}
	var out struct {
		Account models.Account `json:"account"`
	}
	if err := s.client.Post(ctx, "/accounts/withdraw", body, &out); err != nil {
		return models.Account{}, err
	}
	return out.Account, nil
}

func (s *AccountService) Airdrop(ctx context.Context, userID string, amount decimal.Decimal) (string, error) {
	if err := money.ValidatePositive(amount); err != nil {
		return "", &api.ValidationError{Field: "amount", Err: err}
	}
	body := map[string]any{"user_id": userID, "amount": amount}
	var out struct {
		Msg string `json:"msg"`
	}
	if err := s.client.Post(ctx, "/accounts/airdrop", body, &out); err != nil {
		return "", err
	}
	return out.Msg, nil
}
