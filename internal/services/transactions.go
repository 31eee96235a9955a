package services

import (
	"context"
	"fmt"

	"backoffice/internal/api"
	"backoffice/internal/models"
)

type TransactionService struct {
	client *api.Client
}

func NewTransactionService(client *api.Client) *TransactionService {
	return &TransactionService{client: client}
}

func (s *TransactionService) ListAll(ctx context.Context, page, limit int) (models.TransactionPage, error) {
	var out models.TransactionPage
	path := fmt.Sprintf("/admin/transactions?page=%d&limit=%d", page, limit)
	if err := s.client.Get(ctx, path, &out); err != nil {
		return models.TransactionPage{}, err
	}
	return out, nil
}

func (s *TransactionService) ForAccount(ctx context.Context, accountNumber string, page, limit int) (models.TransactionPage, error) {
	var out models.TransactionPage
	path := fmt.Sprintf("/transactions/account/%s?page=%d&limit=%d", accountNumber, page, limit)
	if err := s.client.Get(ctx, path, &out); err != nil {
		return models.TransactionPage{}, err
	}
	return out, nil
}

func (s *TransactionService) ForUser(ctx context.Context, userID string, page, limit int) (models.TransactionPage, error) {
	var out models.TransactionPage
	path := fmt.Sprintf("/admin/transactions/user/%s?page=%d&limit=%d", userID, page, limit)
	if err := s.client.Get(ctx, path, &out); err != nil {
		return models.TransactionPage{}, err
	}
	return out, nil
}

func (s *TransactionService) GetByID(ctx context.Context, transactionID string) (models.Transaction, error) {
	var out struct {
		Transaction models.Transaction `json:"transaction"`
	}
	if err := s.client.Get(ctx, "/admin/transactions/"+transactionID, &out); err != nil {
		return models.Transaction{}, err
	}
	return out.Transaction, nil
}

func (s *TransactionService) UpdateStatus(ctx context.Context, transactionID, status string) (models.Transaction, error) {
	if !models.ValidTransactionStatus(status) {
		return models.Transaction{}, &api.ValidationError{Field: "status", Err: errInvalidEnum}
	}
	var out struct {
		Transaction models.Transaction `json:"transaction"`
	}
	body := map[string]string{"status": status}
	if err := s.client.Put(ctx, "/admin/transactions/"+transactionID+"/status", body, &out); err != nil {
		return models.Transaction{}, err
	}
	return out.Transaction, nil
}
