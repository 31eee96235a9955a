package services

import (
	"context"
	"fmt"

	"backoffice/internal/api"
	"backoffice/internal/models"
)

type UserService struct {
	client *api.Client
}

func NewUserService(client *api.Client) *UserService {
	return &UserService{client: client}
}

func (s *UserService) ListAll(ctx context.Context, page, limit int) (models.UserPage, error) {
	var out models.UserPage
	path := fmt.Sprintf("/admin/users?page=%d&limit=%d", page, limit)
	if err := s.client.Get(ctx, path, &out); err != nil {
		return models.UserPage{}, err
	}
	return out, nil
}

func (s *UserService) GetByID(ctx context.Context, userID string) (models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := s.client.Get(ctx, "/admin/users/"+userID, &out); err != nil {
		return models.User{}, err
	}
	return out.User, nil
}

func (s *UserService) UpdateStatus(ctx context.Context, userID, status string) (models.User, error) {
	if !models.ValidUserStatus(status) {
		return models.User{}, &api.ValidationError{Field: "status", Err: errInvalidEnum}
	}
	var out struct {
		User models.User `json:"user"`
	}
	body := map[string]string{"status": status}
	if err := s.client.Put(ctx, "/admin/users/"+userID+"/status", body, &out); err != nil {
		return models.User{}, err
	}
	return out.User, nil
}

func (s *UserService) UpdateRole(ctx context.Context, userID, role string) (models.User, error) {
	if !models.ValidRole(role) {
		return models.User{}, &api.ValidationError{Field: "role", Err: errInvalidEnum}
	}
	var out struct {
		User models.User `json:"user"`
	}
	body := map[string]string{"role": role}
	if err := s.client.Put(ctx, "/admin/users/"+userID+"/role", body, &out); err != nil {
		return models.User{}, err
	}
	return out.User, nil
}

func (s *UserService) ActivityLogs(ctx context.Context, userID string, page, limit int) (models.ActivityLogPage, error) {
	var out models.ActivityLogPage
	path := fmt.Sprintf("/admin/users/%s/activity?page=%d&limit=%d", userID, page, limit)
	if err := s.client.Get(ctx, path, &out); err != nil {
		return models.ActivityLogPage{}, err
	}
	return out, nil
}
