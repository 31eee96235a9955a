package services

import (
	"context"
	"fmt"

	"backoffice/internal/api"
	"backoffice/internal/models"
	"backoffice/internal/validator"
)

type AdminService struct {
	client *api.Client
}

func NewAdminService(client *api.Client) *AdminService {
	return &AdminService{client: client}
}

type CreateStaffInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	// PasswordConfirmation is checked client-side and never sent.
	PasswordConfirmation string `json:"-"`
}

type ProcessApplicationInput struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func (s *AdminService) ActivityLogs(ctx context.Context, page, limit int) (models.ActivityLogPage, error) {
	var out models.ActivityLogPage
	path := fmt.Sprintf("/admin/activity-logs?page=%d&limit=%d", page, limit)
	if err := s.client.Get(ctx, path, &out); err != nil {
		return models.ActivityLogPage{}, err
	}
	return out, nil
}

func (s *AdminService) Stats(ctx context.Context) (models.SystemStats, error) {
	var out models.SystemStats
	if err := s.client.Get(ctx, "/admin/stats", &out); err != nil {
		return models.SystemStats{}, err
	}
	return out, nil
}

func (s *AdminService) RecentActivities(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	var out struct {
		Activities []models.ActivityLog `json:"activities"`
	}
	path := fmt.Sprintf("/admin/recent-activities?limit=%d", limit)
	if err := s.client.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Activities, nil
}

func (s *AdminService) PendingApplications(ctx context.Context, page, limit int) (models.ApplicationPage, error) {
	var out models.ApplicationPage
	path := fmt.Sprintf("/admin/pending-applications?page=%d&limit=%d", page, limit)
	if err := s.client.Get(ctx, path, &out); err != nil {
		return models.ApplicationPage{}, err
	}
	return out, nil
}

func (s *AdminService) ProcessApplication(ctx context.Context, userID string, input ProcessApplicationInput) (models.PendingApplication, error) {
	if !models.ValidApplicationDecision(input.Status) {
		return models.PendingApplication{}, &api.ValidationError{Field: "status", Err: errInvalidEnum}
	}
	var out struct {
		Application models.PendingApplication `json:"application"`
	}
	if err := s.client.Put(ctx, "/admin/process-application/"+userID, input, &out); err != nil {
		return models.PendingApplication{}, err
	}
	return out.Application, nil
}

func (s *AdminService) ApproveApplication(ctx context.Context, userID string) (models.PendingApplication, error) {
	return s.ProcessApplication(ctx, userID, ProcessApplicationInput{Status: models.ApplicationApproved})
}

func (s *AdminService) VerifyCustomer(ctx context.Context, userID string) (models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := s.client.Put(ctx, "/admin/verify-customer/"+userID, nil, &out); err != nil {
		return models.User{}, err
	}
	return out.User, nil
}

func (s *AdminService) CreateStaff(ctx context.Context, input CreateStaffInput) (models.User, error) {
	if err := validator.ValidateName(input.Name); err != nil {
		return models.User{}, &api.ValidationError{Field: "name", Err: err}
	}
	if err := validator.ValidateEmail(input.Email); err != nil {
		return models.User{}, &api.ValidationError{Field: "email", Err: err}
	}
	if err := validator.ValidatePassword(input.Password); err != nil {
		return models.User{}, &api.ValidationError{Field: "password", Err: err}
	}
	if input.PasswordConfirmation != "" {
		if err := validator.ValidatePasswordConfirmation(input.Password, input.PasswordConfirmation); err != nil {
			return models.User{}, &api.ValidationError{Field: "password_confirmation", Err: err}
		}
	}
	if input.Role != models.RoleAdmin && input.Role != models.RoleBanker {
		return models.User{}, &api.ValidationError{Field: "role", Err: errInvalidEnum}
	}
	var out struct {
		User models.User `json:"user"`
	}
	if err := s.client.Post(ctx, "/admin/staff", input, &out); err != nil {
		return models.User{}, err
	}
	return out.User, nil
}

func (s *AdminService) ListStaff(ctx context.Context, page, limit int) (models.UserPage, error) {
	var out models.UserPage
	path := fmt.Sprintf("/admin/staff?page=%d&limit=%d", page, limit)
	if err := s.client.Get(ctx, path, &out); err != nil {
		return models.UserPage{}, err
	}
	return out, nil
}
