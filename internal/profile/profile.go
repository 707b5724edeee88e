// Package profile backs the profile screen: account overview, profile
// updates and the paged order history.
package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/kmalykh/shop_mobile/internal/api"
	"github.com/kmalykh/shop_mobile/internal/models"
)

var ErrValidation = errors.New("validation")

const ordersPerPage = 10

type Service struct {
	API *api.Client
}

// Overview is what the profile tab shows before any editing: the fresh
// user record and the user's own reviews.
type Overview struct {
	User    models.User
	Reviews []models.Feedback
}

func (s *Service) Overview(ctx context.Context, userID string) (*Overview, error) {
	user, err := s.API.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.API.GetUserFeedbacks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Overview{User: *user, Reviews: reviews}, nil
}

type UpdateForm struct {
	Login           string
	Email           string
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// ValidateUpdate returns per-field messages; an empty map means the form
// is good to send.
func ValidateUpdate(f UpdateForm) map[string]string {
	errs := make(map[string]string)
	if f.NewPassword != "" && f.CurrentPassword == "" {
		errs["currentPassword"] = "Требуется текущий пароль"
	}
	if f.NewPassword != f.ConfirmPassword {
		errs["confirmPassword"] = "Пароли не совпадают"
	}
	return errs
}

// Update validates the form, resolves the user's role id by name (the
// update endpoint wants the id, the session only knows the name) and
// sends the change.
func (s *Service) Update(ctx context.Context, user *models.User, f UpdateForm) error {
	if errs := ValidateUpdate(f); len(errs) > 0 {
		for _, msg := range errs {
			return fmt.Errorf("%w: %s", ErrValidation, msg)
		}
	}

	roles, err := s.API.GetRoles(ctx)
	if err != nil {
		return err
	}
	var roleID int
	for _, r := range roles {
		if r.RoleName == user.RoleName {
			roleID = r.RoleID
			break
		}
	}

	return s.API.UpdateUser(ctx, user.UserID, api.UpdateUserRequest{
		Login:           f.Login,
		Email:           f.Email,
		CurrentPassword: f.CurrentPassword,
		NewPassword:     f.NewPassword,
		RoleID:          roleID,
	})
}

type OrdersPage struct {
	Items      []models.Order
	Page       int
	TotalPages int
	Total      int
}

func (s *Service) Orders(ctx context.Context, userID string, page int) (*OrdersPage, error) {
	if page < 1 {
		page = 1
	}
	items, total, err := s.API.GetUserOrders(ctx, userID, page, ordersPerPage)
	if err != nil {
		return nil, err
	}
	return &OrdersPage{
		Items:      items,
		Page:       page,
		TotalPages: Pages(total, ordersPerPage),
		Total:      total,
	}, nil
}

func Pages(total, take int) int {
	if total <= 0 || take <= 0 {
		return 0
	}
	return (total + take - 1) / take
}
