package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kmalykh/shop_mobile/internal/models"
)

// authResponse is what the users endpoints return: either a user or a
// human-readable refusal, both with HTTP 200.
type authResponse struct {
	User    *models.User `json:"user"`
	Message string       `json:"message"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	var out authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/users/login", body, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		msg := out.Message
		if msg == "" {
			msg = "вход отклонен"
		}
		return nil, fmt.Errorf("%w: %s", ErrAuth, msg)
	}
	return out.User, nil
}

func (c *Client) Register(ctx context.Context, login, email, password string) (*models.User, error) {
	body := map[string]string{
		"login":    login,
		"email":    email,
		"password": password,
	}
	var out authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/users", body, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		msg := out.Message
		if msg == "" {
			msg = "регистрация отклонена"
		}
		return nil, fmt.Errorf("%w: %s", ErrAuth, msg)
	}
	return out.User, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	var out models.User
	if err := c.doJSON(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type UpdateUserRequest struct {
	Login           string `json:"login"`
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword,omitempty"`
	RoleID          int    `json:"roleId"`
}

// UpdateUser carries the acting user twice because the API wants the
// target in the path and the actor in the query.
func (c *Client) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) error {
	path := fmt.Sprintf("/users/%s?userId=%s", url.PathEscape(id), url.QueryEscape(id))
	return c.doJSON(ctx, http.MethodPut, path, req, nil)
}

func (c *Client) GetRoles(ctx context.Context) ([]models.Role, error) {
	var out struct {
		Items []models.Role `json:"items"`
		Total int           `json:"total"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/roles", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}
