package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/blogware/blogctl/internal/domain"
)

type LoginResult struct {
	Token string
	User  domain.User
}

type RegisterInput struct {
	Email    string
	Name     string
	Password string
	// AvatarPath optionally points at a local image uploaded with the form.
	AvatarPath string
}

type ProfileInput struct {
	Name       string
	AvatarPath string
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	payload := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var result struct {
		Token string   `json:"token"`
		User  wireUser `json:"user"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/login", payload, &result); err != nil {
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}

	return LoginResult{Token: result.Token, User: result.User.toDomain()}, nil
}

func (c *Client) Register(ctx context.Context, input RegisterInput) (domain.UserID, error) {
	fields := map[string]string{
		"email":    input.Email,
		"name":     input.Name,
		"password": input.Password,
	}

	var result struct {
		UserID int64 `json:"userId"`
	}
	if err := c.sendMultipart(ctx, http.MethodPost, "/auth/register", fields, input.AvatarPath, &result); err != nil {
		return 0, fmt.Errorf("register: %w", err)
	}

	return domain.UserID(result.UserID), nil
}

func (c *Client) CurrentUser(ctx context.Context) (domain.User, error) {
	var wire wireUser
	if err := c.getJSON(ctx, "/auth/me", &wire); err != nil {
		return domain.User{}, fmt.Errorf("fetch current user: %w", err)
	}

	return wire.toDomain(), nil
}

// GoogleAuthURL is the browser entry point for the server-side OAuth flow;
// the server redirects back with a token query parameter.
func (c *Client) GoogleAuthURL() string {
	return c.baseURL + "/auth/google"
}

func (c *Client) UpdateProfile(ctx context.Context, input ProfileInput) (domain.User, error) {
	fields := map[string]string{"name": input.Name}

	var result struct {
		User wireUser `json:"user"`
	}
	if err := c.sendMultipart(ctx, http.MethodPut, "/users/profile", fields, input.AvatarPath, &result); err != nil {
		return domain.User{}, fmt.Errorf("update profile: %w", err)
	}

	return result.User.toDomain(), nil
}

func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	payload := struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}{CurrentPassword: currentPassword, NewPassword: newPassword}

	if err := c.sendJSON(ctx, http.MethodPut, "/users/password", payload, nil); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	return nil
}
