package gateway

import (
	"context"
	"net/http"

	"github.com/farellandr/clubhub/internal/club"
)

type RegisterInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	RollNumber string `json:"roll_number"`
}

type Session struct {
	Token string    `json:"token"`
	User  club.User `json:"user"`
}

func (c *Client) Register(ctx context.Context, in RegisterInput) Result[Session] {
	body, err := jsonBody(in)
	if err != nil {
		return failure[Session](0, "failed to encode request: %v", err)
	}
	return do[Session](ctx, c, request{
		method: http.MethodPost, path: "/api/auth/register",
		body: body, contentType: "application/json",
	})
}

// Login does not keep the token; callers decide whether to SetToken.
func (c *Client) Login(ctx context.Context, email, password string) Result[Session] {
	body, err := jsonBody(map[string]string{"email": email, "password": password})
	if err != nil {
		return failure[Session](0, "failed to encode request: %v", err)
	}
	return do[Session](ctx, c, request{
		method: http.MethodPost, path: "/api/auth/login",
		body: body, contentType: "application/json",
	})
}

func (c *Client) Me(ctx context.Context) Result[club.User] {
	return do[club.User](ctx, c, request{method: http.MethodGet, path: "/api/auth/me", key: "user"})
}
