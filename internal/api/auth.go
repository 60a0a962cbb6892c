package api

import (
	"context"
	"net/http"

	"storefront/internal/model"
)

// invalidCredentials is reported when sign-in succeeds at the HTTP level
// but no token comes back.
const invalidCredentials = "Invalid credentials"

// SignIn exchanges credentials for a token.
func (c *Client) SignIn(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error) {
	var out model.AuthResponse
	err := c.do(ctx, request{resource: "auth", method: http.MethodPost, path: "/auth/signin", body: creds}, &out)
	if err != nil {
		return nil, err
	}
	if out.Token == "" {
		msg := out.Message
		if msg == "" || msg == "success" {
			msg = invalidCredentials
		}
		return nil, model.NewApplicationError(http.StatusUnauthorized, msg)
	}
	return &out, nil
}

// SignUp registers a new account. The API signs the user in on success.
func (c *Client) SignUp(ctx context.Context, in model.SignUpInput) (*model.AuthResponse, error) {
	var out model.AuthResponse
	if err := c.do(ctx, request{resource: "auth", method: http.MethodPost, path: "/auth/signup", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMe returns the profile of the token's user.
func (c *Client) GetMe(ctx context.Context, token string) (*model.User, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out model.Single[model.User]
	if err := c.do(ctx, request{resource: "users", method: http.MethodGet, path: "/users/getMe", token: token}, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}
