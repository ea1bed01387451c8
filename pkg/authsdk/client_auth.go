package authsdk

import (
	"context"
	"net/http"
)

// Register creates a user.
func (c *SDKClient) Register(ctx context.Context, username, password string) (*UserResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/auth/register", Credentials{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusCreated); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates and stores the session cookie in the client's jar.
// It returns the welcome message.
func (c *SDKClient) Login(ctx context.Context, username, password string) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", Credentials{
		Username: username,
		Password: password,
	})
	if err != nil {
		return "", err
	}

	var msg MessageResponse
	if err := decodeJSON(resp, &msg, http.StatusOK); err != nil {
		return "", err
	}
	return msg.Message, nil
}

// Logout ends the current session. It returns "logged out", or "no session"
// when the client had none.
func (c *SDKClient) Logout(ctx context.Context) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/auth/logout", nil)
	if err != nil {
		return "", err
	}

	var msg MessageResponse
	if err := decodeJSON(resp, &msg, http.StatusOK); err != nil {
		return "", err
	}
	return msg.Message, nil
}

// ListUsers returns every registered user. Requires a session.
func (c *SDKClient) ListUsers(ctx context.Context) ([]UserResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/users", nil)
	if err != nil {
		return nil, err
	}

	var users []UserResponse
	if err := decodeJSON(resp, &users, http.StatusOK); err != nil {
		return nil, err
	}
	return users, nil
}
