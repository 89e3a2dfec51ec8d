package api

import (
	"context"
	"net/http"

	"redstore/internal/domain"
)

type credentialsRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// LoginResult is the token plus profile returned by login and signup.
type LoginResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, http.MethodPost, "/auth/login", credentialsRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Signup(ctx context.Context, email, password, firstName, lastName string) (*LoginResult, error) {
	var out LoginResult
	in := credentialsRequest{Email: email, Password: password, FirstName: firstName, LastName: lastName}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me validates the stored credential and returns the profile behind it.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
