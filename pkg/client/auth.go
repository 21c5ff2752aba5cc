package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/naveenspark/bidboard/pkg/domain"
)

// Identity providers accepted by the token-exchange login routes.
const (
	ProviderGoogle    = "google"
	ProviderMicrosoft = "microsoft"
)

// SignupRequest registers a new account of the given role. Provider signups
// expect the password under "pass".
func SignupRequest(role domain.UserType, fields map[string]string) Request {
	return Request{Method: http.MethodPost, Path: "/auth/signup/" + role.PathSegment(), Body: fields}
}

// LoginRequest exchanges email and password for an access token.
func LoginRequest(role domain.UserType, fields map[string]string) Request {
	return Request{Method: http.MethodPost, Path: "/auth/login/" + role.PathSegment(), Body: fields}
}

// IdentityLoginRequest forwards a third-party credential verbatim.
func IdentityLoginRequest(provider string, role domain.UserType, credential string) Request {
	return Request{
		Method: http.MethodPost,
		Path:   "/auth/login/" + url.PathEscape(provider) + "/" + url.PathEscape(string(role)),
		Body:   map[string]string{"token": credential},
	}
}

// Signup creates an account and returns the created profile.
func (c *Client) Signup(ctx context.Context, role domain.UserType, fields map[string]string) (domain.Profile, error) {
	var p domain.Profile
	if err := c.Dispatch(ctx, SignupRequest(role, fields)).Decode(&p); err != nil {
		return nil, fmt.Errorf("client.Signup: %w", err)
	}
	return p, nil
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, role domain.UserType, fields map[string]string) (*domain.Token, error) {
	var tok domain.Token
	if err := c.Dispatch(ctx, LoginRequest(role, fields)).Decode(&tok); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &tok, nil
}

// IdentityLogin authenticates with a Google or Microsoft credential.
func (c *Client) IdentityLogin(ctx context.Context, provider string, role domain.UserType, credential string) (*domain.Token, error) {
	var tok domain.Token
	if err := c.Dispatch(ctx, IdentityLoginRequest(provider, role, credential)).Decode(&tok); err != nil {
		return nil, fmt.Errorf("client.IdentityLogin: %w", err)
	}
	return &tok, nil
}
