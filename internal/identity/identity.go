// Package identity runs the Google and Microsoft sign-in flows and yields the
// identity token the backend exchanges for a session.
package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/naveenspark/bidboard/internal/config"
	"github.com/naveenspark/bidboard/pkg/client"
	"github.com/naveenspark/bidboard/pkg/domain"
)

// DefaultTimeout bounds how long the flow waits for the browser callback.
const DefaultTimeout = 2 * time.Minute

// ErrNotConfigured is returned when no client ID is set for a provider.
var ErrNotConfigured = errors.New("identity provider not configured")

// Result is the outcome of one sign-in attempt. Role is the role that started
// it, so the caller knows which login endpoint to call.
type Result struct {
	Provider   string
	Role       domain.UserType
	Credential string
	Err        error
}

// Flow is an authorization-code + PKCE flow with a loopback redirect.
type Flow struct {
	Provider string
	OAuth    oauth2.Config
	// Open shows the authorization URL to the user.
	Open    func(url string) error
	Timeout time.Duration
	Logger  *slog.Logger
}

var scopes = []string{"openid", "email", "profile"}

// New returns the flow for provider ("google" or "microsoft") from cfg.
func New(provider string, cfg config.Config, open func(string) error) (*Flow, error) {
	var oc oauth2.Config
	switch provider {
	case client.ProviderGoogle:
		if !cfg.Google.Configured() {
			return nil, fmt.Errorf("%w: set BIDBOARD_GOOGLE_CLIENT_ID", ErrNotConfigured)
		}
		oc = oauth2.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			Endpoint:     endpoints.Google,
			Scopes:       scopes,
		}
	case client.ProviderMicrosoft:
		if !cfg.Microsoft.Configured() {
			return nil, fmt.Errorf("%w: set BIDBOARD_MICROSOFT_CLIENT_ID", ErrNotConfigured)
		}
		ep := endpoints.AzureAD(cfg.Microsoft.Tenant)
		ep.AuthStyle = oauth2.AuthStyleInParams
		oc = oauth2.Config{
			ClientID: cfg.Microsoft.ClientID,
			Endpoint: ep,
			Scopes:   scopes,
		}
	default:
		return nil, fmt.Errorf("unknown identity provider %q", provider)
	}
	return &Flow{Provider: provider, OAuth: oc, Open: open, Timeout: DefaultTimeout}, nil
}

// Run performs the flow for role and never panics; failures land in Result.Err.
func (f *Flow) Run(ctx context.Context, role domain.UserType) Result {
	res := Result{Provider: f.Provider, Role: role}
	cred, err := f.credential(ctx)
	if err != nil {
		res.Err = fmt.Errorf("%s sign-in: %w", f.Provider, err)
		return res
	}
	res.Credential = cred
	return res
}

func (f *Flow) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (f *Flow) credential(ctx context.Context) (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("start callback listener: %w", err)
	}
	defer listener.Close() //nolint:errcheck

	port := listener.Addr().(*net.TCPAddr).Port
	oc := f.OAuth
	oc.RedirectURL = fmt.Sprintf("http://127.0.0.1:%d/callback", port)

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	tokenCh := make(chan string, 1)
	errCh := make(chan error, 1)
	fail := func(err error) {
		select {
		case errCh <- err:
		default:
		}
	}

	r := mux.NewRouter()
	r.HandleFunc("/callback", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "invalid state", http.StatusForbidden)
			fail(errors.New("callback state mismatch"))
			return
		}
		if e := q.Get("error"); e != "" {
			http.Error(w, "sign-in failed", http.StatusBadRequest)
			if d := q.Get("error_description"); d != "" {
				e += ": " + d
			}
			fail(errors.New(e))
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			fail(errors.New("callback received without code"))
			return
		}
		tok, err := oc.Exchange(req.Context(), code, oauth2.VerifierOption(verifier))
		if err != nil {
			http.Error(w, "exchange failed", http.StatusBadGateway)
			fail(fmt.Errorf("code exchange: %w", err))
			return
		}
		idToken, _ := tok.Extra("id_token").(string)
		if idToken == "" {
			http.Error(w, "exchange failed", http.StatusBadGateway)
			fail(errors.New("token response has no id_token"))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, callbackHTML) //nolint:errcheck
		select {
		case tokenCh <- idToken:
		default:
		}
	}).Methods(http.MethodGet)

	srv := &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if srvErr := srv.Serve(listener); srvErr != nil && srvErr != http.ErrServerClosed {
			fail(srvErr)
		}
	}()
	defer func() {
		shutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutCtx) //nolint:errcheck
	}()

	authURL := oc.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	f.logger().Debug("identity flow started", "provider", f.Provider, "redirect", oc.RedirectURL)
	if f.Open == nil {
		return "", errors.New("no way to open the sign-in page")
	}
	if err := f.Open(authURL); err != nil {
		return "", fmt.Errorf("open browser: %w", err)
	}

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case tok := <-tokenCh:
		f.logger().Debug("identity flow completed", "provider", f.Provider)
		return tok, nil
	case err := <-errCh:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		return "", fmt.Errorf("timed out: no callback received within %s", timeout)
	}
}

const callbackHTML = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>bidboard</title>
<style>
body{background:#101418;color:#e4e8ec;font-family:monospace;height:100vh;display:flex;align-items:center;justify-content:center}
.msg{color:#34d474;font-weight:600}
.sub{color:#6b7480;font-size:12px;margin-top:8px}
</style></head>
<body><div><div class="msg">signed in</div><div class="sub">return to your terminal</div></div></body>
</html>`
