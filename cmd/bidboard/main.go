package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/bidboard/internal/browser"
	"github.com/naveenspark/bidboard/internal/config"
	"github.com/naveenspark/bidboard/internal/identity"
	"github.com/naveenspark/bidboard/internal/session"
	"github.com/naveenspark/bidboard/internal/tui"
	"github.com/naveenspark/bidboard/pkg/client"
	"github.com/naveenspark/bidboard/pkg/domain"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const releasesURL = "https://api.github.com/repos/naveenspark/bidboard/releases/latest"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	cfg, rest, err := config.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		printHelp(out)
		return nil
	}
	if err != nil {
		return err
	}

	cmd := ""
	if len(rest) > 0 {
		cmd = rest[0]
	}
	switch cmd {
	case "version":
		fmt.Fprintln(out, "bidboard "+version)
		return nil
	case "help":
		printHelp(out)
		return nil
	}

	logger, closer, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck

	store, err := session.Open(cfg.Home)
	if err != nil {
		return err
	}
	c := client.New(cfg.APIURL, store, client.WithLogger(logger))

	switch cmd {
	case "":
		app := tui.NewApp(c, store, tui.Options{
			Version:    version,
			StaticURL:  cfg.StaticURL,
			Identity:   identitySignIn(cfg, browser.Open, logger),
			Logger:     logger,
			ReleaseURL: releasesURL,
		})
		p := tea.NewProgram(app, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("tui error: %w", err)
		}
		return nil
	case "login":
		return runLogin(context.Background(), c, store, identitySignIn(cfg, announceOpen(out), logger), rest[1:], out)
	case "logout":
		return runLogout(store, out)
	case "token":
		return runToken(store, out)
	}
	return fmt.Errorf("unknown command %q (see bidboard help)", cmd)
}

// identitySignIn builds a flow per attempt so config errors surface in the
// result rather than at startup.
func identitySignIn(cfg config.Config, open func(string) error, logger *slog.Logger) tui.IdentityFunc {
	return func(ctx context.Context, provider string, role domain.UserType) identity.Result {
		flow, err := identity.New(provider, cfg, open)
		if err != nil {
			return identity.Result{Provider: provider, Role: role, Err: err}
		}
		flow.Logger = logger
		return flow.Run(ctx, role)
	}
}

// announceOpen opens the browser and falls back to printing the URL.
func announceOpen(out io.Writer) func(string) error {
	return func(url string) error {
		fmt.Fprintln(out, "Opening browser to authenticate...")
		if err := browser.Open(url); err != nil {
			fmt.Fprintf(out, "Could not open browser. Visit this URL manually:\n  %s\n", url)
		}
		return nil
	}
}

type sessionStore interface {
	Get() domain.Session
	Set(token string, userType domain.UserType) error
	Clear() error
}

func runLogin(ctx context.Context, c *client.Client, store sessionStore, signIn tui.IdentityFunc, args []string, out io.Writer) error {
	if len(args) != 2 {
		return errors.New("usage: bidboard login <google|microsoft> <client|service_provider>")
	}
	provider := args[0]
	if provider != client.ProviderGoogle && provider != client.ProviderMicrosoft {
		return fmt.Errorf("unknown identity provider %q", provider)
	}
	role, err := domain.ParseUserType(args[1])
	if err != nil {
		return err
	}

	res := signIn(ctx, provider, role)
	if res.Err != nil {
		return res.Err
	}
	tok, err := c.IdentityLogin(ctx, res.Provider, res.Role, res.Credential)
	if err != nil {
		return fmt.Errorf("login: %s", client.Message(err))
	}
	if tok.AccessToken == "" {
		return errors.New("login: response carried no access token")
	}
	if err := store.Set(tok.AccessToken, res.Role); err != nil {
		return err
	}
	printSignedIn(out, res.Role)
	return nil
}

func runLogout(store sessionStore, out io.Writer) error {
	if !store.Get().Authenticated() {
		fmt.Fprintln(out, "Already logged out.")
		return nil
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(out, "Logged out.")
	return nil
}

func runToken(store sessionStore, out io.Writer) error {
	sess := store.Get()
	if !sess.Authenticated() {
		return errors.New("not signed in (run bidboard login)")
	}
	fmt.Fprintln(out, sess.Token)
	return nil
}
