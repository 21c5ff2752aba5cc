// Package config resolves runtime settings from flags, the environment and an
// optional .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is the local development backend.
const DefaultAPIURL = "http://localhost:8000/api/v1"

// OAuthClient holds the credentials of a registered identity-provider app.
type OAuthClient struct {
	ClientID     string
	ClientSecret string
	Tenant       string // Microsoft only
}

// Configured reports whether the client ID is set.
func (o OAuthClient) Configured() bool { return o.ClientID != "" }

// Config is the resolved program configuration.
type Config struct {
	APIURL    string
	StaticURL string
	Home      string // session file and debug log live here
	Debug     bool
	EnvFile   string
	Google    OAuthClient
	Microsoft OAuthClient
}

// Parse reads flags from args, loads the .env file and falls back to
// environment variables for anything not given on the command line. It
// returns the remaining positional arguments (the subcommand).
func Parse(args []string) (Config, []string, error) {
	var cfg Config

	flags := flag.NewFlagSet("bidboard", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.StringVar(&cfg.APIURL, "api", "", "API base URL including /api/v1")
	flags.StringVar(&cfg.StaticURL, "static", "", "Base URL for uploaded files")
	flags.StringVar(&cfg.Home, "home", "", "Directory for the session file and debug log")
	flags.StringVar(&cfg.EnvFile, "env-file", ".env", "Dotenv file to load")
	debug := flags.Bool("debug", false, "Write a debug log")

	if err := flags.Parse(args); err != nil {
		return Config{}, nil, fmt.Errorf("config.Parse: %w", err)
	}

	if err := loadEnvFile(cfg.EnvFile); err != nil {
		return Config{}, nil, err
	}

	if cfg.APIURL == "" {
		cfg.APIURL = os.Getenv("BIDBOARD_API_URL")
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	u, err := url.Parse(cfg.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Config{}, nil, fmt.Errorf("invalid API URL %q", cfg.APIURL)
	}

	if cfg.StaticURL == "" {
		cfg.StaticURL = os.Getenv("BIDBOARD_STATIC_URL")
	}
	if cfg.StaticURL == "" {
		cfg.StaticURL = (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/static"}).String()
	}
	cfg.StaticURL = strings.TrimRight(cfg.StaticURL, "/")

	if cfg.Home == "" {
		cfg.Home = os.Getenv("BIDBOARD_HOME")
	}
	if cfg.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, nil, fmt.Errorf("get home dir: %w", err)
		}
		cfg.Home = filepath.Join(home, ".bidboard")
	}

	cfg.Debug = *debug
	if !cfg.Debug {
		if v := os.Getenv("BIDBOARD_DEBUG"); v != "" {
			on, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, nil, errors.New("invalid BIDBOARD_DEBUG env variable")
			}
			cfg.Debug = on
		}
	}

	cfg.Google = OAuthClient{
		ClientID:     os.Getenv("BIDBOARD_GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("BIDBOARD_GOOGLE_CLIENT_SECRET"),
	}
	cfg.Microsoft = OAuthClient{
		ClientID: os.Getenv("BIDBOARD_MICROSOFT_CLIENT_ID"),
		Tenant:   os.Getenv("BIDBOARD_MICROSOFT_TENANT_ID"),
	}
	if cfg.Microsoft.Tenant == "" {
		cfg.Microsoft.Tenant = "common"
	}

	return cfg, flags.Args(), nil
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// DebugLogPath is where the debug log is written.
func (c Config) DebugLogPath() string {
	return filepath.Join(c.Home, "debug.log")
}

// Logger returns a text logger writing to the debug log when Debug is set and
// discarding otherwise; the TUI owns stdout and stderr. The returned closer
// must be called on exit.
func (c Config) Logger() (*slog.Logger, io.Closer, error) {
	if !c.Debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(c.Home, 0700); err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", c.Home, err)
	}
	f, err := os.OpenFile(c.DebugLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("open debug log: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})), f, nil
}
