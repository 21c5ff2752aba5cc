package tui

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/bidboard/internal/identity"
	"github.com/naveenspark/bidboard/pkg/client"
	"github.com/naveenspark/bidboard/pkg/domain"
)

type memSessions struct {
	s      domain.Session
	sets   int
	clears int
}

func (m *memSessions) Get() domain.Session { return m.s }
func (m *memSessions) Token() string       { return m.s.Token }
func (m *memSessions) Set(tok string, ut domain.UserType) error {
	m.sets++
	m.s = domain.Session{Token: tok, UserType: ut}
	return nil
}
func (m *memSessions) Clear() error {
	m.clears++
	m.s = domain.Session{}
	return nil
}

func newTestApp(t *testing.T, sess domain.Session, h http.HandlerFunc, opts Options) (App, *memSessions) {
	t.Helper()
	if h == nil {
		h = func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) }
	}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	store := &memSessions{s: sess}
	a := NewApp(client.New(srv.URL, store), store, opts)
	model, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 60})
	return model.(App), store
}

func press(a App, keys ...tea.KeyMsg) (App, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var model tea.Model
		model, cmd = a.Update(k)
		a = model.(App)
	}
	return a, cmd
}

func typeKeys(s string) []tea.KeyMsg {
	keys := make([]tea.KeyMsg, 0, len(s))
	for _, r := range s {
		keys = append(keys, keyRunes(string(r)))
	}
	return keys
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

// submitAndDeliver runs the submit command and feeds its result back.
func submitAndDeliver(t *testing.T, a App, cmd tea.Cmd) (App, tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(resultMsg)
	if !ok {
		t.Fatalf("command returned %T, want resultMsg", msg)
	}
	model, next := a.Update(msg)
	return model.(App), next
}

func TestNewAppSelectsTabFromSession(t *testing.T) {
	tests := []struct {
		name         string
		sess         domain.Session
		wantTab      tab
		wantClient   bool
		wantProvider bool
	}{
		{"absent", domain.Session{}, tabAuth, false, false},
		{"client", domain.Session{Token: "tok", UserType: domain.UserTypeClient}, tabClient, true, false},
		{"provider", domain.Session{Token: "tok", UserType: domain.UserTypeServiceProvider}, tabProvider, false, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, _ := newTestApp(t, tc.sess, nil, Options{})
			if a.tab != tc.wantTab {
				t.Errorf("tab = %s, want %s", a.tab, tc.wantTab)
			}
			if a.vis.shown[tabClient] != tc.wantClient || a.vis.shown[tabProvider] != tc.wantProvider {
				t.Errorf("shown client=%v provider=%v", a.vis.shown[tabClient], a.vis.shown[tabProvider])
			}
		})
	}
}

func TestAppClientLogin(t *testing.T) {
	var body map[string]string
	a, store := newTestApp(t, domain.Session{}, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login/client" {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(&body)                              //nolint:errcheck
		w.Write([]byte(`{"access_token":"tok123","token_type":"bearer"}`)) //nolint:errcheck
	}, Options{})

	a, _ = press(a, keyRunes("]")) // Client login
	a, _ = press(a, enter)
	a, _ = press(a, typeKeys("alice@example.com")...)
	a, _ = press(a, enter, enter)
	a, _ = press(a, typeKeys("secret")...)
	a, cmd := press(a, esc, keyRunes("s"))

	a, next := submitAndDeliver(t, a, cmd)
	if next == nil {
		t.Error("login should schedule the dashboard load and toast expiry")
	}
	if body["email"] != "alice@example.com" || body["password"] != "secret" {
		t.Errorf("login body = %v", body)
	}
	if got := store.Get(); got.Token != "tok123" || got.UserType != domain.UserTypeClient {
		t.Errorf("session = %+v", got)
	}
	if a.tab != tabClient || !a.vis.shown[tabClient] || a.vis.shown[tabProvider] {
		t.Errorf("tab = %s shown=%v", a.tab, a.vis.shown)
	}
	if a.toast != "Client login successful!" || a.toastErr {
		t.Errorf("toast = %q err=%v", a.toast, a.toastErr)
	}
	if !strings.Contains(a.response, "tok123") {
		t.Errorf("response panel = %q", a.response)
	}
	if a.panels[tabAuth].busy {
		t.Error("busy should clear after the result")
	}
	if a.panels[tabAuth].actions[1].form.Get("email") != "" {
		t.Error("login form should reset after success")
	}
}

func TestAppProviderLoginSendsPass(t *testing.T) {
	var body map[string]string
	a, store := newTestApp(t, domain.Session{}, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login/service-provider" {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(&body)                              //nolint:errcheck
		w.Write([]byte(`{"access_token":"sp-tok","token_type":"bearer"}`)) //nolint:errcheck
	}, Options{})

	a.panels[tabAuth].cursor = 3
	a.panels[tabAuth].actions[3].form.Set("email", "p@x.io")
	a.panels[tabAuth].actions[3].form.Set("password", "x")
	a, cmd := press(a, keyRunes("s"))
	a, _ = submitAndDeliver(t, a, cmd)

	if body["pass"] != "x" {
		t.Errorf("body = %v, want pass", body)
	}
	if _, ok := body["password"]; ok {
		t.Error("provider login must not send password")
	}
	if store.Get().UserType != domain.UserTypeServiceProvider || a.tab != tabProvider {
		t.Errorf("session=%+v tab=%s", store.Get(), a.tab)
	}
}

func TestAppLoginFailure(t *testing.T) {
	a, store := newTestApp(t, domain.Session{}, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Incorrect email or password"}`)) //nolint:errcheck
	}, Options{})

	a.panels[tabAuth].cursor = 1
	a.panels[tabAuth].actions[1].form.Set("email", "a@b.c")
	a, cmd := press(a, keyRunes("s"))
	a, _ = submitAndDeliver(t, a, cmd)

	if store.sets != 0 {
		t.Error("failed login must not touch the session")
	}
	if a.toast != "Incorrect email or password" || !a.toastErr {
		t.Errorf("toast = %q err=%v", a.toast, a.toastErr)
	}
	if !a.responseErr || !strings.Contains(a.response, `"error": "Incorrect email or password"`) {
		t.Errorf("response = %q", a.response)
	}
	if a.tab != tabAuth {
		t.Errorf("tab = %s", a.tab)
	}
	if a.panels[tabAuth].actions[1].form.Get("email") != "a@b.c" {
		t.Error("form should keep values after failure")
	}
}

func TestAppLoginWithoutAccessToken(t *testing.T) {
	a, store := newTestApp(t, domain.Session{}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token_type":"bearer"}`)) //nolint:errcheck
	}, Options{})
	a.panels[tabAuth].cursor = 1
	a, cmd := press(a, keyRunes("s"))
	a, _ = submitAndDeliver(t, a, cmd)
	if store.sets != 0 || !a.toastErr {
		t.Errorf("sets=%d toast=%q", store.sets, a.toast)
	}
}

func TestAppIdentityLoginCarriesRole(t *testing.T) {
	var path, credential string
	signIn := func(_ context.Context, provider string, role domain.UserType) identity.Result {
		return identity.Result{Provider: provider, Role: role, Credential: "id-token"}
	}
	a, store := newTestApp(t, domain.Session{}, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
		credential = body["token"]
		w.Write([]byte(`{"access_token":"from-google","token_type":"bearer"}`)) //nolint:errcheck
	}, Options{Identity: signIn})

	// Auth actions: 4 Google/client, 5 Google/provider.
	a.panels[tabAuth].cursor = 5
	a, cmd := press(a, enter)
	a, _ = submitAndDeliver(t, a, cmd)

	if path != "/auth/login/google/service_provider" {
		t.Errorf("path = %q", path)
	}
	if credential != "id-token" {
		t.Errorf("credential = %q", credential)
	}
	if got := store.Get(); got.Token != "from-google" || got.UserType != domain.UserTypeServiceProvider {
		t.Errorf("session = %+v", got)
	}
	if a.tab != tabProvider {
		t.Errorf("tab = %s", a.tab)
	}
	if a.toast != "Google login successful!" {
		t.Errorf("toast = %q", a.toast)
	}
}

func TestAppIdentityFailure(t *testing.T) {
	called := false
	signIn := func(_ context.Context, provider string, role domain.UserType) identity.Result {
		return identity.Result{Provider: provider, Role: role, Err: errors.New("microsoft sign-in: popup closed")}
	}
	a, store := newTestApp(t, domain.Session{}, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, Options{Identity: signIn})

	a.panels[tabAuth].cursor = 6
	a, cmd := press(a, keyRunes("s"))
	a, _ = submitAndDeliver(t, a, cmd)

	if called {
		t.Error("backend must not be called when the identity flow fails")
	}
	if store.sets != 0 || a.toast != "microsoft sign-in: popup closed" || !a.toastErr {
		t.Errorf("sets=%d toast=%q", store.sets, a.toast)
	}
}

func TestAppIdentityUnavailable(t *testing.T) {
	a, _ := newTestApp(t, domain.Session{}, nil, Options{})
	a.panels[tabAuth].cursor = 7
	a, cmd := press(a, keyRunes("s"))
	a, _ = submitAndDeliver(t, a, cmd)
	if !strings.Contains(a.toast, "Microsoft sign-in is not available") {
		t.Errorf("toast = %q", a.toast)
	}
}

func TestAppClearSession(t *testing.T) {
	a, store := newTestApp(t, domain.Session{Token: "tok", UserType: domain.UserTypeClient}, nil, Options{})
	a.dashboard = &domain.Dashboard{Role: domain.UserTypeClient}

	a, _ = press(a, keyRunes("x"))
	if store.clears != 1 || store.Get().Authenticated() {
		t.Errorf("clears=%d session=%+v", store.clears, store.Get())
	}
	if a.tab != tabAuth || a.vis.shown[tabClient] || a.vis.shown[tabProvider] {
		t.Errorf("tab=%s shown=%v", a.tab, a.vis.shown)
	}
	if a.dashboard != nil {
		t.Error("dashboard should be dropped with the session")
	}
	if a.toast != "Token cleared - Please login again" {
		t.Errorf("toast = %q", a.toast)
	}
}

func TestAppTabKeys(t *testing.T) {
	a, _ := newTestApp(t, domain.Session{}, nil, Options{})

	a, _ = press(a, keyRunes("2"))
	if a.tab != tabAuth {
		t.Errorf("hidden Client tab was selected: %s", a.tab)
	}
	a, _ = press(a, keyRunes("4"))
	if a.tab != tabProjects {
		t.Errorf("tab = %s, want Projects", a.tab)
	}
	a, _ = press(a, keyRunes("6"))
	if a.tab != tabContracts {
		t.Errorf("tab = %s, want Contracts", a.tab)
	}
}

func TestAppEditingBlocksGlobalKeys(t *testing.T) {
	a, _ := newTestApp(t, domain.Session{}, nil, Options{})
	a, _ = press(a, enter)
	a, cmd := press(a, keyRunes("q"))
	if cmd != nil {
		t.Error("q while editing should not quit")
	}
	a, _ = press(a, keyRunes("4"), keyRunes("x"))
	if a.tab != tabAuth {
		t.Errorf("tab changed while editing: %s", a.tab)
	}
	if got := a.panels[tabAuth].actions[0].form.Get("email"); got != "q4x" {
		t.Errorf("email = %q, want typed text", got)
	}
}

func TestAppQuit(t *testing.T) {
	a, _ := newTestApp(t, domain.Session{}, nil, Options{})
	_, cmd := press(a, keyRunes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestAppToastExpiry(t *testing.T) {
	a, _ := newTestApp(t, domain.Session{}, nil, Options{})
	a.showToast("first", false)
	stale := a.toastSeq
	a.showToast("second", false)

	model, _ := a.Update(toastExpiredMsg{seq: stale})
	a = model.(App)
	if a.toast != "second" {
		t.Errorf("stale expiry cleared the newer toast: %q", a.toast)
	}
	model, _ = a.Update(toastExpiredMsg{seq: a.toastSeq})
	a = model.(App)
	if a.toast != "" {
		t.Errorf("toast = %q, want cleared", a.toast)
	}
}

func TestAppCopyToken(t *testing.T) {
	var copied string
	opts := Options{Clipboard: func(s string) error { copied = s; return nil }}

	a, _ := newTestApp(t, domain.Session{}, nil, opts)
	a, cmd := press(a, keyRunes("c"))
	if copied != "" || a.toast != "No token to copy" {
		t.Errorf("copied=%q toast=%q", copied, a.toast)
	}
	_ = cmd

	a, _ = newTestApp(t, domain.Session{Token: "tok", UserType: domain.UserTypeClient}, nil, opts)
	a, cmd = press(a, keyRunes("c"))
	if cmd == nil {
		t.Fatal("expected copy command")
	}
	model, _ := a.Update(cmd())
	a = model.(App)
	if copied != "tok" || a.toast != "Token copied to clipboard!" {
		t.Errorf("copied=%q toast=%q", copied, a.toast)
	}
}

func TestAppDashboard(t *testing.T) {
	a, _ := newTestApp(t, domain.Session{Token: "tok", UserType: domain.UserTypeClient}, nil, Options{})

	model, _ := a.Update(dashboardMsg{role: domain.UserTypeServiceProvider, dash: &domain.Dashboard{}})
	a = model.(App)
	if a.dashboard != nil {
		t.Error("dashboard for another role should be ignored")
	}

	dash := &domain.Dashboard{
		Role:     domain.UserTypeClient,
		Profile:  domain.Profile{"completion_percentage": float64(60)},
		Projects: []domain.Project{{ID: 1}, {ID: 2}},
	}
	model, _ = a.Update(dashboardMsg{role: domain.UserTypeClient, dash: dash})
	a = model.(App)
	view := a.View()
	if !strings.Contains(view, "60%") || !strings.Contains(view, "2 projects") {
		t.Errorf("dashboard not rendered:\n%s", view)
	}

	model, _ = a.Update(dashboardMsg{role: domain.UserTypeClient, err: &client.HTTPError{StatusCode: 401, Message: "Could not validate credentials"}})
	a = model.(App)
	if a.dashErr != "Could not validate credentials" {
		t.Errorf("dashErr = %q", a.dashErr)
	}
}

func TestAppDashboardLoadsFromBackend(t *testing.T) {
	a, _ := newTestApp(t, domain.Session{Token: "tok", UserType: domain.UserTypeServiceProvider}, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/service-provider/profile":
			w.Write([]byte(`{"completion_percentage": 25}`)) //nolint:errcheck
		case "/service-provider/my-bids":
			w.Write([]byte(`[{"id": 1}]`)) //nolint:errcheck
		default:
			w.Write([]byte(`[]`)) //nolint:errcheck
		}
	}, Options{})

	cmd := a.loadDashboard()
	if cmd == nil {
		t.Fatal("a signed-in session should load the dashboard")
	}
	msg := cmd().(dashboardMsg)
	if msg.err != nil {
		t.Fatal(msg.err)
	}
	if len(msg.dash.Bids) != 1 || msg.dash.Profile.CompletionPercentage() != 25 {
		t.Errorf("dashboard = %+v", msg.dash)
	}
}

func TestAppNoDashboardWhenSignedOut(t *testing.T) {
	a, _ := newTestApp(t, domain.Session{}, nil, Options{})
	if a.loadDashboard() != nil {
		t.Error("nothing to load without a session")
	}
}

func TestAppHelpOverlay(t *testing.T) {
	a, _ := newTestApp(t, domain.Session{}, nil, Options{Version: "v9"})
	a, _ = press(a, keyRunes("h"))
	if !a.helpOpen || !strings.Contains(a.View(), "v9") {
		t.Fatal("h should open help")
	}
	a, _ = press(a, keyRunes("4"))
	if a.tab != tabAuth {
		t.Error("help should capture keys")
	}
	a, _ = press(a, esc)
	if a.helpOpen {
		t.Error("esc should close help")
	}
}

func TestAppViewHidesRoleTabs(t *testing.T) {
	a, _ := newTestApp(t, domain.Session{}, nil, Options{})
	tabLine := strings.Split(a.View(), "\n")[1]
	if strings.Contains(tabLine, "Client") || strings.Contains(tabLine, "Provider") {
		t.Errorf("role tabs visible while signed out: %q", tabLine)
	}
	if !strings.Contains(tabLine, "Auth") || !strings.Contains(tabLine, "Contracts") {
		t.Errorf("tab line = %q", tabLine)
	}

	a, _ = newTestApp(t, domain.Session{Token: "t", UserType: domain.UserTypeClient}, nil, Options{})
	tabLine = strings.Split(a.View(), "\n")[1]
	if !strings.Contains(tabLine, "Client") || strings.Contains(tabLine, "Provider") {
		t.Errorf("client tab line = %q", tabLine)
	}
}
