package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/bidboard/pkg/client"
	"github.com/naveenspark/bidboard/pkg/domain"
)

// toastDuration is how long a toast stays on screen.
const toastDuration = 3 * time.Second

// responseLines caps the response panel height.
const responseLines = 12

// SessionStore is the persisted session the App reads and mutates.
type SessionStore interface {
	Get() domain.Session
	Set(token string, userType domain.UserType) error
	Clear() error
}

// Options configures optional App behaviour.
type Options struct {
	Version   string
	StaticURL string // base for uploaded signature links
	Identity  IdentityFunc
	Clipboard func(string) error
	Logger    *slog.Logger
	// ReleaseURL is checked for a newer build at startup; "" disables it.
	ReleaseURL string
}

type toastExpiredMsg struct{ seq int }

type copyMsg struct{ err error }

// dashboardMsg carries the role landing data loaded after sign-in.
type dashboardMsg struct {
	role domain.UserType
	dash *domain.Dashboard
	err  error
}

// App is the root Bubbletea model.
type App struct {
	client   *client.Client
	sessions SessionStore
	opts     Options
	logger   *slog.Logger

	tab    tab
	vis    visibility
	panels [numTabs]panelModel

	dashboard *domain.Dashboard
	dashErr   string

	responseTitle string
	response      string
	responseErr   bool

	toast    string
	toastErr bool
	toastSeq int

	release string

	helpOpen bool
	width    int
	height   int
	now      func() time.Time
}

// NewApp creates the TUI and applies the visibility for the stored session.
func NewApp(c *client.Client, sessions SessionStore, opts Options) App {
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	a := App{
		client:   c,
		sessions: sessions,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
	a.panels[tabAuth] = newPanelModel(tabAuth, authActions(c, opts.Identity))
	a.panels[tabClient] = newPanelModel(tabClient, clientActions(c))
	a.panels[tabProvider] = newPanelModel(tabProvider, providerActions(c))
	a.panels[tabProjects] = newPanelModel(tabProjects, projectActions(c))
	a.panels[tabBids] = newPanelModel(tabBids, bidActions(c))
	a.panels[tabContracts] = newPanelModel(tabContracts, contractActions(c, opts.StaticURL))
	a.applyVisibility()
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.loadDashboard(), checkRelease(a.opts.ReleaseURL, a.opts.Version))
}

// applyVisibility recomputes which tabs are shown from the current session
// and selects the tab the state calls for.
func (a *App) applyVisibility() {
	a.vis = computeVisibility(authStateOf(a.sessions.Get()))
	a.tab = a.vis.selected
}

// setSession is the only path that stores a session in the TUI.
func (a *App) setSession(token string, role domain.UserType) (tea.Cmd, error) {
	err := a.sessions.Set(token, role)
	a.dashboard = nil
	a.dashErr = ""
	a.applyVisibility()
	return a.loadDashboard(), err
}

// clearSession is the only path that removes the session in the TUI.
func (a *App) clearSession() error {
	err := a.sessions.Clear()
	a.dashboard = nil
	a.dashErr = ""
	a.applyVisibility()
	return err
}

func (a App) loadDashboard() tea.Cmd {
	role := a.sessions.Get().Role()
	if role == "" || a.client == nil {
		return nil
	}
	c := a.client
	return func() tea.Msg {
		dash, err := c.Dashboard(context.Background(), role)
		return dashboardMsg{role: role, dash: dash, err: err}
	}
}

func (a *App) showToast(text string, isErr bool) tea.Cmd {
	a.toast = text
	a.toastErr = isErr
	a.toastSeq++
	seq := a.toastSeq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: a.bodyHeight()}
		for i := range a.panels {
			a.panels[i], _ = a.panels[i].Update(bodyMsg)
		}
		return a, nil

	case resultMsg:
		return a.handleResult(msg)

	case dashboardMsg:
		if msg.role != a.sessions.Get().Role() {
			return a, nil // session changed while loading
		}
		if msg.err != nil {
			a.dashErr = client.Message(msg.err)
			a.logger.Debug("dashboard failed", "role", msg.role, "err", msg.err)
			return a, nil
		}
		a.dashboard = msg.dash
		a.dashErr = ""
		return a, nil

	case releaseMsg:
		a.release = msg.latest
		return a, nil

	case toastExpiredMsg:
		if msg.seq == a.toastSeq {
			a.toast = ""
		}
		return a, nil

	case copyMsg:
		if msg.err != nil {
			return a, a.showToast(fmt.Sprintf("copy failed: %v", msg.err), true)
		}
		return a, a.showToast("Token copied to clipboard!", false)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Help overlay captures all keys when open
		if a.helpOpen {
			switch msg.String() {
			case "h", "esc":
				a.helpOpen = false
			case "q":
				return a, tea.Quit
			}
			return a, nil
		}

		if !a.isEditing() {
			switch key := msg.String(); key {
			case "h":
				a.helpOpen = true
				return a, nil
			case "q":
				return a, tea.Quit
			case "1", "2", "3", "4", "5", "6":
				t := tab(key[0] - '1')
				if a.vis.shown[t] {
					a.tab = t
				}
				return a, nil
			case "c":
				tok := a.sessions.Get().Token
				if tok == "" {
					return a, a.showToast("No token to copy", true)
				}
				write := a.opts.Clipboard
				return a, func() tea.Msg { return copyMsg{err: write(tok)} }
			case "x":
				if err := a.clearSession(); err != nil {
					return a, a.showToast(err.Error(), true)
				}
				return a, a.showToast("Token cleared - Please login again", false)
			}
		}
	}

	var cmd tea.Cmd
	a.panels[a.tab], cmd = a.panels[a.tab].Update(msg)
	return a, cmd
}

// handleResult routes a finished call to its tab, then updates the response
// panel, the session and the toast.
func (a App) handleResult(msg resultMsg) (tea.Model, tea.Cmd) {
	if msg.tab >= 0 && msg.tab < numTabs {
		a.panels[msg.tab], _ = a.panels[msg.tab].Update(msg)
	}
	a.logger.Debug("result", "tab", msg.tab.String(), "action", msg.title,
		"success", msg.res.Success, "status", msg.res.StatusCode)

	a.responseTitle = msg.title
	a.response = msg.res.Indent()
	a.responseErr = !msg.res.Success

	if !msg.res.Success {
		return a, a.showToast(msg.res.Error, true)
	}

	var cmds []tea.Cmd
	if msg.login != "" {
		var tok domain.Token
		if err := msg.res.Decode(&tok); err != nil || tok.AccessToken == "" {
			a.responseErr = true
			return a, a.showToast("login response carried no access token", true)
		}
		load, err := a.setSession(tok.AccessToken, msg.login)
		if err != nil {
			cmds = append(cmds, a.showToast(err.Error(), true))
			return a, tea.Batch(append(cmds, load)...)
		}
		cmds = append(cmds, load)
	}
	done := msg.done
	if done == "" {
		done = msg.title + " done"
	}
	cmds = append(cmds, a.showToast(done, false))
	return a, tea.Batch(cmds...)
}

func (a App) isEditing() bool {
	return a.panels[a.tab].editing
}

// bodyHeight is what is left for the tab body after the chrome:
// header(2) + tabs(1) + response(responseLines+1) + toast(1) + help(1).
func (a App) bodyHeight() int {
	return a.height - 6 - responseLines
}

func (a App) View() string {
	sess := a.sessions.Get()
	header := titleStyle.Render("B I D B O A R D") + "  " + tokenPanel(sess, a.now())
	if a.release != "" {
		header += "  " + warnStyle.Render(a.release+" available")
	}

	// Tab bar: only the tabs the session allows
	var tabBar strings.Builder
	for t := tab(0); t < numTabs; t++ {
		if !a.vis.shown[t] {
			continue
		}
		key := fmt.Sprintf("%d", int(t)+1)
		if t == a.tab {
			tabBar.WriteString(accentStyle.Render(key) + " " + selectedStyle.Underline(true).Render(t.String()))
		} else {
			tabBar.WriteString(metaStyle.Render(key) + " " + dimStyle.Render(t.String()))
		}
		tabBar.WriteString("   ")
	}

	var body, help string
	if a.helpOpen {
		body = helpView(a.opts.Version)
		help = helpBar("esc", "close", "q", "quit")
	} else {
		body = a.panels[a.tab].View()
		if summary := a.dashboardView(); summary != "" && (a.tab == tabClient || a.tab == tabProvider) {
			body = summary + "\n\n" + body
		}
		help = a.panels[a.tab].helpKeys()
	}
	body = strings.TrimRight(truncateToHeight(body, a.bodyHeight()), "\n")

	toast := ""
	if a.toast != "" {
		if a.toastErr {
			toast = errorStyle.Render(" ✗ " + a.toast)
		} else {
			toast = successStyle.Render(" ✓ " + a.toast)
		}
	}

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s\n%s", header, tabBar.String(), body, a.responseView(), toast, help)
}

func (a App) responseView() string {
	if a.response == "" {
		return ""
	}
	title := sectionHeaderStyle.Render("response · " + a.responseTitle)
	style := normalStyle
	if a.responseErr {
		style = errorStyle
	}
	out := title + "\n" + style.Render(strings.TrimRight(truncateToHeight(a.response, responseLines-1), "\n"))
	if a.width > 0 {
		return responseBorder.Width(a.width).Render(out)
	}
	return out
}

func (a App) dashboardView() string {
	if a.dashErr != "" {
		return errorStyle.Render("dashboard: " + a.dashErr)
	}
	d := a.dashboard
	if d == nil {
		return ""
	}
	parts := []string{completionBar(d.Profile.CompletionPercentage())}
	if d.Role == domain.UserTypeClient {
		parts = append(parts, fmt.Sprintf("%d projects", len(d.Projects)))
	} else {
		parts = append(parts, fmt.Sprintf("%d bids", len(d.Bids)))
	}
	parts = append(parts, fmt.Sprintf("%d contracts", len(d.Contracts)))
	return lipgloss.JoinHorizontal(lipgloss.Top, sectionHeaderStyle.Render("profile  "), strings.Join(parts, metaStyle.Render(" · ")))
}
