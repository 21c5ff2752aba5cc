package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/bidboard/internal/form"
	"github.com/naveenspark/bidboard/pkg/client"
	"github.com/naveenspark/bidboard/pkg/domain"
)

// action is one thing a tab can do: a form and the call it submits.
type action struct {
	title string
	role  domain.UserType // intended role, "" for anyone
	form  form.Form
	run   func(ctx context.Context, f form.Form) client.Result
	// login marks a successful result as carrying an access token for this role.
	login domain.UserType
	done  string // toast shown on success
	// render turns successful data into the tab listing.
	render func(data json.RawMessage) (string, error)
}

// resultMsg carries a finished call back to the tab that started it.
type resultMsg struct {
	tab    tab
	action int
	title  string
	login  domain.UserType
	done   string
	res    client.Result
}

// failed wraps a client-side error (bad input, unreadable file) as a Result.
func failed(err error) client.Result {
	return client.Result{Error: err.Error()}
}

// panelModel is a tab: a list of actions, the focused action's form and the
// listing produced by the last list call.
type panelModel struct {
	tab     tab
	actions []action
	cursor  int
	field   int // len(fields) is the submit line
	editing bool
	busy    bool
	listing string
	width   int
	height  int
}

func newPanelModel(t tab, actions []action) panelModel {
	return panelModel{tab: t, actions: actions}
}

func (m panelModel) current() *action {
	if len(m.actions) == 0 {
		return nil
	}
	return &m.actions[m.cursor]
}

func (m panelModel) Update(msg tea.Msg) (panelModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case resultMsg:
		if msg.tab != m.tab {
			return m, nil
		}
		m.busy = false
		if !msg.res.Success || msg.action < 0 || msg.action >= len(m.actions) {
			return m, nil
		}
		act := &m.actions[msg.action]
		act.form.Reset()
		if act.render != nil {
			out, err := act.render(msg.res.Data)
			if err != nil {
				out = errorStyle.Render(err.Error())
			}
			m.listing = out
		}
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m panelModel) updateKeys(msg tea.KeyMsg) (panelModel, tea.Cmd) {
	act := m.current()
	if act == nil {
		return m, nil
	}
	nFields := len(act.form.Fields)

	switch msg.String() {
	case "up", "k":
		if m.field > 0 {
			m.field--
		}
	case "down", "j", "tab":
		if m.field < nFields {
			m.field++
		}
	case "left", "[", "shift+tab":
		m.cursor = (m.cursor - 1 + len(m.actions)) % len(m.actions)
		m.field = 0
	case "right", "]":
		m.cursor = (m.cursor + 1) % len(m.actions)
		m.field = 0
	case "enter":
		if m.field < nFields {
			m.editing = true
			return m, nil
		}
		return m.submit()
	case "s", "ctrl+s":
		return m.submit()
	case "r":
		m.actions[m.cursor].form.Reset()
		m.listing = ""
	}
	return m, nil
}

func (m panelModel) updateEditing(msg tea.KeyMsg) (panelModel, tea.Cmd) {
	act := &m.actions[m.cursor]
	if m.field >= len(act.form.Fields) {
		m.editing = false
		return m, nil
	}
	fl := &act.form.Fields[m.field]

	switch msg.String() {
	case "esc":
		m.editing = false
		return m, nil
	case "ctrl+s":
		m.editing = false
		return m.submit()
	case "tab":
		m.editing = false
		m.field++
		return m, nil
	case "enter":
		if fl.Kind != form.KindMultiline {
			m.editing = false
			m.field++
			return m, nil
		}
	}
	fl.Value = editKey(fl.Value, msg, fl.Kind == form.KindMultiline)
	return m, nil
}

// submit starts the focused action unless a call is already in flight.
func (m panelModel) submit() (panelModel, tea.Cmd) {
	act := m.current()
	if act == nil || m.busy || act.run == nil {
		return m, nil
	}
	m.busy = true
	m.editing = false

	// The command runs on another goroutine; give it its own copy.
	f := form.New(act.form.Title, act.form.Fields...)
	run := act.run
	t, idx, title, login, done := m.tab, m.cursor, act.title, act.login, act.done
	return m, func() tea.Msg {
		return resultMsg{tab: t, action: idx, title: title, login: login, done: done, res: run(context.Background(), f)}
	}
}

func (m panelModel) helpKeys() string {
	if m.editing {
		return helpBar("esc", "done", "tab", "next", "ctrl+s", "submit")
	}
	return helpBar("1-6", "tabs", "[ ]", "action", "j/k", "field", "enter", "edit", "s", "submit", "c", "copy token", "x", "clear", "h", "help", "q", "quit")
}

func (m panelModel) View() string {
	if len(m.actions) == 0 {
		return ""
	}

	// Action list
	var left strings.Builder
	for i, a := range m.actions {
		cursor := "  "
		style := dimStyle
		if i == m.cursor {
			cursor = accentStyle.Render("> ")
			style = selectedStyle
		}
		line := cursor + style.Render(a.title)
		if a.role != "" {
			line += " " + metaStyle.Render(a.role.Label())
		}
		left.WriteString(line + "\n")
	}

	// Focused form
	act := m.actions[m.cursor]
	var right strings.Builder
	right.WriteString(sectionHeaderStyle.Render(act.title) + "\n\n")
	if len(act.form.Fields) == 0 {
		right.WriteString(metaStyle.Render("no input needed") + "\n")
	}
	for i, fl := range act.form.Fields {
		cursor := "  "
		labelStyle := metaStyle
		if i == m.field {
			cursor = accentStyle.Render("> ")
			labelStyle = selectedStyle
		}
		value := renderInput(fl.Value, fl.Kind == form.KindPassword, m.editing && i == m.field, placeholder(fl))
		if fl.Kind == form.KindMultiline {
			value = strings.ReplaceAll(value, "\n", "\n    ")
		}
		fmt.Fprintf(&right, "%s%s: %s\n", cursor, labelStyle.Render(fl.Label), value)
	}
	submit := "[ submit ]"
	if m.field == len(act.form.Fields) {
		right.WriteString("\n" + accentStyle.Render("> ") + inputPromptStyle.Render(submit) + "\n")
	} else {
		right.WriteString("\n  " + dimStyle.Render(submit) + "\n")
	}
	if m.busy {
		right.WriteString("\n" + warnStyle.Render("working...") + "\n")
	}

	leftWidth := 30
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(leftWidth).Render(left.String()),
		right.String(),
	)
	if m.listing != "" {
		body += "\n\n" + m.listing
	}
	return body
}

func placeholder(fl form.Field) string {
	switch fl.Kind {
	case form.KindFile:
		return "path to file"
	case form.KindMultiline:
		return "enter for newline, esc when done"
	}
	return fl.Name
}
