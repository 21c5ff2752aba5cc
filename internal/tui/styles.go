package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Base styles
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d474"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#34d474")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	// Response panel
	responseBorder = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(lipgloss.Color("#1e1e2a"))

	// Status badge colors, shared by bids, projects and contracts.
	statusColors = map[string]lipgloss.Color{
		"pending":       lipgloss.Color("#d4a844"),
		"accepted":      lipgloss.Color("#4ade80"),
		"rejected":      lipgloss.Color("#e06060"),
		"open":          lipgloss.Color("#60a0e0"),
		"in_progress":   lipgloss.Color("#f0944a"),
		"client_signed": lipgloss.Color("#c084e0"),
		"fully_signed":  lipgloss.Color("#4ade80"),
		"active":        lipgloss.Color("#3ecce4"),
		"completed":     lipgloss.Color("#8890a0"),
	}
)

// StatusStyle returns a bold style colored for a bid, project or contract status.
func StatusStyle(status string) lipgloss.Style {
	if c, ok := statusColors[status]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878")).Bold(true)
}

// StatusBadge renders "[STATUS]" in its color. Empty statuses render as "".
func StatusBadge(status string) string {
	if status == "" {
		return ""
	}
	return StatusStyle(status).Render("[" + strings.ToUpper(status) + "]")
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpBar joins help entries given as key, label pairs.
func helpBar(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, helpEntry(pairs[i], pairs[i+1]))
	}
	return " " + strings.Join(parts, "  ")
}

// helpView renders the help overlay.
func helpView(version string) string {
	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)

	commands := []struct{ cmd, desc string }{
		{"bidboard", "Open the dashboard"},
		{"bidboard login <google|microsoft> <role>", "Sign in through an identity provider"},
		{"bidboard logout", "Clear the saved session"},
		{"bidboard token", "Print the saved token"},
		{"bidboard version", "Show version"},
	}
	keys := []struct{ key, desc string }{
		{"1-6", "switch tab (role tabs follow the session)"},
		{"[ ]", "previous / next action"},
		{"j/k", "move between fields"},
		{"enter", "edit field, or run the action on the submit line"},
		{"esc", "stop editing"},
		{"s, ctrl+s", "submit"},
		{"r", "reset the form"},
		{"c", "copy token"},
		{"x", "clear session"},
		{"q", "quit"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s  %s\n\n", titleStyle.Render("B I D B O A R D"), metaStyle.Render(version))

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-42s", c.cmd)), descStyle.Render(c.desc))
	}
	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-10s", k.key)), descStyle.Render(k.desc))
	}
	return b.String()
}
