package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/bidboard/pkg/domain"
)

var (
	bannerTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ade80")).Bold(true)
	bannerDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	bannerCmd   = lipgloss.NewStyle().Bold(true)
)

func printHelp(w io.Writer) {
	commands := []struct{ cmd, desc string }{
		{"bidboard", "Open the dashboard (interactive TUI)"},
		{"bidboard login <provider> <role>", "Sign in with google or microsoft as client or service_provider"},
		{"bidboard logout", "Clear the saved session"},
		{"bidboard token", "Print the saved token"},
		{"bidboard version", "Show version"},
		{"bidboard help", "You are here"},
	}
	flags := []struct{ flag, desc string }{
		{"-api URL", "backend base URL (BIDBOARD_API_URL)"},
		{"-static URL", "uploaded files base URL (BIDBOARD_STATIC_URL)"},
		{"-home DIR", "session and log directory (BIDBOARD_HOME)"},
		{"-env-file PATH", "dotenv file to load first"},
		{"-debug", "write a debug log to <home>/debug.log"},
	}

	fmt.Fprintf(w, "\n  %s\n\n  Commands:\n", bannerTitle.Render("B I D B O A R D"))
	for _, c := range commands {
		fmt.Fprintf(w, "    %s  %s\n", bannerCmd.Render(fmt.Sprintf("%-34s", c.cmd)), bannerDim.Render(c.desc))
	}
	fmt.Fprint(w, "\n  Flags:\n")
	for _, f := range flags {
		fmt.Fprintf(w, "    %s  %s\n", bannerCmd.Render(fmt.Sprintf("%-34s", f.flag)), bannerDim.Render(f.desc))
	}
	fmt.Fprintln(w)
}

func printSignedIn(w io.Writer, role domain.UserType) {
	fmt.Fprintf(w, "\n%s\n\n%s\n%s\n\n", bannerTitle.Render("BIDBOARD"),
		"Signed in as "+role.Label()+".",
		bannerDim.Render("Run bidboard to open the dashboard."))
}
