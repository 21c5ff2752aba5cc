package tui

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// maxInputLen is the maximum number of runes allowed in a form field.
const maxInputLen = 2000

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	default:
		if utf8.RuneCountInString(key) == 1 {
			if utf8.RuneCountInString(text) >= maxInputLen {
				return text
			}
			return text + key
		}
		return text
	}
}

// editKey applies a key message to text. Pasted runes arrive as one message
// and are appended together; newlines are kept only for multiline fields.
func editKey(text string, msg tea.KeyMsg, multiline bool) string {
	switch msg.Type {
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if r == '\n' || r == '\r' {
				if !multiline {
					continue
				}
				r = '\n'
			}
			text = editRune(text, string(r))
		}
		return text
	case tea.KeySpace:
		return editRune(text, " ")
	case tea.KeyBackspace:
		return editRune(text, "backspace")
	case tea.KeyEnter:
		if multiline {
			return editRune(text, "\n")
		}
	}
	return text
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// renderInput renders one form value. Password values are masked and the
// cursor block is shown while focused.
func renderInput(value string, masked, editing bool, placeholder string) string {
	if masked {
		value = strings.Repeat("•", utf8.RuneCountInString(value))
	}
	if editing {
		return normalStyle.Render(value) + accentStyle.Render("█")
	}
	if value == "" {
		return inputPlaceholderStyle.Render(placeholder)
	}
	return dimStyle.Render(value)
}
