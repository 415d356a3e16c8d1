package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme bundles palette + symbols + box borders.
// All renderers pull from Current().
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Done, Help, Tab, TabActive          lipgloss.Style

	BoxUnchecked, BoxChecked string
	SymDone, SymPending      string
	Border                   lipgloss.Border
	BorderColor              lipgloss.TerminalColor
}

var (
	current = classic()

	// profile in effect before mono forced plain output; nil while not mono
	savedProfile *termenv.Profile
)

// SetTheme switches the palette. Unknown names fall back to classic.
// mono also turns off color output until another theme is set.
func SetTheme(name string) {
	var t Theme
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "neon":
		t = neon()
	case "mono":
		t = mono()
	default:
		t = classic()
	}

	switch {
	case t.Name == "mono" && savedProfile == nil:
		p := lipgloss.ColorProfile()
		savedProfile = &p
		lipgloss.SetColorProfile(termenv.Ascii)
	case t.Name != "mono" && savedProfile != nil:
		lipgloss.SetColorProfile(*savedProfile)
		savedProfile = nil
	}
	current = t
}

// Current returns the active theme.
func Current() Theme { return current }

func classic() Theme {
	return Theme{
		Name:         "classic",
		Title:        lipgloss.NewStyle().Bold(true),
		Muted:        lipgloss.NewStyle().Faint(true),
		Accent:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Pending:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Selected:     lipgloss.NewStyle().Bold(true).Reverse(true),
		Done:         lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Help:         lipgloss.NewStyle().Faint(true),
		Tab:          lipgloss.NewStyle().Faint(true).Padding(0, 1),
		TabActive:    lipgloss.NewStyle().Bold(true).Underline(true).Padding(0, 1),
		BoxUnchecked: "☐",
		BoxChecked:   "☑",
		SymDone:      "✔",
		SymPending:   "•",
		Border:       lipgloss.RoundedBorder(),
		BorderColor:  lipgloss.Color("8"),
	}
}

func neon() Theme {
	t := classic()
	t.Name = "neon"
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	t.Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	t.Pending = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	t.TabActive = t.TabActive.Foreground(lipgloss.Color("13"))
	t.BoxUnchecked, t.BoxChecked = "◻", "◼"
	t.BorderColor = lipgloss.Color("13")
	return t
}

func mono() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Name:         "mono",
		Title:        plain.Bold(true),
		Muted:        plain,
		Accent:       plain,
		Success:      plain,
		Error:        plain.Bold(true),
		Pending:      plain,
		Selected:     plain.Reverse(true),
		Done:         plain.Strikethrough(true),
		Help:         plain,
		Tab:          plain.Padding(0, 1),
		TabActive:    plain.Bold(true).Padding(0, 1),
		BoxUnchecked: "[ ]",
		BoxChecked:   "[x]",
		SymDone:      "x",
		SymPending:   "-",
		Border:       lipgloss.ASCIIBorder(),
		BorderColor:  lipgloss.NoColor{},
	}
}
