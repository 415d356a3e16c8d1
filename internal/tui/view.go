package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/ui"
)

func (m Model) View() string {
	if !m.ctrl.Configured() {
		return m.unconfiguredView()
	}
	t := ui.Current()

	var b strings.Builder
	b.WriteString(t.Title.Render("todos"))
	b.WriteString("\n\n")
	b.WriteString(m.headerView())
	b.WriteString("\n")

	switch {
	case m.snap.Loading:
		b.WriteString(m.spinner.View() + " " + t.Muted.Render("Loading todos..."))
	case len(m.snap.Items) == 0:
		// nothing to show until the first item is added
	case len(m.snap.Visible) == 0:
		b.WriteString(t.Muted.Render("Nothing " + strings.ToLower(m.snap.Filter.String()) + "."))
	default:
		l := m.list
		l.SetDelegate(itemDelegate{
			snap:     m.snap,
			spinner:  m.spinner.View(),
			editID:   m.editID,
			editView: m.edit.View(),
			focused:  m.mode != modeInput,
		})
		b.WriteString(l.View())
	}

	if len(m.snap.Items) > 0 {
		b.WriteString("\n")
		b.WriteString(m.footerView())
	}
	if m.snap.HasNotice {
		b.WriteString("\n\n")
		b.WriteString(t.Error.Render(m.snap.Notice.Message) + "  " + t.Help.Render("ctrl+e dismiss"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return ui.Frame().Width(max(20, m.width-2)).Render(b.String())
}

// headerView is the toggle-all marker plus the new-item input.
func (m Model) headerView() string {
	t := ui.Current()

	marker := strings.Repeat(" ", lipgloss.Width(t.BoxUnchecked))
	if len(m.snap.Items) > 0 {
		if m.snap.AllCompleted {
			marker = t.Success.Render(t.BoxChecked)
		} else {
			marker = t.Muted.Render(t.BoxUnchecked)
		}
	}

	input := m.input.View()
	if m.snap.Submitting {
		input = t.Muted.Render(m.input.Value()) + " " + m.spinner.View()
	}
	return "  " + marker + " " + input
}

// footerView is the counter, the filter tabs and the clear button.
func (m Model) footerView() string {
	t := ui.Current()

	left := fmt.Sprintf("%d items left", m.snap.ActiveCount)

	tabs := make([]string, 0, len(model.Filters))
	for _, f := range model.Filters {
		if f == m.snap.Filter {
			tabs = append(tabs, t.TabActive.Render(f.String()))
		} else {
			tabs = append(tabs, t.Tab.Render(f.String()))
		}
	}

	clearBtn := t.Accent.Render("Clear completed")
	if m.snap.CompletedCount == 0 {
		clearBtn = t.Muted.Render("Clear completed")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		t.Muted.Render(left), "   ",
		strings.Join(tabs, ""), "   ",
		clearBtn,
	)
}

func (m Model) unconfiguredView() string {
	t := ui.Current()
	return ui.Panel([]string{
		t.Error.Render("No user configured."),
		"",
		"Set user_id in " + t.Accent.Render("~/.config/todo/config.toml") + ",",
		"export " + t.Accent.Render("TODO_USER_ID") + " or pass " + t.Accent.Render("--user-id") + ".",
		"",
		t.Help.Render("q quit"),
	})
}
