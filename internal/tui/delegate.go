package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/state"
	"github.com/idilsaglam/todo/internal/ui"
)

// todoItem adapts model.Item to bubbles/list.Item.
type todoItem struct{ model.Item }

func (i todoItem) FilterValue() string { return i.Title }

// itemDelegate renders one todo per line. It is rebuilt on every View so it
// always sees the latest snapshot and spinner frame.
type itemDelegate struct {
	snap     state.Snapshot
	spinner  string
	editID   int
	editView string
	focused  bool
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(todoItem)
	if !ok {
		return
	}
	t := ui.Current()

	prefix := "  "
	if d.focused && index == m.Index() {
		prefix = t.Accent.Render("> ")
	}

	box := t.Muted.Render(t.BoxUnchecked)
	title := it.Title
	if it.Completed {
		box = t.Success.Render(t.BoxChecked)
		title = t.Done.Render(title)
	}
	if d.editID != 0 && it.ID == d.editID {
		title = d.editView
	}

	line := fmt.Sprintf("%s%s %s", prefix, box, title)
	if d.snap.IsPending(it.ID) {
		line += " " + t.Pending.Render(d.spinner)
	}
	fmt.Fprint(w, line)
}
