// Package tui is the interactive terminal renderer over a state.Controller.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/state"
	"github.com/idilsaglam/todo/internal/ui"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// rows taken by everything but the list
	chromeHeight = 9
)

type (
	changedMsg struct{}
	createdMsg state.CreateResult
	renamedMsg struct {
		id     int
		result state.RenameResult
	}
)

// Model is the Bubble Tea model. All state lives in the controller; the
// model only keeps widgets and the current mode.
type Model struct {
	ctx  context.Context
	ctrl *state.Controller
	snap state.Snapshot

	list    list.Model
	input   textinput.Model
	edit    textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	mode   mode
	editID int
	saving bool

	width, height int
}

// New builds the model. ctx is handed to every transition and is never
// cancelled by the model itself.
func New(ctx context.Context, ctrl *state.Controller) Model {
	t := ui.Current()

	l := list.New(nil, itemDelegate{}, defaultWidth, defaultHeight-chromeHeight)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.Styles.PaginationStyle = t.Help

	in := textinput.New()
	in.Placeholder = "What needs to be done?"
	in.Prompt = ""
	in.CharLimit = 200
	in.Focus()

	ed := textinput.New()
	ed.Prompt = ""
	ed.CharLimit = 200

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(t.Pending))

	m := Model{
		ctx:     ctx,
		ctrl:    ctrl,
		list:    l,
		input:   in,
		edit:    ed,
		spinner: sp,
		help:    help.New(),
		keys:    defaultKeyMap(),
		width:   defaultWidth,
		height:  defaultHeight,
	}
	m.sync()
	return m
}

// Init starts the first load and the change listener.
func (m Model) Init() tea.Cmd {
	if !m.ctrl.Configured() {
		return nil
	}
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		waitForChange(m.ctrl.Changes()),
		m.run(m.ctrl.Load),
	)
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return changedMsg{}
	}
}

// run wraps a transition into a command. The controller broadcasts its own
// changes, so the command has nothing to report.
func (m Model) run(f func(context.Context)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		f(ctx)
		return nil
	}
}

func (m Model) create(title string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg { return createdMsg(ctrl.Create(ctx, title)) }
}

func (m Model) rename(id int, title string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return renamedMsg{id: id, result: ctrl.Rename(ctx, id, title)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.list.SetSize(max(10, msg.Width-4), max(1, msg.Height-chromeHeight))
		return m, nil

	case changedMsg:
		m.sync()
		return m, waitForChange(m.ctrl.Changes())

	case createdMsg:
		m.sync()
		if msg.OK {
			m.input.Reset()
		}
		if m.mode == modeInput {
			return m, m.input.Focus()
		}
		return m, nil

	case renamedMsg:
		m.saving = false
		m.sync()
		if m.mode == modeEdit && m.editID == msg.id && msg.result.ExitsEdit() {
			m.leaveEdit()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if !m.ctrl.Configured() {
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
			return m, nil
		}
		if key.Matches(msg, m.keys.Dismiss) {
			m.ctrl.DismissNotice()
			m.sync()
			return m, nil
		}
		switch m.mode {
		case modeInput:
			return m.updateInput(msg)
		case modeEdit:
			return m.updateEdit(msg)
		default:
			return m.updateList(msg)
		}
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeInput:
		m.input, cmd = m.input.Update(msg)
	case modeEdit:
		m.edit, cmd = m.edit.Update(msg)
	}
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Leave):
		m.setMode(modeList)
		return m, nil
	case m.snap.Submitting:
		// input is disabled until the pending create settles
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		m.input.Blur()
		return m, m.create(m.input.Value())
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Up):
		m.list.CursorUp()
	case key.Matches(msg, k.Down):
		m.list.CursorDown()
	case key.Matches(msg, k.FocusInput):
		m.setMode(modeInput)
		if !m.snap.Submitting {
			return m, m.input.Focus()
		}
	case key.Matches(msg, k.Toggle):
		if it, ok := m.selectedIdle(); ok {
			id := it.ID
			return m, m.run(func(ctx context.Context) { m.ctrl.Toggle(ctx, id) })
		}
	case key.Matches(msg, k.Edit):
		if it, ok := m.selectedIdle(); ok {
			m.editID = it.ID
			m.edit.SetValue(it.Title)
			m.edit.CursorEnd()
			m.setMode(modeEdit)
			return m, m.edit.Focus()
		}
	case key.Matches(msg, k.Delete):
		if it, ok := m.selectedIdle(); ok {
			id := it.ID
			return m, m.run(func(ctx context.Context) { m.ctrl.Delete(ctx, id) })
		}
	case key.Matches(msg, k.ToggleAll):
		if len(m.snap.Items) > 0 {
			return m, m.run(m.ctrl.ToggleAll)
		}
	case key.Matches(msg, k.ClearCompleted):
		if m.snap.CompletedCount > 0 {
			return m, m.run(m.ctrl.ClearCompleted)
		}
	case key.Matches(msg, k.NextFilter):
		m.setFilter(m.snap.Filter.Next())
	case key.Matches(msg, k.PrevFilter):
		m.setFilter(m.snap.Filter.Prev())
	case key.Matches(msg, k.FilterAll):
		m.setFilter(model.FilterAll)
	case key.Matches(msg, k.FilterActive):
		m.setFilter(model.FilterActive)
	case key.Matches(msg, k.FilterDone):
		m.setFilter(model.FilterCompleted)
	}
	return m, nil
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.saving:
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.leaveEdit()
		return m, nil
	case key.Matches(msg, m.keys.Save):
		m.saving = true
		return m, m.rename(m.editID, m.edit.Value())
	}
	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	return m, cmd
}

func (m *Model) setFilter(f model.Filter) {
	m.ctrl.SetFilter(f)
	m.sync()
	m.list.Select(0)
}

func (m *Model) setMode(md mode) {
	m.mode = md
	m.keys.mode = md
	if md != modeInput {
		m.input.Blur()
	}
}

func (m *Model) leaveEdit() {
	m.editID = 0
	m.edit.Reset()
	m.edit.Blur()
	m.setMode(modeList)
}

func (m Model) selected() (model.Item, bool) {
	it, ok := m.list.SelectedItem().(todoItem)
	return it.Item, ok
}

// selectedIdle is selected, except that an item with a call in flight (or
// the placeholder) has its controls disabled.
func (m Model) selectedIdle() (model.Item, bool) {
	it, ok := m.selected()
	if !ok || m.snap.IsPending(it.ID) {
		return model.Item{}, false
	}
	return it, true
}

// sync pulls a fresh snapshot and rebuilds the list items from it.
func (m *Model) sync() {
	m.snap = m.ctrl.Snapshot()

	items := make([]list.Item, len(m.snap.Visible))
	for i, it := range m.snap.Visible {
		items[i] = todoItem{it}
	}
	m.list.SetItems(items)
	if n := len(items); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}

	if m.snap.Submitting {
		m.input.Blur()
	}
	if m.mode == modeEdit && !m.visible(m.editID) {
		m.leaveEdit()
	}
}

func (m Model) visible(id int) bool {
	for _, it := range m.snap.Visible {
		if it.ID == id {
			return true
		}
	}
	return false
}
