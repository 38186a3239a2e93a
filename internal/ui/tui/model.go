// Package tui hosts the channel panel in a terminal using bubbletea.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Its-donkey/channel-panel/internal/panel"
)

const (
	toastTTL      = 4 * time.Second
	titleMaxRunes = 140
)

type focusArea int

const (
	focusTitle focusArea = iota
	focusList
	focusButton
	focusCount
)

// Lifecycle is the part of the panel the model drives directly. Saves go
// through the handlers the panel registered on the host's button and form.
type Lifecycle interface {
	Mounted(ctx context.Context) error
	Refresh(ctx context.Context) error
}

type mountedMsg struct{ err error }

type opDoneMsg struct {
	op  string
	err error
}

type toastExpiredMsg struct{ id int }

// categoryItem adapts a panel option to the bubbles list.
type categoryItem struct{ opt panel.Option }

func (i categoryItem) Title() string       { return i.opt.Label }
func (i categoryItem) Description() string { return i.opt.Thumbnail }
func (i categoryItem) FilterValue() string { return i.opt.Label }

// Model is the bubbletea model for one panel.
type Model struct {
	ctx   context.Context
	host  *Host
	panel Lifecycle
	keys  keyMap

	help    help.Model
	spinner spinner.Model
	title   textinput.Model
	games   list.Model

	focus   focusArea
	view    snapshot
	optRev  uint64
	loading bool
	pending int
	toast   string
	toastID int
	err     error
}

// NewModel builds the model for a panel whose controls live on host.
func NewModel(ctx context.Context, host *Host, lc Lifecycle) Model {
	ti := textinput.New()
	ti.Placeholder = "Stream title"
	ti.Prompt = ""
	ti.CharLimit = titleMaxRunes
	ti.Width = 48
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	games := list.New(nil, list.NewDefaultDelegate(), 60, 14)
	games.Title = "Games"
	games.Filter = RankCategories
	games.SetShowHelp(false)
	games.SetFilteringEnabled(true)
	games.SetStatusBarItemName("game", "games")
	games.DisableQuitKeybindings()

	m := Model{
		ctx:     ctx,
		host:    host,
		panel:   lc,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		title:   ti,
		games:   games,
		loading: true,
	}
	m.sync()
	return m
}

func (m Model) Init() tea.Cmd {
	ctx, lc := m.ctx, m.panel
	mount := func() tea.Msg {
		return mountedMsg{err: lc.Mounted(ctx)}
	}
	return tea.Batch(m.spinner.Tick, textinput.Blink, mount)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case hostChangedMsg:
		m.host.ack()
		return m, m.sync()

	case mountedMsg:
		m.loading = false
		m.err = msg.err
		return m, m.sync()

	case opDoneMsg:
		m.pending--
		m.err = msg.err
		return m, m.sync()

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blinks and asynchronous filter results.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.title, cmd = m.title.Update(msg)
	cmds = append(cmds, cmd)
	m.games, cmd = m.games.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// While a filter is being typed every key belongs to the list.
	if m.focus == focusList && m.games.SettingFilter() {
		var cmd tea.Cmd
		m.games, cmd = m.games.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		return m, m.setFocus((m.focus + 1) % focusCount)
	case key.Matches(msg, m.keys.Prev):
		return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
	case key.Matches(msg, m.keys.Save):
		return m.start("save", m.host.submit())
	case key.Matches(msg, m.keys.Refresh):
		return m.start("refresh", m.panel.Refresh)
	case key.Matches(msg, m.keys.Select):
		switch m.focus {
		case focusTitle:
			// Enter in the title submits the form.
			return m.start("save", m.host.submit())
		case focusList:
			m.choose()
			return m, nil
		case focusButton:
			return m.start("save", m.host.click())
		}
	case m.focus != focusTitle && key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusTitle:
		if m.view.titleDisabled {
			return m, nil
		}
		m.title, cmd = m.title.Update(msg)
		if m.host.typed(m.title.Value()) {
			m.view.title = m.title.Value()
		}
	case focusList:
		if m.view.selectorDisabled {
			return m, nil
		}
		m.games, cmd = m.games.Update(msg)
	}
	return m, cmd
}

func (m Model) start(op string, h panel.Handler) (tea.Model, tea.Cmd) {
	if h == nil {
		return m, nil
	}
	m.pending++
	return m, run(m.ctx, op, h)
}

func (m *Model) choose() {
	item, ok := m.games.SelectedItem().(categoryItem)
	if !ok {
		return
	}
	if m.host.chose(item.opt.Value) {
		m.view.selected = item.opt.Value
	}
}

func (m *Model) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	if f == focusTitle {
		return m.title.Focus()
	}
	m.title.Blur()
	return nil
}

func (m *Model) resize(width, height int) {
	m.help.Width = width
	m.title.Width = max(10, width-14)
	m.games.SetSize(max(20, width-4), max(5, height-16))
}

// sync copies the host mirrors into the widgets.
func (m *Model) sync() tea.Cmd {
	s := m.host.snapshot(m.optRev)
	var cmds []tea.Cmd

	if s.optRev != m.optRev {
		items := make([]list.Item, len(s.options))
		for i, opt := range s.options {
			items[i] = categoryItem{opt: opt}
		}
		cmds = append(cmds, m.games.SetItems(items))
		m.optRev = s.optRev
		m.view.selected = ""
	}
	if m.title.Value() != s.title {
		m.title.SetValue(s.title)
	}
	if s.selected != m.view.selected {
		m.selectValue(s.selected)
	}
	if n := len(s.toasts); n > 0 {
		m.toastID++
		m.toast = s.toasts[n-1]
		id := m.toastID
		cmds = append(cmds, tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} }))
	}

	s.options, s.toasts = nil, nil
	m.view = s
	return tea.Batch(cmds...)
}

func (m *Model) selectValue(value string) {
	if m.games.FilterState() != list.Unfiltered {
		return
	}
	for i, it := range m.games.Items() {
		if item, ok := it.(categoryItem); ok && item.opt.Value == value {
			m.games.Select(i)
			return
		}
	}
}

// busy reports whether the panel has the controls locked or is still mounting.
func (m Model) busy() bool {
	return m.loading || m.view.titleDisabled || m.view.selectorDisabled || m.view.buttonDisabled
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Channel"))
	b.WriteString("\n")

	titleBox := blurredBorder
	if m.focus == focusTitle && !m.view.titleDisabled {
		titleBox = focusedBorder
	}
	b.WriteString(labelStyle.Render(m.view.titleLabel))
	b.WriteString(titleBox.Render(m.title.View()))
	b.WriteString("\n")

	selected := dimStyle.Render("(none)")
	if m.view.selected != "" {
		selected = valueStyle.Render(m.view.selected)
	}
	b.WriteString(labelStyle.Render(m.view.selectorLabel))
	b.WriteString(selected)
	b.WriteString("\n")

	listBox := blurredBorder
	if m.focus == focusList && !m.view.selectorDisabled {
		listBox = focusedBorder
	}
	b.WriteString(listBox.Render(m.games.View()))
	b.WriteString("\n")

	button := buttonStyle
	switch {
	case m.view.buttonDisabled:
		button = buttonDisabledStyle
	case m.focus == focusButton:
		button = buttonFocusedStyle
	}
	b.WriteString(button.Render(m.view.buttonLabel))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " Loading games…\n")
	case m.busy():
		b.WriteString(m.spinner.View() + " Working…\n")
	default:
		b.WriteString(dimStyle.Render("Ready") + "\n")
	}
	if m.toast != "" {
		b.WriteString(toastStyle.Render("✓ "+m.toast) + "\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("✗ "+m.err.Error()) + "\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}
