package tui

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Its-donkey/channel-panel/internal/panel"
)

// hostChangedMsg tells the model that the panel touched a control.
type hostChangedMsg struct{}

// Host implements panel.Host for the terminal. Controls are plain mirrors
// guarded by one lock: the panel writes them from command goroutines and the
// model copies them into its widgets on the next update.
type Host struct {
	mu       sync.Mutex
	rev      uint64
	optRev   uint64
	title    *TextField
	selector *Selector
	button   *Button
	form     *Form
	toasts   []string

	send    func(tea.Msg)
	pending atomic.Bool
}

// NewHost returns a Host with no program attached.
func NewHost() *Host {
	return &Host{}
}

// Attach routes change notifications to a running program, usually
// (*tea.Program).Send.
func (h *Host) Attach(send func(tea.Msg)) {
	h.mu.Lock()
	h.send = send
	h.mu.Unlock()
}

// changed bumps the revision and wakes the program. Wakes coalesce until the
// model acknowledges one.
func (h *Host) changed(options bool) {
	h.rev++
	if options {
		h.optRev++
	}
	send := h.send
	if send != nil && h.pending.CompareAndSwap(false, true) {
		go send(hostChangedMsg{})
	}
}

func (h *Host) ack() {
	h.pending.Store(false)
}

// CreateTextField implements panel.Host.
func (h *Host) CreateTextField(title string) panel.TextField {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.title = &TextField{control: control{host: h, label: title}}
	return h.title
}

// CreateSelector implements panel.Host.
func (h *Host) CreateSelector(title string) panel.Selector {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.selector = &Selector{control: control{host: h, label: title}}
	return h.selector
}

// CreateButton implements panel.Host.
func (h *Host) CreateButton(label string) panel.Button {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.button = &Button{control: control{host: h, label: label}}
	return h.button
}

// CreateForm implements panel.Host.
func (h *Host) CreateForm() panel.Submitter {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.form = &Form{host: h}
	return h.form
}

// Notify implements panel.Notifier. Messages are shown as a toast.
func (h *Host) Notify(message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.toasts = append(h.toasts, message)
	h.changed(false)
}

// snapshot is a consistent copy of every control, taken under the host lock.
type snapshot struct {
	rev    uint64
	optRev uint64

	titleLabel    string
	title         string
	titleDisabled bool

	selectorLabel    string
	selected         string
	selectorDisabled bool
	options          []panel.Option

	buttonLabel    string
	buttonDisabled bool

	toasts []string
}

// snapshot copies the mirrors and drains pending toasts. Options are only
// copied when they changed since optRev.
func (h *Host) snapshot(optRev uint64) snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := snapshot{rev: h.rev, optRev: h.optRev, toasts: h.toasts}
	h.toasts = nil
	if h.title != nil {
		s.titleLabel, s.title, s.titleDisabled = h.title.label, h.title.value, h.title.disabled
	}
	if h.selector != nil {
		s.selectorLabel, s.selected, s.selectorDisabled = h.selector.label, h.selector.value, h.selector.disabled
		if h.optRev != optRev {
			s.options = slices.Clone(h.selector.options)
		}
	}
	if h.button != nil {
		s.buttonLabel, s.buttonDisabled = h.button.label, h.button.disabled
	}
	return s
}

// typed records operator input without waking the program.
func (h *Host) typed(value string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.title == nil || h.title.disabled {
		return false
	}
	h.title.value = value
	return true
}

// chose records an operator selection without waking the program.
func (h *Host) chose(value string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.selector == nil || h.selector.disabled {
		return false
	}
	h.selector.value = value
	return true
}

// click returns the button handler, or nil while the button is disabled.
func (h *Host) click() panel.Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.button == nil || h.button.disabled {
		return nil
	}
	return h.button.handler
}

// submit returns the form handler.
func (h *Host) submit() panel.Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.form == nil {
		return nil
	}
	return h.form.handler
}

type control struct {
	host     *Host
	label    string
	disabled bool
}

func (c *control) SetDisabled(disabled bool) {
	c.host.mu.Lock()
	defer c.host.mu.Unlock()
	if c.disabled != disabled {
		c.disabled = disabled
		c.host.changed(false)
	}
}

func (c *control) Disabled() bool {
	c.host.mu.Lock()
	defer c.host.mu.Unlock()
	return c.disabled
}

// TextField mirrors the title input.
type TextField struct {
	control
	value string
}

func (f *TextField) Value() string {
	f.host.mu.Lock()
	defer f.host.mu.Unlock()
	return f.value
}

func (f *TextField) SetValue(value string) {
	f.host.mu.Lock()
	defer f.host.mu.Unlock()
	f.value = value
	f.host.changed(false)
}

// Selector mirrors the category picker.
type Selector struct {
	control
	value   string
	options []panel.Option
}

func (s *Selector) Value() string {
	s.host.mu.Lock()
	defer s.host.mu.Unlock()
	return s.value
}

func (s *Selector) SetValue(value string) {
	s.host.mu.Lock()
	defer s.host.mu.Unlock()
	s.value = value
	s.host.changed(false)
}

func (s *Selector) SetOptions(options []panel.Option) {
	s.host.mu.Lock()
	defer s.host.mu.Unlock()
	s.options = slices.Clone(options)
	s.host.changed(true)
}

// Button mirrors the save button.
type Button struct {
	control
	handler panel.Handler
}

func (b *Button) OnClick(h panel.Handler) {
	b.host.mu.Lock()
	b.handler = h
	b.host.mu.Unlock()
}

// Form holds the submit handler. It has no visual state of its own.
type Form struct {
	host    *Host
	handler panel.Handler
}

func (f *Form) OnSubmit(h panel.Handler) {
	f.host.mu.Lock()
	f.handler = h
	f.host.mu.Unlock()
}

// run adapts a handler to a command that reports its outcome as op.
func run(ctx context.Context, op string, h panel.Handler) tea.Cmd {
	if h == nil {
		return nil
	}
	return func() tea.Msg {
		return opDoneMsg{op: op, err: h(ctx)}
	}
}
