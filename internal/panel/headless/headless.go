// Package headless provides an in-memory panel host for command-line use and tests.
package headless

import (
	"context"
	"sync"

	"github.com/Its-donkey/channel-panel/internal/panel"
)

// Host records every control it creates and every notification it receives.
type Host struct {
	mu            sync.Mutex
	Title         *TextField
	Selector      *Selector
	Button        *Button
	Form          *Form
	notifications []string
}

// New returns an empty Host.
func New() *Host {
	return &Host{}
}

// CreateTextField implements panel.Host.
func (h *Host) CreateTextField(title string) panel.TextField {
	h.Title = &TextField{control: control{label: title}}
	return h.Title
}

// CreateSelector implements panel.Host.
func (h *Host) CreateSelector(title string) panel.Selector {
	h.Selector = &Selector{control: control{label: title}}
	return h.Selector
}

// CreateButton implements panel.Host.
func (h *Host) CreateButton(label string) panel.Button {
	h.Button = &Button{control: control{label: label}}
	return h.Button
}

// CreateForm implements panel.Host.
func (h *Host) CreateForm() panel.Submitter {
	h.Form = &Form{}
	return h.Form
}

// Notify implements panel.Notifier.
func (h *Host) Notify(message string) {
	h.mu.Lock()
	h.notifications = append(h.notifications, message)
	h.mu.Unlock()
}

// Notifications returns the messages received so far.
func (h *Host) Notifications() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.notifications...)
}

// AllDisabled reports whether the three interactive controls are disabled.
func (h *Host) AllDisabled() bool {
	return h.Title.Disabled() && h.Selector.Disabled() && h.Button.Disabled()
}

// AnyDisabled reports whether at least one interactive control is disabled.
func (h *Host) AnyDisabled() bool {
	return h.Title.Disabled() || h.Selector.Disabled() || h.Button.Disabled()
}

type control struct {
	mu       sync.Mutex
	label    string
	disabled bool
}

// SetDisabled implements panel.Control.
func (c *control) SetDisabled(disabled bool) {
	c.mu.Lock()
	c.disabled = disabled
	c.mu.Unlock()
}

// Disabled implements panel.Control.
func (c *control) Disabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabled
}

// Label returns the caption the panel gave the control.
func (c *control) Label() string {
	return c.label
}

// TextField is an in-memory panel.TextField.
type TextField struct {
	control
	value string
}

// Value implements panel.TextField.
func (f *TextField) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// SetValue implements panel.TextField.
func (f *TextField) SetValue(value string) {
	f.mu.Lock()
	f.value = value
	f.mu.Unlock()
}

// Type simulates operator input. It is ignored while the field is disabled.
func (f *TextField) Type(value string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disabled {
		return false
	}
	f.value = value
	return true
}

// Selector is an in-memory panel.Selector.
type Selector struct {
	control
	value   string
	options []panel.Option
}

// Value implements panel.Selector.
func (s *Selector) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// SetValue implements panel.Selector.
func (s *Selector) SetValue(value string) {
	s.mu.Lock()
	s.value = value
	s.mu.Unlock()
}

// SetOptions implements panel.Selector.
func (s *Selector) SetOptions(options []panel.Option) {
	s.mu.Lock()
	s.options = append([]panel.Option(nil), options...)
	s.mu.Unlock()
}

// Options returns the options currently offered.
func (s *Selector) Options() []panel.Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]panel.Option(nil), s.options...)
}

// Choose simulates operator selection. It is ignored while the selector is disabled.
func (s *Selector) Choose(value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabled {
		return false
	}
	s.value = value
	return true
}

// Button is an in-memory panel.Button.
type Button struct {
	control
	handler panel.Handler
}

// OnClick implements panel.Button.
func (b *Button) OnClick(h panel.Handler) {
	b.mu.Lock()
	b.handler = h
	b.mu.Unlock()
}

// Click runs the click handler. Clicks on a disabled button do nothing.
func (b *Button) Click(ctx context.Context) error {
	b.mu.Lock()
	h, disabled := b.handler, b.disabled
	b.mu.Unlock()
	if disabled || h == nil {
		return nil
	}
	return h(ctx)
}

// Form is an in-memory panel.Submitter.
type Form struct {
	mu      sync.Mutex
	handler panel.Handler
}

// OnSubmit implements panel.Submitter.
func (f *Form) OnSubmit(h panel.Handler) {
	f.mu.Lock()
	f.handler = h
	f.mu.Unlock()
}

// Submit runs the submit handler.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	h := f.handler
	f.mu.Unlock()
	if h == nil {
		return nil
	}
	return h(ctx)
}
