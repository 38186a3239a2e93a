// Package panel implements the channel panel: a form that edits the live
// broadcast's title and category, kept in sync with the streaming platform.
//
// The panel never builds UI itself. A Host supplies the controls and calls
// Panel.Mounted once they are on screen; everything else flows through the
// interfaces below.
package panel

import "context"

// Control is anything the panel can enable or disable.
type Control interface {
	SetDisabled(disabled bool)
	Disabled() bool
}

// TextField is a single-line text input.
type TextField interface {
	Control
	Value() string
	SetValue(value string)
}

// Option is one entry offered by a Selector.
type Option struct {
	Value     string
	Label     string
	Thumbnail string
}

// Selector is a single-choice input populated with Options.
type Selector interface {
	Control
	Value() string
	SetValue(value string)
	SetOptions(options []Option)
}

// Handler runs in response to a UI event.
type Handler func(ctx context.Context) error

// Button is a clickable control.
type Button interface {
	Control
	OnClick(h Handler)
}

// Submitter groups the inputs and reports submission. Hosts suppress any
// native submit behaviour and only call the registered handler.
type Submitter interface {
	OnSubmit(h Handler)
}

// Host is the element factory provided by whatever renders the panel.
type Host interface {
	CreateTextField(title string) TextField
	CreateSelector(title string) Selector
	CreateButton(label string) Button
	CreateForm() Submitter
}

// Notifier shows a one-shot message to the operator.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(message string) { f(message) }

// IdentityProvider supplies the operator identity used in resource paths.
type IdentityProvider interface {
	Identity() string
}

// StaticIdentity is an IdentityProvider with a fixed value.
type StaticIdentity string

// Identity implements IdentityProvider.
func (s StaticIdentity) Identity() string { return string(s) }
