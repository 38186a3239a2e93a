package panel

import (
	"context"
	"fmt"
	"sync"

	"github.com/Its-donkey/channel-panel/internal/remote"
	"github.com/Its-donkey/channel-panel/logging"
)

// SavedMessage is shown after every successful save.
const SavedMessage = "Channel updated successfully"

// State is the form's re-entrancy guard.
type State int

const (
	Idle State = iota
	Busy
)

func (s State) String() string {
	if s == Busy {
		return "busy"
	}
	return "idle"
}

// ChannelState is the editable channel as currently shown in the form.
type ChannelState struct {
	Title    string
	Category string
}

// Form is the save/refresh state machine. Both transitions share one guard:
// while a request is in flight the form is Busy, every input is disabled and
// further Save or Refresh calls return immediately without touching the
// remote. The guard is always released, whether the request succeeds or not.
type Form struct {
	title    TextField
	category Selector
	submit   Button

	caller      remote.Caller
	integration string
	identity    IdentityProvider
	notifier    Notifier
	logger      *logging.Logger

	mu    sync.Mutex
	state State
}

// State reports whether a request is in flight.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Snapshot returns the values currently held by the inputs.
func (f *Form) Snapshot() ChannelState {
	return ChannelState{Title: f.title.Value(), Category: f.category.Value()}
}

// Refresh loads the channel from the remote and overwrites both fields.
func (f *Form) Refresh(ctx context.Context) error {
	return f.guarded("refresh", func() error { return f.load(ctx) })
}

func (f *Form) load(ctx context.Context) error {
	resp, err := remote.Do[remote.ChannelResource](ctx, f.caller, remote.Request{
		Integration: f.integration,
		Method:      remote.MethodGet,
		Path:        remote.PathChannel,
	})
	if err != nil {
		return fmt.Errorf("refresh channel: %w", err)
	}

	f.apply(resp)
	return nil
}

// Save pushes the current inputs to the remote, then replaces them with what
// the remote echoes back.
func (f *Form) Save(ctx context.Context) error {
	return f.guarded("save", func() error { return f.store(ctx) })
}

func (f *Form) store(ctx context.Context) error {
	sent := f.Snapshot()
	resp, err := remote.Do[remote.ChannelResource](ctx, f.caller, remote.Request{
		Integration: f.integration,
		Method:      remote.MethodPut,
		Path:        remote.ChannelPath(f.identity.Identity()),
		Payload: map[string]string{
			"title":    sent.Title,
			"category": sent.Category,
		},
	})
	if err != nil {
		return fmt.Errorf("save channel: %w", err)
	}

	f.apply(resp)
	if resp.Title != sent.Title || resp.Category != sent.Category {
		f.logger.Info("form", "server adjusted saved values", map[string]any{
			"sent_title":    sent.Title,
			"sent_category": sent.Category,
			"title":         resp.Title,
			"category":      resp.Category,
		})
	}
	f.notifier.Notify(SavedMessage)
	return nil
}

func (f *Form) apply(resp remote.ChannelResource) {
	f.title.SetValue(resp.Title)
	f.category.SetValue(resp.Category)
}

// guarded runs fn as op while holding the Busy state. Calls made while the
// form is already Busy are dropped and return nil.
func (f *Form) guarded(op string, fn func() error) error {
	if !f.acquire(op) {
		return nil
	}
	defer f.release()
	return fn()
}

func (f *Form) acquire(op string) bool {
	f.mu.Lock()
	if f.state == Busy {
		f.mu.Unlock()
		f.logger.Debug("form", op+" dropped while busy", nil)
		return false
	}
	f.state = Busy
	f.mu.Unlock()

	f.setLoading(true)
	return true
}

func (f *Form) release() {
	f.setLoading(false)

	f.mu.Lock()
	f.state = Idle
	f.mu.Unlock()
}

func (f *Form) setLoading(loading bool) {
	f.title.SetDisabled(loading)
	f.category.SetDisabled(loading)
	f.submit.SetDisabled(loading)
}
