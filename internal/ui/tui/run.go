package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the panel until the operator quits or ctx is cancelled.
func Run(ctx context.Context, host *Host, lc Lifecycle, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(NewModel(ctx, host, lc), opts...)
	host.Attach(p.Send)

	_, err := p.Run()
	return err
}
