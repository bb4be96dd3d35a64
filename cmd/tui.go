package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tagtune/internal/models"
	"github.com/desertthunder/tagtune/internal/shared"
	"github.com/desertthunder/tagtune/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for browsing and syncing the tagged library.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.service == nil {
		return fmt.Errorf("%w: music service not initialized", shared.ErrServiceUnavailable)
	}
	if r.store == nil {
		return fmt.Errorf("%w: database not initialized (run 'tagtune setup' first)", shared.ErrStoreUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/tagtune-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	user := models.User(r.config.Sync.User)
	model := ui.NewModel(ctx, r.controller, r.store, user, r.service.Type())
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
