package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tagtune/internal/shared"
	"github.com/desertthunder/tagtune/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Sync reconciles the stored library against the music service's library.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	user := r.user(cmd)

	if r.service == nil {
		return fmt.Errorf("%w: music service not initialized (run 'tagtune auth' first)", shared.ErrServiceUnavailable)
	}
	if r.store == nil {
		return fmt.Errorf("%w: database not initialized (run 'tagtune setup' first)", shared.ErrStoreUnavailable)
	}

	progressChan := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progressChan {
			r.writePlain("→ %s\n", update.Message)
		}
	}()

	result, err := r.controller.SyncTracks(ctx, user, progressChan)
	close(progressChan)
	<-done

	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	if useJSON {
		return r.writeJSON(result, true)
	}

	r.writePlain("\n✓ Sync complete (run %s)\n", result.RunID)
	r.writePlain("  Service tracks: %d\n", result.ServiceTotal)
	r.writePlain("  Stored before:  %d\n", result.StoredTotal)
	r.writePlain("  Added:          %d\n", result.Added)
	r.writePlain("  Deleted:        %d\n", result.Deleted)

	return nil
}
