package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/tagtune/internal/formatter"
	"github.com/desertthunder/tagtune/internal/models"
	"github.com/desertthunder/tagtune/internal/shared"
	"github.com/urfave/cli/v3"
)

// LibraryList prints stored tracks with their tags, optionally filtered by tags.
func (r *Runner) LibraryList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	tracks, err := r.fetchLibrary(ctx, cmd)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(tracks, pretty)
	}

	data, err := formatter.LibraryToText(tracks)
	if err != nil {
		return fmt.Errorf("failed to format library: %w", err)
	}

	return r.writePlain("%s", string(data))
}

// LibraryExport writes stored tracks to a CSV file.
func (r *Runner) LibraryExport(ctx context.Context, cmd *cli.Command) error {
	outputFile := cmd.String("output")

	tracks, err := r.fetchLibrary(ctx, cmd)
	if err != nil {
		return err
	}

	data, err := formatter.TracksToCSV(tracks)
	if err != nil {
		return fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}

	r.logger.Infof("library exported to %v with %v tracks", outputFile, len(tracks))
	r.writePlain("✓ Library exported to %s (%d tracks)\n", outputFile, len(tracks))

	return nil
}

func (r *Runner) fetchLibrary(ctx context.Context, cmd *cli.Command) ([]models.TrackWithTags, error) {
	if r.store == nil {
		return nil, fmt.Errorf("%w: database not initialized (run 'tagtune setup' first)", shared.ErrStoreUnavailable)
	}

	user := r.user(cmd)
	tags := cmd.StringSlice("tags")
	serviceType := r.config.Sync.Service

	if len(tags) > 0 {
		return r.store.GetTracksByTags(ctx, user, serviceType, tags)
	}
	return r.store.GetUserTracks(ctx, user, serviceType)
}
