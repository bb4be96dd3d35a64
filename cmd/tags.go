package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tagtune/internal/models"
	"github.com/desertthunder/tagtune/internal/shared"
	"github.com/urfave/cli/v3"
)

// TagsAdd adds tags to the given stored tracks.
func (r *Runner) TagsAdd(ctx context.Context, cmd *cli.Command) error {
	user := r.user(cmd)
	trackIDs := cmd.StringSlice("tracks")
	tags := cmd.StringSlice("tags")

	if err := r.controller.AddTagsToTracks(ctx, user, trackIDs, tags); err != nil {
		return fmt.Errorf("failed to add tags: %w", err)
	}

	r.writePlain("✓ Tagged %d track(s) with %v\n", len(trackIDs), tags)
	return nil
}

// TagsShow prints the stored tags for the given tracks, or for every stored
// track when no IDs are supplied.
func (r *Runner) TagsShow(ctx context.Context, cmd *cli.Command) error {
	if r.store == nil {
		return fmt.Errorf("%w: database not initialized (run 'tagtune setup' first)", shared.ErrStoreUnavailable)
	}

	user := r.user(cmd)
	trackIDs := cmd.StringSlice("tracks")
	serviceType := r.config.Sync.Service

	var (
		tracks []models.TrackWithTags
		err    error
	)
	if len(trackIDs) > 0 {
		tracks, err = r.store.GetTracksByIDs(ctx, user, serviceType, trackIDs)
	} else {
		tracks, err = r.store.GetUserTracks(ctx, user, serviceType)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch tracks: %w", err)
	}

	for _, track := range tracks {
		r.writePlain("%s  %s (%s): %s\n", track.ID, track.Title, track.Artist, shared.JoinTags(track.Tags))
	}
	r.writePlain("\n%d track(s)\n", len(tracks))

	return nil
}

// TagsRemove removes tags from the given stored tracks.
func (r *Runner) TagsRemove(ctx context.Context, cmd *cli.Command) error {
	user := r.user(cmd)
	trackIDs := cmd.StringSlice("tracks")
	tags := cmd.StringSlice("tags")

	if err := r.controller.RemoveTagsFromTracks(ctx, user, trackIDs, tags); err != nil {
		return fmt.Errorf("failed to remove tags: %w", err)
	}

	r.writePlain("✓ Removed %v from %d track(s)\n", tags, len(trackIDs))
	return nil
}
