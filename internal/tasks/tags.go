package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/tagtune/internal/models"
	"github.com/desertthunder/tagtune/internal/shared"
)

// AddTagsToTracks appends the given tags to each of the given tracks,
// persisting only tracks whose tag set actually grew.
//
// Every requested ID must already exist in the store; a missing ID fails the
// whole operation before any write. Existing tag order is preserved and new
// tags are appended in request order, skipping tags the track already has.
func (c *Controller) AddTagsToTracks(ctx context.Context, user models.User, trackIDs, tags []string) error {
	if err := c.checkCollaborators(); err != nil {
		return err
	}

	byID, err := c.fetchRequestedTracks(ctx, user, trackIDs)
	if err != nil {
		return err
	}

	var changed []models.TrackWithTags
	for _, id := range trackIDs {
		track := byID[id]

		grew := false
		for _, tag := range tags {
			if !track.HasTag(tag) {
				track.Tags = append(track.Tags, tag)
				grew = true
			}
		}

		if grew {
			byID[id] = track
			changed = append(changed, track)
		}
	}

	if len(changed) == 0 {
		return nil
	}

	c.logger.Info("adding tags", "user", string(user), "tracks", len(changed), "tags", tags)
	return c.store.UpsertTracks(ctx, user, c.service.Type(), changed)
}

// RemoveTagsFromTracks removes the given tags from each of the given tracks,
// persisting only tracks whose tag set actually shrank.
//
// Removing a tag a track doesn't carry is a no-op for that track. Remaining
// tags keep their order.
func (c *Controller) RemoveTagsFromTracks(ctx context.Context, user models.User, trackIDs, tags []string) error {
	if err := c.checkCollaborators(); err != nil {
		return err
	}

	byID, err := c.fetchRequestedTracks(ctx, user, trackIDs)
	if err != nil {
		return err
	}

	remove := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		remove[tag] = struct{}{}
	}

	var changed []models.TrackWithTags
	for _, id := range trackIDs {
		track := byID[id]

		kept := make([]string, 0, len(track.Tags))
		for _, tag := range track.Tags {
			if _, drop := remove[tag]; !drop {
				kept = append(kept, tag)
			}
		}

		if len(kept) < len(track.Tags) {
			track.Tags = kept
			byID[id] = track
			changed = append(changed, track)
		}
	}

	if len(changed) == 0 {
		return nil
	}

	c.logger.Info("removing tags", "user", string(user), "tracks", len(changed), "tags", tags)
	return c.store.UpsertTracks(ctx, user, c.service.Type(), changed)
}

// fetchRequestedTracks loads the stored rows for trackIDs and fails loudly
// if any requested ID has no row.
func (c *Controller) fetchRequestedTracks(ctx context.Context, user models.User, trackIDs []string) (map[string]models.TrackWithTags, error) {
	tracks, err := c.store.GetTracksByIDs(ctx, user, c.service.Type(), trackIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.TrackWithTags, len(tracks))
	for _, track := range tracks {
		byID[track.ID] = track
	}

	for _, id := range trackIDs {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("%w: %s is not in the library (run sync first?)", shared.ErrTrackNotFound, id)
		}
	}

	return byID, nil
}
