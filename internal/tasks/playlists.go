package tasks

import (
	"context"
	"sync"

	"github.com/desertthunder/tagtune/internal/models"
)

// GetPlaylists retrieves every playlist with its tracks annotated by the
// store's tags.
//
// Playlist metadata is fetched first, then every per-playlist track list is
// fetched concurrently. All resulting tracks are joined against the store in
// one batched lookup over the distinct IDs. Tracks the store doesn't know
// yet render with an empty tag set; per-playlist track order is preserved.
func (c *Controller) GetPlaylists(ctx context.Context, user models.User, progress chan<- ProgressUpdate) ([]models.TaggedPlaylist, error) {
	if err := c.checkCollaborators(); err != nil {
		return nil, err
	}

	c.sendProgress(progress, fetchPlaylistsUpdate())

	metas, err := c.service.GetPlaylistsMetadata(ctx, user)
	if err != nil {
		return nil, err
	}

	trackLists := make([][]models.Track, len(metas))
	errs := make([]error, len(metas))

	var wg sync.WaitGroup
	for i, meta := range metas {
		wg.Add(1)
		go func(i int, playlistID string) {
			defer wg.Done()
			if c.limiter != nil {
				if err := c.limiter.Wait(ctx); err != nil {
					errs[i] = err
					return
				}
			}
			trackLists[i], errs[i] = c.service.GetPlaylistTracks(ctx, user, playlistID)
		}(i, meta.ID)

		c.sendProgress(progress, fetchPlaylistTracksUpdate(i+1, len(metas), meta.Name))
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	// One batched store lookup across all playlists.
	var distinct []string
	seen := make(map[string]struct{})
	for _, tracks := range trackLists {
		for _, track := range tracks {
			if _, ok := seen[track.ID]; !ok {
				seen[track.ID] = struct{}{}
				distinct = append(distinct, track.ID)
			}
		}
	}

	c.sendProgress(progress, joinTagsUpdate(len(distinct)))

	stored, err := c.store.GetTracksByIDs(ctx, user, c.service.Type(), distinct)
	if err != nil {
		return nil, err
	}

	taggedByID := make(map[string]models.TrackWithTags, len(stored))
	for _, track := range stored {
		taggedByID[track.ID] = track
	}

	playlists := make([]models.TaggedPlaylist, len(metas))
	for i, meta := range metas {
		tracks := make([]models.TrackWithTags, len(trackLists[i]))
		for j, track := range trackLists[i] {
			if tagged, ok := taggedByID[track.ID]; ok {
				tracks[j] = tagged
			} else {
				// Known upstream but not yet synced locally; renders tag-less.
				tracks[j] = models.NewTrackWithTags(track, nil)
			}
		}
		playlists[i] = models.TaggedPlaylist{Playlist: meta, Tracks: tracks}
	}

	return playlists, nil
}

// CreatePlaylistByTags creates a playlist on the music service and populates
// it with every stored track matching all of the given tags. Returns the new
// playlist's ID.
func (c *Controller) CreatePlaylistByTags(ctx context.Context, user models.User, name string, tags []string) (string, error) {
	if err := c.checkCollaborators(); err != nil {
		return "", err
	}

	c.logger.Info("creating playlist from tags", "user", string(user), "name", name, "tags", tags)

	playlistID, err := c.service.CreatePlaylist(ctx, user, name)
	if err != nil {
		return "", err
	}

	if err := c.UpdatePlaylistByTags(ctx, user, playlistID, tags); err != nil {
		return "", err
	}

	return playlistID, nil
}

// UpdatePlaylistByTags adds every stored track matching all of the given
// tags to the playlist, skipping tracks already in it.
//
// The tag query and the current membership are fetched concurrently. The
// membership update is issued even when there is nothing to add; whether
// that is a replace or an append is the music service's contract.
func (c *Controller) UpdatePlaylistByTags(ctx context.Context, user models.User, playlistID string, tags []string) error {
	if err := c.checkCollaborators(); err != nil {
		return err
	}

	var (
		matched  []models.TrackWithTags
		current  []models.Track
		storeErr error
		svcErr   error
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		matched, storeErr = c.store.GetTracksByTags(ctx, user, c.service.Type(), tags)
	}()
	go func() {
		defer wg.Done()
		current, svcErr = c.service.GetPlaylistTracks(ctx, user, playlistID)
	}()
	wg.Wait()

	if storeErr != nil {
		return storeErr
	}
	if svcErr != nil {
		return svcErr
	}

	currentIDs := idSet(current, trackID)
	toAdd := differenceByID(matched, taggedTrackID, currentIDs)

	ids := make([]string, len(toAdd))
	for i, track := range toAdd {
		ids[i] = track.ID
	}

	c.logger.Info("updating playlist membership", "playlist", playlistID, "tags", tags, "adding", len(ids))
	return c.service.UpdatePlaylistTracks(ctx, user, playlistID, ids)
}
