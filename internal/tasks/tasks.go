// package tasks implements reconciliation between a music service and the local tag store.
//
// The core abstraction is Controller, which orchestrates the track
// synchronizer, the tag mutator, and the playlist tag projector. Operations
// emit progress updates via channels for non-blocking status reporting to
// CLI/UI layers. The controller never retries, times out, or degrades to
// partial results; every operation either fully succeeds or propagates the
// first collaborator failure.
package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tagtune/internal/models"
	"github.com/desertthunder/tagtune/internal/services"
	"github.com/desertthunder/tagtune/internal/shared"
	"github.com/desertthunder/tagtune/internal/store"
	"golang.org/x/time/rate"
)

// SyncResult summarizes one track synchronization run.
type SyncResult struct {
	RunID        string // Correlation ID for log lines from this run
	ServiceTotal int    // Tracks reported by the music service
	StoredTotal  int    // Tracks in the store before the run
	Added        int    // Tracks written with an empty tag set
	Deleted      int    // Stale rows removed
}

// Controller reconciles a user's library between a music service and the
// local tag store, and derives playlist membership from tag queries.
type Controller struct {
	service services.Service
	store   store.Store
	logger  *log.Logger
	limiter *rate.Limiter
}

// ControllerOpts contains dependencies for creating a Controller.
type ControllerOpts struct {
	Service   services.Service
	Store     store.Store
	Logger    *log.Logger
	RateLimit float64 // Requests per second for per-playlist fetches; 0 disables throttling
}

// NewController creates a new Controller with the provided collaborators.
func NewController(opts ControllerOpts) *Controller {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &Controller{
		service: opts.Service,
		store:   opts.Store,
		logger:  opts.Logger,
		limiter: limiter,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (c *Controller) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// checkCollaborators verifies both collaborators are wired before any
// operation touches them.
func (c *Controller) checkCollaborators() error {
	if c.service == nil {
		return fmt.Errorf("%w: music service not initialized", shared.ErrServiceUnavailable)
	}
	if c.store == nil {
		return fmt.Errorf("%w: store not initialized", shared.ErrStoreUnavailable)
	}
	return nil
}

// SyncTracks converges the store's track set for the user with the music
// service's current library.
//
// Both collections are fetched concurrently and both fetches must succeed.
// Tracks present upstream but absent locally are written with an empty tag
// set; rows whose track vanished upstream are deleted. The two writes run
// concurrently and an empty set skips its write entirely. Existing rows are
// never rewritten, so their tags survive every run and re-running against
// unchanged inputs performs no writes at all.
func (c *Controller) SyncTracks(ctx context.Context, user models.User, progress chan<- ProgressUpdate) (*SyncResult, error) {
	if err := c.checkCollaborators(); err != nil {
		return nil, err
	}

	runID := shared.GenerateID()
	logger := c.logger.With("run_id", runID, "user", string(user), "service", c.service.Type())
	logger.Info("starting track sync")

	c.sendProgress(progress, fetchLibraryUpdate())

	var (
		serviceTracks []models.Track
		storedTracks  []models.TrackWithTags
		serviceErr    error
		storeErr      error
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		serviceTracks, serviceErr = c.service.GetAllSongs(ctx, user)
	}()
	go func() {
		defer wg.Done()
		storedTracks, storeErr = c.store.GetUserTracks(ctx, user, c.service.Type())
	}()
	wg.Wait()

	if serviceErr != nil {
		return nil, serviceErr
	}
	if storeErr != nil {
		return nil, storeErr
	}

	storedIDs := idSet(storedTracks, taggedTrackID)
	serviceIDs := idSet(serviceTracks, trackID)

	toAdd := differenceByID(serviceTracks, trackID, storedIDs)
	stale := differenceByID(storedTracks, taggedTrackID, serviceIDs)
	toDelete := make([]string, len(stale))
	for i, tr := range stale {
		toDelete[i] = tr.ID
	}

	result := &SyncResult{
		RunID:        runID,
		ServiceTotal: len(serviceTracks),
		StoredTotal:  len(storedTracks),
		Added:        len(toAdd),
		Deleted:      len(toDelete),
	}

	c.sendProgress(progress, applyChangesUpdate(len(toAdd), len(toDelete)))

	// New tracks enter the store tag-less; tags only ever come from the
	// user. Add and delete cannot overlap (partitioned by upstream
	// presence), so the writes have no ordering dependency.
	var (
		upsertErr error
		deleteErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		if len(toAdd) == 0 {
			return
		}
		additions := make([]models.TrackWithTags, len(toAdd))
		for i, tr := range toAdd {
			additions[i] = models.NewTrackWithTags(tr, nil)
		}
		upsertErr = c.store.UpsertTracks(ctx, user, c.service.Type(), additions)
	}()
	go func() {
		defer wg.Done()
		if len(toDelete) == 0 {
			return
		}
		deleteErr = c.store.DeleteTracks(ctx, user, c.service.Type(), toDelete)
	}()
	wg.Wait()

	if upsertErr != nil {
		return nil, upsertErr
	}
	if deleteErr != nil {
		return nil, deleteErr
	}

	logger.Info("track sync complete", "added", result.Added, "deleted", result.Deleted)
	c.sendProgress(progress, syncCompleteUpdate(result))

	return result, nil
}
