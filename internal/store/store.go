// package store provides the persistence layer for tag-annotated library tracks.
//
// Rows are keyed by (user, service, track id). The music service owns track
// identity and existence; the store owns the tag augmentation and is the only
// place tags are read or written.
package store

import (
	"context"

	"github.com/desertthunder/tagtune/internal/models"
)

// Store defines data access operations for tagged library tracks.
type Store interface {
	// GetUserTracks retrieves every stored track for a user and service.
	GetUserTracks(ctx context.Context, user models.User, serviceType string) ([]models.TrackWithTags, error)

	// GetTracksByIDs retrieves the stored tracks matching the given IDs.
	// IDs with no stored row are simply absent from the result.
	GetTracksByIDs(ctx context.Context, user models.User, serviceType string, ids []string) ([]models.TrackWithTags, error)

	// GetTracksByTags retrieves stored tracks carrying ALL of the given tags.
	GetTracksByTags(ctx context.Context, user models.User, serviceType string, tags []string) ([]models.TrackWithTags, error)

	// UpsertTracks inserts or replaces the given tracks, preserving each
	// row's creation timestamp on update.
	UpsertTracks(ctx context.Context, user models.User, serviceType string, tracks []models.TrackWithTags) error

	// DeleteTracks removes the rows with the given IDs.
	DeleteTracks(ctx context.Context, user models.User, serviceType string, ids []string) error
}
