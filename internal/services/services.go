// package services defines interface Service for interacting with music backends
//
// Spotify, YouTube Music (via proxy)
package services

import (
	"context"

	"github.com/desertthunder/tagtune/internal/models"
)

// Service defines the interface for music service providers that own the
// authoritative track catalog and playlist membership for a user.
//
// The service type string partitions the local store alongside the user, so
// two backends never see each other's rows.
type Service interface {
	// Type returns the stable service discriminator (e.g. "spotify", "ytmusic").
	Type() string

	// GetAllSongs retrieves every track in the user's library.
	GetAllSongs(ctx context.Context, user models.User) ([]models.Track, error)

	// GetPlaylistsMetadata retrieves metadata for all of the user's playlists.
	GetPlaylistsMetadata(ctx context.Context, user models.User) ([]models.Playlist, error)

	// GetPlaylistTracks retrieves the ordered track list of a playlist.
	GetPlaylistTracks(ctx context.Context, user models.User, playlistID string) ([]models.Track, error)

	// CreatePlaylist creates an empty playlist with the given name and returns its ID.
	CreatePlaylist(ctx context.Context, user models.User, name string) (string, error)

	// UpdatePlaylistTracks adds the given tracks to the playlist's membership.
	UpdatePlaylistTracks(ctx context.Context, user models.User, playlistID string, trackIDs []string) error
}
