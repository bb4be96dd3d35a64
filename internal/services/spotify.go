// Spotify implementation of [Service] built on the zmb3/spotify client.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/desertthunder/tagtune/internal/models"
	"github.com/desertthunder/tagtune/internal/shared"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

// ServiceTypeSpotify is the store partition key for Spotify-backed libraries.
const ServiceTypeSpotify = "spotify"

// Scopes required for library reads and playlist writes.
var spotifyScopes = []string{
	spotifyauth.ScopeUserLibraryRead,
	spotifyauth.ScopePlaylistReadPrivate,
	spotifyauth.ScopePlaylistModifyPrivate,
	spotifyauth.ScopePlaylistModifyPublic,
}

// SpotifyService implements [Service] for Spotify.
//
// The OAuth token scopes the client to one Spotify account; the user value
// passed to each method partitions the local store and is not sent upstream.
type SpotifyService struct {
	client *spotify.Client
}

// NewAuthenticator builds the OAuth2 authenticator for the authorization
// code flow with the scopes this service needs.
func NewAuthenticator(clientID, clientSecret, redirectURI string) *spotifyauth.Authenticator {
	return spotifyauth.New(
		spotifyauth.WithClientID(clientID),
		spotifyauth.WithClientSecret(clientSecret),
		spotifyauth.WithRedirectURL(redirectURI),
		spotifyauth.WithScopes(spotifyScopes...),
	)
}

// OAuthConfig builds the raw [oauth2.Config] for the authorization code flow,
// used by the callback server to exchange the code for a token.
func OAuthConfig(cfg shared.SpotifyConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       spotifyScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyauth.AuthURL,
			TokenURL: spotifyauth.TokenURL,
		},
	}
}

// NewSpotifyService creates a SpotifyService from a cached OAuth token file.
//
// The token is refreshed transparently by the oauth2 transport; the refreshed
// token is not written back (re-run auth when the refresh token is revoked).
func NewSpotifyService(ctx context.Context, cfg shared.SpotifyConfig) (*SpotifyService, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret required", shared.ErrMissingCredentials)
	}

	token, err := LoadToken(cfg.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
	}

	auth := NewAuthenticator(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURI)
	httpClient := auth.Client(ctx, token)

	return &SpotifyService{client: spotify.New(httpClient)}, nil
}

// NewSpotifyServiceWithClient wraps an existing HTTP client, used by tests
// to point the service at a stub server.
func NewSpotifyServiceWithClient(httpClient *http.Client, opts ...spotify.ClientOption) *SpotifyService {
	return &SpotifyService{client: spotify.New(httpClient, opts...)}
}

// Type returns the service discriminator.
func (s *SpotifyService) Type() string {
	return ServiceTypeSpotify
}

// GetAllSongs retrieves the user's full saved-track library, following
// pagination until exhausted.
func (s *SpotifyService) GetAllSongs(ctx context.Context, _ models.User) ([]models.Track, error) {
	page, err := s.client.CurrentUsersTracks(ctx, spotify.Limit(50))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch library: %v", shared.ErrServiceRequest, err)
	}

	var tracks []models.Track
	for {
		for _, saved := range page.Tracks {
			tracks = append(tracks, fullTrackToModel(&saved.FullTrack))
		}

		err = s.client.NextPage(ctx, page)
		if err == spotify.ErrNoMorePages {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to fetch library page: %v", shared.ErrServiceRequest, err)
		}
	}

	return tracks, nil
}

// GetPlaylistsMetadata retrieves metadata for all of the user's playlists.
func (s *SpotifyService) GetPlaylistsMetadata(ctx context.Context, _ models.User) ([]models.Playlist, error) {
	page, err := s.client.CurrentUsersPlaylists(ctx, spotify.Limit(50))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch playlists: %v", shared.ErrServiceRequest, err)
	}

	var playlists []models.Playlist
	for {
		for _, pl := range page.Playlists {
			playlists = append(playlists, models.Playlist{
				ID:          string(pl.ID),
				Name:        pl.Name,
				Description: pl.Description,
				TrackCount:  int(pl.Tracks.Total),
				Public:      pl.IsPublic,
			})
		}

		err = s.client.NextPage(ctx, page)
		if err == spotify.ErrNoMorePages {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to fetch playlist page: %v", shared.ErrServiceRequest, err)
		}
	}

	return playlists, nil
}

// GetPlaylistTracks retrieves the ordered track list of a playlist.
//
// Podcast episodes in mixed playlists are skipped; only tracks carry IDs the
// store can key on.
func (s *SpotifyService) GetPlaylistTracks(ctx context.Context, _ models.User, playlistID string) ([]models.Track, error) {
	page, err := s.client.GetPlaylistItems(ctx, spotify.ID(playlistID))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch playlist %s: %v", shared.ErrPlaylistNotFound, playlistID, err)
	}

	var tracks []models.Track
	for {
		for _, item := range page.Items {
			if item.Track.Track == nil {
				continue
			}
			tracks = append(tracks, fullTrackToModel(item.Track.Track))
		}

		err = s.client.NextPage(ctx, page)
		if err == spotify.ErrNoMorePages {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to fetch playlist page: %v", shared.ErrServiceRequest, err)
		}
	}

	return tracks, nil
}

// CreatePlaylist creates an empty private playlist and returns its ID.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, _ models.User, name string) (string, error) {
	me, err := s.client.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: failed to resolve current user: %v", shared.ErrServiceRequest, err)
	}

	playlist, err := s.client.CreatePlaylistForUser(ctx, me.ID, name, "", false, false)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create playlist: %v", shared.ErrServiceRequest, err)
	}

	return string(playlist.ID), nil
}

// UpdatePlaylistTracks appends the given tracks to the playlist.
//
// The Spotify API rejects an empty track list, so an empty update resolves
// without a request; membership is unchanged either way.
func (s *SpotifyService) UpdatePlaylistTracks(ctx context.Context, _ models.User, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	ids := make([]spotify.ID, len(trackIDs))
	for i, id := range trackIDs {
		ids[i] = spotify.ID(id)
	}

	// AddTracksToPlaylist accepts at most 100 tracks per request.
	for start := 0; start < len(ids); start += 100 {
		end := start + 100
		if end > len(ids) {
			end = len(ids)
		}
		if _, err := s.client.AddTracksToPlaylist(ctx, spotify.ID(playlistID), ids[start:end]...); err != nil {
			return fmt.Errorf("%w: failed to add tracks to playlist %s: %v", shared.ErrServiceRequest, playlistID, err)
		}
	}

	return nil
}

func fullTrackToModel(ft *spotify.FullTrack) models.Track {
	track := models.Track{
		ID:       string(ft.ID),
		Title:    ft.Name,
		Album:    ft.Album.Name,
		Duration: int(ft.TimeDuration().Seconds()),
		ISRC:     ft.ExternalIDs["isrc"],
	}
	if len(ft.Artists) > 0 {
		track.Artist = ft.Artists[0].Name
	}
	return track
}

// LoadToken reads a cached OAuth2 token from disk.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	return &token, nil
}

// SaveToken writes an OAuth2 token to disk with owner-only permissions.
func SaveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}
