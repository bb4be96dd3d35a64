// YouTube Music implementation of [Service]
//
// Communicates with the FastAPI proxy server wrapping the ytmusicapi Python
// library. Requests are rate limited client-side since the proxy forwards
// straight to YouTube Music.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/desertthunder/tagtune/internal/models"
	"github.com/desertthunder/tagtune/internal/shared"
	"golang.org/x/time/rate"
)

// ServiceTypeYouTube is the store partition key for YouTube Music libraries.
const ServiceTypeYouTube = "ytmusic"

const defaultProxyBaseURL = "http://localhost:8080"

const defaultProxyRateLimit = 5.0 // requests per second

// YouTubeService implements [Service] for YouTube Music via the proxy.
type YouTubeService struct {
	baseURL    string
	authFile   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// YouTubeServiceOpts configures a YouTubeService.
type YouTubeServiceOpts struct {
	BaseURL    string
	AuthFile   string  // Path to browser.json or oauth.json passed through to the proxy
	RateLimit  float64 // Requests per second; defaults to 5
	HTTPClient *http.Client
}

// NewYouTubeService creates a new YouTube Music service instance.
func NewYouTubeService(opts YouTubeServiceOpts) *YouTubeService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultProxyBaseURL
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultProxyRateLimit
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &YouTubeService{
		baseURL:    opts.BaseURL,
		authFile:   opts.AuthFile,
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
	}
}

// Type returns the service discriminator.
func (y *YouTubeService) Type() string {
	return ServiceTypeYouTube
}

func (y *YouTubeService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceRequest, err)
	}

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, y.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if y.authFile != "" {
		req.Header.Set("X-Auth-File", y.authFile)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("%w: status %d: %s", shared.ErrServiceRequest, resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("%w: status %d", shared.ErrServiceRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// youtubeTrack is the proxy's track shape.
type youtubeTrack struct {
	VideoID string `json:"videoId"`
	Title   string `json:"title"`
	Artists []struct {
		Name string `json:"name"`
		ID   string `json:"id"`
	} `json:"artists"`
	Album *struct {
		Name string `json:"name"`
		ID   string `json:"id"`
	} `json:"album"`
	DurationSec int    `json:"duration_seconds"`
	ISRC        string `json:"isrc,omitempty"`
}

func (t youtubeTrack) toModel() models.Track {
	track := models.Track{
		ID:       t.VideoID,
		Title:    t.Title,
		Duration: t.DurationSec,
		ISRC:     t.ISRC,
	}
	if len(t.Artists) > 0 {
		track.Artist = t.Artists[0].Name
	}
	if t.Album != nil {
		track.Album = t.Album.Name
	}
	return track
}

// GetAllSongs retrieves the user's library songs.
//
// Calls GET /api/library/songs on the proxy.
func (y *YouTubeService) GetAllSongs(ctx context.Context, _ models.User) ([]models.Track, error) {
	var ytTracks []youtubeTrack
	if err := y.doRequest(ctx, http.MethodGet, "/api/library/songs", nil, &ytTracks); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, len(ytTracks))
	for i, ytt := range ytTracks {
		tracks[i] = ytt.toModel()
	}

	return tracks, nil
}

// GetPlaylistsMetadata retrieves all playlists for the authenticated user.
//
// Calls GET /api/library/playlists on the proxy.
func (y *YouTubeService) GetPlaylistsMetadata(ctx context.Context, _ models.User) ([]models.Playlist, error) {
	var ytPlaylists []struct {
		PlaylistID  string `json:"playlistId"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Privacy     string `json:"privacy"`
		Count       int    `json:"count"`
	}

	if err := y.doRequest(ctx, http.MethodGet, "/api/library/playlists", nil, &ytPlaylists); err != nil {
		return nil, err
	}

	playlists := make([]models.Playlist, len(ytPlaylists))
	for i, ytp := range ytPlaylists {
		playlists[i] = models.Playlist{
			ID:          ytp.PlaylistID,
			Name:        ytp.Title,
			Description: ytp.Description,
			TrackCount:  ytp.Count,
			Public:      ytp.Privacy == "PUBLIC",
		}
	}

	return playlists, nil
}

// GetPlaylistTracks retrieves the ordered track list of a playlist.
//
// Calls GET /api/playlists/{id} on the proxy.
func (y *YouTubeService) GetPlaylistTracks(ctx context.Context, _ models.User, playlistID string) ([]models.Track, error) {
	var ytPlaylist struct {
		ID     string         `json:"id"`
		Title  string         `json:"title"`
		Tracks []youtubeTrack `json:"tracks"`
	}

	endpoint := fmt.Sprintf("/api/playlists/%s", playlistID)
	if err := y.doRequest(ctx, http.MethodGet, endpoint, nil, &ytPlaylist); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, len(ytPlaylist.Tracks))
	for i, ytt := range ytPlaylist.Tracks {
		tracks[i] = ytt.toModel()
	}

	return tracks, nil
}

// CreatePlaylist creates an empty private playlist and returns its ID.
//
// Calls POST /api/playlists on the proxy.
func (y *YouTubeService) CreatePlaylist(ctx context.Context, _ models.User, name string) (string, error) {
	createReq := struct {
		Title         string `json:"title"`
		PrivacyStatus string `json:"privacy_status"`
	}{
		Title:         name,
		PrivacyStatus: "PRIVATE",
	}

	var createResp struct {
		PlaylistID string `json:"playlist_id"`
	}

	if err := y.doRequest(ctx, http.MethodPost, "/api/playlists", createReq, &createResp); err != nil {
		return "", err
	}

	return createResp.PlaylistID, nil
}

// UpdatePlaylistTracks appends the given tracks to the playlist.
//
// Calls POST /api/playlists/{id}/items on the proxy. The proxy treats an
// empty video list as a no-op, so the request is issued regardless.
func (y *YouTubeService) UpdatePlaylistTracks(ctx context.Context, _ models.User, playlistID string, trackIDs []string) error {
	addReq := struct {
		VideoIDs []string `json:"video_ids"`
	}{
		VideoIDs: trackIDs,
	}
	if addReq.VideoIDs == nil {
		addReq.VideoIDs = []string{}
	}

	endpoint := fmt.Sprintf("/api/playlists/%s/items", playlistID)
	return y.doRequest(ctx, http.MethodPost, endpoint, addReq, nil)
}
