package tasks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/desertthunder/tagtune/internal/models"
	"github.com/desertthunder/tagtune/internal/shared"
)

type updateCall struct {
	playlistID string
	trackIDs   []string
}

type mockService struct {
	songs          []models.Track
	playlists      []models.Playlist
	playlistTracks map[string][]models.Track
	createdID      string

	getAllSongsErr      error
	getPlaylistsErr     error
	getPlaylistTrksErr  error
	createPlaylistErr   error
	updatePlaylistErr   error
	playlistTracksCalls int
	createCalls         []string
	updateCalls         []updateCall
}

func (m *mockService) Type() string { return "mock" }

func (m *mockService) GetAllSongs(ctx context.Context, user models.User) ([]models.Track, error) {
	if m.getAllSongsErr != nil {
		return nil, m.getAllSongsErr
	}
	return m.songs, nil
}

func (m *mockService) GetPlaylistsMetadata(ctx context.Context, user models.User) ([]models.Playlist, error) {
	if m.getPlaylistsErr != nil {
		return nil, m.getPlaylistsErr
	}
	return m.playlists, nil
}

func (m *mockService) GetPlaylistTracks(ctx context.Context, user models.User, playlistID string) ([]models.Track, error) {
	m.playlistTracksCalls++
	if m.getPlaylistTrksErr != nil {
		return nil, m.getPlaylistTrksErr
	}
	tracks, ok := m.playlistTracks[playlistID]
	if !ok {
		return nil, fmt.Errorf("playlist not found: %s", playlistID)
	}
	return tracks, nil
}

func (m *mockService) CreatePlaylist(ctx context.Context, user models.User, name string) (string, error) {
	if m.createPlaylistErr != nil {
		return "", m.createPlaylistErr
	}
	m.createCalls = append(m.createCalls, name)
	return m.createdID, nil
}

func (m *mockService) UpdatePlaylistTracks(ctx context.Context, user models.User, playlistID string, trackIDs []string) error {
	if m.updatePlaylistErr != nil {
		return m.updatePlaylistErr
	}
	m.updateCalls = append(m.updateCalls, updateCall{playlistID: playlistID, trackIDs: trackIDs})
	if m.playlistTracks == nil {
		m.playlistTracks = make(map[string][]models.Track)
	}
	for _, id := range trackIDs {
		m.playlistTracks[playlistID] = append(m.playlistTracks[playlistID], models.Track{ID: id})
	}
	return nil
}

type mockStore struct {
	tracks map[string]models.TrackWithTags
	order  []string

	getUserTracksErr error
	getByIDsErr      error
	getByTagsErr     error
	upsertErr        error
	deleteErr        error
	upsertCalls      [][]models.TrackWithTags
	deleteCalls      [][]string
	getByIDsCalls    [][]string
}

func newMockStore(tracks ...models.TrackWithTags) *mockStore {
	s := &mockStore{tracks: make(map[string]models.TrackWithTags)}
	for _, track := range tracks {
		s.tracks[track.ID] = track
		s.order = append(s.order, track.ID)
	}
	return s
}

func (s *mockStore) GetUserTracks(ctx context.Context, user models.User, serviceType string) ([]models.TrackWithTags, error) {
	if s.getUserTracksErr != nil {
		return nil, s.getUserTracksErr
	}
	out := []models.TrackWithTags{}
	for _, id := range s.order {
		if track, ok := s.tracks[id]; ok {
			out = append(out, track)
		}
	}
	return out, nil
}

func (s *mockStore) GetTracksByIDs(ctx context.Context, user models.User, serviceType string, ids []string) ([]models.TrackWithTags, error) {
	s.getByIDsCalls = append(s.getByIDsCalls, ids)
	if s.getByIDsErr != nil {
		return nil, s.getByIDsErr
	}
	out := []models.TrackWithTags{}
	for _, id := range ids {
		if track, ok := s.tracks[id]; ok {
			out = append(out, track)
		}
	}
	return out, nil
}

func (s *mockStore) GetTracksByTags(ctx context.Context, user models.User, serviceType string, tags []string) ([]models.TrackWithTags, error) {
	if s.getByTagsErr != nil {
		return nil, s.getByTagsErr
	}
	out := []models.TrackWithTags{}
	for _, id := range s.order {
		track, ok := s.tracks[id]
		if !ok {
			continue
		}
		matches := true
		for _, tag := range tags {
			if !track.HasTag(tag) {
				matches = false
				break
			}
		}
		if matches {
			out = append(out, track)
		}
	}
	return out, nil
}

func (s *mockStore) UpsertTracks(ctx context.Context, user models.User, serviceType string, tracks []models.TrackWithTags) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upsertCalls = append(s.upsertCalls, tracks)
	for _, track := range tracks {
		if _, exists := s.tracks[track.ID]; !exists {
			s.order = append(s.order, track.ID)
		}
		s.tracks[track.ID] = track
	}
	return nil
}

func (s *mockStore) DeleteTracks(ctx context.Context, user models.User, serviceType string, ids []string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleteCalls = append(s.deleteCalls, ids)
	for _, id := range ids {
		delete(s.tracks, id)
	}
	return nil
}

func (s *mockStore) ids() []string {
	out := []string{}
	for id := range s.tracks {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func newTestController(svc *mockService, st *mockStore) *Controller {
	return NewController(ControllerOpts{Service: svc, Store: st})
}

func TestController_SyncTracks(t *testing.T) {
	tests := []struct {
		name            string
		serviceSongs    []models.Track
		storedTracks    []models.TrackWithTags
		wantUpsertCalls int
		wantDeleteCalls int
		wantAdded       int
		wantDeleted     int
		wantIDs         []string
	}{
		{
			name:         "new track added with empty tags, existing untouched",
			serviceSongs: []models.Track{{ID: "1"}, {ID: "2"}},
			storedTracks: []models.TrackWithTags{
				models.NewTrackWithTags(models.Track{ID: "1"}, []string{"rock"}),
			},
			wantUpsertCalls: 1,
			wantDeleteCalls: 0,
			wantAdded:       1,
			wantDeleted:     0,
			wantIDs:         []string{"1", "2"},
		},
		{
			name:         "stale rows deleted in one batched call",
			serviceSongs: []models.Track{{ID: "1"}},
			storedTracks: []models.TrackWithTags{
				models.NewTrackWithTags(models.Track{ID: "1"}, nil),
				models.NewTrackWithTags(models.Track{ID: "2"}, nil),
				models.NewTrackWithTags(models.Track{ID: "3"}, nil),
			},
			wantUpsertCalls: 0,
			wantDeleteCalls: 1,
			wantAdded:       0,
			wantDeleted:     2,
			wantIDs:         []string{"1"},
		},
		{
			name:            "already converged performs no writes",
			serviceSongs:    []models.Track{{ID: "1"}, {ID: "2"}},
			storedTracks:    []models.TrackWithTags{tagless("1"), tagless("2")},
			wantUpsertCalls: 0,
			wantDeleteCalls: 0,
			wantIDs:         []string{"1", "2"},
		},
		{
			name:            "empty library empties store",
			serviceSongs:    []models.Track{},
			storedTracks:    []models.TrackWithTags{tagless("1")},
			wantUpsertCalls: 0,
			wantDeleteCalls: 1,
			wantDeleted:     1,
			wantIDs:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{songs: tt.serviceSongs}
			st := newMockStore(tt.storedTracks...)
			controller := newTestController(svc, st)

			result, err := controller.SyncTracks(context.Background(), "alice", nil)
			if err != nil {
				t.Fatalf("SyncTracks() error = %v", err)
			}

			if len(st.upsertCalls) != tt.wantUpsertCalls {
				t.Errorf("upsert calls = %d, want %d", len(st.upsertCalls), tt.wantUpsertCalls)
			}
			if len(st.deleteCalls) != tt.wantDeleteCalls {
				t.Errorf("delete calls = %d, want %d", len(st.deleteCalls), tt.wantDeleteCalls)
			}
			if result.Added != tt.wantAdded {
				t.Errorf("result.Added = %d, want %d", result.Added, tt.wantAdded)
			}
			if result.Deleted != tt.wantDeleted {
				t.Errorf("result.Deleted = %d, want %d", result.Deleted, tt.wantDeleted)
			}

			gotIDs := st.ids()
			if len(gotIDs) != len(tt.wantIDs) {
				t.Fatalf("store IDs = %v, want %v", gotIDs, tt.wantIDs)
			}
			for i, id := range tt.wantIDs {
				if gotIDs[i] != id {
					t.Errorf("store IDs = %v, want %v", gotIDs, tt.wantIDs)
					break
				}
			}
		})
	}
}

func tagless(id string) models.TrackWithTags {
	return models.NewTrackWithTags(models.Track{ID: id}, nil)
}

func TestController_SyncTracks_PreservesTags(t *testing.T) {
	svc := &mockService{songs: []models.Track{{ID: "1"}, {ID: "2"}}}
	st := newMockStore(models.NewTrackWithTags(models.Track{ID: "1"}, []string{"rock"}))
	controller := newTestController(svc, st)

	if _, err := controller.SyncTracks(context.Background(), "alice", nil); err != nil {
		t.Fatalf("SyncTracks() error = %v", err)
	}

	kept := st.tracks["1"]
	if len(kept.Tags) != 1 || kept.Tags[0] != "rock" {
		t.Errorf("existing track's tags should survive sync, got %v", kept.Tags)
	}

	added := st.tracks["2"]
	if added.Tags == nil || len(added.Tags) != 0 {
		t.Errorf("new track should be written with empty non-nil tags, got %v", added.Tags)
	}
}

func TestController_SyncTracks_Idempotent(t *testing.T) {
	svc := &mockService{songs: []models.Track{{ID: "1"}, {ID: "2"}, {ID: "3"}}}
	st := newMockStore(tagless("2"), tagless("9"))
	controller := newTestController(svc, st)

	if _, err := controller.SyncTracks(context.Background(), "alice", nil); err != nil {
		t.Fatalf("first SyncTracks() error = %v", err)
	}

	upserts, deletes := len(st.upsertCalls), len(st.deleteCalls)

	result, err := controller.SyncTracks(context.Background(), "alice", nil)
	if err != nil {
		t.Fatalf("second SyncTracks() error = %v", err)
	}

	if len(st.upsertCalls) != upserts || len(st.deleteCalls) != deletes {
		t.Error("second sync with unchanged inputs should perform no writes")
	}
	if result.Added != 0 || result.Deleted != 0 {
		t.Errorf("second sync should report no changes, got %+v", result)
	}
}

func TestController_SyncTracks_Errors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name string
		svc  *mockService
		st   *mockStore
	}{
		{
			name: "service fetch fails",
			svc:  &mockService{getAllSongsErr: boom},
			st:   newMockStore(),
		},
		{
			name: "store fetch fails",
			svc:  &mockService{songs: []models.Track{{ID: "1"}}},
			st:   &mockStore{tracks: map[string]models.TrackWithTags{}, getUserTracksErr: boom},
		},
		{
			name: "upsert fails",
			svc:  &mockService{songs: []models.Track{{ID: "1"}}},
			st:   &mockStore{tracks: map[string]models.TrackWithTags{}, upsertErr: boom},
		},
		{
			name: "delete fails",
			svc:  &mockService{songs: []models.Track{}},
			st: &mockStore{
				tracks:    map[string]models.TrackWithTags{"1": tagless("1")},
				order:     []string{"1"},
				deleteErr: boom,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller := newTestController(tt.svc, tt.st)
			if _, err := controller.SyncTracks(context.Background(), "alice", nil); !errors.Is(err, boom) {
				t.Errorf("SyncTracks() error = %v, want %v", err, boom)
			}
		})
	}

	t.Run("nil service", func(t *testing.T) {
		controller := NewController(ControllerOpts{Store: newMockStore()})
		if _, err := controller.SyncTracks(context.Background(), "alice", nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("nil store", func(t *testing.T) {
		controller := NewController(ControllerOpts{Service: &mockService{}})
		if _, err := controller.SyncTracks(context.Background(), "alice", nil); !errors.Is(err, shared.ErrStoreUnavailable) {
			t.Errorf("expected ErrStoreUnavailable, got %v", err)
		}
	})
}

func TestController_AddTagsToTracks(t *testing.T) {
	t.Run("appends new tags preserving order", func(t *testing.T) {
		st := newMockStore(models.NewTrackWithTags(models.Track{ID: "1"}, []string{"rock"}))
		controller := newTestController(&mockService{}, st)

		err := controller.AddTagsToTracks(context.Background(), "alice", []string{"1"}, []string{"jazz", "rock"})
		if err != nil {
			t.Fatalf("AddTagsToTracks() error = %v", err)
		}

		if len(st.upsertCalls) != 1 || len(st.upsertCalls[0]) != 1 {
			t.Fatalf("expected exactly one upsert with one track, got %v", st.upsertCalls)
		}

		got := st.tracks["1"].Tags
		want := []string{"rock", "jazz"}
		if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
			t.Errorf("tags = %v, want %v", got, want)
		}
	})

	t.Run("idempotent re-add skips write", func(t *testing.T) {
		st := newMockStore(models.NewTrackWithTags(models.Track{ID: "1"}, []string{"rock", "jazz"}))
		controller := newTestController(&mockService{}, st)

		err := controller.AddTagsToTracks(context.Background(), "alice", []string{"1"}, []string{"rock", "jazz"})
		if err != nil {
			t.Fatalf("AddTagsToTracks() error = %v", err)
		}

		if len(st.upsertCalls) != 0 {
			t.Error("no-change add should not write to the store")
		}
	})

	t.Run("only changed tracks upserted", func(t *testing.T) {
		st := newMockStore(
			models.NewTrackWithTags(models.Track{ID: "1"}, []string{"rock"}),
			models.NewTrackWithTags(models.Track{ID: "2"}, nil),
		)
		controller := newTestController(&mockService{}, st)

		err := controller.AddTagsToTracks(context.Background(), "alice", []string{"1", "2"}, []string{"rock"})
		if err != nil {
			t.Fatalf("AddTagsToTracks() error = %v", err)
		}

		if len(st.upsertCalls) != 1 {
			t.Fatalf("expected one upsert call, got %d", len(st.upsertCalls))
		}
		if len(st.upsertCalls[0]) != 1 || st.upsertCalls[0][0].ID != "2" {
			t.Errorf("only track '2' should be upserted, got %v", st.upsertCalls[0])
		}
	})

	t.Run("missing track fails loudly", func(t *testing.T) {
		st := newMockStore(tagless("1"))
		controller := newTestController(&mockService{}, st)

		err := controller.AddTagsToTracks(context.Background(), "alice", []string{"1", "ghost"}, []string{"rock"})
		if !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound, got %v", err)
		}
		if len(st.upsertCalls) != 0 {
			t.Error("no write should happen when a requested track is missing")
		}
	})
}

func TestController_RemoveTagsFromTracks(t *testing.T) {
	t.Run("removes tags preserving remaining order", func(t *testing.T) {
		st := newMockStore(models.NewTrackWithTags(models.Track{ID: "1"}, []string{"a", "b", "c"}))
		controller := newTestController(&mockService{}, st)

		err := controller.RemoveTagsFromTracks(context.Background(), "alice", []string{"1"}, []string{"b"})
		if err != nil {
			t.Fatalf("RemoveTagsFromTracks() error = %v", err)
		}

		got := st.tracks["1"].Tags
		if len(got) != 2 || got[0] != "a" || got[1] != "c" {
			t.Errorf("tags = %v, want [a c]", got)
		}
	})

	t.Run("removing absent tag skips write", func(t *testing.T) {
		st := newMockStore(models.NewTrackWithTags(models.Track{ID: "1"}, []string{"rock"}))
		controller := newTestController(&mockService{}, st)

		err := controller.RemoveTagsFromTracks(context.Background(), "alice", []string{"1"}, []string{"jazz"})
		if err != nil {
			t.Fatalf("RemoveTagsFromTracks() error = %v", err)
		}

		if len(st.upsertCalls) != 0 {
			t.Error("removing a tag the track lacks should not write")
		}
	})

	t.Run("missing track fails loudly", func(t *testing.T) {
		st := newMockStore()
		controller := newTestController(&mockService{}, st)

		err := controller.RemoveTagsFromTracks(context.Background(), "alice", []string{"ghost"}, []string{"rock"})
		if !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound, got %v", err)
		}
	})
}

func TestController_TagRoundTrip(t *testing.T) {
	st := newMockStore(tagless("1"))
	controller := newTestController(&mockService{}, st)
	ctx := context.Background()

	if err := controller.AddTagsToTracks(ctx, "alice", []string{"1"}, []string{"a", "b"}); err != nil {
		t.Fatalf("AddTagsToTracks() error = %v", err)
	}
	if err := controller.RemoveTagsFromTracks(ctx, "alice", []string{"1"}, []string{"a"}); err != nil {
		t.Fatalf("RemoveTagsFromTracks() error = %v", err)
	}

	got := st.tracks["1"].Tags
	if len(got) != 1 || got[0] != "b" {
		t.Errorf("tags after round trip = %v, want [b]", got)
	}
}

func TestController_GetPlaylists(t *testing.T) {
	svc := &mockService{
		playlists: []models.Playlist{
			{ID: "p1", Name: "Focus", TrackCount: 2},
			{ID: "p2", Name: "Gym", TrackCount: 2},
		},
		playlistTracks: map[string][]models.Track{
			"p1": {{ID: "1", Title: "First"}, {ID: "2", Title: "Second"}},
			"p2": {{ID: "2", Title: "Second"}, {ID: "3", Title: "Third"}},
		},
	}
	st := newMockStore(
		models.NewTrackWithTags(models.Track{ID: "1", Title: "First"}, []string{"rock"}),
		models.NewTrackWithTags(models.Track{ID: "2", Title: "Second"}, []string{"jazz"}),
	)
	controller := newTestController(svc, st)

	playlists, err := controller.GetPlaylists(context.Background(), "alice", nil)
	if err != nil {
		t.Fatalf("GetPlaylists() error = %v", err)
	}

	if len(playlists) != 2 {
		t.Fatalf("expected 2 playlists, got %d", len(playlists))
	}

	// Stored tracks keep their tags, order preserved
	p1 := playlists[0]
	if p1.Tracks[0].ID != "1" || p1.Tracks[1].ID != "2" {
		t.Errorf("playlist track order not preserved: %+v", p1.Tracks)
	}
	if len(p1.Tracks[0].Tags) != 1 || p1.Tracks[0].Tags[0] != "rock" {
		t.Errorf("stored track should keep its tags, got %v", p1.Tracks[0].Tags)
	}

	// Unsynced track renders with empty non-nil tags
	p2 := playlists[1]
	if p2.Tracks[1].ID != "3" {
		t.Fatalf("expected unsynced track '3', got %+v", p2.Tracks[1])
	}
	if p2.Tracks[1].Tags == nil {
		t.Error("unsynced track must still carry a non-nil tags slice")
	}
	if len(p2.Tracks[1].Tags) != 0 {
		t.Errorf("unsynced track should have no tags, got %v", p2.Tracks[1].Tags)
	}

	// Single batched store lookup over distinct IDs
	if len(st.getByIDsCalls) != 1 {
		t.Fatalf("expected one batched store lookup, got %d", len(st.getByIDsCalls))
	}
	if len(st.getByIDsCalls[0]) != 3 {
		t.Errorf("batched lookup should cover 3 distinct IDs, got %v", st.getByIDsCalls[0])
	}
}

func TestController_GetPlaylists_FetchError(t *testing.T) {
	boom := errors.New("boom")
	svc := &mockService{
		playlists:          []models.Playlist{{ID: "p1", Name: "Focus"}},
		getPlaylistTrksErr: boom,
	}
	controller := newTestController(svc, newMockStore())

	if _, err := controller.GetPlaylists(context.Background(), "alice", nil); !errors.Is(err, boom) {
		t.Errorf("GetPlaylists() error = %v, want %v", err, boom)
	}
}

func TestController_UpdatePlaylistByTags(t *testing.T) {
	t.Run("adds only tracks missing from playlist", func(t *testing.T) {
		svc := &mockService{
			playlistTracks: map[string][]models.Track{
				"p1": {{ID: "1"}},
			},
		}
		st := newMockStore(
			models.NewTrackWithTags(models.Track{ID: "1"}, []string{"rock"}),
			models.NewTrackWithTags(models.Track{ID: "2"}, []string{"rock"}),
			models.NewTrackWithTags(models.Track{ID: "3"}, []string{"jazz"}),
		)
		controller := newTestController(svc, st)

		err := controller.UpdatePlaylistByTags(context.Background(), "alice", "p1", []string{"rock"})
		if err != nil {
			t.Fatalf("UpdatePlaylistByTags() error = %v", err)
		}

		if len(svc.updateCalls) != 1 {
			t.Fatalf("expected one membership update, got %d", len(svc.updateCalls))
		}
		call := svc.updateCalls[0]
		if call.playlistID != "p1" {
			t.Errorf("playlist ID = %q, want 'p1'", call.playlistID)
		}
		if len(call.trackIDs) != 1 || call.trackIDs[0] != "2" {
			t.Errorf("added IDs = %v, want [2]", call.trackIDs)
		}
	})

	t.Run("empty addition still issues the update", func(t *testing.T) {
		svc := &mockService{
			playlistTracks: map[string][]models.Track{
				"p1": {{ID: "1"}},
			},
		}
		st := newMockStore(models.NewTrackWithTags(models.Track{ID: "1"}, []string{"rock"}))
		controller := newTestController(svc, st)

		err := controller.UpdatePlaylistByTags(context.Background(), "alice", "p1", []string{"rock"})
		if err != nil {
			t.Fatalf("UpdatePlaylistByTags() error = %v", err)
		}

		if len(svc.updateCalls) != 1 {
			t.Fatal("update should be issued even with nothing to add")
		}
		if len(svc.updateCalls[0].trackIDs) != 0 {
			t.Errorf("expected empty addition list, got %v", svc.updateCalls[0].trackIDs)
		}
	})

	t.Run("propagates errors", func(t *testing.T) {
		boom := errors.New("boom")
		svc := &mockService{playlistTracks: map[string][]models.Track{"p1": {}}}
		st := &mockStore{tracks: map[string]models.TrackWithTags{}, getByTagsErr: boom}
		controller := newTestController(svc, st)

		if err := controller.UpdatePlaylistByTags(context.Background(), "alice", "p1", []string{"rock"}); !errors.Is(err, boom) {
			t.Errorf("UpdatePlaylistByTags() error = %v, want %v", err, boom)
		}
	})
}

func TestController_CreatePlaylistByTags(t *testing.T) {
	t.Run("creates then populates", func(t *testing.T) {
		svc := &mockService{
			createdID:      "new-playlist",
			playlistTracks: map[string][]models.Track{"new-playlist": {}},
		}
		st := newMockStore(
			models.NewTrackWithTags(models.Track{ID: "1"}, []string{"chill"}),
			models.NewTrackWithTags(models.Track{ID: "2"}, []string{"chill", "evening"}),
		)
		controller := newTestController(svc, st)

		id, err := controller.CreatePlaylistByTags(context.Background(), "alice", "Chill", []string{"chill"})
		if err != nil {
			t.Fatalf("CreatePlaylistByTags() error = %v", err)
		}

		if id != "new-playlist" {
			t.Errorf("returned ID = %q, want 'new-playlist'", id)
		}
		if len(svc.createCalls) != 1 || svc.createCalls[0] != "Chill" {
			t.Errorf("create calls = %v", svc.createCalls)
		}
		if len(svc.updateCalls) != 1 {
			t.Fatalf("expected one membership update, got %d", len(svc.updateCalls))
		}
		if len(svc.updateCalls[0].trackIDs) != 2 {
			t.Errorf("expected both chill tracks added, got %v", svc.updateCalls[0].trackIDs)
		}
	})

	t.Run("create failure propagates without update", func(t *testing.T) {
		boom := errors.New("boom")
		svc := &mockService{createPlaylistErr: boom}
		controller := newTestController(svc, newMockStore())

		if _, err := controller.CreatePlaylistByTags(context.Background(), "alice", "X", nil); !errors.Is(err, boom) {
			t.Errorf("CreatePlaylistByTags() error = %v, want %v", err, boom)
		}
		if len(svc.updateCalls) != 0 {
			t.Error("no membership update should happen when create fails")
		}
	})
}

func TestProgressUpdate_NonBlocking(t *testing.T) {
	svc := &mockService{songs: []models.Track{{ID: "1"}}}
	st := newMockStore()
	controller := newTestController(svc, st)

	// Unbuffered channel with no consumer; sends must not block
	progressCh := make(chan ProgressUpdate)

	done := make(chan bool)
	go func() {
		if _, err := controller.SyncTracks(context.Background(), "alice", progressCh); err != nil {
			t.Errorf("SyncTracks() error = %v", err)
		}
		done <- true
	}()

	<-done
}
