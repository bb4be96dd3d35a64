package main

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/desertthunder/tagtune/internal/models"
	"github.com/desertthunder/tagtune/internal/shared"
	tu "github.com/desertthunder/tagtune/internal/testing"
	"github.com/urfave/cli/v3"
)

// stubService implements services.Service over fixed data.
type stubService struct {
	songs     []models.Track
	playlists []models.Playlist
	tracks    map[string][]models.Track
}

func (s *stubService) Type() string { return "stub" }

func (s *stubService) GetAllSongs(ctx context.Context, user models.User) ([]models.Track, error) {
	return s.songs, nil
}

func (s *stubService) GetPlaylistsMetadata(ctx context.Context, user models.User) ([]models.Playlist, error) {
	return s.playlists, nil
}

func (s *stubService) GetPlaylistTracks(ctx context.Context, user models.User, playlistID string) ([]models.Track, error) {
	return s.tracks[playlistID], nil
}

func (s *stubService) CreatePlaylist(ctx context.Context, user models.User, name string) (string, error) {
	return "created", nil
}

func (s *stubService) UpdatePlaylistTracks(ctx context.Context, user models.User, playlistID string, trackIDs []string) error {
	return nil
}

// stubStore implements store.Store over a map.
type stubStore struct {
	tracks map[string]models.TrackWithTags
}

func newStubStore(tracks ...models.TrackWithTags) *stubStore {
	s := &stubStore{tracks: make(map[string]models.TrackWithTags)}
	for _, track := range tracks {
		s.tracks[track.ID] = track
	}
	return s
}

func (s *stubStore) GetUserTracks(ctx context.Context, user models.User, serviceType string) ([]models.TrackWithTags, error) {
	out := []models.TrackWithTags{}
	for _, track := range s.tracks {
		out = append(out, track)
	}
	return out, nil
}

func (s *stubStore) GetTracksByIDs(ctx context.Context, user models.User, serviceType string, ids []string) ([]models.TrackWithTags, error) {
	out := []models.TrackWithTags{}
	for _, id := range ids {
		if track, ok := s.tracks[id]; ok {
			out = append(out, track)
		}
	}
	return out, nil
}

func (s *stubStore) GetTracksByTags(ctx context.Context, user models.User, serviceType string, tags []string) ([]models.TrackWithTags, error) {
	out := []models.TrackWithTags{}
	for _, track := range s.tracks {
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

func (s *stubStore) UpsertTracks(ctx context.Context, user models.User, serviceType string, tracks []models.TrackWithTags) error {
	for _, track := range tracks {
		s.tracks[track.ID] = track
	}
	return nil
}

func (s *stubStore) DeleteTracks(ctx context.Context, user models.User, serviceType string, ids []string) error {
	for _, id := range ids {
		delete(s.tracks, id)
	}
	return nil
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			service := &stubService{}
			st := newStubStore()

			runner := NewRunner(RunnerOpts{
				Config:  config,
				Logger:  logger,
				Output:  output,
				Service: service,
				Store:   st,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.service != service {
				t.Error("expected service to be set")
			}
			if runner.store != st {
				t.Error("expected store to be set")
			}
			if runner.controller == nil {
				t.Error("expected controller to be constructed")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})
}

func newTestApp(runner *Runner) *cli.Command {
	return &cli.Command{
		Name:     "tagtune",
		Commands: runner.register(),
	}
}

func TestSyncCommand(t *testing.T) {
	output := &bytes.Buffer{}
	service := &stubService{songs: []models.Track{{ID: "1", Title: "One"}, {ID: "2", Title: "Two"}}}
	st := newStubStore(models.NewTrackWithTags(models.Track{ID: "1", Title: "One"}, []string{"rock"}))

	runner := NewRunner(RunnerOpts{
		Service: service,
		Store:   st,
		Output:  output,
	})

	if err := newTestApp(runner).Run(context.Background(), []string{"tagtune", "sync"}); err != nil {
		t.Fatalf("sync command failed: %v", err)
	}

	result := output.String()
	if !strings.Contains(result, "Sync complete") {
		t.Errorf("expected sync summary, got %s", result)
	}
	if !strings.Contains(result, "Added:          1") {
		t.Errorf("expected one added track, got %s", result)
	}

	if _, ok := st.tracks["2"]; !ok {
		t.Error("expected track 2 to be stored after sync")
	}
	if got := st.tracks["1"].Tags; len(got) != 1 || got[0] != "rock" {
		t.Errorf("existing tags should survive sync, got %v", got)
	}
}

func TestTagsCommands(t *testing.T) {
	output := &bytes.Buffer{}
	st := newStubStore(models.NewTrackWithTags(models.Track{ID: "1", Title: "One"}, nil))

	runner := NewRunner(RunnerOpts{
		Service: &stubService{},
		Store:   st,
		Output:  output,
	})
	app := newTestApp(runner)

	if err := app.Run(context.Background(), []string{"tagtune", "tags", "add", "--tracks", "1", "--tags", "jazz", "--tags", "late-night"}); err != nil {
		t.Fatalf("tags add failed: %v", err)
	}

	got := st.tracks["1"].Tags
	if len(got) != 2 || got[0] != "jazz" || got[1] != "late-night" {
		t.Fatalf("tags after add = %v, want [jazz late-night]", got)
	}

	if err := app.Run(context.Background(), []string{"tagtune", "tags", "remove", "--tracks", "1", "--tags", "jazz"}); err != nil {
		t.Fatalf("tags remove failed: %v", err)
	}

	got = st.tracks["1"].Tags
	if len(got) != 1 || got[0] != "late-night" {
		t.Fatalf("tags after remove = %v, want [late-night]", got)
	}

	output.Reset()
	if err := app.Run(context.Background(), []string{"tagtune", "tags", "show", "--tracks", "1"}); err != nil {
		t.Fatalf("tags show failed: %v", err)
	}
	if !strings.Contains(output.String(), "late-night") {
		t.Errorf("tags show output missing tag, got %q", output.String())
	}
}

func TestTagsAddMissingTrack(t *testing.T) {
	runner := NewRunner(RunnerOpts{
		Service: &stubService{},
		Store:   newStubStore(),
		Output:  &bytes.Buffer{},
	})

	err := newTestApp(runner).Run(context.Background(), []string{"tagtune", "tags", "add", "--tracks", "ghost", "--tags", "rock"})
	if err == nil {
		t.Fatal("expected error for unknown track ID")
	}
	if !strings.Contains(err.Error(), "not in the library") {
		t.Errorf("expected loud missing-track failure, got %v", err)
	}
}

func TestPlaylistsListCommand(t *testing.T) {
	output := &bytes.Buffer{}
	service := &stubService{
		playlists: []models.Playlist{{ID: "p1", Name: "Focus", TrackCount: 1}},
		tracks:    map[string][]models.Track{"p1": {{ID: "1", Title: "One", Artist: "A"}}},
	}
	st := newStubStore(models.NewTrackWithTags(models.Track{ID: "1", Title: "One", Artist: "A"}, []string{"calm"}))

	runner := NewRunner(RunnerOpts{
		Service: service,
		Store:   st,
		Output:  output,
	})

	if err := newTestApp(runner).Run(context.Background(), []string{"tagtune", "playlists", "list", "--json"}); err != nil {
		t.Fatalf("playlists list failed: %v", err)
	}

	result := output.String()
	if !strings.Contains(result, `"Focus"`) {
		t.Errorf("expected playlist name in output, got %s", result)
	}
	if !strings.Contains(result, `"calm"`) {
		t.Errorf("expected stored tag joined into playlist output, got %s", result)
	}
}
