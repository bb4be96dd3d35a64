package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/tagtune/internal/models"
)

// SQLiteStore implements [Store] on a SQLite database.
//
// Tags are stored as a JSON array in the tags column, which preserves their
// order; tag matching uses the json_each table-valued function.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore with the given database connection
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const trackColumns = "track_id, title, artist, album, duration, isrc, tags"

// GetUserTracks retrieves every stored track for a user and service.
func (s *SQLiteStore) GetUserTracks(ctx context.Context, user models.User, serviceType string) ([]models.TrackWithTags, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM library_tracks
		WHERE user_id = ? AND service = ?
		ORDER BY rowid ASC
	`, trackColumns)

	rows, err := s.db.QueryContext(ctx, query, string(user), serviceType)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	return scanTracks(rows)
}

// GetTracksByIDs retrieves the stored tracks matching the given IDs.
func (s *SQLiteStore) GetTracksByIDs(ctx context.Context, user models.User, serviceType string, ids []string) ([]models.TrackWithTags, error) {
	if len(ids) == 0 {
		return []models.TrackWithTags{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM library_tracks
		WHERE user_id = ? AND service = ? AND track_id IN (%s)
		ORDER BY rowid ASC
	`, trackColumns, placeholders(len(ids)))

	args := []any{string(user), serviceType}
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks by ids: %w", err)
	}
	defer rows.Close()

	return scanTracks(rows)
}

// GetTracksByTags retrieves stored tracks carrying ALL of the given tags.
//
// An empty tag list matches every stored track.
func (s *SQLiteStore) GetTracksByTags(ctx context.Context, user models.User, serviceType string, tags []string) ([]models.TrackWithTags, error) {
	if len(tags) == 0 {
		return s.GetUserTracks(ctx, user, serviceType)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `
		SELECT %s
		FROM library_tracks
		WHERE user_id = ? AND service = ?
	`, trackColumns)

	args := []any{string(user), serviceType}
	for _, tag := range tags {
		sb.WriteString(" AND EXISTS (SELECT 1 FROM json_each(library_tracks.tags) WHERE json_each.value = ?)")
		args = append(args, tag)
	}
	sb.WriteString(" ORDER BY rowid ASC")

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks by tags: %w", err)
	}
	defer rows.Close()

	return scanTracks(rows)
}

// UpsertTracks inserts or replaces the given tracks in one transaction.
//
// On conflict the row's metadata and tags are replaced but created_at is
// preserved.
func (s *SQLiteStore) UpsertTracks(ctx context.Context, user models.User, serviceType string, tracks []models.TrackWithTags) error {
	if len(tracks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO library_tracks (user_id, service, track_id, title, artist, album, duration, isrc, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, service, track_id) DO UPDATE SET
			title = excluded.title,
			artist = excluded.artist,
			album = excluded.album,
			duration = excluded.duration,
			isrc = excluded.isrc,
			tags = excluded.tags,
			updated_at = excluded.updated_at
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, track := range tracks {
		tags := track.Tags
		if tags == nil {
			tags = []string{}
		}
		tagsJSON, err := json.Marshal(tags)
		if err != nil {
			return fmt.Errorf("failed to marshal tags for track %s: %w", track.ID, err)
		}

		_, err = stmt.ExecContext(ctx,
			string(user),
			serviceType,
			track.ID,
			track.Title,
			track.Artist,
			track.Album,
			track.Duration,
			track.ISRC,
			string(tagsJSON),
			now,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert track %s: %w", track.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit upsert: %w", err)
	}

	return nil
}

// DeleteTracks removes the rows with the given IDs in one batched statement.
func (s *SQLiteStore) DeleteTracks(ctx context.Context, user models.User, serviceType string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		DELETE FROM library_tracks
		WHERE user_id = ? AND service = ? AND track_id IN (%s)
	`, placeholders(len(ids)))

	args := []any{string(user), serviceType}
	for _, id := range ids {
		args = append(args, id)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete tracks: %w", err)
	}

	return nil
}

// placeholders returns n comma-separated SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// scanTracks scans all rows into tagged tracks, guaranteeing a non-nil tag
// slice on every row.
func scanTracks(rows *sql.Rows) ([]models.TrackWithTags, error) {
	tracks := []models.TrackWithTags{}
	for rows.Next() {
		var (
			track    models.Track
			tagsJSON string
		)

		if err := rows.Scan(&track.ID, &track.Title, &track.Artist, &track.Album, &track.Duration, &track.ISRC, &tagsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}

		var tags []string
		if err := json.Unmarshal([]byte(tagsJSON), &tags); err != nil {
			return nil, fmt.Errorf("failed to parse tags for track %s: %w", track.ID, err)
		}

		tracks = append(tracks, models.NewTrackWithTags(track, tags))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}
