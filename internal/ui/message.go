package ui

import (
	"github.com/desertthunder/tagtune/internal/models"
	"github.com/desertthunder/tagtune/internal/tasks"
)

// libraryFetchedMsg carries the stored library after a fetch.
type libraryFetchedMsg struct {
	tracks []models.TrackWithTags
	err    error
}

// playlistsFetchedMsg carries the tagged playlists after a fetch.
type playlistsFetchedMsg struct {
	playlists []models.TaggedPlaylist
	err       error
}

// progressUpdateMsg wraps a controller progress event for bubbletea.
type progressUpdateMsg tasks.ProgressUpdate

// syncCompleteMsg carries the final sync outcome.
type syncCompleteMsg struct {
	result *tasks.SyncResult
	err    error
}
