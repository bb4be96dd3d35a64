package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchLibrary Phase = iota
	ApplyChanges
	SyncComplete
	FetchPlaylists
	FetchPlaylistTracks
	JoinTags
)

func (p Phase) String() string {
	switch p {
	case FetchLibrary:
		return "fetch_library"
	case ApplyChanges:
		return "apply_changes"
	case SyncComplete:
		return "sync_complete"
	case FetchPlaylists:
		return "fetch_playlists"
	case FetchPlaylistTracks:
		return "fetch_playlist_tracks"
	case JoinTags:
		return "join_tags"
	default:
		return ""
	}
}

func fetchLibraryUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLibrary,
		Step:    1,
		Total:   1,
		Message: "Fetching library and stored tracks...",
	}
}

func applyChangesUpdate(adding, deleting int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ApplyChanges,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Applying changes: %d to add, %d to delete", adding, deleting),
	}
}

func syncCompleteUpdate(result *SyncResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SyncComplete,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Sync complete: %d added, %d deleted", result.Added, result.Deleted),
		Data:    result,
	}
}

func fetchPlaylistsUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylists,
		Step:    1,
		Total:   1,
		Message: "Fetching playlists...",
	}
}

func fetchPlaylistTracksUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylistTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching tracks: %s", step, total, name),
	}
}

func joinTagsUpdate(trackCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   JoinTags,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Joining tags for %d tracks...", trackCount),
	}
}
