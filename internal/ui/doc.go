// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow over the tagged library:
//  1. [LibraryView] : Browse the locally stored library with tags
//  2. [PlaylistListView] : Browse playlists on the music service
//  3. [PlaylistTracksView] : Inspect a playlist's tracks with their tags
//  4. [SyncView] : Monitor real-time progress while the library syncs
//  5. [ResultView] : Display the sync summary
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the sync controller, providing non-blocking status reporting.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, tab, s, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
