package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/tagtune/internal/models"
	"github.com/desertthunder/tagtune/internal/shared"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = trackItem{}
)

// playlistItem wraps [models.TaggedPlaylist] to implement [list.Item].
type playlistItem struct {
	playlist models.TaggedPlaylist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d tracks", len(i.playlist.Tracks))
	if i.playlist.Playlist.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.playlist.Playlist.Description)
	}
	return desc
}

// trackItem wraps [models.TrackWithTags] to implement [list.Item].
type trackItem struct {
	track models.TrackWithTags
}

func (i trackItem) FilterValue() string { return i.track.Title }
func (i trackItem) Title() string       { return i.track.Title }
func (i trackItem) Description() string {
	desc := i.track.Artist
	if i.track.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album)
	}
	if len(i.track.Tags) > 0 {
		desc = fmt.Sprintf("%s • %s", desc, styles.tag.Render(shared.JoinTags(i.track.Tags)))
	}
	return desc
}
