// Package models defines the domain types shared by the tagtune services, store, and task layers.
//
// Two categories of types live here:
//
// 1. Service-owned data: tracks and playlists as the remote music service reports them
//   - [Track] : song metadata; identity is the service-scoped ID
//   - [Playlist] : playlist metadata, never persisted locally
//
// 2. Locally augmented data: service data joined with user tags from the store
//   - [TrackWithTags] : a track plus its ordered, duplicate-free tag list
//   - [TaggedPlaylist] : playlist metadata with tag-annotated tracks
//
// [User] is an opaque identity forwarded to collaborators; the core never inspects it.
package models
