// package models defines the data model for the tag reconciliation service
package models

// User identifies the library owner. Opaque: passed through to the music
// service and the store as a partition key, never parsed.
type User string

// Track represents a music track as reported by a music service.
//
// Identity is ID, scoped per user and per service type. Two tracks are the
// same track iff their IDs match; no other field participates in equality.
type Track struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album,omitempty"`
	Duration int    `json:"duration,omitempty"` // Duration in seconds
	ISRC     string `json:"isrc,omitempty"`
}

// TrackWithTags is a [Track] augmented with user-assigned tags.
//
// Tags is an ordered sequence with no duplicates; order carries no meaning
// but is preserved across mutations. Tags is never nil, even when empty.
type TrackWithTags struct {
	Track
	Tags []string `json:"tags"`
}

// NewTrackWithTags builds a TrackWithTags, normalizing a nil tag slice to an
// empty one so serialized tracks always carry a tags field.
func NewTrackWithTags(track Track, tags []string) TrackWithTags {
	if tags == nil {
		tags = []string{}
	}
	return TrackWithTags{Track: track, Tags: tags}
}

// HasTag reports whether the track carries the given tag.
func (t TrackWithTags) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// Playlist represents playlist metadata owned by a music service.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TrackCount  int    `json:"track_count"`
	Public      bool   `json:"public"`
}

// TaggedPlaylist pairs playlist metadata with its tag-annotated track
// listing, preserving the track order the service returned.
type TaggedPlaylist struct {
	Playlist `json:"playlist"`
	Tracks   []TrackWithTags `json:"tracks"`
}
