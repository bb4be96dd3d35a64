package tasks

import "github.com/desertthunder/tagtune/internal/models"

// idSet builds a membership set over the keys of items.
func idSet[T any](items []T, key func(T) string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[key(item)] = struct{}{}
	}
	return set
}

// differenceByID returns the elements of items whose key is absent from
// present, preserving input order.
func differenceByID[T any](items []T, key func(T) string, present map[string]struct{}) []T {
	var missing []T
	for _, item := range items {
		if _, ok := present[key(item)]; !ok {
			missing = append(missing, item)
		}
	}
	return missing
}

func trackID(t models.Track) string { return t.ID }

func taggedTrackID(t models.TrackWithTags) string { return t.ID }
