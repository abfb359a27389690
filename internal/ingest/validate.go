package ingest

import (
	"fmt"
)

// ValidatePlaylist checks the playlist schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidatePlaylist(schema *PlaylistSchema) []error {
	var errs []error

	if schema.Name == "" {
		errs = append(errs, fmt.Errorf("name is required"))
	}
	if len(schema.Videos) == 0 {
		errs = append(errs, fmt.Errorf("videos: at least one video is required"))
	}

	seenIDs := make(map[string]int)
	for i, v := range schema.Videos {
		prefix := fmt.Sprintf("videos[%d]", i)

		if v.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if v.DurationSeconds < 0 {
			errs = append(errs, fmt.Errorf("%s.duration_seconds must not be negative", prefix))
		}

		if v.Local {
			if v.Path == "" {
				errs = append(errs, fmt.Errorf("%s.path is required for local videos", prefix))
			}
			continue
		}

		if v.URL == "" {
			errs = append(errs, fmt.Errorf("%s.url is required for remote videos", prefix))
		}
		if v.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required for remote videos", prefix))
		} else if prev, dup := seenIDs[v.ID]; dup {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q (first used by videos[%d])", prefix, v.ID, prev))
		} else {
			seenIDs[v.ID] = i
		}
	}

	return errs
}
