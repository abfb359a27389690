package ingest

import (
	"github.com/k5602/course-pilot/internal/contract"
)

// Convert transforms a validated PlaylistSchema into an ingestion payload.
// Call ValidatePlaylist first; Convert assumes the schema is valid.
func Convert(schema *PlaylistSchema) contract.IngestedCourse {
	videos := make([]contract.IngestedVideo, len(schema.Videos))
	for i, v := range schema.Videos {
		sourceID := v.ID
		if v.Local {
			sourceID = v.Path
		}
		videos[i] = contract.IngestedVideo{
			Title:           v.Title,
			SourceURL:       v.URL,
			SourceID:        sourceID,
			OriginalIndex:   i,
			DurationSeconds: v.DurationSeconds,
			IsLocal:         v.Local,
		}
	}
	return contract.IngestedCourse{Name: schema.Name, Videos: videos}
}
