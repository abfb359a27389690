package ingest

import (
	"encoding/json"
	"fmt"
	"os"
)

// PlaylistSchema is the top-level JSON structure for playlist import.
type PlaylistSchema struct {
	Name   string       `json:"name"`
	Videos []VideoEntry `json:"videos"`
}

// VideoEntry defines one video in the playlist file. Remote videos carry a
// source URL and id; local ones point at a file path instead.
type VideoEntry struct {
	Title           string `json:"title"`
	URL             string `json:"url,omitempty"`
	ID              string `json:"id,omitempty"`
	Path            string `json:"path,omitempty"`
	DurationSeconds int64  `json:"duration_seconds,omitempty"`
	Local           bool   `json:"local,omitempty"`
}

// LoadPlaylist reads and parses a playlist import JSON file.
func LoadPlaylist(path string) (*PlaylistSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema PlaylistSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing playlist file: %w", err)
	}
	return &schema, nil
}
