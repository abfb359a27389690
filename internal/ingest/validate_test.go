package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPlaylist() *PlaylistSchema {
	return &PlaylistSchema{
		Name: "Rust Basics",
		Videos: []VideoEntry{
			{Title: "Ownership", URL: "https://example.com/v/1", ID: "a1", DurationSeconds: 600},
			{Title: "Borrowing", URL: "https://example.com/v/2", ID: "a2", DurationSeconds: 720},
			{Title: "Lifetimes", Path: "/media/lifetimes.mp4", Local: true},
		},
	}
}

func TestValidatePlaylist_Valid(t *testing.T) {
	assert.Empty(t, ValidatePlaylist(validPlaylist()))
}

func TestValidatePlaylist_MissingFields(t *testing.T) {
	schema := &PlaylistSchema{
		Videos: []VideoEntry{
			{URL: "https://example.com/v/1", ID: "a1"},
			{Title: "No source"},
			{Title: "Local without path", Local: true},
		},
	}
	errs := ValidatePlaylist(schema)
	require.Len(t, errs, 5)
	assert.ErrorContains(t, errs[0], "name is required")
	assert.ErrorContains(t, errs[1], "videos[0].title")
	assert.ErrorContains(t, errs[2], "videos[1].url")
	assert.ErrorContains(t, errs[3], "videos[1].id")
	assert.ErrorContains(t, errs[4], "videos[2].path")
}

func TestValidatePlaylist_DuplicateIDs(t *testing.T) {
	schema := validPlaylist()
	schema.Videos[1].ID = schema.Videos[0].ID
	errs := ValidatePlaylist(schema)
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], `duplicate id "a1"`)
}

func TestValidatePlaylist_NegativeDuration(t *testing.T) {
	schema := validPlaylist()
	schema.Videos[0].DurationSeconds = -10
	errs := ValidatePlaylist(schema)
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "videos[0].duration_seconds")
}

func TestValidatePlaylist_Empty(t *testing.T) {
	errs := ValidatePlaylist(&PlaylistSchema{Name: "empty"})
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "at least one video")
}

func TestLoadPlaylist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playlist.json")
	payload := `{
		"name": "SQL Joins",
		"videos": [
			{"title": "Inner Joins", "url": "https://example.com/v/1", "id": "sql-1", "duration_seconds": 540},
			{"title": "Left Joins", "path": "/media/left.mkv", "local": true}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	schema, err := LoadPlaylist(path)
	require.NoError(t, err)
	assert.Equal(t, "SQL Joins", schema.Name)
	require.Len(t, schema.Videos, 2)
	assert.Equal(t, int64(540), schema.Videos[0].DurationSeconds)
	assert.True(t, schema.Videos[1].Local)
	assert.Empty(t, ValidatePlaylist(schema))
}

func TestLoadPlaylist_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := LoadPlaylist(path)
	assert.ErrorContains(t, err, "parsing playlist file")
}
