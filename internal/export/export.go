package export

import (
	"fmt"
	"strings"
	"time"
)

const exportVersion = "1.0"

// Format selects the serialization an exporter produces.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (expected json or csv)", s)
	}
}

// Metadata describes an export envelope.
type Metadata struct {
	ExportedAt    time.Time `json:"exported_at"`
	ExportVersion string    `json:"export_version"`
}

func newMetadata(now time.Time) Metadata {
	return Metadata{ExportedAt: now.UTC(), ExportVersion: exportVersion}
}

// formatDuration renders a duration as H:MM:SS.
func formatDuration(d time.Duration) string {
	secs := int64(d.Seconds())
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
