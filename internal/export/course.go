package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/k5602/course-pilot/internal/domain"
)

type courseDocument struct {
	Course   courseData `json:"course"`
	Metadata Metadata   `json:"export_metadata"`
}

type courseData struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	CreatedAt            time.Time    `json:"created_at"`
	TotalVideos          int          `json:"total_videos"`
	TotalDurationSeconds int64        `json:"total_duration_seconds,omitempty"`
	Videos               []videoData  `json:"videos"`
	Modules              []moduleData `json:"modules,omitempty"`
	ContentType          string       `json:"content_type,omitempty"`
	Strategy             string       `json:"strategy,omitempty"`
	QualityScore         float64      `json:"quality_score,omitempty"`
}

type videoData struct {
	Title           string `json:"title"`
	SourceURL       string `json:"source_url,omitempty"`
	SourceID        string `json:"source_id"`
	OriginalIndex   int    `json:"original_index"`
	DurationSeconds int64  `json:"duration_seconds,omitempty"`
	IsLocal         bool   `json:"is_local,omitempty"`
}

type moduleData struct {
	Title                string        `json:"title"`
	TotalDurationSeconds int64         `json:"total_duration_seconds"`
	TopicKeywords        []string      `json:"topic_keywords,omitempty"`
	Difficulty           string        `json:"difficulty,omitempty"`
	Sections             []sectionData `json:"sections"`
}

type sectionData struct {
	Title           string `json:"title"`
	VideoIndex      int    `json:"video_index"`
	DurationSeconds int64  `json:"duration_seconds,omitempty"`
}

// CourseJSON renders the course, its videos, and any structure as an
// indented JSON document with an export envelope.
func CourseJSON(c *domain.Course) ([]byte, error) {
	data := courseData{
		ID:          c.ID.String(),
		Name:        c.Name,
		CreatedAt:   c.CreatedAt.UTC(),
		TotalVideos: len(c.Videos),
		Videos:      make([]videoData, len(c.Videos)),
	}
	for i, v := range c.Videos {
		data.Videos[i] = videoData{
			Title:           v.Title,
			SourceURL:       v.SourceURL,
			SourceID:        v.SourceID,
			OriginalIndex:   v.OriginalIndex,
			DurationSeconds: int64(v.Duration.Seconds()),
			IsLocal:         v.IsLocal,
		}
	}
	if s := c.Structure; s != nil {
		data.TotalDurationSeconds = int64(s.AggregateDuration().Seconds())
		data.ContentType = string(s.Metadata.ContentTypeDetected)
		data.Strategy = string(s.Metadata.ProcessingStrategyUsed)
		if s.ClusteringMetadata != nil {
			data.QualityScore = s.ClusteringMetadata.QualityScore
		}
		for _, m := range s.Modules {
			md := moduleData{
				Title:                m.Title,
				TotalDurationSeconds: int64(m.TotalDuration.Seconds()),
				TopicKeywords:        m.TopicKeywords,
				Difficulty:           string(m.Difficulty),
			}
			for _, sec := range m.Sections {
				md.Sections = append(md.Sections, sectionData{
					Title:           sec.Title,
					VideoIndex:      sec.VideoIndex,
					DurationSeconds: int64(sec.Duration.Seconds()),
				})
			}
			data.Modules = append(data.Modules, md)
		}
	}

	doc := courseDocument{Course: data, Metadata: newMetadata(time.Now())}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing course: %w", err)
	}
	return out, nil
}

// CourseCSV renders the course as flat rows: one Course header row, then
// Module and Section rows when structured, or plain Video rows otherwise.
func CourseCSV(c *domain.Course) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"Type", "Title", "Module", "Section", "Duration", "Video_Index", "Created_At"},
		{"Course", c.Name, "", "", "", "", c.CreatedAt.UTC().Format(time.RFC3339)},
	}
	if s := c.Structure; s != nil {
		for _, m := range s.Modules {
			rows = append(rows, []string{"Module", m.Title, m.Title, "", formatDuration(m.TotalDuration), "", ""})
			for _, sec := range m.Sections {
				rows = append(rows, []string{
					"Section", sec.Title, m.Title, sec.Title,
					formatDuration(sec.Duration), strconv.Itoa(sec.VideoIndex), "",
				})
			}
		}
	} else {
		for _, v := range c.Videos {
			rows = append(rows, []string{
				"Video", v.Title, "", "", formatDuration(v.Duration), strconv.Itoa(v.OriginalIndex), "",
			})
		}
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("writing course rows: %w", err)
	}
	return buf.Bytes(), nil
}

// Course renders the course in the requested format.
func Course(c *domain.Course, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return CourseJSON(c)
	case FormatCSV:
		return CourseCSV(c)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}
