package formatter

import (
	"fmt"
	"strings"

	"github.com/k5602/course-pilot/internal/domain"
)

// FormatCourseList renders the course table for "course list" and "show".
func FormatCourseList(courses []*domain.Course) string {
	headers := []string{"ID", "NAME", "VIDEOS", "MODULES", "CREATED"}
	rows := make([][]string, len(courses))
	for i, c := range courses {
		modules := Dim("unstructured")
		if c.Structure != nil {
			modules = fmt.Sprintf("%d", len(c.Structure.Modules))
		}
		rows[i] = []string{
			Dim(ShortID(c.ID.String())),
			Truncate(c.Name, 40),
			fmt.Sprintf("%d", len(c.Videos)),
			modules,
			c.CreatedAt.Format("2006-01-02"),
		}
	}
	return RenderTable(headers, rows)
}

// FormatCourseInspect renders the full course view: header, clustering
// summary when present, and the module/section tree.
func FormatCourseInspect(c *domain.Course) string {
	var b strings.Builder

	b.WriteString(Header(c.Name))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("ID:"), c.ID))
	b.WriteString(fmt.Sprintf("%s %d\n", Dim("Videos:"), len(c.Videos)))

	s := c.Structure
	if s == nil {
		b.WriteString("\n")
		b.WriteString(Dim("Not structured yet. Run: coursepilot structure " + ShortID(c.ID.String())))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Content type:"), string(s.Metadata.ContentTypeDetected)))
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Strategy:"), string(s.Metadata.ProcessingStrategyUsed)))
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Total duration:"), FormatDuration(s.AggregateDuration())))
	if cm := s.ClusteringMetadata; cm != nil {
		b.WriteString(fmt.Sprintf("%s %s %s\n", Dim("Quality:"),
			QualityIndicator(cm.QualityScore), Dim(fmt.Sprintf("(%.2f)", cm.QualityScore))))
		if len(cm.ContentTopics) > 0 {
			topics := make([]string, 0, len(cm.ContentTopics))
			for _, t := range cm.ContentTopics {
				topics = append(topics, t.Keyword)
			}
			b.WriteString(fmt.Sprintf("%s %s\n", Dim("Topics:"), JoinKeywords(topics, 5)))
		}
	}

	for mi := range s.Modules {
		m := &s.Modules[mi]
		b.WriteString("\n")
		title := fmt.Sprintf("%s %s", Bold(m.Title), Dim(fmt.Sprintf("(%d videos, %s)",
			len(m.Sections), FormatDuration(m.TotalDuration))))
		if m.Difficulty != "" {
			title += " " + DifficultyStyle(m.Difficulty).Render(string(m.Difficulty))
		}
		b.WriteString(title + "\n")
		if len(m.TopicKeywords) > 0 {
			b.WriteString(Dim("  keywords: "+JoinKeywords(m.TopicKeywords, 5)) + "\n")
		}
		for si, sec := range m.Sections {
			connector := "├─"
			if si == len(m.Sections)-1 {
				connector = "└─"
			}
			b.WriteString(fmt.Sprintf("  %s %s %s\n", Dim(connector),
				Truncate(sec.Title, 60), Dim(FormatDuration(sec.Duration))))
		}
	}
	return b.String()
}
