package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// VideoMetadata describes one imported video. A video is either remote
// (non-placeholder SourceID plus SourceURL) or local (SourceID holds the
// file path and IsLocal is set); it is never both.
type VideoMetadata struct {
	Title         string
	SourceURL     string
	SourceID      string
	OriginalIndex int
	// Duration is the known playback length; zero means unknown.
	Duration time.Duration
	Tags     []string
	IsLocal  bool
}

// placeholderSourceID marks videos whose remote identity was never resolved.
const placeholderSourceID = "placeholder"

// IsMetadataComplete reports whether the video satisfies the remote/local
// disjunction required before structuring.
func (v *VideoMetadata) IsMetadataComplete() bool {
	if v.Title == "" {
		return false
	}
	if v.IsLocal {
		return v.SourceID != ""
	}
	return v.SourceID != "" && v.SourceID != placeholderSourceID && v.SourceURL != ""
}

// CompletenessProblem explains why IsMetadataComplete is false, or returns ""
// when the metadata is complete.
func (v *VideoMetadata) CompletenessProblem() string {
	switch {
	case v.Title == "":
		return "title is empty"
	case v.IsLocal && v.SourceID == "":
		return "local video has no file path"
	case !v.IsLocal && (v.SourceID == "" || v.SourceID == placeholderSourceID):
		return "remote video has no source id"
	case !v.IsLocal && v.SourceURL == "":
		return "remote video has no source URL"
	default:
		return ""
	}
}

// Course is the authoritative record of an imported video list plus its
// optional structure. Videos is authoritative; RawTitles is derived and
// kept in sync for compatibility with older records.
type Course struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	Videos    []VideoMetadata
	RawTitles []string
	Structure *CourseStructure
}

// NewCourse creates a course, assigning OriginalIndex positions and syncing
// RawTitles from the video list.
func NewCourse(name string, videos []VideoMetadata) *Course {
	titles := make([]string, len(videos))
	for i := range videos {
		videos[i].OriginalIndex = i
		titles[i] = videos[i].Title
	}
	return &Course{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Videos:    videos,
		RawTitles: titles,
	}
}

// Validate checks the course invariants: titles mirror videos and each
// video carries its position.
func (c *Course) Validate() error {
	if len(c.Videos) != len(c.RawTitles) {
		return fmt.Errorf("videos (%d) and raw titles (%d) out of sync", len(c.Videos), len(c.RawTitles))
	}
	for i := range c.Videos {
		if c.Videos[i].OriginalIndex != i {
			return fmt.Errorf("video %d has original index %d", i, c.Videos[i].OriginalIndex)
		}
		if c.Videos[i].Title != c.RawTitles[i] {
			return fmt.Errorf("video %d title diverges from raw titles", i)
		}
	}
	return nil
}

// Titles returns the video titles in original order.
func (c *Course) Titles() []string {
	titles := make([]string, len(c.Videos))
	for i := range c.Videos {
		titles[i] = c.Videos[i].Title
	}
	return titles
}

// Section is the atomic unit of study, corresponding to one video.
type Section struct {
	Title      string
	VideoIndex int
	Duration   time.Duration
}

// Module is an ordered group of sections sharing a topic or position.
type Module struct {
	Title         string
	Sections      []Section
	TotalDuration time.Duration
	// SimilarityScore is the mean intra-cluster cosine similarity in [0,1];
	// nil when the module was not produced by clustering.
	SimilarityScore *float64
	TopicKeywords   []string
	Difficulty      DifficultyLevel
}

// AggregateDuration sums the section durations.
func (m *Module) AggregateDuration() time.Duration {
	var total time.Duration
	for i := range m.Sections {
		total += m.Sections[i].Duration
	}
	return total
}

// NewModule builds a module with its cached total duration.
func NewModule(title string, sections []Section) Module {
	m := Module{Title: title, Sections: sections}
	m.TotalDuration = m.AggregateDuration()
	return m
}

// StructureMetadata carries aggregate counts and processing provenance.
type StructureMetadata struct {
	TotalVideos            int
	TotalDuration          time.Duration
	ContentTypeDetected    ContentType
	OriginalOrderPreserved bool
	ProcessingStrategyUsed ClusteringStrategy
}

// TopicInfo describes one extracted content topic.
type TopicInfo struct {
	Keyword        string
	RelevanceScore float64
	VideoCount     int
}

// InputMetrics summarizes the analyzed corpus.
type InputMetrics struct {
	VideoCount            int
	UniqueStems           int
	VocabularySize        int
	AverageTitleLength    float64
	ContentDiversityScore float64
}

// PerformanceMetrics records processing cost for the structuring run.
type PerformanceMetrics struct {
	TotalProcessingTime time.Duration
	AnalysisTime        time.Duration
	ClusteringTime      time.Duration
	OptimizationTime    time.Duration
	AlgorithmIterations int
	Input               InputMetrics
}

// ModuleConfidence breaks a module's confidence into its factors.
type ModuleConfidence struct {
	ModuleIndex        int
	Confidence         float64
	SimilarityStrength float64
	TopicCoherence     float64
	DurationBalance    float64
}

// ClusteringConfidenceScores aggregates confidence across the structure.
type ClusteringConfidenceScores struct {
	Overall           float64
	ModuleGrouping    float64
	Similarity        float64
	TopicExtraction   float64
	ModuleConfidences []ModuleConfidence
}

// ModuleRationale explains one module's grouping in human terms.
type ModuleRationale struct {
	ModuleIndex           int
	ModuleTitle           string
	GroupingReason        string
	SimilarityExplanation string
	TopicKeywords         []string
	VideoCount            int
}

// ClusteringRationale is the human-readable account of the structuring run.
type ClusteringRationale struct {
	PrimaryStrategy        string
	Explanation            string
	KeyFactors             []string
	AlternativesConsidered []string
	ModuleRationales       []ModuleRationale
}

// ClusteringMetadata carries the full diagnostics of a clustered structure.
type ClusteringMetadata struct {
	Algorithm           ClusteringAlgorithm
	Strategy            ClusteringStrategy
	SimilarityThreshold float64
	ClusterCount        int
	QualityScore        float64
	ContentTopics       []TopicInfo
	Confidence          ClusteringConfidenceScores
	Rationale           ClusteringRationale
	Performance         PerformanceMetrics
}

// CourseStructure is the module/section tree plus metadata. Section video
// indices across all modules form a permutation of the course's videos.
type CourseStructure struct {
	Modules            []Module
	Metadata           StructureMetadata
	ClusteringMetadata *ClusteringMetadata
}

// AggregateDuration sums the module totals.
func (s *CourseStructure) AggregateDuration() time.Duration {
	var total time.Duration
	for i := range s.Modules {
		total += s.Modules[i].TotalDuration
	}
	return total
}

// SectionCount returns the number of sections across all modules.
func (s *CourseStructure) SectionCount() int {
	n := 0
	for i := range s.Modules {
		n += len(s.Modules[i].Sections)
	}
	return n
}

// IsClustered reports whether clustering diagnostics are attached.
func (s *CourseStructure) IsClustered() bool {
	return s.ClusteringMetadata != nil
}

// Validate checks the permutation invariant: every video index in [0,n)
// appears exactly once across all modules, and no module is empty.
func (s *CourseStructure) Validate(videoCount int) error {
	if len(s.Modules) == 0 {
		return fmt.Errorf("structure has no modules")
	}
	seen := make([]bool, videoCount)
	total := 0
	for mi := range s.Modules {
		if len(s.Modules[mi].Sections) == 0 {
			return fmt.Errorf("module %d (%q) is empty", mi, s.Modules[mi].Title)
		}
		for _, sec := range s.Modules[mi].Sections {
			if sec.VideoIndex < 0 || sec.VideoIndex >= videoCount {
				return fmt.Errorf("module %d references video index %d outside [0,%d)", mi, sec.VideoIndex, videoCount)
			}
			if seen[sec.VideoIndex] {
				return fmt.Errorf("video index %d appears in more than one section", sec.VideoIndex)
			}
			seen[sec.VideoIndex] = true
			total++
		}
	}
	if total != videoCount {
		return fmt.Errorf("structure covers %d of %d videos", total, videoCount)
	}
	return nil
}
