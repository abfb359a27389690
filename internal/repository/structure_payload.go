package repository

import (
	"github.com/k5602/course-pilot/internal/domain"
)

// The structures payload stores every duration as integer seconds, the
// same unit the videos and plan_items columns use.

type storedSection struct {
	Title           string
	VideoIndex      int
	DurationSeconds int64
}

type storedModule struct {
	Title                string
	Sections             []storedSection
	TotalDurationSeconds int64
	SimilarityScore      *float64
	TopicKeywords        []string
	Difficulty           domain.DifficultyLevel
}

type storedStructureMetadata struct {
	TotalVideos            int
	TotalDurationSeconds   int64
	ContentTypeDetected    domain.ContentType
	OriginalOrderPreserved bool
	ProcessingStrategyUsed domain.ClusteringStrategy
}

type storedPerformance struct {
	TotalProcessingSeconds int64
	AnalysisSeconds        int64
	ClusteringSeconds      int64
	OptimizationSeconds    int64
	AlgorithmIterations    int
	Input                  domain.InputMetrics
}

type storedClusteringMetadata struct {
	Algorithm           domain.ClusteringAlgorithm
	Strategy            domain.ClusteringStrategy
	SimilarityThreshold float64
	ClusterCount        int
	QualityScore        float64
	ContentTopics       []domain.TopicInfo
	Confidence          domain.ClusteringConfidenceScores
	Rationale           domain.ClusteringRationale
	Performance         storedPerformance
}

type storedStructure struct {
	Modules            []storedModule
	Metadata           storedStructureMetadata
	ClusteringMetadata *storedClusteringMetadata
}

func encodeStructure(s *domain.CourseStructure) storedStructure {
	out := storedStructure{
		Metadata: storedStructureMetadata{
			TotalVideos:            s.Metadata.TotalVideos,
			TotalDurationSeconds:   seconds(s.Metadata.TotalDuration),
			ContentTypeDetected:    s.Metadata.ContentTypeDetected,
			OriginalOrderPreserved: s.Metadata.OriginalOrderPreserved,
			ProcessingStrategyUsed: s.Metadata.ProcessingStrategyUsed,
		},
	}
	for _, mod := range s.Modules {
		sm := storedModule{
			Title:                mod.Title,
			TotalDurationSeconds: seconds(mod.TotalDuration),
			SimilarityScore:      mod.SimilarityScore,
			TopicKeywords:        mod.TopicKeywords,
			Difficulty:           mod.Difficulty,
		}
		for _, sec := range mod.Sections {
			sm.Sections = append(sm.Sections, storedSection{
				Title:           sec.Title,
				VideoIndex:      sec.VideoIndex,
				DurationSeconds: seconds(sec.Duration),
			})
		}
		out.Modules = append(out.Modules, sm)
	}
	if meta := s.ClusteringMetadata; meta != nil {
		out.ClusteringMetadata = &storedClusteringMetadata{
			Algorithm:           meta.Algorithm,
			Strategy:            meta.Strategy,
			SimilarityThreshold: meta.SimilarityThreshold,
			ClusterCount:        meta.ClusterCount,
			QualityScore:        meta.QualityScore,
			ContentTopics:       meta.ContentTopics,
			Confidence:          meta.Confidence,
			Rationale:           meta.Rationale,
			Performance: storedPerformance{
				TotalProcessingSeconds: seconds(meta.Performance.TotalProcessingTime),
				AnalysisSeconds:        seconds(meta.Performance.AnalysisTime),
				ClusteringSeconds:      seconds(meta.Performance.ClusteringTime),
				OptimizationSeconds:    seconds(meta.Performance.OptimizationTime),
				AlgorithmIterations:    meta.Performance.AlgorithmIterations,
				Input:                  meta.Performance.Input,
			},
		}
	}
	return out
}

func decodeStructure(in storedStructure) *domain.CourseStructure {
	s := &domain.CourseStructure{
		Metadata: domain.StructureMetadata{
			TotalVideos:            in.Metadata.TotalVideos,
			TotalDuration:          durationFromSeconds(in.Metadata.TotalDurationSeconds),
			ContentTypeDetected:    in.Metadata.ContentTypeDetected,
			OriginalOrderPreserved: in.Metadata.OriginalOrderPreserved,
			ProcessingStrategyUsed: in.Metadata.ProcessingStrategyUsed,
		},
	}
	for _, sm := range in.Modules {
		mod := domain.Module{
			Title:           sm.Title,
			TotalDuration:   durationFromSeconds(sm.TotalDurationSeconds),
			SimilarityScore: sm.SimilarityScore,
			TopicKeywords:   sm.TopicKeywords,
			Difficulty:      sm.Difficulty,
		}
		for _, sec := range sm.Sections {
			mod.Sections = append(mod.Sections, domain.Section{
				Title:      sec.Title,
				VideoIndex: sec.VideoIndex,
				Duration:   durationFromSeconds(sec.DurationSeconds),
			})
		}
		s.Modules = append(s.Modules, mod)
	}
	if meta := in.ClusteringMetadata; meta != nil {
		s.ClusteringMetadata = &domain.ClusteringMetadata{
			Algorithm:           meta.Algorithm,
			Strategy:            meta.Strategy,
			SimilarityThreshold: meta.SimilarityThreshold,
			ClusterCount:        meta.ClusterCount,
			QualityScore:        meta.QualityScore,
			ContentTopics:       meta.ContentTopics,
			Confidence:          meta.Confidence,
			Rationale:           meta.Rationale,
			Performance: domain.PerformanceMetrics{
				TotalProcessingTime: durationFromSeconds(meta.Performance.TotalProcessingSeconds),
				AnalysisTime:        durationFromSeconds(meta.Performance.AnalysisSeconds),
				ClusteringTime:      durationFromSeconds(meta.Performance.ClusteringSeconds),
				OptimizationTime:    durationFromSeconds(meta.Performance.OptimizationSeconds),
				AlgorithmIterations: meta.Performance.AlgorithmIterations,
				Input:               meta.Performance.Input,
			},
		}
	}
	return s
}
