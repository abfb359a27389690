package domain

// ContentType describes how a course's videos are organized.
type ContentType string

const (
	ContentSequential ContentType = "sequential"
	ContentClustered  ContentType = "clustered"
	ContentMixed      ContentType = "mixed"
	ContentAmbiguous  ContentType = "ambiguous"
)

type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "beginner"
	DifficultyIntermediate DifficultyLevel = "intermediate"
	DifficultyAdvanced     DifficultyLevel = "advanced"
	DifficultyExpert       DifficultyLevel = "expert"
)

// Rank returns a sort rank for difficulty comparisons (lower = easier).
// Unknown values rank as intermediate.
func (d DifficultyLevel) Rank() int {
	switch d {
	case DifficultyBeginner:
		return 0
	case DifficultyAdvanced:
		return 2
	case DifficultyExpert:
		return 3
	default:
		return 1
	}
}

// ClusteringStrategy is the high-level policy for grouping videos.
type ClusteringStrategy string

const (
	StrategyContentBased  ClusteringStrategy = "content_based"
	StrategyDurationBased ClusteringStrategy = "duration_based"
	StrategyHierarchical  ClusteringStrategy = "hierarchical"
	StrategyLda           ClusteringStrategy = "lda"
	StrategyHybrid        ClusteringStrategy = "hybrid"
	StrategyFallback      ClusteringStrategy = "fallback"
)

// ClusteringAlgorithm is the concrete procedure that realises a strategy.
type ClusteringAlgorithm string

const (
	AlgorithmTfIdf        ClusteringAlgorithm = "tfidf"
	AlgorithmKMeans       ClusteringAlgorithm = "kmeans"
	AlgorithmHierarchical ClusteringAlgorithm = "hierarchical"
	AlgorithmLda          ClusteringAlgorithm = "lda"
	AlgorithmHybrid       ClusteringAlgorithm = "hybrid"
	AlgorithmFallback     ClusteringAlgorithm = "fallback"
)

// DistributionStrategy is the scheduling policy for packing sections
// into dated study sessions.
type DistributionStrategy string

const (
	DistributionModuleBased      DistributionStrategy = "module_based"
	DistributionTimeBased        DistributionStrategy = "time_based"
	DistributionHybrid           DistributionStrategy = "hybrid"
	DistributionDifficultyBased  DistributionStrategy = "difficulty_based"
	DistributionSpacedRepetition DistributionStrategy = "spaced_repetition"
	DistributionAdaptive         DistributionStrategy = "adaptive"
)

// ValidDistributionStrategies is the canonical set of accepted strategy strings.
var ValidDistributionStrategies = map[string]bool{
	"module_based": true, "time_based": true, "hybrid": true,
	"difficulty_based": true, "spaced_repetition": true, "adaptive": true,
}
