package contract

import (
	"github.com/k5602/course-pilot/internal/domain"
)

// JobStage names one phase of the structuring job.
type JobStage string

const (
	StageFetching   JobStage = "fetching"
	StageProcessing JobStage = "processing"
	StageTfIdf      JobStage = "tfidf_analysis"
	StageKMeans     JobStage = "kmeans_clustering"
	StageOptimizing JobStage = "optimization"
	StageSaving     JobStage = "saving"
)

// Stages lists the job stages in execution order.
var Stages = []JobStage{
	StageFetching, StageProcessing, StageTfIdf,
	StageKMeans, StageOptimizing, StageSaving,
}

// StageDisplay returns the human name and description shown for a stage.
func StageDisplay(s JobStage) (name, description string) {
	switch s {
	case StageFetching:
		return "Fetching Data", "Loading video metadata"
	case StageProcessing:
		return "Processing Content", "Analyzing video titles and extracting content features"
	case StageTfIdf:
		return "TF-IDF Analysis", "Computing term frequency and semantic similarity scores"
	case StageKMeans:
		return "Clustering", "Grouping videos into coherent learning modules"
	case StageOptimizing:
		return "Structure Optimization", "Refining module boundaries and learning flow"
	case StageSaving:
		return "Saving Course", "Persisting the course structure"
	default:
		return string(s), ""
	}
}

// StageState describes a stage's lifecycle.
type StageState string

const (
	StagePending    StageState = "pending"
	StageInProgress StageState = "in_progress"
	StageCompleted  StageState = "completed"
	StageFailed     StageState = "failed"
)

// StageStatus pairs the lifecycle state with a failure message.
type StageStatus struct {
	State StageState
	Error string // set only when State == StageFailed
}

// JobStatus is the job-level lifecycle.
type JobStatus string

const (
	JobStarting   JobStatus = "starting"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
	JobCancelled  JobStatus = "cancelled"
)

// Terminal reports whether the status is final.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobCancelled
}

// JobUpdate is one progress event from a structuring job. Stage progress is
// in [0,1]; AggregateProgress is the equal-weight sum across stages.
type JobUpdate struct {
	JobID             string
	Status            JobStatus
	Stage             JobStage
	StageStatus       StageStatus
	Progress          float64
	AggregateProgress float64
	Message           string
	CanCancel         bool
}

// StructuringOptions override the automatic strategy and threshold choices.
type StructuringOptions struct {
	StrategyOverride    domain.ClusteringStrategy
	AlgorithmOverride   domain.ClusteringAlgorithm
	SimilarityThreshold float64 // 0 means default; clamped into (0,1]
}

// EstimatedModule is one module of a clustering preview.
type EstimatedModule struct {
	Title      string
	VideoCount int
	Confidence float64
	KeyTopics  []string
}

// ClusteringPreview is emitted after clustering but before saving, so the
// caller can approve or discard the result.
type ClusteringPreview struct {
	QualityScore     float64
	ConfidenceLevel  float64
	ClusterCount     int
	Rationale        string
	KeyTopics        []string
	EstimatedModules []EstimatedModule
}
