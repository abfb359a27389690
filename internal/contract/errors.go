package contract

import "fmt"

// ValidationErrorCode identifies a rejected input or setting.
type ValidationErrorCode string

const (
	ErrEmptyCourse                      ValidationErrorCode = "EMPTY_COURSE"
	ErrIncompleteVideoMetadata          ValidationErrorCode = "INCOMPLETE_VIDEO_METADATA"
	ErrSessionLengthOutOfRange          ValidationErrorCode = "SESSION_LENGTH_OUT_OF_RANGE"
	ErrSessionsPerWeekOutOfRange        ValidationErrorCode = "SESSIONS_PER_WEEK_OUT_OF_RANGE"
	ErrCustomIntervalsInvalid           ValidationErrorCode = "CUSTOM_INTERVALS_INVALID"
	ErrSpacedRepetitionStrategyMismatch ValidationErrorCode = "SPACED_REPETITION_STRATEGY_MISMATCH"
	ErrMinBreakOutOfRange               ValidationErrorCode = "MIN_BREAK_OUT_OF_RANGE"
)

// VideoProblem points at one video that failed metadata validation.
type VideoProblem struct {
	Index  int
	Reason string
}

// ValidationError is returned for rejected inputs; callers branch on Code.
type ValidationError struct {
	Code    ValidationErrorCode
	Message string
	// Videos lists all offending videos for ErrIncompleteVideoMetadata.
	Videos []VideoProblem
}

func (e *ValidationError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// JobErrorCode identifies structuring-job failures.
type JobErrorCode string

const (
	ErrClusteringDegenerate    JobErrorCode = "CLUSTERING_DEGENERATE"
	ErrClusteringNonConvergent JobErrorCode = "CLUSTERING_NON_CONVERGENT"
	ErrUnreachableBudget       JobErrorCode = "UNREACHABLE_BUDGET"
	ErrCancelled               JobErrorCode = "CANCELLED"
	ErrInternal                JobErrorCode = "INTERNAL_ERROR"
)

// JobError is a structuring or scheduling failure tagged with the stage it
// surfaced in.
type JobError struct {
	Code    JobErrorCode
	Stage   JobStage
	Message string
}

func (e *JobError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s at %s: %s", e.Code, e.Stage, e.Message)
	}
	return string(e.Code) + ": " + e.Message
}
