package service

import (
	"context"
	"time"

	"github.com/k5602/course-pilot/internal/contract"
)

const (
	emitInterval = 250 * time.Millisecond
	emitStep     = 0.05
)

// jobRunner tracks stage state for one structuring job and emits
// rate-limited updates: every state transition immediately, intermediate
// progress at most every 250 ms or 5%.
type jobRunner struct {
	jobID string
	sink  ProgressSink

	status        contract.JobStatus
	stageIdx      int
	stage         contract.JobStage
	stageProgress float64

	lastEmit     time.Time
	lastProgress float64
}

func newJobRunner(jobID string, sink ProgressSink) *jobRunner {
	return &jobRunner{jobID: jobID, sink: sink, status: contract.JobStarting, stageIdx: -1}
}

// aggregate is the equal-weight stage sum in [0,1].
func (r *jobRunner) aggregate() float64 {
	if r.stageIdx < 0 {
		return 0
	}
	done := float64(r.stageIdx) + r.stageProgress
	return done / float64(len(contract.Stages))
}

func (r *jobRunner) canCancel() bool {
	return !r.status.Terminal() && r.stage != contract.StageSaving
}

func (r *jobRunner) emit(state contract.StageState, message string, stageErr string) {
	if r.sink == nil {
		return
	}
	r.sink(contract.JobUpdate{
		JobID:             r.jobID,
		Status:            r.status,
		Stage:             r.stage,
		StageStatus:       contract.StageStatus{State: state, Error: stageErr},
		Progress:          r.stageProgress,
		AggregateProgress: r.aggregate(),
		Message:           message,
		CanCancel:         r.canCancel(),
	})
	r.lastEmit = time.Now()
	r.lastProgress = r.stageProgress
}

func (r *jobRunner) starting() {
	r.emit(contract.StagePending, "Starting structuring job", "")
}

func (r *jobRunner) startStage(stage contract.JobStage) {
	r.status = contract.JobInProgress
	r.stageIdx++
	r.stage = stage
	r.stageProgress = 0
	_, desc := contract.StageDisplay(stage)
	r.emit(contract.StageInProgress, desc, "")
}

// heartbeat nudges the current stage forward asymptotically; used by long
// inner loops that cannot report a meaningful fraction.
func (r *jobRunner) heartbeat(message string) {
	if time.Since(r.lastEmit) < emitInterval && r.stageProgress-r.lastProgress < emitStep {
		return
	}
	// Asymptotic creep toward 95%; the true fraction is unknown here.
	r.stageProgress += (0.95 - r.stageProgress) * 0.2
	r.emit(contract.StageInProgress, message, "")
}

func (r *jobRunner) finishStage(message string) {
	r.stageProgress = 1
	r.emit(contract.StageCompleted, message, "")
}

func (r *jobRunner) completed() {
	r.status = contract.JobCompleted
	r.emit(contract.StageCompleted, "Structuring complete", "")
}

func (r *jobRunner) failed(err error) {
	r.status = contract.JobFailed
	r.emit(contract.StageFailed, "Structuring failed", err.Error())
}

func (r *jobRunner) cancelled() {
	r.status = contract.JobCancelled
	r.emit(contract.StageInProgress, "Structuring cancelled", "")
}

// cancelIfRequested maps a context cancellation onto the job error model.
// It is a no-op once cancellation is no longer allowed.
func (r *jobRunner) cancelIfRequested(ctx context.Context) error {
	if !r.canCancel() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return &contract.JobError{
			Code:    contract.ErrCancelled,
			Stage:   r.stage,
			Message: "cancelled by user",
		}
	}
	return nil
}
