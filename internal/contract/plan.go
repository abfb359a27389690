package contract

// RegenerationState is the lifecycle of a plan (re)generation run.
type RegenerationState string

const (
	RegenIdle       RegenerationState = "idle"
	RegenInProgress RegenerationState = "in_progress"
	RegenCompleted  RegenerationState = "completed"
	RegenFailed     RegenerationState = "failed"
)

// RegenerationStatus is one transition emitted while a plan is rebuilt.
type RegenerationStatus struct {
	State    RegenerationState
	Progress float64
	Message  string
	Error    string // set only when State == RegenFailed
}

// ProgressCounts is the aggregate returned after a completion toggle.
type ProgressCounts struct {
	Completed  int
	Total      int
	Percentage float64
}
