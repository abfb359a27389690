package jobview

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/k5602/course-pilot/internal/contract"
)

// Run drives the live view until the job reaches a terminal update and
// returns that update.
func Run(updates <-chan contract.JobUpdate, previews <-chan contract.ClusteringPreview, decision chan<- bool, cancel context.CancelFunc) (contract.JobUpdate, error) {
	final, err := tea.NewProgram(New(updates, previews, decision, cancel)).Run()
	if err != nil {
		return contract.JobUpdate{}, fmt.Errorf("running job view: %w", err)
	}
	return final.(Model).Final(), nil
}

// PrintPlain consumes updates without a TUI, writing one line per stage
// transition. Used when stdout is not a terminal.
func PrintPlain(w io.Writer, updates <-chan contract.JobUpdate) contract.JobUpdate {
	var last contract.JobUpdate
	var lastStage contract.JobStage
	for u := range updates {
		if u.Stage != lastStage && u.Stage != "" {
			name, desc := contract.StageDisplay(u.Stage)
			fmt.Fprintf(w, "[%3.0f%%] %s — %s\n", u.AggregateProgress*100, name, desc)
			lastStage = u.Stage
		}
		if u.Status.Terminal() {
			fmt.Fprintf(w, "[%3.0f%%] %s\n", u.AggregateProgress*100, u.Status)
		}
		last = u
	}
	return last
}
