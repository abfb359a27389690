package jobview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/k5602/course-pilot/internal/cli/formatter"
	"github.com/k5602/course-pilot/internal/contract"
)

type updateMsg contract.JobUpdate
type previewMsg contract.ClusteringPreview
type closedMsg struct{}

type keyMap struct {
	Approve key.Binding
	Discard key.Binding
	Cancel  key.Binding
}

var keys = keyMap{
	Approve: key.NewBinding(key.WithKeys("y", "enter")),
	Discard: key.NewBinding(key.WithKeys("n", "esc")),
	Cancel:  key.NewBinding(key.WithKeys("ctrl+c")),
}

// Model is the live view of one structuring job. It consumes JobUpdates,
// pauses on a clustering preview for approval, and quits on the first
// terminal update.
type Model struct {
	updates  <-chan contract.JobUpdate
	previews <-chan contract.ClusteringPreview
	decision chan<- bool
	cancel   context.CancelFunc

	spin    spinner.Model
	bar     progress.Model
	last    contract.JobUpdate
	preview *contract.ClusteringPreview
	done    bool
}

// New builds the job view. previews and decision may be nil when the caller
// auto-approves; cancel is invoked on ctrl+c while the job is cancellable.
func New(updates <-chan contract.JobUpdate, previews <-chan contract.ClusteringPreview, decision chan<- bool, cancel context.CancelFunc) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = formatter.StylePurple
	bar := progress.New(progress.WithGradient("#fe8019", "#8ec07c"), progress.WithoutPercentage())
	bar.Width = 32
	return Model{
		updates:  updates,
		previews: previews,
		decision: decision,
		cancel:   cancel,
		spin:     sp,
		bar:      bar,
	}
}

// Final returns the last update seen, valid after the program exits.
func (m Model) Final() contract.JobUpdate { return m.last }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.waitForEvent())
}

func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case p, ok := <-m.previews:
			if ok {
				return previewMsg(p)
			}
			return closedMsg{}
		case u, ok := <-m.updates:
			if !ok {
				return closedMsg{}
			}
			return updateMsg(u)
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		m.last = contract.JobUpdate(msg)
		if m.last.Status.Terminal() {
			m.done = true
			return m, tea.Quit
		}
		return m, m.waitForEvent()

	case previewMsg:
		p := contract.ClusteringPreview(msg)
		m.preview = &p
		return m, nil

	case closedMsg:
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch {
		case m.preview != nil && key.Matches(msg, keys.Approve):
			m.decision <- true
			m.preview = nil
			return m, m.waitForEvent()
		case m.preview != nil && key.Matches(msg, keys.Discard):
			m.decision <- false
			m.preview = nil
			return m, m.waitForEvent()
		case key.Matches(msg, keys.Cancel):
			if m.last.CanCancel && m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.preview != nil {
		var b strings.Builder
		b.WriteString(formatter.FormatPreview(*m.preview))
		b.WriteString("\n")
		b.WriteString(formatter.Dim("[y] approve and save    [n] discard"))
		b.WriteString("\n")
		return b.String()
	}

	var b strings.Builder
	currentIdx := stageIndex(m.last.Stage)
	for i, stage := range contract.Stages {
		name, _ := contract.StageDisplay(stage)
		switch {
		case i < currentIdx || m.last.Status == contract.JobCompleted:
			b.WriteString(fmt.Sprintf("  %s %s\n", formatter.StyleGreen.Render("✓"), name))
		case i == currentIdx && m.last.Status == contract.JobFailed:
			b.WriteString(fmt.Sprintf("  %s %s\n", formatter.StyleRed.Render("✗"), name))
		case i == currentIdx:
			b.WriteString(fmt.Sprintf("  %s %s\n", m.spin.View(), formatter.Bold(name)))
		default:
			b.WriteString(formatter.Dim(fmt.Sprintf("  ○ %s\n", name)))
		}
	}

	b.WriteString("\n  ")
	b.WriteString(m.bar.ViewAs(m.last.AggregateProgress))
	b.WriteString(fmt.Sprintf(" %3.0f%%\n", m.last.AggregateProgress*100))
	if m.last.Message != "" {
		b.WriteString("  " + formatter.Dim(m.last.Message) + "\n")
	}
	if m.last.CanCancel {
		b.WriteString("  " + formatter.Dim("ctrl+c to cancel") + "\n")
	}
	return b.String()
}

func stageIndex(s contract.JobStage) int {
	for i, stage := range contract.Stages {
		if stage == s {
			return i
		}
	}
	return -1
}
