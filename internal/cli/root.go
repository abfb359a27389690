package cli

import (
	"github.com/spf13/cobra"

	"github.com/k5602/course-pilot/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Courses     service.CourseService
	Structuring service.StructuringService
	Plans       service.PlanService

	// IsInteractive reports whether the process is attached to a terminal.
	// Non-interactive runs use plain line output and auto-approve previews.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "coursepilot" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "coursepilot",
		Short: "Turn flat video playlists into structured courses and study plans",
	}
	root.PersistentFlags().Bool("verbose", false, "Log service activity to stderr")

	root.AddCommand(
		newIngestCmd(app),
		newCourseCmd(app),
		newStructureCmd(app),
		newPlanCmd(app),
		newProgressCmd(app),
		newShowCmd(app),
		newExportCmd(app),
	)

	return root
}
