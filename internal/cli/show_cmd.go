package cli

import (
	"github.com/spf13/cobra"

	"github.com/k5602/course-pilot/internal/cli/formatter"
	"github.com/k5602/course-pilot/internal/scheduler"
)

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [COURSE]",
		Short: "Show a course and its plan, or list all courses",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if len(args) == 0 {
				courses, err := app.Courses.List(ctx)
				if err != nil {
					return err
				}
				if len(courses) == 0 {
					cmd.Println("No courses imported yet. Start with: coursepilot ingest")
					return nil
				}
				cmd.Print(formatter.FormatCourseList(courses))
				return nil
			}

			course, err := resolveCourse(ctx, app, args[0])
			if err != nil {
				return err
			}
			cmd.Print(formatter.FormatCourseInspect(course))

			plan, err := app.Plans.GetByCourse(ctx, course.ID)
			if err != nil {
				return nil // no plan yet
			}
			cmd.Println()
			cmd.Println(formatter.Header("Study plan"))
			cmd.Print(formatter.FormatPlan(plan))
			cmd.Println()
			cmd.Print(formatter.FormatPlanSummary(scheduler.Analyze(plan)))
			return nil
		},
	}
}
