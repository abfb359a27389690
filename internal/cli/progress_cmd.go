package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/k5602/course-pilot/internal/cli/formatter"
	"github.com/k5602/course-pilot/internal/scheduler"
)

func newProgressCmd(app *App) *cobra.Command {
	var (
		done   int
		undone int
	)

	cmd := &cobra.Command{
		Use:   "progress COURSE",
		Short: "Show study progress, optionally marking sessions done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			course, err := resolveCourse(ctx, app, args[0])
			if err != nil {
				return err
			}
			plan, err := app.Plans.GetByCourse(ctx, course.ID)
			if err != nil {
				return fmt.Errorf("no plan for %q; run: coursepilot plan %s", course.Name, args[0])
			}

			if done > 0 {
				counts, err := app.Plans.TogglePlanItem(ctx, plan.ID, done-1, true)
				if err != nil {
					return err
				}
				cmd.Printf("Session %d done — %d/%d complete\n", done, counts.Completed, counts.Total)
			}
			if undone > 0 {
				counts, err := app.Plans.TogglePlanItem(ctx, plan.ID, undone-1, false)
				if err != nil {
					return err
				}
				cmd.Printf("Session %d reopened — %d/%d complete\n", undone, counts.Completed, counts.Total)
			}
			if done > 0 || undone > 0 {
				plan, err = app.Plans.GetByCourse(ctx, course.ID)
				if err != nil {
					return err
				}
			}

			cmd.Print(formatter.FormatPlan(plan))
			cmd.Println()
			cmd.Print(formatter.FormatPlanSummary(scheduler.Analyze(plan)))
			return nil
		},
	}

	cmd.Flags().IntVar(&done, "done", 0, "Mark session N (1-based) as completed")
	cmd.Flags().IntVar(&undone, "undone", 0, "Mark session N (1-based) as not completed")

	return cmd
}
