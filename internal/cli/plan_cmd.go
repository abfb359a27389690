package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/k5602/course-pilot/internal/cli/formatter"
	"github.com/k5602/course-pilot/internal/contract"
	"github.com/k5602/course-pilot/internal/domain"
	"github.com/k5602/course-pilot/internal/scheduler"
)

func newPlanCmd(app *App) *cobra.Command {
	var (
		start       string
		perWeek     int
		lengthMin   int
		weekends    bool
		strategy    string
		preset      string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "plan COURSE",
		Short: "Generate a study plan for a structured course",
		Long: `Build a dated study plan from the course structure. Regenerating
replaces the previous plan; completion marks are not carried over.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			course, err := resolveCourse(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}

			settings := domain.PlanSettings{
				SessionsPerWeek:      perWeek,
				SessionLengthMinutes: lengthMin,
				IncludeWeekends:      weekends,
			}
			settings.StartDate = time.Now().UTC().Truncate(24 * time.Hour)
			if start != "" {
				settings.StartDate, err = time.Parse("2006-01-02", start)
				if err != nil {
					return fmt.Errorf("invalid start date %q: %w", start, err)
				}
			}

			switch preset {
			case "":
			case "default":
				settings.Advanced = domain.DefaultAdvancedSettings()
			case "beginner":
				settings.Advanced = domain.ForBeginner()
			case "advanced":
				settings.Advanced = domain.ForAdvanced()
			default:
				return fmt.Errorf("unknown preset %q (expected default, beginner, or advanced)", preset)
			}
			if strategy != "" {
				if !domain.ValidDistributionStrategies[strategy] {
					return fmt.Errorf("unknown strategy %q", strategy)
				}
				applyStrategy(&settings, domain.DistributionStrategy(strategy))
			}

			if interactive {
				if !app.interactive() {
					return fmt.Errorf("--interactive requires a terminal")
				}
				if err := planSettingsForm(&settings); err != nil {
					return err
				}
			}

			plan, err := app.Plans.RegeneratePlan(cmd.Context(), course.ID, settings,
				func(st contract.RegenerationStatus) {
					if st.State == contract.RegenInProgress && st.Message != "" {
						cmd.Printf("%s %s\n", formatter.Dim("…"), formatter.Dim(st.Message))
					}
				})
			if err != nil {
				return err
			}

			cmd.Printf("Generated %d sessions for %s (%s strategy)\n\n",
				len(plan.Items), formatter.Bold(course.Name), plan.Settings.Strategy())
			cmd.Print(formatter.FormatPlan(plan))
			cmd.Println()
			cmd.Print(formatter.FormatPlanSummary(scheduler.Analyze(plan)))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().IntVar(&perWeek, "per-week", 3, "Study sessions per week (1-14)")
	cmd.Flags().IntVar(&lengthMin, "length", 60, "Session length in minutes (15-300)")
	cmd.Flags().BoolVar(&weekends, "weekends", false, "Allow weekend sessions")
	cmd.Flags().StringVar(&strategy, "strategy", "", "Distribution strategy (module_based, time_based, hybrid, difficulty_based, spaced_repetition, adaptive)")
	cmd.Flags().StringVar(&preset, "preset", "", "Settings preset (default, beginner, advanced)")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Collect settings with an interactive form")

	return cmd
}
