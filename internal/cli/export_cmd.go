package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/k5602/course-pilot/internal/export"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		formatStr string
		planOnly  bool
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "export COURSE",
		Short: "Export a course or its plan as JSON or CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(formatStr)
			if err != nil {
				return err
			}
			course, err := resolveCourse(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}

			var out []byte
			if planOnly {
				plan, err := app.Plans.GetByCourse(cmd.Context(), course.ID)
				if err != nil {
					return fmt.Errorf("no plan for %q; run: coursepilot plan %s", course.Name, args[0])
				}
				out, err = export.Plan(plan, format)
				if err != nil {
					return err
				}
			} else {
				out, err = export.Course(course, format)
				if err != nil {
					return err
				}
			}

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(outPath, out, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}
			cmd.Printf("Wrote %s (%d bytes)\n", outPath, len(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&formatStr, "format", "json", "Export format (json, csv)")
	cmd.Flags().BoolVar(&planOnly, "plan", false, "Export the study plan instead of the course")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write to a file instead of stdout")

	return cmd
}
