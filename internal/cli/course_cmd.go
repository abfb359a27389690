package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/k5602/course-pilot/internal/cli/formatter"
)

func newCourseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "course",
		Short: "Manage imported courses",
	}

	cmd.AddCommand(
		newCourseListCmd(app),
		newCourseRenameCmd(app),
		newCourseRemoveCmd(app),
	)

	return cmd
}

func newCourseListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			courses, err := app.Courses.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(courses) == 0 {
				cmd.Println("No courses imported yet.")
				return nil
			}
			cmd.Print(formatter.FormatCourseList(courses))
			return nil
		},
	}
}

func newCourseRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename COURSE NAME",
		Short: "Rename a course",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			course, err := resolveCourse(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Courses.Rename(cmd.Context(), course.ID, args[1]); err != nil {
				return err
			}
			cmd.Printf("Renamed %q to %q\n", course.Name, args[1])
			return nil
		},
	}
}

func newCourseRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove COURSE",
		Short: "Delete a course, its structure, and its plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			course, err := resolveCourse(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}

			if !force {
				if !app.interactive() {
					return fmt.Errorf("refusing to delete %q without --force in non-interactive mode", course.Name)
				}
				confirmed := false
				form := huh.NewForm(huh.NewGroup(
					huh.NewConfirm().
						Title(fmt.Sprintf("Delete %q and everything derived from it?", course.Name)).
						Value(&confirmed),
				)).WithTheme(pilotHuhTheme()).WithShowHelp(false)
				if err := form.Run(); err != nil {
					return err
				}
				if !confirmed {
					cmd.Println("Aborted.")
					return nil
				}
			}

			if err := app.Courses.Delete(cmd.Context(), course.ID); err != nil {
				return err
			}
			cmd.Printf("Deleted %q\n", course.Name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")

	return cmd
}
