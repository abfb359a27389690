package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/k5602/course-pilot/internal/cli/formatter"
	"github.com/k5602/course-pilot/internal/contract"
	"github.com/k5602/course-pilot/internal/ingest"
)

func newIngestCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Import videos into a new course",
	}

	cmd.AddCommand(
		newIngestPlaylistCmd(app),
		newIngestFolderCmd(app),
	)

	return cmd
}

func newIngestPlaylistCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "playlist FILE",
		Short: "Import a course from a JSON playlist file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := ingest.LoadPlaylist(args[0])
			if err != nil {
				return err
			}
			if errs := ingest.ValidatePlaylist(schema); len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", e)
				}
				return fmt.Errorf("playlist file has %d validation error(s)", len(errs))
			}

			in := ingest.Convert(schema)
			if name != "" {
				in.Name = name
			}
			return runImport(cmd, app, in)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Course name (overrides the playlist name)")

	return cmd
}

func newIngestFolderCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "folder DIR",
		Short: "Import a course from local video files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := ingest.ScanFolder(args[0], name)
			if err != nil {
				return err
			}
			return runImport(cmd, app, in)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Course name (defaults to the folder name)")

	return cmd
}

func runImport(cmd *cobra.Command, app *App, in contract.IngestedCourse) error {
	course, err := app.Courses.Import(cmd.Context(), in)
	if err != nil {
		var ve *contract.ValidationError
		if errors.As(err, &ve) {
			for _, p := range ve.Videos {
				fmt.Fprintf(cmd.ErrOrStderr(), "  video %d: %s\n", p.Index, p.Reason)
			}
		}
		return err
	}

	cmd.Printf("Imported %s (%d videos) as %s\n",
		formatter.Bold(course.Name), len(course.Videos), formatter.Dim(formatter.ShortID(course.ID.String())))
	cmd.Printf("Next: coursepilot structure %s\n", formatter.ShortID(course.ID.String()))
	return nil
}
