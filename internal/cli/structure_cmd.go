package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/k5602/course-pilot/internal/cli/formatter"
	"github.com/k5602/course-pilot/internal/cli/jobview"
	"github.com/k5602/course-pilot/internal/contract"
	"github.com/k5602/course-pilot/internal/domain"
	"github.com/k5602/course-pilot/internal/service"
)

func newStructureCmd(app *App) *cobra.Command {
	var (
		strategy  string
		algorithm string
		threshold float64
		yes       bool
	)

	cmd := &cobra.Command{
		Use:   "structure COURSE",
		Short: "Analyze a course and group its videos into modules",
		Long: `Run the structuring pipeline: title analysis, TF-IDF, clustering,
and module assembly. Interactive runs show live progress and ask for
approval before the structure is saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if threshold < 0 || threshold > 1 {
				return fmt.Errorf("--threshold must be in (0,1], got %v", threshold)
			}
			course, err := resolveCourse(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}

			opts := contract.StructuringOptions{
				StrategyOverride:    domain.ClusteringStrategy(strategy),
				AlgorithmOverride:   domain.ClusteringAlgorithm(algorithm),
				SimilarityThreshold: threshold,
			}

			structure, err := runStructuringJob(cmd, app, course, opts, yes)
			if err != nil {
				return err
			}
			if structure == nil {
				cmd.Println("Structuring cancelled; nothing was saved.")
				return nil
			}

			updated, err := app.Courses.GetByID(cmd.Context(), course.ID)
			if err != nil {
				return err
			}
			cmd.Print(formatter.FormatCourseInspect(updated))
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "Override clustering strategy (content_based, duration_based, hierarchical, hybrid, fallback)")
	cmd.Flags().StringVar(&algorithm, "algorithm", "", "Override clustering algorithm (kmeans, hierarchical, lda, tfidf, fallback)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Similarity threshold in (0,1]; 0 uses the default")
	cmd.Flags().BoolVar(&yes, "yes", false, "Approve the proposed structure without asking")

	return cmd
}

type structureResult struct {
	structure *domain.CourseStructure
	err       error
}

// runStructuringJob runs the job on its own goroutine while this goroutine
// drives the progress view. A nil structure with a nil error means the run
// was cancelled or the preview was discarded.
func runStructuringJob(cmd *cobra.Command, app *App, course *domain.Course, opts contract.StructuringOptions, yes bool) (*domain.CourseStructure, error) {
	ctx, cancelJob := context.WithCancel(cmd.Context())
	defer cancelJob()

	// The job goroutine never blocks on a slow view: the coalescing sink
	// forwards updates on its own goroutine and keeps only the latest
	// update per stage when the channel backs up.
	updates := make(chan contract.JobUpdate, 64)
	sink, flushSink := service.NewCoalescingSink(func(u contract.JobUpdate) { updates <- u })

	interactive := app.interactive() && !yes
	var (
		approve  service.PreviewApprover
		previews chan contract.ClusteringPreview
		decision chan bool
	)
	if interactive {
		previews = make(chan contract.ClusteringPreview)
		decision = make(chan bool)
		approve = func(p contract.ClusteringPreview) bool {
			select {
			case previews <- p:
			case <-ctx.Done():
				return false
			}
			select {
			case d := <-decision:
				return d
			case <-ctx.Done():
				return false
			}
		}
	}

	results := make(chan structureResult, 1)
	go func() {
		structure, err := app.Structuring.RunStructuringJob(ctx, course.ID, opts, sink, approve)
		flushSink()
		close(updates)
		results <- structureResult{structure, err}
	}()

	var final contract.JobUpdate
	if interactive {
		viewed, err := jobview.Run(updates, previews, decision, cancelJob)
		if err != nil {
			cancelJob()
			go func() {
				for range updates {
				}
			}()
			<-results
			return nil, err
		}
		final = viewed
	} else {
		final = jobview.PrintPlain(cmd.OutOrStdout(), updates)
	}

	res := <-results
	if final.Status == contract.JobCancelled {
		return nil, nil
	}
	if res.err != nil {
		return nil, fmt.Errorf("structuring %q: %w", course.Name, res.err)
	}
	return res.structure, nil
}
