package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/mattn/go-isatty"

	"github.com/k5602/course-pilot/internal/cli"
	"github.com/k5602/course-pilot/internal/db"
	"github.com/k5602/course-pilot/internal/repository"
	"github.com/k5602/course-pilot/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.coursepilot/coursepilot.db
	dbPath := os.Getenv("COURSEPILOT_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".coursepilot", "coursepilot.db")
	}

	database, err := db.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	courseRepo := repository.NewCourseRepo(database)
	planRepo := repository.NewPlanRepo(database)
	uow := db.NewUnitOfWork(database)

	// The flag is declared on the root command; services are wired before
	// cobra parses, so detect it here as well.
	var observers []service.UseCaseObserver
	if os.Getenv("COURSEPILOT_VERBOSE") != "" || slices.Contains(os.Args[1:], "--verbose") {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	app := &cli.App{
		Courses:     service.NewCourseService(courseRepo, uow, observers...),
		Structuring: service.NewStructuringService(courseRepo, uow, observers...),
		Plans:       service.NewPlanService(courseRepo, planRepo, uow, observers...),
	}

	// Detect interactive terminal for the live job view and prompts.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
