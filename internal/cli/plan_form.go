package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/k5602/course-pilot/internal/cli/formatter"
	"github.com/k5602/course-pilot/internal/domain"
)

func pilotHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func validateDate(s string) error {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("expected YYYY-MM-DD")
	}
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("expected a positive number")
	}
	return nil
}

// planSettingsForm collects plan settings interactively, pre-filled from the
// current flag values.
func planSettingsForm(settings *domain.PlanSettings) error {
	start := settings.StartDate.Format("2006-01-02")
	perWeek := strconv.Itoa(settings.SessionsPerWeek)
	length := strconv.Itoa(settings.SessionLengthMinutes)
	strategy := string(settings.Strategy())

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Start date (YYYY-MM-DD)").
				Value(&start).
				Validate(validateDate),
			huh.NewInput().
				Title("Sessions per week").
				Value(&perWeek).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Session length (minutes)").
				Value(&length).
				Validate(validatePositiveInt),
			huh.NewSelect[string]().
				Title("Distribution strategy").
				Options(
					huh.NewOption("Hybrid (recommended)", string(domain.DistributionHybrid)),
					huh.NewOption("Module based", string(domain.DistributionModuleBased)),
					huh.NewOption("Time based", string(domain.DistributionTimeBased)),
					huh.NewOption("Difficulty based", string(domain.DistributionDifficultyBased)),
					huh.NewOption("Spaced repetition", string(domain.DistributionSpacedRepetition)),
					huh.NewOption("Adaptive", string(domain.DistributionAdaptive)),
				).
				Value(&strategy),
			huh.NewConfirm().
				Title("Schedule sessions on weekends?").
				Value(&settings.IncludeWeekends),
		),
	).WithTheme(pilotHuhTheme()).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return err
	}

	settings.StartDate, _ = time.Parse("2006-01-02", start)
	settings.SessionsPerWeek, _ = strconv.Atoi(perWeek)
	settings.SessionLengthMinutes, _ = strconv.Atoi(length)
	applyStrategy(settings, domain.DistributionStrategy(strategy))
	return nil
}

func applyStrategy(settings *domain.PlanSettings, strategy domain.DistributionStrategy) {
	if settings.Advanced == nil {
		settings.Advanced = domain.DefaultAdvancedSettings()
	}
	settings.Advanced.Strategy = strategy
	settings.Advanced.SpacedRepetitionEnabled = strategy == domain.DistributionSpacedRepetition
}
