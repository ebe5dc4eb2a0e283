package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planboard/internal/calendar"
	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// planboardHuhTheme returns a huh theme using the gruvbox formatter palette.
func planboardHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.MultiSelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// eventFormValues backs the fields of the event creation form. Strings are
// kept raw so huh can bind to them; toDraft converts.
type eventFormValues struct {
	Title       string
	Type        string
	Date        string
	Time        string
	Duration    string
	Location    string
	Description string
	Priority    string
	Assignees   []string
	Tags        string
}

func formValuesFromDraft(d calendar.Draft) *eventFormValues {
	v := &eventFormValues{
		Title:       d.Title,
		Type:        string(domain.Coalesce(d.Type, domain.EventMeeting)),
		Time:        d.Time,
		Duration:    d.Duration,
		Location:    d.Location,
		Description: d.Description,
		Priority:    string(domain.Coalesce(d.Priority, domain.PriorityMedium)),
		Assignees:   append([]string(nil), d.AssignedTo...),
		Tags:        strings.Join(d.Tags, ", "),
	}
	if !d.Date.IsZero() {
		v.Date = d.Date.String()
	}
	return v
}

func (v *eventFormValues) toDraft() (calendar.Draft, error) {
	d := calendar.Draft{
		Title:       v.Title,
		Type:        domain.EventType(v.Type),
		Time:        v.Time,
		Duration:    v.Duration,
		Location:    v.Location,
		Description: v.Description,
		Priority:    domain.Priority(v.Priority),
		Tags:        normalizeTags(strings.Split(v.Tags, ",")),
	}
	for _, name := range v.Assignees {
		d.AddAssignee(name)
	}
	if strings.TrimSpace(v.Date) != "" {
		date, err := domain.ParseDate(strings.TrimSpace(v.Date))
		if err != nil {
			return calendar.Draft{}, err
		}
		d.Date = date
	}
	return d, nil
}

// newEventForm builds the creation form. candidates are the directory names
// offered for assignment; names already in v.Assignees are not repeated.
func newEventForm(v *eventFormValues, candidates []string) *huh.Form {
	typeOptions := []huh.Option[string]{
		huh.NewOption("Meeting", string(domain.EventMeeting)),
		huh.NewOption("Deadline", string(domain.EventDeadline)),
		huh.NewOption("Milestone", string(domain.EventMilestone)),
		huh.NewOption("Task", string(domain.EventTask)),
	}
	priorityOptions := []huh.Option[string]{
		huh.NewOption("High", string(domain.PriorityHigh)),
		huh.NewOption("Medium", string(domain.PriorityMedium)),
		huh.NewOption("Low", string(domain.PriorityLow)),
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("Concrete pour").
			Value(&v.Title).
			Validate(validateRequired("title")),
		huh.NewSelect[string]().
			Title("Type").
			Options(typeOptions...).
			Value(&v.Type),
		huh.NewInput().
			Title("Date (YYYY-MM-DD)").
			Placeholder("2025-06-30").
			Value(&v.Date).
			Validate(validateRequiredDate),
		huh.NewInput().
			Title("Time").
			Placeholder("09:00, blank for all day").
			Value(&v.Time).
			Validate(validateClock),
		huh.NewInput().
			Title("Duration").
			Placeholder("1h").
			Value(&v.Duration),
		huh.NewInput().
			Title("Location").
			Value(&v.Location),
		huh.NewSelect[string]().
			Title("Priority").
			Options(priorityOptions...).
			Value(&v.Priority),
	}

	if opts := assigneeOptions(v.Assignees, candidates); len(opts) > 0 {
		fields = append(fields, huh.NewMultiSelect[string]().
			Title("Assign To").
			Options(opts...).
			Filterable(true).
			Value(&v.Assignees))
	}

	fields = append(fields,
		huh.NewInput().
			Title("Tags").
			Placeholder("comma separated").
			Value(&v.Tags),
		huh.NewText().
			Title("Description").
			Value(&v.Description),
	)

	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(planboardHuhTheme()).
		WithShowHelp(false)
}

// assigneeOptions lists current assignees (preselected) followed by the
// candidates not yet assigned.
func assigneeOptions(assigned, candidates []string) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(assigned)+len(candidates))
	for _, name := range assigned {
		opts = append(opts, huh.NewOption(name, name).Selected(true))
	}
	for _, name := range calendar.SearchNames(candidates, "", assigned) {
		opts = append(opts, huh.NewOption(name, name))
	}
	return opts
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateClock(s string) error {
	if _, err := domain.ParseClock(s); err != nil {
		return fmt.Errorf("use HH:MM, e.g. 09:30")
	}
	return nil
}

func validateRequiredDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("date is required")
	}
	if _, err := domain.ParseDate(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}
