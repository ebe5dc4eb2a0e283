package cli

import (
	"time"

	"github.com/alexanderramin/planboard/internal/config"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and settings used by CLI commands.
type App struct {
	Calendar service.CalendarService

	// DefaultProject is used when --project is not given.
	DefaultProject string
	// DefaultView is the view `planboard ui` opens with.
	DefaultView domain.ViewMode

	// Config is the loaded configuration and ConfigPath the file it is
	// saved to by `config init`.
	Config     *config.Config
	ConfigPath string

	// IsInteractive reports whether stdin is a terminal. Forms and the TUI
	// refuse to start when it returns false.
	IsInteractive func() bool
	// Now is the wall clock; tests pin it.
	Now func() time.Time

	project string
}

func (a *App) projectID() string {
	if a.project != "" {
		return a.project
	}
	if a.DefaultProject != "" {
		return a.DefaultProject
	}
	return "default"
}

func (a *App) clock() func() time.Time {
	if a.Now == nil {
		return time.Now
	}
	return a.Now
}

func (a *App) today() domain.Date {
	return domain.DateOf(a.clock()())
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "planboard" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "planboard",
		Short:         "Project calendar for deadlines, milestones, meetings and tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&app.project, "project", "P", "", "Project calendar to use (default from config)")

	root.AddCommand(
		newEventCmd(app),
		newViewCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newPeopleCmd(app),
		newProjectsCmd(app),
		newConfigCmd(app),
		newUICmd(app),
	)

	return root
}
