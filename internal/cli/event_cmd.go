package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/spf13/cobra"
)

func newEventCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "event",
		Aliases: []string{"ev"},
		Short:   "Manage calendar events",
	}

	cmd.AddCommand(
		newEventAddCmd(app),
		newEventShowCmd(app),
		newEventUpdateCmd(app),
		newEventStatusCmd(app, "done", "Mark an event completed", domain.StatusCompleted),
		newEventStatusCmd(app, "cancel", "Mark an event cancelled", domain.StatusCancelled),
		newEventStatusCmd(app, "reopen", "Mark an event upcoming again", domain.StatusUpcoming),
		newEventAssignCmd(app),
		newEventRemoveCmd(app),
	)

	return cmd
}

func newEventAddCmd(app *App) *cobra.Command {
	var (
		flags       eventFlags
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new event",
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := flags.draft(app.today())
			if err != nil {
				return err
			}

			if interactive {
				if !app.interactive() {
					return fmt.Errorf("interactive mode requires a terminal")
				}
				values := formValuesFromDraft(draft)
				if values.Date == "" {
					values.Date = app.today().String()
				}
				if err := newEventForm(values, app.Calendar.People("")).Run(); err != nil {
					return err
				}
				if draft, err = values.toDraft(); err != nil {
					return err
				}
			}

			if unknown := unknownPeople(app, draft.AssignedTo); len(unknown) > 0 {
				return fmt.Errorf("not in the people directory: %s", strings.Join(unknown, ", "))
			}

			e, err := app.Calendar.Create(cmd.Context(), app.projectID(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %q on %s [%s]\n", e.Type, e.Title, e.Date, e.ID)
			return nil
		},
	}

	flags.register(cmd.Flags(), false)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill in the event with a form")

	return cmd
}

func newEventShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show an event's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := app.Calendar.Get(cmd.Context(), app.projectID(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatEvent(e))
			return nil
		},
	}
}

func newEventUpdateCmd(app *App) *cobra.Command {
	var flags eventFlags

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := flags.patch(cmd.Flags(), app.today())
			if err != nil {
				return err
			}
			if patch.AssignedTo != nil {
				if unknown := unknownPeople(app, *patch.AssignedTo); len(unknown) > 0 {
					return fmt.Errorf("not in the people directory: %s", strings.Join(unknown, ", "))
				}
			}

			e, err := app.Calendar.Update(cmd.Context(), app.projectID(), args[0], patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %q [%s]\n", e.Title, e.ID)
			return nil
		},
	}

	flags.register(cmd.Flags(), true)

	return cmd
}

func newEventStatusCmd(app *App, use, short string, status domain.EventStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := app.Calendar.SetStatus(cmd.Context(), app.projectID(), args[0], status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.StatusPill(e.Status), e.Title)
			return nil
		},
	}
}

func newEventAssignCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assign ID NAME...",
		Short: "Assign people to an event",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args[1:]
			if unknown := unknownPeople(app, names); len(unknown) > 0 {
				return fmt.Errorf("not in the people directory: %s", strings.Join(unknown, ", "))
			}

			e, err := app.Calendar.Assign(cmd.Context(), app.projectID(), args[0], names...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s assigned to %s\n", e.Title, strings.Join(e.AssignedTo, ", "))
			return nil
		},
	}
}

func newEventRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete an event",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Calendar.Delete(cmd.Context(), app.projectID(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted event %s\n", args[0])
			return nil
		},
	}
}

// unknownPeople returns the names missing from the people directory. An
// empty directory accepts anyone.
func unknownPeople(app *App, names []string) []string {
	known := app.Calendar.People("")
	if len(known) == 0 {
		return nil
	}
	var unknown []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" && !slices.Contains(known, n) {
			unknown = append(unknown, n)
		}
	}
	return unknown
}
