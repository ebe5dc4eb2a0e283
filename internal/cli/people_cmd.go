package cli

import (
	"fmt"

	"github.com/alexanderramin/planboard/internal/calendar"
	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newPeopleCmd(app *App) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "people",
		Short: "List the people directory with assignment counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := app.Calendar.People(search)

			events, err := app.Calendar.List(cmd.Context(), app.projectID(), calendar.FilterState{})
			if err != nil {
				return err
			}
			counts := make(map[string]int, len(names))
			for _, e := range events {
				for _, n := range e.AssignedTo {
					counts[n]++
				}
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPeople(names, counts))
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only names containing this text (case-insensitive)")

	return cmd
}

func newProjectsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects that have events",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Calendar.Projects(cmd.Context())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No projects yet."))
				return nil
			}
			for _, p := range projects {
				marker := "  "
				if p == app.projectID() {
					marker = formatter.StyleHeader.Render("* ")
				}
				fmt.Fprintln(cmd.OutOrStdout(), marker+p)
			}
			return nil
		},
	}
}
