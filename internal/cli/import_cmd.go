package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planboard/internal/importer"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import events from a JSON or .ics file",
		Long: `Import events into the current project.

Files ending in .ics are read as iCalendar. Anything else must be JSON:

  {"events": [{"title": "Submit permit", "type": "deadline", "date": "2025-04-05"}]}

Nothing is written unless every event in the file is valid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			drafts, err := importer.LoadDrafts(args[0])
			if err != nil {
				return err
			}

			var assigned []string
			for _, d := range drafts {
				assigned = append(assigned, d.AssignedTo...)
			}
			if unknown := unknownPeople(app, assigned); len(unknown) > 0 {
				return fmt.Errorf("not in the people directory: %s", strings.Join(unknown, ", "))
			}

			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%d events would be imported into %s\n", len(drafts), app.projectID())
				return nil
			}

			created, err := app.Calendar.Import(cmd.Context(), app.projectID(), drafts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d events into %s\n", len(created), app.projectID())
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the file without writing")

	return cmd
}
