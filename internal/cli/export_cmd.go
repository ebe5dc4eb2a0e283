package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/planboard/internal/calendar"
	"github.com/alexanderramin/planboard/internal/ics"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a project calendar",
	}

	cmd.AddCommand(newExportICSCmd(app))

	return cmd
}

func newExportICSCmd(app *App) *cobra.Command {
	var (
		filters filterFlags
		out     string
	)

	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Write the calendar as an iCalendar (.ics) file",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := app.Calendar.List(cmd.Context(), app.projectID(), filters.state())
			if err != nil {
				return err
			}
			calendar.SortByDateTime(events)

			toFile := out != "" && out != "-"
			var w io.Writer = cmd.OutOrStdout()
			if toFile {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("creating %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			if err := ics.Write(w, app.projectID(), events); err != nil {
				return fmt.Errorf("writing calendar: %w", err)
			}
			if toFile {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d events to %s\n", len(events), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	filters.register(cmd.Flags())

	return cmd
}
