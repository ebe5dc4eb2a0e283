package cli

import (
	"fmt"

	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newViewCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print the calendar as a month, week or list",
	}

	cmd.AddCommand(
		newViewMonthCmd(app),
		newViewWeekCmd(app),
		newViewListCmd(app),
	)

	return cmd
}

func newViewMonthCmd(app *App) *cobra.Command {
	var (
		filters filterFlags
		date    string
	)

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Show the month containing --date",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseDateArg(date, app.today())
			if err != nil {
				return err
			}
			grid, err := app.Calendar.Month(cmd.Context(), app.projectID(), ref, filters.state())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMonth(grid, formatter.GridOptions{Today: app.today()}))
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Any day in the month to show (default today)")
	filters.register(cmd.Flags())

	return cmd
}

func newViewWeekCmd(app *App) *cobra.Command {
	var (
		filters filterFlags
		date    string
	)

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the Sunday-to-Saturday week containing --date",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseDateArg(date, app.today())
			if err != nil {
				return err
			}
			grid, err := app.Calendar.Week(cmd.Context(), app.projectID(), ref, filters.state())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWeek(grid, formatter.GridOptions{Today: app.today()}))
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Any day in the week to show (default today)")
	filters.register(cmd.Flags())

	return cmd
}

func newViewListCmd(app *App) *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"agenda"},
		Short:   "List every event grouped by date",
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := app.Calendar.Agenda(cmd.Context(), app.projectID(), filters.state())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAgenda(groups, app.today()))
			return nil
		},
	}

	filters.register(cmd.Flags())

	return cmd
}
