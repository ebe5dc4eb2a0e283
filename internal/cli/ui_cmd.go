package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Browse the calendar interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("ui requires an interactive terminal")
			}
			p := tea.NewProgram(newCalendarModel(app, app.projectID()), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
}
