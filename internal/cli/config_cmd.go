package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/alexanderramin/planboard/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or write the planboard configuration",
	}
	cmd.AddCommand(newConfigShowCmd(app), newConfigInitCmd(app))
	return cmd
}

func (a *App) currentConfig() *config.Config {
	if a.Config != nil {
		return a.Config
	}
	return config.DefaultConfig()
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := app.currentConfig().Marshal()
			if err != nil {
				return err
			}
			if app.ConfigPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", app.ConfigPath)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigInitCmd(app *App) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := app.ConfigPath
			if path == "" {
				return errors.New("no config path; set PLANBOARD_CONFIG")
			}
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("checking %s: %w", path, err)
				}
			}
			if err := config.Save(path, app.currentConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
