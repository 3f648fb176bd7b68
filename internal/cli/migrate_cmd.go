package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newMigrateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := requireMigrator(app); err != nil {
					return err
				}
				if err := app.Migrator.Up(); err != nil {
					return err
				}
				return printVersion(cmd, app)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration, dropping all data",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := requireMigrator(app); err != nil {
					return err
				}
				if err := app.Migrator.Down(); err != nil {
					return err
				}
				return printVersion(cmd, app)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := requireMigrator(app); err != nil {
					return err
				}
				return printVersion(cmd, app)
			},
		},
	)
	return cmd
}

func requireMigrator(app *App) error {
	if app.Migrator == nil {
		return errors.New("no migrator configured")
	}
	return nil
}

func printVersion(cmd *cobra.Command, app *App) error {
	version, dirty, err := app.Migrator.Version()
	if err != nil {
		return err
	}
	out := struct {
		Version uint `json:"version"`
		Dirty   bool `json:"dirty"`
	}{version, dirty}
	return app.render(cmd.OutOrStdout(), out, func(tw io.Writer) {
		fmt.Fprintln(tw, "VERSION\tDIRTY")
		fmt.Fprintf(tw, "%d\t%t\n", version, dirty)
	})
}
