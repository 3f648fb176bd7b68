package cli

import (
	"encoding/json"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/service"
)

// Migrator is the schema control surface of the SQLite store.
type Migrator interface {
	Up() error
	Down() error
	Version() (version uint, dirty bool, err error)
}

// App holds the services the commands run against. Connect, when set, fills
// them in from the database path before any command that needs the store.
type App struct {
	Plans    service.PlanService
	Review   service.ReviewService
	Progress service.ProgressService
	Tokens   service.TokenService
	Migrator Migrator

	// Actor is the identity store operations run as.
	Actor domain.Actor

	DBPath  string
	JSON    bool
	Connect func(dbPath string) error
}

func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "atpctl",
		Short:         "Operate annual training plans from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Connect == nil {
				return nil
			}
			return app.Connect(app.DBPath)
		},
	}
	root.PersistentFlags().StringVar(&app.DBPath, "db", app.DBPath, "Path to the SQLite database")
	root.PersistentFlags().BoolVar(&app.JSON, "json", app.JSON, "Print JSON instead of a table")

	root.AddCommand(
		newMigrateCmd(app),
		newPlanCmd(app),
		newTokenCmd(app),
	)
	return root
}

// render prints v as indented JSON or hands a tabwriter to table.
func (a *App) render(w io.Writer, v any, table func(tw io.Writer)) error {
	if a.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	table(tw)
	return tw.Flush()
}
