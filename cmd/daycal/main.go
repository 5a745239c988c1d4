/*
main.go - Application entry point

PURPOSE:
  cobra root command for the daily allocation calendar. Configuration comes
  from config.Load (defaults, .env, environment); the persistent flags below
  override it.

COMMANDS:
  serve    Run the HTTP API with graceful shutdown
  import   Import a JSON rows file for one user
  report   Print totals for a period
  day      Print the ledger view of one date
  seed     Wipe a user and load a demo scenario

PERSISTENT FLAGS:
  --db     SQLite database path (":memory:" for a throwaway database)
  --port   HTTP server port (serve only)

EXAMPLES:
  daycal serve --db=./data/daycal.db
  daycal import --user alice --file rows.json --replace
  daycal report --user alice --from 2025-01-01 --to 2025-03-31
  daycal day --user alice --date 2025-03-10
*/
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/warp/daycal/calendar"
	"github.com/warp/daycal/config"
	"github.com/warp/daycal/store/sqlite"
)

// app carries the resolved configuration into every subcommand.
type app struct {
	cfg config.Config
}

// open opens the SQLite store and builds the calendar over it.
// The caller must Close the returned store.
func (a *app) open() (*calendar.Calendar, *sqlite.Store, error) {
	store, err := sqlite.New(a.cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return calendar.New(store), store, nil
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "daycal",
		Short:         "Daily time-allocation calendar",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&a.cfg.DBPath, "db", a.cfg.DBPath, "SQLite database path")
	rootCmd.PersistentFlags().IntVar(&a.cfg.Port, "port", a.cfg.Port, "HTTP server port")

	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newImportCmd(a))
	rootCmd.AddCommand(newReportCmd(a))
	rootCmd.AddCommand(newDayCmd(a))
	rootCmd.AddCommand(newSeedCmd(a))
	return rootCmd
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := newRootCmd(&app{cfg: cfg}).Execute(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}
