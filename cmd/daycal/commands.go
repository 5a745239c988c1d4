package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/warp/daycal/api"
	"github.com/warp/daycal/calendar"
	"github.com/warp/daycal/factory"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		user    string
		file    string
		replace bool
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import work entries from a JSON rows file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}
			rows, err := factory.NewEntryFactory().ParseRows(data)
			if err != nil {
				return err
			}

			cal, store, err := a.open()
			if err != nil {
				return err
			}
			defer store.Close()

			result, err := cal.ImportEntries(cmd.Context(), calendar.UserID(user), rows, replace)
			if err != nil {
				return err
			}
			printImport(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "owner of the imported entries")
	cmd.Flags().StringVar(&file, "file", "", "JSON file: an array of rows or {\"rows\": [...]}")
	cmd.Flags().BoolVar(&replace, "replace", false, "delete the user's existing entries first")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	var user, from, to string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print totals by client, type and month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := factory.ParsePeriod(from, to)
			if err != nil {
				return err
			}

			cal, store, err := a.open()
			if err != nil {
				return err
			}
			defer store.Close()

			report, err := cal.Aggregate(cmd.Context(), calendar.UserID(user), period)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "user to report on")
	cmd.Flags().StringVar(&from, "from", "", "first date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last date (YYYY-MM-DD)")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}

func newDayCmd(a *app) *cobra.Command {
	var user, date string
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Print the ledger view of one date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := calendar.Today()
			if date != "" {
				parsed, err := calendar.ParseDate(date)
				if err != nil {
					return err
				}
				d = parsed
			}

			cal, store, err := a.open()
			if err != nil {
				return err
			}
			defer store.Close()

			day, err := cal.ListDay(cmd.Context(), calendar.UserID(user), d)
			if err != nil {
				return err
			}
			printDay(cmd.OutOrStdout(), day)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "user to show")
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD), defaults to today")
	cmd.MarkFlagRequired("user")
	return cmd
}

// =============================================================================
// OUTPUT
// =============================================================================

func printImport(w io.Writer, r calendar.ImportResult) {
	fmt.Fprintf(w, "imported: %d\n", r.Imported)
	if r.Replaced > 0 {
		fmt.Fprintf(w, "replaced: %d\n", r.Replaced)
	}
	for _, s := range r.Skipped {
		fmt.Fprintf(w, "skipped row %d (%s): %s\n", s.Row, s.Date, s.Reason)
	}
}

func printReport(w io.Writer, r calendar.Report) {
	fmt.Fprintf(w, "period: %s\n", r.Period)
	printBuckets(w, "by client", r.ByClient)
	printBuckets(w, "by type", r.ByType)
	printBuckets(w, "by month", r.ByMonth)
	printBuckets(w, "leave by month", r.LeaveByMonth)
	if len(r.TrainingByMonth) > 0 {
		fmt.Fprintln(w, "training by month:")
		for _, k := range calendar.SortedKeys(r.TrainingByMonth) {
			fmt.Fprintf(w, "  %-20s %d\n", k, r.TrainingByMonth[k])
		}
	}
	fmt.Fprintf(w, "total days:     %s\n", r.TotalDays)
	fmt.Fprintf(w, "total training: %d\n", r.TotalTraining)
	fmt.Fprintf(w, "total leave:    %s\n", r.TotalLeave)
}

func printBuckets(w io.Writer, title string, m map[string]calendar.Amount) {
	if len(m) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, k := range calendar.SortedKeys(m) {
		fmt.Fprintf(w, "  %-20s %s\n", k, m[k])
	}
}

func printDay(w io.Writer, d calendar.Day) {
	fmt.Fprintf(w, "%s  %s  remaining %s\n", d.Date, d.Status(), d.Remaining())
	if d.Leave != nil {
		fmt.Fprintf(w, "  leave     %s  %s\n", d.Leave.Amount, d.Leave.Label)
	}
	if d.Training != nil {
		fmt.Fprintf(w, "  training  %s  %s\n", d.Training.Amount, d.Training.Label)
	}
	for _, e := range d.Entries {
		fmt.Fprintf(w, "  entry     %s  %s  %s  [%s]\n", e.Amount, e.Client, e.Comment, e.TypeKey())
	}
}

func newSeedCmd(a *app) *cobra.Command {
	var user, scenario, weekOf string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Wipe a user and load a demo scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			week := calendar.Today()
			if weekOf != "" {
				d, err := calendar.ParseDate(weekOf)
				if err != nil {
					return err
				}
				week = d
			}

			cal, store, err := a.open()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := api.ApplyScenario(cmd.Context(), cal, calendar.UserID(user), scenario, week); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %s for %s\n", scenario, user)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "user to wipe and seed")
	cmd.Flags().StringVar(&scenario, "scenario", "busy-week", "scenario id (see GET /api/scenarios)")
	cmd.Flags().StringVar(&weekOf, "week-of", "", "any date of the target week (YYYY-MM-DD)")
	cmd.MarkFlagRequired("user")
	return cmd
}
