package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"weightress/internal/app"
	"weightress/internal/repository"
	"weightress/internal/worker"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded weights, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		w := worker.New(1)
		defer w.Stop()

		tr := app.NewTracker(app.NewWeightService(repository.NewWeightRepo(st)), w, logger)
		res := <-tr.History(cmd.Context())
		if res.Err != nil {
			return res.Err
		}
		if len(res.History) == 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No weights recorded yet.")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, e := range res.History {
			_, _ = fmt.Fprintf(tw, "#%d\t%s\t%s kg\t%s\n",
				e.ID,
				e.RecordedTime().Format("02 Jan 06 15:04"),
				strconv.FormatFloat(e.WeightKg, 'f', -1, 64),
				e.Notes)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
