package main

import (
	"errors"
	"fmt"
	"strconv"

	"weightress/internal/app"
	"weightress/internal/domain"
	"weightress/internal/repository"
	"weightress/internal/worker"

	"github.com/spf13/cobra"
)

var recordNotes string

var recordCmd = &cobra.Command{
	Use:   "record <weight>",
	Short: "Record a weight in kilograms",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		w := worker.New(1)
		defer w.Stop()

		tr := app.NewTracker(app.NewWeightService(repository.NewWeightRepo(st)), w, logger)
		res := <-tr.Record(cmd.Context(), args[0], recordNotes)
		if errors.Is(res.Err, domain.ErrInvalidWeight) {
			return errors.New(res.Message)
		}
		if res.Err != nil {
			return res.Err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s kg (#%d)\n",
			strconv.FormatFloat(res.Entry.WeightKg, 'f', -1, 64), res.Entry.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().StringVar(&recordNotes, "notes", "", "Optional notes for the entry")
}
