package main

import (
	"fmt"

	triage "github.com/MegaGrindStone/go-ticket-triage"
	"github.com/spf13/cobra"
)

func newEvaluateCommand(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Replay an eval split through the classifier and report accuracy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			examples, err := triage.ReadExamplesFile(file)
			if err != nil {
				return err
			}

			classifier, closeCache, err := newClassifier(a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer closeCache()

			report, err := triage.Evaluate(cmd.Context(), classifier, examples, a.cfg.Concurrency)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "examples:      %d\n", report.Total)
			fmt.Fprintf(out, "no json:       %d\n", report.NoJSON)
			fmt.Fprintf(out, "invalid json:  %d\n", report.InvalidJSON)
			fmt.Fprintf(out, "llm errors:    %d\n", report.Errors)
			fmt.Fprintf(out, "with warnings: %d\n", report.WithWarnings)
			fmt.Fprintf(out, "exact match:   %.3f\n", report.ExactMatchRate())
			for _, key := range []string{"category", "priority", "route_to", "next_action"} {
				fmt.Fprintf(out, "  %-12s %.3f\n", key, report.Accuracy(key))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "data/"+triage.EvalFile, "Eval split in JSONL")

	return cmd
}
