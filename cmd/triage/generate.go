package main

import (
	"fmt"

	triage "github.com/MegaGrindStone/go-ticket-triage"
	"github.com/MegaGrindStone/go-ticket-triage/internal"
	"github.com/spf13/cobra"
)

func newGenerateCommand(a *app) *cobra.Command {
	var (
		outDir string
		nTotal int
		nEval  int
		seed   uint64
		stats  bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the train and eval datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.Data
			if cmd.Flags().Changed("out-dir") {
				cfg.OutDir = outDir
			}
			if cmd.Flags().Changed("n-total") {
				cfg.NTotal = nTotal
			}
			if cmd.Flags().Changed("n-eval") {
				cfg.NEval = nEval
			}
			if !cmd.Flags().Changed("seed") {
				seed = a.cfg.Seed
			}

			gen := triage.NewGenerator(triage.DefaultTaxonomy(), triage.NewRand(seed))
			train, eval, err := gen.Split(cfg.NTotal, cfg.NEval)
			if err != nil {
				return err
			}

			trainPath, evalPath, err := triage.WriteSplit(cfg.OutDir, train, eval)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %d train → %s\n", len(train), trainPath)
			fmt.Fprintf(out, "Wrote %d eval  → %s\n", len(eval), evalPath)

			if !stats {
				return nil
			}

			counter, err := internal.NewTokenCounter(cfg.Tokenizer, cfg.VocabPath, cfg.MergesPath)
			if err != nil {
				return fmt.Errorf("failed to create token counter: %w", err)
			}
			s, err := triage.Stats(append(train, eval...), counter, cfg.MaxTokens)
			if err != nil {
				return err
			}
			printStats(cmd, s, cfg.MaxTokens)

			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", "data", "Directory for train.jsonl and eval.jsonl")
	cmd.Flags().IntVar(&nTotal, "n-total", 800, "Number of examples to generate")
	cmd.Flags().IntVar(&nEval, "n-eval", 120, "Number of examples held out for evaluation")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "Seed of the random stream")
	cmd.Flags().BoolVar(&stats, "stats", false, "Print label distribution and token lengths")

	return cmd
}

func printStats(cmd *cobra.Command, s triage.DatasetStats, limit int) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "\n%d examples\n", s.Count)
	for _, c := range triage.DefaultTaxonomy().Categories() {
		fmt.Fprintf(out, "  %-30s %d\n", c, s.ByCategory[c])
	}
	for _, p := range triage.Priorities {
		fmt.Fprintf(out, "  %-30s %d\n", p, s.ByPriority[p])
	}
	fmt.Fprintf(out, "tokens: max %d, mean %.1f, over %d: %d\n", s.MaxTokens, s.MeanTokens, limit, s.OverLimit)
}
