package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

type app struct {
	configPath string
	logLevel   string

	cfg    config
	logger *slog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "triage",
		Short: "IT ticket triage toolkit",
		Long: `triage synthesizes labeled prompt/completion pairs for fine-tuning a small language model
to triage IT support tickets, and serves that model as a ticket classifier.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(a.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = a.logLevel
			}
			a.cfg = cfg
			a.logger = newLogger(cfg.LogLevel, os.Stderr)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigPath, "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(newGenerateCommand(a))
	rootCmd.AddCommand(newClassifyCommand(a))
	rootCmd.AddCommand(newEvaluateCommand(a))
	rootCmd.AddCommand(newServeCommand(a))

	return rootCmd
}
