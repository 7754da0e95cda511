package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MegaGrindStone/go-ticket-triage/handler"
	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve /health and /predict over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}

			classifier, closeCache, err := newClassifier(a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer closeCache()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			backend := a.cfg.LLM.Type + "/" + a.cfg.LLM.Model
			app := handler.New(classifier, backend, a.logger)

			a.logger.Info("Serving", "addr", a.cfg.Server.Addr, "backend", backend)

			if err := app.Listen(a.cfg.Server.Addr, fiber.ListenConfig{
				GracefulContext:       ctx,
				DisableStartupMessage: true,
			}); err != nil {
				return fmt.Errorf("server failed: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8000", "Listen address")

	return cmd
}
