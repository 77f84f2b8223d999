package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/ahollister/coinflow/internal/cli"
	"github.com/ahollister/coinflow/internal/poller"
	"github.com/ahollister/coinflow/internal/sharing"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the background pollers",
		Long: `Run the recurring transaction and auto-import pollers until interrupted.

The recurring poller applies due fixed-amount and interest-bearing
schedules hourly. The auto-import poller pulls shared expenses for due
import schedules every 15 minutes, when an expense-sharing API key is
configured.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	handler := cli.NewInterruptHandler(os.Stdout)
	ctx := handler.HandleInterrupts(cmd.Context())

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	client := sharing.NewClient(
		viper.GetString("sharing.api_key"),
		viper.GetString("sharing.base_url"),
	)
	workflow := sharing.NewWorkflow(client, store)
	if !workflow.IsConfigured() {
		slog.Warn("Expense-sharing API key not configured; auto-imports will be skipped")
	}

	recurring := poller.NewRecurringProcessor(store)
	imports := poller.NewAutoImportProcessor(store, workflow)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return recurring.Run(ctx) })
	g.Go(func() error { return imports.Run(ctx) })

	err = g.Wait()
	if handler.WasInterrupted() {
		return nil
	}
	return err
}
