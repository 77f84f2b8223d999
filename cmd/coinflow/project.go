package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ahollister/coinflow/internal/cli"
	"github.com/ahollister/coinflow/internal/forecast"
)

func projectCmd() *cobra.Command {
	var (
		months           int
		goalStr          string
		userID           string
		includeRecurring bool
	)

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project net worth forward from balance history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			opts := forecast.ProjectionOptions{
				Months:           months,
				UserID:           userID,
				IncludeRecurring: includeRecurring,
			}
			if goalStr != "" {
				goal, err := decimal.NewFromString(goalStr)
				if err != nil {
					return fmt.Errorf("invalid goal amount %q: %w", goalStr, err)
				}
				opts.GoalAmount = &goal
			}

			result, err := forecast.NewProjector(store).ComputeNetWorthProjection(ctx, opts)
			if err != nil {
				return fmt.Errorf("failed to compute projection: %w", err)
			}

			fmt.Fprintln(os.Stdout, cli.RenderProjection(result))
			return nil
		},
	}

	cmd.Flags().IntVar(&months, "months", 12, "how many months to project forward")
	cmd.Flags().StringVar(&goalStr, "goal", "", "net worth goal to estimate a date for")
	cmd.Flags().StringVar(&userID, "user", "", "include this user's shared expenses in the trend")
	cmd.Flags().BoolVar(&includeRecurring, "include-recurring", true, "fold active recurring schedules into the trend")

	return cmd
}
