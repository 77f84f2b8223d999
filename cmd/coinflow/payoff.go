package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ahollister/coinflow/internal/cli"
	"github.com/ahollister/coinflow/internal/forecast"
	"github.com/ahollister/coinflow/internal/model"
)

func payoffCmd() *cobra.Command {
	var (
		accountID  int64
		paymentStr string
		rateStr    string
	)

	cmd := &cobra.Command{
		Use:   "payoff",
		Short: "Estimate payoff timelines for liability accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var overrides []model.PayoffSetting
			if accountID != 0 {
				override := model.PayoffSetting{AccountID: accountID}
				if paymentStr != "" {
					payment, err := decimal.NewFromString(paymentStr)
					if err != nil {
						return fmt.Errorf("invalid payment %q: %w", paymentStr, err)
					}
					override.MonthlyPayment = payment
				}
				if rateStr != "" {
					rate, err := decimal.NewFromString(rateStr)
					if err != nil {
						return fmt.Errorf("invalid rate %q: %w", rateStr, err)
					}
					override.AnnualRate = rate
				}
				overrides = append(overrides, override)
			}

			result, err := forecast.NewProjector(store).ComputeLiabilityPayoff(ctx, overrides)
			if err != nil {
				return fmt.Errorf("failed to compute payoff: %w", err)
			}

			fmt.Fprintln(os.Stdout, cli.RenderPayoff(result))
			return nil
		},
	}

	cmd.Flags().Int64Var(&accountID, "account", 0, "apply a one-off payment/rate override to this account")
	cmd.Flags().StringVar(&paymentStr, "payment", "", "monthly payment override")
	cmd.Flags().StringVar(&rateStr, "rate", "", "annual rate percentage override")

	return cmd
}
