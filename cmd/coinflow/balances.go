package main

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ahollister/coinflow/internal/cli"
	"github.com/ahollister/coinflow/internal/model"
)

func balancesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Record and inspect account balances",
	}

	cmd.AddCommand(balancesSetCmd())
	cmd.AddCommand(balancesHistoryCmd())

	return cmd
}

func balancesSetCmd() *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "set <account-id> <balance>",
		Short: "Record a balance observation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := parseID(args[0])
			if err != nil {
				return err
			}
			balance, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid balance %q: %w", args[1], err)
			}

			date := time.Now()
			if dateFlag != "" {
				if date, err = parseDateFlag(dateFlag); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			obs := &model.BalanceObservation{
				AccountID: accountID,
				Date:      date,
				Balance:   balance,
			}
			if err := store.SaveBalanceObservation(ctx, obs); err != nil {
				return fmt.Errorf("failed to save balance: %w", err)
			}

			fmt.Fprintln(os.Stdout, cli.FormatSuccess(fmt.Sprintf(
				"Recorded balance %s for account %d on %s",
				balance.StringFixed(2), accountID, date.Format("2006-01-02"))))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "observation date (YYYY-MM-DD, default today)")
	return cmd
}

func balancesHistoryCmd() *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "history <account-id>",
		Short: "Show an account's balance history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			now := time.Now()
			history, err := store.GetBalanceHistory(ctx, accountID, now.AddDate(0, -months, 0), now)
			if err != nil {
				return fmt.Errorf("failed to load balance history: %w", err)
			}

			fmt.Fprintln(os.Stdout, cli.FormatTitle(fmt.Sprintf("Balance history (account %d)", accountID)))
			for _, obs := range history {
				fmt.Fprintf(os.Stdout, "%s  %14s\n", obs.Date.Format("2006-01-02"), obs.Balance.StringFixed(2))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&months, "months", 12, "how many months back to show")
	return cmd
}
