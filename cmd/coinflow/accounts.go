package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ahollister/coinflow/internal/cli"
	"github.com/ahollister/coinflow/internal/model"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage tracked accounts",
	}

	cmd.AddCommand(accountsListCmd())
	cmd.AddCommand(accountsAddCmd())
	cmd.AddCommand(accountsDeleteCmd())

	return cmd
}

func accountsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			accounts, err := store.GetAccounts(ctx)
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}

			fmt.Fprintln(os.Stdout, cli.FormatTitle("Accounts"))
			for _, a := range accounts {
				balance, balErr := store.CurrentBalance(ctx, a.ID)
				if balErr != nil {
					return balErr
				}
				fmt.Fprintf(os.Stdout, "%4d  %-24s  %-9s  %12s\n",
					a.ID, a.Name, a.Kind, balance.StringFixed(2))
			}
			return nil
		},
	}
}

func accountsAddCmd() *cobra.Command {
	var kind, institution string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			account := &model.Account{
				Name:        args[0],
				Kind:        model.AccountKind(kind),
				Institution: institution,
			}
			if err := store.CreateAccount(ctx, account); err != nil {
				return fmt.Errorf("failed to create account: %w", err)
			}

			fmt.Fprintln(os.Stdout, cli.FormatSuccess(
				fmt.Sprintf("Created %s account %q (id %d)", account.Kind, account.Name, account.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "asset", "account kind (asset, liability)")
	cmd.Flags().StringVar(&institution, "institution", "", "institution name")
	return cmd
}

func accountsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteAccount(ctx, id); err != nil {
				return fmt.Errorf("failed to delete account: %w", err)
			}
			fmt.Fprintln(os.Stdout, cli.FormatSuccess(fmt.Sprintf("Deleted account %d", id)))
			return nil
		},
	}
}
