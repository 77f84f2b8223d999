package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ahollister/coinflow/internal/cli"
	"github.com/ahollister/coinflow/internal/model"
	"github.com/ahollister/coinflow/internal/schedule"
)

func autoImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auto-import",
		Short: "Manage automatic expense import schedules",
	}

	cmd.AddCommand(autoImportListCmd())
	cmd.AddCommand(autoImportAddCmd())
	cmd.AddCommand(autoImportDeleteCmd())

	return cmd
}

func autoImportListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List auto-import schedules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			schedules, err := store.GetAutoImportSchedules(ctx)
			if err != nil {
				return fmt.Errorf("failed to load auto-import schedules: %w", err)
			}

			fmt.Fprintln(os.Stdout, cli.FormatTitle("Auto-import schedules"))
			for _, s := range schedules {
				lastRun := "never"
				if s.LastRunAt != nil {
					lastRun = s.LastRunAt.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(os.Stdout, "%4d  %-24s  %-8s  next %s  last %s (%d imported)\n",
					s.ID, s.Name, s.Frequency,
					s.NextRunAt.Format("2006-01-02 15:04"), lastRun, s.LastRunImportedCount)
				if s.Failed() {
					fmt.Fprintf(os.Stdout, "      %s\n", cli.FormatError("last run failed: "+*s.LastRunError))
				}
			}
			return nil
		},
	}
}

func autoImportAddCmd() *cobra.Command {
	var (
		userID   string
		groupID  string
		memberID string
		freqStr  string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an auto-import schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			freq, err := model.ParseImportFrequency(freqStr)
			if err != nil {
				return err
			}

			sched := &model.AutoImportSchedule{
				Name:      args[0],
				UserID:    userID,
				GroupID:   groupID,
				MemberID:  memberID,
				Frequency: freq,
				NextRunAt: schedule.NextImportRun(freq, time.Now()),
				IsActive:  true,
			}
			if err := sched.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.CreateAutoImportSchedule(ctx, sched); err != nil {
				return fmt.Errorf("failed to create auto-import schedule: %w", err)
			}

			fmt.Fprintln(os.Stdout, cli.FormatSuccess(fmt.Sprintf(
				"Created auto-import %q (id %d), first run %s",
				sched.Name, sched.ID, sched.NextRunAt.Format("2006-01-02 15:04"))))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user the imported expenses belong to")
	cmd.Flags().StringVar(&groupID, "group", "", "sharing service group to pull from")
	cmd.Flags().StringVar(&memberID, "member", "", "sharing service member whose share to record")
	cmd.Flags().StringVar(&freqStr, "frequency", "daily", "daily, weekly, or monthly")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("group")

	return cmd
}

func autoImportDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an auto-import schedule",
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

			if err := store.DeleteAutoImportSchedule(ctx, id); err != nil {
				return fmt.Errorf("failed to delete auto-import schedule %d: %w", id, err)
			}

			fmt.Fprintln(os.Stdout, cli.FormatSuccess(fmt.Sprintf("Deleted auto-import schedule %d", id)))
			return nil
		},
	}
}
