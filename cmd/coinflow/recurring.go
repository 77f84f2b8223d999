package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ahollister/coinflow/internal/cli"
	"github.com/ahollister/coinflow/internal/model"
)

func recurringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Manage recurring schedules",
	}

	cmd.AddCommand(recurringListCmd())
	cmd.AddCommand(recurringAddCmd())
	cmd.AddCommand(recurringPauseCmd())
	cmd.AddCommand(recurringResumeCmd())
	cmd.AddCommand(recurringDeleteCmd())

	return cmd
}

func recurringListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recurring schedules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			schedules, err := store.GetRecurringSchedules(ctx)
			if err != nil {
				return fmt.Errorf("failed to load recurring schedules: %w", err)
			}

			fmt.Fprintln(os.Stdout, cli.FormatTitle("Recurring schedules"))
			for _, s := range schedules {
				status := "active"
				if !s.IsActive {
					status = "paused"
				}
				amount := s.Amount.StringFixed(2)
				if s.IsInterest {
					kind := "APR"
					if s.Compounding {
						kind = "APY"
					}
					amount = fmt.Sprintf("%s%% %s", s.AnnualRate.String(), kind)
				}
				fmt.Fprintf(os.Stdout, "%4d  %-24s  %-9s  %12s  next %s  [%s]\n",
					s.ID, s.Name, s.Frequency, amount,
					s.NextRunDate.Format("2006-01-02"), status)
			}
			return nil
		},
	}
}

func recurringAddCmd() *cobra.Command {
	var (
		accountID  int64
		amountStr  string
		freqStr    string
		startStr   string
		endStr     string
		rateStr    string
		dayOfWeek  string
		dayOfMonth int
		compound   bool
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a recurring schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			freq, err := model.ParseFrequency(freqStr)
			if err != nil {
				return err
			}

			start := time.Now()
			if startStr != "" {
				if start, err = parseDateFlag(startStr); err != nil {
					return err
				}
			}

			sched := &model.RecurringSchedule{
				Name:        args[0],
				AccountID:   accountID,
				Frequency:   freq,
				StartDate:   start,
				NextRunDate: start,
				IsActive:    true,
				Compounding: compound,
			}

			if endStr != "" {
				end, err := parseDateFlag(endStr)
				if err != nil {
					return err
				}
				sched.EndDate = &end
			}
			if rateStr != "" {
				rate, err := decimal.NewFromString(rateStr)
				if err != nil {
					return fmt.Errorf("invalid rate %q: %w", rateStr, err)
				}
				sched.IsInterest = true
				sched.AnnualRate = rate
			} else {
				amount, err := decimal.NewFromString(amountStr)
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", amountStr, err)
				}
				sched.Amount = amount
			}
			if dayOfWeek != "" {
				wd, err := parseWeekday(dayOfWeek)
				if err != nil {
					return err
				}
				sched.DayOfWeek = &wd
			}
			if dayOfMonth > 0 {
				sched.DayOfMonth = &dayOfMonth
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

			if err := store.CreateRecurringSchedule(ctx, sched); err != nil {
				return fmt.Errorf("failed to create recurring schedule: %w", err)
			}

			fmt.Fprintln(os.Stdout, cli.FormatSuccess(fmt.Sprintf(
				"Created schedule %q (id %d), first run %s",
				sched.Name, sched.ID, sched.NextRunDate.Format("2006-01-02"))))
			return nil
		},
	}

	cmd.Flags().Int64Var(&accountID, "account", 0, "account the schedule applies to")
	cmd.Flags().StringVar(&amountStr, "amount", "", "signed amount per occurrence (ignored for interest schedules)")
	cmd.Flags().StringVar(&freqStr, "frequency", "monthly", "weekly, biweekly, monthly, quarterly, or yearly")
	cmd.Flags().StringVar(&startStr, "start", "", "start date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&endStr, "end", "", "optional end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&rateStr, "rate", "", "annual interest rate percentage; makes this an interest schedule")
	cmd.Flags().StringVar(&dayOfWeek, "day-of-week", "", "pin weekly/biweekly runs to a weekday")
	cmd.Flags().IntVar(&dayOfMonth, "day-of-month", 0, "pin monthly runs to a day of the month")
	cmd.Flags().BoolVar(&compound, "compound", false, "compound interest daily instead of simple accrual")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func recurringPauseCmd() *cobra.Command {
	return recurringActiveCmd("pause", "Pause a recurring schedule", false)
}

func recurringResumeCmd() *cobra.Command {
	return recurringActiveCmd("resume", "Resume a paused recurring schedule", true)
}

func recurringActiveCmd(use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
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

			if err := store.SetRecurringScheduleActive(ctx, id, active); err != nil {
				return fmt.Errorf("failed to update schedule %d: %w", id, err)
			}

			verb := "Paused"
			if active {
				verb = "Resumed"
			}
			fmt.Fprintln(os.Stdout, cli.FormatSuccess(fmt.Sprintf("%s schedule %d", verb, id)))
			return nil
		},
	}
}

func recurringDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recurring schedule",
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

			if err := store.DeleteRecurringSchedule(ctx, id); err != nil {
				return fmt.Errorf("failed to delete schedule %d: %w", id, err)
			}

			fmt.Fprintln(os.Stdout, cli.FormatSuccess(fmt.Sprintf("Deleted schedule %d", id)))
			return nil
		},
	}
}

func parseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(s) {
	case "sunday", "sun":
		return time.Sunday, nil
	case "monday", "mon":
		return time.Monday, nil
	case "tuesday", "tue":
		return time.Tuesday, nil
	case "wednesday", "wed":
		return time.Wednesday, nil
	case "thursday", "thu":
		return time.Thursday, nil
	case "friday", "fri":
		return time.Friday, nil
	case "saturday", "sat":
		return time.Saturday, nil
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}
