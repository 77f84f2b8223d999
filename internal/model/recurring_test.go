package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func datePtr(t time.Time) *time.Time { return &t }

func intPtr(i int) *int { return &i }

func TestRecurringSchedule_Validate(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	valid := func() RecurringSchedule {
		return RecurringSchedule{
			Name:        "rent",
			AccountID:   1,
			Frequency:   FrequencyMonthly,
			Amount:      decimal.RequireFromString("-1500"),
			StartDate:   start,
			NextRunDate: start,
		}
	}

	tests := []struct {
		mutate  func(*RecurringSchedule)
		name    string
		wantErr bool
	}{
		{
			name:   "valid fixed schedule",
			mutate: func(*RecurringSchedule) {},
		},
		{
			name: "valid interest schedule",
			mutate: func(r *RecurringSchedule) {
				r.IsInterest = true
				r.AnnualRate = decimal.RequireFromString("5")
			},
		},
		{
			name:    "missing account",
			mutate:  func(r *RecurringSchedule) { r.AccountID = 0 },
			wantErr: true,
		},
		{
			name:    "missing name",
			mutate:  func(r *RecurringSchedule) { r.Name = "" },
			wantErr: true,
		},
		{
			name:    "invalid frequency",
			mutate:  func(r *RecurringSchedule) { r.Frequency = "fortnightly" },
			wantErr: true,
		},
		{
			name:    "missing start date",
			mutate:  func(r *RecurringSchedule) { r.StartDate = time.Time{} },
			wantErr: true,
		},
		{
			name:    "next run precedes start",
			mutate:  func(r *RecurringSchedule) { r.NextRunDate = start.AddDate(0, 0, -1) },
			wantErr: true,
		},
		{
			name:    "end date precedes start",
			mutate:  func(r *RecurringSchedule) { r.EndDate = datePtr(start.AddDate(0, 0, -1)) },
			wantErr: true,
		},
		{
			name:    "day of month too large",
			mutate:  func(r *RecurringSchedule) { r.DayOfMonth = intPtr(32) },
			wantErr: true,
		},
		{
			name:    "day of month too small",
			mutate:  func(r *RecurringSchedule) { r.DayOfMonth = intPtr(0) },
			wantErr: true,
		},
		{
			name:    "interest schedule without rate",
			mutate:  func(r *RecurringSchedule) { r.IsInterest = true },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := valid()
			tt.mutate(&sched)

			err := sched.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate() = nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestRecurringSchedule_Expired(t *testing.T) {
	end := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		endDate *time.Time
		name    string
		nextRun time.Time
		want    bool
	}{
		{
			name:    "no end date never expires",
			nextRun: end.AddDate(10, 0, 0),
			want:    false,
		},
		{
			name:    "next run before end date",
			endDate: &end,
			nextRun: end.AddDate(0, 0, -1),
			want:    false,
		},
		{
			name:    "next run on the end date still runs",
			endDate: &end,
			nextRun: end,
			want:    false,
		},
		{
			name:    "next run past the end date",
			endDate: &end,
			nextRun: end.AddDate(0, 0, 1),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := RecurringSchedule{NextRunDate: tt.nextRun, EndDate: tt.endDate}
			if got := sched.Expired(); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecurringSchedule_MonthlyEquivalent(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		want     string
		freq     Frequency
		interest bool
	}{
		{name: "monthly passes through", freq: FrequencyMonthly, amount: "-1500", want: "-1500"},
		{name: "weekly scales up", freq: FrequencyWeekly, amount: "-100", want: "-433"},
		{name: "biweekly scales up", freq: FrequencyBiweekly, amount: "2000", want: "4334"},
		{name: "quarterly scales down", freq: FrequencyQuarterly, amount: "-1200", want: "-400"},
		{name: "yearly scales down", freq: FrequencyYearly, amount: "-1200", want: "-100"},
		{name: "interest contributes nothing", freq: FrequencyMonthly, amount: "-1500", interest: true, want: "0"},
	}

	tolerance := decimal.RequireFromString("0.0001")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := RecurringSchedule{
				Frequency:  tt.freq,
				Amount:     decimal.RequireFromString(tt.amount),
				IsInterest: tt.interest,
			}
			got := sched.MonthlyEquivalent()
			if diff := got.Sub(decimal.RequireFromString(tt.want)).Abs(); diff.GreaterThan(tolerance) {
				t.Errorf("MonthlyEquivalent() = %s, want %s", got, tt.want)
			}
		})
	}
}
