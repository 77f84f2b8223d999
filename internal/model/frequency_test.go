package model

import "testing"

func TestParseFrequency(t *testing.T) {
	for _, valid := range []string{"weekly", "biweekly", "monthly", "quarterly", "yearly"} {
		if _, err := ParseFrequency(valid); err != nil {
			t.Errorf("ParseFrequency(%q) = %v, want nil", valid, err)
		}
	}

	for _, invalid := range []string{"", "daily", "Monthly", "fortnightly"} {
		if _, err := ParseFrequency(invalid); err == nil {
			t.Errorf("ParseFrequency(%q) = nil, want error", invalid)
		}
	}
}

func TestParseImportFrequency(t *testing.T) {
	for _, valid := range []string{"daily", "weekly", "monthly"} {
		if _, err := ParseImportFrequency(valid); err != nil {
			t.Errorf("ParseImportFrequency(%q) = %v, want nil", valid, err)
		}
	}

	for _, invalid := range []string{"", "hourly", "biweekly"} {
		if _, err := ParseImportFrequency(invalid); err == nil {
			t.Errorf("ParseImportFrequency(%q) = nil, want error", invalid)
		}
	}
}

func TestAutoImportSchedule_Failed(t *testing.T) {
	sched := AutoImportSchedule{}
	if sched.Failed() {
		t.Error("Failed() = true with no error recorded")
	}

	msg := "rate limited"
	sched.LastRunError = &msg
	if !sched.Failed() {
		t.Error("Failed() = false with an error recorded")
	}
}
