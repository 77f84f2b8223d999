package model

import (
	"fmt"
	"time"
)

// AutoImportSchedule represents one recurring job that pulls expenses for a
// user from the external sharing service. Group and member identifiers are
// opaque to this application; they are passed through to the import client.
type AutoImportSchedule struct {
	NextRunAt             time.Time
	LastRunAt             *time.Time
	LastRunError          *string
	Name                  string
	UserID                string
	GroupID               string
	MemberID              string
	Frequency             ImportFrequency
	ID                    int64
	LastRunImportedCount  int
	IsActive              bool
}

// Validate checks that the schedule can be persisted and executed.
func (a *AutoImportSchedule) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("auto-import schedule name is required")
	}
	if a.UserID == "" {
		return fmt.Errorf("auto-import schedule requires a user")
	}
	if a.GroupID == "" {
		return fmt.Errorf("auto-import schedule requires a group")
	}
	if !a.Frequency.Valid() {
		return fmt.Errorf("invalid import frequency: %q", a.Frequency)
	}
	if a.NextRunAt.IsZero() {
		return fmt.Errorf("next run time is required")
	}
	return nil
}

// Failed reports whether the most recent run ended in an error.
func (a *AutoImportSchedule) Failed() bool {
	return a.LastRunError != nil
}
