package model

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SharedExpense is one expense pulled from the external sharing service.
type SharedExpense struct {
	Date        time.Time
	ImportedAt  time.Time
	ID          string
	Description string
	UserID      string
	GroupID     string
	Amount      decimal.Decimal
}

// GenerateID derives a stable hash identifier used for duplicate detection
// across repeated imports of overlapping date ranges.
func (e *SharedExpense) GenerateID() string {
	data := fmt.Sprintf("%s:%s:%s:%s:%s",
		e.Date.Format("2006-01-02"),
		e.Amount.StringFixed(2),
		e.Description,
		e.UserID,
		e.GroupID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
