package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestSharedExpense_GenerateID(t *testing.T) {
	base := SharedExpense{
		Date:        time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC),
		Description: "groceries",
		UserID:      "alice",
		GroupID:     "42",
		Amount:      decimal.RequireFromString("30.00"),
	}

	t.Run("deterministic", func(t *testing.T) {
		if base.GenerateID() != base.GenerateID() {
			t.Error("GenerateID is not deterministic")
		}
	})

	t.Run("time of day does not change the hash", func(t *testing.T) {
		other := base
		other.Date = base.Date.Add(14 * time.Hour)
		if base.GenerateID() != other.GenerateID() {
			t.Error("Same-day expenses should hash identically")
		}
	})

	t.Run("equivalent amounts hash identically", func(t *testing.T) {
		other := base
		other.Amount = decimal.RequireFromString("30")
		if base.GenerateID() != other.GenerateID() {
			t.Error("30 and 30.00 should hash identically")
		}
	})

	t.Run("each identity field changes the hash", func(t *testing.T) {
		variants := map[string]SharedExpense{
			"date":        {Date: base.Date.AddDate(0, 0, 1), Description: base.Description, UserID: base.UserID, GroupID: base.GroupID, Amount: base.Amount},
			"description": {Date: base.Date, Description: "dinner", UserID: base.UserID, GroupID: base.GroupID, Amount: base.Amount},
			"user":        {Date: base.Date, Description: base.Description, UserID: "bob", GroupID: base.GroupID, Amount: base.Amount},
			"group":       {Date: base.Date, Description: base.Description, UserID: base.UserID, GroupID: "43", Amount: base.Amount},
			"amount":      {Date: base.Date, Description: base.Description, UserID: base.UserID, GroupID: base.GroupID, Amount: decimal.RequireFromString("31.00")},
		}

		want := base.GenerateID()
		for field, variant := range variants {
			if variant.GenerateID() == want {
				t.Errorf("Changing %s did not change the hash", field)
			}
		}
	})
}

func TestAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		account Account
		wantErr bool
	}{
		{name: "valid asset", account: Account{Name: "Checking", Kind: AccountAsset}},
		{name: "valid liability", account: Account{Name: "Card", Kind: AccountLiability}},
		{name: "missing name", account: Account{Kind: AccountAsset}, wantErr: true},
		{name: "invalid kind", account: Account{Name: "Weird", Kind: "equity"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate() = nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}
