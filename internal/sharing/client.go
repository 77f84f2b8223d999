// Package sharing implements the client for the expense-sharing service
// that auto-import schedules pull from, and the import workflow that wires
// it to storage.
package sharing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ahollister/coinflow/internal/common"
	"github.com/ahollister/coinflow/internal/model"
)

const defaultBaseURL = "https://secure.splitwise.com/api/v3.0"

// Client talks to the expense-sharing API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// API response types.
type expenseList struct {
	Expenses []expense `json:"expenses"`
}

type expense struct {
	ID          int64         `json:"id"`
	GroupID     int64         `json:"group_id"`
	Description string        `json:"description"`
	Cost        string        `json:"cost"`
	Date        time.Time     `json:"date"`
	DeletedAt   *time.Time    `json:"deleted_at"`
	Users       []expenseUser `json:"users"`
}

type expenseUser struct {
	UserID    int64  `json:"user_id"`
	OwedShare string `json:"owed_share"`
}

// NewClient creates a sharing API client. An empty apiKey is allowed; such
// a client reports itself as not configured.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// IsConfigured reports whether the client has credentials to talk to the
// sharing service.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// GetGroupExpenses fetches a group's expenses within [start, end] and maps
// the member's share of each into our model. Deleted expenses are skipped.
func (c *Client) GetGroupExpenses(ctx context.Context, groupID, memberID string, start, end time.Time) ([]model.SharedExpense, error) {
	if !c.IsConfigured() {
		return nil, common.ErrImportNotConfigured
	}

	u, err := url.Parse(c.baseURL + "/get_expenses")
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	q := u.Query()
	q.Set("group_id", groupID)
	q.Set("dated_after", start.Format(time.RFC3339))
	q.Set("dated_before", end.Format(time.RFC3339))
	q.Set("limit", "0")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrImportConnection, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, common.ErrImportRateLimit
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("sharing API error: %d - %s", resp.StatusCode, string(body))
	}

	var list expenseList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var expenses []model.SharedExpense
	for _, e := range list.Expenses {
		if e.DeletedAt != nil {
			continue
		}
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}

		amount, amtErr := memberShare(e, memberID)
		if amtErr != nil {
			return nil, amtErr
		}
		if amount.IsZero() {
			continue
		}

		exp := model.SharedExpense{
			Date:        e.Date,
			Description: e.Description,
			UserID:      memberID,
			GroupID:     fmt.Sprintf("%d", e.GroupID),
			Amount:      amount,
		}
		exp.ID = exp.GenerateID()
		expenses = append(expenses, exp)
	}

	return expenses, nil
}

// memberShare extracts the member's owed share of an expense. An expense
// the member is not part of contributes zero.
func memberShare(e expense, memberID string) (decimal.Decimal, error) {
	for _, u := range e.Users {
		if fmt.Sprintf("%d", u.UserID) != memberID {
			continue
		}
		share, err := decimal.NewFromString(u.OwedShare)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to parse owed share %q: %w", u.OwedShare, err)
		}
		return share, nil
	}
	return decimal.Zero, nil
}
