package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ahollister/coinflow/internal/model"
)

// RenderProjection formats a net worth projection as a styled table.
func RenderProjection(result *model.ProjectionResult) string {
	var b strings.Builder

	b.WriteString(FormatTitle("Net Worth Projection"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Current net worth: %s\n", renderAmount(result.CurrentNetWorth)))
	b.WriteString(fmt.Sprintf("Projected monthly change: %s", renderAmount(result.MonthlyChange)))
	if result.IncludesRecurring {
		b.WriteString(SubtleStyle.Render("  (includes recurring transfers)"))
	}
	b.WriteString("\n")
	if !result.AverageMonthlyExpense.IsZero() {
		b.WriteString(fmt.Sprintf("Average monthly expenses: %s\n", renderAmount(result.AverageMonthlyExpense)))
	}
	b.WriteString("\n")

	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-12s  %14s  %s", "Month", "Net Worth", "")))
	b.WriteString("\n")
	for _, p := range result.Points {
		marker := ChartIcon
		if p.IsHistorical {
			marker = SubtleStyle.Render("history")
		}
		b.WriteString(TableCellStyle.Render(fmt.Sprintf("%-12s  %14s  %s",
			p.Date.Format("Jan 2006"), p.Value.StringFixed(2), marker)))
		b.WriteString("\n")
	}

	if result.Goal != nil {
		b.WriteString("\n")
		b.WriteString(renderGoal(result.Goal))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderPayoff formats liability payoff schedules as styled tables.
func RenderPayoff(result *model.PayoffResult) string {
	var b strings.Builder

	b.WriteString(FormatTitle("Liability Payoff"))
	b.WriteString("\n")

	if len(result.Liabilities) == 0 {
		b.WriteString(SubtleStyle.Render("No liability accounts found."))
		b.WriteString("\n")
		return b.String()
	}

	for _, l := range result.Liabilities {
		b.WriteString(TitleStyle.UnsetMargins().Render(l.AccountName))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Balance: %s  Payment: %s/mo  Rate: %s%%\n",
			l.StartingBalance.StringFixed(2), l.MonthlyPayment.StringFixed(2), l.AnnualRate.String()))

		if l.PayoffDate == nil {
			b.WriteString(FormatWarning("Payment does not cover interest; this balance never pays off."))
			b.WriteString("\n\n")
			continue
		}

		b.WriteString(FormatSuccess(fmt.Sprintf("Paid off %s (%d months, %s total interest)",
			l.PayoffDate.Format("Jan 2006"), *l.MonthsToPayoff, l.TotalInterestPaid.StringFixed(2))))
		b.WriteString("\n\n")
	}
	return b.String()
}

func renderGoal(goal *model.GoalEstimate) string {
	if !goal.IsAchievable {
		return FormatWarning(fmt.Sprintf("Goal of %s is not reachable at the current trend.",
			goal.GoalAmount.StringFixed(2)))
	}
	if goal.MonthsToGoal == 0 {
		return FormatSuccess(fmt.Sprintf("Goal of %s already reached!", goal.GoalAmount.StringFixed(2)))
	}
	return FormatSuccess(fmt.Sprintf("Goal of %s reached in %d months (%s).",
		goal.GoalAmount.StringFixed(2), goal.MonthsToGoal, goal.AchievedAt.Format("Jan 2006")))
}

func renderAmount(d decimal.Decimal) string {
	if d.IsNegative() {
		return NegativeStyle.Render(d.StringFixed(2))
	}
	return d.StringFixed(2)
}
