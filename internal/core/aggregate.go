package core

import (
	"sort"
	"time"
)

// FallbackCategory absorbs expense transactions whose category is not in
// the known category list, for example after the category was deleted.
const FallbackCategory = "Other"

// MonthSummary is the aggregation of one calendar month of the ledger.
type MonthSummary struct {
	Year               int
	Month              int // 1-12
	TotalIncome        Money
	TotalExpenses      Money // absolute value
	NetBalance         Money
	ExpensesByCategory map[string]Money

	// Savings display figures resolved from UserSettings.
	SavingAmount   Money
	CurrentSavings Money
	SavingsBalance Money
}

// DayGroup is the transactions of a single calendar day with their signed
// total, used for the date-descending transaction list.
type DayGroup struct {
	Date         Date
	Total        Money
	Transactions []Transaction
}

// MonthWindow returns the first and last calendar instants of the given
// month in local time. Date filtering against the window is closed
// interval on both ends.
func MonthWindow(year, month int) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// InWindow reports whether d falls within [start, end] inclusive.
func (d Date) InWindow(start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}

// SummarizeMonth derives the month's totals, per-category expense sums,
// and savings figures from the transaction set. It is a pure function:
// same inputs, same summary. Transactions outside the month are ignored;
// expense amounts contribute their absolute value regardless of stored
// sign; expense categories not present in cats land in FallbackCategory.
//
// An empty transaction set yields all-zero aggregates.
func SummarizeMonth(txs []Transaction, cats []Category, settings UserSettings, year, month int) MonthSummary {
	start, end := MonthWindow(year, month)

	known := make(map[string]struct{}, len(cats))
	for _, c := range cats {
		known[c.Name] = struct{}{}
	}

	s := MonthSummary{
		Year:               year,
		Month:              month,
		ExpensesByCategory: make(map[string]Money),
	}

	for _, t := range txs {
		if !t.Date.InWindow(start, end) {
			continue
		}
		switch t.Type {
		case Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case Expense:
			abs := t.Amount.Abs()
			s.TotalExpenses = s.TotalExpenses.Add(abs)
			name := t.Category
			if _, ok := known[name]; !ok {
				name = FallbackCategory
			}
			s.ExpensesByCategory[name] = s.ExpensesByCategory[name].Add(abs)
		}
	}

	s.NetBalance = s.TotalIncome.Sub(s.TotalExpenses)
	s.SavingAmount = settings.SavingTarget.Resolve(s.NetBalance)
	s.CurrentSavings = settings.CurrentSavings
	s.SavingsBalance = s.SavingAmount.Add(s.CurrentSavings)
	return s
}

// SortNewestFirst orders transactions by date descending, ID ascending
// within a day so listings are stable across calls.
func SortNewestFirst(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date.Time) {
			return txs[i].Date.After(txs[j].Date.Time)
		}
		return txs[i].ID < txs[j].ID
	})
}

// GroupByDay buckets transactions by calendar date, days sorted
// descending. Within a day the input order is preserved; the day total is
// the signed sum of its transactions.
func GroupByDay(txs []Transaction) []DayGroup {
	byDay := make(map[string]*DayGroup)
	var keys []string
	for _, t := range txs {
		key := t.Date.Format("2006-01-02")
		g, ok := byDay[key]
		if !ok {
			g = &DayGroup{Date: t.Date}
			byDay[key] = g
			keys = append(keys, key)
		}
		g.Total = g.Total.Add(t.Amount)
		g.Transactions = append(g.Transactions, t)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	out := make([]DayGroup, 0, len(keys))
	for _, key := range keys {
		out = append(out, *byDay[key])
	}
	return out
}
