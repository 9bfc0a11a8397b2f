package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"ledgerly/internal/core"
	applog "ledgerly/internal/log"
)

// handleDashboard returns the aggregated month view: totals, per-category
// expense sums, savings figures, and the budget report. The four source
// reads run in parallel.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := monthKey(year, month)
	if cached, ok := s.dashboardCache.Get(key); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 7*time.Second)
	defer cancel()

	var (
		txs      []core.Transaction
		cats     []core.Category
		budgets  []core.Budget
		settings core.UserSettings
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.backend.ListTransactions(gctx, year, month)
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = s.backend.ListCategories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = s.backend.FetchBudgets(gctx, year, month)
		return err
	})
	g.Go(func() error {
		var err error
		settings, err = s.backend.FetchSettings(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "Dashboard fetch failed",
			applog.FieldYear, year,
			applog.FieldMonth, month,
			applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, "failed to load dashboard data")
		return
	}

	summary := core.SummarizeMonth(txs, cats, settings, year, month)

	allocations := make(map[string]core.Money, len(budgets))
	for _, b := range budgets {
		allocations[b.Category] = b.Allocated
	}
	report := core.ReconcileBudgets(allocations, summary)

	resp := dashboardResponse{
		Year:                year,
		Month:               month,
		TotalIncomeCents:    summary.TotalIncome.Cents,
		TotalExpensesCents:  summary.TotalExpenses.Cents,
		NetBalanceCents:     summary.NetBalance.Cents,
		ExpensesByCategory:  make(map[string]int64, len(summary.ExpensesByCategory)),
		SavingAmountCents:   summary.SavingAmount.Cents,
		CurrentSavingsCents: summary.CurrentSavings.Cents,
		SavingsBalanceCents: summary.SavingsBalance.Cents,
		Budget:              toBudgetReportDTO(report),
	}
	for name, amount := range summary.ExpensesByCategory {
		resp.ExpensesByCategory[name] = amount.Cents
	}

	s.dashboardCache.Set(key, resp)
	respondJSON(w, http.StatusOK, resp)
}
