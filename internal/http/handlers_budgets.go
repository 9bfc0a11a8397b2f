package http

import (
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"ledgerly/internal/core"
	applog "ledgerly/internal/log"
)

// handleGetBudgets returns the month's allocations alongside the
// reconciled report so clients render both from one call.
func (s *Server) handleGetBudgets(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		budgets  []core.Budget
		txs      []core.Transaction
		cats     []core.Category
		settings core.UserSettings
	)

	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		budgets, err = s.backend.FetchBudgets(gctx, year, month)
		return err
	})
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
		settings, err = s.backend.FetchSettings(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(r.Context(), "Budget fetch failed",
			applog.FieldYear, year,
			applog.FieldMonth, month,
			applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, "failed to load budgets")
		return
	}

	summary := core.SummarizeMonth(txs, cats, settings, year, month)
	allocations := make(map[string]core.Money, len(budgets))
	for _, b := range budgets {
		allocations[b.Category] = b.Allocated
	}

	resp := budgetsResponse{
		Year:    year,
		Month:   month,
		Budgets: make([]budgetDTO, 0, len(budgets)),
		Report:  toBudgetReportDTO(core.ReconcileBudgets(allocations, summary)),
	}
	for _, b := range budgets {
		resp.Budgets = append(resp.Budgets, budgetDTO{
			Category:       b.Category,
			AllocatedCents: b.Allocated.Cents,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleSetBudgets replaces every allocation for the given month with
// the submitted set. An empty list clears the month.
func (s *Server) handleSetBudgets(w http.ResponseWriter, r *http.Request) {
	var in budgetsInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if in.Month < 1 || in.Month > 12 {
		respondError(w, http.StatusUnprocessableEntity, core.ErrInvalidMonth.Error())
		return
	}

	budgets := make([]core.Budget, 0, len(in.Budgets))
	for _, b := range in.Budgets {
		budget := core.Budget{
			Category:  sanitizeInput(b.Category),
			Month:     in.Month,
			Year:      in.Year,
			Allocated: core.Money{Cents: b.AllocatedCents},
		}
		if err := budget.Validate(); err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		budgets = append(budgets, budget)
	}

	if err := s.backend.SetBudgets(r.Context(), in.Year, in.Month, budgets); err != nil {
		slog.ErrorContext(r.Context(), "Set budgets failed",
			applog.FieldYear, in.Year,
			applog.FieldMonth, in.Month,
			applog.FieldError, err)
		respondStoreError(w, err)
		return
	}

	s.invalidateMonthViews()
	w.WriteHeader(http.StatusNoContent)
}
