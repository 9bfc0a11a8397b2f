package http

import (
	"ledgerly/internal/core"
)

// Wire types. Amounts travel as integer cents.
type (
	transactionDTO struct {
		ID          string `json:"id"`
		Date        string `json:"date"` // YYYY-MM-DD
		AmountCents int64  `json:"amount_cents"`
		Type        string `json:"type"`
		Category    string `json:"category"`
		Notes       string `json:"notes,omitempty"`
		Version     int64  `json:"version"`
	}

	transactionInput struct {
		Date        string `json:"date"`
		AmountCents int64  `json:"amount_cents"`
		// Amount is a form-style decimal alternative to amount_cents,
		// e.g. "12.34" or "12,34". Always unsigned; the type carries the
		// sign. When present it takes precedence.
		Amount   string `json:"amount,omitempty"`
		Type     string `json:"type"`
		Category string `json:"category"`
		Notes    string `json:"notes"`
	}

	dayGroupDTO struct {
		Date         string           `json:"date"`
		TotalCents   int64            `json:"total_cents"`
		Transactions []transactionDTO `json:"transactions"`
	}

	transactionListResponse struct {
		Year  int           `json:"year"`
		Month int           `json:"month"`
		Days  []dayGroupDTO `json:"days"`
	}

	categoryDTO struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Color    string `json:"color"`
		Type     string `json:"type"`
		IsSystem bool   `json:"is_system"`
	}

	categoryInput struct {
		Name  string `json:"name"`
		Color string `json:"color"`
		Type  string `json:"type"`
	}

	groupBucketDTO struct {
		Key        string        `json:"key"`
		Title      string        `json:"title"`
		Color      string        `json:"color"`
		Categories []categoryDTO `json:"categories"`
	}

	budgetDTO struct {
		Category       string `json:"category"`
		AllocatedCents int64  `json:"allocated_cents"`
	}

	budgetStatusDTO struct {
		Category       string `json:"category"`
		AllocatedCents int64  `json:"allocated_cents"`
		SpentCents     int64  `json:"spent_cents"`
		Over           bool   `json:"over"`
	}

	budgetReportDTO struct {
		TotalBudgetCents     int64             `json:"total_budget_cents"`
		TotalSpentCents      int64             `json:"total_spent_cents"`
		RemainingBudgetCents int64             `json:"remaining_budget_cents"`
		Progress             float64           `json:"progress"`
		Categories           []budgetStatusDTO `json:"categories"`
	}

	budgetsResponse struct {
		Year    int             `json:"year"`
		Month   int             `json:"month"`
		Budgets []budgetDTO     `json:"budgets"`
		Report  budgetReportDTO `json:"report"`
	}

	budgetsInput struct {
		Year    int         `json:"year"`
		Month   int         `json:"month"`
		Budgets []budgetDTO `json:"budgets"`
	}

	settingsDTO struct {
		Theme                    string `json:"theme"`
		MonthlyIncomeTargetCents int64  `json:"monthly_income_target_cents"`
		EmergencyFundGoalCents   int64  `json:"emergency_fund_goal_cents"`
		SavingAuto               bool   `json:"saving_auto"`
		SavingAmountCents        int64  `json:"saving_amount_cents"`
		CurrentSavingsCents      int64  `json:"current_savings_cents"`
	}

	// settingsPatch is a partial update; absent fields stay untouched.
	// Setting saving_auto=true switches to the derived saving amount;
	// providing saving_amount_cents pins a fixed one.
	settingsPatch struct {
		Theme                    *string `json:"theme"`
		MonthlyIncomeTargetCents *int64  `json:"monthly_income_target_cents"`
		EmergencyFundGoalCents   *int64  `json:"emergency_fund_goal_cents"`
		SavingAuto               *bool   `json:"saving_auto"`
		SavingAmountCents        *int64  `json:"saving_amount_cents"`
		CurrentSavingsCents      *int64  `json:"current_savings_cents"`
	}

	dashboardResponse struct {
		Year                int              `json:"year"`
		Month               int              `json:"month"`
		TotalIncomeCents    int64            `json:"total_income_cents"`
		TotalExpensesCents  int64            `json:"total_expenses_cents"`
		NetBalanceCents     int64            `json:"net_balance_cents"`
		ExpensesByCategory  map[string]int64 `json:"expenses_by_category"`
		SavingAmountCents   int64            `json:"saving_amount_cents"`
		CurrentSavingsCents int64            `json:"current_savings_cents"`
		SavingsBalanceCents int64            `json:"savings_balance_cents"`
		Budget              budgetReportDTO  `json:"budget"`
	}
)

func toTransactionDTO(tx core.Transaction) transactionDTO {
	return transactionDTO{
		ID:          tx.ID,
		Date:        tx.Date.Format("2006-01-02"),
		AmountCents: tx.Amount.Cents,
		Type:        string(tx.Type),
		Category:    tx.Category,
		Notes:       tx.Notes,
		Version:     tx.Version,
	}
}

func toCategoryDTO(c core.Category) categoryDTO {
	return categoryDTO{
		ID:       c.ID,
		Name:     c.Name,
		Color:    c.Color,
		Type:     string(c.Type),
		IsSystem: c.IsSystem,
	}
}

func toBudgetReportDTO(r core.BudgetReport) budgetReportDTO {
	dto := budgetReportDTO{
		TotalBudgetCents:     r.TotalBudget.Cents,
		TotalSpentCents:      r.TotalSpent.Cents,
		RemainingBudgetCents: r.RemainingBudget.Cents,
		Progress:             r.Progress,
		Categories:           make([]budgetStatusDTO, 0, len(r.Categories)),
	}
	for _, st := range r.Categories {
		dto.Categories = append(dto.Categories, budgetStatusDTO{
			Category:       st.Category,
			AllocatedCents: st.Allocated.Cents,
			SpentCents:     st.Spent.Cents,
			Over:           st.Over,
		})
	}
	return dto
}

func toSettingsDTO(s core.UserSettings) settingsDTO {
	return settingsDTO{
		Theme:                    s.Theme,
		MonthlyIncomeTargetCents: s.MonthlyIncomeTarget.Cents,
		EmergencyFundGoalCents:   s.EmergencyFundGoal.Cents,
		SavingAuto:               s.SavingTarget.Auto,
		SavingAmountCents:        s.SavingTarget.Amount.Cents,
		CurrentSavingsCents:      s.CurrentSavings.Cents,
	}
}
