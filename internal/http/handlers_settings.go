package http

import (
	"log/slog"
	"net/http"

	"ledgerly/internal/core"
	applog "ledgerly/internal/log"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.backend.FetchSettings(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Fetch settings failed", applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	respondJSON(w, http.StatusOK, toSettingsDTO(settings))
}

// handlePatchSettings applies a partial update. saving_auto=true switches
// to the derived saving amount; a provided saving_amount_cents pins a
// fixed one, zero included.
func (s *Server) handlePatchSettings(w http.ResponseWriter, r *http.Request) {
	var patch settingsPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	settings, err := s.backend.FetchSettings(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Fetch settings failed", applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}

	if patch.Theme != nil {
		settings.Theme = sanitizeInput(*patch.Theme)
	}
	if patch.MonthlyIncomeTargetCents != nil {
		settings.MonthlyIncomeTarget = core.Money{Cents: *patch.MonthlyIncomeTargetCents}
	}
	if patch.EmergencyFundGoalCents != nil {
		settings.EmergencyFundGoal = core.Money{Cents: *patch.EmergencyFundGoalCents}
	}
	if patch.CurrentSavingsCents != nil {
		settings.CurrentSavings = core.Money{Cents: *patch.CurrentSavingsCents}
	}
	switch {
	case patch.SavingAuto != nil && *patch.SavingAuto:
		settings.SavingTarget = core.AutoSavingTarget()
	case patch.SavingAmountCents != nil:
		settings.SavingTarget = core.FixedSavingTarget(core.Money{Cents: *patch.SavingAmountCents})
	}

	if err := s.backend.SaveSettings(r.Context(), settings); err != nil {
		slog.ErrorContext(r.Context(), "Save settings failed", applog.FieldError, err)
		respondStoreError(w, err)
		return
	}

	s.invalidateMonthViews()
	respondJSON(w, http.StatusOK, toSettingsDTO(settings))
}
