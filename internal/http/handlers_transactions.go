package http

import (
	"log/slog"
	"net/http"

	"ledgerly/internal/core"
	applog "ledgerly/internal/log"
)

// handleListTransactions returns the month's entries grouped by day,
// newest day first.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := monthKey(year, month)
	if cached, ok := s.listCache.Get(key); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	txs, err := s.backend.ListTransactions(r.Context(), year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed",
			applog.FieldYear, year,
			applog.FieldMonth, month,
			applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	resp := transactionListResponse{
		Year:  year,
		Month: month,
		Days:  make([]dayGroupDTO, 0),
	}
	for _, group := range core.GroupByDay(txs) {
		dto := dayGroupDTO{
			Date:         group.Date.Format("2006-01-02"),
			TotalCents:   group.Total.Cents,
			Transactions: make([]transactionDTO, 0, len(group.Transactions)),
		}
		for _, tx := range group.Transactions {
			dto.Transactions = append(dto.Transactions, toTransactionDTO(tx))
		}
		resp.Days = append(resp.Days, dto)
	}

	s.listCache.Set(key, resp)
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in transactionInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := transactionFromInput("", in)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.writer.CreateTransaction(r.Context(), tx)
	if err != nil {
		if isValidationError(err) {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Create transaction failed", applog.FieldError, err)
		respondStoreError(w, err)
		return
	}

	s.invalidateMonthViews()
	respondJSON(w, http.StatusCreated, toTransactionDTO(created))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "missing transaction id")
		return
	}

	var in transactionInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := transactionFromInput(id, in)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := s.writer.UpdateTransaction(r.Context(), tx)
	if err != nil {
		if isValidationError(err) {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Update transaction failed",
			applog.FieldTransactionID, id,
			applog.FieldError, err)
		respondStoreError(w, err)
		return
	}

	s.invalidateMonthViews()
	respondJSON(w, http.StatusOK, toTransactionDTO(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "missing transaction id")
		return
	}

	if err := s.writer.DeleteTransaction(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete transaction failed",
			applog.FieldTransactionID, id,
			applog.FieldError, err)
		respondStoreError(w, err)
		return
	}

	s.invalidateMonthViews()
	w.WriteHeader(http.StatusNoContent)
}

func transactionFromInput(id string, in transactionInput) (core.Transaction, error) {
	date, err := parseDate(in.Date)
	if err != nil {
		return core.Transaction{}, core.ErrInvalidDate
	}
	cents := in.AmountCents
	if in.Amount != "" {
		cents, err = core.ParseDecimalToCents(in.Amount)
		if err != nil {
			return core.Transaction{}, err
		}
	}
	return core.Transaction{
		ID:       id,
		Date:     date,
		Amount:   core.Money{Cents: cents},
		Type:     core.TransactionType(in.Type),
		Category: sanitizeInput(in.Category),
		Notes:    sanitizeInput(in.Notes),
	}, nil
}
