package http

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"

	"ledgerly/internal/core"
	applog "ledgerly/internal/log"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.backend.ListCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List categories failed", applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	out := make([]categoryDTO, 0, len(cats))
	for _, c := range cats {
		out = append(out, toCategoryDTO(c))
	}
	respondJSON(w, http.StatusOK, out)
}

// handleCategoryGroups returns the categories of one transaction type
// partitioned into display groups by keyword matching. Every group of the
// table appears in the response, possibly empty.
func (s *Server) handleCategoryGroups(w http.ResponseWriter, r *http.Request) {
	txType := core.TransactionType(r.URL.Query().Get("type"))
	if txType == "" {
		txType = core.Expense
	}
	if !txType.IsValid() {
		respondError(w, http.StatusBadRequest, "type must be income or expense")
		return
	}

	cats, err := s.backend.ListCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List categories failed", applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	typed := make([]core.Category, 0, len(cats))
	for _, c := range cats {
		if c.Type == txType {
			typed = append(typed, c)
		}
	}

	buckets := core.GroupCategories(typed, core.GroupTableFor(txType))
	out := make([]groupBucketDTO, 0, len(buckets))
	for _, b := range buckets {
		dto := groupBucketDTO{
			Key:        b.Group.Key,
			Title:      b.Group.Title,
			Color:      b.Group.Color,
			Categories: make([]categoryDTO, 0, len(b.Categories)),
		}
		for _, c := range b.Categories {
			dto.Categories = append(dto.Categories, toCategoryDTO(c))
		}
		out = append(out, dto)
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cat := categoryFromInput(newCategoryID(), in)
	if err := cat.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.backend.CreateCategory(r.Context(), cat); err != nil {
		slog.ErrorContext(r.Context(), "Create category failed",
			applog.FieldCategory, cat.Name,
			applog.FieldError, err)
		respondStoreError(w, err)
		return
	}

	s.invalidateMonthViews()
	respondJSON(w, http.StatusCreated, toCategoryDTO(cat))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "missing category id")
		return
	}

	var in categoryInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cat := categoryFromInput(id, in)
	if err := cat.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.backend.UpdateCategory(r.Context(), cat); err != nil {
		slog.ErrorContext(r.Context(), "Update category failed", "category_id", id, applog.FieldError, err)
		respondStoreError(w, err)
		return
	}

	s.invalidateMonthViews()
	respondJSON(w, http.StatusOK, toCategoryDTO(cat))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "missing category name")
		return
	}
	txType := core.TransactionType(r.URL.Query().Get("type"))
	if !txType.IsValid() {
		respondError(w, http.StatusBadRequest, "type must be income or expense")
		return
	}

	if err := s.backend.DeleteCategory(r.Context(), name, txType); err != nil {
		slog.ErrorContext(r.Context(), "Delete category failed",
			applog.FieldCategory, name,
			applog.FieldTxType, txType,
			applog.FieldError, err)
		respondStoreError(w, err)
		return
	}

	s.invalidateMonthViews()
	w.WriteHeader(http.StatusNoContent)
}

func categoryFromInput(id string, in categoryInput) core.Category {
	return core.Category{
		ID:    id,
		Name:  sanitizeInput(in.Name),
		Color: sanitizeInput(in.Color),
		Type:  core.TransactionType(in.Type),
	}
}

func newCategoryID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		panic("category id generation: " + err.Error())
	}
	return "cat-" + hex.EncodeToString(bytes)
}
