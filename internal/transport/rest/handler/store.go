package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"lunalog/internal/model"
	"lunalog/internal/repository"
)

// Recommender enriches stored entries that have no insights yet
type Recommender interface {
	RecommendPending(ctx context.Context) (int, error)
}

// StoreHandler serves the journal store contract backed by MongoDB
type StoreHandler struct {
	repo        repository.EntryRepo
	recommender Recommender
	logger      *zap.Logger
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(repo repository.EntryRepo, recommender Recommender, logger *zap.Logger) *StoreHandler {
	return &StoreHandler{
		repo:        repo,
		recommender: recommender,
		logger:      logger.Named("store_handler"),
	}
}

// CreateEntryResponse is the answer to POST /journal
type CreateEntryResponse struct {
	Success bool  `json:"success"`
	EntryID int64 `json:"entry_id"`
}

// CreateEntry handles POST /journal
func (h *StoreHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var entry model.JournalEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(entry.QuestionDict) == 0 {
		writeError(w, http.StatusBadRequest, "questionDict is required")
		return
	}

	id, err := h.repo.Create(r.Context(), &entry)
	if err != nil {
		h.logger.Error("failed to create entry", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store entry")
		return
	}

	writeJSON(w, http.StatusOK, CreateEntryResponse{Success: true, EntryID: id})
}

// ListEntries handles GET /journal/all
func (h *StoreHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list entries", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list entries")
		return
	}
	if entries == nil {
		entries = []model.JournalEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Recommend handles POST /recommend
func (h *StoreHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	n, err := h.recommender.RecommendPending(r.Context())
	if err != nil {
		h.logger.Error("failed to generate recommendations", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to generate recommendations")
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("Recommendations generated for %d entries", n))
}
