package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"lunalog/internal/model"
)

// DegradedHeader marks a listing served empty because the store was unreachable
const DegradedHeader = "X-Lunalog-Degraded"

// ServerErrorMessage is the only failure body clients ever see
const ServerErrorMessage = "Server error"

// Submitter runs a submission through the pipeline
type Submitter interface {
	Submit(ctx context.Context, req *model.SubmitRequest) (*model.Ack, error)
}

// EntryLister lists journal entries
type EntryLister interface {
	List(ctx context.Context) model.EntryListing
}

// JournalHandler handles the client-facing journal endpoints
type JournalHandler struct {
	submitter Submitter
	lister    EntryLister
	catalog   *model.Catalog
	logger    *zap.Logger
}

// NewJournalHandler creates a new journal handler
func NewJournalHandler(submitter Submitter, lister EntryLister, catalog *model.Catalog, logger *zap.Logger) *JournalHandler {
	return &JournalHandler{
		submitter: submitter,
		lister:    lister,
		catalog:   catalog,
		logger:    logger.Named("journal_handler"),
	}
}

// Submit handles POST /submit
func (h *JournalHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Info("invalid submit body", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, ServerErrorMessage)
		return
	}

	ack, err := h.submitter.Submit(r.Context(), &req)
	if err != nil {
		// cause is logged by the pipeline; the wire stays generic
		writeMessage(w, http.StatusInternalServerError, ServerErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, ack)
}

// ListEntries handles GET /journalEntries
func (h *JournalHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	listing := h.lister.List(r.Context())
	entries := listing.Entries
	if entries == nil {
		entries = []model.JournalEntry{}
	}
	if listing.Degraded {
		w.Header().Set(DegradedHeader, "true")
	}
	writeJSON(w, http.StatusOK, entries)
}

// Catalog handles GET /catalog
func (h *JournalHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog)
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
