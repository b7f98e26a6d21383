package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"lunalog/internal/model"
)

// EntryService lists persisted entries for client-side display
type EntryService struct {
	store   EntryStore
	metrics *Metrics
	logger  *zap.Logger
}

// NewEntryService creates a new entry service
func NewEntryService(store EntryStore, metrics *Metrics, logger *zap.Logger) *EntryService {
	return &EntryService{
		store:   store,
		metrics: metrics,
		logger:  logger.Named("entries"),
	}
}

// List returns all entries verbatim. A store failure yields an empty,
// degraded listing instead of an error so clients keep working; the cause is
// logged and counted so operators can tell it apart from "no entries yet".
func (s *EntryService) List(ctx context.Context) model.EntryListing {
	entries, err := s.store.FetchAll(ctx)
	if err != nil {
		s.metrics.retrieval(ResultDegraded)
		err = fmt.Errorf("%w: %v", model.ErrRetrievalDegraded, err)
		s.logger.Error("serving empty entry list", zap.Error(err))
		return model.EntryListing{
			Entries:  []model.JournalEntry{},
			Degraded: true,
			Err:      err,
		}
	}

	s.metrics.retrieval(ResultOK)
	if entries == nil {
		entries = []model.JournalEntry{}
	}
	return model.EntryListing{Entries: entries}
}
