package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"lunalog/internal/cache"
	"lunalog/internal/model"
	"lunalog/internal/scoring"
)

// AckMessage is the body message of an accepted submission
const AckMessage = "submitted successfully"

// SubmissionService scores a finished questionnaire, persists it and
// triggers enrichment. Persistence failure fails the submission; enrichment
// failure is logged and the submission still succeeds.
type SubmissionService struct {
	engine      *scoring.Engine
	store       EntryStore
	enricher    EnrichmentTrigger
	guard       cache.SubmissionCache
	broadcaster Broadcaster
	metrics     *Metrics
	logger      *zap.Logger
	now         func() time.Time
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(engine *scoring.Engine, store EntryStore, enricher EnrichmentTrigger, metrics *Metrics, logger *zap.Logger) *SubmissionService {
	return &SubmissionService{
		engine:   engine,
		store:    store,
		enricher: enricher,
		metrics:  metrics,
		logger:   logger.Named("submission"),
		now:      time.Now,
	}
}

// SetSubmissionCache enables submission ID dedup
func (s *SubmissionService) SetSubmissionCache(guard cache.SubmissionCache) {
	s.guard = guard
}

// SetBroadcaster sets the live event broadcaster
func (s *SubmissionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Submit runs the pipeline: validate, score, persist, enrich.
func (s *SubmissionService) Submit(ctx context.Context, req *model.SubmitRequest) (*model.Ack, error) {
	log := s.logger.With(zap.String("submission_id", req.SubmissionID))

	// 1. validate before any I/O
	if err := scoring.ValidateResponses(req.QuestionValues, s.engine.Len()); err != nil {
		s.metrics.submission(ResultInvalid)
		log.Info("rejected submission", zap.Error(err))
		return nil, err
	}

	// 2. score
	moodScore, err := s.engine.Score(req.QuestionValues)
	if err != nil {
		s.metrics.submission(ResultInvalid)
		return nil, err
	}

	// 3. provisional entry
	entry := s.buildEntry(req, moodScore)

	claimed := false
	if s.guard != nil && req.SubmissionID != "" {
		res, err := s.guard.Claim(ctx, req.SubmissionID)
		switch {
		case err != nil:
			log.Warn("submission guard unavailable, continuing without dedup", zap.Error(err))
		case res == cache.ClaimStored:
			s.metrics.submission(ResultDuplicate)
			log.Info("submission already stored, skipping persist")
			return &model.Ack{Message: AckMessage}, nil
		case res == cache.ClaimPending:
			s.metrics.submission(ResultInFlight)
			log.Info("submission still in flight")
			return nil, fmt.Errorf("%w: %s", model.ErrSubmissionInFlight, req.SubmissionID)
		default:
			claimed = true
		}
	}

	// 4. persist; failure aborts the submission
	if err := s.store.Persist(ctx, entry); err != nil {
		s.metrics.submission(ResultStoreUnavailable)
		log.Error("failed to persist entry", zap.Error(err))
		if claimed {
			if relErr := s.guard.Release(context.WithoutCancel(ctx), req.SubmissionID); relErr != nil {
				log.Warn("failed to release submission claim", zap.Error(relErr))
			}
		}
		return nil, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	if claimed {
		if err := s.guard.MarkStored(context.WithoutCancel(ctx), req.SubmissionID); err != nil {
			log.Warn("failed to mark submission stored", zap.Error(err))
		}
	}

	log.Info("entry stored",
		zap.Int64("entry_id", entry.EntryID),
		zap.Float64("mood_score", moodScore),
	)
	s.broadcast(EventEntrySubmitted, EntrySubmittedEvent{
		SubmissionID: entry.SubmissionID,
		EntryID:      entry.EntryID,
		MoodScore:    entry.MoodScore,
		SubmittedAt:  time.UnixMilli(entry.EntryDate.Epoch),
	})

	// 5. enrichment is best effort
	if err := s.enricher.Trigger(ctx); err != nil {
		s.metrics.enrichmentFailed()
		log.Warn("enrichment trigger failed, entry kept", zap.Error(fmt.Errorf("%w: %v", model.ErrEnrichmentUnavailable, err)))
		s.broadcast(EventEnrichmentFailed, EnrichmentFailedEvent{
			SubmissionID: entry.SubmissionID,
			Reason:       err.Error(),
		})
	}

	// 6. ack
	s.metrics.submission(ResultOK)
	return &model.Ack{Message: AckMessage}, nil
}

func (s *SubmissionService) buildEntry(req *model.SubmitRequest, moodScore float64) *model.JournalEntry {
	questionDict := make(map[string]int, len(req.QuestionValues))
	for i, v := range req.QuestionValues {
		questionDict[model.QuestionKey(i)] = v
	}
	return &model.JournalEntry{
		EntryDate:    model.NewEntryDate(s.now()),
		MoodScore:    moodScore,
		QuestionDict: questionDict,
		SubmissionID: req.SubmissionID,
	}
}

func (s *SubmissionService) broadcast(eventType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(eventType, payload)
	}
}
