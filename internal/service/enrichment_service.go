package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"lunalog/internal/model"
	"lunalog/internal/repository"
)

// EnrichmentService generates insights and recommendations for stored entries
// that have none yet. It backs the reference store's POST /recommend.
type EnrichmentService struct {
	repo    repository.EntryRepo
	catalog *model.Catalog
	logger  *zap.Logger
}

// NewEnrichmentService creates a new enrichment service
func NewEnrichmentService(repo repository.EntryRepo, catalog *model.Catalog, logger *zap.Logger) *EnrichmentService {
	return &EnrichmentService{
		repo:    repo,
		catalog: catalog,
		logger:  logger.Named("enrichment"),
	}
}

// RecommendPending enriches every pending entry and returns how many were updated
func (s *EnrichmentService) RecommendPending(ctx context.Context) (int, error) {
	pending, err := s.repo.ListPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pending entries: %w", err)
	}

	updated := 0
	for i := range pending {
		entry := &pending[i]
		insights, recommendations := Enrich(entry, s.catalog)
		if err := s.repo.SetEnrichment(ctx, entry.EntryID, insights, recommendations); err != nil {
			s.logger.Error("failed to save enrichment", zap.Int64("entry_id", entry.EntryID), zap.Error(err))
			continue
		}
		updated++
	}

	s.logger.Info("enriched pending entries", zap.Int("pending", len(pending)), zap.Int("updated", updated))
	return updated, nil
}

var bandSummary = map[model.MoodBand]string{
	model.MoodLow:      "a difficult day",
	model.MoodModerate: "a mixed day",
	model.MoodGood:     "a good day",
	model.MoodGreat:    "a great day",
}

var bandRecommendation = map[model.MoodBand]string{
	model.MoodLow:      "Consider reaching out to someone you trust and keeping tonight low-key.",
	model.MoodModerate: "A short walk or a few minutes of deep breathing could help lift your energy.",
	model.MoodGood:     "Note what went well today so you can repeat it tomorrow.",
	model.MoodGreat:    "Keep doing what worked today and share the good energy with someone.",
}

// Enrich derives insights and recommendations from an entry's answers. The
// catalog supplies prompts and inversions; without a matching catalog only
// score-level insights are produced.
func Enrich(entry *model.JournalEntry, catalog *model.Catalog) (insights, recommendations []string) {
	band := model.BandFor(entry.MoodScore)
	insights = append(insights, fmt.Sprintf("Your mood score is %.1f out of 10, %s.", entry.MoodScore, bandSummary[band]))

	responses := entry.Responses()
	if len(responses) > 0 {
		sum := 0
		for _, v := range responses {
			sum += v
		}
		insights = append(insights, fmt.Sprintf("Your average rating across all questions was %.2f.", float64(sum)/float64(len(responses))))
	}

	recommendations = append(recommendations, bandRecommendation[band])

	if catalog == nil || catalog.Len() != len(responses) {
		recommendations = append(recommendations, "Based on your entries, consider practicing mindfulness and regular exercise.")
		return insights, recommendations
	}

	// effective ratings put every question on the "higher is better" side
	best, worst := 0, 0
	effective := make([]int, len(responses))
	for i, v := range responses {
		if catalog.Questions[i].Inverted {
			v = model.RatingMax + model.RatingMin - v
		}
		effective[i] = v
		if v > effective[best] {
			best = i
		}
		if v < effective[worst] {
			worst = i
		}
	}

	if effective[best] != effective[worst] {
		insights = append(insights,
			fmt.Sprintf("Strongest today: %s", catalog.Questions[best].Prompt),
			fmt.Sprintf("Needs care: %s", catalog.Questions[worst].Prompt),
		)
		recommendations = append(recommendations,
			fmt.Sprintf("Give some attention tomorrow to: %s", catalog.Questions[worst].Prompt))
	} else {
		recommendations = append(recommendations, "Based on your entries, consider practicing mindfulness and regular exercise.")
	}
	return insights, recommendations
}
