package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"lunalog/internal/catalog"
	"lunalog/internal/model"
)

type fakeRepo struct {
	pending  []model.JournalEntry
	listErr  error
	setErr   map[int64]error
	enriched map[int64][2][]string
}

func (f *fakeRepo) EnsureIndexes(context.Context) error { return nil }

func (f *fakeRepo) Create(context.Context, *model.JournalEntry) (int64, error) { return 0, nil }

func (f *fakeRepo) List(context.Context) ([]model.JournalEntry, error) { return nil, nil }

func (f *fakeRepo) ListPending(context.Context) ([]model.JournalEntry, error) {
	return f.pending, f.listErr
}

func (f *fakeRepo) SetEnrichment(_ context.Context, id int64, insights, recommendations []string) error {
	if err := f.setErr[id]; err != nil {
		return err
	}
	if f.enriched == nil {
		f.enriched = map[int64][2][]string{}
	}
	f.enriched[id] = [2][]string{insights, recommendations}
	return nil
}

func answers(values ...int) map[string]int {
	dict := make(map[string]int, len(values))
	for i, v := range values {
		dict[model.QuestionKey(i)] = v
	}
	return dict
}

func defaultCatalog(t *testing.T) *model.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return cat
}

func TestEnrichNamesStrongestAndWeakestQuestions(t *testing.T) {
	cat := defaultCatalog(t)
	// q3 is inverted, so a raw 10 there is the weakest answer
	entry := &model.JournalEntry{MoodScore: 6.5, QuestionDict: answers(9, 5, 10, 6, 6, 6, 6, 6, 6, 6)}

	insights, recommendations := Enrich(entry, cat)
	require.Len(t, insights, 4)
	assert.Contains(t, insights[0], "6.5")
	assert.Contains(t, insights[0], "a good day")
	assert.Equal(t, "Your average rating across all questions was 6.60.", insights[1])
	assert.Equal(t, "Strongest today: "+cat.Questions[0].Prompt, insights[2])
	assert.Equal(t, "Needs care: "+cat.Questions[2].Prompt, insights[3])
	assert.Equal(t, "Give some attention tomorrow to: "+cat.Questions[2].Prompt, recommendations[len(recommendations)-1])
}

func TestEnrichFallsBackWithoutMatchingCatalog(t *testing.T) {
	entry := &model.JournalEntry{MoodScore: 2.0, QuestionDict: answers(2, 2, 2)}

	insights, recommendations := Enrich(entry, defaultCatalog(t))
	assert.Len(t, insights, 2)
	assert.Contains(t, insights[0], "a difficult day")
	assert.Equal(t, "Based on your entries, consider practicing mindfulness and regular exercise.", recommendations[len(recommendations)-1])
}

func TestRecommendPendingUpdatesEachEntry(t *testing.T) {
	repo := &fakeRepo{
		pending: []model.JournalEntry{
			{EntryID: 1, MoodScore: 5.84, QuestionDict: answers(8, 3, 9, 7, 5, 6, 4, 9, 8, 7)},
			{EntryID: 2, MoodScore: 9.2, QuestionDict: answers(10, 9, 1, 9, 9, 9, 9, 9, 9, 9)},
			{EntryID: 3, MoodScore: 1.5},
		},
		setErr: map[int64]error{3: errors.New("write conflict")},
	}
	svc := NewEnrichmentService(repo, defaultCatalog(t), zaptest.NewLogger(t))

	updated, err := svc.RecommendPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, updated)
	require.Contains(t, repo.enriched, int64(1))
	require.Contains(t, repo.enriched, int64(2))
	assert.NotEmpty(t, repo.enriched[1][0])
	assert.NotEmpty(t, repo.enriched[2][1])
}

func TestRecommendPendingListFailure(t *testing.T) {
	repo := &fakeRepo{listErr: errors.New("no reachable servers")}
	svc := NewEnrichmentService(repo, defaultCatalog(t), zaptest.NewLogger(t))

	_, err := svc.RecommendPending(context.Background())
	require.Error(t, err)
}
