package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"lunalog/internal/model"
)

type memRepo struct {
	entries []model.JournalEntry
	err     error
}

func (m *memRepo) EnsureIndexes(context.Context) error { return nil }

func (m *memRepo) Create(_ context.Context, entry *model.JournalEntry) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	for _, e := range m.entries {
		if entry.SubmissionID != "" && e.SubmissionID == entry.SubmissionID {
			return e.EntryID, nil
		}
	}
	entry.EntryID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, *entry)
	return entry.EntryID, nil
}

func (m *memRepo) List(context.Context) ([]model.JournalEntry, error) {
	return m.entries, m.err
}

func (m *memRepo) ListPending(context.Context) ([]model.JournalEntry, error) {
	return nil, m.err
}

func (m *memRepo) SetEnrichment(context.Context, int64, []string, []string) error {
	return m.err
}

type fakeRecommender struct {
	n   int
	err error
}

func (f *fakeRecommender) RecommendPending(context.Context) (int, error) {
	return f.n, f.err
}

func TestCreateEntryReturnsID(t *testing.T) {
	repo := &memRepo{}
	h := NewStoreHandler(repo, &fakeRecommender{}, zaptest.NewLogger(t))
	body := `{"entry_date":1728561600000,"moodScore":5.84,"questionDict":{"q1":8},"submissionId":"run-1"}`

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.CreateEntry(rec, httptest.NewRequest(http.MethodPost, "/journal", strings.NewReader(body)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"entry_id":1}`, rec.Body.String())
	}
	require.Len(t, repo.entries, 1, "a resent submission is stored once")
	assert.Equal(t, 5.84, repo.entries[0].MoodScore)
}

func TestCreateEntryRejectsBadBody(t *testing.T) {
	h := NewStoreHandler(&memRepo{}, &fakeRecommender{}, zaptest.NewLogger(t))

	for _, body := range []string{`not json`, `{"moodScore":5}`} {
		rec := httptest.NewRecorder()
		h.CreateEntry(rec, httptest.NewRequest(http.MethodPost, "/journal", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestCreateEntryStorageFailure(t *testing.T) {
	h := NewStoreHandler(&memRepo{err: errors.New("no reachable servers")}, &fakeRecommender{}, zaptest.NewLogger(t))

	rec := httptest.NewRecorder()
	h.CreateEntry(rec, httptest.NewRequest(http.MethodPost, "/journal", strings.NewReader(`{"questionDict":{"q1":1}}`)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStoreListEntries(t *testing.T) {
	h := NewStoreHandler(&memRepo{}, &fakeRecommender{}, zaptest.NewLogger(t))

	rec := httptest.NewRecorder()
	h.ListEntries(rec, httptest.NewRequest(http.MethodGet, "/journal/all", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRecommend(t *testing.T) {
	h := NewStoreHandler(&memRepo{}, &fakeRecommender{n: 2}, zaptest.NewLogger(t))

	rec := httptest.NewRecorder()
	h.Recommend(rec, httptest.NewRequest(http.MethodPost, "/recommend", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Recommendations generated for 2 entries"}`, rec.Body.String())

	h = NewStoreHandler(&memRepo{}, &fakeRecommender{err: errors.New("down")}, zaptest.NewLogger(t))
	rec = httptest.NewRecorder()
	h.Recommend(rec, httptest.NewRequest(http.MethodPost, "/recommend", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
