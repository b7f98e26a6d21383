package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lunalog/internal/catalog"
	"lunalog/internal/scoring"
)

func TestSamplesScoreOnCurrentCatalog(t *testing.T) {
	questions, err := catalog.Default()
	require.NoError(t, err)
	engine, err := scoring.NewEngineFromCatalog(questions)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, s := range samples {
		entry, err := toEntry(s, engine)
		require.NoError(t, err, s.Date)
		assert.GreaterOrEqual(t, entry.MoodScore, 1.0)
		assert.LessOrEqual(t, entry.MoodScore, 10.0)
		assert.Len(t, entry.QuestionDict, 10)
		assert.Equal(t, s.Date, entry.EntryDate.Text)
		assert.False(t, seen[entry.SubmissionID], "submission ids must be unique")
		seen[entry.SubmissionID] = true
	}
}

func TestToEntryRescalesRatings(t *testing.T) {
	questions, err := catalog.Default()
	require.NoError(t, err)
	engine, err := scoring.NewEngineFromCatalog(questions)
	require.NoError(t, err)

	entry, err := toEntry(samples[4], engine)
	require.NoError(t, err)
	for _, v := range entry.QuestionDict {
		assert.Equal(t, 6, v)
	}
	// all 6 except inverted q3 -> 5: (25*6 - 4*6 + 4*5) / 25
	assert.InDelta(t, 5.84, entry.MoodScore, 1e-9)
}
