package view

import (
	"time"

	"lunalog/internal/model"
)

// OverviewLimit caps the insights and recommendations shown in an overview
const OverviewLimit = 3

// Overview is the post-submit summary of the most recent entry
type Overview struct {
	EntryID         int64
	Date            string
	MoodScore       float64
	Insights        []string
	Recommendations []string
}

// LatestOverview summarizes the entry with the latest entry_date. Entries
// whose date cannot be resolved rank before dated ones; ties go to the later
// entry in the listing. ok is false for an empty listing.
func LatestOverview(entries []model.JournalEntry, loc *time.Location) (overview Overview, ok bool) {
	if loc == nil {
		loc = time.UTC
	}
	latest := -1
	var latestAt time.Time
	for i, e := range entries {
		at, _ := entryTime(e.EntryDate, loc)
		if latest < 0 || !at.Before(latestAt) {
			latest, latestAt = i, at
		}
	}
	if latest < 0 {
		return Overview{}, false
	}

	e := entries[latest]
	return Overview{
		EntryID:         e.EntryID,
		Date:            FormatDate(e.EntryDate, loc),
		MoodScore:       e.MoodScore,
		Insights:        firstN(e.Insights, OverviewLimit),
		Recommendations: firstN(e.Recommendations, OverviewLimit),
	}, true
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		items = items[:n]
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}
