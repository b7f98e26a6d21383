// Package view maps stored journal entries to display cards.
package view

import (
	"fmt"
	"math"
	"time"

	"lunalog/internal/model"
)

// DateLayout is how card dates are shown
const DateLayout = "Jan 2, 2006"

// SummaryPlaceholder is shown for entries that have no insights yet
const SummaryPlaceholder = "A brief summary of this entry."

// epochMillisFloor separates epoch seconds from epoch milliseconds
const epochMillisFloor = 1e12

// textLayouts are the textual date forms a store is known to echo
var textLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

// Card is the display form of one entry
type Card struct {
	EntryID   int64
	Title     string
	Summary   string
	Date      string
	MoodScore float64 // unrounded
	Badge     int
	Band      model.MoodBand
}

// FromEntry builds the card for entry with dates rendered in loc (UTC when nil).
// It reads entry only.
func FromEntry(entry model.JournalEntry, loc *time.Location) Card {
	summary := SummaryPlaceholder
	if len(entry.Insights) > 0 && entry.Insights[0] != "" {
		summary = entry.Insights[0]
	}
	badge := int(math.Round(entry.MoodScore))
	return Card{
		EntryID:   entry.EntryID,
		Title:     fmt.Sprintf("Journal Entry #%d", entry.EntryID),
		Summary:   summary,
		Date:      FormatDate(entry.EntryDate, loc),
		MoodScore: entry.MoodScore,
		Badge:     badge,
		Band:      model.BandFor(float64(badge)), // colored by the badge shown
	}
}

// FromEntries maps a listing in order
func FromEntries(entries []model.JournalEntry, loc *time.Location) []Card {
	cards := make([]Card, len(entries))
	for i, e := range entries {
		cards[i] = FromEntry(e, loc)
	}
	return cards
}

// FormatDate renders an entry date. Numbers below 1e12 are epoch seconds,
// larger ones epoch milliseconds. Unparseable text is returned as is.
func FormatDate(d model.EntryDate, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	if d.IsZero() {
		return ""
	}
	if t, ok := entryTime(d, loc); ok {
		return t.Format(DateLayout)
	}
	return d.Text
}

// entryTime resolves an entry date to an instant in loc
func entryTime(d model.EntryDate, loc *time.Location) (time.Time, bool) {
	if d.IsZero() {
		return time.Time{}, false
	}
	if d.Text == "" {
		ms := d.Epoch
		if math.Abs(float64(ms)) < epochMillisFloor {
			ms *= 1000
		}
		return time.UnixMilli(ms).In(loc), true
	}
	for _, layout := range textLayouts {
		if t, err := time.ParseInLocation(layout, d.Text, loc); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}
