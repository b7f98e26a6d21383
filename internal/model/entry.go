package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// JournalEntry is one persisted questionnaire with its score and enrichment
type JournalEntry struct {
	EntryID         int64          `json:"entry_id,omitempty" bson:"entry_id"`
	EntryDate       EntryDate      `json:"entry_date" bson:"entry_date"`
	MoodScore       float64        `json:"moodScore" bson:"moodScore"`
	QuestionDict    map[string]int `json:"questionDict" bson:"questionDict"`
	Insights        []string       `json:"insights" bson:"insights,omitempty"`
	Recommendations []string       `json:"recommendations" bson:"recommendations,omitempty"`
	SubmissionID    string         `json:"submissionId,omitempty" bson:"submissionId,omitempty"`
}

// MarshalJSON always emits insights and recommendations, as [] when the entry
// has not been enriched yet.
func (e JournalEntry) MarshalJSON() ([]byte, error) {
	type wire JournalEntry
	out := wire(e)
	if out.Insights == nil {
		out.Insights = []string{}
	}
	if out.Recommendations == nil {
		out.Recommendations = []string{}
	}
	return json.Marshal(out)
}

// Responses rebuilds the ordered rating vector from the questionDict.
// Missing keys stop the vector at the first gap.
func (e *JournalEntry) Responses() []int {
	var out []int
	for i := 0; ; i++ {
		v, ok := e.QuestionDict[QuestionKey(i)]
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

// SubmitRequest is the body of POST /submit
type SubmitRequest struct {
	QuestionValues []int  `json:"questionValues"`
	SubmissionID   string `json:"submissionId,omitempty"` // client generated, one per wizard run
}

// Ack is returned for an accepted submission
type Ack struct {
	Message string `json:"message"`
}

// EntryListing is the typed result of listing entries. Degraded is set when the
// store could not be read; Entries is then empty and Err carries the cause.
type EntryListing struct {
	Entries  []JournalEntry
	Degraded bool
	Err      error
}

// EntryDate is the submission instant as carried on the wire. The server sends
// epoch milliseconds; a store may echo epoch seconds or a date string instead,
// and the value is re-emitted in the form it was read.
type EntryDate struct {
	Epoch int64  `bson:"epoch,omitempty"` // numeric form, seconds or milliseconds
	Text  string `bson:"text,omitempty"`  // non-numeric form, e.g. "2024-10-10"
}

// NewEntryDate returns the epoch-millisecond form of t.
func NewEntryDate(t time.Time) EntryDate {
	return EntryDate{Epoch: t.UnixMilli()}
}

// IsZero reports whether no date was carried.
func (d EntryDate) IsZero() bool {
	return d.Epoch == 0 && d.Text == ""
}

// MarshalJSON emits a number, or the original string for textual dates.
func (d EntryDate) MarshalJSON() ([]byte, error) {
	if d.Text != "" {
		return json.Marshal(d.Text)
	}
	return []byte(strconv.FormatInt(d.Epoch, 10)), nil
}

// UnmarshalJSON accepts numbers, numeric strings and date strings.
func (d *EntryDate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = EntryDate{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = ParseEntryDate(s)
		return nil
	}

	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("entry_date: unsupported value %s", data)
	}
	*d = EntryDate{Epoch: int64(f)}
	return nil
}

// ParseEntryDate classifies a textual date as numeric or free-form.
func ParseEntryDate(s string) EntryDate {
	s = strings.TrimSpace(s)
	if s == "" {
		return EntryDate{}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return EntryDate{Epoch: int64(f)}
	}
	return EntryDate{Text: s}
}
