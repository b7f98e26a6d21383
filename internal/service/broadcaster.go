package service

import "time"

// Event types pushed to live subscribers
const (
	EventEntrySubmitted   = "entry_submitted"
	EventEnrichmentFailed = "enrichment_failed"
)

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	Broadcast(eventType string, payload interface{})
}

// EntrySubmittedEvent is sent once an entry is stored
type EntrySubmittedEvent struct {
	SubmissionID string    `json:"submissionId,omitempty"`
	EntryID      int64     `json:"entryId,omitempty"`
	MoodScore    float64   `json:"moodScore"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// EnrichmentFailedEvent is sent when the recommend trigger fails
type EnrichmentFailedEvent struct {
	SubmissionID string `json:"submissionId,omitempty"`
	Reason       string `json:"reason"`
}
