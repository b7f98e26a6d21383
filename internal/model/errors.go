package model

import "errors"

// Failure taxonomy shared by the scoring engine, the submission pipeline and
// the entry listing. Callers match with errors.Is.
var (
	// ErrInvalidInput is returned for a malformed or out-of-range response
	// vector. It is raised before any I/O happens.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreUnavailable means the entry could not be persisted. Nothing is
	// considered recorded.
	ErrStoreUnavailable = errors.New("entry store unavailable")

	// ErrEnrichmentUnavailable is logged when the recommend trigger fails. It
	// never reaches a client.
	ErrEnrichmentUnavailable = errors.New("enrichment unavailable")

	// ErrRetrievalDegraded marks a listing that came back empty because the
	// store could not be read.
	ErrRetrievalDegraded = errors.New("entry retrieval degraded")

	// ErrSubmissionInFlight is returned when a submission with the same ID is
	// still being processed.
	ErrSubmissionInFlight = errors.New("submission already in flight")
)
