// Package wizard drives one questionnaire run: one question at a time, then a
// single submission of the finished response vector.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lunalog/internal/model"
)

// DefaultSubmitTimeout bounds a submission when no other timeout is configured
const DefaultSubmitTimeout = 15 * time.Second

// NoRatingLabel is shown while no rating is selected
const NoRatingLabel = "No rating"

var (
	ErrNoRatingSelected  = errors.New("wizard: no rating selected")
	ErrRatingOutOfRange  = errors.New("wizard: rating out of range")
	ErrInvalidTransition = errors.New("wizard: invalid transition")
)

// State of a wizard run
type State int

const (
	Presenting State = iota
	Submitting
	Complete
	Failed
)

func (s State) String() string {
	switch s {
	case Presenting:
		return "presenting"
	case Submitting:
		return "submitting"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Submitter sends a finished response vector to the API
type Submitter interface {
	Submit(ctx context.Context, req model.SubmitRequest) error
}

// Option configures a Collector
type Option func(*Collector)

// WithSubmitTimeout overrides DefaultSubmitTimeout
func WithSubmitTimeout(d time.Duration) Option {
	return func(c *Collector) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithIDGenerator replaces the uuid submission ID source
func WithIDGenerator(fn func() string) Option {
	return func(c *Collector) {
		c.newID = fn
	}
}

// Collector is the questionnaire state machine. It is meant to be driven from
// a single event loop and holds no lock; the Submitting state keeps a second
// submission from starting while one is outstanding.
type Collector struct {
	catalog   *model.Catalog
	submitter Submitter
	timeout   time.Duration
	newID     func() string

	state        State
	index        int
	candidate    int // 0 when nothing is selected
	responses    []int
	submissionID string
	pending      *Submission
	lastErr      error
}

// New starts a run at the first question
func New(catalog *model.Catalog, submitter Submitter, opts ...Option) (*Collector, error) {
	if catalog == nil || catalog.Len() == 0 {
		return nil, errors.New("wizard: catalog has no questions")
	}
	if submitter == nil {
		return nil, errors.New("wizard: submitter is required")
	}
	c := &Collector{
		catalog:   catalog,
		submitter: submitter,
		timeout:   DefaultSubmitTimeout,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.start()
	return c, nil
}

func (c *Collector) start() {
	c.state = Presenting
	c.index = 0
	c.candidate = 0
	c.responses = make([]int, 0, c.catalog.Len())
	c.submissionID = c.newID()
	c.pending = nil
	c.lastErr = nil
}

// SelectRating records the candidate rating for the current question
func (c *Collector) SelectRating(v int) error {
	if c.state != Presenting {
		return fmt.Errorf("%w: select rating while %s", ErrInvalidTransition, c.state)
	}
	if v < model.RatingMin || v > model.RatingMax {
		return fmt.Errorf("%w: %d", ErrRatingOutOfRange, v)
	}
	c.candidate = v
	return nil
}

// Advance commits the candidate. After the last question the run enters
// Submitting and the returned Submission must be run and resolved. While
// Submitting, Advance does nothing.
func (c *Collector) Advance() (*Submission, error) {
	switch c.state {
	case Presenting:
	case Submitting:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: advance while %s", ErrInvalidTransition, c.state)
	}
	if c.candidate == 0 {
		return nil, ErrNoRatingSelected
	}

	c.responses = append(c.responses, c.candidate)
	if c.index < c.catalog.Len()-1 {
		c.index++
		c.candidate = 0
		return nil, nil
	}
	return c.beginSubmission(), nil
}

// Retry re-enters Submitting with the retained responses and submission ID
func (c *Collector) Retry() (*Submission, error) {
	if c.state != Failed {
		return nil, fmt.Errorf("%w: retry while %s", ErrInvalidTransition, c.state)
	}
	return c.beginSubmission(), nil
}

func (c *Collector) beginSubmission() *Submission {
	values := make([]int, len(c.responses))
	copy(values, c.responses)
	c.state = Submitting
	c.lastErr = nil
	c.pending = &Submission{
		Request: model.SubmitRequest{
			QuestionValues: values,
			SubmissionID:   c.submissionID,
		},
		submitter: c.submitter,
		timeout:   c.timeout,
	}
	return c.pending
}

// Resolve applies the outcome of the outstanding submission
func (c *Collector) Resolve(sub *Submission, err error) error {
	if c.state != Submitting || sub == nil || sub != c.pending {
		return fmt.Errorf("%w: resolve while %s", ErrInvalidTransition, c.state)
	}
	c.pending = nil
	if err != nil {
		c.state = Failed
		c.lastErr = err
		return nil
	}
	c.state = Complete
	return nil
}

// Submit runs sub and resolves it. The returned error is the submission's.
func (c *Collector) Submit(ctx context.Context, sub *Submission) error {
	runErr := sub.Run(ctx)
	if err := c.Resolve(sub, runErr); err != nil {
		return err
	}
	return runErr
}

// Reset starts a new run with a fresh submission ID
func (c *Collector) Reset() error {
	if c.state != Complete && c.state != Failed {
		return fmt.Errorf("%w: reset while %s", ErrInvalidTransition, c.state)
	}
	c.start()
	return nil
}

func (c *Collector) State() State         { return c.state }
func (c *Collector) Index() int           { return c.index }
func (c *Collector) Len() int             { return c.catalog.Len() }
func (c *Collector) SubmissionID() string { return c.submissionID }

// Err is the failure of the last submission, nil unless Failed
func (c *Collector) Err() error { return c.lastErr }

// Question is the question currently presented, or the last one once the
// run is past Presenting
func (c *Collector) Question() model.Question {
	return c.catalog.Questions[c.index]
}

// Candidate returns the selected rating, if any
func (c *Collector) Candidate() (int, bool) {
	return c.candidate, c.candidate != 0
}

// CandidateLabel is the scale label of the candidate, or NoRatingLabel
func (c *Collector) CandidateLabel() string {
	if c.candidate == 0 {
		return NoRatingLabel
	}
	if label := c.Question().Label(c.candidate); label != "" {
		return label
	}
	return fmt.Sprintf("%d", c.candidate)
}

// Progress renders "Question i of N"
func (c *Collector) Progress() string {
	return fmt.Sprintf("Question %d of %d", c.index+1, c.catalog.Len())
}

// Responses returns a copy of the committed ratings
func (c *Collector) Responses() []int {
	out := make([]int, len(c.responses))
	copy(out, c.responses)
	return out
}

// Submission is one outstanding hand-off of the response vector. It owns a
// copy of the vector, so running it off the event loop is safe.
type Submission struct {
	Request   model.SubmitRequest
	submitter Submitter
	timeout   time.Duration
}

// Run performs the call, bounded by the collector's submit timeout
func (s *Submission) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.submitter.Submit(ctx, s.Request)
	}()

	select {
	case err := <-done:
		if err != nil && ctx.Err() != nil {
			return interrupted(ctx)
		}
		return err
	case <-ctx.Done():
		return interrupted(ctx)
	}
}

func interrupted(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("wizard: submission timed out: %w", ctx.Err())
	}
	return fmt.Errorf("wizard: submission cancelled: %w", ctx.Err())
}
