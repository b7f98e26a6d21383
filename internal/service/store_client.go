package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"

	"lunalog/internal/config"
	"lunalog/internal/model"
)

// EntryStore persists and lists journal entries
type EntryStore interface {
	Persist(ctx context.Context, entry *model.JournalEntry) error
	FetchAll(ctx context.Context) ([]model.JournalEntry, error)
}

// EnrichmentTrigger asks the store to generate insights and recommendations
type EnrichmentTrigger interface {
	Trigger(ctx context.Context) error
}

// StoreClient wraps the journal store HTTP API
type StoreClient struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	metrics    *Metrics
	logger     *zap.Logger
}

// NewStoreClient creates a client for cfg.StoreBaseURL
func NewStoreClient(cfg *config.Config, metrics *Metrics, logger *zap.Logger) *StoreClient {
	return &StoreClient{
		baseURL: cfg.StoreBaseURL,
		httpClient: &http.Client{
			Timeout: cfg.StoreTimeout,
		},
		maxRetries: cfg.StoreMaxAttempts,
		backoff:    cfg.StoreRetryBackoff,
		metrics:    metrics,
		logger:     logger.Named("store_client"),
	}
}

// StatusError is a non-2xx answer from the store
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("store returned %d: %s", e.Status, e.Body)
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// doRequest performs an HTTP request, retrying transport errors, 429 and 5xx
// up to attempts times with exponential backoff.
func (c *StoreClient) doRequest(ctx context.Context, method, path string, payload []byte, attempts int) ([]byte, error) {
	url := c.baseURL + path
	log := c.logger.With(zap.String("method", method), zap.String("path", path))
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			wait := time.Duration(math.Pow(2, float64(attempt-1))) * c.backoff
			log.Info("retrying store request", zap.Int("attempt", attempt+1), zap.Int("max", attempts), zap.Duration("backoff", wait))
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w (last error: %v)", ctx.Err(), lastErr)
			case <-time.After(wait):
			}
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			log.Warn("store request failed", zap.Int("attempt", attempt+1), zap.Error(err))
			lastErr = err
			if ctx.Err() != nil {
				return nil, err
			}
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			log.Warn("failed to read store response", zap.Int("attempt", attempt+1), zap.Error(err))
			lastErr = err
			continue
		}

		log.Debug("store response", zap.Int("status", resp.StatusCode), zap.Int("bytes", len(respBody)))

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			lastErr = &StatusError{Status: resp.StatusCode, Body: string(respBody)}
			if retryable(resp.StatusCode) {
				log.Warn("store returned retryable status", zap.Int("status", resp.StatusCode), zap.Int("attempt", attempt+1))
				continue
			}
			log.Warn("store returned error status", zap.Int("status", resp.StatusCode))
			return nil, lastErr
		}

		return respBody, nil
	}

	if attempts > 1 {
		return nil, fmt.Errorf("max retries (%d) exceeded: %w", attempts, lastErr)
	}
	return nil, lastErr
}

// persistResponse is the store's answer to POST /journal
type persistResponse struct {
	Success bool  `json:"success"`
	EntryID int64 `json:"entry_id"`
}

// Persist posts one entry. Entries carrying a submission ID are retried since
// the store deduplicates on it; others get a single attempt.
func (c *StoreClient) Persist(ctx context.Context, entry *model.JournalEntry) (err error) {
	start := time.Now()
	defer func() { c.metrics.observeStore("persist", start, err) }()

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode entry: %w", err)
	}

	attempts := 1
	if entry.SubmissionID != "" {
		attempts = c.maxRetries
	}

	respBody, err := c.doRequest(ctx, http.MethodPost, "/journal", payload, attempts)
	if err != nil {
		return err
	}

	var resp persistResponse
	if len(respBody) > 0 {
		if jsonErr := json.Unmarshal(respBody, &resp); jsonErr != nil {
			c.logger.Warn("unrecognized persist response", zap.ByteString("body", respBody))
		}
	}
	if resp.EntryID != 0 {
		entry.EntryID = resp.EntryID
	}
	c.logger.Info("entry persisted", zap.Int64("entry_id", entry.EntryID), zap.String("submission_id", entry.SubmissionID))
	return nil
}

// FetchAll lists every persisted entry
func (c *StoreClient) FetchAll(ctx context.Context) (entries []model.JournalEntry, err error) {
	start := time.Now()
	defer func() { c.metrics.observeStore("fetch_all", start, err) }()

	respBody, err := c.doRequest(ctx, http.MethodGet, "/journal/all", nil, 1)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(respBody, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse entries: %w", err)
	}
	if entries == nil {
		entries = []model.JournalEntry{}
	}
	return entries, nil
}

// Trigger requests enrichment of pending entries
func (c *StoreClient) Trigger(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.metrics.observeStore("recommend", start, err) }()

	respBody, err := c.doRequest(ctx, http.MethodPost, "/recommend", nil, 1)
	if err != nil {
		return err
	}

	var result struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("failed to parse recommend response: %w", err)
	}
	c.logger.Info("recommendations triggered", zap.String("message", result.Message))
	return nil
}
