// Package client talks to the LunaLog API server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"lunalog/internal/model"
)

// DegradedHeader marks a listing served empty because the store was unreachable
const DegradedHeader = "X-Lunalog-Degraded"

// Client is a thin HTTP client for the API server
type Client struct {
	baseURL    string
	httpClient *http.Client
	dialer     *websocket.Dialer
	logger     *zap.Logger
}

// New creates a client for baseURL
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		dialer:     &websocket.Dialer{HandshakeTimeout: timeout},
		logger:     logger.Named("api_client"),
	}
}

// APIError is a non-200 answer from the server
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned %d", e.Status)
	}
	return fmt.Sprintf("api returned %d: %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("api response", zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		var msg model.Ack
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &msg) != nil {
			msg.Message = strings.TrimSpace(string(data))
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg.Message}
	}
	return resp, nil
}

// Submit sends a finished questionnaire
func (c *Client) Submit(ctx context.Context, req model.SubmitRequest) error {
	resp, err := c.do(ctx, http.MethodPost, "/submit", req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var ack model.Ack
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return fmt.Errorf("failed to parse submit response: %w", err)
	}
	c.logger.Info("submitted", zap.String("submission_id", req.SubmissionID), zap.String("message", ack.Message))
	return nil
}

// ListEntries fetches every entry. A degraded listing is empty with Degraded
// set and Err wrapping model.ErrRetrievalDegraded.
func (c *Client) ListEntries(ctx context.Context) (model.EntryListing, error) {
	resp, err := c.do(ctx, http.MethodGet, "/journalEntries", nil)
	if err != nil {
		return model.EntryListing{}, err
	}
	defer resp.Body.Close()

	var entries []model.JournalEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return model.EntryListing{}, fmt.Errorf("failed to parse entries: %w", err)
	}
	if entries == nil {
		entries = []model.JournalEntry{}
	}

	listing := model.EntryListing{Entries: entries}
	if resp.Header.Get(DegradedHeader) == "true" {
		listing.Degraded = true
		listing.Err = fmt.Errorf("%w: server could not reach the journal store", model.ErrRetrievalDegraded)
	}
	return listing, nil
}

// Catalog fetches the server's questionnaire
func (c *Client) Catalog(ctx context.Context) (*model.Catalog, error) {
	resp, err := c.do(ctx, http.MethodGet, "/catalog", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var catalog model.Catalog
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if catalog.Len() == 0 {
		return nil, errors.New("server returned an empty catalog")
	}
	return &catalog, nil
}

// Follow streams live events to fn until ctx is done or the connection drops.
// A nil error means ctx ended the stream.
func (c *Client) Follow(ctx context.Context, fn func(model.Event)) error {
	u, err := url.Parse(c.baseURL + "/ws/entries")
	if err != nil {
		return fmt.Errorf("invalid base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}

	conn, _, err := c.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to open event stream: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	})
	defer stop()

	for {
		var event model.Event
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("event stream: %w", err)
		}
		fn(event)
	}
}
