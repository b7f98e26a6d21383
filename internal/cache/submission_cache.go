package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ClaimResult is the outcome of claiming a submission ID
type ClaimResult int

const (
	// ClaimAcquired means the caller owns the submission and must persist it.
	ClaimAcquired ClaimResult = iota
	// ClaimPending means another request with the same ID is still running.
	ClaimPending
	// ClaimStored means the submission was already persisted.
	ClaimStored
)

func (r ClaimResult) String() string {
	switch r {
	case ClaimAcquired:
		return "acquired"
	case ClaimPending:
		return "pending"
	case ClaimStored:
		return "stored"
	}
	return fmt.Sprintf("ClaimResult(%d)", int(r))
}

const (
	statePending = "pending"
	stateStored  = "stored"
)

// SubmissionCache guards submission IDs so a client retry after a lost
// response does not create a second entry
type SubmissionCache interface {
	Claim(ctx context.Context, submissionID string) (ClaimResult, error)
	MarkStored(ctx context.Context, submissionID string) error
	Release(ctx context.Context, submissionID string) error
}

type submissionCache struct {
	client     redis.Cmdable
	pendingTTL time.Duration
	storedTTL  time.Duration
}

// NewSubmissionCache creates a submission guard. pendingTTL bounds how long a
// claim survives without MarkStored; storedTTL how long a stored ID is remembered.
func NewSubmissionCache(client redis.Cmdable, pendingTTL, storedTTL time.Duration) SubmissionCache {
	return &submissionCache{
		client:     client,
		pendingTTL: pendingTTL,
		storedTTL:  storedTTL,
	}
}

func (c *submissionCache) key(submissionID string) string {
	return fmt.Sprintf("submission:%s", submissionID)
}

func (c *submissionCache) Claim(ctx context.Context, submissionID string) (ClaimResult, error) {
	ok, err := c.client.SetNX(ctx, c.key(submissionID), statePending, c.pendingTTL).Result()
	if err != nil {
		return ClaimAcquired, err
	}
	if ok {
		return ClaimAcquired, nil
	}

	state, err := c.client.Get(ctx, c.key(submissionID)).Result()
	if err == redis.Nil {
		// expired between SETNX and GET; try once more
		ok, err = c.client.SetNX(ctx, c.key(submissionID), statePending, c.pendingTTL).Result()
		if err != nil {
			return ClaimAcquired, err
		}
		if ok {
			return ClaimAcquired, nil
		}
		return ClaimPending, nil
	}
	if err != nil {
		return ClaimAcquired, err
	}
	if state == stateStored {
		return ClaimStored, nil
	}
	return ClaimPending, nil
}

func (c *submissionCache) MarkStored(ctx context.Context, submissionID string) error {
	return c.client.Set(ctx, c.key(submissionID), stateStored, c.storedTTL).Err()
}

func (c *submissionCache) Release(ctx context.Context, submissionID string) error {
	return c.client.Del(ctx, c.key(submissionID)).Err()
}
