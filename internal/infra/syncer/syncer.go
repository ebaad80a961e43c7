// Package syncer pushes derived progress totals to the remote community
// endpoint. The merge strategy is deliberately simple: local wins if
// greater, otherwise the greater remote total is recorded — never a blind
// overwrite. Failures are soft; the next XP change triggers the next push.
package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/trailforge/trailforge/internal/app/gamify"
	"github.com/trailforge/trailforge/internal/domain"
	"github.com/trailforge/trailforge/internal/infra/store"
)

// Client pushes totals to one remote endpoint using the bearer token stored
// locally. It implements gamify.Syncer.
type Client struct {
	db       *store.DB
	endpoint string
	http     *http.Client
}

// New creates a sync client for the given endpoint URL.
func New(db *store.DB, endpoint string) *Client {
	return &Client{
		db:       db,
		endpoint: endpoint,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

type pushRequest struct {
	TotalPoints          int64  `json:"totalPoints"`
	CompletedActivities  int    `json:"completedActivities"`
	CompletedExpeditions int    `json:"completedExpeditions"`
	DeviceID             string `json:"deviceId,omitempty"`
}

type pushResponse struct {
	Success     bool  `json:"success"`
	TotalPoints int64 `json:"totalPoints"` // server's total, 0 if not reported
}

// Push sends the totals when a token is present and the local total exceeds
// the last-known remote total. A greater remote total is adopted as the new
// watermark instead of being overwritten.
func (c *Client) Push(ctx context.Context, t gamify.Totals) error {
	token, err := c.db.Get(store.KeyAuthToken)
	if err != nil {
		return fmt.Errorf("read auth token: %w", err)
	}
	if token == "" {
		return domain.ErrNoAuthToken
	}

	lastKnown := c.lastSyncedTotal()
	if t.TotalPoints <= lastKnown {
		return nil // Remote is already at or ahead of us
	}

	deviceID, _ := c.db.Get(store.KeyDeviceID)
	body, err := json.Marshal(pushRequest{
		TotalPoints:          t.TotalPoints,
		CompletedActivities:  t.CompletedActivities,
		CompletedExpeditions: t.CompletedExpeditions,
		DeviceID:             deviceID,
	})
	if err != nil {
		return fmt.Errorf("marshal sync body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sync request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", domain.ErrSyncRejected, resp.StatusCode)
	}

	var out pushResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode sync response: %w", err)
	}
	if !out.Success {
		return domain.ErrSyncRejected
	}

	// Record the watermark: ours, or the server's if it knows better.
	newTotal := t.TotalPoints
	if out.TotalPoints > newTotal {
		newTotal = out.TotalPoints
	}
	c.record(newTotal)

	return nil
}

// lastSyncedTotal reads the last-known remote total. Absent or garbled reads
// count as zero.
func (c *Client) lastSyncedTotal() int64 {
	raw, err := c.db.Get(store.KeyLastSyncedTotal)
	if err != nil || raw == "" {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// record persists the sync watermark and timestamp. Write failures are only
// logged — a lost watermark means one redundant push later, nothing worse.
func (c *Client) record(total int64) {
	if err := c.db.Set(store.KeyLastSyncedTotal, strconv.FormatInt(total, 10)); err != nil {
		log.Printf("[syncer] record total: %v", err)
	}
	if err := c.db.Set(store.KeyLastSyncAt, strconv.FormatInt(time.Now().Unix(), 10)); err != nil {
		log.Printf("[syncer] record timestamp: %v", err)
	}
}
