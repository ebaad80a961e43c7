package pedometer

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// SensorFunc reads the platform's cumulative step counter.
type SensorFunc func(ctx context.Context) (int64, error)

// Tracker is the scoped sensor subscription: started on app activation,
// stopped deterministically on teardown, restartable on foreground
// transitions. It polls the sensor and feeds readings into the validator,
// which applies its own throttle on top.
type Tracker struct {
	validator *Validator
	read      SensorFunc
	interval  time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewTracker creates a tracker polling read every interval.
func NewTracker(v *Validator, read SensorFunc, interval time.Duration) *Tracker {
	return &Tracker{validator: v, read: read, interval: interval}
}

// Start begins polling. Returns an error if already running.
func (t *Tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return fmt.Errorf("tracker already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	go t.loop(ctx)
	return nil
}

// Stop releases the subscription. Safe to call when not running.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// Running reports whether the subscription is active.
func (t *Tracker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

func (t *Tracker) loop(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := t.read(ctx)
			if err != nil {
				log.Printf("[pedometer] sensor read: %v", err)
				continue
			}
			t.validator.Update(count)
		}
	}
}
