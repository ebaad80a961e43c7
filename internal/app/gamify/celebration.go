package gamify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trailforge/trailforge/internal/domain"
	"github.com/trailforge/trailforge/internal/infra/metrics"
)

// CelebrationQueue watches (totalXP, level) pairs and serializes celebration
// events for the UI. Level increase queues a full celebration, XP increase
// without a level-up queues a lightweight popup. Decreases (a data reset)
// are ignored so a wipe never triggers a false celebration. FIFO order:
// overlapping triggers display sequentially, never concurrently.
type CelebrationQueue struct {
	mu        sync.Mutex
	queue     []domain.Celebration
	lastXP    int64
	lastLevel int
	primed    bool

	// broadcast, when set, mirrors every queued event to a push channel
	// (the websocket hub). Called outside the lock.
	broadcast func(domain.Celebration)
}

// NewCelebrationQueue creates an empty queue.
func NewCelebrationQueue() *CelebrationQueue {
	return &CelebrationQueue{}
}

// SetBroadcast registers a push callback for queued events.
func (q *CelebrationQueue) SetBroadcast(fn func(domain.Celebration)) {
	q.mu.Lock()
	q.broadcast = fn
	q.mu.Unlock()
}

// Observe feeds a new (totalXP, level) pair. The first observation only
// primes the baseline: a fresh process must not celebrate state it merely
// loaded from disk.
func (q *CelebrationQueue) Observe(totalXP int64, level int) {
	q.mu.Lock()

	if !q.primed {
		q.primed = true
		q.lastXP = totalXP
		q.lastLevel = level
		q.mu.Unlock()
		return
	}

	prevXP, prevLevel := q.lastXP, q.lastLevel
	q.lastXP = totalXP
	q.lastLevel = level

	// Decreases mean a data reset, never an earn. Ignore.
	if totalXP < prevXP || level < prevLevel {
		q.mu.Unlock()
		return
	}

	var c domain.Celebration
	switch {
	case level > prevLevel:
		c = q.pushLocked(domain.CelebrationLevelUp, totalXP, level, totalXP-prevXP)
	case totalXP > prevXP:
		c = q.pushLocked(domain.CelebrationXPGain, totalXP, level, totalXP-prevXP)
	default:
		q.mu.Unlock()
		return
	}
	fn := q.broadcast
	q.mu.Unlock()

	if fn != nil {
		fn(c)
	}
}

// pushLocked appends a celebration. Caller holds the lock.
func (q *CelebrationQueue) pushLocked(kind domain.CelebrationKind, totalXP int64, level int, gained int64) domain.Celebration {
	c := domain.Celebration{
		ID:        uuid.NewString(),
		Kind:      kind,
		Level:     level,
		TotalXP:   totalXP,
		XPGained:  gained,
		CreatedAt: time.Now(),
	}
	q.queue = append(q.queue, c)
	metrics.CelebrationsQueued.WithLabelValues(string(kind)).Inc()
	return c
}

// Next pops the oldest pending celebration. Returns false when empty.
func (q *CelebrationQueue) Next() (domain.Celebration, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.queue) == 0 {
		return domain.Celebration{}, false
	}
	c := q.queue[0]
	q.queue = q.queue[1:]
	return c, true
}

// Pending returns a copy of the queued celebrations, oldest first.
func (q *CelebrationQueue) Pending() []domain.Celebration {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]domain.Celebration, len(q.queue))
	copy(out, q.queue)
	return out
}
