package geocode

import (
	"context"
	"sync"
	"time"
)

// Nominatim's usage policy is effectively one request per second; 1.1s
// leaves headroom for clock skew between us and the provider.
const MinRequestInterval = 1100 * time.Millisecond

// Pacer serializes outbound lookups so that a minimum interval separates
// any two requests process-wide, regardless of how many callers are in
// flight. One instance is shared by the whole process via the composition
// root.
type Pacer struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
}

func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval}
}

// Wait blocks until the caller owns the next request slot, or until ctx
// is done. Slots are handed out in arrival order under the mutex, so the
// spacing holds even when many queries geocode concurrently.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	now := time.Now()
	wait := p.next.Sub(now)
	if wait < 0 {
		wait = 0
	}
	p.next = now.Add(wait + p.interval)
	p.mu.Unlock()

	if wait == 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
