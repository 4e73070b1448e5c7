package coordinator

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/thomasgermain/go-mypyllant/mypyllant"
)

// Coordinator polls the vendor API and holds the latest snapshot of all
// systems. The snapshot is replaced wholesale on every refresh; readers get
// the current slice and must not mutate it.
type Coordinator struct {
	api          mypyllant.Client
	refreshDelay time.Duration

	mu           sync.RWMutex
	data         []mypyllant.System
	lastRefresh  time.Time
	refreshTimer *time.Timer
}

func New(api mypyllant.Client, refreshDelay time.Duration) *Coordinator {
	return &Coordinator{
		api:          api,
		refreshDelay: refreshDelay,
	}
}

func (c *Coordinator) API() mypyllant.Client {
	return c.api
}

// Data returns the current snapshot. May be nil before the first successful
// refresh.
func (c *Coordinator) Data() []mypyllant.System {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.data
}

func (c *Coordinator) LastRefreshed() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lastRefresh
}

// Refresh fetches a fresh snapshot and swaps it in.
func (c *Coordinator) Refresh(ctx context.Context) error {
	systems, err := c.api.GetSystems(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.data = systems
	c.lastRefresh = time.Now()
	c.mu.Unlock()

	return nil
}

// RequestDelayedRefresh schedules a refresh after the configured backoff,
// giving the remote device time to apply a command before the next poll.
// Overlapping requests are debounced onto a single pending refresh.
func (c *Coordinator) RequestDelayedRefresh() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.refreshTimer != nil {
		c.refreshTimer.Reset(c.refreshDelay)
		return
	}

	c.refreshTimer = time.AfterFunc(c.refreshDelay, func() {
		c.mu.Lock()
		c.refreshTimer = nil
		c.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := c.Refresh(ctx); err != nil {
			log.Printf("Delayed refresh failed: %v", err)
		}
	})
}
