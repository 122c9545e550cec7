package api

import (
	"sync"
	"time"

	"github.com/KirkDiggler/lenslink/internal/common/clock"
	"golang.org/x/time/rate"
)

// idleClient is how long a client may go unseen before its limiter is dropped
const idleClient = 3 * time.Minute

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// clientLimiter keeps one token bucket per client. Stale buckets are swept on
// the request path, at most once per idleClient.
type clientLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	r         rate.Limit
	burst     int
	clock     clock.Clock
	lastSweep time.Time
}

func newClientLimiter(perMinute, burst int, clk clock.Clock) *clientLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &clientLimiter{
		clients: make(map[string]*client),
		r:       rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   burst,
		clock:   clk,
	}
}

func (l *clientLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if now.Sub(l.lastSweep) > idleClient {
		for k, c := range l.clients {
			if now.Sub(c.seen) > idleClient {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	c, ok := l.clients[key]
	if !ok {
		c = &client{lim: rate.NewLimiter(l.r, l.burst)}
		l.clients[key] = c
	}
	c.seen = now

	return c.lim.AllowN(now, 1)
}

func (l *clientLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}
