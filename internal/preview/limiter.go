package preview

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// clientIdle is how long a client bucket survives without requests
	clientIdle = 10 * time.Minute
	// maxClients bounds the bucket map; the least recently seen client goes first
	maxClients = 4096
)

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter applies a token bucket per client host. Idle buckets are dropped
// and the number of tracked clients is capped.
type Limiter struct {
	clients    map[string]*clientBucket
	mu         sync.Mutex
	rate       rate.Limit
	burst      int
	idle       time.Duration
	maxClients int
	lastSweep  time.Time
	now        func() time.Time
}

// NewLimiter creates a limiter allowing requestsPerSecond per client with
// the given burst. A non-positive rate disables limiting.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	return &Limiter{
		clients:    make(map[string]*clientBucket),
		rate:       limit,
		burst:      burst,
		idle:       clientIdle,
		maxClients: maxClients,
		now:        time.Now,
	}
}

// Allow reports whether client may make a request now
func (l *Limiter) Allow(client string) bool {
	return l.get(client).Allow()
}

func (l *Limiter) get(client string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		l.sweep(now)
	}

	b, ok := l.clients[client]
	if !ok {
		if len(l.clients) >= l.maxClients {
			l.evictOldest()
		}
		b = &clientBucket{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[client] = b
	}
	b.lastSeen = now
	return b.limiter
}

// sweep drops buckets idle for longer than l.idle. Caller holds l.mu.
func (l *Limiter) sweep(now time.Time) {
	for client, b := range l.clients {
		if now.Sub(b.lastSeen) > l.idle {
			delete(l.clients, client)
		}
	}
	l.lastSweep = now
}

// evictOldest drops the least recently seen bucket. Caller holds l.mu.
func (l *Limiter) evictOldest() {
	var oldest string
	var seen time.Time
	for client, b := range l.clients {
		if oldest == "" || b.lastSeen.Before(seen) {
			oldest, seen = client, b.lastSeen
		}
	}
	delete(l.clients, oldest)
}

// Clients returns the number of tracked clients
func (l *Limiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Middleware rejects requests over the client's rate with 429
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientHost(r)) {
			w.Header().Set("Retry-After", "1")
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientHost returns the remote host without port
func clientHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
