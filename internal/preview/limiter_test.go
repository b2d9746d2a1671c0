package preview

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_PerClient(t *testing.T) {
	l := NewLimiter(0.001, 1)

	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))

	// Other clients have their own bucket
	assert.True(t, l.Allow("10.0.0.2"))
	assert.Equal(t, 2, l.Clients())
}

// fakeClock is a settable time source
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestLimiter_DropsIdleClients(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)}
	l := NewLimiter(0.001, 1)
	l.now = clock.now

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))
	assert.Equal(t, 2, l.Clients())

	clock.t = clock.t.Add(clientIdle + time.Minute)
	assert.True(t, l.Allow("10.0.0.3"))
	assert.Equal(t, 1, l.Clients())

	// A returning client starts with a fresh bucket
	assert.True(t, l.Allow("10.0.0.1"))
	assert.Equal(t, 2, l.Clients())
}

func TestLimiter_CapsClients(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)}
	l := NewLimiter(0.001, 1)
	l.now = clock.now
	l.maxClients = 2

	for _, client := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		assert.True(t, l.Allow(client))
		clock.t = clock.t.Add(time.Second)
	}
	assert.Equal(t, 2, l.Clients())

	// 10.0.0.2 was kept and is still throttled, 10.0.0.1 was evicted
	assert.False(t, l.Allow("10.0.0.2"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.Equal(t, 2, l.Clients())
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(0, 0)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("10.0.0.1"))
	}
}

func TestClientHost(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	req.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "192.0.2.7", clientHost(req))

	req.RemoteAddr = "[2001:db8::1]:80"
	assert.Equal(t, "2001:db8::1", clientHost(req))

	req.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", clientHost(req))
}
