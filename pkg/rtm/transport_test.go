package rtm

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeClock advances only when Sleep is called.
type fakeClock struct {
	now   time.Time
	slept time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.slept += d
	c.now = c.now.Add(d)
}

func TestTransportGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	tr := NewTransport(zaptest.NewLogger(t))
	body, err := tr.Get(srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "hello", body)
}

func TestTransportBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	tr := NewTransport(zaptest.NewLogger(t))
	_, err := tr.Get(srv.URL)
	require.Error(t, err)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, http.StatusServiceUnavailable, terr.Status)
	assert.Contains(t, terr.Body, "service down")
}

func TestTransportRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	clock := &fakeClock{now: time.Date(2024, 2, 24, 12, 0, 0, 0, time.UTC)}
	tr := NewTransportWithClock(zaptest.NewLogger(t), clock)

	_, err := tr.Get(srv.URL)
	require.NoError(t, err)
	assert.Zero(t, clock.slept, "first request must not sleep")

	// Second request in the same wall-clock second has to wait.
	_, err = tr.Get(srv.URL)
	require.NoError(t, err)
	assert.Equal(t, time.Second, clock.slept)

	// A request in a fresh second passes straight through.
	clock.now = clock.now.Add(5 * time.Second)
	_, err = tr.Get(srv.URL)
	require.NoError(t, err)
	assert.Equal(t, time.Second, clock.slept)
}
