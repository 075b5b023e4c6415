package rtm

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const requestTimeout = 3 * time.Second

// Clock abstracts wall-clock time so the rate limiter is testable.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Transport issues HTTP GET requests against the API and enforces the
// service's rate limit of one request per second: no two requests may
// leave within the same wall-clock second. The last request time is
// tracked here rather than inferred from cache file timestamps.
type Transport struct {
	client      *http.Client
	clock       Clock
	logger      *zap.Logger
	lastRequest time.Time
}

func NewTransport(logger *zap.Logger) *Transport {
	return &Transport{
		client: &http.Client{Timeout: requestTimeout},
		clock:  systemClock{},
		logger: logger,
	}
}

// NewTransportWithClock is used by tests to inject a fake clock.
func NewTransportWithClock(logger *zap.Logger, clock Clock) *Transport {
	t := NewTransport(logger)
	t.clock = clock
	return t
}

// Get fetches url and returns the response body. A non-200 status is a
// *TransportError; timeouts surface as plain transport failures.
func (t *Transport) Get(url string) (string, error) {
	t.throttle()

	resp, err := t.client.Get(url)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &TransportError{Status: resp.StatusCode, Body: string(body)}
	}
	return string(body), nil
}

func (t *Transport) throttle() {
	now := t.clock.Now()
	if !t.lastRequest.IsZero() && now.Unix() == t.lastRequest.Unix() {
		t.logger.Debug("sleeping for 1s to prevent rate limit")
		t.clock.Sleep(time.Second)
		now = t.clock.Now()
	}
	t.lastRequest = now
}
