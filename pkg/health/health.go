// Package health exposes Kubernetes-style liveness and readiness probes.
//
// Registered checks run on a shared background ticker. A check flips to
// unhealthy only after failing several times in a row, and recovers on the
// first subsequent pass, so a single slow poll does not bounce the pod.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc probes a single component. A nil return means healthy.
type CheckFunc func(ctx context.Context) error

const (
	failuresToUnhealthy = 3
	passesToHealthy     = 1
)

// check tracks the rolling state of one registered probe.
type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc

	mu      sync.Mutex
	healthy bool
	fails   int
	passes  int
	lastErr error
}

func newCheck(name string, timeout time.Duration, fn CheckFunc) *check {
	// Start healthy so a service is not reported broken before the first poll.
	return &check{name: name, timeout: timeout, fn: fn, healthy: true}
}

// exec runs the probe once and folds the result into the threshold counters.
func (c *check) exec(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.fn(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
	if err != nil {
		c.passes = 0
		if c.fails++; c.fails >= failuresToUnhealthy {
			c.healthy = false
		}
		return
	}
	c.fails = 0
	if c.passes++; c.passes >= passesToHealthy {
		c.healthy = true
	}
}

// state returns the current health flag and the error from the last poll.
func (c *check) state() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.healthy, c.lastErr
}

// Service aggregates liveness and readiness checks for one process.
// It starts not ready; call SetReady(true) once startup wiring completes.
type Service struct {
	ready atomic.Bool

	mu        sync.RWMutex
	liveness  []*check
	readiness []*check
	cancel    context.CancelFunc
}

// New returns an empty Service with no checks registered.
func New() *Service {
	return &Service{}
}

// AddLivenessCheck registers a probe that decides whether the process itself
// is still functioning, such as a goroutine leak detector.
func (s *Service) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liveness = append(s.liveness, newCheck(name, timeout, fn))
}

// AddReadinessCheck registers a probe that decides whether the service can
// accept traffic, such as reachability of an upstream dependency.
func (s *Service) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readiness = append(s.readiness, newCheck(name, timeout, fn))
}

// Start launches one goroutine per registered check, polling at interval.
// Register all checks before calling Start.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.cancel = cancel
	all := make([]*check, 0, len(s.liveness)+len(s.readiness))
	all = append(all, s.liveness...)
	all = append(all, s.readiness...)
	s.mu.Unlock()

	for _, c := range all {
		go poll(ctx, c, interval)
	}
}

func poll(ctx context.Context, c *check, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.exec(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.exec(ctx)
		}
	}
}

// SetReady flips the manual readiness gate. Pass false during graceful
// shutdown so load balancers drain the instance before it stops.
func (s *Service) SetReady(ready bool) {
	s.ready.Store(ready)
}

// IsReady reports whether the manual gate is open and every readiness check
// is currently passing.
func (s *Service) IsReady() bool {
	if !s.ready.Load() {
		return false
	}

	s.mu.RLock()
	checks := s.readiness
	s.mu.RUnlock()

	for _, c := range checks {
		if ok, _ := c.state(); !ok {
			return false
		}
	}
	return true
}

// Stop cancels the background pollers. Safe to call more than once.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

type statusResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LiveEndpoint serves the /livez probe.
func (s *Service) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	checks := make([]*check, len(s.liveness))
	copy(checks, s.liveness)
	s.mu.RUnlock()

	writeStatus(w, failures(checks))
}

// ReadyEndpoint serves the /readyz probe. It reports unhealthy until the
// manual gate is open, even when every registered check passes.
func (s *Service) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	checks := make([]*check, len(s.readiness))
	copy(checks, s.readiness)
	s.mu.RUnlock()

	failed := failures(checks)
	if !s.ready.Load() {
		failed["_readiness"] = "service is not ready"
	}
	writeStatus(w, failed)
}

func failures(checks []*check) map[string]string {
	failed := make(map[string]string)
	for _, c := range checks {
		if ok, err := c.state(); !ok {
			if err != nil {
				failed[c.name] = err.Error()
			} else {
				failed[c.name] = "check is unhealthy"
			}
		}
	}
	return failed
}

func writeStatus(w http.ResponseWriter, failed map[string]string) {
	w.Header().Set("Content-Type", "application/json")

	resp := statusResponse{Status: "ok"}
	code := http.StatusOK
	if len(failed) > 0 {
		resp.Status = "unhealthy"
		resp.Checks = failed
		code = http.StatusServiceUnavailable
	}

	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
